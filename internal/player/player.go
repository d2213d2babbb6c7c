package player

import (
	"errors"
)

// ErrLaunchFailed is returned when the player process could not be started
var ErrLaunchFailed = errors.New("failed to launch player")

// ErrNoFiles is returned when asked to play an empty list
var ErrNoFiles = errors.New("no files to play")

// Config describes how the external player is invoked
type Config struct {
	Command  string   // Player executable, looked up in PATH
	Args     []string // Arguments placed before the files
	Trailing []string // Arguments placed after the files
	FileURLs bool     // Pass files as file:// URLs instead of plain paths
	Quiet    bool     // Discard the player's stdout and stderr
}

// DefaultConfig plays the files with VLC's console interface and exits when done
func DefaultConfig() Config {
	return Config{
		Command:  "cvlc",
		Trailing: []string{"vlc://quit"},
		FileURLs: true,
		Quiet:    true,
	}
}

// Launcher hands the final file list to a media player
type Launcher interface {
	// Launch starts the player with files in order. Implementations that
	// replace the current process do not return on success.
	Launch(files []string) error
}
