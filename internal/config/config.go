package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jfmyers9/play/internal/catalog"
	"github.com/jfmyers9/play/internal/player"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultRoot is the directory searched when no root is configured
const DefaultRoot = "/media/common/audio"

// Config holds application configuration
type Config struct {
	// Directory tree searched for audio files
	Root string

	// Recognized audio file extensions
	Extensions []string

	// Show "Artist - Title" from tags instead of relative paths
	ShowTags bool

	// Start in wide mode (match against the path relative to Root)
	Wide bool

	// External player invocation
	Player player.Config

	// Logging
	LogLevel string
	LogFile  string
}

// flagKeys maps command-line flag names to configuration keys
var flagKeys = map[string]string{
	"root":      "root",
	"wide":      "wide",
	"tags":      "tags",
	"player":    "player.command",
	"log-level": "log_level",
	"log-file":  "log_file",
}

// Load reads configuration from defaults, PLAY_* environment variables and
// any of the given flags that were set on the command line. Flags win over
// the environment. No configuration file is read.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	defaults := player.DefaultConfig()

	// Set defaults
	v.SetDefault("root", DefaultRoot)
	v.SetDefault("wide", false)
	v.SetDefault("tags", false)
	v.SetDefault("player.command", defaults.Command)
	v.SetDefault("player.args", defaults.Args)
	v.SetDefault("player.trailing", defaults.Trailing)
	v.SetDefault("player.file_urls", defaults.FileURLs)
	v.SetDefault("player.quiet", defaults.Quiet)
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_file", "")

	// Read from environment variables, e.g. PLAY_PLAYER_COMMAND
	v.SetEnvPrefix("PLAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %q: %w", name, err)
			}
		}
	}

	// Map config to struct
	cfg := &Config{
		Root:       expandPath(v.GetString("root")),
		Extensions: catalog.DefaultExtensions,
		ShowTags:   v.GetBool("tags"),
		Wide:       v.GetBool("wide"),
		Player: player.Config{
			Command:  v.GetString("player.command"),
			Args:     v.GetStringSlice("player.args"),
			Trailing: v.GetStringSlice("player.trailing"),
			FileURLs: v.GetBool("player.file_urls"),
			Quiet:    v.GetBool("player.quiet"),
		},
		LogLevel: strings.ToLower(v.GetString("log_level")),
		LogFile:  expandPath(v.GetString("log_file")),
	}

	if cfg.Root == "" {
		return nil, fmt.Errorf("root directory must not be empty")
	}

	return cfg, nil
}

// expandPath replaces a leading ~ with the user's home directory
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
