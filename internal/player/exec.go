package player

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

// ExecLauncher implements Launcher by replacing the current process with the player
type ExecLauncher struct {
	config   Config
	logger   zerolog.Logger
	lookPath func(file string) (string, error)
	exec     func(argv0 string, argv []string, envv []string) error
	fds      fdOps
}

// fdOps are the file descriptor calls used to silence the player
type fdOps struct {
	dup   func(oldfd int) (int, error)
	dup2  func(oldfd, newfd int) error
	close func(fd int) error
}

// NewExecLauncher creates a launcher for the given player configuration
func NewExecLauncher(cfg Config, logger zerolog.Logger) *ExecLauncher {
	return &ExecLauncher{
		config:   cfg,
		logger:   logger.With().Str("component", "player").Logger(),
		lookPath: exec.LookPath,
		exec:     unix.Exec,
		fds: fdOps{
			dup:   dupCloseOnExec,
			dup2:  unix.Dup2,
			close: unix.Close,
		},
	}
}

// Argv builds the player's argument vector. Every file is a separate
// argument, so no shell quoting is involved.
func (l *ExecLauncher) Argv(files []string) []string {
	argv := make([]string, 0, 1+len(l.config.Args)+len(files)+len(l.config.Trailing))
	argv = append(argv, l.config.Command)
	argv = append(argv, l.config.Args...)
	for _, f := range files {
		if l.config.FileURLs {
			f = fileURL(f)
		}
		argv = append(argv, f)
	}
	return append(argv, l.config.Trailing...)
}

// Launch replaces the current process with the player. It only returns on failure.
func (l *ExecLauncher) Launch(files []string) error {
	if len(files) == 0 {
		return ErrNoFiles
	}
	if l.config.Command == "" {
		return fmt.Errorf("%w: no player command configured", ErrLaunchFailed)
	}

	binary, err := l.lookPath(l.config.Command)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLaunchFailed, err)
	}

	argv := l.Argv(files)
	l.logger.Debug().
		Str("binary", binary).
		Int("files", len(files)).
		Strs("argv", argv).
		Msg("Launching player")

	// Keep playing when the terminal goes away
	signal.Ignore(syscall.SIGHUP)

	restore := func() {}
	if l.config.Quiet {
		restore, err = l.discardOutput()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrLaunchFailed, err)
		}
	}

	err = l.exec(binary, argv, os.Environ())
	// unix.Exec only returns on failure and the error must reach the terminal
	restore()
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLaunchFailed, binary, err)
	}
	return nil
}

// discardOutput points stdout and stderr at /dev/null. The returned func
// puts the original descriptors back.
func (l *ExecLauncher) discardOutput() (func(), error) {
	devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", os.DevNull, err)
	}
	defer devNull.Close()

	targets := []int{int(os.Stdout.Fd()), int(os.Stderr.Fd())}
	saved := make(map[int]int, len(targets))

	restore := func() {
		for fd, copyFD := range saved {
			if err := l.fds.dup2(copyFD, fd); err != nil {
				l.logger.Warn().Err(err).Int("fd", fd).Msg("Failed to restore output")
			}
			_ = l.fds.close(copyFD)
		}
	}

	for _, fd := range targets {
		copyFD, err := l.fds.dup(fd)
		if err != nil {
			restore()
			return nil, fmt.Errorf("failed to save output: %w", err)
		}
		saved[fd] = copyFD

		if err := l.fds.dup2(int(devNull.Fd()), fd); err != nil {
			restore()
			return nil, fmt.Errorf("failed to redirect output: %w", err)
		}
	}
	return restore, nil
}

// dupCloseOnExec duplicates fd without leaking the copy into the player
func dupCloseOnExec(fd int) (int, error) {
	return unix.FcntlInt(uintptr(fd), unix.F_DUPFD_CLOEXEC, 0)
}

// fileURL converts a path to a file:// URL
func fileURL(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}
