/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jfmyers9/play/internal/catalog"
	"github.com/jfmyers9/play/internal/config"
	"github.com/jfmyers9/play/internal/menu"
	"github.com/jfmyers9/play/internal/player"
	"github.com/jfmyers9/play/internal/session"
	"github.com/jfmyers9/play/internal/tags"
	"github.com/jfmyers9/play/internal/terminal"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// Exit codes
const (
	exitFailure            = 1
	exitCatalogUnavailable = 2
	exitLaunchFailed       = 3
	exitInterrupted        = 130
)

// errNoMatches is returned by list when nothing matched. It is not printed.
var errNoMatches = errors.New("no matching files")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "play [terms...]",
	Short: "Search audio files by name and play them",
	Long: `play searches a music directory for audio files whose name contains
the given terms, in order and ignoring case, and plays them with an
external player.

  play lucy diamonds

The matches are listed and a single key picks what happens next:

  (p)LAY    start the player with the listed files
  (f)ILTER  go through the files one by one, keeping the ones you want
  (m)IX     shuffle the list
  (w)IDEN   match against the path below the music directory as well
  (n)ARROW  match against the file name only
  (s)EARCH  enter new search terms
  (q)UIT    exit without playing

Without terms you are asked for them. The player replaces this process;
by default it is VLC's console interface (cvlc), which exits after the
last file.

Configuration comes from flags and PLAY_* environment variables:
  PLAY_ROOT, PLAY_PLAYER_COMMAND, PLAY_PLAYER_ARGS, PLAY_PLAYER_TRAILING,
  PLAY_PLAYER_FILE_URLS, PLAY_PLAYER_QUIET, PLAY_TAGS, PLAY_WIDE,
  PLAY_LOG_LEVEL, PLAY_LOG_FILE

Exit codes:
  0   - Quit, or the player was started
  1   - Other failure
  2   - Music directory missing or unreadable
  3   - Player could not be started
  130 - Interrupted`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPlay,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		if !errors.Is(err, errNoMatches) && !errors.Is(err, terminal.ErrInterrupted) {
			fmt.Fprintf(os.Stderr, "play: %v\n", err)
		}
		os.Exit(exitCode(err))
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("root", "r", "", "Music directory to search (default "+config.DefaultRoot+")")
	flags.BoolP("wide", "w", false, "Match against the path below the music directory")
	flags.Bool("tags", false, "Show artist and title from tags instead of paths")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("log-file", "", "Log file path (default: stderr)")

	rootCmd.Flags().String("player", "", "Player command (default cvlc)")
}

// exitCode maps an error returned by a command to the process exit status
func exitCode(err error) int {
	switch {
	case errors.Is(err, catalog.ErrCatalogUnavailable):
		return exitCatalogUnavailable
	case errors.Is(err, player.ErrLaunchFailed):
		return exitLaunchFailed
	case errors.Is(err, terminal.ErrInterrupted):
		return exitInterrupted
	default:
		return exitFailure
	}
}

func runPlay(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := setupLogger(cfg.LogFile, cfg.LogLevel)
	logger.Debug().
		Str("version", version).
		Str("root", cfg.Root).
		Msg("Starting play")

	cat := catalog.New(cfg.Root, cfg.Extensions, logger)
	tty := terminal.New(os.Stdin)
	launcher := player.NewExecLauncher(cfg.Player, logger)

	opts := []menu.Option{
		menu.WithWidth(terminal.Width(os.Stdout)),
		menu.WithLogger(logger),
	}
	if cfg.ShowTags {
		opts = append(opts, menu.WithDescriber(tags.Describe))
	}

	return playSession(cfg, cat, tty, tty, cmd.OutOrStdout(), launcher, args, logger, opts...)
}

// playSession runs the interactive menu over searcher and hands the final
// list to launcher. Quitting or closing the input returns nil without launching.
func playSession(cfg *config.Config, searcher session.Searcher, keys menu.KeyReader, lines menu.LineReader, out io.Writer, launcher player.Launcher, args []string, logger zerolog.Logger, opts ...menu.Option) error {
	console := menu.New(keys, lines, out, opts...)

	pattern, err := catalog.NewPattern(args...)
	if errors.Is(err, catalog.ErrEmptyPattern) {
		pattern, err = console.PromptPattern()
	}
	if err != nil {
		return endOfInput(err)
	}

	mode := catalog.ModeNarrow
	if cfg.Wide {
		mode = catalog.ModeWide
	}

	sess, err := session.New(searcher, pattern, mode, logger)
	if err != nil {
		return err
	}

	outcome, err := console.Run(sess)
	if err != nil {
		return endOfInput(err)
	}
	if outcome == menu.OutcomeQuit {
		return nil
	}

	return launcher.Launch(sess.Paths())
}

// endOfInput treats a closed input like quitting
func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
