package session

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/jfmyers9/play/internal/catalog"
	"github.com/rs/zerolog"
)

// ErrActionUnavailable is returned when an action's precondition does not hold
var ErrActionUnavailable = errors.New("action not available")

// Searcher finds audio files matching a pattern
type Searcher interface {
	Search(pattern catalog.Pattern, mode catalog.Mode) ([]catalog.Entry, error)
}

// Session holds the state of one selection pass: the current pattern,
// match mode and result list. It is not safe for concurrent use.
type Session struct {
	searcher Searcher
	pattern  catalog.Pattern
	mode     catalog.Mode
	files    []catalog.Entry
	ready    bool
	logger   zerolog.Logger
}

// New creates a session and runs the initial search
func New(searcher Searcher, pattern catalog.Pattern, mode catalog.Mode, logger zerolog.Logger) (*Session, error) {
	if len(pattern) == 0 {
		return nil, catalog.ErrEmptyPattern
	}

	s := &Session{
		searcher: searcher,
		pattern:  pattern,
		mode:     mode,
		logger:   logger.With().Str("component", "session").Logger(),
	}

	if err := s.rescanWith(pattern, mode); err != nil {
		return nil, err
	}

	return s, nil
}

// Files returns the current result list
func (s *Session) Files() []catalog.Entry {
	return s.files
}

// Paths returns the absolute paths of the current result list
func (s *Session) Paths() []string {
	paths := make([]string, len(s.files))
	for i, f := range s.files {
		paths[i] = f.Path
	}
	return paths
}

// Pattern returns the current search pattern
func (s *Session) Pattern() catalog.Pattern {
	return s.pattern
}

// Mode returns the current match mode
func (s *Session) Mode() catalog.Mode {
	return s.mode
}

// Ready reports whether the list has been finalized for playback
func (s *Session) Ready() bool {
	return s.ready
}

// State returns the state used to compute the available actions
func (s *Session) State() State {
	return State{Mode: s.mode, Empty: len(s.files) == 0}
}

// ValidActions returns the actions available right now
func (s *Session) ValidActions() []Action {
	return ValidActions(s.State())
}

// Allowed reports whether a can be applied right now
func (s *Session) Allowed(a Action) bool {
	return allowed(a, s.State())
}

// Play finalizes the list for playback
func (s *Session) Play() error {
	if err := s.require(ActionPlay); err != nil {
		return err
	}
	s.ready = true
	s.logger.Debug().Int("files", len(s.files)).Msg("Ready to play")
	return nil
}

// Mix shuffles the list in place
func (s *Session) Mix() error {
	if err := s.require(ActionMix); err != nil {
		return err
	}
	Mix(s.files)
	s.logger.Debug().Int("files", len(s.files)).Msg("Mixed")
	return nil
}

// Widen switches to matching against the path relative to the root and rescans
func (s *Session) Widen() error {
	if err := s.require(ActionWiden); err != nil {
		return err
	}
	return s.rescanWith(s.pattern, catalog.ModeWide)
}

// Narrow switches to matching against the base name and rescans
func (s *Session) Narrow() error {
	if err := s.require(ActionNarrow); err != nil {
		return err
	}
	return s.rescanWith(s.pattern, catalog.ModeNarrow)
}

// Search replaces the pattern and rescans
func (s *Session) Search(pattern catalog.Pattern) error {
	if len(pattern) == 0 {
		return catalog.ErrEmptyPattern
	}
	return s.rescanWith(pattern, s.mode)
}

// Filter runs a filter pass over the list, see Filter
func (s *Session) Filter(decide Decider) error {
	if err := s.require(ActionFilter); err != nil {
		return err
	}

	kept, err := Filter(s.files, decide)
	if err != nil {
		return err
	}

	s.logger.Debug().
		Int("before", len(s.files)).
		Int("after", len(kept)).
		Msg("Filtered")
	s.files = kept
	return nil
}

func (s *Session) require(a Action) error {
	if !s.Allowed(a) {
		return fmt.Errorf("%w: %s", ErrActionUnavailable, a.Label())
	}
	return nil
}

// rescanWith searches with pattern and mode and only adopts them on success
func (s *Session) rescanWith(pattern catalog.Pattern, mode catalog.Mode) error {
	files, err := s.searcher.Search(pattern, mode)
	if err != nil {
		return fmt.Errorf("failed to search for %q: %w", pattern.String(), err)
	}

	s.pattern = pattern
	s.mode = mode
	s.files = files
	s.logger.Debug().
		Str("pattern", s.pattern.String()).
		Str("mode", s.mode.String()).
		Int("files", len(files)).
		Msg("Rescanned")
	return nil
}

// Mix shuffles files in place with a uniform random permutation
func Mix(files []catalog.Entry) {
	rand.Shuffle(len(files), func(i, j int) {
		files[i], files[j] = files[j], files[i]
	})
}
