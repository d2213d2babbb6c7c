package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrCatalogUnavailable is returned when the root directory cannot be scanned
var ErrCatalogUnavailable = errors.New("audio catalog unavailable")

// DefaultExtensions are the audio file extensions recognized by default
var DefaultExtensions = []string{"aac", "aiff", "flac", "m4a", "mp3", "ogg", "wav", "wma"}

// Mode selects which part of a file's path is matched against a Pattern
type Mode int

const (
	ModeNarrow Mode = iota // Base name only
	ModeWide               // Path relative to the root
)

// String returns a human-readable representation of the Mode
func (m Mode) String() string {
	switch m {
	case ModeNarrow:
		return "narrow"
	case ModeWide:
		return "wide"
	default:
		return "unknown"
	}
}

// Entry is an audio file found under the catalog root
type Entry struct {
	Path string // Absolute path
	Rel  string // Path relative to the catalog root
	Size int64  // Size in bytes at scan time
}

// Name returns the file's base name without its extension
func (e Entry) Name() string {
	return stripExt(filepath.Base(e.Path))
}

// Catalog searches a single root directory for audio files
type Catalog struct {
	root       string
	extensions map[string]struct{}
	logger     zerolog.Logger
}

// New creates a Catalog rooted at root that recognizes the given extensions.
// Extensions may be given with or without a leading dot, in any case.
func New(root string, extensions []string, logger zerolog.Logger) *Catalog {
	exts := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimPrefix(ext, "."))
		if ext != "" {
			exts["."+ext] = struct{}{}
		}
	}

	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}

	return &Catalog{
		root:       filepath.Clean(root),
		extensions: exts,
		logger:     logger.With().Str("component", "catalog").Logger(),
	}
}

// Root returns the directory this catalog searches
func (c *Catalog) Root() string {
	return c.root
}

// IsAudioFile reports whether path has a recognized extension
func (c *Catalog) IsAudioFile(path string) bool {
	_, ok := c.extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Search walks the root and returns every audio file whose mode-dependent
// name matches pattern, in traversal order.
func (c *Catalog) Search(pattern Pattern, mode Mode) ([]Entry, error) {
	re, err := pattern.Compile()
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern.String(), err)
	}

	info, err := os.Stat(c.root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrCatalogUnavailable, c.root)
	}

	// WalkDir does not follow a symlinked root
	walkRoot, err := filepath.EvalSymlinks(c.root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	start := time.Now()
	var entries []Entry

	err = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == walkRoot {
				return walkErr
			}
			// Skip unreadable entries below the root
			c.logger.Debug().Err(walkErr).Str("path", path).Msg("Skipping unreadable entry")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !c.IsAudioFile(path) {
			return nil
		}

		rel, err := filepath.Rel(walkRoot, path)
		if err != nil {
			return nil //nolint:nilerr // path is always under root
		}

		name := stripExt(d.Name())
		if mode == ModeWide {
			name = stripExt(rel)
		}
		if !re.MatchString(name) {
			return nil
		}

		var size int64
		if fi, err := d.Info(); err == nil {
			size = fi.Size()
		}

		entries = append(entries, Entry{Path: filepath.Join(c.root, rel), Rel: rel, Size: size})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	c.logger.Debug().
		Str("pattern", pattern.String()).
		Str("mode", mode.String()).
		Int("matches", len(entries)).
		Dur("elapsed", time.Since(start)).
		Msg("Search complete")

	return entries, nil
}

// stripExt removes the final extension from name
func stripExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
