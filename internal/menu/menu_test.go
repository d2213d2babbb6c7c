package menu

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/jfmyers9/play/internal/catalog"
	"github.com/jfmyers9/play/internal/session"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// scriptedInput replays keys and lines, returning io.EOF when exhausted
type scriptedInput struct {
	keys  []rune
	lines []string
}

func (s *scriptedInput) ReadKey() (rune, error) {
	if len(s.keys) == 0 {
		return 0, io.EOF
	}
	k := s.keys[0]
	s.keys = s.keys[1:]
	return k, nil
}

func (s *scriptedInput) ReadLine() (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	l := s.lines[0]
	s.lines = s.lines[1:]
	return l, nil
}

// fixture builds the tree used by the end-to-end scenario
func fixture(t *testing.T) *catalog.Catalog {
	t.Helper()

	root := t.TempDir()
	for _, f := range []string{"a/song1.mp3", "b/song2.wav", "b/notes.txt"} {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	}
	return catalog.New(root, catalog.DefaultExtensions, zerolog.Nop())
}

func rels(s *session.Session) []string {
	var out []string
	for _, f := range s.Files() {
		out = append(out, filepath.ToSlash(f.Rel))
	}
	return out
}

func start(t *testing.T, terms ...string) *session.Session {
	t.Helper()
	s, err := session.New(fixture(t), catalog.Pattern(terms), catalog.ModeNarrow, zerolog.Nop())
	require.NoError(t, err)
	return s
}

func TestConsole_PlayImmediately(t *testing.T) {
	s := start(t, "song")
	in := &scriptedInput{keys: []rune{'P'}}
	var out bytes.Buffer

	outcome, err := New(in, in, &out).Run(s)
	require.NoError(t, err)
	assert.Equal(t, OutcomePlay, outcome)
	assert.True(t, s.Ready())
	assert.Equal(t, []string{"a/song1.mp3", "b/song2.wav"}, rels(s))

	text := out.String()
	assert.Contains(t, text, "1. a/song1.mp3")
	assert.Contains(t, text, "2. b/song2.wav")
	assert.Contains(t, text, "2 files, 2 B")
	assert.Contains(t, text, "(p)LAY (f)ILTER (m)IX (w)IDEN (s)EARCH (q)UIT > ")
}

func TestConsole_PlayNotOfferedWhenEmpty(t *testing.T) {
	s := start(t, "b", "song")
	in := &scriptedInput{keys: []rune{'p', 'f', 'x', 'w', 'p'}}
	var out bytes.Buffer

	outcome, err := New(in, in, &out).Run(s)
	require.NoError(t, err)
	assert.Equal(t, OutcomePlay, outcome)
	assert.Equal(t, catalog.ModeWide, s.Mode())
	assert.Equal(t, []string{"b/song2.wav"}, rels(s))

	text := out.String()
	emptyPrompt := "(w)IDEN (s)EARCH (q)UIT > "
	assert.Equal(t, 4, strings.Count(text, emptyPrompt), "prompt repeated for each invalid key")
	assert.Contains(t, text, "(p)LAY (f)ILTER (m)IX (n)ARROW (s)EARCH (q)UIT > ")
}

func TestConsole_Quit(t *testing.T) {
	s := start(t, "song")
	in := &scriptedInput{keys: []rune{'q'}}
	var out bytes.Buffer

	outcome, err := New(in, in, &out).Run(s)
	require.NoError(t, err)
	assert.Equal(t, OutcomeQuit, outcome)
	assert.False(t, s.Ready())
	assert.Contains(t, out.String(), "bye\n")
}

func TestConsole_SearchRepromptsOnEmptyPattern(t *testing.T) {
	s := start(t, "nothing")
	in := &scriptedInput{
		keys:  []rune{'s', 'p'},
		lines: []string{"", "   ", "song2"},
	}
	var out bytes.Buffer

	outcome, err := New(in, in, &out).Run(s)
	require.NoError(t, err)
	assert.Equal(t, OutcomePlay, outcome)
	assert.Equal(t, "song2", s.Pattern().String())
	assert.Equal(t, []string{"b/song2.wav"}, rels(s))
	assert.Equal(t, 3, strings.Count(out.String(), "Search pattern > "))
}

func TestConsole_Filter(t *testing.T) {
	s := start(t, "song")
	in := &scriptedInput{keys: []rune{'f', 'z', 'N', 'y', 'p'}}
	var out bytes.Buffer

	outcome, err := New(in, in, &out).Run(s)
	require.NoError(t, err)
	assert.Equal(t, OutcomePlay, outcome)
	assert.Equal(t, []string{"b/song2.wav"}, rels(s))

	text := out.String()
	assert.Equal(t, 2, strings.Count(text, "a/song1.mp3 (y)ES (n)O (q)UIT > "))
	assert.Contains(t, text, "b/song2.wav (y)ES (n)O (q)UIT > ")
}

func TestConsole_FilterQuitDropsRemaining(t *testing.T) {
	s := start(t, "song")
	in := &scriptedInput{keys: []rune{'f', 'q', 'q'}}
	var out bytes.Buffer

	outcome, err := New(in, in, &out).Run(s)
	require.NoError(t, err)
	assert.Equal(t, OutcomeQuit, outcome)
	assert.Empty(t, s.Files())
	assert.Contains(t, out.String(), "(w)IDEN (s)EARCH (q)UIT > ")
}

func TestConsole_InputError(t *testing.T) {
	s := start(t, "song")
	in := &scriptedInput{}

	_, err := New(in, in, io.Discard).Run(s)
	assert.True(t, errors.Is(err, io.EOF))
}

func TestConsole_CatalogError(t *testing.T) {
	c := fixture(t)
	s, err := session.New(c, catalog.Pattern{"song"}, catalog.ModeNarrow, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(c.Root()))

	in := &scriptedInput{keys: []rune{'w'}}
	_, err = New(in, in, io.Discard).Run(s)
	assert.ErrorIs(t, err, catalog.ErrCatalogUnavailable)
}

func TestConsole_DisplayOptions(t *testing.T) {
	files := []catalog.Entry{
		{Rel: "Artist/A very long album name/01 An even longer track title.flac", Size: 2048},
	}
	var out bytes.Buffer

	c := New(nil, nil, &out, WithWidth(30), WithLogger(zerolog.Nop()))
	c.Display(files)
	assert.Contains(t, out.String(), "1. Artist/A very long album...\n")
	assert.Contains(t, out.String(), "1 file, 2.0 kB")

	out.Reset()
	c = New(nil, nil, &out, WithDescriber(func(e catalog.Entry) string { return "Artist - Title" }))
	c.Display(files)
	assert.Contains(t, out.String(), "1. Artist - Title\n")
}

func TestConsole_DisplayEmpty(t *testing.T) {
	var out bytes.Buffer
	New(nil, nil, &out).Display(nil)
	assert.Equal(t, "\n"+rule+"\n"+rule+"\n\n", out.String())
}
