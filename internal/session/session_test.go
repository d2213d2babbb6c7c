package session

import (
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/jfmyers9/play/internal/catalog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSearcher matches terms against in-memory relative paths
type fakeSearcher struct {
	rels  []string
	calls []catalog.Mode
	err   error
}

func (f *fakeSearcher) Search(pattern catalog.Pattern, mode catalog.Mode) ([]catalog.Entry, error) {
	f.calls = append(f.calls, mode)
	if f.err != nil {
		return nil, f.err
	}

	re, err := pattern.Compile()
	if err != nil {
		return nil, err
	}

	var out []catalog.Entry
	for _, rel := range f.rels {
		name := strings.TrimSuffix(rel, ".mp3")
		if mode == catalog.ModeNarrow {
			name = name[strings.LastIndex(name, "/")+1:]
		}
		if re.MatchString(name) {
			out = append(out, catalog.Entry{Path: "/music/" + rel, Rel: rel})
		}
	}
	return out, nil
}

func newSession(t *testing.T, searcher Searcher, terms ...string) *Session {
	t.Helper()
	pattern, err := catalog.NewPattern(terms...)
	require.NoError(t, err)
	s, err := New(searcher, pattern, catalog.ModeNarrow, zerolog.Nop())
	require.NoError(t, err)
	return s
}

func TestValidActions(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  []Action
	}{
		{
			name:  "files in narrow mode",
			state: State{Mode: catalog.ModeNarrow},
			want:  []Action{ActionPlay, ActionFilter, ActionMix, ActionWiden, ActionSearch, ActionQuit},
		},
		{
			name:  "files in wide mode",
			state: State{Mode: catalog.ModeWide},
			want:  []Action{ActionPlay, ActionFilter, ActionMix, ActionNarrow, ActionSearch, ActionQuit},
		},
		{
			name:  "empty in narrow mode",
			state: State{Mode: catalog.ModeNarrow, Empty: true},
			want:  []Action{ActionWiden, ActionSearch, ActionQuit},
		},
		{
			name:  "empty in wide mode",
			state: State{Mode: catalog.ModeWide, Empty: true},
			want:  []Action{ActionSearch, ActionQuit},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidActions(tt.state))
		})
	}
}

func TestParseAction(t *testing.T) {
	empty := ValidActions(State{Mode: catalog.ModeNarrow, Empty: true})

	tests := []struct {
		name  string
		key   rune
		valid []Action
		want  Action
		ok    bool
	}{
		{name: "lower case", key: 's', valid: empty, want: ActionSearch, ok: true},
		{name: "upper case", key: 'W', valid: empty, want: ActionWiden, ok: true},
		{name: "play on empty list", key: 'p', valid: empty, ok: false},
		{name: "unknown key", key: 'x', valid: empty, ok: false},
		{name: "enter", key: '\r', valid: empty, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAction(tt.key, tt.valid)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestAction_Label(t *testing.T) {
	assert.Equal(t, "(p)LAY", ActionPlay.Label())
	assert.Equal(t, "(n)ARROW", ActionNarrow.Label())
	assert.Equal(t, "(q)UIT", ActionQuit.Label())
	assert.Equal(t, "(z)", Action('z').Label())
}

func TestSession_WidenNarrow(t *testing.T) {
	searcher := &fakeSearcher{rels: []string{"a/song1.mp3", "b/song2.mp3", "b/other.mp3"}}
	s := newSession(t, searcher, "b", "song")

	assert.Empty(t, s.Files())
	assert.False(t, s.Allowed(ActionPlay))
	assert.ErrorIs(t, s.Play(), ErrActionUnavailable)
	assert.ErrorIs(t, s.Narrow(), ErrActionUnavailable)

	require.NoError(t, s.Widen())
	assert.Equal(t, catalog.ModeWide, s.Mode())
	assert.Equal(t, []string{"/music/b/song2.mp3"}, s.Paths())
	assert.ErrorIs(t, s.Widen(), ErrActionUnavailable)

	require.NoError(t, s.Narrow())
	assert.Equal(t, catalog.ModeNarrow, s.Mode())
	assert.Empty(t, s.Files())

	assert.Equal(t, []catalog.Mode{catalog.ModeNarrow, catalog.ModeWide, catalog.ModeNarrow}, searcher.calls)
}

func TestSession_Search(t *testing.T) {
	searcher := &fakeSearcher{rels: []string{"a/song1.mp3", "b/song2.mp3"}}
	s := newSession(t, searcher, "nothing")
	assert.Empty(t, s.Files())

	assert.ErrorIs(t, s.Search(nil), catalog.ErrEmptyPattern)

	require.NoError(t, s.Search(catalog.Pattern{"song"}))
	assert.Equal(t, "song", s.Pattern().String())
	assert.Equal(t, []string{"/music/a/song1.mp3", "/music/b/song2.mp3"}, s.Paths())
}

func TestSession_PlayAndMix(t *testing.T) {
	searcher := &fakeSearcher{rels: []string{"a.mp3", "ab.mp3", "abc.mp3", "abcd.mp3"}}
	s := newSession(t, searcher, "a")

	require.NoError(t, s.Mix())
	got := s.Paths()
	sort.Strings(got)
	assert.Equal(t, []string{"/music/a.mp3", "/music/ab.mp3", "/music/abc.mp3", "/music/abcd.mp3"}, got)

	assert.False(t, s.Ready())
	require.NoError(t, s.Play())
	assert.True(t, s.Ready())
}

func TestSession_Filter(t *testing.T) {
	searcher := &fakeSearcher{rels: []string{"ta.mp3", "tb.mp3", "tc.mp3"}}
	s := newSession(t, searcher, "t")

	answers := []Decision{DecisionYes, DecisionNo, DecisionYes}
	i := 0
	err := s.Filter(func(catalog.Entry) (Decision, error) {
		d := answers[i]
		i++
		return d, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/music/ta.mp3", "/music/tc.mp3"}, s.Paths())
}

func TestSession_SearchError(t *testing.T) {
	boom := errors.New("boom")
	_, err := New(&fakeSearcher{err: boom}, catalog.Pattern{"x"}, catalog.ModeNarrow, zerolog.Nop())
	assert.ErrorIs(t, err, boom)

	_, err = New(&fakeSearcher{}, nil, catalog.ModeNarrow, zerolog.Nop())
	assert.ErrorIs(t, err, catalog.ErrEmptyPattern)
}

func TestSession_FailedRescanKeepsState(t *testing.T) {
	searcher := &fakeSearcher{rels: []string{"a/song1.mp3", "b/song2.mp3"}}
	s := newSession(t, searcher, "song")
	require.Len(t, s.Files(), 2)

	searcher.err = errors.New("disk gone")

	assert.ErrorIs(t, s.Widen(), searcher.err)
	assert.Equal(t, catalog.ModeNarrow, s.Mode())

	assert.ErrorIs(t, s.Search(catalog.Pattern{"other"}), searcher.err)
	assert.Equal(t, catalog.Pattern{"song"}, s.Pattern())
	assert.Equal(t, []string{"/music/a/song1.mp3", "/music/b/song2.mp3"}, s.Paths())

	searcher.err = nil
	require.NoError(t, s.Widen())
	assert.Equal(t, catalog.ModeWide, s.Mode())

	searcher.err = errors.New("disk gone")
	assert.ErrorIs(t, s.Narrow(), searcher.err)
	assert.Equal(t, catalog.ModeWide, s.Mode())
}

func TestMix_IsPermutation(t *testing.T) {
	for n := 0; n < 20; n++ {
		files := make([]catalog.Entry, n)
		for i := range files {
			files[i] = catalog.Entry{Path: string(rune('a' + i))}
		}
		orig := append([]catalog.Entry(nil), files...)

		Mix(files)

		require.Len(t, files, n)
		assert.ElementsMatch(t, orig, files)
	}
}
