package tags

import (
	"os"
	"strings"

	"github.com/dhowden/tag"
	"github.com/jfmyers9/play/internal/catalog"
)

// Info holds the metadata used to describe a file
type Info struct {
	Title  string
	Artist string
	Album  string
	Track  int
}

// Read reads tag metadata from an audio file
func Read(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, err
	}

	track, _ := m.Track()
	return &Info{
		Title:  strings.TrimSpace(m.Title()),
		Artist: strings.TrimSpace(m.Artist()),
		Album:  strings.TrimSpace(m.Album()),
		Track:  track,
	}, nil
}

// Describe returns "Artist - Title" for a tagged file and falls back to the
// relative path when the file has no usable tags.
func Describe(e catalog.Entry) string {
	info, err := Read(e.Path)
	if err != nil || info.Title == "" || info.Artist == "" {
		return e.Rel
	}
	return info.Artist + " - " + info.Title
}
