package catalog

import (
	"path"
	"strings"
)

const labelSeparator = " - "

// Track is one playable file in the catalog. Name is relative to the music directory.
type Track struct {
	Name  string
	Label Label
}

// Label is what the playback screen shows for a track.
// Parsed is set when the file stem had the "Artist - Album - Song" form.
type Label struct {
	Artist string
	Album  string
	Song   string
	Parsed bool
	raw    string
}

func NewTrack(name string) Track {
	return Track{Name: name, Label: ParseLabel(name)}
}

// ParseLabel splits the file stem on " - ". Exactly three parts yield a parsed label,
// anything else keeps the raw filename.
func ParseLabel(name string) Label {
	stem := strings.TrimSuffix(name, path.Ext(name))
	parts := strings.Split(stem, labelSeparator)
	if len(parts) != 3 {
		return Label{raw: name}
	}
	return Label{
		Artist: parts[0],
		Album:  parts[1],
		Song:   parts[2],
		Parsed: true,
		raw:    name,
	}
}

// Lines renders the label the way the playback screen lists it.
func (l Label) Lines() []string {
	if l.Parsed {
		return []string{
			"Artist: " + l.Artist,
			"Album: " + l.Album,
			"Song: " + l.Song,
		}
	}
	return []string{"Playing: " + l.raw}
}

func (l Label) String() string {
	return strings.Join(l.Lines(), ", ")
}
