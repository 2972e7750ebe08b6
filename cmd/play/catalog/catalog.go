// Package catalog lists the playable tracks found on the storage volume.
package catalog

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/samber/lo"
)

const (
	MusicDir  = "music"
	Extension = ".wav"
)

var ErrListing = errors.New("failed to list music directory")

// Lister is the part of the storage volume the catalog needs.
type Lister interface {
	ListDir(path string) ([]string, error)
}

// Catalog holds the ordered track list shown in the library.
// Refresh replaces the list wholesale; returned slices are never mutated afterwards.
type Catalog struct {
	lister Lister
	tracks []Track
}

func New(lister Lister) *Catalog {
	return &Catalog{lister: lister}
}

// Refresh re-reads the music directory. On failure the catalog is left empty.
func (c *Catalog) Refresh() error {
	names, err := c.lister.ListDir(MusicDir)
	if err != nil {
		c.tracks = nil
		return fmt.Errorf("%w: %w", ErrListing, err)
	}

	playable := lo.Filter(names, func(name string, _ int) bool {
		return IsPlayable(name)
	})
	c.tracks = lo.Map(playable, func(name string, _ int) Track {
		return NewTrack(name)
	})
	return nil
}

func (c *Catalog) Tracks() []Track {
	return c.tracks
}

func (c *Catalog) Len() int {
	return len(c.tracks)
}

func (c *Catalog) Empty() bool {
	return len(c.tracks) == 0
}

// At returns the track at index i, or false when i is out of range.
func (c *Catalog) At(i int) (Track, bool) {
	if i < 0 || i >= len(c.tracks) {
		return Track{}, false
	}
	return c.tracks[i], true
}

// IsPlayable reports whether name carries the supported container extension, ignoring case.
func IsPlayable(name string) bool {
	return strings.EqualFold(path.Ext(name), Extension)
}

// TrackPath is the volume-relative path of a track.
func TrackPath(t Track) string {
	return path.Join(MusicDir, t.Name)
}
