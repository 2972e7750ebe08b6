// Package device defines the peripherals the player core talks to.
// The core only sees these interfaces; host implementations live in the sub-packages.
package device

import (
	"errors"
	"io/fs"
	"time"
)

var (
	ErrMount          = errors.New("storage mount failed")
	ErrNotConfigured  = errors.New("audio output not configured")
	ErrReleased       = errors.New("audio output released")
	ErrUnsupportedPCM = errors.New("unsupported pcm format")
)

// Screen geometry of the handheld display, in pixels.
const (
	ScreenWidth  = 240
	ScreenHeight = 135
)

// Font is a fixed-size bitmap font.
type Font struct {
	Name   string
	Width  int
	Height int
}

var (
	LargeFont = Font{Name: "vga2_16x32", Width: 16, Height: 32}
	SmallFont = Font{Name: "vga1_8x16", Width: 8, Height: 16}
)

// Color is a "#rrggbb" hex colour.
type Color string

type ChannelMode int

const (
	Mono ChannelMode = iota + 1
	Stereo
)

func (m ChannelMode) String() string {
	switch m {
	case Mono:
		return "mono"
	case Stereo:
		return "stereo"
	default:
		return "unknown"
	}
}

// Storage is the removable volume holding the music directory.
// Paths are slash separated and relative to the volume root.
type Storage interface {
	Mount() error
	Unmount() error
	// ListDir returns entry names in the order the filesystem enumerates them.
	ListDir(path string) ([]string, error)
	Open(path string) (fs.File, error)
}

type Display interface {
	Fill(c Color)
	DrawText(f Font, text string, x, y int, c Color)
	FillRect(x, y, w, h int, c Color)
	Present() error
}

// AudioOut is the PCM output peripheral. Write blocks until the chunk has been accepted.
type AudioOut interface {
	Configure(sampleRate, bitDepth int, mode ChannelMode) error
	Write(p []byte) error
	Release() error
}

type Beeper interface {
	Play(notes []string, d time.Duration, volume int) error
}

type Overlay interface {
	Error(msg string)
	Notice(lines []string, hold time.Duration)
}

type Keyboard interface {
	// PollNewKeys returns keys pressed since the previous poll without blocking.
	PollNewKeys() []Key
}
