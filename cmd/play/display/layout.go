package display

import (
	"fmt"
	"math"

	"github.com/gigurra/easywav/cmd/play/device"
	"github.com/gigurra/easywav/cmd/play/scroll"
	"github.com/mattn/go-runewidth"
)

const (
	Margin = 10

	RowHeight           = device.LargeFont.Height
	CharsPerScreen      = device.ScreenWidth / device.LargeFont.Width
	SmallCharsPerScreen = device.ScreenWidth / device.SmallFont.Width

	ScrollPeriodMs  = 5000
	ScrollbarWidth  = 3
	ScrollbarStartX = device.ScreenWidth - ScrollbarWidth

	BarWidth     = device.ScreenWidth - 2*Margin
	BarHeight    = 10
	barGap       = 10 // between the info block and the bar
	timeGap      = 5  // between the bar and the time text
	reservedBarH = 20
)

// FillWidth is the filled part of a progress bar of the given width, floor(elapsed/total*width)
// clamped to [0,width]. A non-positive total gives an empty bar.
func FillWidth(elapsed, total float64, width int) int {
	if total <= 0 || width <= 0 || math.IsNaN(elapsed) {
		return 0
	}
	fill := math.Floor(elapsed / total * float64(width))
	if fill <= 0 {
		return 0
	}
	if fill >= float64(width) {
		return width
	}
	return int(fill)
}

// FormatTime renders whole seconds as MM:SS.
func FormatTime(seconds float64) string {
	s := 0
	if seconds > 0 {
		s = int(seconds)
	}
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}

// LabelOffset is the horizontal pixel shift of a selected label at nowMs.
// Labels that fit the column are not shifted.
func LabelOffset(text string, nowMs int64) int {
	overflow := runewidth.StringWidth(text) - CharsPerScreen
	if overflow <= 0 {
		return 0
	}
	distance := float64(overflow * device.LargeFont.Width)
	return -int(scroll.Offset(nowMs, ScrollPeriodMs) * distance)
}

// truncate shortens text to the small-font column budget, marking the cut with "...".
func truncate(text string) string {
	return runewidth.Truncate(text, SmallCharsPerScreen, "...")
}
