// Package display draws the menu and playback screens through the display collaborator.
package display

import (
	"time"

	"github.com/gigurra/easywav/cmd/play/config"
	"github.com/gigurra/easywav/cmd/play/device"
	"github.com/gigurra/easywav/cmd/play/menu"
	"github.com/gigurra/easywav/cmd/play/playback"
	"github.com/mattn/go-runewidth"
)

const (
	emptyLibraryText = "No WAV files found"
	shuffleTitle     = "Shuffle"
	shuffleHint      = "ENT: next  ESC: back"
)

type Presenter struct {
	d   device.Display
	cfg *config.Config
}

func NewPresenter(d device.Display, cfg *config.Config) *Presenter {
	return &Presenter{d: d, cfg: cfg}
}

// DrawMenu renders the active menu view. now drives the scroll animation of long labels.
func (p *Presenter) DrawMenu(s menu.State, now time.Time) error {
	p.d.Fill(p.cfg.Background())
	switch s.View {
	case menu.ViewLibrary:
		p.drawLibrary(s, now.UnixMilli())
	case menu.ViewShuffle:
		p.drawShuffle(s)
	default:
		p.drawMain(s)
	}
	return p.d.Present()
}

func (p *Presenter) drawMain(s menu.State) {
	for idx, item := range s.Items {
		p.d.DrawText(device.LargeFont, item, Margin, idx*RowHeight, p.rowColor(idx == s.Cursor))
	}
}

func (p *Presenter) drawLibrary(s menu.State, nowMs int64) {
	if len(s.Tracks) == 0 {
		p.d.DrawText(device.LargeFont, emptyLibraryText, Margin, Margin, p.cfg.Color(config.SlotText))
		return
	}

	for idx := range menu.ItemsPerScreen {
		i := s.ViewStart + idx
		if i >= len(s.Tracks) {
			break
		}
		text := s.Tracks[i].Name
		selected := i == s.Cursor
		x := Margin
		if selected {
			x += LabelOffset(text, nowMs)
		}
		p.d.DrawText(device.LargeFont, text, x, idx*RowHeight, p.rowColor(selected))
	}

	n := len(s.Tracks)
	if n > menu.ItemsPerScreen {
		hidden := n - menu.ItemsPerScreen
		height := device.ScreenHeight / max(1, hidden+1)
		y := (device.ScreenHeight - height) * s.ViewStart / max(hidden, 1)
		p.d.FillRect(ScrollbarStartX, y, ScrollbarWidth, height, p.cfg.Color(config.SlotDim))
	}
}

func (p *Presenter) drawShuffle(s menu.State) {
	p.d.DrawText(device.LargeFont, shuffleTitle, Margin, 0, p.cfg.Color(config.SlotAccent))
	if s.HasShuffled {
		for i, line := range s.Shuffled.Label.Lines() {
			y := RowHeight + i*device.SmallFont.Height
			p.d.DrawText(device.SmallFont, truncate(line), Margin, y, p.cfg.Color(config.SlotText))
		}
	}
	p.d.DrawText(device.SmallFont, shuffleHint, Margin, device.ScreenHeight-device.SmallFont.Height,
		p.cfg.Color(config.SlotDim))
}

// DrawPlayback renders the now-playing screen for a progress snapshot.
func (p *Presenter) DrawPlayback(pr playback.Progress) error {
	p.d.Fill(p.cfg.Background())

	info := pr.Track.Label.Lines()
	lineH := device.SmallFont.Height
	startY := (device.ScreenHeight - (len(info)*lineH + reservedBarH)) / 2

	for idx, text := range info {
		p.d.DrawText(device.SmallFont, truncate(text), Margin, startY+idx*lineH, p.cfg.Color(config.SlotText))
	}

	barY := startY + len(info)*lineH + barGap
	p.d.FillRect(Margin, barY, BarWidth, BarHeight, p.cfg.Color(config.SlotDim))
	if fill := FillWidth(pr.ElapsedSeconds, pr.TotalSeconds, BarWidth); fill > 0 {
		p.d.FillRect(Margin, barY, fill, BarHeight, p.cfg.Color(config.SlotAccent))
	}

	timeText := FormatTime(pr.ElapsedSeconds) + " / " + FormatTime(pr.TotalSeconds)
	timeX := (device.ScreenWidth - runewidth.StringWidth(timeText)*device.SmallFont.Width) / 2
	p.d.DrawText(device.SmallFont, timeText, timeX, barY+BarHeight+timeGap, p.cfg.Color(config.SlotText))

	return p.d.Present()
}

func (p *Presenter) rowColor(selected bool) device.Color {
	if selected {
		return p.cfg.Color(config.SlotAccent)
	}
	return p.cfg.Color(config.SlotText)
}
