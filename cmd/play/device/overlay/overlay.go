// Package overlay shows modal error boxes and transient notices on top of the player screen.
package overlay

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/gigurra/easywav/cmd/play/config"
	"github.com/gigurra/easywav/cmd/play/device"
	"github.com/gigurra/easywav/cmd/play/display"
	"github.com/mattn/go-runewidth"
)

const (
	DefaultErrorHold = 3 * time.Second

	pollInterval = 20 * time.Millisecond
	errorTitle   = "Error"
	notifyTitle  = "easywav"
	padding      = 8
	lineHeight   = device.SmallFont.Height
	maxLines     = 5
	lineChars    = display.SmallCharsPerScreen - 2*padding/device.SmallFont.Width - 2
)

// Notifier forwards a message to the host desktop.
type Notifier func(title, message string) error

// DesktopNotify sends a native desktop notification.
func DesktopNotify(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Overlay implements device.Overlay on a display and keyboard.
type Overlay struct {
	display device.Display
	keys    device.Keyboard
	cfg     *config.Config

	// Notify, when set, mirrors every error to the desktop.
	Notify    Notifier
	ErrorHold time.Duration
	Now       func() time.Time
	Sleep     func(time.Duration)
}

func New(d device.Display, keys device.Keyboard, cfg *config.Config) *Overlay {
	o := &Overlay{
		display:   d,
		keys:      keys,
		cfg:       cfg,
		ErrorHold: DefaultErrorHold,
		Now:       time.Now,
		Sleep:     time.Sleep,
	}
	if cfg.DesktopNotify {
		o.Notify = DesktopNotify
	}
	return o
}

// Error draws msg in a box and blocks until a key is pressed or ErrorHold passes.
// The dismissing key is consumed.
func (o *Overlay) Error(msg string) {
	slog.Warn("showing error", "message", msg)

	lines := wrap(msg)
	h := (len(lines)+1)*lineHeight + 2*padding
	y := (device.ScreenHeight - h) / 2
	x := display.Margin

	o.display.FillRect(x, y, device.ScreenWidth-2*x, h, o.cfg.Color(config.SlotError))
	o.display.DrawText(device.SmallFont, errorTitle, x+padding, y+padding, o.cfg.Color(config.SlotText))
	for i, line := range lines {
		o.display.DrawText(device.SmallFont, line, x+padding, y+padding+(i+1)*lineHeight, o.cfg.Color(config.SlotText))
	}
	if err := o.display.Present(); err != nil {
		slog.Warn("failed to present error overlay", "error", err)
	}

	if o.Notify != nil {
		if err := o.Notify(notifyTitle, msg); err != nil {
			slog.Debug("desktop notification failed", "error", err)
		}
	}

	o.waitForKey()
}

// Notice shows lines centred on a cleared screen for hold.
func (o *Overlay) Notice(lines []string, hold time.Duration) {
	o.display.Fill(o.cfg.Background())

	font := device.LargeFont
	for _, line := range lines {
		if runewidth.StringWidth(line) > display.CharsPerScreen {
			font = device.SmallFont
			break
		}
	}

	top := (device.ScreenHeight - len(lines)*font.Height) / 2
	for i, line := range lines {
		x := (device.ScreenWidth - runewidth.StringWidth(line)*font.Width) / 2
		o.display.DrawText(font, line, max(x, 0), top+i*font.Height, o.cfg.Color(config.SlotText))
	}
	if err := o.display.Present(); err != nil {
		slog.Warn("failed to present notice", "error", err)
	}
	o.Sleep(hold)
}

func (o *Overlay) waitForKey() {
	o.keys.PollNewKeys() // drop anything pressed before the box appeared
	deadline := o.Now().Add(o.ErrorHold)
	for o.Now().Before(deadline) {
		if len(o.keys.PollNewKeys()) > 0 {
			return
		}
		o.Sleep(pollInterval)
	}
}

// wrap breaks msg into at most maxLines lines that fit the box, marking a cut with "...".
func wrap(msg string) []string {
	lines := strings.Split(runewidth.Wrap(strings.TrimSpace(msg), lineChars), "\n")
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] = runewidth.Truncate(lines[maxLines-1]+"...", lineChars, "...")
	}
	for i, line := range lines {
		lines[i] = runewidth.Truncate(line, lineChars, "...")
	}
	return lines
}
