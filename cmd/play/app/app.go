// Package app ties the player together: draw, poll input, dispatch, play, repeat.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/gigurra/easywav/cmd/play/catalog"
	"github.com/gigurra/easywav/cmd/play/config"
	"github.com/gigurra/easywav/cmd/play/device"
	"github.com/gigurra/easywav/cmd/play/display"
	"github.com/gigurra/easywav/cmd/play/menu"
	"github.com/gigurra/easywav/cmd/play/playback"
)

const (
	UpdateInterval = time.Second
	PollInterval   = 10 * time.Millisecond
	NoticeHold     = 2 * time.Second
	ToneDuration   = 30 * time.Millisecond

	errorMessageLimit = 20
	mountErrorMessage = "SD Card Mount Error"
)

var ErrUnexpected = errors.New("unexpected error")

var (
	toneUp      = []string{"G3", "B3"}
	toneDown    = []string{"D3", "B3"}
	toneConfirm = []string{"G3", "B3", "D3"}
	toneCancel  = []string{"D3", "B3", "G3"}
)

// Context carries every peripheral and setting the player uses.
// It is built once at startup; nothing in the player reaches for globals.
type Context struct {
	Storage  device.Storage
	Display  device.Display
	Keyboard device.Keyboard
	Audio    device.AudioOut
	Beeper   device.Beeper
	Overlay  device.Overlay
	Config   *config.Config

	// WatchCatalog, when set, is started after a successful mount and signals music directory changes.
	WatchCatalog func(ctx context.Context) (<-chan struct{}, error)

	Now   func() time.Time
	Sleep func(time.Duration)
	Rand  *rand.Rand
}

type App struct {
	c         Context
	catalog   *catalog.Catalog
	menu      *menu.Controller
	engine    *playback.Engine
	presenter *display.Presenter

	catalogChanged <-chan struct{}
	catalogFailing bool
}

func New(c Context) *App {
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Sleep == nil {
		c.Sleep = time.Sleep
	}
	if c.Rand == nil {
		c.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.Config == nil {
		c.Config = config.DefaultConfig()
	}

	cat := catalog.New(c.Storage)
	return &App{
		c:         c,
		catalog:   cat,
		menu:      menu.New(cat, c.Rand),
		engine:    playback.NewEngine(c.Storage, c.Audio, c.Keyboard, c.Now),
		presenter: display.NewPresenter(c.Display, c.Config),
	}
}

// Menu exposes the controller state, mostly for tests and diagnostics.
func (a *App) Menu() menu.State {
	return a.menu.State()
}

// Run mounts the volume, drives the loop until the user exits or ctx is cancelled,
// and unmounts exactly once on the way out. Errors escaping the loop are reported
// on the overlay before being returned.
func (a *App) Run(ctx context.Context) (err error) {
	defer func() {
		if unmountErr := a.c.Storage.Unmount(); unmountErr != nil {
			slog.Warn("failed to unmount storage", "error", unmountErr)
		}
	}()

	if mountErr := a.c.Storage.Mount(); mountErr != nil {
		slog.Error("failed to mount storage", "error", mountErr)
		a.c.Overlay.Error(mountErrorMessage)
	} else if a.c.WatchCatalog != nil {
		changed, watchErr := a.c.WatchCatalog(ctx)
		if watchErr != nil {
			slog.Warn("music directory watch disabled", "error", watchErr)
		}
		a.catalogChanged = changed
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrUnexpected, r)
		}
		if err != nil {
			slog.Error("player loop failed", "error", err)
			a.c.Overlay.Error(err.Error())
		}
	}()

	return a.loop(ctx)
}

func (a *App) loop(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			slog.Info("player loop stopped", "reason", context.Cause(ctx))
			return nil
		}

		a.syncCatalog()

		if err := a.presenter.DrawMenu(a.menu.State(), a.c.Now()); err != nil {
			return fmt.Errorf("failed to draw menu: %w", err)
		}

		for _, key := range a.c.Keyboard.PollNewKeys() {
			in := device.Translate(key)
			if in == device.InputNone {
				continue
			}
			exit, err := a.dispatch(ctx, a.menu.Handle(in))
			if err != nil {
				return err
			}
			if exit {
				slog.Info("exit requested from main menu")
				return nil
			}
		}

		a.c.Sleep(PollInterval)
	}
}

func (a *App) dispatch(ctx context.Context, act menu.Action) (exit bool, err error) {
	if act.Err != nil || (act.Kind == menu.ActionNavigate && act.Direction == menu.DirInto) {
		a.reportCatalog(act.Err)
	}

	switch act.Kind {
	case menu.ActionNavigate:
		switch act.Direction {
		case menu.DirUp:
			a.tone(toneUp)
		case menu.DirDown:
			a.tone(toneDown)
		case menu.DirInto:
			a.tone(toneConfirm)
		}
	case menu.ActionStartPlayback:
		a.tone(toneConfirm)
		return false, a.playFrom(ctx, act.Track)
	case menu.ActionRefresh:
		if len(act.Notice) > 0 {
			a.c.Overlay.Notice(act.Notice, NoticeHold)
		}
		a.refreshCatalog()
	case menu.ActionBack:
		a.tone(toneCancel)
	case menu.ActionExit:
		return true, nil
	}
	return false, nil
}

// playFrom plays track and, while the shuffle view is active, keeps picking
// one random next track each time a track ends on its own.
func (a *App) playFrom(ctx context.Context, track catalog.Track) error {
	for {
		status, err := a.play(ctx, track)
		if err != nil {
			if errors.Is(err, playback.ErrSessionActive) {
				return err
			}
			a.reportPlayback(err)
			return nil
		}
		if status != playback.StatusFinished {
			return nil
		}

		next := a.menu.NextShuffle()
		if next.Kind != menu.ActionStartPlayback {
			return nil
		}
		track = next.Track
	}
}

func (a *App) play(ctx context.Context, track catalog.Track) (playback.Status, error) {
	s, err := a.engine.Start(track)
	if err != nil {
		return playback.StatusFailed, err
	}
	defer func() {
		if err := a.engine.Stop(s); err != nil {
			slog.Warn("failed to stop playback", "track", track.Name, "error", err)
		}
	}()

	a.drawProgress(s)
	lastDraw := a.c.Now()

	for {
		if ctx.Err() != nil {
			return playback.StatusCancelled, nil
		}

		r := a.engine.Step(s)
		switch r.Status {
		case playback.StatusPlaying:
			if now := a.c.Now(); now.Sub(lastDraw) >= UpdateInterval {
				a.drawProgress(s)
				lastDraw = now
			}
		case playback.StatusFailed:
			return r.Status, r.Err
		case playback.StatusCancelled:
			// the interrupting keys are the stop request itself
			slog.Debug("playback stopped by key", "track", track.Name, "keys", r.Keys)
			return r.Status, nil
		default:
			return r.Status, nil
		}
	}
}

func (a *App) drawProgress(s *playback.Session) {
	if err := a.presenter.DrawPlayback(s.Progress()); err != nil {
		slog.Warn("failed to draw playback screen", "error", err)
	}
}

// syncCatalog rebuilds the catalog when the watcher reported a change on disk.
func (a *App) syncCatalog() {
	if a.catalogChanged == nil {
		return
	}
	select {
	case <-a.catalogChanged:
		a.refreshCatalog()
	default:
	}
}

func (a *App) refreshCatalog() {
	err := a.catalog.Refresh()
	a.menu.SyncLibrary()
	a.reportCatalog(err)
}

// reportCatalog shows a listing failure once per streak of failures.
func (a *App) reportCatalog(err error) {
	if err == nil {
		a.catalogFailing = false
		return
	}
	slog.Warn("catalog refresh failed", "error", err)
	if a.catalogFailing {
		return
	}
	a.catalogFailing = true
	a.c.Overlay.Error(err.Error())
}

func (a *App) reportPlayback(err error) {
	slog.Error("playback failed", "error", err)
	msg := []rune(err.Error())
	if len(msg) > errorMessageLimit {
		msg = msg[:errorMessageLimit]
	}
	a.c.Overlay.Error("Playback Error: " + string(msg))
}

func (a *App) tone(notes []string) {
	if !a.c.Config.UISound {
		return
	}
	if err := a.c.Beeper.Play(notes, ToneDuration, a.c.Config.Volume); err != nil {
		slog.Debug("feedback tone failed", "error", err)
	}
}
