// Package menu is the Main / Library / Shuffle state machine of the player.
// It performs no output: every input yields an Action that the main loop carries out.
package menu

import (
	"math/rand"

	"github.com/gigurra/easywav/cmd/play/catalog"
	"github.com/gigurra/easywav/cmd/play/device"
)

type View int

const (
	ViewMain View = iota
	ViewLibrary
	ViewShuffle
)

func (v View) String() string {
	switch v {
	case ViewLibrary:
		return "library"
	case ViewShuffle:
		return "shuffle"
	default:
		return "main"
	}
}

const (
	ItemLibrary  = "Library"
	ItemShuffle  = "Shuffle"
	ItemDownload = "Download"
)

// ItemsPerScreen is how many large-font rows fit on the display.
const ItemsPerScreen = device.ScreenHeight / device.LargeFont.Height

var MainItems = []string{ItemLibrary, ItemShuffle, ItemDownload}

var DownloadNotice = []string{"Download feature", "coming soon!"}

// State is a read-only snapshot for the presenter.
type State struct {
	View      View
	Cursor    int
	ViewStart int
	Items     []string
	Tracks    []catalog.Track
	// Shuffled is the last track picked in shuffle mode.
	Shuffled    catalog.Track
	HasShuffled bool
}

type Controller struct {
	catalog        *catalog.Catalog
	rng            *rand.Rand
	itemsPerScreen int

	view     View
	cursor   int // main menu cursor
	library  window
	shuffled *catalog.Track
}

func New(c *catalog.Catalog, rng *rand.Rand) *Controller {
	return &Controller{
		catalog:        c,
		rng:            rng,
		itemsPerScreen: ItemsPerScreen,
		view:           ViewMain,
	}
}

func (c *Controller) View() View {
	return c.view
}

func (c *Controller) State() State {
	s := State{View: c.view}
	switch c.view {
	case ViewLibrary:
		s.Cursor = c.library.cursor
		s.ViewStart = c.library.start
		s.Tracks = c.catalog.Tracks()
	case ViewShuffle:
		s.Tracks = c.catalog.Tracks()
	default:
		s.Cursor = c.cursor
		s.Items = MainItems
	}
	if c.shuffled != nil {
		s.Shuffled = *c.shuffled
		s.HasShuffled = true
	}
	return s
}

// Handle applies one semantic input.
func (c *Controller) Handle(in device.Input) Action {
	if in == device.InputBack {
		return c.back()
	}

	switch c.view {
	case ViewMain:
		switch in {
		case device.InputUp:
			c.cursor = wrap(c.cursor-1, len(MainItems))
			return navigate(DirUp)
		case device.InputDown:
			c.cursor = wrap(c.cursor+1, len(MainItems))
			return navigate(DirDown)
		case device.InputConfirm:
			return c.selectMain()
		}
	case ViewLibrary:
		switch in {
		case device.InputUp:
			if c.library.move(-1, c.catalog.Len(), c.itemsPerScreen) {
				return navigate(DirUp)
			}
		case device.InputDown:
			if c.library.move(1, c.catalog.Len(), c.itemsPerScreen) {
				return navigate(DirDown)
			}
		case device.InputConfirm:
			if t, ok := c.catalog.At(c.library.cursor); ok {
				return startPlayback(t)
			}
		}
	case ViewShuffle:
		if in == device.InputConfirm {
			return c.NextShuffle()
		}
	}
	return none()
}

// NextShuffle picks another random track while the shuffle view is active.
func (c *Controller) NextShuffle() Action {
	if c.view != ViewShuffle {
		return none()
	}
	t, ok := c.pickRandom()
	if !ok {
		return none()
	}
	return startPlayback(t)
}

// SyncLibrary re-clamps the library window after the catalog was refreshed from outside.
func (c *Controller) SyncLibrary() {
	c.library.clamp(c.catalog.Len(), c.itemsPerScreen)
}

func (c *Controller) selectMain() Action {
	switch MainItems[c.cursor] {
	case ItemLibrary:
		err := c.catalog.Refresh()
		c.library.clamp(c.catalog.Len(), c.itemsPerScreen)
		c.view = ViewLibrary
		a := navigate(DirInto)
		a.Err = err
		return a
	case ItemShuffle:
		var err error
		if c.catalog.Empty() {
			err = c.catalog.Refresh()
		}
		t, ok := c.pickRandom()
		if !ok {
			a := none()
			a.Err = err
			return a
		}
		c.view = ViewShuffle
		return startPlayback(t)
	case ItemDownload:
		return Action{Kind: ActionRefresh, Notice: DownloadNotice}
	}
	return none()
}

func (c *Controller) back() Action {
	if c.view == ViewMain {
		return Action{Kind: ActionExit}
	}
	c.view = ViewMain
	c.cursor = 0
	return Action{Kind: ActionBack}
}

func (c *Controller) pickRandom() (catalog.Track, bool) {
	n := c.catalog.Len()
	if n == 0 {
		return catalog.Track{}, false
	}
	t, _ := c.catalog.At(c.rng.Intn(n))
	c.shuffled = &t
	return t, true
}

// window is a cursor plus the first visible row of a scrolling list.
// Invariant: start <= cursor < start+perScreen and start never scrolls past the list end.
type window struct {
	cursor int
	start  int
}

// move steps the cursor by delta with wrap-around. It reports false for an empty list.
func (w *window) move(delta, n, perScreen int) bool {
	if n == 0 {
		return false
	}
	w.cursor = wrap(w.cursor+delta, n)
	w.follow(perScreen)
	return true
}

func (w *window) follow(perScreen int) {
	if w.cursor < w.start {
		w.start = w.cursor
	}
	if w.cursor >= w.start+perScreen {
		w.start = w.cursor - perScreen + 1
	}
}

func (w *window) clamp(n, perScreen int) {
	if n == 0 {
		w.cursor, w.start = 0, 0
		return
	}
	w.cursor = min(max(w.cursor, 0), n-1)
	w.start = min(max(w.start, 0), max(0, n-perScreen))
	w.follow(perScreen)
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}
