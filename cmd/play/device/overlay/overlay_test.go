package overlay

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/gigurra/easywav/cmd/play/config"
	"github.com/gigurra/easywav/cmd/play/device"
	"github.com/mattn/go-runewidth"
)

type textOp struct {
	font device.Font
	text string
	x, y int
}

type recordingDisplay struct {
	fills    int
	rects    int
	texts    []textOp
	presents int
}

func (d *recordingDisplay) Fill(device.Color) { d.fills++ }

func (d *recordingDisplay) DrawText(f device.Font, text string, x, y int, _ device.Color) {
	d.texts = append(d.texts, textOp{f, text, x, y})
}

func (d *recordingDisplay) FillRect(_, _, _, _ int, _ device.Color) { d.rects++ }

func (d *recordingDisplay) Present() error {
	d.presents++
	return nil
}

// pollKeys returns the batch at index poll, nil afterwards.
type pollKeys struct {
	batches map[int][]device.Key
	polls   int
}

func (k *pollKeys) PollNewKeys() []device.Key {
	b := k.batches[k.polls]
	k.polls++
	return b
}

type fakeClock struct {
	t     time.Time
	slept time.Duration
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Sleep(d time.Duration) {
	c.t = c.t.Add(d)
	c.slept += d
}

func newOverlay(keys map[int][]device.Key) (*Overlay, *recordingDisplay, *pollKeys, *fakeClock) {
	d := &recordingDisplay{}
	k := &pollKeys{batches: keys}
	clock := &fakeClock{t: time.Unix(0, 0)}
	o := New(d, k, config.DefaultConfig())
	o.Now = clock.Now
	o.Sleep = clock.Sleep
	return o, d, k, clock
}

func TestError_DismissedByKey(t *testing.T) {
	// poll 0 is the pre-box drain and must not dismiss
	o, d, k, clock := newOverlay(map[int][]device.Key{
		0: {device.KeyEnter},
		3: {device.KeySpace},
	})
	o.Error("SD Card Mount Error")

	if k.polls != 4 {
		t.Errorf("polls = %d, want 4", k.polls)
	}
	if clock.slept != 2*pollInterval {
		t.Errorf("slept %v, want %v", clock.slept, 2*pollInterval)
	}
	if d.presents != 1 || d.rects != 1 {
		t.Errorf("presents/rects = %d/%d, want 1/1", d.presents, d.rects)
	}
	texts := []string{d.texts[0].text, d.texts[1].text}
	if !slices.Equal(texts, []string{errorTitle, "SD Card Mount Error"}) {
		t.Errorf("texts = %q", texts)
	}
}

func TestError_TimesOut(t *testing.T) {
	o, _, _, clock := newOverlay(nil)
	o.ErrorHold = time.Second
	o.Error("boom")

	if clock.slept < time.Second || clock.slept > time.Second+pollInterval {
		t.Errorf("slept %v, want about %v", clock.slept, time.Second)
	}
}

func TestError_WrapsLongMessages(t *testing.T) {
	o, d, _, _ := newOverlay(map[int][]device.Key{1: {device.KeyEnter}})
	o.Error(strings.Repeat("abcdefghij ", 30))

	lines := d.texts[1:]
	if len(lines) != maxLines {
		t.Fatalf("lines = %d, want %d", len(lines), maxLines)
	}
	for _, l := range lines {
		if w := runewidth.StringWidth(l.text); w > lineChars {
			t.Errorf("line %q is %d wide, max %d", l.text, w, lineChars)
		}
		if l.y+l.font.Height > device.ScreenHeight {
			t.Errorf("line %q drawn below the screen at y=%d", l.text, l.y)
		}
	}
	if !strings.HasSuffix(lines[maxLines-1].text, "...") {
		t.Errorf("last line %q does not mark the cut", lines[maxLines-1].text)
	}
}

func TestError_DesktopNotification(t *testing.T) {
	o, _, _, _ := newOverlay(map[int][]device.Key{1: {device.KeyEnter}})
	var got []string
	o.Notify = func(title, msg string) error {
		got = append(got, title, msg)
		return errors.New("no notification daemon")
	}
	o.Error("Playback Error: io failure")

	if !slices.Equal(got, []string{notifyTitle, "Playback Error: io failure"}) {
		t.Errorf("notified %q", got)
	}
}

func TestNew_NotifyFollowsConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	if New(&recordingDisplay{}, &pollKeys{}, cfg).Notify != nil {
		t.Error("desktop notifications enabled by default")
	}
	cfg.DesktopNotify = true
	if New(&recordingDisplay{}, &pollKeys{}, cfg).Notify == nil {
		t.Error("desktop notifications not enabled by config")
	}
}

func TestNotice_CentredAndHeld(t *testing.T) {
	o, d, _, clock := newOverlay(nil)
	o.Notice([]string{"Download feature", "coming soon!"}, 2*time.Second)

	if clock.slept != 2*time.Second {
		t.Errorf("slept %v, want 2s", clock.slept)
	}
	if d.fills != 1 || d.presents != 1 {
		t.Errorf("fills/presents = %d/%d, want 1/1", d.fills, d.presents)
	}
	if len(d.texts) != 2 {
		t.Fatalf("texts = %d, want 2", len(d.texts))
	}
	// "Download feature" is wider than the large font allows
	for _, op := range d.texts {
		if op.font != device.SmallFont {
			t.Errorf("%q drawn with %s", op.text, op.font.Name)
		}
		w := runewidth.StringWidth(op.text) * op.font.Width
		if left, right := op.x, device.ScreenWidth-(op.x+w); left-right > 1 || right-left > 1 {
			t.Errorf("%q not centred: x=%d width=%d", op.text, op.x, w)
		}
	}
	if d.texts[1].y != d.texts[0].y+device.SmallFont.Height {
		t.Errorf("line spacing = %d", d.texts[1].y-d.texts[0].y)
	}
}

func TestNotice_ShortLinesUseLargeFont(t *testing.T) {
	o, d, _, _ := newOverlay(nil)
	o.Notice([]string{"Hello"}, 0)

	if d.texts[0].font != device.LargeFont {
		t.Errorf("font = %s, want large", d.texts[0].font.Name)
	}
}
