package app

import (
	"errors"
	"io/fs"
	"testing/fstest"
	"time"

	"github.com/gigurra/easywav/cmd/play/device"
	"github.com/gigurra/easywav/cmd/play/playback"
)

var errBoom = errors.New("boom")

type fakeStorage struct {
	fsys      fstest.MapFS
	MountErr  error
	ListFunc  func(path string) ([]string, error)
	mounted   bool
	mounts    int
	unmounts  int
	listCalls int
	opened    []string
}

func (s *fakeStorage) Mount() error {
	s.mounts++
	s.mounted = s.MountErr == nil
	return s.MountErr
}

func (s *fakeStorage) Unmount() error {
	s.unmounts++
	s.mounted = false
	return nil
}

func (s *fakeStorage) ListDir(path string) ([]string, error) {
	s.listCalls++
	if !s.mounted {
		return nil, device.ErrMount
	}
	if s.ListFunc != nil {
		return s.ListFunc(path)
	}
	entries, err := s.fsys.ReadDir(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

func (s *fakeStorage) Open(path string) (fs.File, error) {
	s.opened = append(s.opened, path)
	if !s.mounted {
		return nil, device.ErrMount
	}
	return s.fsys.Open(path)
}

type fakeDisplay struct {
	PresentFunc func() error
	texts       []string
	presents    int
}

func (d *fakeDisplay) Fill(device.Color) {}

func (d *fakeDisplay) DrawText(_ device.Font, text string, _, _ int, _ device.Color) {
	d.texts = append(d.texts, text)
}

func (d *fakeDisplay) FillRect(_, _, _, _ int, _ device.Color) {}

func (d *fakeDisplay) Present() error {
	d.presents++
	if d.PresentFunc != nil {
		return d.PresentFunc()
	}
	return nil
}

// scriptedKeys hands out one batch per poll, in order, and nothing once the script runs out.
type scriptedKeys struct {
	script [][]device.Key
	polls  int
}

func keys(batches ...[]device.Key) *scriptedKeys {
	return &scriptedKeys{script: batches}
}

func (k *scriptedKeys) PollNewKeys() []device.Key {
	k.polls++
	if len(k.script) == 0 {
		return nil
	}
	b := k.script[0]
	k.script = k.script[1:]
	return b
}

type fakeAudio struct {
	WriteFunc  func(n int) error
	configured []int
	writes     int
	released   int
}

func (a *fakeAudio) Configure(rate, _ int, _ device.ChannelMode) error {
	a.configured = append(a.configured, rate)
	return nil
}

func (a *fakeAudio) Write(_ []byte) error {
	n := a.writes
	a.writes++
	if a.WriteFunc != nil {
		return a.WriteFunc(n)
	}
	return nil
}

func (a *fakeAudio) Release() error {
	a.released++
	return nil
}

type tone struct {
	notes  []string
	volume int
}

type fakeBeeper struct {
	played []tone
}

func (b *fakeBeeper) Play(notes []string, _ time.Duration, volume int) error {
	b.played = append(b.played, tone{notes, volume})
	return nil
}

type fakeOverlay struct {
	ErrorFunc func(msg string)
	errors    []string
	notices   [][]string
}

func (o *fakeOverlay) Error(msg string) {
	o.errors = append(o.errors, msg)
	if o.ErrorFunc != nil {
		o.ErrorFunc(msg)
	}
}

func (o *fakeOverlay) Notice(lines []string, _ time.Duration) {
	o.notices = append(o.notices, lines)
}

type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}

type rig struct {
	storage *fakeStorage
	display *fakeDisplay
	keys    *scriptedKeys
	audio   *fakeAudio
	beeper  *fakeBeeper
	overlay *fakeOverlay
	clock   *fakeClock
}

func newRig(files fstest.MapFS, k *scriptedKeys) *rig {
	if files == nil {
		files = fstest.MapFS{}
	}
	return &rig{
		storage: &fakeStorage{fsys: files},
		display: &fakeDisplay{},
		keys:    k,
		audio:   &fakeAudio{},
		beeper:  &fakeBeeper{},
		overlay: &fakeOverlay{},
		clock:   &fakeClock{t: time.Unix(1_700_000_000, 0), step: 10 * time.Millisecond},
	}
}

func (r *rig) context() Context {
	return Context{
		Storage:  r.storage,
		Display:  r.display,
		Keyboard: r.keys,
		Audio:    r.audio,
		Beeper:   r.beeper,
		Overlay:  r.overlay,
		Now:      r.clock.Now,
		Sleep:    func(time.Duration) {},
	}
}

func wav(dataSize int) *fstest.MapFile {
	return &fstest.MapFile{Data: append(playback.EncodeHeader(44100, uint32(dataSize)), make([]byte, dataSize)...)}
}
