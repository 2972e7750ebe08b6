package playback

import (
	"errors"
	"io/fs"
	"testing/fstest"
	"time"

	"github.com/gigurra/easywav/cmd/play/device"
)

type fakeStorage struct {
	fsys     fstest.MapFS
	OpenFunc func(path string) (fs.File, error)
}

func (f *fakeStorage) Mount() error   { return nil }
func (f *fakeStorage) Unmount() error { return nil }

func (f *fakeStorage) ListDir(path string) ([]string, error) {
	entries, err := f.fsys.ReadDir(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

func (f *fakeStorage) Open(path string) (fs.File, error) {
	if f.OpenFunc != nil {
		return f.OpenFunc(path)
	}
	return f.fsys.Open(path)
}

type fakeAudio struct {
	ConfigureFunc func(rate, bits int, mode device.ChannelMode) error
	WriteFunc     func(n int, p []byte) error

	configured []int
	writes     [][]byte
	released   int
}

func (a *fakeAudio) Configure(rate, bits int, mode device.ChannelMode) error {
	a.configured = append(a.configured, rate)
	if a.ConfigureFunc != nil {
		return a.ConfigureFunc(rate, bits, mode)
	}
	return nil
}

func (a *fakeAudio) Write(p []byte) error {
	if a.WriteFunc != nil {
		if err := a.WriteFunc(len(a.writes), p); err != nil {
			return err
		}
	}
	a.writes = append(a.writes, append([]byte(nil), p...))
	return nil
}

func (a *fakeAudio) Release() error {
	a.released++
	return nil
}

func (a *fakeAudio) bytesWritten() int {
	total := 0
	for _, w := range a.writes {
		total += len(w)
	}
	return total
}

// fakeKeys returns the batch at index poll, nil afterwards.
type fakeKeys struct {
	batches map[int][]device.Key
	polls   int
}

func (k *fakeKeys) PollNewKeys() []device.Key {
	b := k.batches[k.polls]
	k.polls++
	return b
}

// fakeClock advances by step on every read.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}

// failingFile serves data and then fails with err instead of EOF.
type failingFile struct {
	fs.File
	data []byte
	err  error
}

func (f *failingFile) Read(p []byte) (int, error) {
	if len(f.data) == 0 {
		return 0, f.err
	}
	n := copy(p, f.data)
	f.data = f.data[n:]
	return n, nil
}

func (f *failingFile) Close() error { return nil }

var errBoom = errors.New("boom")

func wavFile(sampleRate int, dataSize int) []byte {
	data := make([]byte, dataSize)
	for i := range data {
		data[i] = byte(i)
	}
	return append(EncodeHeader(sampleRate, uint32(dataSize)), data...)
}
