//go:build !((linux && cgo) || windows || darwin)

package sound

import (
	"sync"
	"time"

	"github.com/gigurra/easywav/cmd/play/device"
)

// Available reports whether this build can produce sound.
// Audio requires cgo on linux for the native sound libraries.
const Available = false

// Output accepts PCM silently, paced to the track's real duration so progress still advances.
type Output struct {
	mu         sync.Mutex
	sampleRate int
}

func NewOutput() *Output {
	return &Output{}
}

func (o *Output) Configure(sampleRate, bitDepth int, mode device.ChannelMode) error {
	if err := checkFormat(sampleRate, bitDepth, mode); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sampleRate = sampleRate
	return nil
}

func (o *Output) Write(p []byte) error {
	o.mu.Lock()
	rate := o.sampleRate
	o.mu.Unlock()
	if rate == 0 {
		return device.ErrNotConfigured
	}
	time.Sleep(time.Duration(len(p)/2) * time.Second / time.Duration(rate))
	return nil
}

func (o *Output) Release() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sampleRate = 0
	return nil
}

// Tones is a no-op when cgo is disabled.
type Tones struct{}

func NewTones() *Tones {
	return &Tones{}
}

func (t *Tones) Play(notes []string, _ time.Duration, _ int) error {
	_, err := toneSequence(notes, 0, 0)
	return err
}
