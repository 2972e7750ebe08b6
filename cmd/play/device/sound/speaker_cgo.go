//go:build (linux && cgo) || windows || darwin

package sound

import (
	"fmt"
	"sync"
	"time"

	"github.com/gigurra/easywav/cmd/play/device"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// Available reports whether this build can produce sound.
const Available = true

var (
	initOnce sync.Once
	initErr  error
)

// initSpeaker opens the host speaker once; it can not be re-initialised at another rate.
func initSpeaker() error {
	initOnce.Do(func() {
		initErr = speaker.Init(OutputRate, OutputRate.N(time.Second/10))
	})
	return initErr
}

// Output is a device.AudioOut backed by the host speaker.
type Output struct {
	mu     sync.Mutex
	stream *pcmStream
}

func NewOutput() *Output {
	return &Output{}
}

func (o *Output) Configure(sampleRate, bitDepth int, mode device.ChannelMode) error {
	if err := checkFormat(sampleRate, bitDepth, mode); err != nil {
		return err
	}
	if err := initSpeaker(); err != nil {
		return fmt.Errorf("failed to initialise speaker: %w", err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stream != nil {
		o.stream.close()
	}
	o.stream = newPCMStream(queueDepth)
	speaker.Play(beep.Resample(4, beep.SampleRate(sampleRate), OutputRate, o.stream))
	return nil
}

// Write queues one chunk, blocking while the speaker is behind.
func (o *Output) Write(p []byte) error {
	o.mu.Lock()
	stream := o.stream
	o.mu.Unlock()
	if stream == nil {
		return device.ErrNotConfigured
	}
	return stream.push(decodePCM16(p))
}

// Release stops the current stream. Releasing an unconfigured output is a no-op.
func (o *Output) Release() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stream == nil {
		return nil
	}
	o.stream.close()
	o.stream = nil
	return nil
}

// Tones plays short feedback melodies on the host speaker.
type Tones struct{}

func NewTones() *Tones {
	return &Tones{}
}

// Play blocks until every note has sounded.
func (t *Tones) Play(notes []string, d time.Duration, volume int) error {
	streamers, err := toneSequence(notes, d, volume)
	if err != nil {
		return err
	}
	if err := initSpeaker(); err != nil {
		return fmt.Errorf("failed to initialise speaker: %w", err)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(append(streamers, beep.Callback(func() {
		close(done)
	}))...))
	<-done
	return nil
}
