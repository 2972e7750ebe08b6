// Package sound drives PCM playback and feedback tones through the host speaker.
package sound

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gigurra/easywav/cmd/play/device"
	"github.com/gopxl/beep/v2"
)

const (
	// OutputRate is the rate the speaker runs at; tracks are resampled to it.
	OutputRate = beep.SampleRate(44100)

	queueDepth = 8
	maxVolume  = 10
)

var ErrUnknownNote = errors.New("unknown note")

var semitones = map[byte]int{'C': -9, 'D': -7, 'E': -5, 'F': -4, 'G': -2, 'A': 0, 'B': 2}

// NoteFrequency parses names like "G3", "C#4" or "Bb2" into Hz, with A4 at 440.
func NoteFrequency(note string) (float64, error) {
	if len(note) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNote, note)
	}
	offset, ok := semitones[note[0]]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNote, note)
	}
	rest := note[1:]
	switch rest[0] {
	case '#':
		offset++
		rest = rest[1:]
	case 'b':
		offset--
		rest = rest[1:]
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNote, note)
	}
	offset += (octave - 4) * 12
	return 440 * math.Pow(2, float64(offset)/12), nil
}

func checkFormat(sampleRate, bitDepth int, mode device.ChannelMode) error {
	if sampleRate <= 0 || bitDepth != 16 || mode != device.Mono {
		return fmt.Errorf("%w: %d Hz %d-bit %s", device.ErrUnsupportedPCM, sampleRate, bitDepth, mode)
	}
	return nil
}

// decodePCM16 converts signed little endian 16-bit samples to [-1, 1). A trailing odd byte is dropped.
func decodePCM16(p []byte) []float64 {
	out := make([]float64, len(p)/2)
	for i := range out {
		out[i] = float64(int16(binary.LittleEndian.Uint16(p[2*i:]))) / 32768
	}
	return out
}

// pcmStream is fed by Write on the player goroutine and drained by the speaker.
// push blocks while the queue is full, which paces the writer to real time.
type pcmStream struct {
	chunks chan []float64
	done   chan struct{}
	once   sync.Once
	cur    []float64
}

func newPCMStream(depth int) *pcmStream {
	return &pcmStream{
		chunks: make(chan []float64, depth),
		done:   make(chan struct{}),
	}
}

func (s *pcmStream) push(samples []float64) error {
	select {
	case <-s.done:
		return device.ErrReleased
	default:
	}
	select {
	case s.chunks <- samples:
		return nil
	case <-s.done:
		return device.ErrReleased
	}
}

func (s *pcmStream) close() {
	s.once.Do(func() { close(s.done) })
}

func (s *pcmStream) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if len(s.cur) == 0 {
			select {
			case <-s.done:
				return i, i > 0
			case c := <-s.chunks:
				s.cur = c
			default:
				// underrun
				samples[i] = [2]float64{}
				continue
			}
		}
		if len(s.cur) == 0 {
			samples[i] = [2]float64{}
			continue
		}
		v := s.cur[0]
		s.cur = s.cur[1:]
		samples[i] = [2]float64{v, v}
	}
	return len(samples), true
}

func (s *pcmStream) Err() error {
	return nil
}

type toneStreamer struct {
	rate      beep.SampleRate
	frequency float64
	amplitude float64
	samples   int
	position  int
}

func newTone(rate beep.SampleRate, frequency float64, d time.Duration, volume int) *toneStreamer {
	return &toneStreamer{
		rate:      rate,
		frequency: frequency,
		amplitude: 0.5 * float64(min(max(volume, 0), maxVolume)) / maxVolume,
		samples:   rate.N(d),
	}
}

func (t *toneStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	fadeLen := max(t.samples/20, 10)
	for i := range samples {
		if t.position >= t.samples {
			return i, i > 0
		}

		value := math.Sin(2 * math.Pi * t.frequency * float64(t.position) / float64(t.rate))

		// fade in and out to avoid clicks
		envelope := 1.0
		if t.position < fadeLen {
			envelope = float64(t.position) / float64(fadeLen)
		} else if t.position > t.samples-fadeLen {
			envelope = float64(t.samples-t.position) / float64(fadeLen)
		}

		value *= envelope * t.amplitude
		samples[i] = [2]float64{value, value}
		t.position++
	}
	return len(samples), true
}

func (t *toneStreamer) Err() error {
	return nil
}

// toneSequence builds one streamer per note, each lasting d.
func toneSequence(notes []string, d time.Duration, volume int) ([]beep.Streamer, error) {
	streamers := make([]beep.Streamer, 0, len(notes))
	for _, note := range notes {
		f, err := NoteFrequency(note)
		if err != nil {
			return nil, err
		}
		streamers = append(streamers, newTone(OutputRate, f, d, volume))
	}
	return streamers, nil
}
