// Package playback streams one track at a time from the storage volume to the audio output.
package playback

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"time"

	"github.com/gigurra/easywav/cmd/play/catalog"
	"github.com/gigurra/easywav/cmd/play/device"
	"github.com/google/uuid"
)

const ChunkSize = 1024

type Status int

const (
	StatusPlaying Status = iota
	StatusFinished
	StatusCancelled
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusFinished:
		return "finished"
	case StatusCancelled:
		return "cancelled"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// StepResult is the outcome of one chunk iteration.
type StepResult struct {
	Status Status
	// Keys that interrupted playback. They are handed back, not swallowed.
	Keys []device.Key
	Err  error
}

// Progress is a snapshot for the playback screen.
type Progress struct {
	Track          catalog.Track
	SampleRate     int
	TotalSeconds   float64
	ElapsedSeconds float64
}

// Session is one active playback, from peripheral configuration to release.
type Session struct {
	// ID correlates the log lines of one session.
	ID           string
	Track        catalog.Track
	SampleRate   int
	TotalSeconds float64

	elapsed  float64
	started  time.Time
	file     fs.File
	buf      []byte
	result   *StepResult
	released bool
}

func (s *Session) Elapsed() float64 {
	return s.elapsed
}

func (s *Session) Cancelled() bool {
	return s.result != nil && s.result.Status == StatusCancelled
}

// Done reports whether the session reached a terminal status.
func (s *Session) Done() bool {
	return s.result != nil
}

func (s *Session) Progress() Progress {
	return Progress{
		Track:          s.Track,
		SampleRate:     s.SampleRate,
		TotalSeconds:   s.TotalSeconds,
		ElapsedSeconds: s.elapsed,
	}
}

type Engine struct {
	storage device.Storage
	out     device.AudioOut
	keys    device.Keyboard
	now     func() time.Time

	active *Session
}

func NewEngine(storage device.Storage, out device.AudioOut, keys device.Keyboard, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{storage: storage, out: out, keys: keys, now: now}
}

// Active returns the running session, if any.
func (e *Engine) Active() *Session {
	return e.active
}

// Start opens the track, validates its header and configures the audio output for it.
func (e *Engine) Start(track catalog.Track) (*Session, error) {
	if e.active != nil {
		return nil, ErrSessionActive
	}

	f, err := e.storage.Open(catalog.TrackPath(track))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}

	h, err := ReadHeader(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	if err := e.out.Configure(h.SampleRate, BitsPerSample, device.Mono); err != nil {
		_ = e.out.Release()
		_ = f.Close()
		return nil, fmt.Errorf("%w: %w", ErrDeviceConfig, err)
	}

	s := &Session{
		ID:           uuid.NewString(),
		Track:        track,
		SampleRate:   h.SampleRate,
		TotalSeconds: h.Duration(info.Size() - HeaderSize),
		started:      e.now(),
		file:         f,
		buf:          make([]byte, ChunkSize),
	}
	e.active = s

	slog.Info("playback started",
		"session", s.ID,
		"track", track.Name,
		"sample_rate", h.SampleRate,
		"duration_s", s.TotalSeconds)
	return s, nil
}

// Step streams one chunk. Once a terminal status has been returned every further call returns
// it again without touching the audio output.
func (e *Engine) Step(s *Session) StepResult {
	if s.result != nil {
		return *s.result
	}

	n, err := io.ReadFull(s.file, s.buf)
	if n == 0 {
		if err == nil || errors.Is(err, io.EOF) {
			return e.finish(s, StepResult{Status: StatusFinished})
		}
		return e.finish(s, StepResult{Status: StatusFailed, Err: fmt.Errorf("%w: read: %w", ErrIOFailure, err)})
	}
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return e.finish(s, StepResult{Status: StatusFailed, Err: fmt.Errorf("%w: read: %w", ErrIOFailure, err)})
	}

	if err := e.out.Write(s.buf[:n]); err != nil {
		return e.finish(s, StepResult{Status: StatusFailed, Err: fmt.Errorf("%w: write: %w", ErrIOFailure, err)})
	}

	if elapsed := e.now().Sub(s.started).Seconds(); elapsed > s.elapsed {
		s.elapsed = elapsed
	}

	if keys := e.keys.PollNewKeys(); len(keys) > 0 {
		return e.finish(s, StepResult{Status: StatusCancelled, Keys: keys})
	}
	return StepResult{Status: StatusPlaying}
}

// Stop releases the audio output and closes the track. Safe to call more than once;
// the output is released exactly once per session.
func (e *Engine) Stop(s *Session) error {
	if s.released {
		return nil
	}
	s.released = true
	if e.active == s {
		e.active = nil
	}

	closeErr := s.file.Close()
	if err := e.out.Release(); err != nil {
		return fmt.Errorf("%w: release: %w", ErrIOFailure, err)
	}
	return closeErr
}

func (e *Engine) finish(s *Session, r StepResult) StepResult {
	s.result = &r
	if err := e.Stop(s); err != nil {
		slog.Warn("failed to release audio output", "session", s.ID, "error", err)
	}
	slog.Info("playback ended", "session", s.ID, "track", s.Track.Name, "status", r.Status.String(), "elapsed_s", s.elapsed)
	return r
}
