package playback

import "errors"

var (
	ErrInvalidFormat = errors.New("invalid format")
	ErrIOFailure     = errors.New("io failure")
	ErrDeviceConfig  = errors.New("audio device configuration failed")
	ErrSessionActive = errors.New("a playback session is already active")
)
