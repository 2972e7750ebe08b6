package playback

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Fixed layout of the container header.
const (
	riffHeaderSize = 12
	fmtChunkSize   = 24
	dataHeaderSize = 8
	HeaderSize     = riffHeaderSize + fmtChunkSize + dataHeaderSize

	pcmFormat     = 1
	BitsPerSample = 16
	Channels      = 1
	bytesPerFrame = BitsPerSample / 8 * Channels
)

// Header is the decoded 44-byte prefix of a track.
type Header struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
	DataSize      int64 // as declared by the data chunk, informational only
}

// BytesPerSecond of the sample stream.
func (h Header) BytesPerSecond() int {
	return h.SampleRate * bytesPerFrame
}

// Duration in seconds of a stream of n bytes. Non-positive rates give 0.
func (h Header) Duration(n int64) float64 {
	bps := h.BytesPerSecond()
	if bps <= 0 || n <= 0 {
		return 0
	}
	return float64(n) / float64(bps)
}

// ReadHeader reads and validates the fixed header from r.
func ReadHeader(r io.Reader) (Header, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Header{}, fmt.Errorf("%w: short header: %w", ErrInvalidFormat, err)
	}
	return ParseHeader(buf[:])
}

// ParseHeader validates a header already in memory.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("%w: header is %d bytes, want %d", ErrInvalidFormat, len(b), HeaderSize)
	}
	if string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" {
		return Header{}, fmt.Errorf("%w: missing RIFF/WAVE signature", ErrInvalidFormat)
	}
	if string(b[12:16]) != "fmt " {
		return Header{}, fmt.Errorf("%w: missing fmt chunk", ErrInvalidFormat)
	}
	if string(b[36:40]) != "data" {
		return Header{}, fmt.Errorf("%w: missing data chunk at offset 36", ErrInvalidFormat)
	}

	le := binary.LittleEndian
	h := Header{
		Channels:      int(le.Uint16(b[22:24])),
		SampleRate:    int(le.Uint32(b[24:28])),
		BitsPerSample: int(le.Uint16(b[34:36])),
		DataSize:      int64(le.Uint32(b[40:44])),
	}

	if format := le.Uint16(b[20:22]); format != pcmFormat {
		return Header{}, fmt.Errorf("%w: audio format %d is not linear PCM", ErrInvalidFormat, format)
	}
	if h.SampleRate <= 0 {
		return Header{}, fmt.Errorf("%w: sample rate %d", ErrInvalidFormat, h.SampleRate)
	}
	if h.BitsPerSample != BitsPerSample || h.Channels != Channels {
		return Header{}, fmt.Errorf("%w: %d-bit %d-channel audio, want %d-bit mono",
			ErrInvalidFormat, h.BitsPerSample, h.Channels, BitsPerSample)
	}
	return h, nil
}

// EncodeHeader builds a header for 16-bit mono PCM. Used to produce test fixtures and by tooling.
func EncodeHeader(sampleRate int, dataSize uint32) []byte {
	b := make([]byte, HeaderSize)
	le := binary.LittleEndian
	copy(b[0:4], "RIFF")
	le.PutUint32(b[4:8], 36+dataSize)
	copy(b[8:12], "WAVE")
	copy(b[12:16], "fmt ")
	le.PutUint32(b[16:20], 16)
	le.PutUint16(b[20:22], pcmFormat)
	le.PutUint16(b[22:24], Channels)
	le.PutUint32(b[24:28], uint32(sampleRate))
	le.PutUint32(b[28:32], uint32(sampleRate*bytesPerFrame))
	le.PutUint16(b[32:34], bytesPerFrame)
	le.PutUint16(b[34:36], BitsPerSample)
	copy(b[36:40], "data")
	le.PutUint32(b[40:44], dataSize)
	return b
}
