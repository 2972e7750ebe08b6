package terminal

import (
	"io"
	"log/slog"
	"unicode/utf8"

	"github.com/gigurra/easywav/cmd/play/device"
)

const keyBuffer = 32

// Keyboard turns raw terminal input into device keys. A reader goroutine feeds a
// buffered channel; PollNewKeys drains it without blocking.
type Keyboard struct {
	keys        chan device.Key
	onInterrupt func()
}

// NewKeyboard starts reading r. onInterrupt, if set, runs when Ctrl+C arrives.
func NewKeyboard(r io.Reader, onInterrupt func()) *Keyboard {
	k := &Keyboard{
		keys:        make(chan device.Key, keyBuffer),
		onInterrupt: onInterrupt,
	}
	go k.read(r)
	return k
}

func (k *Keyboard) PollNewKeys() []device.Key {
	var keys []device.Key
	for {
		select {
		case key := <-k.keys:
			keys = append(keys, key)
		default:
			return keys
		}
	}
}

func (k *Keyboard) read(r io.Reader) {
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			keys, interrupt := parseKeys(buf[:n])
			if interrupt && k.onInterrupt != nil {
				k.onInterrupt()
			}
			for _, key := range keys {
				select {
				case k.keys <- key:
				default:
					slog.Debug("key buffer full, dropping key", "key", key)
				}
			}
		}
		if err != nil {
			return
		}
	}
}

// parseKeys decodes one read from a raw-mode terminal.
func parseKeys(b []byte) (keys []device.Key, interrupt bool) {
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c == 0x1b:
			key, n := parseEscape(b[i:])
			if key != "" {
				keys = append(keys, key)
			}
			i += n
			continue
		case c == 0x03:
			interrupt = true
		case c == '\r' || c == '\n':
			keys = append(keys, device.KeyEnter)
			if c == '\r' && i+1 < len(b) && b[i+1] == '\n' {
				i++
			}
		case c == ' ':
			keys = append(keys, device.KeySpace)
		case c == 0x7f || c == 0x08:
			keys = append(keys, device.KeyBackspace)
		case c < 0x20:
			// other control bytes
		default:
			r, n := utf8.DecodeRune(b[i:])
			keys = append(keys, device.Key(string(r)))
			i += n
			continue
		}
		i++
	}
	return keys, interrupt
}

// parseEscape decodes a sequence starting with ESC and reports how many bytes it used.
// A lone ESC is the escape key; unknown sequences are consumed and dropped.
func parseEscape(b []byte) (device.Key, int) {
	if len(b) < 3 || (b[1] != '[' && b[1] != 'O') {
		return device.KeyEscape, 1
	}
	switch b[2] {
	case 'A':
		return device.KeyUp, 3
	case 'B':
		return device.KeyDown, 3
	}

	end := 2
	for end < len(b) && (b[end] < 0x40 || b[end] > 0x7e) {
		end++
	}
	if end == len(b) {
		return "", end
	}
	if string(b[2:end+1]) == "3~" {
		return device.KeyDelete, end + 1
	}
	return "", end + 1
}
