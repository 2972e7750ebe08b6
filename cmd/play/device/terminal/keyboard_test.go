package terminal

import (
	"slices"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gigurra/easywav/cmd/play/device"
)

func TestParseKeys(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		want      []device.Key
		interrupt bool
	}{
		{"menu keys", ";.`", []device.Key{device.KeySemicolon, device.KeyPeriod, device.KeyBacktick}, false},
		{"arrows", "\x1b[A\x1b[B", []device.Key{device.KeyUp, device.KeyDown}, false},
		{"application arrows", "\x1bOA\x1bOB", []device.Key{device.KeyUp, device.KeyDown}, false},
		{"enter variants", "\r\n\r\n", []device.Key{device.KeyEnter, device.KeyEnter}, false},
		{"space and backspace", " \x7f\x08", []device.Key{device.KeySpace, device.KeyBackspace, device.KeyBackspace}, false},
		{"delete", "\x1b[3~", []device.Key{device.KeyDelete}, false},
		{"lone escape", "\x1b", []device.Key{device.KeyEscape}, false},
		{"double escape", "\x1b\x1b", []device.Key{device.KeyEscape, device.KeyEscape}, false},
		{"unknown csi dropped", "\x1b[C;\x1b[1;5D", []device.Key{device.KeySemicolon}, false},
		{"utf8 key", "é", []device.Key{"é"}, false},
		{"interrupt", "a\x03", []device.Key{"a"}, true},
		{"control bytes ignored", "\x01\x02", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, interrupt := parseKeys([]byte(tt.in))
			if !slices.Equal(got, tt.want) {
				t.Errorf("keys = %q, want %q", got, tt.want)
			}
			if interrupt != tt.interrupt {
				t.Errorf("interrupt = %v, want %v", interrupt, tt.interrupt)
			}
		})
	}
}

func TestKeyboard_PollDrainsReaderKeys(t *testing.T) {
	var interrupted atomic.Bool
	k := NewKeyboard(strings.NewReader(";\x1b[B\r\x03"), func() { interrupted.Store(true) })

	var got []device.Key
	deadline := time.Now().Add(time.Second)
	for len(got) < 3 && time.Now().Before(deadline) {
		got = append(got, k.PollNewKeys()...)
		time.Sleep(time.Millisecond)
	}

	want := []device.Key{device.KeySemicolon, device.KeyDown, device.KeyEnter}
	if !slices.Equal(got, want) {
		t.Errorf("keys = %q, want %q", got, want)
	}
	if !interrupted.Load() {
		t.Error("interrupt callback not called")
	}
	if extra := k.PollNewKeys(); len(extra) != 0 {
		t.Errorf("second poll = %q, want nothing", extra)
	}
}
