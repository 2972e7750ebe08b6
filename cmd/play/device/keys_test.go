package device

import "testing"

func TestTranslate(t *testing.T) {
	tests := []struct {
		key      Key
		expected Input
	}{
		{KeySemicolon, InputUp},
		{KeyUp, InputUp},
		{KeyPeriod, InputDown},
		{KeyDown, InputDown},
		{KeyEnter, InputConfirm},
		{KeySpace, InputConfirm},
		{KeyBacktick, InputBack},
		{KeyDelete, InputBack},
		{KeyEscape, InputBack},
		{KeyBackspace, InputBack},
		{Key("a"), InputNone},
		{Key("GO"), InputNone},
		{Key(""), InputNone},
	}

	for _, tt := range tests {
		if got := Translate(tt.key); got != tt.expected {
			t.Errorf("Translate(%q) = %v, want %v", tt.key, got, tt.expected)
		}
	}
}
