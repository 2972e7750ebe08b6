// Package terminal renders the player screen in a raw-mode terminal and reads its keys.
package terminal

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// Session owns the terminal for the lifetime of the player.
type Session struct {
	Canvas   *Canvas
	Keyboard *Keyboard

	in    *os.File
	out   *os.File
	state *term.State
}

// Open switches in to raw mode, hides the cursor and clears out.
func Open(in, out *os.File, onInterrupt func()) (*Session, error) {
	state, err := term.MakeRaw(int(in.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to set raw mode: %w", err)
	}

	fmt.Fprint(out, "\033[?25l") // hide cursor
	fmt.Fprint(out, "\033[2J")   // clear screen

	return &Session{
		Canvas:   NewCanvas(out),
		Keyboard: NewKeyboard(in, onInterrupt),
		in:       in,
		out:      out,
		state:    state,
	}, nil
}

// Close restores the cursor and the terminal mode.
func (s *Session) Close() error {
	fmt.Fprint(s.out, "\033[?25h") // show cursor
	fmt.Fprint(s.out, "\033[2J")   // clear screen
	fmt.Fprint(s.out, "\033[H")    // move to home
	return term.Restore(int(s.in.Fd()), s.state)
}
