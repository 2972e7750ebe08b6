package device

// Key is a physical key code as produced by the keyboard scanner.
type Key string

const (
	KeySemicolon Key = ";"
	KeyPeriod    Key = "."
	KeyUp        Key = "UP"
	KeyDown      Key = "DOWN"
	KeyEnter     Key = "ENT"
	KeySpace     Key = "SPC"
	KeyBacktick  Key = "`"
	KeyDelete    Key = "DEL"
	KeyEscape    Key = "ESC"
	KeyBackspace Key = "BKSP"
)

// Input is the semantic action a key maps to.
type Input int

const (
	InputNone Input = iota
	InputUp
	InputDown
	InputConfirm
	InputBack
)

func (i Input) String() string {
	switch i {
	case InputUp:
		return "up"
	case InputDown:
		return "down"
	case InputConfirm:
		return "confirm"
	case InputBack:
		return "back"
	default:
		return "none"
	}
}

var keyInputs = map[Key]Input{
	KeySemicolon: InputUp,
	KeyUp:        InputUp,
	KeyPeriod:    InputDown,
	KeyDown:      InputDown,
	KeyEnter:     InputConfirm,
	KeySpace:     InputConfirm,
	KeyBacktick:  InputBack,
	KeyDelete:    InputBack,
	KeyEscape:    InputBack,
	KeyBackspace: InputBack,
}

// Translate maps a physical key to its semantic input. Unknown keys map to InputNone.
func Translate(k Key) Input {
	return keyInputs[k]
}
