package menu

import "github.com/gigurra/easywav/cmd/play/catalog"

type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionNavigate
	ActionStartPlayback
	ActionRefresh
	ActionBack
	ActionExit
)

func (k ActionKind) String() string {
	switch k {
	case ActionNavigate:
		return "navigate"
	case ActionStartPlayback:
		return "start-playback"
	case ActionRefresh:
		return "refresh"
	case ActionBack:
		return "back"
	case ActionExit:
		return "exit"
	default:
		return "none"
	}
}

type Direction int

const (
	DirUp Direction = iota + 1
	DirDown
	// DirInto is a move from the main menu into a sub view.
	DirInto
)

// Action is what the controller asks the main loop to do after an input.
// Only the fields relevant to Kind are set.
type Action struct {
	Kind      ActionKind
	Direction Direction     // ActionNavigate
	Track     catalog.Track // ActionStartPlayback
	Notice    []string      // ActionRefresh: lines to show before refreshing
	Err       error         // recoverable failure to report, e.g. a catalog listing error
}

func none() Action { return Action{Kind: ActionNone} }

func navigate(d Direction) Action { return Action{Kind: ActionNavigate, Direction: d} }

func startPlayback(t catalog.Track) Action { return Action{Kind: ActionStartPlayback, Track: t} }
