package gesture

import (
	"fmt"
	"time"
)

// Action is the semantic classification of a completed button gesture.
type Action int

const (
	ActionSinglePress Action = iota
	ActionDoublePress
	ActionLongPress
)

func (a Action) String() string {
	switch a {
	case ActionSinglePress:
		return "single_press"
	case ActionDoublePress:
		return "double_press"
	case ActionLongPress:
		return "long_press"
	default:
		return fmt.Sprintf("unknown(%d)", int(a))
	}
}

// ParseAction converts a configuration action value into an Action.
func ParseAction(s string) (Action, error) {
	switch s {
	case "single_press":
		return ActionSinglePress, nil
	case "double_press":
		return ActionDoublePress, nil
	case "long_press":
		return ActionLongPress, nil
	default:
		return 0, fmt.Errorf("unsupported button action: %q", s)
	}
}

// EventKind distinguishes the two raw signals a button can produce.
type EventKind int

const (
	Down EventKind = iota
	Up
)

func (k EventKind) String() string {
	switch k {
	case Down:
		return "down"
	case Up:
		return "up"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Event is a raw press or release reported by the remote for one button.
type Event struct {
	Button string
	Kind   EventKind
	Time   time.Time
}

// Gesture is a classified button interaction.
type Gesture struct {
	Button string
	Action Action
}

func (g Gesture) String() string {
	return fmt.Sprintf("%s(%s)", g.Action, g.Button)
}
