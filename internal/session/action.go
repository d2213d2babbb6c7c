package session

import (
	"unicode"

	"github.com/jfmyers9/play/internal/catalog"
)

// Action is a menu action, identified by its key
type Action rune

const (
	ActionPlay   Action = 'p'
	ActionFilter Action = 'f'
	ActionMix    Action = 'm'
	ActionWiden  Action = 'w'
	ActionNarrow Action = 'n'
	ActionSearch Action = 's'
	ActionQuit   Action = 'q'
)

// menuOrder is the order actions are offered in
var menuOrder = []Action{
	ActionPlay,
	ActionFilter,
	ActionMix,
	ActionWiden,
	ActionNarrow,
	ActionSearch,
	ActionQuit,
}

// Key returns the keystroke that selects the action
func (a Action) Key() rune {
	return rune(a)
}

// Label returns the menu label for the action, e.g. "(p)LAY"
func (a Action) Label() string {
	switch a {
	case ActionPlay:
		return "(p)LAY"
	case ActionFilter:
		return "(f)ILTER"
	case ActionMix:
		return "(m)IX"
	case ActionWiden:
		return "(w)IDEN"
	case ActionNarrow:
		return "(n)ARROW"
	case ActionSearch:
		return "(s)EARCH"
	case ActionQuit:
		return "(q)UIT"
	default:
		return "(" + string(rune(a)) + ")"
	}
}

// State is the part of a session that decides which actions are available
type State struct {
	Mode  catalog.Mode
	Empty bool // Whether the result list is empty
}

// ValidActions returns the actions available in state, in menu order.
// Play, filter and mix need files; widen and narrow depend on the mode.
func ValidActions(state State) []Action {
	valid := make([]Action, 0, len(menuOrder))
	for _, a := range menuOrder {
		if allowed(a, state) {
			valid = append(valid, a)
		}
	}
	return valid
}

func allowed(a Action, state State) bool {
	switch a {
	case ActionPlay, ActionFilter, ActionMix:
		return !state.Empty
	case ActionWiden:
		return state.Mode == catalog.ModeNarrow
	case ActionNarrow:
		return state.Mode == catalog.ModeWide
	case ActionSearch, ActionQuit:
		return true
	default:
		return false
	}
}

// ParseAction maps a keystroke to one of the valid actions, ignoring case.
// It returns false for keys outside the valid set.
func ParseAction(key rune, valid []Action) (Action, bool) {
	key = unicode.ToLower(key)
	for _, a := range valid {
		if a.Key() == key {
			return a, true
		}
	}
	return 0, false
}
