package planner

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Action is a category of device operations a run may perform.
type Action int

const (
	ActionDestroy Action = iota + 1
	ActionFormat
	ActionMount
)

// Actions returns all actions in stage order.
func Actions() []Action {
	return []Action{ActionDestroy, ActionFormat, ActionMount}
}

func (a Action) String() string {
	switch a {
	case ActionDestroy:
		return "destroy"
	case ActionFormat:
		return "format"
	case ActionMount:
		return "mount"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// ParseAction parses an action name.
func ParseAction(s string) (Action, error) {
	for _, a := range Actions() {
		if a.String() == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown action: %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ActionSet is an immutable set of actions.
type ActionSet struct {
	bits uint8
}

// NewActionSet creates a set from the given actions.
func NewActionSet(actions ...Action) ActionSet {
	var s ActionSet
	for _, a := range actions {
		s.bits |= 1 << uint(a)
	}
	return s
}

// Has reports whether a is in the set.
func (s ActionSet) Has(a Action) bool {
	return s.bits&(1<<uint(a)) != 0
}

// IsEmpty reports whether the set has no actions.
func (s ActionSet) IsEmpty() bool {
	return s.bits == 0
}

// List returns the actions of the set in stage order.
func (s ActionSet) List() []Action {
	var out []Action
	for _, a := range Actions() {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

// String joins the actions with commas, e.g. "format,mount".
func (s ActionSet) String() string {
	names := make([]string, 0, 3)
	for _, a := range s.List() {
		names = append(names, a.String())
	}
	return strings.Join(names, ",")
}

// MarshalJSON encodes the set as a list of action names.
func (s ActionSet) MarshalJSON() ([]byte, error) {
	names := []string{}
	for _, a := range s.List() {
		names = append(names, a.String())
	}
	return json.Marshal(names)
}

// Mode is a CLI mode selecting a useful combination of actions.
type Mode string

const (
	ModeDestroy            Mode = "destroy"
	ModeFormat             Mode = "format"
	ModeMount              Mode = "mount"
	ModeDestroyFormatMount Mode = "destroy,format,mount"
	ModeFormatMount        Mode = "format,mount"
)

// ApplyModes returns the modes that apply a configuration.
func ApplyModes() []Mode {
	return []Mode{ModeDestroy, ModeFormat, ModeMount, ModeDestroyFormatMount, ModeFormatMount}
}

// ParseMode parses one of the apply modes.
func ParseMode(s string) (Mode, bool) {
	for _, m := range ApplyModes() {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// Actions returns the action set selected by the mode.
func (m Mode) Actions() ActionSet {
	var actions []Action
	for _, name := range strings.Split(string(m), ",") {
		if a, err := ParseAction(name); err == nil {
			actions = append(actions, a)
		}
	}
	return NewActionSet(actions...)
}

// Description returns the help text of the mode.
func (m Mode) Description() string {
	switch m {
	case ModeDestroy:
		return "Destroy the partition tables on the specified disks"
	case ModeFormat:
		return "Change formatting and filesystems on the specified disks"
	case ModeMount:
		return "Mount the specified disks"
	case ModeDestroyFormatMount:
		return "Run destroy, format and mount in sequence"
	case ModeFormatMount:
		return "Run format and mount in sequence"
	default:
		return ""
	}
}
