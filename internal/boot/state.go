package boot

import "fmt"

// State is a boot sequence state.
type State int

const (
	StateStart State = iota
	StateModeApplied
	StateIdentityResolved
	StateConfigResolved
	StateLaunched
)

var stateNames = [...]string{
	StateStart:            "Start",
	StateModeApplied:      "ModeApplied",
	StateIdentityResolved: "IdentityResolved",
	StateConfigResolved:   "ConfigResolved",
	StateLaunched:         "Launched",
}

// String returns the state name.
func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// next returns the state that follows s.
func (s State) next() State {
	if s >= StateLaunched {
		return StateLaunched
	}
	return s + 1
}
