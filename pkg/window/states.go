package window

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// State is one flag of a toplevel's state list, numbered as in the
// zwlr_foreign_toplevel_handle_v1.state enum.
type State uint32

const (
	StateMaximized  State = 0
	StateMinimized  State = 1
	StateActivated  State = 2
	StateFullscreen State = 3
)

func (s State) String() string {
	switch s {
	case StateMaximized:
		return "maximized"
	case StateMinimized:
		return "minimized"
	case StateActivated:
		return "activated"
	case StateFullscreen:
		return "fullscreen"
	default:
		return fmt.Sprintf("state(%d)", uint32(s))
	}
}

func (s State) known() bool {
	return s <= StateFullscreen
}

// Snapshot is the result of decoding a state list. An invalid snapshot
// carries the reason it could not be decoded and must not change tracking
// state.
type Snapshot struct {
	states []State
	err    error
}

// NewSnapshot builds a valid snapshot from already decoded states.
func NewSnapshot(states ...State) Snapshot {
	return Snapshot{states: append([]State(nil), states...)}
}

// ParseStates decodes a wire array of native-endian uint32 state values.
func ParseStates(raw []byte) Snapshot {
	if len(raw)%4 != 0 {
		return Snapshot{err: fmt.Errorf("state array length %d is not a multiple of 4", len(raw))}
	}

	states := make([]State, 0, len(raw)/4)
	for off := 0; off < len(raw); off += 4 {
		s := State(binary.NativeEndian.Uint32(raw[off : off+4]))
		if !s.known() {
			return Snapshot{err: fmt.Errorf("unknown toplevel state value %d", uint32(s))}
		}
		states = append(states, s)
	}

	return Snapshot{states: states}
}

// Valid reports whether the snapshot was decoded successfully.
func (s Snapshot) Valid() bool {
	return s.err == nil
}

// Err returns the decode error of an invalid snapshot.
func (s Snapshot) Err() error {
	return s.err
}

// States returns a copy of the decoded states.
func (s Snapshot) States() []State {
	return append([]State(nil), s.states...)
}

// Activated reports whether any flag in the snapshot is StateActivated.
func (s Snapshot) Activated() bool {
	for _, st := range s.states {
		if st == StateActivated {
			return true
		}
	}
	return false
}

func (s Snapshot) String() string {
	if s.err != nil {
		return "invalid"
	}
	names := make([]string, len(s.states))
	for i, st := range s.states {
		names[i] = st.String()
	}
	return "[" + strings.Join(names, ",") + "]"
}
