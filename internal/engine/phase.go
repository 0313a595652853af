// SPDX-License-Identifier: BSD-3-Clause

package engine

import (
	"fmt"
	"sync/atomic"
)

// Phase is the synchronization state the session is currently in.
type Phase int32

const (
	// PhaseIdle means no session activity: before the first record and
	// after a clean stop.
	PhaseIdle Phase = iota

	// PhaseResyncPresent means the server is (re)announcing every entry
	// currently matching the search. Cached entries not yet re-announced
	// are provisionally stale.
	PhaseResyncPresent

	// PhaseResyncDelete means the server is announcing entries that no
	// longer match. Entries still stale when this phase ends are purged.
	PhaseResyncDelete

	// PhaseSteadyState means the resynchronization is complete and
	// individual changes stream in as they occur.
	PhaseSteadyState

	// PhaseStopping means a stop was requested and the session is
	// draining until the remote end acknowledges the cancel.
	PhaseStopping
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseResyncPresent:
		return "resync-present"
	case PhaseResyncDelete:
		return "resync-delete"
	case PhaseSteadyState:
		return "steady-state"
	case PhaseStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// phaseTracker enforces the allowed phase order. Transitions are driven
// only by phase markers in the record stream and by the stop path,
// never inferred from timeouts. The current phase is readable from
// other goroutines; transitions happen only on the session's goroutine.
type phaseTracker struct {
	current atomic.Int32
}

func (t *phaseTracker) Phase() Phase {
	return Phase(t.current.Load())
}

// advance moves to the next phase, rejecting any transition outside the
// allowed table. A rejected transition is a protocol violation and
// fatal to the session.
func (t *phaseTracker) advance(to Phase) error {
	from := t.Phase()
	if !allowedTransition(from, to) {
		return fmt.Errorf("%w: phase %s after %s", ErrProtocolViolation, to, from)
	}
	t.current.Store(int32(to))
	return nil
}

func allowedTransition(from, to Phase) bool {
	switch to {
	case PhaseResyncPresent:
		// a resync opens a session and may also be forced by the server
		// at any point during steady state
		return from == PhaseIdle || from == PhaseSteadyState
	case PhaseResyncDelete:
		return from == PhaseResyncPresent
	case PhaseSteadyState:
		return from == PhaseResyncDelete
	case PhaseStopping:
		return from != PhaseStopping
	case PhaseIdle:
		return from == PhaseStopping
	default:
		return false
	}
}
