// SPDX-License-Identifier: BSD-3-Clause

package feed

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ldapmirror/ldapmirror/models"
)

var (
	// ErrTimeout reports that no record arrived within the polling
	// deadline. Not a fault; the caller simply polls again.
	ErrTimeout = errors.New("no record within timeout")

	// ErrCancelled reports that the stream ended because Cancel was
	// called. The expected outcome of a requested stop.
	ErrCancelled = errors.New("stream cancelled")

	// ErrConnectionLost reports that the stream ended without a cancel
	// request.
	ErrConnectionLost = errors.New("connection lost")

	// ErrMalformedRecord reports a response the stream could not decode.
	ErrMalformedRecord = errors.New("malformed record")
)

// Stage identifies which part of the synchronization conversation a
// phase marker opens.
type Stage int

const (
	// StageResyncPresent opens a full resynchronization: the server is
	// about to (re)announce every entry currently matching the search.
	StageResyncPresent Stage = iota + 1

	// StageResyncDelete follows the present stage: the server announces
	// identifiers of entries that no longer match.
	StageResyncDelete

	// StageSteady closes the resynchronization: from here on the server
	// streams individual changes as they occur.
	StageSteady
)

func (s Stage) String() string {
	switch s {
	case StageResyncPresent:
		return "resync-present"
	case StageResyncDelete:
		return "resync-delete"
	case StageSteady:
		return "steady"
	default:
		return "unknown"
	}
}

// Record is one unit of protocol progress. Exactly one of the concrete
// types below is returned per successful [Feed.Next] call.
type Record interface {
	record()
}

// PhaseMarker announces a stage change.
type PhaseMarker struct {
	Stage Stage

	// OmitSweep is meaningful only when Stage is [StageSteady]. When the
	// server explicitly deleted everything that disappeared, the entries
	// it never mentioned are known to still match and the stale sweep
	// must be skipped instead of purging them.
	OmitSweep bool
}

// EntryContent carries one full entry: a new entry, a changed entry, or
// a re-announcement of unchanged content during a resynchronization.
type EntryContent struct {
	UUID  uuid.UUID
	DN    string
	Attrs models.Attributes
}

// EntryPresent re-announces an entry by identifier only; its content is
// unchanged and was not re-transmitted.
type EntryPresent struct {
	UUID uuid.UUID
}

// EntryDelete announces that the identified entry no longer matches the
// search, whether it was deleted, moved out of scope, or modified out
// of the filter.
type EntryDelete struct {
	UUID uuid.UUID
}

// CookieUpdate carries a new resume token. The token only becomes safe
// to persist once every record preceding it has been durably applied.
type CookieUpdate struct {
	Cookie models.Cookie
}

func (PhaseMarker) record()  {}
func (EntryContent) record() {}
func (EntryPresent) record() {}
func (EntryDelete) record()  {}
func (CookieUpdate) record() {}

// Feed is the consumed record stream. Implemented over LDAP content
// synchronization by [LDAPFeed]; tests substitute scripted feeds.
type Feed interface {
	// Next blocks until one record is available or timeout elapses,
	// returning [ErrTimeout] in the latter case. A zero timeout blocks
	// indefinitely. After the stream ends Next keeps returning the
	// terminal error ([ErrCancelled], [ErrConnectionLost] or the fault
	// that ended it).
	Next(timeout time.Duration) (Record, error)

	// Cancel asks the remote end to stop the stream. Safe to call from a
	// goroutine other than the one blocked in Next, and idempotent.
	Cancel() error

	// Close releases the underlying connection.
	Close() error
}
