// SPDX-License-Identifier: BSD-3-Clause

package engine

import "errors"

var (
	// ErrProtocolViolation reports a record the phase tracker cannot
	// accept, or a malformed record. Fatal: the session is torn down and
	// the mirror is left at its last consistent cookie.
	ErrProtocolViolation = errors.New("protocol violation")

	// ErrConnectionLost reports that the record stream ended without a
	// requested stop. The caller decides whether to reconnect; a fresh
	// session resumes correctly from the persisted cookie.
	ErrConnectionLost = errors.New("connection lost")

	// ErrLocalStore reports a durable write failure. Fatal: the cookie
	// is not advanced past the mutation that failed to persist.
	ErrLocalStore = errors.New("local store failure")

	// ErrSessionClosed reports a call on a session after Unbind.
	ErrSessionClosed = errors.New("session closed")
)
