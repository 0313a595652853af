// SPDX-License-Identifier: BSD-3-Clause

package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ldapmirror/ldapmirror/internal/feed"
	"github.com/ldapmirror/ldapmirror/internal/logger"
	"github.com/ldapmirror/ldapmirror/internal/store"
	"github.com/ldapmirror/ldapmirror/models"
)

// Session drives one synchronization stream against the local mirror.
//
// A single goroutine owns Poll and through it all mirror mutation and
// callback dispatch; there is no internal parallelism, so callback
// ordering and cache consistency need no locking. RequestStop is the
// one call that is safe from another goroutine: it toggles a flag and
// issues an idempotent cancel on the stream.
type Session struct {
	feed    feed.Feed
	entries store.EntryRepository
	cookies store.CookieRepository
	disp    *dispatcher
	log     *logger.Logger

	phase phaseTracker

	stopRequested atomic.Bool
	stopSeen      bool
	stopped       bool
	closed        bool
	failed        error

	// pendingCookie arrived mid-resync and is persisted only once the
	// resync completes and the mirror is flushed.
	pendingCookie models.Cookie

	// lastCookie is the last durably saved cookie. Re-announcements of
	// the same token (an identical resync replay) are not re-saved and
	// trigger no callback.
	lastCookie models.Cookie

	resyncs atomic.Uint64

	mu           sync.Mutex
	lastCookieAt time.Time
}

// NewSession wires a record stream to the mirror and the given
// handlers. Handlers receive callbacks for exactly the capability
// interfaces they implement.
func NewSession(f feed.Feed, storages *store.MirrorStorages, log *logger.Logger, handlers ...any) *Session {
	s := &Session{
		feed:    f,
		entries: storages.Entries,
		cookies: storages.Cookies,
		disp:    newDispatcher(handlers...),
		log:     log,
	}
	if at, err := storages.Cookies.SavedAt(context.Background()); err == nil {
		s.lastCookieAt = at
	}
	if c, err := storages.Cookies.Load(context.Background()); err == nil {
		s.lastCookie = c
	}
	return s
}

// Phase reports the current synchronization phase. Safe to call from
// any goroutine.
func (s *Session) Phase() Phase {
	return s.phase.Phase()
}

// AnnounceBind delivers the bind identity to interested handlers.
func (s *Session) AnnounceBind(authzID string) {
	s.disp.binderDone(authzID)
}

// Poll pumps one unit of protocol progress: one record fully processed
// (mirror mutated, callbacks dispatched, cookie possibly advanced), or
// nothing if no record arrived within timeout. A zero timeout blocks
// until a record arrives.
//
// The returned bool is false once the session has fully stopped; fatal
// errors also return false and keep returning the same error.
func (s *Session) Poll(ctx context.Context, timeout time.Duration) (bool, error) {
	if s.closed {
		return false, ErrSessionClosed
	}
	if s.failed != nil {
		return false, s.failed
	}
	if s.stopped {
		return false, nil
	}

	// stop flag is consulted between records, never mid-record
	if s.stopRequested.Load() && !s.stopSeen {
		s.stopSeen = true
		if err := s.phase.advance(PhaseStopping); err == nil {
			s.log.Info().Str("func", "Session.Poll").Msg("draining until cancel is acknowledged")
		}
	}

	rec, err := s.feed.Next(timeout)
	switch {
	case errors.Is(err, feed.ErrTimeout):
		// no data yet, not a fault
		return true, nil
	case errors.Is(err, feed.ErrCancelled):
		return s.finishStop()
	case errors.Is(err, feed.ErrMalformedRecord):
		return false, s.fail(fmt.Errorf("%w: %w", ErrProtocolViolation, err))
	case errors.Is(err, feed.ErrConnectionLost):
		return false, s.fail(fmt.Errorf("%w: %w", ErrConnectionLost, err))
	case err != nil:
		return false, s.fail(err)
	}

	if err := s.apply(ctx, rec); err != nil {
		return false, s.fail(err)
	}
	return true, nil
}

// RequestStop asks the session to stop. Cooperative: it does not
// interrupt an in-progress Poll; the session drains until the remote
// end acknowledges the cancel, after which Poll returns false.
// Idempotent and safe from any goroutine.
func (s *Session) RequestStop() {
	if s.stopRequested.Swap(true) {
		return
	}
	s.log.Info().Str("func", "Session.RequestStop").Msg("stop requested")
	if err := s.feed.Cancel(); err != nil {
		s.log.Err(err).Str("func", "Session.RequestStop").Msg("cancel request failed")
	}
}

// Unbind releases the connection. Permitted mid-resync: uncommitted
// resync progress is dropped and the mirror stays at its last durably
// flushed state, to be resumed on the next start. Idempotent.
func (s *Session) Unbind() error {
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.feed.Close()
	s.phase.current.Store(int32(PhaseIdle))
	s.log.Info().Str("func", "Session.Unbind").Msg("connection released")
	return err
}

func (s *Session) fail(err error) error {
	s.failed = err
	s.log.Err(err).Str("func", "Session.fail").Str("phase", s.Phase().String()).Msg("session failed")
	return err
}

func (s *Session) finishStop() (bool, error) {
	if !s.stopRequested.Load() {
		return false, s.fail(ErrConnectionLost)
	}
	if s.phase.Phase() != PhaseStopping {
		_ = s.phase.advance(PhaseStopping)
	}
	_ = s.phase.advance(PhaseIdle)
	s.stopped = true
	s.log.Info().Str("func", "Session.finishStop").Msg("session stopped")
	return false, nil
}

func (s *Session) apply(ctx context.Context, rec feed.Record) error {
	switch r := rec.(type) {
	case feed.PhaseMarker:
		return s.applyMarker(ctx, r)
	case feed.EntryContent:
		return s.applyContent(ctx, r)
	case feed.EntryPresent:
		return s.applyPresent(ctx, r)
	case feed.EntryDelete:
		return s.applyDelete(ctx, r)
	case feed.CookieUpdate:
		return s.applyCookie(ctx, r.Cookie)
	default:
		return fmt.Errorf("%w: unknown record type %T", ErrProtocolViolation, rec)
	}
}

func (s *Session) applyMarker(ctx context.Context, m feed.PhaseMarker) error {
	switch m.Stage {
	case feed.StageResyncPresent:
		if err := s.phase.advance(PhaseResyncPresent); err != nil {
			return err
		}
		s.log.Info().Str("func", "Session.applyMarker").Msg("resynchronization started")
		if err := s.entries.MarkAllStale(ctx); err != nil {
			return fmt.Errorf("%w: %w", ErrLocalStore, err)
		}
		return nil

	case feed.StageResyncDelete:
		return s.phase.advance(PhaseResyncDelete)

	case feed.StageSteady:
		if err := s.phase.advance(PhaseSteadyState); err != nil {
			return err
		}
		return s.completeResync(ctx, m.OmitSweep)

	default:
		return fmt.Errorf("%w: unknown stage %d", ErrProtocolViolation, m.Stage)
	}
}

// completeResync finishes a resynchronization: sweeps (or clears) the
// entries never re-announced, flushes the mirror, and only then
// persists the cookie collected during the resync.
func (s *Session) completeResync(ctx context.Context, omitSweep bool) error {
	if omitSweep {
		// every disappearance was announced explicitly; survivors that
		// were never mentioned still match
		if err := s.entries.ClearStale(ctx); err != nil {
			return fmt.Errorf("%w: %w", ErrLocalStore, err)
		}
	} else {
		stale, err := s.entries.Stale(ctx)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrLocalStore, err)
		}
		for _, e := range stale {
			if err := s.entries.Delete(ctx, e.UUID); err != nil {
				return fmt.Errorf("%w: %w", ErrLocalStore, err)
			}
			s.disp.entryDeleted(e)
		}
		if len(stale) > 0 {
			s.log.Info().Str("func", "Session.completeResync").Int("purged", len(stale)).Msg("swept entries not re-announced")
		}
	}

	if err := s.entries.Flush(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrLocalStore, err)
	}

	if !s.pendingCookie.IsZero() {
		saved := s.pendingCookie
		s.pendingCookie = nil
		if err := s.saveCookie(ctx, saved); err != nil {
			return err
		}
	}

	s.resyncs.Add(1)
	s.log.Info().Str("func", "Session.completeResync").Msg("resynchronization complete")
	s.disp.resyncDone()
	return nil
}

func (s *Session) applyContent(ctx context.Context, r feed.EntryContent) error {
	if s.Phase() == PhaseIdle {
		return fmt.Errorf("%w: entry content before any phase marker", ErrProtocolViolation)
	}

	old, found, err := s.entries.ByUUID(ctx, r.UUID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLocalStore, err)
	}

	entry := models.Entry{
		UUID:      r.UUID,
		DN:        r.DN,
		Attrs:     r.Attrs,
		UpdatedAt: time.Now().UTC(),
	}

	if !found {
		if err := s.entries.Upsert(ctx, entry); err != nil {
			return fmt.Errorf("%w: %w", ErrLocalStore, err)
		}
		s.disp.entryCreated(entry)
		return nil
	}

	renamed := old.DN != r.DN
	changed := !old.Attrs.Equal(r.Attrs)

	if !renamed && !changed {
		// identical re-announcement: confirm presence, no callback
		if old.Stale {
			if err := s.entries.MarkPresent(ctx, r.UUID); err != nil {
				return fmt.Errorf("%w: %w", ErrLocalStore, err)
			}
		}
		return nil
	}

	if err := s.entries.Upsert(ctx, entry); err != nil {
		return fmt.Errorf("%w: %w", ErrLocalStore, err)
	}

	// a rename with changed content is two observations: the move first,
	// then the content change with the previous attributes
	if renamed {
		s.disp.entryRenamed(old.DN, entry)
	}
	if changed {
		s.disp.entryUpdated(entry, old.Attrs)
	}
	return nil
}

func (s *Session) applyPresent(ctx context.Context, r feed.EntryPresent) error {
	old, found, err := s.entries.ByUUID(ctx, r.UUID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLocalStore, err)
	}
	if !found {
		// the server confirmed an entry the mirror never received the
		// content of; it will arrive in full on the next resync
		s.log.Warn().Str("func", "Session.applyPresent").Str("uuid", r.UUID.String()).Msg("presence announced for unknown entry")
		return nil
	}
	if !old.Stale {
		return nil
	}
	if err := s.entries.MarkPresent(ctx, r.UUID); err != nil {
		return fmt.Errorf("%w: %w", ErrLocalStore, err)
	}
	return nil
}

func (s *Session) applyDelete(ctx context.Context, r feed.EntryDelete) error {
	old, found, err := s.entries.ByUUID(ctx, r.UUID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLocalStore, err)
	}
	if !found {
		// deleting an absent entry is a no-op
		return nil
	}
	if err := s.entries.Delete(ctx, r.UUID); err != nil {
		return fmt.Errorf("%w: %w", ErrLocalStore, err)
	}
	s.disp.entryDeleted(old)
	return nil
}

// applyCookie persists steady-state cookies immediately, behind a
// mirror flush so the cookie never runs ahead of the entries it
// reflects. Cookies observed mid-resync are stashed and persisted when
// the resync completes.
func (s *Session) applyCookie(ctx context.Context, c models.Cookie) error {
	if c.IsZero() {
		return nil
	}

	if s.Phase() != PhaseSteadyState {
		s.pendingCookie = c
		return nil
	}

	if err := s.entries.Flush(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrLocalStore, err)
	}
	return s.saveCookie(ctx, c)
}

// saveCookie persists a cookie the mirror has already been flushed for,
// skipping re-announcements of the token already on disk.
func (s *Session) saveCookie(ctx context.Context, c models.Cookie) error {
	if bytes.Equal(c, s.lastCookie) {
		return nil
	}
	if err := s.cookies.Save(ctx, c); err != nil {
		return fmt.Errorf("%w: %w", ErrLocalStore, err)
	}
	s.lastCookie = c
	s.noteCookieSaved()
	s.disp.cookieAdvanced(c)
	return nil
}

func (s *Session) noteCookieSaved() {
	s.mu.Lock()
	s.lastCookieAt = time.Now().UTC()
	s.mu.Unlock()
}

// Status is a point-in-time snapshot for observers (status API, logs).
type Status struct {
	Phase         string    `json:"phase"`
	Entries       int64     `json:"entries"`
	Resyncs       uint64    `json:"resyncs"`
	CookieSavedAt time.Time `json:"cookie_saved_at,omitzero"`
}

// Status reports the session's observable state. Safe to call from any
// goroutine; it reads only in-memory state.
func (s *Session) Status(ctx context.Context) (Status, error) {
	count, err := s.entries.Count(ctx)
	if err != nil {
		return Status{}, err
	}

	s.mu.Lock()
	savedAt := s.lastCookieAt
	s.mu.Unlock()

	return Status{
		Phase:         s.Phase().String(),
		Entries:       count,
		Resyncs:       s.resyncs.Load(),
		CookieSavedAt: savedAt,
	}, nil
}
