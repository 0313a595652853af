// SPDX-License-Identifier: BSD-3-Clause

package feed

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-ldap/ldap/v3"

	"github.com/ldapmirror/ldapmirror/internal/config"
	"github.com/ldapmirror/ldapmirror/internal/logger"
	"github.com/ldapmirror/ldapmirror/models"
)

// syncreplBufferSize is how many undelivered protocol messages the LDAP
// library buffers before backpressuring the connection reader.
const syncreplBufferSize = 64

// LDAPFeed adapts an RFC 4533 content synchronization search in
// refreshAndPersist mode to the [Feed] interface. All knowledge of the
// LDAP library lives here; the rest of the engine sees only [Record]
// values.
type LDAPFeed struct {
	conn    *ldap.Conn
	log     *logger.Logger
	authzID string

	cancelFn  context.CancelFunc
	cancelled atomic.Bool

	records chan Record

	mu      sync.Mutex
	termErr error // set before records is closed

	// stage mirrors the markers already emitted, so the reader can
	// synthesize a missing delete-stage marker when the server jumps
	// straight to explicit deletes.
	stage Stage
}

// DialLDAP connects to the directory, binds, and starts the
// synchronization search, resuming from cookie when one is given.
func DialLDAP(cfg config.LDAP, spec models.SearchSpec, cookie models.Cookie, log *logger.Logger) (*LDAPFeed, error) {
	conn, err := ldap.DialURL(cfg.URL)
	if err != nil {
		log.Err(err).Str("func", "DialLDAP").Str("url", cfg.URL).Msg("failed to connect to directory")
		return nil, fmt.Errorf("dial %s: %w", cfg.URL, err)
	}

	if cfg.BindDN != "" {
		err = conn.Bind(cfg.BindDN, cfg.BindPassword)
	} else {
		err = conn.UnauthenticatedBind("")
	}
	if err != nil {
		conn.Close()
		log.Err(err).Str("func", "DialLDAP").Str("bind_dn", cfg.BindDN).Msg("bind failed")
		return nil, fmt.Errorf("bind: %w", err)
	}

	var authzID string
	if who, whoErr := conn.WhoAmI(nil); whoErr == nil {
		authzID = who.AuthzID
	} else {
		log.Debug().Str("func", "DialLDAP").Err(whoErr).Msg("whoami not supported")
	}

	scope, err := scopeFromString(spec.Scope)
	if err != nil {
		conn.Close()
		return nil, err
	}

	req := ldap.NewSearchRequest(
		spec.BaseDN,
		scope,
		ldap.NeverDerefAliases,
		0, 0, false,
		spec.Filter,
		spec.Attrs,
		nil,
	)

	ctx, cancel := context.WithCancel(context.Background())
	resp := conn.Syncrepl(ctx, req, syncreplBufferSize,
		ldap.SyncRequestModeRefreshAndPersist, []byte(cookie), false)

	f := &LDAPFeed{
		conn:     conn,
		log:      log,
		authzID:  authzID,
		cancelFn: cancel,
		records:  make(chan Record, syncreplBufferSize),
	}

	log.Info().
		Str("func", "DialLDAP").
		Str("url", cfg.URL).
		Str("base_dn", spec.BaseDN).
		Bool("resuming", !cookie.IsZero()).
		Msg("synchronization search started")

	go f.run(ctx, resp)
	return f, nil
}

// AuthzID reports the authorization identity the directory granted the
// bind, or "" when the server does not support the whoami operation.
func (f *LDAPFeed) AuthzID() string { return f.authzID }

// Next implements [Feed].
func (f *LDAPFeed) Next(timeout time.Duration) (Record, error) {
	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	select {
	case r, ok := <-f.records:
		if !ok {
			return nil, f.terminalErr()
		}
		return r, nil
	case <-deadline:
		return nil, ErrTimeout
	}
}

// Cancel implements [Feed]. It aborts the synchronization search; the
// reader then finishes with [ErrCancelled].
func (f *LDAPFeed) Cancel() error {
	f.cancelled.Store(true)
	f.cancelFn()
	return nil
}

// Close implements [Feed].
func (f *LDAPFeed) Close() error {
	f.cancelFn()
	return f.conn.Close()
}

func (f *LDAPFeed) terminalErr() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.termErr
}

func (f *LDAPFeed) finish(err error) {
	f.mu.Lock()
	f.termErr = err
	f.mu.Unlock()
	close(f.records)
}

// run consumes the library's response stream and translates each
// message into records. Runs on its own goroutine; the channel hides
// the translation from Next callers.
func (f *LDAPFeed) run(ctx context.Context, resp ldap.Response) {
	// the refresh always opens with the present stage
	f.stage = StageResyncPresent
	if !f.emit(ctx, PhaseMarker{Stage: StageResyncPresent}) {
		f.finish(ErrCancelled)
		return
	}

	for resp.Next() {
		var out []Record
		var err error

		if entry := resp.Entry(); entry != nil {
			out, err = f.translateEntry(entry, resp.Controls())
		} else {
			out, err = f.translateControls(resp.Controls())
		}
		if err != nil {
			f.log.Err(err).Str("func", "LDAPFeed.run").Msg("stream ended on malformed message")
			f.finish(err)
			return
		}

		for _, r := range out {
			if !f.emit(ctx, r) {
				f.finish(ErrCancelled)
				return
			}
		}
	}

	err := resp.Err()
	switch {
	case f.cancelled.Load() || ctx.Err() != nil:
		f.log.Debug().Str("func", "LDAPFeed.run").Msg("stream cancelled")
		f.finish(ErrCancelled)
	case err != nil:
		f.log.Err(err).Str("func", "LDAPFeed.run").Msg("stream ended")
		f.finish(fmt.Errorf("%w: %w", ErrConnectionLost, err))
	default:
		f.finish(ErrConnectionLost)
	}
}

func (f *LDAPFeed) emit(ctx context.Context, r Record) bool {
	select {
	case f.records <- r:
		return true
	case <-ctx.Done():
		return false
	}
}

// translateEntry maps one search result entry carrying a sync state
// control.
func (f *LDAPFeed) translateEntry(entry *ldap.Entry, controls []ldap.Control) ([]Record, error) {
	ctl := ldap.FindControl(controls, ldap.ControlTypeSyncState)
	state, ok := ctl.(*ldap.ControlSyncState)
	if !ok || state == nil {
		return nil, fmt.Errorf("%w: entry %q without sync state control", ErrMalformedRecord, entry.DN)
	}

	var out []Record
	switch state.State {
	case ldap.SyncStatePresent:
		out = append(out, EntryPresent{UUID: state.EntryUUID})
	case ldap.SyncStateAdd, ldap.SyncStateModify:
		out = append(out, EntryContent{
			UUID:  state.EntryUUID,
			DN:    entry.DN,
			Attrs: attributesFromEntry(entry),
		})
	case ldap.SyncStateDelete:
		// a delete during the present stage means the server chose the
		// explicit-delete refresh form without announcing it first
		if f.stage == StageResyncPresent {
			out = append(out, f.marker(StageResyncDelete, false))
		}
		out = append(out, EntryDelete{UUID: state.EntryUUID})
	default:
		return nil, fmt.Errorf("%w: unknown sync state %d for %q", ErrMalformedRecord, state.State, entry.DN)
	}

	if len(state.Cookie) > 0 {
		out = append(out, CookieUpdate{Cookie: models.Cookie(state.Cookie)})
	}
	return out, nil
}

// translateControls maps an entry-less message: sync info intermediate
// responses and the final sync done control.
func (f *LDAPFeed) translateControls(controls []ldap.Control) ([]Record, error) {
	var out []Record

	if ctl, ok := ldap.FindControl(controls, ldap.ControlTypeSyncInfo).(*ldap.ControlSyncInfo); ok && ctl != nil {
		out = append(out, f.translateSyncInfo(ctl)...)
	}
	if ctl, ok := ldap.FindControl(controls, ldap.ControlTypeSyncDone).(*ldap.ControlSyncDone); ok && ctl != nil {
		if len(ctl.Cookie) > 0 {
			out = append(out, CookieUpdate{Cookie: models.Cookie(ctl.Cookie)})
		}
		out = append(out, f.closeRefresh(ctl.RefreshDeletes)...)
	}

	return out, nil
}

func (f *LDAPFeed) translateSyncInfo(ctl *ldap.ControlSyncInfo) []Record {
	var out []Record

	switch {
	case ctl.NewCookie != nil:
		out = append(out, CookieUpdate{Cookie: models.Cookie(ctl.NewCookie.Cookie)})

	case ctl.RefreshPresent != nil:
		// a present-stage announcement during steady state is a
		// server-initiated full resynchronization
		if f.stage == StageSteady {
			out = append(out, f.marker(StageResyncPresent, false))
		}
		if len(ctl.RefreshPresent.Cookie) > 0 {
			out = append(out, CookieUpdate{Cookie: models.Cookie(ctl.RefreshPresent.Cookie)})
		}
		if ctl.RefreshPresent.RefreshDone {
			// present-form refresh: unannounced entries must be swept
			out = append(out, f.closeRefresh(false)...)
		}

	case ctl.RefreshDelete != nil:
		if f.stage == StageSteady {
			out = append(out, f.marker(StageResyncPresent, false))
		}
		if f.stage == StageResyncPresent {
			out = append(out, f.marker(StageResyncDelete, false))
		}
		if len(ctl.RefreshDelete.Cookie) > 0 {
			out = append(out, CookieUpdate{Cookie: models.Cookie(ctl.RefreshDelete.Cookie)})
		}
		if ctl.RefreshDelete.RefreshDone {
			// delete-form refresh: every disappearance was explicit
			out = append(out, f.closeRefresh(true)...)
		}

	case ctl.SyncIdSet != nil:
		set := ctl.SyncIdSet
		if set.RefreshDeletes && f.stage == StageResyncPresent {
			out = append(out, f.marker(StageResyncDelete, false))
		}
		for _, id := range set.SyncUUIDs {
			if set.RefreshDeletes {
				out = append(out, EntryDelete{UUID: id})
			} else {
				out = append(out, EntryPresent{UUID: id})
			}
		}
		if len(set.Cookie) > 0 {
			out = append(out, CookieUpdate{Cookie: models.Cookie(set.Cookie)})
		}
	}

	return out
}

// closeRefresh emits the markers that end a resynchronization. The
// delete stage may never have been opened when the server had nothing
// to delete; it is still announced so the stage order stays fixed.
func (f *LDAPFeed) closeRefresh(omitSweep bool) []Record {
	var out []Record
	if f.stage == StageResyncPresent {
		out = append(out, f.marker(StageResyncDelete, false))
	}
	if f.stage != StageSteady {
		out = append(out, f.marker(StageSteady, omitSweep))
	}
	return out
}

// marker records the stage change as it is translated, so later
// messages in the same batch see the updated stage.
func (f *LDAPFeed) marker(stage Stage, omitSweep bool) PhaseMarker {
	f.stage = stage
	return PhaseMarker{Stage: stage, OmitSweep: omitSweep}
}

func attributesFromEntry(entry *ldap.Entry) models.Attributes {
	if len(entry.Attributes) == 0 {
		return nil
	}
	attrs := make(models.Attributes, 0, len(entry.Attributes))
	for _, a := range entry.Attributes {
		attrs = append(attrs, models.Attribute{Name: a.Name, Values: a.Values})
	}
	return attrs
}

func scopeFromString(scope string) (int, error) {
	switch scope {
	case "base":
		return ldap.ScopeBaseObject, nil
	case "one":
		return ldap.ScopeSingleLevel, nil
	case "", "sub":
		return ldap.ScopeWholeSubtree, nil
	default:
		return 0, fmt.Errorf("unknown search scope %q", scope)
	}
}
