// SPDX-License-Identifier: BSD-3-Clause

package engine

import (
	"github.com/ldapmirror/ldapmirror/internal/logger"
	"github.com/ldapmirror/ldapmirror/models"
)

// Handler capabilities. An application registers any value and receives
// callbacks for exactly the interfaces it implements; everything else
// is a no-op. Dispatch is synchronous on the goroutine driving Poll, so
// handlers must not block indefinitely.

// EntryCreatedHandler receives entries newly added to the mirror.
type EntryCreatedHandler interface {
	EntryCreated(e models.Entry)
}

// EntryUpdatedHandler receives content changes, with the previous
// attributes for diffing.
type EntryUpdatedHandler interface {
	EntryUpdated(e models.Entry, old models.Attributes)
}

// EntryDeletedHandler receives entries removed from the mirror, whether
// explicitly deleted or purged by a resynchronization sweep. The entry
// carries its last known content.
type EntryDeletedHandler interface {
	EntryDeleted(e models.Entry)
}

// EntryRenamedHandler receives DN changes. When a rename and a content
// change arrive together the rename is delivered first, followed by a
// separate update callback.
type EntryRenamedHandler interface {
	EntryRenamed(oldDN string, e models.Entry)
}

// ResyncDoneHandler is told when a resynchronization completes and the
// mirror is consistent with the server.
type ResyncDoneHandler interface {
	ResyncDone()
}

// CookieAdvancedHandler observes every durably persisted resume token.
type CookieAdvancedHandler interface {
	CookieAdvanced(c models.Cookie)
}

// BindDoneHandler is told the authorization identity the directory
// granted, right after the connection is established.
type BindDoneHandler interface {
	BindDone(authzID string)
}

// dispatcher fans one event out to every registered handler that
// implements the matching capability. Capabilities are type-asserted
// once at construction.
type dispatcher struct {
	created  []EntryCreatedHandler
	updated  []EntryUpdatedHandler
	deleted  []EntryDeletedHandler
	renamed  []EntryRenamedHandler
	resync   []ResyncDoneHandler
	cookie   []CookieAdvancedHandler
	bindDone []BindDoneHandler
}

func newDispatcher(handlers ...any) *dispatcher {
	d := &dispatcher{}
	for _, h := range handlers {
		if h == nil {
			continue
		}
		if c, ok := h.(EntryCreatedHandler); ok {
			d.created = append(d.created, c)
		}
		if u, ok := h.(EntryUpdatedHandler); ok {
			d.updated = append(d.updated, u)
		}
		if del, ok := h.(EntryDeletedHandler); ok {
			d.deleted = append(d.deleted, del)
		}
		if r, ok := h.(EntryRenamedHandler); ok {
			d.renamed = append(d.renamed, r)
		}
		if rs, ok := h.(ResyncDoneHandler); ok {
			d.resync = append(d.resync, rs)
		}
		if ck, ok := h.(CookieAdvancedHandler); ok {
			d.cookie = append(d.cookie, ck)
		}
		if b, ok := h.(BindDoneHandler); ok {
			d.bindDone = append(d.bindDone, b)
		}
	}
	return d
}

func (d *dispatcher) entryCreated(e models.Entry) {
	if len(d.created) == 0 {
		return
	}
	e.Attrs = e.Attrs.Clone()
	for _, h := range d.created {
		h.EntryCreated(e)
	}
}

func (d *dispatcher) entryUpdated(e models.Entry, old models.Attributes) {
	if len(d.updated) == 0 {
		return
	}
	e.Attrs = e.Attrs.Clone()
	old = old.Clone()
	for _, h := range d.updated {
		h.EntryUpdated(e, old)
	}
}

func (d *dispatcher) entryDeleted(e models.Entry) {
	if len(d.deleted) == 0 {
		return
	}
	e.Attrs = e.Attrs.Clone()
	for _, h := range d.deleted {
		h.EntryDeleted(e)
	}
}

func (d *dispatcher) entryRenamed(oldDN string, e models.Entry) {
	if len(d.renamed) == 0 {
		return
	}
	e.Attrs = e.Attrs.Clone()
	for _, h := range d.renamed {
		h.EntryRenamed(oldDN, e)
	}
}

func (d *dispatcher) resyncDone() {
	for _, h := range d.resync {
		h.ResyncDone()
	}
}

func (d *dispatcher) cookieAdvanced(c models.Cookie) {
	for _, h := range d.cookie {
		h.CookieAdvanced(c)
	}
}

func (d *dispatcher) binderDone(authzID string) {
	for _, h := range d.bindDone {
		h.BindDone(authzID)
	}
}

// LoggingHandler implements every capability and logs each event. The
// default handler when an application registers nothing else.
type LoggingHandler struct {
	log *logger.Logger
}

// NewLoggingHandler constructs a [LoggingHandler].
func NewLoggingHandler(log *logger.Logger) *LoggingHandler {
	return &LoggingHandler{log: log}
}

func (h *LoggingHandler) EntryCreated(e models.Entry) {
	h.log.Info().Str("uuid", e.UUID.String()).Str("dn", e.DN).Msg("entry created")
}

func (h *LoggingHandler) EntryUpdated(e models.Entry, _ models.Attributes) {
	h.log.Info().Str("uuid", e.UUID.String()).Str("dn", e.DN).Msg("entry updated")
}

func (h *LoggingHandler) EntryDeleted(e models.Entry) {
	h.log.Info().Str("uuid", e.UUID.String()).Str("dn", e.DN).Msg("entry deleted")
}

func (h *LoggingHandler) EntryRenamed(oldDN string, e models.Entry) {
	h.log.Info().Str("uuid", e.UUID.String()).Str("old_dn", oldDN).Str("dn", e.DN).Msg("entry renamed")
}

func (h *LoggingHandler) ResyncDone() {
	h.log.Info().Msg("resynchronization complete")
}

func (h *LoggingHandler) CookieAdvanced(c models.Cookie) {
	h.log.Debug().Str("cookie", c.String()).Msg("cookie advanced")
}

func (h *LoggingHandler) BindDone(authzID string) {
	h.log.Info().Str("authz_id", authzID).Msg("bind complete")
}
