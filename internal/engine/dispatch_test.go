package engine

import (
	"testing"

	"github.com/ldapmirror/ldapmirror/internal/logger"
	"github.com/ldapmirror/ldapmirror/models"
)

// createdOnly implements a single capability.
type createdOnly struct {
	got []models.Entry
}

func (h *createdOnly) EntryCreated(e models.Entry) {
	h.got = append(h.got, e)
}

func TestDispatcher_CapabilitySubset(t *testing.T) {
	h := &createdOnly{}
	d := newDispatcher(h)

	e := models.Entry{DN: "cn=alice,dc=example,dc=com"}
	d.entryCreated(e)

	// unimplemented capabilities are no-ops, not panics
	d.entryUpdated(e, nil)
	d.entryDeleted(e)
	d.entryRenamed("cn=old", e)
	d.resyncDone()
	d.cookieAdvanced(models.Cookie("c"))
	d.binderDone("dn:cn=admin")

	if len(h.got) != 1 || h.got[0].DN != e.DN {
		t.Fatalf("expected one create, got %v", h.got)
	}
}

func TestDispatcher_FanOut(t *testing.T) {
	h1 := &createdOnly{}
	h2 := &recordingHandler{}
	d := newDispatcher(h1, h2, nil)

	d.entryCreated(models.Entry{DN: "cn=alice,dc=example,dc=com"})

	if len(h1.got) != 1 {
		t.Error("first handler missed the event")
	}
	if len(h2.events) != 1 {
		t.Error("second handler missed the event")
	}
}

func TestDispatcher_ClonesAttributes(t *testing.T) {
	h := &createdOnly{}
	d := newDispatcher(h)

	attrs := models.Attributes{{Name: "cn", Values: []string{"alice"}}}
	d.entryCreated(models.Entry{DN: "cn=alice", Attrs: attrs})

	h.got[0].Attrs[0].Values[0] = "mutated"
	if attrs[0].Values[0] != "alice" {
		t.Error("handler mutation leaked into the source attributes")
	}
}

func TestLoggingHandler_CoversAllCapabilities(t *testing.T) {
	h := NewLoggingHandler(logger.Nop())
	d := newDispatcher(h)

	if len(d.created) != 1 || len(d.updated) != 1 || len(d.deleted) != 1 ||
		len(d.renamed) != 1 || len(d.resync) != 1 || len(d.cookie) != 1 || len(d.bindDone) != 1 {
		t.Error("logging handler must implement every capability")
	}

	// smoke: none of these may panic
	e := models.Entry{DN: "cn=alice,dc=example,dc=com"}
	h.EntryCreated(e)
	h.EntryUpdated(e, nil)
	h.EntryDeleted(e)
	h.EntryRenamed("cn=old", e)
	h.ResyncDone()
	h.CookieAdvanced(models.Cookie("c"))
	h.BindDone("dn:cn=admin")
}
