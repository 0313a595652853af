package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ldapmirror/ldapmirror/internal/config"
	"github.com/ldapmirror/ldapmirror/internal/logger"
	"github.com/ldapmirror/ldapmirror/models"
)

func newTestNotifier(t *testing.T, handler http.HandlerFunc) *WebhookNotifier {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	n, err := NewWebhookNotifier(config.Webhook{URL: srv.URL, Timeout: time.Second}, logger.Nop())
	if err != nil {
		t.Fatalf("failed to create notifier: %v", err)
	}
	return n
}

func TestWebhookNotifier_PostsEntryEvent(t *testing.T) {
	var got models.EntryEvent
	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode event: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	})

	id := uuid.New()
	n.EntryCreated(models.Entry{
		UUID:  id,
		DN:    "cn=alice,dc=example,dc=com",
		Attrs: models.Attributes{{Name: "cn", Values: []string{"alice"}}},
	})

	if got.Kind != models.ChangeCreated {
		t.Errorf("expected created event, got %q", got.Kind)
	}
	if got.UUID != id.String() || got.DN != "cn=alice,dc=example,dc=com" {
		t.Errorf("unexpected event %+v", got)
	}
	if got.ObservedAt.IsZero() {
		t.Error("expected observation timestamp")
	}
}

func TestWebhookNotifier_RenameCarriesOldDN(t *testing.T) {
	var got models.EntryEvent
	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
	})

	n.EntryRenamed("cn=old,dc=example,dc=com", models.Entry{
		UUID: uuid.New(),
		DN:   "cn=new,dc=example,dc=com",
	})

	if got.Kind != models.ChangeRenamed || got.OldDN != "cn=old,dc=example,dc=com" {
		t.Errorf("unexpected event %+v", got)
	}
}

func TestWebhookNotifier_UpdateCarriesOldAttrs(t *testing.T) {
	var got models.EntryEvent
	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
	})

	n.EntryUpdated(
		models.Entry{UUID: uuid.New(), DN: "cn=alice", Attrs: models.Attributes{{Name: "cn", Values: []string{"alicia"}}}},
		models.Attributes{{Name: "cn", Values: []string{"alice"}}},
	)

	if got.Kind != models.ChangeUpdated {
		t.Errorf("expected updated event, got %q", got.Kind)
	}
	if got.OldAttrs.Get("cn") == nil || got.OldAttrs.Get("cn")[0] != "alice" {
		t.Errorf("expected previous attributes, got %+v", got.OldAttrs)
	}
}

func TestWebhookNotifier_DeliveryFailureIsNotFatal(t *testing.T) {
	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	// must not panic or block beyond the timeout
	n.EntryDeleted(models.Entry{UUID: uuid.New(), DN: "cn=gone"})
}

func TestNewWebhookNotifier_RejectsBadURL(t *testing.T) {
	tests := []string{"", "   ", "example.org/hook", "ftp://example.org"}

	for _, raw := range tests {
		if _, err := NewWebhookNotifier(config.Webhook{URL: raw}, logger.Nop()); err == nil {
			t.Errorf("url %q: expected error", raw)
		}
	}
}
