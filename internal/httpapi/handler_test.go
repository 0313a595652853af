package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"

	"github.com/ldapmirror/ldapmirror/internal/engine"
	"github.com/ldapmirror/ldapmirror/internal/logger"
	"github.com/ldapmirror/ldapmirror/models"
)

type fakeStatus struct {
	status engine.Status
	err    error
}

func (f *fakeStatus) Status(_ context.Context) (engine.Status, error) {
	return f.status, f.err
}

type fakeReader struct {
	entries []models.Entry
	err     error
}

func (f *fakeReader) All(_ context.Context) ([]models.Entry, error) {
	return f.entries, f.err
}

func (f *fakeReader) ByUUID(_ context.Context, id uuid.UUID) (models.Entry, bool, error) {
	if f.err != nil {
		return models.Entry{}, false, f.err
	}
	for _, e := range f.entries {
		if e.UUID == id {
			return e, true, nil
		}
	}
	return models.Entry{}, false, nil
}

func newTestServer(t *testing.T, status *fakeStatus, reader *fakeReader) *httptest.Server {
	t.Helper()

	h := NewHandler(status, reader, logger.Nop())
	srv := httptest.NewServer(h.Init())
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &fakeStatus{}, &fakeReader{})

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestGetStatus(t *testing.T) {
	srv := newTestServer(t, &fakeStatus{
		status: engine.Status{Phase: "steady-state", Entries: 7, Resyncs: 1},
	}, &fakeReader{})

	resp, err := http.Get(srv.URL + "/status")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got engine.Status
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Phase != "steady-state" || got.Entries != 7 {
		t.Errorf("unexpected status %+v", got)
	}
}

func TestGetStatus_Error(t *testing.T) {
	srv := newTestServer(t, &fakeStatus{err: errors.New("mirror gone")}, &fakeReader{})

	resp, err := http.Get(srv.URL + "/status")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", resp.StatusCode)
	}
}

func TestListEntries(t *testing.T) {
	srv := newTestServer(t, &fakeStatus{}, &fakeReader{
		entries: []models.Entry{
			{UUID: uuid.New(), DN: "cn=alice,dc=example,dc=com"},
			{UUID: uuid.New(), DN: "cn=bob,dc=example,dc=com"},
		},
	})

	resp, err := http.Get(srv.URL + "/entries")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var got []models.Entry
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 entries, got %d", len(got))
	}
}

func TestListEntries_DNPrefix(t *testing.T) {
	srv := newTestServer(t, &fakeStatus{}, &fakeReader{
		entries: []models.Entry{
			{UUID: uuid.New(), DN: "cn=alice,dc=example,dc=com"},
			{UUID: uuid.New(), DN: "cn=bob,dc=example,dc=com"},
		},
	})

	resp, err := http.Get(srv.URL + "/entries?dn-prefix=" + url.QueryEscape("CN=Alice"))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var got []models.Entry
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if got[0].DN != "cn=alice,dc=example,dc=com" {
		t.Errorf("unexpected entry %q", got[0].DN)
	}
}

func TestListEntries_DNPrefixNoMatch(t *testing.T) {
	srv := newTestServer(t, &fakeStatus{}, &fakeReader{
		entries: []models.Entry{
			{UUID: uuid.New(), DN: "cn=alice,dc=example,dc=com"},
		},
	})

	resp, err := http.Get(srv.URL + "/entries?dn-prefix=" + url.QueryEscape("ou=groups"))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var got []models.Entry
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected no entries, got %d", len(got))
	}
}

func TestGetEntry(t *testing.T) {
	id := uuid.New()
	srv := newTestServer(t, &fakeStatus{}, &fakeReader{
		entries: []models.Entry{{UUID: id, DN: "cn=alice,dc=example,dc=com"}},
	})

	resp, err := http.Get(srv.URL + "/entries/" + id.String())
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got models.Entry
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.UUID != id {
		t.Errorf("unexpected entry %+v", got)
	}
}

func TestGetEntry_NotFound(t *testing.T) {
	srv := newTestServer(t, &fakeStatus{}, &fakeReader{})

	resp, err := http.Get(srv.URL + "/entries/" + uuid.NewString())
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGetEntry_BadUUID(t *testing.T) {
	srv := newTestServer(t, &fakeStatus{}, &fakeReader{})

	resp, err := http.Get(srv.URL + "/entries/not-a-uuid")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}
