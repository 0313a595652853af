// SPDX-License-Identifier: BSD-3-Clause

package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ldapmirror/ldapmirror/models"
)

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// getStatus handles GET /status: the current phase, mirror size, resync
// count, and when the cookie was last persisted.
func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.status.Status(r.Context())
	if err != nil {
		h.logger.Err(err).Str("func", "Handler.getStatus").Msg("failed to read status")
		http.Error(w, "status unavailable", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, st)
}

// listEntries handles GET /entries: a snapshot of the mirror. The
// optional dn-prefix query parameter narrows the snapshot to entries
// whose DN starts with the given prefix, compared case-insensitively.
// Order is unspecified.
func (h *Handler) listEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.entries.All(r.Context())
	if err != nil {
		h.logger.Err(err).Str("func", "Handler.listEntries").Msg("failed to read mirror")
		http.Error(w, "mirror unavailable", http.StatusInternalServerError)
		return
	}

	if prefix := r.URL.Query().Get("dn-prefix"); prefix != "" {
		prefix = strings.ToLower(prefix)
		filtered := make([]models.Entry, 0, len(entries))
		for _, e := range entries {
			if strings.HasPrefix(strings.ToLower(e.DN), prefix) {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}
	h.writeJSON(w, entries)
}

// getEntry handles GET /entries/{uuid}.
func (h *Handler) getEntry(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		http.Error(w, "invalid uuid", http.StatusBadRequest)
		return
	}

	entry, found, err := h.entries.ByUUID(r.Context(), id)
	if err != nil {
		h.logger.Err(err).Str("func", "Handler.getEntry").Msg("failed to read mirror")
		http.Error(w, "mirror unavailable", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "entry not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, entry)
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Err(err).Str("func", "Handler.writeJSON").Msg("failed to encode response")
	}
}
