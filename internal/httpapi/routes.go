// SPDX-License-Identifier: BSD-3-Clause

package httpapi

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withLogging)

	router.Get("/healthz", h.healthz)
	router.Get("/status", h.getStatus)
	router.Get("/entries", h.listEntries)
	router.Get("/entries/{uuid}", h.getEntry)

	return router
}
