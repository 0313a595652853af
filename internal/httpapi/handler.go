// SPDX-License-Identifier: BSD-3-Clause

// Package httpapi serves a read-only view of the mirror: health,
// synchronization status, and the mirrored entries.
package httpapi

import (
	"context"

	"github.com/google/uuid"

	"github.com/ldapmirror/ldapmirror/internal/engine"
	"github.com/ldapmirror/ldapmirror/internal/logger"
	"github.com/ldapmirror/ldapmirror/models"
)

// StatusProvider reports the session's observable state. Satisfied by
// [engine.Session].
type StatusProvider interface {
	Status(ctx context.Context) (engine.Status, error)
}

// EntryReader serves entry lookups. Satisfied by the mirror's entry
// repository; reads come from its in-memory index and are safe while a
// session is running.
type EntryReader interface {
	All(ctx context.Context) ([]models.Entry, error)
	ByUUID(ctx context.Context, id uuid.UUID) (models.Entry, bool, error)
}

type Handler struct {
	status  StatusProvider
	entries EntryReader

	logger *logger.Logger
}

func NewHandler(status StatusProvider, entries EntryReader, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		status:  status,
		entries: entries,
		logger:  logger,
	}
}
