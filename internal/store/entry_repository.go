// SPDX-License-Identifier: BSD-3-Clause

package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ldapmirror/ldapmirror/internal/logger"
	"github.com/ldapmirror/ldapmirror/models"
)

// entryRepository keeps the mirror twice: authoritatively in the
// database, and as an in-memory index serving lookups without touching
// disk. Mutations hit both, the database side inside a buffered write
// transaction that [Flush] commits.
//
// If a commit fails the memory index may run ahead of disk; callers
// treat that as fatal and rebuild a fresh repository, which reloads the
// index from the last committed state.
type entryRepository struct {
	db  *DB
	log *logger.Logger

	mu     sync.RWMutex
	byUUID map[uuid.UUID]models.Entry
	byDN   map[string]uuid.UUID

	tx *sql.Tx // open write transaction; nil when all mutations are committed
}

// NewEntryRepository constructs an [EntryRepository] backed by the given
// database connection and primes the in-memory index from it.
func NewEntryRepository(ctx context.Context, db *DB, log *logger.Logger) (EntryRepository, error) {
	r := &entryRepository{
		db:     db,
		log:    log,
		byUUID: make(map[uuid.UUID]models.Entry),
		byDN:   make(map[string]uuid.UUID),
	}
	if err := r.load(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// load reads every entry row into the in-memory index.
func (r *entryRepository) load(ctx context.Context) error {
	query, args, err := buildSelectAllEntries(r.db.builder())
	if err != nil {
		return err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Err(err).Str("func", "entryRepository.load").Msg("failed to load mirror into memory")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		entry, scanErr := scanEntry(rows.Scan)
		if scanErr != nil {
			return scanErr
		}
		r.byUUID[entry.UUID] = entry
		r.byDN[entry.DN] = entry.UUID
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, rowsErr)
	}

	r.log.Debug().
		Str("func", "entryRepository.load").
		Int("entries", len(r.byUUID)).
		Msg("mirror index loaded")
	return nil
}

// writeTx returns the open buffered transaction, beginning one if
// needed.
func (r *entryRepository) writeTx(ctx context.Context) (*sql.Tx, error) {
	if r.tx != nil {
		return r.tx, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.log.Err(err).Str("func", "entryRepository.writeTx").Msg("failed to begin write transaction")
		return nil, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	r.tx = tx
	return tx, nil
}

// exec runs one buffered DML statement.
func (r *entryRepository) exec(ctx context.Context, fn string, query string, args []any) error {
	tx, err := r.writeTx(ctx)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.log.Err(err).
			Str("func", fn).
			Bool("retryable", r.db.errorClassificator.Classify(err) == Retryable).
			Msg("failed to execute statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (r *entryRepository) Upsert(ctx context.Context, e models.Entry) error {
	query, args, err := buildUpsertEntry(r.db.builder(), e)
	if err != nil {
		return err
	}
	if err := r.exec(ctx, "entryRepository.Upsert", query, args); err != nil {
		return err
	}

	r.mu.Lock()
	if old, ok := r.byUUID[e.UUID]; ok && old.DN != e.DN {
		// rename: drop the stale DN index entry unless someone else
		// already claimed that DN
		if r.byDN[old.DN] == e.UUID {
			delete(r.byDN, old.DN)
		}
	}
	r.byUUID[e.UUID] = e
	r.byDN[e.DN] = e.UUID
	r.mu.Unlock()

	return nil
}

func (r *entryRepository) MarkPresent(ctx context.Context, id uuid.UUID) error {
	query, args, err := buildMarkPresent(r.db.builder(), id)
	if err != nil {
		return err
	}
	if err := r.exec(ctx, "entryRepository.MarkPresent", query, args); err != nil {
		return err
	}

	r.mu.Lock()
	if e, ok := r.byUUID[id]; ok && e.Stale {
		e.Stale = false
		r.byUUID[id] = e
	}
	r.mu.Unlock()

	return nil
}

func (r *entryRepository) MarkAllStale(ctx context.Context) error {
	return r.setAllStale(ctx, "entryRepository.MarkAllStale", true)
}

func (r *entryRepository) ClearStale(ctx context.Context) error {
	return r.setAllStale(ctx, "entryRepository.ClearStale", false)
}

func (r *entryRepository) setAllStale(ctx context.Context, fn string, stale bool) error {
	query, args, err := buildSetAllStale(r.db.builder(), stale)
	if err != nil {
		return err
	}
	if err := r.exec(ctx, fn, query, args); err != nil {
		return err
	}

	r.mu.Lock()
	for id, e := range r.byUUID {
		if e.Stale != stale {
			e.Stale = stale
			r.byUUID[id] = e
		}
	}
	r.mu.Unlock()

	return nil
}

func (r *entryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := buildDeleteEntry(r.db.builder(), id)
	if err != nil {
		return err
	}
	if err := r.exec(ctx, "entryRepository.Delete", query, args); err != nil {
		return err
	}

	r.mu.Lock()
	if e, ok := r.byUUID[id]; ok {
		if r.byDN[e.DN] == id {
			delete(r.byDN, e.DN)
		}
		delete(r.byUUID, id)
	}
	r.mu.Unlock()

	return nil
}

func (r *entryRepository) ByUUID(_ context.Context, id uuid.UUID) (models.Entry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byUUID[id]
	return e, ok, nil
}

func (r *entryRepository) ByDN(_ context.Context, dn string) (models.Entry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byDN[dn]
	if !ok {
		return models.Entry{}, false, nil
	}
	e, ok := r.byUUID[id]
	return e, ok, nil
}

func (r *entryRepository) Stale(_ context.Context) ([]models.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stale []models.Entry
	for _, e := range r.byUUID {
		if e.Stale {
			stale = append(stale, e)
		}
	}
	return stale, nil
}

func (r *entryRepository) All(_ context.Context) ([]models.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]models.Entry, 0, len(r.byUUID))
	for _, e := range r.byUUID {
		all = append(all, e)
	}
	return all, nil
}

func (r *entryRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.byUUID)), nil
}

func (r *entryRepository) Flush(_ context.Context) error {
	if r.tx == nil {
		return nil
	}

	if err := r.tx.Commit(); err != nil {
		r.log.Err(err).Str("func", "entryRepository.Flush").Msg("failed to commit buffered mutations")
		r.tx = nil
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	r.tx = nil
	return nil
}
