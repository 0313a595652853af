package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/ldapmirror/ldapmirror/internal/config"
	"github.com/ldapmirror/ldapmirror/internal/logger"
)

// FormatVersion is the on-disk mirror format this release writes. A
// mirror carrying a different version is wiped and rebuilt by a full
// resynchronization, matching the behavior of upgrading the software.
const FormatVersion = 1

// MirrorStorages groups the mirror's repositories into a single value
// that can be passed around the engine and the status API.
type MirrorStorages struct {
	// Entries is the identity-indexed local mirror of the search result.
	Entries EntryRepository

	// Cookies persists the resume cookie and the pinned search spec.
	Cookies CookieRepository
}

// NewMirrorStorages initialises the local mirror using the supplied
// configuration and logger. It performs the following steps:
//  1. Opens the configured backend (SQLite file or PostgreSQL).
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Checks the on-disk format version, wiping an incompatible mirror.
//  4. Primes a fresh [EntryRepository] index from the database.
//
// Returns an error if the database cannot be opened, migration fails, or
// the mirror cannot be read.
func NewMirrorStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*MirrorStorages, error) {
	log.Info().Str("backend", cfg.Backend).Msg("opening mirror storage")

	var (
		db  *DB
		err error
	)
	switch cfg.Backend {
	case config.BackendPostgres:
		db, err = NewConnectPostgres(ctx, cfg, log)
	default:
		db, err = NewConnectSQLite(ctx, cfg, log)
	}
	if err != nil {
		return nil, fmt.Errorf("mirror connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	if err := ensureFormat(ctx, db, log); err != nil {
		return nil, err
	}

	entries, err := NewEntryRepository(ctx, db, log)
	if err != nil {
		return nil, fmt.Errorf("mirror index error: %w", err)
	}

	return &MirrorStorages{
		Entries: entries,
		Cookies: NewCookieRepository(db, log),
	}, nil
}

// ensureFormat creates the sync_state row on first use and wipes the
// mirror when the stored format version does not match [FormatVersion].
// Wiping clears the entries and the cookie, forcing a full
// resynchronization but keeping nothing inconsistent around.
func ensureFormat(ctx context.Context, db *DB, log *logger.Logger) error {
	selectQ, selectArgs, err := db.builder().
		Select("format_version").
		From("sync_state").
		Where(sq.Eq{"id": 1}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var version int
	err = db.QueryRowContext(ctx, selectQ, selectArgs...).Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		insertQ, insertArgs, buildErr := db.builder().
			Insert("sync_state").
			Columns("id", "format_version").
			Values(1, FormatVersion).
			ToSql()
		if buildErr != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, buildErr)
		}
		if _, execErr := db.ExecContext(ctx, insertQ, insertArgs...); execErr != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}
		return nil
	case err != nil:
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if version == FormatVersion {
		return nil
	}

	log.Warn().
		Int("stored", version).
		Int("expected", FormatVersion).
		Msg("mirror format version mismatch, wiping mirror")

	if err := wipeMirror(ctx, db); err != nil {
		return fmt.Errorf("%w: %w", ErrFormatMismatch, err)
	}
	return nil
}

// wipeMirror resets an unreadable mirror to the empty state in one
// transaction: no entries, no cookie, no pinned search spec.
func wipeMirror(ctx context.Context, db *DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM entries"); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	resetQ, resetArgs, err := db.builder().
		Update("sync_state").
		Set("format_version", FormatVersion).
		Set("cookie", nil).
		Set("cookie_saved_at", nil).
		Set("search_spec", nil).
		Where(sq.Eq{"id": 1}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err := tx.ExecContext(ctx, resetQ, resetArgs...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	return nil
}
