// SPDX-License-Identifier: BSD-3-Clause

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/ldapmirror/ldapmirror/internal/logger"
	"github.com/ldapmirror/ldapmirror/models"
)

// cookieRepository persists the resume cookie and the pinned search spec
// in the single sync_state row. Every write is a single auto-committed
// statement, so a crash observes either the old or the new value,
// never a torn one.
type cookieRepository struct {
	db  *DB
	log *logger.Logger
}

// NewCookieRepository constructs a [CookieRepository] backed by the
// given database connection.
func NewCookieRepository(db *DB, log *logger.Logger) CookieRepository {
	return &cookieRepository{db: db, log: log}
}

func (r *cookieRepository) Load(ctx context.Context) (models.Cookie, error) {
	query, args, err := r.db.builder().
		Select("cookie").
		From("sync_state").
		Where(sq.Eq{"id": 1}).
		ToSql()
	if err != nil {
		return models.NoCookie, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var cookie sql.NullString
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&cookie); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.NoCookie, nil
		}
		r.log.Err(err).Str("func", "cookieRepository.Load").Msg("failed to load cookie")
		return models.NoCookie, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if !cookie.Valid || cookie.String == "" {
		return models.NoCookie, nil
	}
	return models.Cookie(cookie.String), nil
}

func (r *cookieRepository) Save(ctx context.Context, c models.Cookie) error {
	query, args, err := r.db.builder().
		Update("sync_state").
		Set("cookie", c.String()).
		Set("cookie_saved_at", time.Now().UTC()).
		Where(sq.Eq{"id": 1}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.log.Err(err).Str("func", "cookieRepository.Save").Msg("failed to save cookie")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (r *cookieRepository) SavedAt(ctx context.Context) (time.Time, error) {
	query, args, err := r.db.builder().
		Select("cookie_saved_at").
		From("sync_state").
		Where(sq.Eq{"id": 1}).
		ToSql()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var savedAt sql.NullTime
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&savedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if !savedAt.Valid {
		return time.Time{}, nil
	}
	return savedAt.Time, nil
}

func (r *cookieRepository) SearchSpec(ctx context.Context) (models.SearchSpec, bool, error) {
	query, args, err := r.db.builder().
		Select("search_spec").
		From("sync_state").
		Where(sq.Eq{"id": 1}).
		ToSql()
	if err != nil {
		return models.SearchSpec{}, false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var raw sql.NullString
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SearchSpec{}, false, nil
		}
		return models.SearchSpec{}, false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if !raw.Valid || raw.String == "" {
		return models.SearchSpec{}, false, nil
	}

	var spec models.SearchSpec
	if err := json.Unmarshal([]byte(raw.String), &spec); err != nil {
		return models.SearchSpec{}, false, fmt.Errorf("%w: decode search spec: %w", ErrScanningRow, err)
	}
	return spec, true, nil
}

func (r *cookieRepository) PinSearchSpec(ctx context.Context, spec models.SearchSpec) error {
	current, ok, err := r.SearchSpec(ctx)
	if err != nil {
		return err
	}
	if ok {
		if current.ConflictsWith(spec) {
			r.log.Error().
				Str("func", "cookieRepository.PinSearchSpec").
				Str("pinned_base_dn", current.BaseDN).
				Str("requested_base_dn", spec.BaseDN).
				Msg("mirror reuse rejected")
			return ErrSearchSpecConflict
		}
		return nil
	}

	raw, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("%w: encode search spec: %w", ErrBuildingSQLQuery, err)
	}

	query, args, err := r.db.builder().
		Update("sync_state").
		Set("search_spec", string(raw)).
		Where(sq.Eq{"id": 1}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}
