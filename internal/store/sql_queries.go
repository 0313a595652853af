package store

import (
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/ldapmirror/ldapmirror/models"
)

var entryColumns = []string{"uuid", "dn", "attrs", "stale", "updated_at"}

// upsertSuffix works on both backends: SQLite and PostgreSQL share the
// ON CONFLICT ... DO UPDATE form with the excluded pseudo-table.
const upsertSuffix = `ON CONFLICT (uuid) DO UPDATE SET
	dn = excluded.dn,
	attrs = excluded.attrs,
	stale = excluded.stale,
	updated_at = excluded.updated_at`

func buildUpsertEntry(b sq.StatementBuilderType, e models.Entry) (string, []any, error) {
	attrs, err := json.Marshal(e.Attrs)
	if err != nil {
		return "", nil, fmt.Errorf("%w: encode attrs: %w", ErrBuildingSQLQuery, err)
	}

	query, args, err := b.Insert("entries").
		Columns(entryColumns...).
		Values(e.UUID.String(), e.DN, string(attrs), e.Stale, e.UpdatedAt).
		Suffix(upsertSuffix).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildMarkPresent(b sq.StatementBuilderType, id uuid.UUID) (string, []any, error) {
	query, args, err := b.Update("entries").
		Set("stale", false).
		Where(sq.Eq{"uuid": id.String()}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSetAllStale(b sq.StatementBuilderType, stale bool) (string, []any, error) {
	query, args, err := b.Update("entries").
		Set("stale", stale).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildDeleteEntry(b sq.StatementBuilderType, id uuid.UUID) (string, []any, error) {
	query, args, err := b.Delete("entries").
		Where(sq.Eq{"uuid": id.String()}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSelectAllEntries(b sq.StatementBuilderType) (string, []any, error) {
	query, args, err := b.Select(entryColumns...).
		From("entries").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// scanEntry decodes one entries row. The uuid and attrs columns are
// stored as text (uuid string form, JSON attribute list).
func scanEntry(scan func(dest ...any) error) (models.Entry, error) {
	var (
		rawUUID   string
		dn        string
		rawAttrs  string
		stale     bool
		updatedAt time.Time
	)
	if err := scan(&rawUUID, &dn, &rawAttrs, &stale, &updatedAt); err != nil {
		return models.Entry{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	id, err := uuid.Parse(rawUUID)
	if err != nil {
		return models.Entry{}, fmt.Errorf("%w: parse uuid: %w", ErrScanningRow, err)
	}

	var attrs models.Attributes
	if rawAttrs != "" {
		if err := json.Unmarshal([]byte(rawAttrs), &attrs); err != nil {
			return models.Entry{}, fmt.Errorf("%w: decode attrs: %w", ErrScanningRow, err)
		}
	}

	return models.Entry{
		UUID:      id,
		DN:        dn,
		Attrs:     attrs,
		Stale:     stale,
		UpdatedAt: updatedAt,
	}, nil
}
