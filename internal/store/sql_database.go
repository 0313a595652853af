package store

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/ldapmirror/ldapmirror/internal/logger"
	"github.com/ldapmirror/ldapmirror/migrations"
)

// DB wraps a database/sql connection with the backend-specific pieces
// the repositories need: the goose dialect, the squirrel placeholder
// format, and an error classifier.
type DB struct {
	*sql.DB
	dialect            string
	placeholder        sq.PlaceholderFormat
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

// builder returns a squirrel statement builder configured for this
// backend's placeholder style.
func (db *DB) builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(db.placeholder)
}
