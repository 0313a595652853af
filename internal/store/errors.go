package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known
// failure conditions. Callers should use [errors.Is] to match against
// these values.
var (
	// ErrSearchSpecConflict is returned by PinSearchSpec when the mirror
	// was built from a different base DN, scope, filter, or attribute
	// list. Reusing such a mirror would silently blend two result sets;
	// delete the mirror files to start over.
	ErrSearchSpecConflict = errors.New("mirror was built from a different search spec")

	// ErrFormatMismatch wraps failures while wiping a mirror whose
	// on-disk format version this release cannot read. The mirror is in
	// an undefined state; delete the mirror files to start over.
	ErrFormatMismatch = errors.New("mirror format version mismatch")
)

// Low-level database operation errors. These are returned (or wrapped)
// by repository methods when a SQL-level operation fails before any
// domain logic can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised
	// SQL query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a read-only query
	// against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new write transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing the buffered
	// write transaction fails. The transaction is considered rolled back
	// at this point and the in-memory index is reloaded from disk by the
	// caller tearing the session down.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a
	// result row fails.
	ErrScanningRow = errors.New("failed to scan entry row")
)
