package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ldapmirror/ldapmirror/models"
)

// EntryRepository is the local mirror of every directory entry currently
// believed to match the subscribed search. Lookups are served from an
// in-memory index; mutations are buffered in an open write transaction
// until Flush commits them, which is the durability boundary the cookie
// store relies on.
//
// The repository is written by exactly one goroutine (the session
// driver's); reads may come from other goroutines (status API) and are
// guarded internally.
type EntryRepository interface {
	// Upsert inserts or replaces the entry identified by e.UUID and
	// clears its stale flag. Applying the same entry twice is a no-op at
	// the storage level; change detection is the caller's concern.
	Upsert(ctx context.Context, e models.Entry) error

	// MarkPresent clears the stale flag of the identified entry without
	// touching its content. Used when a resynchronization re-announces an
	// entry by identifier only.
	MarkPresent(ctx context.Context, id uuid.UUID) error

	// MarkAllStale provisionally marks every cached entry stale. Called
	// when a resynchronization begins.
	MarkAllStale(ctx context.Context) error

	// ClearStale clears the stale flag on every cached entry without
	// purging anything. Used when the server signals that unannounced
	// entries survived the resynchronization.
	ClearStale(ctx context.Context) error

	// Delete removes the identified entry. Deleting an absent entry is a
	// no-op.
	Delete(ctx context.Context, id uuid.UUID) error

	// ByUUID returns the entry with the given identity.
	ByUUID(ctx context.Context, id uuid.UUID) (models.Entry, bool, error)

	// ByDN returns the entry currently holding the given DN. The DN index
	// can go stale mid-resync; identity lookups are authoritative.
	ByDN(ctx context.Context, dn string) (models.Entry, bool, error)

	// Stale returns a snapshot of every entry still marked stale.
	Stale(ctx context.Context) ([]models.Entry, error)

	// All returns a snapshot of the whole mirror. Order is unspecified.
	All(ctx context.Context) ([]models.Entry, error)

	// Count returns the number of mirrored entries.
	Count(ctx context.Context) (int64, error)

	// Flush commits all buffered mutations. After Flush returns nil the
	// mutations are durable and a cookie reflecting them may be saved.
	Flush(ctx context.Context) error
}

// CookieRepository persists the opaque resume token and the pinned
// search spec for the mirror.
type CookieRepository interface {
	// Load returns the last durably saved cookie, or [models.NoCookie]
	// when none was ever saved (forcing a full resynchronization).
	Load(ctx context.Context) (models.Cookie, error)

	// Save atomically replaces the stored cookie. Callers must have
	// flushed the entry repository first; a crash between the two leaves
	// the old cookie paired with newer (idempotently re-appliable)
	// entries, never the reverse.
	Save(ctx context.Context, c models.Cookie) error

	// SavedAt reports when the cookie was last saved; the zero time when
	// no cookie exists.
	SavedAt(ctx context.Context) (time.Time, error)

	// SearchSpec returns the pinned search spec, if any.
	SearchSpec(ctx context.Context) (models.SearchSpec, bool, error)

	// PinSearchSpec stores the spec on first use and returns
	// [ErrSearchSpecConflict] if a different result-set-defining spec is
	// already pinned.
	PinSearchSpec(ctx context.Context, spec models.SearchSpec) error
}

// ErrorClassificator decides whether a failed database operation is
// worth retrying. Implemented per backend.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
