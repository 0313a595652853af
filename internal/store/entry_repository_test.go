package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/ldapmirror/ldapmirror/internal/logger"
	"github.com/ldapmirror/ldapmirror/models"
)

func newTestDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return &DB{
		DB:                 conn,
		dialect:            "sqlite3",
		placeholder:        sq.Question,
		errorClassificator: NewSQLiteErrorClassifier(),
		logger:             logger.Nop(),
	}, mock
}

func newTestEntryRepo(t *testing.T) (*entryRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock := newTestDB(t)
	return &entryRepository{
		db:     db,
		log:    logger.Nop(),
		byUUID: make(map[uuid.UUID]models.Entry),
		byDN:   make(map[string]uuid.UUID),
	}, mock
}

func testEntry(dn string) models.Entry {
	return models.Entry{
		UUID: uuid.New(),
		DN:   dn,
		Attrs: models.Attributes{
			{Name: "cn", Values: []string{"alice"}},
		},
		UpdatedAt: time.Now().UTC(),
	}
}

func TestEntryRepository_LoadPrimesIndex(t *testing.T) {
	db, mock := newTestDB(t)
	ctx := context.Background()

	id := uuid.New()
	rows := sqlmock.
		NewRows([]string{"uuid", "dn", "attrs", "stale", "updated_at"}).
		AddRow(id.String(), "uid=alice,dc=example,dc=com", `[{"name":"cn","values":["alice"]}]`, false, time.Now())

	mock.ExpectQuery("SELECT uuid, dn, attrs, stale, updated_at FROM entries").
		WillReturnRows(rows)

	repo, err := NewEntryRepository(ctx, db, logger.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok, err := repo.ByUUID(ctx, id)
	if err != nil || !ok {
		t.Fatalf("expected entry in index, got ok=%v err=%v", ok, err)
	}
	if got.DN != "uid=alice,dc=example,dc=com" {
		t.Errorf("unexpected dn %q", got.DN)
	}
	if got.Attrs.Get("cn") == nil {
		t.Error("expected cn attribute to survive the round trip")
	}
}

func TestEntryRepository_LoadBadUUID(t *testing.T) {
	db, mock := newTestDB(t)

	rows := sqlmock.
		NewRows([]string{"uuid", "dn", "attrs", "stale", "updated_at"}).
		AddRow("not-a-uuid", "dc=example", "[]", false, time.Now())

	mock.ExpectQuery("SELECT uuid, dn, attrs, stale, updated_at FROM entries").
		WillReturnRows(rows)

	_, err := NewEntryRepository(context.Background(), db, logger.Nop())
	if !errors.Is(err, ErrScanningRow) {
		t.Fatalf("expected ErrScanningRow, got %v", err)
	}
}

func TestEntryRepository_UpsertBuffersUntilFlush(t *testing.T) {
	repo, mock := newTestEntryRepo(t)
	ctx := context.Background()
	e := testEntry("uid=alice,dc=example,dc=com")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO entries").
		WithArgs(e.UUID.String(), e.DN, sqlmock.AnyArg(), e.Stale, e.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Upsert(ctx, e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// visible in the index before the commit
	if _, ok, _ := repo.ByUUID(ctx, e.UUID); !ok {
		t.Fatal("expected entry in index before flush")
	}
	if _, ok, _ := repo.ByDN(ctx, e.DN); !ok {
		t.Fatal("expected entry in DN index before flush")
	}

	if err := repo.Flush(ctx); err != nil {
		t.Fatalf("unexpected flush error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestEntryRepository_UpsertRenameMovesDNIndex(t *testing.T) {
	repo, mock := newTestEntryRepo(t)
	ctx := context.Background()

	e := testEntry("uid=alice,dc=example,dc=com")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO entries").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO entries").WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Upsert(ctx, e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	renamed := e
	renamed.DN = "uid=alice,ou=moved,dc=example,dc=com"
	if err := repo.Upsert(ctx, renamed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok, _ := repo.ByDN(ctx, e.DN); ok {
		t.Error("expected old DN to be released")
	}
	got, ok, _ := repo.ByDN(ctx, renamed.DN)
	if !ok || got.UUID != e.UUID {
		t.Errorf("expected entry under new DN, got ok=%v uuid=%v", ok, got.UUID)
	}
}

func TestEntryRepository_MarkAllStaleAndSweep(t *testing.T) {
	repo, mock := newTestEntryRepo(t)
	ctx := context.Background()

	kept := testEntry("uid=alice,dc=example,dc=com")
	gone := testEntry("uid=bob,dc=example,dc=com")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO entries").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO entries").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE entries SET stale").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE entries SET stale").WithArgs(false, kept.UUID.String()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM entries").WithArgs(gone.UUID.String()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Upsert(ctx, kept); err != nil {
		t.Fatal(err)
	}
	if err := repo.Upsert(ctx, gone); err != nil {
		t.Fatal(err)
	}
	if err := repo.MarkAllStale(ctx); err != nil {
		t.Fatal(err)
	}
	if err := repo.MarkPresent(ctx, kept.UUID); err != nil {
		t.Fatal(err)
	}

	stale, err := repo.Stale(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(stale) != 1 || stale[0].UUID != gone.UUID {
		t.Fatalf("expected exactly the unannounced entry to be stale, got %v", stale)
	}

	if err := repo.Delete(ctx, gone.UUID); err != nil {
		t.Fatal(err)
	}
	if err := repo.Flush(ctx); err != nil {
		t.Fatal(err)
	}

	if n, _ := repo.Count(ctx); n != 1 {
		t.Errorf("expected 1 entry after sweep, got %d", n)
	}
	if _, ok, _ := repo.ByDN(ctx, gone.DN); ok {
		t.Error("expected swept entry gone from DN index")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestEntryRepository_ClearStale(t *testing.T) {
	repo, mock := newTestEntryRepo(t)
	ctx := context.Background()
	e := testEntry("uid=alice,dc=example,dc=com")
	e.Stale = true
	repo.byUUID[e.UUID] = e
	repo.byDN[e.DN] = e.UUID

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE entries SET stale").
		WithArgs(false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.ClearStale(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stale, _ := repo.Stale(ctx)
	if len(stale) != 0 {
		t.Errorf("expected no stale entries, got %d", len(stale))
	}
}

func TestEntryRepository_ExecError(t *testing.T) {
	repo, mock := newTestEntryRepo(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM entries").
		WillReturnError(errors.New("disk I/O error"))

	err := repo.Delete(ctx, uuid.New())
	if !errors.Is(err, ErrExecutingStatement) {
		t.Fatalf("expected ErrExecutingStatement, got %v", err)
	}
}

func TestEntryRepository_BeginError(t *testing.T) {
	repo, mock := newTestEntryRepo(t)
	ctx := context.Background()

	mock.ExpectBegin().WillReturnError(errors.New("database is locked"))

	err := repo.MarkAllStale(ctx)
	if !errors.Is(err, ErrBeginningTransaction) {
		t.Fatalf("expected ErrBeginningTransaction, got %v", err)
	}
}

func TestEntryRepository_FlushCommitError(t *testing.T) {
	repo, mock := newTestEntryRepo(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE entries SET stale").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit().WillReturnError(errors.New("disk full"))

	if err := repo.MarkAllStale(ctx); err != nil {
		t.Fatal(err)
	}
	err := repo.Flush(ctx)
	if !errors.Is(err, ErrCommitingTransaction) {
		t.Fatalf("expected ErrCommitingTransaction, got %v", err)
	}
	if repo.tx != nil {
		t.Error("expected transaction to be dropped after failed commit")
	}
}

func TestEntryRepository_FlushWithoutMutations(t *testing.T) {
	repo, _ := newTestEntryRepo(t)

	// nothing buffered, nothing to commit
	if err := repo.Flush(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEntryRepository_DeleteAbsentIsNoop(t *testing.T) {
	repo, mock := newTestEntryRepo(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM entries").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(ctx, uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSQLiteErrorClassifier(t *testing.T) {
	c := NewSQLiteErrorClassifier()

	if got := c.Classify(nil); got != NonRetryable {
		t.Errorf("nil error: expected NonRetryable, got %v", got)
	}
	if got := c.Classify(sql.ErrConnDone); got != NonRetryable {
		t.Errorf("foreign error: expected NonRetryable, got %v", got)
	}
}
