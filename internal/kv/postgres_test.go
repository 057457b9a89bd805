package kv

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestPostgresGet(t *testing.T) {
	mock := newMockPool(t)
	store := NewPostgres(mock)

	mock.ExpectQuery(`SELECT value FROM kv_store WHERE key = \$1`).
		WithArgs("savedMarkers").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow("[]"))

	v, ok, err := store.Get(context.Background(), "savedMarkers")
	if err != nil || !ok || v != "[]" {
		t.Fatalf("get = %q ok=%v err=%v", v, ok, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresGetAbsent(t *testing.T) {
	mock := newMockPool(t)
	store := NewPostgres(mock)

	mock.ExpectQuery(`SELECT value FROM kv_store`).
		WithArgs("itineraryCleared").
		WillReturnError(pgx.ErrNoRows)

	_, ok, err := store.Get(context.Background(), "itineraryCleared")
	if err != nil || ok {
		t.Fatalf("expected absent, ok=%v err=%v", ok, err)
	}
}

func TestPostgresGetError(t *testing.T) {
	mock := newMockPool(t)
	store := NewPostgres(mock)

	mock.ExpectQuery(`SELECT value FROM kv_store`).
		WithArgs("savedMarkers").
		WillReturnError(errors.New("connection reset"))

	if _, _, err := store.Get(context.Background(), "savedMarkers"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPostgresSetAndRemove(t *testing.T) {
	mock := newMockPool(t)
	store := NewPostgres(mock)

	mock.ExpectExec(`INSERT INTO kv_store`).
		WithArgs("JOURNAL_KEY", "[]").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`DELETE FROM kv_store`).
		WithArgs("JOURNAL_KEY").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	ctx := context.Background()
	if err := store.Set(ctx, "JOURNAL_KEY", "[]"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Remove(ctx, "JOURNAL_KEY"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresApplyCommits(t *testing.T) {
	mock := newMockPool(t)
	store := NewPostgres(mock)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO kv_store`).
		WithArgs("savedMarkers", "[]").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`DELETE FROM kv_store`).
		WithArgs("itineraryCleared").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	err := store.Apply(context.Background(), SetOp("savedMarkers", "[]"), RemoveOp("itineraryCleared"))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresApplyRollsBack(t *testing.T) {
	mock := newMockPool(t)
	store := NewPostgres(mock)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM kv_store`).
		WithArgs("savedMarkers").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`INSERT INTO kv_store`).
		WithArgs("itineraryCleared", "true").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := store.Apply(context.Background(), RemoveOp("savedMarkers"), SetOp("itineraryCleared", "true"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresEnsureSchema(t *testing.T) {
	mock := newMockPool(t)
	store := NewPostgres(mock)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS kv_store`).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
}
