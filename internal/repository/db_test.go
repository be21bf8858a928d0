package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := NewDB(DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := Migrate(context.Background(), db, DriverSQLite); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func TestNewDBRejectsUnknownDriver(t *testing.T) {
	if _, err := NewDB("postgres", "dsn"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	if err := Migrate(context.Background(), db, DriverSQLite); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&n); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 recorded migration, got %d", n)
	}
}

func TestMigrateRequiresDB(t *testing.T) {
	if err := Migrate(context.Background(), nil, DriverSQLite); err == nil {
		t.Fatal("expected error for nil db")
	}
}

func TestExtractUp(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE a (id INT);\n-- +migrate Down\nDROP TABLE a;\n"
	got := splitStatements(extractUp(content))
	if len(got) != 1 || got[0] != "CREATE TABLE a (id INT)" {
		t.Fatalf("unexpected statements: %q", got)
	}

	if got := splitStatements(extractUp("SELECT 1; SELECT 2;")); len(got) != 2 {
		t.Fatalf("expected 2 statements without markers, got %q", got)
	}
}

func TestIsDuplicateEntryError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{ErrUserNotFound, false},
		{errors.New("Error 1062 (23000): Duplicate entry 'a@b.c' for key 'users.email'"), true},
		{errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)"), true},
	}
	for _, tt := range tests {
		if got := isDuplicateEntryError(tt.err); got != tt.want {
			t.Errorf("isDuplicateEntryError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestPlaceholders(t *testing.T) {
	tests := map[int]string{0: "", 1: "?", 3: "?, ?, ?"}
	for n, want := range tests {
		if got := placeholders(n); got != want {
			t.Errorf("placeholders(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestMillisRoundTrip(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 123_000_000, time.UTC)
	if got := fromMillis(toMillis(ts)); !got.Equal(ts) {
		t.Fatalf("round trip = %v, want %v", got, ts)
	}
}
