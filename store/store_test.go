package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/keerthikaa27/factory-order-dashboard/config"
	"github.com/keerthikaa27/factory-order-dashboard/credential"
)

// testDB creates a temporary SQLite database for testing.
func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(&config.CredentialConfig{
		Backend: "sqlite",
		SQLite:  config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")},
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestKVCRUD(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if _, err := db.Get(ctx, "access_token"); !errors.Is(err, credential.ErrNotFound) {
		t.Fatalf("Get on empty = %v, want ErrNotFound", err)
	}

	if err := db.Set(ctx, "access_token", "abc"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := db.Get(ctx, "access_token")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "abc" {
		t.Errorf("Get = %q, want %q", got, "abc")
	}

	// upsert overwrites
	if err := db.Set(ctx, "access_token", "def"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	got, _ = db.Get(ctx, "access_token")
	if got != "def" {
		t.Errorf("Get after overwrite = %q, want %q", got, "def")
	}
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM kv_entries`).Scan(&n); err != nil || n != 1 {
		t.Errorf("rows = %d (%v), want 1", n, err)
	}

	if err := db.Delete(ctx, "access_token"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := db.Get(ctx, "access_token"); !errors.Is(err, credential.ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
}

func TestKVBacksCredentialStore(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	s := credential.NewStore(db, credential.DefaultKey, nil)
	if credential.HasValid(ctx, s) {
		t.Fatal("expected no credential")
	}
	s.Set(ctx, "tok")
	if !credential.HasValid(ctx, s) {
		t.Fatal("expected credential after Set")
	}
	s.Clear(ctx)
	if credential.HasValid(ctx, s) {
		t.Fatal("expected no credential after Clear")
	}
}

func TestOpenUnsupportedBackend(t *testing.T) {
	if _, err := Open(&config.CredentialConfig{Backend: "redis"}); err == nil {
		t.Fatal("expected error for non-SQL backend")
	}
}

func TestRebind(t *testing.T) {
	got := Rebind("SELECT v FROM kv_entries WHERE k = ? AND v = ?")
	want := "SELECT v FROM kv_entries WHERE k = $1 AND v = $2"
	if got != want {
		t.Errorf("Rebind = %q, want %q", got, want)
	}
}

func TestQPassThroughForSQLite(t *testing.T) {
	db := &DB{driver: "sqlite"}
	q := "SELECT datetime('now','localtime') WHERE k = ?"
	if got := db.Q(q); got != q {
		t.Errorf("Q = %q, want unchanged", got)
	}
	pg := &DB{driver: "postgres"}
	if got := pg.Q(q); got != "SELECT NOW() WHERE k = $1" {
		t.Errorf("Q postgres = %q", got)
	}
}
