package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/keerthikaa27/factory-order-dashboard/config"
	"github.com/keerthikaa27/factory-order-dashboard/credential"
)

// DB is a small key/value table used to persist credentials. It satisfies
// credential.KV.
type DB struct {
	*sql.DB
	dialect Dialect
	driver  string
}

var _ credential.KV = (*DB)(nil)

// Open connects using the credential backend settings. Only "sqlite" and
// "postgres" are SQL backends.
func Open(cfg *config.CredentialConfig) (*DB, error) {
	switch cfg.Backend {
	case "sqlite":
		return OpenSQLite(cfg.SQLite.Path)
	case "postgres":
		return openPostgres(&cfg.Postgres)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Backend)
	}
}

func OpenSQLite(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	db := &DB{DB: sqlDB, dialect: sqliteDialect{}, driver: "sqlite"}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return db, nil
}

func openPostgres(cfg *config.PostgresConfig) (*DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Database, cfg.User, cfg.Password, cfg.SSLMode)
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db := &DB{DB: sqlDB, dialect: postgresDialect{}, driver: "postgres"}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}
	return db, nil
}

func (db *DB) Driver() string { return db.driver }

// Q rewrites ? placeholders and datetime literals for PostgreSQL, passes through for SQLite.
func (db *DB) Q(query string) string {
	if db.driver == "postgres" {
		query = strings.ReplaceAll(query, "datetime('now','localtime')", "NOW()")
		return Rebind(query)
	}
	return query
}

func (db *DB) migrate() error {
	_, err := db.Exec(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS kv_entries (
		k TEXT PRIMARY KEY,
		v TEXT NOT NULL,
		updated_at %s NOT NULL DEFAULT %s
	)`, db.dialect.TimestampType(), db.dialect.Now()))
	return err
}

func (db *DB) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := db.QueryRowContext(ctx, db.Q(`SELECT v FROM kv_entries WHERE k = ?`), key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", credential.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("kv get %s: %w", key, err)
	}
	return v, nil
}

func (db *DB) Set(ctx context.Context, key, value string) error {
	_, err := db.ExecContext(ctx, db.Q(`INSERT INTO kv_entries (k, v, updated_at)
		VALUES (?, ?, datetime('now','localtime'))
		ON CONFLICT (k) DO UPDATE SET v = excluded.v, updated_at = excluded.updated_at`), key, value)
	if err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}
	return nil
}

func (db *DB) Delete(ctx context.Context, key string) error {
	if _, err := db.ExecContext(ctx, db.Q(`DELETE FROM kv_entries WHERE k = ?`), key); err != nil {
		return fmt.Errorf("kv delete %s: %w", key, err)
	}
	return nil
}
