package repos

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"salesledger/internal/domain"
	applog "salesledger/internal/log"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// OpenDB opens the SQLite database at dsn and brings its schema up to date.
// The pool is capped at one connection: SQLite has a single writer and an
// in-memory database only exists on the connection that created it.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

type migration struct {
	Version int
	Name    string
	SQL     string
}

func loadMigrations() ([]migration, error) {
	files, err := fs.Glob(migrationFS, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	var out []migration
	for _, f := range files {
		base := strings.TrimSuffix(strings.TrimPrefix(f, "migrations/"), ".sql")
		num, name, ok := strings.Cut(base, "_")
		if !ok {
			return nil, fmt.Errorf("migration %s: expected NNNN_name.sql", f)
		}
		v, err := strconv.Atoi(num)
		if err != nil {
			return nil, fmt.Errorf("migration %s: bad version: %w", f, err)
		}
		body, err := migrationFS.ReadFile(f)
		if err != nil {
			return nil, err
		}
		out = append(out, migration{Version: v, Name: name, SQL: string(body)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// migrate applies every embedded migration newer than the recorded schema
// version, each in its own transaction.
func migrate(db *sqlx.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations(
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at TEXT DEFAULT CURRENT_TIMESTAMP
)`); err != nil {
		return err
	}

	var current int
	if err := db.Get(&current, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`); err != nil {
		return err
	}

	ms, err := loadMigrations()
	if err != nil {
		return err
	}
	for _, m := range ms {
		if m.Version <= current {
			continue
		}
		tx, err := db.Beginx()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(m.SQL); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %04d_%s: %w", m.Version, m.Name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES(?, ?)`, m.Version, m.Name); err != nil {
			_ = tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		applog.L().WithField("version", m.Version).Info("db.migrate." + m.Name)
	}
	return nil
}

// SchemaVersion reports the highest applied migration.
func SchemaVersion(db *sqlx.DB) (int, error) {
	var v int
	err := db.Get(&v, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`)
	return v, err
}

// SeedAdmin ensures an ADMIN login exists for email (idempotent; safe to run
// every start). An empty password skips seeding.
func SeedAdmin(db *sqlx.DB, email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	name, _, _ := strings.Cut(email, "@")
	_, err = db.Exec(`
		INSERT INTO users(id,email,name,password_hash,role)
		VALUES(?,?,?,?,?)
		ON CONFLICT(email) DO NOTHING
	`, "u-"+uuid.NewString(), email, name, string(h), domain.RoleAdmin)
	return err
}
