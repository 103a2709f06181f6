// Package store persists tests, results and LLM request events in SQLite
// through ent's SQL driver.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// pragmas are set on every connection through the DSN.
var pragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"foreign_keys(1)",
	"synchronous(NORMAL)",
}

type Store struct {
	db  *sql.DB
	drv *entsql.Driver
}

// Open opens the database file at path and creates any missing tables.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect %s: %w", path, err)
	}

	s := &Store{db: db, drv: entsql.OpenDB(dialect.SQLite, db)}
	if err := s.migrate(context.Background()); err != nil {
		s.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func dsn(path string) string {
	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + q.Encode()
}

func (s *Store) migrate(ctx context.Context) error {
	m, err := schema.NewMigrate(s.drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, tables...)
}

func (s *Store) Driver() *entsql.Driver { return s.drv }

// DB exposes the connection for raw queries in tests and diagnostics.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error { return s.drv.Close() }

func (s *Store) KVRepo() KVRepo         { return &kvRepo{drv: s.drv} }
func (s *Store) TestRepo() TestRepo     { return &testRepo{drv: s.drv} }
func (s *Store) ResultRepo() ResultRepo { return &resultRepo{drv: s.drv} }
func (s *Store) EventRepo() EventRepo   { return &eventRepo{drv: s.drv} }

// ResolvePath picks the database file: configured when set, then
// JEEACE_DB, then jeeace/jeeace.db under the XDG data directory. The
// parent directory is created.
func ResolvePath(configured string) (string, error) {
	p := configured
	if p == "" {
		p = os.Getenv("JEEACE_DB")
	}
	if p == "" {
		base := os.Getenv("XDG_DATA_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("resolve home dir: %w", err)
			}
			base = filepath.Join(home, ".local", "share")
		}
		p = filepath.Join(base, "jeeace", "jeeace.db")
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", err
	}
	return p, nil
}
