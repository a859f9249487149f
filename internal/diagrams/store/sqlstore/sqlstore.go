// Package sqlstore is the relational diagram store. It runs the same SQL on
// SQLite (modernc.org/sqlite) and Postgres (pgx or lib/pq) through database/sql.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/store"
)

const DefaultURL = "file:./data/atlantis.db"

type Options struct {
	URL         string
	Driver      string
	MaxConns    int
	AutoMigrate bool
	ConnectTO   time.Duration
}

type Store struct {
	db      *sql.DB
	dialect dialect
}

var _ store.Store = (*Store)(nil)

// Provider maps a connection URL to a dialect name.
func Provider(url string) (string, error) {
	switch {
	case strings.HasPrefix(url, "file:"):
		return DialectSQLite, nil
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DialectPostgres, nil
	}
	return "", fmt.Errorf("unsupported database url %q", redact(url))
}

func Open(ctx context.Context, opt Options) (*Store, error) {
	if opt.URL == "" {
		opt.URL = DefaultURL
	}
	if opt.ConnectTO == 0 {
		opt.ConnectTO = 5 * time.Second
	}

	provider, err := Provider(opt.URL)
	if err != nil {
		return nil, err
	}
	d, err := dialectFor(provider, opt.Driver)
	if err != nil {
		return nil, err
	}

	dsn := opt.URL
	if d.name == DialectSQLite {
		dsn, err = sqliteDSN(opt.URL)
		if err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(d.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if d.name == DialectSQLite {
		// One connection: SQLite has a single writer and the pragmas are per connection.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		maxConns := opt.MaxConns
		if maxConns <= 0 {
			maxConns = 10
		}
		db.SetMaxOpenConns(maxConns)
		db.SetMaxIdleConns(maxConns / 2)
		db.SetConnMaxIdleTime(5 * time.Minute)
	}

	pctx, cancel := context.WithTimeout(ctx, opt.ConnectTO)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	s := &Store{db: db, dialect: d}
	if opt.AutoMigrate {
		if err := s.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return s, nil
}

// sqliteDSN turns file:<path> into a modernc DSN and creates the parent directory.
func sqliteDSN(url string) (string, error) {
	path := strings.TrimPrefix(url, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "", fmt.Errorf("empty sqlite path in %q", url)
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", fmt.Errorf("create data directory: %w", err)
		}
	}
	return path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", nil
}

func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schemaDDL {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Capabilities() store.Capabilities {
	return store.Capabilities{Name: s.dialect.name, ContainsFilter: true, History: true}
}

func (s *Store) Update(ctx context.Context, fn func(store.Tx) error) error {
	return s.run(ctx, false, fn)
}

func (s *Store) View(ctx context.Context, fn func(store.Tx) error) error {
	return s.run(ctx, true, fn)
}

func (s *Store) run(ctx context.Context, readOnly bool, fn func(store.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, s.dialect.txOptions(readOnly))
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&sqlTx{tx: tx, d: s.dialect, lockRows: !readOnly && s.dialect.rowLocks}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func redact(url string) string {
	if i := strings.Index(url, "@"); i >= 0 {
		if j := strings.Index(url, "://"); j >= 0 && j < i {
			return url[:j+3] + "***" + url[i:]
		}
	}
	return url
}
