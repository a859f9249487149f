package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"

	DriverPgx = "pgx"
	DriverPQ  = "pq"

	pgUniqueViolation = "23505"
)

type dialect struct {
	name       string
	driverName string
	// numbered rewrites ? placeholders to $1..$n.
	numbered bool
	rowLocks bool
}

var (
	sqliteDialect = dialect{name: DialectSQLite, driverName: "sqlite"}
	pgxDialect    = dialect{name: DialectPostgres, driverName: "pgx", numbered: true, rowLocks: true}
	pqDialect     = dialect{name: DialectPostgres, driverName: "postgres", numbered: true, rowLocks: true}
)

func dialectFor(provider, driver string) (dialect, error) {
	switch provider {
	case DialectSQLite:
		return sqliteDialect, nil
	case DialectPostgres:
		switch driver {
		case "", DriverPgx:
			return pgxDialect, nil
		case DriverPQ:
			return pqDialect, nil
		}
		return dialect{}, fmt.Errorf("unknown postgres driver %q", driver)
	}
	return dialect{}, fmt.Errorf("unknown provider %q", provider)
}

func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// txOptions pins Postgres views to one snapshot so a listing's count and
// page agree. SQLite transactions are already serializable.
func (d dialect) txOptions(readOnly bool) *sql.TxOptions {
	if readOnly && d.name == DialectPostgres {
		return &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead}
	}
	return nil
}

func isConflict(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			return strings.Contains(liteErr.Error(), "UNIQUE constraint failed")
		}
	}
	return false
}

// escapeLike escapes LIKE metacharacters so q matches literally.
func escapeLike(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}
