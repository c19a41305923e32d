package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// Conn wraps a database handle and rewrites `?` placeholders for drivers
// that number their parameters.
type Conn struct {
	*sql.DB
	Driver string
}

// Open opens a SQLite file (driver "sqlite") or a Postgres DSN (driver "pgx").
func Open(driver, dsn string) (*Conn, error) {
	switch driver {
	case "", DriverSQLite:
		return openSQLite(dsn)
	case DriverPostgres:
		return openPostgres(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func openSQLite(path string) (*Conn, error) {
	db, err := sql.Open(DriverSQLite, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &Conn{DB: db, Driver: DriverSQLite}, nil
}

func openPostgres(dsn string) (*Conn, error) {
	db, err := sql.Open(DriverPostgres, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres database: %w", err)
	}
	return &Conn{DB: db, Driver: DriverPostgres}, nil
}

func (c *Conn) Exec(query string, args ...any) (sql.Result, error) {
	return c.DB.Exec(c.Rebind(query), args...)
}

func (c *Conn) Query(query string, args ...any) (*sql.Rows, error) {
	return c.DB.Query(c.Rebind(query), args...)
}

func (c *Conn) QueryRow(query string, args ...any) *sql.Row {
	return c.DB.QueryRow(c.Rebind(query), args...)
}

// Begin starts a transaction that rebinds like the connection.
func (c *Conn) Begin() (*Tx, error) {
	tx, err := c.DB.BeginTx(context.Background(), nil)
	if err != nil {
		return nil, err
	}
	return &Tx{Tx: tx, conn: c}, nil
}

// Tx is a transaction on a Conn.
type Tx struct {
	*sql.Tx
	conn *Conn
}

func (t *Tx) Exec(query string, args ...any) (sql.Result, error) {
	return t.Tx.Exec(t.conn.Rebind(query), args...)
}

func (t *Tx) QueryRow(query string, args ...any) *sql.Row {
	return t.Tx.QueryRow(t.conn.Rebind(query), args...)
}

// Rebind rewrites `?` placeholders to `$1, $2, ...` for Postgres. Question
// marks inside single-quoted literals are left alone.
func (c *Conn) Rebind(query string) string {
	if c.Driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	quoted := false
	for _, r := range query {
		switch {
		case r == '\'':
			quoted = !quoted
			b.WriteRune(r)
		case r == '?' && !quoted:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
