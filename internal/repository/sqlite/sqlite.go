package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"poetrydesk/internal/domain"

	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite
const DriverName = "sqlite"

// Options tune how each per-call connection is opened
type Options struct {
	ForeignKeys bool
	BusyTimeout time.Duration
}

// DefaultOptions leaves declared foreign keys unenforced and waits briefly on a
// locked file
func DefaultOptions() Options {
	return Options{
		ForeignKeys: false,
		BusyTimeout: 5 * time.Second,
	}
}

// DSN builds the driver data source name for a database file
func DSN(path string, opts Options) string {
	params := []string{
		"_pragma=busy_timeout(" + strconv.FormatInt(opts.BusyTimeout.Milliseconds(), 10) + ")",
	}
	if opts.ForeignKeys {
		params = append(params, "_pragma=foreign_keys(1)")
	}
	return path + "?" + strings.Join(params, "&")
}

// Opener returns a new, unshared database handle
type Opener func() (*sql.DB, error)

// Gateway implements repository.Executor. It holds no open connection:
// every call opens the database, runs one statement and closes it again.
type Gateway struct {
	path   string
	open   Opener
	logger *zap.Logger
}

// NewGateway creates a gateway for the database file at path
func NewGateway(path string, opts Options, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	dsn := DSN(path, opts)
	return &Gateway{
		path: path,
		open: func() (*sql.DB, error) {
			return sql.Open(DriverName, dsn)
		},
		logger: logger.Named("gateway"),
	}
}

// WithOpener replaces how connections are opened (used by tests)
func (g *Gateway) WithOpener(open Opener) *Gateway {
	g.open = open
	return g
}

// Path returns the database file path
func (g *Gateway) Path() string {
	return g.path
}

// connect opens a single-connection handle for one call
func (g *Gateway) connect() (*sql.DB, error) {
	db, err := g.open()
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// release closes the handle. A close failure is reported only when the
// statement itself succeeded, so the statement's error is never masked.
func (g *Gateway) release(db *sql.DB, err *error) {
	if cerr := db.Close(); cerr != nil {
		if *err == nil {
			*err = fmt.Errorf("failed to close database: %w", cerr)
			return
		}
		g.logger.Warn("close after failed statement", zap.Error(cerr))
	}
}

func (g *Gateway) trace(kind, query string, start time.Time, err error) {
	fields := []zap.Field{
		zap.String("query", compactSQL(query)),
		zap.Duration("took", time.Since(start)),
	}
	if err != nil {
		g.logger.Debug(kind+" failed", append(fields, zap.Error(err))...)
		return
	}
	g.logger.Debug(kind, fields...)
}

// ExecuteNonQuery runs a statement that returns no rows (DML or DDL)
func (g *Gateway) ExecuteNonQuery(ctx context.Context, query string, args ...any) (err error) {
	start := time.Now()
	defer func() { g.trace("exec", query, start, err) }()

	db, err := g.connect()
	if err != nil {
		return err
	}
	defer g.release(db, &err)

	if _, err = db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to execute statement: %w", err)
	}
	return nil
}

// ExecuteScalar returns the first column of the first row, or nil when the
// statement yields no rows
func (g *Gateway) ExecuteScalar(ctx context.Context, query string, args ...any) (value any, err error) {
	start := time.Now()
	defer func() { g.trace("scalar", query, start, err) }()

	db, err := g.connect()
	if err != nil {
		return nil, err
	}
	defer g.release(db, &err)

	err = db.QueryRowContext(ctx, query, args...).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query scalar: %w", err)
	}
	return value, nil
}

// FetchTable returns the whole result set with its column names
func (g *Gateway) FetchTable(ctx context.Context, query string, args ...any) (table *domain.Table, err error) {
	start := time.Now()
	defer func() { g.trace("table", query, start, err) }()

	db, err := g.connect()
	if err != nil {
		return nil, err
	}
	defer g.release(db, &err)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query table: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	table = domain.NewTable(columns...)
	for rows.Next() {
		cells, err := scanCells(rows, len(columns))
		if err != nil {
			return nil, err
		}
		table.Rows = append(table.Rows, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return table, nil
}

// FetchRow returns the first row as column -> value. A result without
// columns fails with domain.ErrNoColumns; a result without rows fails with
// domain.ErrNotFound.
func (g *Gateway) FetchRow(ctx context.Context, query string, args ...any) (row map[string]string, err error) {
	start := time.Now()
	defer func() { g.trace("row", query, start, err) }()

	db, err := g.connect()
	if err != nil {
		return nil, err
	}
	defer g.release(db, &err)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query row: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	if len(columns) == 0 {
		return nil, domain.ErrNoColumns
	}

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("error iterating rows: %w", err)
		}
		return nil, domain.ErrNotFound
	}

	cells, err := scanCells(rows, len(columns))
	if err != nil {
		return nil, err
	}

	row = make(map[string]string, len(columns))
	for i, col := range columns {
		row[col] = cells[i]
	}
	return row, nil
}

// FetchColumn returns the first column of every row
func (g *Gateway) FetchColumn(ctx context.Context, query string, args ...any) (values []string, err error) {
	start := time.Now()
	defer func() { g.trace("column", query, start, err) }()

	db, err := g.connect()
	if err != nil {
		return nil, err
	}
	defer g.release(db, &err)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query column: %w", err)
	}
	defer rows.Close()

	values = make([]string, 0)
	for rows.Next() {
		var v any
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan value: %w", err)
		}
		values = append(values, cellString(v))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return values, nil
}
