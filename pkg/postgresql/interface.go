package postgresql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock

// RowsInterface wraps pgx.Rows for mocking
type RowsInterface interface {
	Next() bool
	Scan(dest ...any) error
	Close()
	Err() error
}

// RowsWrapper wraps pgx.Rows to implement RowsInterface
type RowsWrapper struct {
	rows pgx.Rows
}

// NewRowsWrapper creates a new RowsWrapper.
func NewRowsWrapper(rows pgx.Rows) RowsInterface {
	return &RowsWrapper{rows: rows}
}

// Next returns true if there are more rows to read.
func (r *RowsWrapper) Next() bool {
	return r.rows.Next()
}

// Scan scans the current row into the given destination.
func (r *RowsWrapper) Scan(dest ...any) error {
	return r.rows.Scan(dest...)
}

// Close closes the RowsWrapper.
func (r *RowsWrapper) Close() {
	r.rows.Close()
}

// Err returns the error from the RowsWrapper.
func (r *RowsWrapper) Err() error {
	return r.rows.Err()
}

// PostgreSQLClient defines the interface for PostgreSQL operations.
type PostgreSQLClient interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (RowsInterface, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row

	Begin(ctx context.Context) (pgx.Tx, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)

	Ping(ctx context.Context) error
	Close()

	Pool() *pgxpool.Pool
	Stats() *pgxpool.Stat
	DatabaseName() string
}

// SelectBuilder provides a fluent interface for building SELECT queries.
// Conditions use `?` placeholders which are numbered at Build time.
type SelectBuilder interface {
	Select(columns ...string) SelectBuilder
	From(table string) SelectBuilder
	Where(condition string, args ...any) SelectBuilder
	OrderBy(column string, desc ...bool) SelectBuilder
	Limit(limit int) SelectBuilder
	Offset(offset int) SelectBuilder
	ForUpdate() SelectBuilder
	Build() (string, []any)
}

// InsertBuilder provides a fluent interface for building INSERT queries
type InsertBuilder interface {
	Into(table string) InsertBuilder
	Columns(columns ...string) InsertBuilder
	Values(values ...any) InsertBuilder
	OnConflictDoNothing(columns ...string) InsertBuilder
	Returning(columns ...string) InsertBuilder
	Build() (string, []any)
}

// UpdateBuilder provides a fluent interface for building UPDATE queries
type UpdateBuilder interface {
	Table(table string) UpdateBuilder
	Set(column string, value any) UpdateBuilder
	SetExpr(expression string, args ...any) UpdateBuilder
	Where(condition string, args ...any) UpdateBuilder
	Returning(columns ...string) UpdateBuilder
	Build() (string, []any)
}
