// Package postgres implements schema import from a PostgreSQL source,
// backed by pgxpool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/easydb-io/easydb-go/internal/errs"
	"github.com/easydb-io/easydb-go/internal/introspect"
	"github.com/easydb-io/easydb-go/internal/schema"
)

// Importer reads table structure from the public schema of a PostgreSQL
// database. It is safe for concurrent use.
type Importer struct {
	pool *pgxpool.Pool
}

var _ introspect.Importer = (*Importer)(nil)

// New connects to PostgreSQL using cfg and returns an Importer. The
// connection is validated with a ping before returning.
func New(ctx context.Context, cfg *introspect.Config) (*Importer, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "invalid DSN", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "failed to create connection pool", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, mapError(err, "ping failed")
	}

	return &Importer{pool: pool}, nil
}

// Close drains the connection pool.
func (im *Importer) Close() {
	im.pool.Close()
}

// ListTables returns all base tables of the public schema in name order.
func (im *Importer) ListTables(ctx context.Context) ([]string, error) {
	const q = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		  AND table_type   = 'BASE TABLE'
		ORDER BY table_name`

	rows, err := im.pool.Query(ctx, q)
	if err != nil {
		return nil, mapError(err, "failed to list tables")
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, mapError(err, "failed to scan table name")
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "error iterating tables")
	}
	return tables, nil
}

// InspectTable reads one table's columns in ordinal order and maps them to
// a raw definition. A column that is part of a single-column foreign key
// becomes a reference to the target table; everything else must map to a
// primitive.
func (im *Importer) InspectTable(ctx context.Context, table string) (schema.TableDef, error) {
	fks, err := im.fetchForeignKeys(ctx, table)
	if err != nil {
		return schema.TableDef{}, err
	}

	const q = `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = 'public'
		  AND table_name   = $1
		ORDER BY ordinal_position`

	rows, err := im.pool.Query(ctx, q, table)
	if err != nil {
		return schema.TableDef{}, mapError(err, "failed to fetch columns")
	}
	defer rows.Close()

	td := schema.TableDef{Name: table}
	for rows.Next() {
		var name, dataType string
		if err := rows.Scan(&name, &dataType); err != nil {
			return schema.TableDef{}, mapError(err, "failed to scan column info")
		}

		var typ schema.ColumnType
		if ref, ok := fks[name]; ok {
			typ = schema.Reference(ref)
		} else if p, ok := introspect.MapSQLType(dataType); ok {
			typ = p
		} else {
			return schema.TableDef{}, introspect.UnsupportedSQLType(table, name, dataType)
		}
		td.Columns = append(td.Columns, schema.ColumnDef{Name: name, Type: typ})
	}
	if err := rows.Err(); err != nil {
		return schema.TableDef{}, mapError(err, "error iterating columns")
	}
	return td, nil
}

// fetchForeignKeys maps each foreign-key column of table to the table it
// references.
func (im *Importer) fetchForeignKeys(ctx context.Context, table string) (map[string]string, error) {
	const q = `
		SELECT kcu.column_name,
		       ccu.table_name AS ref_table
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON tc.constraint_name = kcu.constraint_name
		 AND tc.table_schema    = kcu.table_schema
		JOIN information_schema.constraint_column_usage ccu
		  ON tc.constraint_name = ccu.constraint_name
		WHERE tc.constraint_type = 'FOREIGN KEY'
		  AND tc.table_schema    = 'public'
		  AND tc.table_name      = $1`

	rows, err := im.pool.Query(ctx, q, table)
	if err != nil {
		return nil, mapError(err, "failed to fetch foreign keys")
	}
	defer rows.Close()

	fks := make(map[string]string)
	for rows.Next() {
		var column, refTable string
		if err := rows.Scan(&column, &refTable); err != nil {
			return nil, mapError(err, "failed to scan foreign key")
		}
		fks[column] = refTable
	}
	return fks, rows.Err()
}

// mapError translates pgx / pgconn native errors into *errs.Error.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		kind := errs.ErrKindInvalidInput
		// Class 08 — connection errors
		if len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08" {
			kind = errs.ErrKindConnectionFailed
		}
		return errs.Wrap(kind, fmt.Sprintf("%s: %s", msg, pgErr.Message), err)
	}

	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}
