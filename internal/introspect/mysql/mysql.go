// Package mysql implements schema import from a MySQL source, backed by
// database/sql and the go-sql-driver.
package mysql

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/go-sql-driver/mysql" // register "mysql" driver

	"github.com/easydb-io/easydb-go/internal/errs"
	"github.com/easydb-io/easydb-go/internal/introspect"
	"github.com/easydb-io/easydb-go/internal/schema"
)

// Importer reads table structure from the current MySQL database.
// It is safe for concurrent use.
type Importer struct {
	db *sql.DB
}

var _ introspect.Importer = (*Importer)(nil)

// New opens a MySQL connection pool using cfg and returns an Importer.
// The connection is validated with a ping before returning.
func New(ctx context.Context, cfg *introspect.Config) (*Importer, error) {
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "invalid DSN", err)
	}

	db.SetMaxOpenConns(int(cfg.MaxConns))
	db.SetMaxIdleConns(int(cfg.MinConns))

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, mapError(err, "ping failed")
	}

	return &Importer{db: db}, nil
}

// Close drains the connection pool.
func (im *Importer) Close() {
	_ = im.db.Close()
}

// ListTables returns all base tables of the current database in name order.
func (im *Importer) ListTables(ctx context.Context) ([]string, error) {
	const q = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_type   = 'BASE TABLE'
		ORDER BY table_name`

	rows, err := im.db.QueryContext(ctx, q)
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
// a raw definition, turning single-column foreign keys into references.
func (im *Importer) InspectTable(ctx context.Context, table string) (schema.TableDef, error) {
	fks, err := im.fetchForeignKeys(ctx, table)
	if err != nil {
		return schema.TableDef{}, err
	}

	const q = `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = DATABASE()
		  AND table_name   = ?
		ORDER BY ordinal_position`

	rows, err := im.db.QueryContext(ctx, q, table)
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
		SELECT column_name, referenced_table_name
		FROM information_schema.key_column_usage
		WHERE table_schema = DATABASE()
		  AND table_name   = ?
		  AND referenced_table_name IS NOT NULL`

	rows, err := im.db.QueryContext(ctx, q, table)
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

// mapError translates database/sql and driver errors into *errs.Error.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}

	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}
