// Package introspect imports table definitions from an existing SQL
// database so a client schema can be bootstrapped from a live system
// instead of written by hand. Drivers live in subpackages; the
// orchestration here is driver-agnostic.
package introspect

import (
	"context"
	"strings"
	"time"

	"github.com/easydb-io/easydb-go/internal/errs"
	"github.com/easydb-io/easydb-go/internal/schema"
)

// Importer reads the structure of a source database. Each driver implements
// the DB-specific queries; Import is shared.
type Importer interface {
	// ListTables returns all user-defined table names of the source.
	ListTables(ctx context.Context) ([]string, error)

	// InspectTable returns the raw definition of one table, with
	// single-column foreign keys already mapped to schema.Reference.
	InspectTable(ctx context.Context, table string) (schema.TableDef, error)

	// Close releases the driver's resources.
	Close()
}

// Config holds the settings drivers need to reach the source database.
type Config struct {
	// DSN is the full data source name / connection string.
	DSN string

	// Pool tuning
	MaxConns int32
	MinConns int32

	// ConnectTimeout bounds connection establishment.
	ConnectTimeout time.Duration
}

// DefaultConfig returns modest pool settings for the given DSN;
// introspection is a one-shot, low-concurrency workload.
func DefaultConfig(dsn string) *Config {
	return &Config{
		DSN:            dsn,
		MaxConns:       4,
		MinConns:       1,
		ConnectTimeout: 10 * time.Second,
	}
}

// Import reads every table of the source and returns the definitions
// ordered so that foreign-key targets precede the tables referencing them,
// which is the order the schema builder requires. Tables involved in a
// reference cycle keep their source order and are surfaced later by the
// builder as an integrity error.
func Import(ctx context.Context, imp Importer) ([]schema.TableDef, error) {
	names, err := imp.ListTables(ctx)
	if err != nil {
		return nil, err
	}

	defs := make([]schema.TableDef, 0, len(names))
	for _, name := range names {
		td, err := imp.InspectTable(ctx, name)
		if err != nil {
			return nil, err
		}
		defs = append(defs, td)
	}

	return orderByReferences(defs), nil
}

// ImportSchema runs Import and builds the validated schema from the result.
func ImportSchema(ctx context.Context, imp Importer) (*schema.Schema, error) {
	defs, err := Import(ctx, imp)
	if err != nil {
		return nil, err
	}
	s, err := schema.Build(defs)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindSchemaInvalid, "imported schema failed validation", err)
	}
	return s, nil
}

// orderByReferences sorts defs so every table appears after the tables it
// references. Source listings are usually alphabetical, which the builder's
// prior-tables-only visibility rule does not accept. Unplaceable tables
// (reference cycles, dangling references) are appended in source order and
// left for the builder to reject.
func orderByReferences(defs []schema.TableDef) []schema.TableDef {
	placed := make(map[string]bool, len(defs))
	ordered := make([]schema.TableDef, 0, len(defs))
	remaining := defs

	for len(remaining) > 0 {
		var next []schema.TableDef
		progress := false

		for _, td := range remaining {
			if referencesPlaced(td, placed) {
				placed[td.Name] = true
				ordered = append(ordered, td)
				progress = true
			} else {
				next = append(next, td)
			}
		}
		if !progress {
			ordered = append(ordered, next...)
			break
		}
		remaining = next
	}
	return ordered
}

func referencesPlaced(td schema.TableDef, placed map[string]bool) bool {
	for _, cd := range td.Columns {
		ref, ok := cd.Type.(schema.Reference)
		if !ok {
			continue
		}
		// Self-references are the builder's call to reject.
		if string(ref) != td.Name && !placed[string(ref)] {
			return false
		}
	}
	return true
}

// MapSQLType maps an information_schema data type name to a primitive.
// The boolean is false for types this client cannot represent.
func MapSQLType(dataType string) (schema.Primitive, bool) {
	switch strings.ToLower(dataType) {
	case "text", "varchar", "char", "character", "character varying",
		"uuid", "longtext", "mediumtext", "tinytext", "enum":
		return schema.String, true
	case "integer", "int", "int2", "int4", "int8",
		"smallint", "bigint", "tinyint", "mediumint", "serial", "bigserial":
		return schema.Integer, true
	case "real", "float", "float4", "float8", "double", "double precision",
		"numeric", "decimal":
		return schema.Float, true
	default:
		return 0, false
	}
}

// UnsupportedSQLType builds the schema-layer error reported when a source
// column's SQL type has no primitive mapping.
func UnsupportedSQLType(table, column, dataType string) error {
	return &schema.SchemaError{
		Kind: schema.ErrKindUnsupportedColumnType,
		Message: "column \"" + column + "\" of imported table \"" + table +
			"\" has SQL type \"" + dataType + "\" which is not one of string, integer or float",
	}
}
