package client

import (
	"github.com/easydb-io/easydb-go/internal/errs"
	"github.com/easydb-io/easydb-go/internal/schema"
)

// ForeignID is the value of a foreign-key column: the row identifier of a
// row in the referenced table. Zero means "no reference".
type ForeignID int64

// RowChecker validates a value list against a table before insert.
// The default is CheckRowValues; callers may substitute their own through
// WithRowChecker.
type RowChecker func(t *schema.Table, values []any) error

// CheckRowValues is the default row-value checker: the value count must
// equal the table's column count, and each value's Go type must match the
// declared column type. Foreign-key columns take a ForeignID (or a plain
// integer); whether the referenced row exists is the server's check, not
// the client's.
func CheckRowValues(t *schema.Table, values []any) error {
	if len(values) != t.ColumnCount() {
		return errs.Newf(errs.ErrKindInvalidInput,
			"row has %d values, table %q has %d columns",
			len(values), t.Name(), t.ColumnCount())
	}

	for i, col := range t.Columns() {
		if err := checkValue(col, values[i]); err != nil {
			return err
		}
	}
	return nil
}

func checkValue(col schema.Column, v any) error {
	switch typ := col.Type().(type) {
	case schema.Primitive:
		if !primitiveMatches(typ, v) {
			return errs.Newf(errs.ErrKindInvalidInput,
				"column %q expects %s, got %T", col.Name(), typ, v)
		}
	case schema.Reference:
		switch v.(type) {
		case ForeignID, int, int64:
		default:
			return errs.Newf(errs.ErrKindInvalidInput,
				"column %q expects a row id of table %q, got %T", col.Name(), typ, v)
		}
	default:
		// Unreachable for schemas produced by schema.Build.
		return errs.Newf(errs.ErrKindInvalidInput,
			"column %q has unresolved type", col.Name())
	}
	return nil
}

func primitiveMatches(p schema.Primitive, v any) bool {
	switch p {
	case schema.String:
		_, ok := v.(string)
		return ok
	case schema.Integer:
		switch v.(type) {
		case int, int32, int64:
			return true
		}
	case schema.Float:
		switch v.(type) {
		case float32, float64:
			return true
		}
	}
	return false
}
