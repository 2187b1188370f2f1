// Package schema builds and validates the in-memory table schema of an
// EasyDB client. A schema is constructed once from an ordered list of table
// definitions and is immutable afterwards; construction either fully
// succeeds or fails on the first invalid definition.
package schema

// ColumnType is the declared type of a column: one of the three primitives,
// or a reference to another table in the same schema. The interface is
// sealed: only Primitive and Reference satisfy it.
type ColumnType interface {
	isColumnType()

	// String renders the type the way schema files spell it:
	// "string", "integer", "float", or the referenced table name.
	String() string
}

// Primitive is a column type with no further structure.
type Primitive int

const (
	String Primitive = iota + 1
	Integer
	Float
)

func (Primitive) isColumnType() {}

func (p Primitive) String() string {
	switch p {
	case String:
		return "string"
	case Integer:
		return "integer"
	case Float:
		return "float"
	default:
		return "invalid"
	}
}

// Reference is a foreign-key column type, declared by naming the target
// table where a primitive would otherwise appear.
type Reference string

func (Reference) isColumnType() {}

func (r Reference) String() string { return string(r) }

// ColumnDef is one raw column definition as supplied by the caller.
type ColumnDef struct {
	Name string
	Type ColumnType
}

// TableDef is one raw table definition as supplied by the caller.
// Definition order is meaningful: a table's position is its implicit
// 1-based index, and a foreign key may only target tables declared earlier.
type TableDef struct {
	Name    string
	Columns []ColumnDef
}

// Column is a validated column inside a built schema.
type Column struct {
	name string
	typ  ColumnType
}

func (c Column) Name() string     { return c.name }
func (c Column) Type() ColumnType { return c.typ }

// Table is a validated table inside a built schema. Column order is the
// declaration order.
type Table struct {
	name    string
	columns []Column
}

func (t *Table) Name() string { return t.name }

func (t *Table) ColumnCount() int { return len(t.columns) }

// Columns returns the table's columns in declaration order.
// The returned slice is a copy; mutating it does not affect the schema.
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// ColumnNames returns the column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.name
	}
	return names
}

// Column looks up a column by name.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.columns {
		if c.name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Schema is the full validated set of table definitions. It is safe for
// concurrent use: nothing mutates it after Build returns.
type Schema struct {
	defs   []TableDef
	tables []*Table
	index  map[string]int
}

func (s *Schema) TableCount() int { return len(s.tables) }

// TableNames returns the table names in declaration order.
func (s *Schema) TableNames() []string {
	names := make([]string, len(s.tables))
	for i, t := range s.tables {
		names[i] = t.name
	}
	return names
}

// Table looks up a table by name.
func (s *Schema) Table(name string) (*Table, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.tables[i], true
}

// TableAt returns the table at the given 1-based index.
func (s *Schema) TableAt(idx int) (*Table, bool) {
	if idx < 1 || idx > len(s.tables) {
		return nil, false
	}
	return s.tables[idx-1], true
}

// Tables returns the tables in declaration order.
func (s *Schema) Tables() []*Table {
	out := make([]*Table, len(s.tables))
	copy(out, s.tables)
	return out
}

// Definitions returns the raw definitions the schema was built from,
// retained verbatim for reference.
func (s *Schema) Definitions() []TableDef { return s.defs }
