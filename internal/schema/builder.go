package schema

// Build validates an ordered list of table definitions and assembles the
// immutable Schema. It fails fast: the first violation aborts the pass and
// nothing partially built is ever observable: the accumulator is local and
// only published on full success.
//
// Validation order per table: table name first (against tables accepted so
// far), then each column in order, name against this table's accepted
// columns, type against the tables registered so far. A table's own name is
// registered before its columns are checked, which is what makes direct
// self-reference detectable; tables declared later are not yet visible as
// foreign-key targets.
func Build(defs []TableDef) (*Schema, error) {
	if defs == nil {
		return nil, newError(ErrKindNotIterable, "table definitions are not iterable")
	}

	var (
		tableNames []string
		tables     []*Table
		index      = make(map[string]int, len(defs))
	)

	for _, td := range defs {
		if err := ValidateIdentifier(td.Name, tableNames); err != nil {
			return nil, withContext(err, "invalid table name %q", td.Name)
		}
		tableNames = append(tableNames, td.Name)

		var (
			colNames []string
			columns  = make([]Column, 0, len(td.Columns))
		)
		for _, cd := range td.Columns {
			if err := ValidateIdentifier(cd.Name, colNames); err != nil {
				return nil, withContext(err,
					"invalid column name %q in table %q", cd.Name, td.Name)
			}
			colNames = append(colNames, cd.Name)

			typ, err := ResolveColumnType(cd.Type, td.Name, tableNames)
			if err != nil {
				return nil, withContext(err,
					"invalid type for column %q in table %q", cd.Name, td.Name)
			}
			columns = append(columns, Column{name: cd.Name, typ: typ})
		}

		index[td.Name] = len(tables)
		tables = append(tables, &Table{name: td.Name, columns: columns})
	}

	return &Schema{defs: defs, tables: tables, index: index}, nil
}
