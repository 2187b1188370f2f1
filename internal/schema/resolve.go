package schema

// ResolveColumnType checks a declared column type and returns its resolved
// form. A Reference must name another table already present in
// visibleTables; referencing owningTable itself is rejected as a cycle.
// A Primitive must be one of String, Integer, Float. Anything else,
// including a nil type, is unsupported.
//
// Only tables registered before (or including) the owning table are visible
// as foreign-key targets; forward references are not resolved.
func ResolveColumnType(declared ColumnType, owningTable string, visibleTables []string) (ColumnType, error) {
	switch t := declared.(type) {
	case Reference:
		if string(t) == owningTable {
			return nil, newError(ErrKindSelfReferencingForeignKey,
				"foreign key %q references current table, would form a cycle", t)
		}
		if !containsName(visibleTables, string(t)) {
			return nil, newError(ErrKindUnknownForeignKeyTarget,
				"foreign key references nonexistent table %q", t)
		}
		return t, nil
	case Primitive:
		switch t {
		case String, Integer, Float:
			return t, nil
		}
		return nil, newError(ErrKindUnsupportedColumnType,
			"column type %d is not one of string, integer or float", int(t))
	default:
		return nil, newError(ErrKindUnsupportedColumnType,
			"column type %v is not one of string, integer or float", declared)
	}
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
