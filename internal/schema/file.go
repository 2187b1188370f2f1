package schema

import (
	"os"

	"go.yaml.in/yaml/v3"
)

// Reserved type scalars in schema files. Any other string scalar in type
// position is taken as a foreign-key reference, which means a table named
// exactly "string", "integer" or "float" cannot be referenced from a file
// (the typed Build API has no such ambiguity).
var primitiveScalars = map[string]Primitive{
	"string":  String,
	"integer": Integer,
	"float":   Float,
}

// Parse reads an ordered list of table definitions from a YAML document:
//
//	- table: users
//	  columns:
//	    - name: name
//	      type: string
//	    - name: age
//	      type: integer
//	- table: posts
//	  columns:
//	    - name: author
//	      type: users
//
// Parse works on the raw node tree so that dynamically typed documents are
// rejected at this boundary: a top level that is not a sequence fails with
// ErrKindNotIterable, a name that is not a string scalar fails with
// ErrKindNotAString, and a type that is not a string scalar fails with
// ErrKindUnsupportedColumnType. Referential and uniqueness rules are not
// checked here; Build does that.
func Parse(data []byte) ([]TableDef, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &SchemaError{
			Kind:    ErrKindNotIterable,
			Message: "schema document is not valid YAML",
			Cause:   err,
		}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, newError(ErrKindNotIterable, "schema document is empty")
	}

	root := doc.Content[0]
	if root.Kind != yaml.SequenceNode {
		return nil, newError(ErrKindNotIterable,
			"schema document must be a sequence of table definitions, got %s", nodeKind(root))
	}

	defs := make([]TableDef, 0, len(root.Content))
	for i, item := range root.Content {
		td, err := parseTableNode(item, i)
		if err != nil {
			return nil, err
		}
		defs = append(defs, td)
	}
	return defs, nil
}

// ParseFile reads table definitions from a YAML schema file on disk.
func ParseFile(path string) ([]TableDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Load parses a schema file and builds the validated Schema from it.
func Load(path string) (*Schema, error) {
	defs, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return Build(defs)
}

func parseTableNode(n *yaml.Node, idx int) (TableDef, error) {
	if n.Kind != yaml.MappingNode {
		return TableDef{}, newError(ErrKindNotIterable,
			"table definition %d is not a mapping, got %s", idx+1, nodeKind(n))
	}

	var td TableDef
	seenName := false

	for j := 0; j+1 < len(n.Content); j += 2 {
		key, val := n.Content[j], n.Content[j+1]
		switch key.Value {
		case "table":
			if !isStringScalar(val) {
				return TableDef{}, newError(ErrKindNotAString,
					"table name in definition %d is not a string, got %s", idx+1, nodeKind(val))
			}
			td.Name = val.Value
			seenName = true
		case "columns":
			if val.Kind != yaml.SequenceNode {
				return TableDef{}, newError(ErrKindNotIterable,
					"columns of table definition %d are not a sequence, got %s", idx+1, nodeKind(val))
			}
			for _, cn := range val.Content {
				cd, err := parseColumnNode(cn, idx)
				if err != nil {
					return TableDef{}, err
				}
				td.Columns = append(td.Columns, cd)
			}
		}
	}

	if !seenName {
		return TableDef{}, newError(ErrKindNotAString,
			"table definition %d has no table name", idx+1)
	}
	return td, nil
}

func parseColumnNode(n *yaml.Node, tableIdx int) (ColumnDef, error) {
	if n.Kind != yaml.MappingNode {
		return ColumnDef{}, newError(ErrKindNotIterable,
			"column definition in table %d is not a mapping, got %s", tableIdx+1, nodeKind(n))
	}

	var cd ColumnDef
	for j := 0; j+1 < len(n.Content); j += 2 {
		key, val := n.Content[j], n.Content[j+1]
		switch key.Value {
		case "name":
			if !isStringScalar(val) {
				return ColumnDef{}, newError(ErrKindNotAString,
					"column name in table %d is not a string, got %s", tableIdx+1, nodeKind(val))
			}
			cd.Name = val.Value
		case "type":
			if !isStringScalar(val) {
				return ColumnDef{}, newError(ErrKindUnsupportedColumnType,
					"column type %q in table %d is not one of string, integer or float",
					val.Value, tableIdx+1)
			}
			if p, ok := primitiveScalars[val.Value]; ok {
				cd.Type = p
			} else {
				cd.Type = Reference(val.Value)
			}
		}
	}
	return cd, nil
}

func isStringScalar(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!str"
}

// nodeKind names a YAML node for error messages.
func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		if n.Tag == "!!str" {
			return "string"
		}
		return "scalar " + n.Tag
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
