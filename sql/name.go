package sql

import (
	"fmt"
	"strings"
)

// NameKind is the closed variant of name categories the catalogue
// recognises.
type NameKind uint8

const (
	RootName NameKind = iota
	FunctionName
	SchemaName
	EntityName
	SequenceName
	IndexName
	ColumnName
)

const (
	delimiter = "."
	wildcard  = "*"
)

// Name is a qualified, lower-cased identifier. Components may not contain
// the delimiter; only Column names may contain the wildcard, and only as a
// whole component (e.g. "schema.entity.*").
type Name struct {
	Kind       NameKind
	Components []string
}

// NewName lower-cases and validates each component before constructing a
// Name of the given kind.
func NewName(kind NameKind, components ...string) (Name, error) {
	norm := make([]string, len(components))
	for i, c := range components {
		lc := strings.ToLower(c)
		if strings.Contains(lc, delimiter) {
			return Name{}, fmt.Errorf("name component %q contains delimiter", c)
		}
		if strings.Contains(lc, wildcard) {
			if kind != ColumnName || lc != wildcard {
				return Name{}, fmt.Errorf("name component %q may not contain wildcard", c)
			}
		}
		norm[i] = lc
	}
	return Name{Kind: kind, Components: norm}, nil
}

// NewColumnName builds the qualified schema.entity.column name.
func NewColumnName(schema, entity, column string) (Name, error) {
	return NewName(ColumnName, schema, entity, column)
}

func (n Name) String() string {
	return strings.Join(n.Components, delimiter)
}

func (n Name) Equal(o Name) bool {
	if n.Kind != o.Kind || len(n.Components) != len(o.Components) {
		return false
	}
	for i := range n.Components {
		if n.Components[i] != o.Components[i] {
			return false
		}
	}
	return true
}

// Matches reports whether n (a concrete column name) matches pattern,
// honouring a trailing "*" wildcard component in pattern.
func (n Name) Matches(pattern Name) bool {
	if n.Kind != ColumnName || pattern.Kind != ColumnName {
		return n.Equal(pattern)
	}
	if len(pattern.Components) > 0 && pattern.Components[len(pattern.Components)-1] == wildcard {
		prefix := pattern.Components[:len(pattern.Components)-1]
		if len(n.Components) < len(prefix) {
			return false
		}
		for i, p := range prefix {
			if n.Components[i] != p {
				return false
			}
		}
		return true
	}
	return n.Equal(pattern)
}
