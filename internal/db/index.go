package db

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FieldType is the FT schema type of an indexed hash field.
type FieldType int

const (
	// FieldNumeric supports range predicates.
	FieldNumeric FieldType = iota
	// FieldTag supports exact-match set predicates.
	FieldTag
	// FieldText is tokenized for full-text matching.
	FieldText
)

func (t FieldType) String() string {
	switch t {
	case FieldNumeric:
		return "NUMERIC"
	case FieldTag:
		return "TAG"
	case FieldText:
		return "TEXT"
	default:
		return "FieldType(" + strconv.Itoa(int(t)) + ")"
	}
}

// IndexField is one attribute of an index schema.
type IndexField struct {
	Name string
	Type FieldType

	Separator     string // TAG: multi-value separator
	CaseSensitive bool   // TAG: match values byte for byte
	NoStem        bool   // TEXT: index words as written

	// Sortable enables SORTBY. NoIndex keeps a sortable field out of matching.
	Sortable bool
	NoIndex  bool
}

// IndexDefinition is an FT.CREATE over hashes under Prefixes.
type IndexDefinition struct {
	Name     string
	Prefixes []string
	// NoStopwords indexes every token, so short common words stay searchable.
	NoStopwords bool
	Fields      []IndexField
}

// Validate checks that the definition can be sent to FT.CREATE.
func (idx *IndexDefinition) Validate() error {
	if idx.Name == "" {
		return errors.New("index name is required")
	}
	if !IsValidIdentifier(idx.Name) {
		return fmt.Errorf("index name %q contains invalid characters", idx.Name)
	}
	if len(idx.Fields) == 0 {
		return errors.New("at least one field is required")
	}

	seen := make(map[string]bool, len(idx.Fields))
	for i := range idx.Fields {
		f := &idx.Fields[i]
		switch {
		case f.Name == "":
			return fmt.Errorf("field %d: name is required", i)
		case seen[f.Name]:
			return fmt.Errorf("duplicate field %q", f.Name)
		case f.Type < FieldNumeric || f.Type > FieldText:
			return fmt.Errorf("field %q: unknown type %s", f.Name, f.Type)
		case f.NoIndex && !f.Sortable:
			return fmt.Errorf("field %q: NOINDEX requires SORTABLE", f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}

// SortableField reports whether name is declared SORTABLE.
func (idx *IndexDefinition) SortableField(name string) bool {
	for i := range idx.Fields {
		if idx.Fields[i].Name == name {
			return idx.Fields[i].Sortable
		}
	}
	return false
}

// Args renders the FT.CREATE arguments that follow the command name.
func (idx *IndexDefinition) Args() []string {
	args := []string{idx.Name, "ON", "HASH"}
	if len(idx.Prefixes) > 0 {
		args = append(args, "PREFIX", strconv.Itoa(len(idx.Prefixes)))
		args = append(args, idx.Prefixes...)
	}
	if idx.NoStopwords {
		args = append(args, "STOPWORDS", "0")
	}
	args = append(args, "SCHEMA")
	for i := range idx.Fields {
		args = append(args, idx.Fields[i].args()...)
	}
	return args
}

func (f *IndexField) args() []string {
	args := []string{f.Name, f.Type.String()}
	switch f.Type {
	case FieldTag:
		if f.Separator != "" {
			args = append(args, "SEPARATOR", f.Separator)
		}
		if f.CaseSensitive {
			args = append(args, "CASESENSITIVE")
		}
	case FieldText:
		if f.NoStem {
			args = append(args, "NOSTEM")
		}
	}
	if f.Sortable {
		args = append(args, "SORTABLE")
	}
	if f.NoIndex {
		args = append(args, "NOINDEX")
	}
	return args
}

// String renders the full FT.CREATE command for logs.
func (idx *IndexDefinition) String() string {
	return "FT.CREATE " + strings.Join(idx.Args(), " ")
}

// IsValidIdentifier reports whether s matches [a-zA-Z0-9_:-]+.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_' || r == ':' || r == '-':
		default:
			return false
		}
	}
	return true
}
