package db

// IndexBuilder assembles an IndexDefinition field by field.
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts a definition named name.
func NewIndex(name string) *IndexBuilder {
	return &IndexBuilder{def: IndexDefinition{Name: name}}
}

// Prefix limits the index to keys under prefixes.
func (b *IndexBuilder) Prefix(prefixes ...string) *IndexBuilder {
	b.def.Prefixes = append(b.def.Prefixes, prefixes...)
	return b
}

// NoStopwords disables the stopword list.
func (b *IndexBuilder) NoStopwords() *IndexBuilder {
	b.def.NoStopwords = true
	return b
}

// Numeric adds a range-filterable field.
func (b *IndexBuilder) Numeric(name string) *IndexBuilder {
	return b.add(IndexField{Name: name, Type: FieldNumeric})
}

// SortableNumeric adds a range-filterable field usable in SORTBY.
func (b *IndexBuilder) SortableNumeric(name string) *IndexBuilder {
	return b.add(IndexField{Name: name, Type: FieldNumeric, Sortable: true})
}

// Tags adds a case-sensitive tag set whose values are joined by separator.
func (b *IndexBuilder) Tags(name, separator string) *IndexBuilder {
	return b.add(IndexField{Name: name, Type: FieldTag, Separator: separator, CaseSensitive: true})
}

// Text adds a full-text field.
func (b *IndexBuilder) Text(name string) *IndexBuilder {
	return b.add(IndexField{Name: name, Type: FieldText})
}

// SortKey adds a field that is only used for SORTBY.
func (b *IndexBuilder) SortKey(name string) *IndexBuilder {
	return b.add(IndexField{Name: name, Type: FieldText, NoStem: true, Sortable: true, NoIndex: true})
}

func (b *IndexBuilder) add(f IndexField) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, f)
	return b
}

// Build validates and returns the definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	def := b.def
	return &def, nil
}
