package ast

// Field is a single named, typed value within a row, carrying its owning
// table so that column resolution can disambiguate joins.
type Field struct {
	Table  string
	Column string
	Data   Value
}

// Row is an ordered collection of fields (`TableDataRow` in the spec).
type Row struct {
	Fields []Field
}

// Find returns the first field matching the §4.4 column-resolution rules:
// unqualified references match by column name alone; qualified references
// match either the field's own table name or a name the alias maps resolve
// to it through.
func (r *Row) Find(table *string, column string, aliasOf map[string]string, reverseAlias map[string]string) (Field, bool) {
	if table == nil {
		for _, f := range r.Fields {
			if f.Column == column {
				return f, true
			}
		}
		return Field{}, false
	}
	for _, f := range r.Fields {
		if f.Column != column {
			continue
		}
		if f.Table == *table {
			return f, true
		}
		if resolved, ok := aliasOf[*table]; ok && resolved == f.Table {
			return f, true
		}
		if alias, ok := reverseAlias[f.Table]; ok && alias == *table {
			return f, true
		}
	}
	return Field{}, false
}
