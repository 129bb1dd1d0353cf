package compute

import "fmt"

// Row is one record of a table.
type Row []any

// Table is an in-memory column-named data source.
type Table struct {
	Fields []string
	Rows   []Row
}

// NewTable builds a table from field names and rows.
func NewTable(fields []string, rows []Row) *Table {
	return &Table{Fields: fields, Rows: rows}
}

func (t *Table) fieldIndex(name string) (int, error) {
	for i, f := range t.Fields {
		if f == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no field %q in table with fields %v", name, t.Fields)
}

// Column returns the values of one field.
func (t *Table) Column(name string) ([]any, error) {
	idx, err := t.fieldIndex(name)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, nil
}

// Values returns the single column of a one-field table.
func (t *Table) Values() ([]any, error) {
	if len(t.Fields) != 1 {
		return nil, fmt.Errorf("Values requires a single-field table, have %v", t.Fields)
	}
	return t.Column(t.Fields[0])
}

func (t *Table) String() string {
	return fmt.Sprintf("Table%v[%d rows]", t.Fields, len(t.Rows))
}

// sameFields reports whether two field lists are identical.
func sameFields(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
