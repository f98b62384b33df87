// Package table accumulates flattened lookup records into a dynamically
// shaped table and writes it as CSV.
package table

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// Table keeps columns in first-seen order. Cells are raw JSON values; a
// missing cell reads as the zero gjson.Result.
type Table struct {
	columns []string
	index   map[string]int
	rows    []map[string]gjson.Result
}

func New() *Table {
	return &Table{index: map[string]int{}}
}

func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

func (t *Table) Len() int { return len(t.rows) }

func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Append adds one row. Fields naming unknown columns add trailing columns.
func (t *Table) Append(fields []Field) {
	t.rows = append(t.rows, make(map[string]gjson.Result, len(fields)))
	i := len(t.rows) - 1
	for _, f := range fields {
		t.set(i, f.Name, f.Value)
	}
}

// Cell reports the raw value of col in row; ok is false when the row has no value there.
func (t *Table) Cell(row int, col string) (gjson.Result, bool) {
	v, ok := t.rows[row][col]
	return v, ok
}

func (t *Table) set(row int, col string, v gjson.Result) {
	if _, ok := t.index[col]; !ok {
		t.index[col] = len(t.columns)
		t.columns = append(t.columns, col)
	}
	t.rows[row][col] = v
}

func (t *Table) drop(col string) {
	pos, ok := t.index[col]
	if !ok {
		return
	}
	t.columns = append(t.columns[:pos], t.columns[pos+1:]...)
	t.reindex()
	for _, r := range t.rows {
		delete(r, col)
	}
}

func (t *Table) rename(old, name string) {
	pos := t.index[old]
	t.columns[pos] = name
	delete(t.index, old)
	t.index[name] = pos
	for _, r := range t.rows {
		if v, ok := r[old]; ok {
			delete(r, old)
			r[name] = v
		}
	}
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.columns))
	for i, c := range t.columns {
		t.index[c] = i
	}
}

// Record returns row i as strings in column order.
func (t *Table) Record(i int) []string {
	out := make([]string, len(t.columns))
	for j, c := range t.columns {
		out[j] = Format(t.rows[i][c])
	}
	return out
}

// RowJSON encodes row i as a JSON object in column order, keeping the
// upstream value types. Missing cells become null.
func (t *Table) RowJSON(i int) []byte {
	var b bytes.Buffer
	b.WriteByte('{')
	for j, c := range t.columns {
		if j > 0 {
			b.WriteByte(',')
		}
		k, _ := json.Marshal(c)
		b.Write(k)
		b.WriteByte(':')
		v, ok := t.rows[i][c]
		if !ok || v.Raw == "" {
			b.WriteString("null")
			continue
		}
		b.Write(pretty.Ugly([]byte(v.Raw)))
	}
	b.WriteByte('}')
	return b.Bytes()
}

// Format renders a cell for CSV output.
func Format(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return v.Str
	case gjson.JSON:
		return string(pretty.Ugly([]byte(v.Raw)))
	default:
		return v.Raw
	}
}
