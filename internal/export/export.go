// Package export copies the final table to optional secondary sinks.
package export

// Rows is the read side of the final result table.
type Rows interface {
	Columns() []string
	Len() int
	Record(i int) []string
	RowJSON(i int) []byte
}
