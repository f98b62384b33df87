package table

import (
	"encoding/csv"
	"fmt"
	"os"
)

// WriteCSV writes the header and every row to path. The file is written to
// path+".part" and renamed, so a failed write leaves any previous file intact.
func (t *Table) WriteCSV(path string) error {
	tmp := path + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
		_ = os.Remove(tmp)
	}()

	w := csv.NewWriter(f)
	if err := w.Write(t.columns); err != nil {
		return fmt.Errorf("escrevendo cabeçalho: %w", err)
	}
	for i := range t.rows {
		if err := w.Write(t.Record(i)); err != nil {
			return fmt.Errorf("escrevendo linha %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ReadCSV reads a file produced by WriteCSV back into header and records.
func ReadCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	all, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("%s: arquivo vazio", path)
	}
	return all[0], all[1:], nil
}
