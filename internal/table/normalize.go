package table

import (
	"regexp"

	"github.com/abriciof/cnpj-consulta/internal/errs"
)

const (
	PartnersColumn  = "qsa"
	SecondaryColumn = "cnaes_secundarios"
	SecondaryPrefix = "cnae_secundario_"
)

var leadingDigits = regexp.MustCompile(`^\d+`)

// Normalize drops qsa, expands cnaes_secundarios into sibling columns and
// prefixes the digit-led columns that expansion produces. Order matters.
func (t *Table) Normalize() error {
	if !t.Has(PartnersColumn) {
		return &errs.SchemaError{Column: PartnersColumn}
	}
	t.drop(PartnersColumn)

	if !t.Has(SecondaryColumn) {
		return &errs.SchemaError{Column: SecondaryColumn}
	}
	expanded := make([][]Field, len(t.rows))
	for i, r := range t.rows {
		expanded[i] = expandList(r[SecondaryColumn])
	}
	t.drop(SecondaryColumn)
	for i, fields := range expanded {
		for _, f := range fields {
			t.set(i, f.Name, f.Value)
		}
	}

	for _, c := range t.Columns() {
		if !leadingDigits.MatchString(c) {
			continue
		}
		name := SecondaryPrefix + c
		if t.Has(name) {
			return &errs.SchemaError{Column: name, Msg: "coluna já existe, não é possível renomear " + c}
		}
		t.rename(c, name)
	}
	return nil
}
