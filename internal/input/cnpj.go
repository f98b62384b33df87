package input

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/abriciof/cnpj-consulta/internal/errs"
)

// ColumnName is the header holding the identifiers.
const ColumnName = "cnpj"

type Options struct {
	Encoding string // utf-8 (default) or latin1
	Comma    rune   // default ','
}

// ReadCNPJs returns the values of the cnpj column in file order.
func ReadCNPJs(path string, opts Options) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &errs.InputError{Path: path, Msg: "não foi possível abrir o arquivo", Err: err}
	}
	defer f.Close()

	r, err := decoder(f, opts.Encoding)
	if err != nil {
		return nil, &errs.InputError{Path: path, Msg: "encoding inválido", Err: err}
	}
	return readColumn(path, r, opts.Comma)
}

func decoder(r io.Reader, enc string) (io.Reader, error) {
	switch NormalizeEncoding(enc) {
	case "utf-8":
		// strips a leading BOM if present
		return transform.NewReader(r, unicode.UTF8BOM.NewDecoder()), nil
	case "latin1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("encoding não suportado: %q", enc)
	}
}

// NormalizeEncoding maps accepted spellings to utf-8 or latin1. Unknown
// values are returned lower-cased and trimmed.
func NormalizeEncoding(enc string) string {
	switch v := strings.ToLower(strings.TrimSpace(enc)); v {
	case "", "utf-8", "utf8":
		return "utf-8"
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return "latin1"
	default:
		return v
	}
}

func readColumn(path string, r io.Reader, comma rune) ([]string, error) {
	reader := csv.NewReader(r)
	if comma != 0 {
		reader.Comma = comma
	}
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &errs.InputError{Path: path, Msg: "arquivo vazio"}
	}
	if err != nil {
		return nil, &errs.InputError{Path: path, Msg: "erro lendo cabeçalho", Err: err}
	}

	idx := -1
	for i, h := range header {
		if strings.TrimSpace(h) == ColumnName {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, &errs.InputError{Path: path, Msg: "coluna cnpj ausente"}
	}

	var out []string
	line := 1
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, &errs.InputError{Path: path, Msg: fmt.Sprintf("erro na linha %d", line), Err: err}
		}
		var v string
		if idx < len(rec) {
			v = strings.TrimSpace(rec[idx])
		}
		if v == "" {
			return nil, &errs.InputError{Path: path, Msg: fmt.Sprintf("cnpj vazio na linha %d", line)}
		}
		out = append(out, v)
	}

	if len(out) == 0 {
		return nil, &errs.InputError{Path: path, Msg: "nenhum cnpj encontrado"}
	}
	return out, nil
}
