// Package errs defines the error kinds that abort a consulta run.
package errs

import "fmt"

// InputError reports a bad or missing input file or column.
type InputError struct {
	Path string
	Msg  string
	Err  error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("entrada %s: %s: %v", e.Path, e.Msg, e.Err)
	}
	return fmt.Sprintf("entrada %s: %s", e.Path, e.Msg)
}

func (e *InputError) Unwrap() error { return e.Err }

// UpstreamError reports a network failure, a non-2xx status or an invalid
// JSON body from the lookup service. Status is zero when no response arrived.
type UpstreamError struct {
	CNPJ   string
	URL    string
	Status int
	Msg    string
	Err    error
}

func (e *UpstreamError) Error() string {
	s := fmt.Sprintf("consulta %s (%s)", e.CNPJ, e.URL)
	if e.Status != 0 {
		s += fmt.Sprintf(" status %d", e.Status)
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// SchemaError reports a column expected during post-processing that is absent.
type SchemaError struct {
	Column string
	Msg    string
}

func (e *SchemaError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("coluna %q: %s", e.Column, e.Msg)
	}
	return fmt.Sprintf("coluna %q não encontrada", e.Column)
}
