// Package minhareceita looks up company records on minhareceita.org.
package minhareceita

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/abriciof/cnpj-consulta/internal/errs"
)

const DefaultBaseURI = "https://minhareceita.org/"

type Client struct {
	BaseURI string
	http    *http.Client
}

func NewClient(baseURI string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURI) == "" {
		baseURI = DefaultBaseURI
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		BaseURI: baseURI,
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch issues GET <BaseURI><cnpj> and returns the body as a JSON tree with
// the upstream key order preserved.
func (c *Client) Fetch(ctx context.Context, cnpj string) (gjson.Result, error) {
	url := c.BaseURI + cnpj
	upErr := func(status int, msg string, err error) error {
		return &errs.UpstreamError{CNPJ: cnpj, URL: url, Status: status, Msg: msg, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return gjson.Result{}, upErr(0, "requisição inválida", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return gjson.Result{}, upErr(0, "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return gjson.Result{}, upErr(resp.StatusCode, strings.TrimSpace(string(b)), nil)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, upErr(resp.StatusCode, "erro lendo resposta", err)
	}
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, upErr(resp.StatusCode, "resposta não é JSON válido", nil)
	}

	rec := gjson.ParseBytes(raw)
	if !rec.IsObject() {
		return gjson.Result{}, upErr(resp.StatusCode, fmt.Sprintf("esperado objeto JSON, recebido %s", rec.Type), nil)
	}
	return rec, nil
}
