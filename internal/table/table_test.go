package table

import (
	"reflect"
	"testing"

	"github.com/tidwall/gjson"
)

func appendJSON(t *testing.T, tb *Table, raw string) {
	t.Helper()
	if !gjson.Valid(raw) {
		t.Fatalf("invalid test json: %s", raw)
	}
	tb.Append(Flatten(gjson.Parse(raw)))
}

func TestFlatten_TopLevelFirstThenNested(t *testing.T) {
	t.Parallel()

	rec := gjson.Parse(`{"a":1,"end":{"x":{"y":"z"},"w":null},"b":[1,2],"empty":{},"c":"s"}`)
	var names []string
	for _, f := range Flatten(rec) {
		names = append(names, f.Name)
	}
	want := []string{"a", "b", "c", "end.x.y", "end.w"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("unexpected field order: got=%v want=%v", names, want)
	}
}

func TestAppend_UnionOfColumnsInFirstSeenOrder(t *testing.T) {
	t.Parallel()

	tb := New()
	appendJSON(t, tb, `{"cnpj":"1","razao_social":"A"}`)
	appendJSON(t, tb, `{"razao_social":"B","cnpj":"2","endereco":{"uf":"SP"}}`)

	want := []string{"cnpj", "razao_social", "endereco.uf"}
	if got := tb.Columns(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected columns: got=%v want=%v", got, want)
	}
	if tb.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", tb.Len())
	}
	if got := tb.Record(0); !reflect.DeepEqual(got, []string{"1", "A", ""}) {
		t.Fatalf("unexpected first row: %v", got)
	}
	if got := tb.Record(1); !reflect.DeepEqual(got, []string{"2", "B", "SP"}) {
		t.Fatalf("unexpected second row: %v", got)
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	rec := gjson.Parse(`{"s":"texto","n":12.50,"t":true,"f":false,"z":null,"l":[ {"a": 1} , 2 ]}`)
	cases := map[string]string{
		"s": "texto",
		"n": "12.50",
		"t": "true",
		"f": "false",
		"z": "",
		"l": `[{"a":1},2]`,
	}
	for path, want := range cases {
		if got := Format(rec.Get(path)); got != want {
			t.Fatalf("Format(%s): got %q want %q", path, got, want)
		}
	}
	if Format(gjson.Result{}) != "" {
		t.Fatal("expected missing value to format as empty")
	}
}

func TestRowJSON_KeepsTypesAndOrder(t *testing.T) {
	t.Parallel()

	tb := New()
	appendJSON(t, tb, `{"cnpj":"1","capital_social":1000}`)
	appendJSON(t, tb, `{"cnpj":"2","ativo":true}`)

	if got := string(tb.RowJSON(0)); got != `{"cnpj":"1","capital_social":1000,"ativo":null}` {
		t.Fatalf("unexpected row json: %s", got)
	}
	if got := string(tb.RowJSON(1)); got != `{"cnpj":"2","capital_social":null,"ativo":true}` {
		t.Fatalf("unexpected row json: %s", got)
	}
}
