package table

import (
	"strconv"

	"github.com/tidwall/gjson"
)

// Field is one flattened value addressed by its dotted path.
type Field struct {
	Name  string
	Value gjson.Result
}

// Flatten turns a record into dotted-path fields. Top-level non-object values
// come first in document order, followed by the leaves of nested objects.
// Arrays are kept whole.
func Flatten(rec gjson.Result) []Field {
	var top, nested []Field
	rec.ForEach(func(k, v gjson.Result) bool {
		if v.IsObject() {
			nested = flattenObject(nested, k.String(), v)
		} else {
			top = append(top, Field{Name: k.String(), Value: v})
		}
		return true
	})
	return append(top, nested...)
}

func flattenObject(dst []Field, prefix string, obj gjson.Result) []Field {
	obj.ForEach(func(k, v gjson.Result) bool {
		name := k.String()
		if prefix != "" {
			name = prefix + "." + name
		}
		if v.IsObject() {
			dst = flattenObject(dst, name, v)
		} else {
			dst = append(dst, Field{Name: name, Value: v})
		}
		return true
	})
	return dst
}

// expandList flattens a list cell with element positions as path prefixes:
// [{"codigo":1}] becomes 0.codigo. Objects flatten without a prefix and
// anything else yields no fields.
func expandList(v gjson.Result) []Field {
	switch {
	case v.IsArray():
		var out []Field
		i := 0
		v.ForEach(func(_, el gjson.Result) bool {
			key := strconv.Itoa(i)
			i++
			if el.IsObject() {
				out = flattenObject(out, key, el)
			} else {
				out = append(out, Field{Name: key, Value: el})
			}
			return true
		})
		return out
	case v.IsObject():
		return flattenObject(nil, "", v)
	default:
		return nil
	}
}
