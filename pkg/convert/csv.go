package convert

import (
	"strings"

	"github.com/iilei/jsonease/pkg/jsonvalue"
)

const csvShapeMessage = "CSV conversion requires a JSON array of objects"

// ToCSV renders a non-empty array of objects as CSV. Nested objects are
// flattened into dotted column names; arrays stay single cells holding their
// compact JSON text. The header lists columns in first-seen order across rows
// and missing cells are left empty.
func ToCSV(v *jsonvalue.Value) (string, error) {
	if v.Kind() != jsonvalue.KindArray || v.Len() == 0 {
		return "", &ShapeError{Format: FormatCSV, Msg: csvShapeMessage}
	}

	var headers []string
	seen := map[string]bool{}
	rows := make([]map[string]string, 0, v.Len())

	for _, item := range v.Items() {
		if item.Kind() != jsonvalue.KindObject {
			return "", &ShapeError{Format: FormatCSV, Msg: csvShapeMessage}
		}
		row := map[string]string{}
		var keys []string
		flatten(item.Object(), "", row, &keys)
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				headers = append(headers, k)
			}
		}
		rows = append(rows, row)
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(headers, ","))
	for _, row := range rows {
		cells := make([]string, len(headers))
		for i, h := range headers {
			cells[i] = csvField(row[h])
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return strings.Join(lines, "\n"), nil
}

func flatten(o *jsonvalue.Object, prefix string, row map[string]string, keys *[]string) {
	for _, m := range o.Members() {
		key := m.Key
		if prefix != "" {
			key = prefix + "." + m.Key
		}
		if m.Value.Kind() == jsonvalue.KindObject {
			flatten(m.Value.Object(), key, row, keys)
			continue
		}
		if _, dup := row[key]; !dup {
			*keys = append(*keys, key)
		}
		row[key] = m.Value.Text()
	}
}

func csvField(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
