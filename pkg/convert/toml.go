package convert

import (
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/iilei/jsonease/pkg/jsonvalue"
)

// ToTOML emits an object as a TOML document. TOML has no null, so null
// values anywhere in v are rejected. Tables come out with sorted keys.
func ToTOML(v *jsonvalue.Value) (string, error) {
	if v.Kind() != jsonvalue.KindObject {
		return "", &ShapeError{Format: FormatTOML, Msg: "TOML conversion requires a JSON object at the top level"}
	}

	doc, err := tomlValue(v, "")
	if err != nil {
		return "", err
	}

	out, err := toml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encoding TOML: %w", err)
	}
	return string(out), nil
}

func tomlValue(v *jsonvalue.Value, path string) (any, error) {
	switch v.Kind() {
	case jsonvalue.KindObject:
		out := make(map[string]any, v.Len())
		for _, m := range v.Object().Members() {
			child, err := tomlValue(m.Value, joinPath(path, m.Key))
			if err != nil {
				return nil, err
			}
			out[m.Key] = child
		}
		return out, nil
	case jsonvalue.KindArray:
		out := make([]any, v.Len())
		for i, item := range v.Items() {
			child, err := tomlValue(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = child
		}
		return out, nil
	case jsonvalue.KindNumber:
		n := json.Number(v.NumberText())
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if err != nil {
			return nil, &ShapeError{Format: FormatTOML, Msg: fmt.Sprintf("TOML cannot represent the number at %s", path)}
		}
		return f, nil
	case jsonvalue.KindBool:
		return v.BoolValue(), nil
	case jsonvalue.KindString:
		return v.StringValue(), nil
	default:
		return nil, &ShapeError{Format: FormatTOML, Msg: fmt.Sprintf("TOML cannot represent null at %s", path)}
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
