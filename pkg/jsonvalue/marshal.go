package jsonvalue

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Marshal serializes v the way JSON.stringify(v, null, indent) does: object
// keys in insertion order, ": " after keys and one member per line when
// indenting, no insignificant whitespace otherwise.
func Marshal(v *Value, indent Indent) string {
	var b strings.Builder
	writeValue(&b, v, indent.Unit(), "")
	return b.String()
}

// Compact serializes v without any insignificant whitespace.
func Compact(v *Value) string {
	return Marshal(v, Indent{})
}

func writeValue(b *strings.Builder, v *Value, unit, prefix string) {
	switch v.Kind() {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		b.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		b.WriteString(v.text)
	case KindString:
		b.WriteString(Quote(v.text))
	case KindArray:
		if len(v.items) == 0 {
			b.WriteString("[]")
			return
		}
		inner := prefix + unit
		b.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				b.WriteByte(',')
			}
			newline(b, unit, inner)
			writeValue(b, item, unit, inner)
		}
		newline(b, unit, prefix)
		b.WriteByte(']')
	case KindObject:
		members := v.obj.Members()
		if len(members) == 0 {
			b.WriteString("{}")
			return
		}
		inner := prefix + unit
		b.WriteByte('{')
		for i, m := range members {
			if i > 0 {
				b.WriteByte(',')
			}
			newline(b, unit, inner)
			b.WriteString(Quote(m.Key))
			b.WriteByte(':')
			if unit != "" {
				b.WriteByte(' ')
			}
			writeValue(b, m.Value, unit, inner)
		}
		newline(b, unit, prefix)
		b.WriteByte('}')
	}
}

func newline(b *strings.Builder, unit, prefix string) {
	if unit == "" {
		return
	}
	b.WriteByte('\n')
	b.WriteString(prefix)
}

// Quote returns s as a JSON string literal. HTML characters are left as is.
func Quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// formatFloat renders f like JavaScript's Number#toString.
func formatFloat(f float64) (string, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", false
	}
	if f == 0 {
		return "0", true
	}
	abs := math.Abs(f)
	if abs >= 1e-7 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + "e" + sign + digits, true
}
