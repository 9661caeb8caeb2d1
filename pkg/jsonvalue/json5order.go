package jsonvalue

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// keepSourceOrder rearranges the members of every object in v to the order
// their keys are written in text. v must have been decoded from text by a
// decoder that loses key order. Keys missing from the scan stay at the end
// in their current order.
func keepSourceOrder(v *Value, text string) {
	order := sourceKeyOrder(text)
	next := 0
	reorder(v, order, &next)
}

func reorder(v *Value, order [][]string, next *int) {
	switch v.Kind() {
	case KindArray:
		for _, item := range v.items {
			reorder(item, order, next)
		}
	case KindObject:
		if *next < len(order) {
			v.obj = arrange(v.obj, order[*next])
		}
		*next++
		for _, m := range v.obj.Members() {
			reorder(m.Value, order, next)
		}
	}
}

func arrange(o *Object, keys []string) *Object {
	out := NewObject()
	for _, k := range keys {
		if val, ok := o.Get(k); ok {
			out.Set(k, val)
		}
	}
	for _, m := range o.Members() {
		if _, ok := out.Get(m.Key); !ok {
			out.Set(m.Key, m.Value)
		}
	}
	return out
}

// sourceKeyOrder lists the member keys of each object in text, objects in
// the order of their opening braces. It understands the JSON5 lexical
// grammar (comments, single quotes, identifier keys) but does not validate.
func sourceKeyOrder(text string) [][]string {
	var (
		order     [][]string
		stack     []int // index into order, -1 for arrays
		expectKey bool
	)
	inObject := func() bool { return len(stack) > 0 && stack[len(stack)-1] >= 0 }
	addKey := func(k string) {
		top := stack[len(stack)-1]
		order[top] = append(order[top], k)
		expectKey = false
	}

	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == '/' && i+1 < len(text) && text[i+1] == '/':
			end := strings.IndexByte(text[i:], '\n')
			if end < 0 {
				return order
			}
			i += end + 1
		case c == '/' && i+1 < len(text) && text[i+1] == '*':
			end := strings.Index(text[i+2:], "*/")
			if end < 0 {
				return order
			}
			i += end + 4
		case c == '"' || c == '\'':
			end := stringEnd(text, i)
			if expectKey && inObject() {
				addKey(unescapeJSON5(text[i+1 : end-1]))
			}
			i = end
		case c == '{':
			order = append(order, nil)
			stack = append(stack, len(order)-1)
			expectKey = true
			i++
		case c == '[':
			stack = append(stack, -1)
			expectKey = false
			i++
		case c == '}' || c == ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			expectKey = false
			i++
		case c == ',':
			expectKey = inObject()
			i++
		case c == ':':
			expectKey = false
			i++
		case expectKey && inObject() && identStart(text[i:]):
			end := i
			for end < len(text) {
				r, size := utf8.DecodeRuneInString(text[end:])
				if !identPart(r) {
					break
				}
				end += size
			}
			addKey(unescapeJSON5(text[i:end]))
			i = end
		default:
			i++
		}
	}
	return order
}

// stringEnd returns the index just past the string literal opened at i.
func stringEnd(text string, i int) int {
	quote := text[i]
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case quote:
			return j + 1
		}
	}
	return len(text)
}

func identStart(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r == '$' || r == '_' || r == '\\' || unicode.IsLetter(r)
}

func identPart(r rune) bool {
	return r == '$' || r == '_' || r == '\\' || unicode.IsLetter(r) || unicode.IsDigit(r) ||
		unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r) || unicode.Is(unicode.Pc, r)
}

// unescapeJSON5 decodes the escapes allowed in JSON5 strings and identifiers.
func unescapeJSON5(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch c := s[i]; c {
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\n':
			// line continuation
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case 'x':
			if n, err := strconv.ParseUint(s[i+1:min(i+3, len(s))], 16, 8); err == nil && i+3 <= len(s) {
				b.WriteRune(rune(n))
				i += 2
			}
		case 'u':
			if n, err := strconv.ParseUint(s[i+1:min(i+5, len(s))], 16, 16); err == nil && i+5 <= len(s) {
				b.WriteRune(rune(n))
				i += 4
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
