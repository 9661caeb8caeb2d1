package jsonvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// SyntaxError is returned by Parse when the input is not valid JSON. Its
// message follows the convention of browser JSON engines, e.g.
// "Unexpected token } in JSON at position 7", where the position counts
// characters from the start of the input.
type SyntaxError struct {
	Msg string
	// Offset is the character offset of the offending character, or -1 when
	// the input ended early.
	Offset int
}

func (e *SyntaxError) Error() string {
	if e.Offset < 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s in JSON at position %d", e.Msg, e.Offset)
}

// Parse strictly parses text as a single JSON value. Object key order is preserved.
func Parse(text string) (*Value, error) {
	data := []byte(text)

	// Unmarshal validates the whole document before decoding anything, which
	// gives us the offset of the first syntax error.
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, newSyntaxError(data, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, newSyntaxError(data, err)
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return ObjectValue(obj), nil
		case '[':
			items := []*Value{}
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return Array(items...), nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", t)
		}
	case string:
		return String(t), nil
	case json.Number:
		return Number(t.String()), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null(), nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

func newSyntaxError(data []byte, err error) *SyntaxError {
	var se *json.SyntaxError
	if !errors.As(err, &se) {
		return &SyntaxError{Msg: err.Error(), Offset: -1}
	}
	// At the end of the input the scanner feeds a space to finish a pending
	// literal or number, so a truncated "tru" fails on that space.
	endOfInput := int(se.Offset) == len(data) && strings.HasPrefix(se.Error(), "invalid character ' '")
	if endOfInput || strings.HasPrefix(se.Error(), "unexpected end of JSON input") || se.Offset <= 0 || int(se.Offset) > len(data) {
		return &SyntaxError{Msg: "Unexpected end of JSON input", Offset: -1}
	}

	// The decoder reports the number of bytes consumed including the bad one.
	at := int(se.Offset) - 1
	r, _ := utf8.DecodeRune(data[at:])
	pos := utf8.RuneCount(data[:at])

	switch {
	case r == '"':
		return &SyntaxError{Msg: "Unexpected string", Offset: pos}
	case r == '-' || (r >= '0' && r <= '9'):
		return &SyntaxError{Msg: "Unexpected number", Offset: pos}
	case r < 0x20 && strings.Contains(se.Error(), "in string literal"):
		return &SyntaxError{Msg: "Bad control character in string literal", Offset: pos}
	default:
		return &SyntaxError{Msg: "Unexpected token " + string(r), Offset: pos}
	}
}
