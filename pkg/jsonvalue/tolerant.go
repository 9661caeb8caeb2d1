package jsonvalue

import (
	"fmt"

	"github.com/adhocore/jsonc"
	"github.com/titanous/json5"
)

// TolerantParser accepts a superset of JSON (comments, trailing commas,
// unquoted keys) and produces the same value model as Parse.
type TolerantParser interface {
	Parse(text string) (*Value, error)
}

// TolerantFunc adapts a function to the TolerantParser interface.
type TolerantFunc func(text string) (*Value, error)

// Parse calls f(text).
func (f TolerantFunc) Parse(text string) (*Value, error) { return f(text) }

// ParseJSONC strips comments and trailing commas from text and parses the
// result strictly, so object key order survives.
func ParseJSONC(text string) (*Value, error) {
	stripped := jsonc.New().Strip([]byte(text))
	v, err := Parse(string(stripped))
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSONC: %w", err)
	}
	return v, nil
}

// ParseJSON5 parses JSON5 content. The json5 decoder produces Go maps, so
// object members are put back in the order the source writes them.
func ParseJSON5(content []byte) (*Value, error) {
	var result interface{}
	if err := json5.Unmarshal(content, &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON5: %w", err)
	}
	v := FromInterface(result)
	keepSourceOrder(v, string(content))
	return v, nil
}

// ParseJSON5String parses JSON5 string content.
func ParseJSON5String(content string) (*Value, error) {
	return ParseJSON5([]byte(content))
}

// Chain returns a TolerantParser trying each parser in turn. The error of the
// last parser is returned when all of them fail.
func Chain(parsers ...TolerantParser) TolerantParser {
	return TolerantFunc(func(text string) (*Value, error) {
		err := fmt.Errorf("no tolerant parser configured")
		for _, p := range parsers {
			if p == nil {
				continue
			}
			var v *Value
			if v, err = p.Parse(text); err == nil {
				return v, nil
			}
		}
		return nil, err
	})
}

// DefaultTolerant tries the order-preserving JSONC path first and falls back
// to the full JSON5 grammar.
func DefaultTolerant() TolerantParser {
	return Chain(TolerantFunc(ParseJSONC), TolerantFunc(ParseJSON5String))
}
