package jsonvalue

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxIndentSpaces mirrors the cap JSON.stringify applies to numeric indentation.
const MaxIndentSpaces = 10

// Indent is the indentation policy used when pretty-printing: a count of
// spaces or a single tab per nesting level. The zero value means no
// indentation (minified output).
type Indent struct {
	spaces int
	tab    bool
}

// Tab indents with one tab character per level.
var Tab = Indent{tab: true}

// DefaultIndent is two spaces per level.
var DefaultIndent = Spaces(2)

// Spaces returns a policy indenting with n spaces, clamped to [0, MaxIndentSpaces].
func Spaces(n int) Indent {
	if n < 0 {
		n = 0
	}
	if n > MaxIndentSpaces {
		n = MaxIndentSpaces
	}
	return Indent{spaces: n}
}

// ParseIndent parses the settings form of an indentation policy: "tab" (or a
// literal tab) or a positive space count up to MaxIndentSpaces.
func ParseIndent(s string) (Indent, error) {
	trimmed := strings.TrimSpace(s)
	if s == "\t" || strings.EqualFold(trimmed, "tab") {
		return Tab, nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return Indent{}, fmt.Errorf("invalid indent %q: expected a number of spaces or \"tab\"", s)
	}
	if n < 1 || n > MaxIndentSpaces {
		return Indent{}, fmt.Errorf("invalid indent %d: must be between 1 and %d", n, MaxIndentSpaces)
	}
	return Spaces(n), nil
}

// Unit returns the whitespace emitted per nesting level.
func (i Indent) Unit() string {
	if i.tab {
		return "\t"
	}
	return strings.Repeat(" ", i.spaces)
}

// IsZero reports whether the policy produces minified output.
func (i Indent) IsZero() bool { return !i.tab && i.spaces == 0 }

// IsTab reports whether the policy indents with tabs.
func (i Indent) IsTab() bool { return i.tab }

// String returns the settings form accepted by ParseIndent.
func (i Indent) String() string {
	if i.tab {
		return "tab"
	}
	return strconv.Itoa(i.spaces)
}
