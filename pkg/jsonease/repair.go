package jsonease

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/iilei/jsonease/pkg/jsonvalue"
)

// Heuristic is one named textual rewrite of the repair pipeline: every match
// of Pattern is replaced by Replacement, which may refer to groups as $1.
type Heuristic struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// Apply rewrites text.
func (h Heuristic) Apply(text string) string {
	out, _ := h.rewrite(text)
	return out
}

// edit records one replacement: bytes [start, end) of the input became size
// bytes of output.
type edit struct {
	start, end, size int
}

func (h Heuristic) rewrite(text string) (string, []edit) {
	var (
		b     strings.Builder
		edits []edit
		last  int
	)
	for _, m := range h.Pattern.FindAllStringSubmatchIndex(text, -1) {
		b.WriteString(text[last:m[0]])
		repl := h.Pattern.ExpandString(nil, h.Replacement, text, m)
		b.Write(repl)
		edits = append(edits, edit{start: m[0], end: m[1], size: len(repl)})
		last = m[1]
	}
	if edits == nil {
		return text, nil
	}
	b.WriteString(text[last:])
	return b.String(), edits
}

// sourceOffset maps a byte offset in the output of a rewrite back to the
// input. Offsets inside a replacement are aligned to the end of the match,
// so a character kept by a deletion maps back onto itself.
func sourceOffset(edits []edit, offset int) int {
	shift := 0
	for _, e := range edits {
		start := e.start + shift
		if offset < start {
			break
		}
		if offset < start+e.size {
			return max(e.end-(e.size-(offset-start)), e.start)
		}
		shift += e.size - (e.end - e.start)
	}
	return offset - shift
}

var (
	trailingCommas = Heuristic{
		Name:        "trailing-commas",
		Pattern:     regexp.MustCompile(`,(?:\s*,)*(\s*[}\]])`),
		Replacement: "$1",
	}
	singleQuotedKeys = Heuristic{
		Name:        "single-quoted-keys",
		Pattern:     regexp.MustCompile(`'([^']*)':`),
		Replacement: `"$1":`,
	}
	singleQuotedValues = Heuristic{
		Name:        "single-quoted-values",
		Pattern:     regexp.MustCompile(`: '([^']*)'`),
		Replacement: `: "$1"`,
	}
)

// RemoveTrailingCommas drops every run of commas that is followed, optionally
// through whitespace, by a closing brace or bracket. Commas inside string
// literals are not special-cased.
func RemoveTrailingCommas(text string) string { return trailingCommas.Apply(text) }

// NormalizeSingleQuotedKeys rewrites 'key': into "key":.
func NormalizeSingleQuotedKeys(text string) string { return singleQuotedKeys.Apply(text) }

// NormalizeSingleQuotedValues rewrites : 'value' into : "value". Strings
// holding an apostrophe are not understood and may be mangled.
func NormalizeSingleQuotedValues(text string) string { return singleQuotedValues.Apply(text) }

// DefaultHeuristics is the ordered rewrite pipeline applied before parsing.
var DefaultHeuristics = []Heuristic{trailingCommas, singleQuotedKeys, singleQuotedValues}

// StepStatus reports what a heuristic did during one repair attempt.
type StepStatus string

const (
	StepChanged   StepStatus = "changed"
	StepUnchanged StepStatus = "unchanged"
	StepSkipped   StepStatus = "skipped"
)

// Step records the outcome of one heuristic.
type Step struct {
	Name   string     `json:"name"`
	Status StepStatus `json:"status"`
}

// Parser names which parse produced the repaired value.
type Parser string

const (
	ParserStrict   Parser = "strict"
	ParserTolerant Parser = "tolerant"
)

// RepairResult is a successful repair: the recovered value, its canonical
// text and the trace of the attempt.
type RepairResult struct {
	Value  *jsonvalue.Value
	Text   string
	Steps  []Step
	Parser Parser
}

// Changed reports whether any heuristic rewrote the input.
func (r *RepairResult) Changed() bool {
	for _, s := range r.Steps {
		if s.Status == StepChanged {
			return true
		}
	}
	return false
}

// Engine recovers values from near-miss JSON.
type Engine struct {
	// Indent is used for the canonical text of a successful repair.
	Indent jsonvalue.Indent
	// Tolerant is tried after the heuristics. Nil means strict parsing only.
	Tolerant jsonvalue.TolerantParser
	// Heuristics defaults to DefaultHeuristics when nil.
	Heuristics []Heuristic
}

// NewEngine returns an Engine with the default heuristics and tolerant parser.
func NewEngine(indent jsonvalue.Indent) *Engine {
	return &Engine{
		Indent:     indent,
		Tolerant:   jsonvalue.DefaultTolerant(),
		Heuristics: DefaultHeuristics,
	}
}

// Repair applies the heuristics to text, then parses the result with the
// tolerant parser, falling back to the strict parser. Failures are returned
// as a *Diagnosis.
func (e *Engine) Repair(text string) (*RepairResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, emptyInput()
	}

	heuristics := e.Heuristics
	if heuristics == nil {
		heuristics = DefaultHeuristics
	}

	// Valid input goes straight through so that repaired output is a fixed point.
	if v, err := jsonvalue.Parse(text); err == nil {
		steps := make([]Step, len(heuristics))
		for i, h := range heuristics {
			steps[i] = Step{Name: h.Name, Status: StepSkipped}
		}
		return e.result(v, steps, ParserStrict), nil
	}

	original := text
	steps := make([]Step, 0, len(heuristics))
	passes := make([][]edit, 0, len(heuristics))
	for _, h := range heuristics {
		rewritten, edits := h.rewrite(text)
		status := StepUnchanged
		if rewritten != text {
			status = StepChanged
		}
		steps = append(steps, Step{Name: h.Name, Status: status})
		passes = append(passes, edits)
		text = rewritten
	}

	if e.Tolerant != nil {
		if v, err := e.Tolerant.Parse(text); err == nil {
			return e.result(v, steps, ParserTolerant), nil
		}
	}

	v, err := jsonvalue.Parse(text)
	if err != nil {
		d := Diagnose(err.Error(), text)
		d.Message = "Could not auto-fix: " + d.Message
		if d.RawOffset != nil {
			// Report the location in the text the caller handed in.
			offset := originalOffset(original, text, passes, *d.RawOffset)
			pos := Resolve(original, offset)
			d.RawOffset, d.Position = &offset, &pos
		}
		return nil, d
	}
	return e.result(v, steps, ParserStrict), nil
}

func (e *Engine) result(v *jsonvalue.Value, steps []Step, parser Parser) *RepairResult {
	return &RepairResult{
		Value:  v,
		Text:   jsonvalue.Marshal(v, e.Indent),
		Steps:  steps,
		Parser: parser,
	}
}

// originalOffset maps a character offset in rewritten back through every
// heuristic pass to a character offset in original.
func originalOffset(original, rewritten string, passes [][]edit, offset int) int {
	b := byteOffset(rewritten, offset)
	for i := len(passes) - 1; i >= 0; i-- {
		b = sourceOffset(passes[i], b)
	}
	return utf8.RuneCountInString(original[:min(b, len(original))])
}

// byteOffset converts a character offset in s to a byte offset.
func byteOffset(s string, offset int) int {
	for i := range s {
		if offset == 0 {
			return i
		}
		offset--
	}
	return len(s)
}
