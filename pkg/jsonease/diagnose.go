package jsonease

import (
	"regexp"
	"strconv"
	"strings"
)

var positionPattern = regexp.MustCompile(`(?i)at position (\d+)`)

// friendlyMessages maps known parser messages to plain-language explanations.
// Order matters: the first matching signature wins.
var friendlyMessages = []struct {
	contains  string
	signature Signature
	message   string
}{
	{
		contains:  "Unexpected token }",
		signature: SignatureClosingBrace,
		message:   "It looks like you have an extra closing brace '}' or a trailing comma before it.",
	},
	{
		contains:  "Unexpected token ]",
		signature: SignatureClosingBracket,
		message:   "It looks like you have an extra closing bracket ']' or a trailing comma before it.",
	},
	{
		contains:  "Unexpected token ,",
		signature: SignatureMisplacedComma,
		message:   "You might have a misplaced comma ',' or a missing value.",
	},
	{
		contains:  "Unexpected end of JSON input",
		signature: SignatureUnexpectedEnd,
		message:   "The JSON string ends prematurely. Check for missing closing braces '}' or brackets ']'.",
	},
}

// Diagnose turns a raw parse failure message into a Diagnosis. When the
// message embeds "at position N" the offset is resolved against text. Known
// messages are replaced with a friendlier explanation; anything else passes
// through with the position phrase stripped.
func Diagnose(rawError string, text string) *Diagnosis {
	d := &Diagnosis{Kind: KindSyntax}

	if m := positionPattern.FindStringSubmatch(rawError); m != nil {
		if offset, err := strconv.Atoi(m[1]); err == nil {
			pos := Resolve(text, offset)
			d.RawOffset = &offset
			d.Position = &pos
		}
	}

	d.Message, d.Signature = friendly(strings.TrimSpace(positionPattern.ReplaceAllString(rawError, "")))
	return d
}

func friendly(msg string) (string, Signature) {
	for _, f := range friendlyMessages {
		if strings.Contains(msg, f.contains) {
			return f.message, f.signature
		}
	}
	return msg, SignatureNone
}
