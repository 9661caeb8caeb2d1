package jsonease

import "errors"

// ErrorKind classifies failures surfaced to the user.
type ErrorKind string

const (
	// KindSyntax is a strict parse failure, with or without a known position.
	KindSyntax ErrorKind = "syntax"
	// KindShape means the value does not have the shape an operation needs.
	KindShape ErrorKind = "shape"
	// KindIO is a file or network read failure.
	KindIO ErrorKind = "io"
	// KindConfigurationMissing means an optional collaborator is unavailable.
	KindConfigurationMissing ErrorKind = "configuration_missing"
	// KindEmptyInput is reported by Validate and Repair for blank input.
	KindEmptyInput ErrorKind = "empty_input"
	// KindSchema is a JSON Schema validation failure.
	KindSchema ErrorKind = "schema"
)

// Signature names the known syntax error patterns recognised by Diagnose.
type Signature string

const (
	SignatureNone           Signature = ""
	SignatureClosingBrace   Signature = "unexpected_closing_brace"
	SignatureClosingBracket Signature = "unexpected_closing_bracket"
	SignatureMisplacedComma Signature = "misplaced_comma"
	SignatureUnexpectedEnd  Signature = "unexpected_end"
)

// MessageEmptyInput is the message of an EmptyInput diagnosis.
const MessageEmptyInput = "Input is empty"

// Diagnosis is the structured, user-facing description of a failed operation.
type Diagnosis struct {
	Kind      ErrorKind `json:"kind"`
	Signature Signature `json:"signature,omitempty"`
	// RawOffset is the character offset reported by the parser, if any.
	RawOffset *int      `json:"rawOffset,omitempty"`
	Message   string    `json:"message"`
	Position  *Position `json:"position,omitempty"`
}

// Error renders the diagnosis the way it is shown to users.
func (d *Diagnosis) Error() string {
	if d.Position != nil {
		return "Error at " + d.Position.String() + ": " + d.Message
	}
	return "Error: " + d.Message
}

// Cursor returns the zero-based line and column an editor should move its
// cursor to. ok is false when the diagnosis has no position.
func (d *Diagnosis) Cursor() (line, column int, ok bool) {
	if d.Position == nil {
		return 0, 0, false
	}
	return d.Position.Line - 1, d.Position.Column - 1, true
}

func emptyInput() *Diagnosis {
	return &Diagnosis{Kind: KindEmptyInput, Message: MessageEmptyInput}
}

// DiagnosisOf extracts the diagnosis carried by err: a *Diagnosis in its
// chain, or any error in the chain with a Diagnosis method. It returns nil
// for other errors.
func DiagnosisOf(err error) *Diagnosis {
	var d *Diagnosis
	if errors.As(err, &d) {
		return d
	}
	var dg interface{ Diagnosis() *Diagnosis }
	if errors.As(err, &dg) {
		return dg.Diagnosis()
	}
	return nil
}
