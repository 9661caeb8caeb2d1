package jsonease

import (
	"strings"

	"github.com/iilei/jsonease/pkg/jsonvalue"
)

// Parse strictly parses text, returning a syntax Diagnosis on failure. Blank
// input is reported as EmptyInput.
func Parse(text string) (*jsonvalue.Value, error) {
	if strings.TrimSpace(text) == "" {
		return nil, emptyInput()
	}
	v, err := jsonvalue.Parse(text)
	if err != nil {
		return nil, Diagnose(err.Error(), text)
	}
	return v, nil
}

// Format pretty-prints text with the given indentation. Blank input yields
// empty output.
func Format(text string, indent jsonvalue.Indent) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	v, err := Parse(text)
	if err != nil {
		return "", err
	}
	return jsonvalue.Marshal(v, indent), nil
}

// Minify re-serializes text without insignificant whitespace. Blank input
// yields empty output.
func Minify(text string) (string, error) {
	return Format(text, jsonvalue.Indent{})
}

// Validate reports whether text is strict JSON.
func Validate(text string) error {
	_, err := Parse(text)
	return err
}

// Service applies the user's settings to the core operations.
type Service struct {
	Indent     jsonvalue.Indent
	AutoRepair bool
	Repairer   *Engine
}

// NewService returns a Service using the default repair engine.
func NewService(indent jsonvalue.Indent, autoRepair bool) *Service {
	if indent.IsZero() {
		indent = jsonvalue.DefaultIndent
	}
	return &Service{
		Indent:     indent,
		AutoRepair: autoRepair,
		Repairer:   NewEngine(indent),
	}
}

// Format pretty-prints text with the service indentation. When AutoRepair is
// set and the strict parse fails, the repair engine gets a chance; its
// failure replaces the syntax diagnosis.
func (s *Service) Format(text string) (string, error) {
	out, err := Format(text, s.Indent)
	if err == nil || !s.AutoRepair || s.Repairer == nil {
		return out, err
	}

	res, rerr := s.Repairer.Repair(text)
	if rerr != nil {
		return "", rerr
	}
	return res.Text, nil
}

// Minify is Minify with the service's auto-repair policy.
func (s *Service) Minify(text string) (string, error) {
	out, err := Minify(text)
	if err == nil || !s.AutoRepair || s.Repairer == nil {
		return out, err
	}

	res, rerr := s.Repairer.Repair(text)
	if rerr != nil {
		return "", rerr
	}
	return jsonvalue.Compact(res.Value), nil
}

// Validate checks text strictly. Auto-repair never applies here.
func (s *Service) Validate(text string) error {
	return Validate(text)
}

// Repair runs the service's repair engine.
func (s *Service) Repair(text string) (*RepairResult, error) {
	if s.Repairer == nil {
		return NewEngine(s.Indent).Repair(text)
	}
	return s.Repairer.Repair(text)
}
