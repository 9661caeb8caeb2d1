// Package convert renders parsed JSON values as CSV, XML, YAML and TOML.
package convert

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iilei/jsonease/pkg/jsonease"
	"github.com/iilei/jsonease/pkg/jsonvalue"
)

// Format names a conversion target.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXML  Format = "xml"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Extension returns the file extension used for artifacts of this format.
func (f Format) Extension() string {
	return string(f)
}

// ContentType returns the MIME type of the converted text.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatXML:
		return "application/xml"
	case FormatYAML:
		return "application/yaml"
	case FormatTOML:
		return "application/toml"
	default:
		return "text/plain"
	}
}

// ParseFormat accepts a format name case-insensitively; "yml" is an alias
// for yaml.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXML, FormatYAML, FormatTOML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported conversion format %q (want csv, xml, yaml or toml)", s)
	}
}

// ShapeError reports a value that does not fit the requested format.
type ShapeError struct {
	Format Format
	Msg    string
}

func (e *ShapeError) Error() string { return e.Msg }

// Diagnosis converts the error to the common user-facing shape.
func (e *ShapeError) Diagnosis() *jsonease.Diagnosis {
	return &jsonease.Diagnosis{Kind: jsonease.KindShape, Message: e.Msg}
}

// Dumper renders a value in one format.
type Dumper func(v *jsonvalue.Value) (string, error)

// Service converts values with a set of dumpers. A format whose dumper is
// absent yields a placeholder text instead of an error.
type Service struct {
	Dumpers map[Format]Dumper
}

// NewService returns a Service with every built-in dumper registered.
func NewService() *Service {
	return &Service{Dumpers: map[Format]Dumper{
		FormatCSV:  ToCSV,
		FormatXML:  ToXML,
		FormatYAML: ToYAML,
		FormatTOML: ToTOML,
	}}
}

// Placeholder is the text returned for a format without a dumper.
func Placeholder(f Format) string {
	return string(f) + " library not loaded"
}

// Convert renders v as f.
func (s *Service) Convert(v *jsonvalue.Value, f Format) (string, error) {
	dump, ok := s.Dumpers[f]
	if !ok || dump == nil {
		return Placeholder(f), nil
	}
	return dump(v)
}

// ConvertText strictly parses text and renders it as f. Parse failures are
// returned as a *jsonease.Diagnosis.
func (s *Service) ConvertText(text string, f Format) (string, error) {
	v, err := jsonease.Parse(text)
	if err != nil {
		return "", err
	}
	return s.Convert(v, f)
}

// Formats lists the formats with a registered dumper, sorted.
func (s *Service) Formats() []Format {
	out := make([]Format, 0, len(s.Dumpers))
	for f, d := range s.Dumpers {
		if d != nil {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
