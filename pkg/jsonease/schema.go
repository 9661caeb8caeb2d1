package jsonease

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/iilei/jsonease/pkg/jsonvalue"
)

// SchemaOptions controls ValidateSchema.
type SchemaOptions struct {
	// Version selects the draft, e.g. "draft-07" or "draft/2020-12". Empty
	// means the schema's own $schema or draft 2020-12.
	Version string
	// Template is a text/template rendering the failure. Empty means "detailed".
	Template string
	// SchemaName is shown to templates as .SchemaFile.
	SchemaName string
}

// ValidationErrorDetail is one schema violation.
type ValidationErrorDetail struct {
	Message      string `json:"message"`
	DocumentPath string `json:"documentPath"`
	SchemaPath   string `json:"schemaPath"`
	Value        string `json:"value"`
}

// ErrorContext is the data available to error templates.
type ErrorContext struct {
	SchemaFile  string                  `json:"schemaFile"`
	Document    string                  `json:"document"`
	Errors      []ValidationErrorDetail `json:"errors"`
	ErrorCount  int                     `json:"errorCount"`
	FullMessage string                  `json:"fullMessage"`
}

// SchemaError is a failed schema validation. Error returns the rendered
// template.
type SchemaError struct {
	Context  ErrorContext
	Rendered string
}

func (e *SchemaError) Error() string { return e.Rendered }

// Diagnosis converts the failure to the common user-facing shape.
func (e *SchemaError) Diagnosis() *Diagnosis {
	return &Diagnosis{Kind: KindSchema, Message: strings.TrimRight(e.Rendered, "\n")}
}

// CommonErrorTemplates are the named templates accepted wherever a template
// may be given by name.
var CommonErrorTemplates = map[string]string{
	"basic":       "{{range .Errors}}{{.Message}}\n{{end}}",
	"detailed":    "{{.ErrorCount}} validation error(s) found:\n{{range $i, $e := .Errors}}{{add $i 1}}. {{.Message}} at {{.DocumentPath}}\n{{end}}",
	"simple":      "{{.FullMessage}}",
	"with_path":   "{{range .Errors}}{{.DocumentPath}}: {{.Message}}\n{{end}}",
	"with_schema": "Schema {{.SchemaFile}} validation failed:\n{{.FullMessage}}",
	"verbose":     "Validation Results:\nSchema: {{.SchemaFile}}\nErrors: {{.ErrorCount}}\nFull Message: {{.FullMessage}}\n\nIndividual Errors:\n{{range $i, $e := .Errors}}Error {{add $i 1}}:\n  Document Path: {{.DocumentPath}}\n  Schema Path: {{.SchemaPath}}\n  Message: {{.Message}}{{if .Value}}\n  Value: {{.Value}}{{end}}\n\n{{end}}",
}

// ResolveTemplate returns the named common template, or name itself when it
// is not a known name.
func ResolveTemplate(name string) string {
	if name == "" {
		return CommonErrorTemplates["detailed"]
	}
	if t, ok := CommonErrorTemplates[name]; ok {
		return t
	}
	return name
}

// DraftForVersion maps a version name or meta-schema URL to a draft.
func DraftForVersion(version string) (*jsonschema.Draft, error) {
	switch version {
	case "draft-04", "http://json-schema.org/draft-04/schema#":
		return jsonschema.Draft4, nil
	case "draft-06", "http://json-schema.org/draft-06/schema#":
		return jsonschema.Draft6, nil
	case "draft-07", "http://json-schema.org/draft-07/schema#":
		return jsonschema.Draft7, nil
	case "draft/2019-09", "https://json-schema.org/draft/2019-09/schema":
		return jsonschema.Draft2019, nil
	case "", "draft/2020-12", "https://json-schema.org/draft/2020-12/schema":
		return jsonschema.Draft2020, nil
	default:
		return nil, fmt.Errorf("unsupported JSON Schema version: %s", version)
	}
}

const schemaURL = "mem:///schema.json"

// ValidateSchema parses text strictly and validates it against schemaText.
// Syntax problems in text are returned as a *Diagnosis, violations as a
// *SchemaError. The schema itself may use comments and trailing commas.
func ValidateSchema(text, schemaText string, opts SchemaOptions) error {
	schema, err := jsonvalue.DefaultTolerant().Parse(schemaText)
	if err != nil {
		return fmt.Errorf("parsing schema: %w", err)
	}
	return ValidateSchemaValue(text, schema, opts)
}

// LoadSchemaFile reads a schema written in JSON, JSON5, JSONC, YAML or
// TOML, chosen by extension. Comments are accepted in .json files too.
func LoadSchemaFile(path string) (*jsonvalue.Value, error) {
	ft := jsonvalue.DetectFileType(path)
	if ft == jsonvalue.FileTypeJSON {
		ft = jsonvalue.FileTypeJSON5
	}
	return jsonvalue.ParseFile(path, ft)
}

// ValidateSchemaValue is ValidateSchema for a schema that is already
// decoded, for example from YAML or TOML.
func ValidateSchemaValue(text string, schema *jsonvalue.Value, opts SchemaOptions) error {
	doc, err := Parse(text)
	if err != nil {
		return err
	}

	draft, err := DraftForVersion(opts.Version)
	if err != nil {
		return err
	}

	compiler := jsonschema.NewCompiler()
	compiler.DefaultDraft(draft)
	if err := compiler.AddResource(schemaURL, schema.Interface()); err != nil {
		return fmt.Errorf("adding schema: %w", err)
	}
	compiled, err := compiler.Compile(schemaURL)
	if err != nil {
		return fmt.Errorf("compiling schema: %w", err)
	}

	verr := compiled.Validate(doc.Interface())
	if verr == nil {
		return nil
	}
	return formatValidationError(verr, doc, text, opts)
}

func formatValidationError(err error, doc *jsonvalue.Value, text string, opts SchemaOptions) error {
	var details []ValidationErrorDetail
	var full string

	if verr, ok := err.(*jsonschema.ValidationError); ok {
		details = extractValidationErrors(verr, doc)
		full = sortedFullMessage(verr, details)
	} else {
		details = []ValidationErrorDetail{{Message: err.Error()}}
		full = err.Error()
	}

	ctx := ErrorContext{
		SchemaFile:  opts.SchemaName,
		Document:    truncate(text, 500),
		Errors:      details,
		ErrorCount:  len(details),
		FullMessage: full,
	}

	tmpl, perr := template.New("error").Funcs(template.FuncMap{
		"add": func(a, b int) int { return a + b },
	}).Parse(ResolveTemplate(opts.Template))
	if perr != nil {
		return fmt.Errorf("template parsing failed: %w", perr)
	}

	var buf bytes.Buffer
	if xerr := tmpl.Execute(&buf, ctx); xerr != nil {
		return fmt.Errorf("template execution failed: %w", xerr)
	}
	return &SchemaError{Context: ctx, Rendered: buf.String()}
}

func sortedFullMessage(err *jsonschema.ValidationError, details []ValidationErrorDetail) string {
	prefix := fmt.Sprintf("jsonschema validation failed with '%s'", err.SchemaURL)
	lines := make([]string, 0, len(details)+1)
	lines = append(lines, prefix)
	for _, d := range details {
		msg := strings.TrimPrefix(d.Message, fmt.Sprintf("at '%s': ", d.DocumentPath))
		lines = append(lines, fmt.Sprintf("- at '%s': %s", d.DocumentPath, msg))
	}
	return strings.Join(lines, "\n")
}

// extractValidationErrors flattens the cause tree into its leaves, sorted by
// document path then message.
func extractValidationErrors(err *jsonschema.ValidationError, doc *jsonvalue.Value) []ValidationErrorDetail {
	if len(err.Causes) == 0 {
		return []ValidationErrorDetail{{
			Message:      err.Error(),
			DocumentPath: instancePointer(err.InstanceLocation),
			SchemaPath:   err.SchemaURL,
			Value:        valueAt(doc, err.InstanceLocation),
		}}
	}

	var details []ValidationErrorDetail
	for _, cause := range err.Causes {
		details = append(details, extractValidationErrors(cause, doc)...)
	}
	sort.Slice(details, func(i, j int) bool {
		if details[i].DocumentPath != details[j].DocumentPath {
			return details[i].DocumentPath < details[j].DocumentPath
		}
		return details[i].Message < details[j].Message
	})
	return details
}

// instancePointer renders a JSON Pointer; the root is "".
func instancePointer(location []string) string {
	if len(location) == 0 {
		return ""
	}
	escaped := make([]string, len(location))
	for i, token := range location {
		escaped[i] = strings.NewReplacer("~", "~0", "/", "~1").Replace(token)
	}
	return "/" + strings.Join(escaped, "/")
}

func valueAt(doc *jsonvalue.Value, path []string) string {
	cur := doc
	for _, token := range path {
		if cur == nil {
			return ""
		}
		switch cur.Kind() {
		case jsonvalue.KindObject:
			next, ok := cur.Object().Get(token)
			if !ok {
				return ""
			}
			cur = next
		case jsonvalue.KindArray:
			idx, err := strconv.Atoi(token)
			if err != nil || idx < 0 || idx >= cur.Len() {
				return ""
			}
			cur = cur.Items()[idx]
		default:
			return ""
		}
	}
	if cur == nil {
		return ""
	}
	return truncate(jsonvalue.Compact(cur), 100)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
