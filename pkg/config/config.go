package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/iilei/jsonease/pkg/jsonvalue"
)

// Config holds the user settings shared by the CLI, the HTTP server and the
// Terraform provider. Field names match the provider attributes where both
// exist.
type Config struct {
	// Indent is "1".."10" or "tab".
	// Matches Terraform provider's "indent" field
	Indent string `koanf:"indent" json:"indent" yaml:"indent" toml:"indent" validate:"required,indent"`

	// AutoRepair runs the repair engine when strict formatting of freshly
	// loaded text fails.
	// Matches Terraform provider's "auto_repair" field
	AutoRepair bool `koanf:"auto_repair" json:"autoRepair" yaml:"auto_repair" toml:"auto_repair"`

	// OutputDir is where downloaded artifacts are written.
	OutputDir string `koanf:"output_dir" json:"outputDir" yaml:"output_dir" toml:"output_dir" validate:"required"`

	LogLevel string `koanf:"log_level" json:"logLevel" yaml:"log_level" toml:"log_level" validate:"oneof=debug info warn error"`

	NoColor bool `koanf:"no_color" json:"noColor" yaml:"no_color" toml:"no_color"`

	// SchemaVersion is the default JSON Schema draft for "validate --schema".
	// Empty means the schema's own $schema field, then draft 2020-12.
	SchemaVersion string `koanf:"schema_version" json:"schemaVersion" yaml:"schema_version" toml:"schema_version" validate:"omitempty,oneof=draft-04 draft-06 draft-07 draft/2019-09 draft/2020-12"`

	// ErrorTemplate is a template name from CommonErrorTemplates or a Go
	// template used to render schema violations.
	ErrorTemplate string `koanf:"error_template" json:"errorTemplate" yaml:"error_template" toml:"error_template"`

	Server ServerConfig `koanf:"server" json:"server" yaml:"server" toml:"server"`
	Fetch  FetchConfig  `koanf:"fetch" json:"fetch" yaml:"fetch" toml:"fetch"`
}

// ServerConfig configures "jsonease serve".
type ServerConfig struct {
	Addr           string   `koanf:"addr" json:"addr" yaml:"addr" toml:"addr" validate:"required,hostname_port"`
	AllowedOrigins []string `koanf:"allowed_origins" json:"allowedOrigins" yaml:"allowed_origins" toml:"allowed_origins"`
}

// FetchConfig configures URL loading.
type FetchConfig struct {
	Retries int           `koanf:"retries" json:"retries" yaml:"retries" toml:"retries" validate:"gte=0,lte=10"`
	Timeout time.Duration `koanf:"timeout" json:"timeout" yaml:"timeout" toml:"timeout" validate:"gt=0"`
}

var validate = mustValidator()

// NewValidator returns a validator that also knows the "indent" tag, which
// accepts "1".."10" and "tab".
func NewValidator() (*validator.Validate, error) {
	v := validator.New()
	if err := v.RegisterValidation("indent", validIndent); err != nil {
		return nil, fmt.Errorf("registering indent validation: %w", err)
	}
	return v, nil
}

func mustValidator() *validator.Validate {
	v, err := NewValidator()
	if err != nil {
		panic(err)
	}
	return v
}

func validIndent(fl validator.FieldLevel) bool {
	_, err := jsonvalue.ParseIndent(fl.Field().String())
	return err == nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, fe := range errs {
			msgs = append(msgs, fmt.Sprintf("%s: invalid value %q (%s)", fe.Namespace(), fmt.Sprint(fe.Value()), fe.Tag()))
		}
		return fmt.Errorf("invalid settings: %s", strings.Join(msgs, "; "))
	}
	return fmt.Errorf("invalid settings: %w", err)
}

// IndentPolicy returns the parsed indentation, falling back to two spaces
// when Indent is not valid.
func (c *Config) IndentPolicy() jsonvalue.Indent {
	indent, err := jsonvalue.ParseIndent(c.Indent)
	if err != nil {
		return jsonvalue.DefaultIndent
	}
	return indent
}

// GetEffectiveSchemaVersion returns the schema version to use
// Priority: command-level > settings > empty (use schema's $schema field)
func (c *Config) GetEffectiveSchemaVersion(override string) string {
	if override != "" {
		return override
	}
	return c.SchemaVersion
}

// GetEffectiveErrorTemplate returns the error template to use
// Priority: command-level > settings > empty (use default)
func (c *Config) GetEffectiveErrorTemplate(override string) string {
	if override != "" {
		return override
	}
	return c.ErrorTemplate
}

// Save writes the settings as YAML to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating settings directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing settings %q: %w", path, err)
	}
	return nil
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Indent:    "2",
		OutputDir: ".",
		LogLevel:  "info",
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
		Fetch: FetchConfig{
			Retries: 2,
			Timeout: 10 * time.Second,
		},
	}
}
