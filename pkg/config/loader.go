package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	flag "github.com/spf13/pflag"
)

// DefaultEnvPrefix prefixes the environment variables read by Load.
const DefaultEnvPrefix = "JSONEASE_"

// ProjectFiles are the settings files looked up in the working directory, in
// order of preference. The first one found is used.
var ProjectFiles = []string{
	".jsonease.yaml",
	".jsonease.yml",
	".jsonease.toml",
	".jsonease.json",
}

// flagKeys maps command-line flag names to settings keys. Flags not listed
// here are command options, not settings.
var flagKeys = map[string]string{
	"indent":          "indent",
	"auto-repair":     "auto_repair",
	"output-dir":      "output_dir",
	"log-level":       "log_level",
	"no-color":        "no_color",
	"schema-version":  "schema_version",
	"error-template":  "error_template",
	"addr":            "server.addr",
	"allowed-origins": "server.allowed_origins",
	"fetch-retries":   "fetch.retries",
	"fetch-timeout":   "fetch.timeout",
}

// sections are the nested tables; JSONEASE_SERVER_ADDR maps to server.addr.
var sections = []string{"server", "fetch"}

var unmarshalConf = koanf.UnmarshalConf{
	Tag:       "koanf",
	FlatPaths: false,
}

// Loader handles configuration loading from multiple sources
type Loader struct {
	k          *koanf.Koanf
	envPrefix  string
	configFile string
	dotEnv     string
}

// NewLoader creates a new configuration loader with default environment prefix
func NewLoader() *Loader {
	return &Loader{
		k:         koanf.New("."),
		envPrefix: DefaultEnvPrefix,
		dotEnv:    ".env",
	}
}

// SetEnvPrefix sets a custom environment variable prefix
// The prefix should end with an underscore (e.g., "MY_APP_")
func (l *Loader) SetEnvPrefix(prefix string) {
	l.envPrefix = prefix
}

// SetConfigFile makes Load read path instead of looking for a project file.
func (l *Loader) SetConfigFile(path string) {
	l.configFile = path
}

// SetDotEnv sets the dotenv file merged into the environment before it is
// read. Empty disables dotenv loading.
func (l *Loader) SetDotEnv(path string) {
	l.dotEnv = path
}

// Load loads configuration from all available sources in priority order:
// 1. Command-line flags (highest priority)
// 2. Environment variables (JSONEASE_* by default, plus a .env file)
// 3. The config file set with SetConfigFile, or .jsonease.{yaml,yml,toml,json}
// 4. pyproject.toml section [tool.jsonease]
// 5. Default values (lowest priority)
func (l *Loader) Load(flags *flag.FlagSet) (*Config, error) {
	if err := l.loadDefaults(); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if err := l.loadPyprojectTOML(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading pyproject.toml config: %w", err)
	}

	if l.configFile != "" {
		if err := l.loadFile(l.configFile); err != nil {
			return nil, err
		}
	} else if err := l.loadProjectConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	if err := l.loadEnvVars(); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	if flags != nil {
		if err := l.loadFlags(flags); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	return l.unmarshal()
}

// LoadFromFile loads configuration from a specific file on top of the
// defaults, ignoring every other source.
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	if err := l.loadDefaults(); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}
	if err := l.loadFile(path); err != nil {
		return nil, err
	}
	return l.unmarshal()
}

func (l *Loader) unmarshal() (*Config, error) {
	var cfg Config
	if err := l.k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

func (l *Loader) loadFile(path string) error {
	parser, err := parserFor(path)
	if err != nil {
		return err
	}
	if err := l.k.Load(file.Provider(path), parser); err != nil {
		return fmt.Errorf("loading config file %q: %w", path, err)
	}
	return nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}
}

// loadDefaults loads default configuration values
func (l *Loader) loadDefaults() error {
	d := NewConfig()
	origins := make([]interface{}, len(d.Server.AllowedOrigins))
	for i, o := range d.Server.AllowedOrigins {
		origins[i] = o
	}

	defaults := map[string]interface{}{
		"indent":                 d.Indent,
		"auto_repair":            d.AutoRepair,
		"output_dir":             d.OutputDir,
		"log_level":              d.LogLevel,
		"no_color":               d.NoColor,
		"schema_version":         d.SchemaVersion,
		"error_template":         d.ErrorTemplate,
		"server.addr":            d.Server.Addr,
		"server.allowed_origins": origins,
		"fetch.retries":          d.Fetch.Retries,
		"fetch.timeout":          d.Fetch.Timeout.String(),
	}

	return l.k.Load(confmap.Provider(defaults, "."), nil)
}

// loadProjectConfig loads the first project settings file found in the
// current directory.
func (l *Loader) loadProjectConfig() error {
	for _, name := range ProjectFiles {
		if _, err := os.Stat(name); err == nil {
			return l.loadFile(name)
		}
	}
	return os.ErrNotExist
}

// loadPyprojectTOML loads configuration from pyproject.toml [tool.jsonease]
func (l *Loader) loadPyprojectTOML() error {
	const configFile = "pyproject.toml"

	if _, err := os.Stat(configFile); err != nil {
		return err
	}

	tempK := koanf.New(".")
	if err := tempK.Load(file.Provider(configFile), toml.Parser()); err != nil {
		return err
	}

	toolConfig := tempK.Cut("tool.jsonease")
	if toolConfig == nil || len(toolConfig.Raw()) == 0 {
		return os.ErrNotExist
	}

	return l.k.Merge(toolConfig)
}

// loadEnvVars loads configuration from environment variables
// Environment variables use SCREAMING_SNAKE_CASE, prefixed with the
// configured prefix (default: JSONEASE_). Variables in a .env file are added
// first without overriding the real environment.
// Examples (with default prefix):
//
//	JSONEASE_INDENT=tab
//	JSONEASE_AUTO_REPAIR=true
//	JSONEASE_SERVER_ADDR=127.0.0.1:9000
func (l *Loader) loadEnvVars() error {
	if l.dotEnv != "" {
		if _, err := os.Stat(l.dotEnv); err == nil {
			if err := godotenv.Load(l.dotEnv); err != nil {
				return fmt.Errorf("reading %s: %w", l.dotEnv, err)
			}
		}
	}

	return l.k.Load(env.Provider(l.envPrefix, ".", func(s string) string {
		return envKey(strings.TrimPrefix(s, l.envPrefix))
	}), nil)
}

// envKey lowercases an unprefixed variable name and nests known sections.
func envKey(name string) string {
	key := strings.ToLower(name)
	for _, section := range sections {
		if strings.HasPrefix(key, section+"_") {
			return section + "." + strings.TrimPrefix(key, section+"_")
		}
	}
	return key
}

// loadFlags loads configuration from command-line flags
func (l *Loader) loadFlags(flags *flag.FlagSet) error {
	return l.k.Load(posflag.ProviderWithFlag(flags, ".", l.k, func(f *flag.Flag) (string, interface{}) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return "", nil
		}
		return key, posflag.FlagVal(flags, f)
	}), nil)
}
