package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	flag "github.com/spf13/pflag"
)

// chdirTemp switches into a fresh temporary directory for the test.
func chdirTemp(t *testing.T) string {
	t.Helper()

	origDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	tempDir := t.TempDir()
	if err := os.Chdir(tempDir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	return tempDir
}

func TestLoader_LoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := NewLoader().Load(nil)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Indent != "2" {
		t.Errorf("default indent = %q, want %q", cfg.Indent, "2")
	}
	if cfg.AutoRepair {
		t.Errorf("default auto_repair = true, want false")
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("default server.addr = %q, want %q", cfg.Server.Addr, ":8080")
	}
	if cfg.Fetch.Retries != 2 {
		t.Errorf("default fetch.retries = %d, want 2", cfg.Fetch.Retries)
	}
	if cfg.Fetch.Timeout != 10*time.Second {
		t.Errorf("default fetch.timeout = %v, want 10s", cfg.Fetch.Timeout)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "*" {
		t.Errorf("default server.allowed_origins = %v, want [*]", cfg.Server.AllowedOrigins)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoader_LoadFromYAMLFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")

	configContent := `
indent: tab
auto_repair: true
error_template: "Error: {{.FullMessage}}"
server:
  addr: "127.0.0.1:9000"
fetch:
  timeout: 3s
`
	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewLoader().LoadFromFile(configFile)
	if err != nil {
		t.Fatalf("LoadFromFile() failed: %v", err)
	}

	if cfg.Indent != "tab" {
		t.Errorf("indent = %q, want %q", cfg.Indent, "tab")
	}
	if !cfg.AutoRepair {
		t.Errorf("auto_repair = false, want true")
	}
	if cfg.ErrorTemplate != "Error: {{.FullMessage}}" {
		t.Errorf("error_template = %q, want %q", cfg.ErrorTemplate, "Error: {{.FullMessage}}")
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("server.addr = %q, want %q", cfg.Server.Addr, "127.0.0.1:9000")
	}
	if cfg.Fetch.Timeout != 3*time.Second {
		t.Errorf("fetch.timeout = %v, want 3s", cfg.Fetch.Timeout)
	}
	// Untouched keys keep their defaults.
	if cfg.Fetch.Retries != 2 {
		t.Errorf("fetch.retries = %d, want 2", cfg.Fetch.Retries)
	}
}

func TestLoader_LoadFromTOMLFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.toml")

	configContent := `
indent = "4"
log_level = "debug"

[fetch]
retries = 5
`
	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewLoader().LoadFromFile(configFile)
	if err != nil {
		t.Fatalf("LoadFromFile() failed: %v", err)
	}

	if cfg.Indent != "4" {
		t.Errorf("indent = %q, want %q", cfg.Indent, "4")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log_level = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.Fetch.Retries != 5 {
		t.Errorf("fetch.retries = %d, want 5", cfg.Fetch.Retries)
	}
}

func TestLoader_LoadFromJSONFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.json")

	configContent := `{"indent": "8", "output_dir": "out", "no_color": true}`
	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewLoader().LoadFromFile(configFile)
	if err != nil {
		t.Fatalf("LoadFromFile() failed: %v", err)
	}

	if cfg.Indent != "8" || cfg.OutputDir != "out" || !cfg.NoColor {
		t.Errorf("got indent=%q output_dir=%q no_color=%v", cfg.Indent, cfg.OutputDir, cfg.NoColor)
	}
}

func TestLoader_UnsupportedFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.ini")
	if err := os.WriteFile(configFile, []byte("indent=2"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewLoader().LoadFromFile(configFile); err == nil {
		t.Error("LoadFromFile() with .ini should fail")
	}
}

func TestLoader_LoadProjectConfig(t *testing.T) {
	chdirTemp(t)

	if err := os.WriteFile(".jsonease.yaml", []byte("indent: \"3\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewLoader().Load(nil)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Indent != "3" {
		t.Errorf("indent = %q, want %q", cfg.Indent, "3")
	}
}

func TestLoader_ProjectConfigPreference(t *testing.T) {
	chdirTemp(t)

	if err := os.WriteFile(".jsonease.toml", []byte("indent = \"6\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(".jsonease.json", []byte(`{"indent": "7"}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewLoader().Load(nil)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Indent != "6" {
		t.Errorf("indent = %q, want %q (.toml is preferred over .json)", cfg.Indent, "6")
	}
}

func TestLoader_SetConfigFile(t *testing.T) {
	dir := chdirTemp(t)

	if err := os.WriteFile(".jsonease.yaml", []byte("indent: \"3\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	explicit := filepath.Join(dir, "custom.yml")
	if err := os.WriteFile(explicit, []byte("indent: tab\n"), 0644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader()
	loader.SetConfigFile(explicit)
	cfg, err := loader.Load(nil)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Indent != "tab" {
		t.Errorf("indent = %q, want %q (explicit file replaces the project file)", cfg.Indent, "tab")
	}
}

func TestLoader_LoadPyprojectTOML(t *testing.T) {
	chdirTemp(t)

	configContent := `
[project]
name = "test-project"

[tool.jsonease]
indent = "tab"
auto_repair = true

[tool.jsonease.server]
addr = "localhost:7000"
`
	if err := os.WriteFile("pyproject.toml", []byte(configContent), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewLoader().Load(nil)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Indent != "tab" {
		t.Errorf("indent = %q, want %q", cfg.Indent, "tab")
	}
	if !cfg.AutoRepair {
		t.Errorf("auto_repair = false, want true")
	}
	if cfg.Server.Addr != "localhost:7000" {
		t.Errorf("server.addr = %q, want %q", cfg.Server.Addr, "localhost:7000")
	}
}

func TestLoader_PyprojectWithoutSection(t *testing.T) {
	chdirTemp(t)

	if err := os.WriteFile("pyproject.toml", []byte("[project]\nname = \"x\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewLoader().Load(nil)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Indent != "2" {
		t.Errorf("indent = %q, want default %q", cfg.Indent, "2")
	}
}

func TestLoader_LoadEnvVars(t *testing.T) {
	chdirTemp(t)
	t.Setenv("JSONEASE_INDENT", "tab")
	t.Setenv("JSONEASE_AUTO_REPAIR", "true")
	t.Setenv("JSONEASE_SERVER_ADDR", "0.0.0.0:9999")
	t.Setenv("JSONEASE_FETCH_TIMEOUT", "250ms")

	cfg, err := NewLoader().Load(nil)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Indent != "tab" {
		t.Errorf("indent = %q, want %q", cfg.Indent, "tab")
	}
	if !cfg.AutoRepair {
		t.Errorf("auto_repair = false, want true")
	}
	if cfg.Server.Addr != "0.0.0.0:9999" {
		t.Errorf("server.addr = %q, want %q", cfg.Server.Addr, "0.0.0.0:9999")
	}
	if cfg.Fetch.Timeout != 250*time.Millisecond {
		t.Errorf("fetch.timeout = %v, want 250ms", cfg.Fetch.Timeout)
	}
}

func TestLoader_CustomEnvPrefix(t *testing.T) {
	chdirTemp(t)
	t.Setenv("MY_APP_INDENT", "5")
	t.Setenv("MY_APP_ERROR_TEMPLATE", "Custom: {{.FullMessage}}")
	t.Setenv("JSONEASE_INDENT", "9")

	loader := NewLoader()
	loader.SetEnvPrefix("MY_APP_")

	cfg, err := loader.Load(nil)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Indent != "5" {
		t.Errorf("indent = %q, want %q (should ignore JSONEASE_ prefix)", cfg.Indent, "5")
	}
	if cfg.ErrorTemplate != "Custom: {{.FullMessage}}" {
		t.Errorf("error_template = %q, want %q", cfg.ErrorTemplate, "Custom: {{.FullMessage}}")
	}
}

func TestLoader_DotEnv(t *testing.T) {
	chdirTemp(t)
	t.Cleanup(func() { _ = os.Unsetenv("JSONEASE_LOG_LEVEL") })

	if err := os.WriteFile(".env", []byte("JSONEASE_LOG_LEVEL=warn\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewLoader().Load(nil)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("log_level = %q, want %q", cfg.LogLevel, "warn")
	}
}

func TestLoader_LoadFlags(t *testing.T) {
	chdirTemp(t)
	t.Setenv("JSONEASE_INDENT", "4")

	flags := flag.NewFlagSet("test", flag.ContinueOnError)
	flags.String("indent", "2", "Indentation")
	flags.Bool("auto-repair", false, "Auto repair")
	flags.String("addr", ":8080", "Listen address")
	flags.Duration("fetch-timeout", time.Second, "Fetch timeout")
	flags.String("to", "csv", "Not a setting")

	if err := flags.Parse([]string{"--indent", "tab", "--addr", "127.0.0.1:1234", "--to", "xml"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewLoader().Load(flags)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Indent != "tab" {
		t.Errorf("indent = %q, want %q (flag should override env)", cfg.Indent, "tab")
	}
	if cfg.Server.Addr != "127.0.0.1:1234" {
		t.Errorf("server.addr = %q, want %q", cfg.Server.Addr, "127.0.0.1:1234")
	}
	// Unchanged flags do not override existing values.
	if cfg.AutoRepair {
		t.Errorf("auto_repair = true, want false")
	}
	if cfg.Fetch.Timeout != 10*time.Second {
		t.Errorf("fetch.timeout = %v, want 10s", cfg.Fetch.Timeout)
	}
}

func TestLoader_ConfigPriority(t *testing.T) {
	chdirTemp(t)

	if err := os.WriteFile("pyproject.toml", []byte("[tool.jsonease]\nindent = \"3\"\nlog_level = \"error\"\noutput_dir = \"py\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(".jsonease.yaml", []byte("indent: \"4\"\nlog_level: warn\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("JSONEASE_INDENT", "tab")

	cfg, err := NewLoader().Load(nil)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Indent != "tab" {
		t.Errorf("indent = %q, want %q (env var should override file)", cfg.Indent, "tab")
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("log_level = %q, want %q (project file should override pyproject)", cfg.LogLevel, "warn")
	}
	if cfg.OutputDir != "py" {
		t.Errorf("output_dir = %q, want %q", cfg.OutputDir, "py")
	}
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"INDENT", "indent"},
		{"AUTO_REPAIR", "auto_repair"},
		{"SERVER_ADDR", "server.addr"},
		{"SERVER_ALLOWED_ORIGINS", "server.allowed_origins"},
		{"FETCH_RETRIES", "fetch.retries"},
	}

	for _, tt := range tests {
		if got := envKey(tt.in); got != tt.want {
			t.Errorf("envKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
