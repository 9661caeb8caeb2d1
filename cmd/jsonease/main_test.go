package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type result struct {
	code   int
	stdout string
	stderr string
}

// run executes the CLI in a fresh temporary working directory.
func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFormat(t *testing.T) {
	inTempDir(t)

	t.Run("stdin", func(t *testing.T) {
		r := run(t, `{"b":1,"a":[true]}`, "format")
		require.Equal(t, ExitSuccess, r.code, r.stderr)
		assert.Equal(t, "{\n  \"b\": 1,\n  \"a\": [\n    true\n  ]\n}\n", r.stdout)
	})

	t.Run("indent flag", func(t *testing.T) {
		r := run(t, `{"a":1}`, "format", "--indent", "tab")
		require.Equal(t, ExitSuccess, r.code, r.stderr)
		assert.Equal(t, "{\n\t\"a\": 1\n}\n", r.stdout)
	})

	t.Run("indent from environment", func(t *testing.T) {
		t.Setenv("JSONEASE_INDENT", "4")
		r := run(t, `{"a":1}`, "format")
		require.Equal(t, ExitSuccess, r.code, r.stderr)
		assert.Equal(t, "{\n    \"a\": 1\n}\n", r.stdout)
	})

	t.Run("syntax error shows caret", func(t *testing.T) {
		r := run(t, "{\n  \"a\": }", "format")
		assert.Equal(t, ExitValidationFail, r.code)
		assert.Empty(t, r.stdout)
		assert.Contains(t, r.stderr, "<stdin>: Error at Line 2, Column 8: It looks like you have an extra closing brace")
		assert.Contains(t, r.stderr, "   2 |   \"a\": }\n     |        ^\n")
	})

	t.Run("auto repair", func(t *testing.T) {
		r := run(t, `{'a': 1,}`, "format", "--auto-repair")
		require.Equal(t, ExitSuccess, r.code, r.stderr)
		assert.Equal(t, "{\n  \"a\": 1\n}\n", r.stdout)
	})

	t.Run("invalid settings", func(t *testing.T) {
		r := run(t, `{}`, "format", "--indent", "20")
		assert.Equal(t, ExitUsageError, r.code)
		assert.Contains(t, r.stderr, "invalid settings")
	})
}

func TestFormat_Globs(t *testing.T) {
	dir := inTempDir(t)
	writeFile(t, filepath.Join(dir, "a.json"), `[1]`)
	writeFile(t, filepath.Join(dir, "sub", "deep", "c.json"), `{"c":true}`)
	writeFile(t, filepath.Join(dir, "b.json"), `{"b":}`)
	writeFile(t, filepath.Join(dir, "notes.txt"), `ignored`)

	r := run(t, "", "format", "-j", "2", "**/*.json")
	assert.Equal(t, ExitValidationFail, r.code)

	wantOut := "==> a.json <==\n[\n  1\n]\n==> " + filepath.Join("sub", "deep", "c.json") + " <==\n{\n  \"c\": true\n}\n"
	assert.Equal(t, wantOut, r.stdout)
	assert.Contains(t, r.stderr, "b.json: Error at Line 1, Column 6")
	assert.NotContains(t, r.stdout, "ignored")

	r = run(t, "", "format", "missing/*.json")
	assert.Equal(t, ExitUsageError, r.code)
	assert.Contains(t, r.stderr, `no files match "missing/*.json"`)

	r = run(t, "", "format", "nope.json")
	assert.Equal(t, ExitValidationFail, r.code)
	assert.Contains(t, r.stderr, "nope.json: Error: Failed to read file")
}

func TestFormat_Download(t *testing.T) {
	dir := inTempDir(t)

	r := run(t, `{"a":1}`, "format", "--download", "--output-dir", "out")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Empty(t, r.stdout)

	entries, err := os.ReadDir(filepath.Join(dir, "out"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Regexp(t, regexp.MustCompile(`^jsonease-\d{4}-\d{2}-\d{2}T\d{2}-\d{2}-\d{2}\.txt$`), entries[0].Name())
	assert.Contains(t, r.stderr, "saved to "+filepath.Join("out", entries[0].Name()))

	data, err := os.ReadFile(filepath.Join(dir, "out", entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", string(data))
}

func TestFormat_URL(t *testing.T) {
	inTempDir(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"remote":true}`))
	}))
	defer srv.Close()

	r := run(t, "", "minify", "--url", srv.URL+"/doc.json")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "{\"remote\":true}\n", r.stdout)

	r = run(t, "", "minify", "--fetch-retries", "0", "--url", srv.URL+"/missing")
	assert.Equal(t, ExitValidationFail, r.code)
	assert.Contains(t, r.stderr, "Failed to load URL: HTTP Error: 404")

	r = run(t, "", "minify", "--url", srv.URL, "a.json")
	assert.Equal(t, ExitUsageError, r.code)
}

func TestMinify(t *testing.T) {
	inTempDir(t)

	r := run(t, "{ \"a\" : [ 1 , 2 ] }", "minify")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "{\"a\":[1,2]}\n", r.stdout)

	r = run(t, "   ", "minify")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Empty(t, r.stdout)
}

func TestValidate(t *testing.T) {
	dir := inTempDir(t)

	r := run(t, `{"a":1}`, "validate")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "✓ <stdin>: valid\n", r.stdout)

	r = run(t, "", "validate")
	assert.Equal(t, ExitValidationFail, r.code)
	assert.Contains(t, r.stderr, "Error: Input is empty")

	schema := filepath.Join(dir, "schema.json5")
	writeFile(t, schema, `{
  type: 'object',
  required: ['name'],
  properties: { name: { type: 'string' } },
}`)
	writeFile(t, filepath.Join(dir, "good.json"), `{"name":"ada"}`)
	writeFile(t, filepath.Join(dir, "bad.json"), `{"name":1}`)

	r = run(t, "", "validate", "-s", schema, "good.json", "bad.json")
	assert.Equal(t, ExitValidationFail, r.code)
	assert.Equal(t, "✓ good.json: valid\n", r.stdout)
	assert.Contains(t, r.stderr, "bad.json: Error: 1 validation error(s) found:")

	r = run(t, "", "validate", "-s", schema, "-e", "with_path", "bad.json")
	assert.Equal(t, ExitValidationFail, r.code)
	assert.Contains(t, r.stderr, "/name: ")

	r = run(t, "", "validate", "-s", schema, "--schema-version", "draft-03", "good.json")
	assert.Equal(t, ExitUsageError, r.code)

	yamlSchema := filepath.Join(dir, "schema.yaml")
	writeFile(t, yamlSchema, "type: object\nrequired: [name]\nproperties:\n  name:\n    type: string\n")
	r = run(t, "", "validate", "-s", yamlSchema, "good.json", "bad.json")
	assert.Equal(t, ExitValidationFail, r.code)
	assert.Equal(t, "✓ good.json: valid\n", r.stdout)
	assert.Contains(t, r.stderr, "bad.json: Error: 1 validation error(s) found:")

	r = run(t, "", "validate", "-s", filepath.Join(dir, "absent.json"), "good.json")
	assert.Equal(t, ExitUsageError, r.code)
	assert.Contains(t, r.stderr, "failed to read schema")
}

func TestFrom(t *testing.T) {
	dir := inTempDir(t)

	r := run(t, "name: ada\ntags: [x, y]\n", "format", "--from", "yaml")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "{\n  \"name\": \"ada\",\n  \"tags\": [\n    \"x\",\n    \"y\"\n  ]\n}\n", r.stdout)

	writeFile(t, filepath.Join(dir, "rows.toml"), "b = 2\na = 1\n")
	r = run(t, "", "minify", "--from", "auto", "rows.toml")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "{\"a\":1,\"b\":2}\n", r.stdout)

	r = run(t, "{a: 1, // note\n}", "convert", "--from", "json5", "--to", "yaml")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "a: 1\n", r.stdout)

	r = run(t, "a = \n", "format", "--from", "toml")
	assert.Equal(t, ExitValidationFail, r.code)
	assert.Contains(t, r.stderr, "parsing TOML")

	r = run(t, `{}`, "format", "--from", "ini")
	assert.Equal(t, ExitUsageError, r.code)
	assert.Contains(t, r.stderr, `unknown input type "ini"`)
}

func TestRepair(t *testing.T) {
	dir := inTempDir(t)

	r := run(t, `{'a': 'b',}`, "repair")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "{\n  \"a\": \"b\"\n}\n", r.stdout)

	r = run(t, `[1, 2`, "repair")
	assert.Equal(t, ExitValidationFail, r.code)
	assert.Contains(t, r.stderr, "Could not auto-fix: ")

	broken := `{"x": [1, 2,], "y": 'z', "w": }`
	r = run(t, broken, "repair")
	assert.Equal(t, ExitValidationFail, r.code)
	assert.Contains(t, r.stderr, "<stdin>: Error at Line 1, Column 31: Could not auto-fix: ")
	assert.Contains(t, r.stderr, "   1 | "+broken+"\n     | "+strings.Repeat(" ", 30)+"^\n")

	path := filepath.Join(dir, "broken.json")
	writeFile(t, path, "[1, 2,]")
	r = run(t, "", "repair", "--write", path)
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Contains(t, r.stdout, "repaired (trailing-commas)")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[\n  1,\n  2\n]\n", string(data))

	r = run(t, "", "repair", "--write", path)
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Contains(t, r.stdout, "unchanged")

	r = run(t, `[1,]`, "repair", "--write")
	assert.Equal(t, ExitValidationFail, r.code)
	assert.Contains(t, r.stderr, "--write needs a file input")
}

func TestConvert(t *testing.T) {
	inTempDir(t)

	r := run(t, `[{"a":1,"b":{"c":2}},{"a":3}]`, "convert", "--to", "csv")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "a,b.c\n1,2\n3,\n", r.stdout)

	r = run(t, `{"a":1}`, "convert", "--to", "csv")
	assert.Equal(t, ExitValidationFail, r.code)
	assert.Contains(t, r.stderr, "CSV conversion requires a JSON array of objects")

	r = run(t, `{"a":1}`, "convert", "--to", "ini")
	assert.Equal(t, ExitUsageError, r.code)

	r = run(t, `{"a":1}`, "convert")
	assert.Equal(t, ExitUsageError, r.code)
}

func TestTree(t *testing.T) {
	inTempDir(t)

	r := run(t, `{"a":{"b":1},"c":[]}`, "tree", "--depth", "1")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "▶ \"a\": {…}\n\"c\": []\n", r.stdout)
}

func TestGenerate(t *testing.T) {
	dir := inTempDir(t)

	first := run(t, "", "generate", "-f", "id:uuid", "-f", "name:name", "-n", "2", "--seed", "3")
	require.Equal(t, ExitSuccess, first.code, first.stderr)
	second := run(t, "", "generate", "-f", "id:uuid", "-f", "name:name", "-n", "2", "--seed", "3")
	assert.Equal(t, first.stdout, second.stdout)
	assert.Equal(t, 2, strings.Count(first.stdout, `"id"`))

	r := run(t, "", "generate")
	assert.Equal(t, ExitValidationFail, r.code)
	assert.Contains(t, r.stderr, "Add at least one field to generate JSON")

	r = run(t, "", "generate", "-f", "when:date")
	assert.Equal(t, ExitUsageError, r.code)

	r = run(t, "", "generate", "-f", "ok:boolean", "--download", "--output-dir", dir)
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	matches, err := filepath.Glob(filepath.Join(dir, "jsonease-generated-*.json"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestSettings(t *testing.T) {
	dir := inTempDir(t)

	r := run(t, "", "--indent", "tab", "settings")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Contains(t, r.stdout, "indent: tab\n")
	assert.Contains(t, r.stdout, "server:\n")

	r = run(t, "", "settings", "--auto-repair", "--save", ".jsonease.yaml")
	require.Equal(t, ExitSuccess, r.code, r.stderr)

	r = run(t, "", "settings")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Contains(t, r.stdout, "auto_repair: true\n")

	custom := filepath.Join(dir, "custom.toml")
	writeFile(t, custom, "indent = \"3\"\n")
	r = run(t, `{"a":1}`, "--config", custom, "format")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "{\n   \"a\": 1\n}\n", r.stdout)

	t.Setenv("OTHER_INDENT", "5")
	r = run(t, `{"a":1}`, "--env-prefix", "OTHER", "format")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "{\n     \"a\": 1\n}\n", r.stdout)
}

func TestCaretPad(t *testing.T) {
	assert.Equal(t, "", caretPad("abc", 1))
	assert.Equal(t, "  ", caretPad("abc", 3))
	assert.Equal(t, "\t ", caretPad("\tab", 3))
	assert.Equal(t, "     ", caretPad("日本x", 4), "wide runes take two cells")
	assert.Equal(t, "  ", caretPad("ab", 9), "columns past the end stop at the line end")
}
