// Package ingest reads raw text from files, URLs and readers, and writes
// timestamped output artifacts.
package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/iilei/jsonease/pkg/jsonease"
)

// IOError is a failed read or write. Input state is never modified when
// one is returned.
type IOError struct {
	Msg string
	Err error
}

func (e *IOError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error { return e.Err }

// Diagnosis converts the error to the common user-facing shape.
func (e *IOError) Diagnosis() *jsonease.Diagnosis {
	return &jsonease.Diagnosis{Kind: jsonease.KindIO, Message: e.Error()}
}

// LoadFile returns the contents of path unchanged.
func LoadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &IOError{Msg: "Failed to read file", Err: err}
	}
	return string(data), nil
}

// LoadReader reads r to the end.
func LoadReader(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", &IOError{Msg: "Failed to read input", Err: err}
	}
	return string(data), nil
}

// Fetcher loads documents over HTTP with retries on transient failures.
type Fetcher struct {
	client *retryablehttp.Client
}

// FetchOptions configures a Fetcher.
type FetchOptions struct {
	Retries int
	Timeout time.Duration
	// Logger receives retry messages. Nil disables logging.
	Logger retryablehttp.LeveledLogger
}

// NewFetcher returns a Fetcher. Non-2xx responses are returned to the caller
// after the last retry instead of being replaced by a generic error.
func NewFetcher(opts FetchOptions) *Fetcher {
	client := retryablehttp.NewClient()
	client.RetryMax = opts.Retries
	client.RetryWaitMin = 100 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if opts.Timeout > 0 {
		client.HTTPClient.Timeout = opts.Timeout
	}
	client.Logger = nil
	if opts.Logger != nil {
		client.Logger = opts.Logger
	}
	return &Fetcher{client: client}
}

// Load fetches url and returns the body unchanged.
func (f *Fetcher) Load(ctx context.Context, url string) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &IOError{Msg: "Failed to load URL", Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &IOError{Msg: "Failed to load URL", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &IOError{Msg: "Failed to load URL", Err: fmt.Errorf("HTTP Error: %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &IOError{Msg: "Failed to load URL", Err: err}
	}
	return string(body), nil
}

// Timestamp formats t in UTC as YYYY-MM-DDTHH-MM-SS.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15-04-05")
}

// ArtifactName returns "<prefix>-<timestamp>.<ext>".
func ArtifactName(prefix, ext string, t time.Time) string {
	return fmt.Sprintf("%s-%s.%s", prefix, Timestamp(t), ext)
}

// WriteArtifact writes content to dir/name, creating dir if needed, and
// returns the written path.
func WriteArtifact(dir, name, content string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &IOError{Msg: "Failed to create output directory", Err: err}
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", &IOError{Msg: "Failed to write file", Err: err}
	}
	return path, nil
}
