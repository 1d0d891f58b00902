package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"

	"github.com/macrolens/macrolens/internal/logging"
	"github.com/macrolens/macrolens/internal/timeseries"
)

// DefaultMaxBytes bounds a fetched dataset
const DefaultMaxBytes = 64 << 20

// ErrTooLarge is returned for a document over FetchOptions.MaxBytes
var ErrTooLarge = errors.New("dataset exceeds size limit")

// FetchOptions controls the remote download
type FetchOptions struct {
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	MaxBytes   int64
	Client     *http.Client
}

func (o FetchOptions) withDefaults() FetchOptions {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = 500 * time.Millisecond
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxBytes
	}
	if o.Client == nil {
		o.Client = &http.Client{}
	}
	return o
}

// StatusError is a non-success HTTP response from the data source
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}

func retryable(resp *http.Response, err error) bool {
	if err != nil {
		return !errors.Is(err, context.Canceled)
	}
	return resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
}

// Fetch downloads rawURL, retrying transport errors and 5xx/429 responses.
// It returns the body and the response content type.
func Fetch(ctx context.Context, rawURL string, opts FetchOptions) ([]byte, string, error) {
	opts = opts.withDefaults()
	logger := logging.FromContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	policy := retrypolicy.Builder[*http.Response]().
		HandleIf(retryable).
		WithMaxRetries(opts.MaxRetries).
		WithBackoff(opts.RetryDelay, 8*opts.RetryDelay).
		OnRetry(func(e failsafe.ExecutionEvent[*http.Response]) {
			logger.Warn("Retrying dataset fetch", "url", rawURL, "attempt", e.Attempts())
		}).
		Build()

	resp, err := failsafe.NewExecutor[*http.Response](policy).
		WithContext(ctx).
		GetWithExecution(func(exec failsafe.Execution[*http.Response]) (*http.Response, error) {
			req, err := http.NewRequestWithContext(exec.Context(), http.MethodGet, rawURL, nil)
			if err != nil {
				return nil, err
			}
			resp, err := opts.Client.Do(req)
			if err != nil {
				return nil, err
			}
			if retryable(resp, nil) {
				// drained here since a retried response is discarded
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
			}
			return resp, nil
		})
	if err != nil {
		if resp != nil && resp.StatusCode != 0 {
			return nil, "", &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
		}
		return nil, "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	if resp.ContentLength > opts.MaxBytes {
		return nil, "", fmt.Errorf("fetch %s: %w (%d > %d bytes)", rawURL, ErrTooLarge, resp.ContentLength, opts.MaxBytes)
	}
	// one byte over the limit tells a truncated body from an exact fit
	body, err := io.ReadAll(io.LimitReader(resp.Body, opts.MaxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	if int64(len(body)) > opts.MaxBytes {
		return nil, "", fmt.Errorf("fetch %s: %w (limit %d bytes)", rawURL, ErrTooLarge, opts.MaxBytes)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// IsRemote reports whether source is an http(s) URL
func IsRemote(source string) bool {
	u, err := url.Parse(source)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

// LoadTable reads source, a file path or an http(s) URL
func LoadTable(ctx context.Context, source string, opts FetchOptions) (*Table, error) {
	if source == "" {
		return nil, fmt.Errorf("data source is required")
	}

	if !IsRemote(source) {
		format, err := FormatFromPath(source)
		if err != nil {
			return nil, err
		}
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open dataset: %w", err)
		}
		defer f.Close()
		return Read(f, format)
	}

	body, contentType, err := Fetch(ctx, source, opts)
	if err != nil {
		return nil, err
	}
	format, ok := formatFromContentType(contentType)
	if !ok {
		u, _ := url.Parse(source)
		if format, err = FormatFromPath(u.Path); err != nil {
			return nil, fmt.Errorf("cannot determine format of %s (content type %q): %w", source, contentType, err)
		}
	}
	return Read(bytes.NewReader(body), format)
}

// LoadStore loads source into a store. Any failure returns no store at all.
func LoadStore(ctx context.Context, source string, opts FetchOptions) (*timeseries.Store, error) {
	logger := logging.FromContext(ctx)
	start := time.Now()

	table, err := LoadTable(ctx, source, opts)
	if err != nil {
		return nil, err
	}
	store, err := table.Store()
	if err != nil {
		return nil, fmt.Errorf("failed to build store from %s: %w", source, err)
	}

	logger.Info("Dataset loaded",
		"source", redact(source),
		"records", store.Len(),
		"indicators", len(store.Indicators()),
		"duration", time.Since(start))
	return store, nil
}

// redact strips credentials and query strings from a URL before logging
func redact(source string) string {
	if !IsRemote(source) {
		return source
	}
	u, err := url.Parse(source)
	if err != nil {
		return source
	}
	u.User = nil
	u.RawQuery = ""
	return strings.TrimSuffix(u.String(), "?")
}
