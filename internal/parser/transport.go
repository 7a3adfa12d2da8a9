package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Compile-time interface check.
var _ Fetcher = (*HTTPFetcher)(nil)

// HTTPFetcher calls a remote parser service over HTTP.
type HTTPFetcher struct {
	http    *http.Client
	logger  *slog.Logger
	request func(ctx context.Context, sentence string) (*http.Request, error)
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *HTTPFetcher) {
		f.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying *http.Client entirely.
func WithHTTPClient(hc *http.Client) FetcherOption {
	return func(f *HTTPFetcher) {
		f.http = hc
	}
}

// WithLogger sets the logger used to report upstream failures.
func WithLogger(l *slog.Logger) FetcherOption {
	return func(f *HTTPFetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

func newHTTPFetcher(opts []FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewEnjuHTTP returns a fetcher for the Enju CGI: a GET with the sentence
// and format=conll as query parameters.
func NewEnjuHTTP(endpoint string, opts ...FetcherOption) *HTTPFetcher {
	f := newHTTPFetcher(opts)
	f.request = func(ctx context.Context, sentence string) (*http.Request, error) {
		q := url.Values{"sentence": {sentence}, "format": {"conll"}}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "text/plain")
		return req, nil
	}
	return f
}

// NewSpacyHTTP returns a fetcher for the spaCy REST service: a form POST
// with the sentence in the text field.
func NewSpacyHTTP(endpoint string, opts ...FetcherOption) *HTTPFetcher {
	f := newHTTPFetcher(opts)
	f.request = func(ctx context.Context, sentence string) (*http.Request, error) {
		form := url.Values{"text": {sentence}}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Accept", "application/json")
		return req, nil
	}
	return f
}

// Fetch sends sentence to the service and returns the response body. Any
// transport failure or non-200 status is reported as ErrUpstreamUnavailable.
func (f *HTTPFetcher) Fetch(ctx context.Context, sentence string) ([]byte, error) {
	req, err := f.request(ctx, sentence)
	if err != nil {
		return nil, fmt.Errorf("parser: create request: %w", err)
	}

	resp, err := f.http.Do(req)
	if err != nil {
		f.logger.Warn("parser request failed", "url", req.URL.Redacted(), "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		f.logger.Warn("parser returned non-success status", "url", req.URL.Redacted(), "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: HTTP %d: %s", ErrUpstreamUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}
