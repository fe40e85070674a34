// Package fetch loads application pages for the offline pipeline: over HTTP,
// from a saved file, or rendered in headless Chrome when the served markup is
// an empty single-page-app shell.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/jonathan/hired-always/internal/form"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; HiredAlways/1.0)"

// maxBody caps how much of a response is read.
const maxBody = 10 << 20

// Result holds the raw content from a URL fetch.
type Result struct {
	URL         string
	FinalURL    string
	HTML        string
	ContentType string
	StatusCode  int
}

// Error represents an error during URL fetching.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
	// Render forces headless rendering. Otherwise a page is rendered only when
	// its served text looks like an unrendered app shell.
	Render bool
	Logger *slog.Logger
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

func (o *Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// URL retrieves HTML content from a URL, decoded to UTF-8.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	contentType := resp.Header.Get("Content-Type")
	decoded, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "unsupported charset", Cause: err}
	}
	text, err := io.ReadAll(decoded)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to decode body", Cause: err}
	}

	result := &Result{
		URL:         urlStr,
		FinalURL:    resp.Request.URL.String(),
		HTML:        string(text),
		ContentType: contentType,
		StatusCode:  resp.StatusCode,
	}

	if resp.StatusCode != http.StatusOK {
		return result, &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	return result, nil
}

// Page fetches urlStr and parses it into a snapshot, rendering it in headless
// Chrome when forced or when the served markup carries too little text.
func Page(ctx context.Context, urlStr string, opts *Options) (*form.Snapshot, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	log := opts.logger()

	pageURL := urlStr
	if !opts.Render {
		res, err := URL(ctx, urlStr, opts)
		if err != nil {
			return nil, err
		}
		snap, err := Parse(res.HTML, res.FinalURL)
		if err != nil {
			return nil, err
		}
		if !ShouldUseBrowser(snap.Doc) {
			return snap, nil
		}
		pageURL = res.FinalURL
	}

	log.Info("fetch: rendering in browser", "url", urlStr, "forced", opts.Render)
	rendered, err := WithBrowser(ctx, urlStr, opts.Timeout, log)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "render failed", Cause: err}
	}
	return Parse(rendered, pageURL)
}

// File reads a saved page. pageURL is the address it was saved from, used for
// platform detection; it may be empty.
func File(path, pageURL string) (*form.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read page %s: %w", path, err)
	}
	return Parse(string(data), pageURL)
}

// Parse builds a snapshot from markup.
func Parse(markup, pageURL string) (*form.Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &form.Snapshot{
		URL:   pageURL,
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
		Doc:   doc,
	}, nil
}
