// Package fetch retrieves pages from the paginated transactions endpoint.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/salesboard-dev/salesboard/internal/logging"
	"github.com/salesboard-dev/salesboard/internal/model"
)

// RequestIDHeader carries the query cycle id on every page request.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 512

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("GET %s: unexpected status %d: %s", e.URL, e.StatusCode, e.Body)
}

// Client issues GET requests against one transactions endpoint.
type Client struct {
	base   *url.URL
	http   *http.Client
	log    *logrus.Entry
	tracer trace.Tracer
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the instrumented default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the log entry used for page requests.
func WithLogger(log *logrus.Entry) Option {
	return func(c *Client) { c.log = log }
}

// New creates a Client for endpoint, which must be an absolute http(s) URL.
func New(endpoint string, timeout time.Duration, opts ...Option) (*Client, error) {
	base, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint: %w", err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("endpoint %q must be an absolute http(s) URL", endpoint)
	}
	base.RawQuery = ""
	base.Fragment = ""

	c := &Client{
		base: base,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log:    logging.Discard(),
		tracer: otel.Tracer("salesboard/fetch"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FirstPageURL returns the endpoint URL carrying query.
func (c *Client) FirstPageURL(query string) string {
	u := *c.base
	u.RawQuery = strings.TrimPrefix(query, "?")
	return u.String()
}

// Resolve turns a next link into an absolute URL. Absolute links are
// returned unchanged; relative links resolve against the endpoint.
func (c *Client) Resolve(link string) (string, error) {
	ref, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("parsing next link %q: %w", link, err)
	}
	return c.base.ResolveReference(ref).String(), nil
}

// Page fetches and decodes one page.
func (c *Client) Page(ctx context.Context, pageURL string) (model.Page, error) {
	ctx, span := c.tracer.Start(ctx, "fetch.Page",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.url", pageURL)),
	)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return model.Page{}, fail(span, fmt.Errorf("building request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if id := RequestID(ctx); id != "" {
		req.Header.Set(RequestIDHeader, id)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return model.Page{}, fail(span, fmt.Errorf("requesting %s: %w", pageURL, err))
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return model.Page{}, fail(span, &StatusError{
			StatusCode: resp.StatusCode,
			URL:        pageURL,
			Body:       strings.TrimSpace(string(body)),
		})
	}

	var page model.Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return model.Page{}, fail(span, fmt.Errorf("decoding page %s: %w", pageURL, err))
	}

	_, hasNext := page.NextLink()
	span.SetAttributes(
		attribute.Int("page.results", len(page.Results)),
		attribute.Bool("page.has_next", hasNext),
	)
	c.log.WithFields(logrus.Fields{
		"url":         pageURL,
		"results":     len(page.Results),
		"has_next":    hasNext,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("page fetched")
	return page, nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

type requestIDKey struct{}

// WithRequestID returns a context whose page requests carry id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request id stored in ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
