package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dejobratic/storefront/internal/shop/ports"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client is the single chokepoint for all storefront network calls. It
// normalizes transport, HTTP and validation failures into ports.APIError,
// attaches bearer credentials passed by callers, and never reads the
// identity store itself.
type Client struct {
	baseURL      string
	mediaBaseURL string
	httpClient   *http.Client
	logger       *slog.Logger
}

type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client, used by tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithLogger attaches a logger for request-level diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithMediaBaseURL overrides the media root derived from the API base.
func WithMediaBaseURL(mediaBaseURL string) Option {
	return func(c *Client) { c.mediaBaseURL = strings.TrimRight(mediaBaseURL, "/") }
}

// WithTimeout bounds every call issued by the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = timeout }
}

// NewClient builds a gateway rooted at baseURL (including the /api suffix).
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   15 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.mediaBaseURL == "" {
		c.mediaBaseURL = deriveMediaBase(c.baseURL)
	}
	return c
}

type request struct {
	method  string
	path    string
	body    any
	token   string
	headers map[string]string
	// paginated marks list endpoints whose payload arrives inside a
	// {"data": ...} envelope. Object payloads are never unwrapped, so an
	// endpoint with a real "data" field cannot be mangled.
	paginated bool
}

// call executes one HTTP exchange and returns the raw success payload.
// Every failure comes back as a *ports.APIError; nothing else escapes.
func (c *Client) call(ctx context.Context, req request) (json.RawMessage, error) {
	var bodyReader io.Reader
	if req.body != nil {
		encoded, err := json.Marshal(req.body)
		if err != nil {
			return nil, &ports.APIError{
				Kind:    ports.KindTransport,
				Message: fmt.Sprintf("encode request body: %v", err),
			}
		}
		bodyReader = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+"/"+strings.TrimPrefix(req.path, "/"), bodyReader)
	if err != nil {
		return nil, &ports.APIError{
			Kind:    ports.KindTransport,
			Message: fmt.Sprintf("build request: %v", err),
		}
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}
	for key, value := range req.headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.WarnContext(ctx, "api transport failure",
			"method", req.method, "path", req.path, "error", err)
		return nil, &ports.APIError{
			Kind:    ports.KindTransport,
			Message: "network error, please check your connection",
		}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ports.APIError{
			Kind:    ports.KindTransport,
			Status:  resp.StatusCode,
			Message: "reading response body failed",
		}
	}

	// A non-JSON body is never parsed as success: an HTML error page must
	// not be silently accepted as data.
	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		c.logger.WarnContext(ctx, "api returned non-JSON response",
			"method", req.method, "path", req.path,
			"status", resp.StatusCode, "content_type", contentType)
		return nil, &ports.APIError{
			Kind:    ports.KindServer,
			Status:  resp.StatusCode,
			Message: "invalid response format from server",
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, classifyError(resp.StatusCode, raw)
	}

	if req.paginated {
		return unwrapData(raw), nil
	}
	return raw, nil
}

// unwrapData strips the {"data": ...} envelope paginated endpoints use,
// leaving bare list payloads untouched.
func unwrapData(raw json.RawMessage) json.RawMessage {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 {
		return envelope.Data
	}
	return raw
}

func deriveMediaBase(baseURL string) string {
	return strings.TrimSuffix(strings.TrimRight(baseURL, "/"), "/api")
}
