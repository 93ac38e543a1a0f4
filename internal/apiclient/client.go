// Package apiclient is the JSON-over-HTTP transport for the NearDoc backend.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wolfman30/neardoc/internal/domain"
	"github.com/wolfman30/neardoc/internal/observability/metrics"
	"github.com/wolfman30/neardoc/pkg/logging"
)

const (
	DefaultBaseURL = "http://localhost:5000/api"
	defaultTimeout = 30 * time.Second
	maxLoggedBody  = 300
)

var tracer = otel.Tracer("neardoc.internal.apiclient")

// TokenSource supplies the bearer token for each request. An empty token
// sends no Authorization header.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed TokenSource.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// Config holds configuration for the transport client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	Tokens     TokenSource
	HTTPClient *http.Client
	Logger     *logging.Logger
	Metrics    *metrics.ClientMetrics
}

// Client issues GET/POST requests against BaseURL + endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
	logger     *logging.Logger
	metrics    *metrics.ClientMetrics
}

// New constructs a transport client. The base URL is not validated here; a
// malformed URL surfaces as ErrInvalidEndpoint on the first call.
func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	tokens := cfg.Tokens
	if tokens == nil {
		tokens = StaticToken("")
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		logger:     cfg.Logger.Component("apiclient"),
		metrics:    cfg.Metrics,
	}
}

// BaseURL returns the prefix every endpoint is appended to.
func (c *Client) BaseURL() string { return c.baseURL }

// RequestOption customises a single call.
type RequestOption func(*requestOptions)

type requestOptions struct {
	route   string
	headers http.Header
}

// WithRoute sets the route template used for metrics and spans, e.g.
// "/doctor/{id}". Defaults to the endpoint without its query string.
func WithRoute(route string) RequestOption {
	return func(o *requestOptions) { o.route = route }
}

// WithHeader adds a request header.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) { o.headers.Set(key, value) }
}

// WithIdempotencyKey tags a write so the backend can drop duplicates.
func WithIdempotencyKey(key string) RequestOption {
	return WithHeader("Idempotency-Key", key)
}

// Get issues GET base+endpoint and decodes the body into T. The endpoint is
// appended verbatim; callers pre-encode any query string.
func Get[T any](ctx context.Context, c *Client, endpoint string, opts ...RequestOption) (T, error) {
	var out T
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &out, opts); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Post issues POST base+endpoint with body encoded as JSON and decodes the
// response into T.
func Post[T any](ctx context.Context, c *Client, endpoint string, body any, opts ...RequestOption) (T, error) {
	var out T
	if err := c.do(ctx, http.MethodPost, endpoint, body, &out, opts); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any, opts []RequestOption) (err error) {
	ro := requestOptions{headers: http.Header{}}
	for _, opt := range opts {
		opt(&ro)
	}
	if ro.route == "" {
		ro.route = routeOf(endpoint)
	}

	ctx, span := tracer.Start(ctx, "apiclient.request")
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("neardoc.route", ro.route),
	)

	start := time.Now()
	defer func() {
		c.metrics.ObserveRequest(method, ro.route, outcome(err), time.Since(start))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome(err))
		}
	}()

	fail := func(kind error, status int, cause error) *Error {
		return &Error{Kind: kind, Method: method, Endpoint: endpoint, StatusCode: status, Err: cause}
	}

	target, err := c.resolve(endpoint)
	if err != nil {
		return fail(ErrInvalidEndpoint, 0, err)
	}

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fail(ErrEncoding, 0, err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return fail(ErrInvalidEndpoint, 0, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	for key, values := range ro.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed", "method", method, "route", ro.route, "error", err)
		return fail(ErrNetwork, 0, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(ErrNetwork, resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("backend non-2xx response",
			"method", method, "route", ro.route, "status", resp.StatusCode, "body", truncate(respBody))
		if passThroughEnvelope(respBody, out) {
			return nil
		}
		e := fail(ErrUnexpectedStatus, resp.StatusCode, nil)
		e.Message = envelopeMessage(respBody)
		return e
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		return fail(ErrNoData, resp.StatusCode, nil)
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		c.logger.Warn("backend response did not decode",
			"method", method, "route", ro.route, "error", err, "body", truncate(respBody))
		return fail(ErrDecoding, resp.StatusCode, err)
	}
	c.logger.Debug("backend request completed",
		"method", method, "route", ro.route, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// resolve concatenates base and endpoint and insists on an absolute URL.
func (c *Client) resolve(endpoint string) (string, error) {
	raw := c.baseURL + endpoint
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", &url.Error{Op: "parse", URL: raw, Err: errMissingHost}
	}
	return raw, nil
}

// passThroughEnvelope decodes a non-2xx body into out when it is a
// {success:false} business envelope, so callers see the server's message.
func passThroughEnvelope(body []byte, out any) bool {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return false
	}
	raw, ok := probe["success"]
	if !ok {
		return false
	}
	var success bool
	if err := json.Unmarshal(raw, &success); err != nil || success {
		return false
	}
	return json.Unmarshal(body, out) == nil
}

func envelopeMessage(body []byte) string {
	var env domain.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.Message
}

func routeOf(endpoint string) string {
	if i := strings.IndexByte(endpoint, '?'); i >= 0 {
		return endpoint[:i]
	}
	return endpoint
}

func truncate(body []byte) string {
	msg := string(body)
	if len(msg) > maxLoggedBody {
		msg = msg[:maxLoggedBody]
	}
	return msg
}
