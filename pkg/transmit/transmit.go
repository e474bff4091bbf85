package transmit

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// DefaultContentType is the content type declared when none is configured.
const DefaultContentType = "application/json"

// maxResultBody caps how much of the response body is retained in a Result.
const maxResultBody = 1 << 20

// Config holds configuration options for a Transmitter.
type Config struct {
	// ContentType is the Content-Type header declared on outgoing requests.
	// Default: "application/json".
	ContentType string

	// Client is the HTTP client used to perform requests. Any timeout policy
	// lives here; the transmitter itself imposes none.
	// Default: a plain http.Client.
	Client *http.Client

	// Header holds additional headers applied to every request.
	Header http.Header

	// Logger receives request lifecycle events.
	Logger zerolog.Logger
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		ContentType: DefaultContentType,
		Client:      &http.Client{},
		Logger:      zerolog.Nop(),
	}
}

// Result describes the terminal outcome of one streamed request.
type Result struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int

	// Status is the HTTP status line of the response.
	Status string

	// Header holds the response headers.
	Header http.Header

	// Body holds the response body, truncated to 1MB.
	Body []byte

	// Duration is the time from request start to response drain.
	Duration time.Duration
}

// Transmitter issues HTTP requests whose bodies are produced lazily while
// the request is in flight. Bodies of unknown length are framed by the
// transport with chunked transfer encoding; the transmitter controls only
// chunk content and order, never the wire framing.
type Transmitter struct {
	config Config
}

// New creates a Transmitter with default configuration.
func New() *Transmitter {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a Transmitter with the specified configuration.
func NewWithConfig(config Config) *Transmitter {
	if config.ContentType == "" {
		config.ContentType = DefaultContentType
	}
	if config.Client == nil {
		config.Client = &http.Client{}
	}
	return &Transmitter{config: config}
}

// Post streams body as the request body of a POST to url and drives it to
// completion. It surfaces exactly one terminal outcome: a Result once a
// response arrives, or the transport error. The body is closed by the
// transport in either case, which propagates cancellation upstream. No
// retries are attempted.
func (t *Transmitter) Post(ctx context.Context, url string, body io.Reader) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("transmit: build request: %w", err)
	}
	for k, vs := range t.config.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", t.config.ContentType)

	start := time.Now()
	t.config.Logger.Debug().Str("url", url).Str("content_type", t.config.ContentType).Msg("streaming request started")

	resp, err := t.config.Client.Do(req)
	if err != nil {
		t.config.Logger.Error().Err(err).Str("url", url).Msg("streaming request failed")
		return nil, fmt.Errorf("transmit: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResultBody))
	if err != nil {
		t.config.Logger.Error().Err(err).Str("url", url).Msg("reading response failed")
		return nil, fmt.Errorf("transmit: read response: %w", err)
	}

	result := &Result{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       respBody,
		Duration:   time.Since(start),
	}

	t.config.Logger.Info().
		Str("url", url).
		Int("status", result.StatusCode).
		Dur("duration", result.Duration).
		Msg("streaming request completed")

	return result, nil
}
