package ai

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/lfpereira/converse/internal/utils"
)

// Client executes an Adapter's wire requests. It is the only place in the
// system that performs HTTP I/O for chat exchanges; adapters stay pure.
type Client struct {
	adapter    Adapter
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client, mainly for tests pointing
// at an httptest server.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger replaces the default logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient wraps adapter with the shared request engine.
func NewClient(adapter Adapter, opts ...ClientOption) *Client {
	client := &Client{
		adapter:    adapter,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Adapter returns the wrapped adapter.
func (c *Client) Adapter() Adapter {
	return c.adapter
}

// Send performs one synchronous exchange: build the wire request, POST it,
// classify any non-2xx answer, and decode the body into canonical form.
func (c *Client) Send(ctx context.Context, messages []Message, config *Config) (*ChatResponse, error) {
	provider := c.adapter.Profile().Name

	wire, err := c.adapter.BuildRequest(messages, config, false)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	status, body, err := utils.DoPost(ctx, c.httpClient, wire.URL, wire.Body, headerOptions(wire.Headers)...)
	if err != nil {
		return nil, NewNetworkError(provider, err)
	}

	if status < 200 || status >= 300 {
		classified := c.adapter.ClassifyError(status, body)
		c.logger.Warn("request rejected",
			"provider", provider,
			"status", status,
			"kind", string(classified.Kind))
		return nil, classified
	}

	response, err := c.adapter.ParseResponse(body)
	if err != nil {
		if classified, ok := AsError(err); ok {
			return nil, classified
		}
		return nil, NewMalformedResponse(provider, err.Error(), body)
	}

	c.logger.Debug("exchange complete",
		"provider", provider,
		"model", config.Model(),
		"duration", time.Since(start).Round(time.Millisecond))
	return response, nil
}

// Stream performs one streaming exchange. The returned ChatStream is lazy:
// no SSE payload is read until it is iterated, and the response body is
// closed when iteration stops for any reason. Connection and status failures
// are reported here; mid-stream failures surface through the iterator.
func (c *Client) Stream(ctx context.Context, messages []Message, config *Config) (*ChatStream, error) {
	provider := c.adapter.Profile().Name

	wire, err := c.adapter.BuildRequest(messages, config, true)
	if err != nil {
		return nil, err
	}

	response, err := utils.DoPostStream(ctx, c.httpClient, wire.URL, wire.Body, headerOptions(wire.Headers)...)
	if err != nil {
		var statusErr *utils.StatusError
		if errors.As(err, &statusErr) {
			classified := c.adapter.ClassifyError(statusErr.Status, statusErr.Body)
			c.logger.Warn("stream rejected",
				"provider", provider,
				"status", statusErr.Status,
				"kind", string(classified.Kind))
			return nil, classified
		}
		return nil, NewNetworkError(provider, err)
	}

	events := func(yield func(StreamEvent, error) bool) {
		defer utils.CloseWithLog(response.Body)
		scanner := utils.NewSSEScanner(response.Body)

		for {
			if ctx.Err() != nil {
				yield(StreamEvent{}, NewNetworkError(provider, ctx.Err()))
				return
			}

			payload, err := scanner.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(StreamEvent{}, NewNetworkError(provider, err))
				return
			}

			parsed, err := c.adapter.ParseStreamEvent([]byte(payload))
			if err != nil {
				if classified, ok := AsError(err); ok {
					yield(StreamEvent{}, classified)
				} else {
					yield(StreamEvent{}, NewMalformedResponse(provider, err.Error(), []byte(payload)))
				}
				return
			}

			for _, event := range parsed {
				terminal := event.Type == StreamDone || event.Type == StreamFailed
				if !yield(event, nil) {
					return
				}
				if terminal {
					return
				}
			}
		}
	}

	return NewChatStream(provider, events), nil
}

func headerOptions(headers []Header) []utils.HeaderOption {
	opts := make([]utils.HeaderOption, len(headers))
	for i, header := range headers {
		opts[i] = utils.HeaderOption{Key: header.Key, Value: header.Value}
	}
	return opts
}
