package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// HeaderOption is a single HTTP header to apply to an outbound request.
// Options are applied in order, so a later option can override an earlier one.
type HeaderOption struct {
	Key   string
	Value string
}

// maxResponseBodySize caps response body reads (10 MB). Enforced via
// io.LimitReader to prevent unbounded memory allocation from rogue responses.
const maxResponseBodySize int64 = 10 * 1024 * 1024

// DoPost performs a JSON POST request and returns the HTTP status code together
// with the raw response body. Only transport-level failures (request build,
// connection, context cancellation) are returned as errors; non-2xx statuses
// are the caller's problem, because what a 404 or 429 means depends on the
// provider that produced it.
func DoPost(ctx context.Context, client *http.Client, url string, body any, headers ...HeaderOption) (int, []byte, error) {
	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("error marshaling body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return 0, nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for _, header := range headers {
		req.Header.Set(header.Key, header.Value)
	}

	res, err := httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("error sending request: %w", err)
	}
	defer CloseWithLog(res.Body)

	respBody, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBodySize))
	if err != nil {
		return res.StatusCode, nil, fmt.Errorf("error reading response body: %w", err)
	}

	return res.StatusCode, respBody, nil
}

// CloseWithLog closes the given closer and logs a warning when closing fails.
// A close failure never overrides the primary result of the surrounding call.
func CloseWithLog(closer io.Closer) {
	if err := closer.Close(); err != nil {
		slog.Warn("failed to close response body", "error", err.Error())
	}
}
