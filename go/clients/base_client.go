package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Observer is notified once per completed request. status is 0 when the
// request never produced a response.
type Observer func(method, endpoint string, status int, duration time.Duration, err error)

type BaseClient struct {
	baseURL  string
	client   *http.Client
	headers  map[string]string
	observer Observer
}

func NewBaseClient(baseURL string) *BaseClient {
	return &BaseClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		headers: map[string]string{
			"Accept": "application/json",
		},
	}
}

// SetTimeout bounds every request. Zero disables the timeout.
func (c *BaseClient) SetTimeout(timeout time.Duration) {
	c.client.Timeout = timeout
}

func (c *BaseClient) SetObserver(observer Observer) {
	c.observer = observer
}

// MakeRequest sends a request and returns the raw body of a 2xx response.
// Failures are either *TransportError or *HTTPError.
func (c *BaseClient) MakeRequest(ctx context.Context, method, endpoint string, body io.Reader) ([]byte, error) {
	url := c.baseURL + endpoint
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log.Debug().Str("method", method).Str("url", url).Msg("api request")

	resp, err := c.client.Do(req)
	if err != nil {
		terr := &TransportError{Method: method, URL: url, Err: err}
		c.observe(method, endpoint, 0, start, terr)
		return nil, terr
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		terr := &TransportError{Method: method, URL: url, Err: fmt.Errorf("failed to read response body: %w", err)}
		c.observe(method, endpoint, resp.StatusCode, start, terr)
		return nil, terr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		herr := &HTTPError{Method: method, URL: url, StatusCode: resp.StatusCode, Body: string(responseBody)}
		c.observe(method, endpoint, resp.StatusCode, start, herr)
		return nil, herr
	}

	log.Debug().
		Str("method", method).
		Str("url", url).
		Int("status", resp.StatusCode).
		Int("bytes", len(responseBody)).
		Msg("api response")

	c.observe(method, endpoint, resp.StatusCode, start, nil)
	return responseBody, nil
}

func (c *BaseClient) observe(method, endpoint string, status int, start time.Time, err error) {
	if err != nil {
		log.Debug().Err(err).Str("method", method).Str("endpoint", endpoint).Msg("api request failed")
	}
	if c.observer != nil {
		c.observer(method, endpoint, status, time.Since(start), err)
	}
}

func (c *BaseClient) Get(ctx context.Context, endpoint string) ([]byte, error) {
	return c.MakeRequest(ctx, http.MethodGet, endpoint, nil)
}

func (c *BaseClient) Patch(ctx context.Context, endpoint string, body io.Reader) ([]byte, error) {
	return c.MakeRequest(ctx, http.MethodPatch, endpoint, body)
}

// PatchJSON marshals payload and sends it as a PATCH body.
func (c *BaseClient) PatchJSON(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	log.Debug().Str("endpoint", endpoint).RawJSON("payload", data).Msg("api request payload")
	return c.Patch(ctx, endpoint, bytes.NewReader(data))
}
