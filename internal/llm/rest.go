package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultHTTPTimeout = 120 * time.Second

type restOptions struct {
	baseURL string
	client  *http.Client
}

// RESTOption configures the REST-backed completers.
type RESTOption func(*restOptions)

// WithBaseURL overrides the provider endpoint, e.g. for a proxy or tests.
func WithBaseURL(u string) RESTOption {
	return func(o *restOptions) { o.baseURL = u }
}

func WithHTTPClient(c *http.Client) RESTOption {
	return func(o *restOptions) { o.client = c }
}

func applyRESTOptions(defaultURL string, opts []RESTOption) restOptions {
	o := restOptions{baseURL: defaultURL}
	for _, opt := range opts {
		opt(&o)
	}
	if o.client == nil {
		o.client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return o
}

// postJSON sends body to url and decodes a 200 response into out. Non-200
// responses become *TransportError.
func postJSON(ctx context.Context, client *http.Client, provider, url string, headers map[string]string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &TransportError{Provider: provider, Err: fmt.Errorf("sending request: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Provider: provider, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return statusError(provider, resp.StatusCode, respBody)
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &TransportError{Provider: provider, StatusCode: resp.StatusCode, Err: fmt.Errorf("parsing response envelope: %w", err)}
	}
	return nil
}
