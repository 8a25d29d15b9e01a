package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody limits how much of a non-2xx body ends up in an error message.
const maxErrorBody = 512

type StatusError struct {
	Code int
	URL  string
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d for %q: %s", e.Code, e.URL, e.Body)
}

// GetJSON performs a GET request and decodes a 2xx JSON body into out.
func GetJSON(ctx context.Context, client *http.Client, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request for %q: %w", rawURL, err)
	}
	req.Header.Set("Accept", "application/json")
	return do(client, req, out)
}

// PostJSON encodes body as JSON, posts it and decodes a 2xx JSON body into out.
// An empty response body leaves out untouched.
func PostJSON(ctx context.Context, client *http.Client, rawURL string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request for %q: %w", rawURL, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request for %q: %w", rawURL, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return do(client, req, out)
}

func do(client *http.Client, req *http.Request, out any) error {
	rawURL := req.URL.String()
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request for %q: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Code: resp.StatusCode, URL: rawURL, Body: string(bytes.TrimSpace(snippet))}
	}
	if out == nil {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response for %q: %w", rawURL, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err = json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response for %q: %w", rawURL, err)
	}
	return nil
}
