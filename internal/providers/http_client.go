package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"fleetops/dashboard/internal/common"
	"fleetops/dashboard/internal/constants"
)

// jsonClient is the request plumbing shared by the geocoding and routing providers.
type jsonClient struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: common.NewLoggingTransport(http.DefaultTransport),
	}
}

// doGET performs a GET request and decodes the JSON body into result
func (c *jsonClient) doGET(ctx context.Context, endpoint string, headers http.Header, result interface{}) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+endpoint, nil)
	if err != nil {
		return 0, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to create request",
			Err:     err,
		}
	}
	return c.do(req, endpoint, headers, result)
}

// doPost performs a POST request with a JSON body
func (c *jsonClient) doPost(ctx context.Context, endpoint string, headers http.Header, payload interface{}, result interface{}) (int, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return 0, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "Failed to marshal request body",
			Err:     err,
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+endpoint, bytes.NewReader(payloadBytes))
	if err != nil {
		return 0, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to create request",
			Err:     err,
		}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, endpoint, headers, result)
}

func (c *jsonClient) do(req *http.Request, endpoint string, headers http.Header, result interface{}) (int, error) {
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return 0, transportError(err)
	}
	defer resp.Body.Close()

	// Read body for potential error messages
	bodyBytes, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return resp.StatusCode, transportError(readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, buildHTTPError(resp.StatusCode, endpoint, string(bodyBytes))
	}

	if err := json.Unmarshal(bodyBytes, result); err != nil {
		return resp.StatusCode, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "Failed to decode response",
			Details: string(bodyBytes),
			Err:     err,
		}
	}

	return resp.StatusCode, nil
}
