package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"greenpulse/internal/modules/emissions/types"
)

// Tagged failure kinds of a refresh fetch. Both are recoverable: the user
// retries manually, nothing else is torn down.
var (
	// ErrApplication: the response parsed but the backend reported
	// success=false.
	ErrApplication = errors.New("application error")
	// ErrTransport: the request or the response body never made it.
	ErrTransport = errors.New("transport error")
)

// Client fetches the refresh payload from a running greenpulse server.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchRefresh performs one GET /api/refresh-data round trip. Errors are
// tagged ErrTransport (network, non-2xx without a parseable body, decode
// failure) or ErrApplication (well-formed body with success=false).
func (c *Client) FetchRefresh(ctx context.Context) (*types.RefreshResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/refresh-data", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	var body types.RefreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrTransport, err)
	}
	if !body.Success {
		if body.Error != "" {
			return nil, fmt.Errorf("%w: %s", ErrApplication, body.Error)
		}
		return nil, ErrApplication
	}
	return &body, nil
}
