package cortex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL points at the public Solder Cortex API.
const DefaultBaseURL = "http://76.13.193.103/api"

// Config drives cortex client behaviour.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// ConvictionScore summarizes a wallet's cross-domain on-chain activity.
type ConvictionScore struct {
	Wallet                   string  `json:"wallet"`
	Score                    float64 `json:"score"`
	DefiActivity             float64 `json:"defi_activity"`
	PredictionMarketActivity float64 `json:"prediction_market_activity"`
	CrossDomainCorrelation   float64 `json:"cross_domain_correlation"`
}

// TransportError reports that the cortex endpoint could not be reached.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("Request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError reports a non-success HTTP status from the cortex endpoint.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error: %d %s", e.Code, http.StatusText(e.Code))
}

// DecodeError reports a response body that did not match the expected shape.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("Parse error: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Client fetches conviction scores from the cortex API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient constructs a cortex client, applying defaults where configuration is empty.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// BaseURL reports the resolved endpoint base.
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL
}

// GetWalletConviction fetches the conviction score for the supplied wallet.
// Failures are one of *TransportError, *StatusError or *DecodeError.
func (c *Client) GetWalletConviction(ctx context.Context, wallet string) (ConvictionScore, error) {
	if c == nil {
		return ConvictionScore{}, &TransportError{Err: errors.New("cortex client is nil")}
	}

	endpoint := fmt.Sprintf("%s/conviction/%s", c.baseURL, url.PathEscape(strings.TrimSpace(wallet)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ConvictionScore{}, &TransportError{Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ConvictionScore{}, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return ConvictionScore{}, &StatusError{Code: resp.StatusCode}
	}

	var score ConvictionScore
	if err := json.NewDecoder(resp.Body).Decode(&score); err != nil {
		return ConvictionScore{}, &DecodeError{Err: err}
	}
	return score, nil
}
