// Package alpaca provides a client for the Alpaca trading API
package alpaca

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/wealthview/wealthview/internal/common"
	"github.com/wealthview/wealthview/internal/interfaces"
	"github.com/wealthview/wealthview/internal/models"
)

const (
	DefaultBaseURL   = "https://api.alpaca.markets"
	DefaultPaperURL  = "https://paper-api.alpaca.markets"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// DefaultEnvironments is the default key-prefix routing table. Paper trading
// keys start with "PK"; anything else routes to the live host.
func DefaultEnvironments() map[string]string {
	return map[string]string{"PK": DefaultPaperURL}
}

// Client implements the BrokerageClient interface
type Client struct {
	baseURL      string
	environments map[string]string
	httpClient   *http.Client
	logger       *common.Logger
	limiter      *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the fallback (live) base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithEnvironments sets the key-prefix routing table
func WithEnvironments(environments map[string]string) ClientOption {
	return func(c *Client) {
		if environments != nil {
			c.environments = environments
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Alpaca client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:      DefaultBaseURL,
		environments: DefaultEnvironments(),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// AuthError indicates the brokerage rejected the credential pair.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("Alpaca auth rejected: %s (status: %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("Alpaca auth rejected (status: %d)", e.StatusCode)
}

// UnavailableError indicates a non-auth upstream failure: non-2xx response,
// network error, or timeout. StatusCode is 0 when no response was received.
type UnavailableError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *UnavailableError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("Alpaca unavailable: %s (endpoint: %s)", e.Message, e.Endpoint)
	}
	return fmt.Sprintf("Alpaca API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// baseFor selects the base URL for a credential key using longest-prefix match
// against the environments table. One credential always maps to one host.
func (c *Client) baseFor(apiKey string) string {
	base := c.baseURL
	matched := -1
	for prefix, url := range c.environments {
		if strings.HasPrefix(apiKey, prefix) && len(prefix) > matched {
			base = url
			matched = len(prefix)
		}
	}
	return base
}

type upstreamError struct {
	Message string `json:"message"`
}

// get performs a rate-limited GET request against the environment selected by
// the credential key.
func (c *Client) get(ctx context.Context, apiKey, apiSecret, path string, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseFor(apiKey) + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("APCA-API-KEY-ID", apiKey)
	req.Header.Set("APCA-API-SECRET-KEY", apiSecret)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", path).Msg("Alpaca API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UnavailableError{Message: err.Error(), Endpoint: path}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		message := upstreamMessage(body, resp.StatusCode, path)

		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return &AuthError{StatusCode: resp.StatusCode, Message: message}
		}
		return &UnavailableError{StatusCode: resp.StatusCode, Message: message, Endpoint: path}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// upstreamMessage extracts the optional {"message": ...} field from an error
// body, falling back to a generic status description.
func upstreamMessage(body []byte, statusCode int, path string) string {
	var ue upstreamError
	if err := json.Unmarshal(body, &ue); err == nil && ue.Message != "" {
		return ue.Message
	}
	return fmt.Sprintf("Alpaca %s error %d", path, statusCode)
}

// GetAccount retrieves the raw account snapshot
func (c *Client) GetAccount(ctx context.Context, apiKey, apiSecret string) (*models.AlpacaAccount, error) {
	var account models.AlpacaAccount
	if err := c.get(ctx, apiKey, apiSecret, "/v2/account", &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetPositions retrieves the raw open positions in upstream order
func (c *Client) GetPositions(ctx context.Context, apiKey, apiSecret string) ([]models.AlpacaPosition, error) {
	var positions []models.AlpacaPosition
	if err := c.get(ctx, apiKey, apiSecret, "/v2/positions", &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

// GetPortfolio fetches account and positions concurrently. Both calls target
// the same environment for the credential. If either fails the whole fetch
// fails and the normalizer never sees partial data.
func (c *Client) GetPortfolio(ctx context.Context, apiKey, apiSecret string) (*models.AlpacaAccount, []models.AlpacaPosition, error) {
	var (
		account   *models.AlpacaAccount
		positions []models.AlpacaPosition
	)

	accountErr := make(chan error, 1)
	positionsErr := make(chan error, 1)

	go func() {
		var err error
		account, err = c.GetAccount(ctx, apiKey, apiSecret)
		accountErr <- err
	}()
	go func() {
		var err error
		positions, err = c.GetPositions(ctx, apiKey, apiSecret)
		positionsErr <- err
	}()

	if err := <-accountErr; err != nil {
		<-positionsErr
		return nil, nil, err
	}
	if err := <-positionsErr; err != nil {
		return nil, nil, err
	}

	return account, positions, nil
}

// Ensure Client implements BrokerageClient
var _ interfaces.BrokerageClient = (*Client)(nil)
