// Package resend provides a client for the Resend transactional email API
package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/wealthview/wealthview/internal/common"
	"github.com/wealthview/wealthview/internal/interfaces"
)

const (
	DefaultBaseURL   = "https://api.resend.com"
	DefaultFrom      = "Wealthview <onboarding@resend.dev>"
	DefaultTimeout   = 15 * time.Second
	DefaultRateLimit = 2 // requests per second
)

// Client implements the EmailClient interface
type Client struct {
	baseURL    string
	apiKey     string
	from       string
	appURL     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithFrom sets the sender address
func WithFrom(from string) ClientOption {
	return func(c *Client) {
		if from != "" {
			c.from = from
		}
	}
}

// WithAppURL sets the application URL used in email links
func WithAppURL(appURL string) ClientOption {
	return func(c *Client) {
		if appURL != "" {
			c.appURL = appURL
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Resend client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		from:    DefaultFrom,
		appURL:  "http://localhost:3000",
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

// APIError represents a Resend API error
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Resend API error (status: %d): %s", e.StatusCode, e.Body)
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendWelcome sends the post-signup welcome email.
func (c *Client) SendWelcome(ctx context.Context, to, name string) error {
	html := fmt.Sprintf(`
<div style="font-family:sans-serif;max-width:520px;margin:0 auto;padding:40px 32px;">
  <h1 style="font-size:24px;margin:0 0 12px;">Welcome, %s!</h1>
  <p style="font-size:15px;line-height:1.6;margin:0 0 24px;">
    Your account is ready. Start by connecting your first exchange to see your
    entire portfolio in one place.
  </p>
  <a href="%s/dashboard/exchanges"
     style="display:inline-block;font-weight:600;font-size:14px;padding:12px 24px;text-decoration:none;">
    Connect your first exchange</a>
  <p style="font-size:13px;margin:24px 0 0;">
    You're receiving this because you signed up for Wealthview.
  </p>
</div>`, name, c.appURL)

	return c.send(ctx, to, "Welcome to Wealthview!", html)
}

// send posts one email to the Resend API.
func (c *Client) send(ctx context.Context, to, subject, html string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	payload, err := json.Marshal(sendRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug().Str("to", to).Str("subject", subject).Msg("Resend email request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return nil
}

// Ensure Client implements EmailClient
var _ interfaces.EmailClient = (*Client)(nil)
