package captcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/distributeaid/shipment-tracker/pkg/config"
	pkgerrors "github.com/distributeaid/shipment-tracker/pkg/errors"
)

const (
	defaultVerifyURL            = "https://hcaptcha.com/siteverify"
	defaultTimeout              = 5 * time.Second
	responseBodyReadLimit int64 = 1024
)

var errSecretRequired = errors.New("hcaptcha secret is required")

// Verifier checks a CAPTCHA response token submitted by the browser.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

// Client calls the hCaptcha siteverify endpoint.
type Client struct {
	httpClient *http.Client
	verifyURL  string
	secret     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithVerifyURL overrides the siteverify endpoint.
func WithVerifyURL(verifyURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(verifyURL); trimmed != "" {
			c.verifyURL = trimmed
		}
	}
}

// NewClient builds an hCaptcha client for the given secret.
func NewClient(secret string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return nil, errSecretRequired
	}
	client := &Client{
		secret:     trimmed,
		verifyURL:  defaultVerifyURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// NewFromConfig returns the hCaptcha client, or a verifier that accepts
// every token when CAPTCHA checks are disabled.
func NewFromConfig(cfg config.CaptchaConfig) (Verifier, error) {
	if !cfg.Enabled {
		return Disabled{}, nil
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return NewClient(cfg.Secret,
		WithVerifyURL(cfg.VerifyURL),
		WithHTTPClient(&http.Client{Timeout: timeout}),
	)
}

// Verify returns a validation error when hCaptcha rejects the token.
func (c *Client) Verify(ctx context.Context, token, remoteIP string) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "captcha client not configured")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "captcha token is required")
	}

	form := url.Values{}
	form.Set("secret", c.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build captcha request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute captcha request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "captcha request failed")
	}

	var apiResp struct {
		Success    bool     `json:"success"`
		ErrorCodes []string `json:"error-codes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode captcha response")
	}
	if !apiResp.Success {
		return pkgerrors.New(pkgerrors.CodeValidation, "captcha verification failed").
			WithDetails(map[string]any{"captchaToken": apiResp.ErrorCodes})
	}
	return nil
}

// Disabled accepts every token. Used in development and tests.
type Disabled struct{}

func (Disabled) Verify(context.Context, string, string) error { return nil }
