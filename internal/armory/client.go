// Package armory is a client for the armory artifact repository: URL
// resolution and the login endpoint that exchanges credentials for a
// short-lived access token.
package armory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/armory-tools/amr/internal/domain"
)

const loginPath = "/usercenter/v1/auth/login"

// Client talks to one armory repository.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// loginRequest is the wire shape of the login body.
type loginRequest struct {
	Account  string `json:"account"`
	Password string `json:"password"`
}

// loginResponse is the wire shape of a successful login.
type loginResponse struct {
	Status      int             `json:"status"`
	Message     string          `json:"message"`
	FieldErrors json.RawMessage `json:"field_errors,omitempty"`
	Data        loginData       `json:"data"`
}

type loginData struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	JTI          string `json:"jti"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// NewClient creates a client for the repository at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// BaseURL resolves the repository base URL (scheme://host) from a full
// download URL. URLs whose host is not an armory host yield
// domain.ErrNotArmoryURL; such downloads proceed anonymously.
func BaseURL(fullURL string) (string, error) {
	if !strings.Contains(fullURL, "armory") {
		return "", fmt.Errorf("%w: %s", domain.ErrNotArmoryURL, fullURL)
	}

	u, err := url.Parse(fullURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", fullURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid URL %q: missing scheme or host", fullURL)
	}

	return fmt.Sprintf("%s://%s", u.Scheme, u.Host), nil
}

// Login exchanges the credentials for an access token. A non-success
// status yields *domain.AuthError with the raw body; an unparseable
// success body or an empty token yields a domain.ErrMalformedResponse
// or domain.ErrEmptyToken wrapped error. The token is never persisted.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	loginURL := c.baseURL + loginPath

	body, err := json.Marshal(loginRequest{Account: username, Password: password})
	if err != nil {
		return "", fmt.Errorf("failed to encode login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("attempting login",
		zap.String("url", loginURL),
		zap.String("username", username))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read login response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &domain.AuthError{Status: resp.StatusCode, Body: string(raw)}
	}

	var login loginResponse
	if err := json.Unmarshal(raw, &login); err != nil {
		return "", fmt.Errorf("%w: failed to parse login response: %v (raw: %s)",
			domain.ErrMalformedResponse, err, raw)
	}

	if login.Data.AccessToken == "" {
		return "", domain.ErrEmptyToken
	}

	c.logger.Debug("obtained access token", zap.String("repository", c.baseURL))
	return login.Data.AccessToken, nil
}
