// Package auth0 manages provider-side accounts for invited clients
// through the Auth0 Management API. Invited users get a throwaway
// password and set their own via a password-change ticket.
package auth0

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"soundwell/internal/config"
	"soundwell/internal/errors"
	"soundwell/ports"
)

// Client implements ports.IdentityProvider over the Management API.
type Client struct {
	cfg  config.Auth0Config
	http *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewClient builds a management client from the identity configuration.
func NewClient(cfg config.Auth0Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateUser registers the email with a random password. The client
// never learns this password; they set their own through the ticket.
func (c *Client) CreateUser(ctx context.Context, email string) (*ports.IdentityUser, error) {
	payload := map[string]string{
		"email":      email,
		"password":   randomPassword(),
		"connection": c.cfg.Connection,
	}

	var result struct {
		UserID string `json:"user_id"`
		Email  string `json:"email"`
	}
	if err := c.call(ctx, http.MethodPost, "/api/v2/users", payload, &result); err != nil {
		return nil, err
	}
	return &ports.IdentityUser{ID: result.UserID, Email: result.Email}, nil
}

// ChangePasswordTicket returns a single-use link letting the user pick
// their password.
func (c *Client) ChangePasswordTicket(ctx context.Context, email string) (string, error) {
	payload := map[string]string{
		"email":         email,
		"connection_id": c.cfg.ConnectionID,
	}

	var result struct {
		Ticket string `json:"ticket"`
	}
	if err := c.call(ctx, http.MethodPost, "/api/v2/tickets/password-change", payload, &result); err != nil {
		return "", err
	}
	return result.Ticket, nil
}

// call performs one authenticated Management API request.
func (c *Client) call(ctx context.Context, method, path string, payload, result interface{}) error {
	token, err := c.managementToken(ctx)
	if err != nil {
		return err
	}

	body := &bytes.Buffer{}
	if err := json.NewEncoder(body).Encode(payload); err != nil {
		return errors.Wrap(err, "failed to encode request")
	}

	req, err := http.NewRequestWithContext(ctx, method, "https://"+c.cfg.Domain+path, body)
	if err != nil {
		return errors.ExternalServiceError("auth0", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.ExternalServiceError("auth0", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.ExternalServiceError("auth0", fmt.Errorf("%s %s returned %d", method, path, resp.StatusCode))
	}
	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return errors.ExternalServiceError("auth0", err)
	}
	return nil
}

// managementToken returns a cached client-credentials token, refreshing
// it a minute before expiry.
func (c *Client) managementToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	payload := map[string]string{
		"grant_type":    "client_credentials",
		"client_id":     c.cfg.ClientID,
		"client_secret": c.cfg.ClientSecret,
		"audience":      "https://" + c.cfg.Domain + "/api/v2/",
	}
	body := &bytes.Buffer{}
	if err := json.NewEncoder(body).Encode(payload); err != nil {
		return "", errors.Wrap(err, "failed to encode token request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://"+c.cfg.Domain+"/oauth/token", body)
	if err != nil {
		return "", errors.ExternalServiceError("auth0", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.ExternalServiceError("auth0", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.ExternalServiceError("auth0", fmt.Errorf("token request returned %d", resp.StatusCode))
	}

	var token struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", errors.ExternalServiceError("auth0", err)
	}

	c.token = token.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn)*time.Second - time.Minute)
	return c.token, nil
}

func randomPassword() string {
	return "Aa1!" + uuid.NewString()
}

var _ ports.IdentityProvider = (*Client)(nil)
