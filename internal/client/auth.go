package client

import (
	"context"
	"log/slog"
)

// User is the authenticated account as the backend reports it.
type User struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	IsVerified bool   `json:"is_verified"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register creates a new account and returns the backend's message.
func (c *Client) Register(ctx context.Context, email, password string) (string, error) {
	resp := messageResponse{}
	req := credentialsRequest{Email: email, Password: password}
	if err := c.postJSON(ctx, "/api/auth/register", req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Login authenticates and persists the bearer token for later requests.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	resp := LoginResponse{}
	req := credentialsRequest{Email: email, Password: password}
	if err := c.postJSON(ctx, "/api/auth/login", req, &resp); err != nil {
		return nil, err
	}
	c.Store.SetToken(resp.AccessToken)
	slog.Info("Logged in", slog.String("email", resp.User.Email))
	return &resp, nil
}

// Logout drops the persisted bearer token. Local only, there is no
// server-side session to end.
func (c *Client) Logout() {
	c.Store.ClearToken()
}

// ForgotPassword requests a password recovery email.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	resp := messageResponse{}
	req := struct {
		Email string `json:"email"`
	}{Email: email}
	if err := c.postJSON(ctx, "/api/auth/forgot-password", req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// ResetPassword sets a new password using a recovery token.
func (c *Client) ResetPassword(ctx context.Context, token, password string) (string, error) {
	resp := messageResponse{}
	req := struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}{Token: token, Password: password}
	if err := c.postJSON(ctx, "/api/auth/reset-password", req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// VerifyEmail confirms an account using the emailed token.
func (c *Client) VerifyEmail(ctx context.Context, token string) (string, error) {
	resp := messageResponse{}
	req := struct {
		Token string `json:"token"`
	}{Token: token}
	if err := c.postJSON(ctx, "/api/auth/verify-email", req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Me returns the account behind the persisted bearer token.
func (c *Client) Me(ctx context.Context) (*User, error) {
	user := User{}
	if err := c.getJSON(ctx, "/api/auth/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}
