package backend

import (
	"context"       // Request scoping
	"encoding/json" // Login response shapes
	"fmt"           // Error wrapping
	"net/http"      // HTTP methods
	"strings"       // Trimming

	"royal_site/internal/domain" // Users
)

// AuthService is the identity endpoints of the backend
type AuthService interface {
	Login(ctx context.Context, email, password string) (LoginResult, error)
	Signup(ctx context.Context, name, email, password string) error
}

var _ AuthService = (*Client)(nil)

// LoginResult is what a successful login yields
type LoginResult struct {
	User  domain.User // Logged in user
	Token string      // Backend token, may be empty
}

// Login posts credentials (POST /userlogin). Any 2xx is a success; the user is
// read from "user" or, when absent, from the body itself.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var raw json.RawMessage
	if err := c.do(ctx, "auth.login", http.MethodPost, "/userlogin", body, &raw); err != nil {
		return LoginResult{}, err
	}

	var envelope struct {
		User  json.RawMessage `json:"user"`
		Token string          `json:"token"`
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return LoginResult{}, fmt.Errorf("auth.login: decode response: %w", err)
		}
	}
	userJSON := envelope.User
	if len(userJSON) == 0 || string(userJSON) == "null" {
		userJSON = raw
	}

	var user domain.User
	if len(userJSON) > 0 {
		if err := json.Unmarshal(userJSON, &user); err != nil {
			return LoginResult{}, fmt.Errorf("auth.login: decode user: %w", err)
		}
	}
	if strings.TrimSpace(user.Email) == "" {
		user.Email = email // Fall back to the submitted email
	}
	return LoginResult{User: user, Token: envelope.Token}, nil
}

// Signup creates an account (POST /userssignup)
func (c *Client) Signup(ctx context.Context, name, email, password string) error {
	body := map[string]string{"name": name, "email": email, "password": password}
	return c.do(ctx, "auth.signup", http.MethodPost, "/userssignup", body, nil)
}
