package client

import (
	"context"
	"net/http"

	"github.com/ncobase/accountdesk/structs"
)

// Login exchanges credentials for tokens
func (c *Client) Login(ctx context.Context, data structs.LoginData) (*structs.AuthResponse, error) {
	var out structs.AuthResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/login", body: data}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and signs it in
func (c *Client) Register(ctx context.Context, data structs.RegistrationData) (*structs.AuthResponse, error) {
	var out structs.AuthResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/register", body: data}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ForgotPassword requests a password reset mail
func (c *Client) ForgotPassword(ctx context.Context, data structs.ForgotPasswordData) (*structs.MessageResponse, error) {
	var out structs.MessageResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/forgot-password", body: data}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword changes the signed-in account's password
func (c *Client) ChangePassword(ctx context.Context, data structs.ChangePasswordData) (*structs.MessageResponse, error) {
	var out structs.MessageResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/change-password", body: data, auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh rotates the token pair
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*structs.AuthResponse, error) {
	var out structs.AuthResponse
	body := structs.RefreshRequest{RefreshToken: refreshToken}
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/refresh", body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes the refresh token
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	body := structs.RefreshRequest{RefreshToken: refreshToken}
	return c.do(ctx, request{method: http.MethodPost, path: "/auth/logout", body: body, auth: true}, nil)
}

// Profile fetches the signed-in identity
func (c *Client) Profile(ctx context.Context) (*structs.Identity, error) {
	var out structs.Identity
	if err := c.do(ctx, request{method: http.MethodGet, path: "/users/me", auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile saves the profile form
func (c *Client) UpdateProfile(ctx context.Context, data structs.ProfileData) (*structs.Identity, error) {
	var out structs.Identity
	if err := c.do(ctx, request{method: http.MethodPatch, path: "/users/me", body: data, auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAccount removes the signed-in account
func (c *Client) DeleteAccount(ctx context.Context, password string) error {
	body := structs.DeleteAccountData{Password: password}
	return c.do(ctx, request{method: http.MethodDelete, path: "/users/me", body: body, auth: true}, nil)
}
