package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ncobase/accountdesk/structs"
)

// ListUsers returns accounts matching filter
func (c *Client) ListUsers(ctx context.Context, filter structs.UserFilter) ([]*structs.Identity, error) {
	q := url.Values{}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.Role != "" {
		q.Set("role", string(filter.Role))
	}
	if filter.Status != "" {
		q.Set("status", string(filter.Status))
	}
	var out []*structs.Identity
	if err := c.do(ctx, request{method: http.MethodGet, path: "/admin/users", query: q, auth: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateUser adds an account
func (c *Client) CreateUser(ctx context.Context, body structs.CreateUserBody) (*structs.Identity, error) {
	var out structs.Identity
	if err := c.do(ctx, request{method: http.MethodPost, path: "/admin/users", body: body, auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser applies a partial update
func (c *Client) UpdateUser(ctx context.Context, id string, body structs.UpdateUserBody) (*structs.Identity, error) {
	var out structs.Identity
	if err := c.do(ctx, request{method: http.MethodPatch, path: "/admin/users/" + url.PathEscape(id), body: body, auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser removes an account
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/admin/users/" + url.PathEscape(id), auth: true}, nil)
}

// ToggleUserStatus flips an account's active flag
func (c *Client) ToggleUserStatus(ctx context.Context, id string) (*structs.Identity, error) {
	var out structs.Identity
	if err := c.do(ctx, request{method: http.MethodPatch, path: "/admin/users/" + url.PathEscape(id) + "/toggle-status", auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetUserPassword issues a temporary password
func (c *Client) ResetUserPassword(ctx context.Context, id string) (*structs.ResetPasswordResult, error) {
	var out structs.ResetPasswordResult
	if err := c.do(ctx, request{method: http.MethodPost, path: "/admin/users/" + url.PathEscape(id) + "/reset-password", auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Stats returns the admin dashboard counters
func (c *Client) Stats(ctx context.Context) (*structs.UserStats, error) {
	var out structs.UserStats
	if err := c.do(ctx, request{method: http.MethodGet, path: "/admin/stats", auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
