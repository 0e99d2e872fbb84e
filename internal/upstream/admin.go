package upstream

import (
	"context"
	"net/http"

	"github.com/bandhanmatch/bandhan-web/internal/domain"
)

// NewUserInput is the out-of-band user creation payload for POST /admin/users.
type NewUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Gender   string `json:"gender"`
	Age      int    `json:"age"`
	Location string `json:"location,omitempty"`
	Religion string `json:"religion,omitempty"`
}

// CreateUser creates a user record out-of-band. Call through the admin
// client instance so the request carries the admin marker.
func (c *Client) CreateUser(ctx context.Context, in NewUserInput) (*domain.User, error) {
	body, err := jsonBody(in)
	if err != nil {
		return nil, err
	}
	env, err := c.do(ctx, request{method: http.MethodPost, path: "/admin/users", body: body})
	if err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, &APIError{Status: http.StatusCreated, Message: "upstream returned no user"}
	}
	return env.User, nil
}

// DeleteUser removes a user record via DELETE /admin/users/{id}.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	_, err := c.do(ctx, request{method: http.MethodDelete, path: "/admin/users/" + id})
	return err
}

// Stats fetches the dashboard summary and the recent-user list in one call.
func (c *Client) Stats(ctx context.Context) (*domain.AdminStats, error) {
	env, err := c.do(ctx, request{method: http.MethodGet, path: "/admin/stats"})
	if err != nil {
		return nil, err
	}
	stats := &domain.AdminStats{
		TotalUsers:  env.TotalUsers,
		RecentUsers: env.RecentUsers,
	}
	if stats.RecentUsers == nil {
		stats.RecentUsers = []domain.User{}
	}
	return stats, nil
}
