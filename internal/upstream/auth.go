package upstream

import (
	"context"
	"net/http"

	"github.com/bandhanmatch/bandhan-web/internal/domain"
)

// Credentials is the payload of a successful login or registration.
type Credentials struct {
	Token string
	User  domain.User
}

// RegisterInput is the registration payload sent to POST /auth/register.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Gender   string `json:"gender"`
	Age      int    `json:"age"`
	Location string `json:"location,omitempty"`
	Religion string `json:"religion,omitempty"`
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login posts credentials to POST /auth/login. A rejected login comes back
// as an *APIError carrying the upstream message; the caller decides how to
// surface it.
func (c *Client) Login(ctx context.Context, email, password string) (*Credentials, error) {
	body, err := jsonBody(loginInput{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	env, err := c.do(ctx, request{method: http.MethodPost, path: "/auth/login", body: body})
	if err != nil {
		return nil, err
	}
	return credentialsFrom(env)
}

// Register posts the registration payload to POST /auth/register.
// Field-level validation failures arrive as APIError.Fields.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*Credentials, error) {
	body, err := jsonBody(in)
	if err != nil {
		return nil, err
	}
	env, err := c.do(ctx, request{method: http.MethodPost, path: "/auth/register", body: body})
	if err != nil {
		return nil, err
	}
	return credentialsFrom(env)
}

func credentialsFrom(env *envelope) (*Credentials, error) {
	if env.Token == "" || env.User == nil {
		return nil, &APIError{Status: http.StatusOK, Message: "upstream returned no credentials"}
	}
	return &Credentials{Token: env.Token, User: *env.User}, nil
}
