package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bandhanmatch/bandhan-web/internal/domain"
)

// FetchMe resolves the user record behind a stored token via
// GET /profiles/me. An explicit 401/403 means the token is no longer valid;
// any other failure is transient and says nothing about the token.
func (c *Client) FetchMe(ctx context.Context, token string) (*domain.User, error) {
	env, err := c.do(ctx, request{method: http.MethodGet, path: "/profiles/me", token: token})
	if err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, &APIError{Status: http.StatusOK, Message: "upstream returned no user"}
	}
	return env.User, nil
}

// UpdateMe persists profile text edits via PUT /profiles/me and returns the
// server's view of the record.
func (c *Client) UpdateMe(ctx context.Context, token string, fields domain.ProfileFields) (*domain.User, error) {
	body, err := jsonBody(fields)
	if err != nil {
		return nil, err
	}
	env, err := c.do(ctx, request{method: http.MethodPut, path: "/profiles/me", token: token, body: body})
	if err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, &APIError{Status: http.StatusOK, Message: "upstream returned no user"}
	}
	return env.User, nil
}

// Upload is the payload of a successful picture upload.
type Upload struct {
	FilePath string
	User     *domain.User
}

// UploadPicture posts a profile picture as multipart form data to
// POST /profiles/me/upload-picture. When forUserID is set (admin add-user
// flow), the picture is tagged with that record's identifier instead of the
// token owner's. The multipart writer supplies its own Content-Type, so the
// JSON default must not apply here.
func (c *Client) UploadPicture(ctx context.Context, token, filename string, file io.Reader, forUserID string) (*Upload, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile(PictureField, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read picture: %w", err)
	}
	if forUserID != "" {
		if err := w.WriteField("userId", forUserID); err != nil {
			return nil, fmt.Errorf("failed to build multipart body: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	env, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/profiles/me/upload-picture",
		token:       token,
		body:        &buf,
		contentType: w.FormDataContentType(),
	})
	if err != nil {
		return nil, err
	}
	return &Upload{FilePath: env.FilePath, User: env.User}, nil
}

// Search fetches one page of matching profiles from GET /profiles/search.
// Only active filters are transmitted; blank or zero values are elided so
// the server sees nothing but real constraints.
func (c *Client) Search(ctx context.Context, token string, filters domain.SearchFilters, page, limit int) (*domain.SearchPage, error) {
	q := url.Values{}
	if filters.Gender != "" {
		q.Set("gender", filters.Gender)
	}
	if filters.MinAge > 0 {
		q.Set("minAge", strconv.Itoa(filters.MinAge))
	}
	if filters.MaxAge > 0 {
		q.Set("maxAge", strconv.Itoa(filters.MaxAge))
	}
	if filters.Location != "" {
		q.Set("location", filters.Location)
	}
	if filters.Religion != "" {
		q.Set("religion", filters.Religion)
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	env, err := c.do(ctx, request{method: http.MethodGet, path: "/profiles/search", query: q, token: token})
	if err != nil {
		return nil, err
	}

	sp := &domain.SearchPage{
		Results:    env.Results,
		Total:      env.Total,
		Page:       env.Page,
		Limit:      env.Limit,
		TotalPages: env.TotalPages,
	}
	if sp.Results == nil {
		sp.Results = []domain.User{}
	}
	if sp.Page == 0 {
		sp.Page = page
	}
	if sp.Limit == 0 {
		sp.Limit = limit
	}
	if sp.TotalPages == 0 {
		sp.TotalPages = 1
	}
	return sp, nil
}
