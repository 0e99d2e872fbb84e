package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/bandhanmatch/bandhan-web/internal/domain"
	"github.com/bandhanmatch/bandhan-web/internal/upstream"
)

const flashCookie = "flash"

// Flash is a one-shot message carried across a redirect.
type Flash struct {
	Kind    string // "success" or "error"
	Message string
}

func setFlash(c *gin.Context, kind, message string) {
	c.SetCookie(flashCookie, url.QueryEscape(kind+"|"+message), 60, "/", "", false, true)
}

// popFlash reads and clears the pending flash message, if any.
func popFlash(c *gin.Context) *Flash {
	raw, err := c.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return nil
	}
	kind, message, ok := strings.Cut(decoded, "|")
	if !ok {
		return nil
	}
	return &Flash{Kind: kind, Message: message}
}

// formErrors flattens a binding failure into per-field messages, keyed by the
// form field names the templates render next to the inputs.
func formErrors(err error) map[string]string {
	out := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["form"] = "Invalid form submission"
		return out
	}
	for _, fe := range verrs {
		out[lowerFirst(fe.Field())] = messageFor(fe)
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Please enter a valid email address"
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "eqfield":
		return "Passwords do not match"
	case "gte":
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "oneof":
		return "Please choose one of the offered values"
	default:
		return "Invalid value"
	}
}

// apiErrors merges upstream field-level validation errors into per-field
// message form, falling back to a whole-form message.
func apiErrors(apiErr *upstream.APIError) map[string]string {
	out := make(map[string]string)
	for _, fe := range apiErr.Fields {
		out[fe.Param] = fe.Msg
	}
	if len(out) == 0 && apiErr.Message != "" {
		out["form"] = apiErr.Message
	}
	return out
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// pendingPicture extracts an optional uploaded image from the form. The
// file is buffered in memory so the multipart body can be rebuilt for the
// upstream call after the request body is gone.
func pendingPicture(c *gin.Context) (*domain.PendingPicture, error) {
	fh, err := c.FormFile(upstream.PictureField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read uploaded picture: %w", err)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded picture: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, f); err != nil {
		return nil, fmt.Errorf("failed to buffer uploaded picture: %w", err)
	}
	return &domain.PendingPicture{Filename: fh.Filename, Data: &buf}, nil
}

// failureMessage picks user-facing copy for a failed upstream call: the
// API's own message when it rejected the request, a transient-failure line
// otherwise.
func failureMessage(err error, fallback string) string {
	if apiErr := upstream.AsAPIError(err); apiErr != nil && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
