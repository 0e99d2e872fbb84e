// Package auth implements the session lifecycle: login, registration,
// logout, token resolution, and the picture/user-cache side effects that
// go with them.
package auth

import (
	"context"
	"fmt"

	"github.com/bandhanmatch/bandhan-web/internal/domain"
	"github.com/bandhanmatch/bandhan-web/internal/session"
	"github.com/bandhanmatch/bandhan-web/internal/upstream"
)

// Status is the outcome of resolving a stored token.
type Status int

const (
	// StatusUnresolved means resolution could not complete; the token may
	// still be good and the caller should offer a retry.
	StatusUnresolved Status = iota
	// StatusAnonymous means no valid session exists.
	StatusAnonymous
	// StatusAuthenticated means a user record is cached for the token.
	StatusAuthenticated
)

type AuthUseCase struct {
	api *upstream.Client
}

func NewAuthUseCase(api *upstream.Client) *AuthUseCase {
	return &AuthUseCase{api: api}
}

// Resolve turns a stored token into a cached user record.
// A token is evicted only when the API explicitly answers 401/403; a
// transient failure leaves the token in place and reports StatusUnresolved,
// so a flaky network never silently logs anyone out.
func (uc *AuthUseCase) Resolve(ctx context.Context, sess *session.Session) (Status, error) {
	if sess.IsAuthenticated() {
		return StatusAuthenticated, nil
	}
	if sess.Token() == "" {
		return StatusAnonymous, nil
	}

	user, err := uc.api.FetchMe(ctx, sess.Token())
	if err != nil {
		if upstream.IsUnauthorized(err) {
			sess.Clear(ctx)
			return StatusAnonymous, nil
		}
		return StatusUnresolved, fmt.Errorf("failed to resolve session: %w", err)
	}

	if err := sess.SetUser(ctx, *user); err != nil {
		return StatusUnresolved, fmt.Errorf("failed to cache user: %w", err)
	}
	return StatusAuthenticated, nil
}

// Login exchanges credentials for a token and caches the returned user.
// A rejected login surfaces as an *upstream.APIError with the server's
// message; the caller turns that into user-facing copy.
func (uc *AuthUseCase) Login(ctx context.Context, sess *session.Session, email, password string) (*domain.User, error) {
	creds, err := uc.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := sess.SetCredentials(ctx, creds.Token, creds.User); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return &creds.User, nil
}

// Logout clears the token and cached user synchronously. The server is not
// told; the token simply stops being presented.
func (uc *AuthUseCase) Logout(ctx context.Context, sess *session.Session) {
	sess.Clear(ctx)
}

// SignupOutcome reports a registration, including whether an optional
// picture upload succeeded, so the two can be messaged separately.
type SignupOutcome struct {
	User          domain.User
	Message       string
	PictureFailed bool
}

// SignUp registers the user and, if a picture was selected, uploads it with
// the fresh token. A failed upload does not undo the registration: the
// visitor proceeds with an explicit "upload later" message instead of a
// generic success.
func (uc *AuthUseCase) SignUp(ctx context.Context, sess *session.Session, in upstream.RegisterInput, picture *domain.PendingPicture) (*SignupOutcome, error) {
	creds, err := uc.api.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := sess.SetCredentials(ctx, creds.Token, creds.User); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	out := &SignupOutcome{User: creds.User, Message: "Registration successful!"}
	if picture == nil {
		return out, nil
	}

	upload, err := uc.api.UploadPicture(ctx, creds.Token, picture.Filename, picture.Data, "")
	if err != nil {
		out.PictureFailed = true
		out.Message = fmt.Sprintf(
			"Registration succeeded, but picture upload failed: %v. You can upload later from profile.", err)
		return out, nil
	}

	out.Message = "Registration and picture upload successful!"
	uc.applyUpload(ctx, sess, upload, &out.User)
	return out, nil
}

// UploadProfilePicture posts the picture and, on success, updates the
// cached user's picture path. No retry on failure.
func (uc *AuthUseCase) UploadProfilePicture(ctx context.Context, sess *session.Session, picture domain.PendingPicture) (string, error) {
	if !sess.IsAuthenticated() {
		return "", domain.ErrNotAuthenticated
	}
	upload, err := uc.api.UploadPicture(ctx, sess.Token(), picture.Filename, picture.Data, "")
	if err != nil {
		return "", err
	}
	uc.applyUpload(ctx, sess, upload, nil)
	return upload.FilePath, nil
}

// UpdateUserData merges fields into the cached user object only. Callers
// that need the server to know must persist separately.
func (uc *AuthUseCase) UpdateUserData(ctx context.Context, sess *session.Session, fields domain.ProfileFields) error {
	return sess.MergeUser(ctx, fields)
}

func (uc *AuthUseCase) applyUpload(ctx context.Context, sess *session.Session, upload *upstream.Upload, mirror *domain.User) {
	if upload.User != nil {
		_ = sess.SetUser(ctx, *upload.User)
		if mirror != nil {
			*mirror = *upload.User
		}
		return
	}
	if u := sess.User(); u != nil && upload.FilePath != "" {
		updated := *u
		updated.ProfilePicture = upload.FilePath
		_ = sess.SetUser(ctx, updated)
		if mirror != nil {
			*mirror = updated
		}
	}
}
