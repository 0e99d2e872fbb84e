// Package admin implements the admin portal: credential sign-in with a
// signed session cookie, dashboard statistics, and out-of-band user
// management. It is deliberately independent of the visitor session store.
package admin

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/bandhanmatch/bandhan-web/internal/domain"
	"github.com/bandhanmatch/bandhan-web/internal/upstream"
)

// SessionCookie is the key the signed admin session is stored under.
// Separate from the user token cookie on purpose.
const SessionCookie = "adminSession"

type AdminUseCase struct {
	api          *upstream.Client
	email        string
	passwordHash []byte
	jwtSecret    []byte
	sessionTTL   time.Duration
	limiter      *rate.Limiter
}

// NewAdminUseCase wires the admin flows. The password arrives as a bcrypt
// hash from configuration; the plaintext never lives in this process.
func NewAdminUseCase(api *upstream.Client, email, passwordHash, jwtSecret string, sessionTTL time.Duration) *AdminUseCase {
	return &AdminUseCase{
		api:          api,
		email:        email,
		passwordHash: []byte(passwordHash),
		jwtSecret:    []byte(jwtSecret),
		sessionTTL:   sessionTTL,
		limiter:      rate.NewLimiter(rate.Every(3*time.Second), 5),
	}
}

// Login verifies the configured admin credentials and issues a signed
// session token for the admin cookie. Attempts are rate limited.
func (uc *AdminUseCase) Login(email, password string) (string, error) {
	if !uc.limiter.Allow() {
		return "", domain.ErrTooManyAttempts
	}

	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(uc.email)) == 1
	passErr := bcrypt.CompareHashAndPassword(uc.passwordHash, []byte(password))
	if !emailOK || passErr != nil {
		return "", domain.ErrAdminCredentials
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(uc.sessionTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(uc.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign admin session: %w", err)
	}
	return signed, nil
}

// Verify checks a presented admin session token. Validation is local to
// this process; admitting an admin needs no server round trip.
func (uc *AdminUseCase) Verify(tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return uc.jwtSecret, nil
	})
	if err != nil {
		return fmt.Errorf("invalid admin session: %w", err)
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject != "admin" {
		return fmt.Errorf("invalid admin session")
	}
	return nil
}

// SessionTTL returns how long an issued admin session stays valid.
func (uc *AdminUseCase) SessionTTL() time.Duration { return uc.sessionTTL }

// Stats fetches the dashboard summary.
func (uc *AdminUseCase) Stats(ctx context.Context) (*domain.AdminStats, error) {
	return uc.api.Stats(ctx)
}

// DeleteUser issues exactly one delete call and then exactly one stats
// re-fetch, returning the refreshed summary. Confirmation is the caller's
// job; this method assumes it already happened.
func (uc *AdminUseCase) DeleteUser(ctx context.Context, id string) (*domain.AdminStats, error) {
	if err := uc.api.DeleteUser(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}
	stats, err := uc.api.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("user deleted but stats refresh failed: %w", err)
	}
	return stats, nil
}

// AddUserOutcome reports the two-step add-user flow. The record creation
// and the picture upload succeed or fail independently, and the message
// tells the admin which part to redo.
type AddUserOutcome struct {
	User          domain.User
	Message       string
	PictureFailed bool
}

// AddUser creates a user record and, when a picture was chosen, uploads it
// tagged with the new record's identifier.
func (uc *AdminUseCase) AddUser(ctx context.Context, in upstream.NewUserInput, picture *domain.PendingPicture) (*AddUserOutcome, error) {
	user, err := uc.api.CreateUser(ctx, in)
	if err != nil {
		return nil, err
	}

	out := &AddUserOutcome{User: *user, Message: "User added successfully!"}
	if picture == nil {
		return out, nil
	}

	if _, err := uc.api.UploadPicture(ctx, "", picture.Filename, picture.Data, user.ID); err != nil {
		out.PictureFailed = true
		out.Message = fmt.Sprintf("User added, but picture upload failed: %v", err)
		return out, nil
	}
	out.Message = "User and picture added successfully!"
	return out, nil
}
