// Package session holds the per-visitor authentication state: the bearer
// token persisted under a fixed cookie key, and the resolved user record
// cached server-side. The token's presence alone never proves a user is
// authenticated; only a resolved user record does.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/bandhanmatch/bandhan-web/internal/domain"
)

// TokenCookie is the fixed key the session token is persisted under.
const TokenCookie = "authToken"

// SearchState is the last search the visitor ran: filter criteria plus the
// pagination cursor. Kept so a filter change can be detected and reset the
// cursor to the first page.
type SearchState struct {
	Filters domain.SearchFilters `json:"filters"`
	Page    int                  `json:"page"`
}

// Store persists session state keyed by token. Implementations must return
// domain.ErrSessionNotFound when nothing is stored under the key.
type Store interface {
	SaveUser(ctx context.Context, token string, u domain.User) error
	LoadUser(ctx context.Context, token string) (*domain.User, error)
	SaveSearch(ctx context.Context, token string, s SearchState) error
	LoadSearch(ctx context.Context, token string) (*SearchState, error)
	Delete(ctx context.Context, token string) error
}

// Manager creates per-request Session objects. It is constructor-injected
// wherever sessions are needed; there is no package-level singleton.
type Manager struct {
	store         Store
	secureCookies bool
	ttl           time.Duration
}

// NewManager creates a session manager backed by the given store.
func NewManager(store Store, secureCookies bool, ttl time.Duration) *Manager {
	return &Manager{store: store, secureCookies: secureCookies, ttl: ttl}
}

// Load builds the Session for one request. The token is read fresh from the
// cookie; the cached user, if any, is loaded from the store. A missing or
// unreadable cache entry is not an error: the session is simply unresolved.
func (m *Manager) Load(w http.ResponseWriter, r *http.Request) *Session {
	s := &Session{mgr: m, w: w, req: r}
	if c, err := r.Cookie(TokenCookie); err == nil {
		s.token = c.Value
	}
	if s.token != "" {
		if u, err := m.store.LoadUser(r.Context(), s.token); err == nil {
			s.user = u
		}
	}
	return s
}

// Session is one visitor's authentication state for the duration of one
// request. Mutations write the persistent cookie before updating any
// cached state.
type Session struct {
	mgr   *Manager
	w     http.ResponseWriter
	req   *http.Request
	token string
	user  *domain.User
}

// Token returns the stored bearer token, or "" when anonymous.
func (s *Session) Token() string { return s.token }

// User returns the cached user record, or nil while unresolved/anonymous.
func (s *Session) User() *domain.User { return s.user }

// IsAuthenticated reports whether a user record is currently cached, not
// merely whether a token exists.
func (s *Session) IsAuthenticated() bool { return s.user != nil }

// SetCredentials stores a freshly issued token and its user record. The
// cookie write happens first, then the cache.
func (s *Session) SetCredentials(ctx context.Context, token string, u domain.User) error {
	s.writeTokenCookie(token, int(s.mgr.ttl.Seconds()))
	s.token = token
	if err := s.mgr.store.SaveUser(ctx, token, u); err != nil {
		return err
	}
	s.user = &u
	return nil
}

// SetUser replaces the cached user record for the current token.
func (s *Session) SetUser(ctx context.Context, u domain.User) error {
	if s.token == "" {
		return domain.ErrNotAuthenticated
	}
	if err := s.mgr.store.SaveUser(ctx, s.token, u); err != nil {
		return err
	}
	s.user = &u
	return nil
}

// MergeUser merges partial fields into the cached user record only. No
// upstream call is made; callers must persist separately if they need the
// server to know.
func (s *Session) MergeUser(ctx context.Context, fields domain.ProfileFields) error {
	if s.user == nil {
		return domain.ErrNotAuthenticated
	}
	return s.SetUser(ctx, fields.Merge(*s.user))
}

// Clear drops the token and all cached state. Used for logout and for
// evicting a token the API has explicitly rejected.
func (s *Session) Clear(ctx context.Context) {
	s.writeTokenCookie("", -1)
	if s.token != "" {
		// best effort; an orphaned cache entry expires on its own
		_ = s.mgr.store.Delete(ctx, s.token)
	}
	s.token = ""
	s.user = nil
}

// SaveSearch remembers the visitor's current search state.
func (s *Session) SaveSearch(ctx context.Context, state SearchState) error {
	if s.token == "" {
		return domain.ErrNotAuthenticated
	}
	return s.mgr.store.SaveSearch(ctx, s.token, state)
}

// LastSearch returns the remembered search state, or nil if none.
func (s *Session) LastSearch(ctx context.Context) *SearchState {
	if s.token == "" {
		return nil
	}
	state, err := s.mgr.store.LoadSearch(ctx, s.token)
	if err != nil {
		return nil
	}
	return state
}

func (s *Session) writeTokenCookie(value string, maxAge int) {
	http.SetCookie(s.w, &http.Cookie{
		Name:     TokenCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.mgr.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// cacheKey digests the token so raw bearer tokens never appear in store keys.
func cacheKey(kind, token string) string {
	sum := sha256.Sum256([]byte(token))
	return "session:" + kind + ":" + hex.EncodeToString(sum[:])
}
