package middleware_test

import (
	"context"
	"html/template"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bandhanmatch/bandhan-web/internal/domain"
	"github.com/bandhanmatch/bandhan-web/internal/delivery/http/middleware"
	"github.com/bandhanmatch/bandhan-web/internal/session"
	"github.com/bandhanmatch/bandhan-web/internal/upstream"
	"github.com/bandhanmatch/bandhan-web/internal/usecase/admin"
	"github.com/bandhanmatch/bandhan-web/internal/usecase/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type upstreamStub struct {
	srv      *httptest.Server
	requests atomic.Int64
}

func newUpstreamStub(t *testing.T, status int, body string) *upstreamStub {
	t.Helper()
	s := &upstreamStub{}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(s.srv.Close)
	return s
}

// userGate builds a gin engine with the session and user middlewares in
// front of a single protected route.
func userGate(api *upstream.Client, mgr *session.Manager) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New("resolving.tmpl").Parse(`retry {{.RetryPath}}`)))
	sessions := middleware.NewSessionMiddleware(mgr)
	authMW := middleware.NewAuthMiddleware(auth.NewAuthUseCase(api))
	r.GET("/search", sessions.Load(), authMW.RequireUser(), func(c *gin.Context) {
		c.String(http.StatusOK, "results")
	})
	return r
}

func TestRequireUser_RedirectsAnonymousToLogin(t *testing.T) {
	stub := newUpstreamStub(t, http.StatusOK, `{"success":true}`)
	mgr := session.NewManager(session.NewMemoryStore(), false, time.Hour)
	r := userGate(upstream.New(stub.srv.URL, 2*time.Second), mgr)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/search", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Zero(t, stub.requests.Load(), "an anonymous visitor needs no upstream call")
}

func TestRequireUser_AdmitsCachedUser(t *testing.T) {
	stub := newUpstreamStub(t, http.StatusOK, `{"success":true}`)
	mgr := session.NewManager(session.NewMemoryStore(), false, time.Hour)

	seed := mgr.Load(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, seed.SetCredentials(context.Background(), "tok-1", domain.User{ID: "u1"}))

	r := userGate(upstream.New(stub.srv.URL, 2*time.Second), mgr)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	req.AddCookie(&http.Cookie{Name: session.TokenCookie, Value: "tok-1"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "results", w.Body.String())
	assert.Zero(t, stub.requests.Load())
}

func TestRequireUser_ResolvesTokenThenAdmits(t *testing.T) {
	stub := newUpstreamStub(t, http.StatusOK, `{"success":true,"user":{"_id":"u1","name":"Asha"}}`)
	mgr := session.NewManager(session.NewMemoryStore(), false, time.Hour)
	r := userGate(upstream.New(stub.srv.URL, 2*time.Second), mgr)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	req.AddCookie(&http.Cookie{Name: session.TokenCookie, Value: "tok-1"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), stub.requests.Load())
}

func TestRequireUser_RejectedTokenRedirects(t *testing.T) {
	stub := newUpstreamStub(t, http.StatusUnauthorized, `{"success":false,"message":"Unauthorized"}`)
	mgr := session.NewManager(session.NewMemoryStore(), false, time.Hour)
	r := userGate(upstream.New(stub.srv.URL, 2*time.Second), mgr)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	req.AddCookie(&http.Cookie{Name: session.TokenCookie, Value: "stale"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRequireUser_TransientFailureRendersRetry(t *testing.T) {
	stub := newUpstreamStub(t, http.StatusInternalServerError, `{"success":false,"message":"boom"}`)
	mgr := session.NewManager(session.NewMemoryStore(), false, time.Hour)
	r := userGate(upstream.New(stub.srv.URL, 2*time.Second), mgr)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/search?page=2", nil)
	req.AddCookie(&http.Cookie{Name: session.TokenCookie, Value: "tok-1"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "/search?page=2")
}

func adminGate(t *testing.T) (*gin.Engine, *admin.AdminUseCase) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	uc := admin.NewAdminUseCase(nil, "admin@example.com", string(hash),
		"0123456789abcdef0123456789abcdef", time.Hour)

	r := gin.New()
	adminMW := middleware.NewAdminMiddleware(uc)
	r.GET("/admin/dashboard", adminMW.RequireAdmin(), func(c *gin.Context) {
		c.String(http.StatusOK, "dashboard")
	})
	return r, uc
}

func TestRequireAdmin_RedirectsWithoutCookie(t *testing.T) {
	r, _ := adminGate(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))
}

func TestRequireAdmin_RejectsForgedCookie(t *testing.T) {
	r, _ := adminGate(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: admin.SessionCookie, Value: "forged"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))
}

func TestRequireAdmin_AdmitsSignedSessionLocally(t *testing.T) {
	// the usecase carries no upstream client at all, so admission happening
	// proves no server round trip is involved
	r, uc := adminGate(t)
	token, err := uc.Login("admin@example.com", "secret")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: admin.SessionCookie, Value: token})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dashboard", w.Body.String())
}
