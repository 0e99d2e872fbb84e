package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bandhanmatch/bandhan-web/internal/domain"
	"github.com/bandhanmatch/bandhan-web/internal/session"
	"github.com/bandhanmatch/bandhan-web/internal/upstream"
	"github.com/bandhanmatch/bandhan-web/internal/usecase/auth"
)

// fakeAPI is an httptest-backed upstream that counts every request it sees.
type fakeAPI struct {
	srv      *httptest.Server
	requests atomic.Int64
}

func newFakeAPI(t *testing.T, handler http.HandlerFunc) *fakeAPI {
	t.Helper()
	f := &fakeAPI{}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		handler(w, r)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) client() *upstream.Client {
	return upstream.New(f.srv.URL, 2*time.Second)
}

func reply(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func newSession(t *testing.T, token string) (*session.Session, *session.Manager) {
	t.Helper()
	mgr := session.NewManager(session.NewMemoryStore(), false, time.Hour)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		r.AddCookie(&http.Cookie{Name: session.TokenCookie, Value: token})
	}
	return mgr.Load(httptest.NewRecorder(), r), mgr
}

func reload(mgr *session.Manager, token string) *session.Session {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		r.AddCookie(&http.Cookie{Name: session.TokenCookie, Value: token})
	}
	return mgr.Load(httptest.NewRecorder(), r)
}

func TestLoginLogoutLifecycle(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		reply(w, http.StatusOK, `{"success":true,"token":"tok-1","user":{"_id":"u1","name":"Asha"}}`)
	})
	uc := auth.NewAuthUseCase(api.client())
	sess, _ := newSession(t, "")

	assert.False(t, sess.IsAuthenticated())

	user, err := uc.Login(context.Background(), sess, "asha@example.com", "secret12")
	require.NoError(t, err)
	assert.Equal(t, "Asha", user.Name)
	assert.True(t, sess.IsAuthenticated())

	uc.Logout(context.Background(), sess)
	assert.False(t, sess.IsAuthenticated())
	assert.Empty(t, sess.Token())
}

func TestLogin_RejectedLeavesSessionAnonymous(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusUnauthorized, `{"success":false,"message":"Invalid credentials"}`)
	})
	uc := auth.NewAuthUseCase(api.client())
	sess, _ := newSession(t, "")

	_, err := uc.Login(context.Background(), sess, "asha@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, upstream.IsUnauthorized(err))
	assert.False(t, sess.IsAuthenticated())
}

func TestResolve_UsesCacheWithoutNetwork(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, `{"success":true,"user":{"_id":"u1"}}`)
	})
	uc := auth.NewAuthUseCase(api.client())
	sess, mgr := newSession(t, "")
	require.NoError(t, sess.SetCredentials(context.Background(), "tok-1", domain.User{ID: "u1"}))

	sess = reload(mgr, "tok-1")
	status, err := uc.Resolve(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, auth.StatusAuthenticated, status)
	assert.Zero(t, api.requests.Load(), "a cached user must resolve without any upstream call")
}

func TestResolve_FetchesAndCachesUser(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/profiles/me", r.URL.Path)
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		reply(w, http.StatusOK, `{"success":true,"user":{"_id":"u1","name":"Asha"}}`)
	})
	uc := auth.NewAuthUseCase(api.client())
	sess, _ := newSession(t, "tok-1")

	status, err := uc.Resolve(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, auth.StatusAuthenticated, status)
	require.NotNil(t, sess.User())
	assert.Equal(t, "Asha", sess.User().Name)
}

func TestResolve_RejectedTokenIsEvicted(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusUnauthorized, `{"success":false,"message":"Unauthorized"}`)
	})
	uc := auth.NewAuthUseCase(api.client())
	sess, _ := newSession(t, "stale-tok")

	status, err := uc.Resolve(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, auth.StatusAnonymous, status)
	assert.Empty(t, sess.Token(), "a 401 must remove the stored token")
}

func TestResolve_TransientFailureKeepsToken(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusInternalServerError, `{"success":false,"message":"boom"}`)
	})
	uc := auth.NewAuthUseCase(api.client())
	sess, _ := newSession(t, "tok-1")

	status, err := uc.Resolve(context.Background(), sess)
	require.Error(t, err)
	assert.Equal(t, auth.StatusUnresolved, status)
	assert.Equal(t, "tok-1", sess.Token(), "a server error says nothing about the token")
}

func TestResolve_NetworkFailureKeepsToken(t *testing.T) {
	uc := auth.NewAuthUseCase(upstream.New("http://127.0.0.1:1", 200*time.Millisecond))
	sess, _ := newSession(t, "tok-1")

	status, err := uc.Resolve(context.Background(), sess)
	require.Error(t, err)
	assert.Equal(t, auth.StatusUnresolved, status)
	assert.Equal(t, "tok-1", sess.Token())
}

func TestUpdateUserData_NoNetworkCall(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, `{"success":true}`)
	})
	uc := auth.NewAuthUseCase(api.client())
	sess, _ := newSession(t, "")
	require.NoError(t, sess.SetCredentials(context.Background(), "tok-1", domain.User{ID: "u1", Name: "Asha"}))

	err := uc.UpdateUserData(context.Background(), sess, domain.ProfileFields{Name: "Asha K"})
	require.NoError(t, err)

	require.NotNil(t, sess.User())
	assert.Equal(t, "Asha K", sess.User().Name)
	assert.Zero(t, api.requests.Load(), "updating cached user data must not hit the API")
}

func TestSignUp_WithoutPicture(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/register", r.URL.Path)
		reply(w, http.StatusCreated, `{"success":true,"token":"tok-new","user":{"_id":"u9","name":"Ravi"}}`)
	})
	uc := auth.NewAuthUseCase(api.client())
	sess, _ := newSession(t, "")

	out, err := uc.SignUp(context.Background(), sess, upstream.RegisterInput{Name: "Ravi"}, nil)
	require.NoError(t, err)
	assert.False(t, out.PictureFailed)
	assert.Equal(t, "Registration successful!", out.Message)
	assert.True(t, sess.IsAuthenticated())
	assert.Equal(t, int64(1), api.requests.Load())
}

func TestSignUp_PictureFailureKeepsRegistration(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/register":
			reply(w, http.StatusCreated, `{"success":true,"token":"tok-new","user":{"_id":"u9","name":"Ravi"}}`)
		case "/profiles/me/upload-picture":
			reply(w, http.StatusInternalServerError, `{"success":false,"message":"storage unavailable"}`)
		default:
			reply(w, http.StatusNotFound, `{"success":false}`)
		}
	})
	uc := auth.NewAuthUseCase(api.client())
	sess, _ := newSession(t, "")

	pic := &domain.PendingPicture{Filename: "me.jpg", Data: strings.NewReader("img")}
	out, err := uc.SignUp(context.Background(), sess, upstream.RegisterInput{Name: "Ravi"}, pic)
	require.NoError(t, err, "a failed upload must not fail the registration")
	assert.True(t, out.PictureFailed)
	assert.Contains(t, out.Message, "Registration succeeded, but picture upload failed")
	assert.Contains(t, out.Message, "You can upload later from profile.")
	assert.True(t, sess.IsAuthenticated())
}

func TestSignUp_WithPicture(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/register":
			reply(w, http.StatusCreated, `{"success":true,"token":"tok-new","user":{"_id":"u9","name":"Ravi"}}`)
		case "/profiles/me/upload-picture":
			require.Equal(t, "Bearer tok-new", r.Header.Get("Authorization"))
			reply(w, http.StatusOK, `{"success":true,"filePath":"/uploads/u9.jpg","user":{"_id":"u9","name":"Ravi","profilePicture":"/uploads/u9.jpg"}}`)
		default:
			reply(w, http.StatusNotFound, `{"success":false}`)
		}
	})
	uc := auth.NewAuthUseCase(api.client())
	sess, _ := newSession(t, "")

	pic := &domain.PendingPicture{Filename: "me.jpg", Data: strings.NewReader("img")}
	out, err := uc.SignUp(context.Background(), sess, upstream.RegisterInput{Name: "Ravi"}, pic)
	require.NoError(t, err)
	assert.False(t, out.PictureFailed)
	assert.Equal(t, "Registration and picture upload successful!", out.Message)
	assert.Equal(t, "/uploads/u9.jpg", out.User.ProfilePicture)
	require.NotNil(t, sess.User())
	assert.Equal(t, "/uploads/u9.jpg", sess.User().ProfilePicture)
}

func TestUploadProfilePicture_UpdatesCachedPath(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, `{"success":true,"filePath":"/uploads/u1.jpg"}`)
	})
	uc := auth.NewAuthUseCase(api.client())
	sess, _ := newSession(t, "")
	require.NoError(t, sess.SetCredentials(context.Background(), "tok-1", domain.User{ID: "u1", Name: "Asha"}))

	path, err := uc.UploadProfilePicture(context.Background(), sess,
		domain.PendingPicture{Filename: "me.jpg", Data: strings.NewReader("img")})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/u1.jpg", path)
	assert.Equal(t, "/uploads/u1.jpg", sess.User().ProfilePicture)
}

func TestUploadProfilePicture_RequiresAuth(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, `{"success":true}`)
	})
	uc := auth.NewAuthUseCase(api.client())
	sess, _ := newSession(t, "")

	_, err := uc.UploadProfilePicture(context.Background(), sess,
		domain.PendingPicture{Filename: "me.jpg", Data: strings.NewReader("img")})
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	assert.Zero(t, api.requests.Load())
}
