package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bandhanmatch/bandhan-web/internal/usecase/auth"
)

// AuthMiddleware is the user gate: it resolves the visitor session before
// letting a guarded page render.
type AuthMiddleware struct {
	authUseCase *auth.AuthUseCase
}

func NewAuthMiddleware(authUseCase *auth.AuthUseCase) *AuthMiddleware {
	return &AuthMiddleware{authUseCase: authUseCase}
}

// RequireUser admits the request only once the session resolves to an
// authenticated user. Anonymous visitors are redirected to the login entry
// point. If resolution could not complete (upstream unreachable), the token
// is kept and a placeholder page with a retry affordance is rendered
// instead of logging the visitor out.
func (m *AuthMiddleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := GetSession(c)

		status, err := m.authUseCase.Resolve(c.Request.Context(), sess)
		switch status {
		case auth.StatusAuthenticated:
			c.Next()
		case auth.StatusAnonymous:
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
		default:
			c.HTML(http.StatusServiceUnavailable, "resolving.tmpl", gin.H{
				"RetryPath": c.Request.URL.RequestURI(),
				"Error":     err.Error(),
			})
			c.Abort()
		}
	}
}
