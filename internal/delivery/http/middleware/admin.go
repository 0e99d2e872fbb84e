package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bandhanmatch/bandhan-web/internal/usecase/admin"
)

// AdminMiddleware is the admin gate. It is independent of the visitor
// session store: admission rests solely on the signed admin session cookie,
// verified locally with no upstream round trip.
type AdminMiddleware struct {
	adminUseCase *admin.AdminUseCase
}

func NewAdminMiddleware(adminUseCase *admin.AdminUseCase) *AdminMiddleware {
	return &AdminMiddleware{adminUseCase: adminUseCase}
}

func (m *AdminMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(admin.SessionCookie)
		if err != nil || m.adminUseCase.Verify(cookie) != nil {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
