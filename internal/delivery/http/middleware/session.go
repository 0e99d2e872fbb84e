package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/bandhanmatch/bandhan-web/internal/session"
)

const sessionKey = "session"

// SessionMiddleware loads the visitor session on every request and makes
// it available to handlers through GetSession.
type SessionMiddleware struct {
	sessions *session.Manager
}

func NewSessionMiddleware(sessions *session.Manager) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions}
}

func (m *SessionMiddleware) Load() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(sessionKey, m.sessions.Load(c.Writer, c.Request))
		c.Next()
	}
}

// GetSession returns the session loaded for this request.
func GetSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}
