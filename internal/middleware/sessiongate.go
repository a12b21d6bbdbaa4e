package middleware

import (
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ntkr/core/internal/pkg/session"
)

// SessionGate protects the web pages behind the perimeter login. API routes
// carry their own semantics and are left alone; everything else needs a valid
// session cookie or gets bounced to /login.
func SessionGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessionGateExempt(c.Request.URL.Path) {
			c.Next()
			return
		}

		token, err := c.Cookie(session.CookieName)
		if err == nil {
			if _, perr := session.Parse(token); perr == nil {
				c.Next()
				return
			}
		}

		c.Redirect(http.StatusFound, "/login")
		c.Abort()
	}
}

func sessionGateExempt(p string) bool {
	if p == "/login" || p == "/healthz" {
		return true
	}
	if strings.HasPrefix(p, "/api/") {
		return true
	}
	// static assets served next to the pages
	switch path.Ext(p) {
	case ".js", ".css", ".ico", ".png", ".svg", ".woff", ".woff2", ".map", ".webmanifest":
		return true
	}
	return false
}
