// Package csrf implements the double-submit token gate in front of mutating
// diagram routes: the X-CSRF-Token header must equal the csrf cookie.
package csrf

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	CookieName = "atlantis_csrf"
	HeaderName = "X-CSRF-Token"

	oneDay = 60 * 60 * 24
)

type Guard struct {
	secure bool
}

// New returns a Guard. secure marks the cookie Secure, as in production.
func New(secure bool) *Guard {
	return &Guard{secure: secure}
}

// Ensure returns the caller's token, issuing a cookie when there is none.
func (g *Guard) Ensure(c *gin.Context) string {
	if v, err := c.Cookie(CookieName); err == nil && v != "" {
		return v
	}
	token := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, oneDay, "/", "", g.secure, false)
	return token
}

// Valid reports whether header and cookie tokens are present and equal.
func Valid(header, cookie string) bool {
	if header == "" || cookie == "" || len(header) != len(cookie) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(header), []byte(cookie)) == 1
}

// EnsureCookie issues the token cookie on read routes.
func (g *Guard) EnsureCookie() gin.HandlerFunc {
	return func(c *gin.Context) {
		g.Ensure(c)
		c.Next()
	}
}

// Protect rejects mutating requests without a matching token. Safe methods
// pass through.
func (g *Guard) Protect() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		cookie, _ := c.Cookie(CookieName)
		if !Valid(c.GetHeader(HeaderName), cookie) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid CSRF token"})
			return
		}
		c.Next()
	}
}

// TokenHandler serves GET /api/csrf.
func (g *Guard) TokenHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"token": g.Ensure(c)})
}

func (g *Guard) RegisterRoutes(r gin.IRouter) {
	r.GET("/csrf", g.TokenHandler)
}
