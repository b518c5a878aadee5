package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/annagruz/taskvault/internal/common"
	"github.com/annagruz/taskvault/internal/server/identity"
)

// requireAuth resolves the bearer credential and attaches the session to the
// request context. Any resolution failure produces the same 401 body.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		account, token, err := s.resolver.Resolve(c.Request.Context(), c.GetHeader(common.AuthorizationHeaderName))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": common.ErrUnauthenticated.Error()})
			return
		}

		session := identity.Session{Account: account, Token: token}
		c.Request = c.Request.WithContext(identity.NewContext(c.Request.Context(), session))
		c.Next()
	}
}

// sessionFrom returns the session placed by requireAuth. Reaching a handler
// behind requireAuth without one is a programming error.
func sessionFrom(c *gin.Context) identity.Session {
	session, ok := identity.FromContext(c.Request.Context())
	if !ok {
		panic("httpapi: handler called without an authenticated session")
	}
	return session
}
