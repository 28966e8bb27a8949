package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/gestios/internal/orgcontext"
)

// APIKeyRequired authenticates requests with a bearer API key and binds
// the key's organization to the request context. Organization identity
// comes only from the key; callers cannot pick a tenant themselves.
func (s *Server) APIKeyRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		key, err := s.apiKeySvc.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ctx := orgcontext.WithOrgID(c.Request.Context(), key.OrgID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// PublicRateLimit throttles the unauthenticated proposal routes per client
// IP. Without redis the limiter is nil and everything passes.
func (s *Server) PublicRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.publicLimiter.Enabled() {
			c.Next()
			return
		}

		allowed, err := s.publicLimiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			// Redis being down must not take the public page with it.
			c.Next()
			return
		}
		if !allowed {
			AbortWithError(c, ErrTooManyRequest)
			return
		}

		c.Next()
	}
}
