package server

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
)

// APIKeyAuth gates the API behind a shared key. An empty configured key
// disables the gate, which is only acceptable outside production.
func (s *Server) APIKeyAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		expected := strings.TrimSpace(s.cfg.APIKey)
		if expected == "" {
			if s.cfg.IsProduction() {
				AbortWithError(c, ErrServiceUnavailable)
				return
			}
			c.Next()
			return
		}

		presented := strings.TrimSpace(c.GetHeader("X-Api-Key"))
		if presented == "" {
			if auth := strings.TrimSpace(c.GetHeader("Authorization")); strings.HasPrefix(auth, "Bearer ") {
				presented = strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			}
		}
		if subtle.ConstantTimeCompare([]byte(presented), []byte(expected)) != 1 {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Next()
	}
}
