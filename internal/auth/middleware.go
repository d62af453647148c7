package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/uteach/internal/dto"
	"github.com/rs/zerolog/log"
)

const identityKey = "auth.identity"

// RequireAuth rejects requests without a valid bearer token and stores the caller identity.
func RequireAuth(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "missing bearer token"})
			return
		}

		identity, err := v.Verify(c.Request.Context(), strings.TrimSpace(header[7:]))
		if err != nil {
			log.Warn().Err(err).Str("path", c.FullPath()).Msg("Token verification failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "invalid token", Details: []string{err.Error()}})
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// Owner is the identity records are scoped to; "" when authentication is disabled.
func Owner(c *gin.Context) string {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(Identity); ok {
			return id.Subject
		}
	}
	return ""
}
