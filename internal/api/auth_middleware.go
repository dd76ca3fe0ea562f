package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/forum-api/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const callerKey = "caller"

// authenticate attaches the bearer token's caller to the request.
// Requests without a token continue anonymously; a bad token is rejected.
func authenticate(verifier *auth.Verifier, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header must use the Bearer scheme"})
			return
		}

		caller, err := verifier.Verify(strings.TrimSpace(token))
		if err != nil {
			log.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("Rejected bearer token")
			msg := "invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				msg = "token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		c.Set(callerKey, caller)
		c.Next()
	}
}

// requireAuth rejects anonymous requests
func requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if callerFrom(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// callerFrom returns the authenticated caller, or nil for anonymous requests
func callerFrom(c *gin.Context) *auth.Caller {
	v, ok := c.Get(callerKey)
	if !ok {
		return nil
	}
	caller, _ := v.(*auth.Caller)
	return caller
}
