package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/sweeper/internal/auth"
	"github.com/vovakirdan/sweeper/internal/proto"
)

const (
	// ContextKeyUserID is the context key for storing user ID.
	ContextKeyUserID = "user_id"
	// ContextKeyEmail is the context key for storing the user's email.
	ContextKeyEmail = "email"
)

// TokenMiddleware validates the session token carried in the x-access-tokens header.
func TokenMiddleware(authService *auth.Service, logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(proto.TokenHeader)
		if token == "" {
			logger.Debug().Msg("missing access token")
			abortWithMessage(c, http.StatusUnauthorized, "token is missing")
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			logger.Debug().Err(err).Msg("invalid token")
			abortWithMessage(c, http.StatusUnauthorized, "token is invalid")
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyEmail, claims.Email)

		c.Next()
	}
}

// RateLimitMiddleware rejects game actions once a user exceeds the per-minute budget.
func RateLimitMiddleware(limiter *rateLimiter, logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt64(ContextKeyUserID)
		if !limiter.allow(userID) {
			logger.Warn().Int64("user_id", userID).Msg("action rate limit exceeded")
			abortWithMessage(c, http.StatusTooManyRequests, "too many actions, slow down")
			return
		}
		c.Next()
	}
}

// LoggerMiddleware creates a middleware that logs HTTP requests.
func LoggerMiddleware(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("http request")
	}
}

func abortWithMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, proto.ErrorResponse{Message: message})
}
