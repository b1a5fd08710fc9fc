package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"video-api/pkg/database"
)

const (
	// TokenHeader carries the login token on protected routes.
	TokenHeader     = "token"
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
	userIDKey       = "userID"
)

// TokenRequired rejects the request with 401 unless the token header holds a
// valid, unexpired token. The user id from the token is stored under "userID".
func (h *Handler) TokenRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(TokenHeader)
		if token == "" {
			respondError(c, &apiError{Status: http.StatusUnauthorized, Message: "token is missing"})
			return
		}

		claims, err := h.tokens.ValidateJWT(token)
		if err != nil {
			h.requestLog(c).Debug().Err(err).Msg("token rejected")
			respondError(c, &apiError{Status: http.StatusUnauthorized, Message: "token is invalid"})
			return
		}

		if h.opts.RequireExistingUser {
			_, err := h.users.FindUserByID(c.Request.Context(), claims.UserID)
			if errors.Is(err, database.ErrNotFound) {
				respondError(c, &apiError{Status: http.StatusUnauthorized, Message: "token user no longer exists"})
				return
			}
			if err != nil {
				h.internalError(c, err, "failed to look up token user")
				return
			}
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// UserID returns the id stored by TokenRequired.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// RequestID propagates X-Request-ID, generating one when absent.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// Timeout bounds the request context; store calls observe it.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequestLogger writes one line per request.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := logger.Info()
		if status >= http.StatusInternalServerError {
			ev = logger.Error()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", c.GetString(requestIDKey)).
			Msg("request")
	}
}
