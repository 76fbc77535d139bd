package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"PolicyPal/internal/apierr"
	"PolicyPal/internal/logging"
	"PolicyPal/internal/ports"
)

const (
	userIDKey    = "user_id"
	requestIDKey = "request_id"
)

var errMissingToken = errors.New("missing or invalid token")

// requestLogger tags every request with an id and logs its outcome.
func requestLogger(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()

		logger.Info("request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// requireAuth resolves the bearer token into the caller's user id.
func requireAuth(tokens ports.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			respondError(c, apierr.New(http.StatusUnauthorized, "unauthorized", errMissingToken))
			return
		}
		id, err := tokens.Verify(token)
		if err != nil {
			respondError(c, apierr.New(http.StatusUnauthorized, "unauthorized", err))
			return
		}
		c.Set(userIDKey, id)
		c.Next()
	}
}

func bearerToken(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func currentUserID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}
