package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/cardvault/internal/errors"
	"github.com/allisson/cardvault/internal/httputil"
)

// CustomLoggerMiddleware logs one structured line per request with its request id.
// Query strings are not logged.
func CustomLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info("http request",
			slog.String("request_id", requestid.Get(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}

// HTTPSRedirectMiddleware keeps plaintext requests away from the pipeline.
// Requests that arrived over TLS, or through a proxy that set X-Forwarded-Proto to
// https, pass through. When redirectHost is set, plaintext GET and HEAD are redirected
// with 301 to that host; the client-supplied Host header is never used. Every other
// plaintext request is rejected with 403.
func HTTPSRedirectMiddleware(redirectHost string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isSecure(c.Request) {
			c.Next()
			return
		}

		method := c.Request.Method
		if redirectHost != "" && (method == http.MethodGet || method == http.MethodHead) {
			target := "https://" + redirectHost + c.Request.URL.RequestURI()
			c.Redirect(http.StatusMovedPermanently, target)
			c.Abort()
			return
		}

		logger.Warn("plaintext request rejected",
			slog.String("method", method),
			slog.String("path", c.Request.URL.Path),
		)
		c.JSON(http.StatusForbidden, httputil.ErrorResponse{
			Error:   "https_required",
			Message: "This endpoint is only served over HTTPS",
		})
		c.Abort()
	}
}

func isSecure(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// APIKeyVerifier checks a presented API key.
type APIKeyVerifier interface {
	Verify(plainKey string) bool
}

// APIKeyAuthMiddleware requires an "Authorization: Bearer <key>" header whose key
// the verifier accepts. The bearer scheme is matched case-insensitively.
func APIKeyAuthMiddleware(verifier APIKeyVerifier, logger *slog.Logger) gin.HandlerFunc {
	const bearerPrefix = "bearer "

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: missing or malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if !verifier.Verify(authHeader[len(bearerPrefix):]) {
			logger.Debug("authentication failed: unknown api key")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
