// Package http provides the API and metrics HTTP servers and their middleware.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	cardHTTP "github.com/allisson/cardvault/internal/card/http"
	"github.com/allisson/cardvault/internal/metrics"
)

// Server represents the API HTTP server.
type Server struct {
	db          *sql.DB
	server      *http.Server
	logger      *slog.Logger
	router      *gin.Engine
	tlsCertFile string
	tlsKeyFile  string
}

// RouterConfig selects the optional middleware of the API router.
type RouterConfig struct {
	CardHandler *cardHTTP.CardHandler

	// APIKeyVerifier enables bearer API key authentication on /v1 when non-nil.
	APIKeyVerifier APIKeyVerifier

	HTTPSRedirectEnabled bool
	HTTPSRedirectHost    string

	RateLimitEnabled        bool
	RateLimitRequestsPerSec float64
	RateLimitBurst          int

	CORSEnabled      bool
	CORSAllowOrigins string

	MetricsProvider  *metrics.Provider
	MetricsNamespace string
}

// NewServer creates a new API server.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// writeTimeoutSlack covers tokenizing, persisting and writing the response on top of
// the capture and settlement budgets.
const writeTimeoutSlack = 5 * time.Second

// SetRequestBudget raises the write timeout so a request that spends its whole budget
// still gets its response written. The timeout never drops below the 15s default.
func (s *Server) SetRequestBudget(budget time.Duration) {
	s.server.WriteTimeout = max(s.server.WriteTimeout, budget+writeTimeoutSlack)
}

// WriteTimeout returns the current write timeout of the API listener.
func (s *Server) WriteTimeout() time.Duration {
	return s.server.WriteTimeout
}

// SetTLS makes Start serve TLS with the given certificate and key files.
func (s *Server) SetTLS(certFile, keyFile string) {
	s.tlsCertFile = certFile
	s.tlsKeyFile = keyFile
}

// SetupRouter builds the gin router. ctx bounds background goroutines of the
// rate limiter.
func (s *Server) SetupRouter(ctx context.Context, cfg RouterConfig) {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if cors := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); cors != nil {
		router.Use(cors)
	}

	if cfg.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(cfg.MetricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	if cfg.HTTPSRedirectEnabled {
		v1.Use(HTTPSRedirectMiddleware(cfg.HTTPSRedirectHost, s.logger))
	}
	if cfg.APIKeyVerifier != nil {
		v1.Use(APIKeyAuthMiddleware(cfg.APIKeyVerifier, s.logger))
	}

	if cfg.CardHandler != nil {
		capture := []gin.HandlerFunc{}
		if cfg.RateLimitEnabled {
			capture = append(capture, IPRateLimitMiddleware(
				ctx,
				cfg.RateLimitRequestsPerSec,
				cfg.RateLimitBurst,
				s.logger,
			))
		}
		capture = append(capture, cfg.CardHandler.CaptureHandler)

		v1.POST("/cards/capture", capture...)
		v1.GET("/transactions/:token", cfg.CardHandler.GetTransactionHandler)
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the API server. It serves TLS when SetTLS was called.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router

	var err error
	if s.tlsCertFile != "" && s.tlsKeyFile != "" {
		s.logger.Info("starting https server", slog.String("addr", s.server.Addr))
		err = s.server.ListenAndServeTLS(s.tlsCertFile, s.tlsKeyFile)
	} else {
		s.logger.Info("starting http server", slog.String("addr", s.server.Addr))
		err = s.server.ListenAndServe()
	}

	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports ready only when the database answers a ping.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": "ok"},
	})
}
