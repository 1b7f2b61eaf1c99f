// Package api exposes the receipt-splitting backend over HTTP.
//
// The parser itself stays pure; this layer handles uploads, persistence
// and the JSON surface the dashboard consumes.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/basketsplit/basketsplit/internal/infrastructure/storage"
	"github.com/basketsplit/basketsplit/internal/receipt"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
	// Retailer is the default receipt format for uploads.
	Retailer string
	// UploadDir is where uploaded PDFs are spooled before parsing.
	UploadDir string
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		Retailer:       "sainsburys",
	}
}

// Server is the HTTP API server.
type Server struct {
	config  Config
	engine  *gin.Engine
	logger  *slog.Logger
	repo    storage.Repository
	parsers *receipt.Registry
}

// NewServer creates a new API server.
func NewServer(cfg Config, repo storage.Repository, parsers *receipt.Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:  cfg,
		engine:  gin.New(),
		logger:  logger,
		repo:    repo,
		parsers: parsers,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	s.engine.Use(gin.Recovery())
	s.engine.Use(s.requestLogger())

	s.engine.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

// requestLogger logs each request with latency and status.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.engine.Group("/api")
	{
		// Receipts
		api.POST("/receipts", s.uploadReceipt)
		api.GET("/receipts", s.listReceipts)
		api.GET("/receipts/:id", s.getReceipt)
		api.GET("/receipts/:id/items", s.listReceiptItems)
		api.GET("/receipts/:id/split", s.getReceiptSplit)

		// Claims
		api.PUT("/items/:itemID/claims/:userID", s.claimItem)
		api.DELETE("/items/:itemID/claims/:userID", s.unclaimItem)

		// Users and groups
		api.POST("/users", s.createUser)
		api.GET("/users", s.listUsers)
		api.POST("/groups", s.createGroup)
		api.GET("/groups", s.listGroups)
		api.PUT("/groups/:groupID/users/:userID", s.addUserToGroup)
	}
}

// Handler exposes the underlying handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start runs the HTTP server until it fails.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	s.logger.Info("starting API server", slog.String("addr", addr))

	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	return srv.ListenAndServe()
}
