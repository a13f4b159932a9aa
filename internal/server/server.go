package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/atelier-api/internal/config"
	"github.com/gravadigital/atelier-api/internal/handlers"
	"github.com/gravadigital/atelier-api/internal/logger"
	"github.com/gravadigital/atelier-api/internal/middleware/events"
	"github.com/gravadigital/atelier-api/internal/services"
	"github.com/gravadigital/atelier-api/internal/storage/redis"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	config     *config.Config
	container  *redis.Container
}

// New creates a new server instance
func New(cfg *config.Config, container *redis.Container) *Server {
	return &Server{
		config:    cfg,
		container: container,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	router := s.setupRouter()

	s.httpServer = &http.Server{
		Addr:    ":" + s.config.Server.Port,
		Handler: router,

		// Timeouts seguros según estándares de Go
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Get().Info("Starting HTTP server", "port", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	logger.Get().Info("Shutting down HTTP server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// setupRouter configures the HTTP router with middleware and routes
func (s *Server) setupRouter() *gin.Engine {
	if s.config.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware básico
	router.Use(events.CreateEvent())
	router.Use(gin.Recovery())

	// CORS middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(s.config.CORS.AllowOrigins, ",")
	if s.config.CORS.AllowOrigins == "*" {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowOrigins = nil
	}
	corsConfig.AllowMethods = strings.Split(s.config.CORS.AllowMethods, ",")
	corsConfig.AllowHeaders = strings.Split(s.config.CORS.AllowHeaders, ",")
	router.Use(cors.New(corsConfig))

	// Inicializar servicios
	sessionService := services.NewSessionService(s.container.Sessions, s.container.Participants)
	wordService := services.NewWordService(s.container.Sessions, s.container.Words)
	proposalService := services.NewProposalService(s.container.Sessions, s.container.Proposals)
	voteService := services.NewVoteService(s.container.Sessions, s.container.Shortlist, s.container.Votes)
	resultsService := services.NewResultsService(s.container)

	// Inicializar handlers
	sessionHandler := handlers.NewSessionHandler(sessionService)
	wordHandler := handlers.NewWordHandler(wordService)
	proposalHandler := handlers.NewProposalHandler(proposalService, sessionService)
	voteHandler := handlers.NewVoteHandler(voteService, resultsService)
	adminHandler := handlers.NewAdminHandler(sessionService, wordService, proposalService, voteService, resultsService)

	// Health check
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Atelier API is running",
			"status":  "healthy",
		})
	})

	s.setupAPIRoutes(router, sessionHandler, wordHandler, proposalHandler, voteHandler, adminHandler)

	return router
}

// setupAPIRoutes configures all API routes
func (s *Server) setupAPIRoutes(
	router *gin.Engine,
	sessionHandler *handlers.SessionHandler,
	wordHandler *handlers.WordHandler,
	proposalHandler *handlers.ProposalHandler,
	voteHandler *handlers.VoteHandler,
	adminHandler *handlers.AdminHandler,
) {
	api := router.Group("/api")
	{
		sessions := api.Group("/sessions")
		{
			sessions.POST("", sessionHandler.Create)
			sessions.POST("/join", sessionHandler.Join)
			sessions.GET("/:code", sessionHandler.Info)
			sessions.DELETE("/:code", sessionHandler.Delete)

			sessions.GET("/:code/words", wordHandler.List)
			sessions.POST("/:code/words", wordHandler.Add)

			sessions.GET("/:code/proposals", proposalHandler.List)
			sessions.POST("/:code/proposals", proposalHandler.Add)
			sessions.PATCH("/:code/proposals/:id", proposalHandler.Update)

			sessions.GET("/:code/shortlist", voteHandler.Shortlist)
			sessions.GET("/:code/vote", voteHandler.Status)
			sessions.POST("/:code/vote", voteHandler.Cast)
			sessions.GET("/:code/results", voteHandler.FinalResults)

			sessions.GET("/:code/admin", adminHandler.Bundle)
			sessions.POST("/:code/admin", adminHandler.Action)
		}
	}
}

// Router exposes the configured router, used by handler tests.
func (s *Server) Router() *gin.Engine {
	return s.setupRouter()
}
