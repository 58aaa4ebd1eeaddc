// Package server exposes the REST surface over the store and the analysis
// pipeline.
package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trustlens/trustlens/internal/logger"
	"github.com/trustlens/trustlens/internal/model"
	"github.com/trustlens/trustlens/internal/pipeline"
	"github.com/trustlens/trustlens/internal/store"
)

// Server holds the HTTP surface and its collaborators.
type Server struct {
	engine   *gin.Engine
	store    *store.Store
	pipeline *pipeline.Pipeline
	enricher *pipeline.Enricher
	settings *Settings
	log      *logger.Logger
}

// New builds the server and registers all routes. enricher may be nil; the
// create and refresh paths then fall back to default profile values.
func New(cfg model.ServerConfig, st *store.Store, p *pipeline.Pipeline, enricher *pipeline.Enricher, settings *Settings, log *logger.Logger) *Server {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	if log == nil {
		log = logger.Nop()
	}

	s := &Server{
		engine:   gin.New(),
		store:    st,
		pipeline: p,
		enricher: enricher,
		settings: settings,
		log:      log,
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(corsMiddleware(cfg.CORSOrigins))
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health", s.health)

	api := s.engine.Group("/api")
	{
		claims := api.Group("/claims")
		claims.POST("/analyze", s.analyzeClaims)
		claims.POST("/:claimId/verify", s.reverifyClaim)
		claims.GET("", s.listClaims)

		influencers := api.Group("/influencers")
		influencers.GET("", s.listInfluencers)
		influencers.GET("/search", s.searchInfluencer)
		influencers.GET("/stats", s.platformStats)
		influencers.GET("/trust-score-trend", s.trustScoreTrend)
		influencers.POST("/discover", s.discoverInfluencers)
		influencers.GET("/:id", s.getInfluencer)
		influencers.POST("", s.createInfluencer)
		influencers.PATCH("/:id", s.updateInfluencer)

		journals := api.Group("/journals")
		journals.GET("", s.listJournals)
		journals.GET("/:id", s.getJournal)
		journals.POST("", s.createJournal)
		journals.PATCH("/:id", s.updateJournal)

		api.GET("/config", s.getSettings)
		api.POST("/config", s.updateSettings)
	}
}

// Handler exposes the engine for http.Server and tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError maps the error taxonomy onto HTTP statuses: absent entities
// are 404, bad caller input 400, broken upstream answers 502, everything
// else 500.
func (s *Server) respondError(c *gin.Context, err error) {
	var (
		notFound   *model.NotFoundError
		validation *model.ValidationError
		upstream   *model.UpstreamFetchError
		extractErr *model.ExtractionParseError
		verifyErr  *model.VerificationParseError
	)

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &validation):
		status = http.StatusBadRequest
	case errors.As(err, &upstream), errors.As(err, &extractErr), errors.As(err, &verifyErr):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	allowAll := len(origins) == 0
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case allowAll:
			c.Header("Access-Control-Allow-Origin", "*")
		case allowed[origin]:
			c.Header("Access-Control-Allow-Origin", origin)
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
