// Package api exposes the campaign journal over HTTP: session and NPC CRUD,
// mention extraction, and candidate suggestion. Routing is built on Gin with
// CORS and basic-auth middleware; observability is handled by the caller
// wrapping [Server.Handler].
package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/questward/lorekeeper/internal/journal"
	"github.com/questward/lorekeeper/internal/observe"
	"github.com/questward/lorekeeper/internal/roster"
	"github.com/questward/lorekeeper/internal/scribe"
)

// Config holds the HTTP surface settings.
type Config struct {
	// Username and Password protect every /api route via HTTP basic auth.
	Username string
	Password string

	// CORSAllowedOrigins lists the origins allowed by the CORS middleware.
	// An empty list allows all origins.
	CORSAllowedOrigins []string

	// ExtractorStrategy is reported in metrics attributes ("pattern" or
	// "model").
	ExtractorStrategy string
}

// Server wires the journal, roster, and scribe service into a Gin engine.
type Server struct {
	engine   *gin.Engine
	sessions journal.Store
	npcs     roster.Store
	scribe   *scribe.Service
	metrics  *observe.Metrics
	strategy string
}

// New builds a [Server] with all routes registered. The metrics instance may
// be nil, in which case [observe.DefaultMetrics] is used.
func New(cfg Config, sessions journal.Store, npcs roster.Store, svc *scribe.Service, metrics *observe.Metrics) *Server {
	if metrics == nil {
		metrics = observe.DefaultMetrics()
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	_ = engine.SetTrustedProxies(nil)

	corsCfg := cors.Config{
		AllowMethods:     []string{"OPTIONS", "GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Correlation-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	}
	engine.Use(cors.New(corsCfg))

	s := &Server{
		engine:   engine,
		sessions: sessions,
		npcs:     npcs,
		scribe:   svc,
		metrics:  metrics,
		strategy: cfg.ExtractorStrategy,
	}

	base := engine.Group("/api", basicAuth(cfg.Username, cfg.Password))
	base.GET("/", s.getRoot)
	base.GET("/auth/check", s.getAuthCheck)

	base.GET("/sessions", s.listSessions)
	base.POST("/sessions", s.createSession)
	base.GET("/sessions/:id", s.getSession)
	base.PUT("/sessions/:id", s.updateSession)
	base.DELETE("/sessions/:id", s.deleteSession)

	base.GET("/npcs", s.listNPCs)
	base.POST("/npcs", s.createNPC)
	base.GET("/npcs/:id", s.getNPC)
	base.PUT("/npcs/:id", s.updateNPC)
	base.DELETE("/npcs/:id", s.deleteNPC)

	base.POST("/extract-npc", s.extractNPC)
	base.POST("/suggest-npcs", s.suggestNPCs)

	return s
}

// Handler returns the engine as an [http.Handler] so callers can wrap it in
// middleware and mount it on their own mux.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) getRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Lorekeeper campaign journal API"})
}

func (s *Server) getAuthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"authenticated": true})
}
