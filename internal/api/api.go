// Package api serves the enhancement engine over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/ironsheep/aquavision/internal/config"
	"github.com/ironsheep/aquavision/internal/enhance"
	"github.com/ironsheep/aquavision/internal/imaging"
)

// Server holds the HTTP routes and the state shared between requests.
type Server struct {
	cfg    config.Config
	engine *enhance.Engine
	cache  *imaging.ResultCache
	slots  *semaphore.Weighted
	router *gin.Engine
}

// New builds the router. The cache may be nil, in which case every upload
// runs through the engine.
func New(cfg config.Config, engine *enhance.Engine, cache *imaging.ResultCache) *Server {
	if cache == nil {
		cache, _ = imaging.NewResultCache(0)
	}
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}

	s := &Server{
		cfg:    cfg,
		engine: engine,
		cache:  cache,
		slots:  semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Access log and panic recovery, both through the global zap logger.
	router.Use(ginzap.Ginzap(zap.L(), time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(zap.L(), true))

	router.Use(cors(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "AquaVision API"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api")
	{
		v1.POST("/enhance-image", s.enhanceImageHandler)
	}

	s.router = router
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}
