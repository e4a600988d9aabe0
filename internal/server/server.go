package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	api "github.com/kestrelworks/fskit/internal/api/http"
	"github.com/kestrelworks/fskit/internal/api/middleware"
	"github.com/kestrelworks/fskit/internal/config"
	"github.com/kestrelworks/fskit/internal/fsops"
	"github.com/kestrelworks/fskit/internal/logging"
	"github.com/kestrelworks/fskit/internal/monitoring"
	"github.com/kestrelworks/fskit/internal/structured"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	cfg     *config.Config
	router  *gin.Engine
	httpSrv *http.Server
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// New creates a server from cfg. The storage root is created if missing.
func New(cfg *config.Config, log *logging.Logger) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logging.NewNop()
	}

	fs := fsops.New(log.Named("fsops"))
	if err := fs.CreateDir(cfg.Storage.Root); err != nil {
		return nil, fmt.Errorf("prepare storage root: %w", err)
	}
	store := structured.NewStore(fs, log.Named("structured"))
	metrics := monitoring.NewMetrics(nil)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}
	router.Use(monitoring.Middleware(metrics))

	handler := api.NewHandler(fs, store, metrics, log.Named("api"), cfg.Storage.Root)
	handler.Register(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":         "healthy",
			"uptime_seconds": metrics.Uptime().Seconds(),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	return &Server{
		cfg:    cfg,
		router: router,
		httpSrv: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		log:     log,
		metrics: metrics,
	}, nil
}

// Router exposes the Gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the server and blocks until it stops.
func (s *Server) Run() error {
	s.log.Info("starting server",
		zap.String("addr", s.httpSrv.Addr),
		zap.String("storage_root", s.cfg.Storage.Root),
	)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down server")
	return s.httpSrv.Shutdown(ctx)
}
