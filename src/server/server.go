package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lost-woods/qrandom/src/api"
	"github.com/lost-woods/qrandom/src/config"
	"github.com/lost-woods/qrandom/src/rng"
)

type Server struct {
	port     string
	router   *gin.Engine
	src      rng.Drawer
	health   *rng.Health
	interval time.Duration
	log      *zap.SugaredLogger
}

// New wires the routes. src is the bit source the background health monitor
// draws from; it should be the one behind s.
func New(cfg config.Config, s api.Sampler, src rng.Drawer, h *rng.Health, log *zap.SugaredLogger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	router.Use(cors.New(cors.Config{
		AllowMethods:     []string{"GET"},
		AllowHeaders:     []string{"X-API-KEY", "Accept"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowAllOrigins:  true,
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(api.CheckHeader("X-API-KEY", cfg.APIKey))

	handlers := api.NewHandlers(s, h, log, api.Options{
		MaxBound:         cfg.MaxBound,
		SampleTimeout:    cfg.SampleTimeout,
		ListingCacheSize: cfg.CircuitCacheSize,
	})
	router.GET("/", handlers.RandomNumber)
	router.GET("/circuit", handlers.Circuit)
	router.GET("/health", handlers.Health)

	return &Server{
		port:     cfg.Port,
		router:   router,
		src:      src,
		health:   h,
		interval: cfg.HealthInterval,
		log:      log,
	}
}

func (s *Server) Handler() http.Handler { return s.router }

func requestLogger(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Infow("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

// Run serves until ctx is done, then shuts down gracefully. Background health
// monitoring runs for the same lifetime.
func (s *Server) Run(ctx context.Context) error {
	if s.src != nil && s.health != nil && s.interval > 0 {
		go rng.PeriodicHealthCheck(ctx, s.src, s.health, s.interval)
	}

	srv := &http.Server{Addr: ":" + s.port, Handler: s.router}
	errc := make(chan error, 1)
	go func() {
		s.log.Infow("listening", "port", s.port)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
