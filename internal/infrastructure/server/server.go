package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	apphttp "github.com/beemarshall/core/internal/adapters/http"
	"github.com/beemarshall/core/internal/infrastructure/config"
	"github.com/beemarshall/core/internal/infrastructure/database"
	"github.com/beemarshall/core/internal/infrastructure/logger"
)

// Server wraps the echo instance with its configuration
type Server struct {
	echo   *echo.Echo
	config *config.Config
	logger *logger.Logger
	db     *database.DB
}

// Handlers bundles the HTTP handlers registered on the API.
type Handlers struct {
	Sites      *apphttp.SiteHandler
	Scheduling *apphttp.SchedulingHandler
	Actions    *apphttp.ActionHandler
	Catalog    *apphttp.CatalogHandler
	Planning   *apphttp.PlanningHandler
	Compliance *apphttp.ComplianceHandler
}

// CustomValidator wraps go-playground/validator for echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the given struct
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beemarshall_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "beemarshall_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// New creates a new HTTP server with middleware and routes configured
func New(cfg *config.Config, log *logger.Logger, db *database.DB, handlers Handlers) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Security.CORSAllowedOrigins},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, cfg.Tenancy.HeaderName},
	}))
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(
		rate.Limit(float64(cfg.Security.RateLimitRequests) / cfg.Security.RateLimitWindow.Seconds()),
	)))
	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: cfg.Server.WriteTimeout,
	}))
	e.Use(requestLogger(log))
	if cfg.Metrics.Enabled {
		e.Use(metricsMiddleware())
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	e.GET("/health", healthHandler(db))
	e.GET("/health/detailed", detailedHealthHandler(cfg, db))
	e.GET("/ready", readyHandler(db))

	api := e.Group("/api/v1")
	api.Use(apphttp.TenantMiddleware(cfg.Tenancy.HeaderName, cfg.Tenancy.DefaultTenant))

	handlers.Sites.RegisterRoutes(api)
	handlers.Scheduling.RegisterRoutes(api)
	handlers.Actions.RegisterRoutes(api)
	handlers.Catalog.RegisterRoutes(api)
	handlers.Planning.RegisterRoutes(api)
	handlers.Compliance.RegisterRoutes(api)

	return &Server{echo: e, config: cfg, logger: log, db: db}
}

func requestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Infow("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
				"request_id", v.RequestID,
			)
			return nil
		},
	})
}

func metricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			path := c.Path()
			httpRequestsTotal.WithLabelValues(
				c.Request().Method, path, fmt.Sprintf("%d", c.Response().Status),
			).Inc()
			httpRequestDuration.WithLabelValues(c.Request().Method, path).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func healthHandler(db *database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}

func detailedHealthHandler(cfg *config.Config, db *database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		dbStatus := "ok"
		status := http.StatusOK
		if err := db.HealthCheck(c.Request().Context()); err != nil {
			dbStatus = err.Error()
			status = http.StatusServiceUnavailable
		}
		return c.JSON(status, map[string]interface{}{
			"status":      "ok",
			"app":         cfg.App.Name,
			"version":     cfg.App.Version,
			"environment": cfg.App.Environment,
			"database":    dbStatus,
		})
	}
}

func readyHandler(db *database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := db.HealthCheck(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  err.Error(),
			})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
	}
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.logger.Infow("starting http server", "addr", addr)

	s.echo.Server.ReadTimeout = s.config.Server.ReadTimeout
	s.echo.Server.WriteTimeout = s.config.Server.WriteTimeout
	s.echo.Server.IdleTimeout = s.config.Server.IdleTimeout

	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

// Echo exposes the underlying echo instance for tests
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
