package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cafe1231/loadout-optimizer/internal/config"
	"github.com/cafe1231/loadout-optimizer/internal/contentstore"
	"github.com/cafe1231/loadout-optimizer/internal/database"
	"github.com/cafe1231/loadout-optimizer/internal/httpapi"
	"github.com/cafe1231/loadout-optimizer/internal/jobstore"
	"github.com/cafe1231/loadout-optimizer/internal/middleware"
	"github.com/cafe1231/loadout-optimizer/internal/monitoring"
	"github.com/cafe1231/loadout-optimizer/internal/wsprogress"
)

var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal("failed to load config: ", err)
	}

	initLogger(cfg.Server.Environment)

	logrus.WithFields(logrus.Fields{
		"service":    "loadout-optimizer",
		"version":    Version,
		"build_time": BuildTime,
		"git_commit": GitCommit,
	}).Info("starting loadout optimizer service")

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logrus.Fatal("failed to connect to database: ", err)
	}
	defer func() { _ = db.Close() }()

	if err := database.RunMigrations(db); err != nil {
		logrus.Fatal("failed to run migrations: ", err)
	}

	contentStore := contentstore.New(db)
	jobs := jobstore.NewPostgresStore(db)
	hub := wsprogress.NewHub(cfg.WebSocket.ReadBufferSize, cfg.WebSocket.WriteBufferSize)
	metrics := monitoring.NewMetrics()
	healthChecker := monitoring.NewHealthChecker(db)
	optimizeHandler := httpapi.NewHandler(contentStore, jobs, hub, cfg.Optimizer)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRoutes(cfg, optimizeHandler, healthChecker, metrics)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"host": cfg.Server.Host,
			"port": cfg.Server.Port,
			"env":  cfg.Server.Environment,
		}).Info("loadout optimizer service listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatal("server failed: ", err)
		}
	}()

	gracefulShutdown(server)
}

// setupRoutes mounts health/metrics (unauthenticated), and the
// job-submission API behind JWT auth and per-client rate limiting.
func setupRoutes(cfg *config.Config, optimize *httpapi.Handler, health *monitoring.HealthChecker, metrics *monitoring.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.StructuredLogging(middleware.LoggingConfig{SkipPaths: []string{cfg.Monitoring.HealthPath, "/ready", "/live"}}))
	router.Use(metrics.Middleware())

	router.GET(cfg.Monitoring.HealthPath, health.HealthCheck)
	router.GET("/ready", health.HealthCheck)
	router.GET("/live", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "alive"}) })
	router.GET(cfg.Monitoring.MetricsPath, gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.JWTAuth(cfg.JWT.Secret))
	v1.Use(middleware.RateLimit(cfg.RateLimit))
	optimize.RegisterRoutes(v1)

	return router
}

func initLogger(environment string) {
	if environment == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, ForceColors: true})
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetOutput(os.Stdout)
}

func gracefulShutdown(server *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("loadout optimizer service shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Fatal("server forced to shutdown: ", err)
	}

	logrus.Info("loadout optimizer service stopped gracefully")
}
