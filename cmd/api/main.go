package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/spa-scheduler/internal/audit"
	"github.com/BruksfildServices01/spa-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/spa-scheduler/internal/db"
	"github.com/BruksfildServices01/spa-scheduler/internal/infra/idempotency"
	"github.com/BruksfildServices01/spa-scheduler/internal/logger"
	"github.com/BruksfildServices01/spa-scheduler/internal/metrics"
	"github.com/BruksfildServices01/spa-scheduler/internal/routes"
)

const shutdownTimeout = 10 * time.Second

func main() {

	cfg := config.Load()

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	db := dbpkg.NewDB(cfg, zlog)

	auditor := audit.NewDispatcher(audit.New(db), zlog.Named("audit"))

	deps := routes.Deps{
		DB:      db,
		Config:  cfg,
		Log:     zlog,
		Metrics: metrics.New("spa"),
		Audit:   auditor,
	}

	if cfg.RedisURL != "" {
		rdb, err := idempotency.NewClient(cfg.RedisURL)
		if err != nil {
			zlog.Warn("invalid REDIS_URL, idempotency disabled", zap.Error(err))
		} else {
			defer func() { _ = rdb.Close() }()
			deps.Idempotency = idempotency.NewRedisStore(rdb, time.Duration(cfg.IdempotencyTTLSec)*time.Second)
		}
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		zlog.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("server forced to shutdown", zap.Error(err))
	}
	if err := auditor.Close(ctx); err != nil {
		zlog.Warn("audit queue not drained", zap.Error(err))
	}
}
