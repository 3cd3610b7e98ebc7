// @title						Yatube API
// @version					1.0
// @description				Admin and token endpoints of the Yatube blog platform.
// @BasePath					/
// @securityDefinitions.apiKey	BearerAuth
// @in							header
// @name						Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emilythestrangee/yatube/internal/cache"
	"github.com/emilythestrangee/yatube/internal/config"
	"github.com/emilythestrangee/yatube/internal/database"
	"github.com/emilythestrangee/yatube/internal/logger"
	"github.com/emilythestrangee/yatube/internal/server"
	"github.com/emilythestrangee/yatube/internal/storage"
	"github.com/emilythestrangee/yatube/internal/telemetry"
)

func gracefulShutdown(apiServer *http.Server, done chan<- struct{}) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info("shutting down gracefully, press Ctrl+C again to force")
	stop()

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
	done <- struct{}{}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if _, err := logger.Init(cfg.AppEnv); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	flushSentry, err := telemetry.InitSentry(cfg.SentryDSN, cfg.AppEnv)
	if err != nil {
		logger.Warn("sentry disabled", zap.Error(err))
	}
	defer flushSentry()

	shutdownTracer, err := telemetry.InitTracer(context.Background(), cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		logger.Warn("tracing disabled", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(ctx)
	}()

	db, err := database.New(cfg)
	if err != nil {
		logger.L().Fatal("database", zap.Error(err))
	}
	defer db.Close()

	pages, closePages, err := cache.Open(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.L().Fatal("page cache", zap.Error(err))
	}
	defer closePages()

	images, err := storage.NewLocal(cfg.MediaRoot)
	if err != nil {
		logger.L().Fatal("media storage", zap.Error(err))
	}

	apiServer, err := server.NewServer(cfg, db, pages, images)
	if err != nil {
		logger.L().Fatal("server", zap.Error(err))
	}

	// Create a done channel to signal when the shutdown is complete
	done := make(chan struct{}, 1)
	go gracefulShutdown(apiServer, done)

	logger.Info("listening", zap.String("addr", apiServer.Addr))
	err = apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.L().Fatal("http server error", zap.Error(err))
	}

	// Wait for the graceful shutdown to complete
	<-done
}
