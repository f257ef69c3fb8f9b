package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Anirudha-Sai/Event-Attendance/config"
	"github.com/Anirudha-Sai/Event-Attendance/internal/api/handler"
	"github.com/Anirudha-Sai/Event-Attendance/internal/api/router"
	"github.com/Anirudha-Sai/Event-Attendance/internal/repository"
	"github.com/Anirudha-Sai/Event-Attendance/internal/service"
	"github.com/Anirudha-Sai/Event-Attendance/pkg/database"
	"github.com/Anirudha-Sai/Event-Attendance/pkg/jwt"
	applogger "github.com/Anirudha-Sai/Event-Attendance/pkg/logger"
	"github.com/Anirudha-Sai/Event-Attendance/pkg/metrics"
	"github.com/Anirudha-Sai/Event-Attendance/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ./config/config.yaml)")
	flag.Parse()

	// 1. config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. database + migrations
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("connect database failed", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB failed", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	// 4. redis is optional: without it logout is not enforced and rate limits are off
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, running without token revocation and rate limits", zap.Error(err))
		rdb = nil
	}
	var blacklist service.TokenBlacklist
	if rdb != nil {
		blacklist = rdb
	}

	// 5. jwt + metrics
	jwtMgr := jwt.NewManager(&cfg.Auth)
	m := metrics.New(prometheus.DefaultRegisterer)

	// 6. repository -> service -> handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, blacklist, m, logger)
	h := handler.NewHandler(svc, cfg)

	// 7. router
	engine := router.Setup(cfg, h, jwtMgr, rdb, db, m, prometheus.DefaultGatherer, logger)

	// 8. http server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	_ = sqlDB.Close()
	if rdb != nil {
		_ = rdb.Close()
	}

	logger.Info("stopped")
}
