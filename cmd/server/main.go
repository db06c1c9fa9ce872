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

	"fleetops/dashboard/internal/common"
	"fleetops/dashboard/internal/config"
	"fleetops/dashboard/internal/logging"
	"fleetops/dashboard/internal/routes"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// @title Fleet Dashboard API
// @version 1.0
// @description Fleet reporting dashboard: workbook upload, filtered pages and trip map.
// @host localhost:8080
// @BasePath /
func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	if err := logging.Init(cfg.App.Env, cfg.App.LogLevel); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Fleet dashboard starting up",
		"environment", cfg.App.Env,
		"cache_backend", cfg.Cache.Backend,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	cache, err := newCache(cfg)
	if err != nil {
		logging.Fatal("Failed to initialize cache", "backend", cfg.Cache.Backend, "error", err.Error())
	}
	defer cache.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	rootCtx, cancelRoot := context.WithCancel(context.Background())
	defer cancelRoot()

	upSince := time.Now()
	router := routes.RegisterRoutes(rootCtx, cfg, cache, reg, upSince)

	srv := &http.Server{
		Addr:         cfg.Server.ServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logging.Info("Server starting", "addr", srv.Addr, "environment", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Server failed", "error", err.Error())
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logging.Info("Shutting down", "timeout", cfg.Server.ShutdownTimeout.String())
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Graceful shutdown failed", "error", err.Error())
	}
	cancelRoot()
}

// newCache picks the shared geocode and route cache backend.
func newCache(cfg *config.Config) (common.CacheInterface, error) {
	if cfg.Cache.Backend != "redis" {
		return common.NewCacheService(time.Hour, 10*time.Minute), nil
	}
	client, err := common.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, err
	}
	logging.Info("Connected to Redis", "addr", cfg.Redis.Addr())
	return common.NewRedisCacheService(client), nil
}
