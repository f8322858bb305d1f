package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/smallbatch/roastery/internal/adapter/handler"
	"github.com/smallbatch/roastery/internal/adapter/storage"
	"github.com/smallbatch/roastery/internal/config"
	"github.com/smallbatch/roastery/internal/core/service"
	"github.com/smallbatch/roastery/internal/logger"
	"github.com/smallbatch/roastery/internal/port"
	"github.com/smallbatch/roastery/migrations"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("config load failed", "path", *configPath, "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		log.Error("mysql open failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		log.Error("mysql ping failed", "err", err)
		os.Exit(1)
	}
	log.Info("connected to mysql")

	if err := runMigrations(db); err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	var cache port.ListingCache
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Error("redis ping failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		cache = storage.NewRedisAdapter(rdb)
		log.Info("connected to redis")
	}

	catalogStore := storage.NewCatalogStore(db)
	inventoryStore := storage.NewInventoryStore(db)

	ledger := service.NewLedger(cache, log, cfg.Store.Timeout, cfg.Store.Retries)
	catalogSvc := service.NewCatalogService(catalogStore, cache, log, cfg.Catalog.MaxAgeDays, cfg.Store.Timeout)
	inventorySvc := service.NewInventoryService(inventoryStore, cache, log, cfg.Store.Timeout)

	h := handler.NewHTTPHandler(ledger, catalogSvc, inventorySvc, catalogStore, inventoryStore, log)
	router := h.Routes()
	if cfg.Metrics.Enabled {
		router.Handle("/metrics", promhttp.Handler())
	}

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: router,
	}

	go func() {
		log.Info("HTTP server listening", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP shutdown failed", "err", err)
	}
	log.Info("graceful shutdown complete")
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("mysql"); err != nil {
		return err
	}
	return goose.Up(db, ".")
}
