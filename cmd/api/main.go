package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "charter_sync/internal/adapters/http_server"
	"charter_sync/internal/adapters/nausys"
	"charter_sync/internal/adapters/observability"
	redisad "charter_sync/internal/adapters/redis"
	"charter_sync/internal/app"
	"charter_sync/internal/shared"
	mysqlrepo "charter_sync/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "charter-api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	store := mysqlrepo.New(db)
	if err := store.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("schema migration failed")
	}

	// deps
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cache.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, reads will go to the store")
	}
	up, err := nausys.New(cfg.NausysBase, cfg.NausysUser, cfg.NausysPass, cfg.NausysRPS, cfg.NausysTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize upstream client")
	}
	q := app.NewQueryService(store, up, cache, cfg.CacheTTL)
	s := app.NewSyncService(up, store, cache, app.SyncConfig{
		CrewSecurityCode: cfg.CrewSecurity,
		CrewWorkers:      cfg.CrewWorkers,
		CriteriaTTL:      cfg.CriteriaTTL,
		FreeCabinWindow:  time.Duration(cfg.FreeCabinDays) * 24 * time.Hour,
	})

	// http
	srv := server.New(cfg.HTTPTimeout)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, S: s})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
	_ = cache.Close()
	_ = db.Close()
	log.Info().Msg("API stopped")
}
