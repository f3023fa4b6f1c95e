package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"charter_sync/internal/adapters/nausys"
	"charter_sync/internal/adapters/observability"
	redisad "charter_sync/internal/adapters/redis"
	"charter_sync/internal/app"
	"charter_sync/internal/shared"
	mysqlrepo "charter_sync/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "charter-syncer")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	observability.Register()
	observability.Serve(cfg.MetricsAddr)

	log.Info().
		Str("base", cfg.NausysBase).
		Str("scope", cfg.SyncDomain).
		Dur("interval", cfg.SyncInterval).
		Msg("syncer starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	store := mysqlrepo.New(db)
	if err := store.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("schema migration failed")
	}

	client, err := nausys.New(cfg.NausysBase, cfg.NausysUser, cfg.NausysPass, cfg.NausysRPS, cfg.NausysTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize upstream client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()

	svc := app.NewSyncService(client, store, cache, app.SyncConfig{
		CrewSecurityCode: cfg.CrewSecurity,
		CrewWorkers:      cfg.CrewWorkers,
		CriteriaTTL:      cfg.CriteriaTTL,
		FreeCabinWindow:  time.Duration(cfg.FreeCabinDays) * 24 * time.Hour,
	})

	if cfg.SyncInterval > 0 {
		svc.RunScheduled(ctx, cfg.SyncInterval, cfg.SyncDomain)
		return
	}

	if cfg.SyncDomain != "" && cfg.SyncDomain != "all" {
		r, err := svc.SyncDomain(ctx, cfg.SyncDomain)
		if err != nil {
			log.Fatal().Err(err).Strs("known", svc.Domains()).Msg("sync failed")
		}
		if r.Err != nil {
			os.Exit(1)
		}
		return
	}

	rep, err := svc.SyncAll(ctx)
	if err != nil {
		log.Error().Err(err).Str("run", rep.ID).Msg("sync run aborted")
		os.Exit(1)
	}
	log.Info().Str("run", rep.ID).Int("failures", rep.Failures).Msg("sync completed")
}
