package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"hedgesync/internal/application/port"
	"hedgesync/internal/application/service"
	"hedgesync/internal/domain"
	"hedgesync/internal/infrastructure/chain"
	"hedgesync/internal/infrastructure/config"
	"hedgesync/internal/infrastructure/logger"
	"hedgesync/internal/infrastructure/pricefeed"
	redissecrets "hedgesync/internal/infrastructure/secrets/redis"
	"hedgesync/internal/infrastructure/storage/postgres"
	"hedgesync/internal/infrastructure/storage/sqlite"
	"hedgesync/internal/infrastructure/venue"
)

func main() {
	logger.Setup()
	_ = godotenv.Load()

	configPath := flag.String("config", "configs/config.toml", "path to config.toml")
	mode := flag.String("mode", "collect", "collect | refresh-token")
	dryRun := flag.Bool("dry-run", false, "log computed values, write nothing")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("load config failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	defer rdb.Close()
	secrets := redissecrets.New(rdb, cfg.Redis.Prefix)

	venueClient := venue.NewClient(venue.ClientConfig{
		Host:         cfg.VenueHost(),
		Port:         cfg.Venue.Port,
		Pacing:       time.Duration(cfg.Venue.PacingSec) * time.Second,
		Timeout:      time.Duration(cfg.Venue.TimeoutSec) * time.Second,
		HistoryStart: cfg.HistoryStartTime(),
	})

	switch *mode {
	case "collect":
		repo := openRepo(cfg)
		defer repo.Close()

		svc := service.NewCollectService(service.CollectDeps{
			Venue:   venueClient,
			Prices:  pricefeed.NewRESTSource(cfg.Price.BaseURL),
			Chain:   chain.NewClient(cfg.Chain.RPCURL, cfg.Chain.RewardsURL),
			Secrets: secrets,
			Repo:    repo,
			Market:  cfg.Price.Market,
			Side:    domain.ParseSide(cfg.Venue.TradeSide),
			DryRun:  *dryRun,
		})

		log.Info().
			Str("env", cfg.Venue.Env).
			Str("market", cfg.Price.Market).
			Bool("dry_run", *dryRun).
			Msg("hedgesync collect started")

		if err := svc.Run(ctx); err != nil {
			log.Fatal().Err(err).Msg("collect flow failed")
		}

	case "refresh-token":
		svc := service.NewTokenRefreshService(venueClient, secrets)
		log.Info().Str("env", cfg.Venue.Env).Msg("hedgesync token refresh started")
		if err := svc.Run(ctx); err != nil {
			log.Fatal().Err(err).Msg("token refresh failed")
		}

	default:
		log.Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}

func openRepo(cfg *config.Config) port.SnapshotRepo {
	switch cfg.Storage.Driver {
	case "postgres":
		repo, err := postgres.New(cfg.Storage.DSN)
		if err != nil {
			log.Fatal().Err(err).Msg("open postgres failed")
		}
		return repo
	default:
		repo, err := sqlite.New(cfg.Storage.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Storage.SQLitePath).Msg("open sqlite failed")
		}
		return repo
	}
}
