package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ogurasousui/dtrack/internal/adapters/postgrest"
	"github.com/ogurasousui/dtrack/internal/adapters/repository/postgres"
	"github.com/ogurasousui/dtrack/internal/core/daterange"
	"github.com/ogurasousui/dtrack/internal/core/profile"
	"github.com/ogurasousui/dtrack/internal/platform/config"
	pg "github.com/ogurasousui/dtrack/internal/platform/db/postgres"
	"github.com/ogurasousui/dtrack/internal/platform/logging"
	"github.com/ogurasousui/dtrack/internal/platform/server"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(config.EffectivePath(*configPath))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	gateway, source, cleanup, err := buildBackends(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	resolver := profile.NewResolver(gateway, profile.Options{
		Cooldown:     cfg.Provisioning.Cooldown,
		PollInterval: cfg.Provisioning.PollInterval,
		WaitCeiling:  cfg.Provisioning.WaitCeiling,
		MaxRetries:   cfg.Provisioning.MaxRetries,
	}, nil, nil, logger.Named("profile"))

	profiles := profile.NewCachedResolver(resolver)
	ranges := daterange.NewService(source, nil)

	grpcServer := server.New(cfg.Server.ListenAddr, profiles, ranges, logger.Named("grpc"))

	logger.Info("starting dtrack", zap.String("gateway", cfg.Gateway), zap.String("listen_addr", cfg.Server.ListenAddr))
	return grpcServer.Run(ctx)
}

func buildBackends(ctx context.Context, cfg *config.Config, logger *zap.Logger) (profile.Gateway, daterange.Source, func(), error) {
	switch cfg.Gateway {
	case config.GatewayPostgres:
		pool, err := pg.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("initialize database pool: %w", err)
		}
		return postgres.NewEmployeeGateway(pool), postgres.NewActiveRangeRepository(pool), pool.Close, nil
	default:
		client := postgrest.NewClient(cfg.API.BaseURL, cfg.API.Timeout)
		return client, client, func() {}, nil
	}
}
