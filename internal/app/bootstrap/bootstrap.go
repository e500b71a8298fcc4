package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	governanceengine "agora/contexts/protocol-governance/governance-engine"
	governancememory "agora/contexts/protocol-governance/governance-engine/adapters/memory"
	governancepostgres "agora/contexts/protocol-governance/governance-engine/adapters/postgres"
	governanceredis "agora/contexts/protocol-governance/governance-engine/adapters/redis"
	governanceworkers "agora/contexts/protocol-governance/governance-engine/application/workers"
	governanceports "agora/contexts/protocol-governance/governance-engine/ports"
	settingsservice "agora/contexts/protocol-governance/settings-service"
	settingspostgres "agora/contexts/protocol-governance/settings-service/adapters/postgres"
	"agora/internal/platform/cache"
	"agora/internal/platform/config"
	"agora/internal/platform/db"
	"agora/internal/platform/httpserver"
	"agora/internal/platform/ledger"
	"agora/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres *db.Postgres

	outboxRelay governanceworkers.OutboxRelay
	finalizer   governanceworkers.DeadlineFinalizer

	enableRelay     bool
	enableFinalizer bool
	pollInterval    time.Duration
	logger          *slog.Logger
}

type core struct {
	postgres   *db.Postgres
	repo       *governancepostgres.Repository
	clock      *ledger.BlockClock
	governance governanceengine.Module
	settings   settingsservice.Module
}

func buildCore(cfg config.Config, logger *slog.Logger) (*core, error) {
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	var genesis time.Time
	if cfg.LedgerGenesisUnix > 0 {
		genesis = time.Unix(cfg.LedgerGenesisUnix, 0)
	}
	clock, err := ledger.NewBlockClock(genesis, cfg.LedgerBlockInterval)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	ctx := context.Background()

	settingsRepo := settingspostgres.NewRepository(pg.DB, logger)
	if err := settingsRepo.AutoMigrate(); err != nil {
		_ = pg.Close()
		return nil, err
	}
	settingsModule := settingsservice.NewModule(settingsservice.Dependencies{
		Settings: settingsRepo,
		Ledger:   clock,
		Logger:   logger,
	})
	if err := settingsModule.Commands.Bootstrap(ctx); err != nil {
		_ = pg.Close()
		return nil, err
	}

	repo := governancepostgres.NewRepository(pg.DB, logger)
	if err := repo.AutoMigrate(); err != nil {
		_ = pg.Close()
		return nil, err
	}
	if err := repo.SetMotionDeposit(ctx, cfg.MotionDeposit); err != nil {
		_ = pg.Close()
		return nil, err
	}

	var bank governanceports.TokenBank
	var idempotency governanceports.IdempotencyStore
	if strings.TrimSpace(cfg.RedisURL) != "" {
		rdb, err := cache.Connect(cfg.RedisURL)
		if err != nil {
			_ = pg.Close()
			return nil, err
		}
		bank = governanceredis.NewTokenBank(rdb)
		idempotency = governanceredis.NewIdempotencyStore(rdb)
	} else {
		logger.Warn("redis url missing, using in-process token bank",
			"event", "bootstrap_redis_fallback",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		bank = governancememory.NewTokenBank()
		idempotency = repo
	}

	governanceModule := governanceengine.NewModule(governanceengine.Dependencies{
		Motions:  repo,
		Settings: settingsModule.Queries,
		Bank:     bank,
		Effects: governanceEffects{
			settings: settingsModule.Commands,
			bank:     bank,
			treasury: cfg.TreasuryAccount,
		},
		Ledger:         clock,
		Idempotency:    idempotency,
		Outbox:         repo,
		Clock:          governancepostgres.SystemClock{},
		IDGen:          governancepostgres.UUIDGenerator{},
		IdempotencyTTL: cfg.IdempotencyTTL,
		Treasury:       cfg.TreasuryAccount,
		Logger:         logger,
	})

	return &core{
		postgres:   pg,
		repo:       repo,
		clock:      clock,
		governance: governanceModule,
		settings:   settingsModule,
	}, nil
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	c, err := buildCore(cfg, logger)
	if err != nil {
		return nil, err
	}

	server := httpserver.New(c.governance, c.settings, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: c.postgres,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	c, err := buildCore(cfg, logger)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		_ = c.postgres.Close()
		return nil, err
	}

	return &WorkerApp{
		postgres: c.postgres,
		outboxRelay: governanceworkers.OutboxRelay{
			Outbox:    c.repo,
			Publisher: kafka,
			Clock:     governancepostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		finalizer: governanceworkers.DeadlineFinalizer{
			Motions:   c.repo,
			Lifecycle: c.governance.Lifecycle,
			Ledger:    c.clock,
			Logger:    logger,
		},
		enableRelay:     cfg.EnableOutboxRelay,
		enableFinalizer: cfg.EnableDeadlineFinalizer,
		pollInterval:    cfg.WorkerPollInterval,
		logger:          logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if w.enableFinalizer {
			if err := w.finalizer.RunOnce(ctx); err != nil {
				return err
			}
		}
		if w.enableRelay {
			if err := w.outboxRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
