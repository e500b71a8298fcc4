package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string   `envconfig:"SERVICE_NAME" default:"agora"`
	HTTPPort     string   `envconfig:"HTTP_PORT" default:"8080"`
	PostgresDSN  string   `envconfig:"POSTGRES_DSN"`
	RedisURL     string   `envconfig:"REDIS_URL"`
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`

	// LedgerGenesisUnix anchors the block clock; zero means process start.
	LedgerGenesisUnix   int64         `envconfig:"LEDGER_GENESIS_UNIX"`
	LedgerBlockInterval time.Duration `envconfig:"LEDGER_BLOCK_INTERVAL" default:"1s"`

	TreasuryAccount string `envconfig:"TREASURY_ACCOUNT" default:"governance-treasury"`
	MotionDeposit   uint64 `envconfig:"MOTION_DEPOSIT" default:"50"`

	IdempotencyTTL time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"24h"`

	EnableOutboxRelay       bool          `envconfig:"ENABLE_OUTBOX_RELAY" default:"true"`
	EnableDeadlineFinalizer bool          `envconfig:"ENABLE_DEADLINE_FINALIZER" default:"true"`
	WorkerPollInterval      time.Duration `envconfig:"WORKER_POLL_INTERVAL" default:"5s"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
