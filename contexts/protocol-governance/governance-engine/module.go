package governanceengine

import (
	"context"
	"log/slog"
	"time"

	httpadapter "agora/contexts/protocol-governance/governance-engine/adapters/http"
	"agora/contexts/protocol-governance/governance-engine/adapters/memory"
	"agora/contexts/protocol-governance/governance-engine/application/commands"
	"agora/contexts/protocol-governance/governance-engine/application/queries"
	"agora/contexts/protocol-governance/governance-engine/ports"
)

type Module struct {
	Handler   httpadapter.Handler
	Motions   commands.MotionUseCase
	Ballots   commands.BallotUseCase
	Lifecycle commands.LifecycleUseCase
	Queries   queries.MotionQueryUseCase

	// In-memory wiring extras, nil under production wiring.
	Store   *memory.Store
	Bank    *memory.TokenBank
	Effects *memory.EffectRunner
}

type Dependencies struct {
	Motions        ports.MotionRepository
	Settings       ports.SettingsSource
	Bank           ports.TokenBank
	Effects        ports.EffectRunner
	Ledger         ports.LedgerClock
	Idempotency    ports.IdempotencyStore
	Outbox         ports.OutboxWriter
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	IdempotencyTTL time.Duration
	Treasury       string
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	motionUseCase := commands.MotionUseCase{
		Motions:        deps.Motions,
		Settings:       deps.Settings,
		Bank:           deps.Bank,
		Ledger:         deps.Ledger,
		Idempotency:    deps.Idempotency,
		Outbox:         deps.Outbox,
		Clock:          deps.Clock,
		IDGen:          deps.IDGen,
		IdempotencyTTL: deps.IdempotencyTTL,
		Treasury:       deps.Treasury,
		Logger:         deps.Logger,
	}
	ballotUseCase := commands.BallotUseCase{
		Motions: deps.Motions,
		Bank:    deps.Bank,
		Ledger:  deps.Ledger,
		Outbox:  deps.Outbox,
		Clock:   deps.Clock,
		IDGen:   deps.IDGen,
		Logger:  deps.Logger,
	}
	lifecycleUseCase := commands.LifecycleUseCase{
		Motions:  deps.Motions,
		Settings: deps.Settings,
		Effects:  deps.Effects,
		Ledger:   deps.Ledger,
		Outbox:   deps.Outbox,
		Clock:    deps.Clock,
		IDGen:    deps.IDGen,
		Logger:   deps.Logger,
	}
	queryUseCase := queries.MotionQueryUseCase{
		Motions: deps.Motions,
	}
	return Module{
		Handler: httpadapter.Handler{
			Motions:   motionUseCase,
			Ballots:   ballotUseCase,
			Lifecycle: lifecycleUseCase,
			Queries:   queryUseCase,
			Logger:    deps.Logger,
		},
		Motions:   motionUseCase,
		Ballots:   ballotUseCase,
		Lifecycle: lifecycleUseCase,
		Queries:   queryUseCase,
	}
}

// DefaultTreasury is the engine's deposit-holding account.
const DefaultTreasury = "governance-treasury"

// DefaultMotionDeposit is the creation deposit installed at bootstrap, in
// weight units.
const DefaultMotionDeposit uint64 = 50

// NewInMemoryModule wires the module against the in-memory store, token bank
// and effect runner, seeded with the bootstrap protocol defaults. Tests and
// single-process deployments use it directly.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	bank := memory.NewTokenBank()
	effects := &memory.EffectRunner{
		Store:    store,
		Bank:     bank,
		Treasury: DefaultTreasury,
	}

	_ = store.SetMotionDeposit(context.Background(), DefaultMotionDeposit)
	store.SetUintSetting(ports.SettingVotingDelay, 1440)
	store.SetUintSetting(ports.SettingVotingDuration, 10080)
	store.SetUintSetting(ports.SettingExecutionDelay, 1440)
	store.SetUintSetting(ports.SettingMinMotionThreshold, 100)
	store.SetUintSetting(ports.SettingQuorumBp, 1000)
	store.SetUintSetting(ports.SettingSimpleMajorityBp, 5000)

	module := NewModule(Dependencies{
		Motions:        store,
		Settings:       store,
		Bank:           bank,
		Effects:        effects,
		Ledger:         store,
		Idempotency:    store,
		Outbox:         store,
		Clock:          store,
		IDGen:          store,
		IdempotencyTTL: 24 * time.Hour,
		Treasury:       DefaultTreasury,
		Logger:         logger,
	})
	module.Store = store
	module.Bank = bank
	module.Effects = effects
	return module
}
