package settingsservice

import (
	"context"
	"log/slog"

	httpadapter "agora/contexts/protocol-governance/settings-service/adapters/http"
	"agora/contexts/protocol-governance/settings-service/adapters/memory"
	"agora/contexts/protocol-governance/settings-service/application/commands"
	"agora/contexts/protocol-governance/settings-service/application/queries"
	"agora/contexts/protocol-governance/settings-service/ports"
)

type Module struct {
	Handler  httpadapter.Handler
	Commands commands.SettingsUseCase
	Queries  queries.SettingsQueryUseCase

	// In-memory wiring extra, nil under production wiring.
	Store *memory.Store
}

type Dependencies struct {
	Settings ports.SettingsRepository
	Ledger   ports.LedgerClock
	Logger   *slog.Logger
}

func NewModule(deps Dependencies) Module {
	settingsUseCase := commands.SettingsUseCase{
		Settings: deps.Settings,
		Ledger:   deps.Ledger,
		Logger:   deps.Logger,
	}
	queryUseCase := queries.SettingsQueryUseCase{
		Settings: deps.Settings,
	}
	return Module{
		Handler: httpadapter.Handler{
			Commands: settingsUseCase,
			Queries:  queryUseCase,
			Logger:   deps.Logger,
		},
		Commands: settingsUseCase,
		Queries:  queryUseCase,
	}
}

// NewInMemoryModule wires the registry against the in-memory store with the
// bootstrap defaults installed.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Settings: store,
		Ledger:   store,
		Logger:   logger,
	})
	module.Store = store
	_ = module.Commands.Bootstrap(context.Background())
	return module
}
