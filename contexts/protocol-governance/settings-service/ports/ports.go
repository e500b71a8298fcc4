package ports

import (
	"context"

	"agora/contexts/protocol-governance/settings-service/domain/entities"
)

// SettingsRepository persists the protocol parameter registry.
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (entities.Setting, error)
	ListSettings(ctx context.Context) ([]entities.Setting, error)
	// SaveSetting upserts one parameter row.
	SaveSetting(ctx context.Context, setting entities.Setting) error
}

// LedgerClock reports the host ledger's current block height, used to stamp
// parameter writes.
type LedgerClock interface {
	Height(ctx context.Context) (uint64, error)
}
