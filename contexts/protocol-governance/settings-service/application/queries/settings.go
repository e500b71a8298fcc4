package queries

import (
	"context"
	"strings"

	"agora/contexts/protocol-governance/settings-service/domain/entities"
	domainerrors "agora/contexts/protocol-governance/settings-service/domain/errors"
	"agora/contexts/protocol-governance/settings-service/ports"
)

type SettingsQueryUseCase struct {
	Settings ports.SettingsRepository
}

func (uc SettingsQueryUseCase) GetSetting(ctx context.Context, key string) (entities.Setting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return entities.Setting{}, domainerrors.ErrInvalidKey
	}
	return uc.Settings.GetSetting(ctx, key)
}

func (uc SettingsQueryUseCase) ListSettings(ctx context.Context) ([]entities.Setting, error) {
	return uc.Settings.ListSettings(ctx)
}

// UintSetting answers the governance engine's parameter reads. The method
// shape matches the engine's settings port so the query use case plugs in
// directly.
func (uc SettingsQueryUseCase) UintSetting(ctx context.Context, key string) (uint64, error) {
	setting, err := uc.GetSetting(ctx, key)
	if err != nil {
		return 0, err
	}
	return setting.Value, nil
}
