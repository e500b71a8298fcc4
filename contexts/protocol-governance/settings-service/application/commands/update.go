package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "agora/contexts/protocol-governance/settings-service/application"
	"agora/contexts/protocol-governance/settings-service/domain/entities"
	domainerrors "agora/contexts/protocol-governance/settings-service/domain/errors"
	"agora/contexts/protocol-governance/settings-service/ports"
	"agora/internal/shared/govexec"
)

type UpdateSettingCommand struct {
	Key   string
	Value uint64
}

// SettingsUseCase owns every write to the parameter registry. Updates are
// accepted only from callers carrying governance execution authority; the
// HTTP transport never attaches it, so the sole write path in production is
// motion execution.
type SettingsUseCase struct {
	Settings ports.SettingsRepository
	Ledger   ports.LedgerClock
	Logger   *slog.Logger
}

// UpdateSetting overwrites the value of a known parameter and stamps the
// write with the current ledger height. Unknown keys are rejected; the
// registry is bootstrap-defined, not open-ended.
func (uc SettingsUseCase) UpdateSetting(ctx context.Context, cmd UpdateSettingCommand) (entities.Setting, error) {
	logger := application.ResolveLogger(uc.Logger)

	if !govexec.IsExecutionAuthority(ctx) {
		return entities.Setting{}, domainerrors.ErrUnauthorized
	}
	key := strings.TrimSpace(cmd.Key)
	if key == "" {
		return entities.Setting{}, domainerrors.ErrInvalidKey
	}

	setting, err := uc.Settings.GetSetting(ctx, key)
	if err != nil {
		return entities.Setting{}, err
	}
	height, err := uc.Ledger.Height(ctx)
	if err != nil {
		return entities.Setting{}, err
	}

	setting.Value = cmd.Value
	setting.LastUpdated = height
	if err := uc.Settings.SaveSetting(ctx, setting); err != nil {
		return entities.Setting{}, err
	}

	logger.Info("setting updated",
		"event", "governance_setting_updated",
		"module", "protocol-governance/settings-service",
		"layer", "application",
		"key", setting.Key,
		"value", setting.Value,
		"height", height,
	)
	return setting, nil
}

// Bootstrap installs the default parameter set, skipping keys that already
// exist so redeploys never clobber governed values. Safe to call on every
// process start.
func (uc SettingsUseCase) Bootstrap(ctx context.Context) error {
	logger := application.ResolveLogger(uc.Logger)

	installed := 0
	for _, setting := range entities.Defaults() {
		_, err := uc.Settings.GetSetting(ctx, setting.Key)
		if err == nil {
			continue
		}
		if !errors.Is(err, domainerrors.ErrSettingNotFound) {
			return err
		}
		if err := uc.Settings.SaveSetting(ctx, setting); err != nil {
			return err
		}
		installed++
	}

	logger.Info("settings bootstrapped",
		"event", "governance_settings_bootstrapped",
		"module", "protocol-governance/settings-service",
		"layer", "application",
		"installed", installed,
	)
	return nil
}
