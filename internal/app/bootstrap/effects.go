package bootstrap

import (
	"context"
	"strconv"

	"agora/contexts/protocol-governance/governance-engine/domain/entities"
	governanceerrors "agora/contexts/protocol-governance/governance-engine/domain/errors"
	governanceports "agora/contexts/protocol-governance/governance-engine/ports"
	settingscommands "agora/contexts/protocol-governance/settings-service/application/commands"
)

// governanceEffects is the production effect runner: parameter actions land
// in the settings registry, fund actions move treasury tokens. The caller's
// context carries the execution authority the settings update demands.
type governanceEffects struct {
	settings settingscommands.SettingsUseCase
	bank     governanceports.TokenBank
	treasury string
}

func (e governanceEffects) RunEffect(ctx context.Context, action entities.MotionAction) error {
	switch action.Kind {
	case entities.ActionKindSetParameter:
		value, err := strconv.ParseUint(action.NewValue, 10, 64)
		if err != nil {
			return governanceerrors.ErrInvalidAction
		}
		_, err = e.settings.UpdateSetting(ctx, settingscommands.UpdateSettingCommand{
			Key:   action.SettingKey,
			Value: value,
		})
		return err
	case entities.ActionKindTransferFunds:
		return e.bank.Transfer(ctx, action.Amount, e.treasury, action.Recipient)
	default:
		return governanceerrors.ErrInvalidActionKind
	}
}
