package memory

import (
	"context"
	"strconv"
	"sync"

	"agora/contexts/protocol-governance/governance-engine/domain/entities"
	domainerrors "agora/contexts/protocol-governance/governance-engine/domain/errors"
)

// EffectRunner applies motion actions against the in-memory store and token
// bank. Parameter changes land in the store's settings projection; fund
// transfers move tokens out of the treasury.
type EffectRunner struct {
	mu       sync.Mutex
	Store    *Store
	Bank     *TokenBank
	Treasury string

	failEffects bool
}

// FailEffects makes every RunEffect call fail, leaving the motion passed so
// execution can be retried.
func (r *EffectRunner) FailEffects(fail bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failEffects = fail
}

func (r *EffectRunner) RunEffect(ctx context.Context, action entities.MotionAction) error {
	r.mu.Lock()
	fail := r.failEffects
	r.mu.Unlock()
	if fail {
		return domainerrors.ErrEffectFailed
	}

	switch action.Kind {
	case entities.ActionKindSetParameter:
		value, err := strconv.ParseUint(action.NewValue, 10, 64)
		if err != nil {
			return domainerrors.ErrEffectFailed
		}
		r.Store.SetUintSetting(action.SettingKey, value)
		return nil
	case entities.ActionKindTransferFunds:
		return r.Bank.Transfer(ctx, action.Amount, r.Treasury, action.Recipient)
	default:
		return domainerrors.ErrInvalidActionKind
	}
}
