package commands

import (
	"context"
	"log/slog"
	"time"

	application "agora/contexts/protocol-governance/governance-engine/application"
	"agora/contexts/protocol-governance/governance-engine/domain/entities"
	domainerrors "agora/contexts/protocol-governance/governance-engine/domain/errors"
	"agora/contexts/protocol-governance/governance-engine/ports"
	"agora/internal/shared/govexec"
)

type FinalizeMotionCommand struct {
	MotionID uint64
}

type FinalizeMotionResult struct {
	Motion  entities.Motion
	Outcome entities.Outcome
}

type ExecuteMotionCommand struct {
	MotionID uint64
}

// LifecycleUseCase is the only writer of motion status past activation:
// finalize decides pass/fail at the voting deadline, execute runs attached
// effects after the execution delay.
type LifecycleUseCase struct {
	Motions  ports.MotionRepository
	Settings ports.SettingsSource
	Effects  ports.EffectRunner
	Ledger   ports.LedgerClock
	Outbox   ports.OutboxWriter
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

// FinalizeMotion evaluates tallies against the motion's snapshotted
// thresholds once the voting window has closed. The resulting status is
// irrevocable.
func (uc LifecycleUseCase) FinalizeMotion(ctx context.Context, cmd FinalizeMotionCommand) (FinalizeMotionResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	motion, err := uc.Motions.GetMotion(ctx, cmd.MotionID)
	if err != nil {
		return FinalizeMotionResult{}, err
	}
	if motion.Status != entities.MotionStatusActive {
		return FinalizeMotionResult{}, domainerrors.ErrInvalidStatus
	}
	height, err := uc.Ledger.Height(ctx)
	if err != nil {
		return FinalizeMotionResult{}, err
	}
	if height < motion.VotingEnds {
		return FinalizeMotionResult{}, domainerrors.ErrTooEarly
	}

	outcome := entities.EvaluateOutcome(motion)
	if outcome.Passed {
		motion.Status = entities.MotionStatusPassed
	} else {
		motion.Status = entities.MotionStatusRejected
	}
	if err := uc.Motions.SaveMotion(ctx, motion); err != nil {
		return FinalizeMotionResult{}, err
	}
	if err := uc.appendLifecycleEvent(ctx, "motion.finalized", motion, map[string]any{
		"approval_bp":      outcome.ApprovalBp,
		"participation_bp": outcome.ParticipationBp,
		"total_weight":     outcome.TotalWeight,
		"passed":           outcome.Passed,
	}); err != nil {
		return FinalizeMotionResult{}, err
	}

	logger.Info("motion finalized",
		"event", "governance_motion_finalized",
		"module", "protocol-governance/governance-engine",
		"layer", "application",
		"motion_id", motion.MotionID,
		"status", string(motion.Status),
		"approval_bp", outcome.ApprovalBp,
		"participation_bp", outcome.ParticipationBp,
	)
	return FinalizeMotionResult{Motion: motion, Outcome: outcome}, nil
}

// ExecuteMotion runs every attached action of a passed motion once the
// execution delay has elapsed. Status advances to executed only when all
// effects succeed; on any failure the motion stays passed and the whole call
// may be retried. Effects run under governance execution authority.
func (uc LifecycleUseCase) ExecuteMotion(ctx context.Context, cmd ExecuteMotionCommand) (entities.Motion, error) {
	logger := application.ResolveLogger(uc.Logger)

	motion, err := uc.Motions.GetMotion(ctx, cmd.MotionID)
	if err != nil {
		return entities.Motion{}, err
	}
	if motion.Status != entities.MotionStatusPassed {
		return entities.Motion{}, domainerrors.ErrInvalidStatus
	}
	executionDelay, err := uc.Settings.UintSetting(ctx, ports.SettingExecutionDelay)
	if err != nil {
		return entities.Motion{}, err
	}
	height, err := uc.Ledger.Height(ctx)
	if err != nil {
		return entities.Motion{}, err
	}
	if height < motion.VotingEnds+executionDelay {
		return entities.Motion{}, domainerrors.ErrTooEarly
	}

	actions, err := uc.Motions.ListActions(ctx, cmd.MotionID)
	if err != nil {
		return entities.Motion{}, err
	}

	execCtx := govexec.WithExecutionAuthority(ctx)
	for _, action := range actions {
		if err := uc.Effects.RunEffect(execCtx, action); err != nil {
			logger.Error("motion effect failed",
				"event", "governance_motion_effect_failed",
				"module", "protocol-governance/governance-engine",
				"layer", "application",
				"motion_id", motion.MotionID,
				"action_id", action.ActionID,
				"kind", string(action.Kind),
				"error", err.Error(),
			)
			return entities.Motion{}, domainerrors.ErrEffectFailed
		}
	}

	motion.Status = entities.MotionStatusExecuted
	if err := uc.Motions.SaveMotion(ctx, motion); err != nil {
		return entities.Motion{}, err
	}
	if err := uc.appendLifecycleEvent(ctx, "motion.executed", motion, map[string]any{
		"action_count": len(actions),
	}); err != nil {
		return entities.Motion{}, err
	}

	logger.Info("motion executed",
		"event", "governance_motion_executed",
		"module", "protocol-governance/governance-engine",
		"layer", "application",
		"motion_id", motion.MotionID,
		"action_count", len(actions),
	)
	return motion, nil
}

func (uc LifecycleUseCase) appendLifecycleEvent(
	ctx context.Context,
	eventType string,
	motion entities.Motion,
	metadata map[string]any,
) error {
	if uc.Outbox == nil {
		return nil
	}
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	data := map[string]any{
		"motion_id":   motion.MotionID,
		"status":      string(motion.Status),
		"occurred_at": now.Format(time.RFC3339),
	}
	for key, value := range metadata {
		data[key] = value
	}
	envelope, err := newGovernanceEnvelope(eventID, eventType, motion.MotionID, now, data)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}
