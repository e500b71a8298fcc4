package workers

import (
	"context"
	"errors"
	"log/slog"

	application "agora/contexts/protocol-governance/governance-engine/application"
	"agora/contexts/protocol-governance/governance-engine/application/commands"
	"agora/contexts/protocol-governance/governance-engine/domain/entities"
	domainerrors "agora/contexts/protocol-governance/governance-engine/domain/errors"
	"agora/contexts/protocol-governance/governance-engine/ports"
)

// DeadlineFinalizer finalizes active motions whose voting window has closed,
// so outcomes land without waiting for an external finalize call.
type DeadlineFinalizer struct {
	Motions   ports.MotionRepository
	Lifecycle commands.LifecycleUseCase
	Ledger    ports.LedgerClock
	Logger    *slog.Logger
}

// RunOnce scans active motions and finalizes each one past its deadline.
// Motions that were finalized concurrently are skipped; any other failure
// stops the sweep so the next cycle retries.
func (f DeadlineFinalizer) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(f.Logger)

	height, err := f.Ledger.Height(ctx)
	if err != nil {
		return err
	}
	active, err := f.Motions.ListMotionsByStatus(ctx, entities.MotionStatusActive)
	if err != nil {
		logger.Error("governance finalizer list failed",
			"event", "governance_finalizer_list_failed",
			"module", "protocol-governance/governance-engine",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	finalized := 0
	for _, motion := range active {
		if height < motion.VotingEnds {
			continue
		}
		result, err := f.Lifecycle.FinalizeMotion(ctx, commands.FinalizeMotionCommand{MotionID: motion.MotionID})
		if err != nil {
			if errors.Is(err, domainerrors.ErrInvalidStatus) || errors.Is(err, domainerrors.ErrTooEarly) {
				continue
			}
			return err
		}
		finalized++
		logger.Info("governance finalizer closed motion",
			"event", "governance_finalizer_motion_closed",
			"module", "protocol-governance/governance-engine",
			"layer", "worker",
			"motion_id", motion.MotionID,
			"status", string(result.Motion.Status),
			"approval_bp", result.Outcome.ApprovalBp,
			"participation_bp", result.Outcome.ParticipationBp,
		)
	}

	if finalized > 0 {
		logger.Info("governance finalizer cycle completed",
			"event", "governance_finalizer_completed",
			"module", "protocol-governance/governance-engine",
			"layer", "worker",
			"height", height,
			"finalized_count", finalized,
		)
	}
	return nil
}
