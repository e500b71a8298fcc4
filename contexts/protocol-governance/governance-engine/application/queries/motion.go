package queries

import (
	"context"
	"strings"

	"agora/contexts/protocol-governance/governance-engine/domain/entities"
	domainerrors "agora/contexts/protocol-governance/governance-engine/domain/errors"
	"agora/contexts/protocol-governance/governance-engine/ports"
)

type MotionQueryUseCase struct {
	Motions ports.MotionRepository
}

func (uc MotionQueryUseCase) GetMotion(ctx context.Context, motionID uint64) (entities.Motion, error) {
	return uc.Motions.GetMotion(ctx, motionID)
}

func (uc MotionQueryUseCase) GetStatus(ctx context.Context, motionID uint64) (entities.MotionStatus, error) {
	motion, err := uc.Motions.GetMotion(ctx, motionID)
	if err != nil {
		return "", err
	}
	return motion.Status, nil
}

func (uc MotionQueryUseCase) GetBallot(ctx context.Context, motionID uint64, voter string) (entities.Ballot, error) {
	ballot, found, err := uc.Motions.GetBallot(ctx, motionID, strings.TrimSpace(voter))
	if err != nil {
		return entities.Ballot{}, err
	}
	if !found {
		return entities.Ballot{}, domainerrors.ErrBallotNotFound
	}
	return ballot, nil
}

func (uc MotionQueryUseCase) ListMotions(ctx context.Context) ([]entities.Motion, error) {
	return uc.Motions.ListMotions(ctx)
}

func (uc MotionQueryUseCase) ListActions(ctx context.Context, motionID uint64) ([]entities.MotionAction, error) {
	if _, err := uc.Motions.GetMotion(ctx, motionID); err != nil {
		return nil, err
	}
	return uc.Motions.ListActions(ctx, motionID)
}

// MotionTally evaluates the motion's current tallies without touching its
// status, so callers can preview the outcome mid-vote.
func (uc MotionQueryUseCase) MotionTally(ctx context.Context, motionID uint64) (entities.Motion, entities.Outcome, error) {
	motion, err := uc.Motions.GetMotion(ctx, motionID)
	if err != nil {
		return entities.Motion{}, entities.Outcome{}, err
	}
	return motion, entities.EvaluateOutcome(motion), nil
}
