package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "agora/contexts/protocol-governance/governance-engine/application"
	"agora/contexts/protocol-governance/governance-engine/domain/entities"
	domainerrors "agora/contexts/protocol-governance/governance-engine/domain/errors"
	"agora/contexts/protocol-governance/governance-engine/ports"
)

type CastBallotCommand struct {
	MotionID uint64
	Voter    string
	Choice   entities.BallotChoice
}

type CastBallotResult struct {
	Ballot entities.Ballot
	Motion entities.Motion
	Recast bool
}

// BallotUseCase owns cast/recast. The tally invariant it maintains: at every
// observable instant the three buckets sum to the sum of all live ballot
// weights for the motion.
type BallotUseCase struct {
	Motions ports.MotionRepository
	Bank    ports.TokenBank
	Ledger  ports.LedgerClock
	Outbox  ports.OutboxWriter
	Clock   ports.Clock
	IDGen   ports.IDGenerator
	Logger  *slog.Logger
}

// CastBallot records or replaces the caller's ballot. A recast removes the
// prior weight from its old bucket and credits a freshly measured balance to
// the new bucket; both the ballot and the tallies commit together.
func (uc BallotUseCase) CastBallot(ctx context.Context, cmd CastBallotCommand) (CastBallotResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	voter := strings.TrimSpace(cmd.Voter)
	logger.Info("ballot cast processing started",
		"event", "governance_ballot_cast_started",
		"module", "protocol-governance/governance-engine",
		"layer", "application",
		"motion_id", cmd.MotionID,
		"voter", voter,
		"choice", string(cmd.Choice),
	)
	if voter == "" || !cmd.Choice.Valid() {
		logger.Warn("ballot cast validation failed",
			"event", "governance_ballot_cast_validation_failed",
			"module", "protocol-governance/governance-engine",
			"layer", "application",
			"motion_id", cmd.MotionID,
			"voter", voter,
		)
		return CastBallotResult{}, domainerrors.ErrInvalidChoice
	}

	motion, err := uc.Motions.GetMotion(ctx, cmd.MotionID)
	if err != nil {
		return CastBallotResult{}, err
	}
	if motion.Status != entities.MotionStatusActive {
		return CastBallotResult{}, domainerrors.ErrInvalidStatus
	}

	height, err := uc.Ledger.Height(ctx)
	if err != nil {
		return CastBallotResult{}, err
	}
	if height < motion.VotingStarts {
		return CastBallotResult{}, domainerrors.ErrVotingNotOpen
	}
	if height >= motion.VotingEnds {
		return CastBallotResult{}, domainerrors.ErrVotingClosed
	}

	balance, err := uc.Bank.BalanceOf(ctx, voter)
	if err != nil {
		logger.Error("ballot cast balance query failed",
			"event", "governance_ballot_balance_failed",
			"module", "protocol-governance/governance-engine",
			"layer", "application",
			"motion_id", cmd.MotionID,
			"voter", voter,
			"error", err.Error(),
		)
		return CastBallotResult{}, domainerrors.ErrBalanceQuery
	}
	if balance == 0 {
		return CastBallotResult{}, domainerrors.ErrNoVotingPower
	}

	// Weight is re-measured on every cast: a recast reflects the voter's
	// current balance, not the one recorded at the original cast. The
	// repository debits any prior ballot and credits this one in a single
	// commit, so the buckets always sum to the live ballot weights even
	// under concurrent casts.
	ballot := entities.Ballot{
		MotionID: cmd.MotionID,
		Voter:    voter,
		Choice:   cmd.Choice,
		Weight:   balance,
		CastAt:   height,
	}
	motion, recast, err := uc.Motions.SaveBallotWithTallies(ctx, ballot)
	if err != nil {
		return CastBallotResult{}, err
	}

	if err := uc.appendBallotEvent(ctx, motion, ballot, recast); err != nil {
		return CastBallotResult{}, err
	}

	logger.Info("ballot cast",
		"event", "governance_ballot_cast",
		"module", "protocol-governance/governance-engine",
		"layer", "application",
		"motion_id", cmd.MotionID,
		"voter", voter,
		"choice", string(cmd.Choice),
		"weight", balance,
		"recast", recast,
	)
	return CastBallotResult{Ballot: ballot, Motion: motion, Recast: recast}, nil
}

func (uc BallotUseCase) appendBallotEvent(
	ctx context.Context,
	motion entities.Motion,
	ballot entities.Ballot,
	recast bool,
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
	envelope, err := newGovernanceEnvelope(eventID, "ballot.cast", motion.MotionID, now, map[string]any{
		"motion_id":      motion.MotionID,
		"voter":          ballot.Voter,
		"choice":         string(ballot.Choice),
		"weight":         ballot.Weight,
		"cast_at":        ballot.CastAt,
		"recast":         recast,
		"yes_weight":     motion.YesWeight,
		"no_weight":      motion.NoWeight,
		"abstain_weight": motion.AbstainWeight,
		"occurred_at":    now.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}
