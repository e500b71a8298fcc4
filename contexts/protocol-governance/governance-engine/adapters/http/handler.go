package httpadapter

import (
	"context"
	"log/slog"

	"agora/contexts/protocol-governance/governance-engine/application/commands"
	"agora/contexts/protocol-governance/governance-engine/application/queries"
	"agora/contexts/protocol-governance/governance-engine/domain/entities"
	httptransport "agora/contexts/protocol-governance/governance-engine/transport/http"
)

type Handler struct {
	Motions   commands.MotionUseCase
	Ballots   commands.BallotUseCase
	Lifecycle commands.LifecycleUseCase
	Queries   queries.MotionQueryUseCase
	Logger    *slog.Logger
}

func (h Handler) CreateMotionHandler(
	ctx context.Context,
	actorID string,
	idempotencyKey string,
	req httptransport.CreateMotionRequest,
) (httptransport.MotionResponse, error) {
	result, err := h.Motions.CreateMotion(ctx, commands.CreateMotionCommand{
		Proposer:       actorID,
		IdempotencyKey: idempotencyKey,
		Title:          req.Title,
		Body:           req.Body,
		Category:       entities.MotionCategory(req.Category),
		VotingDuration: req.VotingDuration,
	})
	if err != nil {
		return httptransport.MotionResponse{}, err
	}
	resp := mapMotion(result.Motion)
	resp.Replayed = result.Replayed
	return resp, nil
}

func (h Handler) AddActionHandler(
	ctx context.Context,
	actorID string,
	motionID uint64,
	req httptransport.AddActionRequest,
) (httptransport.ActionResponse, error) {
	action, err := h.Motions.AddAction(ctx, commands.AddActionCommand{
		MotionID:   motionID,
		Caller:     actorID,
		Kind:       entities.ActionKind(req.Kind),
		SettingKey: req.SettingKey,
		NewValue:   req.NewValue,
		Recipient:  req.Recipient,
		Amount:     req.Amount,
	})
	if err != nil {
		return httptransport.ActionResponse{}, err
	}
	return mapAction(action), nil
}

func (h Handler) ActivateMotionHandler(ctx context.Context, actorID string, motionID uint64) (httptransport.MotionResponse, error) {
	motion, err := h.Motions.ActivateMotion(ctx, commands.ActivateMotionCommand{
		MotionID: motionID,
		Caller:   actorID,
	})
	if err != nil {
		return httptransport.MotionResponse{}, err
	}
	return mapMotion(motion), nil
}

func (h Handler) CastBallotHandler(
	ctx context.Context,
	actorID string,
	motionID uint64,
	req httptransport.CastBallotRequest,
) (httptransport.BallotResponse, error) {
	result, err := h.Ballots.CastBallot(ctx, commands.CastBallotCommand{
		MotionID: motionID,
		Voter:    actorID,
		Choice:   entities.BallotChoice(req.Choice),
	})
	if err != nil {
		return httptransport.BallotResponse{}, err
	}
	return httptransport.BallotResponse{
		MotionID: result.Ballot.MotionID,
		Voter:    result.Ballot.Voter,
		Choice:   string(result.Ballot.Choice),
		Weight:   result.Ballot.Weight,
		CastAt:   result.Ballot.CastAt,
		Recast:   result.Recast,
	}, nil
}

func (h Handler) FinalizeMotionHandler(ctx context.Context, motionID uint64) (httptransport.FinalizeResponse, error) {
	result, err := h.Lifecycle.FinalizeMotion(ctx, commands.FinalizeMotionCommand{MotionID: motionID})
	if err != nil {
		return httptransport.FinalizeResponse{}, err
	}
	return httptransport.FinalizeResponse{
		MotionID:        result.Motion.MotionID,
		Status:          string(result.Motion.Status),
		ApprovalBp:      result.Outcome.ApprovalBp,
		ParticipationBp: result.Outcome.ParticipationBp,
		TotalWeight:     result.Outcome.TotalWeight,
	}, nil
}

func (h Handler) ExecuteMotionHandler(ctx context.Context, motionID uint64) (httptransport.MotionResponse, error) {
	motion, err := h.Lifecycle.ExecuteMotion(ctx, commands.ExecuteMotionCommand{MotionID: motionID})
	if err != nil {
		return httptransport.MotionResponse{}, err
	}
	return mapMotion(motion), nil
}

func (h Handler) GetMotionHandler(ctx context.Context, motionID uint64) (httptransport.MotionResponse, error) {
	motion, err := h.Queries.GetMotion(ctx, motionID)
	if err != nil {
		return httptransport.MotionResponse{}, err
	}
	return mapMotion(motion), nil
}

func (h Handler) GetStatusHandler(ctx context.Context, motionID uint64) (httptransport.MotionStatusResponse, error) {
	status, err := h.Queries.GetStatus(ctx, motionID)
	if err != nil {
		return httptransport.MotionStatusResponse{}, err
	}
	return httptransport.MotionStatusResponse{
		MotionID: motionID,
		Status:   string(status),
	}, nil
}

func (h Handler) GetBallotHandler(ctx context.Context, motionID uint64, voter string) (httptransport.BallotResponse, error) {
	ballot, err := h.Queries.GetBallot(ctx, motionID, voter)
	if err != nil {
		return httptransport.BallotResponse{}, err
	}
	return httptransport.BallotResponse{
		MotionID: ballot.MotionID,
		Voter:    ballot.Voter,
		Choice:   string(ballot.Choice),
		Weight:   ballot.Weight,
		CastAt:   ballot.CastAt,
	}, nil
}

func (h Handler) ListMotionsHandler(ctx context.Context) (httptransport.MotionListResponse, error) {
	motions, err := h.Queries.ListMotions(ctx)
	if err != nil {
		return httptransport.MotionListResponse{}, err
	}
	items := make([]httptransport.MotionResponse, 0, len(motions))
	for _, motion := range motions {
		items = append(items, mapMotion(motion))
	}
	return httptransport.MotionListResponse{Items: items}, nil
}

func (h Handler) ListActionsHandler(ctx context.Context, motionID uint64) (httptransport.ActionListResponse, error) {
	actions, err := h.Queries.ListActions(ctx, motionID)
	if err != nil {
		return httptransport.ActionListResponse{}, err
	}
	items := make([]httptransport.ActionResponse, 0, len(actions))
	for _, action := range actions {
		items = append(items, mapAction(action))
	}
	return httptransport.ActionListResponse{Items: items}, nil
}

func (h Handler) MotionTallyHandler(ctx context.Context, motionID uint64) (httptransport.TallyResponse, error) {
	motion, outcome, err := h.Queries.MotionTally(ctx, motionID)
	if err != nil {
		return httptransport.TallyResponse{}, err
	}
	return httptransport.TallyResponse{
		MotionID:           motion.MotionID,
		YesWeight:          motion.YesWeight,
		NoWeight:           motion.NoWeight,
		AbstainWeight:      motion.AbstainWeight,
		TotalWeight:        outcome.TotalWeight,
		ApprovalBp:         outcome.ApprovalBp,
		ParticipationBp:    outcome.ParticipationBp,
		RequiredMajorityBp: motion.RequiredMajorityBp,
		MinParticipationBp: motion.MinParticipationBp,
		Passing:            outcome.Passed,
	}, nil
}

func mapMotion(motion entities.Motion) httptransport.MotionResponse {
	return httptransport.MotionResponse{
		MotionID:           motion.MotionID,
		Title:              motion.Title,
		Body:               motion.Body,
		Proposer:           motion.Proposer,
		Category:           string(motion.Category),
		Status:             string(motion.Status),
		CreatedAt:          motion.CreatedAt,
		VotingStarts:       motion.VotingStarts,
		VotingEnds:         motion.VotingEnds,
		RequiredMajorityBp: motion.RequiredMajorityBp,
		MinParticipationBp: motion.MinParticipationBp,
		YesWeight:          motion.YesWeight,
		NoWeight:           motion.NoWeight,
		AbstainWeight:      motion.AbstainWeight,
	}
}

func mapAction(action entities.MotionAction) httptransport.ActionResponse {
	return httptransport.ActionResponse{
		MotionID:   action.MotionID,
		ActionID:   action.ActionID,
		Kind:       string(action.Kind),
		SettingKey: action.SettingKey,
		NewValue:   action.NewValue,
		Recipient:  action.Recipient,
		Amount:     action.Amount,
	}
}
