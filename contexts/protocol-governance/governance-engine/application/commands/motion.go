package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	application "agora/contexts/protocol-governance/governance-engine/application"
	"agora/contexts/protocol-governance/governance-engine/domain/entities"
	domainerrors "agora/contexts/protocol-governance/governance-engine/domain/errors"
	"agora/contexts/protocol-governance/governance-engine/ports"
)

// CreateMotionCommand is the write-model input for motion creation. Proposer
// identity is the authenticated caller, never part of the request body.
type CreateMotionCommand struct {
	Proposer       string
	IdempotencyKey string
	Title          string
	Body           string
	Category       entities.MotionCategory
	VotingDuration uint64
}

type CreateMotionResult struct {
	Motion   entities.Motion
	Replayed bool
}

type AddActionCommand struct {
	MotionID   uint64
	Caller     string
	Kind       entities.ActionKind
	SettingKey string
	NewValue   string
	Recipient  string
	Amount     uint64
}

type ActivateMotionCommand struct {
	MotionID uint64
	Caller   string
}

// MotionUseCase orchestrates motion creation, action attachment and
// activation: stake gate, deposit transfer, settings snapshotting, and
// draft-only mutation rules.
type MotionUseCase struct {
	Motions        ports.MotionRepository
	Settings       ports.SettingsSource
	Bank           ports.TokenBank
	Ledger         ports.LedgerClock
	Idempotency    ports.IdempotencyStore
	Outbox         ports.OutboxWriter
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	IdempotencyTTL time.Duration
	Treasury       string
	Logger         *slog.Logger
}

// CreateMotion runs the creation preconditions in spec order (stake,
// category, duration, deposit transfer) and persists a new draft motion with
// its voting window and thresholds snapshotted from current settings. No
// state is written if any precondition or the deposit transfer fails.
func (uc MotionUseCase) CreateMotion(ctx context.Context, cmd CreateMotionCommand) (CreateMotionResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	proposer := strings.TrimSpace(cmd.Proposer)
	logger.Info("motion create processing started",
		"event", "governance_motion_create_started",
		"module", "protocol-governance/governance-engine",
		"layer", "application",
		"proposer", proposer,
		"category", string(cmd.Category),
	)
	if proposer == "" {
		return CreateMotionResult{}, domainerrors.ErrNotProposer
	}

	now := uc.now()
	requestHash := hashCreateMotionCommand(cmd)
	if motion, replayed, err := uc.replayMotion(ctx, cmd.IdempotencyKey, requestHash, now); err != nil {
		return CreateMotionResult{}, err
	} else if replayed {
		logger.Info("motion create replayed",
			"event", "governance_motion_create_replayed",
			"module", "protocol-governance/governance-engine",
			"layer", "application",
			"motion_id", motion.MotionID,
			"proposer", proposer,
		)
		return CreateMotionResult{Motion: motion, Replayed: true}, nil
	}

	threshold, err := uc.Settings.UintSetting(ctx, ports.SettingMinMotionThreshold)
	if err != nil {
		return CreateMotionResult{}, err
	}
	balance, err := uc.Bank.BalanceOf(ctx, proposer)
	if err != nil {
		logger.Error("motion create balance query failed",
			"event", "governance_motion_create_balance_failed",
			"module", "protocol-governance/governance-engine",
			"layer", "application",
			"proposer", proposer,
			"error", err.Error(),
		)
		return CreateMotionResult{}, domainerrors.ErrBalanceQuery
	}
	if balance < threshold {
		logger.Warn("motion create rejected for insufficient stake",
			"event", "governance_motion_create_stake_rejected",
			"module", "protocol-governance/governance-engine",
			"layer", "application",
			"proposer", proposer,
			"balance", balance,
			"threshold", threshold,
		)
		return CreateMotionResult{}, domainerrors.ErrInsufficientStake
	}
	if !cmd.Category.Valid() {
		return CreateMotionResult{}, domainerrors.ErrInvalidCategory
	}
	if cmd.VotingDuration < entities.MinVotingDuration {
		return CreateMotionResult{}, domainerrors.ErrInvalidDuration
	}

	votingDelay, err := uc.Settings.UintSetting(ctx, ports.SettingVotingDelay)
	if err != nil {
		return CreateMotionResult{}, err
	}
	majorityBp, err := uc.Settings.UintSetting(ctx, ports.SettingSimpleMajorityBp)
	if err != nil {
		return CreateMotionResult{}, err
	}
	quorumBp, err := uc.Settings.UintSetting(ctx, ports.SettingQuorumBp)
	if err != nil {
		return CreateMotionResult{}, err
	}
	height, err := uc.Ledger.Height(ctx)
	if err != nil {
		return CreateMotionResult{}, err
	}

	deposit, err := uc.Motions.MotionDeposit(ctx)
	if err != nil {
		return CreateMotionResult{}, err
	}
	if err := uc.Bank.Transfer(ctx, deposit, proposer, uc.Treasury); err != nil {
		logger.Warn("motion create deposit transfer failed",
			"event", "governance_motion_create_deposit_failed",
			"module", "protocol-governance/governance-engine",
			"layer", "application",
			"proposer", proposer,
			"deposit", deposit,
			"error", err.Error(),
		)
		return CreateMotionResult{}, domainerrors.ErrTransferFailed
	}

	motion := entities.Motion{
		Title:              strings.TrimSpace(cmd.Title),
		Body:               strings.TrimSpace(cmd.Body),
		Proposer:           proposer,
		Category:           cmd.Category,
		Status:             entities.MotionStatusDraft,
		CreatedAt:          height,
		VotingStarts:       height + votingDelay,
		VotingEnds:         height + votingDelay + cmd.VotingDuration,
		RequiredMajorityBp: majorityBp,
		MinParticipationBp: quorumBp,
	}
	motionID, err := uc.Motions.InsertMotion(ctx, motion)
	if err != nil {
		return CreateMotionResult{}, err
	}
	motion.MotionID = motionID

	if err := uc.appendMotionEvent(ctx, "motion.created", motion, now, map[string]any{
		"deposit": deposit,
	}); err != nil {
		return CreateMotionResult{}, err
	}
	if err := uc.rememberMotion(ctx, cmd.IdempotencyKey, requestHash, motionID, now); err != nil {
		return CreateMotionResult{}, err
	}

	logger.Info("motion created",
		"event", "governance_motion_created",
		"module", "protocol-governance/governance-engine",
		"layer", "application",
		"motion_id", motion.MotionID,
		"proposer", motion.Proposer,
		"category", string(motion.Category),
		"voting_starts", motion.VotingStarts,
		"voting_ends", motion.VotingEnds,
	)
	return CreateMotionResult{Motion: motion}, nil
}

// AddAction attaches one effect to a draft motion. Only the proposer may
// attach, only while the motion is draft, and action ids accumulate
// sequentially per motion.
func (uc MotionUseCase) AddAction(ctx context.Context, cmd AddActionCommand) (entities.MotionAction, error) {
	logger := application.ResolveLogger(uc.Logger)
	caller := strings.TrimSpace(cmd.Caller)

	motion, err := uc.Motions.GetMotion(ctx, cmd.MotionID)
	if err != nil {
		return entities.MotionAction{}, err
	}
	if !strings.EqualFold(motion.Proposer, caller) {
		return entities.MotionAction{}, domainerrors.ErrNotProposer
	}
	if motion.Status != entities.MotionStatusDraft {
		return entities.MotionAction{}, domainerrors.ErrInvalidStatus
	}
	if !cmd.Kind.Valid() {
		return entities.MotionAction{}, domainerrors.ErrInvalidActionKind
	}

	action := entities.MotionAction{
		MotionID:   cmd.MotionID,
		Kind:       cmd.Kind,
		SettingKey: strings.TrimSpace(cmd.SettingKey),
		NewValue:   strings.TrimSpace(cmd.NewValue),
		Recipient:  strings.TrimSpace(cmd.Recipient),
		Amount:     cmd.Amount,
	}
	switch cmd.Kind {
	case entities.ActionKindSetParameter:
		if action.SettingKey == "" {
			return entities.MotionAction{}, domainerrors.ErrInvalidAction
		}
	case entities.ActionKindTransferFunds:
		if action.Recipient == "" || action.Amount == 0 {
			return entities.MotionAction{}, domainerrors.ErrInvalidAction
		}
	}

	actionID, err := uc.Motions.InsertAction(ctx, action)
	if err != nil {
		return entities.MotionAction{}, err
	}
	action.ActionID = actionID

	if err := uc.appendMotionEvent(ctx, "motion.action_added", motion, uc.now(), map[string]any{
		"action_id": actionID,
		"kind":      string(action.Kind),
	}); err != nil {
		return entities.MotionAction{}, err
	}

	logger.Info("motion action attached",
		"event", "governance_motion_action_added",
		"module", "protocol-governance/governance-engine",
		"layer", "application",
		"motion_id", cmd.MotionID,
		"action_id", actionID,
		"kind", string(action.Kind),
	)
	return action, nil
}

// ActivateMotion moves a draft motion to active. Activation has no temporal
// gate; cast-time checks gate voting eligibility against the window.
func (uc MotionUseCase) ActivateMotion(ctx context.Context, cmd ActivateMotionCommand) (entities.Motion, error) {
	logger := application.ResolveLogger(uc.Logger)
	caller := strings.TrimSpace(cmd.Caller)

	motion, err := uc.Motions.GetMotion(ctx, cmd.MotionID)
	if err != nil {
		return entities.Motion{}, err
	}
	if !strings.EqualFold(motion.Proposer, caller) {
		return entities.Motion{}, domainerrors.ErrNotProposer
	}
	if motion.Status != entities.MotionStatusDraft {
		return entities.Motion{}, domainerrors.ErrInvalidStatus
	}

	motion.Status = entities.MotionStatusActive
	if err := uc.Motions.SaveMotion(ctx, motion); err != nil {
		return entities.Motion{}, err
	}
	if err := uc.appendMotionEvent(ctx, "motion.activated", motion, uc.now(), nil); err != nil {
		return entities.Motion{}, err
	}

	logger.Info("motion activated",
		"event", "governance_motion_activated",
		"module", "protocol-governance/governance-engine",
		"layer", "application",
		"motion_id", motion.MotionID,
		"voting_starts", motion.VotingStarts,
		"voting_ends", motion.VotingEnds,
	)
	return motion, nil
}

func (uc MotionUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func (uc MotionUseCase) replayMotion(
	ctx context.Context,
	key string,
	requestHash string,
	now time.Time,
) (entities.Motion, bool, error) {
	key = strings.TrimSpace(key)
	if key == "" || uc.Idempotency == nil {
		return entities.Motion{}, false, nil
	}
	record, found, err := uc.Idempotency.Get(ctx, key, now)
	if err != nil {
		return entities.Motion{}, false, err
	}
	if !found {
		return entities.Motion{}, false, nil
	}
	if record.RequestHash != requestHash {
		return entities.Motion{}, false, domainerrors.ErrIdempotencyConflict
	}
	motionID, err := strconv.ParseUint(record.Ref, 10, 64)
	if err != nil {
		return entities.Motion{}, false, domainerrors.ErrIdempotencyConflict
	}
	motion, err := uc.Motions.GetMotion(ctx, motionID)
	if err != nil {
		return entities.Motion{}, false, err
	}
	return motion, true, nil
}

func (uc MotionUseCase) rememberMotion(
	ctx context.Context,
	key string,
	requestHash string,
	motionID uint64,
	now time.Time,
) error {
	key = strings.TrimSpace(key)
	if key == "" || uc.Idempotency == nil {
		return nil
	}
	ttl := uc.IdempotencyTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return uc.Idempotency.Put(ctx, ports.IdempotencyRecord{
		Key:         key,
		RequestHash: requestHash,
		Ref:         strconv.FormatUint(motionID, 10),
		ExpiresAt:   now.Add(ttl),
	})
}

func (uc MotionUseCase) appendMotionEvent(
	ctx context.Context,
	eventType string,
	motion entities.Motion,
	occurredAt time.Time,
	metadata map[string]any,
) error {
	// Outbox is optional for pure read/test wiring, so nil is treated as no-op.
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	data := map[string]any{
		"motion_id":     motion.MotionID,
		"proposer":      motion.Proposer,
		"category":      string(motion.Category),
		"status":        string(motion.Status),
		"voting_starts": motion.VotingStarts,
		"voting_ends":   motion.VotingEnds,
		"occurred_at":   occurredAt.Format(time.RFC3339),
	}
	for key, value := range metadata {
		data[key] = value
	}
	envelope, err := newGovernanceEnvelope(eventID, eventType, motion.MotionID, occurredAt, data)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}

func hashCreateMotionCommand(cmd CreateMotionCommand) string {
	payload := map[string]string{
		"proposer": strings.TrimSpace(cmd.Proposer),
		"title":    strings.TrimSpace(cmd.Title),
		"body":     strings.TrimSpace(cmd.Body),
		"category": string(cmd.Category),
		"duration": strconv.FormatUint(cmd.VotingDuration, 10),
		"op":       "create_motion",
	}
	raw, _ := json.Marshal(payload)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
