package ports

import (
	"context"
	"time"

	"agora/contexts/protocol-governance/governance-engine/domain/entities"
	"agora/internal/shared/events"
	"agora/internal/shared/outbox"
)

// Protocol setting keys the engine snapshots at motion creation and reads at
// lifecycle gates. The settings service installs defaults for all of them.
const (
	SettingVotingDelay        = "voting-delay"
	SettingVotingDuration     = "voting-duration"
	SettingExecutionDelay     = "execution-delay"
	SettingMinMotionThreshold = "min-motion-threshold"
	SettingQuorumBp           = "quorum-bp"
	SettingSimpleMajorityBp   = "simple-majority-bp"
)

// MotionRepository owns the four governance collections plus the two scalar
// counters (next motion id, motion deposit). Combined write methods exist
// where the spec requires one atomic commit.
type MotionRepository interface {
	// InsertMotion allocates the next sequential motion id and persists the
	// motion under it in one commit. The assigned id is returned and never
	// reused.
	InsertMotion(ctx context.Context, motion entities.Motion) (uint64, error)
	SaveMotion(ctx context.Context, motion entities.Motion) error
	GetMotion(ctx context.Context, motionID uint64) (entities.Motion, error)
	ListMotions(ctx context.Context) ([]entities.Motion, error)
	ListMotionsByStatus(ctx context.Context, status entities.MotionStatus) ([]entities.Motion, error)

	// InsertAction allocates the next per-motion action id and persists the
	// action under (motion_id, action_id).
	InsertAction(ctx context.Context, action entities.MotionAction) (uint64, error)
	ListActions(ctx context.Context, motionID uint64) ([]entities.MotionAction, error)

	GetBallot(ctx context.Context, motionID uint64, voter string) (entities.Ballot, bool, error)
	ListBallots(ctx context.Context, motionID uint64) ([]entities.Ballot, error)
	// SaveBallotWithTallies upserts the ballot and reconciles the motion's
	// tally buckets in the same commit: any prior ballot's weight leaves its
	// old bucket as the new weight enters the new one, serialized per motion
	// so concurrent casts never lose weight. Returns the reconciled motion
	// and whether a prior ballot was replaced.
	SaveBallotWithTallies(ctx context.Context, ballot entities.Ballot) (entities.Motion, bool, error)

	MotionDeposit(ctx context.Context) (uint64, error)
	SetMotionDeposit(ctx context.Context, amount uint64) error
}

// TokenBank is the external token-balance provider. Implementations surface
// ErrBalanceQuery / ErrTransferFailed from domain errors on collaborator
// failure.
type TokenBank interface {
	BalanceOf(ctx context.Context, account string) (uint64, error)
	Transfer(ctx context.Context, amount uint64, from string, to string) error
}

// EffectRunner applies one attached action during motion execution.
type EffectRunner interface {
	RunEffect(ctx context.Context, action entities.MotionAction) error
}

// LedgerClock exposes the host ledger's monotonically increasing height.
type LedgerClock interface {
	Height(ctx context.Context) (uint64, error)
}

// SettingsSource reads unsigned-integer protocol settings. The settings
// service satisfies it directly.
type SettingsSource interface {
	UintSetting(ctx context.Context, key string) (uint64, error)
}

type IdempotencyRecord struct {
	Key         string
	RequestHash string
	Ref         string
	ExpiresAt   time.Time
}

// IdempotencyStore guards transport-level retries of write commands. Ledger
// ordering already serializes writes, so commands treat a blank key as
// "no replay protection requested".
type IdempotencyStore interface {
	Get(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	Put(ctx context.Context, record IdempotencyRecord) error
}

type EventEnvelope = events.Envelope

type OutboxMessage = outbox.Message

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
