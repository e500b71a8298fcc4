package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"agora/contexts/protocol-governance/governance-engine/domain/entities"
	domainerrors "agora/contexts/protocol-governance/governance-engine/domain/errors"
	"agora/contexts/protocol-governance/governance-engine/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// AutoMigrate creates the governance tables and seeds the scalar counters.
func (r *Repository) AutoMigrate() error {
	if err := r.db.AutoMigrate(
		&motionModel{},
		&actionModel{},
		&ballotModel{},
		&counterModel{},
		&idempotencyModel{},
		&outboxModel{},
	); err != nil {
		return err
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create([]counterModel{
		{Name: counterNextMotionID, Value: 1},
		{Name: counterMotionDeposit, Value: 0},
	}).Error
}

func (r *Repository) InsertMotion(ctx context.Context, motion entities.Motion) (uint64, error) {
	var assigned uint64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The increment takes the counter's row lock for the rest of the
		// transaction, serializing id allocation across writers.
		result := tx.Model(&counterModel{}).
			Where("name = ?", counterNextMotionID).
			Update("value", gorm.Expr("value + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		var counter counterModel
		if err := tx.Where("name = ?", counterNextMotionID).First(&counter).Error; err != nil {
			return err
		}
		assigned = counter.Value - 1
		motion.MotionID = assigned
		row := motionModelFromEntity(motion)
		return tx.Create(&row).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domainerrors.ErrMotionExists
		}
		return 0, r.logError("governance_repo_insert_motion_failed", err,
			"proposer", strings.TrimSpace(motion.Proposer),
		)
	}
	return assigned, nil
}

func (r *Repository) SaveMotion(ctx context.Context, motion entities.Motion) error {
	row := motionModelFromEntity(motion)
	result := r.db.WithContext(ctx).Model(&motionModel{}).
		Where("id = ?", motion.MotionID).
		Updates(map[string]any{
			"status":         row.Status,
			"yes_weight":     row.YesWeight,
			"no_weight":      row.NoWeight,
			"abstain_weight": row.AbstainWeight,
		})
	if result.Error != nil {
		return r.logError("governance_repo_save_motion_failed", result.Error,
			"motion_id", motion.MotionID,
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrMotionNotFound
	}
	return nil
}

func (r *Repository) GetMotion(ctx context.Context, motionID uint64) (entities.Motion, error) {
	var row motionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", motionID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Motion{}, domainerrors.ErrMotionNotFound
		}
		return entities.Motion{}, r.logError("governance_repo_get_motion_failed", err, "motion_id", motionID)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListMotions(ctx context.Context) ([]entities.Motion, error) {
	var rows []motionModel
	if err := r.db.WithContext(ctx).Order("id asc").Find(&rows).Error; err != nil {
		return nil, r.logError("governance_repo_list_motions_failed", err)
	}
	items := make([]entities.Motion, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ListMotionsByStatus(ctx context.Context, status entities.MotionStatus) ([]entities.Motion, error) {
	var rows []motionModel
	err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("id asc").
		Find(&rows).Error
	if err != nil {
		return nil, r.logError("governance_repo_list_motions_by_status_failed", err, "status", string(status))
	}
	items := make([]entities.Motion, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) InsertAction(ctx context.Context, action entities.MotionAction) (uint64, error) {
	var assigned uint64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&actionModel{}).
			Where("motion_id = ?", action.MotionID).
			Count(&count).Error; err != nil {
			return err
		}
		assigned = uint64(count)
		action.ActionID = assigned
		row := actionModelFromEntity(action)
		return tx.Create(&row).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domainerrors.ErrConflict
		}
		return 0, r.logError("governance_repo_insert_action_failed", err,
			"motion_id", action.MotionID,
		)
	}
	return assigned, nil
}

func (r *Repository) ListActions(ctx context.Context, motionID uint64) ([]entities.MotionAction, error) {
	var rows []actionModel
	err := r.db.WithContext(ctx).
		Where("motion_id = ?", motionID).
		Order("action_id asc").
		Find(&rows).Error
	if err != nil {
		return nil, r.logError("governance_repo_list_actions_failed", err, "motion_id", motionID)
	}
	items := make([]entities.MotionAction, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetBallot(ctx context.Context, motionID uint64, voter string) (entities.Ballot, bool, error) {
	var row ballotModel
	err := r.db.WithContext(ctx).
		Where("motion_id = ?", motionID).
		Where("voter = ?", strings.TrimSpace(voter)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Ballot{}, false, nil
		}
		return entities.Ballot{}, false, r.logError("governance_repo_get_ballot_failed", err,
			"motion_id", motionID,
			"voter", strings.TrimSpace(voter),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListBallots(ctx context.Context, motionID uint64) ([]entities.Ballot, error) {
	var rows []ballotModel
	err := r.db.WithContext(ctx).
		Where("motion_id = ?", motionID).
		Order("voter asc").
		Find(&rows).Error
	if err != nil {
		return nil, r.logError("governance_repo_list_ballots_failed", err, "motion_id", motionID)
	}
	items := make([]entities.Ballot, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// SaveBallotWithTallies upserts the ballot and reconciles the tally buckets
// as increments on the motion row inside one transaction. The first UPDATE
// takes the motion row's write lock, so concurrent casts serialize and each
// sees the prior ballot the previous one committed.
func (r *Repository) SaveBallotWithTallies(ctx context.Context, ballot entities.Ballot) (entities.Motion, bool, error) {
	var (
		updated entities.Motion
		recast  bool
	)
	voter := strings.TrimSpace(ballot.Voter)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		newColumn, err := tallyColumn(ballot.Choice)
		if err != nil {
			return err
		}
		result := tx.Model(&motionModel{}).
			Where("id = ?", ballot.MotionID).
			Update(newColumn, gorm.Expr(newColumn+" + ?", ballot.Weight))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrMotionNotFound
		}

		var prior ballotModel
		err = tx.Where("motion_id = ?", ballot.MotionID).
			Where("voter = ?", voter).
			First(&prior).Error
		switch {
		case err == nil:
			recast = true
			priorColumn, err := tallyColumn(entities.BallotChoice(prior.Choice))
			if err != nil {
				return err
			}
			debit := tx.Model(&motionModel{}).
				Where("id = ?", ballot.MotionID).
				Update(priorColumn, gorm.Expr(priorColumn+" - ?", prior.Weight))
			if debit.Error != nil {
				return debit.Error
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return err
		}

		ballotRow := ballotModelFromEntity(ballot)
		ballotRow.Voter = voter
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "motion_id"}, {Name: "voter"}},
			DoUpdates: clause.Assignments(map[string]any{
				"choice":  ballotRow.Choice,
				"weight":  ballotRow.Weight,
				"cast_at": ballotRow.CastAt,
			}),
		}).Create(&ballotRow).Error; err != nil {
			return err
		}

		var motionRow motionModel
		if err := tx.Where("id = ?", ballot.MotionID).First(&motionRow).Error; err != nil {
			return err
		}
		updated = motionRow.toEntity()
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrMotionNotFound) || errors.Is(err, domainerrors.ErrInvalidChoice) {
			return entities.Motion{}, false, err
		}
		return entities.Motion{}, false, r.logError("governance_repo_save_ballot_failed", err,
			"motion_id", ballot.MotionID,
			"voter", voter,
		)
	}
	return updated, recast, nil
}

func tallyColumn(choice entities.BallotChoice) (string, error) {
	switch choice {
	case entities.BallotChoiceYes:
		return "yes_weight", nil
	case entities.BallotChoiceNo:
		return "no_weight", nil
	case entities.BallotChoiceAbstain:
		return "abstain_weight", nil
	default:
		return "", domainerrors.ErrInvalidChoice
	}
}

func (r *Repository) MotionDeposit(ctx context.Context) (uint64, error) {
	var counter counterModel
	err := r.db.WithContext(ctx).
		Where("name = ?", counterMotionDeposit).
		First(&counter).Error
	if err != nil {
		return 0, r.logError("governance_repo_motion_deposit_failed", err)
	}
	return counter.Value, nil
}

func (r *Repository) SetMotionDeposit(ctx context.Context, amount uint64) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.Assignments(map[string]any{"value": amount}),
	}).Create(&counterModel{Name: counterMotionDeposit, Value: amount}).Error
	if err != nil {
		return r.logError("governance_repo_set_motion_deposit_failed", err, "amount", amount)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("key = ?", strings.TrimSpace(key)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, r.logError("governance_repo_idempotency_get_failed", err)
	}
	if !row.ExpiresAt.After(now.UTC()) {
		return ports.IdempotencyRecord{}, false, nil
	}
	return ports.IdempotencyRecord{
		Key:         row.Key,
		RequestHash: row.RequestHash,
		Ref:         row.Ref,
		ExpiresAt:   row.ExpiresAt.UTC(),
	}, true, nil
}

func (r *Repository) Put(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModel{
		Key:         strings.TrimSpace(record.Key),
		RequestHash: strings.TrimSpace(record.RequestHash),
		Ref:         strings.TrimSpace(record.Ref),
		ExpiresAt:   record.ExpiresAt.UTC(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoNothing: true,
	}).Create(&row).Error
	if err != nil {
		return r.logError("governance_repo_idempotency_put_failed", err)
	}

	var existing idempotencyModel
	if err := r.db.WithContext(ctx).Where("key = ?", row.Key).First(&existing).Error; err != nil {
		return r.logError("governance_repo_idempotency_readback_failed", err)
	}
	if existing.RequestHash != row.RequestHash || existing.Ref != row.Ref {
		return domainerrors.ErrIdempotencyConflict
	}
	return nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	row := outboxModel{
		ID:           outboxID,
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    createdAt,
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&row).Error
	if err != nil {
		return r.logError("governance_repo_append_outbox_failed", err, "outbox_id", outboxID)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at asc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, r.logError("governance_repo_list_outbox_failed", err)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.ID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      row.Payload,
			Status:       row.Status,
			RetryCount:   row.RetryCount,
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	at := publishedAt.UTC()
	result := r.db.WithContext(ctx).Model(&outboxModel{}).
		Where("id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": &at,
		})
	if result.Error != nil {
		return r.logError("governance_repo_mark_outbox_failed", result.Error, "outbox_id", outboxID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrConflict
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "protocol-governance/governance-engine",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("governance repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// SystemClock satisfies the Clock port with wall time.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// UUIDGenerator satisfies the IDGenerator port.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
