package postgresadapter_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	postgresadapter "agora/contexts/protocol-governance/governance-engine/adapters/postgres"
	"agora/contexts/protocol-governance/governance-engine/domain/entities"
	domainerrors "agora/contexts/protocol-governance/governance-engine/domain/errors"
	"agora/contexts/protocol-governance/governance-engine/ports"
)

func newTestRepository(t *testing.T) *postgresadapter.Repository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	repo := postgresadapter.NewRepository(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, repo.AutoMigrate())
	return repo
}

func sampleMotion() entities.Motion {
	return entities.Motion{
		Title:              "expand quorum",
		Body:               "raise the participation floor",
		Proposer:           "alice",
		Category:           entities.MotionCategoryParameter,
		Status:             entities.MotionStatusDraft,
		CreatedAt:          10,
		VotingStarts:       1450,
		VotingEnds:         2450,
		RequiredMajorityBp: 5000,
		MinParticipationBp: 1000,
	}
}

func TestRepositoryMotionRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first, err := repo.InsertMotion(ctx, sampleMotion())
	require.NoError(t, err)
	require.Equal(t, uint64(1), first)

	second, err := repo.InsertMotion(ctx, sampleMotion())
	require.NoError(t, err)
	require.Equal(t, uint64(2), second)

	motion, err := repo.GetMotion(ctx, first)
	require.NoError(t, err)
	require.Equal(t, "expand quorum", motion.Title)
	require.Equal(t, entities.MotionStatusDraft, motion.Status)
	require.Equal(t, uint64(1450), motion.VotingStarts)

	motion.Status = entities.MotionStatusActive
	require.NoError(t, repo.SaveMotion(ctx, motion))

	active, err := repo.ListMotionsByStatus(ctx, entities.MotionStatusActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, first, active[0].MotionID)

	all, err := repo.ListMotions(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	_, err = repo.GetMotion(ctx, 99)
	require.ErrorIs(t, err, domainerrors.ErrMotionNotFound)

	missing := motion
	missing.MotionID = 99
	require.ErrorIs(t, repo.SaveMotion(ctx, missing), domainerrors.ErrMotionNotFound)
}

func TestRepositoryActionsAccumulatePerMotion(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	motionID, err := repo.InsertMotion(ctx, sampleMotion())
	require.NoError(t, err)
	otherID, err := repo.InsertMotion(ctx, sampleMotion())
	require.NoError(t, err)

	a0, err := repo.InsertAction(ctx, entities.MotionAction{
		MotionID:   motionID,
		Kind:       entities.ActionKindSetParameter,
		SettingKey: "quorum-bp",
		NewValue:   "1500",
	})
	require.NoError(t, err)
	a1, err := repo.InsertAction(ctx, entities.MotionAction{
		MotionID:  motionID,
		Kind:      entities.ActionKindTransferFunds,
		Recipient: "carol",
		Amount:    25,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(0), a0)
	require.Equal(t, uint64(1), a1)

	// Per-motion sequences are independent.
	b0, err := repo.InsertAction(ctx, entities.MotionAction{
		MotionID:   otherID,
		Kind:       entities.ActionKindSetParameter,
		SettingKey: "voting-delay",
		NewValue:   "2000",
	})
	require.NoError(t, err)
	require.Equal(t, uint64(0), b0)

	actions, err := repo.ListActions(ctx, motionID)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	require.Equal(t, entities.ActionKindSetParameter, actions[0].Kind)
	require.Equal(t, "carol", actions[1].Recipient)
}

func TestRepositoryBallotWithTalliesCommitsTogether(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	motionID, err := repo.InsertMotion(ctx, sampleMotion())
	require.NoError(t, err)

	ballot := entities.Ballot{
		MotionID: motionID,
		Voter:    "bob",
		Choice:   entities.BallotChoiceYes,
		Weight:   500,
		CastAt:   1500,
	}
	updated, recast, err := repo.SaveBallotWithTallies(ctx, ballot)
	require.NoError(t, err)
	require.False(t, recast)
	require.Equal(t, uint64(500), updated.YesWeight)

	stored, found, err := repo.GetBallot(ctx, motionID, "bob")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, uint64(500), stored.Weight)

	// Recast upserts the same (motion, voter) row, debits the old bucket and
	// credits the new one in the same commit.
	ballot.Choice = entities.BallotChoiceNo
	ballot.Weight = 650
	updated, recast, err = repo.SaveBallotWithTallies(ctx, ballot)
	require.NoError(t, err)
	require.True(t, recast)
	require.Equal(t, uint64(0), updated.YesWeight)
	require.Equal(t, uint64(650), updated.NoWeight)

	ballots, err := repo.ListBallots(ctx, motionID)
	require.NoError(t, err)
	require.Len(t, ballots, 1)
	require.Equal(t, entities.BallotChoiceNo, ballots[0].Choice)

	reloaded, err := repo.GetMotion(ctx, motionID)
	require.NoError(t, err)
	require.Equal(t, uint64(0), reloaded.YesWeight)
	require.Equal(t, uint64(650), reloaded.NoWeight)

	// A second voter only increments their own bucket.
	_, recast, err = repo.SaveBallotWithTallies(ctx, entities.Ballot{
		MotionID: motionID,
		Voter:    "carol",
		Choice:   entities.BallotChoiceAbstain,
		Weight:   200,
		CastAt:   1600,
	})
	require.NoError(t, err)
	require.False(t, recast)
	reloaded, err = repo.GetMotion(ctx, motionID)
	require.NoError(t, err)
	require.Equal(t, uint64(650), reloaded.NoWeight)
	require.Equal(t, uint64(200), reloaded.AbstainWeight)

	// Writing against a missing motion commits nothing.
	_, _, err = repo.SaveBallotWithTallies(ctx, entities.Ballot{MotionID: 99, Voter: "bob", Choice: entities.BallotChoiceYes})
	require.ErrorIs(t, err, domainerrors.ErrMotionNotFound)
}

func TestRepositoryMotionDepositCounter(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	deposit, err := repo.MotionDeposit(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(0), deposit)

	require.NoError(t, repo.SetMotionDeposit(ctx, 50))
	deposit, err = repo.MotionDeposit(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(50), deposit)
}

func TestRepositoryIdempotencyLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Now().UTC()

	record := ports.IdempotencyRecord{
		Key:         "create-1",
		RequestHash: "hash-a",
		Ref:         "1",
		ExpiresAt:   now.Add(time.Hour),
	}
	require.NoError(t, repo.Put(ctx, record))
	require.NoError(t, repo.Put(ctx, record))

	conflicting := record
	conflicting.RequestHash = "hash-b"
	require.ErrorIs(t, repo.Put(ctx, conflicting), domainerrors.ErrIdempotencyConflict)

	stored, found, err := repo.Get(ctx, "create-1", now)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "1", stored.Ref)

	_, found, err = repo.Get(ctx, "create-1", now.Add(2*time.Hour))
	require.NoError(t, err)
	require.False(t, found, "expired records must not replay")
}

func TestRepositoryOutboxLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Now().UTC()

	envelope := ports.EventEnvelope{
		EventID:       "evt-1",
		EventType:     "motion.created",
		SourceService: "governance-engine",
		OccurredAt:    now,
		PartitionKey:  "1",
		Data:          []byte(`{"motion_id":1}`),
	}
	require.NoError(t, repo.AppendOutbox(ctx, envelope))
	// Same event id appended twice stays a single row.
	require.NoError(t, repo.AppendOutbox(ctx, envelope))

	pending, err := repo.ListPendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "motion.created", pending[0].EventType)

	require.NoError(t, repo.MarkOutboxPublished(ctx, "evt-1", now))
	pending, err = repo.ListPendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, pending)

	require.ErrorIs(t, repo.MarkOutboxPublished(ctx, "evt-missing", now), domainerrors.ErrConflict)
}
