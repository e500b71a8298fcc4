package workers_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	governanceengine "agora/contexts/protocol-governance/governance-engine"
	"agora/contexts/protocol-governance/governance-engine/application/commands"
	"agora/contexts/protocol-governance/governance-engine/application/workers"
	"agora/contexts/protocol-governance/governance-engine/domain/entities"
	"agora/contexts/protocol-governance/governance-engine/ports"
)

type recordingPublisher struct {
	published []ports.EventEnvelope
	fail      bool
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, event ports.EventEnvelope) error {
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, event)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func activePassedSetup(t *testing.T) (governanceengine.Module, entities.Motion) {
	t.Helper()
	module := governanceengine.NewInMemoryModule(testLogger())
	module.Bank.SetBalance("alice", 10_000)
	module.Bank.SetBalance("whale", 200_000)

	ctx := context.Background()
	result, err := module.Motions.CreateMotion(ctx, commands.CreateMotionCommand{
		Proposer:       "alice",
		Title:          "sweep me",
		Category:       entities.MotionCategoryText,
		VotingDuration: 1000,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	motion := result.Motion
	if _, err := module.Motions.ActivateMotion(ctx, commands.ActivateMotionCommand{
		MotionID: motion.MotionID, Caller: "alice",
	}); err != nil {
		t.Fatalf("activate failed: %v", err)
	}
	module.Store.SetHeight(1500)
	if _, err := module.Ballots.CastBallot(ctx, commands.CastBallotCommand{
		MotionID: motion.MotionID, Voter: "whale", Choice: entities.BallotChoiceYes,
	}); err != nil {
		t.Fatalf("cast failed: %v", err)
	}
	return module, motion
}

func TestDeadlineFinalizerSweepsExpiredMotions(t *testing.T) {
	module, motion := activePassedSetup(t)
	ctx := context.Background()

	finalizer := workers.DeadlineFinalizer{
		Motions:   module.Store,
		Lifecycle: module.Lifecycle,
		Ledger:    module.Store,
		Logger:    testLogger(),
	}

	// Deadline not reached: the sweep leaves the motion active.
	module.Store.SetHeight(2000)
	if err := finalizer.RunOnce(ctx); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	status, err := module.Queries.GetStatus(ctx, motion.MotionID)
	if err != nil {
		t.Fatalf("get status failed: %v", err)
	}
	if status != entities.MotionStatusActive {
		t.Fatalf("expected active before deadline, got %s", status)
	}

	module.Store.SetHeight(2440)
	if err := finalizer.RunOnce(ctx); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	status, err = module.Queries.GetStatus(ctx, motion.MotionID)
	if err != nil {
		t.Fatalf("get status failed: %v", err)
	}
	if status != entities.MotionStatusPassed {
		t.Fatalf("expected passed after sweep, got %s", status)
	}

	// A second sweep finds nothing active and is a no-op.
	if err := finalizer.RunOnce(ctx); err != nil {
		t.Fatalf("idempotent sweep failed: %v", err)
	}
}

func TestOutboxRelayPublishesPendingAndMarks(t *testing.T) {
	module, _ := activePassedSetup(t)
	ctx := context.Background()

	publisher := &recordingPublisher{}
	relay := workers.OutboxRelay{
		Outbox:    module.Store,
		Publisher: publisher,
		Clock:     module.Store,
		BatchSize: 10,
		Logger:    testLogger(),
	}

	pending, err := module.Store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) == 0 {
		t.Fatalf("expected pending outbox rows from the motion lifecycle")
	}

	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("relay failed: %v", err)
	}
	if len(publisher.published) != len(pending) {
		t.Fatalf("expected %d published events, got %d", len(pending), len(publisher.published))
	}

	remaining, err := module.Store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected empty outbox after relay, got %d rows", len(remaining))
	}
}

func TestOutboxRelayStopsOnPublishFailure(t *testing.T) {
	module, _ := activePassedSetup(t)
	ctx := context.Background()

	publisher := &recordingPublisher{fail: true}
	relay := workers.OutboxRelay{
		Outbox:    module.Store,
		Publisher: publisher,
		Clock:     module.Store,
		Logger:    testLogger(),
	}

	if err := relay.RunOnce(ctx); err == nil {
		t.Fatalf("expected relay error when broker publish fails")
	}

	// Nothing was marked published, so the next cycle retries everything.
	pending, err := module.Store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) == 0 {
		t.Fatalf("expected rows to remain pending after failed publish")
	}
}
