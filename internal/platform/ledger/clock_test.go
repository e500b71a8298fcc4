package ledger

import (
	"context"
	"testing"
	"time"
)

func TestBlockClockHeight(t *testing.T) {
	genesis := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock, err := NewBlockClock(genesis, time.Second)
	if err != nil {
		t.Fatalf("new clock failed: %v", err)
	}

	clock.now = func() time.Time { return genesis.Add(90 * time.Second) }
	height, err := clock.Height(context.Background())
	if err != nil {
		t.Fatalf("height failed: %v", err)
	}
	if height != 90 {
		t.Fatalf("expected height 90, got %d", height)
	}

	// Before genesis the chain has produced nothing.
	clock.now = func() time.Time { return genesis.Add(-time.Minute) }
	height, err = clock.Height(context.Background())
	if err != nil {
		t.Fatalf("height failed: %v", err)
	}
	if height != 0 {
		t.Fatalf("expected height 0 before genesis, got %d", height)
	}
}

func TestBlockClockRejectsNonPositiveInterval(t *testing.T) {
	if _, err := NewBlockClock(time.Time{}, 0); err == nil {
		t.Fatalf("expected error for zero interval")
	}
}
