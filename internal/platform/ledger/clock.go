package ledger

import (
	"context"
	"errors"
	"time"
)

// BlockClock derives the host ledger's block height from wall time: height
// increments once per interval starting at genesis. The governance modules
// only need a monotonic height, not consensus-grade timing.
type BlockClock struct {
	genesis  time.Time
	interval time.Duration
	now      func() time.Time
}

func NewBlockClock(genesis time.Time, interval time.Duration) (*BlockClock, error) {
	if interval <= 0 {
		return nil, errors.New("block interval must be positive")
	}
	if genesis.IsZero() {
		genesis = time.Now().UTC()
	}
	return &BlockClock{genesis: genesis.UTC(), interval: interval, now: time.Now}, nil
}

func (c *BlockClock) Height(_ context.Context) (uint64, error) {
	elapsed := c.now().UTC().Sub(c.genesis)
	if elapsed < 0 {
		return 0, nil
	}
	return uint64(elapsed / c.interval), nil
}
