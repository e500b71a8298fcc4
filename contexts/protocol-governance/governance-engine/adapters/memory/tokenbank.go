package memory

import (
	"context"
	"strings"
	"sync"

	domainerrors "agora/contexts/protocol-governance/governance-engine/domain/errors"
)

// TokenBank is the in-process token-balance provider. The production
// collaborator lives on the host ledger; this implementation stands in while
// runtime wiring is finalized and doubles as the test double, with failure
// switches to exercise collaborator-failure paths.
type TokenBank struct {
	mu       sync.RWMutex
	balances map[string]uint64

	failBalanceQueries bool
	failTransfers      bool
}

func NewTokenBank() *TokenBank {
	return &TokenBank{
		balances: make(map[string]uint64),
	}
}

func (b *TokenBank) SetBalance(account string, amount uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[strings.TrimSpace(account)] = amount
}

// FailBalanceQueries makes every BalanceOf call report provider failure.
func (b *TokenBank) FailBalanceQueries(fail bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failBalanceQueries = fail
}

// FailTransfers makes every Transfer call report provider failure.
func (b *TokenBank) FailTransfers(fail bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failTransfers = fail
}

func (b *TokenBank) BalanceOf(_ context.Context, account string) (uint64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.failBalanceQueries {
		return 0, domainerrors.ErrBalanceQuery
	}
	return b.balances[strings.TrimSpace(account)], nil
}

func (b *TokenBank) Transfer(_ context.Context, amount uint64, from string, to string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failTransfers {
		return domainerrors.ErrTransferFailed
	}
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if b.balances[from] < amount {
		return domainerrors.ErrTransferFailed
	}
	b.balances[from] -= amount
	b.balances[to] += amount
	return nil
}
