package redisadapter

import (
	"context"
	"fmt"
	"strings"

	domainerrors "agora/contexts/protocol-governance/governance-engine/domain/errors"

	"github.com/redis/go-redis/v9"
)

const balancePrefix = "agora:governance:balance:"

// transferScript moves weight between two accounts atomically, refusing the
// move when the source balance is short.
var transferScript = redis.NewScript(`
local bal = tonumber(redis.call('GET', KEYS[1]) or '0')
local amt = tonumber(ARGV[1])
if bal < amt then
  return 0
end
redis.call('DECRBY', KEYS[1], amt)
redis.call('INCRBY', KEYS[2], amt)
return 1
`)

// TokenBank reads and moves voting weight out of the balance mirror the host
// ledger maintains in Redis. Accounts with no key hold zero.
type TokenBank struct {
	client *redis.Client
}

func NewTokenBank(client *redis.Client) *TokenBank {
	return &TokenBank{client: client}
}

func (b *TokenBank) BalanceOf(ctx context.Context, account string) (uint64, error) {
	value, err := b.client.Get(ctx, balanceKey(account)).Uint64()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", domainerrors.ErrBalanceQuery, err)
	}
	return value, nil
}

func (b *TokenBank) Transfer(ctx context.Context, amount uint64, from string, to string) error {
	moved, err := transferScript.Run(ctx, b.client,
		[]string{balanceKey(from), balanceKey(to)},
		amount,
	).Int()
	if err != nil {
		return fmt.Errorf("%w: %v", domainerrors.ErrTransferFailed, err)
	}
	if moved == 0 {
		return domainerrors.ErrTransferFailed
	}
	return nil
}

func balanceKey(account string) string {
	return balancePrefix + strings.TrimSpace(account)
}
