package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hydrowise/hydration-service/internal/core/ports"
)

// bonusTTL keeps a claim around long enough to cover any time zone offset
// between the server and the user's calendar day.
const bonusTTL = 48 * time.Hour

// BonusLedger records once-per-day bonus grants in Redis.
// Key format: bonus:<source>:<day>
type BonusLedger struct {
	client *redis.Client
}

var _ ports.BonusLedger = (*BonusLedger)(nil)

// NewBonusLedger creates a BonusLedger wrapping the given Redis client.
func NewBonusLedger(client *redis.Client) *BonusLedger {
	return &BonusLedger{client: client}
}

// Claim atomically records the grant with SETNX and reports whether this call
// was the first for source on day.
func (l *BonusLedger) Claim(ctx context.Context, source, day string) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key(source, day), "1", bonusTTL).Result()
	if err != nil {
		return false, fmt.Errorf("bonus claim: %w", err)
	}
	return ok, nil
}

// Release deletes the claim so a later reading on the same day can retry.
func (l *BonusLedger) Release(ctx context.Context, source, day string) error {
	if err := l.client.Del(ctx, l.key(source, day)).Err(); err != nil {
		return fmt.Errorf("bonus release: %w", err)
	}
	return nil
}

func (l *BonusLedger) key(source, day string) string {
	return fmt.Sprintf("bonus:%s:%s", source, day)
}
