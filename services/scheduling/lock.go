package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/exaland/CalendarSlackBot/models"
)

// SlotLocker serializes commits against one slot interval. The busy re-check
// alone is best-effort; the lock plus the calendar's insert-if-absent event
// IDs make exclusion strict.
type SlotLocker interface {
	// Acquire takes the lock for the slot, returning false if another commit
	// holds it. The lock expires on its own after ttl.
	Acquire(ctx context.Context, slot models.Slot, ttl time.Duration) (bool, error)
	Release(ctx context.Context, slot models.Slot) error
}

// RedisSlotLocker implements SlotLocker with a SET NX + TTL key per slot
// interval.
type RedisSlotLocker struct {
	Client *redis.Client
}

func NewRedisSlotLocker(client *redis.Client) *RedisSlotLocker {
	return &RedisSlotLocker{Client: client}
}

func slotLockKey(slot models.Slot) string {
	return fmt.Sprintf("slotlock:%d-%d", slot.Start.Unix(), slot.End.Unix())
}

func (l *RedisSlotLocker) Acquire(ctx context.Context, slot models.Slot, ttl time.Duration) (bool, error) {
	ok, err := l.Client.SetNX(ctx, slotLockKey(slot), 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire slot lock: %w", err)
	}
	return ok, nil
}

func (l *RedisSlotLocker) Release(ctx context.Context, slot models.Slot) error {
	return l.Client.Del(ctx, slotLockKey(slot)).Err()
}
