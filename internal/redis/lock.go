package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const simulationLockKey = "lock:simulation"

// releaseScript deletes the lock only while it is still held by the caller,
// so an expired lock re-acquired by another instance is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireSimulationLock attempts to take the system-wide simulation lock.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireSimulationLock(ctx context.Context, owner string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, simulationLockKey, owner, ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseSimulationLock releases the simulation lock if owner still holds it.
func (s *LockStore) ReleaseSimulationLock(ctx context.Context, owner string) error {
	return releaseScript.Run(ctx, s.client, []string{simulationLockKey}, owner).Err()
}
