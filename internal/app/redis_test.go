package app

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestKeyspace(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	testCases := []struct {
		name string
		cmd  redis.Cmder
		want string
	}{
		{"cache key", redis.NewStringCmd(ctx, "get", "cache:simulation:last"), "cache:simulation"},
		{"two segments", redis.NewStatusCmd(ctx, "set", "lock:simulation", "owner"), "lock:simulation"},
		{"plain key", redis.NewStringCmd(ctx, "get", "plain"), "plain"},
		{"script", redis.NewCmd(ctx, "evalsha", "abc123", 1, "lock:simulation", "owner"), "lock:simulation"},
		{"no key", redis.NewStatusCmd(ctx, "ping"), "redis"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := keyspace(tc.cmd); got != tc.want {
				t.Errorf("keyspace() = %q, want %q", got, tc.want)
			}
		})
	}
}
