// Package presence tracks which users currently hold an open realtime
// session. Backing it with redis keeps the registry valid across processes;
// the booking core only ever sees the Registry interface.
package presence

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Registry interface {
	Connect(ctx context.Context, userID uint, sessionID string) error
	Disconnect(ctx context.Context, userID uint, sessionID string) error
	SessionID(ctx context.Context, userID uint) (string, error)
	IsOnline(ctx context.Context, userID uint) (bool, error)
}

type RedisRegistry struct {
	client     *redis.Client
	sessionTTL time.Duration
}

func NewRedisRegistry(addr, password string, db int, sessionTTL time.Duration) *RedisRegistry {
	return &RedisRegistry{
		client:     redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}),
		sessionTTL: sessionTTL,
	}
}

func (r *RedisRegistry) Connect(ctx context.Context, userID uint, sessionID string) error {
	return r.client.Set(ctx, sessionKey(userID), sessionID, r.sessionTTL).Err()
}

// Disconnect removes the mapping only if it still points at this session,
// so a reconnect racing a stale disconnect is not wiped out.
func (r *RedisRegistry) Disconnect(ctx context.Context, userID uint, sessionID string) error {
	const script = `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		end
		return 0`
	return r.client.Eval(ctx, script, []string{sessionKey(userID)}, sessionID).Err()
}

func (r *RedisRegistry) SessionID(ctx context.Context, userID uint) (string, error) {
	sessionID, err := r.client.Get(ctx, sessionKey(userID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return sessionID, err
}

func (r *RedisRegistry) IsOnline(ctx context.Context, userID uint) (bool, error) {
	n, err := r.client.Exists(ctx, sessionKey(userID)).Result()
	return n > 0, err
}

func sessionKey(userID uint) string {
	return fmt.Sprintf("presence:user:%d", userID)
}

var _ Registry = (*RedisRegistry)(nil)
