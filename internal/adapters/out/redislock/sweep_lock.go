// Package redislock provides the cross-instance sweep lock.
package redislock

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const DefaultKey = "dispatch:sweep:lock"

var ErrLockLost = errors.New("sweep lock expired or taken over before release")

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SweepLock is a SET NX PX lock with token-checked release. The TTL bounds
// how long a crashed holder blocks other instances.
type SweepLock struct {
	rdb client
	key string
	ttl time.Duration
}

type client interface {
	redis.Scripter
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
}

func NewSweepLock(rdb client, key string, ttl time.Duration) (*SweepLock, error) {
	if rdb == nil {
		return nil, errs.NewValueIsRequiredError("redis client")
	}
	if ttl <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("lock ttl", ttl, "0 (exclusive)", "unbounded")
	}
	if key == "" {
		key = DefaultKey
	}
	return &SweepLock{rdb: rdb, key: key, ttl: ttl}, nil
}

func (l *SweepLock) TryLock(ctx context.Context) (func(context.Context) error, bool, error) {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	unlock := func(ctx context.Context) error {
		deleted, err := releaseScript.Run(ctx, l.rdb, []string{l.key}, token).Int()
		if err != nil {
			return err
		}
		if deleted == 0 {
			return ErrLockLost
		}
		return nil
	}
	return unlock, true, nil
}
