package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"learnleap/internal/redis"
)

const (
	redisCloseChannel = "learnleap:close"
	redisSessionKey   = "learnleap:session:%s"
	defaultStateTTL   = 30 * time.Minute
)

type closeMessage struct {
	SessionID string `json:"session_id"`
}

// stateRedis mirrors snapshots to redis and fans out close signals so every
// replica applies them to the sessions it hosts.
type stateRedis struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func newStateCache(client *redis.Client, ttl time.Duration, log zerolog.Logger) *stateRedis {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultStateTTL
	}
	return &stateRedis{client: client, ttl: ttl, log: log}
}

// startListener subscribes to close signals until ctx is done. It returns
// once the subscription is confirmed.
func (r *stateRedis) startListener(ctx context.Context, handler func(closeMessage)) (<-chan struct{}, error) {
	done := make(chan struct{})
	if r == nil || r.client.Raw() == nil || handler == nil {
		close(done)
		return done, nil
	}
	pubsub := r.client.Raw().Subscribe(ctx, redisCloseChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		close(done)
		return done, fmt.Errorf("subscribe %s: %w", redisCloseChannel, err)
	}
	go func() {
		defer close(done)
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var cm closeMessage
				if err := json.Unmarshal([]byte(msg.Payload), &cm); err != nil {
					r.log.Warn().Err(err).Msg("close signal decode failed")
					continue
				}
				handler(cm)
			}
		}
	}()
	return done, nil
}

func (r *stateRedis) publishClose(ctx context.Context, sessionID string) error {
	payload, err := json.Marshal(closeMessage{SessionID: sessionID})
	if err != nil {
		return err
	}
	return r.client.Raw().Publish(ctx, redisCloseChannel, payload).Err()
}

func (r *stateRedis) cacheSnapshot(ctx context.Context, sessionID string, snap Snapshot) {
	if r == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		r.log.Warn().Err(err).Str("session_id", sessionID).Msg("snapshot marshal failed")
		return
	}
	if err := r.client.Set(ctx, fmt.Sprintf(redisSessionKey, sessionID), data, r.ttl); err != nil {
		r.log.Warn().Err(err).Str("session_id", sessionID).Msg("snapshot cache failed")
	}
}

func (r *stateRedis) loadSnapshot(ctx context.Context, sessionID string) (Snapshot, bool) {
	var snap Snapshot
	if r == nil {
		return snap, false
	}
	raw, err := r.client.Get(ctx, fmt.Sprintf(redisSessionKey, sessionID))
	if err != nil {
		if !errors.Is(err, redis.ErrCacheMiss) {
			r.log.Warn().Err(err).Str("session_id", sessionID).Msg("snapshot load failed")
		}
		return snap, false
	}
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		r.log.Warn().Err(err).Str("session_id", sessionID).Msg("snapshot decode failed")
		return snap, false
	}
	return snap, true
}

func (r *stateRedis) invalidate(ctx context.Context, sessionID string) {
	if r == nil {
		return
	}
	if err := r.client.Del(ctx, fmt.Sprintf(redisSessionKey, sessionID)); err != nil && !errors.Is(err, redis.ErrCacheMiss) {
		r.log.Warn().Err(err).Str("session_id", sessionID).Msg("snapshot invalidate failed")
	}
}
