package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"questhire/pkg/domain"
)

const sessionKeyPrefix = "questhire:session:"

// RedisSessionStore keeps started test sessions in Redis with a TTL.
// A session naturally expires shortly after its test duration elapses.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore builds a Redis-backed test session store.
func NewRedisSessionStore(addr, password string) *RedisSessionStore {
	return &RedisSessionStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
	}
}

// SaveSession writes the session record with the given TTL.
func (s *RedisSessionStore) SaveSession(session domain.TestSession, ttl time.Duration) error {
	payload, err := json.Marshal(redisSession{
		Session: session,
		UserID:  session.UserID,
	})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return s.client.Set(ctx, sessionKeyPrefix+session.SessionID, payload, ttl).Err()
}

// GetSession reads a session record back, if it has not expired.
func (s *RedisSessionStore) GetSession(sessionID string) (domain.TestSession, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	val, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return domain.TestSession{}, false, nil
	}
	if err != nil {
		return domain.TestSession{}, false, err
	}
	var record redisSession
	if err := json.Unmarshal(val, &record); err != nil {
		return domain.TestSession{}, false, err
	}
	session := record.Session
	session.UserID = record.UserID
	return session, true, nil
}

// redisSession carries the owner alongside the session payload, since
// TestSession deliberately never serializes UserID to clients.
type redisSession struct {
	Session domain.TestSession `json:"session"`
	UserID  string             `json:"userId"`
}
