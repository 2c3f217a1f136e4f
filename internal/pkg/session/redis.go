package session

import (
	"context"
	"encoding/json"
	"fmt"

	redisv9 "github.com/redis/go-redis/v9"

	"github.com/armadatrack/armada/internal/domain"
	"github.com/armadatrack/armada/internal/pkg/redis"
)

const sessionKeyPrefix = "session:"

// redisStore keeps sessions in Redis so they survive process restarts.
// Keys carry no TTL: a session lives until logout.
type redisStore struct {
	cache *redis.Client
}

// NewRedisStore creates a Store backed by the given Redis client.
func NewRedisStore(cache *redis.Client) Store {
	return &redisStore{cache: cache}
}

func (s *redisStore) Create(ctx context.Context, user domain.User) (*Session, error) {
	sess := &Session{
		Token: NewToken(),
		User:  user,
	}

	if err := s.put(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *redisStore) Get(ctx context.Context, token string) (*Session, error) {
	value, err := s.cache.Get(ctx, sessionKeyPrefix+token)
	if err != nil {
		if err == redisv9.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var stored storedUser
	if err := json.Unmarshal([]byte(value), &stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &Session{Token: token, User: domain.User{
		ID:       stored.ID,
		Username: stored.Username,
		Password: stored.Password,
		Role:     stored.Role,
	}}, nil
}

func (s *redisStore) Refresh(ctx context.Context, token string, user domain.User) error {
	if _, err := s.Get(ctx, token); err != nil {
		return err
	}
	return s.put(ctx, &Session{Token: token, User: user})
}

func (s *redisStore) Delete(ctx context.Context, token string) error {
	return s.cache.Del(ctx, sessionKeyPrefix+token)
}

// put serializes the session user. The User JSON tags hide the password from
// API responses, so sessions are stored through an explicit shape that keeps
// it: the cached copy must match the directory for re-authentication checks.
func (s *redisStore) put(ctx context.Context, sess *Session) error {
	value, err := json.Marshal(storedUser{
		ID:       sess.User.ID,
		Username: sess.User.Username,
		Password: sess.User.Password,
		Role:     sess.User.Role,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// ttl 0: sessions never expire.
	if err := s.cache.Set(ctx, sessionKeyPrefix+sess.Token, string(value), 0); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// storedUser is the Redis serialization of a session's user.
type storedUser struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}
