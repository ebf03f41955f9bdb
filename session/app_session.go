package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("session not found or expired")

type AppSession struct {
	ID        string `json:"id"`
	UserName  string `json:"user"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// Store 登录会话；控制台里同一时间只有一个
type Store interface {
	Create(ctx context.Context, userName string) (*AppSession, error)
	Get(ctx context.Context, id string) (*AppSession, error)
	Touch(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	RevokeAllForUser(ctx context.Context, userName string) error
}

type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func key(id string) string          { return fmt.Sprintf("inv:sess:%s", id) }
func userSetKey(user string) string { return fmt.Sprintf("inv:user_sessions:%s", user) }

func (s *RedisStore) Create(ctx context.Context, userName string) (*AppSession, error) {
	now := time.Now()
	as := &AppSession{
		ID:        uuid.NewString(),
		UserName:  userName,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.ttl).Unix(),
	}
	b, err := json.Marshal(as)
	if err != nil {
		return nil, err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, key(as.ID), b, s.ttl)
	pipe.SAdd(ctx, userSetKey(userName), as.ID)
	pipe.Expire(ctx, userSetKey(userName), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}
	return as, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*AppSession, error) {
	b, err := s.rdb.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var as AppSession
	if err := json.Unmarshal(b, &as); err != nil {
		return nil, err
	}
	return &as, nil
}

// Touch 续期
func (s *RedisStore) Touch(ctx context.Context, id string) error {
	as, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	as.ExpiresAt = time.Now().Add(s.ttl).Unix()
	b, err := json.Marshal(as)
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, key(id), b, s.ttl)
	pipe.Expire(ctx, userSetKey(as.UserName), s.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	as, _ := s.Get(ctx, id) // 忽略失败
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, key(id))
	if as != nil {
		pipe.SRem(ctx, userSetKey(as.UserName), id)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) RevokeAllForUser(ctx context.Context, userName string) error {
	ids, err := s.rdb.SMembers(ctx, userSetKey(userName)).Result()
	if err != nil && err != redis.Nil {
		return err
	}

	pipe := s.rdb.TxPipeline()
	for _, sid := range ids {
		pipe.Del(ctx, key(sid))
	}
	pipe.Del(ctx, userSetKey(userName))
	_, err = pipe.Exec(ctx)
	return err
}
