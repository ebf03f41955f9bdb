package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore 没配置 REDIS_ADDR 时使用，进程退出即失效
type MemoryStore struct {
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time
	sess map[string]*AppSession
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, sess: map[string]*AppSession{}}
}

func (s *MemoryStore) Create(_ context.Context, userName string) (*AppSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	as := &AppSession{
		ID:        uuid.NewString(),
		UserName:  userName,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.ttl).Unix(),
	}
	s.sess[as.ID] = as
	cp := *as
	return &cp, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*AppSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	as, ok := s.sess[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.now().Unix() >= as.ExpiresAt {
		delete(s.sess, id)
		return nil, ErrNotFound
	}
	cp := *as
	return &cp, nil
}

func (s *MemoryStore) Touch(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if as, ok := s.sess[id]; ok {
		as.ExpiresAt = s.now().Add(s.ttl).Unix()
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sess, id)
	return nil
}

func (s *MemoryStore) RevokeAllForUser(_ context.Context, userName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, as := range s.sess {
		if as.UserName == userName {
			delete(s.sess, id)
		}
	}
	return nil
}
