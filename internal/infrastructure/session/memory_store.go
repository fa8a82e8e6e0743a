// Package session provides an in-process SessionStore for single-instance
// deployments and tests.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/petshelter/adoption-system/internal/core/domain"
)

const defaultSweepInterval = time.Minute

// MemoryStore keeps sessions in a map guarded by a RWMutex. Expired records
// are hidden on read and removed by a background sweep.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
	byUser   map[int64]map[string]struct{}

	clock clockwork.Clock
	stop  chan struct{}
	done  chan struct{}
	once  sync.Once
}

// Option customises a MemoryStore.
type Option func(*memoryOptions)

type memoryOptions struct {
	clock    clockwork.Clock
	interval time.Duration
}

func WithClock(c clockwork.Clock) Option {
	return func(o *memoryOptions) { o.clock = c }
}

func WithSweepInterval(d time.Duration) Option {
	return func(o *memoryOptions) { o.interval = d }
}

// NewMemoryStore starts the sweeper. Call Close to stop it.
func NewMemoryStore(opts ...Option) *MemoryStore {
	o := memoryOptions{clock: clockwork.NewRealClock(), interval: defaultSweepInterval}
	for _, opt := range opts {
		opt(&o)
	}

	s := &MemoryStore{
		sessions: make(map[string]domain.Session),
		byUser:   make(map[int64]map[string]struct{}),
		clock:    o.clock,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go s.sweepLoop(o.interval)
	return s
}

func (s *MemoryStore) Create(_ context.Context, sess *domain.Session) error {
	if !sess.ExpiresAt.After(s.clock.Now()) {
		return fmt.Errorf("store session: %w", domain.ErrSessionExpired)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.sessions[sess.ID]; ok {
		s.unindex(old.UserID, old.ID)
	}
	s.sessions[sess.ID] = *sess
	ids, ok := s.byUser[sess.UserID]
	if !ok {
		ids = make(map[string]struct{})
		s.byUser[sess.UserID] = ids
	}
	ids[sess.ID] = struct{}{}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || sess.Expired(s.clock.Now()) {
		return nil, domain.ErrSessionNotFound
	}
	return &sess, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		delete(s.sessions, id)
		s.unindex(sess.UserID, id)
	}
	return nil
}

func (s *MemoryStore) DeleteByUser(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.byUser[userID] {
		delete(s.sessions, id)
	}
	delete(s.byUser, userID)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

// Len returns the number of stored records, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the sweeper and waits for it to exit.
func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.stop) })
	<-s.done
	return nil
}

func (s *MemoryStore) sweepLoop(interval time.Duration) {
	defer close(s.done)
	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.Chan():
			s.sweep()
		}
	}
}

func (s *MemoryStore) sweep() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, id)
			s.unindex(sess.UserID, id)
		}
	}
}

// unindex must be called with mu held.
func (s *MemoryStore) unindex(userID int64, id string) {
	ids := s.byUser[userID]
	delete(ids, id)
	if len(ids) == 0 {
		delete(s.byUser, userID)
	}
}
