package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/hornbill/pkg/domain"
	"github.com/aretw0/hornbill/pkg/ports"
	"github.com/aretw0/hornbill/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	data map[string]*domain.Session
	mu   sync.Mutex
}

func (s *SlowStore) Save(ctx context.Context, sessionID string, session *domain.Session) error {
	time.Sleep(2 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string]*domain.Session)
	}
	s.data[sessionID] = session.Snapshot()
	return nil
}

func (s *SlowStore) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	time.Sleep(2 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.data[sessionID]; ok {
		return session.Snapshot(), nil
	}
	return nil, domain.ErrSessionNotFound
}

func (s *SlowStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

func (s *SlowStore) List(ctx context.Context) ([]string, error) {
	return nil, nil
}

func TestManager_UpdateIsSerialized(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "race-test"

	require.NoError(t, manager.Create(ctx, domain.NewSession(id, now)))

	var wg sync.WaitGroup
	concurrentWrites := 20

	// Each writer appends one destination. Lost updates would leave fewer than concurrentWrites.
	for i := 0; i < concurrentWrites; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := manager.Update(ctx, id, func(ctx context.Context, s *domain.Session) (*domain.Session, error) {
				next := s.Snapshot()
				next.Destinations = append(next.Destinations, "kohima")
				return next, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	final, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Len(t, final.Destinations, concurrentWrites)
}

func TestManager_Create(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()

	require.NoError(t, manager.Create(ctx, domain.NewSession("atomic-init", now)))

	err := manager.Create(ctx, domain.NewSession("atomic-init", now))
	assert.ErrorIs(t, err, session.ErrSessionExists)
}

func TestManager_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing Session", func(t *testing.T) {
		manager := session.NewManager(&SlowStore{})
		_, err := manager.Update(ctx, "nope", func(ctx context.Context, s *domain.Session) (*domain.Session, error) {
			t.Fatal("fn must not run for a missing session")
			return nil, nil
		})
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Saves Alongside Error", func(t *testing.T) {
		manager := session.NewManager(&SlowStore{})
		require.NoError(t, manager.Create(ctx, domain.NewSession("s1", now)))

		vErr := domain.NewValidationError(domain.StepDates, "dates", "Please select your travel dates before proceeding.")
		next, err := manager.Update(ctx, "s1", func(ctx context.Context, s *domain.Session) (*domain.Session, error) {
			n := s.Snapshot()
			n.Wizard.ValidationError = vErr.Message
			return n, vErr
		})
		assert.ErrorIs(t, err, vErr)
		require.NotNil(t, next)

		stored, err := manager.Load(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, vErr.Message, stored.Wizard.ValidationError)
	})

	t.Run("Nil Session Leaves Store Untouched", func(t *testing.T) {
		manager := session.NewManager(&SlowStore{})
		require.NoError(t, manager.Create(ctx, domain.NewSession("s2", now)))

		boom := errors.New("boom")
		next, err := manager.Update(ctx, "s2", func(ctx context.Context, s *domain.Session) (*domain.Session, error) {
			return nil, boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Nil(t, next)
	})
}

type recordingLocker struct {
	mu      sync.Mutex
	ttls    []time.Duration
	unlocks int
	fail    error
}

func (l *recordingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	if l.fail != nil {
		return nil, l.fail
	}
	l.mu.Lock()
	l.ttls = append(l.ttls, ttl)
	l.mu.Unlock()
	return func(ctx context.Context) error {
		l.mu.Lock()
		l.unlocks++
		l.mu.Unlock()
		return nil
	}, nil
}

func TestManager_DistributedLock(t *testing.T) {
	ctx := context.Background()

	t.Run("Acquired And Released", func(t *testing.T) {
		locker := &recordingLocker{}
		manager := session.NewManager(&SlowStore{}, session.WithLocker(locker), session.WithLockTTL(5*time.Second))

		require.NoError(t, manager.Create(ctx, domain.NewSession("s1", now)))
		_, err := manager.Load(ctx, "s1")
		require.NoError(t, err)

		assert.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second}, locker.ttls)
		assert.Equal(t, 2, locker.unlocks)
	})

	t.Run("Default TTL", func(t *testing.T) {
		locker := &recordingLocker{}
		manager := session.NewManager(&SlowStore{}, session.WithLocker(locker))
		require.NoError(t, manager.Create(ctx, domain.NewSession("s1", now)))
		assert.Equal(t, []time.Duration{session.DefaultLockTTL}, locker.ttls)
	})

	t.Run("Acquire Failure", func(t *testing.T) {
		locker := &recordingLocker{fail: errors.New("redis down")}
		manager := session.NewManager(&SlowStore{}, session.WithLocker(locker))
		err := manager.Create(ctx, domain.NewSession("s1", now))
		assert.ErrorContains(t, err, "failed to acquire distributed lock")
	})
}
