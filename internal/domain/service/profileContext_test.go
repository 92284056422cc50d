package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studorg/membership-service/internal/domain/dto"
	"github.com/studorg/membership-service/internal/domain/entity"
	"github.com/studorg/membership-service/internal/domain/status"
	"github.com/studorg/membership-service/internal/domain/watch"
)

// stubContextBackend fakes every sub-resource fetch behind the profile
// context and counts the calls.
type stubContextBackend struct {
	mu          sync.Mutex
	roleCalls   int
	projCalls   int
	classCalls  int
	appCalls    int
	eventCalls  int
	roleErr     error
	currentRole entity.Role
}

func (s *stubContextBackend) Get(_ context.Context, userID string) (*entity.UserRole, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roleCalls++
	if s.roleErr != nil {
		return nil, s.roleErr
	}
	return &entity.UserRole{UserID: userID, Role: s.currentRole}, nil
}

type stubProjectBucketer struct{ backend *stubContextBackend }

func (s stubProjectBucketer) BucketForUser(context.Context, string, time.Time) (status.Buckets[entity.Project], error) {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	s.backend.projCalls++
	return status.Buckets[entity.Project]{}, nil
}

type stubClassBucketer struct{ backend *stubContextBackend }

func (s stubClassBucketer) BucketForUser(context.Context, string, time.Time) (status.Buckets[entity.Class], error) {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	s.backend.classCalls++
	return status.Buckets[entity.Class]{}, nil
}

type stubDashboard struct{ backend *stubContextBackend }

func (s stubDashboard) Dashboard(context.Context, string, entity.Role, time.Time) (dto.Applications, error) {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	s.backend.appCalls++
	return dto.Applications{}, nil
}

type stubEventLister struct{ backend *stubContextBackend }

func (s stubEventLister) VisibleTo(context.Context, entity.Role, string, time.Time) (dto.Events, error) {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	s.backend.eventCalls++
	return dto.Events{}, nil
}

func (s *stubContextBackend) counts() (role, proj, class, app, event int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roleCalls, s.projCalls, s.classCalls, s.appCalls, s.eventCalls
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newContextFixture(backend *stubContextBackend) (*ProfileContextService, *fakeClock, *watch.Bus) {
	bus := watch.NewBus()
	svc := NewProfileContextService(
		testLogger(),
		backend,
		stubProjectBucketer{backend},
		stubClassBucketer{backend},
		stubDashboard{backend},
		stubEventLister{backend},
		bus,
	)
	clock := &fakeClock{now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	svc.now = clock.Now
	return svc, clock, bus
}

func TestProfileContextOpen(t *testing.T) {
	t.Run("open fetches every sub-resource once", func(t *testing.T) {
		backend := &stubContextBackend{currentRole: entity.Member}
		svc, _, _ := newContextFixture(backend)

		pc, err := svc.Open(context.Background(), "user-1")
		require.NoError(t, err)
		defer pc.Close()

		role, proj, class, app, event := backend.counts()
		assert.Equal(t, 1, role)
		assert.Equal(t, 1, proj)
		assert.Equal(t, 1, class)
		assert.Equal(t, 1, app)
		assert.Equal(t, 1, event)
		assert.Equal(t, entity.Member, pc.Role())
	})

	t.Run("a failed fetch fails the whole open", func(t *testing.T) {
		backend := &stubContextBackend{roleErr: errors.New("backend down")}
		svc, _, _ := newContextFixture(backend)

		_, err := svc.Open(context.Background(), "user-1")
		assert.Error(t, err)
	})
}

func TestProfileContextStaleness(t *testing.T) {
	t.Run("fresh reads are served from cache", func(t *testing.T) {
		backend := &stubContextBackend{currentRole: entity.Member}
		svc, _, _ := newContextFixture(backend)

		pc, err := svc.Open(context.Background(), "user-1")
		require.NoError(t, err)
		defer pc.Close()

		for i := 0; i < 5; i++ {
			pc.Role()
			pc.Projects()
		}
		role, proj, _, _, _ := backend.counts()
		assert.Equal(t, 1, role)
		assert.Equal(t, 1, proj)
	})

	t.Run("a stale read returns the cached value and refetches once", func(t *testing.T) {
		backend := &stubContextBackend{currentRole: entity.Member}
		svc, clock, _ := newContextFixture(backend)

		pc, err := svc.Open(context.Background(), "user-1")
		require.NoError(t, err)
		defer pc.Close()

		backend.mu.Lock()
		backend.currentRole = entity.Board
		backend.mu.Unlock()
		clock.Advance(roleTTL + time.Second)

		// The stale read still answers with the old value.
		assert.Equal(t, entity.Member, pc.Role())

		require.Eventually(t, func() bool {
			role, _, _, _, _ := backend.counts()
			return role == 2
		}, time.Second, 5*time.Millisecond)

		assert.Eventually(t, func() bool {
			return pc.Role() == entity.Board
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("refresh forces a synchronous refetch", func(t *testing.T) {
		backend := &stubContextBackend{currentRole: entity.Member}
		svc, _, _ := newContextFixture(backend)

		pc, err := svc.Open(context.Background(), "user-1")
		require.NoError(t, err)
		defer pc.Close()

		backend.mu.Lock()
		backend.currentRole = entity.EBoard
		backend.mu.Unlock()

		require.NoError(t, pc.RefreshRole(context.Background()))
		assert.Equal(t, entity.EBoard, pc.Role())
	})
}

func TestProfileContextInvalidation(t *testing.T) {
	t.Run("a change notification bypasses the staleness window", func(t *testing.T) {
		backend := &stubContextBackend{currentRole: entity.Member}
		svc, _, bus := newContextFixture(backend)

		pc, err := svc.Open(context.Background(), "user-1")
		require.NoError(t, err)
		defer pc.Close()

		backend.mu.Lock()
		backend.currentRole = entity.Board
		backend.mu.Unlock()

		bus.Publish(watch.Change{Resource: watch.Roles, UserID: "user-1", Action: watch.ActionUpdate})

		assert.Eventually(t, func() bool {
			return pc.Role() == entity.Board
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("changes for other identities are ignored", func(t *testing.T) {
		backend := &stubContextBackend{currentRole: entity.Member}
		svc, _, bus := newContextFixture(backend)

		pc, err := svc.Open(context.Background(), "user-1")
		require.NoError(t, err)
		defer pc.Close()

		bus.Publish(watch.Change{Resource: watch.Roles, UserID: "someone-else", Action: watch.ActionUpdate})

		time.Sleep(50 * time.Millisecond)
		role, _, _, _, _ := backend.counts()
		assert.Equal(t, 1, role)
	})
}

func TestProfileContextClose(t *testing.T) {
	backend := &stubContextBackend{currentRole: entity.Member}
	svc, _, bus := newContextFixture(backend)

	pc, err := svc.Open(context.Background(), "user-1")
	require.NoError(t, err)

	pc.Close()
	pc.Close()

	bus.Publish(watch.Change{Resource: watch.Roles, UserID: "user-1", Action: watch.ActionUpdate})

	time.Sleep(50 * time.Millisecond)
	role, _, _, _, _ := backend.counts()
	assert.Equal(t, 1, role)
}
