package service

import (
	"context"
	"sync"
	"time"

	"github.com/studorg/membership-service/internal/domain/dto"
	"github.com/studorg/membership-service/internal/domain/entity"
	"github.com/studorg/membership-service/internal/domain/status"
	"github.com/studorg/membership-service/internal/domain/watch"
	"github.com/studorg/membership-service/pkg/logger/types"
)

// Staleness windows per sub-resource. A read past the window returns the
// cached value and kicks off one background refetch; change notifications
// bypass the windows entirely.
const (
	roleTTL        = 5 * time.Minute
	projectTTL     = 2 * time.Minute
	classTTL       = 2 * time.Minute
	applicationTTL = time.Minute
	eventTTL       = 5 * time.Minute
)

type contextRoleStorage interface {
	Get(ctx context.Context, userID string) (*entity.UserRole, error)
}

type contextProjectBucketer interface {
	BucketForUser(ctx context.Context, userID string, now time.Time) (status.Buckets[entity.Project], error)
}

type contextClassBucketer interface {
	BucketForUser(ctx context.Context, userID string, now time.Time) (status.Buckets[entity.Class], error)
}

type contextApplicationDashboard interface {
	Dashboard(ctx context.Context, userID string, role entity.Role, now time.Time) (dto.Applications, error)
}

type contextEventLister interface {
	VisibleTo(ctx context.Context, role entity.Role, userID string, now time.Time) (dto.Events, error)
}

type ProfileContextService struct {
	logger *types.Logger

	roleStorage  contextRoleStorage
	projects     contextProjectBucketer
	classes      contextClassBucketer
	applications contextApplicationDashboard
	events       contextEventLister
	bus          *watch.Bus

	now func() time.Time
}

func NewProfileContextService(
	logger *types.Logger,
	roleStorage contextRoleStorage,
	projects contextProjectBucketer,
	classes contextClassBucketer,
	applications contextApplicationDashboard,
	events contextEventLister,
	bus *watch.Bus,
) *ProfileContextService {
	return &ProfileContextService{
		logger:       logger,
		roleStorage:  roleStorage,
		projects:     projects,
		classes:      classes,
		applications: applications,
		events:       events,
		bus:          bus,
		now:          time.Now,
	}
}

// Open builds the aggregation context for an authenticated session: every
// sub-resource is fetched up front (any failure fails the whole open, no
// partial context) and the five change subscriptions are registered.
func (s *ProfileContextService) Open(ctx context.Context, userID string) (*ProfileContext, error) {
	c := &ProfileContext{svc: s, userID: userID}

	for _, refresh := range []func(context.Context) error{
		c.RefreshRole,
		c.RefreshProjects,
		c.RefreshClasses,
		c.RefreshApplications,
		c.RefreshEvents,
	} {
		if err := refresh(ctx); err != nil {
			return nil, err
		}
	}

	c.subscribe()
	return c, nil
}

type slot[T any] struct {
	value      T
	fetchedAt  time.Time
	refreshing bool
}

// ProfileContext is the per-session cache of everything the member
// dashboards show. Reads never block on freshness. Writes to the backend are
// never applied optimistically; the cache always refetches, and racing
// refetches resolve last-write-wins.
type ProfileContext struct {
	svc    *ProfileContextService
	userID string

	mu           sync.Mutex
	role         slot[*entity.UserRole]
	projects     slot[status.Buckets[entity.Project]]
	classes      slot[status.Buckets[entity.Class]]
	applications slot[dto.Applications]
	events       slot[dto.Events]

	subs   []*watch.Subscription
	closed bool
}

func (c *ProfileContext) UserID() string { return c.userID }

func (c *ProfileContext) subscribe() {
	type binding struct {
		resource watch.Resource
		refresh  func(context.Context) error
	}
	for _, b := range []binding{
		{watch.Roles, c.RefreshRole},
		{watch.ProjectMembers, c.RefreshProjects},
		{watch.ClassEnrollments, c.RefreshClasses},
		{watch.Applications, c.RefreshApplications},
		{watch.EventAttendance, c.RefreshEvents},
	} {
		refresh := b.refresh
		c.subs = append(c.subs, c.svc.bus.Subscribe(b.resource, c.userID, func(watch.Change) {
			c.forceRefresh(refresh)
		}))
	}
}

// Close tears the context down when the session ends or the identity
// changes. All five subscriptions are released exactly once.
func (c *ProfileContext) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

func (c *ProfileContext) stale(fetchedAt time.Time, ttl time.Duration) bool {
	return c.svc.now().Sub(fetchedAt) > ttl
}

// forceRefresh refetches regardless of the staleness window, on a
// background goroutine. Used by change notifications.
func (c *ProfileContext) forceRefresh(refresh func(context.Context) error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	if err := refresh(context.Background()); err != nil {
		c.svc.logger.Errorf("profile context refresh for %s failed: %v", c.userID, err)
	}
}

func (c *ProfileContext) maybeRefresh(refreshing *bool, fetchedAt time.Time, ttl time.Duration, refresh func(context.Context) error) {
	if c.closed || *refreshing || !c.stale(fetchedAt, ttl) {
		return
	}
	*refreshing = true
	go func() {
		if err := refresh(context.Background()); err != nil {
			c.svc.logger.Errorf("profile context refresh for %s failed: %v", c.userID, err)
		}
	}()
}

// Role returns the cached role, refetching in the background when stale.
func (c *ProfileContext) Role() entity.Role {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maybeRefresh(&c.role.refreshing, c.role.fetchedAt, roleTTL, c.RefreshRole)
	return c.role.value.Role
}

func (c *ProfileContext) Position() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.role.value.Position
}

func (c *ProfileContext) Projects() status.Buckets[entity.Project] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maybeRefresh(&c.projects.refreshing, c.projects.fetchedAt, projectTTL, c.RefreshProjects)
	return c.projects.value
}

func (c *ProfileContext) Classes() status.Buckets[entity.Class] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maybeRefresh(&c.classes.refreshing, c.classes.fetchedAt, classTTL, c.RefreshClasses)
	return c.classes.value
}

func (c *ProfileContext) Applications() dto.Applications {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maybeRefresh(&c.applications.refreshing, c.applications.fetchedAt, applicationTTL, c.RefreshApplications)
	return c.applications.value
}

func (c *ProfileContext) Events() dto.Events {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maybeRefresh(&c.events.refreshing, c.events.fetchedAt, eventTTL, c.RefreshEvents)
	return c.events.value
}

// Derived booleans recompute from the cached role on every call; they have
// no staleness of their own.
func (c *ProfileContext) IsBoard() bool         { return c.Role().IsBoard() }
func (c *ProfileContext) IsEBoard() bool        { return c.Role().IsEBoard() }
func (c *ProfileContext) CanManageEvents() bool { return c.Role().IsBoard() }
func (c *ProfileContext) CanAssignRoles() bool  { return c.Role().IsEBoard() }

func (c *ProfileContext) RefreshRole(ctx context.Context) error {
	record, err := c.svc.roleStorage.Get(ctx, c.userID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.role.refreshing = false
	if err != nil {
		return err
	}
	c.role.value = record
	c.role.fetchedAt = c.svc.now()
	return nil
}

func (c *ProfileContext) RefreshProjects(ctx context.Context) error {
	buckets, err := c.svc.projects.BucketForUser(ctx, c.userID, c.svc.now())

	c.mu.Lock()
	defer c.mu.Unlock()
	c.projects.refreshing = false
	if err != nil {
		return err
	}
	c.projects.value = buckets
	c.projects.fetchedAt = c.svc.now()
	return nil
}

func (c *ProfileContext) RefreshClasses(ctx context.Context) error {
	buckets, err := c.svc.classes.BucketForUser(ctx, c.userID, c.svc.now())

	c.mu.Lock()
	defer c.mu.Unlock()
	c.classes.refreshing = false
	if err != nil {
		return err
	}
	c.classes.value = buckets
	c.classes.fetchedAt = c.svc.now()
	return nil
}

func (c *ProfileContext) RefreshApplications(ctx context.Context) error {
	role := c.currentRole()
	dashboard, err := c.svc.applications.Dashboard(ctx, c.userID, role, c.svc.now())

	c.mu.Lock()
	defer c.mu.Unlock()
	c.applications.refreshing = false
	if err != nil {
		return err
	}
	c.applications.value = dashboard
	c.applications.fetchedAt = c.svc.now()
	return nil
}

func (c *ProfileContext) RefreshEvents(ctx context.Context) error {
	role := c.currentRole()
	events, err := c.svc.events.VisibleTo(ctx, role, c.userID, c.svc.now())

	c.mu.Lock()
	defer c.mu.Unlock()
	c.events.refreshing = false
	if err != nil {
		return err
	}
	c.events.value = events
	c.events.fetchedAt = c.svc.now()
	return nil
}

// currentRole reads the cached role without triggering a refresh, for use
// inside other refreshes. Before the first role fetch it reads prospect.
func (c *ProfileContext) currentRole() entity.Role {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.role.value == nil {
		return entity.Prospect
	}
	return c.role.value.Role
}

// Snapshot assembles one consistent view of every cached sub-resource.
func (c *ProfileContext) Snapshot() dto.ProfileSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return dto.ProfileSnapshot{
		UserID:       c.userID,
		Role:         c.role.value.Role,
		Position:     c.role.value.Position,
		Projects:     c.projects.value,
		Classes:      c.classes.value,
		Applications: c.applications.value,
		Events:       c.events.value,
	}
}
