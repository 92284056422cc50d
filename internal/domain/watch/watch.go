// Package watch is the in-process change-notification bus. Services publish
// a change after every successful write; consumers subscribe per resource
// and identity and are notified asynchronously.
package watch

import "sync"

type Resource string

const (
	Roles            Resource = "user_roles"
	ProjectMembers   Resource = "project_members"
	ClassEnrollments Resource = "class_enrollments"
	Applications     Resource = "applications"
	EventAttendance  Resource = "event_attendance"
)

// Resources lists every watchable resource, in the order the profile
// context subscribes to them.
var Resources = []Resource{Roles, ProjectMembers, ClassEnrollments, Applications, EventAttendance}

type Action string

const (
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type Change struct {
	Resource Resource
	UserID   string
	Action   Action
}

type Subscription struct {
	bus      *Bus
	resource Resource
	userID   string
	id       uint64
	fn       func(Change)

	once sync.Once
}

// Unsubscribe removes the subscription from the bus. Safe to call more than
// once; only the first call does anything.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.bus.remove(s)
	})
}

type key struct {
	resource Resource
	userID   string
}

type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[key]map[uint64]*Subscription
}

func NewBus() *Bus {
	return &Bus{subs: make(map[key]map[uint64]*Subscription)}
}

// Subscribe registers fn for changes to the given resource scoped to the
// given identity. fn is invoked on its own goroutine and must not be assumed
// to run on any particular one.
func (b *Bus) Subscribe(resource Resource, userID string, fn func(Change)) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{
		bus:      b,
		resource: resource,
		userID:   userID,
		id:       b.nextID,
		fn:       fn,
	}
	k := key{resource: resource, userID: userID}
	if b.subs[k] == nil {
		b.subs[k] = make(map[uint64]*Subscription)
	}
	b.subs[k][sub.id] = sub
	return sub
}

// Publish fans the change out to matching subscribers without blocking the
// publisher.
func (b *Bus) Publish(c Change) {
	b.mu.RLock()
	targets := make([]*Subscription, 0, len(b.subs[key{c.Resource, c.UserID}]))
	for _, sub := range b.subs[key{c.Resource, c.UserID}] {
		targets = append(targets, sub)
	}
	b.mu.RUnlock()

	for _, sub := range targets {
		go sub.fn(c)
	}
}

func (b *Bus) remove(s *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	k := key{s.resource, s.userID}
	delete(b.subs[k], s.id)
	if len(b.subs[k]) == 0 {
		delete(b.subs, k)
	}
}
