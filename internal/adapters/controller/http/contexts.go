package httpapi

import (
	"context"
	"sync"

	"github.com/studorg/membership-service/internal/domain/service"
)

// contextRegistry holds one open profile aggregation context per signed-in
// identity. Contexts are opened lazily on first use and torn down on logout,
// account deletion or server shutdown.
type contextRegistry struct {
	svc *service.ProfileContextService

	mu   sync.Mutex
	open map[string]*service.ProfileContext
}

func newContextRegistry(svc *service.ProfileContextService) *contextRegistry {
	return &contextRegistry{
		svc:  svc,
		open: make(map[string]*service.ProfileContext),
	}
}

func (r *contextRegistry) get(ctx context.Context, userID string) (*service.ProfileContext, error) {
	r.mu.Lock()
	if pc, ok := r.open[userID]; ok {
		r.mu.Unlock()
		return pc, nil
	}
	r.mu.Unlock()

	pc, err := r.svc.Open(ctx, userID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.open[userID]; ok {
		pc.Close()
		return existing, nil
	}
	r.open[userID] = pc
	return pc, nil
}

func (r *contextRegistry) close(userID string) {
	r.mu.Lock()
	pc, ok := r.open[userID]
	delete(r.open, userID)
	r.mu.Unlock()
	if ok {
		pc.Close()
	}
}

func (r *contextRegistry) closeAll() {
	r.mu.Lock()
	open := r.open
	r.open = make(map[string]*service.ProfileContext)
	r.mu.Unlock()
	for _, pc := range open {
		pc.Close()
	}
}
