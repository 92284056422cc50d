package service

import (
	"context"
	"fmt"

	"github.com/studorg/membership-service/internal/domain/common/errorz"
	"github.com/studorg/membership-service/internal/domain/entity"
	"github.com/studorg/membership-service/internal/domain/watch"
)

type RoleStorage interface {
	Get(ctx context.Context, userID string) (*entity.UserRole, error)
	Set(ctx context.Context, userID string, role entity.Role, position string) (*entity.UserRole, error)
}

type RoleService struct {
	roleStorage RoleStorage
	bus         *watch.Bus
}

func NewRoleService(roleStorage RoleStorage, bus *watch.Bus) *RoleService {
	return &RoleService{
		roleStorage: roleStorage,
		bus:         bus,
	}
}

func (s *RoleService) Get(ctx context.Context, userID string) (*entity.UserRole, error) {
	return s.roleStorage.Get(ctx, userID)
}

// Set assigns a role directly. Only e-board staff may do this; role
// escalation for everyone else happens through accepted applications.
func (s *RoleService) Set(ctx context.Context, actorRole entity.Role, userID string, role entity.Role, position string) (*entity.UserRole, error) {
	if !actorRole.IsEBoard() {
		return nil, fmt.Errorf("%w: only e-board can assign roles", errorz.Forbidden)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", errorz.ValidationFailed, role)
	}
	record, err := s.roleStorage.Set(ctx, userID, role, position)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(watch.Change{Resource: watch.Roles, UserID: userID, Action: watch.ActionUpdate})
	return record, nil
}
