package service

import (
	"context"
	"time"

	"github.com/studorg/membership-service/internal/domain/entity"
	"github.com/studorg/membership-service/internal/domain/status"
	"github.com/studorg/membership-service/internal/domain/watch"
)

type ProjectStorage interface {
	Create(ctx context.Context, project *entity.Project) (*entity.Project, error)
	Get(ctx context.Context, id string) (*entity.Project, error)
	GetAll(ctx context.Context) ([]entity.Project, error)
	Update(ctx context.Context, project *entity.Project) (*entity.Project, error)
	Delete(ctx context.Context, id string) error
	MemberCount(ctx context.Context, id string) (int64, error)
}

type ProjectMemberStorage interface {
	Create(ctx context.Context, member *entity.ProjectMember) (*entity.ProjectMember, error)
	Get(ctx context.Context, projectID, userID string) (*entity.ProjectMember, error)
	Delete(ctx context.Context, projectID, userID string) error
	GetByProjectID(ctx context.Context, projectID string) ([]entity.ProjectMember, error)
	GetProjectIDs(ctx context.Context, userID string) ([]string, error)
}

type ProjectService struct {
	projectStorage ProjectStorage
	memberStorage  ProjectMemberStorage
	bus            *watch.Bus
}

func NewProjectService(projectStorage ProjectStorage, memberStorage ProjectMemberStorage, bus *watch.Bus) *ProjectService {
	return &ProjectService{
		projectStorage: projectStorage,
		memberStorage:  memberStorage,
		bus:            bus,
	}
}

func (s *ProjectService) Create(ctx context.Context, project *entity.Project) (*entity.Project, error) {
	return s.projectStorage.Create(ctx, project)
}

func (s *ProjectService) Get(ctx context.Context, id string) (*entity.Project, error) {
	return s.projectStorage.Get(ctx, id)
}

func (s *ProjectService) GetAll(ctx context.Context) ([]entity.Project, error) {
	return s.projectStorage.GetAll(ctx)
}

func (s *ProjectService) Update(ctx context.Context, project *entity.Project) (*entity.Project, error) {
	return s.projectStorage.Update(ctx, project)
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	return s.projectStorage.Delete(ctx, id)
}

func (s *ProjectService) MemberCount(ctx context.Context, id string) (int64, error) {
	return s.projectStorage.MemberCount(ctx, id)
}

func (s *ProjectService) Members(ctx context.Context, projectID string) ([]entity.ProjectMember, error) {
	return s.memberStorage.GetByProjectID(ctx, projectID)
}

// AddMember creates a membership directly (staff action; application-driven
// provisioning goes through the application service instead).
func (s *ProjectService) AddMember(ctx context.Context, projectID, userID, role string) (*entity.ProjectMember, error) {
	member, err := s.memberStorage.Create(ctx, &entity.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
	})
	if err != nil {
		return nil, err
	}
	s.bus.Publish(watch.Change{Resource: watch.ProjectMembers, UserID: userID, Action: watch.ActionInsert})
	return member, nil
}

func (s *ProjectService) RemoveMember(ctx context.Context, projectID, userID string) error {
	if err := s.memberStorage.Delete(ctx, projectID, userID); err != nil {
		return err
	}
	s.bus.Publish(watch.Change{Resource: watch.ProjectMembers, UserID: userID, Action: watch.ActionDelete})
	return nil
}

// BucketForUser groups the whole project catalog relative to one user. A
// failed fetch fails the whole aggregation; no partial result.
func (s *ProjectService) BucketForUser(ctx context.Context, userID string, now time.Time) (status.Buckets[entity.Project], error) {
	var empty status.Buckets[entity.Project]

	catalog, err := s.projectStorage.GetAll(ctx)
	if err != nil {
		return empty, err
	}
	ids, err := s.memberStorage.GetProjectIDs(ctx, userID)
	if err != nil {
		return empty, err
	}
	return status.Bucket(catalog, status.MemberSet(ids), now), nil
}
