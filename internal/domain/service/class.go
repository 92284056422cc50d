package service

import (
	"context"
	"time"

	"github.com/studorg/membership-service/internal/domain/entity"
	"github.com/studorg/membership-service/internal/domain/status"
	"github.com/studorg/membership-service/internal/domain/watch"
)

type ClassStorage interface {
	Create(ctx context.Context, class *entity.Class) (*entity.Class, error)
	Get(ctx context.Context, id string) (*entity.Class, error)
	GetAll(ctx context.Context) ([]entity.Class, error)
	Update(ctx context.Context, class *entity.Class) (*entity.Class, error)
	Delete(ctx context.Context, id string) error
	EnrollmentCount(ctx context.Context, id string) (int64, error)
}

type ClassEnrollmentStorage interface {
	Create(ctx context.Context, enrollment *entity.ClassEnrollment) (*entity.ClassEnrollment, error)
	Get(ctx context.Context, classID, userID string) (*entity.ClassEnrollment, error)
	Delete(ctx context.Context, classID, userID string) error
	GetByClassID(ctx context.Context, classID string) ([]entity.ClassEnrollment, error)
	GetClassIDs(ctx context.Context, userID string) ([]string, error)
}

type ClassService struct {
	classStorage      ClassStorage
	enrollmentStorage ClassEnrollmentStorage
	bus               *watch.Bus
}

func NewClassService(classStorage ClassStorage, enrollmentStorage ClassEnrollmentStorage, bus *watch.Bus) *ClassService {
	return &ClassService{
		classStorage:      classStorage,
		enrollmentStorage: enrollmentStorage,
		bus:               bus,
	}
}

func (s *ClassService) Create(ctx context.Context, class *entity.Class) (*entity.Class, error) {
	return s.classStorage.Create(ctx, class)
}

func (s *ClassService) Get(ctx context.Context, id string) (*entity.Class, error) {
	return s.classStorage.Get(ctx, id)
}

func (s *ClassService) GetAll(ctx context.Context) ([]entity.Class, error) {
	return s.classStorage.GetAll(ctx)
}

func (s *ClassService) Update(ctx context.Context, class *entity.Class) (*entity.Class, error) {
	return s.classStorage.Update(ctx, class)
}

func (s *ClassService) Delete(ctx context.Context, id string) error {
	return s.classStorage.Delete(ctx, id)
}

func (s *ClassService) EnrollmentCount(ctx context.Context, id string) (int64, error) {
	return s.classStorage.EnrollmentCount(ctx, id)
}

func (s *ClassService) Enrollments(ctx context.Context, classID string) ([]entity.ClassEnrollment, error) {
	return s.enrollmentStorage.GetByClassID(ctx, classID)
}

func (s *ClassService) Enroll(ctx context.Context, classID, userID, role string) (*entity.ClassEnrollment, error) {
	enrollment, err := s.enrollmentStorage.Create(ctx, &entity.ClassEnrollment{
		ClassID: classID,
		UserID:  userID,
		Role:    role,
	})
	if err != nil {
		return nil, err
	}
	s.bus.Publish(watch.Change{Resource: watch.ClassEnrollments, UserID: userID, Action: watch.ActionInsert})
	return enrollment, nil
}

func (s *ClassService) Unenroll(ctx context.Context, classID, userID string) error {
	if err := s.enrollmentStorage.Delete(ctx, classID, userID); err != nil {
		return err
	}
	s.bus.Publish(watch.Change{Resource: watch.ClassEnrollments, UserID: userID, Action: watch.ActionDelete})
	return nil
}

// BucketForUser groups the whole class catalog relative to one user.
func (s *ClassService) BucketForUser(ctx context.Context, userID string, now time.Time) (status.Buckets[entity.Class], error) {
	var empty status.Buckets[entity.Class]

	catalog, err := s.classStorage.GetAll(ctx)
	if err != nil {
		return empty, err
	}
	ids, err := s.enrollmentStorage.GetClassIDs(ctx, userID)
	if err != nil {
		return empty, err
	}
	return status.Bucket(catalog, status.MemberSet(ids), now), nil
}
