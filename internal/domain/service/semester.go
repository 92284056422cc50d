package service

import (
	"context"
	"fmt"

	"github.com/studorg/membership-service/internal/domain/common/errorz"
	"github.com/studorg/membership-service/internal/domain/entity"
)

type SemesterStorage interface {
	Create(ctx context.Context, semester *entity.Semester) (*entity.Semester, error)
	Get(ctx context.Context, id uint) (*entity.Semester, error)
	GetAll(ctx context.Context) ([]entity.Semester, error)
	Update(ctx context.Context, semester *entity.Semester) (*entity.Semester, error)
}

type SemesterService struct {
	semesterStorage SemesterStorage
}

func NewSemesterService(semesterStorage SemesterStorage) *SemesterService {
	return &SemesterService{
		semesterStorage: semesterStorage,
	}
}

func (s *SemesterService) Create(ctx context.Context, semester *entity.Semester) (*entity.Semester, error) {
	if semester.Name == "" {
		return nil, fmt.Errorf("%w: semester name is required", errorz.ValidationFailed)
	}
	return s.semesterStorage.Create(ctx, semester)
}

func (s *SemesterService) Get(ctx context.Context, id uint) (*entity.Semester, error) {
	return s.semesterStorage.Get(ctx, id)
}

func (s *SemesterService) GetAll(ctx context.Context) ([]entity.Semester, error) {
	return s.semesterStorage.GetAll(ctx)
}

func (s *SemesterService) Update(ctx context.Context, semester *entity.Semester) (*entity.Semester, error) {
	return s.semesterStorage.Update(ctx, semester)
}
