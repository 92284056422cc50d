package service

import (
	"context"
	"fmt"

	"github.com/studorg/membership-service/internal/domain/common/errorz"
	"github.com/studorg/membership-service/internal/domain/entity"
	"github.com/studorg/membership-service/internal/domain/utils"
)

type LectureStorage interface {
	Create(ctx context.Context, lecture *entity.Lecture) (*entity.Lecture, error)
	Get(ctx context.Context, id string) (*entity.Lecture, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Lecture, error)
	GetPublished(ctx context.Context) ([]entity.Lecture, error)
	GetAll(ctx context.Context) ([]entity.Lecture, error)
	Update(ctx context.Context, lecture *entity.Lecture) (*entity.Lecture, error)
	Delete(ctx context.Context, id string) error
}

type LectureService struct {
	lectureStorage LectureStorage
}

func NewLectureService(lectureStorage LectureStorage) *LectureService {
	return &LectureService{
		lectureStorage: lectureStorage,
	}
}

func (s *LectureService) Create(ctx context.Context, lecture *entity.Lecture) (*entity.Lecture, error) {
	if lecture.Title == "" || lecture.Content == "" {
		return nil, fmt.Errorf("%w: title and content are required", errorz.ValidationFailed)
	}
	if lecture.Slug == "" {
		lecture.Slug = utils.SanitizeName(lecture.Title)
	}
	return s.lectureStorage.Create(ctx, lecture)
}

func (s *LectureService) Get(ctx context.Context, id string) (*entity.Lecture, error) {
	return s.lectureStorage.Get(ctx, id)
}

// GetBySlug returns a lecture page. Unpublished drafts are only visible to
// board staff.
func (s *LectureService) GetBySlug(ctx context.Context, slug string, role entity.Role) (*entity.Lecture, error) {
	lecture, err := s.lectureStorage.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !lecture.Published && !role.IsBoard() {
		return nil, fmt.Errorf("%w", errorz.NotFound)
	}
	return lecture, nil
}

func (s *LectureService) List(ctx context.Context, role entity.Role) ([]entity.Lecture, error) {
	if role.IsBoard() {
		return s.lectureStorage.GetAll(ctx)
	}
	return s.lectureStorage.GetPublished(ctx)
}

func (s *LectureService) Update(ctx context.Context, lecture *entity.Lecture) (*entity.Lecture, error) {
	return s.lectureStorage.Update(ctx, lecture)
}

func (s *LectureService) Delete(ctx context.Context, id string) error {
	return s.lectureStorage.Delete(ctx, id)
}
