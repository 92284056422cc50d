package postgres

import (
	"context"

	"github.com/studorg/membership-service/internal/domain/entity"
	"gorm.io/gorm"
)

type LectureStorage struct {
	db *gorm.DB
}

func NewLectureStorage(db *gorm.DB) *LectureStorage {
	return &LectureStorage{
		db: db,
	}
}

func (s *LectureStorage) Create(ctx context.Context, lecture *entity.Lecture) (*entity.Lecture, error) {
	err := s.db.WithContext(ctx).Create(&lecture).Error
	return lecture, err
}

func (s *LectureStorage) Get(ctx context.Context, id string) (*entity.Lecture, error) {
	var lecture entity.Lecture
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&lecture).Error
	return &lecture, wrapNotFound(err)
}

func (s *LectureStorage) GetBySlug(ctx context.Context, slug string) (*entity.Lecture, error) {
	var lecture entity.Lecture
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&lecture).Error
	return &lecture, wrapNotFound(err)
}

func (s *LectureStorage) GetPublished(ctx context.Context) ([]entity.Lecture, error) {
	var lectures []entity.Lecture
	err := s.db.WithContext(ctx).Where("published = true").Order("created_at").Find(&lectures).Error
	return lectures, err
}

func (s *LectureStorage) GetAll(ctx context.Context) ([]entity.Lecture, error) {
	var lectures []entity.Lecture
	err := s.db.WithContext(ctx).Order("created_at").Find(&lectures).Error
	return lectures, err
}

func (s *LectureStorage) Update(ctx context.Context, lecture *entity.Lecture) (*entity.Lecture, error) {
	err := s.db.WithContext(ctx).Save(&lecture).Error
	return lecture, err
}

func (s *LectureStorage) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Lecture{}).Error
}
