package postgres

import (
	"context"

	"github.com/studorg/membership-service/internal/domain/entity"
	"gorm.io/gorm"
)

type ClassStorage struct {
	db *gorm.DB
}

func NewClassStorage(db *gorm.DB) *ClassStorage {
	return &ClassStorage{
		db: db,
	}
}

func (s *ClassStorage) Create(ctx context.Context, class *entity.Class) (*entity.Class, error) {
	err := s.db.WithContext(ctx).Create(&class).Error
	return class, err
}

func (s *ClassStorage) Get(ctx context.Context, id string) (*entity.Class, error) {
	var class entity.Class
	err := s.db.WithContext(ctx).Preload("Semester").Where("id = ?", id).First(&class).Error
	return &class, wrapNotFound(err)
}

func (s *ClassStorage) GetAll(ctx context.Context) ([]entity.Class, error) {
	var classes []entity.Class
	err := s.db.WithContext(ctx).Preload("Semester").Find(&classes).Error
	return classes, err
}

func (s *ClassStorage) Update(ctx context.Context, class *entity.Class) (*entity.Class, error) {
	err := s.db.WithContext(ctx).Save(&class).Error
	return class, err
}

func (s *ClassStorage) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Class{}).Error
}

func (s *ClassStorage) EnrollmentCount(ctx context.Context, id string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.ClassEnrollment{}).Where("class_id = ?", id).Count(&count).Error
	return count, err
}
