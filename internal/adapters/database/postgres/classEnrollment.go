package postgres

import (
	"context"

	"github.com/studorg/membership-service/internal/domain/entity"
	"gorm.io/gorm"
)

type ClassEnrollmentStorage struct {
	db *gorm.DB
}

func NewClassEnrollmentStorage(db *gorm.DB) *ClassEnrollmentStorage {
	return &ClassEnrollmentStorage{
		db: db,
	}
}

func (s *ClassEnrollmentStorage) Create(ctx context.Context, enrollment *entity.ClassEnrollment) (*entity.ClassEnrollment, error) {
	err := s.db.WithContext(ctx).Create(&enrollment).Error
	return enrollment, err
}

func (s *ClassEnrollmentStorage) Get(ctx context.Context, classID, userID string) (*entity.ClassEnrollment, error) {
	var enrollment entity.ClassEnrollment
	err := s.db.WithContext(ctx).Where("class_id = ? AND user_id = ?", classID, userID).First(&enrollment).Error
	return &enrollment, wrapNotFound(err)
}

func (s *ClassEnrollmentStorage) Delete(ctx context.Context, classID, userID string) error {
	return s.db.WithContext(ctx).Where("class_id = ? AND user_id = ?", classID, userID).Delete(&entity.ClassEnrollment{}).Error
}

func (s *ClassEnrollmentStorage) GetByClassID(ctx context.Context, classID string) ([]entity.ClassEnrollment, error) {
	var enrollments []entity.ClassEnrollment
	err := s.db.WithContext(ctx).Where("class_id = ?", classID).Find(&enrollments).Error
	return enrollments, err
}

// GetClassIDs returns the ids of every class the user is enrolled in.
func (s *ClassEnrollmentStorage) GetClassIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&entity.ClassEnrollment{}).
		Where("user_id = ?", userID).
		Pluck("class_id", &ids).Error
	return ids, err
}
