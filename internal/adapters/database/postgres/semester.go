package postgres

import (
	"context"

	"github.com/studorg/membership-service/internal/domain/entity"
	"gorm.io/gorm"
)

type SemesterStorage struct {
	db *gorm.DB
}

func NewSemesterStorage(db *gorm.DB) *SemesterStorage {
	return &SemesterStorage{
		db: db,
	}
}

func (s *SemesterStorage) Create(ctx context.Context, semester *entity.Semester) (*entity.Semester, error) {
	err := s.db.WithContext(ctx).Create(&semester).Error
	return semester, err
}

func (s *SemesterStorage) Get(ctx context.Context, id uint) (*entity.Semester, error) {
	var semester entity.Semester
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&semester).Error
	return &semester, wrapNotFound(err)
}

func (s *SemesterStorage) GetAll(ctx context.Context) ([]entity.Semester, error) {
	var semesters []entity.Semester
	err := s.db.WithContext(ctx).Order("start_date").Find(&semesters).Error
	return semesters, err
}

func (s *SemesterStorage) Update(ctx context.Context, semester *entity.Semester) (*entity.Semester, error) {
	err := s.db.WithContext(ctx).Save(&semester).Error
	return semester, err
}
