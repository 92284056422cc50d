package postgres

import (
	"context"

	"github.com/studorg/membership-service/internal/domain/entity"
	"gorm.io/gorm"
)

type ProjectStorage struct {
	db *gorm.DB
}

func NewProjectStorage(db *gorm.DB) *ProjectStorage {
	return &ProjectStorage{
		db: db,
	}
}

func (s *ProjectStorage) Create(ctx context.Context, project *entity.Project) (*entity.Project, error) {
	err := s.db.WithContext(ctx).Create(&project).Error
	return project, err
}

func (s *ProjectStorage) Get(ctx context.Context, id string) (*entity.Project, error) {
	var project entity.Project
	err := s.db.WithContext(ctx).Preload("Semester").Where("id = ?", id).First(&project).Error
	return &project, wrapNotFound(err)
}

// GetAll returns the whole catalog with terms preloaded.
func (s *ProjectStorage) GetAll(ctx context.Context) ([]entity.Project, error) {
	var projects []entity.Project
	err := s.db.WithContext(ctx).Preload("Semester").Find(&projects).Error
	return projects, err
}

func (s *ProjectStorage) Update(ctx context.Context, project *entity.Project) (*entity.Project, error) {
	err := s.db.WithContext(ctx).Save(&project).Error
	return project, err
}

func (s *ProjectStorage) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Project{}).Error
}

func (s *ProjectStorage) MemberCount(ctx context.Context, id string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.ProjectMember{}).Where("project_id = ?", id).Count(&count).Error
	return count, err
}
