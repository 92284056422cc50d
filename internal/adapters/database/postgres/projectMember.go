package postgres

import (
	"context"

	"github.com/studorg/membership-service/internal/domain/entity"
	"gorm.io/gorm"
)

type ProjectMemberStorage struct {
	db *gorm.DB
}

func NewProjectMemberStorage(db *gorm.DB) *ProjectMemberStorage {
	return &ProjectMemberStorage{
		db: db,
	}
}

func (s *ProjectMemberStorage) Create(ctx context.Context, member *entity.ProjectMember) (*entity.ProjectMember, error) {
	err := s.db.WithContext(ctx).Create(&member).Error
	return member, err
}

func (s *ProjectMemberStorage) Get(ctx context.Context, projectID, userID string) (*entity.ProjectMember, error) {
	var member entity.ProjectMember
	err := s.db.WithContext(ctx).Where("project_id = ? AND user_id = ?", projectID, userID).First(&member).Error
	return &member, wrapNotFound(err)
}

func (s *ProjectMemberStorage) Delete(ctx context.Context, projectID, userID string) error {
	return s.db.WithContext(ctx).Where("project_id = ? AND user_id = ?", projectID, userID).Delete(&entity.ProjectMember{}).Error
}

func (s *ProjectMemberStorage) GetByProjectID(ctx context.Context, projectID string) ([]entity.ProjectMember, error) {
	var members []entity.ProjectMember
	err := s.db.WithContext(ctx).Where("project_id = ?", projectID).Find(&members).Error
	return members, err
}

// GetProjectIDs returns the ids of every project the user is a member of.
func (s *ProjectMemberStorage) GetProjectIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&entity.ProjectMember{}).
		Where("user_id = ?", userID).
		Pluck("project_id", &ids).Error
	return ids, err
}
