package postgres

import (
	"context"
	"errors"

	"github.com/studorg/membership-service/internal/domain/entity"
	"gorm.io/gorm"
)

type RoleStorage struct {
	db *gorm.DB
}

func NewRoleStorage(db *gorm.DB) *RoleStorage {
	return &RoleStorage{
		db: db,
	}
}

// Get returns the active role record of a user. A missing record reads as
// prospect.
func (s *RoleStorage) Get(ctx context.Context, userID string) (*entity.UserRole, error) {
	var role entity.UserRole
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &entity.UserRole{UserID: userID, Role: entity.Prospect}, nil
	}
	return &role, err
}

// Set upserts the single role record of a user.
func (s *RoleStorage) Set(ctx context.Context, userID string, role entity.Role, position string) (*entity.UserRole, error) {
	var record entity.UserRole
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		record = entity.UserRole{UserID: userID, Role: role, Position: position}
		err = s.db.WithContext(ctx).Create(&record).Error
		return &record, err
	}
	if err != nil {
		return nil, err
	}
	record.Role = role
	record.Position = position
	err = s.db.WithContext(ctx).Save(&record).Error
	return &record, err
}
