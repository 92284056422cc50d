package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/studorg/membership-service/internal/domain/dto"
	"github.com/studorg/membership-service/internal/domain/entity"
	"gorm.io/gorm"
)

type ApplicationStorage struct {
	db *gorm.DB
}

func NewApplicationStorage(db *gorm.DB) *ApplicationStorage {
	return &ApplicationStorage{
		db: db,
	}
}

func (s *ApplicationStorage) Create(ctx context.Context, application *entity.Application) (*entity.Application, error) {
	err := s.db.WithContext(ctx).Create(&application).Error
	return application, err
}

func (s *ApplicationStorage) Get(ctx context.Context, id string) (*entity.Application, error) {
	var application entity.Application
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&application).Error
	return &application, wrapNotFound(err)
}

func (s *ApplicationStorage) GetByUserID(ctx context.Context, userID string) ([]entity.Application, error) {
	var applications []entity.Application
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&applications).Error
	return applications, err
}

// GetByStatusAndTypes lists applications in the given status restricted to
// the given types, oldest first, which is the review queue order.
func (s *ApplicationStorage) GetByStatusAndTypes(ctx context.Context, status entity.ApplicationStatus, types []entity.ApplicationType) ([]entity.Application, error) {
	var applications []entity.Application
	err := s.db.WithContext(ctx).
		Where("status = ? AND type IN ?", status, types).
		Order("created_at").
		Find(&applications).Error
	return applications, err
}

// HasForClass reports whether the user already has an application targeting
// the class, whatever its status.
func (s *ApplicationStorage) HasForClass(ctx context.Context, userID, classID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.Application{}).
		Where("user_id = ? AND class_id = ?", userID, classID).
		Count(&count).Error
	return count > 0, err
}

// HasForProject reports whether the user already has an application
// targeting the project, whatever its status.
func (s *ApplicationStorage) HasForProject(ctx context.Context, userID, projectID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.Application{}).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Count(&count).Error
	return count > 0, err
}

// Decide stamps the decision and applies the provisioning side effect in a
// single transaction, so an accepted application can never end up half
// applied.
func (s *ApplicationStorage) Decide(ctx context.Context, application *entity.Application, provision dto.Provision) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(application).Error; err != nil {
			return err
		}
		if provision.Role != nil {
			if err := upsertRole(tx, provision.Role); err != nil {
				return err
			}
		}
		if provision.Enrollment != nil {
			if err := tx.Create(provision.Enrollment).Error; err != nil {
				return err
			}
		}
		if provision.Membership != nil {
			if err := tx.Create(provision.Membership).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func upsertRole(tx *gorm.DB, role *entity.UserRole) error {
	var existing entity.UserRole
	err := tx.Where("user_id = ?", role.UserID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(role).Error
	}
	if err != nil {
		return err
	}
	existing.Role = role.Role
	existing.Position = role.Position
	return tx.Save(&existing).Error
}

// GetExpired returns decided applications whose retention window elapsed
// before now.
func (s *ApplicationStorage) GetExpired(ctx context.Context, now time.Time) ([]entity.Application, error) {
	var applications []entity.Application
	cutoff := now.Add(-entity.RetentionPeriod)
	err := s.db.WithContext(ctx).
		Where("status <> ? AND reviewed_at < ?", entity.StatusPending, cutoff).
		Find(&applications).Error
	return applications, err
}

func (s *ApplicationStorage) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(&entity.Application{}).Error
}
