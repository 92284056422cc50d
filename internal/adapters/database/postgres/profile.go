package postgres

import (
	"context"

	"github.com/studorg/membership-service/internal/domain/entity"
	"gorm.io/gorm"
)

type ProfileStorage struct {
	db *gorm.DB
}

func NewProfileStorage(db *gorm.DB) *ProfileStorage {
	return &ProfileStorage{
		db: db,
	}
}

func (s *ProfileStorage) Create(ctx context.Context, profile *entity.Profile) (*entity.Profile, error) {
	err := s.db.WithContext(ctx).Create(&profile).Error
	return profile, err
}

func (s *ProfileStorage) Get(ctx context.Context, id string) (*entity.Profile, error) {
	var profile entity.Profile
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	return &profile, wrapNotFound(err)
}

func (s *ProfileStorage) GetByEmail(ctx context.Context, email string) (*entity.Profile, error) {
	var profile entity.Profile
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&profile).Error
	return &profile, wrapNotFound(err)
}

func (s *ProfileStorage) Update(ctx context.Context, profile *entity.Profile) (*entity.Profile, error) {
	err := s.db.WithContext(ctx).Save(&profile).Error
	return profile, err
}

// AddPoints atomically increments a profile's point total.
func (s *ProfileStorage) AddPoints(ctx context.Context, id string, points int) error {
	return s.db.WithContext(ctx).Model(&entity.Profile{}).
		Where("id = ?", id).
		Update("points", gorm.Expr("points + ?", points)).Error
}

func (s *ProfileStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.Profile{}).Count(&count).Error
	return count, err
}

func (s *ProfileStorage) GetWithPagination(ctx context.Context, limit, offset int, order string) ([]entity.Profile, error) {
	var profiles []entity.Profile
	err := s.db.WithContext(ctx).Order(order).Offset(offset).Limit(limit).Find(&profiles).Error
	return profiles, err
}

// DeleteCascade hard-deletes a profile together with every record owned by
// it. Runs in a single transaction; the caller is responsible for storage
// object cleanup beforehand.
func (s *ProfileStorage) DeleteCascade(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{
			&entity.UserRole{},
			&entity.ProjectMember{},
			&entity.ClassEnrollment{},
			&entity.Application{},
			&entity.EventAttendance{},
		} {
			if err := tx.Unscoped().Where("user_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Unscoped().Where("id = ?", id).Delete(&entity.Profile{}).Error
	})
}
