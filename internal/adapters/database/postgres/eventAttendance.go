package postgres

import (
	"context"

	"github.com/studorg/membership-service/internal/domain/entity"
	"gorm.io/gorm"
)

type EventAttendanceStorage struct {
	db *gorm.DB
}

func NewEventAttendanceStorage(db *gorm.DB) *EventAttendanceStorage {
	return &EventAttendanceStorage{
		db: db,
	}
}

func (s *EventAttendanceStorage) Create(ctx context.Context, attendance *entity.EventAttendance) (*entity.EventAttendance, error) {
	err := s.db.WithContext(ctx).Create(&attendance).Error
	return attendance, err
}

func (s *EventAttendanceStorage) Get(ctx context.Context, eventID, userID string) (*entity.EventAttendance, error) {
	var attendance entity.EventAttendance
	err := s.db.WithContext(ctx).Where("event_id = ? AND user_id = ?", eventID, userID).First(&attendance).Error
	return &attendance, wrapNotFound(err)
}

func (s *EventAttendanceStorage) Update(ctx context.Context, attendance *entity.EventAttendance) (*entity.EventAttendance, error) {
	err := s.db.WithContext(ctx).Save(&attendance).Error
	return attendance, err
}

func (s *EventAttendanceStorage) Delete(ctx context.Context, eventID, userID string) error {
	return s.db.WithContext(ctx).Where("event_id = ? AND user_id = ?", eventID, userID).Delete(&entity.EventAttendance{}).Error
}

func (s *EventAttendanceStorage) GetByEventID(ctx context.Context, eventID string) ([]entity.EventAttendance, error) {
	var attendances []entity.EventAttendance
	err := s.db.WithContext(ctx).Where("event_id = ?", eventID).Find(&attendances).Error
	return attendances, err
}

func (s *EventAttendanceStorage) CountByEventID(ctx context.Context, eventID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.EventAttendance{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}

// GetEventIDs returns the ids of every event the user RSVP'd to.
func (s *EventAttendanceStorage) GetEventIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&entity.EventAttendance{}).
		Where("user_id = ?", userID).
		Pluck("event_id", &ids).Error
	return ids, err
}

// GetUsersByEventID returns the profiles attending an event.
func (s *EventAttendanceStorage) GetUsersByEventID(ctx context.Context, eventID string) ([]entity.Profile, error) {
	var profiles []entity.Profile
	err := s.db.WithContext(ctx).Model(&entity.Profile{}).
		Joins("JOIN event_attendances ON event_attendances.user_id = profiles.id").
		Where("event_attendances.event_id = ?", eventID).
		Find(&profiles).Error
	return profiles, err
}
