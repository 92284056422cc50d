package postgres

import (
	"context"
	"time"

	"github.com/studorg/membership-service/internal/domain/entity"
	"gorm.io/gorm"
)

type EventStorage struct {
	db *gorm.DB
}

func NewEventStorage(db *gorm.DB) *EventStorage {
	return &EventStorage{
		db: db,
	}
}

func (s *EventStorage) Create(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	err := s.db.WithContext(ctx).Create(&event).Error
	return event, err
}

func (s *EventStorage) Get(ctx context.Context, id string) (*entity.Event, error) {
	var event entity.Event
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	return &event, wrapNotFound(err)
}

func (s *EventStorage) GetByCheckInCode(ctx context.Context, code string) (*entity.Event, error) {
	var event entity.Event
	err := s.db.WithContext(ctx).Where("check_in_code = ?", code).First(&event).Error
	return &event, wrapNotFound(err)
}

func (s *EventStorage) GetAll(ctx context.Context) ([]entity.Event, error) {
	var events []entity.Event
	err := s.db.WithContext(ctx).Order("start_time").Find(&events).Error
	return events, err
}

func (s *EventStorage) GetUpcoming(ctx context.Context, after time.Time) ([]entity.Event, error) {
	var events []entity.Event
	err := s.db.WithContext(ctx).Where("start_time > ?", after).Order("start_time").Find(&events).Error
	return events, err
}

func (s *EventStorage) Update(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	err := s.db.WithContext(ctx).Save(&event).Error
	return event, err
}

func (s *EventStorage) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Event{}).Error
}
