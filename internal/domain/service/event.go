package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/studorg/membership-service/internal/domain/common/errorz"
	"github.com/studorg/membership-service/internal/domain/dto"
	"github.com/studorg/membership-service/internal/domain/entity"
	"github.com/studorg/membership-service/internal/domain/utils/validator"
	"github.com/studorg/membership-service/internal/domain/watch"
	"github.com/studorg/membership-service/pkg/generator"
	"github.com/studorg/membership-service/pkg/logger/types"
	"github.com/studorg/membership-service/pkg/storage"
	"github.com/xuri/excelize/v2"
)

const (
	checkInCodeLength = 16
	qrSize            = 512
)

type EventStorage interface {
	Create(ctx context.Context, event *entity.Event) (*entity.Event, error)
	Get(ctx context.Context, id string) (*entity.Event, error)
	GetByCheckInCode(ctx context.Context, code string) (*entity.Event, error)
	GetAll(ctx context.Context) ([]entity.Event, error)
	GetUpcoming(ctx context.Context, after time.Time) ([]entity.Event, error)
	Update(ctx context.Context, event *entity.Event) (*entity.Event, error)
	Delete(ctx context.Context, id string) error
}

type EventAttendanceStorage interface {
	Create(ctx context.Context, attendance *entity.EventAttendance) (*entity.EventAttendance, error)
	Get(ctx context.Context, eventID, userID string) (*entity.EventAttendance, error)
	Update(ctx context.Context, attendance *entity.EventAttendance) (*entity.EventAttendance, error)
	Delete(ctx context.Context, eventID, userID string) error
	GetByEventID(ctx context.Context, eventID string) ([]entity.EventAttendance, error)
	CountByEventID(ctx context.Context, eventID string) (int64, error)
	GetEventIDs(ctx context.Context, userID string) ([]string, error)
	GetUsersByEventID(ctx context.Context, eventID string) ([]entity.Profile, error)
}

type eventProfileStorage interface {
	AddPoints(ctx context.Context, id string, points int) error
}

type EventService struct {
	logger *types.Logger

	eventStorage      EventStorage
	attendanceStorage EventAttendanceStorage
	profileStorage    eventProfileStorage
	objectStorage     storage.Storage
	bus               *watch.Bus
}

func NewEventService(
	logger *types.Logger,
	eventStorage EventStorage,
	attendanceStorage EventAttendanceStorage,
	profileStorage eventProfileStorage,
	objectStorage storage.Storage,
	bus *watch.Bus,
) *EventService {
	return &EventService{
		logger:            logger,
		eventStorage:      eventStorage,
		attendanceStorage: attendanceStorage,
		profileStorage:    profileStorage,
		objectStorage:     objectStorage,
		bus:               bus,
	}
}

// Create validates and stores a new event, then attaches a check-in code and
// its QR pass. The QR upload is best effort; the event works without it.
func (s *EventService) Create(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	if err := validator.Event(event); err != nil {
		return nil, err
	}

	code, err := generator.RandomCode(checkInCodeLength)
	if err != nil {
		return nil, err
	}
	event.CheckInCode = code

	event, err = s.eventStorage.Create(ctx, event)
	if err != nil {
		return nil, err
	}

	png, err := generator.QRCode(code, qrSize)
	if err != nil {
		s.logger.Errorf("failed to render QR for event %s: %v", event.ID, err)
		return event, nil
	}
	key := fmt.Sprintf("events/%s/qr.png", event.ID)
	if err = s.objectStorage.Upload(ctx, key, bytes.NewReader(png), "image/png", true); err != nil {
		s.logger.Errorf("failed to store QR for event %s: %v", event.ID, err)
		return event, nil
	}
	event.QRKey = key
	return s.eventStorage.Update(ctx, event)
}

func (s *EventService) Get(ctx context.Context, id string) (*entity.Event, error) {
	return s.eventStorage.Get(ctx, id)
}

func (s *EventService) Update(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	if err := validator.Event(event); err != nil {
		return nil, err
	}
	return s.eventStorage.Update(ctx, event)
}

func (s *EventService) Delete(ctx context.Context, id string) error {
	return s.eventStorage.Delete(ctx, id)
}

// VisibleTo builds the per-user event views, split by derived attendance.
// Events at capacity are hidden from users who are not already attending.
func (s *EventService) VisibleTo(ctx context.Context, role entity.Role, userID string, now time.Time) (dto.Events, error) {
	var result dto.Events

	events, err := s.eventStorage.GetUpcoming(ctx, now)
	if err != nil {
		return result, err
	}
	rsvpdIDs, err := s.attendanceStorage.GetEventIDs(ctx, userID)
	if err != nil {
		return result, err
	}
	rsvpd := make(map[string]struct{}, len(rsvpdIDs))
	for _, id := range rsvpdIDs {
		rsvpd[id] = struct{}{}
	}

	for i := range events {
		event := events[i]
		if !event.VisibleTo(role) {
			continue
		}
		count, err := s.attendanceStorage.CountByEventID(ctx, event.ID)
		if err != nil {
			return dto.Events{}, err
		}
		_, going := rsvpd[event.ID]
		view := dto.NewEventFromEntity(event, going, int(count))
		if view.Attending {
			result.Attending = append(result.Attending, view)
			continue
		}
		if view.Full {
			continue
		}
		result.NotAttending = append(result.NotAttending, view)
	}
	return result, nil
}

// RSVP registers the user for an event, enforcing visibility, the
// registration window and capacity.
func (s *EventService) RSVP(ctx context.Context, eventID, userID string, role entity.Role) (*entity.EventAttendance, error) {
	event, err := s.eventStorage.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.VisibleTo(role) {
		return nil, fmt.Errorf("%w: event not open to role %s", errorz.Forbidden, role)
	}
	if !event.RegistrationOpen(time.Now().UTC()) {
		return nil, fmt.Errorf("%w", errorz.RegistrationClosed)
	}
	count, err := s.attendanceStorage.CountByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Full(int(count)) {
		return nil, fmt.Errorf("%w", errorz.EventFull)
	}

	attendance, err := s.attendanceStorage.Create(ctx, &entity.EventAttendance{
		EventID: eventID,
		UserID:  userID,
	})
	if err != nil {
		return nil, err
	}
	s.bus.Publish(watch.Change{Resource: watch.EventAttendance, UserID: userID, Action: watch.ActionInsert})
	return attendance, nil
}

func (s *EventService) CancelRSVP(ctx context.Context, eventID, userID string) error {
	if err := s.attendanceStorage.Delete(ctx, eventID, userID); err != nil {
		return err
	}
	s.bus.Publish(watch.Change{Resource: watch.EventAttendance, UserID: userID, Action: watch.ActionDelete})
	return nil
}

// CheckIn marks a visit via the event's check-in code and awards the point
// reward once. Walk-ins are allowed when the event does not require an RSVP.
func (s *EventService) CheckIn(ctx context.Context, code, userID string) (*entity.EventAttendance, error) {
	event, err := s.eventStorage.GetByCheckInCode(ctx, code)
	if err != nil {
		return nil, err
	}

	attendance, err := s.attendanceStorage.Get(ctx, event.ID, userID)
	if err != nil {
		if !errors.Is(err, errorz.NotFound) {
			return nil, err
		}
		if event.RequiresRSVP {
			return nil, fmt.Errorf("%w: no RSVP for event %s", errorz.Forbidden, event.ID)
		}
		attendance, err = s.attendanceStorage.Create(ctx, &entity.EventAttendance{
			EventID: event.ID,
			UserID:  userID,
		})
		if err != nil {
			return nil, err
		}
	}

	if attendance.Visited {
		return attendance, nil
	}
	attendance.Visited = true
	if attendance, err = s.attendanceStorage.Update(ctx, attendance); err != nil {
		return nil, err
	}
	if event.Points > 0 {
		if err = s.profileStorage.AddPoints(ctx, userID, event.Points); err != nil {
			return nil, err
		}
	}
	s.bus.Publish(watch.Change{Resource: watch.EventAttendance, UserID: userID, Action: watch.ActionUpdate})
	return attendance, nil
}

// ExportAttendance renders the attendance roster as an XLSX workbook.
func (s *EventService) ExportAttendance(ctx context.Context, eventID string) (*bytes.Buffer, error) {
	profiles, err := s.attendanceStorage.GetUsersByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	attendances, err := s.attendanceStorage.GetByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	visited := make(map[string]bool, len(attendances))
	for _, a := range attendances {
		visited[a.UserID] = a.Visited
	}

	f := excelize.NewFile()

	sheet := "Sheet1"
	_ = f.SetCellValue(sheet, "A1", "Name")
	_ = f.SetCellValue(sheet, "B1", "Email")
	_ = f.SetCellValue(sheet, "C1", "Class Year")
	_ = f.SetCellValue(sheet, "D1", "Checked In")
	for i, profile := range profiles {
		row := strconv.Itoa(i + 2)
		_ = f.SetCellValue(sheet, "A"+row, profile.FullName)
		_ = f.SetCellValue(sheet, "B"+row, profile.Email)
		_ = f.SetCellValue(sheet, "C"+row, profile.ClassYear)
		_ = f.SetCellValue(sheet, "D"+row, visited[profile.ID])
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}

	return &buf, nil
}
