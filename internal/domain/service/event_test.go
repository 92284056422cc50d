package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/studorg/membership-service/internal/domain/common/errorz"
	"github.com/studorg/membership-service/internal/domain/entity"
	"github.com/studorg/membership-service/internal/domain/watch"
)

type eventFixture struct {
	service     *EventService
	events      *MockEventStorage
	attendances *MockEventAttendanceStorage
	profiles    *MockProfileStorage
	objects     *MockObjectStorage
}

func newEventFixture() *eventFixture {
	f := &eventFixture{
		events:      new(MockEventStorage),
		attendances: new(MockEventAttendanceStorage),
		profiles:    new(MockProfileStorage),
		objects:     new(MockObjectStorage),
	}
	f.service = NewEventService(
		testLogger(), f.events, f.attendances, f.profiles, f.objects, watch.NewBus())
	return f
}

func TestEventVisibility(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	soon := now.Add(24 * time.Hour)

	t.Run("role-restricted events are hidden from prospects", func(t *testing.T) {
		f := newEventFixture()
		f.events.On("GetUpcoming", ctx, now).Return([]entity.Event{
			{ID: "open", Name: "Open House", StartTime: soon},
			{ID: "members", Name: "Members Only", StartTime: soon, AllowedRoles: []string{"member", "board", "e-board"}},
		}, nil)
		f.attendances.On("GetEventIDs", ctx, "user-1").Return([]string{}, nil)
		f.attendances.On("CountByEventID", ctx, "open").Return(int64(0), nil)

		events, err := f.service.VisibleTo(ctx, entity.Prospect, "user-1", now)

		require.NoError(t, err)
		require.Len(t, events.Attending, 1)
		assert.Equal(t, "open", events.Attending[0].ID)
		assert.Empty(t, events.NotAttending)
	})

	t.Run("full events disappear unless already attending", func(t *testing.T) {
		f := newEventFixture()
		f.events.On("GetUpcoming", ctx, now).Return([]entity.Event{
			{ID: "full-in", Name: "A", StartTime: soon, RequiresRSVP: true, MaxParticipants: 2},
			{ID: "full-out", Name: "B", StartTime: soon, RequiresRSVP: true, MaxParticipants: 2},
		}, nil)
		f.attendances.On("GetEventIDs", ctx, "user-1").Return([]string{"full-in"}, nil)
		f.attendances.On("CountByEventID", ctx, "full-in").Return(int64(2), nil)
		f.attendances.On("CountByEventID", ctx, "full-out").Return(int64(2), nil)

		events, err := f.service.VisibleTo(ctx, entity.Member, "user-1", now)

		require.NoError(t, err)
		require.Len(t, events.Attending, 1)
		assert.Equal(t, "full-in", events.Attending[0].ID)
		assert.True(t, events.Attending[0].Full)
		assert.Empty(t, events.NotAttending)
	})

	t.Run("no-RSVP events count as attending", func(t *testing.T) {
		f := newEventFixture()
		f.events.On("GetUpcoming", ctx, now).Return([]entity.Event{
			{ID: "walkin", Name: "Walk In", StartTime: soon},
		}, nil)
		f.attendances.On("GetEventIDs", ctx, "user-1").Return([]string{}, nil)
		f.attendances.On("CountByEventID", ctx, "walkin").Return(int64(0), nil)

		events, err := f.service.VisibleTo(ctx, entity.Member, "user-1", now)

		require.NoError(t, err)
		require.Len(t, events.Attending, 1)
		assert.True(t, events.Attending[0].Attending)
	})
}

func TestEventRSVP(t *testing.T) {
	ctx := context.Background()
	future := time.Now().UTC().Add(48 * time.Hour)

	t.Run("registration closes at start time", func(t *testing.T) {
		f := newEventFixture()
		f.events.On("Get", ctx, "ev-1").Return(&entity.Event{
			ID:        "ev-1",
			StartTime: time.Now().UTC().Add(-time.Hour),
		}, nil)

		_, err := f.service.RSVP(ctx, "ev-1", "user-1", entity.Member)

		assert.ErrorIs(t, err, errorz.RegistrationClosed)
	})

	t.Run("capacity is enforced", func(t *testing.T) {
		f := newEventFixture()
		f.events.On("Get", ctx, "ev-1").Return(&entity.Event{
			ID:              "ev-1",
			StartTime:       future,
			MaxParticipants: 1,
		}, nil)
		f.attendances.On("CountByEventID", ctx, "ev-1").Return(int64(1), nil)

		_, err := f.service.RSVP(ctx, "ev-1", "user-1", entity.Member)

		assert.ErrorIs(t, err, errorz.EventFull)
	})

	t.Run("role gate is enforced", func(t *testing.T) {
		f := newEventFixture()
		f.events.On("Get", ctx, "ev-1").Return(&entity.Event{
			ID:           "ev-1",
			StartTime:    future,
			AllowedRoles: []string{"board"},
		}, nil)

		_, err := f.service.RSVP(ctx, "ev-1", "user-1", entity.Member)

		assert.ErrorIs(t, err, errorz.Forbidden)
	})

	t.Run("successful RSVP creates the attendance", func(t *testing.T) {
		f := newEventFixture()
		f.events.On("Get", ctx, "ev-1").Return(&entity.Event{ID: "ev-1", StartTime: future}, nil)
		f.attendances.On("CountByEventID", ctx, "ev-1").Return(int64(0), nil)
		f.attendances.On("Create", ctx, mock.AnythingOfType("*entity.EventAttendance")).
			Return(&entity.EventAttendance{EventID: "ev-1", UserID: "user-1"}, nil)

		attendance, err := f.service.RSVP(ctx, "ev-1", "user-1", entity.Member)

		require.NoError(t, err)
		assert.Equal(t, "ev-1", attendance.EventID)
	})
}

func TestEventCheckIn(t *testing.T) {
	ctx := context.Background()

	t.Run("check-in without RSVP is forbidden when RSVP is required", func(t *testing.T) {
		f := newEventFixture()
		f.events.On("GetByCheckInCode", ctx, "code").Return(&entity.Event{ID: "ev-1", RequiresRSVP: true}, nil)
		f.attendances.On("Get", ctx, "ev-1", "user-1").Return(nil, fmt.Errorf("%w", errorz.NotFound))

		_, err := f.service.CheckIn(ctx, "code", "user-1")

		assert.ErrorIs(t, err, errorz.Forbidden)
	})

	t.Run("walk-in is allowed when RSVP is optional", func(t *testing.T) {
		f := newEventFixture()
		f.events.On("GetByCheckInCode", ctx, "code").Return(&entity.Event{ID: "ev-1", Points: 5}, nil)
		f.attendances.On("Get", ctx, "ev-1", "user-1").Return(nil, fmt.Errorf("%w", errorz.NotFound))
		f.attendances.On("Create", ctx, mock.AnythingOfType("*entity.EventAttendance")).
			Return(&entity.EventAttendance{EventID: "ev-1", UserID: "user-1"}, nil)
		f.attendances.On("Update", ctx, mock.AnythingOfType("*entity.EventAttendance")).
			Return(&entity.EventAttendance{EventID: "ev-1", UserID: "user-1", Visited: true}, nil)
		f.profiles.On("AddPoints", ctx, "user-1", 5).Return(nil)

		attendance, err := f.service.CheckIn(ctx, "code", "user-1")

		require.NoError(t, err)
		assert.True(t, attendance.Visited)
		f.profiles.AssertExpectations(t)
	})

	t.Run("second check-in does not award points twice", func(t *testing.T) {
		f := newEventFixture()
		f.events.On("GetByCheckInCode", ctx, "code").Return(&entity.Event{ID: "ev-1", Points: 5}, nil)
		f.attendances.On("Get", ctx, "ev-1", "user-1").
			Return(&entity.EventAttendance{EventID: "ev-1", UserID: "user-1", Visited: true}, nil)

		attendance, err := f.service.CheckIn(ctx, "code", "user-1")

		require.NoError(t, err)
		assert.True(t, attendance.Visited)
		f.profiles.AssertNotCalled(t, "AddPoints", mock.Anything, mock.Anything, mock.Anything)
		f.attendances.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("unknown code is not found", func(t *testing.T) {
		f := newEventFixture()
		f.events.On("GetByCheckInCode", ctx, "nope").Return(nil, fmt.Errorf("%w", errorz.NotFound))

		_, err := f.service.CheckIn(ctx, "nope", "user-1")

		assert.ErrorIs(t, err, errorz.NotFound)
	})
}
