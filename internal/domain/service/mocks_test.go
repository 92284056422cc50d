package service

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/studorg/membership-service/internal/domain/dto"
	"github.com/studorg/membership-service/internal/domain/entity"
	"go.uber.org/zap"

	"github.com/studorg/membership-service/pkg/logger/types"
)

func testLogger() *types.Logger {
	return &types.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// MockApplicationStorage
type MockApplicationStorage struct {
	mock.Mock
}

func (m *MockApplicationStorage) Create(ctx context.Context, application *entity.Application) (*entity.Application, error) {
	args := m.Called(ctx, application)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Application), args.Error(1)
}
func (m *MockApplicationStorage) Get(ctx context.Context, id string) (*entity.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Application), args.Error(1)
}
func (m *MockApplicationStorage) GetByUserID(ctx context.Context, userID string) ([]entity.Application, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]entity.Application), args.Error(1)
}
func (m *MockApplicationStorage) GetByStatusAndTypes(ctx context.Context, status entity.ApplicationStatus, types []entity.ApplicationType) ([]entity.Application, error) {
	args := m.Called(ctx, status, types)
	return args.Get(0).([]entity.Application), args.Error(1)
}
func (m *MockApplicationStorage) HasForClass(ctx context.Context, userID, classID string) (bool, error) {
	args := m.Called(ctx, userID, classID)
	return args.Bool(0), args.Error(1)
}
func (m *MockApplicationStorage) HasForProject(ctx context.Context, userID, projectID string) (bool, error) {
	args := m.Called(ctx, userID, projectID)
	return args.Bool(0), args.Error(1)
}
func (m *MockApplicationStorage) Decide(ctx context.Context, application *entity.Application, provision dto.Provision) error {
	args := m.Called(ctx, application, provision)
	return args.Error(0)
}

// MockRoleStorage
type MockRoleStorage struct {
	mock.Mock
}

func (m *MockRoleStorage) Get(ctx context.Context, userID string) (*entity.UserRole, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UserRole), args.Error(1)
}

// MockProfileStorage covers the read-only profile dependency of other
// services.
type MockProfileStorage struct {
	mock.Mock
}

func (m *MockProfileStorage) Get(ctx context.Context, id string) (*entity.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Profile), args.Error(1)
}
func (m *MockProfileStorage) AddPoints(ctx context.Context, id string, points int) error {
	args := m.Called(ctx, id, points)
	return args.Error(0)
}

// MockObjectStorage
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, key string, content io.Reader, contentType string, upsert bool) error {
	args := m.Called(ctx, key, content, contentType, upsert)
	return args.Error(0)
}
func (m *MockObjectStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}
func (m *MockObjectStorage) List(ctx context.Context, folder string) ([]string, error) {
	args := m.Called(ctx, folder)
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockObjectStorage) Remove(ctx context.Context, keys []string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}
func (m *MockObjectStorage) SignedURL(key string, expiresIn time.Duration) (string, error) {
	args := m.Called(key, expiresIn)
	return args.String(0), args.Error(1)
}
func (m *MockObjectStorage) PublicURL(key string) string {
	args := m.Called(key)
	return args.String(0)
}

// MockSMTPClient
type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) SendConfirmationEmail(to string, code string) {
	m.Called(to, code)
}
func (m *MockSMTPClient) SendDecisionEmail(to string, applicationType string, accepted bool) {
	m.Called(to, applicationType, accepted)
}

// MockEventStorage
type MockEventStorage struct {
	mock.Mock
}

func (m *MockEventStorage) Create(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Event), args.Error(1)
}
func (m *MockEventStorage) Get(ctx context.Context, id string) (*entity.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Event), args.Error(1)
}
func (m *MockEventStorage) GetByCheckInCode(ctx context.Context, code string) (*entity.Event, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Event), args.Error(1)
}
func (m *MockEventStorage) GetAll(ctx context.Context) ([]entity.Event, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entity.Event), args.Error(1)
}
func (m *MockEventStorage) GetUpcoming(ctx context.Context, after time.Time) ([]entity.Event, error) {
	args := m.Called(ctx, after)
	return args.Get(0).([]entity.Event), args.Error(1)
}
func (m *MockEventStorage) Update(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Event), args.Error(1)
}
func (m *MockEventStorage) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEventAttendanceStorage
type MockEventAttendanceStorage struct {
	mock.Mock
}

func (m *MockEventAttendanceStorage) Create(ctx context.Context, attendance *entity.EventAttendance) (*entity.EventAttendance, error) {
	args := m.Called(ctx, attendance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.EventAttendance), args.Error(1)
}
func (m *MockEventAttendanceStorage) Get(ctx context.Context, eventID, userID string) (*entity.EventAttendance, error) {
	args := m.Called(ctx, eventID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.EventAttendance), args.Error(1)
}
func (m *MockEventAttendanceStorage) Update(ctx context.Context, attendance *entity.EventAttendance) (*entity.EventAttendance, error) {
	args := m.Called(ctx, attendance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.EventAttendance), args.Error(1)
}
func (m *MockEventAttendanceStorage) Delete(ctx context.Context, eventID, userID string) error {
	args := m.Called(ctx, eventID, userID)
	return args.Error(0)
}
func (m *MockEventAttendanceStorage) GetByEventID(ctx context.Context, eventID string) ([]entity.EventAttendance, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).([]entity.EventAttendance), args.Error(1)
}
func (m *MockEventAttendanceStorage) CountByEventID(ctx context.Context, eventID string) (int64, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockEventAttendanceStorage) GetEventIDs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockEventAttendanceStorage) GetUsersByEventID(ctx context.Context, eventID string) ([]entity.Profile, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).([]entity.Profile), args.Error(1)
}
