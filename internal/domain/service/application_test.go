package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/studorg/membership-service/internal/domain/common/errorz"
	"github.com/studorg/membership-service/internal/domain/dto"
	"github.com/studorg/membership-service/internal/domain/entity"
	"github.com/studorg/membership-service/internal/domain/watch"
)

type applicationFixture struct {
	service      *ApplicationService
	applications *MockApplicationStorage
	roles        *MockRoleStorage
	profiles     *MockProfileStorage
	objects      *MockObjectStorage
	smtp         *MockSMTPClient
	bus          *watch.Bus
}

func newApplicationFixture() *applicationFixture {
	f := &applicationFixture{
		applications: new(MockApplicationStorage),
		roles:        new(MockRoleStorage),
		profiles:     new(MockProfileStorage),
		objects:      new(MockObjectStorage),
		smtp:         new(MockSMTPClient),
		bus:          watch.NewBus(),
	}
	f.service = NewApplicationService(
		testLogger(), f.applications, f.roles, f.profiles, f.objects, f.smtp, f.bus)
	return f
}

func TestApplicationSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("club admission creates a pending record", func(t *testing.T) {
		f := newApplicationFixture()
		f.applications.On("Create", ctx, mock.AnythingOfType("*entity.Application")).
			Return(&entity.Application{ID: "app-1", Status: entity.StatusPending}, nil)

		app, err := f.service.Submit(ctx, "user-1", dto.ClubAdmissionApplication{
			WhyJoin:            "learning",
			RelevantExperience: "none yet",
		}, dto.Documents{})

		require.NoError(t, err)
		assert.Equal(t, entity.StatusPending, app.Status)
		f.applications.AssertExpectations(t)
	})

	t.Run("missing required fields fail validation before any write", func(t *testing.T) {
		f := newApplicationFixture()

		_, err := f.service.Submit(ctx, "user-1", dto.BoardApplication{Position: "treasurer"}, dto.Documents{})

		assert.ErrorIs(t, err, errorz.ValidationFailed)
		f.applications.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("second application to the same class is rejected", func(t *testing.T) {
		f := newApplicationFixture()
		f.applications.On("HasForClass", ctx, "user-1", "class-1").Return(true, nil)

		_, err := f.service.Submit(ctx, "user-1", dto.ClassApplication{
			ClassID:            "class-1",
			Role:               entity.ClassRoleStudent,
			WhyJoin:            "curriculum",
			RelevantExperience: "some",
		}, dto.Documents{})

		assert.ErrorIs(t, err, errorz.DuplicateApplication)
		f.applications.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("upload failure leaves no partial application", func(t *testing.T) {
		f := newApplicationFixture()
		f.applications.On("HasForProject", ctx, "user-1", "proj-1").Return(false, nil)
		f.profiles.On("Get", ctx, "user-1").Return(&entity.Profile{ID: "user-1", FullName: "Ada Lovelace"}, nil)
		f.objects.On("Upload", ctx, mock.Anything, mock.Anything, "application/pdf", true).
			Return(errors.New("disk full"))

		_, err := f.service.Submit(ctx, "user-1", dto.ProjectApplication{
			ProjectID:          "proj-1",
			Role:               entity.ProjectRoleMember,
			WhyJoin:            "shipping",
			RelevantExperience: "go",
			ProjectDetail:      "backend",
		}, dto.Documents{
			Resume: &dto.Upload{Filename: "resume.pdf", ContentType: "application/pdf", Content: []byte("%PDF")},
		})

		assert.ErrorIs(t, err, errorz.UploadFailed)
		f.applications.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("documents are stored under the applicant folder", func(t *testing.T) {
		f := newApplicationFixture()
		f.applications.On("HasForClass", ctx, "user-1", "class-9").Return(false, nil)
		f.profiles.On("Get", ctx, "user-1").Return(&entity.Profile{ID: "user-1", FullName: "Ada Lovelace"}, nil)
		f.objects.On("Upload", ctx, "documents/ada-lovelace_class-9/resume.pdf", mock.Anything, "application/pdf", true).
			Return(nil)

		var created *entity.Application
		f.applications.On("Create", ctx, mock.AnythingOfType("*entity.Application")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*entity.Application) }).
			Return(&entity.Application{ID: "app-2"}, nil)

		_, err := f.service.Submit(ctx, "user-1", dto.ClassApplication{
			ClassID:            "class-9",
			Role:               entity.ClassRoleStudent,
			WhyJoin:            "curriculum",
			RelevantExperience: "some",
		}, dto.Documents{
			Resume: &dto.Upload{Filename: "resume.pdf", ContentType: "application/pdf", Content: []byte("%PDF")},
		})

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "documents/ada-lovelace_class-9/resume.pdf", created.ResumeKey)
	})
}

func TestApplicationDecide(t *testing.T) {
	ctx := context.Background()

	pending := func(appType entity.ApplicationType) *entity.Application {
		app := &entity.Application{
			ID:     "app-1",
			UserID: "applicant",
			Type:   appType,
			Status: entity.StatusPending,
		}
		switch appType {
		case entity.ApplicationClass:
			id := "class-1"
			app.ClassID = &id
			app.DesiredRole = entity.ClassRoleStudent
		case entity.ApplicationProject:
			id := "proj-1"
			app.ProjectID = &id
			app.DesiredRole = entity.ProjectRoleMember
		}
		return app
	}

	t.Run("self review is forbidden", func(t *testing.T) {
		f := newApplicationFixture()
		app := pending(entity.ApplicationClass)
		app.UserID = "reviewer"
		f.roles.On("Get", ctx, "reviewer").Return(&entity.UserRole{UserID: "reviewer", Role: entity.EBoard}, nil)
		f.applications.On("Get", ctx, "app-1").Return(app, nil)

		_, err := f.service.Decide(ctx, "app-1", "reviewer", true)

		assert.ErrorIs(t, err, errorz.Forbidden)
	})

	t.Run("board cannot decide board applications", func(t *testing.T) {
		f := newApplicationFixture()
		f.roles.On("Get", ctx, "reviewer").Return(&entity.UserRole{UserID: "reviewer", Role: entity.Board}, nil)
		f.applications.On("Get", ctx, "app-1").Return(pending(entity.ApplicationBoard), nil)

		_, err := f.service.Decide(ctx, "app-1", "reviewer", true)

		assert.ErrorIs(t, err, errorz.Forbidden)
		f.applications.AssertNotCalled(t, "Decide", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("a decided application stays decided", func(t *testing.T) {
		f := newApplicationFixture()
		app := pending(entity.ApplicationClubAdmission)
		app.Status = entity.StatusRejected
		f.roles.On("Get", ctx, "reviewer").Return(&entity.UserRole{UserID: "reviewer", Role: entity.EBoard}, nil)
		f.applications.On("Get", ctx, "app-1").Return(app, nil)

		_, err := f.service.Decide(ctx, "app-1", "reviewer", true)

		assert.ErrorIs(t, err, errorz.AlreadyDecided)
	})

	t.Run("accepted club admission provisions the member role", func(t *testing.T) {
		f := newApplicationFixture()
		f.roles.On("Get", ctx, "reviewer").Return(&entity.UserRole{UserID: "reviewer", Role: entity.EBoard}, nil)
		f.applications.On("Get", ctx, "app-1").Return(pending(entity.ApplicationClubAdmission), nil)

		var provision dto.Provision
		f.applications.On("Decide", ctx, mock.AnythingOfType("*entity.Application"), mock.AnythingOfType("dto.Provision")).
			Run(func(args mock.Arguments) { provision = args.Get(2).(dto.Provision) }).
			Return(nil)
		f.profiles.On("Get", ctx, "applicant").Return(&entity.Profile{ID: "applicant", Email: "a@b.c"}, nil)
		f.smtp.On("SendDecisionEmail", "a@b.c", string(entity.ApplicationClubAdmission), true).Return()

		app, err := f.service.Decide(ctx, "app-1", "reviewer", true)

		require.NoError(t, err)
		assert.Equal(t, entity.StatusAccepted, app.Status)
		require.NotNil(t, app.ReviewedAt)
		require.NotNil(t, app.ReviewedBy)
		assert.Equal(t, "reviewer", *app.ReviewedBy)
		require.NotNil(t, provision.Role)
		assert.Equal(t, entity.Member, provision.Role.Role)
		f.smtp.AssertExpectations(t)
	})

	t.Run("accepted class application provisions the enrollment", func(t *testing.T) {
		f := newApplicationFixture()
		f.roles.On("Get", ctx, "reviewer").Return(&entity.UserRole{UserID: "reviewer", Role: entity.Board}, nil)
		f.applications.On("Get", ctx, "app-1").Return(pending(entity.ApplicationClass), nil)

		var provision dto.Provision
		f.applications.On("Decide", ctx, mock.Anything, mock.AnythingOfType("dto.Provision")).
			Run(func(args mock.Arguments) { provision = args.Get(2).(dto.Provision) }).
			Return(nil)
		f.profiles.On("Get", ctx, "applicant").Return(&entity.Profile{ID: "applicant", Email: "a@b.c"}, nil)
		f.smtp.On("SendDecisionEmail", "a@b.c", string(entity.ApplicationClass), true).Return()

		_, err := f.service.Decide(ctx, "app-1", "reviewer", true)

		require.NoError(t, err)
		require.NotNil(t, provision.Enrollment)
		assert.Equal(t, "class-1", provision.Enrollment.ClassID)
		assert.Equal(t, entity.ClassRoleStudent, provision.Enrollment.Role)
	})

	t.Run("rejection carries no provision", func(t *testing.T) {
		f := newApplicationFixture()
		f.roles.On("Get", ctx, "reviewer").Return(&entity.UserRole{UserID: "reviewer", Role: entity.EBoard}, nil)
		f.applications.On("Get", ctx, "app-1").Return(pending(entity.ApplicationProject), nil)

		var provision dto.Provision
		f.applications.On("Decide", ctx, mock.Anything, mock.AnythingOfType("dto.Provision")).
			Run(func(args mock.Arguments) { provision = args.Get(2).(dto.Provision) }).
			Return(nil)
		f.profiles.On("Get", ctx, "applicant").Return(&entity.Profile{ID: "applicant", Email: "a@b.c"}, nil)
		f.smtp.On("SendDecisionEmail", "a@b.c", string(entity.ApplicationProject), false).Return()

		app, err := f.service.Decide(ctx, "app-1", "reviewer", false)

		require.NoError(t, err)
		assert.Equal(t, entity.StatusRejected, app.Status)
		assert.Nil(t, provision.Role)
		assert.Nil(t, provision.Enrollment)
		assert.Nil(t, provision.Membership)
	})

	t.Run("a failed decision email does not fail the decision", func(t *testing.T) {
		f := newApplicationFixture()
		f.roles.On("Get", ctx, "reviewer").Return(&entity.UserRole{UserID: "reviewer", Role: entity.EBoard}, nil)
		f.applications.On("Get", ctx, "app-1").Return(pending(entity.ApplicationClubAdmission), nil)
		f.applications.On("Decide", ctx, mock.Anything, mock.Anything).Return(nil)
		f.profiles.On("Get", ctx, "applicant").Return(nil, errors.New("profile gone"))

		_, err := f.service.Decide(ctx, "app-1", "reviewer", true)

		require.NoError(t, err)
		f.smtp.AssertNotCalled(t, "SendDecisionEmail", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestApplicationDashboard(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("members see only their own applications", func(t *testing.T) {
		f := newApplicationFixture()
		f.applications.On("GetByUserID", ctx, "user-1").Return([]entity.Application{
			{ID: "app-1", UserID: "user-1", Type: entity.ApplicationClubAdmission, Status: entity.StatusPending},
		}, nil)

		dashboard, err := f.service.Dashboard(ctx, "user-1", entity.Member, now)

		require.NoError(t, err)
		assert.Len(t, dashboard.Own, 1)
		assert.Empty(t, dashboard.ReviewablePending)
		f.applications.AssertNotCalled(t, "GetByStatusAndTypes", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("board reviewers see class and project queues only", func(t *testing.T) {
		f := newApplicationFixture()
		boardTypes := []entity.ApplicationType{entity.ApplicationClass, entity.ApplicationProject}
		f.applications.On("GetByUserID", ctx, "board-1").Return([]entity.Application{}, nil)
		f.applications.On("GetByStatusAndTypes", ctx, entity.StatusPending, boardTypes).Return([]entity.Application{
			{ID: "app-2", UserID: "someone", Type: entity.ApplicationClass, Status: entity.StatusPending},
		}, nil)
		f.applications.On("GetByStatusAndTypes", ctx, entity.StatusAccepted, boardTypes).Return([]entity.Application{}, nil)
		f.applications.On("GetByStatusAndTypes", ctx, entity.StatusRejected, boardTypes).Return([]entity.Application{}, nil)

		dashboard, err := f.service.Dashboard(ctx, "board-1", entity.Board, now)

		require.NoError(t, err)
		assert.Len(t, dashboard.ReviewablePending, 1)
		f.applications.AssertExpectations(t)
	})
}

func TestRetentionCountdown(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("fresh decision shows the full window", func(t *testing.T) {
		reviewed := now.Add(-1 * time.Hour)
		app := entity.Application{Status: entity.StatusRejected, ReviewedAt: &reviewed}
		assert.Equal(t, 29, app.RetentionDaysLeft(now))
	})

	t.Run("overdue records go negative", func(t *testing.T) {
		reviewed := now.Add(-31 * 24 * time.Hour)
		app := entity.Application{Status: entity.StatusAccepted, ReviewedAt: &reviewed}
		assert.Equal(t, -1, app.RetentionDaysLeft(now))
	})

	t.Run("pending records are exempt", func(t *testing.T) {
		app := entity.Application{Status: entity.StatusPending}
		assert.Equal(t, 0, app.RetentionDaysLeft(now))
	})
}
