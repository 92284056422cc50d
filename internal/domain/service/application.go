package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/studorg/membership-service/internal/domain/common/errorz"
	"github.com/studorg/membership-service/internal/domain/dto"
	"github.com/studorg/membership-service/internal/domain/entity"
	"github.com/studorg/membership-service/internal/domain/utils"
	"github.com/studorg/membership-service/internal/domain/utils/validator"
	"github.com/studorg/membership-service/internal/domain/watch"
	"github.com/studorg/membership-service/pkg/logger/types"
	"github.com/studorg/membership-service/pkg/storage"
)

type ApplicationStorage interface {
	Create(ctx context.Context, application *entity.Application) (*entity.Application, error)
	Get(ctx context.Context, id string) (*entity.Application, error)
	GetByUserID(ctx context.Context, userID string) ([]entity.Application, error)
	GetByStatusAndTypes(ctx context.Context, status entity.ApplicationStatus, types []entity.ApplicationType) ([]entity.Application, error)
	HasForClass(ctx context.Context, userID, classID string) (bool, error)
	HasForProject(ctx context.Context, userID, projectID string) (bool, error)
	Decide(ctx context.Context, application *entity.Application, provision dto.Provision) error
}

type applicationRoleStorage interface {
	Get(ctx context.Context, userID string) (*entity.UserRole, error)
}

type applicationProfileStorage interface {
	Get(ctx context.Context, id string) (*entity.Profile, error)
}

type applicationSMTPClient interface {
	SendDecisionEmail(to string, applicationType string, accepted bool)
}

type ApplicationService struct {
	logger *types.Logger

	applicationStorage ApplicationStorage
	roleStorage        applicationRoleStorage
	profileStorage     applicationProfileStorage
	objectStorage      storage.Storage
	smtpClient         applicationSMTPClient
	bus                *watch.Bus
}

func NewApplicationService(
	logger *types.Logger,
	applicationStorage ApplicationStorage,
	roleStorage applicationRoleStorage,
	profileStorage applicationProfileStorage,
	objectStorage storage.Storage,
	smtpClient applicationSMTPClient,
	bus *watch.Bus,
) *ApplicationService {
	return &ApplicationService{
		logger:             logger,
		applicationStorage: applicationStorage,
		roleStorage:        roleStorage,
		profileStorage:     profileStorage,
		objectStorage:      objectStorage,
		smtpClient:         smtpClient,
		bus:                bus,
	}
}

// Submit creates a pending application. Validation and the duplicate check
// run before anything is written; document uploads precede the record
// insert, so an upload failure leaves no partial application behind.
func (s *ApplicationService) Submit(ctx context.Context, applicantID string, payload dto.ApplicationPayload, docs dto.Documents) (*entity.Application, error) {
	if err := validator.Application(payload); err != nil {
		return nil, err
	}

	switch p := payload.(type) {
	case dto.ClassApplication:
		exists, err := s.applicationStorage.HasForClass(ctx, applicantID, p.ClassID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("%w: class %s", errorz.DuplicateApplication, p.ClassID)
		}
	case dto.ProjectApplication:
		exists, err := s.applicationStorage.HasForProject(ctx, applicantID, p.ProjectID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("%w: project %s", errorz.DuplicateApplication, p.ProjectID)
		}
	}

	application := dto.NewApplication(applicantID, payload)

	if docs.Resume != nil || docs.Transcript != nil {
		profile, err := s.profileStorage.Get(ctx, applicantID)
		if err != nil {
			return nil, err
		}
		folder := utils.DocumentFolder(profile.FullName, payload.TargetID())
		if docs.Resume != nil {
			key, err := s.uploadDocument(ctx, folder, "resume", docs.Resume)
			if err != nil {
				return nil, err
			}
			application.ResumeKey = key
		}
		if docs.Transcript != nil {
			key, err := s.uploadDocument(ctx, folder, "transcript", docs.Transcript)
			if err != nil {
				return nil, err
			}
			application.TranscriptKey = key
		}
	}

	application, err := s.applicationStorage.Create(ctx, application)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(watch.Change{Resource: watch.Applications, UserID: applicantID, Action: watch.ActionInsert})
	return application, nil
}

func (s *ApplicationService) uploadDocument(ctx context.Context, folder, kind string, doc *dto.Upload) (string, error) {
	key := fmt.Sprintf("documents/%s/%s.%s", folder, kind, utils.FileExt(doc.Filename))
	if err := s.objectStorage.Upload(ctx, key, bytes.NewReader(doc.Content), doc.ContentType, true); err != nil {
		return "", fmt.Errorf("%w: %s: %v", errorz.UploadFailed, kind, err)
	}
	return key, nil
}

// Decide moves a pending application to its terminal state. Acceptance and
// the provisioning side effect land in one transaction; a terminal record
// can never be decided again.
func (s *ApplicationService) Decide(ctx context.Context, applicationID, reviewerID string, accept bool) (*entity.Application, error) {
	reviewerRole, err := s.roleStorage.Get(ctx, reviewerID)
	if err != nil {
		return nil, err
	}

	application, err := s.applicationStorage.Get(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if application.UserID == reviewerID {
		return nil, fmt.Errorf("%w: cannot review own application", errorz.Forbidden)
	}
	if !reviewerRole.Role.CanReview(application.Type) {
		return nil, fmt.Errorf("%w: role %s cannot review %s applications", errorz.Forbidden, reviewerRole.Role, application.Type)
	}
	if application.Decided() {
		return nil, fmt.Errorf("%w", errorz.AlreadyDecided)
	}

	now := time.Now().UTC()
	application.ReviewedBy = &reviewerID
	application.ReviewedAt = &now

	var provision dto.Provision
	if accept {
		application.Status = entity.StatusAccepted
		provision = provisionFor(application)
	} else {
		application.Status = entity.StatusRejected
	}

	if err = s.applicationStorage.Decide(ctx, application, provision); err != nil {
		return nil, err
	}

	s.notifyApplicant(ctx, application, accept)

	s.bus.Publish(watch.Change{Resource: watch.Applications, UserID: application.UserID, Action: watch.ActionUpdate})
	if accept {
		s.publishProvision(application)
	}
	return application, nil
}

// provisionFor maps an accepted application onto its side effect.
func provisionFor(application *entity.Application) dto.Provision {
	switch application.Type {
	case entity.ApplicationClubAdmission:
		return dto.Provision{Role: &entity.UserRole{
			UserID: application.UserID,
			Role:   entity.Member,
		}}
	case entity.ApplicationBoard:
		return dto.Provision{Role: &entity.UserRole{
			UserID:   application.UserID,
			Role:     entity.Board,
			Position: application.Position,
		}}
	case entity.ApplicationClass:
		return dto.Provision{Enrollment: &entity.ClassEnrollment{
			ClassID: *application.ClassID,
			UserID:  application.UserID,
			Role:    application.DesiredRole,
		}}
	case entity.ApplicationProject:
		return dto.Provision{Membership: &entity.ProjectMember{
			ProjectID: *application.ProjectID,
			UserID:    application.UserID,
			Role:      application.DesiredRole,
		}}
	}
	return dto.Provision{}
}

func (s *ApplicationService) notifyApplicant(ctx context.Context, application *entity.Application, accepted bool) {
	profile, err := s.profileStorage.Get(ctx, application.UserID)
	if err != nil {
		s.logger.Errorf("failed to load applicant %s for decision email: %v", application.UserID, err)
		return
	}
	s.smtpClient.SendDecisionEmail(profile.Email, string(application.Type), accepted)
}

func (s *ApplicationService) publishProvision(application *entity.Application) {
	switch application.Type {
	case entity.ApplicationClubAdmission, entity.ApplicationBoard:
		s.bus.Publish(watch.Change{Resource: watch.Roles, UserID: application.UserID, Action: watch.ActionUpdate})
	case entity.ApplicationClass:
		s.bus.Publish(watch.Change{Resource: watch.ClassEnrollments, UserID: application.UserID, Action: watch.ActionInsert})
	case entity.ApplicationProject:
		s.bus.Publish(watch.Change{Resource: watch.ProjectMembers, UserID: application.UserID, Action: watch.ActionInsert})
	}
}

// Own lists the user's applications, newest first, with retention countdowns.
func (s *ApplicationService) Own(ctx context.Context, userID string, now time.Time) ([]dto.ApplicationView, error) {
	applications, err := s.applicationStorage.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return views(applications, now)
}

// Dashboard assembles the applications a user sees: their own plus, for
// board and e-board reviewers, the queues their role may decide.
func (s *ApplicationService) Dashboard(ctx context.Context, userID string, role entity.Role, now time.Time) (dto.Applications, error) {
	var dashboard dto.Applications

	own, err := s.Own(ctx, userID, now)
	if err != nil {
		return dashboard, err
	}
	dashboard.Own = own

	reviewable := reviewableTypes(role)
	if len(reviewable) == 0 {
		return dashboard, nil
	}

	pending, err := s.applicationStorage.GetByStatusAndTypes(ctx, entity.StatusPending, reviewable)
	if err != nil {
		return dashboard, err
	}
	if dashboard.ReviewablePending, err = views(pending, now); err != nil {
		return dashboard, err
	}

	for _, status := range []entity.ApplicationStatus{entity.StatusAccepted, entity.StatusRejected} {
		decided, err := s.applicationStorage.GetByStatusAndTypes(ctx, status, reviewable)
		if err != nil {
			return dashboard, err
		}
		decidedViews, err := views(decided, now)
		if err != nil {
			return dashboard, err
		}
		dashboard.ReviewableDecided = append(dashboard.ReviewableDecided, decidedViews...)
	}
	return dashboard, nil
}

func reviewableTypes(role entity.Role) []entity.ApplicationType {
	switch role {
	case entity.EBoard:
		return []entity.ApplicationType{
			entity.ApplicationClubAdmission,
			entity.ApplicationBoard,
			entity.ApplicationClass,
			entity.ApplicationProject,
		}
	case entity.Board:
		return []entity.ApplicationType{entity.ApplicationClass, entity.ApplicationProject}
	}
	return nil
}

func views(applications []entity.Application, now time.Time) ([]dto.ApplicationView, error) {
	result := make([]dto.ApplicationView, 0, len(applications))
	for i := range applications {
		view, err := dto.NewApplicationView(&applications[i], now)
		if err != nil {
			return nil, err
		}
		result = append(result, view)
	}
	return result, nil
}
