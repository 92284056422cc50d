package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"time"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/nfnt/resize"
	"github.com/studorg/membership-service/internal/domain/common/errorz"
	"github.com/studorg/membership-service/internal/domain/entity"
	"github.com/studorg/membership-service/internal/domain/utils/validator"
	"github.com/studorg/membership-service/pkg/generator"
	"github.com/studorg/membership-service/pkg/storage"
)

const (
	authCodeLength = 8
	authCodeTTL    = 10 * time.Minute
	avatarSize     = 256
)

type ProfileStorage interface {
	Create(ctx context.Context, profile *entity.Profile) (*entity.Profile, error)
	Get(ctx context.Context, id string) (*entity.Profile, error)
	GetByEmail(ctx context.Context, email string) (*entity.Profile, error)
	Update(ctx context.Context, profile *entity.Profile) (*entity.Profile, error)
	Count(ctx context.Context) (int64, error)
	GetWithPagination(ctx context.Context, limit, offset int, order string) ([]entity.Profile, error)
	DeleteCascade(ctx context.Context, id string) error
}

type codeStorage interface {
	Get(ctx context.Context, email string) (string, error)
	Set(ctx context.Context, email, code string, expiration time.Duration) error
	Clear(ctx context.Context, email string) error
}

type profileSMTPClient interface {
	SendConfirmationEmail(to string, code string)
}

type profileApplicationStorage interface {
	GetByUserID(ctx context.Context, userID string) ([]entity.Application, error)
}

type ProfileService struct {
	profileStorage     ProfileStorage
	applicationStorage profileApplicationStorage
	codeStorage        codeStorage
	smtpClient         profileSMTPClient
	objectStorage      storage.Storage
}

func NewProfileService(
	profileStorage ProfileStorage,
	applicationStorage profileApplicationStorage,
	codeStorage codeStorage,
	smtpClient profileSMTPClient,
	objectStorage storage.Storage,
) *ProfileService {
	return &ProfileService{
		profileStorage:     profileStorage,
		applicationStorage: applicationStorage,
		codeStorage:        codeStorage,
		smtpClient:         smtpClient,
		objectStorage:      objectStorage,
	}
}

// Register creates a profile at signup. New identities start as prospects;
// the role record is created lazily on first read.
func (s *ProfileService) Register(ctx context.Context, profile entity.Profile) (*entity.Profile, error) {
	if err := validator.Profile(profile.FullName, profile.Email); err != nil {
		return nil, err
	}
	return s.profileStorage.Create(ctx, &profile)
}

func (s *ProfileService) Get(ctx context.Context, id string) (*entity.Profile, error) {
	return s.profileStorage.Get(ctx, id)
}

func (s *ProfileService) GetByEmail(ctx context.Context, email string) (*entity.Profile, error) {
	return s.profileStorage.GetByEmail(ctx, email)
}

func (s *ProfileService) Update(ctx context.Context, profile *entity.Profile) (*entity.Profile, error) {
	if err := validator.Profile(profile.FullName, profile.Email); err != nil {
		return nil, err
	}
	return s.profileStorage.Update(ctx, profile)
}

func (s *ProfileService) Count(ctx context.Context) (int64, error) {
	return s.profileStorage.Count(ctx)
}

func (s *ProfileService) GetWithPagination(ctx context.Context, limit, offset int, order string) ([]entity.Profile, error) {
	return s.profileStorage.GetWithPagination(ctx, limit, offset, order)
}

// SendAuthCode mails a short-lived sign-in code to a registered address.
func (s *ProfileService) SendAuthCode(ctx context.Context, email string) error {
	if _, err := s.profileStorage.GetByEmail(ctx, email); err != nil {
		return err
	}
	code, err := generator.RandomCode(authCodeLength)
	if err != nil {
		return err
	}
	if err = s.codeStorage.Set(ctx, email, code, authCodeTTL); err != nil {
		return err
	}
	s.smtpClient.SendConfirmationEmail(email, code)
	return nil
}

// VerifyAuthCode checks the sign-in code and consumes it on success.
func (s *ProfileService) VerifyAuthCode(ctx context.Context, email, code string) (*entity.Profile, error) {
	stored, err := s.codeStorage.Get(ctx, email)
	if err != nil || stored == "" || stored != code {
		return nil, fmt.Errorf("%w", errorz.InvalidCode)
	}
	if err = s.codeStorage.Clear(ctx, email); err != nil {
		return nil, err
	}
	return s.profileStorage.GetByEmail(ctx, email)
}

// UpdateAvatar resizes the uploaded image to a square thumbnail and stores
// it as the profile's public avatar.
func (s *ProfileService) UpdateAvatar(ctx context.Context, userID string, content []byte) (*entity.Profile, error) {
	profile, err := s.profileStorage.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: not a decodable image", errorz.ValidationFailed)
	}
	thumb := resize.Thumbnail(avatarSize, avatarSize, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err = png.Encode(&buf, thumb); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("avatars/%s.png", userID)
	if err = s.objectStorage.Upload(ctx, key, &buf, "image/png", true); err != nil {
		return nil, fmt.Errorf("%w: %v", errorz.UploadFailed, err)
	}

	profile.AvatarKey = key
	return s.profileStorage.Update(ctx, profile)
}

// DeleteAccount is the full account-deletion procedure: storage objects
// first, then the cascading record delete. A storage failure aborts before
// any record is touched.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID string) error {
	profile, err := s.profileStorage.Get(ctx, userID)
	if err != nil {
		return err
	}

	var keys []string
	if profile.AvatarKey != "" {
		keys = append(keys, profile.AvatarKey)
	}
	applications, err := s.applicationStorage.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	for _, app := range applications {
		if app.ResumeKey != "" {
			keys = append(keys, app.ResumeKey)
		}
		if app.TranscriptKey != "" {
			keys = append(keys, app.TranscriptKey)
		}
	}
	if len(keys) > 0 {
		if err = s.objectStorage.Remove(ctx, keys); err != nil {
			return err
		}
	}

	return s.profileStorage.DeleteCascade(ctx, userID)
}
