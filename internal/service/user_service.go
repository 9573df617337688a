package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/campus-aura/backend/internal/domain"
	"github.com/campus-aura/backend/internal/events"
	"github.com/campus-aura/backend/internal/media"
	"github.com/campus-aura/backend/internal/repository"
	apperrors "github.com/campus-aura/backend/pkg/util/errorutil"
)

const (
	resourceUser = "user"

	// MaxStudentIDImageBytes bounds uploaded student ID images.
	MaxStudentIDImageBytes = 5 << 20
)

// UserService handles self-service user workflows.
type UserService struct {
	users        repository.UserRepository
	uploader     media.Uploader
	uploadFolder string
	emailDomain  string
	dispatcher   events.Dispatcher
	logger       *zap.Logger
}

// UserDependencies bundles collaborators for the user service.
type UserDependencies struct {
	UserRepo           repository.UserRepository
	Uploader           media.Uploader
	UploadFolder       string
	StudentEmailDomain string
	Dispatcher         events.Dispatcher
	Logger             *zap.Logger
}

// StudentRegistration is the input for student sign-up.
type StudentRegistration struct {
	UID               string
	Email             string
	Name              string
	PhoneNumber       string
	DegreeProgram     string
	StudentID         string
	StudentIDImageURL string
}

// ExternalRegistration is the input for external sign-up.
type ExternalRegistration struct {
	UID         string
	Email       string
	Name        string
	PhoneNumber string
}

// ProfileUpdate carries the self-editable profile fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	Name              *string
	PhoneNumber       *string
	DegreeProgram     *string
	StudentIDImageURL *string
}

// NewUserService constructs the service.
func NewUserService(deps UserDependencies) *UserService {
	uploader := deps.Uploader
	if uploader == nil {
		uploader = media.Disabled{}
	}
	domainSuffix := deps.StudentEmailDomain
	if domainSuffix == "" {
		domainSuffix = "@std.uwu.ac.lk"
	}
	return &UserService{
		users:        deps.UserRepo,
		uploader:     uploader,
		uploadFolder: deps.UploadFolder,
		emailDomain:  strings.ToLower(domainSuffix),
		dispatcher:   deps.Dispatcher,
		logger:       nopIfNil(deps.Logger),
	}
}

// RegisterStudent creates a student profile. Existing documents are never overwritten.
func (s *UserService) RegisterStudent(ctx context.Context, in StudentRegistration) (*domain.User, error) {
	if err := required(map[string]string{
		"uid":           in.UID,
		"email":         in.Email,
		"name":          in.Name,
		"degreeProgram": in.DegreeProgram,
	}); err != nil {
		return nil, err
	}
	email := strings.TrimSpace(in.Email)
	if !strings.HasSuffix(strings.ToLower(email), s.emailDomain) {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("student email must end with %s", s.emailDomain),
			map[string]any{"email": email})
	}

	now := nowUTC()
	user := &domain.User{
		UID:                strings.TrimSpace(in.UID),
		Email:              email,
		Name:               strings.TrimSpace(in.Name),
		PhoneNumber:        in.PhoneNumber,
		UserType:           domain.UserTypeStudent,
		Role:               domain.RoleUser,
		IsActive:           true,
		DegreeProgram:      in.DegreeProgram,
		StudentID:          in.StudentID,
		StudentIDImageURL:  in.StudentIDImageURL,
		VerificationStatus: domain.VerificationPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	return s.register(ctx, user)
}

// RegisterExternal creates an external user profile.
func (s *UserService) RegisterExternal(ctx context.Context, in ExternalRegistration) (*domain.User, error) {
	if err := required(map[string]string{
		"uid":   in.UID,
		"email": in.Email,
		"name":  in.Name,
	}); err != nil {
		return nil, err
	}

	now := nowUTC()
	user := &domain.User{
		UID:         strings.TrimSpace(in.UID),
		Email:       strings.TrimSpace(in.Email),
		Name:        strings.TrimSpace(in.Name),
		PhoneNumber: in.PhoneNumber,
		UserType:    domain.UserTypeExternal,
		Role:        domain.RoleUser,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s.register(ctx, user)
}

func (s *UserService) register(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := s.users.Create(ctx, user); err != nil {
		return nil, storeError(resourceUser, user.UID, err)
	}
	publish(ctx, s.dispatcher, s.logger, events.New(events.EventUserRegistered, user.UID, user.UID,
		events.UserRegisteredPayload{Email: user.Email, Name: user.Name, UserType: string(user.UserType)}))
	return user, nil
}

// GetUser returns a profile or NotFound.
func (s *UserService) GetUser(ctx context.Context, uid string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return nil, storeError(resourceUser, uid, err)
	}
	return user, nil
}

// UpdateProfile applies the allow-listed profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, uid string, in ProfileUpdate) (*domain.User, error) {
	user, err := s.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, apperrors.NewValidationError("name cannot be empty", nil)
		}
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.PhoneNumber != nil {
		user.PhoneNumber = *in.PhoneNumber
	}
	if in.DegreeProgram != nil {
		user.DegreeProgram = *in.DegreeProgram
	}
	if in.StudentIDImageURL != nil {
		user.StudentIDImageURL = *in.StudentIDImageURL
	}
	user.UpdatedAt = nowUTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, storeError(resourceUser, uid, err)
	}
	return user, nil
}

// DeactivateSelf soft-disables the caller's profile.
func (s *UserService) DeactivateSelf(ctx context.Context, uid string) error {
	_, err := setUserActive(ctx, s.users, uid, false)
	return err
}

// ListUnverifiedStudents returns students whose ID has not been verified.
func (s *UserService) ListUnverifiedStudents(ctx context.Context) ([]*domain.User, error) {
	return studentsWhere(ctx, s.users, func(u *domain.User) bool {
		return u.VerificationStatus != domain.VerificationVerified
	})
}

// VerifyStudent marks a student's ID as verified or rejected.
func (s *UserService) VerifyStudent(ctx context.Context, uid string, verified bool, actorID string) (*domain.User, error) {
	status := domain.VerificationRejected
	if verified {
		status = domain.VerificationVerified
	}
	return setVerification(ctx, s.users, s.dispatcher, s.logger, uid, status, actorID)
}

// UploadStudentID stores the image with the media provider and resets the
// student's verification to PENDING.
func (s *UserService) UploadStudentID(ctx context.Context, uid, filename string, content []byte) (*domain.User, error) {
	if len(content) == 0 {
		return nil, apperrors.NewValidationError("image is required", nil)
	}
	if len(content) > MaxStudentIDImageBytes {
		return nil, apperrors.NewValidationError("image is too large", map[string]any{"maxBytes": MaxStudentIDImageBytes})
	}
	user, err := s.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	if !user.IsStudent() {
		return nil, apperrors.NewValidationError("only students upload an ID image", nil)
	}

	url, err := s.uploader.UploadBytes(ctx, s.uploadFolder, uid+"-"+path.Base(filename), content)
	if err != nil {
		if errors.Is(err, media.ErrUploadsDisabled) {
			return nil, apperrors.NewUnavailable("image uploads are not configured")
		}
		return nil, apperrors.NewInternalError(err)
	}

	user.StudentIDImageURL = url
	user.VerificationStatus = domain.VerificationPending
	user.UpdatedAt = nowUTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, storeError(resourceUser, uid, err)
	}
	return user, nil
}

func setUserActive(ctx context.Context, users repository.UserRepository, uid string, active bool) (*domain.User, error) {
	user, err := users.GetByID(ctx, uid)
	if err != nil {
		return nil, storeError(resourceUser, uid, err)
	}
	user.IsActive = active
	user.UpdatedAt = nowUTC()
	if err := users.Update(ctx, user); err != nil {
		return nil, storeError(resourceUser, uid, err)
	}
	return user, nil
}

func setVerification(ctx context.Context, users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger,
	uid string, status domain.VerificationStatus, actorID string) (*domain.User, error) {
	user, err := users.GetByID(ctx, uid)
	if err != nil {
		return nil, storeError(resourceUser, uid, err)
	}
	if !user.IsStudent() {
		return nil, apperrors.NewValidationError("user is not a student", map[string]any{"uid": uid})
	}
	if user.VerificationStatus == status {
		return user, nil
	}
	user.VerificationStatus = status
	user.UpdatedAt = nowUTC()
	if err := users.Update(ctx, user); err != nil {
		return nil, storeError(resourceUser, uid, err)
	}
	publish(ctx, dispatcher, logger, events.New(events.EventStudentVerificationChanged, uid, actorID,
		events.VerificationChangedPayload{Email: user.Email, Status: string(status)}))
	return user, nil
}

func studentsWhere(ctx context.Context, users repository.UserRepository, keep func(*domain.User) bool) ([]*domain.User, error) {
	list, err := users.ListByType(ctx, domain.UserTypeStudent)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	out := make([]*domain.User, 0, len(list))
	for _, u := range list {
		if keep(u) {
			out = append(out, u)
		}
	}
	return out, nil
}
