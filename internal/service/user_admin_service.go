package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/campus-aura/backend/internal/domain"
	"github.com/campus-aura/backend/internal/events"
	"github.com/campus-aura/backend/internal/repository"
	apperrors "github.com/campus-aura/backend/pkg/util/errorutil"
)

// UserAdminService backs the admin console user pages.
type UserAdminService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// UserAdminDependencies bundles collaborators for the admin user service.
type UserAdminDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

func NewUserAdminService(deps UserAdminDependencies) *UserAdminService {
	return &UserAdminService{
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		logger:     nopIfNil(deps.Logger),
	}
}

// ListAll returns every user, newest first.
func (s *UserAdminService) ListAll(ctx context.Context) ([]*domain.User, error) {
	list, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return list, nil
}

// ListByType returns users of one type, legacy spellings included.
func (s *UserAdminService) ListByType(ctx context.Context, userType domain.UserType) ([]*domain.User, error) {
	list, err := s.users.ListByType(ctx, userType)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return list, nil
}

// ListPendingVerification returns students awaiting review.
func (s *UserAdminService) ListPendingVerification(ctx context.Context) ([]*domain.User, error) {
	return studentsWhere(ctx, s.users, func(u *domain.User) bool {
		return u.VerificationStatus == domain.VerificationPending
	})
}

// Stats counts students, external users and pending verifications.
func (s *UserAdminService) Stats(ctx context.Context) (*domain.UserStats, error) {
	students, err := s.ListByType(ctx, domain.UserTypeStudent)
	if err != nil {
		return nil, err
	}
	externals, err := s.ListByType(ctx, domain.UserTypeExternal)
	if err != nil {
		return nil, err
	}
	stats := &domain.UserStats{
		TotalStudents:      int64(len(students)),
		TotalExternalUsers: int64(len(externals)),
	}
	for _, u := range students {
		if u.VerificationStatus == domain.VerificationPending {
			stats.TotalPendingVerification++
		}
	}
	return stats, nil
}

// Get returns a user or NotFound.
func (s *UserAdminService) Get(ctx context.Context, uid string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return nil, storeError(resourceUser, uid, err)
	}
	return user, nil
}

// SetActive enables or disables a user.
func (s *UserAdminService) SetActive(ctx context.Context, uid string, active bool) (*domain.User, error) {
	return setUserActive(ctx, s.users, uid, active)
}

// SetVerification sets a student's verification status.
func (s *UserAdminService) SetVerification(ctx context.Context, uid, status, actorID string) (*domain.User, error) {
	parsed, ok := domain.ParseVerificationStatus(status)
	if !ok {
		return nil, apperrors.NewValidationError("unknown verification status", map[string]any{"status": status})
	}
	return setVerification(ctx, s.users, s.dispatcher, s.logger, uid, parsed, actorID)
}

// Delete removes a user document.
func (s *UserAdminService) Delete(ctx context.Context, uid string) error {
	if err := s.users.Delete(ctx, uid); err != nil {
		return storeError(resourceUser, uid, err)
	}
	return nil
}
