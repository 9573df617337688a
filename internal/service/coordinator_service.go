package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-aura/backend/internal/docstore"
	"github.com/campus-aura/backend/internal/domain"
	"github.com/campus-aura/backend/internal/events"
	"github.com/campus-aura/backend/internal/repository"
	apperrors "github.com/campus-aura/backend/pkg/util/errorutil"
)

const resourceCoordinator = "coordinator"

// CoordinatorService manages event coordinators and their logins.
type CoordinatorService struct {
	coordinators repository.CoordinatorRepository
	events       repository.EventRepository
	users        repository.UserRepository
	auth         *AuthService
	dispatcher   events.Dispatcher
	logger       *zap.Logger
}

// CoordinatorDependencies bundles collaborators for the coordinator service.
type CoordinatorDependencies struct {
	CoordinatorRepo repository.CoordinatorRepository
	EventRepo       repository.EventRepository
	UserRepo        repository.UserRepository
	AuthService     *AuthService
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
}

// CoordinatorInput is the admin-editable coordinator field set.
type CoordinatorInput struct {
	FirstName         string
	LastName          string
	PhoneNumber       string
	Email             string
	Department        string
	Degree            string
	ShortIntroduction string
	DegreeProgramme   string
	Password          string
}

func NewCoordinatorService(deps CoordinatorDependencies) *CoordinatorService {
	return &CoordinatorService{
		coordinators: deps.CoordinatorRepo,
		events:       deps.EventRepo,
		users:        deps.UserRepo,
		auth:         deps.AuthService,
		dispatcher:   deps.Dispatcher,
		logger:       nopIfNil(deps.Logger),
	}
}

// Register creates a coordinator. A non-empty password also provisions a
// COORDINATOR login whose subject is the coordinator id.
func (s *CoordinatorService) Register(ctx context.Context, in CoordinatorInput) (*domain.Coordinator, error) {
	if err := required(map[string]string{
		"firstName": in.FirstName,
		"lastName":  in.LastName,
		"email":     in.Email,
	}); err != nil {
		return nil, err
	}

	now := nowUTC()
	c := &domain.Coordinator{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Active:    true,
	}
	applyCoordinatorInput(c, in)

	withLogin := in.Password != ""
	if withLogin {
		if s.auth == nil {
			return nil, apperrors.NewUnavailable("credential provisioning is not configured")
		}
		if _, err := s.auth.ProvisionCredential(ctx, CredentialInput{
			SubjectID:   c.ID,
			Email:       c.Email,
			DisplayName: c.FullName(),
			Password:    in.Password,
			Role:        domain.RoleCoordinator,
		}); err != nil {
			return nil, err
		}
		c.AuthUID = c.ID
	}

	if err := s.coordinators.Create(ctx, c); err != nil {
		if withLogin {
			if revokeErr := s.auth.RevokeCredential(ctx, c.Email); revokeErr != nil {
				s.logger.Warn("revoke credential after failed coordinator create", zap.String("email", c.Email), zap.Error(revokeErr))
			}
		}
		return nil, storeError(resourceCoordinator, c.ID, err)
	}

	if withLogin && s.users != nil {
		profile := &domain.User{
			UID:             c.ID,
			Email:           c.Email,
			Name:            c.FullName(),
			PhoneNumber:     c.PhoneNumber,
			Role:            domain.RoleCoordinator,
			IsEmailVerified: true,
			IsActive:        true,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := s.users.Create(ctx, profile); err != nil {
			s.logger.Warn("create coordinator user profile", zap.String("coordinator_id", c.ID), zap.Error(err))
		}
	}

	publish(ctx, s.dispatcher, s.logger, events.New(events.EventCoordinatorRegistered, c.ID, "",
		events.CoordinatorRegisteredPayload{Email: c.Email, Name: c.FullName(), HasCredentials: withLogin}))
	return c, nil
}

// List returns coordinators with their event counts.
func (s *CoordinatorService) List(ctx context.Context) ([]*domain.Coordinator, error) {
	list, err := s.coordinators.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	for _, c := range list {
		c.EventCount = s.eventCount(ctx, c.ID)
	}
	return list, nil
}

// Get returns a coordinator with its event count.
func (s *CoordinatorService) Get(ctx context.Context, id string) (*domain.Coordinator, error) {
	c, err := s.coordinators.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(resourceCoordinator, id, err)
	}
	c.EventCount = s.eventCount(ctx, id)
	return c, nil
}

// Update overwrites the profile fields. An email change moves the login to the
// new address. Password and active state are not touched.
func (s *CoordinatorService) Update(ctx context.Context, id string, in CoordinatorInput) (*domain.Coordinator, error) {
	if err := required(map[string]string{
		"firstName": in.FirstName,
		"lastName":  in.LastName,
		"email":     in.Email,
	}); err != nil {
		return nil, err
	}
	c, err := s.coordinators.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(resourceCoordinator, id, err)
	}
	oldEmail := c.Email
	applyCoordinatorInput(c, in)
	c.UpdatedAt = nowUTC()

	emailChanged := c.AuthUID != "" && repository.CredentialKey(oldEmail) != repository.CredentialKey(c.Email)
	if emailChanged && s.auth != nil {
		if _, err := s.auth.MoveCredential(ctx, c.AuthUID, c.Email); err != nil && !apperrors.IsCode(err, apperrors.CodeNotFound) {
			return nil, err
		}
	}
	if err := s.coordinators.Update(ctx, c); err != nil {
		if emailChanged && s.auth != nil {
			if _, moveErr := s.auth.MoveCredential(ctx, c.AuthUID, oldEmail); moveErr != nil {
				s.logger.Warn("restore coordinator credential", zap.String("coordinator_id", id), zap.Error(moveErr))
			}
		}
		return nil, storeError(resourceCoordinator, id, err)
	}
	if emailChanged && s.users != nil {
		s.syncProfileEmail(ctx, c)
	}
	c.EventCount = s.eventCount(ctx, id)
	return c, nil
}

func (s *CoordinatorService) syncProfileEmail(ctx context.Context, c *domain.Coordinator) {
	user, err := s.users.GetByID(ctx, c.AuthUID)
	if errors.Is(err, docstore.ErrNotFound) {
		return
	}
	if err == nil {
		user.Email = c.Email
		user.UpdatedAt = c.UpdatedAt
		err = s.users.Update(ctx, user)
	}
	if err != nil {
		s.logger.Warn("sync coordinator profile email", zap.String("coordinator_id", c.ID), zap.Error(err))
	}
}

// SetActive enables or disables a coordinator.
func (s *CoordinatorService) SetActive(ctx context.Context, id string, active bool) (*domain.Coordinator, error) {
	c, err := s.coordinators.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(resourceCoordinator, id, err)
	}
	c.Active = active
	c.UpdatedAt = nowUTC()
	if err := s.coordinators.Update(ctx, c); err != nil {
		return nil, storeError(resourceCoordinator, id, err)
	}
	if c.AuthUID != "" && s.users != nil {
		if _, err := setUserActive(ctx, s.users, c.AuthUID, active); err != nil && !apperrors.IsCode(err, apperrors.CodeNotFound) {
			s.logger.Warn("sync coordinator user profile", zap.String("coordinator_id", id), zap.Error(err))
		}
	}
	c.EventCount = s.eventCount(ctx, id)
	return c, nil
}

// Delete hard-deletes a coordinator together with its login.
func (s *CoordinatorService) Delete(ctx context.Context, id string) error {
	c, err := s.coordinators.GetByID(ctx, id)
	if err != nil {
		return storeError(resourceCoordinator, id, err)
	}
	if err := s.coordinators.Delete(ctx, id); err != nil {
		return storeError(resourceCoordinator, id, err)
	}
	if c.AuthUID == "" {
		return nil
	}
	if s.auth != nil {
		if err := s.auth.RevokeSubject(ctx, c.AuthUID); err != nil {
			s.logger.Warn("revoke coordinator credential", zap.String("coordinator_id", id), zap.Error(err))
		}
	}
	if s.users != nil {
		if err := s.users.Delete(ctx, c.AuthUID); err != nil && !errors.Is(err, docstore.ErrNotFound) {
			s.logger.Warn("delete coordinator user profile", zap.String("coordinator_id", id), zap.Error(err))
		}
	}
	return nil
}

// DegreeProgrammes lists the programmes a coordinator may belong to.
func (s *CoordinatorService) DegreeProgrammes() []string {
	return append([]string(nil), domain.DegreeProgrammes...)
}

// Departments lists the organising departments. They mirror the degree programmes.
func (s *CoordinatorService) Departments() []string {
	return append([]string(nil), domain.DegreeProgrammes...)
}

func (s *CoordinatorService) eventCount(ctx context.Context, id string) int64 {
	if s.events == nil {
		return 0
	}
	n, err := s.events.Count(ctx, docstore.Eq("coordinatorId", id))
	if err != nil {
		s.logger.Warn("count coordinator events", zap.String("coordinator_id", id), zap.Error(err))
		return 0
	}
	return n
}

func applyCoordinatorInput(c *domain.Coordinator, in CoordinatorInput) {
	c.FirstName = strings.TrimSpace(in.FirstName)
	c.LastName = strings.TrimSpace(in.LastName)
	c.PhoneNumber = in.PhoneNumber
	c.Email = strings.TrimSpace(in.Email)
	c.Department = in.Department
	c.Degree = in.Degree
	c.ShortIntroduction = in.ShortIntroduction
	c.DegreeProgramme = in.DegreeProgramme
	if c.DegreeProgramme == "" {
		c.DegreeProgramme = in.Department
	}
}
