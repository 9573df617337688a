package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/campus-aura/backend/internal/auth"
	"github.com/campus-aura/backend/internal/config"
	"github.com/campus-aura/backend/internal/docstore"
	"github.com/campus-aura/backend/internal/domain"
	"github.com/campus-aura/backend/internal/repository"
	apperrors "github.com/campus-aura/backend/pkg/util/errorutil"
)

const (
	resourceCredential = "credential"

	// MinPasswordLength matches the identity provider the credentials replace.
	MinPasswordLength = 6
)

// AuthService coordinates login and credential management.
type AuthService struct {
	credentials repository.CredentialRepository
	users       repository.UserRepository
	tokenMgr    *auth.TokenManager
	bcryptCost  int
	logger      *zap.Logger
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	CredentialRepo repository.CredentialRepository
	UserRepo       repository.UserRepository
	Logger         *zap.Logger
}

// LoginResult carries an issued access token.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Principal *domain.Credential
}

// CredentialInput describes a login to provision.
type CredentialInput struct {
	SubjectID   string
	Email       string
	DisplayName string
	Password    string
	Role        domain.Role
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		credentials: deps.CredentialRepo,
		users:       deps.UserRepo,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost:  cfg.Auth.BcryptCost,
		logger:      nopIfNil(deps.Logger),
	}
}

// Login authenticates an email/password pair and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if err := required(map[string]string{"email": email, "password": password}); err != nil {
		return nil, err
	}
	cred, err := s.credentials.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(cred.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := s.ensureActive(ctx, cred.SubjectID); err != nil {
		return nil, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(cred.SubjectID, cred.Role, cred.Email, cred.DisplayName)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &LoginResult{Token: token, ExpiresAt: exp, Principal: cred}, nil
}

// ChangePassword verifies current password before updating to new hash.
func (s *AuthService) ChangePassword(ctx context.Context, subjectID, currentPassword, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	cred, err := s.credentials.FindBySubject(ctx, subjectID)
	if err != nil {
		return storeError(resourceCredential, subjectID, err)
	}
	if err := auth.ComparePassword(cred.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	cred.PasswordHash = hash
	cred.UpdatedAt = nowUTC()
	if err := s.credentials.Update(ctx, cred); err != nil {
		return storeError(resourceCredential, subjectID, err)
	}
	return nil
}

// ProvisionCredential creates a login for a subject. An existing credential
// for the email is a DUPLICATE_ENTITY conflict.
func (s *AuthService) ProvisionCredential(ctx context.Context, in CredentialInput) (*domain.Credential, error) {
	if err := required(map[string]string{"subjectId": in.SubjectID, "email": in.Email}); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	now := nowUTC()
	cred := &domain.Credential{
		SubjectID:    in.SubjectID,
		Email:        repository.CredentialKey(in.Email),
		DisplayName:  strings.TrimSpace(in.DisplayName),
		PasswordHash: hash,
		Role:         domain.ParseRole(string(in.Role)),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.credentials.Create(ctx, cred); err != nil {
		return nil, storeError(resourceCredential, cred.Email, err)
	}
	return cred, nil
}

// RevokeCredential removes the login for an email. A missing credential is not an error.
func (s *AuthService) RevokeCredential(ctx context.Context, email string) error {
	err := s.credentials.DeleteByEmail(ctx, email)
	if err != nil && !errors.Is(err, docstore.ErrNotFound) {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// MoveCredential re-keys a subject's login under newEmail. The new key is
// written before the old one is removed, so a failed move leaves the old
// login intact. A subject without a login is NotFound.
func (s *AuthService) MoveCredential(ctx context.Context, subjectID, newEmail string) (*domain.Credential, error) {
	if err := required(map[string]string{"subjectId": subjectID, "email": newEmail}); err != nil {
		return nil, err
	}
	cred, err := s.credentials.FindBySubject(ctx, subjectID)
	if err != nil {
		return nil, storeError(resourceCredential, subjectID, err)
	}
	oldKey := repository.CredentialKey(cred.Email)
	newKey := repository.CredentialKey(newEmail)
	if oldKey == newKey {
		return cred, nil
	}

	moved := *cred
	moved.Email = newKey
	moved.UpdatedAt = nowUTC()
	if err := s.credentials.Create(ctx, &moved); err != nil {
		return nil, storeError(resourceCredential, newKey, err)
	}
	if err := s.credentials.DeleteByEmail(ctx, oldKey); err != nil && !errors.Is(err, docstore.ErrNotFound) {
		return nil, apperrors.NewInternalError(err)
	}
	return &moved, nil
}

// RevokeSubject removes whatever login belongs to subjectID. A missing credential is not an error.
func (s *AuthService) RevokeSubject(ctx context.Context, subjectID string) error {
	cred, err := s.credentials.FindBySubject(ctx, subjectID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return s.RevokeCredential(ctx, cred.Email)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// ensureActive rejects logins for disabled user profiles. Subjects without a
// users document (admins, coordinators) are allowed.
func (s *AuthService) ensureActive(ctx context.Context, subjectID string) error {
	if s.users == nil {
		return nil
	}
	user, err := s.users.GetByID(ctx, subjectID)
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		return nil
	case err != nil:
		return apperrors.NewInternalError(err)
	case !user.IsActive:
		return apperrors.NewForbidden("account is disabled")
	default:
		return nil
	}
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return apperrors.NewValidationError("password is too short", map[string]any{"minLength": MinPasswordLength})
	}
	return nil
}
