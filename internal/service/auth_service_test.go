package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-aura/backend/internal/domain"
	apperrors "github.com/campus-aura/backend/pkg/util/errorutil"
)

func TestProvisionAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cred, err := env.authSvc.ProvisionCredential(ctx, CredentialInput{
		SubjectID:   "admin-1",
		Email:       "Admin@Campus.lk",
		DisplayName: "Root",
		Password:    "secret-pass",
		Role:        domain.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, "admin@campus.lk", cred.Email)
	assert.NotEqual(t, "secret-pass", cred.PasswordHash)

	res, err := env.authSvc.Login(ctx, "ADMIN@campus.lk", "secret-pass")
	require.NoError(t, err)
	claims, err := env.authSvc.TokenManager().ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.Subject)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, "Root", claims.Name)

	_, err = env.authSvc.Login(ctx, "admin@campus.lk", "wrong-pass")
	requireCode(t, err, apperrors.CodeUnauthorized)
	_, err = env.authSvc.Login(ctx, "nobody@campus.lk", "secret-pass")
	requireCode(t, err, apperrors.CodeUnauthorized)
	_, err = env.authSvc.Login(ctx, "", "")
	requireCode(t, err, apperrors.CodeValidation)
}

func TestProvisionCredentialRejectsDuplicatesAndShortPasswords(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	in := CredentialInput{SubjectID: "c1", Email: "c@campus.lk", Password: "123456", Role: domain.RoleCoordinator}

	_, err := env.authSvc.ProvisionCredential(ctx, in)
	require.NoError(t, err)

	in.SubjectID = "c2"
	_, err = env.authSvc.ProvisionCredential(ctx, in)
	requireCode(t, err, apperrors.CodeDuplicateEntity)

	_, err = env.authSvc.ProvisionCredential(ctx, CredentialInput{SubjectID: "c3", Email: "d@campus.lk", Password: "123"})
	requireCode(t, err, apperrors.CodeValidation)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.authSvc.ProvisionCredential(ctx, CredentialInput{SubjectID: "u1", Email: "u@campus.lk", Password: "old-pass"})
	require.NoError(t, err)

	requireCode(t, env.authSvc.ChangePassword(ctx, "u1", "bad-pass", "new-pass"), apperrors.CodeUnauthorized)
	requireCode(t, env.authSvc.ChangePassword(ctx, "u1", "old-pass", "x"), apperrors.CodeValidation)
	requireCode(t, env.authSvc.ChangePassword(ctx, "ghost", "old-pass", "new-pass"), apperrors.CodeNotFound)
	require.NoError(t, env.authSvc.ChangePassword(ctx, "u1", "old-pass", "new-pass"))

	_, err = env.authSvc.Login(ctx, "u@campus.lk", "old-pass")
	requireCode(t, err, apperrors.CodeUnauthorized)
	_, err = env.authSvc.Login(ctx, "u@campus.lk", "new-pass")
	require.NoError(t, err)
}

func TestLoginRejectsDisabledUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.userSvc.RegisterExternal(ctx, ExternalRegistration{UID: "x1", Email: "x@example.com", Name: "Ext"})
	require.NoError(t, err)
	_, err = env.authSvc.ProvisionCredential(ctx, CredentialInput{SubjectID: "x1", Email: "x@example.com", Password: "password"})
	require.NoError(t, err)
	require.NoError(t, env.userSvc.DeactivateSelf(ctx, "x1"))

	_, err = env.authSvc.Login(ctx, "x@example.com", "password")
	requireCode(t, err, apperrors.CodeForbidden)
}
