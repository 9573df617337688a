package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-aura/backend/internal/domain"
	"github.com/campus-aura/backend/internal/events"
	apperrors "github.com/campus-aura/backend/pkg/util/errorutil"
)

func coordinatorInput(email, password string) CoordinatorInput {
	return CoordinatorInput{
		FirstName:  "Nimal",
		LastName:   "Perera",
		Email:      email,
		Department: "Export Agriculture",
		Password:   password,
	}
}

func TestRegisterCoordinatorWithLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c, err := env.coordinatorSvc.Register(ctx, coordinatorInput("nimal@campus.lk", "welcome1"))
	require.NoError(t, err)
	assert.True(t, c.Active)
	assert.Equal(t, c.ID, c.AuthUID)
	assert.Equal(t, "Export Agriculture", c.DegreeProgramme)
	assert.Contains(t, env.published.types(), events.EventCoordinatorRegistered)

	profile, err := env.users.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCoordinator, profile.Role)

	res, err := env.authSvc.Login(ctx, "nimal@campus.lk", "welcome1")
	require.NoError(t, err)
	assert.Equal(t, c.ID, res.Principal.SubjectID)
	assert.Equal(t, domain.RoleCoordinator, res.Principal.Role)
}

func TestRegisterCoordinatorDuplicateLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.coordinatorSvc.Register(ctx, coordinatorInput("dup@campus.lk", "welcome1"))
	require.NoError(t, err)
	_, err = env.coordinatorSvc.Register(ctx, coordinatorInput("dup@campus.lk", "welcome2"))
	requireCode(t, err, apperrors.CodeDuplicateEntity)

	list, err := env.coordinatorSvc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRegisterCoordinatorWithoutLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.coordinatorSvc.Register(ctx, CoordinatorInput{FirstName: "No"})
	requireCode(t, err, apperrors.CodeValidation)

	c, err := env.coordinatorSvc.Register(ctx, coordinatorInput("plain@campus.lk", ""))
	require.NoError(t, err)
	assert.Empty(t, c.AuthUID)

	_, err = env.authSvc.Login(ctx, "plain@campus.lk", "anything")
	requireCode(t, err, apperrors.CodeUnauthorized)
}

func TestCoordinatorUpdateActiveAndEventCount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c, err := env.coordinatorSvc.Register(ctx, coordinatorInput("n@campus.lk", "welcome1"))
	require.NoError(t, err)
	seedEvent(t, env, domain.Event{ID: "e1", CoordinatorID: c.ID, Title: "One"})
	seedEvent(t, env, domain.Event{ID: "e2", CoordinatorID: c.ID, Title: "Two"})

	in := coordinatorInput("n@campus.lk", "")
	in.ShortIntroduction = "Organiser"
	updated, err := env.coordinatorSvc.Update(ctx, c.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Organiser", updated.ShortIntroduction)
	assert.Equal(t, int64(2), updated.EventCount)

	disabled, err := env.coordinatorSvc.SetActive(ctx, c.ID, false)
	require.NoError(t, err)
	assert.False(t, disabled.Active)

	profile, err := env.users.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, profile.IsActive)

	_, err = env.coordinatorSvc.Get(ctx, "missing")
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestDeleteCoordinatorRemovesLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c, err := env.coordinatorSvc.Register(ctx, coordinatorInput("bye@campus.lk", "welcome1"))
	require.NoError(t, err)

	require.NoError(t, env.coordinatorSvc.Delete(ctx, c.ID))
	requireCode(t, env.coordinatorSvc.Delete(ctx, c.ID), apperrors.CodeNotFound)

	_, err = env.authSvc.Login(ctx, "bye@campus.lk", "welcome1")
	requireCode(t, err, apperrors.CodeUnauthorized)
	_, err = env.users.GetByID(ctx, c.ID)
	assert.Error(t, err)
}

func TestCoordinatorEmailChangeMovesLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c, err := env.coordinatorSvc.Register(ctx, coordinatorInput("old@campus.lk", "welcome1"))
	require.NoError(t, err)

	_, err = env.coordinatorSvc.Update(ctx, c.ID, coordinatorInput("New@campus.lk", ""))
	require.NoError(t, err)

	_, err = env.authSvc.Login(ctx, "old@campus.lk", "welcome1")
	requireCode(t, err, apperrors.CodeUnauthorized)
	res, err := env.authSvc.Login(ctx, "new@campus.lk", "welcome1")
	require.NoError(t, err)
	assert.Equal(t, c.ID, res.Principal.SubjectID)

	profile, err := env.users.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "New@campus.lk", profile.Email)

	require.NoError(t, env.coordinatorSvc.Delete(ctx, c.ID))
	for _, email := range []string{"old@campus.lk", "new@campus.lk"} {
		_, err = env.authSvc.Login(ctx, email, "welcome1")
		requireCode(t, err, apperrors.CodeUnauthorized)
	}
	_, err = env.credentials.FindBySubject(ctx, c.ID)
	assert.Error(t, err)
}

func TestCoordinatorEmailChangeRejectsTakenLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.coordinatorSvc.Register(ctx, coordinatorInput("taken@campus.lk", "welcome1"))
	require.NoError(t, err)
	c, err := env.coordinatorSvc.Register(ctx, coordinatorInput("mine@campus.lk", "welcome2"))
	require.NoError(t, err)

	_, err = env.coordinatorSvc.Update(ctx, c.ID, coordinatorInput("taken@campus.lk", ""))
	requireCode(t, err, apperrors.CodeDuplicateEntity)

	stored, err := env.coordinatorSvc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine@campus.lk", stored.Email)
	_, err = env.authSvc.Login(ctx, "mine@campus.lk", "welcome2")
	require.NoError(t, err)
}

func TestStaticProgrammeLists(t *testing.T) {
	env := newTestEnv(t)
	programmes := env.coordinatorSvc.DegreeProgrammes()
	assert.Len(t, programmes, 15)
	programmes[0] = "mutated"
	assert.Equal(t, "Animal Production and Food Technology", env.coordinatorSvc.Departments()[0])
}
