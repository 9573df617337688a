package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to EventStatus
		allowed  bool
	}{
		{EventStatusDraft, EventStatusPending, true},
		{EventStatusDraft, EventStatusPublished, true},
		{EventStatusDraft, EventStatusOngoing, false},
		{EventStatusPending, EventStatusApproved, true},
		{EventStatusApproved, EventStatusPublished, true},
		{EventStatusPublished, EventStatusOngoing, true},
		{EventStatusOngoing, EventStatusDraft, false},
		{EventStatusRejected, EventStatusPublished, false},
		{EventStatusOngoing, EventStatusOngoing, true},
		{EventStatus("ARCHIVED"), EventStatusDraft, false},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestParseEventStatus(t *testing.T) {
	s, ok := ParseEventStatus(" published ")
	assert.True(t, ok)
	assert.Equal(t, EventStatusPublished, s)

	_, ok = ParseEventStatus("archived")
	assert.False(t, ok)
}

func TestProductTerminalStatuses(t *testing.T) {
	assert.False(t, ProductStatusSold.CanTransitionTo(ProductStatusAvailable))
	assert.False(t, ProductStatusDeleted.CanTransitionTo(ProductStatusPending))
	assert.True(t, ProductStatusApproved.CanTransitionTo(ProductStatusSold))

	s, ok := ParseProductStatus("available")
	assert.True(t, ok)
	assert.Equal(t, ProductStatusAvailable, s)
}

func TestParseUserTypeLegacy(t *testing.T) {
	ut, ok := ParseUserType("UNIVERSITY_STUDENT")
	assert.True(t, ok)
	assert.Equal(t, UserTypeStudent, ut)

	ut, ok = ParseUserType("external_user")
	assert.True(t, ok)
	assert.Equal(t, UserTypeExternal, ut)

	_, ok = ParseUserType("alien")
	assert.False(t, ok)
}

func TestParseRoleDefaultsToUser(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleCoordinator, ParseRole("Coordinator"))
	assert.Equal(t, RoleUser, ParseRole(""))
	assert.Equal(t, RoleUser, ParseRole("superuser"))
}

func TestActorOwns(t *testing.T) {
	assert.True(t, Actor{ID: "a"}.Owns("a"))
	assert.False(t, Actor{ID: "a"}.Owns("b"))
	assert.True(t, Actor{ID: "x", Admin: true}.Owns("b"))
	assert.False(t, Actor{}.Owns(""))
}

func TestCoordinatorFullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", (&Coordinator{FirstName: "Ada", LastName: "Lovelace"}).FullName())
	assert.Equal(t, "Ada", (&Coordinator{FirstName: "Ada"}).FullName())
}
