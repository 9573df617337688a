package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-aura/backend/internal/cache"
	"github.com/campus-aura/backend/internal/domain"
	"github.com/campus-aura/backend/internal/events"
	"github.com/campus-aura/backend/internal/repository"
	apperrors "github.com/campus-aura/backend/pkg/util/errorutil"
)

var (
	owner    = domain.Actor{ID: "coord-1"}
	stranger = domain.Actor{ID: "coord-2"}
	admin    = domain.Actor{ID: "admin-1", Admin: true}
)

func seedEvent(t *testing.T, env *testEnv, e domain.Event) *domain.Event {
	t.Helper()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	e.UpdatedAt = e.CreatedAt
	require.NoError(t, env.events.Create(context.Background(), &e))
	return &e
}

func titles(list []*domain.Event) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.Title)
	}
	return out
}

func TestCreateEventDefaultsToDraft(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	event, err := env.eventSvc.CreateEvent(ctx, owner.ID, EventInput{Title: "Tech Fest", Category: strPtr("Tech")})
	require.NoError(t, err)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, domain.EventStatusDraft, event.Status)
	assert.Equal(t, owner.ID, event.CoordinatorID)
	assert.Equal(t, "Tech", event.Category)
	assert.Zero(t, event.AttendeeCount)

	stored, err := env.eventSvc.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.Title, stored.Title)
	assert.Equal(t, []events.EventType{events.EventEventCreated}, env.published.types())
}

func TestCreateEventValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.eventSvc.CreateEvent(ctx, owner.ID, EventInput{})
	requireCode(t, err, apperrors.CodeValidation)

	_, err = env.eventSvc.CreateEvent(ctx, owner.ID, EventInput{Title: "x", Status: strPtr("archived")})
	requireCode(t, err, apperrors.CodeValidation)

	_, err = env.eventSvc.CreateEvent(ctx, "", EventInput{Title: "x"})
	requireCode(t, err, apperrors.CodeUnauthorized)

	event, err := env.eventSvc.CreateEvent(ctx, owner.ID, EventInput{Title: "x", Status: strPtr("published")})
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusPublished, event.Status)
}

func TestGetOwnedEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	e := seedEvent(t, env, domain.Event{ID: "e1", CoordinatorID: owner.ID, Title: "Mine", Status: domain.EventStatusDraft})

	_, err := env.eventSvc.GetOwnedEvent(ctx, "missing", owner)
	requireCode(t, err, apperrors.CodeNotFound)

	_, err = env.eventSvc.GetOwnedEvent(ctx, e.ID, stranger)
	requireCode(t, err, apperrors.CodeForbidden)

	got, err := env.eventSvc.GetOwnedEvent(ctx, e.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, "Mine", got.Title)
}

func TestUpdateEventOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedEvent(t, env, domain.Event{ID: "e1", CoordinatorID: owner.ID, Title: "Old", Category: "Music", Status: domain.EventStatusDraft})

	_, err := env.eventSvc.UpdateEvent(ctx, "e1", admin, EventInput{Title: "Admin edit"})
	requireCode(t, err, apperrors.CodeForbidden)
	_, err = env.eventSvc.UpdateEvent(ctx, "e1", stranger, EventInput{Title: "Hijack"})
	requireCode(t, err, apperrors.CodeForbidden)

	stored, err := env.eventSvc.GetEvent(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "Old", stored.Title)

	updated, err := env.eventSvc.UpdateEvent(ctx, "e1", owner, EventInput{Title: "New", Venue: "Hall A", Status: strPtr("PENDING")})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, "Music", updated.Category)
	assert.Equal(t, domain.EventStatusPending, updated.Status)

	_, err = env.eventSvc.UpdateEvent(ctx, "e1", owner, EventInput{Title: "New", Status: strPtr("ONGOING")})
	requireCode(t, err, apperrors.CodeInvalidTransition)

	_, err = env.eventSvc.UpdateEvent(ctx, "missing", owner, EventInput{Title: "x"})
	requireCode(t, err, apperrors.CodeNotFound)

	assert.Contains(t, env.published.types(), events.EventEventStatusChanged)
}

func TestDeleteEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedEvent(t, env, domain.Event{ID: "e1", CoordinatorID: owner.ID, Title: "Gone"})

	requireCode(t, env.eventSvc.DeleteEvent(ctx, "missing", owner), apperrors.CodeNotFound)
	requireCode(t, env.eventSvc.DeleteEvent(ctx, "e1", stranger), apperrors.CodeForbidden)
	require.NoError(t, env.eventSvc.DeleteEvent(ctx, "e1", admin))

	_, err := env.eventSvc.GetEvent(ctx, "e1")
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestSetStatusTransitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedEvent(t, env, domain.Event{ID: "e1", CoordinatorID: owner.ID, Title: "Flow", Status: domain.EventStatusDraft})

	_, err := env.eventSvc.SetStatus(ctx, "e1", owner, "bogus")
	requireCode(t, err, apperrors.CodeValidation)

	_, err = env.eventSvc.SetStatus(ctx, "e1", stranger, "PENDING")
	requireCode(t, err, apperrors.CodeForbidden)

	got, err := env.eventSvc.SetStatus(ctx, "e1", owner, "pending")
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusPending, got.Status)

	_, err = env.eventSvc.SetStatus(ctx, "e1", owner, "ONGOING")
	requireCode(t, err, apperrors.CodeInvalidTransition)

	got, err = env.eventSvc.SetStatus(ctx, "e1", admin, "APPROVED")
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusApproved, got.Status)

	before := len(env.published.types())
	got, err = env.eventSvc.SetStatus(ctx, "e1", admin, "APPROVED")
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusApproved, got.Status)
	assert.Len(t, env.published.types(), before)

	stored, err := env.eventSvc.GetEvent(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusApproved, stored.Status)
}

func TestSetStatusLegacyValueNeedsAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.store.Set(ctx, repository.EventsCollection, "old", map[string]any{
		"eventId":       "old",
		"coordinatorId": owner.ID,
		"title":         "Archived",
		"status":        "archived",
	}))

	_, err := env.eventSvc.SetStatus(ctx, "old", owner, "DRAFT")
	requireCode(t, err, apperrors.CodeInvalidTransition)

	got, err := env.eventSvc.SetStatus(ctx, "old", admin, "DRAFT")
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusDraft, got.Status)
}

func TestListQueries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedEvent(t, env, domain.Event{ID: "a", CoordinatorID: owner.ID, Title: "A", Category: "Music", OrganizingDepartment: "ICT", Status: domain.EventStatusDraft})
	seedEvent(t, env, domain.Event{ID: "b", CoordinatorID: owner.ID, Title: "B", Category: "Tech", OrganizingDepartment: "ICT", Status: domain.EventStatusPending})
	seedEvent(t, env, domain.Event{ID: "c", CoordinatorID: stranger.ID, Title: "C", Category: "Tech", OrganizingDepartment: "Export", Status: domain.EventStatusPending})

	mine, err := env.eventSvc.ListByCoordinator(ctx, owner.ID, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B"}, titles(mine))

	mine, err = env.eventSvc.ListByCoordinator(ctx, owner.ID, "pending")
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, titles(mine))

	byCat, err := env.eventSvc.ListByCategory(ctx, "Tech")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"B", "C"}, titles(byCat))

	byStatus, err := env.eventSvc.ListByStatus(ctx, "PENDING")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"B", "C"}, titles(byStatus))

	_, err = env.eventSvc.ListByStatus(ctx, "nope")
	requireCode(t, err, apperrors.CodeValidation)

	byDept, err := env.eventSvc.ListByDepartment(ctx, "ICT")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B"}, titles(byDept))

	filtered, err := env.eventSvc.FilterEvents(ctx, EventFilter{Category: "Tech", Department: "ICT"})
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, titles(filtered))

	none, err := env.eventSvc.ListByCategory(ctx, "Sports")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	n, err := env.eventSvc.CountByCoordinator(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestPublicEventsFilterAndSort(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	seedEvent(t, env, domain.Event{ID: "a", Title: "A", Category: "Music", Status: domain.EventStatusPublished, DateTime: "2024-07-01T10:00", AttendeeCount: 5, CreatedAt: base})
	seedEvent(t, env, domain.Event{ID: "b", Title: "B", Category: "music", Status: domain.EventStatusOngoing, DateTime: "2024-06-01T10:00", AttendeeCount: 50, CreatedAt: base.Add(time.Hour)})
	seedEvent(t, env, domain.Event{ID: "c", Title: "C", Category: "Tech", Status: domain.EventStatusDraft, AttendeeCount: 10, CreatedAt: base.Add(2 * time.Hour)})
	seedEvent(t, env, domain.Event{ID: "d", Title: "D", Category: "Tech", Status: domain.EventStatusPending, CreatedAt: base.Add(3 * time.Hour)})
	seedEvent(t, env, domain.Event{ID: "e", Title: "E", Category: "Tech", Status: domain.EventStatusRejected, CreatedAt: base.Add(4 * time.Hour)})

	list, err := env.eventSvc.PublicEvents(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B", "A"}, titles(list))

	list, err = env.eventSvc.PublicEvents(ctx, "MUSIC", SortUpcoming)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, titles(list))

	list, err = env.eventSvc.PublicEvents(ctx, "All", SortUpcoming)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A", "C"}, titles(list))

	list, err = env.eventSvc.PublicEvents(ctx, "", SortPopular)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "A"}, titles(list))
}

func TestPublicEventsCacheInvalidatedOnMutation(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	env := newTestEnv(t, withCache(cache.NewRedisListingCache(client, "test:events", time.Minute)))
	ctx := context.Background()

	seedEvent(t, env, domain.Event{ID: "a", Title: "A", Status: domain.EventStatusPublished})
	list, err := env.eventSvc.PublicEvents(ctx, "", SortLatest)
	require.NoError(t, err)
	require.Len(t, list, 1)

	// Written behind the service, so the cached listing stays stale.
	seedEvent(t, env, domain.Event{ID: "b", Title: "B", Status: domain.EventStatusPublished})
	list, err = env.eventSvc.PublicEvents(ctx, "", SortLatest)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = env.eventSvc.CreateEvent(ctx, owner.ID, EventInput{Title: "C", Status: strPtr("PUBLISHED")})
	require.NoError(t, err)
	list, err = env.eventSvc.PublicEvents(ctx, "", SortLatest)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestDocumentWritesToEventsDropListingCache(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	env := newTestEnv(t, withCache(cache.NewRedisListingCache(client, "test:events", time.Minute)))
	ctx := context.Background()

	seedEvent(t, env, domain.Event{ID: "a", Title: "A", Status: domain.EventStatusPublished})
	list, err := env.eventSvc.PublicEvents(ctx, "", SortLatest)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = env.documentSvc.Save(ctx, repository.EventsCollection, "raw", map[string]any{
		"eventId": "raw", "title": "Raw", "status": "PUBLISHED",
	})
	require.NoError(t, err)
	list, err = env.eventSvc.PublicEvents(ctx, "", SortLatest)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "Raw"}, titles(list))

	require.NoError(t, env.documentSvc.Delete(ctx, repository.EventsCollection, "a"))
	list, err = env.eventSvc.PublicEvents(ctx, "", SortLatest)
	require.NoError(t, err)
	assert.Equal(t, []string{"Raw"}, titles(list))

	// Other collections leave the cached listing alone.
	seedEvent(t, env, domain.Event{ID: "b", Title: "B", Status: domain.EventStatusPublished})
	_, err = env.documentSvc.Save(ctx, "notes", "n1", map[string]any{"text": "hello"})
	require.NoError(t, err)
	list, err = env.eventSvc.PublicEvents(ctx, "", SortLatest)
	require.NoError(t, err)
	assert.Equal(t, []string{"Raw"}, titles(list))
}

func TestRandomOngoingEventsClampsLimit(t *testing.T) {
	env := newTestEnv(t)
	env.eventSvc.shuffle = func(int, func(i, j int)) {}
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		seedEvent(t, env, domain.Event{ID: id, Title: id, Status: domain.EventStatusOngoing})
	}
	seedEvent(t, env, domain.Event{ID: "d", Title: "d", Status: domain.EventStatusDraft})

	list, err := env.eventSvc.RandomOngoingEvents(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = env.eventSvc.RandomOngoingEvents(ctx, 100)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, titles(list))
}

func TestLatestEventsSkipsUndated(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedEvent(t, env, domain.Event{ID: "a", Title: "A", Status: domain.EventStatusPublished, DateTime: "2024-06-01"})
	seedEvent(t, env, domain.Event{ID: "b", Title: "B", Status: domain.EventStatusOngoing, DateTime: "2024-08-01"})
	seedEvent(t, env, domain.Event{ID: "c", Title: "C", Status: domain.EventStatusPublished})
	seedEvent(t, env, domain.Event{ID: "d", Title: "D", Status: domain.EventStatusDraft, DateTime: "2025-01-01"})

	list, err := env.eventSvc.LatestEvents(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, titles(list))

	list, err = env.eventSvc.LatestEvents(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, titles(list))
}

func TestEventDetail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	price := 25.0
	seedEvent(t, env, domain.Event{
		ID:    "rich",
		Title: "Rich",
		PastEventDetails: []domain.PastEventDetail{
			{Title: "2023", ImageURLs: []string{"a.png", "b.png"}},
			{Title: "2022", ImageURLs: []string{"c.png"}},
		},
		SellItems: []domain.SellItem{{ItemName: "Booth", Price: &price}, {ItemName: "Banner"}},
	})
	seedEvent(t, env, domain.Event{ID: "bare", Title: "Bare"})

	detail, err := env.eventSvc.EventDetail(ctx, "rich")
	require.NoError(t, err)
	assert.Equal(t, 500, detail.TotalSpots)
	assert.Equal(t, 180, detail.AvailableSpots)
	assert.Len(t, detail.Schedule, 3)
	assert.Equal(t, []string{"a.png", "b.png", "c.png"}, detail.GalleryImages)
	require.Len(t, detail.Sponsors, 2)
	assert.Equal(t, domain.Sponsor{Tier: "Standard", Amount: "$25", Logo: "🏢", Name: "Booth"}, detail.Sponsors[0])
	assert.Equal(t, "TBA", detail.Sponsors[1].Amount)

	detail, err = env.eventSvc.EventDetail(ctx, "bare")
	require.NoError(t, err)
	assert.Empty(t, detail.Schedule)
	require.Len(t, detail.Sponsors, 3)
	assert.Equal(t, "Platinum", detail.Sponsors[0].Tier)

	_, err = env.eventSvc.EventDetail(ctx, "missing")
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestAdminEventsJoinCoordinatorName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.coordinators.Create(ctx, &domain.Coordinator{ID: owner.ID, FirstName: "Nimal", LastName: "Perera", Active: true}))
	seedEvent(t, env, domain.Event{ID: "a", CoordinatorID: owner.ID, Title: "Known"})
	seedEvent(t, env, domain.Event{ID: "b", CoordinatorID: "ghost", Title: "Orphan"})

	list, err := env.eventSvc.AdminEvents(ctx)
	require.NoError(t, err)
	names := map[string]string{}
	for _, e := range list {
		names[e.Event.Title] = e.CoordinatorName
	}
	assert.Equal(t, map[string]string{"Known": "Nimal Perera", "Orphan": "Unknown Coordinator"}, names)
}
