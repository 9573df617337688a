package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-aura/backend/internal/cache"
	"github.com/campus-aura/backend/internal/docstore"
	"github.com/campus-aura/backend/internal/domain"
	"github.com/campus-aura/backend/internal/events"
	"github.com/campus-aura/backend/internal/repository"
	apperrors "github.com/campus-aura/backend/pkg/util/errorutil"
)

const (
	resourceEvent = "event"

	// MaxListingLimit caps the landing page and latest-event listings.
	MaxListingLimit = 20

	detailTotalSpots     = 500
	detailAvailableSpots = 180
	unknownCoordinator   = "Unknown Coordinator"
)

// Public listing sort keys.
const (
	SortUpcoming = "upcoming"
	SortLatest   = "latest"
	SortPopular  = "popular"
)

var defaultDetailSchedule = []domain.DetailScheduleSlot{
	{Time: "10:00 AM", Event: "Event Opens"},
	{Time: "11:00 AM", Event: "Main Program"},
	{Time: "1:00 PM", Event: "Networking Session"},
}

var placeholderSponsors = []domain.Sponsor{
	{Tier: "Platinum", Amount: "$10,000+", Logo: "🏢", Name: "Platinum Sponsor"},
	{Tier: "Gold", Amount: "$5,000+", Logo: "⭐", Name: "Gold Sponsor"},
	{Tier: "Silver", Amount: "$1,000+", Logo: "🎯", Name: "Silver Sponsor"},
}

// EventService coordinates event workflows.
type EventService struct {
	events       repository.EventRepository
	coordinators repository.CoordinatorRepository
	dispatcher   events.Dispatcher
	cache        cache.ListingCache
	logger       *zap.Logger
	shuffle      func(n int, swap func(i, j int))
}

// EventDependencies bundles collaborators for the event service.
type EventDependencies struct {
	EventRepo       repository.EventRepository
	CoordinatorRepo repository.CoordinatorRepository
	Dispatcher      events.Dispatcher
	Cache           cache.ListingCache
	Logger          *zap.Logger
}

// EventInput is the mutable field set of an event. Nil Category and Status
// leave the stored values untouched on update.
type EventInput struct {
	Title                string
	Venue                string
	DateTime             string
	Description          string
	OrganizingDepartment string
	Category             *string
	Status               *string
	TicketsAvailable     bool
	TicketCategories     []domain.TicketCategory
	PastEventDetails     []domain.PastEventDetail
	EventImageURLs       []string
	SellItems            []domain.SellItem
	Schedule             []domain.ScheduleItem
	AccountDetails       *domain.AccountDetails
}

// EventFilter narrows the admin event search. Empty fields are ignored.
type EventFilter struct {
	Category   string
	Status     string
	Department string
}

// NewEventService constructs the service.
func NewEventService(deps EventDependencies) *EventService {
	listing := deps.Cache
	if listing == nil {
		listing = cache.Noop{}
	}
	return &EventService{
		events:       deps.EventRepo,
		coordinators: deps.CoordinatorRepo,
		dispatcher:   deps.Dispatcher,
		cache:        listing,
		logger:       nopIfNil(deps.Logger),
		shuffle:      rand.Shuffle,
	}
}

// CreateEvent stores a new event owned by ownerID.
func (s *EventService) CreateEvent(ctx context.Context, ownerID string, input EventInput) (*domain.Event, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, apperrors.NewUnauthorized("caller identity required")
	}
	if err := required(map[string]string{"title": input.Title}); err != nil {
		return nil, err
	}

	status := domain.EventStatusDraft
	if input.Status != nil && strings.TrimSpace(*input.Status) != "" {
		parsed, err := parseEventStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	now := nowUTC()
	event := &domain.Event{
		ID:            uuid.NewString(),
		CoordinatorID: ownerID,
		Status:        status,
		AttendeeCount: 0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	applyEventInput(event, input)

	if err := s.events.Create(ctx, event); err != nil {
		return nil, storeError(resourceEvent, event.ID, err)
	}

	s.invalidate(ctx)
	publish(ctx, s.dispatcher, s.logger, events.New(events.EventEventCreated, event.ID, ownerID, eventPayload(event)))
	return event, nil
}

// GetEvent returns the event or NotFound.
func (s *EventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(resourceEvent, id, err)
	}
	return event, nil
}

// GetOwnedEvent returns the event when the actor owns it or is an admin.
func (s *EventService) GetOwnedEvent(ctx context.Context, id string, actor domain.Actor) (*domain.Event, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(event.CoordinatorID) {
		return nil, apperrors.NewForbidden("you do not own this event")
	}
	return event, nil
}

// ListByCoordinator returns the coordinator's events, optionally narrowed by status.
func (s *EventService) ListByCoordinator(ctx context.Context, ownerID, status string) ([]*domain.Event, error) {
	list, err := s.events.List(ctx, docstore.Query{
		Filters:    []docstore.Filter{docstore.Eq("coordinatorId", ownerID)},
		OrderBy:    "createdAt",
		Descending: true,
	})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if strings.TrimSpace(status) == "" {
		return list, nil
	}
	out := make([]*domain.Event, 0, len(list))
	for _, e := range list {
		if strings.EqualFold(string(e.Status), strings.TrimSpace(status)) {
			out = append(out, e)
		}
	}
	return out, nil
}

// ListByCategory returns events with an exactly matching category.
func (s *EventService) ListByCategory(ctx context.Context, category string) ([]*domain.Event, error) {
	return s.listWhere(ctx, docstore.Eq("category", category))
}

// ListByStatus returns events in the given status.
func (s *EventService) ListByStatus(ctx context.Context, status string) ([]*domain.Event, error) {
	parsed, err := parseEventStatus(status)
	if err != nil {
		return nil, err
	}
	list, err := s.events.ListByStatuses(ctx, parsed)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return list, nil
}

// ListByDepartment returns events organised by the department.
func (s *EventService) ListByDepartment(ctx context.Context, department string) ([]*domain.Event, error) {
	return s.listWhere(ctx, docstore.Eq("organizingDepartment", department))
}

// FilterEvents combines category, status and department equality filters.
func (s *EventService) FilterEvents(ctx context.Context, filter EventFilter) ([]*domain.Event, error) {
	filters := make([]docstore.Filter, 0, 3)
	if c := strings.TrimSpace(filter.Category); c != "" {
		filters = append(filters, docstore.Eq("category", c))
	}
	if st := strings.TrimSpace(filter.Status); st != "" {
		parsed, err := parseEventStatus(st)
		if err != nil {
			return nil, err
		}
		filters = append(filters, docstore.In("status", string(parsed), strings.ToLower(string(parsed))))
	}
	if d := strings.TrimSpace(filter.Department); d != "" {
		filters = append(filters, docstore.Eq("organizingDepartment", d))
	}
	return s.listWhere(ctx, filters...)
}

// UpdateEvent overwrites the mutable fields of an event owned by the actor.
func (s *EventService) UpdateEvent(ctx context.Context, id string, actor domain.Actor, input EventInput) (*domain.Event, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.ID == "" || actor.ID != event.CoordinatorID {
		return nil, apperrors.NewForbidden("you do not own this event")
	}

	oldStatus := event.Status
	if input.Status != nil && strings.TrimSpace(*input.Status) != "" {
		next, err := parseEventStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		if !event.Status.CanTransitionTo(next) {
			return nil, apperrors.NewInvalidTransition(resourceEvent, string(event.Status), string(next))
		}
		event.Status = next
	}
	applyEventInput(event, input)
	event.UpdatedAt = nowUTC()

	if err := s.events.Update(ctx, event); err != nil {
		return nil, storeError(resourceEvent, id, err)
	}

	s.invalidate(ctx)
	publish(ctx, s.dispatcher, s.logger, events.New(events.EventEventUpdated, id, actor.ID, eventPayload(event)))
	if oldStatus != event.Status {
		publish(ctx, s.dispatcher, s.logger, events.New(events.EventEventStatusChanged, id, actor.ID,
			events.StatusChangedPayload{OldStatus: string(oldStatus), NewStatus: string(event.Status)}))
	}
	return event, nil
}

// DeleteEvent removes an event owned by the actor, or any event for admins.
func (s *EventService) DeleteEvent(ctx context.Context, id string, actor domain.Actor) error {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	if !actor.Owns(event.CoordinatorID) {
		return apperrors.NewForbidden("you do not own this event")
	}
	if err := s.events.Delete(ctx, id); err != nil {
		return storeError(resourceEvent, id, err)
	}

	s.invalidate(ctx)
	publish(ctx, s.dispatcher, s.logger, events.New(events.EventEventDeleted, id, actor.ID, eventPayload(event)))
	return nil
}

// SetStatus moves an event through its lifecycle. Ownership is checked unless
// the actor is an admin.
func (s *EventService) SetStatus(ctx context.Context, id string, actor domain.Actor, status string) (*domain.Event, error) {
	next, err := parseEventStatus(status)
	if err != nil {
		return nil, err
	}
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(event.CoordinatorID) {
		return nil, apperrors.NewForbidden("you do not own this event")
	}
	if event.Status == next {
		return event, nil
	}
	if !event.Status.CanTransitionTo(next) && !(actor.Admin && isLegacyEventStatus(event.Status)) {
		return nil, apperrors.NewInvalidTransition(resourceEvent, string(event.Status), string(next))
	}

	old := event.Status
	now := nowUTC()
	if err := s.events.UpdateStatus(ctx, id, next, now); err != nil {
		return nil, storeError(resourceEvent, id, err)
	}
	event.Status = next
	event.UpdatedAt = now

	s.invalidate(ctx)
	publish(ctx, s.dispatcher, s.logger, events.New(events.EventEventStatusChanged, id, actor.ID,
		events.StatusChangedPayload{OldStatus: string(old), NewStatus: string(next), ByAdmin: actor.Admin}))
	return event, nil
}

// PublicEvents lists events visible on the public site.
func (s *EventService) PublicEvents(ctx context.Context, category, sortBy string) ([]*domain.Event, error) {
	category = strings.TrimSpace(category)
	sortBy = strings.ToLower(strings.TrimSpace(sortBy))
	key := fmt.Sprintf("public:%s:%s", strings.ToLower(category), sortBy)

	var cached []*domain.Event
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	all, err := s.events.List(ctx, docstore.Query{})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	out := make([]*domain.Event, 0, len(all))
	for _, e := range all {
		if !publiclyVisible(e.Status) {
			continue
		}
		if category != "" && !strings.EqualFold(category, "All") && !strings.EqualFold(e.Category, category) {
			continue
		}
		out = append(out, e)
	}
	sortEvents(out, sortBy)

	s.cacheSet(ctx, key, out)
	return out, nil
}

// RandomOngoingEvents returns a random selection of listed events.
func (s *EventService) RandomOngoingEvents(ctx context.Context, limit int) ([]*domain.Event, error) {
	limit = clamp(limit, 1, MaxListingLimit)
	list, err := s.events.ListByStatuses(ctx, domain.EventStatusPublished, domain.EventStatusOngoing)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.shuffle(len(list), func(i, j int) { list[i], list[j] = list[j], list[i] })
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// LatestEvents returns listed events with a date, newest date first.
func (s *EventService) LatestEvents(ctx context.Context, limit int) ([]*domain.Event, error) {
	limit = clamp(limit, 1, MaxListingLimit)
	key := "latest:" + strconv.Itoa(limit)

	var cached []*domain.Event
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	list, err := s.events.ListByStatuses(ctx, domain.EventStatusPublished, domain.EventStatusOngoing)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	out := make([]*domain.Event, 0, len(list))
	for _, e := range list {
		if strings.TrimSpace(e.DateTime) != "" {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DateTime > out[j].DateTime })
	if len(out) > limit {
		out = out[:limit]
	}

	s.cacheSet(ctx, key, out)
	return out, nil
}

// EventDetail builds the public detail page for an event.
func (s *EventService) EventDetail(ctx context.Context, id string) (*domain.EventDetail, error) {
	key := "detail:" + id
	var cached domain.EventDetail
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := buildEventDetail(event)
	s.cacheSet(ctx, key, detail)
	return detail, nil
}

// RecentEvents returns the most recently created events.
func (s *EventService) RecentEvents(ctx context.Context, limit int) ([]*domain.Event, error) {
	if limit <= 0 {
		limit = 5
	}
	list, err := s.events.List(ctx, docstore.Query{OrderBy: "createdAt", Descending: true, Limit: limit})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return list, nil
}

// AllEvents returns every event, newest first.
func (s *EventService) AllEvents(ctx context.Context) ([]*domain.Event, error) {
	return s.listWhere(ctx)
}

// CountAll returns the number of stored events.
func (s *EventService) CountAll(ctx context.Context) (int64, error) {
	n, err := s.events.Count(ctx)
	if err != nil {
		return 0, apperrors.NewInternalError(err)
	}
	return n, nil
}

// CountByStatus counts events in a status.
func (s *EventService) CountByStatus(ctx context.Context, status domain.EventStatus) (int64, error) {
	n, err := s.events.CountByStatus(ctx, status)
	if err != nil {
		return 0, apperrors.NewInternalError(err)
	}
	return n, nil
}

// CountByCoordinator counts events owned by a coordinator.
func (s *EventService) CountByCoordinator(ctx context.Context, coordinatorID string) (int64, error) {
	n, err := s.events.Count(ctx, docstore.Eq("coordinatorId", coordinatorID))
	if err != nil {
		return 0, apperrors.NewInternalError(err)
	}
	return n, nil
}

// AdminEvents returns every event with its coordinator's display name.
func (s *EventService) AdminEvents(ctx context.Context) ([]domain.AdminEvent, error) {
	list, err := s.AllEvents(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string)
	out := make([]domain.AdminEvent, 0, len(list))
	for _, e := range list {
		out = append(out, domain.AdminEvent{Event: e, CoordinatorName: s.coordinatorName(ctx, e.CoordinatorID, names)})
	}
	return out, nil
}

// AdminEvent returns one event with its coordinator's display name.
func (s *EventService) AdminEvent(ctx context.Context, id string) (*domain.AdminEvent, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.AdminEvent{Event: event, CoordinatorName: s.coordinatorName(ctx, event.CoordinatorID, map[string]string{})}, nil
}

func (s *EventService) coordinatorName(ctx context.Context, id string, memo map[string]string) string {
	if name, ok := memo[id]; ok {
		return name
	}
	name := unknownCoordinator
	if id != "" && s.coordinators != nil {
		c, err := s.coordinators.GetByID(ctx, id)
		switch {
		case err == nil:
			if full := strings.TrimSpace(c.FullName()); full != "" {
				name = full
			}
		case errors.Is(err, docstore.ErrNotFound):
		default:
			s.logger.Warn("coordinator lookup failed", zap.String("coordinator_id", id), zap.Error(err))
		}
	}
	memo[id] = name
	return name
}

func (s *EventService) listWhere(ctx context.Context, filters ...docstore.Filter) ([]*domain.Event, error) {
	list, err := s.events.List(ctx, docstore.Query{Filters: filters, OrderBy: "createdAt", Descending: true})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return list, nil
}

func (s *EventService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("invalidate listing cache", zap.Error(err))
	}
}

func (s *EventService) cacheGet(ctx context.Context, key string, dst any) bool {
	hit, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		s.logger.Warn("read listing cache", zap.String("key", key), zap.Error(err))
		return false
	}
	return hit
}

func (s *EventService) cacheSet(ctx context.Context, key string, value any) {
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.logger.Warn("write listing cache", zap.String("key", key), zap.Error(err))
	}
}

func applyEventInput(e *domain.Event, in EventInput) {
	e.Title = strings.TrimSpace(in.Title)
	e.Venue = in.Venue
	e.DateTime = in.DateTime
	e.Description = in.Description
	e.OrganizingDepartment = in.OrganizingDepartment
	e.TicketsAvailable = in.TicketsAvailable
	e.TicketCategories = in.TicketCategories
	e.PastEventDetails = in.PastEventDetails
	e.EventImageURLs = in.EventImageURLs
	e.SellItems = in.SellItems
	e.Schedule = in.Schedule
	e.AccountDetails = in.AccountDetails
	if in.Category != nil {
		e.Category = *in.Category
	}
}

func parseEventStatus(raw string) (domain.EventStatus, error) {
	status, ok := domain.ParseEventStatus(raw)
	if !ok {
		return "", apperrors.NewValidationError("unknown event status", map[string]any{"status": raw})
	}
	return status, nil
}

// isLegacyEventStatus reports a stored status outside the lifecycle. Only
// admins may move such events, and only to a known status.
func isLegacyEventStatus(s domain.EventStatus) bool {
	_, ok := domain.ParseEventStatus(string(s))
	return !ok
}

func publiclyVisible(status domain.EventStatus) bool {
	switch domain.EventStatus(strings.ToUpper(string(status))) {
	case domain.EventStatusPublished, domain.EventStatusOngoing, domain.EventStatusDraft, "":
		return true
	default:
		return false
	}
}

func sortEvents(list []*domain.Event, sortBy string) {
	switch sortBy {
	case SortUpcoming:
		sort.SliceStable(list, func(i, j int) bool {
			a, b := list[i].DateTime, list[j].DateTime
			if a == "" || b == "" {
				return a != "" && b == ""
			}
			return a < b
		})
	case SortPopular:
		sort.SliceStable(list, func(i, j int) bool { return list[i].AttendeeCount > list[j].AttendeeCount })
	default:
		sort.SliceStable(list, func(i, j int) bool {
			a, b := list[i].CreatedAt, list[j].CreatedAt
			if a.IsZero() || b.IsZero() {
				return !a.IsZero() && b.IsZero()
			}
			return a.After(b)
		})
	}
}

func buildEventDetail(e *domain.Event) *domain.EventDetail {
	detail := &domain.EventDetail{
		Event:          e,
		TotalSpots:     detailTotalSpots,
		AvailableSpots: detailAvailableSpots,
		Schedule:       []domain.DetailScheduleSlot{},
		GalleryImages:  []string{},
	}
	if len(e.PastEventDetails) > 0 {
		detail.Schedule = append(detail.Schedule, defaultDetailSchedule...)
	}
	for _, past := range e.PastEventDetails {
		detail.GalleryImages = append(detail.GalleryImages, past.ImageURLs...)
	}
	for _, item := range e.SellItems {
		amount := "TBA"
		if item.Price != nil {
			amount = "$" + strconv.FormatFloat(*item.Price, 'f', -1, 64)
		}
		detail.Sponsors = append(detail.Sponsors, domain.Sponsor{
			Tier:   "Standard",
			Amount: amount,
			Logo:   "🏢",
			Name:   item.ItemName,
		})
	}
	if len(detail.Sponsors) == 0 {
		detail.Sponsors = append(detail.Sponsors, placeholderSponsors...)
	}
	return detail
}

func eventPayload(e *domain.Event) events.EventChangedPayload {
	return events.EventChangedPayload{Title: e.Title, CoordinatorID: e.CoordinatorID, Status: string(e.Status)}
}
