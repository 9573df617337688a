package repository

import (
	"context"
	"strings"
	"time"

	"github.com/campus-aura/backend/internal/docstore"
	"github.com/campus-aura/backend/internal/domain"
)

// EventsCollection is the document collection holding events.
const EventsCollection = "events"

// EventRepository encapsulates event persistence.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	Update(ctx context.Context, event *domain.Event) error
	UpdateStatus(ctx context.Context, id string, status domain.EventStatus, at time.Time) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q docstore.Query) ([]*domain.Event, error)
	ListByStatuses(ctx context.Context, statuses ...domain.EventStatus) ([]*domain.Event, error)
	Count(ctx context.Context, filters ...docstore.Filter) (int64, error)
	CountByStatus(ctx context.Context, status domain.EventStatus) (int64, error)
}

type eventRecord struct {
	SchemaVersion        int                    `json:"schemaVersion,omitempty"`
	EventID              string                 `json:"eventId"`
	CoordinatorID        string                 `json:"coordinatorId"`
	Title                string                 `json:"title"`
	Venue                string                 `json:"venue"`
	DateTime             string                 `json:"dateTime"`
	Description          string                 `json:"description"`
	OrganizingDepartment string                 `json:"organizingDepartment"`
	Category             string                 `json:"category,omitempty"`
	Status               string                 `json:"status"`
	TicketsAvailable     *bool                  `json:"ticketsAvailable,omitempty"`
	TicketCategories     []ticketCategoryRecord `json:"ticketCategories"`
	PastEventDetails     []pastEventRecord      `json:"pastEventDetails"`
	EventImageURLs       []string               `json:"eventImageUrls"`
	SellItems            []sellItemRecord       `json:"sellItems"`
	AttendeeCount        *flexInt               `json:"attendeeCount,omitempty"`
	Schedule             []scheduleRecord       `json:"schedule"`
	AccountDetails       *accountDetailsRecord  `json:"accountDetails,omitempty"`
	CreatedAt            *stamp                 `json:"createdAt,omitempty"`
	UpdatedAt            *stamp                 `json:"updatedAt,omitempty"`
}

type ticketCategoryRecord struct {
	CategoryName   string   `json:"categoryName"`
	Price          *float64 `json:"price"`
	AvailableCount *flexInt `json:"availableCount"`
}

type pastEventRecord struct {
	EventID     string   `json:"eventId,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	ImageURLs   []string `json:"imageUrls"`
	Outcome     string   `json:"outcome,omitempty"`
}

type sellItemRecord struct {
	ItemName    string   `json:"itemName"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	ImageURLs   []string `json:"imageUrls"`
}

type scheduleRecord struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Time     string `json:"time"`
	Duration string `json:"duration"`
}

type accountDetailsRecord struct {
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Role          string `json:"role"`
}

type eventRepository struct {
	coll collection[domain.Event, eventRecord]
}

// NewEventRepository returns a document-store backed implementation.
func NewEventRepository(store docstore.Store) EventRepository {
	return &eventRepository{coll: collection[domain.Event, eventRecord]{
		store:    store,
		name:     EventsCollection,
		toRecord: eventToRecord,
		toDomain: eventFromRecord,
	}}
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	return r.coll.create(ctx, event.ID, event)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	return r.coll.get(ctx, id)
}

func (r *eventRepository) Update(ctx context.Context, event *domain.Event) error {
	return r.coll.merge(ctx, event.ID, event)
}

func (r *eventRepository) UpdateStatus(ctx context.Context, id string, status domain.EventStatus, at time.Time) error {
	return r.coll.patch(ctx, id, map[string]any{
		"status":    string(status),
		"updatedAt": newStamp(at),
	})
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	return r.coll.delete(ctx, id)
}

func (r *eventRepository) List(ctx context.Context, q docstore.Query) ([]*domain.Event, error) {
	return r.coll.find(ctx, q)
}

func (r *eventRepository) ListByStatuses(ctx context.Context, statuses ...domain.EventStatus) ([]*domain.Event, error) {
	values := make([]string, 0, len(statuses)*2)
	for _, s := range statuses {
		values = append(values, string(s), strings.ToLower(string(s)))
	}
	return r.coll.find(ctx, docstore.Query{Filters: []docstore.Filter{docstore.In("status", values...)}})
}

func (r *eventRepository) Count(ctx context.Context, filters ...docstore.Filter) (int64, error) {
	return r.coll.count(ctx, filters...)
}

func (r *eventRepository) CountByStatus(ctx context.Context, status domain.EventStatus) (int64, error) {
	return r.coll.count(ctx, statusValues(string(status)))
}

func eventToRecord(e *domain.Event) *eventRecord {
	rec := &eventRecord{
		SchemaVersion:        SchemaVersion,
		EventID:              e.ID,
		CoordinatorID:        e.CoordinatorID,
		Title:                e.Title,
		Venue:                e.Venue,
		DateTime:             e.DateTime,
		Description:          e.Description,
		OrganizingDepartment: e.OrganizingDepartment,
		Category:             e.Category,
		Status:               string(e.Status),
		TicketsAvailable:     boolPtr(e.TicketsAvailable),
		EventImageURLs:       e.EventImageURLs,
		CreatedAt:            newStamp(e.CreatedAt),
		UpdatedAt:            newStamp(e.UpdatedAt),
	}
	count := flexInt(e.AttendeeCount)
	rec.AttendeeCount = &count

	for _, tc := range e.TicketCategories {
		r := ticketCategoryRecord{CategoryName: tc.CategoryName, Price: tc.Price}
		if tc.AvailableCount != nil {
			n := flexInt(*tc.AvailableCount)
			r.AvailableCount = &n
		}
		rec.TicketCategories = append(rec.TicketCategories, r)
	}
	for _, p := range e.PastEventDetails {
		rec.PastEventDetails = append(rec.PastEventDetails, pastEventRecord(p))
	}
	for _, s := range e.SellItems {
		rec.SellItems = append(rec.SellItems, sellItemRecord(s))
	}
	for _, s := range e.Schedule {
		rec.Schedule = append(rec.Schedule, scheduleRecord(s))
	}
	if e.AccountDetails != nil {
		ad := accountDetailsRecord(*e.AccountDetails)
		rec.AccountDetails = &ad
	}
	return rec
}

func eventFromRecord(id string, r *eventRecord, _ *docstore.Document) *domain.Event {
	e := &domain.Event{
		ID:                   firstNonEmpty(id, r.EventID),
		CoordinatorID:        r.CoordinatorID,
		Title:                r.Title,
		Venue:                r.Venue,
		DateTime:             r.DateTime,
		Description:          r.Description,
		OrganizingDepartment: r.OrganizingDepartment,
		Category:             r.Category,
		Status:               normalizeEventStatus(r.Status),
		TicketsAvailable:     boolOr(r.TicketsAvailable, false),
		EventImageURLs:       r.EventImageURLs,
		CreatedAt:            r.CreatedAt.value(),
		UpdatedAt:            r.UpdatedAt.value(),
	}
	if r.AttendeeCount != nil {
		e.AttendeeCount = int(*r.AttendeeCount)
	}
	for _, tc := range r.TicketCategories {
		c := domain.TicketCategory{CategoryName: tc.CategoryName, Price: tc.Price}
		if tc.AvailableCount != nil {
			n := int(*tc.AvailableCount)
			c.AvailableCount = &n
		}
		e.TicketCategories = append(e.TicketCategories, c)
	}
	for _, p := range r.PastEventDetails {
		e.PastEventDetails = append(e.PastEventDetails, domain.PastEventDetail(p))
	}
	for _, s := range r.SellItems {
		e.SellItems = append(e.SellItems, domain.SellItem(s))
	}
	for _, s := range r.Schedule {
		e.Schedule = append(e.Schedule, domain.ScheduleItem(s))
	}
	if r.AccountDetails != nil {
		ad := domain.AccountDetails(*r.AccountDetails)
		e.AccountDetails = &ad
	}
	return e
}

// normalizeEventStatus upper-cases known statuses and keeps unknown legacy
// values verbatim.
func normalizeEventStatus(raw string) domain.EventStatus {
	if raw == "" {
		return domain.EventStatusDraft
	}
	if status, ok := domain.ParseEventStatus(raw); ok {
		return status
	}
	return domain.EventStatus(raw)
}
