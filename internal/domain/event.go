package domain

import "time"

// EventStatus enumerates lifecycle states for events.
type EventStatus string

const (
	EventStatusDraft     EventStatus = "DRAFT"
	EventStatusPending   EventStatus = "PENDING"
	EventStatusApproved  EventStatus = "APPROVED"
	EventStatusRejected  EventStatus = "REJECTED"
	EventStatusPublished EventStatus = "PUBLISHED"
	EventStatusOngoing   EventStatus = "ONGOING"
)

var eventTransitions = transitions[EventStatus]{
	EventStatusDraft:     {EventStatusPending, EventStatusPublished},
	EventStatusPending:   {EventStatusApproved, EventStatusRejected, EventStatusDraft},
	EventStatusApproved:  {EventStatusPublished, EventStatusRejected},
	EventStatusPublished: {EventStatusOngoing, EventStatusDraft},
	EventStatusOngoing:   {EventStatusPublished},
	EventStatusRejected:  {EventStatusDraft, EventStatusPending},
}

// ParseEventStatus accepts any casing and reports whether the value is known.
func ParseEventStatus(s string) (EventStatus, bool) {
	status := EventStatus(normalizeEnum(s))
	_, ok := eventTransitions[status]
	return status, ok
}

// CanTransitionTo reports whether the lifecycle allows moving to next.
// Unknown stored statuses cannot move anywhere.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	return eventTransitions.allows(s, next)
}

// Listed reports whether the event appears in public listings.
func (s EventStatus) Listed() bool {
	return s == EventStatusPublished || s == EventStatusOngoing
}

// Event is the aggregate for campus events.
type Event struct {
	ID                   string
	CoordinatorID        string
	Title                string
	Venue                string
	DateTime             string
	Description          string
	OrganizingDepartment string
	Category             string
	Status               EventStatus
	TicketsAvailable     bool
	TicketCategories     []TicketCategory
	PastEventDetails     []PastEventDetail
	EventImageURLs       []string
	SellItems            []SellItem
	AttendeeCount        int
	Schedule             []ScheduleItem
	AccountDetails       *AccountDetails
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// TicketCategory is a priced ticket tier.
type TicketCategory struct {
	CategoryName   string
	Price          *float64
	AvailableCount *int
}

// PastEventDetail describes a previous edition of the event.
type PastEventDetail struct {
	EventID     string
	Title       string
	Description string
	Date        string
	ImageURLs   []string
	Outcome     string
}

// SellItem is merchandise or a sponsorship slot offered at the event.
type SellItem struct {
	ItemName    string
	Description string
	Price       *float64
	ImageURLs   []string
}

// ScheduleItem is one slot of the event programme.
type ScheduleItem struct {
	ID       string
	Title    string
	Time     string
	Duration string
}

// AccountDetails holds the payout contact for ticket sales.
type AccountDetails struct {
	AccountName   string
	AccountNumber string
	Email         string
	Phone         string
	Role          string
}

// EventDetail is the public detail page view of an event.
type EventDetail struct {
	Event          *Event
	TotalSpots     int
	AvailableSpots int
	Schedule       []DetailScheduleSlot
	GalleryImages  []string
	Sponsors       []Sponsor
}

// DetailScheduleSlot is a time/label pair on the detail page.
type DetailScheduleSlot struct {
	Time  string
	Event string
}

// Sponsor is a sponsor card on the detail page.
type Sponsor struct {
	Tier   string
	Amount string
	Logo   string
	Name   string
}

// AdminEvent is an event joined with its coordinator's display name.
type AdminEvent struct {
	Event           *Event
	CoordinatorName string
}
