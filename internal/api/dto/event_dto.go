package dto

import "time"

// EventRequest is the create/update payload for events.
type EventRequest struct {
	Title                string                   `json:"title"`
	Venue                string                   `json:"venue"`
	DateTime             string                   `json:"dateTime"`
	Description          string                   `json:"description"`
	OrganizingDepartment string                   `json:"organizingDepartment"`
	Category             *string                  `json:"category"`
	Status               *string                  `json:"status"`
	TicketsAvailable     bool                     `json:"ticketsAvailable"`
	TicketCategories     []TicketCategoryPayload  `json:"ticketCategories"`
	PastEventDetails     []PastEventDetailPayload `json:"pastEventDetails"`
	EventImageURLs       []string                 `json:"eventImageUrls"`
	SellItems            []SellItemPayload        `json:"sellItems"`
	Schedule             []ScheduleItemPayload    `json:"schedule"`
	AccountDetails       *AccountDetailsPayload   `json:"accountDetails"`
}

// StatusUpdateRequest carries a target status.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// TicketCategoryPayload is a priced ticket tier.
type TicketCategoryPayload struct {
	CategoryName   string   `json:"categoryName"`
	Price          *float64 `json:"price"`
	AvailableCount *int     `json:"availableCount"`
}

// PastEventDetailPayload describes a previous edition.
type PastEventDetailPayload struct {
	EventID     string   `json:"eventId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	ImageURLs   []string `json:"imageUrls"`
	Outcome     string   `json:"outcome"`
}

// SellItemPayload is merchandise offered at the event.
type SellItemPayload struct {
	ItemName    string   `json:"itemName"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	ImageURLs   []string `json:"imageUrls"`
}

// ScheduleItemPayload is a programme slot.
type ScheduleItemPayload struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Time     string `json:"time"`
	Duration string `json:"duration"`
}

// AccountDetailsPayload is the payout contact.
type AccountDetailsPayload struct {
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Role          string `json:"role"`
}

// EventResponse is the full event representation.
type EventResponse struct {
	ID                   string                   `json:"id"`
	CoordinatorID        string                   `json:"coordinatorId"`
	Title                string                   `json:"title"`
	Venue                string                   `json:"venue"`
	DateTime             string                   `json:"dateTime"`
	Description          string                   `json:"description"`
	OrganizingDepartment string                   `json:"organizingDepartment"`
	Category             string                   `json:"category"`
	Status               string                   `json:"status"`
	TicketsAvailable     bool                     `json:"ticketsAvailable"`
	TicketCategories     []TicketCategoryPayload  `json:"ticketCategories"`
	PastEventDetails     []PastEventDetailPayload `json:"pastEventDetails"`
	EventImageURLs       []string                 `json:"eventImageUrls"`
	SellItems            []SellItemPayload        `json:"sellItems"`
	AttendeeCount        int                      `json:"attendeeCount"`
	Schedule             []ScheduleItemPayload    `json:"schedule"`
	AccountDetails       *AccountDetailsPayload   `json:"accountDetails"`
	CreatedAt            *time.Time               `json:"createdAt"`
	UpdatedAt            *time.Time               `json:"updatedAt"`
}

// LandingEventResponse is the event card served to unauthenticated callers.
// It never carries payout details or the owning coordinator.
type LandingEventResponse struct {
	ID                   string   `json:"id"`
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	Venue                string   `json:"venue"`
	DateTime             string   `json:"dateTime"`
	EventImageURLs       []string `json:"eventImageUrls"`
	OrganizingDepartment string   `json:"organizingDepartment"`
	Category             string   `json:"category"`
	AttendeeCount        int      `json:"attendeeCount"`
}

// EventDetailResponse is the public detail page.
type EventDetailResponse struct {
	LandingEventResponse
	Status           string                  `json:"status"`
	TicketsAvailable bool                    `json:"ticketsAvailable"`
	TicketCategories []TicketCategoryPayload `json:"ticketCategories"`
	TotalSpots       int                     `json:"totalSpots"`
	AvailableSpots   int                     `json:"availableSpots"`
	Schedule         []DetailSlotResponse    `json:"schedule"`
	GalleryImages    []string                `json:"galleryImages"`
	Sponsors         []SponsorResponse       `json:"sponsors"`
}

// DetailSlotResponse is a time/label pair.
type DetailSlotResponse struct {
	Time  string `json:"time"`
	Event string `json:"event"`
}

// SponsorResponse is a sponsor card.
type SponsorResponse struct {
	Tier   string `json:"tier"`
	Amount string `json:"amount"`
	Logo   string `json:"logo"`
	Name   string `json:"name"`
}

// AdminEventResponse adds the coordinator's display name.
type AdminEventResponse struct {
	EventResponse
	CoordinatorName string `json:"coordinatorName"`
}

// CountResponse wraps a single counter.
type CountResponse struct {
	Count int64 `json:"count"`
}
