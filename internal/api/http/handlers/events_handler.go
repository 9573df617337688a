package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-aura/backend/internal/api/dto"
	"github.com/campus-aura/backend/internal/service"
)

const (
	defaultLandingLimit = 10
	defaultLatestLimit  = 3
)

// EventsHandler exposes coordinator event management and the public event listings.
type EventsHandler struct {
	events *service.EventService
}

// NewEventsHandler constructs handler.
func NewEventsHandler(events *service.EventService) *EventsHandler {
	return &EventsHandler{events: events}
}

// Create handles POST /api/events.
func (h *EventsHandler) Create(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.EventRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	event, err := h.events.CreateEvent(c.UserContext(), principal.SubjectID, eventInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": eventResponse(event)})
}

// List handles GET /api/events?status= and returns the caller's events.
func (h *EventsHandler) List(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	list, err := h.events.ListByCoordinator(c.UserContext(), principal.SubjectID, c.Query("status"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": eventList(list)})
}

// MyEvents handles GET /api/events/my-events.
func (h *EventsHandler) MyEvents(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	list, err := h.events.ListByCoordinator(c.UserContext(), principal.SubjectID, "")
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": eventList(list)})
}

// Get handles GET /api/events/:id.
func (h *EventsHandler) Get(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	event, err := h.events.GetOwnedEvent(c.UserContext(), c.Params("id"), principal.Actor())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": eventResponse(event)})
}

// Update handles PUT /api/events/:id.
func (h *EventsHandler) Update(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.EventRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	event, err := h.events.UpdateEvent(c.UserContext(), c.Params("id"), principal.Actor(), eventInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": eventResponse(event)})
}

// Delete handles DELETE /api/events/:id.
func (h *EventsHandler) Delete(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	if err := h.events.DeleteEvent(c.UserContext(), c.Params("id"), principal.Actor()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateStatus handles PATCH /api/events/:id/status.
func (h *EventsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.StatusUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	event, err := h.events.SetStatus(c.UserContext(), c.Params("id"), principal.Actor(), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": eventResponse(event)})
}

// Public handles GET /api/events/public?category=&sortBy=. sortBy defaults to upcoming.
func (h *EventsHandler) Public(c *fiber.Ctx) error {
	list, err := h.events.PublicEvents(c.UserContext(), c.Query("category"), c.Query("sortBy", service.SortUpcoming))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": landingEvents(list)})
}

// PublicLatest handles GET /api/events/public/latest?limit=.
func (h *EventsHandler) PublicLatest(c *fiber.Ctx) error {
	list, err := h.events.LatestEvents(c.UserContext(), parseInt(c.Query("limit"), defaultLatestLimit))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": landingEvents(list)})
}

// PublicDetail handles GET /api/events/public/:id.
func (h *EventsHandler) PublicDetail(c *fiber.Ctx) error {
	detail, err := h.events.EventDetail(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": eventDetailResponse(detail)})
}

// LandingPage handles GET /api/events/landing-page?limit=.
func (h *EventsHandler) LandingPage(c *fiber.Ctx) error {
	list, err := h.events.RandomOngoingEvents(c.UserContext(), parseInt(c.Query("limit"), defaultLandingLimit))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": landingEvents(list)})
}

// Latest handles GET /api/events/latest.
func (h *EventsHandler) Latest(c *fiber.Ctx) error {
	list, err := h.events.LatestEvents(c.UserContext(), defaultLatestLimit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": landingEvents(list)})
}
