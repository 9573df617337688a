package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-aura/backend/internal/api/dto"
	"github.com/campus-aura/backend/internal/domain"
	"github.com/campus-aura/backend/internal/service"
	apperrors "github.com/campus-aura/backend/pkg/util/errorutil"
)

const defaultTopCoordinators = 5

// AdminHandler serves everything under /api/admin.
type AdminHandler struct {
	dashboard    *service.DashboardService
	coordinators *service.CoordinatorService
	events       *service.EventService
	users        *service.UserAdminService
	products     *service.ProductService
	transactions *service.TransactionService
}

// AdminDependencies bundles the services behind the admin surface.
type AdminDependencies struct {
	Dashboard    *service.DashboardService
	Coordinators *service.CoordinatorService
	Events       *service.EventService
	Users        *service.UserAdminService
	Products     *service.ProductService
	Transactions *service.TransactionService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(deps AdminDependencies) *AdminHandler {
	return &AdminHandler{
		dashboard:    deps.Dashboard,
		coordinators: deps.Coordinators,
		events:       deps.Events,
		users:        deps.Users,
		products:     deps.Products,
		transactions: deps.Transactions,
	}
}

// DashboardStats handles GET /api/admin/dashboard/stats.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	stats, err := h.dashboard.Stats(c.UserContext())
	if err != nil {
		return err
	}

	resp := dto.DashboardStatsResponse{
		TotalEvents:     stats.TotalEvents,
		TotalUsers:      stats.TotalUsers,
		TotalProducts:   stats.TotalProducts,
		ProductsSold:    stats.ProductsSold,
		PendingEvents:   stats.PendingEvents,
		PendingProducts: stats.PendingProducts,
		RecentEvents:    eventList(stats.RecentEvents),
		TopCoordinators: topCoordinators(stats.TopCoordinators),
	}
	return c.JSON(fiber.Map{"data": resp})
}

// TopCoordinators handles GET /api/admin/dashboard/top-coordinators?limit=.
func (h *AdminHandler) TopCoordinators(c *fiber.Ctx) error {
	top, err := h.dashboard.TopCoordinators(c.UserContext(), parseInt(c.Query("limit"), defaultTopCoordinators))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": topCoordinators(top)})
}

func topCoordinators(list []domain.TopCoordinator) []dto.TopCoordinatorResponse {
	out := make([]dto.TopCoordinatorResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.TopCoordinatorResponse(t))
	}
	return out
}

// CreateCoordinator handles POST /api/admin/coordinators.
func (h *AdminHandler) CreateCoordinator(c *fiber.Ctx) error {
	var req dto.CoordinatorRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	coordinator, err := h.coordinators.Register(c.UserContext(), coordinatorInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": coordinatorResponse(coordinator)})
}

// ListCoordinators handles GET /api/admin/coordinators.
func (h *AdminHandler) ListCoordinators(c *fiber.Ctx) error {
	list, err := h.coordinators.List(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.CoordinatorResponse, 0, len(list))
	for _, coordinator := range list {
		out = append(out, coordinatorResponse(coordinator))
	}
	return c.JSON(fiber.Map{"data": out})
}

// GetCoordinator handles GET /api/admin/coordinators/:id.
func (h *AdminHandler) GetCoordinator(c *fiber.Ctx) error {
	coordinator, err := h.coordinators.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": coordinatorResponse(coordinator)})
}

// UpdateCoordinator handles PUT /api/admin/coordinators/:id.
func (h *AdminHandler) UpdateCoordinator(c *fiber.Ctx) error {
	var req dto.CoordinatorRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	coordinator, err := h.coordinators.Update(c.UserContext(), c.Params("id"), coordinatorInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": coordinatorResponse(coordinator)})
}

// SetCoordinatorStatus handles PATCH /api/admin/coordinators/:id/status.
func (h *AdminHandler) SetCoordinatorStatus(c *fiber.Ctx) error {
	active, err := parseActive(c)
	if err != nil {
		return err
	}

	coordinator, err := h.coordinators.SetActive(c.UserContext(), c.Params("id"), active)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": coordinatorResponse(coordinator)})
}

// DeleteCoordinator handles DELETE /api/admin/coordinators/:id.
func (h *AdminHandler) DeleteCoordinator(c *fiber.Ctx) error {
	if err := h.coordinators.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DegreeProgrammes handles GET /api/admin/coordinators/degree-programmes.
func (h *AdminHandler) DegreeProgrammes(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.coordinators.DegreeProgrammes()})
}

// Departments handles GET /api/admin/coordinators/departments.
func (h *AdminHandler) Departments(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.coordinators.Departments()})
}

// ListEvents handles GET /api/admin/events.
func (h *AdminHandler) ListEvents(c *fiber.Ctx) error {
	list, err := h.events.AdminEvents(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.AdminEventResponse, 0, len(list))
	for _, e := range list {
		out = append(out, adminEventResponse(e))
	}
	return c.JSON(fiber.Map{"data": out})
}

// GetEvent handles GET /api/admin/events/:id.
func (h *AdminHandler) GetEvent(c *fiber.Ctx) error {
	event, err := h.events.AdminEvent(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": adminEventResponse(*event)})
}

// DeleteEvent handles DELETE /api/admin/events/:id.
func (h *AdminHandler) DeleteEvent(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	if err := h.events.DeleteEvent(c.UserContext(), c.Params("id"), principal.Actor()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// FilterEvents handles GET /api/admin/events/filter?category=&status=&department=.
func (h *AdminHandler) FilterEvents(c *fiber.Ctx) error {
	list, err := h.events.FilterEvents(c.UserContext(), service.EventFilter{
		Category:   c.Query("category"),
		Status:     c.Query("status"),
		Department: c.Query("department"),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": eventList(list)})
}

// ApproveEvent handles POST /api/admin/events/:id/approve.
func (h *AdminHandler) ApproveEvent(c *fiber.Ctx) error {
	return h.setEventStatus(c, string(domain.EventStatusApproved))
}

// RejectEvent handles POST /api/admin/events/:id/reject.
func (h *AdminHandler) RejectEvent(c *fiber.Ctx) error {
	return h.setEventStatus(c, string(domain.EventStatusRejected))
}

// SetEventStatus handles PATCH /api/admin/events/:id/status.
func (h *AdminHandler) SetEventStatus(c *fiber.Ctx) error {
	var req dto.StatusUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	return h.setEventStatus(c, req.Status)
}

func (h *AdminHandler) setEventStatus(c *fiber.Ctx, status string) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	event, err := h.events.SetStatus(c.UserContext(), c.Params("id"), principal.Actor(), status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": eventResponse(event)})
}

// PendingEventCount handles GET /api/admin/events/pending/count.
func (h *AdminHandler) PendingEventCount(c *fiber.Ctx) error {
	count, err := h.events.CountByStatus(c.UserContext(), domain.EventStatusPending)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.CountResponse{Count: count}})
}

func parseActive(c *fiber.Ctx) (bool, error) {
	var req dto.ActiveRequest
	if err := parseBody(c, &req); err != nil {
		return false, err
	}
	if req.Active == nil {
		return false, apperrors.NewValidationError("active is required", map[string]any{"missing": []string{"active"}})
	}
	return *req.Active, nil
}
