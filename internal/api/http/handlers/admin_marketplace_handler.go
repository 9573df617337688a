package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-aura/backend/internal/api/dto"
	"github.com/campus-aura/backend/internal/domain"
	"github.com/campus-aura/backend/internal/service"
)

// ListUsers handles GET /api/admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.users.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userList(users)})
}

// ListStudents handles GET /api/admin/users/university-students.
func (h *AdminHandler) ListStudents(c *fiber.Ctx) error {
	return h.listUsersByType(c, domain.UserTypeStudent)
}

// ListExternalUsers handles GET /api/admin/users/external-users.
func (h *AdminHandler) ListExternalUsers(c *fiber.Ctx) error {
	return h.listUsersByType(c, domain.UserTypeExternal)
}

func (h *AdminHandler) listUsersByType(c *fiber.Ctx, userType domain.UserType) error {
	users, err := h.users.ListByType(c.UserContext(), userType)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userList(users)})
}

// PendingVerification handles GET /api/admin/users/pending-verification.
func (h *AdminHandler) PendingVerification(c *fiber.Ctx) error {
	users, err := h.users.ListPendingVerification(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userList(users)})
}

// UserStats handles GET /api/admin/users/stats.
func (h *AdminHandler) UserStats(c *fiber.Ctx) error {
	stats, err := h.users.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.UserStatsResponse(*stats)})
}

// SetUserStatus handles PATCH /api/admin/users/:id/status.
func (h *AdminHandler) SetUserStatus(c *fiber.Ctx) error {
	active, err := parseActive(c)
	if err != nil {
		return err
	}

	user, err := h.users.SetActive(c.UserContext(), c.Params("id"), active)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// SetUserVerification handles PATCH /api/admin/users/:id/verify.
func (h *AdminHandler) SetUserVerification(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.VerificationStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.users.SetVerification(c.UserContext(), c.Params("id"), req.Status, principal.SubjectID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// DeleteUser handles DELETE /api/admin/users/:id.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.users.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListProducts handles GET /api/admin/products?status=.
func (h *AdminHandler) ListProducts(c *fiber.Ctx) error {
	list, err := h.products.List(c.UserContext(), c.Query("status"))
	if err != nil {
		return err
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, productResponse(p))
	}
	return c.JSON(fiber.Map{"data": out})
}

// GetProduct handles GET /api/admin/products/:id.
func (h *AdminHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.products.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": productResponse(product)})
}

// DeleteProduct handles DELETE /api/admin/products/:id.
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	if err := h.products.SoftDelete(c.UserContext(), c.Params("id"), principal.SubjectID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ApproveProduct handles POST /api/admin/products/:id/approve.
func (h *AdminHandler) ApproveProduct(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	product, err := h.products.Approve(c.UserContext(), c.Params("id"), principal.SubjectID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": productResponse(product)})
}

// DisableProduct handles POST /api/admin/products/:id/disable.
func (h *AdminHandler) DisableProduct(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	product, err := h.products.Disable(c.UserContext(), c.Params("id"), principal.SubjectID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": productResponse(product)})
}

// PendingProductCount handles GET /api/admin/products/pending/count.
func (h *AdminHandler) PendingProductCount(c *fiber.Ctx) error {
	count, err := h.products.CountByStatus(c.UserContext(), domain.ProductStatusPending)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.CountResponse{Count: count}})
}

// PaymentStats handles GET /api/admin/payments/stats.
func (h *AdminHandler) PaymentStats(c *fiber.Ctx) error {
	stats, err := h.transactions.PaymentStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.PaymentStatsResponse{
		TicketRevenue:      stats.TicketRevenue,
		MarketplaceRevenue: stats.MarketplaceRevenue,
		TotalRevenue:       stats.TotalRevenue,
		RecentTransactions: transactionList(stats.RecentTransactions),
	}})
}

// Transactions handles GET /api/admin/payments/transactions.
func (h *AdminHandler) Transactions(c *fiber.Ctx) error {
	list, err := h.transactions.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": transactionList(list)})
}

// RecentTransactions handles GET /api/admin/payments/transactions/recent?limit=.
func (h *AdminHandler) RecentTransactions(c *fiber.Ctx) error {
	list, err := h.transactions.Recent(c.UserContext(), parseInt(c.Query("limit"), service.DefaultRecentTransactions))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": transactionList(list)})
}
