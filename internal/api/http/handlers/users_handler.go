package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-aura/backend/internal/api/dto"
	"github.com/campus-aura/backend/internal/service"
	apperrors "github.com/campus-aura/backend/pkg/util/errorutil"
)

const studentIDFormField = "file"

// UsersHandler exposes registration and self-service profile endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// RegisterStudent handles POST /api/public/users/register/student.
func (h *UsersHandler) RegisterStudent(c *fiber.Ctx) error {
	var req dto.StudentRegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.users.RegisterStudent(c.UserContext(), service.StudentRegistration(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": userResponse(user)})
}

// RegisterExternal handles POST /api/public/users/register/external.
func (h *UsersHandler) RegisterExternal(c *fiber.Ctx) error {
	var req dto.ExternalRegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.users.RegisterExternal(c.UserContext(), service.ExternalRegistration(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": userResponse(user)})
}

// Profile handles GET /api/users/profile.
func (h *UsersHandler) Profile(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	user, err := h.users.GetUser(c.UserContext(), principal.SubjectID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// UpdateProfile handles PUT /api/users/profile.
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.ProfileUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.users.UpdateProfile(c.UserContext(), principal.SubjectID, service.ProfileUpdate(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// DeactivateProfile handles DELETE /api/users/profile.
func (h *UsersHandler) DeactivateProfile(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	if err := h.users.DeactivateSelf(c.UserContext(), principal.SubjectID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadStudentID handles POST /api/users/profile/student-id (multipart field "file").
func (h *UsersHandler) UploadStudentID(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	header, err := c.FormFile(studentIDFormField)
	if err != nil {
		return apperrors.NewValidationError("student ID image required", map[string]any{"field": studentIDFormField})
	}
	if header.Size > service.MaxStudentIDImageBytes {
		return apperrors.NewValidationError("student ID image too large", map[string]any{"maxBytes": service.MaxStudentIDImageBytes})
	}

	file, err := header.Open()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	user, err := h.users.UploadStudentID(c.UserContext(), principal.SubjectID, header.Filename, content)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// GetUser handles GET /api/users/:uid for the owner or an administrator.
func (h *UsersHandler) GetUser(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	uid := c.Params("uid")
	if uid != principal.SubjectID && !principal.IsAdmin() {
		return apperrors.NewForbidden("cannot read another user's profile")
	}

	user, err := h.users.GetUser(c.UserContext(), uid)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// UnverifiedStudents handles GET /api/users/students/unverified.
func (h *UsersHandler) UnverifiedStudents(c *fiber.Ctx) error {
	users, err := h.users.ListUnverifiedStudents(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userList(users)})
}

// VerifyStudent handles PATCH /api/users/students/:uid/verify.
func (h *UsersHandler) VerifyStudent(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.VerifyStudentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Verified == nil {
		return apperrors.NewValidationError("verified is required", map[string]any{"missing": []string{"verified"}})
	}

	user, err := h.users.VerifyStudent(c.UserContext(), c.Params("uid"), *req.Verified, principal.SubjectID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}
