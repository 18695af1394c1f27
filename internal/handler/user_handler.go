package handler

import (
	"errors"
	"strconv"

	"github.com/adinaninacerdine/sgg-project/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

func mapUserError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrOwnAccount), errors.Is(err, service.ErrLastAdmin),
		errors.Is(err, service.ErrAlreadyActive), errors.Is(err, service.ErrInvalidRole):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(404).JSON(fiber.Map{"error": "user not found"})
}

func (h *UserHandler) GetAll(c *fiber.Ctx) error {
	users, err := h.service.GetAllUsers()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(users)
}

func (h *UserHandler) GetPending(c *fiber.Ctx) error {
	resp, err := h.service.GetPending()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(resp)
}

func (h *UserHandler) Activate(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	user, err := h.service.Activate(id, userID(c))
	if err != nil {
		return mapUserError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User activated", "user": user.ToResponse()})
}

func (h *UserHandler) Deactivate(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	user, err := h.service.Deactivate(id, userID(c))
	if err != nil {
		return mapUserError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deactivated", "user": user.ToResponse()})
}

func (h *UserHandler) ChangeRole(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user, err := h.service.ChangeRole(id, req.Role, userID(c))
	if err != nil {
		return mapUserError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Role updated", "user": user.ToResponse()})
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	user, err := h.service.DeleteUser(id, userID(c))
	if err != nil {
		return mapUserError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted", "deleted": user.ToResponse()})
}

func (h *UserHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.GetStats()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(stats)
}

// parseUserParam reads the :userId route parameter used by the permission
// endpoints.
func parseUserParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("userId"), 10, 32)
	return uint(id), err
}
