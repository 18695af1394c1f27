package handler

import (
	"errors"

	"github.com/adinaninacerdine/sgg-project/internal/authz"
	"github.com/adinaninacerdine/sgg-project/internal/middleware"
	"github.com/adinaninacerdine/sgg-project/internal/repository"
	"github.com/adinaninacerdine/sgg-project/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PermissionHandler struct {
	service      service.PermissionService
	authorizer   authz.Authorizer
	ministryRepo repository.MinistryRepository
}

func NewPermissionHandler(s service.PermissionService, az authz.Authorizer, ministryRepo repository.MinistryRepository) *PermissionHandler {
	return &PermissionHandler{service: s, authorizer: az, ministryRepo: ministryRepo}
}

// GetUserPermissions returns the full ministry directory merged with the
// target user's rows. Callers may read their own permissions; reading
// someone else's requires administrator rights.
func (h *PermissionHandler) GetUserPermissions(c *fiber.Ctx) error {
	targetID, err := parseUserParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	if targetID != userID(c) && !middleware.Identity(c).IsAdmin() {
		return c.Status(403).JSON(fiber.Map{"error": "administrator rights required"})
	}

	resp, err := h.service.GetUserPermissions(targetID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(resp)
}

func (h *PermissionHandler) GetAllUsersPermissions(c *fiber.Ctx) error {
	users, err := h.service.GetAllUsersPermissions()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(users)
}

func (h *PermissionHandler) Assign(c *fiber.Ctx) error {
	var req service.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.UserID == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "user_id is required"})
	}
	if req.MinistryID == 0 && !req.ApplyToAllMinistries {
		return c.Status(400).JSON(fiber.Map{"error": "ministry_id or apply_to_all_ministries is required"})
	}

	count, err := h.service.Assign(&req, userID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMinistryNotFound), errors.Is(err, service.ErrUserNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.JSON(fiber.Map{"message": "Permissions assigned", "assigned": count})
}

func (h *PermissionHandler) Revoke(c *fiber.Ctx) error {
	var req service.RevokeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.UserID == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "user_id is required"})
	}
	if req.MinistryID == 0 && !req.RevokeAll {
		return c.Status(400).JSON(fiber.Map{"error": "ministry_id or revoke_all is required"})
	}

	count, err := h.service.Revoke(&req)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{"message": "Permissions revoked", "revoked": count})
}

func (h *PermissionHandler) ApplyGroup(c *fiber.Ctx) error {
	var req service.ApplyGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.UserID == 0 || req.GroupName == "" {
		return c.Status(400).JSON(fiber.Map{"error": "user_id and group_name are required"})
	}
	if len(req.MinistryIDs) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "ministry_ids must not be empty"})
	}

	count, err := h.service.ApplyGroup(&req, userID(c))
	if err != nil {
		if errors.Is(err, service.ErrGroupNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.JSON(fiber.Map{"message": "Group applied", "assigned": count})
}

// Check answers capability queries from the client UI. A missing parameter
// is reported as 400, not as a denial.
func (h *PermissionHandler) Check(c *fiber.Ctx) error {
	ministryRef := c.Query("ministry_id")
	if ministryRef == "" {
		ministryRef = c.Query("ministry")
	}
	capability := c.Query("permission")
	if ministryRef == "" || capability == "" {
		return c.Status(400).JSON(fiber.Map{"error": "ministry_id and permission query parameters are required"})
	}

	ministry, err := h.ministryRepo.Resolve(ministryRef)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "ministry not found"})
	}

	allowed, err := h.authorizer.HasCapability(middleware.Identity(c), ministry.ID, capability)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.JSON(fiber.Map{
		"has_permission": allowed,
		"ministry":       ministry.Name,
		"permission":     capability,
	})
}

func (h *PermissionHandler) Groups(c *fiber.Ctx) error {
	groups, err := h.service.Groups()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(groups)
}

func (h *PermissionHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.service.Summary()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(summary)
}

func (h *PermissionHandler) CreateUserWithPermissions(c *fiber.Ctx) error {
	var req service.CreateUserWithPermissionsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user, err := h.service.CreateUserWithPermissions(&req, userID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailExists):
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrMinistryNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "User created", "user": user.ToResponse()})
}

// GetUserPermissionRows serves the compact row-list shape used by the
// legacy client endpoints.
func (h *PermissionHandler) GetUserPermissionRows(c *fiber.Ctx) error {
	targetID, err := parseUserParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	if targetID != userID(c) && !middleware.Identity(c).IsAdmin() {
		return c.Status(403).JSON(fiber.Map{"error": "administrator rights required"})
	}

	rows, err := h.service.GetUserPermissionRows(targetID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(rows)
}

// BulkReplace swaps out a user's entire permission set in one transaction.
func (h *PermissionHandler) BulkReplace(c *fiber.Ctx) error {
	targetID, err := parseUserParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var req struct {
		Permissions []service.MinistryPermissionEntry `json:"permissions"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	return h.bulkReplace(c, targetID, req.Permissions)
}

// BulkReplaceBody is the body-addressed form of BulkReplace, kept for the
// older client that posts {user_id, permissions}.
func (h *PermissionHandler) BulkReplaceBody(c *fiber.Ctx) error {
	var req struct {
		UserID      uint                              `json:"user_id"`
		Permissions []service.MinistryPermissionEntry `json:"permissions"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.UserID == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "user_id is required"})
	}

	return h.bulkReplace(c, req.UserID, req.Permissions)
}

func (h *PermissionHandler) bulkReplace(c *fiber.Ctx, targetID uint, entries []service.MinistryPermissionEntry) error {
	rows, err := h.service.BulkReplace(targetID, entries, userID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.JSON(fiber.Map{"message": "Permissions replaced", "permissions": rows})
}
