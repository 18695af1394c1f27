package handler

import (
	"errors"
	"time"

	"github.com/adinaninacerdine/sgg-project/internal/middleware"
	"github.com/adinaninacerdine/sgg-project/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ActionHandler struct {
	service service.ActionService
}

func NewActionHandler(s service.ActionService) *ActionHandler {
	return &ActionHandler{service: s}
}

func (h *ActionHandler) List(c *fiber.Ctx) error {
	query := service.ListActionsQuery{
		Ministry:    c.Query("ministry"),
		Status:      c.Query("status"),
		Responsible: c.Query("responsible"),
	}

	actions, err := h.service.List(query, middleware.Decision(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(actions)
}

func (h *ActionHandler) Get(c *fiber.Ctx) error {
	action, err := h.service.Get(c.Params("id"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(action)
}

// View returns the action like Get does, on a separate route so the view
// lands in the audit trail.
func (h *ActionHandler) View(c *fiber.Ctx) error {
	return h.Get(c)
}

func (h *ActionHandler) GetHistory(c *fiber.Ctx) error {
	history, err := h.service.GetHistory(c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrActionNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(history)
}

func (h *ActionHandler) Create(c *fiber.Ctx) error {
	var req service.CreateActionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	action, err := h.service.Create(&req, userID(c), userName(c))
	if err != nil {
		if errors.Is(err, service.ErrMinistryNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Action created", "action": action.ToResponse()})
}

func (h *ActionHandler) Update(c *fiber.Ctx) error {
	var req service.UpdateActionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	action, err := h.service.Update(c.Params("id"), &req, userName(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrActionNotFound), errors.Is(err, service.ErrMinistryNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Action updated", "action": action.ToResponse()})
}

func (h *ActionHandler) Delete(c *fiber.Ctx) error {
	action, err := h.service.Delete(c.Params("id"), userName(c))
	if err != nil {
		if errors.Is(err, service.ErrActionNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{"message": "Action deleted", "deleted": action.ToResponse()})
}

func (h *ActionHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.service.Overview(middleware.Decision(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(overview)
}

func (h *ActionHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(stats)
}

func (h *ActionHandler) Export(c *fiber.Ctx) error {
	data, err := h.service.ExportCSV(middleware.Decision(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	filename := "actions-" + time.Now().Format("2006-01-02") + ".csv"
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
