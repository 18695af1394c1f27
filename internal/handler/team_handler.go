package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/adinaninacerdine/sgg-project/internal/service"

	"github.com/gofiber/fiber/v2"
)

type TeamHandler struct {
	service service.TeamService
}

func NewTeamHandler(s service.TeamService) *TeamHandler {
	return &TeamHandler{service: s}
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	return uint(id), err
}

func (h *TeamHandler) List(c *fiber.Ctx) error {
	members, err := h.service.List(c.Query("ministry"))
	if err != nil {
		if errors.Is(err, service.ErrMinistryNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(members)
}

func (h *TeamHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid member ID"})
	}

	member, err := h.service.Get(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(member)
}

func (h *TeamHandler) Create(c *fiber.Ctx) error {
	var req service.CreateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	member, err := h.service.Create(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMemberEmailExists):
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrMinistryNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Team member created", "member": member})
}

func (h *TeamHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid member ID"})
	}

	var req service.UpdateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	member, err := h.service.Update(id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMemberNotFound), errors.Is(err, service.ErrMinistryNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrMemberEmailExists):
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Team member updated", "member": member})
}

func (h *TeamHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid member ID"})
	}

	member, err := h.service.Delete(id)
	if err != nil {
		var hasActions *service.MemberHasActionsError
		switch {
		case errors.Is(err, service.ErrMemberNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case errors.As(err, &hasActions):
			return c.Status(400).JSON(fiber.Map{
				"error":         hasActions.Error(),
				"actions_count": hasActions.Count,
			})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.JSON(fiber.Map{"message": "Team member deleted", "deleted": member})
}

func (h *TeamHandler) Import(c *fiber.Ctx) error {
	var req struct {
		Members []service.CreateMemberRequest `json:"members"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.service.Import(req.Members)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

func (h *TeamHandler) Export(c *fiber.Ctx) error {
	data, err := h.service.ExportCSV(c.Query("ministry"))
	if err != nil {
		if errors.Is(err, service.ErrMinistryNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	filename := "team-" + time.Now().Format("2006-01-02") + ".csv"
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

func (h *TeamHandler) Performance(c *fiber.Ctx) error {
	stats, top, err := h.service.Performance()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{"performance": stats, "topPerformers": top})
}

func (h *TeamHandler) Responsibles(c *fiber.Ctx) error {
	responsibles, err := h.service.Responsibles()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(responsibles)
}
