package handler

import (
	"github.com/adinaninacerdine/sgg-project/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type MinistryHandler struct {
	repo repository.MinistryRepository
}

func NewMinistryHandler(repo repository.MinistryRepository) *MinistryHandler {
	return &MinistryHandler{repo: repo}
}

func (h *MinistryHandler) List(c *fiber.Ctx) error {
	ministries, err := h.repo.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(ministries)
}

func (h *MinistryHandler) Get(c *fiber.Ctx) error {
	ministry, err := h.repo.Resolve(c.Params("id"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "ministry not found"})
	}
	return c.JSON(ministry)
}
