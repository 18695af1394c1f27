package middleware

import (
	"encoding/json"
	"log"
	"strconv"

	"github.com/adinaninacerdine/sgg-project/internal/model"
	"github.com/adinaninacerdine/sgg-project/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// AuditAction appends one history row after the wrapped handler produced a
// success response. The entity id is taken from the route first, then from
// the response payload (create returns the new id there). Append failures
// are logged and swallowed; they never block or alter the client response.
func AuditAction(historyRepo repository.HistoryRepository, actionType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}

		if c.Response().StatusCode() >= 400 {
			return nil
		}

		actionID := resolveEntityID(c)
		if actionID == 0 {
			return nil
		}

		snapshot := model.ChangeSnapshot{
			Method: c.Method(),
			Path:   c.Path(),
			Query:  c.Queries(),
		}
		if body := c.Body(); json.Valid(body) {
			snapshot.Body = json.RawMessage(body)
		}
		changes, err := json.Marshal(snapshot)
		if err != nil {
			log.Printf("audit: marshaling change snapshot: %v", err)
			return nil
		}

		entry := &model.ActionHistory{
			ActionID:   actionID,
			UserID:     Identity(c).UserID,
			ActionType: actionType,
			Changes:    changes,
		}
		if err := historyRepo.Append(entry); err != nil {
			log.Printf("audit: appending history for action %d: %v", actionID, err)
		}
		return nil
	}
}

// resolveEntityID finds the numeric id of the acted-upon action: the route
// param when numeric, otherwise the id in the response JSON ("id",
// "action.id" or "deleted.id").
func resolveEntityID(c *fiber.Ctx) uint {
	if ref := c.Params("id"); ref != "" {
		if id, err := strconv.ParseUint(ref, 10, 32); err == nil {
			return uint(id)
		}
	}

	var payload struct {
		ID     uint `json:"id"`
		Action struct {
			ID uint `json:"id"`
		} `json:"action"`
		Deleted struct {
			ID uint `json:"id"`
		} `json:"deleted"`
	}
	if err := json.Unmarshal(c.Response().Body(), &payload); err != nil {
		return 0
	}
	if payload.ID != 0 {
		return payload.ID
	}
	if payload.Action.ID != 0 {
		return payload.Action.ID
	}
	return payload.Deleted.ID
}
