package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/adinaninacerdine/sgg-project/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHistoryRepo struct {
	entries []*model.ActionHistory
}

func (f *fakeHistoryRepo) Append(entry *model.ActionHistory) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeHistoryRepo) FindByAction(actionID uint) ([]model.ActionHistory, error) {
	return nil, nil
}

func TestAuditActionRecordsRouteID(t *testing.T) {
	repo := &fakeHistoryRepo{}
	app := fiber.New()
	app.Get("/actions/:id/view", AuditAction(repo, model.HistoryViewed), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"title": "Budget review"})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/actions/42/view", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.Equal(t, uint(42), entry.ActionID)
	assert.Equal(t, model.HistoryViewed, entry.ActionType)
	assert.Contains(t, string(entry.Changes), "/actions/42/view")
}

func TestAuditActionResolvesIDFromResponse(t *testing.T) {
	repo := &fakeHistoryRepo{}
	app := fiber.New()
	app.Post("/actions", AuditAction(repo, model.HistoryCreated), func(c *fiber.Ctx) error {
		return c.Status(201).JSON(fiber.Map{"action": fiber.Map{"id": 17}})
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/actions", nil))
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	require.Len(t, repo.entries, 1)
	assert.Equal(t, uint(17), repo.entries[0].ActionID)
}

func TestAuditActionSkipsFailures(t *testing.T) {
	repo := &fakeHistoryRepo{}
	app := fiber.New()
	app.Get("/actions/:id", AuditAction(repo, model.HistoryViewed), func(c *fiber.Ctx) error {
		return c.Status(404).JSON(fiber.Map{"error": "action not found"})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/actions/42", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
	assert.Empty(t, repo.entries)
}
