package handler

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adinaninacerdine/sgg-project/internal/middleware"
	"github.com/adinaninacerdine/sgg-project/internal/model"
	"github.com/adinaninacerdine/sgg-project/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePermissionService struct {
	service.PermissionService
	revoked *service.RevokeRequest
}

func (f *fakePermissionService) Revoke(req *service.RevokeRequest) (int64, error) {
	f.revoked = req
	return 1, nil
}

// Revoke is wired as DELETE, matching the rest of the removal endpoints.
func newRevokeApp(svc service.PermissionService) *fiber.App {
	app := fiber.New()
	h := NewPermissionHandler(svc, nil, nil)
	app.Delete("/api/permissions/revoke", h.Revoke)
	return app
}

func TestRevokeAcceptsDeleteWithBody(t *testing.T) {
	svc := &fakePermissionService{}
	app := newRevokeApp(svc)

	req := httptest.NewRequest("DELETE", "/api/permissions/revoke",
		strings.NewReader(`{"user_id": 7, "ministry_id": 3}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, float64(1), out["revoked"])

	require.NotNil(t, svc.revoked)
	assert.Equal(t, uint(7), svc.revoked.UserID)
	assert.Equal(t, uint(3), svc.revoked.MinistryID)
}

func TestRevokeRejectsPost(t *testing.T) {
	app := newRevokeApp(&fakePermissionService{})

	req := httptest.NewRequest("POST", "/api/permissions/revoke",
		strings.NewReader(`{"user_id": 7, "ministry_id": 3}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 405, resp.StatusCode)
}

func (f *fakePermissionService) Groups() ([]model.PermissionGroup, error) {
	return []model.PermissionGroup{{Name: "lecture_seule"}}, nil
}

func TestGroupsListingIsAdminOnly(t *testing.T) {
	app := fiber.New()
	h := NewPermissionHandler(&fakePermissionService{}, nil, nil)
	app.Get("/api/permissions/groups", func(c *fiber.Ctx) error {
		c.Locals("user_role", "agent")
		return c.Next()
	}, middleware.RequireAdmin(), h.Groups)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/permissions/groups", nil))
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestGroupsListingForAdmin(t *testing.T) {
	app := fiber.New()
	h := NewPermissionHandler(&fakePermissionService{}, nil, nil)
	app.Get("/api/permissions/groups", func(c *fiber.Ctx) error {
		c.Locals("user_role", "admin")
		return c.Next()
	}, middleware.RequireAdmin(), h.Groups)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/permissions/groups", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestRevokeRequiresTarget(t *testing.T) {
	svc := &fakePermissionService{}
	app := newRevokeApp(svc)

	req := httptest.NewRequest("DELETE", "/api/permissions/revoke",
		strings.NewReader(`{"user_id": 7}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Nil(t, svc.revoked)
}
