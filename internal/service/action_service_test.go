package service

import (
	"strings"
	"testing"
	"time"

	"github.com/adinaninacerdine/sgg-project/internal/authz"
	"github.com/adinaninacerdine/sgg-project/internal/model"
	"github.com/adinaninacerdine/sgg-project/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeActionRepo struct {
	repository.ActionRepository
	created    *model.Action
	byRef      map[string]*model.Action
	rows       []model.Action
	lastFilter repository.ActionFilter
	updates    map[string]interface{}
}

func (f *fakeActionRepo) Create(action *model.Action) error {
	action.ID = 1
	f.created = action
	return nil
}

func (f *fakeActionRepo) FindByRef(ref string) (*model.Action, error) {
	if a, ok := f.byRef[ref]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeActionRepo) FindAll(filter repository.ActionFilter) ([]model.Action, error) {
	f.lastFilter = filter
	return f.rows, nil
}

func (f *fakeActionRepo) UpdateColumns(id uint, fields map[string]interface{}) (*model.Action, error) {
	f.updates = fields
	if a, ok := f.byRef["1"]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeMinistryRepo struct {
	repository.MinistryRepository
	ministries map[string]*model.Ministry
}

func (f *fakeMinistryRepo) Resolve(ref string) (*model.Ministry, error) {
	if m, ok := f.ministries[ref]; ok {
		return m, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newActionFixture() (*fakeActionRepo, ActionService) {
	finance := &model.Ministry{ID: 1, Name: "Finance"}
	actions := &fakeActionRepo{byRef: map[string]*model.Action{}}

	stored := &model.Action{
		MinistryID:  1,
		Ministry:    finance,
		Title:       "Budget review",
		Priority:    model.PriorityMedium,
		Status:      model.StatusNew,
		StartDate:   mustDate("2026-01-10"),
		EndDate:     mustDate("2026-02-10"),
		Responsible: "A. Dupont",
	}
	stored.ID = 1
	actions.byRef["1"] = stored

	svc := NewActionService(
		actions,
		&fakeMinistryRepo{ministries: map[string]*model.Ministry{"Finance": finance, "1": finance}},
		nil,
		nil, // no hub: broadcasts are skipped
	)
	return actions, svc
}

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func validCreateRequest() *CreateActionRequest {
	return &CreateActionRequest{
		Ministry:    "Finance",
		Title:       "Budget review",
		Responsible: "A. Dupont",
		Priority:    "high",
		Status:      "new",
		StartDate:   "2026-01-10",
		EndDate:     "2026-02-10",
	}
}

func TestCreateActionDateInvariant(t *testing.T) {
	_, svc := newActionFixture()

	req := validCreateRequest()
	req.StartDate = "2026-03-01"
	req.EndDate = "2026-02-01"

	_, err := svc.Create(req, 7, "Tester")
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestCreateActionBadDateFormat(t *testing.T) {
	_, svc := newActionFixture()

	req := validCreateRequest()
	req.StartDate = "01/10/2026"

	_, err := svc.Create(req, 7, "Tester")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start_date")
}

func TestCreateActionUnknownMinistry(t *testing.T) {
	_, svc := newActionFixture()

	req := validCreateRequest()
	req.Ministry = "Atlantis"

	_, err := svc.Create(req, 7, "Tester")
	assert.ErrorIs(t, err, ErrMinistryNotFound)
}

func TestCreateActionGeneratesCode(t *testing.T) {
	repo, svc := newActionFixture()

	action, err := svc.Create(validCreateRequest(), 7, "Tester")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(action.ActionCode, "ACT-"))
	assert.Len(t, action.ActionCode, len("ACT-")+8)
	assert.Equal(t, uint(1), action.MinistryID)
	assert.Equal(t, uint(7), action.CreatedBy)
	assert.Equal(t, model.PriorityHigh, repo.created.Priority)
}

func TestUpdateActionInvalidStatus(t *testing.T) {
	_, svc := newActionFixture()

	bad := "finished"
	_, err := svc.Update("1", &UpdateActionRequest{Status: &bad}, "Tester")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid status")
}

func TestUpdateActionDateAgainstStoredRow(t *testing.T) {
	_, svc := newActionFixture()

	// Stored start is 2026-01-10; moving only the end before it must fail.
	end := "2026-01-05"
	_, err := svc.Update("1", &UpdateActionRequest{EndDate: &end}, "Tester")
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestUpdateActionPartialFields(t *testing.T) {
	repo, svc := newActionFixture()

	title := "Budget review Q2"
	status := "in-progress"
	_, err := svc.Update("1", &UpdateActionRequest{Title: &title, Status: &status}, "Tester")
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{
		"title":  "Budget review Q2",
		"status": "in-progress",
	}, repo.updates)
}

func TestUpdateActionNoFields(t *testing.T) {
	_, svc := newActionFixture()

	_, err := svc.Update("1", &UpdateActionRequest{}, "Tester")
	assert.ErrorIs(t, err, ErrNoFieldsToUpdate)
}

func TestListRestrictedDecision(t *testing.T) {
	repo, svc := newActionFixture()

	decision := &authz.Decision{Restricted: true, AllowedMinistryIDs: []uint{1, 3}}
	_, err := svc.List(ListActionsQuery{}, decision)
	require.NoError(t, err)

	assert.True(t, repo.lastFilter.Restrict)
	assert.Equal(t, []uint{1, 3}, repo.lastFilter.AllowedMinistryIDs)
}

func TestListZeroViewableStaysRestricted(t *testing.T) {
	repo, svc := newActionFixture()

	decision := &authz.Decision{Restricted: true, AllowedMinistryIDs: []uint{}}
	_, err := svc.List(ListActionsQuery{}, decision)
	require.NoError(t, err)

	assert.True(t, repo.lastFilter.Restrict)
	assert.NotNil(t, repo.lastFilter.AllowedMinistryIDs)
	assert.Len(t, repo.lastFilter.AllowedMinistryIDs, 0)
}

func TestListUnknownMinistryFilterMatchesNothing(t *testing.T) {
	repo, svc := newActionFixture()

	_, err := svc.List(ListActionsQuery{Ministry: "Atlantis"}, nil)
	require.NoError(t, err)

	assert.True(t, repo.lastFilter.Restrict)
	assert.Len(t, repo.lastFilter.AllowedMinistryIDs, 0)
}

func TestDeleteActionNotFound(t *testing.T) {
	_, svc := newActionFixture()

	_, err := svc.Delete("9999", "Tester")
	assert.ErrorIs(t, err, ErrActionNotFound)
}

func TestActionExportCSVStartsWithBOM(t *testing.T) {
	repo, svc := newActionFixture()
	repo.rows = []model.Action{*repo.byRef["1"]}

	data, err := svc.ExportCSV(nil)
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.HasPrefix(out, "\ufeff"))
	assert.Contains(t, out, "ID,Code,Ministry,Title,Description,Responsible,Priority,Start Date,End Date,Status")
	assert.Contains(t, out, "Budget review")
}

func TestActionExportCSVScopedDecision(t *testing.T) {
	repo, svc := newActionFixture()
	finance := &model.Ministry{ID: 1, Name: "Finance"}

	_, err := svc.ExportCSV(&authz.Decision{Ministry: finance})
	require.NoError(t, err)

	require.NotNil(t, repo.lastFilter.MinistryID)
	assert.Equal(t, uint(1), *repo.lastFilter.MinistryID)
}
