package service

import (
	"strings"
	"testing"

	"github.com/adinaninacerdine/sgg-project/internal/model"
	"github.com/adinaninacerdine/sgg-project/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeTeamRepo struct {
	repository.TeamRepository
	members map[uint]*model.TeamMember
	byEmail map[string]*model.TeamMember
	nextID  uint
	deleted []uint
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{
		members: map[uint]*model.TeamMember{},
		byEmail: map[string]*model.TeamMember{},
		nextID:  1,
	}
}

func (f *fakeTeamRepo) FindByID(id uint) (*model.TeamMember, error) {
	if m, ok := f.members[id]; ok {
		return m, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTeamRepo) FindByEmail(email string) (*model.TeamMember, error) {
	if m, ok := f.byEmail[email]; ok {
		return m, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTeamRepo) Create(member *model.TeamMember) error {
	member.ID = f.nextID
	f.nextID++
	f.members[member.ID] = member
	if member.Email != nil {
		f.byEmail[*member.Email] = member
	}
	return nil
}

func (f *fakeTeamRepo) FindAll(ministryID *uint) ([]model.TeamMember, error) {
	var out []model.TeamMember
	for _, m := range f.members {
		if ministryID != nil && (m.MinistryID == nil || *m.MinistryID != *ministryID) {
			continue
		}
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeTeamRepo) Delete(id uint) error {
	f.deleted = append(f.deleted, id)
	delete(f.members, id)
	return nil
}

type fakeResponsibleCounter struct {
	repository.ActionRepository
	counts map[string]int64
}

func (f *fakeResponsibleCounter) CountByResponsible(name string) (int64, error) {
	return f.counts[name], nil
}

func newTeamFixture(counts map[string]int64) (*fakeTeamRepo, TeamService) {
	repo := newFakeTeamRepo()
	svc := NewTeamService(
		repo,
		&fakeResponsibleCounter{counts: counts},
		&fakeMinistryRepo{ministries: map[string]*model.Ministry{
			"Finance": {ID: 1, Name: "Finance"},
		}},
	)
	return repo, svc
}

func TestCreateMemberDuplicateEmail(t *testing.T) {
	_, svc := newTeamFixture(nil)

	email := "dupont@sgg.gov"
	first := &CreateMemberRequest{Name: "A. Dupont", Position: "Advisor", Email: &email}
	_, err := svc.Create(first)
	require.NoError(t, err)

	second := &CreateMemberRequest{Name: "B. Martin", Position: "Analyst", Email: &email}
	_, err = svc.Create(second)
	assert.ErrorIs(t, err, ErrMemberEmailExists)
}

func TestCreateMemberEmptyEmailNotUnique(t *testing.T) {
	repo, svc := newTeamFixture(nil)

	for _, name := range []string{"A. Dupont", "B. Martin"} {
		_, err := svc.Create(&CreateMemberRequest{Name: name, Position: "Advisor"})
		require.NoError(t, err)
	}

	// Members without an email store NULL, so two of them can coexist.
	for _, m := range repo.members {
		assert.Nil(t, m.Email)
	}
}

func TestCreateMemberUnknownMinistry(t *testing.T) {
	_, svc := newTeamFixture(nil)

	req := &CreateMemberRequest{Name: "A. Dupont", Position: "Advisor", Ministry: "Atlantis"}
	_, err := svc.Create(req)
	assert.ErrorIs(t, err, ErrMinistryNotFound)
}

func TestDeleteMemberWithAssignedActions(t *testing.T) {
	repo, svc := newTeamFixture(map[string]int64{"A. Dupont": 3})

	member, err := svc.Create(&CreateMemberRequest{Name: "A. Dupont", Position: "Advisor"})
	require.NoError(t, err)

	_, err = svc.Delete(member.ID)
	var hasActions *MemberHasActionsError
	require.ErrorAs(t, err, &hasActions)
	assert.Equal(t, int64(3), hasActions.Count)
	assert.Empty(t, repo.deleted)
}

func TestDeleteMemberWithoutActions(t *testing.T) {
	repo, svc := newTeamFixture(nil)

	member, err := svc.Create(&CreateMemberRequest{Name: "A. Dupont", Position: "Advisor"})
	require.NoError(t, err)

	deleted, err := svc.Delete(member.ID)
	require.NoError(t, err)
	assert.Equal(t, member.ID, deleted.ID)
	assert.Equal(t, []uint{member.ID}, repo.deleted)
}

func TestImportCollectsRowErrors(t *testing.T) {
	_, svc := newTeamFixture(nil)

	email := "dupont@sgg.gov"
	rows := []CreateMemberRequest{
		{Name: "A. Dupont", Position: "Advisor", Email: &email},
		{Name: "", Position: "Analyst"},                           // missing name
		{Name: "C. Bernard", Position: "Clerk", Email: &email},    // duplicate email
		{Name: "D. Petit", Position: "Aide", Ministry: "Finance"}, // fine
	}

	result, err := svc.Import(rows)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 2, result.Skipped)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "row 2")
	assert.Contains(t, result.Errors[1], "row 3")
}

func TestImportEmptyBatch(t *testing.T) {
	_, svc := newTeamFixture(nil)

	_, err := svc.Import(nil)
	assert.ErrorIs(t, err, ErrNoMembersToImport)
}

func TestTeamExportCSVStartsWithBOM(t *testing.T) {
	_, svc := newTeamFixture(nil)

	_, err := svc.Create(&CreateMemberRequest{Name: "A. Dupont", Position: "Advisor"})
	require.NoError(t, err)

	data, err := svc.ExportCSV("")
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.HasPrefix(out, "\ufeff"))
	assert.Contains(t, out, "ID,Name,Position,Ministry,Email,Phone,Notes")
	assert.Contains(t, out, "A. Dupont")
}
