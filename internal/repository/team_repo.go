package repository

import (
	"github.com/adinaninacerdine/sgg-project/internal/model"

	"gorm.io/gorm"
)

// MemberPerformance is the per-member aggregate for /api/teams/stats/performance.
type MemberPerformance struct {
	ID                uint    `json:"id"`
	Name              string  `json:"name"`
	Position          string  `json:"position"`
	TotalActions      int64   `json:"total_actions"`
	CompletedActions  int64   `json:"completed_actions"`
	InProgressActions int64   `json:"in_progress_actions"`
	OverdueActions    int64   `json:"overdue_actions"`
	CompletionRate    float64 `json:"completion_rate"`
}

// TopPerformer is one leaderboard row.
type TopPerformer struct {
	Name           string `json:"name"`
	CompletedCount int64  `json:"completed_count"`
}

// Responsible is one entry of the distinct-responsibles listing.
type Responsible struct {
	Name string `json:"name"`
}

type TeamRepository interface {
	FindAll(ministryID *uint) ([]model.TeamMember, error)
	FindByID(id uint) (*model.TeamMember, error)
	FindByEmail(email string) (*model.TeamMember, error)
	Create(member *model.TeamMember) error
	UpdateColumns(id uint, fields map[string]interface{}) (*model.TeamMember, error)
	Delete(id uint) error
	DistinctResponsibles() ([]Responsible, error)
	PerformanceStats() ([]MemberPerformance, error)
	TopPerformers(limit int) ([]TopPerformer, error)
}

type teamRepo struct {
	db *gorm.DB
}

func NewTeamRepo(db *gorm.DB) TeamRepository {
	return &teamRepo{db}
}

func (r *teamRepo) FindAll(ministryID *uint) ([]model.TeamMember, error) {
	var members []model.TeamMember
	query := r.db.Preload("Ministry")
	if ministryID != nil {
		query = query.Where("ministry_id = ?", *ministryID)
	}
	err := query.Order("name ASC").Find(&members).Error
	return members, err
}

func (r *teamRepo) FindByID(id uint) (*model.TeamMember, error) {
	var member model.TeamMember
	if err := r.db.Preload("Ministry").First(&member, id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *teamRepo) FindByEmail(email string) (*model.TeamMember, error) {
	var member model.TeamMember
	if err := r.db.Where("email = ?", email).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *teamRepo) Create(member *model.TeamMember) error {
	return r.db.Create(member).Error
}

func (r *teamRepo) UpdateColumns(id uint, fields map[string]interface{}) (*model.TeamMember, error) {
	if err := r.db.Model(&model.TeamMember{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return nil, err
	}
	return r.FindByID(id)
}

func (r *teamRepo) Delete(id uint) error {
	return r.db.Delete(&model.TeamMember{}, id).Error
}

func (r *teamRepo) DistinctResponsibles() ([]Responsible, error) {
	var responsibles []Responsible
	err := r.db.Model(&model.TeamMember{}).
		Distinct("name").
		Order("name ASC").
		Scan(&responsibles).Error
	return responsibles, err
}

// PerformanceStats joins members to the actions they are responsible for.
// The join is by name: actions record their responsible as free text.
func (r *teamRepo) PerformanceStats() ([]MemberPerformance, error) {
	var stats []MemberPerformance
	err := r.db.Model(&model.TeamMember{}).
		Select(`
			team_members.id,
			team_members.name,
			team_members.position,
			COUNT(a.id) as total_actions,
			COUNT(CASE WHEN a.status = 'done' THEN 1 END) as completed_actions,
			COUNT(CASE WHEN a.status = 'in-progress' THEN 1 END) as in_progress_actions,
			COUNT(CASE WHEN a.end_date < CURRENT_DATE AND a.status != 'done' THEN 1 END) as overdue_actions,
			CASE
				WHEN COUNT(a.id) > 0
				THEN ROUND((COUNT(CASE WHEN a.status = 'done' THEN 1 END)::NUMERIC / COUNT(a.id)) * 100, 2)
				ELSE 0
			END as completion_rate
		`).
		Joins("LEFT JOIN actions a ON team_members.name = a.responsible").
		Group("team_members.id, team_members.name, team_members.position").
		Order("total_actions DESC").
		Scan(&stats).Error
	return stats, err
}

func (r *teamRepo) TopPerformers(limit int) ([]TopPerformer, error) {
	var performers []TopPerformer
	err := r.db.Model(&model.TeamMember{}).
		Select(`
			team_members.name,
			COUNT(CASE WHEN a.status = 'done' THEN 1 END) as completed_count
		`).
		Joins("LEFT JOIN actions a ON team_members.name = a.responsible").
		Group("team_members.name").
		Having("COUNT(CASE WHEN a.status = 'done' THEN 1 END) > 0").
		Order("completed_count DESC").
		Limit(limit).
		Scan(&performers).Error
	return performers, err
}
