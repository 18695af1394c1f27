package repository

import (
	"strconv"
	"time"

	"github.com/adinaninacerdine/sgg-project/internal/model"

	"gorm.io/gorm"
)

// ActionFilter narrows an action listing. When Restrict is true the result
// set is limited to AllowedMinistryIDs; an empty allowed set must match
// zero rows, never fall back to an unfiltered query.
type ActionFilter struct {
	MinistryID         *uint
	Status             string
	Responsible        string
	Restrict           bool
	AllowedMinistryIDs []uint
}

// ActionOverview is the aggregate returned by /api/actions/stats.
type ActionOverview struct {
	Total      int64 `json:"total"`
	Completed  int64 `json:"completed"`
	InProgress int64 `json:"in_progress"`
	New        int64 `json:"new"`
	Overdue    int64 `json:"overdue"`
}

// MinistryActionCount groups action counts per ministry.
type MinistryActionCount struct {
	Ministry  string `json:"ministry"`
	Total     int64  `json:"total"`
	Completed int64  `json:"completed"`
}

// PriorityCount groups action counts per priority.
type PriorityCount struct {
	Priority string `json:"priority"`
	Count    int64  `json:"count"`
}

// DeadlineEntry is one upcoming deadline row.
type DeadlineEntry struct {
	ID          uint      `json:"id"`
	Title       string    `json:"action_title"`
	Responsible string    `json:"responsible"`
	EndDate     time.Time `json:"end_date"`
}

type ActionRepository interface {
	Create(action *model.Action) error
	FindByID(id uint) (*model.Action, error)
	FindByRef(ref string) (*model.Action, error)
	FindAll(filter ActionFilter) ([]model.Action, error)
	UpdateColumns(id uint, fields map[string]interface{}) (*model.Action, error)
	Delete(id uint) error
	CountByResponsible(name string) (int64, error)

	GetOverview(filter ActionFilter) (*ActionOverview, error)
	CountByMinistry() ([]MinistryActionCount, error)
	CountByPriority() ([]PriorityCount, error)
	UpcomingDeadlines(days, limit int) ([]DeadlineEntry, error)
}

type actionRepo struct {
	db *gorm.DB
}

func NewActionRepo(db *gorm.DB) ActionRepository {
	return &actionRepo{db}
}

func (r *actionRepo) Create(action *model.Action) error {
	return r.db.Create(action).Error
}

func (r *actionRepo) FindByID(id uint) (*model.Action, error) {
	var action model.Action
	if err := r.db.Preload("Ministry").First(&action, id).Error; err != nil {
		return nil, err
	}
	return &action, nil
}

// FindByRef resolves a path reference: numeric id first, action code as
// fallback.
func (r *actionRepo) FindByRef(ref string) (*model.Action, error) {
	if id, err := strconv.ParseUint(ref, 10, 32); err == nil {
		if action, err := r.FindByID(uint(id)); err == nil {
			return action, nil
		}
	}
	var action model.Action
	if err := r.db.Preload("Ministry").Where("action_code = ?", ref).First(&action).Error; err != nil {
		return nil, err
	}
	return &action, nil
}

func applyFilter(query *gorm.DB, filter ActionFilter) *gorm.DB {
	if filter.MinistryID != nil {
		query = query.Where("ministry_id = ?", *filter.MinistryID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Responsible != "" {
		query = query.Where("responsible = ?", filter.Responsible)
	}
	if filter.Restrict {
		if len(filter.AllowedMinistryIDs) == 0 {
			// Zero viewable ministries: match nothing.
			query = query.Where("1 = 0")
		} else {
			query = query.Where("ministry_id IN ?", filter.AllowedMinistryIDs)
		}
	}
	return query
}

func (r *actionRepo) FindAll(filter ActionFilter) ([]model.Action, error) {
	var actions []model.Action
	query := applyFilter(r.db.Preload("Ministry"), filter)
	err := query.Order("created_at DESC").Find(&actions).Error
	return actions, err
}

// UpdateColumns applies a partial-field patch built by the service layer
// and returns the refreshed row.
func (r *actionRepo) UpdateColumns(id uint, fields map[string]interface{}) (*model.Action, error) {
	if err := r.db.Model(&model.Action{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return nil, err
	}
	return r.FindByID(id)
}

func (r *actionRepo) Delete(id uint) error {
	return r.db.Delete(&model.Action{}, id).Error
}

func (r *actionRepo) CountByResponsible(name string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Action{}).Where("responsible = ?", name).Count(&count).Error
	return count, err
}

func (r *actionRepo) GetOverview(filter ActionFilter) (*ActionOverview, error) {
	var overview ActionOverview
	query := applyFilter(r.db.Model(&model.Action{}), filter)
	err := query.Select(`
			COUNT(*) as total,
			COUNT(CASE WHEN status = 'done' THEN 1 END) as completed,
			COUNT(CASE WHEN status = 'in-progress' THEN 1 END) as in_progress,
			COUNT(CASE WHEN status = 'new' THEN 1 END) as new,
			COUNT(CASE WHEN end_date < CURRENT_DATE AND status != 'done' THEN 1 END) as overdue
		`).
		Scan(&overview).Error
	return &overview, err
}

func (r *actionRepo) CountByMinistry() ([]MinistryActionCount, error) {
	var counts []MinistryActionCount
	err := r.db.Model(&model.Action{}).
		Select(`
			m.name as ministry,
			COUNT(*) as total,
			COUNT(CASE WHEN actions.status = 'done' THEN 1 END) as completed
		`).
		Joins("JOIN ministries m ON m.id = actions.ministry_id").
		Group("m.name").
		Order("total DESC").
		Scan(&counts).Error
	return counts, err
}

func (r *actionRepo) CountByPriority() ([]PriorityCount, error) {
	var counts []PriorityCount
	err := r.db.Model(&model.Action{}).
		Select("priority, COUNT(*) as count").
		Group("priority").
		Scan(&counts).Error
	return counts, err
}

func (r *actionRepo) UpcomingDeadlines(days, limit int) ([]DeadlineEntry, error) {
	var entries []DeadlineEntry
	err := r.db.Model(&model.Action{}).
		Select("id, title, responsible, end_date").
		Where("status != ?", model.StatusDone).
		Where("end_date >= CURRENT_DATE AND end_date <= CURRENT_DATE + ?::interval", strconv.Itoa(days)+" days").
		Order("end_date ASC").
		Limit(limit).
		Scan(&entries).Error
	return entries, err
}
