package model

import "time"

type ActionStatus string

const (
	StatusNew        ActionStatus = "new"
	StatusInProgress ActionStatus = "in-progress"
	StatusDone       ActionStatus = "done"
	StatusOverdue    ActionStatus = "overdue"
)

type ActionPriority string

const (
	PriorityLow    ActionPriority = "low"
	PriorityMedium ActionPriority = "medium"
	PriorityHigh   ActionPriority = "high"
)

// Action is a tracked governmental task. It belongs to exactly one ministry
// by numeric foreign key; the free-text ministry name accepted by the API is
// resolved before anything touches this table. Deletes are hard deletes.
type Action struct {
	BaseModel
	ActionCode   string         `gorm:"type:varchar(20);uniqueIndex;not null" json:"action_code"`
	MinistryID   uint           `gorm:"not null;index" json:"ministry_id"`
	Ministry     *Ministry      `gorm:"foreignKey:MinistryID" json:"ministry,omitempty"`
	Title        string         `gorm:"type:varchar(255);not null" json:"action_title" validate:"required"`
	Description  string         `gorm:"type:text" json:"description"`
	Responsible  string         `gorm:"type:varchar(255);not null" json:"responsible" validate:"required"`
	Priority     ActionPriority `gorm:"type:varchar(10);not null" json:"priority" validate:"required,oneof=low medium high"`
	Status       ActionStatus   `gorm:"type:varchar(15);not null" json:"status" validate:"required,oneof=new in-progress done overdue"`
	StartDate    time.Time      `gorm:"type:date;not null" json:"start_date"`
	EndDate      time.Time      `gorm:"type:date;not null" json:"end_date"`
	Stakeholders string         `gorm:"type:text" json:"stakeholders"`
	CreatedBy    uint           `json:"created_by"`
}

// ActionResponse flattens the ministry relation for API responses.
type ActionResponse struct {
	ID           uint           `json:"id"`
	ActionCode   string         `json:"action_code"`
	MinistryID   uint           `json:"ministry_id"`
	Ministry     string         `json:"ministry"`
	Title        string         `json:"action_title"`
	Description  string         `json:"description,omitempty"`
	Responsible  string         `json:"responsible"`
	Priority     ActionPriority `json:"priority"`
	Status       ActionStatus   `json:"status"`
	StartDate    string         `json:"start_date"`
	EndDate      string         `json:"end_date"`
	Stakeholders string         `json:"stakeholders,omitempty"`
	CreatedBy    uint           `json:"created_by"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// ToResponse converts Action to ActionResponse
func (a *Action) ToResponse() ActionResponse {
	resp := ActionResponse{
		ID:           a.ID,
		ActionCode:   a.ActionCode,
		MinistryID:   a.MinistryID,
		Title:        a.Title,
		Description:  a.Description,
		Responsible:  a.Responsible,
		Priority:     a.Priority,
		Status:       a.Status,
		StartDate:    a.StartDate.Format("2006-01-02"),
		EndDate:      a.EndDate.Format("2006-01-02"),
		Stakeholders: a.Stakeholders,
		CreatedBy:    a.CreatedBy,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
	if a.Ministry != nil {
		resp.Ministry = a.Ministry.Name
	}
	return resp
}
