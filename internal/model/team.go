package model

// TeamMember is a person who can be responsible for actions. Membership of
// a ministry is optional; actions reference members by name.
type TeamMember struct {
	BaseModel
	Name       string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Position   string    `gorm:"type:varchar(255)" json:"position"`
	MinistryID *uint     `gorm:"index" json:"ministry_id,omitempty"`
	Ministry   *Ministry `gorm:"foreignKey:MinistryID" json:"ministry,omitempty"`
	Email      *string   `gorm:"type:varchar(255);uniqueIndex" json:"email,omitempty" validate:"omitempty,email"`
	Phone      string    `gorm:"type:varchar(30)" json:"phone" validate:"omitempty,phone"`
	Notes      string    `gorm:"type:text" json:"notes"`
}
