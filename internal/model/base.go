package model

import "time"

// BaseModel handles the numeric primary key and standard timestamps.
// The schema uses serial IDs on purpose: external references may arrive as
// either a numeric id or a business code, and resolution tries the numeric
// form first.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
