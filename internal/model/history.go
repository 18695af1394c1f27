package model

import (
	"encoding/json"
	"time"
)

// History action-type tags, one per mutating (or audited read) operation.
const (
	HistoryViewed  = "viewed"
	HistoryCreated = "created"
	HistoryUpdated = "updated"
	HistoryDeleted = "deleted"
)

// ActionHistory is the append-only audit trail. Rows are never updated or
// deleted; the action_id is kept as a plain column rather than a foreign key
// so history survives the hard delete of its action.
type ActionHistory struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	ActionID    uint            `gorm:"not null;index" json:"action_id"`
	UserID      uint            `gorm:"not null" json:"user_id"`
	ActionType  string          `gorm:"type:varchar(20);not null" json:"action_type"`
	Changes     json.RawMessage `gorm:"type:jsonb" json:"changes"`
	PerformedAt time.Time       `gorm:"autoCreateTime" json:"performed_at"`
}

// TableName specifies the table name for GORM
func (ActionHistory) TableName() string {
	return "action_history"
}

// ChangeSnapshot is what gets serialized into the Changes column: the
// inbound request as seen by the audited handler.
type ChangeSnapshot struct {
	Method string            `json:"method"`
	Path   string            `json:"path"`
	Body   json.RawMessage   `json:"body,omitempty"`
	Query  map[string]string `json:"query,omitempty"`
}
