package repository

import (
	"github.com/adinaninacerdine/sgg-project/internal/model"

	"gorm.io/gorm"
)

type HistoryRepository interface {
	Append(entry *model.ActionHistory) error
	FindByAction(actionID uint) ([]model.ActionHistory, error)
}

type historyRepo struct {
	db *gorm.DB
}

func NewHistoryRepo(db *gorm.DB) HistoryRepository {
	return &historyRepo{db}
}

// Append writes one audit row. The table is append-only; nothing in this
// repository updates or deletes.
func (r *historyRepo) Append(entry *model.ActionHistory) error {
	return r.db.Create(entry).Error
}

func (r *historyRepo) FindByAction(actionID uint) ([]model.ActionHistory, error) {
	var entries []model.ActionHistory
	err := r.db.Where("action_id = ?", actionID).Order("performed_at DESC").Find(&entries).Error
	return entries, err
}
