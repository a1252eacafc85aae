package repository

import (
	"context"

	"github.com/marcosfaria19/clarohub-sub000/internal/model"
	"gorm.io/gorm"
)

// HistoryRepository is the read-side interface for transition history.
// Writes happen only inside TaskRepository.Transition.
type HistoryRepository interface {
	FindByTaskID(ctx context.Context, taskID string) ([]*model.TaskHistory, error)
}

type historyRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a history repository.
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) FindByTaskID(ctx context.Context, taskID string) ([]*model.TaskHistory, error) {
	var entries []*model.TaskHistory
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}
