package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/marcosfaria19/clarohub-sub000/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// insertBatchSize chunks bulk ingestion inserts.
const insertBatchSize = 500

// CompletedTask is a task projected with the instant the given user finished
// the given stage. FinishedAtByUser is derived from history, never stored.
type CompletedTask struct {
	model.Task
	FinishedAtByUser *time.Time `json:"finishedAtByUser"`
}

// TaskRepository is the persistence interface for demand tasks.
type TaskRepository interface {
	FindByID(ctx context.Context, id string) (*model.Task, error)
	ListByAssignment(ctx context.Context, assignmentID string) ([]*model.Task, error)
	ListByAssignmentAndUser(ctx context.Context, assignmentID, userID string) ([]*model.Task, error)
	FindCompleted(ctx context.Context, assignmentID, userID string) ([]*CompletedTask, error)
	CountInStage(ctx context.Context, assignmentID string) (int64, error)

	// ExistingDemandIDs returns which of the given business keys are already
	// persisted, resolved in a single batched lookup.
	ExistingDemandIDs(ctx context.Context, ids []string) (map[string]bool, error)
	// BulkInsert persists tasks in batches, skipping per-row unique-key
	// conflicts instead of aborting the batch. Returns the inserted count.
	BulkInsert(ctx context.Context, tasks []model.Task) (int64, error)

	// ClaimNext atomically claims the next unclaimed task of the assignment
	// per the given ordering. Returns ErrNotAvailable on an empty queue.
	ClaimNext(ctx context.Context, assignmentID string, user model.UserRef, order []model.SortField) (*model.Task, error)
	// Transition moves a claimed task to the target stage, releases the
	// claim and appends the history entry, all in one transaction. The
	// ownership check is part of the update predicate itself.
	Transition(ctx context.Context, taskID string, user model.UserRef, target model.StatusRef, observation string) (*model.Task, error)
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
		}
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) ListByAssignment(ctx context.Context, assignmentID string) ([]*model.Task, error) {
	var tasks []*model.Task
	err := r.db.WithContext(ctx).
		Where("status_id = ?", assignmentID).
		Order("updated_at ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepository) ListByAssignmentAndUser(ctx context.Context, assignmentID, userID string) ([]*model.Task, error) {
	var tasks []*model.Task
	err := r.db.WithContext(ctx).
		Where("status_id = ? AND assigned_to_id = ?", assignmentID, userID).
		Order("updated_at ASC").
		Find(&tasks).Error
	return tasks, err
}

// FindCompleted lists tasks the user finished in the given stage, with the
// earliest matching finish instant projected alongside each task.
func (r *taskRepository) FindCompleted(ctx context.Context, assignmentID, userID string) ([]*CompletedTask, error) {
	var results []*CompletedTask
	err := r.db.WithContext(ctx).
		Table("tasks").
		Select("tasks.*, MIN(task_history.finished_at) AS finished_at_by_user").
		Joins("JOIN task_history ON task_history.task_id = tasks.id").
		Where("task_history.from_status_id = ? AND task_history.user_id = ? AND task_history.finished_at IS NOT NULL",
			assignmentID, userID).
		Group("tasks.id").
		Order("finished_at_by_user DESC").
		Scan(&results).Error
	return results, err
}

func (r *taskRepository) CountInStage(ctx context.Context, assignmentID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("status_id = ?", assignmentID).
		Count(&count).Error
	return count, err
}

func (r *taskRepository) ExistingDemandIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	existing := make(map[string]bool, len(ids))
	for start := 0; start < len(ids); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		var found []string
		err := r.db.WithContext(ctx).Model(&model.Task{}).
			Where("id_demanda IN ?", ids[start:end]).
			Pluck("id_demanda", &found).Error
		if err != nil {
			return nil, err
		}
		for _, id := range found {
			existing[id] = true
		}
	}
	return existing, nil
}

func (r *taskRepository) BulkInsert(ctx context.Context, tasks []model.Task) (int64, error) {
	if len(tasks) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id_demanda"}},
			DoNothing: true,
		}).
		CreateInBatches(tasks, insertBatchSize)
	return res.RowsAffected, res.Error
}

// ClaimNext retries until it wins a candidate or the queue is empty. Every
// lost race means another claim succeeded, so the loop always makes
// progress toward ErrNotAvailable.
func (r *taskRepository) ClaimNext(ctx context.Context, assignmentID string, user model.UserRef, order []model.SortField) (*model.Task, error) {
	for {
		candidate, err := r.nextUnclaimed(ctx, assignmentID, order)
		if err != nil {
			return nil, err
		}

		// Conditional update guarded by the null-claim predicate: two
		// concurrent claims can select the same candidate, but only one
		// update affects a row. The loser re-queries.
		now := time.Now().UTC()
		res := r.db.WithContext(ctx).Model(&model.Task{}).
			Where("id = ? AND assigned_to_id IS NULL", candidate.ID).
			Updates(map[string]any{
				"assigned_to_id":   user.ID,
				"assigned_to_name": user.Name,
				"updated_at":       now,
			})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 1 {
			candidate.AssignedToID = &user.ID
			candidate.AssignedToName = &user.Name
			candidate.UpdatedAt = now
			return candidate, nil
		}
	}
}

func (r *taskRepository) nextUnclaimed(ctx context.Context, assignmentID string, order []model.SortField) (*model.Task, error) {
	query := r.db.WithContext(ctx).
		Where("status_id = ? AND assigned_to_id IS NULL", assignmentID)
	for _, field := range order {
		col, ok := field.Column()
		if !ok {
			// Outside the whitelist; never reaches the SQL string.
			continue
		}
		query = query.Order(clause.OrderByColumn{
			Column: clause.Column{Name: col},
			Desc:   field.Desc(),
		})
	}

	var candidate model.Task
	if err := query.First(&candidate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("assignment %s: %w", assignmentID, model.ErrNotAvailable)
		}
		return nil, err
	}
	return &candidate, nil
}

func (r *taskRepository) Transition(ctx context.Context, taskID string, user model.UserRef, target model.StatusRef, observation string) (*model.Task, error) {
	var updated *model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.Task
		if err := tx.Where("id = ?", taskID).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("task %s: %w", taskID, model.ErrNotFound)
			}
			return err
		}

		// The ownership check lives in the update predicate, so a concurrent
		// release/re-claim between the read above and this write cannot move
		// a task on another user's behalf.
		now := time.Now().UTC()
		res := tx.Model(&model.Task{}).
			Where("id = ? AND assigned_to_id = ?", taskID, user.ID).
			Updates(map[string]any{
				"status_id":        target.ID,
				"status_name":      target.Name,
				"assigned_to_id":   nil,
				"assigned_to_name": nil,
				"updated_at":       now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("task %s: %w", taskID, model.ErrPermission)
		}

		// started_at is the prior updated_at, i.e. the claim instant.
		startedAt := current.UpdatedAt
		history := model.TaskHistory{
			ID:             uuid.NewString(),
			TaskID:         taskID,
			FromStatusID:   current.StatusID,
			FromStatusName: current.StatusName,
			ToStatusID:     target.ID,
			ToStatusName:   target.Name,
			UserID:         user.ID,
			UserName:       user.Name,
			StartedAt:      &startedAt,
			FinishedAt:     &now,
			Observation:    observation,
			CreatedAt:      now,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		current.StatusID = target.ID
		current.StatusName = target.Name
		current.AssignedToID = nil
		current.AssignedToName = nil
		current.UpdatedAt = now
		updated = &current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
