package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/marcosfaria19/clarohub-sub000/internal/model"
	"gorm.io/gorm"
)

// AssignmentRepository is the persistence interface for queue stages.
type AssignmentRepository interface {
	Create(assignment *model.Assignment) error
	FindByID(id string) (*model.Assignment, error)
	FindByProject(projectID string) ([]*model.Assignment, error)
	// UpdateFields applies a partial update scoped to the owning project and
	// reports ErrNotFound when no row matched.
	UpdateFields(projectID, assignmentID string, fields map[string]any) error
	Delete(projectID, assignmentID string) error
	// SetUsers overwrites the assigned-user lists of several assignments of
	// one project in a single transaction.
	SetUsers(projectID string, users map[string][]model.AssignedUser) error
	// SetPositions persists board coordinates for several assignments of one
	// project in a single transaction.
	SetPositions(projectID string, positions map[string]model.Position) error
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository creates an assignment repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(assignment *model.Assignment) error {
	return r.db.Create(assignment).Error
}

func (r *assignmentRepository) FindByID(id string) (*model.Assignment, error) {
	var assignment model.Assignment
	if err := r.db.Where("id = ?", id).First(&assignment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("assignment %s: %w", id, model.ErrNotFound)
		}
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepository) FindByProject(projectID string) ([]*model.Assignment, error) {
	var assignments []*model.Assignment
	err := r.db.Where("project_id = ?", projectID).Order("created_at ASC").Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepository) UpdateFields(projectID, assignmentID string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now().UTC()
	res := r.db.Model(&model.Assignment{}).
		Where("id = ? AND project_id = ?", assignmentID, projectID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("assignment %s in project %s: %w", assignmentID, projectID, model.ErrNotFound)
	}
	return nil
}

func (r *assignmentRepository) Delete(projectID, assignmentID string) error {
	res := r.db.Where("id = ? AND project_id = ?", assignmentID, projectID).Delete(&model.Assignment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("assignment %s in project %s: %w", assignmentID, projectID, model.ErrNotFound)
	}
	return nil
}

func (r *assignmentRepository) SetUsers(projectID string, users map[string][]model.AssignedUser) error {
	if len(users) == 0 {
		return nil
	}
	now := time.Now().UTC()
	return r.db.Transaction(func(tx *gorm.DB) error {
		for assignmentID, list := range users {
			encoded, err := json.Marshal(list)
			if err != nil {
				return err
			}
			if err := tx.Model(&model.Assignment{}).
				Where("id = ? AND project_id = ?", assignmentID, projectID).
				Updates(map[string]any{"assigned_users": encoded, "updated_at": now}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *assignmentRepository) SetPositions(projectID string, positions map[string]model.Position) error {
	if len(positions) == 0 {
		return nil
	}
	now := time.Now().UTC()
	return r.db.Transaction(func(tx *gorm.DB) error {
		for assignmentID, pos := range positions {
			encoded, err := json.Marshal(pos)
			if err != nil {
				return err
			}
			if err := tx.Model(&model.Assignment{}).
				Where("id = ? AND project_id = ?", assignmentID, projectID).
				Updates(map[string]any{"position": encoded, "updated_at": now}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
