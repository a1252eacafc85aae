package repository

import (
	"errors"
	"fmt"

	"github.com/marcosfaria19/clarohub-sub000/internal/model"
	"gorm.io/gorm"
)

// ProjectRepository is the persistence interface for workflow projects.
type ProjectRepository interface {
	Create(project *model.Project) error
	FindByID(id string) (*model.Project, error)
	FindAll() ([]*model.Project, error)
	Update(project *model.Project) error
	Delete(id string) error
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a project repository.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(project *model.Project) error {
	return r.db.Create(project).Error
}

// FindByID loads a project with its assignments in definition order.
func (r *projectRepository) FindByID(id string) (*model.Project, error) {
	var project model.Project
	err := r.db.
		Preload("Assignments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project %s: %w", id, model.ErrNotFound)
		}
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) FindAll() ([]*model.Project, error) {
	var projects []*model.Project
	err := r.db.
		Preload("Assignments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Order("created_at ASC").
		Find(&projects).Error
	return projects, err
}

func (r *projectRepository) Update(project *model.Project) error {
	return r.db.Save(project).Error
}

func (r *projectRepository) Delete(id string) error {
	res := r.db.Where("id = ?", id).Delete(&model.Project{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("project %s: %w", id, model.ErrNotFound)
	}
	return nil
}
