package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/marcosfaria19/clarohub-sub000/internal/model"
	"github.com/marcosfaria19/clarohub-sub000/internal/repository"
)

// ProjectService manages workflow definitions: projects and their stages.
type ProjectService interface {
	Create(ctx context.Context, req *CreateProjectRequest) (*model.Project, error)
	List(ctx context.Context) ([]*model.Project, error)
	Get(ctx context.Context, id string) (*model.Project, error)
	Update(ctx context.Context, id string, req *UpdateProjectRequest) (*model.Project, error)
	Delete(ctx context.Context, id string) error

	AddAssignment(ctx context.Context, projectID string, req *AddAssignmentRequest) (*model.Assignment, error)
	EditAssignment(ctx context.Context, projectID, assignmentID string, req *EditAssignmentRequest) error
	DeleteAssignment(ctx context.Context, projectID, assignmentID string) error
	BulkAssignUsers(ctx context.Context, projectID string, entries []BulkAssignEntry) error
	SaveLayout(ctx context.Context, projectID string, entries []LayoutEntry) error

	// ResolveSortCriteria returns the assignment's configured claim ordering,
	// or the deployment default when the assignment or its configuration is
	// absent.
	ResolveSortCriteria(ctx context.Context, assignmentID string) []model.SortField
	// SetDefaultSort replaces the deployment-wide fallback ordering, e.g.
	// on a config reload. An empty list restores the built-in default.
	SetDefaultSort(fields []model.SortField)
}

// CreateProjectRequest creates a workflow project.
type CreateProjectRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required"` // MDU, TAP or NAP
}

// UpdateProjectRequest renames a project.
type UpdateProjectRequest struct {
	Name string `json:"name" binding:"required"`
}

// AddAssignmentRequest appends a stage to a project.
type AddAssignmentRequest struct {
	Name string `json:"name" binding:"required"`
}

// EditAssignmentRequest partially updates a stage. Nil fields are untouched.
type EditAssignmentRequest struct {
	Name        *string           `json:"name"`
	Transitions []string          `json:"transitions"`
	SortConfig  []model.SortField `json:"sortConfig"`
}

// BulkAssignEntry overwrites one assignment's user list.
type BulkAssignEntry struct {
	AssignmentID  string               `json:"assignmentId"`
	AssignedUsers []model.AssignedUser `json:"assignedUsers"`
}

// LayoutEntry places one assignment on the board.
type LayoutEntry struct {
	AssignmentID string         `json:"assignmentId"`
	Position     model.Position `json:"position"`
}

type projectService struct {
	projects    repository.ProjectRepository
	assignments repository.AssignmentRepository
	tasks       repository.TaskRepository

	mu          sync.RWMutex
	defaultSort []model.SortField
}

// NewProjectService creates the project service. defaultSort is the
// deployment-wide fallback claim ordering.
func NewProjectService(
	projects repository.ProjectRepository,
	assignments repository.AssignmentRepository,
	tasks repository.TaskRepository,
	defaultSort []model.SortField,
) ProjectService {
	if len(defaultSort) == 0 {
		defaultSort = model.DefaultSort()
	}
	return &projectService{
		projects:    projects,
		assignments: assignments,
		tasks:       tasks,
		defaultSort: defaultSort,
	}
}

func (s *projectService) Create(ctx context.Context, req *CreateProjectRequest) (*model.Project, error) {
	projectType, err := model.ParseProjectType(req.Type)
	if err != nil {
		return nil, err
	}
	project := &model.Project{
		ID:   uuid.NewString(),
		Name: strings.TrimSpace(req.Name),
		Type: string(projectType),
	}
	if err := project.Validate(); err != nil {
		return nil, err
	}
	if err := s.projects.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

func (s *projectService) List(ctx context.Context) ([]*model.Project, error) {
	return s.projects.FindAll()
}

func (s *projectService) Get(ctx context.Context, id string) (*model.Project, error) {
	return s.projects.FindByID(id)
}

func (s *projectService) Update(ctx context.Context, id string, req *UpdateProjectRequest) (*model.Project, error) {
	project, err := s.projects.FindByID(id)
	if err != nil {
		return nil, err
	}
	project.Name = strings.TrimSpace(req.Name)
	if err := project.Validate(); err != nil {
		return nil, err
	}
	if err := s.projects.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	return s.projects.Delete(id)
}

func (s *projectService) AddAssignment(ctx context.Context, projectID string, req *AddAssignmentRequest) (*model.Assignment, error) {
	if _, err := s.projects.FindByID(projectID); err != nil {
		return nil, err
	}
	assignment := &model.Assignment{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Name:      strings.TrimSpace(req.Name),
	}
	if err := assignment.Validate(); err != nil {
		return nil, err
	}
	if err := s.assignments.Create(assignment); err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}
	return assignment, nil
}

func (s *projectService) EditAssignment(ctx context.Context, projectID, assignmentID string, req *EditAssignmentRequest) error {
	fields := map[string]any{}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return errors.New("assignment name cannot be blank")
		}
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Transitions != nil {
		encoded, err := json.Marshal(req.Transitions)
		if err != nil {
			return err
		}
		fields["transitions"] = encoded
	}
	if req.SortConfig != nil {
		encoded, err := json.Marshal(req.SortConfig)
		if err != nil {
			return err
		}
		fields["sort_config"] = encoded
	}
	if len(fields) == 0 {
		return nil
	}
	return s.assignments.UpdateFields(projectID, assignmentID, fields)
}

// DeleteAssignment removes a stage. Stages still holding tasks cannot be
// deleted; the tasks would be stranded in a stage nobody can see.
func (s *projectService) DeleteAssignment(ctx context.Context, projectID, assignmentID string) error {
	count, err := s.tasks.CountInStage(ctx, assignmentID)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("assignment %s holds %d tasks: %w", assignmentID, count, model.ErrStageNotEmpty)
	}
	return s.assignments.Delete(projectID, assignmentID)
}

// BulkAssignUsers overwrites the user lists of the listed assignments.
// Entries without an assignment id or user list are skipped, not rejected.
func (s *projectService) BulkAssignUsers(ctx context.Context, projectID string, entries []BulkAssignEntry) error {
	if _, err := s.projects.FindByID(projectID); err != nil {
		return err
	}
	users := make(map[string][]model.AssignedUser, len(entries))
	for _, entry := range entries {
		if entry.AssignmentID == "" || entry.AssignedUsers == nil {
			continue
		}
		users[entry.AssignmentID] = entry.AssignedUsers
	}
	return s.assignments.SetUsers(projectID, users)
}

func (s *projectService) SaveLayout(ctx context.Context, projectID string, entries []LayoutEntry) error {
	if _, err := s.projects.FindByID(projectID); err != nil {
		return err
	}
	positions := make(map[string]model.Position, len(entries))
	for _, entry := range entries {
		if entry.AssignmentID == "" {
			continue
		}
		positions[entry.AssignmentID] = entry.Position
	}
	return s.assignments.SetPositions(projectID, positions)
}

func (s *projectService) ResolveSortCriteria(ctx context.Context, assignmentID string) []model.SortField {
	assignment, err := s.assignments.FindByID(assignmentID)
	if err != nil {
		return s.currentDefaultSort()
	}
	criteria, err := assignment.SortCriteria()
	if err != nil || len(criteria) == 0 {
		return s.currentDefaultSort()
	}
	return criteria
}

func (s *projectService) SetDefaultSort(fields []model.SortField) {
	if len(fields) == 0 {
		fields = model.DefaultSort()
	}
	s.mu.Lock()
	s.defaultSort = fields
	s.mu.Unlock()
}

func (s *projectService) currentDefaultSort() []model.SortField {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultSort
}
