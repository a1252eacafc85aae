package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/marcosfaria19/clarohub-sub000/internal/metrics"
	"github.com/marcosfaria19/clarohub-sub000/internal/model"
	"github.com/marcosfaria19/clarohub-sub000/internal/repository"
	"github.com/marcosfaria19/clarohub-sub000/internal/ws"
)

// defaultObservation is stamped on transitions submitted without one.
const defaultObservation = "Sem observações"

// TaskService is the claim-and-transition engine plus its read side.
type TaskService interface {
	// ClaimNext claims the next unclaimed task of the assignment for the
	// user, per the assignment's configured ordering. ErrNotAvailable when
	// the queue is empty.
	ClaimNext(ctx context.Context, assignmentID string, user model.UserRef) (*model.Task, error)
	// Transition moves a claimed task to another stage of its project,
	// releasing the claim and appending the audit entry.
	Transition(ctx context.Context, taskID string, user model.UserRef, req *TransitionRequest) (*model.Task, error)

	Get(ctx context.Context, id string) (*model.Task, error)
	ListByAssignment(ctx context.Context, assignmentID string) ([]*model.Task, error)
	ListByAssignmentAndUser(ctx context.Context, assignmentID, userID string) ([]*model.Task, error)
	FindCompleted(ctx context.Context, assignmentID, userID string) ([]*repository.CompletedTask, error)
	History(ctx context.Context, taskID string) ([]*model.TaskHistory, error)
}

// TransitionRequest carries the transition parameters.
type TransitionRequest struct {
	NewStatusID string `json:"new_status_id" binding:"required"`
	ProjectID   string `json:"project_id" binding:"required"`
	Obs         string `json:"obs"`
}

type taskService struct {
	tasks    repository.TaskRepository
	history  repository.HistoryRepository
	projects repository.ProjectRepository
	flow     ProjectService
	hub      *ws.Hub
}

// NewTaskService creates the task engine. hub may be nil in tests; board
// events are then skipped.
func NewTaskService(
	tasks repository.TaskRepository,
	history repository.HistoryRepository,
	projects repository.ProjectRepository,
	flow ProjectService,
	hub *ws.Hub,
) TaskService {
	return &taskService{
		tasks:    tasks,
		history:  history,
		projects: projects,
		flow:     flow,
		hub:      hub,
	}
}

func (s *taskService) ClaimNext(ctx context.Context, assignmentID string, user model.UserRef) (*model.Task, error) {
	order := s.flow.ResolveSortCriteria(ctx, assignmentID)
	task, err := s.tasks.ClaimNext(ctx, assignmentID, user, order)
	if err != nil {
		return nil, err
	}

	metrics.RecordClaim()
	s.publish(ws.BoardEvent{
		Type:           ws.EventTaskClaimed,
		ProjectID:      task.ProjectID,
		AssignmentID:   task.StatusID,
		AssignmentName: task.StatusName,
		TaskID:         task.ID,
		IDDemanda:      task.IDDemanda,
		UserName:       user.Name,
	})
	return task, nil
}

func (s *taskService) Transition(ctx context.Context, taskID string, user model.UserRef, req *TransitionRequest) (*model.Task, error) {
	project, err := s.projects.FindByID(req.ProjectID)
	if err != nil {
		return nil, err
	}
	target := project.FindAssignment(req.NewStatusID)
	if target == nil {
		return nil, fmt.Errorf("assignment %s in project %s: %w", req.NewStatusID, project.ID, model.ErrInvalidTarget)
	}

	observation := strings.TrimSpace(req.Obs)
	if observation == "" {
		observation = defaultObservation
	}

	task, err := s.tasks.Transition(ctx, taskID, user, target.Ref(), observation)
	if err != nil {
		return nil, err
	}

	metrics.RecordTransition(target.Name)
	s.publish(ws.BoardEvent{
		Type:           ws.EventTaskTransitioned,
		ProjectID:      task.ProjectID,
		AssignmentID:   target.ID,
		AssignmentName: target.Name,
		TaskID:         task.ID,
		IDDemanda:      task.IDDemanda,
		UserName:       user.Name,
	})
	return task, nil
}

func (s *taskService) Get(ctx context.Context, id string) (*model.Task, error) {
	return s.tasks.FindByID(ctx, id)
}

func (s *taskService) ListByAssignment(ctx context.Context, assignmentID string) ([]*model.Task, error) {
	return s.tasks.ListByAssignment(ctx, assignmentID)
}

func (s *taskService) ListByAssignmentAndUser(ctx context.Context, assignmentID, userID string) ([]*model.Task, error) {
	return s.tasks.ListByAssignmentAndUser(ctx, assignmentID, userID)
}

func (s *taskService) FindCompleted(ctx context.Context, assignmentID, userID string) ([]*repository.CompletedTask, error) {
	return s.tasks.FindCompleted(ctx, assignmentID, userID)
}

func (s *taskService) History(ctx context.Context, taskID string) ([]*model.TaskHistory, error) {
	return s.history.FindByTaskID(ctx, taskID)
}

func (s *taskService) publish(event ws.BoardEvent) {
	if s.hub != nil {
		s.hub.PublishBoardEvent(event)
	}
}
