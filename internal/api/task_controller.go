package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marcosfaria19/clarohub-sub000/internal/service"
)

// TaskController exposes the claim/transition engine and its queries.
type TaskController struct {
	taskService service.TaskService
}

// NewTaskController creates the task controller.
func NewTaskController(taskService service.TaskService) *TaskController {
	return &TaskController{taskService: taskService}
}

// Take handles PATCH /tasks/take/:assignmentId. The claimed task comes back
// for immediate rendering; an empty queue is a 404, not an error condition.
func (c *TaskController) Take(ctx *gin.Context) {
	user, ok := CurrentUser(ctx)
	if !ok {
		Error(ctx, http.StatusUnauthorized, "missing identity", "")
		return
	}

	task, err := c.taskService.ClaimNext(ctx.Request.Context(), ctx.Param("assignmentId"), user)
	if err != nil {
		RespondDomainError(ctx, err)
		return
	}

	Success(ctx, task)
}

// Transition handles PATCH /tasks/transition/:taskId.
func (c *TaskController) Transition(ctx *gin.Context) {
	user, ok := CurrentUser(ctx)
	if !ok {
		Error(ctx, http.StatusUnauthorized, "missing identity", "")
		return
	}

	var req service.TransitionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		BindError(ctx, err)
		return
	}

	task, err := c.taskService.Transition(ctx.Request.Context(), ctx.Param("taskId"), user, &req)
	if err != nil {
		RespondDomainError(ctx, err)
		return
	}

	Success(ctx, task)
}

// Get handles GET /tasks/:id.
func (c *TaskController) Get(ctx *gin.Context) {
	task, err := c.taskService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		RespondDomainError(ctx, err)
		return
	}

	Success(ctx, task)
}

// ListByAssignment handles GET /tasks/assignment/:assignmentId.
func (c *TaskController) ListByAssignment(ctx *gin.Context) {
	tasks, err := c.taskService.ListByAssignment(ctx.Request.Context(), ctx.Param("assignmentId"))
	if err != nil {
		RespondDomainError(ctx, err)
		return
	}

	Success(ctx, tasks)
}

// ListByAssignmentAndUser handles GET /tasks/assignment/:assignmentId/user/:userId.
func (c *TaskController) ListByAssignmentAndUser(ctx *gin.Context) {
	tasks, err := c.taskService.ListByAssignmentAndUser(
		ctx.Request.Context(), ctx.Param("assignmentId"), ctx.Param("userId"))
	if err != nil {
		RespondDomainError(ctx, err)
		return
	}

	Success(ctx, tasks)
}

// ListCompleted handles GET /tasks/completed/:assignmentId/user/:userId.
func (c *TaskController) ListCompleted(ctx *gin.Context) {
	tasks, err := c.taskService.FindCompleted(
		ctx.Request.Context(), ctx.Param("assignmentId"), ctx.Param("userId"))
	if err != nil {
		RespondDomainError(ctx, err)
		return
	}

	Success(ctx, tasks)
}

// History handles GET /tasks/:id/history.
func (c *TaskController) History(ctx *gin.Context) {
	entries, err := c.taskService.History(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		RespondDomainError(ctx, err)
		return
	}

	Success(ctx, entries)
}
