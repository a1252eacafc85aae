package api

import (
	"github.com/gin-gonic/gin"
	"github.com/marcosfaria19/clarohub-sub000/internal/service"
)

// ProjectController exposes project and assignment administration.
type ProjectController struct {
	projectService service.ProjectService
}

// NewProjectController creates the project controller.
func NewProjectController(projectService service.ProjectService) *ProjectController {
	return &ProjectController{projectService: projectService}
}

// Create handles POST /projects.
func (c *ProjectController) Create(ctx *gin.Context) {
	var req service.CreateProjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		BindError(ctx, err)
		return
	}

	project, err := c.projectService.Create(ctx.Request.Context(), &req)
	if err != nil {
		RespondDomainError(ctx, err)
		return
	}

	Success(ctx, project)
}

// List handles GET /projects.
func (c *ProjectController) List(ctx *gin.Context) {
	projects, err := c.projectService.List(ctx.Request.Context())
	if err != nil {
		RespondDomainError(ctx, err)
		return
	}

	Success(ctx, projects)
}

// Get handles GET /projects/:id.
func (c *ProjectController) Get(ctx *gin.Context) {
	project, err := c.projectService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		RespondDomainError(ctx, err)
		return
	}

	Success(ctx, project)
}

// Update handles PUT /projects/:id.
func (c *ProjectController) Update(ctx *gin.Context) {
	var req service.UpdateProjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		BindError(ctx, err)
		return
	}

	project, err := c.projectService.Update(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		RespondDomainError(ctx, err)
		return
	}

	Success(ctx, project)
}

// Delete handles DELETE /projects/:id.
func (c *ProjectController) Delete(ctx *gin.Context) {
	if err := c.projectService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		RespondDomainError(ctx, err)
		return
	}

	Success(ctx, nil)
}

// AddAssignment handles POST /projects/:id/assignments.
func (c *ProjectController) AddAssignment(ctx *gin.Context) {
	var req service.AddAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		BindError(ctx, err)
		return
	}

	assignment, err := c.projectService.AddAssignment(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		RespondDomainError(ctx, err)
		return
	}

	Success(ctx, assignment)
}

// EditAssignment handles PATCH /projects/:id/assignments/:assignmentId.
func (c *ProjectController) EditAssignment(ctx *gin.Context) {
	var req service.EditAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		BindError(ctx, err)
		return
	}

	err := c.projectService.EditAssignment(ctx.Request.Context(), ctx.Param("id"), ctx.Param("assignmentId"), &req)
	if err != nil {
		RespondDomainError(ctx, err)
		return
	}

	Success(ctx, nil)
}

// DeleteAssignment handles DELETE /projects/:id/assignments/:assignmentId.
func (c *ProjectController) DeleteAssignment(ctx *gin.Context) {
	err := c.projectService.DeleteAssignment(ctx.Request.Context(), ctx.Param("id"), ctx.Param("assignmentId"))
	if err != nil {
		RespondDomainError(ctx, err)
		return
	}

	Success(ctx, nil)
}

// BulkAssignUsers handles PUT /projects/:id/assignments/users.
func (c *ProjectController) BulkAssignUsers(ctx *gin.Context) {
	var entries []service.BulkAssignEntry
	if err := ctx.ShouldBindJSON(&entries); err != nil {
		BindError(ctx, err)
		return
	}

	if err := c.projectService.BulkAssignUsers(ctx.Request.Context(), ctx.Param("id"), entries); err != nil {
		RespondDomainError(ctx, err)
		return
	}

	Success(ctx, nil)
}

// SaveLayout handles PUT /projects/:id/layout.
func (c *ProjectController) SaveLayout(ctx *gin.Context) {
	var entries []service.LayoutEntry
	if err := ctx.ShouldBindJSON(&entries); err != nil {
		BindError(ctx, err)
		return
	}

	if err := c.projectService.SaveLayout(ctx.Request.Context(), ctx.Param("id"), entries); err != nil {
		RespondDomainError(ctx, err)
		return
	}

	Success(ctx, nil)
}
