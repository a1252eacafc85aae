package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marcosfaria19/clarohub-sub000/internal/config"
	"github.com/marcosfaria19/clarohub-sub000/internal/ws"
	"gorm.io/gorm"
)

// Controllers groups the route handlers wired by SetupRoutes.
type Controllers struct {
	Projects *ProjectController
	Tasks    *TaskController
	Uploads  *UploadController
}

// SetupRoutes builds the router: global middleware, infrastructure
// endpoints, the board websocket and the versioned API surface.
func SetupRoutes(cfg *config.Config, db *gorm.DB, hub *ws.Hub, controllers Controllers) *gin.Engine {
	if config.IsProduction(cfg) {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(ErrorHandlerMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(RequestLogMiddleware())
	router.Use(SecurityHeadersMiddleware())
	router.Use(CORSMiddleware(cfg.CORS.AllowedOrigins))

	healthController := NewHealthController(db)
	router.GET("/health", healthController.Check)
	router.GET("/metrics", MetricsHandler)

	if hub != nil {
		router.GET("/ws/board", IdentityMiddleware(), ws.Handler(hub))
	}

	v1 := router.Group("/api/v1")
	v1.Use(IdentityMiddleware())
	{
		projects := v1.Group("/projects")
		{
			projects.POST("", controllers.Projects.Create)
			projects.GET("", controllers.Projects.List)
			projects.GET("/:id", controllers.Projects.Get)
			projects.PUT("/:id", controllers.Projects.Update)
			projects.DELETE("/:id", controllers.Projects.Delete)

			projects.POST("/:id/assignments", controllers.Projects.AddAssignment)
			// Fixed segments before the parameterized assignment routes;
			// gin prefers the longer match.
			projects.PUT("/:id/assignments/users", controllers.Projects.BulkAssignUsers)
			projects.PATCH("/:id/assignments/:assignmentId", controllers.Projects.EditAssignment)
			projects.DELETE("/:id/assignments/:assignmentId", controllers.Projects.DeleteAssignment)
			projects.PUT("/:id/layout", controllers.Projects.SaveLayout)

			upload := projects.Group("")
			upload.Use(RateLimitMiddleware(cfg.Flow.UploadRPS, cfg.Flow.UploadBurst))
			upload.POST("/:id/assignments/:assignmentId/upload", controllers.Uploads.Upload)
		}

		tasks := v1.Group("/tasks")
		{
			tasks.PATCH("/take/:assignmentId", controllers.Tasks.Take)
			tasks.PATCH("/transition/:taskId", controllers.Tasks.Transition)

			tasks.GET("/assignment/:assignmentId", controllers.Tasks.ListByAssignment)
			tasks.GET("/assignment/:assignmentId/user/:userId", controllers.Tasks.ListByAssignmentAndUser)
			tasks.GET("/completed/:assignmentId/user/:userId", controllers.Tasks.ListCompleted)

			tasks.GET("/:id", controllers.Tasks.Get)
			tasks.GET("/:id/history", controllers.Tasks.History)
		}
	}

	// Unmatched routes answer JSON, not HTML.
	router.NoRoute(func(c *gin.Context) {
		Error(c, http.StatusNotFound, "route not found", "the requested route does not exist")
	})

	return router
}
