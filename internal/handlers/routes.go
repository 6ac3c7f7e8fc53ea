package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/crew-scheduling-api/internal/middleware"
	"github.com/yukikurage/crew-scheduling-api/internal/services"
)

// Handlers groups every route handler of the API.
type Handlers struct {
	Tasks       *TaskHandler
	Schedule    *ScheduleHandler
	Assignments *AssignmentHandler
	Drivers     *DriverHandler
	Vehicles    *VehicleHandler

	// TaskFinder backs RequireTask on the /api/tasks/:id routes.
	TaskFinder middleware.TaskFinder
}

// RegisterRoutes mounts the API on r. Session middleware must already be
// installed.
func RegisterRoutes(r gin.IRouter, h Handlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Crew Scheduling API is running",
		})
	})

	requireTask := middleware.RequireTask(h.TaskFinder, services.ErrTaskNotFound, h.Tasks.log)

	api := r.Group("/api")
	{
		tasks := api.Group("/tasks")
		{
			tasks.GET("", h.Tasks.ListTasks)
			tasks.POST("", h.Tasks.CreateTask)
			tasks.GET("/:id", requireTask, h.Tasks.GetTask)
			tasks.PATCH("/:id", requireTask, h.Tasks.UpdateTask)
			tasks.DELETE("/:id", requireTask, h.Tasks.DeleteTask)
		}

		sched := api.Group("/schedule")
		{
			sched.GET("", h.Schedule.GetSchedule)
			sched.GET("/unassigned", h.Schedule.UnassignedTasks)
		}

		assignments := api.Group("/assignments")
		{
			assignments.POST("", h.Assignments.CreateAssignments)
			assignments.POST("/resolve", h.Assignments.ResolveConflicts)
			assignments.POST("/move", h.Assignments.MoveTask)
			assignments.POST("/bulk", h.Assignments.BulkAssign)
			assignments.POST("/filter", h.Assignments.FilterTasks)
			assignments.PATCH("/:id", h.Assignments.UpdateAssignment)
			assignments.DELETE("/:id", h.Assignments.DeleteAssignment)
		}

		drivers := api.Group("/drivers")
		{
			drivers.GET("", h.Drivers.ListDrivers)
			drivers.POST("", h.Drivers.CreateDriver)
			drivers.GET("/:id/capacity", h.Drivers.GetCapacity)
			drivers.PUT("/:id/capacity", h.Drivers.UpdateCapacity)
			drivers.GET("/:id/hours", h.Drivers.HoursSummary)
		}

		vehicles := api.Group("/vehicles")
		{
			vehicles.GET("", h.Vehicles.ListVehicles)
			vehicles.POST("", h.Vehicles.CreateVehicle)
			vehicles.POST("/matches", h.Vehicles.MatchVehicles)
		}
	}
}
