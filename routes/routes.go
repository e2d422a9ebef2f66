package routes

import (
	"pio-submission-api/controllers"
	"pio-submission-api/middleware"
	"pio-submission-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/login", controllers.Login)

			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "PIO Submission API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Notifications (every authenticated user sees their own)
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/counter", controllers.GetNotificationCounter)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
			}

			// Everything below is the PIO panel
			pio := protected.Group("")
			pio.Use(middleware.RequireRole(models.RolePIO))
			{
				// Org hierarchy registries
				campuses := pio.Group("/campuses")
				{
					campuses.GET("", controllers.GetCampuses)
					campuses.POST("", controllers.CreateCampus)
					campuses.PUT("/:id", controllers.UpdateCampus)
					campuses.DELETE("/:id", controllers.DeleteCampus)
				}

				colleges := pio.Group("/colleges")
				{
					colleges.GET("", controllers.GetColleges)
					colleges.POST("", controllers.CreateCollege)
					colleges.PUT("/:id", controllers.UpdateCollege)
					colleges.DELETE("/:id", controllers.DeleteCollege)
				}

				departments := pio.Group("/departments")
				{
					departments.GET("", controllers.GetDepartments)
					departments.POST("", controllers.CreateDepartment)
					departments.PUT("/:id", controllers.UpdateDepartment)
					departments.DELETE("/:id", controllers.DeleteDepartment)
				}

				programs := pio.Group("/programs")
				{
					programs.GET("", controllers.GetPrograms)
					programs.POST("", controllers.CreateProgram)
					programs.PUT("/:id", controllers.UpdateProgram)
					programs.DELETE("/:id", controllers.DeleteProgram)
				}

				projects := pio.Group("/projects")
				{
					projects.GET("", controllers.GetProjects)
					projects.POST("", controllers.CreateProject)
					projects.PUT("/:id", controllers.UpdateProject)
					projects.DELETE("/:id", controllers.DeleteProject)
				}

				// Type registries and requirement checklists
				pubTypes := pio.Group("/publication-types")
				{
					pubTypes.GET("", controllers.GetPublicationTypes)
					pubTypes.POST("", controllers.CreatePublicationType)
					pubTypes.PUT("/:id", controllers.UpdatePublicationType)
					pubTypes.DELETE("/:id", controllers.DeletePublicationType)
					pubTypes.GET("/:id/requirements", controllers.GetPublicationTypeRequirements)
					pubTypes.POST("/:id/requirements", controllers.AttachPublicationTypeRequirement)
					pubTypes.DELETE("/:id/requirements/:requirement_id", controllers.DetachPublicationTypeRequirement)
				}

				innoTypes := pio.Group("/innovation-types")
				{
					innoTypes.GET("", controllers.GetInnovationTypes)
					innoTypes.POST("", controllers.CreateInnovationType)
					innoTypes.PUT("/:id", controllers.UpdateInnovationType)
					innoTypes.DELETE("/:id", controllers.DeleteInnovationType)
					innoTypes.GET("/:id/requirements", controllers.GetInnovationTypeRequirements)
					innoTypes.POST("/:id/requirements", controllers.AttachInnovationTypeRequirement)
					innoTypes.DELETE("/:id/requirements/:requirement_id", controllers.DetachInnovationTypeRequirement)
				}

				requirements := pio.Group("/requirements")
				{
					requirements.GET("", controllers.GetRequirements)
					requirements.POST("", controllers.CreateRequirement)
					requirements.PUT("/:id", controllers.UpdateRequirement)
					requirements.DELETE("/:id", controllers.DeleteRequirement)
				}

				// User management
				users := pio.Group("/users")
				{
					users.GET("", controllers.GetUsers)
					users.POST("", controllers.CreateUser)
					users.PUT("/:id", controllers.UpdateUser)
					users.DELETE("/:id", controllers.DeleteUser)
				}

				// Submission workflow
				submissions := pio.Group("/submissions")
				{
					submissions.GET("", controllers.GetSubmissions)
					submissions.POST("", controllers.CreateSubmission)
					submissions.GET("/:id", controllers.GetSubmission)
					submissions.GET("/:id/status-logs", controllers.GetSubmissionStatusLogs)
					submissions.POST("/:id/action", controllers.ApplySubmissionAction)
					submissions.GET("/:id/comments", controllers.GetSubmissionComments)
					submissions.POST("/:id/comments", controllers.AddSubmissionComment)
				}

				pio.GET("/files/:file_id/download", controllers.DownloadSubmissionFile)

				// Repository of approved work
				repository := pio.Group("/repository")
				{
					repository.GET("", controllers.GetRepository)
					repository.PUT("/:id/payment", controllers.UpdatePaymentStatus)
				}
			}
		}
	}
}
