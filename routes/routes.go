package routes

import (
	"github.com/gin-gonic/gin"

	"school-results-api/controllers"
	"school-results-api/middleware"
	"school-results-api/models"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)

			// Anonymous result check: the PIN + student id pair is the
			// credential here, no token involved.
			public.POST("/check-results", controllers.CheckResults)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "School Results API is running",
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

			// Notifications
			protected.GET("/notifications", controllers.GetNotifications)
			protected.PUT("/notifications/:id/read", controllers.MarkNotificationRead)

			// Results
			results := protected.Group("/results")
			{
				results.GET("", controllers.GetResults)
				results.GET("/:id", controllers.GetResult)

				// Teachers submit; officers decide
				results.POST("", middleware.RequireRole(models.RoleTeacher), controllers.SubmitResult)
				results.POST("/:id/approve",
					middleware.RequireRole(models.RoleExamOfficer, models.RoleHeadOfExamOffice),
					controllers.ApproveResult)
				results.POST("/:id/reject",
					middleware.RequireRole(models.RoleExamOfficer, models.RoleHeadOfExamOffice),
					controllers.RejectResult)
			}

			// Batch operations live outside /results so the static
			// segments cannot collide with the :id routes
			batch := protected.Group("/batch")
			{
				batch.POST("/approve-results",
					middleware.RequireRole(models.RoleExamOfficer, models.RoleHeadOfExamOffice),
					controllers.BulkApproveResults)

				// Verification is the head office's pass
				batch.POST("/verify-results",
					middleware.RequireRole(models.RoleHeadOfExamOffice),
					controllers.VerifyResults)
			}

			// Grade change workflow
			gradeChanges := protected.Group("/grade-changes")
			{
				gradeChanges.GET("", controllers.GetGradeChangeRequests)
				gradeChanges.POST("", middleware.RequireRole(models.RoleTeacher), controllers.RequestGradeChange)
				gradeChanges.POST("/:id/resolve",
					middleware.RequireRole(models.RoleExamOfficer, models.RoleHeadOfExamOffice),
					controllers.ResolveGradeChange)
			}

			// Exam publication
			exams := protected.Group("/exams")
			{
				exams.POST("/:id/publish",
					middleware.RequireRole(models.RoleAdmin),
					controllers.PublishExamResults)
				exams.POST("/:id/release",
					middleware.RequireRole(models.RoleAdmin),
					controllers.ReleaseExam)
				exams.POST("/:id/verify-results",
					middleware.RequireRole(models.RoleHeadOfExamOffice),
					controllers.VerifyExamResults)
				exams.GET("/:id/publication", controllers.GetPublicationInfo)
			}

			// Term calendar
			years := protected.Group("/academic-years")
			{
				years.GET("/:id/current-term", controllers.GetCurrentTerm)
				years.PUT("/:id/current-term",
					middleware.RequireRole(models.RoleAdmin),
					controllers.SetCurrentTerm)
			}

			// Result check PINs
			pins := protected.Group("/pins")
			pins.Use(middleware.RequireRole(models.RoleAdmin))
			{
				pins.POST("", controllers.GeneratePin)
				pins.POST("/bulk", controllers.BulkGeneratePins)
			}

			// Student result view (published results only)
			protected.GET("/students/:id/results", controllers.GetStudentResults)
		}
	}
}
