package app

import (
	"sensen_backend/docs"
	"sensen_backend/internal/config"
	"sensen_backend/internal/middleware"
	"sensen_backend/internal/model"
	"sensen_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	// Public
	public := router.Group("/api")
	{
		public.POST("/auth/login", c.auth.Login)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerEmployeeRoutes(authGroup, c)

		admin := authGroup.Group("/admin")
		admin.Use(middleware.RoleMiddleware(model.Admin))
		a.registerAdminRoutes(admin, c)
	}
}

func (a *App) registerEmployeeRoutes(r *gin.RouterGroup, c *controllers) {
	r.GET("/auth/me", c.auth.Me)
	r.GET("/progress", c.assessment.Progress)
	r.GET("/leaderboard", c.assessment.Leaderboard)

	assessments := r.Group("/assessments")
	{
		assessments.GET("", c.assessment.List)
		assessments.POST("/:id/start", c.attempt.Start)
		assessments.POST("/:id/submit", c.attempt.Submit)
		assessments.GET("/:id/result", c.attempt.Result)
	}

	r.GET("/tutorials", c.tutorial.List)
}

func (a *App) registerAdminRoutes(r *gin.RouterGroup, c *controllers) {
	assessments := r.Group("/assessments")
	{
		assessments.GET("", c.admin.ListAssessments)
		assessments.POST("", c.admin.CreateAssessment)
		assessments.GET("/:id", c.admin.GetAssessment)
		assessments.PUT("/:id", c.admin.UpdateAssessment)
		assessments.PATCH("/:id/active", c.admin.SetActive)
		assessments.GET("/:id/attempts", c.admin.ListAttempts)
		assessments.POST("/:id/questions", c.admin.AddQuestion)
		assessments.PUT("/:id/questions/:questionId", c.admin.UpdateQuestion)
		assessments.DELETE("/:id/questions/:questionId", c.admin.DeleteQuestion)
	}

	users := r.Group("/users")
	{
		users.GET("", c.admin.ListUsers)
		users.POST("", c.admin.CreateUser)
	}

	tutorials := r.Group("/tutorials")
	{
		tutorials.POST("/youtube", c.tutorial.CreateYouTube)
		tutorials.POST("/upload", c.tutorial.Upload)
		tutorials.DELETE("/:id", c.tutorial.Delete)
	}
}
