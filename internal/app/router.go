package app

import (
	"apex_tracker_backend/docs"
	"apex_tracker_backend/internal/config"
	"apex_tracker_backend/internal/middleware"
	"apex_tracker_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
		public.POST("/auth/google", c.auth.GoogleLogin)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/auth/me", c.auth.GetMe)
		authGroup.PUT("/auth/profile-pic", c.auth.UpdateProfilePic)
		authGroup.POST("/auth/avatar/upload", c.user.UploadAvatar)

		authGroup.GET("/subjects", c.subject.List)
		authGroup.POST("/subjects", c.subject.Create)
		authGroup.PUT("/subjects/:id", c.subject.Update)
		authGroup.DELETE("/subjects/:id", c.subject.Delete)
		authGroup.GET("/subjects/:id/concepts", c.subject.ListConcepts)

		authGroup.POST("/concepts", c.concept.Create)
		authGroup.PATCH("/concepts/:id/mastery", c.concept.SetMastery)
		authGroup.DELETE("/concepts/:id", c.concept.Delete)

		authGroup.GET("/sessions", c.session.List)
		authGroup.POST("/sessions", c.session.Log)
		authGroup.GET("/sessions/weekly", c.session.Weekly)
		authGroup.GET("/sessions/stats", c.session.Stats)
	}
}
