package routes

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/volunteerhub/internal/app/controllers"
	"github.com/yigit/volunteerhub/internal/app/models"
	"github.com/yigit/volunteerhub/internal/app/models/dto"
	"github.com/yigit/volunteerhub/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Auth          *controllers.AuthController
	Event         *controllers.EventController
	Participation *controllers.ParticipationController
}

// HealthCheck reports whether a backing service is reachable
type HealthCheck func(ctx context.Context) error

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, ctrl Controllers, authMiddleware *middleware.AuthMiddleware, health HealthCheck) {
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"message": "pong"}, ""))
	})
	router.GET("/health", func(c *gin.Context) {
		if health != nil {
			if err := health(c.Request.Context()); err != nil {
				detail := dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Database unavailable")
				c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(detail))
				return
			}
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}, ""))
	})

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/volunteers", ctrl.Auth.RegisterVolunteer)
		auth.POST("/managers", ctrl.Auth.RegisterManager)
		auth.POST("/login", ctrl.Auth.Login)
	}

	public := v1.Group("/events")
	{
		public.GET("", ctrl.Event.ListEvents)
		public.GET("/:id", authMiddleware.OptionalAuth(), ctrl.Event.GetEvent)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	authenticated.GET("/me", ctrl.Auth.Me)

	volunteer := authenticated.Group("")
	volunteer.Use(authMiddleware.RoleRequired(models.RoleVolunteer))
	{
		volunteer.PUT("/me/location", ctrl.Auth.UpdateLocation)
		volunteer.GET("/me/events", ctrl.Participation.MyEvents)
		volunteer.GET("/dashboard", ctrl.Participation.Dashboard)
		volunteer.POST("/events/:id/participation", ctrl.Participation.RequestParticipation)
		volunteer.POST("/events/:id/feedback", ctrl.Participation.SubmitFeedback)
		volunteer.GET("/events/:id/certificate", ctrl.Participation.Certificate)
	}

	manager := authenticated.Group("")
	manager.Use(authMiddleware.RoleRequired(models.RoleManager))
	{
		manager.POST("/events", ctrl.Event.CreateEvent)
		manager.PUT("/events/:id", ctrl.Event.UpdateEvent)
		manager.GET("/manager/dashboard", ctrl.Event.ManagerDashboard)
		manager.GET("/events/:id/requests", ctrl.Participation.ListRequests)
		manager.POST("/events/:id/requests/:userId/approve", ctrl.Participation.ApproveRequest)
		manager.POST("/events/:id/requests/:userId/reject", ctrl.Participation.RejectRequest)
	}
}
