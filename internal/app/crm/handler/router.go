package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"clinicrm/internal/app/crm/util"
	"clinicrm/pkg/logger"
	"clinicrm/pkg/metrics"
)

// Handlers собирает все обработчики для маршрутизации
type Handlers struct {
	Auth       *AuthHandler
	Role       *RoleHandler
	Permission *PermissionHandler
	User       *UserHandler
	Lead       *LeadHandler
	Branch     *BranchHandler
	Doctor     *DoctorHandler
	FollowUp   *FollowUpHandler
	Comment    *CommentHandler
}

// SetupRoutes настраивает все маршруты приложения с использованием Gin
func SetupRoutes(h *Handlers, authMiddleware *AuthMiddleware) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	// JSON logging middleware для HTTP-запросов
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware("crm"))

	// CORS: AllowCredentials обязателен, токены ходят в cookie
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Content-Type", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "crm",
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Публичные эндпоинты аутентификации
	auth := router.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)

		protected := auth.Group("")
		protected.Use(authMiddleware.Authenticate())
		{
			protected.GET("/me", h.Auth.Me)
			protected.POST("/logout", h.Auth.Logout)
		}
	}

	// Управление ролями
	role := router.Group("/role")
	role.Use(authMiddleware.Authenticate())
	{
		role.POST("", authMiddleware.RequirePermissions(util.PermissionRoleCreate), h.Role.Create)
		role.GET("", authMiddleware.RequirePermissions(util.PermissionRoleRead), h.Role.List)
		role.GET("/:id", authMiddleware.RequirePermissions(util.PermissionRoleRead), h.Role.GetByID)
		role.PATCH("/:id", authMiddleware.RequirePermissions(util.PermissionRoleUpdate), h.Role.Update)
		role.DELETE("/:id", authMiddleware.RequirePermissions(util.PermissionRoleDelete), h.Role.Delete)
	}

	// Каталог разрешений (read-only)
	permission := router.Group("/permission")
	permission.Use(authMiddleware.Authenticate())
	{
		permission.GET("", authMiddleware.RequirePermissions(util.PermissionPermissionRead), h.Permission.List)
	}

	// Управление пользователями
	user := router.Group("/user")
	user.Use(authMiddleware.Authenticate())
	{
		user.POST("", authMiddleware.RequirePermissions(util.PermissionUserCreate), h.User.Create)
		user.GET("", authMiddleware.RequirePermissions(util.PermissionUserRead), h.User.List)
		user.GET("/:id", authMiddleware.RequirePermissions(util.PermissionUserRead), h.User.GetByID)
		user.PATCH("/:id", authMiddleware.RequirePermissions(util.PermissionUserUpdate), h.User.Update)
		user.DELETE("/:id", authMiddleware.RequirePermissions(util.PermissionUserDelete), h.User.Delete)
	}

	// Лиды и журнал активностей
	lead := router.Group("/lead")
	lead.Use(authMiddleware.Authenticate())
	{
		lead.POST("", authMiddleware.RequirePermissions(util.PermissionLeadCreate), h.Lead.Create)
		lead.GET("", authMiddleware.RequirePermissions(util.PermissionLeadRead), h.Lead.List)
		lead.GET("/:id", authMiddleware.RequirePermissions(util.PermissionLeadRead), h.Lead.GetByID)
		lead.PATCH("/:id", authMiddleware.RequirePermissions(util.PermissionLeadUpdate), h.Lead.Update)
		lead.DELETE("/:id", authMiddleware.RequirePermissions(util.PermissionLeadDelete), h.Lead.Delete)
		lead.GET("/:id/activity", authMiddleware.RequirePermissions(util.PermissionLeadRead), h.Lead.ListActivity)
		lead.GET("/:id/follow-up", authMiddleware.RequirePermissions(util.PermissionFollowUpRead), h.FollowUp.ListByLead)
	}

	// Комментарии к активностям лидов
	activity := router.Group("/activity")
	activity.Use(authMiddleware.Authenticate())
	{
		activity.POST("/:activity_id/comment", authMiddleware.RequirePermissions(util.PermissionCommentCreate), h.Comment.Create)
		activity.GET("/:activity_id/comment", authMiddleware.RequirePermissions(util.PermissionCommentRead), h.Comment.ListByActivity)
		activity.DELETE("/:activity_id/comment/:comment_id", authMiddleware.RequirePermissions(util.PermissionCommentDelete), h.Comment.Delete)
	}

	// Филиалы
	branch := router.Group("/branch")
	branch.Use(authMiddleware.Authenticate())
	{
		branch.POST("", authMiddleware.RequirePermissions(util.PermissionBranchCreate), h.Branch.Create)
		branch.GET("", authMiddleware.RequirePermissions(util.PermissionBranchRead), h.Branch.List)
		branch.GET("/:id", authMiddleware.RequirePermissions(util.PermissionBranchRead), h.Branch.GetByID)
		branch.PATCH("/:id", authMiddleware.RequirePermissions(util.PermissionBranchUpdate), h.Branch.Update)
		branch.DELETE("/:id", authMiddleware.RequirePermissions(util.PermissionBranchDelete), h.Branch.Delete)
	}

	// Врачи
	doctor := router.Group("/doctor")
	doctor.Use(authMiddleware.Authenticate())
	{
		doctor.POST("", authMiddleware.RequirePermissions(util.PermissionDoctorCreate), h.Doctor.Create)
		doctor.GET("", authMiddleware.RequirePermissions(util.PermissionDoctorRead), h.Doctor.List)
		doctor.GET("/:id", authMiddleware.RequirePermissions(util.PermissionDoctorRead), h.Doctor.GetByID)
		doctor.PATCH("/:id", authMiddleware.RequirePermissions(util.PermissionDoctorUpdate), h.Doctor.Update)
		doctor.DELETE("/:id", authMiddleware.RequirePermissions(util.PermissionDoctorDelete), h.Doctor.Delete)
	}

	// Follow-up контакты
	followUp := router.Group("/follow-up")
	followUp.Use(authMiddleware.Authenticate())
	{
		followUp.POST("", authMiddleware.RequirePermissions(util.PermissionFollowUpCreate), h.FollowUp.Create)
		followUp.GET("/:id", authMiddleware.RequirePermissions(util.PermissionFollowUpRead), h.FollowUp.GetByID)
		followUp.PATCH("/:id", authMiddleware.RequirePermissions(util.PermissionFollowUpUpdate), h.FollowUp.Update)
		followUp.DELETE("/:id", authMiddleware.RequirePermissions(util.PermissionFollowUpDelete), h.FollowUp.Delete)
	}

	return router
}
