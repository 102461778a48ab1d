package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/lakeshorecc/classreg-backend/internal/config"
	"github.com/lakeshorecc/classreg-backend/internal/handler"
	"github.com/lakeshorecc/classreg-backend/internal/middleware"
	"github.com/lakeshorecc/classreg-backend/internal/response"
	"github.com/lakeshorecc/classreg-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth         *handler.AuthHandler
	Class        *handler.ClassHandler
	Registration *handler.RegistrationHandler
	Family       *handler.FamilyHandler
	Notice       *handler.NoticeHandler
	Staff        *handler.StaffHandler
	Monitor      *handler.MonitorHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request ID first so every response carries metadata, then brotli.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for credential endpoints (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// Auth group: public login/signup, authenticated profile routes.
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)
		auth.POST("/signup", authLimiter.Middleware(), handlers.Auth.Signup)

		auth.POST("/logout", middleware.RequireAuth(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireAuth(authService), handlers.Auth.Me)
	}

	// Browse group: open classes, readable by any authenticated registrant.
	classes := router.Group("/api/v1/classes")
	classes.Use(middleware.RequireAuth(authService))
	{
		classes.GET("", middleware.CacheControl(30), handlers.Class.List)
		classes.GET("/:id", handlers.Class.Get)
	}

	// Registrations: the caller's own schedule.
	registrations := router.Group("/api/v1/registrations")
	registrations.Use(middleware.RequireAuth(authService))
	{
		registrations.GET("", handlers.Registration.ListMine)
		registrations.POST("", handlers.Registration.Register)
		registrations.DELETE("/:classId", handlers.Registration.Unregister)
	}

	// Notices: the pull surface over the cancellation ledger.
	notices := router.Group("/api/v1/notices")
	notices.Use(middleware.RequireAuth(authService))
	{
		notices.GET("", handlers.Notice.List)
		notices.PUT("/delivered", handlers.Notice.MarkDelivered)
	}

	// Family group: member tokens only; ownership enforced in the service.
	family := router.Group("/api/v1/family")
	family.Use(middleware.RequireAuth(authService))
	{
		family.POST("", handlers.Family.Create)
		family.GET("", handlers.Family.Get)
		family.DELETE("", handlers.Family.Delete)

		family.POST("/members", handlers.Family.AddMember)
		family.DELETE("/members/:memberId", handlers.Family.RemoveMember)

		family.POST("/dependents", handlers.Family.AddDependent)
		family.DELETE("/dependents/:dependentId", handlers.Family.RemoveDependent)
		family.GET("/dependents/:dependentId/registrations", handlers.Family.ListDependentRegistrations)
		family.POST("/dependents/:dependentId/registrations", handlers.Family.RegisterDependent)
		family.DELETE("/dependents/:dependentId/registrations/:classId", handlers.Family.UnregisterDependent)
	}

	// Staff group: class lifecycle and account lifecycle.
	staff := router.Group("/api/v1/staff")
	staff.Use(middleware.RequireStaff(authService))
	{
		staff.POST("/classes", handlers.Class.Create)
		staff.PUT("/classes/:id/deactivate", handlers.Class.Deactivate)
		staff.PUT("/classes/:id/reactivate", handlers.Class.Reactivate)

		staff.PUT("/registrants/:kind/:id/status", handlers.Staff.SetRegistrantStatus)
	}

	// WebSocket group: staff occupancy monitor, token via query param.
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireStaffWSAuth(authService))
	{
		ws.GET("/staff/classes/:id/occupancy", handlers.Monitor.OccupancyStream)
	}

	return router
}
