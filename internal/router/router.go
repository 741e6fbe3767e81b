package router

import (
	"log"
	"time"

	"carhub/config"
	"carhub/internal/handler"
	"carhub/internal/middleware"
	"carhub/internal/repository"
	"carhub/internal/service"
	"carhub/internal/ws"
	"carhub/pkg/cache"
	"carhub/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	// Skip gin.Logger() to reduce log noise; use gin.Default() if you need request logging
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	carRepo := repository.NewCarRepository(db)
	favRepo := repository.NewFavoriteRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	hub := ws.NewHub()

	listCache := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.ListTTL)
	if listCache != nil {
		log.Printf("[cache] listing cache enabled (%s)", cfg.Redis.Addr)
	} else if cfg.Redis.Addr != "" {
		log.Printf("[cache] listing cache disabled: redis unreachable at %s", cfg.Redis.Addr)
	}

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	notifSvc := service.NewNotificationService(notifRepo, hub)
	moderationSvc := service.NewModerationService(carRepo, notifSvc, userRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc)
	meHandler := handler.NewMeHandler(userRepo, cfg.Upload.MaxImageBytes)
	carHandler := handler.NewCarHandler(carRepo, userRepo, favRepo, moderationSvc, listCache, cfg.Upload.MaxImageBytes)
	favoriteHandler := handler.NewFavoriteHandler(favRepo, carRepo)
	notificationHandler := handler.NewNotificationHandler(notifRepo)
	adminHandler := handler.NewAdminHandler(adminRepo, userRepo)
	inquiryHandler := handler.NewInquiryHandler(carRepo, userRepo, notifSvc)
	uploadHandler := handler.NewUploadHandler(cloud, cfg.Upload.MaxImageBytes)

	authMw := middleware.AuthRequired(&cfg.JWT)
	optionalMw := middleware.OptionalAuth(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/logout", authMw, authHandler.Logout)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
		}

		// Browsing is public; auth only enriches the response.
		api.GET("/cars", optionalMw, carHandler.List)
		api.GET("/cars/:id", optionalMw, carHandler.Get)

		api.POST("/cars", authMw, carHandler.Create)
		api.PUT("/cars/:id", authMw, carHandler.Update)
		api.DELETE("/cars/:id", authMw, carHandler.Delete)
		api.PATCH("/cars/:id/status", authMw, carHandler.UpdateStatus)
		api.POST("/cars/:id/favorite", authMw, favoriteHandler.Toggle)
		api.POST("/cars/:id/contact", authMw, inquiryHandler.Contact)

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/profile", meHandler.GetProfile)
			me.PATCH("/profile", meHandler.UpdateProfile)
			me.PUT("/avatar", meHandler.UpdateAvatar)
			me.DELETE("/account", meHandler.DeactivateAccount)
			me.GET("/cars", carHandler.MyListings)
			me.GET("/favorites", favoriteHandler.List)
			me.GET("/notifications", notificationHandler.List)
			me.GET("/notifications/unread-count", notificationHandler.UnreadCount)
			me.PUT("/notifications/:id/read", notificationHandler.MarkRead)
		}

		api.POST("/upload/image", authMw, uploadHandler.Image)

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.AdminRequired())
		{
			admin.GET("/stats", adminHandler.DashboardStats)
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/users/:id", adminHandler.GetUser)
			admin.PATCH("/users/:id", adminHandler.UpdateUser)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
			admin.GET("/cars", adminHandler.ListCars)
			admin.GET("/cars/pending", adminHandler.PendingCars)
			admin.GET("/approvals", notificationHandler.PendingApprovals)
			admin.PUT("/cars/:id/approve", carHandler.Approve)
			admin.PUT("/cars/:id/reject", carHandler.Reject)
		}
	}

	r.GET("/ws/notifications", ws.UpgradeNotificationsWS(&cfg.JWT, hub))

	return r
}
