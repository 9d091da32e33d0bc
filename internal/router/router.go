package router

import (
	"log"
	"time"

	"shere/config"
	"shere/internal/handler"
	"shere/internal/middleware"
	"shere/internal/repository"
	"shere/internal/service"
	"shere/internal/ws"
	"shere/pkg/cloudinary"

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
	referralRepo := repository.NewReferralRepository(db)
	purchaseRepo := repository.NewSharePurchaseRepository(db)
	withdrawalRepo := repository.NewWithdrawalRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)

	ledgerHub := ws.NewHub()

	// Services
	referralSvc := service.NewReferralService(referralRepo, userRepo)
	authSvc := service.NewAuthService(cfg, userRepo, referralSvc)
	requestSvc := service.NewRequestService(userRepo, purchaseRepo, withdrawalRepo, settingRepo)
	settlementSvc := service.NewSettlementService(ledgerRepo, purchaseRepo, withdrawalRepo)
	fcmSvc := service.NewFCMService(cfg.Firebase.ServiceAccountPath)
	if fcmSvc != nil {
		log.Printf("[FCM] Push notifications enabled")
	} else if cfg.Firebase.ServiceAccountPath != "" {
		log.Printf("[FCM] Push notifications disabled: failed to init (check service account file)")
	} else {
		log.Printf("[FCM] Push notifications disabled: set FIREBASE_SERVICE_ACCOUNT_PATH to enable")
	}
	notifSvc := service.NewNotificationService(notificationRepo, userRepo, fcmSvc)

	// Handlers
	authHandler := handler.NewAuthHandler(cfg, authSvc, userRepo)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc)
	meHandler := handler.NewMeHandler(cfg, userRepo, referralRepo, referralSvc)
	shareHandler := handler.NewShareHandler(requestSvc, purchaseRepo)
	withdrawalHandler := handler.NewWithdrawalHandler(requestSvc, withdrawalRepo)
	variablesHandler := handler.NewVariablesHandler(settingRepo)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)
	uploadHandler := handler.NewUploadHandler(cloud, userRepo)
	adminHandler := handler.NewAdminHandler(settlementSvc, notifSvc, authSvc,
		purchaseRepo, withdrawalRepo, userRepo, referralRepo, settingRepo, auditRepo, ledgerHub)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
			authGroup.POST("/google/token", googleOAuthHandler.Token)
		}

		api.GET("/variables", authMw, variablesHandler.Get)

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("", meHandler.Profile)
			me.PATCH("", meHandler.UpdateProfile)
			me.GET("/dashboard", meHandler.Dashboard)
			me.POST("/avatar", uploadHandler.Avatar)
			me.POST("/fcm-token", meHandler.RegisterFCMToken)
			me.GET("/notifications", notificationHandler.List)
			me.POST("/notifications/:id/read", notificationHandler.MarkRead)
		}

		shares := api.Group("/shares")
		shares.Use(authMw)
		{
			shares.POST("", shareHandler.Create)
			shares.GET("", shareHandler.History)
			shares.GET("/pending", shareHandler.Pending)
		}

		withdrawals := api.Group("/withdrawals")
		withdrawals.Use(authMw)
		{
			withdrawals.POST("", withdrawalHandler.Create)
			withdrawals.GET("", withdrawalHandler.History)
			withdrawals.GET("/pending", withdrawalHandler.Pending)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.AdminRequired())
		{
			admin.GET("/dashboard", adminHandler.Dashboard)
			admin.GET("/shares", adminHandler.ListSharePurchases)
			admin.POST("/shares/approve", adminHandler.ApproveSharePurchase)
			admin.POST("/shares/reject", adminHandler.RejectSharePurchase)
			admin.POST("/shares/reset", adminHandler.ResetSharePurchase)
			admin.GET("/withdrawals", adminHandler.ListWithdrawals)
			admin.POST("/withdrawals/approve", adminHandler.ApproveWithdrawal)
			admin.POST("/withdrawals/reject", adminHandler.RejectWithdrawal)
			admin.POST("/withdrawals/reset", adminHandler.ResetWithdrawal)
			admin.GET("/users/search", adminHandler.SearchUsers)
			admin.GET("/users/:id", adminHandler.GetUser)
			admin.POST("/users", adminHandler.AddUser)
			admin.PATCH("/users/:id", adminHandler.UpdateUser)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
			admin.GET("/variables", adminHandler.GetVariables)
			admin.PUT("/variables", adminHandler.UpdateVariables)
			admin.GET("/audit", adminHandler.AuditLog)
		}
	}

	r.GET("/ws/ledger", ws.UpgradeLedgerWS(&cfg.JWT, ledgerHub, func(userID uint) (interface{}, error) {
		return handler.LedgerSnapshot(userRepo, referralRepo, userID)
	}))

	return r
}
