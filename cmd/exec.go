package cmd

import (
	"log"
	"log/slog"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	pubnub "github.com/pubnub/go"

	"waitlist-system/config"
	"waitlist-system/internal/handlers"
	_ "waitlist-system/migrations"
	"waitlist-system/monitoring"
	"waitlist-system/security"
	"waitlist-system/services"
	"waitlist-system/utils"
)

func Start() error {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize Redis
	redisClient := utils.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()

	// Initialize PubNub; without keys we run without push and observers poll.
	var notifier services.Notifier = services.NoopNotifier{}
	if cfg.PubNubPublishKey != "" && cfg.PubNubSubscribeKey != "" {
		pnConfig := pubnub.NewConfig()
		pnConfig.PublishKey = cfg.PubNubPublishKey
		pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
		pnConfig.SecretKey = cfg.PubNubSecretKey
		notifier = services.NewPubNubNotifier(pubnub.NewPubNub(pnConfig))
	} else {
		slog.Warn("PubNub keys not configured, realtime push disabled")
	}

	// Initialize services
	store := services.NewRedisStateStore(redisClient)
	archiver := services.NewPBArchiver(app)
	waitlistService, err := services.NewWaitlistService(store, notifier, archiver, cfg)
	if err != nil {
		return err
	}

	// Initialize handlers
	queueHandler := handlers.NewQueueHandler(app, waitlistService)
	shopHandler := handlers.NewShopHandler(app, waitlistService)
	adminHandler := handlers.NewAdminHandler(app, waitlistService, archiver)

	// Middleware
	rateLimiter := security.NewRateLimiter(redisClient, cfg.RegisterRateLimit, cfg.RegisterRateWindow)
	kioskAuth := security.NewKioskAuth(cfg.KioskPasscodeHash)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	// Start background tasks
	waitlistService.StartBackground()

	var monitor *monitoring.Monitor
	if cfg.EnableMetrics {
		monitor = monitoring.NewMonitor(waitlistService.Snapshot)
		monitoring.StartOpsServer(cfg.MetricsPort, redisClient)
	}

	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		// Customer endpoints
		customer := e.Router.Group("/api/v1/waitlist")
		customer.POST("/register", queueHandler.Register).BindFunc(rateLimiter.RegisterRateLimit())
		customer.GET("/position/{displayId}", queueHandler.Position)
		customer.POST("/cancel", queueHandler.Cancel)
		customer.GET("/board", queueHandler.Board)

		// Shop kiosk endpoints
		shop := e.Router.Group("/api/v1/shop")
		shop.BindFunc(kioskAuth.Require())
		shop.POST("/register", shopHandler.Register)
		shop.POST("/arrived/{displayId}", shopHandler.Arrived)
		shop.GET("/queue", shopHandler.Queue)

		// Admin endpoints
		admin := e.Router.Group("/api/v1/admin")
		admin.POST("/call/{displayId}", adminHandler.Call)
		admin.POST("/arrived/{displayId}", adminHandler.Arrived)
		admin.POST("/absent/{displayId}", adminHandler.Absent)
		admin.POST("/complete/{displayId}", adminHandler.Complete)
		admin.POST("/remove/{displayId}", adminHandler.Remove)
		admin.POST("/accepting", adminHandler.SetAccepting)
		admin.POST("/reset-stats", adminHandler.ResetStats)
		admin.GET("/dashboard", adminHandler.Dashboard)

		// Health check
		e.Router.GET("/health", func(e *core.RequestEvent) error {
			if err := utils.RedisHealthCheck(redisClient); err != nil {
				return e.JSON(503, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
			return e.JSON(200, map[string]string{"status": "healthy"})
		})

		log.Println("Server routes registered")

		return e.Next()
	})

	app.OnTerminate().BindFunc(func(e *core.TerminateEvent) error {
		waitlistService.Shutdown()
		if monitor != nil {
			monitor.Stop()
		}
		return e.Next()
	})

	// Start server
	if err := app.Start(); err != nil {
		return err
	}
	return nil
}
