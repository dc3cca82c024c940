package cmd

import (
	"log"
	"log/slog"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	pubnub "github.com/pubnub/go"

	"event-system/config"
	"event-system/handlers"
	_ "event-system/migrations"
	"event-system/security"
	"event-system/services"
	"event-system/store"
	"event-system/utils"
)

func Start() error {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize Redis
	redisClient := utils.NewRedisClient(cfg.RedisURL)
	defer redisClient.Close()

	// Initialize PubNub for the live check-in feed (optional: without
	// keys the dashboard simply doesn't tick in realtime)
	var pn *pubnub.PubNub
	if cfg.PubNubPublishKey != "" {
		pnConfig := pubnub.NewConfig()
		pnConfig.PublishKey = cfg.PubNubPublishKey
		pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
		pnConfig.SecretKey = cfg.PubNubSecretKey
		pn = pubnub.NewPubNub(pnConfig)
	} else {
		slog.Warn("PubNub keys not configured, realtime check-in feed disabled")
	}

	// Initialize store and services
	st := store.New(app)
	userService := services.NewUserService(st)
	eventService := services.NewEventService(st, st, redisClient, cfg)
	registrationService := services.NewRegistrationService(st, st, st)
	checkinService := services.NewCheckInService(st, services.NewRealtimePublisher(pn))
	dashboardService := services.NewDashboardService(st, st)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	eventHandler := handlers.NewEventHandler(eventService, userService)
	registrationHandler := handlers.NewRegistrationHandler(registrationService, userService)
	checkinHandler := handlers.NewCheckInHandler(checkinService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, userService)

	rateLimiter := security.NewRateLimiter(redisClient, cfg.CheckinRateLimit, cfg.CheckinRateWindow)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: cfg.Environment == "development",
	})

	// Register routes
	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		// User endpoints
		e.Router.POST("/api/v1/users/sync", userHandler.Sync).Bind(apis.RequireAuth())
		e.Router.GET("/api/v1/users/me", userHandler.Me).Bind(apis.RequireAuth())
		e.Router.POST("/api/v1/users/onboarding", userHandler.CompleteOnboarding).Bind(apis.RequireAuth())
		e.Router.PUT("/api/v1/users/organizer-profile", userHandler.UpdateOrganizerProfile).Bind(apis.RequireAuth())

		// Event endpoints
		e.Router.POST("/api/v1/events", eventHandler.Create).Bind(apis.RequireAuth())
		e.Router.GET("/api/v1/events/upcoming", eventHandler.Upcoming).BindFunc(security.BlockBots())
		e.Router.GET("/api/v1/events/slug/{slug}", eventHandler.BySlug)
		e.Router.GET("/api/v1/events/mine", eventHandler.Mine).Bind(apis.RequireAuth())
		e.Router.PATCH("/api/v1/events/{eventId}", eventHandler.Update).Bind(apis.RequireAuth())
		e.Router.DELETE("/api/v1/events/{eventId}", eventHandler.Delete).Bind(apis.RequireAuth())

		// Registration endpoints
		e.Router.POST("/api/v1/events/{eventId}/register", registrationHandler.Register).Bind(apis.RequireAuth())
		e.Router.GET("/api/v1/registrations/mine", registrationHandler.Mine).Bind(apis.RequireAuth())
		e.Router.POST("/api/v1/registrations/{registrationId}/cancel", registrationHandler.Cancel).Bind(apis.RequireAuth())
		e.Router.GET("/api/v1/events/{eventId}/attendees", registrationHandler.Attendees).Bind(apis.RequireAuth())

		// Check-in endpoint (door scanners)
		e.Router.POST("/api/v1/checkin", checkinHandler.CheckIn).
			Bind(apis.RequireAuth()).
			BindFunc(rateLimiter.CheckinLimit())

		// Dashboard endpoint
		e.Router.GET("/api/v1/events/{eventId}/dashboard", dashboardHandler.EventDashboard).Bind(apis.RequireAuth())

		// Metrics
		if cfg.EnableMetrics {
			e.Router.GET("/metrics", apis.WrapStdHandler(promhttp.Handler()))
		}

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

	return app.Start()
}
