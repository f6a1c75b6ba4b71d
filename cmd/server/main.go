package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"easyride/internal/config"
	handlers "easyride/internal/handlers/shared"
	"easyride/internal/middleware"
	"easyride/internal/repositories/mongodb"
	"easyride/internal/services"
	"easyride/internal/utils"
	"easyride/pkg/cache"
	"easyride/pkg/cities"
	"easyride/pkg/database"
	"easyride/pkg/identity"
	"easyride/pkg/logger"
	"easyride/pkg/mailer"
	"easyride/pkg/push"
	"easyride/pkg/websocket"
	"easyride/routes"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:      logger.LogLevel(cfg.App.LogLevel),
		Format:     cfg.App.LogFormat,
		Output:     cfg.App.LogOutput,
		TimeFormat: time.RFC3339,
		AppName:    cfg.App.Name,
		Version:    cfg.App.Version,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.WithError(err).Fatal("Server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger *logger.Logger) error {
	mongoDB, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	defer func() {
		if err := mongoDB.Close(); err != nil {
			appLogger.WithError(err).Warn("Failed to close mongodb connection")
		}
	}()

	if err := database.NewMigrator(mongoDB.Database, appLogger).Up(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	checks := map[string]handlers.Pinger{"mongodb": mongoDB}

	var redisCache *cache.RedisCache
	var cacheService services.CacheService
	if cfg.Redis.Enabled {
		redisCache, err = cache.NewRedisCache(&cache.RedisConfig{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisCache.Close()

		cacheService = services.NewCacheService(redisCache)
		checks["redis"] = redisCache
	} else {
		appLogger.Warn("Redis disabled, using in-process cache and local event delivery")
		cacheService = services.NewMemoryCacheService()
	}

	// Repositories
	userRepo := mongodb.NewUserRepository(mongoDB.Database, cacheService, cfg.Redis.ProfileTTL)
	rideRepo := mongodb.NewRideRepository(mongoDB.Database)
	bookingRepo := mongodb.NewBookingRepository(mongoDB.Database)
	chatRepo := mongodb.NewChatRepository(mongoDB.Database)
	notificationRepo := mongodb.NewNotificationRepository(mongoDB.Database)

	var mail mailer.Mailer
	if cfg.SMTP.Enabled {
		mail = mailer.NewSMTPMailer(&mailer.SMTPConfig{
			Host:      cfg.SMTP.Host,
			Port:      cfg.SMTP.Port,
			Username:  cfg.SMTP.Username,
			Password:  cfg.SMTP.Password,
			FromEmail: cfg.SMTP.FromEmail,
			FromName:  cfg.SMTP.FromName,
		})
	} else {
		appLogger.Warn("SMTP disabled, outgoing email is kept in memory")
		mail = mailer.NewMemoryMailer()
	}

	firebaseConfig := &identity.FirebaseConfig{
		ProjectID:       cfg.Identity.Firebase.ProjectID,
		CredentialsFile: cfg.Identity.Firebase.CredentialsFile,
		APIKey:          cfg.Identity.Firebase.APIKey,
		ContinueURL:     cfg.Identity.Firebase.ContinueURL,
		RESTEndpoint:    cfg.Identity.Firebase.RESTEndpoint,
	}

	var firebaseApp *firebase.App
	if cfg.Identity.Provider == config.IdentityProviderFirebase || cfg.Push.Enabled {
		firebaseApp, err = identity.NewFirebaseApp(ctx, firebaseConfig)
		if err != nil {
			return fmt.Errorf("failed to initialize firebase: %w", err)
		}
	}

	identityProvider, err := newIdentityProvider(ctx, cfg, firebaseApp, firebaseConfig, mongoDB, mail)
	if err != nil {
		return err
	}

	var pushProvider push.PushProvider = push.NoopProvider{}
	if cfg.Push.Enabled {
		messagingClient, err := firebaseApp.Messaging(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize firebase messaging: %w", err)
		}
		pushProvider = push.NewFCMProvider(messagingClient)
	}

	// Realtime
	hub := websocket.NewHub(appLogger)
	eventService := services.NewEventService(hub, redisCache, cfg.Redis.EventChannel, appLogger)

	// Services
	accessService := services.NewAccessService(userRepo, cfg.Access, appLogger)
	userService := services.NewUserService(userRepo, notificationRepo, identityProvider, eventService, appLogger)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, eventService, pushProvider, cfg.Push.Timeout, appLogger)
	rideService := services.NewRideService(rideRepo, userRepo, notificationService, appLogger)
	bookingService := services.NewBookingService(bookingRepo, rideRepo, notificationService, eventService, mail, cfg.Booking, appLogger)
	chatService := services.NewChatService(chatRepo, rideRepo, userRepo, eventService, cfg.Chat, appLogger)
	cityProvider := cities.NewCountriesNowClient(cfg.Cities.Endpoint, cfg.Cities.Country, cfg.Cities.Timeout)
	cityService := services.NewCityService(cityProvider, cacheService, rideRepo, appLogger)
	adminService := services.NewAdminService(userRepo, rideRepo, bookingRepo, identityProvider, notificationService,
		cityService, eventService, cfg.Platform, appLogger)

	hub.SetSessionHandler(services.NewChatSessionHandler(chatService, appLogger))

	go hub.Run(ctx)
	go func() {
		if err := eventService.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			appLogger.WithError(err).Error("Event relay stopped")
		}
	}()
	go runChatDedup(ctx, chatService, cfg.Chat.DedupInterval, appLogger)

	// HTTP
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
		return fmt.Errorf("invalid trusted proxies: %w", err)
	}

	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))
	router.Use(middleware.LoggingMiddleware(appLogger))

	routes.Setup(router, &routes.Handlers{
		Auth:         handlers.NewAuthHandler(userService, appLogger),
		Access:       handlers.NewAccessHandler(accessService),
		Profile:      handlers.NewProfileHandler(userService, appLogger),
		Ride:         handlers.NewRideHandler(rideService, appLogger),
		Booking:      handlers.NewBookingHandler(bookingService, appLogger),
		Chat:         handlers.NewChatHandler(chatService, appLogger),
		Notification: handlers.NewNotificationHandler(notificationService, appLogger),
		City:         handlers.NewCityHandler(cityService),
		Admin:        handlers.NewAdminHandler(adminService, appLogger),
		Health:       handlers.NewHealthHandler(cfg.App.Version, checks),
		WebSocket: websocket.NewHandler(hub, websocket.Options{
			ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
			WriteBufferSize: cfg.WebSocket.WriteBufferSize,
			AllowedOrigins:  cfg.WebSocket.AllowedOrigins,
			UserIDKey:       utils.ContextKeyUserID,
		}),
		WebSocketPath: cfg.WebSocket.Path,
	}, &routes.Guards{
		Auth:   middleware.NewAuthMiddleware(identityProvider, appLogger),
		Access: accessService,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		appLogger.Infof("Starting %s %s on port %d", cfg.App.Name, cfg.App.Version, cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	appLogger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newIdentityProvider(
	ctx context.Context,
	cfg *config.Config,
	app *firebase.App,
	firebaseConfig *identity.FirebaseConfig,
	mongoDB *database.MongoDB,
	mail mailer.Mailer,
) (identity.Provider, error) {
	if cfg.Identity.Provider == config.IdentityProviderFirebase {
		provider, err := identity.NewFirebaseProvider(ctx, app, mail, firebaseConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize firebase auth: %w", err)
		}
		return provider, nil
	}

	store := identity.NewMongoCredentialStore(mongoDB.Collection(database.CredentialsCollection))
	return identity.NewLocalProvider(store, mail, identity.LocalConfig{
		Secret:            cfg.Security.JWTSecret,
		AccessTokenTTL:    cfg.Security.JWTAccessTokenTTL,
		VerificationTTL:   cfg.Security.VerificationTTL,
		PasswordMinLength: cfg.Security.PasswordMinLength,
		VerificationURL:   cfg.App.FrontendURL + "/verify-email",
	}), nil
}

// runChatDedup periodically merges duplicate chats left by concurrent
// starts on different instances.
func runChatDedup(ctx context.Context, chats services.ChatService, interval time.Duration, appLogger *logger.Logger) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			merged, err := chats.DeduplicateChats(ctx)
			if err != nil {
				appLogger.WithError(err).Warn("Chat deduplication failed")
				continue
			}
			if merged > 0 {
				appLogger.WithField("merged", merged).Info("Merged duplicate chats")
			}
		}
	}
}
