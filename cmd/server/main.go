package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/chatwave/backend/api/handler"
	"github.com/chatwave/backend/internal/config"
	"github.com/chatwave/backend/internal/infrastructure/buffer"
	"github.com/chatwave/backend/internal/infrastructure/monitor"
	pgInfra "github.com/chatwave/backend/internal/infrastructure/postgres"
	redisInfra "github.com/chatwave/backend/internal/infrastructure/redis"
	"github.com/chatwave/backend/internal/middleware"
	"github.com/chatwave/backend/internal/router"
	"github.com/chatwave/backend/internal/services"
	"github.com/chatwave/backend/internal/services/delivery"
	"github.com/chatwave/backend/internal/services/lifecycle"
	"github.com/chatwave/backend/pkg/httpcontext"
	"github.com/chatwave/backend/pkg/logger"
	"github.com/chatwave/backend/repository/postgres"
	redisRepo "github.com/chatwave/backend/repository/redis"
	accountUC "github.com/chatwave/backend/usecase/account"
	authUC "github.com/chatwave/backend/usecase/auth"
	membershipUC "github.com/chatwave/backend/usecase/membership"
	messagingUC "github.com/chatwave/backend/usecase/messaging"
	notifyUC "github.com/chatwave/backend/usecase/notify"
	profileUC "github.com/chatwave/backend/usecase/profile"
	relationshipUC "github.com/chatwave/backend/usecase/relationship"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	bufferStore, err := buffer.Open(cfg.Buffer.Path, "notifications")
	if err != nil {
		zapLogger.Fatal("failed to open buffer store", zap.Error(err))
	}
	manager.Register("buffer", func(ctx context.Context) error {
		return bufferStore.Close()
	})

	mon := monitor.New(pool, redisClient, bufferStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	requestRepo := postgres.NewFriendRequestRepository(pool)
	chatRepo := postgres.NewChatRepository(pool)
	participationRepo := postgres.NewParticipationRepository(pool)
	messageRepo := postgres.NewMessageRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.Session.TTL)

	bufferProcessor := services.NewBufferProcessor(
		bufferStore,
		mon,
		notificationRepo,
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  50,
			MaxRetries: cfg.Buffer.MaxRetry,
		},
	)
	bufferProcessor.Start()
	manager.Register("buffer_processor", func(ctx context.Context) error {
		bufferProcessor.Stop(ctx)
		return nil
	})

	hub := delivery.NewHub(cfg.Delivery.ChannelBuffer, zapLogger)
	bufferBridge := services.NewBufferBridge(bufferProcessor)
	dispatcher := notifyUC.New(notificationRepo, hub, bufferBridge, zapLogger)

	authUseCase := authUC.New(userRepo, sessionRepo, zapLogger)
	profileUseCase := profileUC.New(userRepo, zapLogger)
	relationshipUseCase := relationshipUC.New(userRepo, requestRepo, dispatcher, zapLogger)
	membershipUseCase := membershipUC.New(chatRepo, participationRepo, zapLogger)
	messagingUseCase := messagingUC.New(userRepo, messageRepo, participationRepo, dispatcher, zapLogger)
	accountUseCase := accountUC.New(userRepo, accountRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:          apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger, cfg.Session.TTL),
		Profile:       apiHandler.NewProfileHandler(profileUseCase, ctxAdapter, zapLogger),
		Friends:       apiHandler.NewFriendsHandler(relationshipUseCase, ctxAdapter, zapLogger),
		Chats:         apiHandler.NewChatsHandler(membershipUseCase, messagingUseCase, ctxAdapter, zapLogger),
		Notifications: apiHandler.NewNotificationsHandler(dispatcher, ctxAdapter, zapLogger),
		Account:       apiHandler.NewAccountHandler(accountUseCase, ctxAdapter, zapLogger),
		Events:        apiHandler.NewEventsHandler(hub, ctxAdapter, zapLogger),
		Health:        apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
