package bootstrap

import (
	"context"
	"log"

	"lingodocs-be/internal/config"
	"lingodocs-be/internal/controller"
	"lingodocs-be/internal/handler"
	"lingodocs-be/internal/pkg/logger"
	"lingodocs-be/internal/pkg/mailer"
	"lingodocs-be/internal/pkg/serverutils"
	"lingodocs-be/internal/repository/unitofwork"
	"lingodocs-be/internal/service"
	"lingodocs-be/internal/session"
	internalWS "lingodocs-be/internal/websocket"
	"lingodocs-be/pkg/embedding"
	pktNats "lingodocs-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// trainingTopic is the in-process pipeline topic for training file
// ingestion.
const trainingTopic = "training_files.embed"

type Container struct {
	// Controllers
	AuthController         controller.IAuthController
	OAuthController        controller.IOAuthController
	UserController         controller.IUserController
	ContentController      controller.IContentController
	NotificationController controller.INotificationController
	ActivityController     controller.IActivityController
	ProjectController      controller.IProjectController
	SupportController      controller.ISupportController
	AssistantController    controller.IAssistantController
	AdminController        controller.IAdminController

	ChatHandler  *handler.ChatHandler
	WebSocketHub *internalWS.Hub

	// Background workers, run by main.go
	IngestService  service.IIngestService
	SessionService *service.SessionService

	SessionStore session.Store
	Logger       logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
	)

	// In-process pipeline for ingest work.
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)

	embeddingProvider := embedding.NewHTTPProvider(cfg.Ai.EmbeddingBaseURL, cfg.Ai.EmbeddingModel)

	// NATS event bus. The app stays up without it; events are then dropped.
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS subscriber: %v", err)
	}

	// Redis, optional, for cross-instance websocket fan-out.
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v", err)
		} else {
			rdb = redis.NewClient(opt)
			if _, err := rdb.Ping(context.Background()).Result(); err != nil {
				log.Printf("[WARN] Failed to connect to Redis: %v", err)
			}
		}
	}

	// Session storage: database-backed with an in-memory fallback the
	// resilient wrapper switches to when the database misbehaves.
	gormStore := session.NewGormStore(db)
	memoryStore := session.NewMemoryStore()
	sessionStore := session.NewResilientStore(gormStore, gormStore, memoryStore, sysLogger)

	var publisher service.EventPublisher
	if natsPub != nil {
		publisher = natsPub
	}

	activityService := service.NewActivityService(uowFactory, sysLogger)
	authService := service.NewAuthService(uowFactory, sessionStore, emailService, publisher, activityService, sysLogger)
	oauthService := service.NewOAuthService(cfg.Auth, cfg.App.BaseURL, uowFactory, sessionStore, activityService, publisher, sysLogger)

	sessionAuth := serverutils.NewSessionAuth(sessionStore, uowFactory, oauthService, cfg.Auth.SessionSecret, sysLogger)

	userService := service.NewUserService(uowFactory, sessionStore, activityService, publisher, sysLogger)
	contentService := service.NewContentService(uowFactory, activityService, sysLogger)
	projectService := service.NewProjectService(uowFactory)
	supportService := service.NewSupportService(uowFactory, emailService, publisher, sysLogger)
	adminService := service.NewAdminService(uowFactory)

	// Websocket hub with a dedicated log file, as chat traffic is noisy.
	chatLogger := logger.NewIsolatedLogger(cfg.App.ChatLogFilePath)
	presence := service.NewPresenceService(uowFactory, chatLogger)
	wsHub := internalWS.NewHub(rdb, presence, chatLogger)
	go wsHub.Run()

	chatService := service.NewChatService(uowFactory, wsHub, publisher, chatLogger)
	notificationService := service.NewNotificationService(uowFactory, natsSub, wsHub, sysLogger)
	if natsSub != nil {
		go notificationService.Start()
	}

	assistantService := service.NewAssistantService(uowFactory, embeddingProvider, pubSub, trainingTopic, sysLogger)
	ingestService := service.NewIngestService(pubSub, trainingTopic, uowFactory, embeddingProvider, sysLogger)
	sessionService := service.NewSessionService(uowFactory, sessionStore, publisher, sysLogger)

	secureCookies := cfg.App.Environment == "production"

	return &Container{
		AuthController:         controller.NewAuthController(authService, sessionAuth, cfg.Auth.SessionSecret, secureCookies),
		OAuthController:        controller.NewOAuthController(oauthService, cfg.App.ClientURL, cfg.Auth.SessionSecret, secureCookies),
		UserController:         controller.NewUserController(userService, sessionAuth),
		ContentController:      controller.NewContentController(contentService, sessionAuth),
		NotificationController: controller.NewNotificationController(notificationService, sessionAuth),
		ActivityController:     controller.NewActivityController(activityService, sessionAuth),
		ProjectController:      controller.NewProjectController(projectService, sessionAuth),
		SupportController:      controller.NewSupportController(supportService, sessionAuth),
		AssistantController:    controller.NewAssistantController(assistantService, sessionAuth),
		AdminController:        controller.NewAdminController(adminService, sessionAuth),

		ChatHandler:  handler.NewChatHandler(chatService, wsHub, sessionAuth, chatLogger),
		WebSocketHub: wsHub,

		IngestService:  ingestService,
		SessionService: sessionService,
		SessionStore:   sessionStore,
		Logger:         sysLogger,
	}
}
