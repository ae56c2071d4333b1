package bootstrap

import (
	"context"

	"airicepest-be/internal/config"
	"airicepest-be/internal/controller"
	"airicepest-be/internal/handler"
	"airicepest-be/internal/pkg/logger"
	"airicepest-be/internal/pkg/mailer"
	"airicepest-be/internal/pkg/security"
	"airicepest-be/internal/pkg/storage"
	"airicepest-be/internal/pkg/timeutil"
	"airicepest-be/internal/repository/memory"
	"airicepest-be/internal/repository/unitofwork"
	"airicepest-be/internal/service"
	"airicepest-be/internal/websocket"
	pktNats "airicepest-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	HealthController      controller.IHealthController
	AuthController        controller.IAuthController
	ProfileController     controller.IProfileController
	KnowledgeController   controller.IKnowledgeController
	FeedbackController    controller.IFeedbackController
	AdminController       controller.IAdminController
	RecognitionController controller.IRecognitionController

	// Background services, started by main
	EventRelay service.IEventRelay

	// WebSockets
	LiveFeedHandler *handler.LiveFeedHandler
	WebSocketHub    *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

// NewContainer wires every dependency. A nil db selects the in-memory store.
func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config, log logger.ILogger) *Container {
	// 1. Core facades
	var uowFactory unitofwork.RepositoryFactory
	if db != nil {
		uowFactory = unitofwork.NewRepositoryFactory(db)
	} else {
		log.Warn("BOOTSTRAP", "Using in-memory storage, data is lost on restart", nil)
		uowFactory = memory.NewRepositoryFactory(memory.NewStore())
	}

	tokens := security.NewTokenService(cfg.Auth.JwtSecret)
	resolver := timeutil.NewResolver(cfg.App.DefaultTimezone)
	fileStorage := storage.NewLocalStorage(cfg.Storage.UploadDir, cfg.Storage.PublicPrefix)

	c := &Container{Logger: log}

	// 2. Infrastructure
	var emailService mailer.IEmailService
	if cfg.SMTP.Enabled() {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.Email,
			cfg.SMTP.SenderName,
		)
	}

	var remote service.RemotePublisher
	if cfg.Events.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(ctx, cfg.Events.NatsURL)
		if err != nil {
			log.Warn("BOOTSTRAP", "Failed to connect to NATS, events stay in-process", map[string]interface{}{"error": err})
		} else {
			remote = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	// 3. Event bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	wsHub := websocket.NewHub(log)
	go wsHub.Run(ctx)

	eventPublisher := service.NewEventPublisher(pubSub, cfg.Events.Topic, log)
	c.EventRelay = service.NewEventRelay(pubSub, cfg.Events.Topic, wsHub, remote, emailService, log)

	// 4. Services
	authService := service.NewAuthService(uowFactory, tokens, eventPublisher, log, nil)
	profileService := service.NewProfileService(uowFactory, log)
	knowledgeService := service.NewKnowledgeService(uowFactory, eventPublisher, log, nil)
	feedbackService := service.NewFeedbackService(uowFactory, eventPublisher, log, nil)
	adminService := service.NewAdminService(uowFactory, log, nil)
	recognitionService := service.NewRecognitionService(uowFactory, eventPublisher, log, nil)

	// 5. Controllers
	c.HealthController = controller.NewHealthController(cfg.App.Name)
	c.AuthController = controller.NewAuthController(authService, log)
	c.ProfileController = controller.NewProfileController(profileService, tokens, resolver, log)
	c.KnowledgeController = controller.NewKnowledgeController(knowledgeService, tokens, log)
	c.FeedbackController = controller.NewFeedbackController(feedbackService, fileStorage, tokens, resolver, log)
	c.AdminController = controller.NewAdminController(adminService, tokens, resolver, log)
	c.RecognitionController = controller.NewRecognitionController(recognitionService, fileStorage, tokens, resolver, log)

	c.WebSocketHub = wsHub
	c.LiveFeedHandler = handler.NewLiveFeedHandler(wsHub, tokens, log)

	return c
}

// Close releases the bus and external connections in reverse order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
