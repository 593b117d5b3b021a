package bootstrap

import (
	"context"
	"log"

	"car-support-be/internal/config"
	"car-support-be/internal/constant"
	"car-support-be/internal/controller"
	"car-support-be/internal/pkg/logger"
	"car-support-be/internal/pkg/mailer"
	"car-support-be/internal/repository/memory"
	"car-support-be/internal/repository/unitofwork"
	"car-support-be/internal/service"
	"car-support-be/internal/websocket"
	"car-support-be/pkg/embedding"
	"car-support-be/pkg/line"
	"car-support-be/pkg/llm/factory"
	"car-support-be/pkg/routing"
	"car-support-be/pkg/routing/session"

	pktNats "car-support-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const ingestTopicName = "INGEST_KNOWLEDGE"

type Container struct {
	// Controllers
	WebhookController   controller.IWebhookController
	KnowledgeController controller.IKnowledgeController
	OperatorController  controller.IOperatorController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Gateways
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	} else {
		embeddingProvider = embedding.NewOpenAIProvider(cfg.Keys.OpenAI, cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", cfg.Ai.EmbeddingModel)
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.OpenAI,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// In-memory session window, keyed by LINE user id
	sessionRepo := memory.NewSessionRepository()
	sessions := session.NewManager(sessionRepo, cfg.Routing.HistoryLimit)

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		// A hub holding a dead client would route every broadcast into the
		// redis path and drop it; nil keeps delivery local-only instead.
		log.Printf("[WARN] Failed to connect to Redis: %v. Operator fanout is local-only", err)
		rdb.Close()
		rdb = nil
	}

	wsLogger := logger.NewIsolatedLogger("logs/operator.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	lineClient := line.NewClient(cfg.Line.ChannelSecret, cfg.Line.ChannelToken)

	// 5. Routing Core
	router := routing.NewRouter(
		routing.Config{
			TopK:                   cfg.Routing.TopK,
			ScoreThreshold:         cfg.Routing.ScoreThreshold,
			HistoryLimit:           cfg.Routing.HistoryLimit,
			Marker:                 constant.ReplyMarker,
			FallbackReply:          constant.FallbackReply,
			ManualOnPhrase:         constant.ManualModeOnPhrase,
			ManualOffPhrase:        constant.ManualModeOffPhrase,
			ManualOnAck:            constant.ManualModeOnAck,
			ManualOffAck:           constant.ManualModeOffAck,
			PrimarySystemPrompt:    constant.PrimarySystemPrompt,
			StructuredSystemPrompt: constant.StructuredSystemPrompt,
		},
		sessions,
		embeddingProvider,
		service.NewVectorSearchAdapter(uowFactory),
		service.NewStructuredSearchAdapter(uowFactory, cfg.Routing.TopK),
		llmProvider,
		sysLogger,
	)

	// 6. Services
	publisherService := service.NewPublisherService(ingestTopicName, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		ingestTopicName,
		uowFactory,
		embeddingProvider,
		cfg.Routing.ChunkSize,
		cfg.Routing.ChunkOverlap,
	)

	knowledgeService := service.NewKnowledgeService(uowFactory, publisherService)

	// A typed nil must not leak into the interface field; the service
	// nil-checks the publisher before every publish.
	var eventPub service.EventPublisher
	if natsPub != nil {
		eventPub = natsPub
	}
	webhookService := service.NewWebhookService(
		router,
		lineClient,
		uowFactory,
		eventPub,
		constant.ManualModeOnPhrase,
		constant.ManualModeOffPhrase,
		sysLogger,
	)
	operatorService := service.NewOperatorService(sessions, uowFactory)

	notifService := service.NewNotificationService(natsSub, wsHub, emailService, cfg.SMTP.OperatorEmail, wsLogger)
	if natsSub != nil {
		go notifService.Start()
	}

	// 7. Controllers
	return &Container{
		WebhookController:   controller.NewWebhookController(webhookService, lineClient, sysLogger),
		KnowledgeController: controller.NewKnowledgeController(knowledgeService, cfg.Keys.JwtSecret),
		OperatorController:  controller.NewOperatorController(operatorService, wsHub, cfg.Keys.JwtSecret, sysLogger),

		ConsumerService: consumerService,
		WebSocketHub:    wsHub,
	}
}
