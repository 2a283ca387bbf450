package bootstrap

import (
	"context"
	"log"

	"gapguard-be/internal/config"
	"gapguard-be/internal/controller"
	"gapguard-be/internal/pkg/logger"
	"gapguard-be/internal/pkg/mailer"
	"gapguard-be/internal/repository/unitofwork"
	"gapguard-be/internal/service"
	"gapguard-be/pkg/classifier"
	"gapguard-be/pkg/embedding"
	"gapguard-be/pkg/extractor"
	"gapguard-be/pkg/llm/factory"
	"gapguard-be/pkg/ratelimit"

	pktNats "gapguard-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	DocumentController controller.IDocumentController
	GapController      controller.IGapController
	RuleController     controller.IRuleController
	ChatbotController  controller.IChatbotController
	DigestController   controller.IDigestController

	// Background services, exposed for main to run
	ConsumerService service.IConsumerService
	DigestService   service.IDigestService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// Core facades
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

	// In-process event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Embedding provider
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// LLM provider (classification, chat answers, rule suggestions)
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	docClassifier := classifier.NewLLMClassifier(llmProvider)

	// Text extraction: DOCX parsed locally, PDFs and images via OCR
	textExtractor := extractor.NewDispatcher(
		extractor.NewDocxExtractor(),
		extractor.NewGeminiVisionExtractor(cfg.Keys.GoogleGemini),
	)

	// External event bus (optional)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// Rate limiting: Redis when reachable, in-memory otherwise
	limiter := newLimiter(cfg.App.RedisURL)

	// Services
	gapService := service.NewGapService(uowFactory, natsPub, sysLogger)
	documentService := service.NewDocumentService(
		uowFactory,
		textExtractor,
		embeddingProvider,
		docClassifier,
		limiter,
		pubSub,
		natsPub,
		cfg.Keys.ProcessedTopic,
		sysLogger,
	)
	chatbotService := service.NewChatbotService(
		uowFactory,
		embeddingProvider,
		llmProvider,
		sysLogger,
	)
	ruleService := service.NewRuleService(uowFactory, llmProvider, sysLogger)

	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.ProcessedTopic,
		gapService,
		sysLogger,
	)

	digestService := service.NewDigestService(
		uowFactory,
		emailService,
		digestResolver(cfg.Digest.Recipients),
		sysLogger,
	)

	return &Container{
		DocumentController: controller.NewDocumentController(documentService),
		GapController:      controller.NewGapController(gapService),
		RuleController:     controller.NewRuleController(ruleService),
		ChatbotController:  controller.NewChatbotController(chatbotService),
		DigestController:   controller.NewDigestController(digestService, cfg.Digest.ServiceToken),

		ConsumerService: consumerService,
		DigestService:   digestService,

		Logger: sysLogger,
	}
}

func newLimiter(redisURL string) ratelimit.Limiter {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: redisURL}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Rate limiting falls back to in-memory counters", err)
		return ratelimit.NewMemoryLimiter(ratelimit.DefaultLimit, ratelimit.DefaultWindow)
	}
	return ratelimit.NewRedisLimiter(rdb, ratelimit.DefaultLimit, ratelimit.DefaultWindow)
}

func digestResolver(raw string) service.StaticEmailResolver {
	resolver := service.StaticEmailResolver{}
	for idStr, email := range config.ParseRecipients(raw) {
		userId, err := uuid.Parse(idStr)
		if err != nil {
			log.Printf("[WARN] Skipping digest recipient with invalid user id %q", idStr)
			continue
		}
		resolver[userId] = email
	}
	return resolver
}
