package bootstrap

import (
	"context"
	"fmt"
	"time"

	"ai-admissions-be/internal/config"
	"ai-admissions-be/internal/controller"
	"ai-admissions-be/internal/pkg/logger"
	"ai-admissions-be/internal/pkg/mailer"
	"ai-admissions-be/internal/repository/contract"
	"ai-admissions-be/internal/repository/implementation"
	"ai-admissions-be/internal/repository/jsonfile"
	"ai-admissions-be/internal/repository/memory"
	"ai-admissions-be/internal/service"
	"ai-admissions-be/internal/websocket"
	"ai-admissions-be/pkg/ai/router"
	"ai-admissions-be/pkg/contact"
	"ai-admissions-be/pkg/embedding"
	"ai-admissions-be/pkg/events"
	"ai-admissions-be/pkg/llm/factory"
	"ai-admissions-be/pkg/rag/response"
	"ai-admissions-be/pkg/rag/search"

	pktNats "ai-admissions-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ContactEventsTopic is the in-process topic carrying contact events.
const ContactEventsTopic = "contact_events"

type Container struct {
	Logger logger.ILogger

	ChatController   controller.IChatController
	WebSocketHandler *websocket.Handler
	WebSocketHub     *websocket.Hub

	// Exposed for the CLI and for main.go to run
	ChatService     service.IChatService
	ConsumerService service.IConsumerService

	closers []func()
}

// NewContainer wires every component. db may be nil: contacts then go to
// the JSON file and retrieval runs over the in-memory corpus.
func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core
	var sysLogger logger.ILogger
	if cfg.App.QuietConsole {
		sysLogger = logger.NewFileLogger(cfg.App.LogFilePath)
	} else {
		sysLogger = logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	}
	c := &Container{Logger: sysLogger}
	c.closers = append(c.closers, func() { _ = sysLogger.Sync() })

	if err := contact.ValidateAliases(); err != nil {
		return nil, fmt.Errorf("contact aliases: %w", err)
	}

	sessionRepo := memory.NewSessionRepository(time.Duration(cfg.Session.TTLMinutes) * time.Minute)

	// 2. Event bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })
	eventPublisher := events.NewWatermillPublisher(pubSub, ContactEventsTopic)

	var checks []service.HealthCheck

	// 3. Infrastructure
	var contactRepo contract.ContactRepository
	if db != nil {
		contactRepo = implementation.NewContactRepository(db)
		checks = append(checks, service.HealthCheck{Name: "database", Probe: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}})
	} else {
		contactRepo = jsonfile.NewContactRepository(cfg.Contacts.FilePath)
		sysLogger.Info("BOOTSTRAP", "No database configured, contacts go to JSON file", map[string]interface{}{"path": cfg.Contacts.FilePath})
	}

	var forwarder events.Publisher = events.NopPublisher{}
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to NATS, events stay in-process", map[string]interface{}{"error": err.Error()})
		} else {
			forwarder = natsPub
			c.closers = append(c.closers, natsPub.Close)
			checks = append(checks, service.HealthCheck{Name: "nats", Probe: natsPub.Ping})
		}
	}

	var statsRepo contract.StatsRepository = memory.NewStatsRepository()
	if cfg.App.RedisURL != "" {
		if rdb, err := connectRedis(cfg.App.RedisURL); err != nil {
			sysLogger.Warn("BOOTSTRAP", "Redis unavailable, route stats stay in memory", map[string]interface{}{"error": err.Error()})
		} else {
			statsRepo = implementation.NewStatsRepository(rdb)
			c.closers = append(c.closers, func() { _ = rdb.Close() })
			checks = append(checks, service.HealthCheck{Name: "redis", Probe: func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			}})
		}
	}

	// 4. AI
	llmBaseURL := cfg.Ai.LLMBaseURL
	if llmBaseURL == "" && cfg.Ai.LLMProvider == "ollama" {
		llmBaseURL = cfg.Ai.OllamaBaseURL
	}
	llmProvider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, llmBaseURL, cfg.Ai.LLMApiKey)
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}
	sysLogger.Info("BOOTSTRAP", "LLM provider ready", map[string]interface{}{"provider": cfg.Ai.LLMProvider, "model": cfg.Ai.LLMModel})

	routerCfg := router.DefaultConfig()
	routerCfg.Timeout = time.Duration(cfg.Timeouts.RouterMs) * time.Millisecond
	intentRouter := router.New(llmProvider, routerCfg, sysLogger)

	searcher := newSearcher(db, cfg, sysLogger)
	searchCfg := search.DefaultConfig()
	searchCfg.TopK = cfg.Retrieval.TopK
	searchCfg.FinalK = cfg.Retrieval.FinalK
	searchCfg.Threshold = cfg.Retrieval.Threshold
	searchCfg.Timeout = time.Duration(cfg.Timeouts.SearchMs) * time.Millisecond
	retriever, err := search.NewRetriever(searcher, searchCfg, sysLogger)
	if err != nil {
		return nil, fmt.Errorf("retriever: %w", err)
	}

	composerCfg := response.DefaultConfig()
	composerCfg.Timeout = time.Duration(cfg.Timeouts.LLMMs) * time.Millisecond
	composer := response.NewComposer(llmProvider, composerCfg, sysLogger)

	// 5. Services
	machine := contact.NewMachine(contactRepo, eventPublisher, sysLogger)
	chatService := service.NewChatService(sessionRepo, contactRepo, statsRepo, intentRouter, retriever, composer, machine, sysLogger)

	var emailService mailer.IEmailService
	if cfg.SMTP.Host != "" {
		emailService = mailer.NewEmailService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Email, cfg.SMTP.Password, cfg.SMTP.SenderName, sysLogger)
	}
	consumerService := service.NewConsumerService(pubSub, ContactEventsTopic, emailService, cfg.Contacts.AdvisorEmail, forwarder, sysLogger)

	healthService := service.NewHealthService(sessionRepo, checks...)

	// 6. Transport
	hubCtx, stopHub := context.WithCancel(context.Background())
	wsHub := websocket.NewHub(sysLogger)
	go wsHub.Run(hubCtx)
	c.closers = append(c.closers, stopHub)

	c.ChatController = controller.NewChatController(chatService, healthService)
	c.WebSocketHandler = websocket.NewHandler(wsHub, chatService)
	c.WebSocketHub = wsHub
	c.ChatService = chatService
	c.ConsumerService = consumerService

	return c, nil
}

// Close releases the connections opened by NewContainer, newest first.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

func connectRedis(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// newSearcher prefers pgvector when the chunk table has content and falls
// back to keyword search over the JSON corpus.
func newSearcher(db *gorm.DB, cfg *config.Config, log logger.ILogger) search.DocumentSearcher {
	if db != nil {
		chunkRepo := implementation.NewDocumentChunkRepository(db)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		n, err := chunkRepo.Count(ctx)
		if err == nil && n > 0 {
			log.Info("BOOTSTRAP", "Using vector search", map[string]interface{}{"chunks": n})
			return service.NewVectorSearchService(embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel), chunkRepo)
		}
		if err != nil {
			log.Warn("BOOTSTRAP", "Failed to count document chunks", map[string]interface{}{"error": err.Error()})
		}
	}

	docs, err := search.LoadCorpus(cfg.Retrieval.CorpusPath)
	if err != nil {
		log.Warn("BOOTSTRAP", "Failed to load corpus, knowledge base is empty", map[string]interface{}{
			"path":  cfg.Retrieval.CorpusPath,
			"error": err.Error(),
		})
	}
	log.Info("BOOTSTRAP", "Using in-memory corpus search", map[string]interface{}{"documents": len(docs)})
	return search.NewMemorySearcher(docs)
}
