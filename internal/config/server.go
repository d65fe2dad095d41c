package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"ChatbotGolang/database/postgres"
	chatHandler "ChatbotGolang/internal/api/chat/handler"
	chatRepository "ChatbotGolang/internal/api/chat/repository"
	chatService "ChatbotGolang/internal/api/chat/service"
	"ChatbotGolang/internal/entity"
	"ChatbotGolang/internal/middleware"
	"ChatbotGolang/pkg/nlp"
	pricingPkg "ChatbotGolang/pkg/pricing"
	redisPkg "ChatbotGolang/pkg/redis"
	utilsPkg "ChatbotGolang/pkg/utils"
)

type ServerOption func(*Server) error

type Server struct {
	engine      *fiber.App
	db          *sqlx.DB
	log         *logrus.Logger
	middleware  middleware.Middleware
	validator   *validator.Validate
	utils       utilsPkg.IUtils
	handlers    []handler
	redisServer redisPkg.IRedis

	botConfig  BotConfig
	catalog    entity.IntentCatalog
	table      *nlp.Table
	normalizer *nlp.Normalizer
	pricing    pricingPkg.IPricing
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.table == nil {
		return nil, fmt.Errorf("intent table is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redisPkg.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utilsPkg.New()
		return nil
	}
}

// WithBot loads and compiles the intent catalog and builds the
// conversational runtime pieces. Catalog errors abort startup.
func WithBot() ServerOption {
	return func(s *Server) error {
		if s.validator == nil {
			return fmt.Errorf("validator must be initialized before bot config")
		}

		s.botConfig = NewBotConfig()

		catalog, err := LoadIntentCatalog(s.botConfig.IntentsPath, s.validator)
		if err != nil {
			return err
		}
		s.catalog = catalog

		table, err := CompileIntentTable(catalog, s.botConfig)
		if err != nil {
			return err
		}
		s.table = table

		s.normalizer = nlp.NewNormalizer(s.botConfig.Normalizer)
		s.pricing = pricingPkg.New(catalog, s.botConfig.DefaultSize)

		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Chat Domain
	chatRepo := chatRepository.New(s.db, s.log)
	store := chatService.NewContextStore()
	chatServices := chatService.New(
		s.log,
		s.table,
		s.normalizer,
		store,
		chatRepo,
		s.redisServer,
		s.pricing,
		s.utils,
		chatService.Options{
			MaxSlotRetries: s.botConfig.MaxSlotRetries,
			HistoryTTL:     s.botConfig.HistoryTTL,
			TokenTTL:       s.botConfig.TokenTTL,
		},
	)
	chatHandlers := chatHandler.New(s.log, s.validator, s.middleware, chatServices)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, chatHandlers)
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
