package chatHandler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	chatService "ChatbotGolang/internal/api/chat/service"
	"ChatbotGolang/internal/middleware"
)

type ChatHandler struct {
	log         *logrus.Logger
	validator   *validator.Validate
	middleware  middleware.Middleware
	chatService chatService.IChatService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	chatService chatService.IChatService,
) *ChatHandler {
	return &ChatHandler{
		log:         log,
		validator:   validate,
		middleware:  middleware,
		chatService: chatService,
	}
}

func (h *ChatHandler) Start(srv fiber.Router) {
	chat := srv.Group("/chat")

	chat.Post("/sessions", h.middleware.NewRateLimiter, h.CreateSession)
	chat.Post("/turns", h.middleware.NewRateLimiter, h.middleware.NewTokenMiddleware, h.ProcessTurn)
	chat.Delete("/sessions", h.middleware.NewTokenMiddleware, h.EndSession)
	chat.Get("/orders/:name", h.middleware.NewRateLimiter, h.GetLatestOrder)
	chat.Get("/orders/:name/history", h.middleware.NewRateLimiter, h.GetOrderHistory)
	chat.Put("/orders/:name/status", h.middleware.NewRateLimiter, h.UpdateOrderStatus)
}
