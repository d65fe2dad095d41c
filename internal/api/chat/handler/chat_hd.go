package chatHandler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"

	"ChatbotGolang/internal/api/chat"
	"ChatbotGolang/internal/entity"
	contextPkg "ChatbotGolang/pkg/context"
	"ChatbotGolang/pkg/handlerUtil"
	jwtPkg "ChatbotGolang/pkg/jwt"
	"ChatbotGolang/pkg/log"
)

func (h *ChatHandler) CreateSession(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing create session request")

	session, err := h.chatService.CreateSession(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "create_session")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusCreated, session)
}

func (h *ChatHandler) ProcessTurn(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing chat turn request")

	var req chat.TurnRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	sessionData, err := jwtPkg.GetSessionData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}
	req.SessionID = sessionData.SessionID

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	turn, err := h.chatService.ProcessTurn(c, req.SessionID, req.Message)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "process_turn")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, turn)
	}
}

func (h *ChatHandler) EndSession(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	sessionData, err := jwtPkg.GetSessionData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	if err := h.chatService.EndSession(c, sessionData.SessionID); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "end_session")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "Session ended successfully",
	})
}

func (h *ChatHandler) GetLatestOrder(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	name := ctx.Params("name")
	if name == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("customer name is required"), ctx.Path())
	}

	order, err := h.chatService.GetLatestOrder(c, name)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_latest_order")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, toOrderResponse(order))
}

func (h *ChatHandler) GetOrderHistory(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	name := ctx.Params("name")
	if name == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("customer name is required"), ctx.Path())
	}

	orders, err := h.chatService.GetOrderHistory(c, name)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_order_history")
	}

	response := make([]chat.OrderResponse, 0, len(orders))
	for _, order := range orders {
		response = append(response, toOrderResponse(order))
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, response)
}

func (h *ChatHandler) UpdateOrderStatus(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	name := ctx.Params("name")
	if name == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("customer name is required"), ctx.Path())
	}

	var req chat.UpdateOrderStatusRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	order, err := h.chatService.UpdateOrderStatus(c, name, entity.OrderStatus(req.Status))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "update_order_status")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, toOrderResponse(order))
}

func toOrderResponse(order entity.Order) chat.OrderResponse {
	return chat.OrderResponse{
		ID:           order.ID,
		CustomerName: order.CustomerName,
		Item:         order.Item,
		Size:         order.Size,
		Price:        order.Price,
		Status:       string(order.Status),
	}
}
