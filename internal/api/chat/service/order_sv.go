package chatService

import (
	"time"

	"golang.org/x/net/context"

	"ChatbotGolang/internal/api/chat"
	"ChatbotGolang/internal/entity"
	contextPkg "ChatbotGolang/pkg/context"
	"ChatbotGolang/pkg/log"
)

func (s *chatService) GetLatestOrder(ctx context.Context, customerName string) (entity.Order, error) {
	return s.latestOrder(ctx, customerName)
}

// GetOrderHistory lists every stored order for a customer, newest
// first. History always comes from postgres; the cache only holds the
// latest order.
func (s *chatService) GetOrderHistory(ctx context.Context, customerName string) ([]entity.Order, error) {
	client, err := s.chatRepository.NewClient(false)
	if err != nil {
		return nil, err
	}

	orders, err := client.Order.GetOrdersByName(ctx, customerName)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, chat.ErrOrderNotFound
	}

	return orders, nil
}

// UpdateOrderStatus moves a customer's latest order through the kitchen
// lifecycle and keeps the last-order cache in step, so status lookups
// in the dialogue reflect the change immediately.
func (s *chatService) UpdateOrderStatus(ctx context.Context, customerName string, status entity.OrderStatus) (entity.Order, error) {
	requestID := contextPkg.GetRequestID(ctx)

	switch status {
	case entity.OrderStatusPreparing, entity.OrderStatusReady, entity.OrderStatusDelivered:
	default:
		return entity.Order{}, chat.ErrInvalidOrderStatus
	}

	client, err := s.chatRepository.NewClient(false)
	if err != nil {
		return entity.Order{}, err
	}

	order, err := client.Order.GetLatestOrderByName(ctx, customerName)
	if err != nil {
		return entity.Order{}, err
	}

	if err := client.Order.UpdateOrderStatus(ctx, order.ID, status); err != nil {
		return entity.Order{}, err
	}

	order.Status = status
	order.UpdatedAt = time.Now()

	if err := s.redis.SetLastOrder(ctx, order.CustomerName, order, s.opts.HistoryTTL); err != nil {
		s.log.WithFields(log.Fields{
			"request_id":    requestID,
			"order_id":      order.ID,
			"customer_name": order.CustomerName,
			"error":         err.Error(),
		}).Warn("Failed to refresh order cache after status update")
	}

	s.log.WithFields(log.Fields{
		"request_id": requestID,
		"order_id":   order.ID,
		"status":     string(status),
	}).Info("Order status updated")

	return order, nil
}
