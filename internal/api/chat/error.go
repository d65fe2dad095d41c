package chat

import "errors"

var (
	ErrSessionEnded       = errors.New("session has ended")
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidOrderStatus = errors.New("invalid order status")
)
