package chat

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

type TurnRequest struct {
	Message string `json:"message" validate:"required,max=500"`

	SessionID string `json:"-"`
}

type TurnResponse struct {
	Reply string `json:"reply"`
	Ended bool   `json:"ended"`
}

type OrderResponse struct {
	ID           string  `json:"id"`
	CustomerName string  `json:"customer_name"`
	Item         string  `json:"item"`
	Size         string  `json:"size"`
	Price        float64 `json:"price"`
	Status       string  `json:"status"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=preparing ready delivered"`
}
