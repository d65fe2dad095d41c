package entity

import "time"

type OrderStatus string

const (
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
)

type Order struct {
	ID           string      `db:"id"`
	CustomerName string      `db:"customer_name"`
	Item         string      `db:"item"`
	Size         string      `db:"size"`
	Price        float64     `db:"price"`
	Status       OrderStatus `db:"status"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
}
