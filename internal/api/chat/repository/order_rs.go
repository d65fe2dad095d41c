package chatRepository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"ChatbotGolang/internal/api/chat"
	"ChatbotGolang/internal/entity"
	contextPkg "ChatbotGolang/pkg/context"
)

type OrderDB struct {
	ID           sql.NullString  `db:"id"`
	CustomerName sql.NullString  `db:"customer_name"`
	Item         sql.NullString  `db:"item"`
	Size         sql.NullString  `db:"size"`
	Price        sql.NullFloat64 `db:"price"`
	Status       sql.NullString  `db:"status"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

func (o OrderDB) toEntity() entity.Order {
	return entity.Order{
		ID:           o.ID.String,
		CustomerName: o.CustomerName.String,
		Item:         o.Item.String,
		Size:         o.Size.String,
		Price:        o.Price.Float64,
		Status:       entity.OrderStatus(o.Status.String),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

func (r *orderRepository) CreateOrder(c context.Context, order entity.Order) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":            order.ID,
		"customer_name": order.CustomerName,
		"item":          order.Item,
		"size":          order.Size,
		"price":         order.Price,
		"status":        order.Status,
		"created_at":    time.Now(),
		"updated_at":    time.Now(),
	}

	query, args, err := sqlx.Named(queryCreateOrder, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateOrder")
		return err
	}
	query = r.q.Rebind(query)

	if _, err = r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating order")
		return err
	}

	return nil
}

func (r *orderRepository) GetLatestOrderByName(c context.Context, customerName string) (entity.Order, error) {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(queryGetLatestOrderByName, map[string]interface{}{
		"customer_name": customerName,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for GetLatestOrderByName")
		return entity.Order{}, err
	}
	query = r.q.Rebind(query)

	var row OrderDB
	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Order{}, chat.ErrOrderNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when fetching latest order")
		return entity.Order{}, err
	}

	return row.toEntity(), nil
}

func (r *orderRepository) GetOrdersByName(c context.Context, customerName string) ([]entity.Order, error) {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(queryGetOrdersByName, map[string]interface{}{
		"customer_name": customerName,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for GetOrdersByName")
		return nil, err
	}
	query = r.q.Rebind(query)

	var rows []OrderDB
	if err := r.q.SelectContext(c, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when fetching orders")
		return nil, err
	}

	orders := make([]entity.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toEntity())
	}

	return orders, nil
}

func (r *orderRepository) UpdateOrderStatus(c context.Context, id string, status entity.OrderStatus) error {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(queryUpdateOrderStatus, map[string]interface{}{
		"id":         id,
		"status":     status,
		"updated_at": time.Now(),
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for UpdateOrderStatus")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when updating order status")
		return err
	}

	return nil
}
