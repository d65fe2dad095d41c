package chatRepository

const (
	queryCreateOrder = `
		INSERT INTO orders (
			id,
			customer_name,
			item,
			size,
			price,
			status,
			created_at,
			updated_at
		) VALUES (
			:id,
			:customer_name,
			:item,
			:size,
			:price,
			:status,
			:created_at,
			:updated_at
		)
	`

	queryGetLatestOrderByName = `
		SELECT
			id,
			customer_name,
			item,
			size,
			price,
			status,
			created_at,
			updated_at
		FROM orders
		WHERE LOWER(customer_name) = LOWER(:customer_name)
		ORDER BY created_at DESC
		LIMIT 1
	`

	queryGetOrdersByName = `
		SELECT
			id,
			customer_name,
			item,
			size,
			price,
			status,
			created_at,
			updated_at
		FROM orders
		WHERE LOWER(customer_name) = LOWER(:customer_name)
		ORDER BY created_at DESC
	`

	queryUpdateOrderStatus = `
		UPDATE orders
		SET
			status = :status,
			updated_at = :updated_at
		WHERE id = :id
	`
)
