package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/modabox/modabox/backend/catalog-service/internal/models"
)

// CreateOrder inserts an order and its items in one transaction. Price is
// captured from the referenced variant (or product base price as fallback) at
// order time and never re-derived afterwards.
func (db *Database) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	language := req.Language
	if language == "" {
		language = models.LanguageEnglish
	}

	order := &models.Order{
		ID:            uuid.New().String(),
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
		Language:      language,
		Status:        models.OrderStatusPending,
	}

	for _, item := range req.Items {
		line := models.OrderItem{
			ID:               uuid.New().String(),
			OrderID:          order.ID,
			ProductID:        item.ProductID,
			ProductVariantID: item.ProductVariantID,
			Quantity:         item.Quantity,
		}

		switch {
		case item.ProductVariantID != nil:
			err = tx.QueryRow(ctx, `
                SELECT v.price, v.product_id
                FROM product_variants v
                WHERE v.variant_id = $1 AND v.is_visible = true
            `, *item.ProductVariantID).Scan(&line.Price, &line.ProductID)
		case item.ProductID != nil:
			// Product-level fallback: cheapest visible variant price. MIN over
			// zero rows is NULL, meaning the product has nothing to sell.
			var minPrice *float64
			err = tx.QueryRow(ctx, `
                SELECT MIN(price) FROM product_variants
                WHERE product_id = $1 AND is_visible = true
            `, *item.ProductID).Scan(&minPrice)
			if err == nil {
				line.Price, err = visiblePrice(minPrice)
			}
		default:
			return nil, fmt.Errorf("order item must reference a product or variant")
		}
		if err := scanOne(err, "order item reference"); err != nil {
			return nil, err
		}

		order.Items = append(order.Items, line)
		order.TotalAmount += line.Price * float64(line.Quantity)
	}

	err = tx.QueryRow(ctx, `
        INSERT INTO orders (id, customer_email, customer_name, language, total_amount, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at, updated_at
    `, order.ID, order.CustomerEmail, order.CustomerName, order.Language, order.TotalAmount, order.Status).
		Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	for _, item := range order.Items {
		_, err = tx.Exec(ctx, `
            INSERT INTO order_items (id, order_id, product_id, product_variant_id, quantity, price)
            VALUES ($1, $2, $3, $4, $5, $6)
        `, item.ID, item.OrderID, item.ProductID, item.ProductVariantID, item.Quantity, item.Price)
		if err != nil {
			return nil, fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return order, nil
}

// visiblePrice converts the nullable MIN(price) aggregate into a price. NULL
// means the product has no visible variants, which is reported as a missing
// reference rather than a server error.
func visiblePrice(min *float64) (float64, error) {
	if min == nil {
		return 0, ErrNotFound
	}
	return *min, nil
}

// GetOrder fetches a single order with its items
func (db *Database) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	err := db.Pool.QueryRow(ctx, `
        SELECT id, customer_email, customer_name, language, total_amount, status, created_at, updated_at
        FROM orders WHERE id = $1
    `, orderID).Scan(
		&order.ID, &order.CustomerEmail, &order.CustomerName, &order.Language,
		&order.TotalAmount, &order.Status, &order.CreatedAt, &order.UpdatedAt,
	)
	if err := scanOne(err, "order"); err != nil {
		return nil, err
	}

	rows, err := db.Pool.Query(ctx, `
        SELECT id, order_id, product_id, product_variant_id, quantity, price
        FROM order_items WHERE order_id = $1
    `, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductVariantID, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return &order, nil
}

// ListRecentOrders returns the most recent orders, newest first
func (db *Database) ListRecentOrders(ctx context.Context, limit int) ([]models.Order, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT id, customer_email, customer_name, language, total_amount, status, created_at, updated_at
        FROM orders
        ORDER BY created_at DESC
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		err := rows.Scan(&o.ID, &o.CustomerEmail, &o.CustomerName, &o.Language, &o.TotalAmount, &o.Status, &o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// UpdateOrderStatus updates an order's status and records the change in the
// history table within the same transaction. Returns the updated order.
func (db *Database) UpdateOrderStatus(ctx context.Context, orderID string, newStatus models.OrderStatus, reason, changedBy string) (*models.Order, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var currentStatus models.OrderStatus
	err = tx.QueryRow(ctx, "SELECT status FROM orders WHERE id = $1", orderID).Scan(&currentStatus)
	if err := scanOne(err, "order"); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx,
		"UPDATE orders SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2",
		newStatus, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO order_status_history (id, order_id, old_status, new_status, changed_by, reason)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, uuid.New().String(), orderID, currentStatus, newStatus, changedBy, reason)
	if err != nil {
		return nil, fmt.Errorf("failed to record status change: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return db.GetOrder(ctx, orderID)
}

// =================================================================================
// AGGREGATION QUERIES (inputs for the dashboard report)
// =================================================================================

// OrdersInRange returns order summaries created within [from, to)
func (db *Database) OrdersInRange(ctx context.Context, from, to time.Time) ([]models.OrderSummary, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT id, total_amount, created_at
        FROM orders
        WHERE created_at >= $1 AND created_at < $2
    `, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders in range: %w", err)
	}
	defer rows.Close()

	var orders []models.OrderSummary
	for rows.Next() {
		var o models.OrderSummary
		if err := rows.Scan(&o.ID, &o.TotalAmount, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order summary: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order summaries: %w", err)
	}

	return orders, nil
}

// CountDistinctCustomers returns the number of distinct customer emails with
// orders in [from, to)
func (db *Database) CountDistinctCustomers(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	err := db.Pool.QueryRow(ctx, `
        SELECT COUNT(DISTINCT customer_email)
        FROM orders
        WHERE created_at >= $1 AND created_at < $2
    `, from, to).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return count, nil
}

// OrderTypeRefs resolves, for each order item in range, the product type it
// touches: variant -> product -> type when the item references a variant, or
// product -> type as fallback. Items with no resolvable type are omitted.
func (db *Database) OrderTypeRefs(ctx context.Context, from, to time.Time) ([]models.OrderTypeRef, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT
            oi.order_id,
            oi.product_variant_id,
            pt.product_type_id,
            pt.name
        FROM order_items oi
        JOIN orders o ON o.id = oi.order_id
        LEFT JOIN product_variants v ON v.variant_id = oi.product_variant_id
        JOIN products p ON p.product_id = COALESCE(v.product_id, oi.product_id)
        JOIN product_types pt ON pt.product_type_id = p.product_type_id
        WHERE o.created_at >= $1 AND o.created_at < $2
    `, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query order type refs: %w", err)
	}
	defer rows.Close()

	var refs []models.OrderTypeRef
	for rows.Next() {
		var r models.OrderTypeRef
		if err := rows.Scan(&r.OrderID, &r.VariantID, &r.ProductTypeID, &r.ProductTypeName); err != nil {
			return nil, fmt.Errorf("failed to scan order type ref: %w", err)
		}
		refs = append(refs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order type refs: %w", err)
	}

	return refs, nil
}

// VariantSalesInRange returns one row per variant-referencing order item in
// [from, to), with the product name and property values needed for display.
func (db *Database) VariantSalesInRange(ctx context.Context, from, to time.Time) ([]models.VariantSale, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT
            oi.product_variant_id,
            p.name,
            COALESCE(
                (SELECT array_agg(vpv.value ORDER BY pr.display_order, pr.name)
                 FROM variant_property_values vpv
                 JOIN properties pr ON pr.property_id = vpv.property_id
                 WHERE vpv.variant_id = oi.product_variant_id),
                '{}'
            ),
            oi.quantity,
            oi.price
        FROM order_items oi
        JOIN orders o ON o.id = oi.order_id
        JOIN product_variants v ON v.variant_id = oi.product_variant_id
        JOIN products p ON p.product_id = v.product_id
        WHERE o.created_at >= $1 AND o.created_at < $2
          AND oi.product_variant_id IS NOT NULL
    `, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query variant sales: %w", err)
	}
	defer rows.Close()

	var sales []models.VariantSale
	for rows.Next() {
		var s models.VariantSale
		if err := rows.Scan(&s.VariantID, &s.ProductName, &s.PropertyValues, &s.Quantity, &s.Price); err != nil {
			return nil, fmt.Errorf("failed to scan variant sale: %w", err)
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating variant sales: %w", err)
	}

	return sales, nil
}
