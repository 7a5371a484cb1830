package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erdalnejdet/MYE-aydinlatma-be/internal/database"
	"github.com/erdalnejdet/MYE-aydinlatma-be/internal/models"
)

// CheckoutItem is one cart line. ProductID zero or negative means the item
// has no live product behind it; the snapshot is still recorded but no
// stock is touched.
type CheckoutItem struct {
	ProductID int64
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	ImageURL  string
}

type CheckoutInput struct {
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Address    string
	City       string
	District   string
	PostalCode string
	Items      []CheckoutItem
	TotalPrice decimal.Decimal
	KDV        decimal.Decimal
	GrandTotal decimal.Decimal
}

type CheckoutResult struct {
	OrderID     int64           `json:"orderId"`
	OrderNumber string          `json:"orderNumber"`
	GrandTotal  decimal.Decimal `json:"grandTotal"`
}

// InsufficientStockError names the offending item and what is actually
// available, for the client-facing rejection.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return database.ErrInsufficientStock }

// generateOrderNumber builds the human-facing identifier from the current
// time plus a short random suffix. There is no retry loop; the unique
// constraint on orders.order_number is the backstop.
func generateOrderNumber() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("MYE-%s-%s", time.Now().Format("20060102-150405"), strings.ToUpper(suffix))
}

// Checkout converts a validated cart submission into a persisted order,
// all inside one transaction: user upsert, order + initial history row,
// delivery address, payment row, item snapshots and row-locked stock
// decrements. Any failure rolls back every write.
func Checkout(ctx context.Context, db *sql.DB, in CheckoutInput) (*CheckoutResult, error) {
	var result *CheckoutResult

	err := database.WithRetry(ctx, db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		var userID int64
		err := tx.QueryRowContext(ctx,
			`INSERT INTO users (email, first_name, last_name, phone, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, NOW(), NOW())
			 ON CONFLICT (email) DO UPDATE
			 SET first_name = EXCLUDED.first_name,
			     last_name  = EXCLUDED.last_name,
			     phone      = EXCLUDED.phone,
			     updated_at = NOW()
			 RETURNING id`,
			in.Email, in.FirstName, in.LastName, in.Phone).Scan(&userID)
		if err != nil {
			return fmt.Errorf("upsert user: %w", err)
		}

		orderNumber := generateOrderNumber()
		var orderID int64
		err = tx.QueryRowContext(ctx,
			`INSERT INTO orders (order_number, user_id, total_price, kdv, grand_total, status, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
			 RETURNING id`,
			orderNumber, userID, in.TotalPrice, in.KDV, in.GrandTotal, models.StatusOrderReceived).Scan(&orderID)
		if err != nil {
			if database.IsUniqueViolation(err, "orders_order_number_key") {
				return fmt.Errorf("%s: %w", orderNumber, database.ErrDuplicateOrder)
			}
			return fmt.Errorf("create order: %w", err)
		}

		if err := appendStatusHistory(ctx, tx, orderID, nil, models.StatusOrderReceived, "checkout", ""); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO delivery_addresses (order_id, address, city, district, postal_code, created_at)
			 VALUES ($1, $2, $3, $4, $5, NOW())`,
			orderID, in.Address, in.City, in.District, in.PostalCode)
		if err != nil {
			return fmt.Errorf("create delivery address: %w", err)
		}

		// Payment is simulated pass-through; only the status is stored.
		_, err = tx.ExecContext(ctx,
			`INSERT INTO payment_info (order_id, payment_status, created_at, updated_at)
			 VALUES ($1, $2, NOW(), NOW())`,
			orderID, models.PaymentCompleted)
		if err != nil {
			return fmt.Errorf("create payment info: %w", err)
		}

		for _, item := range in.Items {
			productRef, err := reserveItemStock(ctx, tx, item)
			if err != nil {
				return err
			}

			_, err = tx.ExecContext(ctx,
				`INSERT INTO order_items (order_id, product_id, product_name, unit_price, quantity, image_url, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6, NOW())`,
				orderID, productRef, item.Name, item.UnitPrice, item.Quantity, item.ImageURL)
			if err != nil {
				return fmt.Errorf("create order item: %w", err)
			}
		}

		result = &CheckoutResult{
			OrderID:     orderID,
			OrderNumber: orderNumber,
			GrandTotal:  in.GrandTotal,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

// reserveItemStock locks the referenced product, checks availability under
// the same transaction's view and applies the decrement with its derived
// stock status. Items without a live product reference are left alone and
// recorded with a NULL product_id.
func reserveItemStock(ctx context.Context, tx *sql.Tx, item CheckoutItem) (*int64, error) {
	if item.ProductID <= 0 {
		return nil, nil
	}

	var (
		productID int64
		name      string
		current   int
	)
	err := tx.QueryRowContext(ctx,
		`SELECT id, name, stock_quantity
		 FROM products
		 WHERE id = $1 AND is_deleted = FALSE
		 FOR UPDATE`,
		item.ProductID).Scan(&productID, &name, &current)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("lock product %d: %w", item.ProductID, err)
	}

	newQuantity, newStatus, ok := AdjustStock(current, item.Quantity)
	if !ok {
		return nil, &InsufficientStockError{
			ProductID:   productID,
			ProductName: name,
			Requested:   item.Quantity,
			Available:   current,
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE products
		 SET stock_quantity = $1, stock_status = $2, updated_at = NOW()
		 WHERE id = $3`,
		newQuantity, newStatus, productID)
	if err != nil {
		return nil, fmt.Errorf("decrement stock: %w", err)
	}

	return &productID, nil
}

// GetOrder loads an order with its items, address, payment row and user.
func GetOrder(ctx context.Context, db *sql.DB, id int64) (*models.Order, error) {
	order := &models.Order{}

	err := db.QueryRowContext(ctx,
		`SELECT id, order_number, user_id, total_price, kdv, grand_total, status, created_at, updated_at
		 FROM orders
		 WHERE id = $1`,
		id).Scan(
		&order.ID,
		&order.OrderNumber,
		&order.UserID,
		&order.TotalPrice,
		&order.KDV,
		&order.GrandTotal,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, order_id, product_id, product_name, unit_price, quantity, image_url, created_at
		 FROM order_items
		 WHERE order_id = $1
		 ORDER BY id`,
		id)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		var imageURL sql.NullString
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.UnitPrice,
			&item.Quantity,
			&imageURL,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		item.ImageURL = imageURL.String
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	addr := &models.DeliveryAddress{}
	var postal sql.NullString
	err = db.QueryRowContext(ctx,
		`SELECT id, order_id, address, city, district, postal_code, created_at
		 FROM delivery_addresses
		 WHERE order_id = $1`,
		id).Scan(&addr.ID, &addr.OrderID, &addr.Address, &addr.City, &addr.District, &postal, &addr.CreatedAt)
	if err == nil {
		addr.PostalCode = postal.String
		order.Address = addr
	} else if err != sql.ErrNoRows {
		return nil, fmt.Errorf("get delivery address: %w", err)
	}

	payment := &models.PaymentInfo{}
	err = db.QueryRowContext(ctx,
		`SELECT id, order_id, payment_status, created_at, updated_at
		 FROM payment_info
		 WHERE order_id = $1`,
		id).Scan(&payment.ID, &payment.OrderID, &payment.PaymentStatus, &payment.CreatedAt, &payment.UpdatedAt)
	if err == nil {
		order.Payment = payment
	} else if err != sql.ErrNoRows {
		return nil, fmt.Errorf("get payment info: %w", err)
	}

	if order.UserID != nil {
		user, err := GetUser(ctx, db, *order.UserID)
		if err == nil {
			order.User = user
		} else if err != database.ErrUserNotFound {
			return nil, err
		}
	}

	return order, nil
}

// ListOrders returns an offset page of orders, newest first, optionally
// filtered by status.
func ListOrders(ctx context.Context, db *sql.DB, status string, page, pageSize int) (*OffsetPage, error) {
	where := ""
	args := []interface{}{}
	if status != "" {
		where = "WHERE o.status = $1"
		args = append(args, status)
	}

	var total int64
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders o `+where, args...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT o.id, o.order_number, COALESCE(u.email, ''), o.grand_total, o.status,
		        (SELECT COUNT(*) FROM order_items oi WHERE oi.order_id = o.id),
		        o.created_at
		 FROM orders o
		 LEFT JOIN users u ON u.id = o.user_id
		 %s
		 ORDER BY o.created_at DESC, o.id DESC
		 LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.OrderListItem
	for rows.Next() {
		var o models.OrderListItem
		err := rows.Scan(&o.ID, &o.OrderNumber, &o.UserEmail, &o.GrandTotal, &o.Status, &o.ItemCount, &o.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return newOffsetPage(orders, total, page, pageSize), nil
}

// GetOrderSummary aggregates order counts per status plus total revenue
// (cancelled orders excluded from revenue).
func GetOrderSummary(ctx context.Context, db *sql.DB) (*models.OrderSummary, error) {
	summary := &models.OrderSummary{
		ByStatus:     make(map[string]int64),
		TotalRevenue: decimal.Zero,
	}

	rows, err := db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count orders by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		summary.ByStatus[status] = count
		summary.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	err = db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(grand_total), 0)
		 FROM orders
		 WHERE status <> $1`,
		models.StatusCancelled).Scan(&summary.TotalRevenue)
	if err != nil {
		return nil, fmt.Errorf("sum revenue: %w", err)
	}

	return summary, nil
}
