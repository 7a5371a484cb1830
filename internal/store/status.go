package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erdalnejdet/MYE-aydinlatma-be/internal/database"
	"github.com/erdalnejdet/MYE-aydinlatma-be/internal/models"
)

// transitions maps each status to the set it may move to. Cancelled and
// completed are terminal.
var transitions = map[string][]string{
	models.StatusOrderReceived: {models.StatusPreparing, models.StatusCancelled},
	models.StatusPreparing:     {models.StatusShipped, models.StatusCancelled},
	models.StatusShipped:       {models.StatusCompleted, models.StatusReturned},
	models.StatusReturned:      {models.StatusCompleted, models.StatusCancelled},
	models.StatusCancelled:     {},
	models.StatusCompleted:     {},
}

func IsKnownStatus(status string) bool {
	_, ok := transitions[status]
	return ok
}

// NextStatuses returns the targets reachable from the given status.
func NextStatuses(from string) []string {
	return transitions[from]
}

func CanTransition(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// InvalidTransitionError carries the allowed targets so callers can name
// them in the rejection message.
type InvalidTransitionError struct {
	From    string
	To      string
	Allowed []string
}

func (e *InvalidTransitionError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("cannot move order from terminal status %q", e.From)
	}
	return fmt.Sprintf("cannot move order from %q to %q; allowed: %s",
		e.From, e.To, strings.Join(e.Allowed, ", "))
}

func (e *InvalidTransitionError) Unwrap() error { return database.ErrInvalidTransition }

// TransitionResult is returned on a successful status change; UserEmail
// feeds the post-commit notification and may be empty for orphaned orders.
type TransitionResult struct {
	Order     *models.Order
	OldStatus string
	UserEmail string
}

// TransitionOrderStatus validates and applies a status change in one
// transaction: the order row is locked, the transition checked against the
// table above, the row updated and a history row appended. The caller is
// responsible for any post-commit notification.
func TransitionOrderStatus(ctx context.Context, db *sql.DB, orderID int64, target, changedBy, note string) (*TransitionResult, error) {
	return transitionOrder(ctx, db, "id = $1", orderID, target, changedBy, note)
}

// TransitionOrderStatusByNumber is TransitionOrderStatus keyed by the
// human-facing order number.
func TransitionOrderStatusByNumber(ctx context.Context, db *sql.DB, orderNumber, target, changedBy, note string) (*TransitionResult, error) {
	return transitionOrder(ctx, db, "order_number = $1", orderNumber, target, changedBy, note)
}

func transitionOrder(ctx context.Context, db *sql.DB, where string, key interface{}, target, changedBy, note string) (*TransitionResult, error) {
	if !IsKnownStatus(target) {
		return nil, fmt.Errorf("%q: %w", target, database.ErrUnknownStatus)
	}

	var result *TransitionResult

	err := database.WithRetry(ctx, db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		order := &models.Order{}
		err := tx.QueryRowContext(ctx,
			`SELECT id, order_number, user_id, total_price, kdv, grand_total, status, created_at, updated_at
			 FROM orders
			 WHERE `+where+`
			 FOR UPDATE`,
			key).Scan(
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
				return database.ErrOrderNotFound
			}
			return fmt.Errorf("lock order: %w", err)
		}

		if order.Status == target {
			return fmt.Errorf("%q: %w", target, database.ErrSameStatus)
		}
		if !CanTransition(order.Status, target) {
			return &InvalidTransitionError{
				From:    order.Status,
				To:      target,
				Allowed: NextStatuses(order.Status),
			}
		}

		oldStatus := order.Status
		err = tx.QueryRowContext(ctx,
			`UPDATE orders
			 SET status = $1, updated_at = NOW()
			 WHERE id = $2
			 RETURNING status, updated_at`,
			target, order.ID).Scan(&order.Status, &order.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update order status: %w", err)
		}

		if err := appendStatusHistory(ctx, tx, order.ID, &oldStatus, target, changedBy, note); err != nil {
			return err
		}

		var email sql.NullString
		if order.UserID != nil {
			err = tx.QueryRowContext(ctx,
				`SELECT email FROM users WHERE id = $1`, *order.UserID).Scan(&email)
			if err != nil && err != sql.ErrNoRows {
				return fmt.Errorf("load order user: %w", err)
			}
		}

		result = &TransitionResult{
			Order:     order,
			OldStatus: oldStatus,
			UserEmail: email.String,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

func appendStatusHistory(ctx context.Context, tx *sql.Tx, orderID int64, oldStatus *string, newStatus, changedBy, note string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO order_status_history (order_id, old_status, new_status, changed_by, note, created_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())`,
		orderID, oldStatus, newStatus, changedBy, note)
	if err != nil {
		return fmt.Errorf("append status history: %w", err)
	}
	return nil
}

// ListStatusHistory returns the audit trail for an order, oldest first.
func ListStatusHistory(ctx context.Context, db *sql.DB, orderID int64) ([]models.OrderStatusHistory, error) {
	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, orderID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check order exists: %w", err)
	}
	if !exists {
		return nil, database.ErrOrderNotFound
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, order_id, old_status, new_status, changed_by, note, created_at
		 FROM order_status_history
		 WHERE order_id = $1
		 ORDER BY created_at, id`,
		orderID)
	if err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	defer rows.Close()

	var history []models.OrderStatusHistory
	for rows.Next() {
		var h models.OrderStatusHistory
		var changedBy, note sql.NullString
		err := rows.Scan(&h.ID, &h.OrderID, &h.OldStatus, &h.NewStatus, &changedBy, &note, &h.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan status history: %w", err)
		}
		h.ChangedBy = changedBy.String
		h.Note = note.String
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return history, nil
}

// ListStatusCatalog returns the seeded status lookup ordered for display.
func ListStatusCatalog(ctx context.Context, db *sql.DB) ([]models.OrderStatusInfo, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT code, display_name, sort_order, color
		 FROM order_statuses
		 ORDER BY sort_order`)
	if err != nil {
		return nil, fmt.Errorf("list order statuses: %w", err)
	}
	defer rows.Close()

	var statuses []models.OrderStatusInfo
	for rows.Next() {
		var s models.OrderStatusInfo
		if err := rows.Scan(&s.Code, &s.DisplayName, &s.SortOrder, &s.Color); err != nil {
			return nil, fmt.Errorf("scan order status: %w", err)
		}
		statuses = append(statuses, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return statuses, nil
}
