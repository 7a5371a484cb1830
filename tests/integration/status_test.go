package integration

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/erdalnejdet/MYE-aydinlatma-be/internal/database"
	"github.com/erdalnejdet/MYE-aydinlatma-be/internal/models"
	"github.com/erdalnejdet/MYE-aydinlatma-be/internal/store"
)

func placeOrder(t *testing.T, db *sql.DB) *store.CheckoutResult {
	t.Helper()

	result, err := store.Checkout(context.Background(), db, checkoutInput(store.CheckoutItem{
		Name:      "Avize Klasik 5li",
		UnitPrice: decimal.NewFromFloat(1890.00),
		Quantity:  1,
	}))
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	return result
}

func TestStatusHappyPath(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	order := placeOrder(t, db)

	for _, target := range []string{
		models.StatusPreparing,
		models.StatusShipped,
		models.StatusCompleted,
	} {
		result, err := store.TransitionOrderStatus(ctx, db, order.OrderID, target, "admin", "")
		if err != nil {
			t.Fatalf("Transition to %s: %v", target, err)
		}
		if result.Order.Status != target {
			t.Errorf("Expected status %s, got %s", target, result.Order.Status)
		}
	}

	history, err := store.ListStatusHistory(ctx, db, order.OrderID)
	if err != nil {
		t.Fatalf("List history: %v", err)
	}
	// Initial row plus three transitions.
	if len(history) != 4 {
		t.Fatalf("Expected 4 history rows, got %d", len(history))
	}
	if history[0].OldStatus != nil {
		t.Errorf("First history row should have NULL old_status, got %v", *history[0].OldStatus)
	}
	if history[3].NewStatus != models.StatusCompleted {
		t.Errorf("Last history row should be completed, got %s", history[3].NewStatus)
	}
}

func TestStatusDirectCompletionRejected(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	order := placeOrder(t, db)

	_, err := store.TransitionOrderStatus(ctx, db, order.OrderID, models.StatusCompleted, "admin", "")
	if !errors.Is(err, database.ErrInvalidTransition) {
		t.Fatalf("Expected invalid transition error, got: %v", err)
	}

	var invalid *store.InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("Expected InvalidTransitionError, got %T", err)
	}
	if len(invalid.Allowed) != 2 {
		t.Errorf("Error should list the reachable targets, got %v", invalid.Allowed)
	}
}

func TestStatusSameStatusRejected(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	order := placeOrder(t, db)

	_, err := store.TransitionOrderStatus(ctx, db, order.OrderID, models.StatusOrderReceived, "admin", "")
	if !errors.Is(err, database.ErrSameStatus) {
		t.Fatalf("Expected same-status error, got: %v", err)
	}
}

func TestStatusUnknownRejected(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	order := placeOrder(t, db)

	_, err := store.TransitionOrderStatus(ctx, db, order.OrderID, "delivered", "admin", "")
	if !errors.Is(err, database.ErrUnknownStatus) {
		t.Fatalf("Expected unknown status error, got: %v", err)
	}
}

func TestStatusTerminalStates(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	order := placeOrder(t, db)

	if _, err := store.TransitionOrderStatus(ctx, db, order.OrderID, models.StatusCancelled, "admin", "customer request"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	for _, target := range []string{models.StatusPreparing, models.StatusCompleted, models.StatusOrderReceived} {
		_, err := store.TransitionOrderStatus(ctx, db, order.OrderID, target, "admin", "")
		if !errors.Is(err, database.ErrInvalidTransition) {
			t.Errorf("Cancelled order should reject %s, got: %v", target, err)
		}
	}
}

func TestStatusTransitionByOrderNumber(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	order := placeOrder(t, db)

	result, err := store.TransitionOrderStatusByNumber(ctx, db, order.OrderNumber, models.StatusPreparing, "depo", "picking started")
	if err != nil {
		t.Fatalf("Transition by number: %v", err)
	}
	if result.Order.ID != order.OrderID {
		t.Errorf("Expected order %d, got %d", order.OrderID, result.Order.ID)
	}
	if result.OldStatus != models.StatusOrderReceived {
		t.Errorf("Expected old status order_received, got %s", result.OldStatus)
	}
	if result.UserEmail != "ayse@example.com" {
		t.Errorf("Expected notification email for the order user, got %q", result.UserEmail)
	}

	history, err := store.ListStatusHistory(ctx, db, order.OrderID)
	if err != nil {
		t.Fatalf("List history: %v", err)
	}
	last := history[len(history)-1]
	if last.ChangedBy != "depo" || last.Note != "picking started" {
		t.Errorf("History should record actor and note, got %+v", last)
	}
}

func TestStatusOrderNotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	_, err := store.TransitionOrderStatus(ctx, db, 999, models.StatusPreparing, "admin", "")
	if !errors.Is(err, database.ErrOrderNotFound) {
		t.Fatalf("Expected order not found, got: %v", err)
	}

	_, err = store.TransitionOrderStatusByNumber(ctx, db, "MYE-00000000-000000-FFFFFFFF", models.StatusPreparing, "admin", "")
	if !errors.Is(err, database.ErrOrderNotFound) {
		t.Fatalf("Expected order not found by number, got: %v", err)
	}
}

func TestStatusCatalogSeeded(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	statuses, err := store.ListStatusCatalog(context.Background(), db)
	if err != nil {
		t.Fatalf("List status catalog: %v", err)
	}
	if len(statuses) != 6 {
		t.Fatalf("Expected 6 seeded statuses, got %d", len(statuses))
	}
	if statuses[0].Code != models.StatusOrderReceived {
		t.Errorf("Expected order_received first, got %s", statuses[0].Code)
	}
}

func TestOrderSummary(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	first := placeOrder(t, db)
	placeOrder(t, db)
	third := placeOrder(t, db)

	if _, err := store.TransitionOrderStatus(ctx, db, first.OrderID, models.StatusPreparing, "admin", ""); err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if _, err := store.TransitionOrderStatus(ctx, db, third.OrderID, models.StatusCancelled, "admin", ""); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	summary, err := store.GetOrderSummary(ctx, db)
	if err != nil {
		t.Fatalf("Get summary: %v", err)
	}
	if summary.Total != 3 {
		t.Errorf("Expected 3 orders total, got %d", summary.Total)
	}
	if summary.ByStatus[models.StatusPreparing] != 1 || summary.ByStatus[models.StatusCancelled] != 1 {
		t.Errorf("Unexpected status counts: %v", summary.ByStatus)
	}

	// Two non-cancelled orders at 1890.00 + 20% KDV each.
	expected := decimal.NewFromFloat(2268.00).Mul(decimal.NewFromInt(2))
	if !summary.TotalRevenue.Equal(expected) {
		t.Errorf("Expected revenue %s, got %s", expected, summary.TotalRevenue)
	}
}
