package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/erdalnejdet/MYE-aydinlatma-be/internal/notify"
	"github.com/erdalnejdet/MYE-aydinlatma-be/internal/store"
)

type OrderHandler struct {
	db       *sql.DB
	log      *zap.Logger
	notifier notify.Notifier
}

func NewOrderHandler(db *sql.DB, log *zap.Logger, notifier notify.Notifier) *OrderHandler {
	return &OrderHandler{db: db, log: log, notifier: notifier}
}

type statusUpdatePayload struct {
	Status    string `json:"status" binding:"required"`
	ChangedBy string `json:"changedBy"`
	Notes     string `json:"notes"`
}

// UpdateStatus handles PATCH /api/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var payload statusUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	result, err := store.TransitionOrderStatus(c.Request.Context(), h.db, id,
		payload.Status, changedByOrDefault(payload.ChangedBy), payload.Notes)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.dispatchNotification(result)
	c.JSON(http.StatusOK, result.Order)
}

// UpdateStatusByNumber handles PATCH /api/orders/by-number/:orderNumber/status.
func (h *OrderHandler) UpdateStatusByNumber(c *gin.Context) {
	orderNumber := c.Param("orderNumber")
	if orderNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order number is required"})
		return
	}

	var payload statusUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	result, err := store.TransitionOrderStatusByNumber(c.Request.Context(), h.db, orderNumber,
		payload.Status, changedByOrDefault(payload.ChangedBy), payload.Notes)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.dispatchNotification(result)
	c.JSON(http.StatusOK, result.Order)
}

// dispatchNotification fires the best-effort notifier after the status
// transaction has committed. At-most-once: failures are logged and the
// response is never held back.
func (h *OrderHandler) dispatchNotification(result *store.TransitionResult) {
	change := notify.StatusChange{
		OrderNumber: result.Order.OrderNumber,
		OldStatus:   result.OldStatus,
		NewStatus:   result.Order.Status,
		Email:       result.UserEmail,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := h.notifier.NotifyStatusChange(ctx, change); err != nil {
			h.log.Warn("status notification failed",
				zap.String("order_number", change.OrderNumber),
				zap.Error(err),
			)
		}
	}()
}

func changedByOrDefault(changedBy string) string {
	if changedBy == "" {
		return "admin"
	}
	return changedBy
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)

	result, err := store.ListOrders(c.Request.Context(), h.db, c.Query("status"), page, pageSize)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := store.GetOrder(c.Request.Context(), h.db, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// StatusHistory handles GET /api/orders/:id/status-history.
func (h *OrderHandler) StatusHistory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	history, err := store.ListStatusHistory(c.Request.Context(), h.db, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}

// Summary handles GET /api/orders/summary.
func (h *OrderHandler) Summary(c *gin.Context) {
	summary, err := store.GetOrderSummary(c.Request.Context(), h.db)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Statuses handles GET /api/orders/statuses.
func (h *OrderHandler) Statuses(c *gin.Context) {
	statuses, err := store.ListStatusCatalog(c.Request.Context(), h.db)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"statuses": statuses})
}
