package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/erdalnejdet/MYE-aydinlatma-be/internal/store"
)

type BrandHandler struct {
	db  *sql.DB
	log *zap.Logger
}

func NewBrandHandler(db *sql.DB, log *zap.Logger) *BrandHandler {
	return &BrandHandler{db: db, log: log}
}

type createBrandPayload struct {
	Name string `json:"name" binding:"required"`
}

// List handles GET /api/brands.
func (h *BrandHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)

	result, err := store.ListBrands(c.Request.Context(), h.db, page, pageSize)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Create handles POST /api/brands. Re-submitting a soft-deleted name
// restores the original row.
func (h *BrandHandler) Create(c *gin.Context) {
	var payload createBrandPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	brand, err := store.CreateBrand(c.Request.Context(), h.db, name)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, brand)
}

// Delete handles DELETE /api/brands/:id (soft delete).
func (h *BrandHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := store.DeleteBrand(c.Request.Context(), h.db, id); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "brand deleted"})
}
