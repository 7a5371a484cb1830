package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/erdalnejdet/MYE-aydinlatma-be/internal/store"
)

type ProductHandler struct {
	db  *sql.DB
	log *zap.Logger
}

func NewProductHandler(db *sql.DB, log *zap.Logger) *ProductHandler {
	return &ProductHandler{db: db, log: log}
}

type createProductPayload struct {
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	BrandID       *int64          `json:"brand_id"`
	Price         float64         `json:"price" binding:"required,gte=0"`
	StockQuantity int             `json:"stock_quantity" binding:"gte=0"`
	ImageURL      string          `json:"image_url"`
	Specs         json.RawMessage `json:"specs"`
	Reviews       json.RawMessage `json:"reviews"`
}

type updateProductPayload struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	BrandID       *int64           `json:"brand_id"`
	Price         *float64         `json:"price"`
	StockQuantity *int             `json:"stock_quantity"`
	ImageURL      *string          `json:"image_url"`
	Specs         *json.RawMessage `json:"specs"`
	Reviews       *json.RawMessage `json:"reviews"`
}

// List handles GET /api/products with search/filter/sort/pagination.
func (h *ProductHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)

	filter := store.ProductFilter{
		Search:      c.Query("search"),
		StockStatus: c.Query("stockStatus"),
		SortBy:      c.Query("sortBy"),
		SortOrder:   c.Query("sortOrder"),
		Page:        page,
		PageSize:    pageSize,
	}
	if brand, err := strconv.ParseInt(c.Query("brand"), 10, 64); err == nil {
		filter.BrandID = brand
	}
	if min, err := decimal.NewFromString(c.Query("minPrice")); err == nil {
		filter.MinPrice = &min
	}
	if max, err := decimal.NewFromString(c.Query("maxPrice")); err == nil {
		filter.MaxPrice = &max
	}

	result, err := store.ListProducts(c.Request.Context(), h.db, filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get handles GET /api/products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	product, err := store.GetProduct(c.Request.Context(), h.db, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// Create handles POST /api/products.
func (h *ProductHandler) Create(c *gin.Context) {
	var payload createProductPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	product, err := store.CreateProduct(c.Request.Context(), h.db, store.CreateProductInput{
		Name:          payload.Name,
		Description:   payload.Description,
		BrandID:       payload.BrandID,
		Price:         decimal.NewFromFloat(payload.Price),
		StockQuantity: payload.StockQuantity,
		ImageURL:      payload.ImageURL,
		Specs:         payload.Specs,
		Reviews:       payload.Reviews,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

// Update handles PUT /api/products/:id. Only fields present in the body
// are touched.
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var payload updateProductPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	patch := store.ProductPatch{
		Name:          payload.Name,
		Description:   payload.Description,
		BrandID:       payload.BrandID,
		StockQuantity: payload.StockQuantity,
		ImageURL:      payload.ImageURL,
		Specs:         payload.Specs,
		Reviews:       payload.Reviews,
	}
	if payload.Price != nil {
		price := decimal.NewFromFloat(*payload.Price)
		patch.Price = &price
	}

	product, err := store.UpdateProduct(c.Request.Context(), h.db, id, patch)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// Delete handles DELETE /api/products/:id (soft delete).
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := store.DeleteProduct(c.Request.Context(), h.db, id); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}
