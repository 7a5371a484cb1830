package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/erdalnejdet/MYE-aydinlatma-be/internal/database"
	"github.com/erdalnejdet/MYE-aydinlatma-be/internal/models"
)

type CreateProductInput struct {
	Name          string
	Description   string
	BrandID       *int64
	Price         decimal.Decimal
	StockQuantity int
	ImageURL      string
	Specs         json.RawMessage
	Reviews       json.RawMessage
}

// ProductPatch updates only the fields that are set. Nil means "leave
// unchanged"; stock_status is re-derived whenever StockQuantity is present.
type ProductPatch struct {
	Name          *string
	Description   *string
	BrandID       *int64
	Price         *decimal.Decimal
	StockQuantity *int
	ImageURL      *string
	Specs         *json.RawMessage
	Reviews       *json.RawMessage
}

// ProductFilter is the list query surface: free-text search, brand,
// stock status, price range, whitelisted sorting and offset pagination.
type ProductFilter struct {
	Search      string
	BrandID     int64
	StockStatus string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	SortBy      string
	SortOrder   string
	Page        int
	PageSize    int
}

// sortColumns is the only path from request input to ORDER BY.
var sortColumns = map[string]string{
	"name":           "name",
	"price":          "price",
	"created_at":     "created_at",
	"stock_quantity": "stock_quantity",
}

const productColumns = `id, name, description, brand_id, price, stock_quantity, stock_status, image_url, specs, reviews, is_deleted, created_at, updated_at`

func scanProduct(row interface{ Scan(...interface{}) error }) (*models.Product, error) {
	p := &models.Product{}
	var description, imageURL sql.NullString
	var specs, reviews []byte
	err := row.Scan(
		&p.ID,
		&p.Name,
		&description,
		&p.BrandID,
		&p.Price,
		&p.StockQuantity,
		&p.StockStatus,
		&imageURL,
		&specs,
		&reviews,
		&p.IsDeleted,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Description = description.String
	p.ImageURL = imageURL.String
	p.Specs = specs
	p.Reviews = reviews
	return p, nil
}

func CreateProduct(ctx context.Context, db *sql.DB, in CreateProductInput) (*models.Product, error) {
	query := `
		INSERT INTO products (name, description, brand_id, price, stock_quantity, stock_status, image_url, specs, reviews, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, FALSE, NOW(), NOW())
		RETURNING ` + productColumns

	product, err := scanProduct(db.QueryRowContext(ctx, query,
		in.Name, in.Description, in.BrandID, in.Price, in.StockQuantity,
		StockStatusFor(in.StockQuantity), in.ImageURL, nullableJSON(in.Specs), nullableJSON(in.Reviews)))
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	return product, nil
}

func GetProduct(ctx context.Context, db *sql.DB, id int64) (*models.Product, error) {
	product, err := scanProduct(db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 AND is_deleted = FALSE`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

// UpdateProduct applies a patch built from a fixed set of optional
// assignments. An empty patch is a no-op read.
func UpdateProduct(ctx context.Context, db *sql.DB, id int64, patch ProductPatch) (*models.Product, error) {
	sets, args := patchAssignments(patch)
	if len(sets) == 0 {
		return GetProduct(ctx, db, id)
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(
		`UPDATE products SET %s WHERE id = $%d AND is_deleted = FALSE RETURNING %s`,
		strings.Join(sets, ", "), len(args), productColumns)

	product, err := scanProduct(db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

// patchAssignments maps set fields to their SQL assignments. Each clause is
// fixed text; only placeholders vary with the argument count.
func patchAssignments(patch ProductPatch) ([]string, []interface{}) {
	var sets []string
	var args []interface{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.BrandID != nil {
		add("brand_id", *patch.BrandID)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.StockQuantity != nil {
		add("stock_quantity", *patch.StockQuantity)
		add("stock_status", StockStatusFor(*patch.StockQuantity))
	}
	if patch.ImageURL != nil {
		add("image_url", *patch.ImageURL)
	}
	if patch.Specs != nil {
		add("specs", nullableJSON(*patch.Specs))
	}
	if patch.Reviews != nil {
		add("reviews", nullableJSON(*patch.Reviews))
	}

	return sets, args
}

// DeleteProduct soft-deletes; rows referenced by order items stay in place
// so order history keeps its snapshots resolvable.
func DeleteProduct(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx,
		`UPDATE products
		 SET is_deleted = TRUE, updated_at = NOW()
		 WHERE id = $1 AND is_deleted = FALSE`,
		id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return database.ErrProductNotFound
	}
	return nil
}

func ListProducts(ctx context.Context, db *sql.DB, filter ProductFilter) (*OffsetPage, error) {
	conditions := []string{"is_deleted = FALSE"}
	var args []interface{}

	cond := func(clause string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.Search != "" {
		cond("(name ILIKE $%[1]d OR description ILIKE $%[1]d)", "%"+filter.Search+"%")
	}
	if filter.BrandID > 0 {
		cond("brand_id = $%d", filter.BrandID)
	}
	if filter.StockStatus != "" {
		cond("stock_status = $%d", filter.StockStatus)
	}
	if filter.MinPrice != nil {
		cond("price >= $%d", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		cond("price <= $%d", *filter.MaxPrice)
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products `+where, args...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	orderBy, ok := sortColumns[filter.SortBy]
	if !ok {
		orderBy = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		direction = "ASC"
	}

	query := fmt.Sprintf(`SELECT %s FROM products %s ORDER BY %s %s, id %s LIMIT $%d OFFSET $%d`,
		productColumns, where, orderBy, direction, direction, len(args)+1, len(args)+2)
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return newOffsetPage(products, total, filter.Page, filter.PageSize), nil
}

// nullableJSON maps empty raw JSON to NULL so JSONB columns stay clean.
func nullableJSON(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
