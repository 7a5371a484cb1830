package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erdalnejdet/MYE-aydinlatma-be/internal/database"
	"github.com/erdalnejdet/MYE-aydinlatma-be/internal/models"
)

// CreateBrand inserts a brand or, when the name belongs to a soft-deleted
// row, restores that row in place so the original id survives. A live
// duplicate is rejected: the conditional DO UPDATE skips the live row and
// the statement returns nothing.
func CreateBrand(ctx context.Context, db *sql.DB, name string) (*models.Brand, error) {
	brand := &models.Brand{}

	err := db.QueryRowContext(ctx,
		`INSERT INTO brands (name, is_deleted, created_at, updated_at)
		 VALUES ($1, FALSE, NOW(), NOW())
		 ON CONFLICT (name) DO UPDATE
		 SET is_deleted = FALSE, updated_at = NOW()
		 WHERE brands.is_deleted = TRUE
		 RETURNING id, name, is_deleted, created_at, updated_at`,
		name).Scan(
		&brand.ID,
		&brand.Name,
		&brand.IsDeleted,
		&brand.CreatedAt,
		&brand.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", name, database.ErrDuplicateBrand)
		}
		return nil, fmt.Errorf("create brand: %w", err)
	}

	return brand, nil
}

func GetBrand(ctx context.Context, db *sql.DB, id int64) (*models.Brand, error) {
	brand := &models.Brand{}

	err := db.QueryRowContext(ctx,
		`SELECT id, name, is_deleted, created_at, updated_at
		 FROM brands
		 WHERE id = $1 AND is_deleted = FALSE`,
		id).Scan(
		&brand.ID,
		&brand.Name,
		&brand.IsDeleted,
		&brand.CreatedAt,
		&brand.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrBrandNotFound
		}
		return nil, fmt.Errorf("get brand: %w", err)
	}

	return brand, nil
}

func ListBrands(ctx context.Context, db *sql.DB, page, pageSize int) (*OffsetPage, error) {
	var total int64
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM brands WHERE is_deleted = FALSE`).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count brands: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, name, is_deleted, created_at, updated_at
		 FROM brands
		 WHERE is_deleted = FALSE
		 ORDER BY name
		 LIMIT $1 OFFSET $2`,
		pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()

	var brands []models.Brand
	for rows.Next() {
		var brand models.Brand
		err := rows.Scan(&brand.ID, &brand.Name, &brand.IsDeleted, &brand.CreatedAt, &brand.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		brands = append(brands, brand)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return newOffsetPage(brands, total, page, pageSize), nil
}

func DeleteBrand(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx,
		`UPDATE brands
		 SET is_deleted = TRUE, updated_at = NOW()
		 WHERE id = $1 AND is_deleted = FALSE`,
		id)
	if err != nil {
		return fmt.Errorf("delete brand: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return database.ErrBrandNotFound
	}
	return nil
}
