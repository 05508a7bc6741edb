package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dmoreira/storefront/internal/database"
	"github.com/dmoreira/storefront/internal/models"
)

type ProductInput struct {
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
	PromoPrice  decimal.NullDecimal
	TrackStock  bool
	Stock       int
	Image       string
	SupplierID  int64
}

const productColumns = `id, name, description, category, status, price, promo_price,
	track_stock, stock, image, COALESCE(supplier_id, 0), created_at, updated_at, version`

func scanProduct(row interface {
	Scan(dest ...interface{}) error
}) (*models.Product, error) {
	product := &models.Product{}
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Category,
		&product.Status,
		&product.Price,
		&product.PromoPrice,
		&product.TrackStock,
		&product.Stock,
		&product.Image,
		&product.SupplierID,
		&product.CreatedAt,
		&product.UpdatedAt,
		&product.Version,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func CreateProduct(ctx context.Context, db *sql.DB, in ProductInput) (*models.Product, error) {
	query := `
		INSERT INTO products (name, description, category, status, price, promo_price,
			track_stock, stock, image, supplier_id, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW(), 1)
		RETURNING ` + productColumns

	product, err := scanProduct(db.QueryRowContext(ctx, query,
		in.Name, in.Description, in.Category, models.ProductStatusActive,
		in.Price, in.PromoPrice, in.TrackStock, in.Stock, in.Image, nullableID(in.SupplierID)))
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

func GetProduct(ctx context.Context, db *sql.DB, id int64) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

func ListProducts(ctx context.Context, db *sql.DB, page, pageSize int) (*OffsetPage, error) {
	var total int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	offset := (page - 1) * pageSize
	query := `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return &OffsetPage{
		Items:      products,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

func UpdateProduct(ctx context.Context, db *sql.DB, id int64, in ProductInput) (*models.Product, error) {
	query := `
		UPDATE products
		SET name = $1, description = $2, category = $3, price = $4, promo_price = $5,
			track_stock = $6, stock = $7, image = $8, supplier_id = $9,
			updated_at = NOW(), version = version + 1
		WHERE id = $10
		RETURNING ` + productColumns

	product, err := scanProduct(db.QueryRowContext(ctx, query,
		in.Name, in.Description, in.Category, in.Price, in.PromoPrice,
		in.TrackStock, in.Stock, in.Image, nullableID(in.SupplierID), id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

func UpdateProductStatus(ctx context.Context, db *sql.DB, id int64, status string) (*models.Product, error) {
	query := `
		UPDATE products
		SET status = $1, updated_at = NOW(), version = version + 1
		WHERE id = $2
		RETURNING ` + productColumns

	product, err := scanProduct(db.QueryRowContext(ctx, query, status, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("update product status: %w", err)
	}
	return product, nil
}

func DeleteProduct(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
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

func nullableID(id int64) interface{} {
	if id <= 0 {
		return nil
	}
	return id
}
