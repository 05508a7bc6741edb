package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dmoreira/storefront/internal/database"
	"github.com/dmoreira/storefront/internal/models"
)

type DiscountStockInput struct {
	Number       string
	CustomerName string
	Minutes      int
	Status       string
	CourierName  string
	Urgent       bool
	CookingLabel string
	Items        []DiscountStockItemInput
}

type DiscountStockItemInput struct {
	Name     string
	Quantity int
	Price    decimal.Decimal
	Note     string
}

// CreateDiscountStock inserts the ticket and its items in one transaction.
// The total is derived from the items, never taken from the caller.
func CreateDiscountStock(ctx context.Context, db *sql.DB, in DiscountStockInput) (*models.DiscountStock, error) {
	status := in.Status
	if status == "" {
		status = models.DiscountStockStatusPending
	}

	total := decimal.Zero
	for _, item := range in.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	var created *models.DiscountStock
	err := database.WithTransaction(ctx, db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		ds := &models.DiscountStock{}
		err := tx.QueryRowContext(ctx,
			`INSERT INTO discount_stocks (number, customer_name, minutes, total, status,
				courier_name, urgent, cooking_label, created_at, updated_at, version)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW(), 1)
			 RETURNING id, number, customer_name, minutes, total, status, courier_name,
				urgent, cooking_label, created_at, updated_at, version`,
			in.Number, in.CustomerName, in.Minutes, total, status,
			in.CourierName, in.Urgent, in.CookingLabel).Scan(
			&ds.ID,
			&ds.Number,
			&ds.CustomerName,
			&ds.Minutes,
			&ds.Total,
			&ds.Status,
			&ds.CourierName,
			&ds.Urgent,
			&ds.CookingLabel,
			&ds.CreatedAt,
			&ds.UpdatedAt,
			&ds.Version,
		)
		if err != nil {
			return fmt.Errorf("create discount stock: %w", err)
		}

		for _, item := range in.Items {
			var row models.DiscountStockItem
			err := tx.QueryRowContext(ctx,
				`INSERT INTO discount_stock_items (discount_stock_id, name, quantity, price, note)
				 VALUES ($1, $2, $3, $4, $5)
				 RETURNING id, discount_stock_id, name, quantity, price, note`,
				ds.ID, item.Name, item.Quantity, item.Price, item.Note).Scan(
				&row.ID,
				&row.DiscountStockID,
				&row.Name,
				&row.Quantity,
				&row.Price,
				&row.Note,
			)
			if err != nil {
				return fmt.Errorf("create discount stock item: %w", err)
			}
			ds.Items = append(ds.Items, row)
		}

		created = ds
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func GetDiscountStock(ctx context.Context, db *sql.DB, id int64) (*models.DiscountStock, error) {
	ds := &models.DiscountStock{}

	query := `
		SELECT id, number, customer_name, minutes, total, status, courier_name,
			urgent, cooking_label, created_at, updated_at, version
		FROM discount_stocks
		WHERE id = $1`

	err := db.QueryRowContext(ctx, query, id).Scan(
		&ds.ID,
		&ds.Number,
		&ds.CustomerName,
		&ds.Minutes,
		&ds.Total,
		&ds.Status,
		&ds.CourierName,
		&ds.Urgent,
		&ds.CookingLabel,
		&ds.CreatedAt,
		&ds.UpdatedAt,
		&ds.Version,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrDiscountStockNotFound
		}
		return nil, fmt.Errorf("get discount stock: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, discount_stock_id, name, quantity, price, note
		 FROM discount_stock_items
		 WHERE discount_stock_id = $1
		 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("get discount stock items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.DiscountStockItem
		err := rows.Scan(
			&item.ID,
			&item.DiscountStockID,
			&item.Name,
			&item.Quantity,
			&item.Price,
			&item.Note,
		)
		if err != nil {
			return nil, fmt.Errorf("scan discount stock item: %w", err)
		}
		ds.Items = append(ds.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return ds, nil
}

func ListDiscountStocks(ctx context.Context, db *sql.DB, page, pageSize int) (*OffsetPage, error) {
	var total int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM discount_stocks`).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count discount stocks: %w", err)
	}

	offset := (page - 1) * pageSize
	query := `
		SELECT id, number, customer_name, minutes, total, status, courier_name,
			urgent, cooking_label, created_at, updated_at, version
		FROM discount_stocks
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("list discount stocks: %w", err)
	}
	defer rows.Close()

	var list []models.DiscountStock
	for rows.Next() {
		var ds models.DiscountStock
		err := rows.Scan(
			&ds.ID,
			&ds.Number,
			&ds.CustomerName,
			&ds.Minutes,
			&ds.Total,
			&ds.Status,
			&ds.CourierName,
			&ds.Urgent,
			&ds.CookingLabel,
			&ds.CreatedAt,
			&ds.UpdatedAt,
			&ds.Version,
		)
		if err != nil {
			return nil, fmt.Errorf("scan discount stock: %w", err)
		}
		list = append(list, ds)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return &OffsetPage{
		Items:      list,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// UpdateDiscountStockStatus uses the version column as an optimistic lock so
// two back-office operators cannot silently overwrite each other.
func UpdateDiscountStockStatus(ctx context.Context, db *sql.DB, id int64, status string, version int) (*models.DiscountStock, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE discount_stocks
		 SET status = $1, updated_at = NOW(), version = version + 1
		 WHERE id = $2 AND version = $3`,
		status, id, version)
	if err != nil {
		return nil, fmt.Errorf("update discount stock status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		if _, err := GetDiscountStock(ctx, db, id); err != nil {
			return nil, err
		}
		return nil, database.ErrOptimisticLockFailed
	}

	return GetDiscountStock(ctx, db, id)
}
