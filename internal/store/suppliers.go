package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmoreira/storefront/internal/database"
	"github.com/dmoreira/storefront/internal/models"
)

type SupplierInput struct {
	Name  string
	CNPJ  string
	Phone string
	Email string
}

func CreateSupplier(ctx context.Context, db *sql.DB, in SupplierInput) (*models.Supplier, error) {
	supplier := &models.Supplier{}

	query := `
		INSERT INTO suppliers (name, cnpj, phone, email, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, NOW(), NOW(), 1)
		RETURNING id, name, cnpj, phone, email, created_at, updated_at, version`

	err := db.QueryRowContext(ctx, query, in.Name, in.CNPJ, in.Phone, in.Email).Scan(
		&supplier.ID,
		&supplier.Name,
		&supplier.CNPJ,
		&supplier.Phone,
		&supplier.Email,
		&supplier.CreatedAt,
		&supplier.UpdatedAt,
		&supplier.Version,
	)
	if err != nil {
		return nil, fmt.Errorf("create supplier: %w", err)
	}

	return supplier, nil
}

func GetSupplier(ctx context.Context, db *sql.DB, id int64) (*models.Supplier, error) {
	supplier := &models.Supplier{}

	query := `
		SELECT id, name, cnpj, phone, email, created_at, updated_at, version
		FROM suppliers
		WHERE id = $1`

	err := db.QueryRowContext(ctx, query, id).Scan(
		&supplier.ID,
		&supplier.Name,
		&supplier.CNPJ,
		&supplier.Phone,
		&supplier.Email,
		&supplier.CreatedAt,
		&supplier.UpdatedAt,
		&supplier.Version,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrSupplierNotFound
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}

	return supplier, nil
}

func ListSuppliers(ctx context.Context, db *sql.DB, page, pageSize int) (*OffsetPage, error) {
	var total int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM suppliers`).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count suppliers: %w", err)
	}

	offset := (page - 1) * pageSize
	query := `
		SELECT id, name, cnpj, phone, email, created_at, updated_at, version
		FROM suppliers
		ORDER BY name
		LIMIT $1 OFFSET $2`

	rows, err := db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []models.Supplier
	for rows.Next() {
		var supplier models.Supplier
		err := rows.Scan(
			&supplier.ID,
			&supplier.Name,
			&supplier.CNPJ,
			&supplier.Phone,
			&supplier.Email,
			&supplier.CreatedAt,
			&supplier.UpdatedAt,
			&supplier.Version,
		)
		if err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		suppliers = append(suppliers, supplier)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return &OffsetPage{
		Items:      suppliers,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

func UpdateSupplier(ctx context.Context, db *sql.DB, id int64, in SupplierInput) (*models.Supplier, error) {
	supplier := &models.Supplier{}

	query := `
		UPDATE suppliers
		SET name = $1, cnpj = $2, phone = $3, email = $4, updated_at = NOW(), version = version + 1
		WHERE id = $5
		RETURNING id, name, cnpj, phone, email, created_at, updated_at, version`

	err := db.QueryRowContext(ctx, query, in.Name, in.CNPJ, in.Phone, in.Email, id).Scan(
		&supplier.ID,
		&supplier.Name,
		&supplier.CNPJ,
		&supplier.Phone,
		&supplier.Email,
		&supplier.CreatedAt,
		&supplier.UpdatedAt,
		&supplier.Version,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrSupplierNotFound
		}
		return nil, fmt.Errorf("update supplier: %w", err)
	}

	return supplier, nil
}

func DeleteSupplier(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return database.ErrSupplierNotFound
	}
	return nil
}
