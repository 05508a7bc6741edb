package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmoreira/storefront/internal/database"
	"github.com/dmoreira/storefront/internal/models"
)

// Archive keeps the back-office copy of submitted checkout orders. It
// satisfies the checkout package's Archiver interface.
type Archive struct {
	db *sql.DB
}

func NewArchive(db *sql.DB) *Archive {
	return &Archive{db: db}
}

func (a *Archive) Archive(ctx context.Context, order models.Order) (*models.Order, error) {
	return ArchiveOrder(ctx, a.db, order)
}

// ArchiveOrder inserts the order and its items atomically, retrying on
// transient failures.
func ArchiveOrder(ctx context.Context, db *sql.DB, order models.Order) (*models.Order, error) {
	var archived *models.Order

	err := database.WithRetry(ctx, db, database.TxOptions{
		IsolationLevel: sql.LevelSerializable,
		MaxRetries:     3,
	}, func(tx *sql.Tx) error {
		saved := order
		err := tx.QueryRowContext(ctx,
			`INSERT INTO orders (order_number, customer_name, phone, cep, street, number,
				district, complement, payment, cash_change, note, subtotal, delivery_fee, total, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
			 RETURNING id, created_at`,
			order.OrderNumber, order.CustomerName, order.Phone, order.CEP, order.Street,
			order.Number, order.District, order.Complement, order.Payment, order.CashChange,
			order.Note, order.Subtotal, order.DeliveryFee, order.Total).Scan(&saved.ID, &saved.CreatedAt)
		if err != nil {
			return fmt.Errorf("archive order: %w", err)
		}

		saved.Items = nil
		for _, item := range order.Items {
			row := item
			err := tx.QueryRowContext(ctx,
				`INSERT INTO order_items (order_id, name, quantity, unit_price, subtotal, subtitle, note)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)
				 RETURNING id`,
				saved.ID, item.Name, item.Quantity, item.UnitPrice, item.Subtotal,
				item.Subtitle, item.Note).Scan(&row.ID)
			if err != nil {
				return fmt.Errorf("archive order item: %w", err)
			}
			row.OrderID = saved.ID
			saved.Items = append(saved.Items, row)
		}

		archived = &saved
		return nil
	})
	if err != nil {
		return nil, err
	}

	return archived, nil
}

func GetOrder(ctx context.Context, db *sql.DB, id int64) (*models.Order, error) {
	order := &models.Order{}

	query := `
		SELECT id, order_number, customer_name, phone, cep, street, number, district,
			complement, payment, cash_change, note, subtotal, delivery_fee, total, created_at
		FROM orders
		WHERE id = $1`

	err := db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.OrderNumber,
		&order.CustomerName,
		&order.Phone,
		&order.CEP,
		&order.Street,
		&order.Number,
		&order.District,
		&order.Complement,
		&order.Payment,
		&order.CashChange,
		&order.Note,
		&order.Subtotal,
		&order.DeliveryFee,
		&order.Total,
		&order.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, order_id, name, quantity, unit_price, subtotal, subtitle, note
		 FROM order_items
		 WHERE order_id = $1
		 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.Name,
			&item.Quantity,
			&item.UnitPrice,
			&item.Subtotal,
			&item.Subtitle,
			&item.Note,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return order, nil
}

// ListOrdersCursor pages through the archive newest first using keyset
// pagination.
func ListOrdersCursor(ctx context.Context, db *sql.DB, cursor string, limit int) (*CursorPage, error) {
	cursorData, err := DecodeCursor(cursor)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}

	query := `
		SELECT id, order_number, customer_name, phone, payment, total, created_at
		FROM orders
		WHERE (created_at, id) < ($1, $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3`

	rows, err := db.QueryContext(ctx, query, cursorData.CreatedAt, cursorData.ID, limit+1)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var order models.Order
		err := rows.Scan(
			&order.ID,
			&order.OrderNumber,
			&order.CustomerName,
			&order.Phone,
			&order.Payment,
			&order.Total,
			&order.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	hasMore := len(orders) > limit
	if hasMore {
		orders = orders[:limit]
	}

	var nextCursor string
	if hasMore && len(orders) > 0 {
		lastOrder := orders[len(orders)-1]
		nextCursor = EncodeCursor(Cursor{
			CreatedAt: lastOrder.CreatedAt,
			ID:        lastOrder.ID,
		})
	}

	return &CursorPage{
		Items:      orders,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}
