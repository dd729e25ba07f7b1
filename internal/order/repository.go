package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ErrDuplicate is returned by Create when the order id is already taken.
var ErrDuplicate = errors.New("order already exists")

const uniqueViolation = "23505"

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, orderID string) (*Order, error)
	List(ctx context.Context, limit int) ([]Order, error)
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, o *Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = StatusNew
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, customer_phone, full_delivery_address, total_price, status, created_at)
         VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, o.CustomerPhone, o.FullDeliveryAddress, o.TotalPrice, string(o.Status), o.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for i, it := range o.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (id, order_id, position, name, size, price, quantity, image)
             VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			uuid.NewString(), o.ID, i, it.Name, it.Size, it.Price, it.Quantity, it.Image,
		)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *repo) GetByID(ctx context.Context, orderID string) (*Order, error) {
	var (
		o      Order
		status string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, customer_phone, full_delivery_address, total_price, status, created_at
         FROM orders WHERE id = $1`,
		orderID,
	).Scan(&o.ID, &o.CustomerPhone, &o.FullDeliveryAddress, &o.TotalPrice, &status, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select order: %w", err)
	}
	o.Status = Status(status)

	rows, err := r.db.QueryContext(ctx,
		`SELECT name, size, price, quantity, image
         FROM order_items WHERE order_id = $1 ORDER BY position`,
		o.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("select order_items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.Name, &it.Size, &it.Price, &it.Quantity, &it.Image); err != nil {
			return nil, fmt.Errorf("scan order_item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return &o, nil
}

// List returns the most recent orders, newest first, with their items.
func (r *repo) List(ctx context.Context, limit int) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			o.id, o.customer_phone, o.full_delivery_address, o.total_price, o.status, o.created_at,
			oi.name, oi.size, oi.price, oi.quantity, oi.image
		FROM (SELECT * FROM orders ORDER BY created_at DESC LIMIT $1) o
		LEFT JOIN order_items oi ON oi.order_id = o.id
		ORDER BY o.created_at DESC, o.id, oi.position
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	orders := []Order{}
	index := make(map[string]int)
	for rows.Next() {
		var (
			o        Order
			status   string
			name     sql.NullString
			size     sql.NullString
			price    sql.NullFloat64
			quantity sql.NullInt64
			image    sql.NullString
		)
		if err := rows.Scan(
			&o.ID, &o.CustomerPhone, &o.FullDeliveryAddress, &o.TotalPrice, &status, &o.CreatedAt,
			&name, &size, &price, &quantity, &image,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}

		i, seen := index[o.ID]
		if !seen {
			o.Status = Status(status)
			orders = append(orders, o)
			i = len(orders) - 1
			index[o.ID] = i
		}
		if name.Valid {
			orders[i].Items = append(orders[i].Items, Item{
				Name:     name.String,
				Size:     size.String,
				Price:    price.Float64,
				Quantity: int(quantity.Int64),
				Image:    image.String,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return orders, nil
}
