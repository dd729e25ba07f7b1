package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNotFound = errors.New("not found")

// DBPool matches the methods from *pgxpool.Pool that we use.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	List(ctx context.Context, category string) ([]Product, error)
	Get(ctx context.Context, id string) (Product, error)
	Related(ctx context.Context, category, excludeID string, limit int) ([]Product, error)
	Create(ctx context.Context, p Product) error
	Update(ctx context.Context, p Product) error
	Delete(ctx context.Context, id string) error
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const productColumns = `id, name, category, image, sizes, COALESCE(description, ''), COALESCE(notes, '')`

func (r *PostgresRepository) List(ctx context.Context, category string) ([]Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE ($1 = '' OR category = $1) ORDER BY created_at DESC`,
		category,
	)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	return collectProducts(rows)
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("select product: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Related(ctx context.Context, category, excludeID string, limit int) ([]Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE category = $1 AND id <> $2 ORDER BY created_at DESC LIMIT $3`,
		category, excludeID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select related: %w", err)
	}
	return collectProducts(rows)
}

func (r *PostgresRepository) Create(ctx context.Context, p Product) error {
	sizes, err := json.Marshal(p.Sizes)
	if err != nil {
		return fmt.Errorf("marshal sizes: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO products (id, name, category, image, sizes, description, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
	`, p.ID, p.Name, p.Category, p.Image, sizes, p.Description, p.Notes)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, p Product) error {
	sizes, err := json.Marshal(p.Sizes)
	if err != nil {
		return fmt.Errorf("marshal sizes: %w", err)
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE products
		SET name=$2, category=$3, image=$4, sizes=$5, description=$6, notes=$7, updated_at=now()
		WHERE id=$1
	`, p.ID, p.Name, p.Category, p.Image, sizes, p.Description, p.Notes)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collectProducts(rows pgx.Rows) ([]Product, error) {
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return products, nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p     Product
		sizes []byte
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Image, &sizes, &p.Description, &p.Notes); err != nil {
		return Product{}, err
	}
	if len(sizes) > 0 {
		if err := json.Unmarshal(sizes, &p.Sizes); err != nil {
			return Product{}, fmt.Errorf("decode sizes for %s: %w", p.ID, err)
		}
	}
	if p.Sizes == nil {
		p.Sizes = []Size{}
	}
	return p, nil
}
