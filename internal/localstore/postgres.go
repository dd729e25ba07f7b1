package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Postgres stores values in client_storage, one namespace per browser session.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Namespace returns the Storage view for a single session.
func (p *Postgres) Namespace(namespace string) Storage {
	return &namespaced{db: p.db, namespace: namespace}
}

type namespaced struct {
	db        *sql.DB
	namespace string
}

func (n *namespaced) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := n.db.QueryRowContext(ctx,
		`SELECT value FROM client_storage WHERE namespace = $1 AND key = $2`,
		n.namespace, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("select client_storage: %w", err)
	}
	return value, true, nil
}

func (n *namespaced) SetItem(ctx context.Context, key, value string) error {
	_, err := n.db.ExecContext(ctx,
		`INSERT INTO client_storage (namespace, key, value, updated_at)
         VALUES ($1, $2, $3, NOW())
         ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		n.namespace, key, value,
	)
	if err != nil {
		return fmt.Errorf("upsert client_storage: %w", err)
	}
	return nil
}

func (n *namespaced) RemoveItem(ctx context.Context, key string) error {
	_, err := n.db.ExecContext(ctx,
		`DELETE FROM client_storage WHERE namespace = $1 AND key = $2`,
		n.namespace, key,
	)
	if err != nil {
		return fmt.Errorf("delete client_storage: %w", err)
	}
	return nil
}
