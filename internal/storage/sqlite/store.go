package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"shopchat/internal/domain"
	"shopchat/internal/storage"
)

// Store is a SQLite implementation of OrderStore.
type Store struct {
	db *sql.DB
}

var _ storage.OrderStore = (*Store)(nil)

// New opens (or creates) the database at dbPath.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		item TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`)
	return err
}

func (s *Store) Append(ctx context.Context, order *domain.OrderRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO orders (id, item, quantity, created_at) VALUES (?, ?, ?, ?)`,
		order.ID, order.Item, order.Quantity, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append order: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]domain.OrderRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, item, quantity, created_at FROM orders ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.OrderRecord
	for rows.Next() {
		var o domain.OrderRecord
		if err := rows.Scan(&o.ID, &o.Item, &o.Quantity, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
