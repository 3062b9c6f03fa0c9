package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Store handles all catalog database operations over a single long-lived
// connection handle.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the database file and initializes the schema.
// The containing directory is created on first use.
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && !strings.HasPrefix(dbPath, ":memory:") {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS products (
		productId TEXT PRIMARY KEY,
		sellerId TEXT,
		shopName TEXT,
		createdAt TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updatedAt TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS categories (
		categoryId TEXT PRIMARY KEY,
		link TEXT UNIQUE,
		createdAt TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updatedAt TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_products_seller ON products(sellerId);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// UpsertProduct inserts a product or, if the id exists, overwrites its
// seller attribution and refreshes updatedAt. createdAt is never touched
// after the first insert.
func (s *Store) UpsertProduct(ctx context.Context, productID, sellerID, shopName string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (productId, sellerId, shopName, createdAt, updatedAt)
		VALUES (?, ?, ?, DATETIME('now'), DATETIME('now'))
		ON CONFLICT(productId) DO UPDATE SET
			sellerId = excluded.sellerId,
			shopName = excluded.shopName,
			updatedAt = DATETIME('now')
	`, productID, sellerID, shopName)
	if err != nil {
		return fmt.Errorf("failed to upsert product %s: %w", productID, err)
	}
	return nil
}

// UpsertCategory inserts a category or refreshes its link and updatedAt.
func (s *Store) UpsertCategory(ctx context.Context, categoryID, link string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (categoryId, link, createdAt, updatedAt)
		VALUES (?, ?, DATETIME('now'), DATETIME('now'))
		ON CONFLICT(categoryId) DO UPDATE SET
			link = excluded.link,
			updatedAt = DATETIME('now')
	`, categoryID, link)
	if err != nil {
		return fmt.Errorf("failed to upsert category %s: %w", categoryID, err)
	}
	return nil
}

// ProductsBySeller returns product ids whose sellerId equals the token or
// whose shop name contains it case-insensitively. The asymmetry (exact on
// sellerId, substring on shopName) is intentional.
func (s *Store) ProductsBySeller(ctx context.Context, token string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT productId FROM products WHERE sellerId = ? OR lower(shopName) LIKE lower(?)`,
		token, "%"+token+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query products by seller: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan product id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return ids, nil
}

// CategoryLink returns the stored link for a category id, or "" if absent.
func (s *Store) CategoryLink(ctx context.Context, categoryID string) (string, error) {
	var link string
	err := s.db.QueryRowContext(ctx,
		`SELECT link FROM categories WHERE categoryId = ?`, categoryID,
	).Scan(&link)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query category link: %w", err)
	}
	return link, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
