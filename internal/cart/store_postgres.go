package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
	"github.com/wichananm65/store-catalog/internal/domain/entity"
)

// storedLine is the JSON shape of one cart line in carts.lines.
type storedLine struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// PostgresStore persists each session's lines as a JSON document and joins
// them back to the products table on load.
type PostgresStore struct {
	db *sql.DB
}

var _ Store = (*PostgresStore)(nil)

const (
	loadCartQuery = `SELECT lines FROM carts WHERE session_id = $1`
	saveCartQuery = `
		INSERT INTO carts (session_id, lines, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (session_id) DO UPDATE SET lines = EXCLUDED.lines, updated_at = EXCLUDED.updated_at
	`
	deleteCartQuery   = `DELETE FROM carts WHERE session_id = $1`
	cartProductsQuery = `
		SELECT id, name, description, details, price, quantity
		FROM products
		WHERE id = ANY($1::int[])
		ORDER BY array_position($1::int[], id)
	`
)

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	const op = "PostgresStore.Load"

	var raw []byte
	err := s.db.QueryRowContext(ctx, loadCartQuery, sessionID).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return New(), nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var stored []storedLine
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &stored); err != nil {
			return nil, fmt.Errorf("%s: decode lines: %w", op, err)
		}
	}
	if len(stored) == 0 {
		return New(), nil
	}

	ids := make([]int64, 0, len(stored))
	qty := make(map[int]int, len(stored))
	for _, l := range stored {
		ids = append(ids, int64(l.ProductID))
		qty[l.ProductID] = l.Quantity
	}

	rows, err := s.db.QueryContext(ctx, cartProductsQuery, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	c := New()
	for rows.Next() {
		var (
			p                    entity.Product
			description, details sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Name, &description, &details, &p.Price, &p.Quantity); err != nil {
			return nil, fmt.Errorf("%s: scan product: %w", op, err)
		}
		p.Description, p.Details = description.String, details.String
		c.AddItem(p, qty[p.ID])
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// products deleted since the cart was saved simply drop out
	if c.Len() < len(stored) {
		slog.Debug("cart lines dropped", "op", op, "session", sessionID, "stored", len(stored), "loaded", c.Len())
	}
	return c, nil
}

func (s *PostgresStore) Save(ctx context.Context, sessionID string, c *Cart) error {
	const op = "PostgresStore.Save"

	lines := c.Lines()
	stored := make([]storedLine, 0, len(lines))
	for _, l := range lines {
		stored = append(stored, storedLine{ProductID: l.Product.ID, Quantity: l.Quantity})
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("%s: encode lines: %w", op, err)
	}

	if _, err := s.db.ExecContext(ctx, saveCartQuery, sessionID, string(raw)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, sessionID string) error {
	const op = "PostgresStore.Delete"

	if _, err := s.db.ExecContext(ctx, deleteCartQuery, sessionID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
