package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/wichananm65/store-catalog/internal/domain/entity"
	"github.com/wichananm65/store-catalog/internal/domain/repository"
)

const (
	insertOrderQuery = `INSERT INTO orders (name, address, city, zip, country, date, lines)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb)
		RETURNING id`

	listOrdersQuery = `SELECT id, name, address, city, zip, country, date, lines
		FROM orders
		ORDER BY id`
)

type PostgresRepository struct {
	db *sql.DB
}

var _ repository.OrderRepository = (*PostgresRepository)(nil)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) SaveOrder(ctx context.Context, o entity.Order) (entity.Order, error) {
	const op = "PostgresRepository.SaveOrder"

	linesJSON, err := json.Marshal(o.Lines)
	if err != nil {
		return entity.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	err = r.db.QueryRowContext(ctx, insertOrderQuery,
		o.Name, o.Address, o.City, o.Zip, o.Country, o.Date, string(linesJSON)).Scan(&o.ID)
	if err != nil {
		return entity.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}

func (r *PostgresRepository) ListOrders(ctx context.Context) ([]entity.Order, error) {
	const op = "PostgresRepository.ListOrders"

	rows, err := r.db.QueryContext(ctx, listOrdersQuery)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	orders := make([]entity.Order, 0)
	for rows.Next() {
		var (
			o         entity.Order
			zip       sql.NullString
			linesJSON []byte
		)
		if err := rows.Scan(&o.ID, &o.Name, &o.Address, &o.City, &zip, &o.Country, &o.Date, &linesJSON); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		o.Zip = zip.String
		if err := json.Unmarshal(linesJSON, &o.Lines); err != nil {
			return nil, fmt.Errorf("%s: lines of order %d: %w", op, o.ID, err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}
