package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wichananm65/store-catalog/internal/domain/entity"
	"github.com/wichananm65/store-catalog/internal/domain/repository"
)

type PostgresRepository struct {
	db *sql.DB
}

var (
	_ repository.ProductRepository = (*PostgresRepository)(nil)
	_ Resetter                     = (*PostgresRepository)(nil)
)

const (
	listProductsQuery = `
		SELECT id, name, description, details, price, quantity
		FROM products
		ORDER BY id
	`
	getProductByIDQuery = `
		SELECT id, name, description, details, price, quantity
		FROM products
		WHERE id = $1
	`
	insertProductQuery = `
		INSERT INTO products (name, description, details, price, quantity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	updateProductQuery = `
		UPDATE products
		SET name = $1,
			description = $2,
			details = $3,
			price = $4,
			quantity = $5
		WHERE id = $6
	`
	deleteProductQuery = `DELETE FROM products WHERE id = $1`
	// the guard keeps quantity from going negative; zero rows affected means
	// either a missing product or not enough stock
	decrementStockQuery = `
		UPDATE products
		SET quantity = quantity - $1
		WHERE id = $2 AND quantity >= $1
	`
	productExistsQuery = `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetAllProducts() ([]entity.Product, error) {
	rows, err := r.db.Query(listProductsQuery)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *PostgresRepository) GetProduct(ctx context.Context, id int) (entity.Product, error) {
	row := r.db.QueryRowContext(ctx, getProductByIDQuery, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Product{}, repository.ErrProductNotFound
		}
		return entity.Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

func (r *PostgresRepository) GetProducts(ctx context.Context) ([]entity.Product, error) {
	rows, err := r.db.QueryContext(ctx, listProductsQuery)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *PostgresRepository) SaveProduct(p entity.Product) (entity.Product, error) {
	var id int
	err := r.db.QueryRow(
		insertProductQuery,
		p.Name,
		p.Description,
		p.Details,
		p.Price,
		p.Quantity,
	).Scan(&id)
	if err != nil {
		return entity.Product{}, fmt.Errorf("insert product: %w", err)
	}
	p.ID = id
	return p, nil
}

func (r *PostgresRepository) UpdateProduct(ctx context.Context, p entity.Product) (entity.Product, error) {
	result, err := r.db.ExecContext(
		ctx,
		updateProductQuery,
		p.Name,
		p.Description,
		p.Details,
		p.Price,
		p.Quantity,
		p.ID,
	)
	if err != nil {
		return entity.Product{}, fmt.Errorf("update product %d: %w", p.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return entity.Product{}, err
	}
	if affected == 0 {
		return entity.Product{}, repository.ErrProductNotFound
	}
	return p, nil
}

func (r *PostgresRepository) DeleteProduct(id int) error {
	result, err := r.db.Exec(deleteProductQuery, id)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrProductNotFound
	}
	return nil
}

func (r *PostgresRepository) UpdateProductStocks(id int, quantity int) error {
	if quantity <= 0 {
		return repository.ErrInvalidQuantity
	}
	result, err := r.db.Exec(decrementStockQuery, quantity, id)
	if err != nil {
		return fmt.Errorf("update stock of product %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRow(productExistsQuery, id).Scan(&exists); err != nil {
		return fmt.Errorf("update stock of product %d: %w", id, err)
	}
	if !exists {
		return repository.ErrProductNotFound
	}
	return repository.ErrInsufficientStock
}

// Reset deletes all products and inserts the provided list in a single transaction.
func (r *PostgresRepository) Reset(products []entity.Product) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec(`DELETE FROM products`); err != nil {
		return err
	}

	for _, p := range products {
		var id int
		err := tx.QueryRow(insertProductQuery,
			p.Name,
			p.Description,
			p.Details,
			p.Price,
			p.Quantity,
		).Scan(&id)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(scanner rowScanner) (entity.Product, error) {
	var p entity.Product
	var description, details sql.NullString
	if err := scanner.Scan(
		&p.ID,
		&p.Name,
		&description,
		&details,
		&p.Price,
		&p.Quantity,
	); err != nil {
		return entity.Product{}, err
	}
	p.Description = description.String
	p.Details = details.String
	return p, nil
}

func scanProducts(rows *sql.Rows) ([]entity.Product, error) {
	out := make([]entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
