package product

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wichananm65/store-catalog/internal/domain/entity"
	"github.com/wichananm65/store-catalog/internal/domain/repository"
)

var productColumns = []string{"id", "name", "description", "details", "price", "quantity"}

func newMockedPostgres(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestPostgres_GetAllProducts(t *testing.T) {
	repo, mock := newMockedPostgres(t)

	rows := sqlmock.NewRows(productColumns).
		AddRow(1, "A", "d", nil, "10.50", 3).
		AddRow(2, "B", nil, "x", "20", 0)
	mock.ExpectQuery("SELECT id, name").WillReturnRows(rows)

	all, err := repo.GetAllProducts()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "A", all[0].Name)
	assert.Equal(t, "", all[0].Details)
	assert.Equal(t, "10.5", all[0].Price.String())
	assert.Equal(t, "", all[1].Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetAllProductsError(t *testing.T) {
	repo, mock := newMockedPostgres(t)
	mock.ExpectQuery("SELECT id, name").WillReturnError(errors.New("no such table"))

	_, err := repo.GetAllProducts()
	require.Error(t, err)
}

func TestPostgres_GetProduct(t *testing.T) {
	repo, mock := newMockedPostgres(t)

	mock.ExpectQuery("WHERE id = \\$1").WithArgs(9).
		WillReturnRows(sqlmock.NewRows(productColumns).AddRow(9, "Z", "d", "x", "99.00", 9))
	mock.ExpectQuery("WHERE id = \\$1").WithArgs(10).WillReturnError(sql.ErrNoRows)

	p, err := repo.GetProduct(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, 9, p.ID)
	assert.Equal(t, "Z", p.Name)

	_, err = repo.GetProduct(context.Background(), 10)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_SaveProduct(t *testing.T) {
	repo, mock := newMockedPostgres(t)

	mock.ExpectQuery("INSERT INTO products").
		WithArgs("Lamp", "d", "x", sqlmock.AnyArg(), 4).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	saved, err := repo.SaveProduct(entity.Product{Name: "Lamp", Description: "d", Details: "x", Price: price("12.00"), Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, 12, saved.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpdateAndDeleteNotFound(t *testing.T) {
	repo, mock := newMockedPostgres(t)

	mock.ExpectExec("UPDATE products").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM products").WithArgs(3).WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.UpdateProduct(context.Background(), entity.Product{ID: 3, Name: "x"})
	assert.ErrorIs(t, err, repository.ErrProductNotFound)

	err = repo.DeleteProduct(3)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpdateProductStocks(t *testing.T) {
	t.Run("Applied", func(t *testing.T) {
		repo, mock := newMockedPostgres(t)
		mock.ExpectExec("SET quantity = quantity - \\$1").WithArgs(9, 1).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateProductStocks(1, 9))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotEnough", func(t *testing.T) {
		repo, mock := newMockedPostgres(t)
		mock.ExpectExec("SET quantity = quantity - \\$1").WithArgs(9, 1).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT EXISTS").WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		assert.ErrorIs(t, repo.UpdateProductStocks(1, 9), repository.ErrInsufficientStock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NonPositive", func(t *testing.T) {
		repo, mock := newMockedPostgres(t)

		for _, qty := range []int{0, -3} {
			assert.ErrorIs(t, repo.UpdateProductStocks(1, qty), repository.ErrInvalidQuantity)
		}
		// rejected before any statement reaches the database
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing", func(t *testing.T) {
		repo, mock := newMockedPostgres(t)
		mock.ExpectExec("SET quantity = quantity - \\$1").WithArgs(9, 1).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT EXISTS").WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		assert.ErrorIs(t, repo.UpdateProductStocks(1, 9), repository.ErrProductNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgres_ResetRollsBackOnError(t *testing.T) {
	repo, mock := newMockedPostgres(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM products").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery("INSERT INTO products").WillReturnError(errors.New("constraint"))
	mock.ExpectRollback()

	err := repo.Reset(SampleProducts())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
