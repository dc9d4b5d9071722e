package product

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wichananm65/store-catalog/internal/cart"
	"github.com/wichananm65/store-catalog/internal/domain/entity"
	"github.com/wichananm65/store-catalog/internal/domain/repository"
	"github.com/wichananm65/store-catalog/internal/localization"
)

func newInMemoryService() (*Service, *InMemoryRepository) {
	repo := NewInMemoryRepository(nil)
	return NewService(cart.New(), repo, nil, localization.NewCatalog()), repo
}

func TestInMemory_SaveThenFetchRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInMemoryService()

	saved, err := svc.SaveProduct(ViewModel{Name: "Round trip", Description: "d", Details: "x", Price: "19.99", Stock: "4"}, localization.English)
	require.NoError(t, err)
	require.NotZero(t, saved.ID)

	byScan, err := svc.GetProductByID(saved.ID)
	require.NoError(t, err)
	byLookup, err := svc.GetProduct(ctx, saved.ID)
	require.NoError(t, err)

	assert.Equal(t, saved, *byScan)
	assert.Equal(t, saved, *byLookup)

	vm, err := svc.GetProductByIDViewModel(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "19.99", vm.Price)
	assert.Equal(t, "4", vm.Stock)
}

func TestInMemory_UpdateProductStock(t *testing.T) {
	svc, repo := newInMemoryService()

	saved, err := svc.SaveProduct(ViewModel{Name: "Stocked", Price: "150", Stock: "10"}, localization.English)
	require.NoError(t, err)

	svc.Cart().AddItem(saved, 9)
	require.NoError(t, svc.UpdateProductQuantities())

	p, err := repo.GetProduct(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Quantity)

	// a second pass would go below zero and is refused
	err = svc.UpdateProductQuantities()
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)
	p, _ = repo.GetProduct(context.Background(), saved.ID)
	assert.Equal(t, 1, p.Quantity)
}

func TestInMemory_UpdateProductStocksRejectsNonPositive(t *testing.T) {
	repo := NewInMemoryRepository([]entity.Product{{ID: 1, Name: "p", Quantity: 10}})

	tests := []struct {
		name     string
		quantity int
		want     error
		left     int
	}{
		{"Zero", 0, repository.ErrInvalidQuantity, 10},
		{"Negative", -5, repository.ErrInvalidQuantity, 10},
		{"MinInt", math.MinInt, repository.ErrInvalidQuantity, 10},
		{"TooMany", math.MaxInt, repository.ErrInsufficientStock, 10},
		{"Exact", 10, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.UpdateProductStocks(1, tt.quantity)
			if tt.want == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tt.want)
			}
			p, err := repo.GetProduct(context.Background(), 1)
			require.NoError(t, err)
			assert.Equal(t, tt.left, p.Quantity)
		})
	}
}

func TestInMemory_DeleteProduct(t *testing.T) {
	ctx := context.Background()
	svc, repo := newInMemoryService()

	saved, err := svc.SaveProduct(ViewModel{Name: "Doomed", Price: "1", Stock: "1"}, localization.English)
	require.NoError(t, err)
	svc.Cart().AddItem(saved, 1)

	require.NoError(t, svc.DeleteProduct(ctx, saved.ID))
	assert.Equal(t, 0, svc.Cart().Len())

	_, err = repo.GetProduct(ctx, saved.ID)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)

	require.NoError(t, svc.DeleteProduct(ctx, saved.ID))
}

func TestInMemory_UpdateProduct(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInMemoryService()

	saved, err := svc.SaveProduct(ViewModel{Name: "Before", Price: "1", Stock: "1"}, localization.English)
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(ctx, saved.ID, ViewModel{Name: "After", Price: "2,50", Stock: "3"}, localization.French)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, saved.ID, updated.ID)
	assert.Equal(t, "After", updated.Name)
	assert.Equal(t, "2.5", updated.Price.String())

	missing, err := svc.UpdateProduct(ctx, 999, ViewModel{Name: "x", Price: "1", Stock: "1"}, localization.English)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestInMemory_ResetAssignsIDs(t *testing.T) {
	repo := NewInMemoryRepository([]entity.Product{{ID: 5, Name: "old"}})
	svc := NewService(nil, repo, nil, localization.NewCatalog())

	require.NoError(t, svc.ResetProducts(SampleProducts()))

	all, err := repo.GetAllProducts()
	require.NoError(t, err)
	require.Len(t, all, len(SampleProducts()))
	seen := map[int]bool{}
	for _, p := range all {
		assert.NotZero(t, p.ID)
		assert.False(t, seen[p.ID], "duplicate id %d", p.ID)
		seen[p.ID] = true
	}
}

func TestInMemory_CanceledContext(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.GetProduct(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = repo.GetProducts(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
