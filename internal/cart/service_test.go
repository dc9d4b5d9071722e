package cart

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_AddToCartRespectsStock(t *testing.T) {
	p := product(1, "2.00")
	p.Quantity = 5
	svc := NewService(NewInMemoryStore(), fakeFinder{1: p})
	ctx := context.Background()

	c, err := svc.AddToCart(ctx, "s", 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	_, err = svc.AddToCart(ctx, "s", 1, 3)
	require.ErrorIs(t, err, ErrNotEnoughStock)

	c, err = svc.AddToCart(ctx, "s", 1, 2)
	require.NoError(t, err)
	l, _ := c.Line(1)
	assert.Equal(t, 5, l.Quantity)
}

func TestService_SessionsAreIsolated(t *testing.T) {
	svc := NewService(NewInMemoryStore(), fakeFinder{1: product(1, "1")})
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, "a", 1, 1)
	require.NoError(t, err)

	other, err := svc.GetCart(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 0, other.Len())

	_, err = svc.GetCart(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestService_SaveCartDeletesWhenEmpty(t *testing.T) {
	store := NewInMemoryStore()
	svc := NewService(store, fakeFinder{1: product(1, "1")})
	ctx := context.Background()

	c, err := svc.AddToCart(ctx, "a", 1, 1)
	require.NoError(t, err)
	c.Clear()
	require.NoError(t, svc.SaveCart(ctx, "a", c))

	store.mu.RLock()
	_, ok := store.carts["a"]
	store.mu.RUnlock()
	assert.False(t, ok)
}

func TestService_AddToCartHugeQuantity(t *testing.T) {
	p := product(1, "2.00")
	p.Quantity = 10
	svc := NewService(NewInMemoryStore(), fakeFinder{1: p})
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, "s", 1, 1)
	require.NoError(t, err)

	_, err = svc.AddToCart(ctx, "s", 1, math.MaxInt)
	require.ErrorIs(t, err, ErrNotEnoughStock)

	c, err := svc.GetCart(ctx, "s")
	require.NoError(t, err)
	l, ok := c.Line(1)
	require.True(t, ok)
	assert.Equal(t, 1, l.Quantity)
}

func TestService_DeletedProductsDropOut(t *testing.T) {
	store := NewInMemoryStore()
	finder := fakeFinder{1: product(1, "1"), 2: product(2, "2")}
	svc := NewService(store, finder)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, "s", 1, 1)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, "s", 2, 1)
	require.NoError(t, err)

	delete(finder, 2)

	c, err := svc.GetCart(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
	_, ok := c.Line(2)
	assert.False(t, ok)

	// the trimmed cart was stored back
	stored, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Len())

	delete(finder, 1)
	c, err = svc.GetCart(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}
