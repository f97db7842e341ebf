package service

import (
	"context"
	"testing"

	"worksync/internal/cache"
	"worksync/internal/model"
	"worksync/internal/repository"
	"worksync/pkg/worksync"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryProductCache struct {
	products []model.Product
	hits     int
}

func (c *memoryProductCache) Get(context.Context) ([]model.Product, error) {
	if c.products == nil {
		return nil, cache.ErrCacheMiss
	}
	c.hits++
	return c.products, nil
}

func (c *memoryProductCache) Set(_ context.Context, products []model.Product) error {
	c.products = products
	return nil
}

func (c *memoryProductCache) Invalidate(context.Context) error {
	c.products = nil
	return nil
}

// listHookRepo runs afterList once the listing has been read.
type listHookRepo struct {
	repository.ProductRepository
	afterList func()
}

func (r *listHookRepo) List(ctx context.Context) ([]model.Product, error) {
	products, err := r.ProductRepository.List(ctx)
	if r.afterList != nil {
		hook := r.afterList
		r.afterList = nil
		hook()
	}
	return products, err
}

func TestInventoryService_CRUD(t *testing.T) {
	f := newFixture(t)
	svc := f.inventoryService()
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, f.employee, worksync.Product{Title: "Toner"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.CreateProduct(ctx, f.admin, worksync.Product{Title: " "})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.CreateProduct(ctx, f.admin, worksync.Product{Title: "Toner", Price: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	toner, err := svc.CreateProduct(ctx, f.admin, worksync.Product{Title: "Toner", Price: 49.5, Stock: 3, Category: "printing"})
	require.NoError(t, err)
	assert.NotZero(t, toner.ID)
	assert.Equal(t, 49.5, toner.Price)

	_, err = svc.CreateProduct(ctx, f.admin, worksync.Product{Title: "Toner"})
	assert.ErrorIs(t, err, ErrProductExists)

	toner.Stock = 12
	updated, err := svc.UpdateProduct(ctx, f.admin, toner)
	require.NoError(t, err)
	assert.Equal(t, 12, updated.Stock)

	_, err = svc.UpdateProduct(ctx, f.admin, worksync.Product{ID: 999, Title: "Ghost"})
	assert.ErrorIs(t, err, ErrProductNotFound)

	require.NoError(t, svc.DeleteProduct(ctx, f.admin, uint(toner.ID)))
	assert.ErrorIs(t, svc.DeleteProduct(ctx, f.admin, uint(toner.ID)), ErrProductNotFound)

	assert.Equal(t, 3, f.cache.invalidations)
	assert.Equal(t, []string{"product.created", "product.updated", "product.deleted"}, f.events.names())
}

func TestInventoryService_GetProductsUsesCache(t *testing.T) {
	f := newFixture(t)
	pc := &memoryProductCache{}
	svc := NewInventoryService(f.products, f.audit, f.tx, pc, f.events)
	ctx := context.Background()
	f.addProduct(t, "Pens", "1.25", 40)

	first, err := svc.GetProducts(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 0, pc.hits)

	second, err := svc.GetProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, pc.hits)

	_, err = svc.CreateProduct(ctx, f.admin, worksync.Product{Title: "Binder", Price: 3})
	require.NoError(t, err)
	third, err := svc.GetProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, third, 2)
}

func TestInventoryService_GetProductsSkipsListingOutdatedByEdit(t *testing.T) {
	f := newFixture(t)
	pc := &memoryProductCache{}
	repo := &listHookRepo{ProductRepository: f.products}
	svc := NewInventoryService(repo, f.audit, f.tx, pc, f.events)
	ctx := context.Background()
	pens := f.addProduct(t, "Pens", "1.25", 40)

	repo.afterList = func() {
		_, err := svc.UpdateProduct(ctx, f.admin, worksync.Product{ID: int64(pens.ID), Title: "Pens", Price: 1.25, Stock: 7})
		require.NoError(t, err)
	}

	first, err := svc.GetProducts(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 40, first[0].Stock)
	assert.Nil(t, pc.products)

	second, err := svc.GetProducts(ctx)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, 7, second[0].Stock)
	assert.Equal(t, 0, pc.hits)
}
