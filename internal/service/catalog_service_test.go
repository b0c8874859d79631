package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/storefront-service/internal/domain"
	"github.com/spec-kit/storefront-service/internal/events"
	"github.com/spec-kit/storefront-service/internal/repository/repotest"
	apperrors "github.com/spec-kit/storefront-service/pkg/util"
)

func TestCatalogCreateAndUpdate(t *testing.T) {
	store := repotest.NewStore()
	dispatcher := events.NewInMemoryDispatcher()
	var types []events.EventType
	record := func(_ context.Context, e events.Event) error {
		types = append(types, e.Type)
		return nil
	}
	dispatcher.Subscribe(events.EventProductCreated, record)
	dispatcher.Subscribe(events.EventProductUpdated, record)

	svc := NewCatalogService(store.Products(), store.Categories(), dispatcher, nil)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, "admin", domain.ProductInput{Title: " Phone ", Price: 299, Category: "electronics", Count: 3})
	require.NoError(t, err)
	assert.Equal(t, "Phone", created.Title)
	require.NotNil(t, created.Category)
	assert.Equal(t, "electronics", created.Category.Name)

	updated, err := svc.UpdateProduct(ctx, "admin", created.ID, domain.ProductInput{Title: "Phone", Price: 249, Category: "phones"})
	require.NoError(t, err)
	assert.Equal(t, 249.0, updated.Price)

	got, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "phones", got.Category.Name)

	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 2)

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 1)

	assert.Equal(t, []events.EventType{events.EventProductCreated, events.EventProductUpdated}, types)
}

func TestCatalogValidation(t *testing.T) {
	svc := NewCatalogService(repotest.NewStore().Products(), nil, nil, nil)

	_, err := svc.CreateProduct(context.Background(), "admin", domain.ProductInput{Price: -1})
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	assert.Contains(t, de.Details, "title")
	assert.Contains(t, de.Details, "category")
	assert.Contains(t, de.Details, "price")
}

func TestCatalogNotFound(t *testing.T) {
	store := repotest.NewStore()
	svc := NewCatalogService(store.Products(), store.Categories(), nil, nil)
	ctx := context.Background()

	_, err := svc.GetProduct(ctx, "missing")
	assert.Equal(t, http.StatusNotFound, statusOf(err))

	_, err = svc.UpdateProduct(ctx, "admin", "missing", domain.ProductInput{Title: "x", Category: "y"})
	assert.Equal(t, http.StatusNotFound, statusOf(err))

	store.SetErr(errors.New("db down"))
	_, err = svc.ListProducts(ctx)
	assert.Equal(t, http.StatusInternalServerError, statusOf(err))
}
