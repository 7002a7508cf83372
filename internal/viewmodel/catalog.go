// Package viewmodel holds the state and transitions behind the catalog pages.
// Each page is driven from a single goroutine; the types are not safe for
// concurrent use.
package viewmodel

import (
	"context"
	"errors"

	"catalog-admin/internal/client"
	"catalog-admin/internal/domain"
)

// ErrNoDraft is returned when a draft operation finds no open draft.
var ErrNoDraft = errors.New("no draft is open")

// Catalog is the API surface the pages use. *client.Client implements it.
type Catalog interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, name string) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, name string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	ListProducts(ctx context.Context, page int, categoryID int64) (*client.ProductPage, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, form client.ProductForm) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, form client.ProductForm) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

var _ Catalog = (*client.Client)(nil)

// errorMessage returns what a page shows for err: the server's message when
// there is one.
func errorMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
