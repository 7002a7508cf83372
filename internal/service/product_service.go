package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"catalog-admin/internal/domain"
	"catalog-admin/internal/pagination"
	"catalog-admin/internal/repository"
	"catalog-admin/internal/storage"
)

// ImageUpload is an image sent along with a product form.
type ImageUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// ProductInput is the full set of editable product fields. A nil or empty
// Image means no new image was sent.
type ProductInput struct {
	Name        string
	Description string
	CategoryID  int64
	Image       *ImageUpload
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Data       []*domain.Product `json:"data"`
	Pagination pagination.Meta   `json:"Pagination"`
}

// ProductService defines the interface for product business logic
type ProductService interface {
	List(ctx context.Context, page int, categoryID *int64) (*ProductPage, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, in ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, in ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

type productService struct {
	productRepo repository.ProductRepository
	uploader    storage.Uploader
	pageSize    int
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository, uploader storage.Uploader) ProductService {
	return &productService{
		productRepo: productRepo,
		uploader:    uploader,
		pageSize:    pagination.DefaultPageSize,
	}
}

// List returns one page of products, newest first, optionally restricted to a
// category. Pages past the end come back empty.
func (s *productService) List(ctx context.Context, page int, categoryID *int64) (*ProductPage, error) {
	if err := pagination.Validate(page); err != nil {
		return nil, err
	}

	filter := repository.ProductFilter{CategoryID: categoryID}

	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	products, err := s.productRepo.List(ctx, filter, pagination.Offset(page, s.pageSize), s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return &ProductPage{
		Data:       products,
		Pagination: pagination.Compute(page, s.pageSize, total),
	}, nil
}

// Get returns the product or nil when no product has this id
func (s *productService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

func (s *productService) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}

	image, err := s.saveImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.Create(ctx, &domain.Product{
		Name:        in.Name,
		Description: in.Description,
		Image:       image,
		CategoryID:  in.CategoryID,
	})
	if err != nil {
		return nil, s.discardImage(ctx, image, fmt.Errorf("failed to create product: %w", err))
	}
	return product, nil
}

// Update replaces the product's fields. Without a new image the stored path is kept.
func (s *productService) Update(ctx context.Context, id int64, in ProductInput) (*domain.Product, error) {
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}

	image, err := s.saveImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.Update(ctx, id, domain.ProductChanges{
		Name:        in.Name,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		Image:       image,
	})
	if err != nil {
		return nil, s.discardImage(ctx, image, fmt.Errorf("failed to update product: %w", err))
	}
	return product, nil
}

func (s *productService) Delete(ctx context.Context, id int64) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// saveImage persists a non-empty upload and returns its public path, or nil
// when there is nothing to store.
func (s *productService) saveImage(ctx context.Context, img *ImageUpload) (*string, error) {
	if img == nil || img.Size <= 0 || img.Content == nil {
		return nil, nil
	}

	path, err := s.uploader.Save(ctx, img.Filename, img.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to save image: %w", err)
	}
	return &path, nil
}

// discardImage removes an image saved for a write that then failed, so no
// product-less file stays under the upload directory.
func (s *productService) discardImage(ctx context.Context, image *string, cause error) error {
	if image == nil {
		return cause
	}
	if err := s.uploader.Remove(context.WithoutCancel(ctx), *image); err != nil {
		return errors.Join(cause, fmt.Errorf("failed to remove image: %w", err))
	}
	return cause
}

func normalize(in ProductInput) (ProductInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)

	if in.Name == "" || in.Description == "" {
		return in, ErrRequiredFields
	}
	return in, nil
}
