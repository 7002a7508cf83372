package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"time"

	"catalog-admin/internal/domain"
	"catalog-admin/internal/repository"
)

var errStorageDown = errors.New("storage unreachable")

// Mock repositories for testing
type mockCategoryRepository struct {
	categories map[int64]*domain.Category
	nextID     int64
	err        error
	findCalls  int
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{categories: make(map[int64]*domain.Category)}
}

func (m *mockCategoryRepository) Create(ctx context.Context, name string) (*domain.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.nextID++
	c := &domain.Category{ID: m.nextID, Name: name}
	m.categories[c.ID] = c
	return c, nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, id int64, name string) (*domain.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	c.Name = name
	return c, nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id int64) error {
	if m.err != nil {
		return m.err
	}
	delete(m.categories, id)
	return nil
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*domain.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return c, nil
}

func (m *mockCategoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	m.findCalls++
	if m.err != nil {
		return nil, m.err
	}
	for _, c := range m.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, repository.ErrCategoryNotFound
}

type mockProductRepository struct {
	products   map[int64]*domain.Product
	nextID     int64
	err        error
	lastFilter repository.ProductFilter
	lastOffset int
	lastLimit  int
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[int64]*domain.Product)}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.nextID++
	stored := *product
	stored.ID = m.nextID
	stored.CreatedAt = time.Now()
	stored.Category = &domain.Category{ID: product.CategoryID, Name: "cat"}
	m.products[stored.ID] = &stored
	return &stored, nil
}

func (m *mockProductRepository) Update(ctx context.Context, id int64, changes domain.ProductChanges) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	p.Name = changes.Name
	p.Description = changes.Description
	p.CategoryID = changes.CategoryID
	if changes.Image != nil {
		p.Image = changes.Image
	}
	return p, nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id int64) error {
	if m.err != nil {
		return m.err
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return p, nil
}

func (m *mockProductRepository) matching(filter repository.ProductFilter) []*domain.Product {
	var out []*domain.Product
	for _, p := range m.products {
		if filter.CategoryID == nil || p.CategoryID == *filter.CategoryID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (m *mockProductRepository) Count(ctx context.Context, filter repository.ProductFilter) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.lastFilter = filter
	return len(m.matching(filter)), nil
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ProductFilter, offset, limit int) ([]*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastFilter = filter
	m.lastOffset = offset
	m.lastLimit = limit

	all := m.matching(filter)
	if offset >= len(all) {
		return []*domain.Product{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

type mockUploader struct {
	saved     map[string]string
	removed   []string
	err       error
	removeErr error
}

func newMockUploader() *mockUploader {
	return &mockUploader{saved: make(map[string]string)}
}

func (m *mockUploader) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	path := "/uploads/1700000000000-" + filename
	m.saved[path] = string(data)
	return path, nil
}

func (m *mockUploader) Remove(ctx context.Context, publicPath string) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	m.removed = append(m.removed, publicPath)
	delete(m.saved, publicPath)
	return nil
}
