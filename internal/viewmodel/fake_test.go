package viewmodel

import (
	"context"
	"io"
	"net/http"
	"sort"
	"strings"

	"catalog-admin/internal/client"
	"catalog-admin/internal/domain"
	"catalog-admin/internal/pagination"
)

// fakeCatalog is an in-memory API with the server's paging and validation.
type fakeCatalog struct {
	categories []domain.Category
	products   []domain.Product
	nextID     int64
	listCalls  []int
	failNext   error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{}
}

func (f *fakeCatalog) takeFailure() error {
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeCatalog) seedProducts(n int, categoryID int64) {
	for i := 0; i < n; i++ {
		f.nextID++
		f.products = append(f.products, domain.Product{
			ID: f.nextID, Name: "p", Description: "d", CategoryID: categoryID,
		})
	}
}

func (f *fakeCatalog) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if err := f.takeFailure(); err != nil {
		return nil, err
	}
	out := append([]domain.Category(nil), f.categories...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeCatalog) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	if err := f.checkCategoryName(name); err != nil {
		return nil, err
	}
	f.nextID++
	c := domain.Category{ID: f.nextID, Name: name}
	f.categories = append(f.categories, c)
	return &c, nil
}

func (f *fakeCatalog) UpdateCategory(ctx context.Context, id int64, name string) (*domain.Category, error) {
	if err := f.checkCategoryName(name); err != nil {
		return nil, err
	}
	for i := range f.categories {
		if f.categories[i].ID == id {
			f.categories[i].Name = name
			c := f.categories[i]
			return &c, nil
		}
	}
	return nil, &client.APIError{Status: http.StatusInternalServerError, Message: "server error PUT"}
}

func (f *fakeCatalog) checkCategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &client.APIError{Status: http.StatusBadRequest, Message: "Please fill in all required field"}
	}
	for _, c := range f.categories {
		if c.Name == name {
			return &client.APIError{Status: http.StatusBadRequest, Message: "This category already exist"}
		}
	}
	return nil
}

func (f *fakeCatalog) DeleteCategory(ctx context.Context, id int64) error {
	for i := range f.categories {
		if f.categories[i].ID == id {
			f.categories = append(f.categories[:i], f.categories[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeCatalog) ListProducts(ctx context.Context, page int, categoryID int64) (*client.ProductPage, error) {
	f.listCalls = append(f.listCalls, page)
	if err := f.takeFailure(); err != nil {
		return nil, err
	}
	if page < 1 {
		return nil, &client.APIError{Status: http.StatusBadRequest, Message: "page must be positive number"}
	}

	var matching []domain.Product
	for _, p := range f.products {
		if categoryID == 0 || p.CategoryID == categoryID {
			matching = append(matching, p)
		}
	}
	sort.Slice(matching, func(i, j int) bool { return matching[i].ID > matching[j].ID })

	size := pagination.DefaultPageSize
	start := pagination.Offset(page, size)
	data := []domain.Product{}
	if start < len(matching) {
		end := min(start+size, len(matching))
		data = matching[start:end]
	}

	return &client.ProductPage{
		Data:       data,
		Pagination: pagination.Compute(page, size, len(matching)),
	}, nil
}

func (f *fakeCatalog) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) CreateProduct(ctx context.Context, form client.ProductForm) (*domain.Product, error) {
	if err := checkProductForm(form); err != nil {
		return nil, err
	}
	f.nextID++
	p := domain.Product{
		ID:          f.nextID,
		Name:        strings.TrimSpace(form.Name),
		Description: strings.TrimSpace(form.Description),
		CategoryID:  form.CategoryID,
		Image:       imagePath(form.Image),
	}
	f.products = append(f.products, p)
	return &p, nil
}

func (f *fakeCatalog) UpdateProduct(ctx context.Context, id int64, form client.ProductForm) (*domain.Product, error) {
	if err := checkProductForm(form); err != nil {
		return nil, err
	}
	for i := range f.products {
		if f.products[i].ID != id {
			continue
		}
		p := &f.products[i]
		p.Name = strings.TrimSpace(form.Name)
		p.Description = strings.TrimSpace(form.Description)
		p.CategoryID = form.CategoryID
		if img := imagePath(form.Image); img != nil {
			p.Image = img
		}
		out := *p
		return &out, nil
	}
	return nil, &client.APIError{Status: http.StatusInternalServerError, Message: "server error PUT"}
}

func (f *fakeCatalog) DeleteProduct(ctx context.Context, id int64) error {
	if err := f.takeFailure(); err != nil {
		return err
	}
	for i := range f.products {
		if f.products[i].ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			break
		}
	}
	return nil
}

func checkProductForm(form client.ProductForm) error {
	if strings.TrimSpace(form.Name) == "" || strings.TrimSpace(form.Description) == "" {
		return &client.APIError{Status: http.StatusBadRequest, Message: "Please fill in all required field"}
	}
	return nil
}

func imagePath(img *client.Image) *string {
	if img == nil {
		return nil
	}
	data, _ := io.ReadAll(img.Content)
	if len(data) == 0 {
		return nil
	}
	path := "/uploads/1700000000000-" + img.Filename
	return &path
}
