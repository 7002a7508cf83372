package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"

	"catalog-admin/internal/domain"
	"catalog-admin/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var errDatabaseDown = errors.New("database unreachable")

type stubCategoryService struct {
	categories []*domain.Category
	existing   map[string]bool
	err        error
	lastName   string
	deletedID  int64
}

func (s *stubCategoryService) List(ctx context.Context) ([]*domain.Category, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.categories, nil
}

func (s *stubCategoryService) Get(ctx context.Context, id int64) (*domain.Category, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, c := range s.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (s *stubCategoryService) Create(ctx context.Context, name string) (*domain.Category, error) {
	return s.save(0, name)
}

func (s *stubCategoryService) Update(ctx context.Context, id int64, name string) (*domain.Category, error) {
	return s.save(id, name)
}

func (s *stubCategoryService) save(id int64, name string) (*domain.Category, error) {
	s.lastName = name
	if s.err != nil {
		return nil, s.err
	}
	if s.existing[name] {
		return nil, service.ErrCategoryAlreadyExists
	}
	if id == 0 {
		id = int64(len(s.categories) + 1)
	}
	c := &domain.Category{ID: id, Name: name}
	s.categories = append(s.categories, c)
	return c, nil
}

func (s *stubCategoryService) Delete(ctx context.Context, id int64) error {
	s.deletedID = id
	return s.err
}

type capturedImage struct {
	filename string
	size     int64
	content  string
}

type stubProductService struct {
	page         *service.ProductPage
	product      *domain.Product
	err          error
	lastPage     int
	lastCategory *int64
	lastID       int64
	lastInput    service.ProductInput
	image        *capturedImage
}

func (s *stubProductService) List(ctx context.Context, page int, categoryID *int64) (*service.ProductPage, error) {
	s.lastPage = page
	s.lastCategory = categoryID
	if s.err != nil {
		return nil, s.err
	}
	return s.page, nil
}

func (s *stubProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	s.lastID = id
	if s.err != nil {
		return nil, s.err
	}
	return s.product, nil
}

func (s *stubProductService) Create(ctx context.Context, in service.ProductInput) (*domain.Product, error) {
	return s.save(0, in)
}

func (s *stubProductService) Update(ctx context.Context, id int64, in service.ProductInput) (*domain.Product, error) {
	return s.save(id, in)
}

// save records the input and drains the image part while the request is
// still open.
func (s *stubProductService) save(id int64, in service.ProductInput) (*domain.Product, error) {
	s.lastID = id
	s.lastInput = in
	if in.Image != nil {
		data, err := io.ReadAll(in.Image.Content)
		if err != nil {
			return nil, err
		}
		s.image = &capturedImage{filename: in.Image.Filename, size: in.Image.Size, content: string(data)}
	}
	if s.err != nil {
		return nil, s.err
	}
	if id == 0 {
		id = 1
	}
	return &domain.Product{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		Category:    &domain.Category{ID: in.CategoryID, Name: "Electronics"},
	}, nil
}

func (s *stubProductService) Delete(ctx context.Context, id int64) error {
	s.lastID = id
	return s.err
}

func newTestRouter(categories service.CategoryService, products service.ProductService) http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		NewCategoryHandler(categories, zap.NewNop()).RegisterRoutes(r)
		NewProductHandler(products, zap.NewNop(), 1<<20).RegisterRoutes(r)
	})
	return r
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
