// Package client is a typed HTTP client for the catalog API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"catalog-admin/internal/domain"
	"catalog-admin/internal/pagination"
)

// APIError is a non-2xx answer. Message holds the server's "error" field.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog api: %d %s", e.Status, e.Message)
}

// ProductPage is one page of the product listing.
type ProductPage struct {
	Data       []domain.Product `json:"data"`
	Pagination pagination.Meta  `json:"Pagination"`
}

// Image is a file attached to a product form.
type Image struct {
	Filename string
	Content  io.Reader
}

// ProductForm carries the fields of a product create or update. A nil Image
// sends no file, which on update keeps the stored image.
type ProductForm struct {
	Name        string
	Description string
	CategoryID  int64
	Image       *Image
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default client, which times out after 30s.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New returns a client for the API rooted at baseURL, e.g.
// "http://localhost:8080/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := c.doJSON(ctx, http.MethodGet, "/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCategory returns nil when the category does not exist.
func (c *Client) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	var out *domain.Category
	if err := c.doJSON(ctx, http.MethodGet, "/categories/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	var out domain.Category
	if err := c.doJSON(ctx, http.MethodPost, "/categories", categoryBody(name), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id int64, name string) (*domain.Category, error) {
	var out domain.Category
	if err := c.doJSON(ctx, http.MethodPut, "/categories/"+strconv.FormatInt(id, 10), categoryBody(name), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/categories/"+strconv.FormatInt(id, 10), nil, nil)
}

// ListProducts fetches one page. categoryID 0 lists every category.
func (c *Client) ListProducts(ctx context.Context, page int, categoryID int64) (*ProductPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if categoryID != 0 {
		q.Set("categoryId", strconv.FormatInt(categoryID, 10))
	}

	var out ProductPage
	if err := c.doJSON(ctx, http.MethodGet, "/products?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProduct returns nil when the product does not exist.
func (c *Client) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var out *domain.Product
	if err := c.doJSON(ctx, http.MethodGet, "/products/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateProduct(ctx context.Context, form ProductForm) (*domain.Product, error) {
	return c.sendProduct(ctx, http.MethodPost, "/products", form)
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, form ProductForm) (*domain.Product, error) {
	return c.sendProduct(ctx, http.MethodPut, "/products/"+strconv.FormatInt(id, 10), form)
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/products/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *Client) sendProduct(ctx context.Context, method, path string, form ProductForm) (*domain.Product, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fields := [][2]string{
		{"name", form.Name},
		{"description", form.Description},
		{"categoryId", strconv.FormatInt(form.CategoryID, 10)},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("failed to encode form: %w", err)
		}
	}

	if form.Image != nil {
		part, err := mw.CreateFormFile("image", form.Image.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}
		if _, err := io.Copy(part, form.Image.Content); err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out domain.Product
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func categoryBody(name string) io.Reader {
	data, _ := json.Marshal(map[string]string{"categoryName": name})
	return bytes.NewReader(data)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			apiErr.Message = payload.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}
