package viewmodel

import (
	"context"
	"errors"

	"catalog-admin/internal/client"
	"catalog-admin/internal/domain"
	"catalog-admin/internal/pagination"
)

// AllCategories is the id of the synthetic "All" filter entry.
const AllCategories int64 = 0

// ErrProductNotFound is returned by OpenUpdate for an unknown id.
var ErrProductNotFound = errors.New("product not found")

// ProductDraft is the content of the add or update dialog. CurrentImage is
// the path already stored for the product; NewImage is a file picked in the
// dialog and replaces it only on submit.
type ProductDraft struct {
	ID           int64         `json:"id,omitempty"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	CategoryID   int64         `json:"categoryId"`
	CurrentImage *string       `json:"currentImage,omitempty"`
	NewImage     *client.Image `json:"-"`
	NewImageName string        `json:"newImageName,omitempty"`
	Error        string        `json:"error,omitempty"`
}

func (d *ProductDraft) form() client.ProductForm {
	return client.ProductForm{
		Name:        d.Name,
		Description: d.Description,
		CategoryID:  d.CategoryID,
		Image:       d.NewImage,
	}
}

// ProductsState is everything the products page renders.
type ProductsState struct {
	Products         []domain.Product  `json:"products"`
	Filtered         []domain.Product  `json:"filtered"`
	Categories       []domain.Category `json:"categories"`
	SelectedCategory int64             `json:"selectedCategory"`
	CurrentPage      int               `json:"currentPage"`
	Pagination       *pagination.Meta  `json:"pagination"`
	Loading          bool              `json:"loading"`
	AddDraft         *ProductDraft     `json:"addDraft,omitempty"`
	UpdateDraft      *ProductDraft     `json:"updateDraft,omitempty"`
	Error            string            `json:"error,omitempty"`
}

type ProductsPage struct {
	catalog Catalog
	state   ProductsState
}

func NewProductsPage(catalog Catalog) *ProductsPage {
	return &ProductsPage{
		catalog: catalog,
		state: ProductsState{
			SelectedCategory: AllCategories,
			CurrentPage:      1,
			Loading:          true,
		},
	}
}

// State returns a snapshot of the page.
func (p *ProductsPage) State() ProductsState {
	s := p.state
	s.Products = append([]domain.Product(nil), p.state.Products...)
	s.Filtered = append([]domain.Product(nil), p.state.Filtered...)
	s.Categories = append([]domain.Category(nil), p.state.Categories...)
	if p.state.Pagination != nil {
		meta := *p.state.Pagination
		s.Pagination = &meta
	}
	if p.state.AddDraft != nil {
		d := *p.state.AddDraft
		s.AddDraft = &d
	}
	if p.state.UpdateDraft != nil {
		d := *p.state.UpdateDraft
		s.UpdateDraft = &d
	}
	return s
}

// LoadCategories fills the filter bar, "All" first.
func (p *ProductsPage) LoadCategories(ctx context.Context) error {
	categories, err := p.catalog.ListCategories(ctx)
	if err != nil {
		p.state.Error = errorMessage(err)
		return err
	}

	p.state.Categories = append([]domain.Category{{ID: AllCategories, Name: "All"}}, categories...)
	return nil
}

// Open loads the categories and the first page of the current filter.
func (p *ProductsPage) Open(ctx context.Context) error {
	if err := p.LoadCategories(ctx); err != nil {
		return err
	}
	return p.FetchPage(ctx, 1)
}

// FetchPage loads one page for the selected category. The current page is
// taken from the server's answer.
func (p *ProductsPage) FetchPage(ctx context.Context, page int) error {
	p.state.Loading = true

	result, err := p.catalog.ListProducts(ctx, page, p.state.SelectedCategory)
	p.state.Loading = false
	if err != nil {
		p.state.Error = errorMessage(err)
		return err
	}

	p.state.Products = result.Data
	p.state.Filtered = append([]domain.Product(nil), result.Data...)
	p.state.CurrentPage = result.Pagination.CurrentPage
	meta := result.Pagination
	p.state.Pagination = &meta
	p.state.Error = ""
	return nil
}

// GoToPage fetches page when it lies within the known page range and does
// nothing otherwise.
func (p *ProductsPage) GoToPage(ctx context.Context, page int) error {
	if p.state.Pagination == nil || page < 1 || page > p.state.Pagination.TotalPage {
		return nil
	}
	return p.FetchPage(ctx, page)
}

// ApplyFilter selects a category and returns to its first page.
func (p *ProductsPage) ApplyFilter(ctx context.Context, categoryID int64) error {
	p.state.SelectedCategory = categoryID
	return p.FetchPage(ctx, 1)
}

// Window is the list of page buttons for the current page.
func (p *ProductsPage) Window() []pagination.Token {
	if p.state.Pagination == nil {
		return nil
	}
	return pagination.Window(p.state.Pagination.CurrentPage, p.state.Pagination.TotalPage)
}

// DeleteProduct removes a product and reloads the view.
func (p *ProductsPage) DeleteProduct(ctx context.Context, id int64) error {
	if err := p.catalog.DeleteProduct(ctx, id); err != nil {
		p.state.Error = errorMessage(err)
		return err
	}
	return p.ReconcileAfterDelete(ctx)
}

// ReconcileAfterDelete steps back a page when the deleted product was the
// only one on a page past the first; otherwise it reloads the current page.
func (p *ProductsPage) ReconcileAfterDelete(ctx context.Context) error {
	page := p.state.CurrentPage
	if len(p.state.Products) == 1 && page > 1 {
		page--
	}
	return p.FetchPage(ctx, page)
}

func (p *ProductsPage) ReconcileAfterUpdate(ctx context.Context) error {
	return p.FetchPage(ctx, p.state.CurrentPage)
}

// ReconcileAfterAdd shows the first page, where the new product appears.
func (p *ProductsPage) ReconcileAfterAdd(ctx context.Context) error {
	return p.FetchPage(ctx, 1)
}

// OpenAdd starts an empty add dialog, preselecting the filtered category.
func (p *ProductsPage) OpenAdd() {
	p.state.AddDraft = &ProductDraft{CategoryID: p.state.SelectedCategory}
}

func (p *ProductsPage) CancelAdd() {
	p.state.AddDraft = nil
}

// OpenUpdate loads a product into the update dialog.
func (p *ProductsPage) OpenUpdate(ctx context.Context, id int64) error {
	product, err := p.catalog.GetProduct(ctx, id)
	if err != nil {
		p.state.Error = errorMessage(err)
		return err
	}
	if product == nil {
		p.state.Error = ErrProductNotFound.Error()
		return ErrProductNotFound
	}

	p.state.UpdateDraft = &ProductDraft{
		ID:           product.ID,
		Name:         product.Name,
		Description:  product.Description,
		CategoryID:   product.CategoryID,
		CurrentImage: product.Image,
	}
	return nil
}

// CancelUpdate discards the update dialog. The list is left as it was.
func (p *ProductsPage) CancelUpdate() {
	p.state.UpdateDraft = nil
}

// DraftKind selects the add or the update dialog.
type DraftKind int

const (
	DraftAdd DraftKind = iota
	DraftUpdate
)

func (p *ProductsPage) draft(kind DraftKind) *ProductDraft {
	if kind == DraftUpdate {
		return p.state.UpdateDraft
	}
	return p.state.AddDraft
}

// SetDraftFields edits the text fields of an open dialog.
func (p *ProductsPage) SetDraftFields(kind DraftKind, name, description string, categoryID int64) error {
	d := p.draft(kind)
	if d == nil {
		return ErrNoDraft
	}
	d.Name = name
	d.Description = description
	d.CategoryID = categoryID
	return nil
}

// SetDraftImage attaches a newly picked file. A nil image clears the pick;
// CurrentImage is never touched.
func (p *ProductsPage) SetDraftImage(kind DraftKind, image *client.Image) error {
	d := p.draft(kind)
	if d == nil {
		return ErrNoDraft
	}
	d.NewImage = image
	d.NewImageName = ""
	if image != nil {
		d.NewImageName = image.Filename
	}
	return nil
}

// SubmitAdd creates the product. On success the dialog closes and the first
// page is shown; on failure the dialog stays open with the server's message.
func (p *ProductsPage) SubmitAdd(ctx context.Context) error {
	d := p.state.AddDraft
	if d == nil {
		return ErrNoDraft
	}

	if _, err := p.catalog.CreateProduct(ctx, d.form()); err != nil {
		d.Error = errorMessage(err)
		return err
	}

	p.state.AddDraft = nil
	return p.ReconcileAfterAdd(ctx)
}

// SubmitUpdate saves the update dialog. Without a new image the stored one
// is kept.
func (p *ProductsPage) SubmitUpdate(ctx context.Context) error {
	d := p.state.UpdateDraft
	if d == nil {
		return ErrNoDraft
	}

	if _, err := p.catalog.UpdateProduct(ctx, d.ID, d.form()); err != nil {
		d.Error = errorMessage(err)
		return err
	}

	p.state.UpdateDraft = nil
	return p.ReconcileAfterUpdate(ctx)
}
