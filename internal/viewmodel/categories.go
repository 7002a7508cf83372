package viewmodel

import (
	"context"
	"strings"

	"catalog-admin/internal/domain"
)

// CategoryDraft is the content of the add or rename dialog.
type CategoryDraft struct {
	ID    int64  `json:"id,omitempty"`
	Name  string `json:"name"`
	Error string `json:"error,omitempty"`
}

type CategoriesState struct {
	Categories  []domain.Category `json:"categories"`
	Search      string            `json:"search"`
	Loading     bool              `json:"loading"`
	AddDraft    *CategoryDraft    `json:"addDraft,omitempty"`
	UpdateDraft *CategoryDraft    `json:"updateDraft,omitempty"`
	Error       string            `json:"error,omitempty"`
}

type CategoriesPage struct {
	catalog Catalog
	state   CategoriesState
}

func NewCategoriesPage(catalog Catalog) *CategoriesPage {
	return &CategoriesPage{catalog: catalog, state: CategoriesState{Loading: true}}
}

// State returns a snapshot of the page.
func (p *CategoriesPage) State() CategoriesState {
	s := p.state
	s.Categories = append([]domain.Category(nil), p.state.Categories...)
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

// Load fetches the category list.
func (p *CategoriesPage) Load(ctx context.Context) error {
	p.state.Loading = true
	categories, err := p.catalog.ListCategories(ctx)
	p.state.Loading = false
	if err != nil {
		p.state.Error = errorMessage(err)
		return err
	}

	p.state.Categories = categories
	p.state.Error = ""
	return nil
}

func (p *CategoriesPage) SetSearch(term string) {
	p.state.Search = term
}

// Visible returns the categories whose name contains the search term,
// ignoring case.
func (p *CategoriesPage) Visible() []domain.Category {
	term := strings.ToLower(p.state.Search)
	out := make([]domain.Category, 0, len(p.state.Categories))
	for _, c := range p.state.Categories {
		if strings.Contains(strings.ToLower(c.Name), term) {
			out = append(out, c)
		}
	}
	return out
}

func (p *CategoriesPage) OpenAdd() {
	p.state.AddDraft = &CategoryDraft{}
}

func (p *CategoriesPage) CancelAdd() {
	p.state.AddDraft = nil
}

// SetAddName edits the name in the add dialog.
func (p *CategoriesPage) SetAddName(name string) error {
	if p.state.AddDraft == nil {
		return ErrNoDraft
	}
	p.state.AddDraft.Name = name
	return nil
}

func (p *CategoriesPage) SubmitAdd(ctx context.Context) error {
	d := p.state.AddDraft
	if d == nil {
		return ErrNoDraft
	}

	if _, err := p.catalog.CreateCategory(ctx, d.Name); err != nil {
		d.Error = errorMessage(err)
		return err
	}

	p.state.AddDraft = nil
	return p.Load(ctx)
}

// OpenUpdate starts renaming the category with the given id and name.
func (p *CategoriesPage) OpenUpdate(id int64, name string) {
	p.state.UpdateDraft = &CategoryDraft{ID: id, Name: name}
}

func (p *CategoriesPage) CancelUpdate() {
	p.state.UpdateDraft = nil
}

// SetUpdateName edits the name in the rename dialog.
func (p *CategoriesPage) SetUpdateName(name string) error {
	if p.state.UpdateDraft == nil {
		return ErrNoDraft
	}
	p.state.UpdateDraft.Name = name
	return nil
}

func (p *CategoriesPage) SubmitUpdate(ctx context.Context) error {
	d := p.state.UpdateDraft
	if d == nil {
		return ErrNoDraft
	}

	if _, err := p.catalog.UpdateCategory(ctx, d.ID, d.Name); err != nil {
		d.Error = errorMessage(err)
		return err
	}

	p.state.UpdateDraft = nil
	return p.Load(ctx)
}

func (p *CategoriesPage) Delete(ctx context.Context, id int64) error {
	if err := p.catalog.DeleteCategory(ctx, id); err != nil {
		p.state.Error = errorMessage(err)
		return err
	}
	return p.Load(ctx)
}
