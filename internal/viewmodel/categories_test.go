package viewmodel

import (
	"context"
	"testing"

	"catalog-admin/internal/client"
	"catalog-admin/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoriesPage_AddRefetches(t *testing.T) {
	f := newFakeCatalog()
	p := NewCategoriesPage(f)
	ctx := context.Background()
	require.NoError(t, p.Load(ctx))
	assert.False(t, p.State().Loading)

	p.OpenAdd()
	require.NoError(t, p.SetAddName("Electronics"))
	require.NoError(t, p.SubmitAdd(ctx))
	p.OpenAdd()
	require.NoError(t, p.SetAddName("Books"))
	require.NoError(t, p.SubmitAdd(ctx))

	s := p.State()
	assert.Nil(t, s.AddDraft)
	assert.Equal(t, []domain.Category{{ID: 2, Name: "Books"}, {ID: 1, Name: "Electronics"}}, s.Categories)
}

func TestCategoriesPage_DuplicateKeepsDraft(t *testing.T) {
	f := newFakeCatalog()
	f.categories = []domain.Category{{ID: 1, Name: "Electronics"}}
	f.nextID = 1
	p := NewCategoriesPage(f)
	ctx := context.Background()
	require.NoError(t, p.Load(ctx))

	p.OpenAdd()
	require.NoError(t, p.SetAddName("Electronics"))
	err := p.SubmitAdd(ctx)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	s := p.State()
	require.NotNil(t, s.AddDraft)
	assert.Equal(t, "This category already exist", s.AddDraft.Error)
	assert.Len(t, s.Categories, 1)

	p.CancelAdd()
	assert.Nil(t, p.State().AddDraft)
}

func TestCategoriesPage_RenameAndDelete(t *testing.T) {
	f := newFakeCatalog()
	f.categories = []domain.Category{{ID: 1, Name: "Toys"}, {ID: 2, Name: "Books"}}
	f.nextID = 2
	p := NewCategoriesPage(f)
	ctx := context.Background()
	require.NoError(t, p.Load(ctx))

	p.OpenUpdate(1, "Toys")
	require.NoError(t, p.SetUpdateName("Games"))
	require.NoError(t, p.SubmitUpdate(ctx))
	assert.Nil(t, p.State().UpdateDraft)
	assert.Equal(t, []domain.Category{{ID: 2, Name: "Books"}, {ID: 1, Name: "Games"}}, p.State().Categories)

	require.NoError(t, p.Delete(ctx, 2))
	assert.Equal(t, []domain.Category{{ID: 1, Name: "Games"}}, p.State().Categories)
}

func TestCategoriesPage_RenameToBlank(t *testing.T) {
	f := newFakeCatalog()
	f.categories = []domain.Category{{ID: 1, Name: "Toys"}}
	p := NewCategoriesPage(f)
	ctx := context.Background()
	require.NoError(t, p.Load(ctx))

	p.OpenUpdate(1, "Toys")
	require.NoError(t, p.SetUpdateName("   "))
	require.Error(t, p.SubmitUpdate(ctx))
	assert.Equal(t, "Please fill in all required field", p.State().UpdateDraft.Error)

	p.CancelUpdate()
	assert.Equal(t, []domain.Category{{ID: 1, Name: "Toys"}}, p.State().Categories)
}

func TestCategoriesPage_Visible(t *testing.T) {
	f := newFakeCatalog()
	f.categories = []domain.Category{{ID: 1, Name: "Electronics"}, {ID: 2, Name: "Books"}, {ID: 3, Name: "E-Books"}}
	p := NewCategoriesPage(f)
	require.NoError(t, p.Load(context.Background()))

	p.SetSearch("BOOK")
	assert.Equal(t, []domain.Category{{ID: 3, Name: "E-Books"}, {ID: 2, Name: "Books"}}, p.Visible())

	p.SetSearch("")
	assert.Len(t, p.Visible(), 3)
}

func TestCategoriesPage_DraftOperationsWithoutDraft(t *testing.T) {
	p := NewCategoriesPage(newFakeCatalog())
	ctx := context.Background()

	assert.ErrorIs(t, p.SubmitAdd(ctx), ErrNoDraft)
	assert.ErrorIs(t, p.SubmitUpdate(ctx), ErrNoDraft)
	assert.ErrorIs(t, p.SetAddName("x"), ErrNoDraft)
	assert.ErrorIs(t, p.SetUpdateName("x"), ErrNoDraft)
}
