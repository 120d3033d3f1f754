package category_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/amirasaad/strides/internal/fixtures"
	"github.com/amirasaad/strides/pkg/domain"
	"github.com/amirasaad/strides/pkg/domain/category"
	"github.com/amirasaad/strides/pkg/dto"
	categoryrepo "github.com/amirasaad/strides/pkg/repository/category"
	categorysvc "github.com/amirasaad/strides/pkg/service/category"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() (*categorysvc.Service, *fixtures.Store) {
	store := fixtures.NewStore()
	return categorysvc.New(fixtures.NewUoW(store), slog.Default()), store
}

func TestCreateAndList(t *testing.T) {
	t.Parallel()
	svc, _ := newService()
	ctx := context.Background()
	userID := uuid.New()

	food, err := svc.Create(ctx, userID, "  Food ")
	require.NoError(t, err)
	assert.Equal(t, "Food", food.Name)
	assert.False(t, food.IsDefault)
	assert.Empty(t, food.SubCategories)

	_, err = svc.Create(ctx, userID, "Food")
	assert.ErrorIs(t, err, category.ErrDuplicateCategory)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	// another user may reuse the name
	_, err = svc.Create(ctx, uuid.New(), "Food")
	require.NoError(t, err)

	_, err = svc.Create(ctx, userID, "   ")
	assert.ErrorIs(t, err, category.ErrNameRequired)

	list, err := svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, food.ID, list[0].ID)
}

func TestRename(t *testing.T) {
	t.Parallel()
	svc, _ := newService()
	ctx := context.Background()
	userID := uuid.New()

	food, err := svc.Create(ctx, userID, "Food")
	require.NoError(t, err)
	_, err = svc.Create(ctx, userID, "Travel")
	require.NoError(t, err)

	_, err = svc.Rename(ctx, userID, food.ID, "Travel")
	assert.ErrorIs(t, err, category.ErrDuplicateCategory)

	// renaming to the current name is a no-op, not a duplicate
	_, err = svc.Rename(ctx, userID, food.ID, "Food")
	require.NoError(t, err)

	renamed, err := svc.Rename(ctx, userID, food.ID, "Groceries")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", renamed.Name)

	_, err = svc.Rename(ctx, uuid.New(), food.ID, "Stolen")
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)
}

func TestSubCategories(t *testing.T) {
	t.Parallel()
	svc, _ := newService()
	ctx := context.Background()
	userID := uuid.New()

	food, err := svc.Create(ctx, userID, "Food")
	require.NoError(t, err)

	c, err := svc.AddSubCategory(ctx, userID, food.ID, "Restaurants")
	require.NoError(t, err)
	require.Len(t, c.SubCategories, 1)
	restaurants := c.SubCategories[0]
	assert.Equal(t, "Restaurants", restaurants.Name)

	_, err = svc.AddSubCategory(ctx, userID, food.ID, "Restaurants")
	assert.ErrorIs(t, err, category.ErrDuplicateSubCategory)

	c, err = svc.AddSubCategory(ctx, userID, food.ID, "Groceries")
	require.NoError(t, err)
	require.Len(t, c.SubCategories, 2)

	_, err = svc.RenameSubCategory(ctx, userID, food.ID, restaurants.ID, "Groceries")
	assert.ErrorIs(t, err, category.ErrDuplicateSubCategory)

	c, err = svc.RenameSubCategory(ctx, userID, food.ID, restaurants.ID, "Dining out")
	require.NoError(t, err)
	sub, ok := c.SubCategory(restaurants.ID)
	require.True(t, ok)
	assert.Equal(t, "Dining out", sub.Name)

	_, err = svc.RenameSubCategory(ctx, userID, food.ID, uuid.New(), "Nope")
	assert.ErrorIs(t, err, category.ErrSubCategoryNotFound)

	require.NoError(t, svc.DeleteSubCategory(ctx, userID, food.ID, restaurants.ID))
	err = svc.DeleteSubCategory(ctx, userID, food.ID, restaurants.ID)
	assert.ErrorIs(t, err, category.ErrSubCategoryNotFound)

	got, err := svc.Get(ctx, userID, food.ID)
	require.NoError(t, err)
	require.Len(t, got.SubCategories, 1)
	assert.Equal(t, "Groceries", got.SubCategories[0].Name)
}

func TestDelete(t *testing.T) {
	t.Parallel()
	svc, _ := newService()
	ctx := context.Background()
	userID := uuid.New()

	food, err := svc.Create(ctx, userID, "Food")
	require.NoError(t, err)

	err = svc.Delete(ctx, uuid.New(), food.ID)
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)

	require.NoError(t, svc.Delete(ctx, userID, food.ID))
	_, err = svc.Get(ctx, userID, food.ID)
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEnsureByName(t *testing.T) {
	t.Parallel()
	svc, store := newService()
	ctx := context.Background()
	userID := uuid.New()
	uow := fixtures.NewUoW(store)

	repo, err := uow.CategoryRepository()
	require.NoError(t, err)

	first, err := categorysvc.EnsureByName(ctx, repo, userID, "Transfer")
	require.NoError(t, err)
	assert.True(t, first.IsDefault)

	second, err := categorysvc.EnsureByName(ctx, repo, userID, "Transfer")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	list, err := svc.List(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

// lateRepo misses the first name lookup, as a reader does when another
// request inserts the same category between its read and its write.
type lateRepo struct {
	categoryrepo.Repository
	missed bool
}

func (r *lateRepo) GetByName(ctx context.Context, userID uuid.UUID, name string) (*dto.CategoryRead, error) {
	if !r.missed {
		r.missed = true
		return nil, category.ErrCategoryNotFound
	}
	return r.Repository.GetByName(ctx, userID, name)
}

func TestEnsureByName_LosesInsertRace(t *testing.T) {
	t.Parallel()
	svc, store := newService()
	ctx := context.Background()
	userID := uuid.New()

	existing, err := svc.Create(ctx, userID, "Transfer")
	require.NoError(t, err)

	inner, err := fixtures.NewUoW(store).CategoryRepository()
	require.NoError(t, err)
	got, err := categorysvc.EnsureByName(ctx, &lateRepo{Repository: inner}, userID, "Transfer")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, got.ID)

	list, err := svc.List(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestOwned(t *testing.T) {
	t.Parallel()
	svc, store := newService()
	ctx := context.Background()
	userID := uuid.New()

	food, err := svc.Create(ctx, userID, "Food")
	require.NoError(t, err)
	food, err = svc.AddSubCategory(ctx, userID, food.ID, "Snacks")
	require.NoError(t, err)
	subID := food.SubCategories[0].ID

	repo, err := fixtures.NewUoW(store).CategoryRepository()
	require.NoError(t, err)

	_, err = categorysvc.Owned(ctx, repo, userID, food.ID, &subID)
	require.NoError(t, err)

	missing := uuid.New()
	_, err = categorysvc.Owned(ctx, repo, userID, food.ID, &missing)
	assert.ErrorIs(t, err, category.ErrSubCategoryNotFound)

	_, err = categorysvc.Owned(ctx, repo, uuid.New(), food.ID, nil)
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)
}
