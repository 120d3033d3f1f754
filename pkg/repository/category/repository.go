package category

import (
	"context"

	"github.com/amirasaad/strides/pkg/dto"
	"github.com/google/uuid"
)

// Repository defines the interface for category and subcategory data access.
type Repository interface {
	Create(ctx context.Context, create dto.CategoryCreate) error
	// CreateIfAbsent inserts the category unless the user already has one
	// with the same name. An existing category is left untouched.
	CreateIfAbsent(ctx context.Context, create dto.CategoryCreate) error
	Get(ctx context.Context, id uuid.UUID) (*dto.CategoryRead, error)
	// GetByName returns category.ErrCategoryNotFound when the user has no
	// category with that exact name.
	GetByName(ctx context.Context, userID uuid.UUID, name string) (*dto.CategoryRead, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.CategoryRead, error)
	Rename(ctx context.Context, id uuid.UUID, name string) error
	Delete(ctx context.Context, id uuid.UUID) error

	AddSubCategory(ctx context.Context, categoryID uuid.UUID, create dto.SubCategoryCreate) error
	RenameSubCategory(ctx context.Context, categoryID, subID uuid.UUID, name string) error
	DeleteSubCategory(ctx context.Context, categoryID, subID uuid.UUID) error
}
