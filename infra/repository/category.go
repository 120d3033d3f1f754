package repository

import (
	"context"

	"github.com/amirasaad/strides/pkg/domain/category"
	"github.com/amirasaad/strides/pkg/dto"
	repo "github.com/amirasaad/strides/pkg/repository/category"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a category repository bound to db.
func NewCategoryRepository(db *gorm.DB) repo.Repository {
	return &categoryRepository{db: db}
}

var _ repo.Repository = (*categoryRepository)(nil)

func (r *categoryRepository) withSubCategories(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("SubCategories", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at")
	})
}

func (r *categoryRepository) Create(ctx context.Context, create dto.CategoryCreate) error {
	c := Category{
		ID:        create.ID,
		UserID:    create.UserID,
		Name:      create.Name,
		IsDefault: create.IsDefault,
	}
	return mapError(r.db.WithContext(ctx).Create(&c).Error, nil, category.ErrDuplicateCategory)
}

func (r *categoryRepository) CreateIfAbsent(ctx context.Context, create dto.CategoryCreate) error {
	c := Category{
		ID:        create.ID,
		UserID:    create.UserID,
		Name:      create.Name,
		IsDefault: create.IsDefault,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "name"}},
			DoNothing: true,
		}).
		Create(&c).Error
	return mapError(err, nil, category.ErrDuplicateCategory)
}

func (r *categoryRepository) Get(ctx context.Context, id uuid.UUID) (*dto.CategoryRead, error) {
	var c Category
	if err := r.withSubCategories(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, mapError(err, category.ErrCategoryNotFound, nil)
	}
	return mapCategoryModelToDTO(&c), nil
}

func (r *categoryRepository) GetByName(ctx context.Context, userID uuid.UUID, name string) (*dto.CategoryRead, error) {
	var c Category
	if err := r.withSubCategories(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		First(&c).Error; err != nil {
		return nil, mapError(err, category.ErrCategoryNotFound, nil)
	}
	return mapCategoryModelToDTO(&c), nil
}

func (r *categoryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.CategoryRead, error) {
	var cs []Category
	if err := r.withSubCategories(ctx).
		Where("user_id = ?", userID).
		Order("name").
		Find(&cs).Error; err != nil {
		return nil, mapError(err, nil, nil)
	}
	result := make([]*dto.CategoryRead, 0, len(cs))
	for i := range cs {
		result = append(result, mapCategoryModelToDTO(&cs[i]))
	}
	return result, nil
}

func (r *categoryRepository) Rename(ctx context.Context, id uuid.UUID, name string) error {
	res := r.db.WithContext(ctx).Model(&Category{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return mapError(res.Error, category.ErrCategoryNotFound, category.ErrDuplicateCategory)
	}
	return affected(res, category.ErrCategoryNotFound)
}

// Delete removes a category. Subcategories go with it through the
// ON DELETE CASCADE foreign key.
func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&Category{}, "id = ?", id)
	return affected(res, category.ErrCategoryNotFound)
}

func (r *categoryRepository) AddSubCategory(ctx context.Context, categoryID uuid.UUID, create dto.SubCategoryCreate) error {
	s := SubCategory{ID: create.ID, CategoryID: categoryID, Name: create.Name}
	return mapError(r.db.WithContext(ctx).Create(&s).Error, nil, category.ErrDuplicateSubCategory)
}

func (r *categoryRepository) RenameSubCategory(ctx context.Context, categoryID, subID uuid.UUID, name string) error {
	res := r.db.WithContext(ctx).
		Model(&SubCategory{}).
		Where("id = ? AND category_id = ?", subID, categoryID).
		Update("name", name)
	if res.Error != nil {
		return mapError(res.Error, category.ErrSubCategoryNotFound, category.ErrDuplicateSubCategory)
	}
	return affected(res, category.ErrSubCategoryNotFound)
}

func (r *categoryRepository) DeleteSubCategory(ctx context.Context, categoryID, subID uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&SubCategory{}, "id = ? AND category_id = ?", subID, categoryID)
	return affected(res, category.ErrSubCategoryNotFound)
}

func mapCategoryModelToDTO(c *Category) *dto.CategoryRead {
	subs := make([]dto.SubCategoryRead, 0, len(c.SubCategories))
	for _, s := range c.SubCategories {
		subs = append(subs, dto.SubCategoryRead{ID: s.ID, Name: s.Name})
	}
	return &dto.CategoryRead{
		ID:            c.ID,
		UserID:        c.UserID,
		Name:          c.Name,
		IsDefault:     c.IsDefault,
		SubCategories: subs,
		CreatedAt:     c.CreatedAt,
	}
}
