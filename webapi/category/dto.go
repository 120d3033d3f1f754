package category

import (
	"time"

	"github.com/amirasaad/strides/pkg/dto"
	"github.com/google/uuid"
)

// NameRequest is the body of every create and rename request.
type NameRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// SubCategoryDTO is a subcategory in API responses.
type SubCategoryDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// CategoryDTO is the API response representation of a category.
type CategoryDTO struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	IsDefault     bool             `json:"isDefault"`
	SubCategories []SubCategoryDTO `json:"subCategories"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// ToCategoryDTO maps a dto.CategoryRead to a CategoryDTO.
func ToCategoryDTO(c *dto.CategoryRead) *CategoryDTO {
	subs := make([]SubCategoryDTO, 0, len(c.SubCategories))
	for _, s := range c.SubCategories {
		subs = append(subs, SubCategoryDTO{ID: s.ID, Name: s.Name})
	}
	return &CategoryDTO{
		ID:            c.ID,
		Name:          c.Name,
		IsDefault:     c.IsDefault,
		SubCategories: subs,
		CreatedAt:     c.CreatedAt,
	}
}
