package dto

import (
	"time"

	"github.com/google/uuid"
)

// CategoryRead is a read-optimized DTO for a category and its subcategories.
type CategoryRead struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Name          string
	IsDefault     bool
	SubCategories []SubCategoryRead
	CreatedAt     time.Time
}

// SubCategory finds a subcategory by id.
func (c *CategoryRead) SubCategory(id uuid.UUID) (SubCategoryRead, bool) {
	for _, s := range c.SubCategories {
		if s.ID == id {
			return s, true
		}
	}
	return SubCategoryRead{}, false
}

// HasSubCategoryNamed reports whether a subcategory other than exclude uses name.
func (c *CategoryRead) HasSubCategoryNamed(name string, exclude uuid.UUID) bool {
	for _, s := range c.SubCategories {
		if s.Name == name && s.ID != exclude {
			return true
		}
	}
	return false
}

// SubCategoryRead is a subcategory nested in a category.
type SubCategoryRead struct {
	ID   uuid.UUID
	Name string
}

// CategoryCreate is a DTO for creating a category.
type CategoryCreate struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	IsDefault bool
}

// SubCategoryCreate is a DTO for adding a subcategory.
type SubCategoryCreate struct {
	ID   uuid.UUID
	Name string
}
