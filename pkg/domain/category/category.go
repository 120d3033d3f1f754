package category

import (
	"strings"

	"github.com/amirasaad/strides/pkg/domain"
)

var (
	ErrCategoryNotFound     = domain.NewError(domain.ErrNotFound, "category not found")
	ErrSubCategoryNotFound  = domain.NewError(domain.ErrNotFound, "subcategory not found")
	ErrDuplicateCategory    = domain.NewError(domain.ErrAlreadyExists, "a category with this name already exists")
	ErrDuplicateSubCategory = domain.NewError(domain.ErrAlreadyExists, "this subcategory already exists in this category")
	ErrNameRequired         = domain.NewError(domain.ErrValidation, "name is required")
)

// NormalizeName trims surrounding whitespace and rejects blank names.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	return name, nil
}
