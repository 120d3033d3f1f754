// Package category provides business logic for user categories and their
// subcategories.
package category

import (
	"context"
	"errors"
	"log/slog"

	"github.com/amirasaad/strides/pkg/domain/category"
	"github.com/amirasaad/strides/pkg/dto"
	"github.com/amirasaad/strides/pkg/repository"
	categoryrepo "github.com/amirasaad/strides/pkg/repository/category"
	"github.com/google/uuid"
)

// Service provides business logic for category operations.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a new Service with a UnitOfWork and logger.
func New(
	uow repository.UnitOfWork,
	logger *slog.Logger,
) *Service {
	return &Service{uow: uow, logger: logger}
}

// Create adds a category for userID. Names are unique per user.
func (s *Service) Create(
	ctx context.Context,
	userID uuid.UUID,
	name string,
) (c *dto.CategoryRead, err error) {
	log := s.logger.With("userID", userID)
	name, err = category.NormalizeName(name)
	if err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		if _, err := repo.GetByName(ctx, userID, name); err == nil {
			return category.ErrDuplicateCategory
		} else if !errors.Is(err, category.ErrCategoryNotFound) {
			return err
		}
		id := uuid.New()
		if err := repo.Create(ctx, dto.CategoryCreate{ID: id, UserID: userID, Name: name}); err != nil {
			return err
		}
		c, err = repo.Get(ctx, id)
		return err
	})
	if err != nil {
		log.Error("Create category failed", "error", err)
		return nil, err
	}
	log.Info("Create category successful", "categoryID", c.ID)
	return c, nil
}

// List returns the categories of userID.
func (s *Service) List(
	ctx context.Context,
	userID uuid.UUID,
) (cs []*dto.CategoryRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		cs, err = repo.ListByUser(ctx, userID)
		return err
	})
	if err != nil {
		cs = nil
	}
	return
}

// Get returns a category owned by userID.
func (s *Service) Get(
	ctx context.Context,
	userID, id uuid.UUID,
) (c *dto.CategoryRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		c, err = owned(ctx, repo, userID, id)
		return err
	})
	if err != nil {
		c = nil
	}
	return
}

// Rename changes the name of a category.
func (s *Service) Rename(
	ctx context.Context,
	userID, id uuid.UUID,
	name string,
) (c *dto.CategoryRead, err error) {
	log := s.logger.With("userID", userID, "categoryID", id)
	name, err = category.NormalizeName(name)
	if err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		if _, err := owned(ctx, repo, userID, id); err != nil {
			return err
		}
		existing, err := repo.GetByName(ctx, userID, name)
		switch {
		case err == nil && existing.ID != id:
			return category.ErrDuplicateCategory
		case err != nil && !errors.Is(err, category.ErrCategoryNotFound):
			return err
		}
		if err := repo.Rename(ctx, id, name); err != nil {
			return err
		}
		c, err = repo.Get(ctx, id)
		return err
	})
	if err != nil {
		log.Error("Rename category failed", "error", err)
		return nil, err
	}
	log.Info("Rename category successful")
	return c, nil
}

// Delete removes a category and its subcategories. Transactions keep their
// category id.
func (s *Service) Delete(
	ctx context.Context,
	userID, id uuid.UUID,
) error {
	log := s.logger.With("userID", userID, "categoryID", id)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		if _, err := owned(ctx, repo, userID, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		log.Error("Delete category failed", "error", err)
		return err
	}
	log.Info("Delete category successful")
	return nil
}

// AddSubCategory appends a subcategory and returns the updated category.
func (s *Service) AddSubCategory(
	ctx context.Context,
	userID, categoryID uuid.UUID,
	name string,
) (c *dto.CategoryRead, err error) {
	log := s.logger.With("userID", userID, "categoryID", categoryID)
	name, err = category.NormalizeName(name)
	if err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		parent, err := owned(ctx, repo, userID, categoryID)
		if err != nil {
			return err
		}
		if parent.HasSubCategoryNamed(name, uuid.Nil) {
			return category.ErrDuplicateSubCategory
		}
		if err := repo.AddSubCategory(ctx, categoryID, dto.SubCategoryCreate{ID: uuid.New(), Name: name}); err != nil {
			return err
		}
		c, err = repo.Get(ctx, categoryID)
		return err
	})
	if err != nil {
		log.Error("Add subcategory failed", "error", err)
		return nil, err
	}
	log.Info("Add subcategory successful")
	return c, nil
}

// RenameSubCategory renames a subcategory and returns the updated category.
func (s *Service) RenameSubCategory(
	ctx context.Context,
	userID, categoryID, subID uuid.UUID,
	name string,
) (c *dto.CategoryRead, err error) {
	log := s.logger.With("userID", userID, "categoryID", categoryID, "subCategoryID", subID)
	name, err = category.NormalizeName(name)
	if err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		parent, err := owned(ctx, repo, userID, categoryID)
		if err != nil {
			return err
		}
		if _, ok := parent.SubCategory(subID); !ok {
			return category.ErrSubCategoryNotFound
		}
		if parent.HasSubCategoryNamed(name, subID) {
			return category.ErrDuplicateSubCategory
		}
		if err := repo.RenameSubCategory(ctx, categoryID, subID, name); err != nil {
			return err
		}
		c, err = repo.Get(ctx, categoryID)
		return err
	})
	if err != nil {
		log.Error("Rename subcategory failed", "error", err)
		return nil, err
	}
	log.Info("Rename subcategory successful")
	return c, nil
}

// DeleteSubCategory removes a subcategory.
func (s *Service) DeleteSubCategory(
	ctx context.Context,
	userID, categoryID, subID uuid.UUID,
) error {
	log := s.logger.With("userID", userID, "categoryID", categoryID, "subCategoryID", subID)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		parent, err := owned(ctx, repo, userID, categoryID)
		if err != nil {
			return err
		}
		if _, ok := parent.SubCategory(subID); !ok {
			return category.ErrSubCategoryNotFound
		}
		return repo.DeleteSubCategory(ctx, categoryID, subID)
	})
	if err != nil {
		log.Error("Delete subcategory failed", "error", err)
		return err
	}
	log.Info("Delete subcategory successful")
	return nil
}

// EnsureByName returns the category of userID called name and creates it,
// flagged as default, when it does not exist yet. It runs on the caller's
// repository so it joins the caller's unit of work.
func EnsureByName(
	ctx context.Context,
	repo categoryrepo.Repository,
	userID uuid.UUID,
	name string,
) (*dto.CategoryRead, error) {
	c, err := repo.GetByName(ctx, userID, name)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, category.ErrCategoryNotFound) {
		return nil, err
	}
	// a concurrent caller may insert the same name first; either way the
	// row that won is read back by name.
	if err := repo.CreateIfAbsent(ctx, dto.CategoryCreate{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		IsDefault: true,
	}); err != nil {
		return nil, err
	}
	return repo.GetByName(ctx, userID, name)
}

// owned loads a category and hides categories of other users behind
// ErrCategoryNotFound.
func owned(
	ctx context.Context,
	repo categoryrepo.Repository,
	userID, id uuid.UUID,
) (*dto.CategoryRead, error) {
	c, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, category.ErrCategoryNotFound
	}
	return c, nil
}

// Owned loads a category of userID for callers that validate references
// inside their own unit of work. subID, when set, must belong to it.
func Owned(
	ctx context.Context,
	repo categoryrepo.Repository,
	userID, id uuid.UUID,
	subID *uuid.UUID,
) (*dto.CategoryRead, error) {
	c, err := owned(ctx, repo, userID, id)
	if err != nil {
		return nil, err
	}
	if subID != nil {
		if _, ok := c.SubCategory(*subID); !ok {
			return nil, category.ErrSubCategoryNotFound
		}
	}
	return c, nil
}
