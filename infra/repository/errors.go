package repository

import (
	"errors"
	"fmt"

	"github.com/amirasaad/strides/pkg/domain"
	"gorm.io/gorm"
)

// MapGormErrorToDomain converts GORM errors to domain errors.
// This keeps infrastructure concerns (database errors) within the infrastructure layer.
// Unrecognised failures are wrapped in domain.ErrPersistence so callers can
// classify them while the driver message is kept for logs.
func MapGormErrorToDomain(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrAlreadyExists
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, domain.ErrPersistence):
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
}

// WrapError wraps a GORM operation and automatically maps errors.
//
//	err := WrapError(func() error {
//	    return r.db.WithContext(ctx).Create(user).Error
//	})
func WrapError(op func() error) error {
	return MapGormErrorToDomain(op())
}

// mapError is MapGormErrorToDomain with entity-specific errors substituted
// for the generic not-found and duplicate sentinels. Either may be nil.
func mapError(err error, notFound, duplicate error) error {
	mapped := MapGormErrorToDomain(err)
	switch {
	case notFound != nil && errors.Is(mapped, domain.ErrNotFound):
		return notFound
	case duplicate != nil && errors.Is(mapped, domain.ErrAlreadyExists):
		return duplicate
	}
	return mapped
}

// affected returns notFound when a write matched no rows.
func affected(res *gorm.DB, notFound error) error {
	if res.Error != nil {
		return mapError(res.Error, notFound, nil)
	}
	if res.RowsAffected == 0 {
		return notFound
	}
	return nil
}
