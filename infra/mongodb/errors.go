package mongodb

import (
	"errors"
	"fmt"

	"github.com/amirasaad/strides/pkg/domain"
	"go.mongodb.org/mongo-driver/mongo"
)

// mapMongoError converts driver errors to domain errors. Unrecognised
// failures are wrapped in domain.ErrPersistence.
func mapMongoError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return domain.ErrAlreadyExists
	case errors.Is(err, domain.ErrPersistence):
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
}

// mapError is mapMongoError with entity-specific errors substituted for the
// generic not-found and duplicate sentinels. Either may be nil.
func mapError(err error, notFound, duplicate error) error {
	mapped := mapMongoError(err)
	switch {
	case notFound != nil && errors.Is(mapped, domain.ErrNotFound):
		return notFound
	case duplicate != nil && errors.Is(mapped, domain.ErrAlreadyExists):
		return duplicate
	}
	return mapped
}

// matched returns notFound when an update or delete matched no document.
func matched(n int64, err error, notFound error) error {
	if err != nil {
		return mapError(err, notFound, nil)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
