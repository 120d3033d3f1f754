// Package user provides business logic for user registration and lookup.
package user

import (
	"context"
	"log/slog"

	"github.com/amirasaad/strides/pkg/domain/user"
	"github.com/amirasaad/strides/pkg/dto"
	"github.com/amirasaad/strides/pkg/repository"
	"github.com/amirasaad/strides/pkg/utils"
	"github.com/google/uuid"
)

// Service provides business logic for user operations.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a new Service with a UnitOfWork and logger.
func New(
	uow repository.UnitOfWork,
	logger *slog.Logger,
) *Service {
	return &Service{
		uow:    uow,
		logger: logger,
	}
}

// Signup registers a new user. The email is normalized and must not be in
// use; the password is stored as a bcrypt hash.
func (s *Service) Signup(
	ctx context.Context,
	email, password string,
) (u *dto.UserRead, err error) {
	log := s.logger.With("context", "Signup")
	nu, err := user.New(email, password)
	if err != nil {
		log.Warn("Signup rejected", "error", err)
		return nil, err
	}
	log = log.With("email", nu.Email)
	log.Debug("Signup started")

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		exists, err := repo.ExistsByEmail(ctx, nu.Email)
		if err != nil {
			return err
		}
		if exists {
			return user.ErrEmailTaken
		}
		if err := repo.Create(ctx, &dto.UserCreate{
			ID:       nu.ID,
			Email:    nu.Email,
			Password: nu.Password,
		}); err != nil {
			return err
		}
		u, err = repo.Get(ctx, nu.ID)
		return err
	})
	if err != nil {
		log.Error("Signup failed", "error", err)
		return nil, err
	}
	log.Info("Signup successful", "userID", u.ID)
	return u, nil
}

// GetUser retrieves a user by ID.
func (s *Service) GetUser(
	ctx context.Context,
	userID uuid.UUID,
) (u *dto.UserRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err = repo.Get(ctx, userID)
		return err
	})
	if err != nil {
		u = nil
	}
	return
}

// GetUserByEmail retrieves a user by email. Lookups are case insensitive.
func (s *Service) GetUserByEmail(
	ctx context.Context,
	email string,
) (u *dto.UserRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err = repo.GetByEmail(ctx, utils.NormalizeEmail(email))
		return err
	})
	if err != nil {
		u = nil
	}
	return
}
