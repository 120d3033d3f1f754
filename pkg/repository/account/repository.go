package account

import (
	"context"

	"github.com/amirasaad/strides/pkg/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository defines the interface for account data access operations.
//
// Get and Lock return account.ErrAccountNotFound for missing or soft-deleted
// accounts. Balances are never written directly: AdjustBalance applies a
// delta atomically at the store.
type Repository interface {
	// Create inserts a new account record from a DTO.
	Create(ctx context.Context, create dto.AccountCreate) error

	// Get retrieves an account by its ID as a read-optimized DTO.
	Get(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error)

	// Lock retrieves an account and holds a write lock on it until the
	// surrounding unit of work ends.
	Lock(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error)

	// ListByUser lists all accounts for a given user as read-optimized DTOs.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.AccountRead, error)

	// Update writes the non-nil fields of update.
	Update(ctx context.Context, id uuid.UUID, update dto.AccountUpdate) error

	// AdjustBalance adds delta to the stored balance in a single statement.
	AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error

	// Delete soft deletes an account.
	Delete(ctx context.Context, id uuid.UUID) error
}
