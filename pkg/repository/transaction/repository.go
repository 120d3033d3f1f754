package transaction

import (
	"context"

	"github.com/amirasaad/strides/pkg/dto"
	"github.com/google/uuid"
)

// Repository defines the interface for transaction data access operations.
type Repository interface {
	// Create inserts a new transaction record from a DTO.
	Create(ctx context.Context, create dto.TransactionCreate) error

	// Get retrieves a transaction by its ID as a read-optimized DTO.
	Get(ctx context.Context, id uuid.UUID) (*dto.TransactionRead, error)

	// Update writes the non-nil fields of update.
	Update(ctx context.Context, id uuid.UUID, update dto.TransactionUpdate) error

	// Delete removes a transaction by its ID.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByUser lists a user's transactions, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, filter dto.TransactionFilter) ([]*dto.TransactionRead, error)

	// ListByGroup returns both documents of a transfer.
	ListByGroup(ctx context.Context, userID, groupID uuid.UUID) ([]*dto.TransactionRead, error)

	// FindCompanion looks up the other side of a transfer that has no group
	// id. It returns nil, nil when no companion exists.
	FindCompanion(ctx context.Context, query dto.TransactionPairQuery) (*dto.TransactionRead, error)
}
