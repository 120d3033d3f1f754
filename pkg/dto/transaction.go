package dto

import (
	"time"

	"github.com/amirasaad/strides/pkg/domain/transaction"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionRead is a read-optimized DTO for transaction queries and API responses.
type TransactionRead struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	AccountID     uuid.UUID
	Type          transaction.Type
	Amount        decimal.Decimal // always a positive magnitude
	Date          time.Time
	CategoryID    uuid.UUID
	SubCategoryID *uuid.UUID
	Notes         *string

	// Transfer fields, set only when Type is transfer.
	ToAccountID         *uuid.UUID
	TransferDirection   *transaction.Direction
	TransferGroupID     *uuid.UUID
	ExchangeRate        *decimal.Decimal
	Commission          *decimal.Decimal
	ServiceName         *string
	TransferredAmount   *decimal.Decimal
	IsCreditCardPayment bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTransfer reports whether the document is one side of a transfer.
func (t *TransactionRead) IsTransfer() bool {
	return t.Type == transaction.Transfer
}

// TransactionCreate is a DTO for creating a new transaction document.
type TransactionCreate struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	AccountID     uuid.UUID
	Type          transaction.Type
	Amount        decimal.Decimal
	Date          time.Time
	CategoryID    uuid.UUID
	SubCategoryID *uuid.UUID
	Notes         *string

	ToAccountID         *uuid.UUID
	TransferDirection   *transaction.Direction
	TransferGroupID     *uuid.UUID
	ExchangeRate        *decimal.Decimal
	Commission          *decimal.Decimal
	ServiceName         *string
	TransferredAmount   *decimal.Decimal
	IsCreditCardPayment bool
}

// TransactionUpdate is a DTO for a partial update. Only non-nil fields are written.
type TransactionUpdate struct {
	Amount        *decimal.Decimal
	CategoryID    *uuid.UUID
	SubCategoryID *uuid.UUID
	Notes         *string
	Date          *time.Time

	// ClearSubCategory drops the stored subcategory. It is set when the
	// category changes without a new subcategory.
	ClearSubCategory bool
}

// IsEmpty reports whether the update carries no fields.
func (u TransactionUpdate) IsEmpty() bool {
	return u.Amount == nil && u.CategoryID == nil && u.SubCategoryID == nil &&
		u.Notes == nil && u.Date == nil
}

// TransactionFilter narrows a transaction listing.
type TransactionFilter struct {
	AccountID *uuid.UUID
	Limit     int
}

// TransactionPairQuery describes the companion of a transfer document for
// documents written before transfer groups existed.
type TransactionPairQuery struct {
	UserID      uuid.UUID
	ExcludeID   uuid.UUID
	AccountID   uuid.UUID // account of the companion
	ToAccountID uuid.UUID // account the companion points back to
	Direction   transaction.Direction
	Date        time.Time
}
