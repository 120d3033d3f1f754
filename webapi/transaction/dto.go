package transaction

import (
	"time"

	"github.com/amirasaad/strides/pkg/domain/transaction"
	"github.com/amirasaad/strides/pkg/dto"
	transactionsvc "github.com/amirasaad/strides/pkg/service/transaction"
	transfersvc "github.com/amirasaad/strides/pkg/service/transfer"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//revive:disable

// CreateTransactionRequest represents the request body for an expense or income.
type CreateTransactionRequest struct {
	AccountID     string          `json:"accountId" validate:"required,uuid"`
	Type          string          `json:"type" validate:"required,oneof=expense income"`
	Amount        decimal.Decimal `json:"amount"`
	CategoryID    string          `json:"categoryId" validate:"required,uuid"`
	SubCategoryID *string         `json:"subCategoryId" validate:"omitempty,uuid"`
	Notes         *string         `json:"notes" validate:"omitempty,max=500"`
	Date          *time.Time      `json:"date"`
}

// UpdateTransactionRequest represents a partial transaction update.
type UpdateTransactionRequest struct {
	Amount        *decimal.Decimal `json:"amount"`
	CategoryID    *string          `json:"categoryId" validate:"omitempty,uuid"`
	SubCategoryID *string          `json:"subCategoryId" validate:"omitempty,uuid"`
	Notes         *string          `json:"notes" validate:"omitempty,max=500"`
	Date          *time.Time       `json:"date"`
}

// TransferRequest represents the request body for a transfer between two
// accounts of the current user.
type TransferRequest struct {
	FromAccountID string           `json:"fromAccountId" validate:"required,uuid"`
	ToAccountID   string           `json:"toAccountId" validate:"required,uuid"`
	Amount        decimal.Decimal  `json:"amount"`
	ExchangeRate  *decimal.Decimal `json:"exchangeRate"`
	Commission    *decimal.Decimal `json:"commission"`
	ServiceName   *string          `json:"serviceName" validate:"omitempty,max=100"`
	Notes         *string          `json:"notes" validate:"omitempty,max=500"`
	Date          *time.Time       `json:"date"`
}

// TransactionDTO is the API response representation of a transaction.
type TransactionDTO struct {
	ID                  uuid.UUID  `json:"id"`
	UserID              uuid.UUID  `json:"userId"`
	AccountID           uuid.UUID  `json:"accountId"`
	Type                string     `json:"type"`
	Amount              float64    `json:"amount"`
	Date                time.Time  `json:"date"`
	CategoryID          uuid.UUID  `json:"categoryId"`
	SubCategoryID       *uuid.UUID `json:"subCategoryId,omitempty"`
	Notes               *string    `json:"notes,omitempty"`
	ToAccountID         *uuid.UUID `json:"toAccountId,omitempty"`
	TransferDirection   *string    `json:"transferDirection,omitempty"`
	TransferGroupID     *uuid.UUID `json:"transferGroupId,omitempty"`
	ExchangeRate        *float64   `json:"exchangeRate,omitempty"`
	Commission          *float64   `json:"commission,omitempty"`
	ServiceName         *string    `json:"serviceName,omitempty"`
	TransferredAmount   *float64   `json:"transferredAmount,omitempty"`
	IsCreditCardPayment bool       `json:"isCreditCardPayment"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

func parseOptionalUUID(s *string) *uuid.UUID {
	if s == nil || *s == "" {
		return nil
	}
	id := uuid.MustParse(*s)
	return &id
}

func floatPtr(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}

// toRequest assumes the ids already passed validation.
func (r CreateTransactionRequest) toRequest(userID uuid.UUID) transactionsvc.Request {
	return transactionsvc.Request{
		UserID:        userID,
		AccountID:     uuid.MustParse(r.AccountID),
		Type:          transaction.Type(r.Type),
		Amount:        r.Amount,
		CategoryID:    uuid.MustParse(r.CategoryID),
		SubCategoryID: parseOptionalUUID(r.SubCategoryID),
		Notes:         r.Notes,
		Date:          r.Date,
	}
}

func (r UpdateTransactionRequest) toUpdate() dto.TransactionUpdate {
	return dto.TransactionUpdate{
		Amount:        r.Amount,
		CategoryID:    parseOptionalUUID(r.CategoryID),
		SubCategoryID: parseOptionalUUID(r.SubCategoryID),
		Notes:         r.Notes,
		Date:          r.Date,
	}
}

func (r TransferRequest) toRequest(userID uuid.UUID) transfersvc.Request {
	return transfersvc.Request{
		UserID:        userID,
		FromAccountID: uuid.MustParse(r.FromAccountID),
		ToAccountID:   uuid.MustParse(r.ToAccountID),
		Amount:        r.Amount,
		ExchangeRate:  r.ExchangeRate,
		Commission:    r.Commission,
		ServiceName:   r.ServiceName,
		Notes:         r.Notes,
		Date:          r.Date,
	}
}

// ToTransactionDTO maps a dto.TransactionRead to a TransactionDTO.
func ToTransactionDTO(tx *dto.TransactionRead) *TransactionDTO {
	if tx == nil {
		return nil
	}
	out := &TransactionDTO{
		ID:                  tx.ID,
		UserID:              tx.UserID,
		AccountID:           tx.AccountID,
		Type:                string(tx.Type),
		Amount:              tx.Amount.InexactFloat64(),
		Date:                tx.Date,
		CategoryID:          tx.CategoryID,
		SubCategoryID:       tx.SubCategoryID,
		Notes:               tx.Notes,
		ToAccountID:         tx.ToAccountID,
		TransferGroupID:     tx.TransferGroupID,
		ExchangeRate:        floatPtr(tx.ExchangeRate),
		Commission:          floatPtr(tx.Commission),
		ServiceName:         tx.ServiceName,
		TransferredAmount:   floatPtr(tx.TransferredAmount),
		IsCreditCardPayment: tx.IsCreditCardPayment,
		CreatedAt:           tx.CreatedAt,
		UpdatedAt:           tx.UpdatedAt,
	}
	if tx.TransferDirection != nil {
		d := string(*tx.TransferDirection)
		out.TransferDirection = &d
	}
	return out
}

// ToTransactionDTOs maps a list of transactions.
func ToTransactionDTOs(txs []*dto.TransactionRead) []*TransactionDTO {
	out := make([]*TransactionDTO, 0, len(txs))
	for _, tx := range txs {
		out = append(out, ToTransactionDTO(tx))
	}
	return out
}

//revive:enable
