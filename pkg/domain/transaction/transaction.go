// Package transaction holds the vocabulary shared by regular transactions
// and the two documents that make up a transfer.
package transaction

import (
	"fmt"

	"github.com/amirasaad/strides/pkg/domain"
	"github.com/shopspring/decimal"
)

// Type is the semantic type of a transaction.
type Type string

const (
	Expense  Type = "expense"
	Income   Type = "income"
	Transfer Type = "transfer"
)

// Valid reports whether t is a known transaction type.
func (t Type) Valid() bool {
	return t == Expense || t == Income || t == Transfer
}

// Direction tells which side of a transfer a document represents.
type Direction string

const (
	Out Direction = "out"
	In  Direction = "in"
)

// Valid reports whether d is a known transfer direction.
func (d Direction) Valid() bool {
	return d == Out || d == In
}

// Opposite returns the direction of the companion document.
func (d Direction) Opposite() Direction {
	if d == Out {
		return In
	}
	return Out
}

// TransferCategoryName is the per-user category every transfer document is filed under.
const TransferCategoryName = "Transfer"

var (
	// ErrTransactionNotFound is returned when a transaction does not exist or
	// is owned by another user.
	ErrTransactionNotFound = domain.NewError(domain.ErrNotFound, "transaction not found")
	// ErrInvalidType is returned when a regular transaction is neither expense nor income.
	ErrInvalidType = domain.NewError(domain.ErrValidation, "transaction type must be expense or income")
	// ErrAmountMustBePositive is returned when an amount is zero or negative.
	ErrAmountMustBePositive = domain.NewError(domain.ErrValidation, "amount must be positive")
	// ErrEmptyUpdate is returned when an update carries no fields.
	ErrEmptyUpdate = domain.NewError(domain.ErrValidation, "no fields to update")
	// ErrSameAccountTransfer is returned when source and destination are the same account.
	ErrSameAccountTransfer = domain.NewError(domain.ErrValidation, "cannot transfer to the same account")
	// ErrNegativeCommission is returned for a commission below zero.
	ErrNegativeCommission = domain.NewError(domain.ErrValidation, "commission cannot be negative")
	// ErrInvalidExchangeRate is returned for an exchange rate that is not positive.
	ErrInvalidExchangeRate = domain.NewError(domain.ErrValidation, "exchange rate must be positive")
	// ErrNothingTransferred is returned when commission consumes the whole amount.
	ErrNothingTransferred = domain.NewError(domain.ErrValidation, "transferred amount must be positive after commission")
	// ErrTransferAmountImmutable is returned when an update tries to change
	// the amount of one side of a transfer.
	ErrTransferAmountImmutable = domain.NewError(domain.ErrInvalidState, "transfer amounts cannot be edited, delete and recreate the transfer")
)

// ValidateAmount rejects zero and negative amounts.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrAmountMustBePositive
	}
	return nil
}

// TransferredAmount is the amount that reaches the destination account.
// Commission is deducted first, then the exchange rate is applied. Both are
// optional.
func TransferredAmount(amount decimal.Decimal, commission, rate *decimal.Decimal) decimal.Decimal {
	out := amount
	if commission != nil {
		out = out.Sub(*commission)
	}
	if rate != nil {
		out = out.Mul(*rate)
	}
	return out
}

// ValidateTransfer checks the monetary inputs of a transfer.
func ValidateTransfer(amount decimal.Decimal, commission, rate *decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if commission != nil && commission.IsNegative() {
		return ErrNegativeCommission
	}
	if rate != nil && !rate.IsPositive() {
		return ErrInvalidExchangeRate
	}
	if !TransferredAmount(amount, commission, rate).IsPositive() {
		return ErrNothingTransferred
	}
	return nil
}

// DefaultTransferNotes names the counterpart account of a transfer side.
func DefaultTransferNotes(d Direction, counterpart string) string {
	if d == Out {
		return fmt.Sprintf("Transfer to %s", counterpart)
	}
	return fmt.Sprintf("Transfer from %s", counterpart)
}
