package dto

import (
	"time"

	"github.com/amirasaad/strides/pkg/domain/account"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRead is a read-optimized DTO for account queries, API responses, and reporting.
type AccountRead struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Provider    string
	AccountName string
	AccountType account.Type
	Balance     decimal.Decimal // funds held, or debt owed for credit cards
	CreditLimit *decimal.Decimal
	Country     account.Country
	Currency    string
	LinkedModes []account.LinkedMode

	MinimumPaymentDue *decimal.Decimal
	PaymentDueDate    *time.Time
	StatementDate     *time.Time
	LastPaymentDate   *time.Time
	LastPaymentAmount *decimal.Decimal
	InterestRate      *decimal.Decimal
	GracePeriodDays   *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AccountCreate is a DTO for creating a new account.
type AccountCreate struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Provider    string
	AccountName string
	AccountType account.Type
	Balance     decimal.Decimal // opening balance
	CreditLimit *decimal.Decimal
	Country     account.Country
	Currency    string
	LinkedModes []account.LinkedMode

	MinimumPaymentDue *decimal.Decimal
	PaymentDueDate    *time.Time
	StatementDate     *time.Time
	InterestRate      *decimal.Decimal
	GracePeriodDays   *int
}

// HasCreditFields reports whether any credit card specific field is set.
func (c AccountCreate) HasCreditFields() bool {
	return c.CreditLimit != nil || c.MinimumPaymentDue != nil || c.PaymentDueDate != nil ||
		c.StatementDate != nil || c.InterestRate != nil || c.GracePeriodDays != nil
}

// AccountUpdate is a DTO for updating one or more fields of an account.
// Balance and account type are deliberately absent: balances only move
// through transactions.
type AccountUpdate struct {
	Provider    *string
	AccountName *string
	CreditLimit *decimal.Decimal
	Country     *account.Country
	Currency    *string
	LinkedModes *[]account.LinkedMode

	MinimumPaymentDue *decimal.Decimal
	PaymentDueDate    *time.Time
	StatementDate     *time.Time
	LastPaymentDate   *time.Time
	LastPaymentAmount *decimal.Decimal
	InterestRate      *decimal.Decimal
	GracePeriodDays   *int
}

// IsEmpty reports whether the update carries no fields.
func (u AccountUpdate) IsEmpty() bool {
	return u.Provider == nil && u.AccountName == nil && u.Country == nil &&
		u.Currency == nil && u.LinkedModes == nil && !u.HasCreditFields()
}

// HasCreditFields reports whether any credit card specific field is set.
func (u AccountUpdate) HasCreditFields() bool {
	return u.CreditLimit != nil || u.MinimumPaymentDue != nil || u.PaymentDueDate != nil ||
		u.StatementDate != nil || u.LastPaymentDate != nil || u.LastPaymentAmount != nil ||
		u.InterestRate != nil || u.GracePeriodDays != nil
}
