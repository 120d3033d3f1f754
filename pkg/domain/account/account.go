package account

import (
	"github.com/amirasaad/strides/pkg/domain"
	"github.com/shopspring/decimal"
)

// Type classifies an account and decides the sign convention of its balance.
type Type string

const (
	BankAccount Type = "bank_account"
	CreditCard  Type = "credit_card"
	EWallet     Type = "e_wallet"
	Cash        Type = "cash"
)

// Valid reports whether t is one of the supported account types.
func (t Type) Valid() bool {
	switch t {
	case BankAccount, CreditCard, EWallet, Cash:
		return true
	}
	return false
}

// IsCredit reports whether the balance of t is debt owed rather than funds held.
func (t Type) IsCredit() bool {
	return t == CreditCard
}

// Country is the jurisdiction an account is held in.
type Country string

const (
	CountryIN Country = "IN"
	CountryUS Country = "US"
)

// Valid reports whether c is a supported country.
func (c Country) Valid() bool {
	return c == CountryIN || c == CountryUS
}

// LinkedMode is a payment mode attached to an account, e.g. a UPI app.
type LinkedMode struct {
	Name string `json:"name" bson:"name"`
	Type string `json:"type" bson:"type"`
}

var (
	// ErrAccountNotFound is returned when an account does not exist or is
	// owned by another user.
	ErrAccountNotFound = domain.NewError(domain.ErrNotFound, "account not found")
	// ErrInvalidType is returned for an account type outside the supported set.
	ErrInvalidType = domain.NewError(domain.ErrValidation, "invalid account type")
	// ErrInvalidCountry is returned for a country other than IN or US.
	ErrInvalidCountry = domain.NewError(domain.ErrValidation, "invalid country")
	// ErrInvalidCurrency is returned when the currency is not a 3-letter code.
	ErrInvalidCurrency = domain.NewError(domain.ErrValidation, "currency must be a 3-letter code")
	// ErrNameRequired is returned when provider or account name is blank.
	ErrNameRequired = domain.NewError(domain.ErrValidation, "provider and account name are required")
	// ErrNegativeCreditLimit is returned for a credit limit below zero.
	ErrNegativeCreditLimit = domain.NewError(domain.ErrValidation, "credit limit cannot be negative")
	// ErrNegativeCreditField is returned for a negative minimum due, interest
	// rate or grace period.
	ErrNegativeCreditField = domain.NewError(domain.ErrValidation, "credit card figures cannot be negative")
	// ErrNegativeBudget is returned for a negative payment budget.
	ErrNegativeBudget = domain.NewError(domain.ErrValidation, "available budget cannot be negative")
	// ErrCreditFieldsOnNonCredit is returned when credit card fields are set on
	// an account that is not a credit card.
	ErrCreditFieldsOnNonCredit = domain.NewError(domain.ErrValidation, "credit card fields are only allowed on credit card accounts")
	// ErrEmptyUpdate is returned when an update carries no fields.
	ErrEmptyUpdate = domain.NewError(domain.ErrValidation, "no fields to update")
	// ErrNotCreditCard is returned when a credit-only operation targets another account type.
	ErrNotCreditCard = domain.NewError(domain.ErrInvalidState, "account is not a credit card")
	// ErrInsufficientFunds is returned when a regular transfer would overdraw its source.
	ErrInsufficientFunds = domain.NewError(domain.ErrInvalidState, "insufficient balance in source account")
	// ErrOverpayment is returned when a credit card payment exceeds the outstanding debt.
	ErrOverpayment = domain.NewError(domain.ErrInvalidState, "payment amount exceeds credit card balance")
)

// ValidateCurrency checks that code looks like an ISO 4217 code.
func ValidateCurrency(code string) error {
	if len(code) != 3 {
		return ErrInvalidCurrency
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return ErrInvalidCurrency
		}
	}
	return nil
}

// ValidateCreditLimit rejects negative limits. A nil limit is valid.
func ValidateCreditLimit(limit *decimal.Decimal) error {
	if limit != nil && limit.IsNegative() {
		return ErrNegativeCreditLimit
	}
	return nil
}

// ValidateCreditFigures rejects negative credit card figures. Nil values are
// valid.
func ValidateCreditFigures(minimumDue, interestRate *decimal.Decimal, graceDays *int) error {
	if minimumDue != nil && minimumDue.IsNegative() {
		return ErrNegativeCreditField
	}
	if interestRate != nil && interestRate.IsNegative() {
		return ErrNegativeCreditField
	}
	if graceDays != nil && *graceDays < 0 {
		return ErrNegativeCreditField
	}
	return nil
}
