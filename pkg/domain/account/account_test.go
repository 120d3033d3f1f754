package account

import (
	"testing"

	"github.com/amirasaad/strides/pkg/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestType(t *testing.T) {
	for _, typ := range []Type{BankAccount, CreditCard, EWallet, Cash} {
		assert.True(t, typ.Valid(), typ)
	}
	assert.False(t, Type("savings").Valid())
	assert.True(t, CreditCard.IsCredit())
	assert.False(t, BankAccount.IsCredit())
	assert.False(t, Cash.IsCredit())
}

func TestCountry(t *testing.T) {
	assert.True(t, CountryIN.Valid())
	assert.True(t, CountryUS.Valid())
	assert.False(t, Country("GB").Valid())
	assert.False(t, Country("us").Valid())
}

func TestValidateCurrency(t *testing.T) {
	assert.NoError(t, ValidateCurrency("INR"))
	assert.NoError(t, ValidateCurrency("USD"))
	for _, bad := range []string{"", "US", "usd", "USDT", "U1D"} {
		err := ValidateCurrency(bad)
		assert.ErrorIs(t, err, ErrInvalidCurrency, bad)
		assert.ErrorIs(t, err, domain.ErrValidation, bad)
	}
}

func TestValidateCreditLimit(t *testing.T) {
	assert.NoError(t, ValidateCreditLimit(nil))
	zero := decimal.Zero
	assert.NoError(t, ValidateCreditLimit(&zero))
	neg := decimal.NewFromInt(-1)
	assert.ErrorIs(t, ValidateCreditLimit(&neg), ErrNegativeCreditLimit)
}

func TestValidateCreditFigures(t *testing.T) {
	assert.NoError(t, ValidateCreditFigures(nil, nil, nil))
	pos := decimal.NewFromInt(5)
	days := 20
	assert.NoError(t, ValidateCreditFigures(&pos, &pos, &days))

	neg := decimal.NewFromInt(-5)
	assert.ErrorIs(t, ValidateCreditFigures(&neg, nil, nil), ErrNegativeCreditField)
	assert.ErrorIs(t, ValidateCreditFigures(nil, &neg, nil), ErrNegativeCreditField)
	negDays := -1
	assert.ErrorIs(t, ValidateCreditFigures(nil, nil, &negDays), ErrNegativeCreditField)
}

func TestErrorKinds(t *testing.T) {
	assert.ErrorIs(t, ErrAccountNotFound, domain.ErrNotFound)
	assert.ErrorIs(t, ErrInsufficientFunds, domain.ErrInvalidState)
	assert.ErrorIs(t, ErrOverpayment, domain.ErrInvalidState)
	assert.ErrorIs(t, ErrNotCreditCard, domain.ErrInvalidState)
	assert.ErrorIs(t, ErrCreditFieldsOnNonCredit, domain.ErrValidation)
}
