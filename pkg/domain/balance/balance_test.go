package balance

import (
	"testing"

	"github.com/amirasaad/strides/pkg/domain/account"
	"github.com/amirasaad/strides/pkg/domain/transaction"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecEqual(t *testing.T, want, got decimal.Decimal) {
	t.Helper()
	assert.True(t, want.Equal(got), "want %s, got %s", want, got)
}

func TestDelta_SignTable(t *testing.T) {
	tests := []struct {
		accountType account.Type
		txType      transaction.Type
		want        string
	}{
		{account.BankAccount, transaction.Expense, "-30"},
		{account.BankAccount, transaction.Income, "30"},
		{account.EWallet, transaction.Expense, "-30"},
		{account.EWallet, transaction.Income, "30"},
		{account.Cash, transaction.Expense, "-30"},
		{account.Cash, transaction.Income, "30"},
		{account.CreditCard, transaction.Expense, "30"},
		{account.CreditCard, transaction.Income, "-30"},
	}
	for _, tt := range tests {
		t.Run(string(tt.accountType)+"/"+string(tt.txType), func(t *testing.T) {
			assertDecEqual(t, dec(tt.want), Delta(tt.accountType, tt.txType, dec("30"), Apply))
			assertDecEqual(t, dec(tt.want).Neg(), Delta(tt.accountType, tt.txType, dec("30"), Revert))
		})
	}
}

func TestDelta_RevertUndoesApply(t *testing.T) {
	balances := []string{"0", "100", "-42.17", "99999.9999"}
	amounts := []string{"0.01", "30", "1234.5678"}
	types := []account.Type{account.BankAccount, account.CreditCard, account.EWallet, account.Cash}
	txTypes := []transaction.Type{transaction.Expense, transaction.Income}

	for _, b := range balances {
		for _, a := range amounts {
			for _, at := range types {
				for _, tt := range txTypes {
					start := dec(b)
					applied := start.Add(Delta(at, tt, dec(a), Apply))
					reverted := applied.Add(Delta(at, tt, dec(a), Revert))
					assertDecEqual(t, start, reverted)
				}
			}
		}
	}
}

func TestDelta_NonCreditSymmetry(t *testing.T) {
	start := dec("100")
	assertDecEqual(t, dec("70"), start.Add(Delta(account.BankAccount, transaction.Expense, dec("30"), Apply)))
	assertDecEqual(t, dec("130"), start.Add(Delta(account.BankAccount, transaction.Income, dec("30"), Apply)))
}

func TestDelta_CreditCardInversion(t *testing.T) {
	debt := dec("100")
	assertDecEqual(t, dec("130"), debt.Add(Delta(account.CreditCard, transaction.Expense, dec("30"), Apply)))
	assertDecEqual(t, dec("70"), debt.Add(Delta(account.CreditCard, transaction.Income, dec("30"), Apply)))
}

func TestDelta_BareTransferIsZero(t *testing.T) {
	assert.True(t, Delta(account.BankAccount, transaction.Transfer, dec("10"), Apply).IsZero())
}

func TestTransferDelta(t *testing.T) {
	// leaving a funds account lowers it, leaving a credit card grows its debt
	assertDecEqual(t, dec("-40"), TransferDelta(account.BankAccount, transaction.Out, dec("40"), Apply))
	assertDecEqual(t, dec("40"), TransferDelta(account.CreditCard, transaction.Out, dec("40"), Apply))
	// entering a funds account raises it, entering a credit card shrinks its debt
	assertDecEqual(t, dec("40"), TransferDelta(account.Cash, transaction.In, dec("40"), Apply))
	assertDecEqual(t, dec("-40"), TransferDelta(account.CreditCard, transaction.In, dec("40"), Apply))
}

func TestReplace_RevertThenApply(t *testing.T) {
	// expense of 20 on 100 leaves 80; editing it to 50 must land on 50
	balance := dec("80")
	got := balance.Add(Replace(account.BankAccount, transaction.Expense, dec("20"), transaction.Expense, dec("50")))
	assertDecEqual(t, dec("50"), got)

	// changing an income into an expense on a credit card
	debt := dec("70")
	got = debt.Add(Replace(account.CreditCard, transaction.Income, dec("30"), transaction.Expense, dec("10")))
	assertDecEqual(t, dec("110"), got)
}
