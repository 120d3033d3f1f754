// Package balance computes the change a transaction makes to the balance of
// its account.
//
// Two sign conventions coexist. For bank accounts, e-wallets and cash the
// balance is funds held: an expense lowers it and an income raises it. For
// credit cards the balance is debt owed: an expense raises it and an income
// (a payment) lowers it.
//
// Every effect is reversible. Revert returns the exact negation of Apply for
// the same inputs, and edits are always expressed as Revert of the old
// values followed by Apply of the new ones, never as a diff.
package balance

import (
	"github.com/amirasaad/strides/pkg/domain/account"
	"github.com/amirasaad/strides/pkg/domain/transaction"
	"github.com/shopspring/decimal"
)

// Op selects whether an effect is being applied or undone.
type Op int

const (
	// Apply is used when a transaction is created.
	Apply Op = iota
	// Revert is used when a transaction is deleted, and before re-applying an
	// edited transaction.
	Revert
)

func (o Op) String() string {
	if o == Revert {
		return "revert"
	}
	return "apply"
}

// Delta returns the signed amount to add to the balance of an account of
// type accountType for a transaction of type txType and magnitude amount.
//
// Transfer sides must be resolved to expense or income with EffectiveType
// before calling Delta. A bare transfer type yields a zero delta.
func Delta(accountType account.Type, txType transaction.Type, amount decimal.Decimal, op Op) decimal.Decimal {
	amount = amount.Abs()
	var d decimal.Decimal
	switch txType {
	case transaction.Expense:
		d = amount.Neg()
	case transaction.Income:
		d = amount
	default:
		return decimal.Zero
	}
	if accountType.IsCredit() {
		d = d.Neg()
	}
	if op == Revert {
		d = d.Neg()
	}
	return d
}

// EffectiveType maps a transfer side to the semantics it has on its own
// account. Money leaving an account behaves like an expense (funds drop, or
// debt grows), and money entering behaves like an income (funds rise, or
// debt shrinks).
func EffectiveType(d transaction.Direction) transaction.Type {
	if d == transaction.Out {
		return transaction.Expense
	}
	return transaction.Income
}

// TransferDelta returns the balance change for one side of a transfer.
func TransferDelta(accountType account.Type, d transaction.Direction, amount decimal.Decimal, op Op) decimal.Decimal {
	return Delta(accountType, EffectiveType(d), amount, op)
}

// Replace returns the net change of reverting (oldType, oldAmount) and then
// applying (newType, newAmount) on the same account. The two steps are
// computed independently and summed.
func Replace(
	accountType account.Type,
	oldType transaction.Type, oldAmount decimal.Decimal,
	newType transaction.Type, newAmount decimal.Decimal,
) decimal.Decimal {
	reverted := Delta(accountType, oldType, oldAmount, Revert)
	applied := Delta(accountType, newType, newAmount, Apply)
	return reverted.Add(applied)
}
