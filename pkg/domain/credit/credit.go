// Package credit derives read-only views over a credit card account:
// utilization, due-date status and payment suggestions.
package credit

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Card is the subset of a credit card account the analysis needs.
type Card struct {
	Balance           decimal.Decimal
	CreditLimit       *decimal.Decimal
	MinimumPaymentDue *decimal.Decimal
	PaymentDueDate    *time.Time
	InterestRate      *decimal.Decimal // APR in percent
}

// OptionType names a rung on the payment ladder.
type OptionType string

const (
	OptionMinimum     OptionType = "minimum"
	OptionRecommended OptionType = "recommended"
	OptionFull        OptionType = "full"
)

// PaymentOption is one suggested payment amount with its effect.
type PaymentOption struct {
	Type        OptionType
	Amount      decimal.Decimal
	Description string
	Impact      string
}

// Analysis is the derived state of a credit card.
type Analysis struct {
	CurrentBalance     decimal.Decimal
	CreditLimit        decimal.Decimal
	AvailableCredit    decimal.Decimal
	Utilization        decimal.Decimal // percent, two decimals
	MinimumPaymentDue  *decimal.Decimal
	PaymentDueDate     *time.Time
	DaysUntilDue       *int
	IsOverdue          bool
	RecommendedPayment decimal.Decimal
	PaymentOptions     []PaymentOption
}

// Urgency grades how soon a payment should be made.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Suggestion is a payment recommendation, optionally fitted to a budget.
type Suggestion struct {
	MinimumDue        decimal.Decimal
	RecommendedAmount decimal.Decimal
	FullBalance       decimal.Decimal
	Urgency           Urgency
	Reasoning         string
	PayoffTimeline    *string
}

// Analyze computes the credit analysis of c at time now.
func Analyze(c Card, now time.Time) Analysis {
	limit := decimal.Zero
	if c.CreditLimit != nil {
		limit = *c.CreditLimit
	}
	a := Analysis{
		CurrentBalance:    c.Balance,
		CreditLimit:       limit,
		AvailableCredit:   decimal.Max(decimal.Zero, limit.Sub(c.Balance)),
		Utilization:       Utilization(c.Balance, limit),
		MinimumPaymentDue: c.MinimumPaymentDue,
		PaymentDueDate:    c.PaymentDueDate,
	}
	if c.PaymentDueDate != nil {
		days := DaysUntil(*c.PaymentDueDate, now)
		a.DaysUntilDue = &days
		a.IsOverdue = days < 0
	}

	full := outstanding(c.Balance)
	minimum := minimumDue(c, full)
	a.RecommendedPayment = recommended(c, full)
	a.PaymentOptions = []PaymentOption{
		{
			Type:        OptionMinimum,
			Amount:      minimum,
			Description: "Minimum payment due",
			Impact:      "Avoids late fees, interest accrues on the remaining balance",
		},
		{
			Type:        OptionRecommended,
			Amount:      a.RecommendedPayment,
			Description: "Recommended payment",
			Impact:      "Pays down debt faster and lowers interest charges",
		},
		{
			Type:        OptionFull,
			Amount:      full,
			Description: "Pay full balance",
			Impact:      "Clears the debt and avoids interest charges",
		},
	}
	return a
}

// Utilization returns balance as a percentage of limit, rounded to two
// decimals. Without a limit utilization is zero.
func Utilization(balance, limit decimal.Decimal) decimal.Decimal {
	if !limit.IsPositive() {
		return decimal.Zero
	}
	return balance.Div(limit).Mul(hundred).Round(2)
}

// DaysUntil returns the whole days from now until due, rounded up. It is
// negative once the due date has passed.
func DaysUntil(due, now time.Time) int {
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}

// UrgencyFor grades a due date. A card without a due date is low urgency.
func UrgencyFor(daysUntilDue *int, overdue bool) Urgency {
	switch {
	case overdue:
		return UrgencyHigh
	case daysUntilDue == nil:
		return UrgencyLow
	case *daysUntilDue <= 3:
		return UrgencyHigh
	case *daysUntilDue <= 7:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// Suggest recommends a payment for c. When budget is set the recommendation
// never exceeds it.
func Suggest(c Card, budget *decimal.Decimal, now time.Time) Suggestion {
	a := Analyze(c, now)
	full := outstanding(c.Balance)
	s := Suggestion{
		MinimumDue:        minimumDue(c, full),
		RecommendedAmount: a.RecommendedPayment,
		FullBalance:       full,
		Urgency:           UrgencyFor(a.DaysUntilDue, a.IsOverdue),
	}

	var reason string
	switch {
	case full.IsZero():
		s.RecommendedAmount = decimal.Zero
		reason = "There is no outstanding balance on this card."
	case budget == nil && c.MinimumPaymentDue == nil:
		reason = "No minimum due is set. Paying the full balance avoids interest charges."
	case budget == nil:
		reason = "Paying twice the minimum due, capped at the balance, reduces debt faster than the minimum alone."
	case !budget.LessThan(full):
		s.RecommendedAmount = full
		reason = "Your budget covers the full balance. Paying it off avoids all interest charges."
	case !budget.LessThan(a.RecommendedPayment):
		reason = "Your budget covers the recommended payment, which reduces debt faster than the minimum alone."
	case !budget.LessThan(s.MinimumDue):
		s.RecommendedAmount = *budget
		reason = "Your budget covers the minimum due. Paying the whole budget lowers interest on the remaining balance."
	default:
		s.RecommendedAmount = decimal.Max(decimal.Zero, *budget)
		reason = "Your budget is below the minimum due. Pay what you can now and cover the rest before the due date to avoid late fees."
	}
	switch {
	case a.IsOverdue:
		reason = "Payment is overdue. " + reason
	case s.Urgency == UrgencyHigh:
		reason = "Payment is due within 3 days. " + reason
	}
	s.Reasoning = reason

	if full.IsPositive() && s.RecommendedAmount.IsPositive() {
		s.PayoffTimeline = payoffTimeline(full, s.RecommendedAmount, c.InterestRate)
	}
	return s
}

// PayoffMonths estimates how many monthly payments of payment clear balance
// under apr (percent per year, compounded monthly). ok is false when the
// payment does not cover the monthly interest.
func PayoffMonths(balance, payment decimal.Decimal, apr *decimal.Decimal) (months int, ok bool) {
	if !balance.IsPositive() {
		return 0, true
	}
	if !payment.IsPositive() {
		return 0, false
	}
	b := balance.InexactFloat64()
	p := payment.InexactFloat64()
	r := 0.0
	if apr != nil {
		r = apr.InexactFloat64() / 100 / 12
	}
	if r <= 0 {
		return int(math.Ceil(b / p)), true
	}
	if p <= b*r {
		return 0, false
	}
	n := -math.Log(1-r*b/p) / math.Log(1+r)
	return int(math.Ceil(n)), true
}

func payoffTimeline(balance, payment decimal.Decimal, apr *decimal.Decimal) *string {
	months, ok := PayoffMonths(balance, payment, apr)
	var s string
	switch {
	case !ok:
		s = "Payment does not cover the monthly interest"
	case months <= 1:
		s = "1 month"
	default:
		s = fmt.Sprintf("%d months", months)
	}
	return &s
}

func outstanding(balance decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, balance)
}

func minimumDue(c Card, full decimal.Decimal) decimal.Decimal {
	if c.MinimumPaymentDue == nil {
		return decimal.Zero
	}
	return decimal.Min(*c.MinimumPaymentDue, full)
}

// recommended is min(balance, 2 x minimum). A card without a minimum due
// recommends the full balance.
func recommended(c Card, full decimal.Decimal) decimal.Decimal {
	if c.MinimumPaymentDue == nil {
		return full
	}
	return decimal.Min(full, c.MinimumPaymentDue.Mul(decimal.NewFromInt(2)))
}
