package account

import (
	"time"

	"github.com/amirasaad/strides/pkg/domain/account"
	"github.com/amirasaad/strides/pkg/domain/credit"
	"github.com/amirasaad/strides/pkg/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//revive:disable

// LinkedModeDTO is a payment mode attached to an account.
type LinkedModeDTO struct {
	Name string `json:"name" validate:"required,max=64"`
	Type string `json:"type" validate:"required,max=32"`
}

// CreateAccountRequest represents the request body for creating an account.
type CreateAccountRequest struct {
	Provider          string           `json:"provider" validate:"required,max=100"`
	AccountName       string           `json:"accountName" validate:"required,max=100"`
	AccountType       string           `json:"accountType" validate:"required"`
	Balance           decimal.Decimal  `json:"balance"`
	CreditLimit       *decimal.Decimal `json:"creditLimit"`
	Country           string           `json:"country" validate:"required"`
	Currency          string           `json:"currency" validate:"required,len=3,alpha"`
	LinkedModes       []LinkedModeDTO  `json:"linkedModes" validate:"omitempty,dive"`
	MinimumPaymentDue *decimal.Decimal `json:"minimumPaymentDue"`
	PaymentDueDate    *time.Time       `json:"paymentDueDate"`
	StatementDate     *time.Time       `json:"statementDate"`
	InterestRate      *decimal.Decimal `json:"interestRate"`
	GracePeriodDays   *int             `json:"gracePeriodDays"`
}

// UpdateAccountRequest represents a partial account update. Balance and
// account type cannot be changed.
type UpdateAccountRequest struct {
	Provider          *string          `json:"provider" validate:"omitempty,max=100"`
	AccountName       *string          `json:"accountName" validate:"omitempty,max=100"`
	CreditLimit       *decimal.Decimal `json:"creditLimit"`
	Country           *string          `json:"country"`
	Currency          *string          `json:"currency" validate:"omitempty,len=3,alpha"`
	LinkedModes       *[]LinkedModeDTO `json:"linkedModes" validate:"omitempty,dive"`
	MinimumPaymentDue *decimal.Decimal `json:"minimumPaymentDue"`
	PaymentDueDate    *time.Time       `json:"paymentDueDate"`
	StatementDate     *time.Time       `json:"statementDate"`
	LastPaymentDate   *time.Time       `json:"lastPaymentDate"`
	LastPaymentAmount *decimal.Decimal `json:"lastPaymentAmount"`
	InterestRate      *decimal.Decimal `json:"interestRate"`
	GracePeriodDays   *int             `json:"gracePeriodDays"`
}

// AccountDTO is the API response representation of an account.
type AccountDTO struct {
	ID                uuid.UUID       `json:"id"`
	UserID            uuid.UUID       `json:"userId"`
	Provider          string          `json:"provider"`
	AccountName       string          `json:"accountName"`
	AccountType       string          `json:"accountType"`
	Balance           float64         `json:"balance"`
	CreditLimit       *float64        `json:"creditLimit,omitempty"`
	Country           string          `json:"country"`
	Currency          string          `json:"currency"`
	LinkedModes       []LinkedModeDTO `json:"linkedModes"`
	MinimumPaymentDue *float64        `json:"minimumPaymentDue,omitempty"`
	PaymentDueDate    *time.Time      `json:"paymentDueDate,omitempty"`
	StatementDate     *time.Time      `json:"statementDate,omitempty"`
	LastPaymentDate   *time.Time      `json:"lastPaymentDate,omitempty"`
	LastPaymentAmount *float64        `json:"lastPaymentAmount,omitempty"`
	InterestRate      *float64        `json:"interestRate,omitempty"`
	GracePeriodDays   *int            `json:"gracePeriodDays,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// PaymentOptionDTO is one rung of the payment ladder.
type PaymentOptionDTO struct {
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Impact      string  `json:"impact"`
}

// CreditAnalysisDTO is the API response of a credit analysis.
type CreditAnalysisDTO struct {
	CurrentBalance     float64            `json:"currentBalance"`
	CreditLimit        float64            `json:"creditLimit"`
	AvailableCredit    float64            `json:"availableCredit"`
	CreditUtilization  float64            `json:"creditUtilization"`
	MinimumPaymentDue  *float64           `json:"minimumPaymentDue"`
	PaymentDueDate     *time.Time         `json:"paymentDueDate"`
	DaysUntilDue       *int               `json:"daysUntilDue"`
	IsOverdue          bool               `json:"isOverdue"`
	RecommendedPayment float64            `json:"recommendedPayment"`
	PaymentOptions     []PaymentOptionDTO `json:"paymentOptions"`
}

// PaymentSuggestionDTO is the API response of payment suggestions.
type PaymentSuggestionDTO struct {
	MinimumDue        float64 `json:"minimumDue"`
	RecommendedAmount float64 `json:"recommendedAmount"`
	FullBalance       float64 `json:"fullBalance"`
	Urgency           string  `json:"urgency"`
	Reasoning         string  `json:"reasoning"`
	PayoffTimeline    *string `json:"payoffTimeline"`
}

func toLinkedModes(in []LinkedModeDTO) []account.LinkedMode {
	out := make([]account.LinkedMode, 0, len(in))
	for _, m := range in {
		out = append(out, account.LinkedMode{Name: m.Name, Type: m.Type})
	}
	return out
}

func floatPtr(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}

func (r CreateAccountRequest) toCreate(userID uuid.UUID) dto.AccountCreate {
	return dto.AccountCreate{
		UserID:            userID,
		Provider:          r.Provider,
		AccountName:       r.AccountName,
		AccountType:       account.Type(r.AccountType),
		Balance:           r.Balance,
		CreditLimit:       r.CreditLimit,
		Country:           account.Country(r.Country),
		Currency:          r.Currency,
		LinkedModes:       toLinkedModes(r.LinkedModes),
		MinimumPaymentDue: r.MinimumPaymentDue,
		PaymentDueDate:    r.PaymentDueDate,
		StatementDate:     r.StatementDate,
		InterestRate:      r.InterestRate,
		GracePeriodDays:   r.GracePeriodDays,
	}
}

func (r UpdateAccountRequest) toUpdate() dto.AccountUpdate {
	u := dto.AccountUpdate{
		Provider:          r.Provider,
		AccountName:       r.AccountName,
		CreditLimit:       r.CreditLimit,
		Currency:          r.Currency,
		MinimumPaymentDue: r.MinimumPaymentDue,
		PaymentDueDate:    r.PaymentDueDate,
		StatementDate:     r.StatementDate,
		LastPaymentDate:   r.LastPaymentDate,
		LastPaymentAmount: r.LastPaymentAmount,
		InterestRate:      r.InterestRate,
		GracePeriodDays:   r.GracePeriodDays,
	}
	if r.Country != nil {
		c := account.Country(*r.Country)
		u.Country = &c
	}
	if r.LinkedModes != nil {
		modes := toLinkedModes(*r.LinkedModes)
		u.LinkedModes = &modes
	}
	return u
}

// ToAccountDTO maps a dto.AccountRead to an AccountDTO.
func ToAccountDTO(a *dto.AccountRead) *AccountDTO {
	if a == nil {
		return nil
	}
	modes := make([]LinkedModeDTO, 0, len(a.LinkedModes))
	for _, m := range a.LinkedModes {
		modes = append(modes, LinkedModeDTO{Name: m.Name, Type: m.Type})
	}
	return &AccountDTO{
		ID:                a.ID,
		UserID:            a.UserID,
		Provider:          a.Provider,
		AccountName:       a.AccountName,
		AccountType:       string(a.AccountType),
		Balance:           a.Balance.InexactFloat64(),
		CreditLimit:       floatPtr(a.CreditLimit),
		Country:           string(a.Country),
		Currency:          a.Currency,
		LinkedModes:       modes,
		MinimumPaymentDue: floatPtr(a.MinimumPaymentDue),
		PaymentDueDate:    a.PaymentDueDate,
		StatementDate:     a.StatementDate,
		LastPaymentDate:   a.LastPaymentDate,
		LastPaymentAmount: floatPtr(a.LastPaymentAmount),
		InterestRate:      floatPtr(a.InterestRate),
		GracePeriodDays:   a.GracePeriodDays,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

// ToCreditAnalysisDTO maps a credit.Analysis to its API response.
func ToCreditAnalysisDTO(a *credit.Analysis) *CreditAnalysisDTO {
	options := make([]PaymentOptionDTO, 0, len(a.PaymentOptions))
	for _, o := range a.PaymentOptions {
		options = append(options, PaymentOptionDTO{
			Type:        string(o.Type),
			Amount:      o.Amount.InexactFloat64(),
			Description: o.Description,
			Impact:      o.Impact,
		})
	}
	return &CreditAnalysisDTO{
		CurrentBalance:     a.CurrentBalance.InexactFloat64(),
		CreditLimit:        a.CreditLimit.InexactFloat64(),
		AvailableCredit:    a.AvailableCredit.InexactFloat64(),
		CreditUtilization:  a.Utilization.InexactFloat64(),
		MinimumPaymentDue:  floatPtr(a.MinimumPaymentDue),
		PaymentDueDate:     a.PaymentDueDate,
		DaysUntilDue:       a.DaysUntilDue,
		IsOverdue:          a.IsOverdue,
		RecommendedPayment: a.RecommendedPayment.InexactFloat64(),
		PaymentOptions:     options,
	}
}

// ToPaymentSuggestionDTO maps a credit.Suggestion to its API response.
func ToPaymentSuggestionDTO(s *credit.Suggestion) *PaymentSuggestionDTO {
	return &PaymentSuggestionDTO{
		MinimumDue:        s.MinimumDue.InexactFloat64(),
		RecommendedAmount: s.RecommendedAmount.InexactFloat64(),
		FullBalance:       s.FullBalance.InexactFloat64(),
		Urgency:           string(s.Urgency),
		Reasoning:         s.Reasoning,
		PayoffTimeline:    s.PayoffTimeline,
	}
}

//revive:enable
