package repository

import (
	"context"

	"github.com/amirasaad/strides/pkg/domain/account"
	"github.com/amirasaad/strides/pkg/dto"
	repo "github.com/amirasaad/strides/pkg/repository/account"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates an account repository bound to db.
func NewAccountRepository(db *gorm.DB) repo.Repository {
	return &accountRepository{db: db}
}

var _ repo.Repository = (*accountRepository)(nil)

func (r *accountRepository) Create(ctx context.Context, create dto.AccountCreate) error {
	acct := mapAccountCreateToModel(create)
	return mapError(r.db.WithContext(ctx).Create(&acct).Error, nil, nil)
}

func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error) {
	var acct Account
	if err := r.db.WithContext(ctx).First(&acct, "id = ?", id).Error; err != nil {
		return nil, mapError(err, account.ErrAccountNotFound, nil)
	}
	return mapAccountModelToDTO(&acct), nil
}

func (r *accountRepository) Lock(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error) {
	var acct Account
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&acct, "id = ?", id).Error
	if err != nil {
		return nil, mapError(err, account.ErrAccountNotFound, nil)
	}
	return mapAccountModelToDTO(&acct), nil
}

func (r *accountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.AccountRead, error) {
	var accts []Account
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&accts).Error; err != nil {
		return nil, mapError(err, nil, nil)
	}
	result := make([]*dto.AccountRead, 0, len(accts))
	for i := range accts {
		result = append(result, mapAccountModelToDTO(&accts[i]))
	}
	return result, nil
}

func (r *accountRepository) Update(ctx context.Context, id uuid.UUID, update dto.AccountUpdate) error {
	updates := mapAccountUpdateToModel(update)
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&Account{}).Where("id = ?", id).Updates(updates)
	return affected(res, account.ErrAccountNotFound)
}

// AdjustBalance issues balance = balance + delta so concurrent writers
// never overwrite each other.
func (r *accountRepository) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&Account{}).
		Where("id = ?", id).
		Update("balance", gorm.Expr("balance + ?", delta))
	return affected(res, account.ErrAccountNotFound)
}

func (r *accountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&Account{}, "id = ?", id)
	return affected(res, account.ErrAccountNotFound)
}

func mapAccountCreateToModel(create dto.AccountCreate) Account {
	return Account{
		ID:                create.ID,
		UserID:            create.UserID,
		Provider:          create.Provider,
		AccountName:       create.AccountName,
		AccountType:       string(create.AccountType),
		Balance:           create.Balance,
		CreditLimit:       nullDecimal(create.CreditLimit),
		Country:           string(create.Country),
		Currency:          create.Currency,
		LinkedModes:       LinkedModes(create.LinkedModes),
		MinimumPaymentDue: nullDecimal(create.MinimumPaymentDue),
		PaymentDueDate:    create.PaymentDueDate,
		StatementDate:     create.StatementDate,
		InterestRate:      nullDecimal(create.InterestRate),
		GracePeriodDays:   create.GracePeriodDays,
	}
}

// mapAccountUpdateToModel maps AccountUpdate DTO to a map for GORM Updates.
func mapAccountUpdateToModel(update dto.AccountUpdate) map[string]any {
	updates := make(map[string]any)
	if update.Provider != nil {
		updates["provider"] = *update.Provider
	}
	if update.AccountName != nil {
		updates["account_name"] = *update.AccountName
	}
	if update.CreditLimit != nil {
		updates["credit_limit"] = *update.CreditLimit
	}
	if update.Country != nil {
		updates["country"] = string(*update.Country)
	}
	if update.Currency != nil {
		updates["currency"] = *update.Currency
	}
	if update.LinkedModes != nil {
		updates["linked_modes"] = LinkedModes(*update.LinkedModes)
	}
	if update.MinimumPaymentDue != nil {
		updates["minimum_payment_due"] = *update.MinimumPaymentDue
	}
	if update.PaymentDueDate != nil {
		updates["payment_due_date"] = *update.PaymentDueDate
	}
	if update.StatementDate != nil {
		updates["statement_date"] = *update.StatementDate
	}
	if update.LastPaymentDate != nil {
		updates["last_payment_date"] = *update.LastPaymentDate
	}
	if update.LastPaymentAmount != nil {
		updates["last_payment_amount"] = *update.LastPaymentAmount
	}
	if update.InterestRate != nil {
		updates["interest_rate"] = *update.InterestRate
	}
	if update.GracePeriodDays != nil {
		updates["grace_period_days"] = *update.GracePeriodDays
	}
	return updates
}

func mapAccountModelToDTO(acct *Account) *dto.AccountRead {
	return &dto.AccountRead{
		ID:                acct.ID,
		UserID:            acct.UserID,
		Provider:          acct.Provider,
		AccountName:       acct.AccountName,
		AccountType:       account.Type(acct.AccountType),
		Balance:           acct.Balance,
		CreditLimit:       decimalPtr(acct.CreditLimit),
		Country:           account.Country(acct.Country),
		Currency:          acct.Currency,
		LinkedModes:       []account.LinkedMode(acct.LinkedModes),
		MinimumPaymentDue: decimalPtr(acct.MinimumPaymentDue),
		PaymentDueDate:    acct.PaymentDueDate,
		StatementDate:     acct.StatementDate,
		LastPaymentDate:   acct.LastPaymentDate,
		LastPaymentAmount: decimalPtr(acct.LastPaymentAmount),
		InterestRate:      decimalPtr(acct.InterestRate),
		GracePeriodDays:   acct.GracePeriodDays,
		CreatedAt:         acct.CreatedAt,
		UpdatedAt:         acct.UpdatedAt,
	}
}
