// Package account provides business logic for account management and the
// read-only credit card analysis derived from an account.
//
// Balances are never edited here. An account is created with an opening
// balance and afterwards moves only through transactions and transfers.
package account

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/amirasaad/strides/pkg/domain/account"
	"github.com/amirasaad/strides/pkg/domain/credit"
	"github.com/amirasaad/strides/pkg/dto"
	"github.com/amirasaad/strides/pkg/repository"
	accountrepo "github.com/amirasaad/strides/pkg/repository/account"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service provides business logic for account operations.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
	now    func() time.Time
}

// New creates a new Service with a UnitOfWork and logger.
func New(
	uow repository.UnitOfWork,
	logger *slog.Logger,
) *Service {
	return &Service{uow: uow, logger: logger, now: time.Now}
}

// WithClock overrides the clock used for due-date calculations.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateAccount validates and stores a new account. ID is assigned here;
// create.UserID must be the caller.
func (s *Service) CreateAccount(
	ctx context.Context,
	create dto.AccountCreate,
) (a *dto.AccountRead, err error) {
	log := s.logger.With("userID", create.UserID)
	log.Debug("CreateAccount started", "type", create.AccountType)

	create.Provider = strings.TrimSpace(create.Provider)
	create.AccountName = strings.TrimSpace(create.AccountName)
	create.Currency = strings.ToUpper(strings.TrimSpace(create.Currency))
	if err = validateCreate(create); err != nil {
		log.Warn("CreateAccount rejected", "error", err)
		return nil, err
	}
	create.ID = uuid.New()

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		if err := repo.Create(ctx, create); err != nil {
			return err
		}
		a, err = repo.Get(ctx, create.ID)
		return err
	})
	if err != nil {
		log.Error("CreateAccount failed", "error", err)
		return nil, err
	}
	log.Info("CreateAccount successful", "accountID", a.ID)
	return a, nil
}

// ListAccounts returns the live accounts of userID.
func (s *Service) ListAccounts(
	ctx context.Context,
	userID uuid.UUID,
) (accounts []*dto.AccountRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		accounts, err = repo.ListByUser(ctx, userID)
		return err
	})
	if err != nil {
		accounts = nil
	}
	return
}

// GetAccount returns an account owned by userID.
func (s *Service) GetAccount(
	ctx context.Context,
	userID, accountID uuid.UUID,
) (a *dto.AccountRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		a, err = Owned(ctx, repo, userID, accountID)
		return err
	})
	if err != nil {
		a = nil
	}
	return
}

// UpdateAccount writes the fields present in update. Credit card fields are
// rejected for other account types.
func (s *Service) UpdateAccount(
	ctx context.Context,
	userID, accountID uuid.UUID,
	update dto.AccountUpdate,
) (a *dto.AccountRead, err error) {
	log := s.logger.With("userID", userID, "accountID", accountID)
	if update.IsEmpty() {
		return nil, account.ErrEmptyUpdate
	}
	if err = normalizeUpdate(&update); err != nil {
		log.Warn("UpdateAccount rejected", "error", err)
		return nil, err
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		current, err := Owned(ctx, repo, userID, accountID)
		if err != nil {
			return err
		}
		if update.HasCreditFields() && !current.AccountType.IsCredit() {
			return account.ErrCreditFieldsOnNonCredit
		}
		if err := repo.Update(ctx, accountID, update); err != nil {
			return err
		}
		a, err = repo.Get(ctx, accountID)
		return err
	})
	if err != nil {
		log.Error("UpdateAccount failed", "error", err)
		return nil, err
	}
	log.Info("UpdateAccount successful")
	return a, nil
}

// DeleteAccount soft deletes an account. Its transactions stay in place.
func (s *Service) DeleteAccount(
	ctx context.Context,
	userID, accountID uuid.UUID,
) error {
	log := s.logger.With("userID", userID, "accountID", accountID)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		if _, err := Owned(ctx, repo, userID, accountID); err != nil {
			return err
		}
		return repo.Delete(ctx, accountID)
	})
	if err != nil {
		log.Error("DeleteAccount failed", "error", err)
		return err
	}
	log.Info("DeleteAccount successful")
	return nil
}

// CreditAnalysis derives utilization, due-date status and a payment ladder
// for a credit card account.
func (s *Service) CreditAnalysis(
	ctx context.Context,
	userID, accountID uuid.UUID,
) (*credit.Analysis, error) {
	card, err := s.creditCard(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	analysis := credit.Analyze(card, s.now())
	return &analysis, nil
}

// PaymentSuggestions recommends a payment for a credit card account,
// capped at budget when one is given.
func (s *Service) PaymentSuggestions(
	ctx context.Context,
	userID, accountID uuid.UUID,
	budget *decimal.Decimal,
) (*credit.Suggestion, error) {
	if budget != nil && budget.IsNegative() {
		return nil, account.ErrNegativeBudget
	}
	card, err := s.creditCard(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	suggestion := credit.Suggest(card, budget, s.now())
	return &suggestion, nil
}

func (s *Service) creditCard(
	ctx context.Context,
	userID, accountID uuid.UUID,
) (credit.Card, error) {
	a, err := s.GetAccount(ctx, userID, accountID)
	if err != nil {
		return credit.Card{}, err
	}
	if !a.AccountType.IsCredit() {
		return credit.Card{}, account.ErrNotCreditCard
	}
	return credit.Card{
		Balance:           a.Balance,
		CreditLimit:       a.CreditLimit,
		MinimumPaymentDue: a.MinimumPaymentDue,
		PaymentDueDate:    a.PaymentDueDate,
		InterestRate:      a.InterestRate,
	}, nil
}

// Owned loads an account and hides accounts of other users behind
// ErrAccountNotFound. It runs on the caller's repository.
func Owned(
	ctx context.Context,
	repo accountrepo.Repository,
	userID, accountID uuid.UUID,
) (*dto.AccountRead, error) {
	a, err := repo.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, account.ErrAccountNotFound
	}
	return a, nil
}

func validateCreate(c dto.AccountCreate) error {
	if !c.AccountType.Valid() {
		return account.ErrInvalidType
	}
	if c.Provider == "" || c.AccountName == "" {
		return account.ErrNameRequired
	}
	if !c.Country.Valid() {
		return account.ErrInvalidCountry
	}
	if err := account.ValidateCurrency(c.Currency); err != nil {
		return err
	}
	if c.HasCreditFields() && !c.AccountType.IsCredit() {
		return account.ErrCreditFieldsOnNonCredit
	}
	if err := account.ValidateCreditLimit(c.CreditLimit); err != nil {
		return err
	}
	return account.ValidateCreditFigures(c.MinimumPaymentDue, c.InterestRate, c.GracePeriodDays)
}

func normalizeUpdate(u *dto.AccountUpdate) error {
	for _, f := range []*string{u.Provider, u.AccountName} {
		if f == nil {
			continue
		}
		*f = strings.TrimSpace(*f)
		if *f == "" {
			return account.ErrNameRequired
		}
	}
	if u.Country != nil && !u.Country.Valid() {
		return account.ErrInvalidCountry
	}
	if u.Currency != nil {
		*u.Currency = strings.ToUpper(strings.TrimSpace(*u.Currency))
		if err := account.ValidateCurrency(*u.Currency); err != nil {
			return err
		}
	}
	if err := account.ValidateCreditLimit(u.CreditLimit); err != nil {
		return err
	}
	if u.LastPaymentAmount != nil && u.LastPaymentAmount.IsNegative() {
		return account.ErrNegativeCreditField
	}
	return account.ValidateCreditFigures(u.MinimumPaymentDue, u.InterestRate, u.GracePeriodDays)
}
