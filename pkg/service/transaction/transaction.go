// Package transaction provides business logic for expense and income
// transactions. Every write moves the balance of the transaction's account
// in the same unit of work as the document itself.
package transaction

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/amirasaad/strides/pkg/domain/account"
	"github.com/amirasaad/strides/pkg/domain/balance"
	"github.com/amirasaad/strides/pkg/domain/transaction"
	"github.com/amirasaad/strides/pkg/dto"
	"github.com/amirasaad/strides/pkg/repository"
	transactionrepo "github.com/amirasaad/strides/pkg/repository/transaction"
	accountsvc "github.com/amirasaad/strides/pkg/service/account"
	categorysvc "github.com/amirasaad/strides/pkg/service/category"
	"github.com/amirasaad/strides/pkg/service/transfer"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultPageSize caps a listing when no page size is configured.
const DefaultPageSize = 100

// Request holds the inputs of a new expense or income.
type Request struct {
	UserID        uuid.UUID
	AccountID     uuid.UUID
	Type          transaction.Type
	Amount        decimal.Decimal
	CategoryID    uuid.UUID
	SubCategoryID *uuid.UUID
	Notes         *string
	Date          *time.Time
}

// Service provides business logic for transaction operations.
type Service struct {
	uow      repository.UnitOfWork
	logger   *slog.Logger
	pageSize int
	now      func() time.Time
}

// New creates a new Service. pageSize caps List; zero selects
// DefaultPageSize.
func New(
	uow repository.UnitOfWork,
	logger *slog.Logger,
	pageSize int,
) *Service {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Service{uow: uow, logger: logger, pageSize: pageSize, now: time.Now}
}

// WithClock overrides the clock used for the default transaction date.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create records an expense or income and applies it to the balance of its
// account.
func (s *Service) Create(
	ctx context.Context,
	req Request,
) (tx *dto.TransactionRead, err error) {
	log := s.logger.With("userID", req.UserID, "accountID", req.AccountID, "type", req.Type)
	log.Debug("CreateTransaction started", "amount", req.Amount)

	if req.Type != transaction.Expense && req.Type != transaction.Income {
		return nil, transaction.ErrInvalidType
	}
	if err = transaction.ValidateAmount(req.Amount); err != nil {
		return nil, err
	}
	date := s.now().UTC()
	if req.Date != nil {
		date = req.Date.UTC()
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		categories, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}

		acc, err := accountsvc.Owned(ctx, accounts, req.UserID, req.AccountID)
		if err != nil {
			return err
		}
		if _, err := categorysvc.Owned(ctx, categories, req.UserID, req.CategoryID, req.SubCategoryID); err != nil {
			return err
		}

		delta := balance.Delta(acc.AccountType, req.Type, req.Amount, balance.Apply)
		if err := accounts.AdjustBalance(ctx, acc.ID, delta); err != nil {
			return err
		}
		id := uuid.New()
		if err := txs.Create(ctx, dto.TransactionCreate{
			ID:            id,
			UserID:        req.UserID,
			AccountID:     acc.ID,
			Type:          req.Type,
			Amount:        req.Amount,
			Date:          date,
			CategoryID:    req.CategoryID,
			SubCategoryID: req.SubCategoryID,
			Notes:         req.Notes,
		}); err != nil {
			return err
		}
		tx, err = txs.Get(ctx, id)
		return err
	})
	if err != nil {
		log.Error("CreateTransaction failed", "error", err)
		return nil, err
	}
	log.Info("CreateTransaction successful", "transactionID", tx.ID)
	return tx, nil
}

// List returns the newest transactions of userID, optionally only those of
// one account.
func (s *Service) List(
	ctx context.Context,
	userID uuid.UUID,
	accountID *uuid.UUID,
) (txs []*dto.TransactionRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		txs, err = repo.ListByUser(ctx, userID, dto.TransactionFilter{
			AccountID: accountID,
			Limit:     s.pageSize,
		})
		return err
	})
	if err != nil {
		txs = nil
	}
	return
}

// Get returns a transaction owned by userID.
func (s *Service) Get(
	ctx context.Context,
	userID, id uuid.UUID,
) (tx *dto.TransactionRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		tx, err = owned(ctx, repo, userID, id)
		return err
	})
	if err != nil {
		tx = nil
	}
	return
}

// Update writes the fields present in update. A new amount is applied by
// reverting the old amount and applying the new one on the account.
// Transfer sides delegate to transfer.UpdateSide.
func (s *Service) Update(
	ctx context.Context,
	userID, id uuid.UUID,
	update dto.TransactionUpdate,
) (tx *dto.TransactionRead, err error) {
	log := s.logger.With("userID", userID, "transactionID", id)
	if update.IsEmpty() {
		return nil, transaction.ErrEmptyUpdate
	}
	if update.Amount != nil {
		if err = transaction.ValidateAmount(*update.Amount); err != nil {
			return nil, err
		}
	}
	if update.Date != nil {
		d := update.Date.UTC()
		update.Date = &d
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		current, err := owned(ctx, txs, userID, id)
		if err != nil {
			return err
		}
		if update.CategoryID != nil || update.SubCategoryID != nil {
			if err := s.checkCategory(ctx, uow, current, &update); err != nil {
				return err
			}
		}

		if current.IsTransfer() {
			if err := transfer.UpdateSide(ctx, uow, current, update); err != nil {
				return err
			}
		} else {
			accounts, err := uow.AccountRepository()
			if err != nil {
				return err
			}
			acc, err := accounts.Get(ctx, current.AccountID)
			if err != nil {
				return err
			}
			if update.Amount != nil {
				delta := balance.Replace(acc.AccountType,
					current.Type, current.Amount,
					current.Type, *update.Amount)
				if err := accounts.AdjustBalance(ctx, acc.ID, delta); err != nil {
					return err
				}
			}
			if err := txs.Update(ctx, id, update); err != nil {
				return err
			}
		}
		tx, err = txs.Get(ctx, id)
		return err
	})
	if err != nil {
		log.Error("UpdateTransaction failed", "error", err)
		return nil, err
	}
	log.Info("UpdateTransaction successful")
	return tx, nil
}

// Delete removes a transaction and undoes its effect on the balance. A
// transfer side removes its companion too. When the account has been
// deleted the document is removed and no balance changes.
func (s *Service) Delete(
	ctx context.Context,
	userID, id uuid.UUID,
) error {
	log := s.logger.With("userID", userID, "transactionID", id)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		current, err := owned(ctx, txs, userID, id)
		if err != nil {
			return err
		}
		if current.IsTransfer() {
			return transfer.DeletePair(ctx, uow, current, s.logger)
		}

		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acc, err := accounts.Get(ctx, current.AccountID)
		switch {
		case errors.Is(err, account.ErrAccountNotFound):
			log.Warn("Account is gone, balance left unchanged", "accountID", current.AccountID)
		case err != nil:
			return err
		default:
			delta := balance.Delta(acc.AccountType, current.Type, current.Amount, balance.Revert)
			if err := accounts.AdjustBalance(ctx, acc.ID, delta); err != nil {
				return err
			}
		}
		return txs.Delete(ctx, id)
	})
	if err != nil {
		log.Error("DeleteTransaction failed", "error", err)
		return err
	}
	log.Info("DeleteTransaction successful")
	return nil
}

// checkCategory validates the category and subcategory an update points
// at. A subcategory alone is checked against the current category. Moving
// to another category without naming a subcategory clears the old one.
func (s *Service) checkCategory(
	ctx context.Context,
	uow repository.UnitOfWork,
	current *dto.TransactionRead,
	update *dto.TransactionUpdate,
) error {
	categories, err := uow.CategoryRepository()
	if err != nil {
		return err
	}
	categoryID := current.CategoryID
	if update.CategoryID != nil {
		categoryID = *update.CategoryID
	}
	if _, err = categorysvc.Owned(ctx, categories, current.UserID, categoryID, update.SubCategoryID); err != nil {
		return err
	}
	if update.SubCategoryID == nil && current.SubCategoryID != nil && categoryID != current.CategoryID {
		update.ClearSubCategory = true
	}
	return nil
}

func owned(
	ctx context.Context,
	repo transactionrepo.Repository,
	userID, id uuid.UUID,
) (*dto.TransactionRead, error) {
	tx, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.UserID != userID {
		return nil, transaction.ErrTransactionNotFound
	}
	return tx, nil
}
