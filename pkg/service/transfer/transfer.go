// Package transfer moves money between two accounts of the same user.
//
// A transfer is stored as two transaction documents sharing a transfer
// group id: an out side on the source account and an in side on the
// destination. Both sides and both balance changes are written in one unit
// of work, and are removed together.
package transfer

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/amirasaad/strides/pkg/domain/account"
	"github.com/amirasaad/strides/pkg/domain/balance"
	"github.com/amirasaad/strides/pkg/domain/transaction"
	"github.com/amirasaad/strides/pkg/dto"
	"github.com/amirasaad/strides/pkg/repository"
	accountrepo "github.com/amirasaad/strides/pkg/repository/account"
	transactionrepo "github.com/amirasaad/strides/pkg/repository/transaction"
	categorysvc "github.com/amirasaad/strides/pkg/service/category"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request holds the inputs of a transfer.
type Request struct {
	UserID        uuid.UUID
	FromAccountID uuid.UUID
	ToAccountID   uuid.UUID
	Amount        decimal.Decimal
	ExchangeRate  *decimal.Decimal
	Commission    *decimal.Decimal
	ServiceName   *string
	Notes         *string
	Date          *time.Time
}

// Service creates transfers.
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

// WithClock overrides the clock used for the default transfer date.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create moves req.Amount out of the source account and the transferred
// amount into the destination, and returns the out and in documents in that
// order.
//
// A transfer from a non-credit account into a credit card is a card
// payment: it may not exceed the card's debt. Any other transfer out of a
// non-credit account may not exceed the source balance. A credit card
// source can always be drawn on.
func (s *Service) Create(
	ctx context.Context,
	req Request,
) (pair []*dto.TransactionRead, err error) {
	log := s.logger.With(
		"userID", req.UserID,
		"fromAccountID", req.FromAccountID,
		"toAccountID", req.ToAccountID,
		"amount", req.Amount,
	)
	log.Debug("CreateTransfer started")

	if req.FromAccountID == req.ToAccountID {
		return nil, transaction.ErrSameAccountTransfer
	}
	if err = transaction.ValidateTransfer(req.Amount, req.Commission, req.ExchangeRate); err != nil {
		log.Warn("CreateTransfer rejected", "error", err)
		return nil, err
	}
	transferred := transaction.TransferredAmount(req.Amount, req.Commission, req.ExchangeRate)
	date := s.now().UTC()
	if req.Date != nil {
		date = req.Date.UTC()
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		categories, err := uow.CategoryRepository()
		if err != nil {
			return err
		}

		src, dst, err := lockPair(ctx, accounts, req.UserID, req.FromAccountID, req.ToAccountID)
		if err != nil {
			return err
		}

		ccPayment := !src.AccountType.IsCredit() && dst.AccountType.IsCredit()
		switch {
		case ccPayment && req.Amount.GreaterThan(dst.Balance):
			return account.ErrOverpayment
		case !ccPayment && !src.AccountType.IsCredit() && src.Balance.LessThan(req.Amount):
			return account.ErrInsufficientFunds
		}

		if err := accounts.AdjustBalance(ctx, src.ID,
			balance.TransferDelta(src.AccountType, transaction.Out, req.Amount, balance.Apply)); err != nil {
			return err
		}
		if err := accounts.AdjustBalance(ctx, dst.ID,
			balance.TransferDelta(dst.AccountType, transaction.In, transferred, balance.Apply)); err != nil {
			return err
		}

		cat, err := categorysvc.EnsureByName(ctx, categories, req.UserID, transaction.TransferCategoryName)
		if err != nil {
			return err
		}

		groupID := uuid.New()
		out := side(req, transaction.Out, src.ID, dst, req.Amount, transferred, cat.ID, groupID, date, ccPayment)
		in := side(req, transaction.In, dst.ID, src, transferred, transferred, cat.ID, groupID, date, ccPayment)
		for _, doc := range []dto.TransactionCreate{out, in} {
			if err := txs.Create(ctx, doc); err != nil {
				return err
			}
		}

		if ccPayment {
			if err := accounts.Update(ctx, dst.ID, dto.AccountUpdate{
				LastPaymentDate:   &date,
				LastPaymentAmount: &transferred,
			}); err != nil {
				return err
			}
		}

		pair = make([]*dto.TransactionRead, 0, 2)
		for _, id := range []uuid.UUID{out.ID, in.ID} {
			doc, err := txs.Get(ctx, id)
			if err != nil {
				return err
			}
			pair = append(pair, doc)
		}
		return nil
	})
	if err != nil {
		log.Error("CreateTransfer failed", "error", err)
		return nil, err
	}
	log.Info("CreateTransfer successful",
		"transferGroupID", *pair[0].TransferGroupID,
		"transferred", transferred,
		"creditCardPayment", pair[0].IsCreditCardPayment,
	)
	return pair, nil
}

// lockPair locks both accounts in id order so that two opposite transfers
// cannot deadlock, and checks that the caller owns them.
func lockPair(
	ctx context.Context,
	repo accountrepo.Repository,
	userID, fromID, toID uuid.UUID,
) (src, dst *dto.AccountRead, err error) {
	first, second := fromID, toID
	if bytes.Compare(first[:], second[:]) > 0 {
		first, second = second, first
	}
	locked := make(map[uuid.UUID]*dto.AccountRead, 2)
	for _, id := range []uuid.UUID{first, second} {
		a, err := repo.Lock(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		if a.UserID != userID {
			return nil, nil, account.ErrAccountNotFound
		}
		locked[id] = a
	}
	return locked[fromID], locked[toID], nil
}

func side(
	req Request,
	dir transaction.Direction,
	accountID uuid.UUID,
	counterpart *dto.AccountRead,
	amount, transferred decimal.Decimal,
	categoryID, groupID uuid.UUID,
	date time.Time,
	ccPayment bool,
) dto.TransactionCreate {
	notes := req.Notes
	if notes == nil || *notes == "" {
		n := transaction.DefaultTransferNotes(dir, counterpart.AccountName)
		notes = &n
	}
	toAccountID := counterpart.ID
	return dto.TransactionCreate{
		ID:                  uuid.New(),
		UserID:              req.UserID,
		AccountID:           accountID,
		Type:                transaction.Transfer,
		Amount:              amount,
		Date:                date,
		CategoryID:          categoryID,
		Notes:               notes,
		ToAccountID:         &toAccountID,
		TransferDirection:   &dir,
		TransferGroupID:     &groupID,
		ExchangeRate:        req.ExchangeRate,
		Commission:          req.Commission,
		ServiceName:         req.ServiceName,
		TransferredAmount:   &transferred,
		IsCreditCardPayment: ccPayment,
	}
}

// Companion returns the other side of the transfer that doc belongs to.
// Sides written with a transfer group are matched by group. Older sides fall
// back to matching the mirrored accounts, opposite direction and identical
// date. It returns nil when the other side cannot be found.
func Companion(
	ctx context.Context,
	txs transactionrepo.Repository,
	doc *dto.TransactionRead,
) (*dto.TransactionRead, error) {
	if doc.TransferGroupID != nil {
		group, err := txs.ListByGroup(ctx, doc.UserID, *doc.TransferGroupID)
		if err != nil {
			return nil, err
		}
		for _, other := range group {
			if other.ID != doc.ID {
				return other, nil
			}
		}
		return nil, nil
	}
	if doc.ToAccountID == nil || doc.TransferDirection == nil {
		return nil, nil
	}
	return txs.FindCompanion(ctx, dto.TransactionPairQuery{
		UserID:      doc.UserID,
		ExcludeID:   doc.ID,
		AccountID:   *doc.ToAccountID,
		ToAccountID: doc.AccountID,
		Direction:   doc.TransferDirection.Opposite(),
		Date:        doc.Date,
	})
}

// DeletePair removes doc together with its companion, undoing both balance
// changes the way they were applied. A side whose companion is gone is
// removed alone after undoing its own change. Sides on deleted accounts are
// removed without a balance change.
//
// DeletePair runs inside the caller's unit of work.
func DeletePair(
	ctx context.Context,
	uow repository.UnitOfWork,
	doc *dto.TransactionRead,
	logger *slog.Logger,
) error {
	log := logger.With("userID", doc.UserID, "transactionID", doc.ID)
	accounts, err := uow.AccountRepository()
	if err != nil {
		return err
	}
	txs, err := uow.TransactionRepository()
	if err != nil {
		return err
	}

	companion, err := Companion(ctx, txs, doc)
	if err != nil {
		return err
	}
	sides := []*dto.TransactionRead{doc}
	if companion == nil {
		log.Warn("Transfer companion not found, deleting one side")
	} else {
		sides = append(sides, companion)
	}

	for _, t := range sides {
		if err := revertSide(ctx, accounts, t, log); err != nil {
			return err
		}
		if err := txs.Delete(ctx, t.ID); err != nil {
			return err
		}
	}
	log.Info("DeleteTransfer successful", "sides", len(sides))
	return nil
}

func revertSide(
	ctx context.Context,
	accounts accountrepo.Repository,
	t *dto.TransactionRead,
	log *slog.Logger,
) error {
	if t.TransferDirection == nil {
		log.Warn("Transfer side has no direction, balance left unchanged", "sideID", t.ID)
		return nil
	}
	a, err := accounts.Get(ctx, t.AccountID)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			log.Warn("Account of transfer side is gone, balance left unchanged",
				"sideID", t.ID, "accountID", t.AccountID)
			return nil
		}
		return err
	}
	delta := balance.TransferDelta(a.AccountType, *t.TransferDirection, t.Amount, balance.Revert)
	return accounts.AdjustBalance(ctx, a.ID, delta)
}

// UpdateSide applies update to one side of a transfer. Amounts are fixed
// once a transfer exists; a new date moves both sides. Category, subcategory
// and notes change on this side only.
//
// UpdateSide runs inside the caller's unit of work.
func UpdateSide(
	ctx context.Context,
	uow repository.UnitOfWork,
	doc *dto.TransactionRead,
	update dto.TransactionUpdate,
) error {
	if update.Amount != nil && !update.Amount.Equal(doc.Amount) {
		return transaction.ErrTransferAmountImmutable
	}
	update.Amount = nil
	txs, err := uow.TransactionRepository()
	if err != nil {
		return err
	}

	if update.Date != nil {
		companion, err := Companion(ctx, txs, doc)
		if err != nil {
			return err
		}
		if companion != nil {
			if err := txs.Update(ctx, companion.ID, dto.TransactionUpdate{Date: update.Date}); err != nil {
				return err
			}
		}
	}
	if update.IsEmpty() {
		return nil
	}
	return txs.Update(ctx, doc.ID, update)
}
