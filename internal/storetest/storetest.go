// Package storetest is the behaviour suite every storage backend runs in its
// integration tests. It drives the services, so a backend passes when the
// balance rules hold on top of its unit of work.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/amirasaad/strides/pkg/domain/account"
	"github.com/amirasaad/strides/pkg/domain/category"
	"github.com/amirasaad/strides/pkg/domain/transaction"
	"github.com/amirasaad/strides/pkg/dto"
	"github.com/amirasaad/strides/pkg/repository"
	accountsvc "github.com/amirasaad/strides/pkg/service/account"
	categorysvc "github.com/amirasaad/strides/pkg/service/category"
	transactionsvc "github.com/amirasaad/strides/pkg/service/transaction"
	transfersvc "github.com/amirasaad/strides/pkg/service/transfer"
	usersvc "github.com/amirasaad/strides/pkg/service/user"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// Suite runs against the unit of work built by NewUoW once per suite.
type Suite struct {
	suite.Suite
	NewUoW func() repository.UnitOfWork

	uow          repository.UnitOfWork
	users        *usersvc.Service
	accounts     *accountsvc.Service
	categories   *categorysvc.Service
	transactions *transactionsvc.Service
	transfers    *transfersvc.Service
}

func (s *Suite) SetupSuite() {
	s.Require().NotNil(s.NewUoW, "NewUoW must be set")
	s.uow = s.NewUoW()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.users = usersvc.New(s.uow, logger)
	s.accounts = accountsvc.New(s.uow, logger)
	s.categories = categorysvc.New(s.uow, logger)
	s.transactions = transactionsvc.New(s.uow, logger, 0)
	s.transfers = transfersvc.New(s.uow, logger)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// fixture is one user with a bank account, a wallet and a category.
type fixture struct {
	userID   uuid.UUID
	bank     uuid.UUID
	wallet   uuid.UUID
	category uuid.UUID
}

func (s *Suite) newFixture(ctx context.Context) fixture {
	u, err := s.users.Signup(ctx, fmt.Sprintf("store_%s@example.com", uuid.NewString()[:8]), "password123")
	s.Require().NoError(err)

	open := func(name string, typ account.Type, balance string) uuid.UUID {
		a, err := s.accounts.CreateAccount(ctx, dto.AccountCreate{
			UserID:      u.ID,
			Provider:    "Bank",
			AccountName: name,
			AccountType: typ,
			Balance:     dec(balance),
			Country:     account.CountryIN,
			Currency:    "INR",
		})
		s.Require().NoError(err)
		return a.ID
	}
	c, err := s.categories.Create(ctx, u.ID, "Food")
	s.Require().NoError(err)
	return fixture{
		userID:   u.ID,
		bank:     open("Salary", account.BankAccount, "1000"),
		wallet:   open("Wallet", account.EWallet, "0"),
		category: c.ID,
	}
}

func (s *Suite) balance(ctx context.Context, userID, id uuid.UUID) decimal.Decimal {
	a, err := s.accounts.GetAccount(ctx, userID, id)
	s.Require().NoError(err)
	return a.Balance
}

func (s *Suite) assertBalance(ctx context.Context, f fixture, id uuid.UUID, want string) {
	s.T().Helper()
	got := s.balance(ctx, f.userID, id)
	s.True(dec(want).Equal(got), "balance: want %s, got %s", want, got)
}

func (s *Suite) expense(ctx context.Context, f fixture, amount string) *dto.TransactionRead {
	tx, err := s.transactions.Create(ctx, transactionsvc.Request{
		UserID:     f.userID,
		AccountID:  f.bank,
		Type:       transaction.Expense,
		Amount:     dec(amount),
		CategoryID: f.category,
	})
	s.Require().NoError(err)
	return tx
}

func (s *Suite) TestExpenseLifecycle() {
	ctx := context.Background()
	f := s.newFixture(ctx)

	tx := s.expense(ctx, f, "200.50")
	s.assertBalance(ctx, f, f.bank, "799.50")

	amount := dec("250")
	_, err := s.transactions.Update(ctx, f.userID, tx.ID, dto.TransactionUpdate{Amount: &amount})
	s.Require().NoError(err)
	s.assertBalance(ctx, f, f.bank, "750")

	s.Require().NoError(s.transactions.Delete(ctx, f.userID, tx.ID))
	s.assertBalance(ctx, f, f.bank, "1000")

	_, err = s.transactions.Get(ctx, f.userID, tx.ID)
	s.ErrorIs(err, transaction.ErrTransactionNotFound)
}

func (s *Suite) TestListNewestFirst() {
	ctx := context.Background()
	f := s.newFixture(ctx)
	for _, amount := range []string{"1", "2", "3"} {
		s.expense(ctx, f, amount)
	}
	txs, err := s.transactions.List(ctx, f.userID, &f.bank)
	s.Require().NoError(err)
	s.Require().Len(txs, 3)
	for i := 1; i < len(txs); i++ {
		s.False(txs[i-1].Date.Before(txs[i].Date))
	}

	txs, err = s.transactions.List(ctx, f.userID, &f.wallet)
	s.Require().NoError(err)
	s.Empty(txs)
}

func (s *Suite) TestTransferPair() {
	ctx := context.Background()
	f := s.newFixture(ctx)
	commission := dec("2")

	pair, err := s.transfers.Create(ctx, transfersvc.Request{
		UserID:        f.userID,
		FromAccountID: f.bank,
		ToAccountID:   f.wallet,
		Amount:        dec("100"),
		Commission:    &commission,
	})
	s.Require().NoError(err)
	s.Require().Len(pair, 2)
	s.Equal(*pair[0].TransferGroupID, *pair[1].TransferGroupID)
	s.assertBalance(ctx, f, f.bank, "900")
	s.assertBalance(ctx, f, f.wallet, "98")

	s.Require().NoError(s.transactions.Delete(ctx, f.userID, pair[0].ID))
	s.assertBalance(ctx, f, f.bank, "1000")
	s.assertBalance(ctx, f, f.wallet, "0")
	_, err = s.transactions.Get(ctx, f.userID, pair[1].ID)
	s.ErrorIs(err, transaction.ErrTransactionNotFound)
}

func (s *Suite) TestTransferInsufficientFundsLeavesNoTrace() {
	ctx := context.Background()
	f := s.newFixture(ctx)

	_, err := s.transfers.Create(ctx, transfersvc.Request{
		UserID:        f.userID,
		FromAccountID: f.wallet,
		ToAccountID:   f.bank,
		Amount:        dec("5"),
	})
	s.ErrorIs(err, account.ErrInsufficientFunds)
	s.assertBalance(ctx, f, f.bank, "1000")
	txs, err := s.transactions.List(ctx, f.userID, nil)
	s.Require().NoError(err)
	s.Empty(txs)
}

func (s *Suite) TestRollback() {
	ctx := context.Background()
	f := s.newFixture(ctx)
	boom := errors.New("boom")

	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		if err := repo.AdjustBalance(ctx, f.bank, dec("-500")); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)
	s.assertBalance(ctx, f, f.bank, "1000")
}

func (s *Suite) TestConcurrentExpenses() {
	ctx := context.Background()
	f := s.newFixture(ctx)

	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.transactions.Create(ctx, transactionsvc.Request{
				UserID:     f.userID,
				AccountID:  f.bank,
				Type:       transaction.Expense,
				Amount:     dec("10"),
				CategoryID: f.category,
			})
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		s.NoError(err)
	}
	s.assertBalance(ctx, f, f.bank, "900")
}

func (s *Suite) TestDeletedAccountKeepsHistory() {
	ctx := context.Background()
	f := s.newFixture(ctx)
	tx := s.expense(ctx, f, "40")

	s.Require().NoError(s.accounts.DeleteAccount(ctx, f.userID, f.bank))
	_, err := s.accounts.GetAccount(ctx, f.userID, f.bank)
	s.ErrorIs(err, account.ErrAccountNotFound)

	s.Require().NoError(s.transactions.Delete(ctx, f.userID, tx.ID))
}

func (s *Suite) TestCategories() {
	ctx := context.Background()
	f := s.newFixture(ctx)

	_, err := s.categories.Create(ctx, f.userID, "Food")
	s.ErrorIs(err, category.ErrDuplicateCategory)

	c, err := s.categories.AddSubCategory(ctx, f.userID, f.category, "Groceries")
	s.Require().NoError(err)
	s.Require().Len(c.SubCategories, 1)
	subID := c.SubCategories[0].ID

	_, err = s.categories.AddSubCategory(ctx, f.userID, f.category, "Groceries")
	s.ErrorIs(err, category.ErrDuplicateSubCategory)

	c, err = s.categories.RenameSubCategory(ctx, f.userID, f.category, subID, "Produce")
	s.Require().NoError(err)
	s.Equal("Produce", c.SubCategories[0].Name)

	s.Require().NoError(s.categories.DeleteSubCategory(ctx, f.userID, f.category, subID))
	c, err = s.categories.Get(ctx, f.userID, f.category)
	s.Require().NoError(err)
	s.Empty(c.SubCategories)

	s.Require().NoError(s.categories.Delete(ctx, f.userID, f.category))
	list, err := s.categories.List(ctx, f.userID)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *Suite) TestEnsureCategoryConcurrently() {
	ctx := context.Background()
	f := s.newFixture(ctx)

	const workers = 4
	ids := make([]uuid.UUID, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
				repo, err := uow.CategoryRepository()
				if err != nil {
					return err
				}
				c, err := categorysvc.EnsureByName(ctx, repo, f.userID, "Transfer")
				if err != nil {
					return err
				}
				ids[i] = c.ID
				return nil
			})
		}()
	}
	wg.Wait()

	for i := range workers {
		s.Require().NoError(errs[i])
		s.Equal(ids[0], ids[i])
	}
	list, err := s.categories.List(ctx, f.userID)
	s.Require().NoError(err)
	s.Len(list, 2)
}

func (s *Suite) TestChangeCategoryClearsSubCategory() {
	ctx := context.Background()
	f := s.newFixture(ctx)

	food, err := s.categories.AddSubCategory(ctx, f.userID, f.category, "Groceries")
	s.Require().NoError(err)
	groceries := food.SubCategories[0].ID
	travel, err := s.categories.Create(ctx, f.userID, "Travel")
	s.Require().NoError(err)

	tx, err := s.transactions.Create(ctx, transactionsvc.Request{
		UserID:        f.userID,
		AccountID:     f.bank,
		Type:          transaction.Expense,
		Amount:        dec("25"),
		CategoryID:    f.category,
		SubCategoryID: &groceries,
	})
	s.Require().NoError(err)

	updated, err := s.transactions.Update(ctx, f.userID, tx.ID, dto.TransactionUpdate{CategoryID: &travel.ID})
	s.Require().NoError(err)
	s.Equal(travel.ID, updated.CategoryID)
	s.Nil(updated.SubCategoryID)
	s.assertBalance(ctx, f, f.bank, "975")
}
