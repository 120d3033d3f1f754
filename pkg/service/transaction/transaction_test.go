package transaction_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/amirasaad/strides/internal/fixtures"
	"github.com/amirasaad/strides/pkg/domain"
	"github.com/amirasaad/strides/pkg/domain/account"
	"github.com/amirasaad/strides/pkg/domain/category"
	"github.com/amirasaad/strides/pkg/domain/transaction"
	"github.com/amirasaad/strides/pkg/dto"
	accountsvc "github.com/amirasaad/strides/pkg/service/account"
	categorysvc "github.com/amirasaad/strides/pkg/service/category"
	transactionsvc "github.com/amirasaad/strides/pkg/service/transaction"
	"github.com/amirasaad/strides/pkg/service/transfer"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var now = time.Date(2026, time.May, 1, 8, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

type TransactionTestSuite struct {
	suite.Suite
	store      *fixtures.Store
	svc        *transactionsvc.Service
	transfers  *transfer.Service
	accounts   *accountsvc.Service
	userID     uuid.UUID
	categoryID uuid.UUID
}

func TestTransactionTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionTestSuite))
}

func (s *TransactionTestSuite) SetupTest() {
	s.store = fixtures.NewStore()
	uow := fixtures.NewUoW(s.store)
	clock := func() time.Time { return now }
	s.svc = transactionsvc.New(uow, slog.Default(), 0).WithClock(clock)
	s.transfers = transfer.New(uow, slog.Default()).WithClock(clock)
	s.accounts = accountsvc.New(uow, slog.Default())
	s.userID = uuid.New()

	c, err := categorysvc.New(uow, slog.Default()).Create(context.Background(), s.userID, "Food")
	s.Require().NoError(err)
	s.categoryID = c.ID
}

func (s *TransactionTestSuite) seed(typ account.Type, bal string) uuid.UUID {
	return s.store.SeedAccount(dto.AccountRead{
		UserID:      s.userID,
		AccountName: string(typ),
		AccountType: typ,
		Balance:     d(bal),
		Country:     account.CountryIN,
		Currency:    "INR",
	})
}

func (s *TransactionTestSuite) assertBalance(id uuid.UUID, want string) {
	s.T().Helper()
	got := s.store.Balance(id)
	s.True(d(want).Equal(got), "balance: want %s, got %s", want, got)
}

func (s *TransactionTestSuite) create(accountID uuid.UUID, typ transaction.Type, amount string) *dto.TransactionRead {
	s.T().Helper()
	tx, err := s.svc.Create(context.Background(), transactionsvc.Request{
		UserID:     s.userID,
		AccountID:  accountID,
		Type:       typ,
		Amount:     d(amount),
		CategoryID: s.categoryID,
	})
	s.Require().NoError(err)
	return tx
}

func (s *TransactionTestSuite) TestNonCreditSymmetry() {
	bank := s.seed(account.BankAccount, "100")
	expense := s.create(bank, transaction.Expense, "30")
	s.assertBalance(bank, "70")
	s.True(now.Equal(expense.Date))
	s.Require().NoError(s.svc.Delete(context.Background(), s.userID, expense.ID))
	s.assertBalance(bank, "100")

	s.create(bank, transaction.Income, "30")
	s.assertBalance(bank, "130")
}

func (s *TransactionTestSuite) TestCreditCardInversion() {
	card := s.seed(account.CreditCard, "100")
	expense := s.create(card, transaction.Expense, "30")
	s.assertBalance(card, "130")
	s.Require().NoError(s.svc.Delete(context.Background(), s.userID, expense.ID))
	s.assertBalance(card, "100")

	s.create(card, transaction.Income, "30")
	s.assertBalance(card, "70")
}

func (s *TransactionTestSuite) TestUpdateRevertsThenApplies() {
	bank := s.seed(account.BankAccount, "100")
	tx := s.create(bank, transaction.Expense, "20")
	s.assertBalance(bank, "80")

	updated, err := s.svc.Update(context.Background(), s.userID, tx.ID, dto.TransactionUpdate{Amount: dp("50")})
	s.Require().NoError(err)
	s.True(d("50").Equal(updated.Amount))
	s.assertBalance(bank, "50")

	// notes only: balance untouched
	notes := "lunch"
	updated, err = s.svc.Update(context.Background(), s.userID, tx.ID, dto.TransactionUpdate{Notes: &notes})
	s.Require().NoError(err)
	s.Equal("lunch", *updated.Notes)
	s.True(d("50").Equal(updated.Amount))
	s.assertBalance(bank, "50")
}

func (s *TransactionTestSuite) TestUpdateCreditCard() {
	card := s.seed(account.CreditCard, "0")
	tx := s.create(card, transaction.Income, "40")
	s.assertBalance(card, "-40")

	_, err := s.svc.Update(context.Background(), s.userID, tx.ID, dto.TransactionUpdate{Amount: dp("10")})
	s.Require().NoError(err)
	s.assertBalance(card, "-10")
}

func (s *TransactionTestSuite) TestCreateValidation() {
	bank := s.seed(account.BankAccount, "100")

	_, err := s.svc.Create(context.Background(), transactionsvc.Request{
		UserID: s.userID, AccountID: bank, Type: transaction.Transfer, Amount: d("1"), CategoryID: s.categoryID,
	})
	s.ErrorIs(err, transaction.ErrInvalidType)

	_, err = s.svc.Create(context.Background(), transactionsvc.Request{
		UserID: s.userID, AccountID: bank, Type: transaction.Expense, Amount: d("-5"), CategoryID: s.categoryID,
	})
	s.ErrorIs(err, transaction.ErrAmountMustBePositive)
	s.ErrorIs(err, domain.ErrValidation)

	_, err = s.svc.Create(context.Background(), transactionsvc.Request{
		UserID: s.userID, AccountID: bank, Type: transaction.Expense, Amount: d("5"), CategoryID: uuid.New(),
	})
	s.ErrorIs(err, category.ErrCategoryNotFound)

	sub := uuid.New()
	_, err = s.svc.Create(context.Background(), transactionsvc.Request{
		UserID: s.userID, AccountID: bank, Type: transaction.Expense, Amount: d("5"),
		CategoryID: s.categoryID, SubCategoryID: &sub,
	})
	s.ErrorIs(err, category.ErrSubCategoryNotFound)

	s.assertBalance(bank, "100")
	s.Empty(s.store.Transactions())
}

func (s *TransactionTestSuite) TestCreateNotOwned() {
	theirs := s.store.SeedAccount(dto.AccountRead{
		UserID: uuid.New(), AccountType: account.BankAccount, Balance: d("100"),
	})
	_, err := s.svc.Create(context.Background(), transactionsvc.Request{
		UserID: s.userID, AccountID: theirs, Type: transaction.Expense, Amount: d("5"), CategoryID: s.categoryID,
	})
	s.ErrorIs(err, account.ErrAccountNotFound)
	s.ErrorIs(err, domain.ErrNotFound)
	s.assertBalance(theirs, "100")
}

func (s *TransactionTestSuite) TestCreateRollsBack() {
	bank := s.seed(account.BankAccount, "100")
	boom := errors.New("write conflict")
	s.store.FailOn("Transaction.Create", boom)

	_, err := s.svc.Create(context.Background(), transactionsvc.Request{
		UserID: s.userID, AccountID: bank, Type: transaction.Expense, Amount: d("30"), CategoryID: s.categoryID,
	})
	s.ErrorIs(err, boom)
	s.assertBalance(bank, "100")
	s.Empty(s.store.Transactions())
}

func (s *TransactionTestSuite) TestUpdateRollsBack() {
	bank := s.seed(account.BankAccount, "100")
	tx := s.create(bank, transaction.Expense, "20")
	boom := errors.New("write conflict")
	s.store.FailOn("Transaction.Update", boom)

	_, err := s.svc.Update(context.Background(), s.userID, tx.ID, dto.TransactionUpdate{Amount: dp("50")})
	s.ErrorIs(err, boom)
	s.assertBalance(bank, "80")
	got, err := s.svc.Get(context.Background(), s.userID, tx.ID)
	s.Require().NoError(err)
	s.True(d("20").Equal(got.Amount))
}

func (s *TransactionTestSuite) TestUpdateErrors() {
	bank := s.seed(account.BankAccount, "100")
	tx := s.create(bank, transaction.Expense, "20")

	_, err := s.svc.Update(context.Background(), s.userID, tx.ID, dto.TransactionUpdate{})
	s.ErrorIs(err, transaction.ErrEmptyUpdate)

	_, err = s.svc.Update(context.Background(), s.userID, tx.ID, dto.TransactionUpdate{Amount: dp("0")})
	s.ErrorIs(err, transaction.ErrAmountMustBePositive)

	_, err = s.svc.Update(context.Background(), uuid.New(), tx.ID, dto.TransactionUpdate{Amount: dp("10")})
	s.ErrorIs(err, transaction.ErrTransactionNotFound)

	other := uuid.New()
	_, err = s.svc.Update(context.Background(), s.userID, tx.ID, dto.TransactionUpdate{CategoryID: &other})
	s.ErrorIs(err, category.ErrCategoryNotFound)

	s.Require().NoError(s.accounts.DeleteAccount(context.Background(), s.userID, bank))
	_, err = s.svc.Update(context.Background(), s.userID, tx.ID, dto.TransactionUpdate{Amount: dp("10")})
	s.ErrorIs(err, account.ErrAccountNotFound)
	s.assertBalance(bank, "80")
}

func (s *TransactionTestSuite) TestUpdateCategoryDropsSubCategory() {
	ctx := context.Background()
	categories := categorysvc.New(fixtures.NewUoW(s.store), slog.Default())
	food, err := categories.AddSubCategory(ctx, s.userID, s.categoryID, "Groceries")
	s.Require().NoError(err)
	s.Require().Len(food.SubCategories, 1)
	groceries := food.SubCategories[0].ID
	travel, err := categories.Create(ctx, s.userID, "Travel")
	s.Require().NoError(err)

	bank := s.seed(account.BankAccount, "100")
	tx, err := s.svc.Create(ctx, transactionsvc.Request{
		UserID:        s.userID,
		AccountID:     bank,
		Type:          transaction.Expense,
		Amount:        d("20"),
		CategoryID:    s.categoryID,
		SubCategoryID: &groceries,
	})
	s.Require().NoError(err)
	s.Require().NotNil(tx.SubCategoryID)

	// same category keeps the subcategory
	notes := "weekly"
	updated, err := s.svc.Update(ctx, s.userID, tx.ID, dto.TransactionUpdate{CategoryID: &s.categoryID, Notes: &notes})
	s.Require().NoError(err)
	s.Require().NotNil(updated.SubCategoryID)
	s.Equal(groceries, *updated.SubCategoryID)

	updated, err = s.svc.Update(ctx, s.userID, tx.ID, dto.TransactionUpdate{CategoryID: &travel.ID})
	s.Require().NoError(err)
	s.Equal(travel.ID, updated.CategoryID)
	s.Nil(updated.SubCategoryID)

	// a subcategory of the old category is rejected under the new one
	_, err = s.svc.Update(ctx, s.userID, tx.ID, dto.TransactionUpdate{SubCategoryID: &groceries})
	s.ErrorIs(err, category.ErrSubCategoryNotFound)
	s.assertBalance(bank, "80")
}

func (s *TransactionTestSuite) TestDeleteAfterAccountDeleted() {
	bank := s.seed(account.BankAccount, "100")
	tx := s.create(bank, transaction.Expense, "20")
	s.Require().NoError(s.accounts.DeleteAccount(context.Background(), s.userID, bank))

	s.Require().NoError(s.svc.Delete(context.Background(), s.userID, tx.ID))
	s.assertBalance(bank, "80")
	s.Empty(s.store.Transactions())
}

func (s *TransactionTestSuite) TestDeleteNotFound() {
	err := s.svc.Delete(context.Background(), s.userID, uuid.New())
	s.ErrorIs(err, transaction.ErrTransactionNotFound)

	bank := s.seed(account.BankAccount, "100")
	tx := s.create(bank, transaction.Expense, "20")
	err = s.svc.Delete(context.Background(), uuid.New(), tx.ID)
	s.ErrorIs(err, transaction.ErrTransactionNotFound)
	s.assertBalance(bank, "80")
}

func (s *TransactionTestSuite) TestDeleteTransferSideRemovesPair() {
	a := s.seed(account.BankAccount, "100")
	b := s.seed(account.BankAccount, "50")
	pair, err := s.transfers.Create(context.Background(), transfer.Request{
		UserID: s.userID, FromAccountID: a, ToAccountID: b, Amount: d("40"),
	})
	s.Require().NoError(err)
	s.assertBalance(a, "60")
	s.assertBalance(b, "90")

	s.Require().NoError(s.svc.Delete(context.Background(), s.userID, pair[1].ID))
	s.assertBalance(a, "100")
	s.assertBalance(b, "50")
	s.Empty(s.store.Transactions())
}

func (s *TransactionTestSuite) TestUpdateTransferSide() {
	a := s.seed(account.BankAccount, "100")
	b := s.seed(account.BankAccount, "0")
	pair, err := s.transfers.Create(context.Background(), transfer.Request{
		UserID: s.userID, FromAccountID: a, ToAccountID: b, Amount: d("40"),
	})
	s.Require().NoError(err)

	_, err = s.svc.Update(context.Background(), s.userID, pair[0].ID, dto.TransactionUpdate{Amount: dp("45")})
	s.ErrorIs(err, transaction.ErrTransferAmountImmutable)

	later := now.Add(24 * time.Hour)
	updated, err := s.svc.Update(context.Background(), s.userID, pair[0].ID, dto.TransactionUpdate{Date: &later})
	s.Require().NoError(err)
	s.True(later.Equal(updated.Date))

	in, err := s.svc.Get(context.Background(), s.userID, pair[1].ID)
	s.Require().NoError(err)
	s.True(later.Equal(in.Date))
	s.assertBalance(a, "60")
	s.assertBalance(b, "40")
}

func (s *TransactionTestSuite) TestListNewestFirst() {
	bank := s.seed(account.BankAccount, "1000")
	cash := s.seed(account.Cash, "1000")

	for i, day := range []int{3, 1, 2} {
		date := now.AddDate(0, 0, day)
		acc := bank
		if i == 2 {
			acc = cash
		}
		_, err := s.svc.Create(context.Background(), transactionsvc.Request{
			UserID: s.userID, AccountID: acc, Type: transaction.Expense, Amount: d("1"),
			CategoryID: s.categoryID, Date: &date,
		})
		s.Require().NoError(err)
	}

	list, err := s.svc.List(context.Background(), s.userID, nil)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.True(list[0].Date.After(list[1].Date))
	s.True(list[1].Date.After(list[2].Date))

	list, err = s.svc.List(context.Background(), s.userID, &cash)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(cash, list[0].AccountID)

	list, err = s.svc.List(context.Background(), uuid.New(), nil)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *TransactionTestSuite) TestListPageSize() {
	uow := fixtures.NewUoW(s.store)
	small := transactionsvc.New(uow, slog.Default(), 2)
	bank := s.seed(account.BankAccount, "1000")
	for range 3 {
		s.create(bank, transaction.Expense, "1")
	}
	list, err := small.List(context.Background(), s.userID, nil)
	s.Require().NoError(err)
	s.Len(list, 2)
}
