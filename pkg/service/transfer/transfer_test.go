package transfer_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/amirasaad/strides/internal/fixtures"
	"github.com/amirasaad/strides/pkg/domain"
	"github.com/amirasaad/strides/pkg/domain/account"
	"github.com/amirasaad/strides/pkg/domain/transaction"
	"github.com/amirasaad/strides/pkg/dto"
	"github.com/amirasaad/strides/pkg/repository"
	"github.com/amirasaad/strides/pkg/service/transfer"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var now = time.Date(2026, time.April, 2, 9, 30, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

type TransferTestSuite struct {
	suite.Suite
	store  *fixtures.Store
	uow    *fixtures.UoW
	svc    *transfer.Service
	userID uuid.UUID
}

func TestTransferTestSuite(t *testing.T) {
	suite.Run(t, new(TransferTestSuite))
}

func (s *TransferTestSuite) SetupTest() {
	s.store = fixtures.NewStore()
	s.uow = fixtures.NewUoW(s.store)
	s.svc = transfer.New(s.uow, slog.Default()).WithClock(func() time.Time { return now })
	s.userID = uuid.New()
}

func (s *TransferTestSuite) seed(name string, typ account.Type, bal string) uuid.UUID {
	return s.store.SeedAccount(dto.AccountRead{
		UserID:      s.userID,
		AccountName: name,
		Provider:    "Bank",
		AccountType: typ,
		Balance:     d(bal),
		Country:     account.CountryUS,
		Currency:    "USD",
	})
}

func (s *TransferTestSuite) assertBalance(id uuid.UUID, want string) {
	s.T().Helper()
	got := s.store.Balance(id)
	s.True(d(want).Equal(got), "balance: want %s, got %s", want, got)
}

func (s *TransferTestSuite) deletePair(doc *dto.TransactionRead) error {
	return s.uow.Do(context.Background(), func(uow repository.UnitOfWork) error {
		return transfer.DeletePair(context.Background(), uow, doc, slog.Default())
	})
}

func (s *TransferTestSuite) TestConservationAndRestore() {
	a := s.seed("Checking", account.BankAccount, "100")
	b := s.seed("Savings", account.BankAccount, "50")

	pair, err := s.svc.Create(context.Background(), transfer.Request{
		UserID: s.userID, FromAccountID: a, ToAccountID: b, Amount: d("40"),
	})
	s.Require().NoError(err)
	s.Require().Len(pair, 2)
	s.assertBalance(a, "60")
	s.assertBalance(b, "90")

	out, in := pair[0], pair[1]
	s.Equal(transaction.Out, *out.TransferDirection)
	s.Equal(transaction.In, *in.TransferDirection)
	s.Equal(a, out.AccountID)
	s.Equal(b, *out.ToAccountID)
	s.Equal(b, in.AccountID)
	s.Equal(a, *in.ToAccountID)
	s.Equal(*out.TransferGroupID, *in.TransferGroupID)
	s.True(out.Date.Equal(now))
	s.True(in.Date.Equal(now))
	s.Equal("Transfer to Savings", *out.Notes)
	s.Equal("Transfer from Checking", *in.Notes)
	s.False(out.IsCreditCardPayment)

	s.Require().NoError(s.deletePair(in))
	s.assertBalance(a, "100")
	s.assertBalance(b, "50")
	s.Empty(s.store.Transactions())
}

func (s *TransferTestSuite) TestCommissionAndRate() {
	a := s.seed("USD", account.BankAccount, "500")
	b := s.seed("INR", account.BankAccount, "0")

	pair, err := s.svc.Create(context.Background(), transfer.Request{
		UserID: s.userID, FromAccountID: a, ToAccountID: b, Amount: d("100"),
		Commission: dp("5"), ExchangeRate: dp("0.9"),
	})
	s.Require().NoError(err)
	s.assertBalance(a, "400")
	s.assertBalance(b, "85.5")

	s.True(d("100").Equal(pair[0].Amount))
	s.True(d("85.5").Equal(pair[1].Amount))
	s.True(d("85.5").Equal(*pair[0].TransferredAmount))
	s.True(d("85.5").Equal(*pair[1].TransferredAmount))

	s.Require().NoError(s.deletePair(pair[0]))
	s.assertBalance(a, "500")
	s.assertBalance(b, "0")
}

func (s *TransferTestSuite) TestCreditCardPayment() {
	bank := s.seed("Checking", account.BankAccount, "1000")
	card := s.seed("Visa", account.CreditCard, "300")

	pair, err := s.svc.Create(context.Background(), transfer.Request{
		UserID: s.userID, FromAccountID: bank, ToAccountID: card, Amount: d("120"),
	})
	s.Require().NoError(err)
	s.True(pair[0].IsCreditCardPayment)
	s.True(pair[1].IsCreditCardPayment)
	s.assertBalance(bank, "880")
	s.assertBalance(card, "180")

	stored := s.store.Account(card)
	s.Require().NotNil(stored.LastPaymentDate)
	s.True(now.Equal(*stored.LastPaymentDate))
	s.Require().NotNil(stored.LastPaymentAmount)
	s.True(d("120").Equal(*stored.LastPaymentAmount))

	s.Require().NoError(s.deletePair(pair[1]))
	s.assertBalance(bank, "1000")
	s.assertBalance(card, "300")
}

func (s *TransferTestSuite) TestCreditCardOverpayment() {
	bank := s.seed("Checking", account.BankAccount, "1000")
	card := s.seed("Visa", account.CreditCard, "50")

	_, err := s.svc.Create(context.Background(), transfer.Request{
		UserID: s.userID, FromAccountID: bank, ToAccountID: card, Amount: d("60"),
	})
	s.ErrorIs(err, account.ErrOverpayment)
	s.ErrorIs(err, domain.ErrInvalidState)
	s.assertBalance(bank, "1000")
	s.assertBalance(card, "50")
	s.Empty(s.store.Transactions())
	s.Empty(s.store.Categories(s.userID))
}

func (s *TransferTestSuite) TestInsufficientFunds() {
	a := s.seed("Wallet", account.EWallet, "30")
	b := s.seed("Cash", account.Cash, "0")

	_, err := s.svc.Create(context.Background(), transfer.Request{
		UserID: s.userID, FromAccountID: a, ToAccountID: b, Amount: d("30.01"),
	})
	s.ErrorIs(err, account.ErrInsufficientFunds)
	s.assertBalance(a, "30")

	// draining to exactly zero is allowed
	_, err = s.svc.Create(context.Background(), transfer.Request{
		UserID: s.userID, FromAccountID: a, ToAccountID: b, Amount: d("30"),
	})
	s.Require().NoError(err)
	s.assertBalance(a, "0")
	s.assertBalance(b, "30")
}

func (s *TransferTestSuite) TestCreditSourceIsExempt() {
	card := s.seed("Visa", account.CreditCard, "0")
	bank := s.seed("Checking", account.BankAccount, "0")

	pair, err := s.svc.Create(context.Background(), transfer.Request{
		UserID: s.userID, FromAccountID: card, ToAccountID: bank, Amount: d("200"),
	})
	s.Require().NoError(err)
	s.False(pair[0].IsCreditCardPayment)
	// cash advance: card debt grows, bank funds grow
	s.assertBalance(card, "200")
	s.assertBalance(bank, "200")

	s.Require().NoError(s.deletePair(pair[0]))
	s.assertBalance(card, "0")
	s.assertBalance(bank, "0")
}

func (s *TransferTestSuite) TestCardToCard() {
	from := s.seed("Visa", account.CreditCard, "100")
	to := s.seed("Amex", account.CreditCard, "300")

	pair, err := s.svc.Create(context.Background(), transfer.Request{
		UserID: s.userID, FromAccountID: from, ToAccountID: to, Amount: d("250"),
	})
	s.Require().NoError(err)
	s.False(pair[0].IsCreditCardPayment)
	s.assertBalance(from, "350")
	s.assertBalance(to, "50")

	s.Require().NoError(s.deletePair(pair[1]))
	s.assertBalance(from, "100")
	s.assertBalance(to, "300")
}

func (s *TransferTestSuite) TestValidation() {
	a := s.seed("A", account.BankAccount, "100")
	b := s.seed("B", account.BankAccount, "100")

	tests := []struct {
		name string
		req  transfer.Request
		want error
	}{
		{"same account", transfer.Request{FromAccountID: a, ToAccountID: a, Amount: d("1")}, transaction.ErrSameAccountTransfer},
		{"zero amount", transfer.Request{FromAccountID: a, ToAccountID: b, Amount: d("0")}, transaction.ErrAmountMustBePositive},
		{"negative commission", transfer.Request{FromAccountID: a, ToAccountID: b, Amount: d("10"), Commission: dp("-1")}, transaction.ErrNegativeCommission},
		{"zero rate", transfer.Request{FromAccountID: a, ToAccountID: b, Amount: d("10"), ExchangeRate: dp("0")}, transaction.ErrInvalidExchangeRate},
		{"commission eats amount", transfer.Request{FromAccountID: a, ToAccountID: b, Amount: d("10"), Commission: dp("10")}, transaction.ErrNothingTransferred},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			tt.req.UserID = s.userID
			_, err := s.svc.Create(context.Background(), tt.req)
			s.ErrorIs(err, tt.want)
			s.ErrorIs(err, domain.ErrValidation)
		})
	}
	s.assertBalance(a, "100")
	s.assertBalance(b, "100")
}

func (s *TransferTestSuite) TestNotOwned() {
	mine := s.seed("Mine", account.BankAccount, "100")
	theirs := s.store.SeedAccount(dto.AccountRead{
		UserID: uuid.New(), AccountType: account.BankAccount, Balance: d("100"),
	})

	_, err := s.svc.Create(context.Background(), transfer.Request{
		UserID: s.userID, FromAccountID: mine, ToAccountID: theirs, Amount: d("10"),
	})
	s.ErrorIs(err, account.ErrAccountNotFound)
	s.ErrorIs(err, domain.ErrNotFound)
	s.assertBalance(mine, "100")
	s.assertBalance(theirs, "100")

	_, err = s.svc.Create(context.Background(), transfer.Request{
		UserID: s.userID, FromAccountID: mine, ToAccountID: uuid.New(), Amount: d("10"),
	})
	s.ErrorIs(err, account.ErrAccountNotFound)
}

func (s *TransferTestSuite) TestRollbackOnFailure() {
	a := s.seed("A", account.BankAccount, "100")
	b := s.seed("B", account.BankAccount, "0")
	boom := errors.New("disk full")
	s.store.FailOn("Transaction.Create", boom)

	_, err := s.svc.Create(context.Background(), transfer.Request{
		UserID: s.userID, FromAccountID: a, ToAccountID: b, Amount: d("40"),
	})
	s.ErrorIs(err, boom)
	s.assertBalance(a, "100")
	s.assertBalance(b, "0")
	s.Empty(s.store.Transactions())
	s.Empty(s.store.Categories(s.userID))
}

func (s *TransferTestSuite) TestTransferCategoryIsReused() {
	a := s.seed("A", account.BankAccount, "100")
	b := s.seed("B", account.BankAccount, "0")

	first, err := s.svc.Create(context.Background(), transfer.Request{
		UserID: s.userID, FromAccountID: a, ToAccountID: b, Amount: d("10"),
	})
	s.Require().NoError(err)
	notes := "rent share"
	second, err := s.svc.Create(context.Background(), transfer.Request{
		UserID: s.userID, FromAccountID: a, ToAccountID: b, Amount: d("10"), Notes: &notes,
	})
	s.Require().NoError(err)

	s.Equal(first[0].CategoryID, second[0].CategoryID)
	s.Equal(first[1].CategoryID, second[1].CategoryID)
	cats := s.store.Categories(s.userID)
	s.Require().Len(cats, 1)
	s.Equal(transaction.TransferCategoryName, cats[0].Name)
	s.True(cats[0].IsDefault)
	s.Equal("rent share", *second[0].Notes)
	s.Equal("rent share", *second[1].Notes)
	s.NotEqual(*first[0].TransferGroupID, *second[0].TransferGroupID)
}

func (s *TransferTestSuite) TestOrphanDeletion() {
	a := s.seed("A", account.BankAccount, "60")
	out := transaction.Out
	b := uuid.New()
	id := s.store.SeedTransaction(dto.TransactionRead{
		UserID: s.userID, AccountID: a, Type: transaction.Transfer, Amount: d("40"),
		Date: now, ToAccountID: &b, TransferDirection: &out,
	})
	doc := s.store.Transactions()[0]
	s.Equal(id, doc.ID)

	s.Require().NoError(s.deletePair(doc))
	s.assertBalance(a, "100")
	s.Empty(s.store.Transactions())
}

func (s *TransferTestSuite) TestOrphanInSideOnCredit() {
	card := s.seed("Visa", account.CreditCard, "60")
	in := transaction.In
	src := uuid.New()
	s.store.SeedTransaction(dto.TransactionRead{
		UserID: s.userID, AccountID: card, Type: transaction.Transfer, Amount: d("40"),
		Date: now, ToAccountID: &src, TransferDirection: &in,
	})

	s.Require().NoError(s.deletePair(s.store.Transactions()[0]))
	// the payment is undone, so the debt comes back
	s.assertBalance(card, "100")
}

func (s *TransferTestSuite) TestLegacyPairWithoutGroup() {
	a := s.seed("A", account.BankAccount, "60")
	b := s.seed("B", account.BankAccount, "90")
	out, in := transaction.Out, transaction.In

	outID := s.store.SeedTransaction(dto.TransactionRead{
		UserID: s.userID, AccountID: a, Type: transaction.Transfer, Amount: d("40"),
		Date: now, ToAccountID: &b, TransferDirection: &out,
	})
	s.store.SeedTransaction(dto.TransactionRead{
		UserID: s.userID, AccountID: b, Type: transaction.Transfer, Amount: d("40"),
		Date: now, ToAccountID: &a, TransferDirection: &in,
	})
	// same accounts, different date: must not be picked up
	other := s.store.SeedTransaction(dto.TransactionRead{
		UserID: s.userID, AccountID: b, Type: transaction.Transfer, Amount: d("5"),
		Date: now.Add(time.Minute), ToAccountID: &a, TransferDirection: &in,
	})

	var doc *dto.TransactionRead
	for _, t := range s.store.Transactions() {
		if t.ID == outID {
			doc = t
		}
	}
	s.Require().NotNil(doc)
	s.Require().NoError(s.deletePair(doc))
	s.assertBalance(a, "100")
	s.assertBalance(b, "50")

	left := s.store.Transactions()
	s.Require().Len(left, 1)
	s.Equal(other, left[0].ID)
}

func (s *TransferTestSuite) TestDeleteWithDeletedAccount() {
	a := s.seed("A", account.BankAccount, "100")
	b := s.seed("B", account.BankAccount, "0")
	pair, err := s.svc.Create(context.Background(), transfer.Request{
		UserID: s.userID, FromAccountID: a, ToAccountID: b, Amount: d("40"),
	})
	s.Require().NoError(err)

	s.Require().NoError(s.uow.Do(context.Background(), func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		return repo.Delete(context.Background(), b)
	}))

	s.Require().NoError(s.deletePair(pair[0]))
	s.assertBalance(a, "100")
	s.Empty(s.store.Transactions())
}

func (s *TransferTestSuite) TestUpdateSide() {
	a := s.seed("A", account.BankAccount, "100")
	b := s.seed("B", account.BankAccount, "0")
	pair, err := s.svc.Create(context.Background(), transfer.Request{
		UserID: s.userID, FromAccountID: a, ToAccountID: b, Amount: d("40"),
	})
	s.Require().NoError(err)

	update := func(doc *dto.TransactionRead, u dto.TransactionUpdate) error {
		return s.uow.Do(context.Background(), func(uow repository.UnitOfWork) error {
			return transfer.UpdateSide(context.Background(), uow, doc, u)
		})
	}

	err = update(pair[0], dto.TransactionUpdate{Amount: dp("50")})
	s.ErrorIs(err, transaction.ErrTransferAmountImmutable)
	s.ErrorIs(err, domain.ErrInvalidState)

	// resending the current amount is accepted
	s.Require().NoError(update(pair[0], dto.TransactionUpdate{Amount: dp("40")}))

	later := now.Add(48 * time.Hour)
	notes := "moved"
	s.Require().NoError(update(pair[1], dto.TransactionUpdate{Date: &later, Notes: &notes}))

	for _, t := range s.store.Transactions() {
		s.True(later.Equal(t.Date))
		if t.ID == pair[1].ID {
			s.Equal("moved", *t.Notes)
		} else {
			s.Equal("Transfer to B", *t.Notes)
		}
	}
	s.assertBalance(a, "60")
	s.assertBalance(b, "40")
}

func TestCompanion_NoReference(t *testing.T) {
	store := fixtures.NewStore()
	uow := fixtures.NewUoW(store)
	repo, err := uow.TransactionRepository()
	require.NoError(t, err)

	got, err := transfer.Companion(context.Background(), repo, &dto.TransactionRead{
		ID: uuid.New(), UserID: uuid.New(), Type: transaction.Transfer,
	})
	require.NoError(t, err)
	assert.Nil(t, got)
}
