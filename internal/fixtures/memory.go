// Package fixtures provides an in-memory implementation of the repository
// interfaces for service and HTTP tests.
package fixtures

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/amirasaad/strides/pkg/domain/account"
	"github.com/amirasaad/strides/pkg/domain/category"
	"github.com/amirasaad/strides/pkg/domain/transaction"
	"github.com/amirasaad/strides/pkg/domain/user"
	"github.com/amirasaad/strides/pkg/dto"
	"github.com/amirasaad/strides/pkg/repository"
	accountrepo "github.com/amirasaad/strides/pkg/repository/account"
	categoryrepo "github.com/amirasaad/strides/pkg/repository/category"
	transactionrepo "github.com/amirasaad/strides/pkg/repository/transaction"
	userrepo "github.com/amirasaad/strides/pkg/repository/user"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store is an in-memory database. Units of work are serialized and roll
// back every change when their function fails.
type Store struct {
	mu sync.Mutex

	accounts     map[uuid.UUID]*dto.AccountRead
	deleted      map[uuid.UUID]bool
	transactions map[uuid.UUID]*dto.TransactionRead
	categories   map[uuid.UUID]*dto.CategoryRead
	users        map[uuid.UUID]*dto.UserRead

	failures map[string]error
	ticks    int64
	base     time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		accounts:     make(map[uuid.UUID]*dto.AccountRead),
		deleted:      make(map[uuid.UUID]bool),
		transactions: make(map[uuid.UUID]*dto.TransactionRead),
		categories:   make(map[uuid.UUID]*dto.CategoryRead),
		users:        make(map[uuid.UUID]*dto.UserRead),
		failures:     make(map[string]error),
		base:         time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

// FailOn makes the next call of op return err. op is "<Entity>.<Method>",
// e.g. "Transaction.Create" or "Account.AdjustBalance".
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// failure consumes an injected error. Callers hold s.mu.
func (s *Store) failure(op string) error {
	err, ok := s.failures[op]
	if !ok {
		return nil
	}
	delete(s.failures, op)
	return err
}

// now returns strictly increasing timestamps so ordering is deterministic.
func (s *Store) now() time.Time {
	s.ticks++
	return s.base.Add(time.Duration(s.ticks) * time.Millisecond)
}

// Account returns a copy of the stored account, soft-deleted or not.
func (s *Store) Account(id uuid.UUID) *dto.AccountRead {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil
	}
	c := *a
	return &c
}

// Balance returns the stored balance of an account.
func (s *Store) Balance(id uuid.UUID) decimal.Decimal {
	if a := s.Account(id); a != nil {
		return a.Balance
	}
	return decimal.Zero
}

// Transactions returns copies of every stored transaction.
func (s *Store) Transactions() []*dto.TransactionRead {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*dto.TransactionRead, 0, len(s.transactions))
	for _, t := range s.transactions {
		c := *t
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Categories returns the categories of a user.
func (s *Store) Categories(userID uuid.UUID) []*dto.CategoryRead {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*dto.CategoryRead
	for _, c := range s.categories {
		if c.UserID == userID {
			out = append(out, cloneCategory(c))
		}
	}
	return out
}

// SeedAccount stores an account directly and returns its id.
func (s *Store) SeedAccount(a dto.AccountRead) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now()
		a.UpdatedAt = a.CreatedAt
	}
	s.accounts[a.ID] = &a
	return a.ID
}

// SeedTransaction stores a transaction directly, without touching balances.
func (s *Store) SeedTransaction(t dto.TransactionRead) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now()
		t.UpdatedAt = t.CreatedAt
	}
	s.transactions[t.ID] = &t
	return t.ID
}

type snapshot struct {
	accounts     map[uuid.UUID]*dto.AccountRead
	deleted      map[uuid.UUID]bool
	transactions map[uuid.UUID]*dto.TransactionRead
	categories   map[uuid.UUID]*dto.CategoryRead
	users        map[uuid.UUID]*dto.UserRead
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		accounts:     make(map[uuid.UUID]*dto.AccountRead, len(s.accounts)),
		deleted:      make(map[uuid.UUID]bool, len(s.deleted)),
		transactions: make(map[uuid.UUID]*dto.TransactionRead, len(s.transactions)),
		categories:   make(map[uuid.UUID]*dto.CategoryRead, len(s.categories)),
		users:        make(map[uuid.UUID]*dto.UserRead, len(s.users)),
	}
	for k, v := range s.accounts {
		c := *v
		snap.accounts[k] = &c
	}
	for k, v := range s.deleted {
		snap.deleted[k] = v
	}
	for k, v := range s.transactions {
		c := *v
		snap.transactions[k] = &c
	}
	for k, v := range s.categories {
		snap.categories[k] = cloneCategory(v)
	}
	for k, v := range s.users {
		c := *v
		snap.users[k] = &c
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.accounts = snap.accounts
	s.deleted = snap.deleted
	s.transactions = snap.transactions
	s.categories = snap.categories
	s.users = snap.users
}

func cloneCategory(c *dto.CategoryRead) *dto.CategoryRead {
	cp := *c
	cp.SubCategories = append([]dto.SubCategoryRead(nil), c.SubCategories...)
	return &cp
}

// UoW is the in-memory repository.UnitOfWork.
type UoW struct {
	store *Store
	inTx  bool
}

// NewUoW returns a unit of work over store.
func NewUoW(store *Store) *UoW {
	return &UoW{store: store}
}

var _ repository.UnitOfWork = (*UoW)(nil)

// Do runs fn with exclusive access to the store and restores the previous
// state when fn fails.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if u.inTx {
		return fn(u)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	snap := u.store.snapshot()
	if err := fn(&UoW{store: u.store, inTx: true}); err != nil {
		u.store.restore(snap)
		return err
	}
	return nil
}

// GetRepository returns the repository for the interface repoType points to.
func (u *UoW) GetRepository(repoType any) (any, error) {
	t := reflect.TypeOf(repoType)
	if t == nil || t.Kind() != reflect.Ptr {
		return nil, fmt.Errorf("repository type must be a pointer to an interface, got %v", t)
	}
	switch t.Elem() {
	case reflect.TypeOf((*accountrepo.Repository)(nil)).Elem():
		return &accountRepository{u}, nil
	case reflect.TypeOf((*transactionrepo.Repository)(nil)).Elem():
		return &transactionRepository{u}, nil
	case reflect.TypeOf((*categoryrepo.Repository)(nil)).Elem():
		return &categoryRepository{u}, nil
	case reflect.TypeOf((*userrepo.Repository)(nil)).Elem():
		return &userRepository{u}, nil
	}
	return nil, fmt.Errorf("unsupported repository type: %v", t.Elem())
}

func (u *UoW) AccountRepository() (accountrepo.Repository, error) {
	return &accountRepository{u}, nil
}

func (u *UoW) TransactionRepository() (transactionrepo.Repository, error) {
	return &transactionRepository{u}, nil
}

func (u *UoW) CategoryRepository() (categoryrepo.Repository, error) {
	return &categoryRepository{u}, nil
}

func (u *UoW) UserRepository() (userrepo.Repository, error) {
	return &userRepository{u}, nil
}

// enter locks the store unless the caller already runs inside Do, and
// returns the injected failure for op, if any.
func (u *UoW) enter(op string) (func(), error) {
	unlock := func() {}
	if !u.inTx {
		u.store.mu.Lock()
		unlock = u.store.mu.Unlock
	}
	if err := u.store.failure(op); err != nil {
		unlock()
		return nil, err
	}
	return unlock, nil
}

type accountRepository struct{ u *UoW }

func (r *accountRepository) Create(_ context.Context, create dto.AccountCreate) error {
	unlock, err := r.u.enter("Account.Create")
	if err != nil {
		return err
	}
	defer unlock()
	s := r.u.store
	now := s.now()
	s.accounts[create.ID] = &dto.AccountRead{
		ID:                create.ID,
		UserID:            create.UserID,
		Provider:          create.Provider,
		AccountName:       create.AccountName,
		AccountType:       create.AccountType,
		Balance:           create.Balance,
		CreditLimit:       create.CreditLimit,
		Country:           create.Country,
		Currency:          create.Currency,
		LinkedModes:       append([]account.LinkedMode(nil), create.LinkedModes...),
		MinimumPaymentDue: create.MinimumPaymentDue,
		PaymentDueDate:    create.PaymentDueDate,
		StatementDate:     create.StatementDate,
		InterestRate:      create.InterestRate,
		GracePeriodDays:   create.GracePeriodDays,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	return nil
}

func (r *accountRepository) get(op string, id uuid.UUID) (*dto.AccountRead, error) {
	unlock, err := r.u.enter(op)
	if err != nil {
		return nil, err
	}
	defer unlock()
	a, ok := r.u.store.accounts[id]
	if !ok || r.u.store.deleted[id] {
		return nil, account.ErrAccountNotFound
	}
	c := *a
	return &c, nil
}

func (r *accountRepository) Get(_ context.Context, id uuid.UUID) (*dto.AccountRead, error) {
	return r.get("Account.Get", id)
}

func (r *accountRepository) Lock(_ context.Context, id uuid.UUID) (*dto.AccountRead, error) {
	return r.get("Account.Lock", id)
}

func (r *accountRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]*dto.AccountRead, error) {
	unlock, err := r.u.enter("Account.ListByUser")
	if err != nil {
		return nil, err
	}
	defer unlock()
	var out []*dto.AccountRead
	for id, a := range r.u.store.accounts {
		if a.UserID == userID && !r.u.store.deleted[id] {
			c := *a
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *accountRepository) Update(_ context.Context, id uuid.UUID, update dto.AccountUpdate) error {
	unlock, err := r.u.enter("Account.Update")
	if err != nil {
		return err
	}
	defer unlock()
	s := r.u.store
	a, ok := s.accounts[id]
	if !ok || s.deleted[id] {
		return account.ErrAccountNotFound
	}
	c := *a
	if update.Provider != nil {
		c.Provider = *update.Provider
	}
	if update.AccountName != nil {
		c.AccountName = *update.AccountName
	}
	if update.CreditLimit != nil {
		c.CreditLimit = update.CreditLimit
	}
	if update.Country != nil {
		c.Country = *update.Country
	}
	if update.Currency != nil {
		c.Currency = *update.Currency
	}
	if update.LinkedModes != nil {
		c.LinkedModes = append([]account.LinkedMode(nil), (*update.LinkedModes)...)
	}
	if update.MinimumPaymentDue != nil {
		c.MinimumPaymentDue = update.MinimumPaymentDue
	}
	if update.PaymentDueDate != nil {
		c.PaymentDueDate = update.PaymentDueDate
	}
	if update.StatementDate != nil {
		c.StatementDate = update.StatementDate
	}
	if update.LastPaymentDate != nil {
		c.LastPaymentDate = update.LastPaymentDate
	}
	if update.LastPaymentAmount != nil {
		c.LastPaymentAmount = update.LastPaymentAmount
	}
	if update.InterestRate != nil {
		c.InterestRate = update.InterestRate
	}
	if update.GracePeriodDays != nil {
		c.GracePeriodDays = update.GracePeriodDays
	}
	c.UpdatedAt = s.now()
	s.accounts[id] = &c
	return nil
}

func (r *accountRepository) AdjustBalance(_ context.Context, id uuid.UUID, delta decimal.Decimal) error {
	unlock, err := r.u.enter("Account.AdjustBalance")
	if err != nil {
		return err
	}
	defer unlock()
	s := r.u.store
	a, ok := s.accounts[id]
	if !ok || s.deleted[id] {
		return account.ErrAccountNotFound
	}
	c := *a
	c.Balance = c.Balance.Add(delta)
	c.UpdatedAt = s.now()
	s.accounts[id] = &c
	return nil
}

func (r *accountRepository) Delete(_ context.Context, id uuid.UUID) error {
	unlock, err := r.u.enter("Account.Delete")
	if err != nil {
		return err
	}
	defer unlock()
	s := r.u.store
	if _, ok := s.accounts[id]; !ok || s.deleted[id] {
		return account.ErrAccountNotFound
	}
	s.deleted[id] = true
	return nil
}

type transactionRepository struct{ u *UoW }

func (r *transactionRepository) Create(_ context.Context, create dto.TransactionCreate) error {
	unlock, err := r.u.enter("Transaction.Create")
	if err != nil {
		return err
	}
	defer unlock()
	s := r.u.store
	now := s.now()
	s.transactions[create.ID] = &dto.TransactionRead{
		ID:                  create.ID,
		UserID:              create.UserID,
		AccountID:           create.AccountID,
		Type:                create.Type,
		Amount:              create.Amount,
		Date:                create.Date,
		CategoryID:          create.CategoryID,
		SubCategoryID:       create.SubCategoryID,
		Notes:               create.Notes,
		ToAccountID:         create.ToAccountID,
		TransferDirection:   create.TransferDirection,
		TransferGroupID:     create.TransferGroupID,
		ExchangeRate:        create.ExchangeRate,
		Commission:          create.Commission,
		ServiceName:         create.ServiceName,
		TransferredAmount:   create.TransferredAmount,
		IsCreditCardPayment: create.IsCreditCardPayment,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	return nil
}

func (r *transactionRepository) Get(_ context.Context, id uuid.UUID) (*dto.TransactionRead, error) {
	unlock, err := r.u.enter("Transaction.Get")
	if err != nil {
		return nil, err
	}
	defer unlock()
	t, ok := r.u.store.transactions[id]
	if !ok {
		return nil, transaction.ErrTransactionNotFound
	}
	c := *t
	return &c, nil
}

func (r *transactionRepository) Update(_ context.Context, id uuid.UUID, update dto.TransactionUpdate) error {
	unlock, err := r.u.enter("Transaction.Update")
	if err != nil {
		return err
	}
	defer unlock()
	s := r.u.store
	t, ok := s.transactions[id]
	if !ok {
		return transaction.ErrTransactionNotFound
	}
	c := *t
	if update.Amount != nil {
		c.Amount = *update.Amount
	}
	if update.CategoryID != nil {
		c.CategoryID = *update.CategoryID
	}
	if update.SubCategoryID != nil {
		c.SubCategoryID = update.SubCategoryID
	} else if update.ClearSubCategory {
		c.SubCategoryID = nil
	}
	if update.Notes != nil {
		c.Notes = update.Notes
	}
	if update.Date != nil {
		c.Date = *update.Date
	}
	c.UpdatedAt = s.now()
	s.transactions[id] = &c
	return nil
}

func (r *transactionRepository) Delete(_ context.Context, id uuid.UUID) error {
	unlock, err := r.u.enter("Transaction.Delete")
	if err != nil {
		return err
	}
	defer unlock()
	if _, ok := r.u.store.transactions[id]; !ok {
		return transaction.ErrTransactionNotFound
	}
	delete(r.u.store.transactions, id)
	return nil
}

func (r *transactionRepository) ListByUser(
	_ context.Context,
	userID uuid.UUID,
	filter dto.TransactionFilter,
) ([]*dto.TransactionRead, error) {
	unlock, err := r.u.enter("Transaction.ListByUser")
	if err != nil {
		return nil, err
	}
	defer unlock()
	var out []*dto.TransactionRead
	for _, t := range r.u.store.transactions {
		if t.UserID != userID {
			continue
		}
		if filter.AccountID != nil && t.AccountID != *filter.AccountID {
			continue
		}
		c := *t
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *transactionRepository) ListByGroup(_ context.Context, userID, groupID uuid.UUID) ([]*dto.TransactionRead, error) {
	unlock, err := r.u.enter("Transaction.ListByGroup")
	if err != nil {
		return nil, err
	}
	defer unlock()
	var out []*dto.TransactionRead
	for _, t := range r.u.store.transactions {
		if t.UserID == userID && t.TransferGroupID != nil && *t.TransferGroupID == groupID {
			c := *t
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return directionOf(out[i]) > directionOf(out[j])
	})
	return out, nil
}

func (r *transactionRepository) FindCompanion(_ context.Context, q dto.TransactionPairQuery) (*dto.TransactionRead, error) {
	unlock, err := r.u.enter("Transaction.FindCompanion")
	if err != nil {
		return nil, err
	}
	defer unlock()
	var match *dto.TransactionRead
	for _, t := range r.u.store.transactions {
		if t.ID == q.ExcludeID || t.UserID != q.UserID || t.Type != transaction.Transfer {
			continue
		}
		if t.TransferGroupID != nil || directionOf(t) != q.Direction {
			continue
		}
		if t.AccountID != q.AccountID || t.ToAccountID == nil || *t.ToAccountID != q.ToAccountID {
			continue
		}
		if !t.Date.Equal(q.Date) {
			continue
		}
		if match == nil || t.CreatedAt.Before(match.CreatedAt) {
			match = t
		}
	}
	if match == nil {
		return nil, nil
	}
	c := *match
	return &c, nil
}

func directionOf(t *dto.TransactionRead) transaction.Direction {
	if t.TransferDirection == nil {
		return ""
	}
	return *t.TransferDirection
}

type categoryRepository struct{ u *UoW }

func (r *categoryRepository) Create(_ context.Context, create dto.CategoryCreate) error {
	unlock, err := r.u.enter("Category.Create")
	if err != nil {
		return err
	}
	defer unlock()
	s := r.u.store
	for _, c := range s.categories {
		if c.UserID == create.UserID && c.Name == create.Name {
			return category.ErrDuplicateCategory
		}
	}
	s.categories[create.ID] = &dto.CategoryRead{
		ID:            create.ID,
		UserID:        create.UserID,
		Name:          create.Name,
		IsDefault:     create.IsDefault,
		SubCategories: []dto.SubCategoryRead{},
		CreatedAt:     s.now(),
	}
	return nil
}

func (r *categoryRepository) CreateIfAbsent(ctx context.Context, create dto.CategoryCreate) error {
	err := r.Create(ctx, create)
	if errors.Is(err, category.ErrDuplicateCategory) {
		return nil
	}
	return err
}

func (r *categoryRepository) Get(_ context.Context, id uuid.UUID) (*dto.CategoryRead, error) {
	unlock, err := r.u.enter("Category.Get")
	if err != nil {
		return nil, err
	}
	defer unlock()
	c, ok := r.u.store.categories[id]
	if !ok {
		return nil, category.ErrCategoryNotFound
	}
	return cloneCategory(c), nil
}

func (r *categoryRepository) GetByName(_ context.Context, userID uuid.UUID, name string) (*dto.CategoryRead, error) {
	unlock, err := r.u.enter("Category.GetByName")
	if err != nil {
		return nil, err
	}
	defer unlock()
	for _, c := range r.u.store.categories {
		if c.UserID == userID && c.Name == name {
			return cloneCategory(c), nil
		}
	}
	return nil, category.ErrCategoryNotFound
}

func (r *categoryRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]*dto.CategoryRead, error) {
	unlock, err := r.u.enter("Category.ListByUser")
	if err != nil {
		return nil, err
	}
	defer unlock()
	var out []*dto.CategoryRead
	for _, c := range r.u.store.categories {
		if c.UserID == userID {
			out = append(out, cloneCategory(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *categoryRepository) Rename(_ context.Context, id uuid.UUID, name string) error {
	unlock, err := r.u.enter("Category.Rename")
	if err != nil {
		return err
	}
	defer unlock()
	s := r.u.store
	c, ok := s.categories[id]
	if !ok {
		return category.ErrCategoryNotFound
	}
	for _, other := range s.categories {
		if other.ID != id && other.UserID == c.UserID && other.Name == name {
			return category.ErrDuplicateCategory
		}
	}
	cp := cloneCategory(c)
	cp.Name = name
	s.categories[id] = cp
	return nil
}

func (r *categoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	unlock, err := r.u.enter("Category.Delete")
	if err != nil {
		return err
	}
	defer unlock()
	if _, ok := r.u.store.categories[id]; !ok {
		return category.ErrCategoryNotFound
	}
	delete(r.u.store.categories, id)
	return nil
}

func (r *categoryRepository) AddSubCategory(_ context.Context, categoryID uuid.UUID, create dto.SubCategoryCreate) error {
	unlock, err := r.u.enter("Category.AddSubCategory")
	if err != nil {
		return err
	}
	defer unlock()
	s := r.u.store
	c, ok := s.categories[categoryID]
	if !ok {
		return category.ErrCategoryNotFound
	}
	if c.HasSubCategoryNamed(create.Name, uuid.Nil) {
		return category.ErrDuplicateSubCategory
	}
	cp := cloneCategory(c)
	cp.SubCategories = append(cp.SubCategories, dto.SubCategoryRead{ID: create.ID, Name: create.Name})
	s.categories[categoryID] = cp
	return nil
}

func (r *categoryRepository) RenameSubCategory(_ context.Context, categoryID, subID uuid.UUID, name string) error {
	unlock, err := r.u.enter("Category.RenameSubCategory")
	if err != nil {
		return err
	}
	defer unlock()
	s := r.u.store
	c, ok := s.categories[categoryID]
	if !ok {
		return category.ErrSubCategoryNotFound
	}
	if c.HasSubCategoryNamed(name, subID) {
		return category.ErrDuplicateSubCategory
	}
	cp := cloneCategory(c)
	for i := range cp.SubCategories {
		if cp.SubCategories[i].ID == subID {
			cp.SubCategories[i].Name = name
			s.categories[categoryID] = cp
			return nil
		}
	}
	return category.ErrSubCategoryNotFound
}

func (r *categoryRepository) DeleteSubCategory(_ context.Context, categoryID, subID uuid.UUID) error {
	unlock, err := r.u.enter("Category.DeleteSubCategory")
	if err != nil {
		return err
	}
	defer unlock()
	s := r.u.store
	c, ok := s.categories[categoryID]
	if !ok {
		return category.ErrSubCategoryNotFound
	}
	cp := cloneCategory(c)
	for i := range cp.SubCategories {
		if cp.SubCategories[i].ID == subID {
			cp.SubCategories = append(cp.SubCategories[:i], cp.SubCategories[i+1:]...)
			s.categories[categoryID] = cp
			return nil
		}
	}
	return category.ErrSubCategoryNotFound
}

type userRepository struct{ u *UoW }

func (r *userRepository) Create(_ context.Context, create *dto.UserCreate) error {
	unlock, err := r.u.enter("User.Create")
	if err != nil {
		return err
	}
	defer unlock()
	s := r.u.store
	for _, u := range s.users {
		if u.Email == create.Email {
			return user.ErrEmailTaken
		}
	}
	now := s.now()
	s.users[create.ID] = &dto.UserRead{
		ID:             create.ID,
		Email:          create.Email,
		HashedPassword: create.Password,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return nil
}

func (r *userRepository) Get(_ context.Context, id uuid.UUID) (*dto.UserRead, error) {
	unlock, err := r.u.enter("User.Get")
	if err != nil {
		return nil, err
	}
	defer unlock()
	u, ok := r.u.store.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*dto.UserRead, error) {
	unlock, err := r.u.enter("User.GetByEmail")
	if err != nil {
		return nil, err
	}
	defer unlock()
	for _, u := range r.u.store.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *userRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	unlock, err := r.u.enter("User.ExistsByEmail")
	if err != nil {
		return false, err
	}
	defer unlock()
	for _, u := range r.u.store.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}
