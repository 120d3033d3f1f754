package repository

import (
	"context"
	"fmt"
	"reflect"

	"github.com/amirasaad/strides/pkg/repository"
	"github.com/amirasaad/strides/pkg/repository/account"
	"github.com/amirasaad/strides/pkg/repository/category"
	"github.com/amirasaad/strides/pkg/repository/transaction"
	"github.com/amirasaad/strides/pkg/repository/user"
	"gorm.io/gorm"
)

// UoW provides transaction boundary and repository access in one abstraction.
// Repositories obtained inside Do share the transaction session, outside Do
// they use the plain connection pool.
type UoW struct {
	db           *gorm.DB
	tx           *gorm.DB
	repoRegistry map[reflect.Type]func(*gorm.DB) any
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{
		db: db,
		repoRegistry: map[reflect.Type]func(*gorm.DB) any{
			reflect.TypeOf((*account.Repository)(nil)).Elem():     func(db *gorm.DB) any { return NewAccountRepository(db) },
			reflect.TypeOf((*transaction.Repository)(nil)).Elem(): func(db *gorm.DB) any { return NewTransactionRepository(db) },
			reflect.TypeOf((*category.Repository)(nil)).Elem():    func(db *gorm.DB) any { return NewCategoryRepository(db) },
			reflect.TypeOf((*user.Repository)(nil)).Elem():        func(db *gorm.DB) any { return NewUserRepository(db) },
		},
	}
}

var _ repository.UnitOfWork = (*UoW)(nil)

// Do runs fn in a database transaction. A Do nested inside another joins
// the outer transaction.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if u.tx != nil {
		return fn(u)
	}
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txnUow := &UoW{db: u.db, tx: tx, repoRegistry: u.repoRegistry}
		return fn(txnUow)
	})
}

// GetRepository returns the repository registered for the interface that
// repoType points to, e.g. (*account.Repository)(nil).
func (u *UoW) GetRepository(repoType any) (any, error) {
	t := reflect.TypeOf(repoType)
	if t == nil || t.Kind() != reflect.Ptr {
		return nil, fmt.Errorf("repository type must be a pointer to an interface, got %v", t)
	}
	constructor, ok := u.repoRegistry[t.Elem()]
	if !ok {
		return nil, fmt.Errorf("unsupported repository type: %v", t.Elem())
	}
	return constructor(u.session()), nil
}

func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

// AccountRepository returns the account repository for the current session.
func (u *UoW) AccountRepository() (account.Repository, error) {
	return getTyped[account.Repository](u)
}

// TransactionRepository returns the transaction repository for the current session.
func (u *UoW) TransactionRepository() (transaction.Repository, error) {
	return getTyped[transaction.Repository](u)
}

// CategoryRepository returns the category repository for the current session.
func (u *UoW) CategoryRepository() (category.Repository, error) {
	return getTyped[category.Repository](u)
}

// UserRepository returns the user repository for the current session.
func (u *UoW) UserRepository() (user.Repository, error) {
	return getTyped[user.Repository](u)
}

func getTyped[T any](u repository.UnitOfWork) (T, error) {
	var zero T
	repoAny, err := u.GetRepository((*T)(nil))
	if err != nil {
		return zero, err
	}
	repo, ok := repoAny.(T)
	if !ok {
		return zero, fmt.Errorf("repository has unexpected type %T", repoAny)
	}
	return repo, nil
}
