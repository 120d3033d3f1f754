package repository

import (
	"context"

	"github.com/amirasaad/strides/pkg/repository/account"
	"github.com/amirasaad/strides/pkg/repository/category"
	"github.com/amirasaad/strides/pkg/repository/transaction"
	"github.com/amirasaad/strides/pkg/repository/user"
)

// UnitOfWork defines the contract for transactional work and repository
// access. Every repository handed out inside Do shares the same storage
// session, so all writes of fn commit or roll back together.
//
//	repoAny, err := uow.GetRepository((*account.Repository)(nil))
//	repo := repoAny.(account.Repository)
type UnitOfWork interface {
	// Do executes fn within a transaction boundary. If fn returns an error,
	// the transaction is rolled back and the error is returned unchanged.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// GetRepository returns the repository whose interface type is pointed
	// to by repoType, bound to the current session.
	GetRepository(repoType any) (any, error)

	AccountRepository() (account.Repository, error)
	TransactionRepository() (transaction.Repository, error)
	CategoryRepository() (category.Repository, error)
	UserRepository() (user.Repository, error)
}
