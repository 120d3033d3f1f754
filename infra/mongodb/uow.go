// Package mongodb implements the repositories and the unit of work on
// MongoDB. A unit of work is a multi-document session transaction, which
// requires a replica set.
package mongodb

import (
	"context"
	"fmt"
	"reflect"

	"github.com/amirasaad/strides/pkg/repository"
	"github.com/amirasaad/strides/pkg/repository/account"
	"github.com/amirasaad/strides/pkg/repository/category"
	"github.com/amirasaad/strides/pkg/repository/transaction"
	"github.com/amirasaad/strides/pkg/repository/user"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// store is what a repository needs: the database and, inside Do, the
// session every operation must join.
type store struct {
	db   *mongo.Database
	sess mongo.Session
}

// ctx binds ctx to the session of the surrounding unit of work.
func (s store) ctx(ctx context.Context) context.Context {
	if s.sess == nil {
		return ctx
	}
	return mongo.NewSessionContext(ctx, s.sess)
}

func (s store) coll(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// UoW provides transaction boundary and repository access on MongoDB.
type UoW struct {
	client       *mongo.Client
	db           *mongo.Database
	sess         mongo.Session
	repoRegistry map[reflect.Type]func(store) any
}

// NewUoW creates a UoW over database dbName.
func NewUoW(client *mongo.Client, dbName string) *UoW {
	return &UoW{
		client: client,
		db:     client.Database(dbName),
		repoRegistry: map[reflect.Type]func(store) any{
			reflect.TypeOf((*account.Repository)(nil)).Elem():     func(s store) any { return NewAccountRepository(s) },
			reflect.TypeOf((*transaction.Repository)(nil)).Elem(): func(s store) any { return NewTransactionRepository(s) },
			reflect.TypeOf((*category.Repository)(nil)).Elem():    func(s store) any { return NewCategoryRepository(s) },
			reflect.TypeOf((*user.Repository)(nil)).Elem():        func(s store) any { return NewUserRepository(s) },
		},
	}
}

var _ repository.UnitOfWork = (*UoW)(nil)

// Do runs fn in a session transaction with majority read and write
// concerns. The driver retries fn on transient transaction errors. A Do
// nested inside another joins the outer transaction.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if u.sess != nil {
		return fn(u)
	}
	sess, err := u.client.StartSession()
	if err != nil {
		return mapMongoError(err)
	}
	defer sess.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())
	_, err = sess.WithTransaction(ctx, func(mongo.SessionContext) (any, error) {
		txnUow := &UoW{client: u.client, db: u.db, sess: sess, repoRegistry: u.repoRegistry}
		return nil, fn(txnUow)
	}, txnOpts)
	return err
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
	return constructor(store{db: u.db, sess: u.sess}), nil
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
