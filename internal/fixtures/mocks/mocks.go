// Package mocks holds testify mocks of the repository interfaces for
// failure-path tests the in-memory store cannot reproduce.
package mocks

import (
	"context"

	"github.com/amirasaad/strides/pkg/dto"
	"github.com/amirasaad/strides/pkg/repository"
	accountrepo "github.com/amirasaad/strides/pkg/repository/account"
	categoryrepo "github.com/amirasaad/strides/pkg/repository/category"
	transactionrepo "github.com/amirasaad/strides/pkg/repository/transaction"
	userrepo "github.com/amirasaad/strides/pkg/repository/user"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockUnitOfWork is a mock of repository.UnitOfWork.
type MockUnitOfWork struct {
	mock.Mock
}

// NewMockUnitOfWork creates a MockUnitOfWork whose expectations are asserted
// when the test ends.
func NewMockUnitOfWork(t testingT) *MockUnitOfWork {
	m := &MockUnitOfWork{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ repository.UnitOfWork = (*MockUnitOfWork)(nil)

// RunInline makes Do call its function with m itself and return its error.
func (m *MockUnitOfWork) RunInline() *mock.Call {
	return m.On("Do", mock.Anything, mock.Anything).Return(
		func(_ context.Context, fn func(repository.UnitOfWork) error) error {
			return fn(m)
		},
	)
}

func (m *MockUnitOfWork) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	args := m.Called(ctx, fn)
	if rf, ok := args.Get(0).(func(context.Context, func(repository.UnitOfWork) error) error); ok {
		return rf(ctx, fn)
	}
	return args.Error(0)
}

func (m *MockUnitOfWork) GetRepository(repoType any) (any, error) {
	args := m.Called(repoType)
	return args.Get(0), args.Error(1)
}

func (m *MockUnitOfWork) AccountRepository() (accountrepo.Repository, error) {
	args := m.Called()
	r, _ := args.Get(0).(accountrepo.Repository)
	return r, args.Error(1)
}

func (m *MockUnitOfWork) TransactionRepository() (transactionrepo.Repository, error) {
	args := m.Called()
	r, _ := args.Get(0).(transactionrepo.Repository)
	return r, args.Error(1)
}

func (m *MockUnitOfWork) CategoryRepository() (categoryrepo.Repository, error) {
	args := m.Called()
	r, _ := args.Get(0).(categoryrepo.Repository)
	return r, args.Error(1)
}

func (m *MockUnitOfWork) UserRepository() (userrepo.Repository, error) {
	args := m.Called()
	r, _ := args.Get(0).(userrepo.Repository)
	return r, args.Error(1)
}

// MockUserRepository is a mock of the user repository.
type MockUserRepository struct {
	mock.Mock
}

// NewMockUserRepository creates a MockUserRepository whose expectations are
// asserted when the test ends.
func NewMockUserRepository(t testingT) *MockUserRepository {
	m := &MockUserRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ userrepo.Repository = (*MockUserRepository)(nil)

func (m *MockUserRepository) Create(ctx context.Context, create *dto.UserCreate) error {
	return m.Called(ctx, create).Error(0)
}

func (m *MockUserRepository) Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*dto.UserRead)
	return u, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*dto.UserRead, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*dto.UserRead)
	return u, args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}
