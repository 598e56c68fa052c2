package auth_test

import (
	"context"

	auth "github.com/goliatone/go-tokenauth"
	"github.com/stretchr/testify/mock"
)

// MockAccounts implements auth.Accounts
type MockAccounts struct {
	mock.Mock
}

func (m *MockAccounts) FindByUsername(ctx context.Context, username string) (*auth.Account, error) {
	args := m.Called(ctx, username)
	var account *auth.Account
	if v := args.Get(0); v != nil {
		account = v.(*auth.Account)
	}
	return account, args.Error(1)
}

func (m *MockAccounts) ExistsByUsernameIgnoreCase(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccounts) Save(ctx context.Context, account *auth.Account) (*auth.Account, error) {
	args := m.Called(ctx, account)
	if v := args.Get(0); v != nil {
		return v.(*auth.Account), args.Error(1)
	}
	// a nil configured return echoes the input, mirroring the
	// save-and-return contract of the real repository
	return account, args.Error(1)
}

// MockLogger implements auth.Logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}
