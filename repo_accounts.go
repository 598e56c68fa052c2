package auth

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

type accounts struct {
	db *bun.DB
}

var _ Accounts = (*accounts)(nil)

// NewAccountsRepository returns an Accounts store backed by bun
func NewAccountsRepository(db *bun.DB) Accounts {
	return &accounts{db: db}
}

// Migrate creates the accounts table if needed
func Migrate(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().
		Model((*Account)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to create accounts table")
	}
	return nil
}

func (r *accounts) FindByUsername(ctx context.Context, username string) (*Account, error) {
	account := new(Account)
	err := r.db.NewSelect().
		Model(account).
		Where("username = ?", username).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to query account")
	}
	return account, nil
}

func (r *accounts) ExistsByUsernameIgnoreCase(ctx context.Context, username string) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*Account)(nil)).
		Where("LOWER(username) = LOWER(?)", username).
		Exists(ctx)
	if err != nil {
		return false, errors.Wrap(err, errors.CategoryInternal, "failed to check username")
	}
	return exists, nil
}

// Save inserts a new account (assigning its id) or updates an existing one.
func (r *accounts) Save(ctx context.Context, account *Account) (*Account, error) {
	if account == nil {
		return nil, errors.New("account must not be nil", errors.CategoryInternal)
	}

	if account.ID == 0 {
		if _, err := r.db.NewInsert().Model(account).Exec(ctx); err != nil {
			return nil, errors.Wrap(err, errors.CategoryConflict, "could not create account")
		}
		return account, nil
	}

	if _, err := r.db.NewUpdate().Model(account).WherePK().Exec(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not update account")
	}
	return account, nil
}
