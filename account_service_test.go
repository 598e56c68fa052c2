package auth_test

import (
	"context"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	auth "github.com/goliatone/go-tokenauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestAccountService(store auth.Accounts) (*auth.AccountService, *auth.TokenServiceImpl) {
	tokens := newTestTokenService()
	service := auth.NewAccountService(store, auth.BcryptHasher{Cost: 4}, tokens)
	return service, tokens
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates account with default role and issues pair", func(t *testing.T) {
		var saved *auth.Account

		store := &MockAccounts{}
		store.On("ExistsByUsernameIgnoreCase", ctx, "alice1").Return(false, nil)
		store.On("Save", ctx, mock.AnythingOfType("*auth.Account")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(*auth.Account)
				saved.ID = 1
			}).
			Return(nil, nil)

		service, tokens := newTestAccountService(store)

		result, err := service.Register(ctx, auth.RegistrationRequest{
			Username:   "alice1",
			Password:   "secret123",
			PasswordRe: "secret123",
		})
		require.NoError(t, err)

		assert.Equal(t, "alice1", result.Identity.Username())
		assert.Equal(t, []string{auth.RoleUser}, result.Identity.Roles())
		assert.False(t, result.Identity.HasRole(auth.RoleModerator))

		claims, err := tokens.Decode(result.Token)
		require.NoError(t, err)
		assert.Equal(t, "alice1", claims.Subject())
		assert.Equal(t, []string{auth.RoleUser}, claims.RoleList())

		refreshClaims, err := tokens.Decode(result.RefreshToken)
		require.NoError(t, err)
		assert.True(t, refreshClaims.IsRefresh())

		require.NotNil(t, saved)
		assert.Equal(t, []string{auth.RoleUser}, saved.Roles)
		assert.NotEqual(t, "secret123", saved.PasswordHash, "plaintext must never be stored")
		assert.NoError(t, auth.ComparePasswordAndHash("secret123", saved.PasswordHash))
	})

	t.Run("password mismatch fails validation without store mutation", func(t *testing.T) {
		store := &MockAccounts{}
		service, _ := newTestAccountService(store)

		_, err := service.Register(ctx, auth.RegistrationRequest{
			Username:   "alice1",
			Password:   "secret123",
			PasswordRe: "different",
		})
		require.Error(t, err)

		var verrs validation.Errors
		require.ErrorAs(t, err, &verrs)
		assert.Contains(t, verrs["passwordRe"].Error(), "Passwords don't match!")

		store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "ExistsByUsernameIgnoreCase", mock.Anything, mock.Anything)
	})

	t.Run("username length constraints", func(t *testing.T) {
		store := &MockAccounts{}
		service, _ := newTestAccountService(store)

		for _, username := range []string{"", "abcd", "sixteen-chars-xx"} {
			_, err := service.Register(ctx, auth.RegistrationRequest{
				Username:   username,
				Password:   "secret123",
				PasswordRe: "secret123",
			})
			assert.Error(t, err, "username %q", username)
		}

		store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("case-insensitive duplicate fails with ErrUsernameTaken", func(t *testing.T) {
		store := &MockAccounts{}
		store.On("ExistsByUsernameIgnoreCase", ctx, "ALICE1").Return(true, nil)

		service, _ := newTestAccountService(store)

		_, err := service.Register(ctx, auth.RegistrationRequest{
			Username:   "ALICE1",
			Password:   "secret123",
			PasswordRe: "secret123",
		})
		assert.ErrorIs(t, err, auth.ErrUsernameTaken)

		store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	hasher := auth.BcryptHasher{Cost: 4}

	hash, err := hasher.HashPassword("secret123")
	require.NoError(t, err)

	account := &auth.Account{
		ID:           1,
		Username:     "alice1",
		PasswordHash: hash,
		Roles:        []string{auth.RoleUser},
	}

	t.Run("valid credentials issue fresh pair", func(t *testing.T) {
		store := &MockAccounts{}
		store.On("FindByUsername", ctx, "alice1").Return(account, nil)

		service, tokens := newTestAccountService(store)

		result, err := service.Authenticate(ctx, auth.AuthenticationRequest{
			Username: "alice1",
			Password: "secret123",
		})
		require.NoError(t, err)

		assert.Equal(t, "alice1", result.Identity.Username())

		claims, err := tokens.Decode(result.Token)
		require.NoError(t, err)
		assert.Equal(t, []string{auth.RoleUser}, claims.RoleList())
	})

	t.Run("wrong password and unknown user fail identically", func(t *testing.T) {
		store := &MockAccounts{}
		store.On("FindByUsername", ctx, "alice1").Return(account, nil)
		store.On("FindByUsername", ctx, "nobody1").Return(nil, auth.ErrAccountNotFound)

		service, _ := newTestAccountService(store)

		_, errWrongPassword := service.Authenticate(ctx, auth.AuthenticationRequest{
			Username: "alice1",
			Password: "not-the-password",
		})
		_, errUnknownUser := service.Authenticate(ctx, auth.AuthenticationRequest{
			Username: "nobody1",
			Password: "secret123",
		})

		assert.ErrorIs(t, errWrongPassword, auth.ErrMismatchedHashAndPassword)
		assert.ErrorIs(t, errUnknownUser, auth.ErrMismatchedHashAndPassword)
		assert.Equal(t, errWrongPassword, errUnknownUser)
	})

	t.Run("blank payload fails validation", func(t *testing.T) {
		store := &MockAccounts{}
		service, _ := newTestAccountService(store)

		_, err := service.Authenticate(ctx, auth.AuthenticationRequest{})
		assert.Error(t, err)
		store.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	account := &auth.Account{
		ID:           1,
		Username:     "alice1",
		PasswordHash: "irrelevant",
		Roles:        []string{auth.RoleUser},
	}

	t.Run("rotates the pair using current roles", func(t *testing.T) {
		store := &MockAccounts{}
		service, tokens := newTestAccountService(store)

		refreshToken, err := tokens.IssueRefreshToken("alice1")
		require.NoError(t, err)

		// roles changed since the refresh token was issued
		promoted := &auth.Account{
			ID:           1,
			Username:     "alice1",
			PasswordHash: "irrelevant",
			Roles:        []string{auth.RoleUser, auth.RoleModerator},
		}
		store.On("FindByUsername", ctx, "alice1").Return(promoted, nil)

		result, err := service.Refresh(ctx, auth.RefreshTokenRequest{Token: refreshToken})
		require.NoError(t, err)

		claims, err := tokens.Decode(result.Token)
		require.NoError(t, err)
		assert.Equal(t, []string{auth.RoleUser, auth.RoleModerator}, claims.RoleList(),
			"new access token must carry the stored roles, not the old claim set")

		assert.NotEqual(t, refreshToken, result.RefreshToken, "refresh token must rotate")
		rotated, err := tokens.Decode(result.RefreshToken)
		require.NoError(t, err)
		assert.True(t, rotated.IsRefresh())
	})

	t.Run("access token presented as refresh token is rejected", func(t *testing.T) {
		store := &MockAccounts{}
		service, tokens := newTestAccountService(store)

		accessToken, err := tokens.IssueAccessToken(auth.NewIdentityFromAccount(account))
		require.NoError(t, err)

		_, err = service.Refresh(ctx, auth.RefreshTokenRequest{Token: accessToken})
		assert.ErrorIs(t, err, auth.ErrRefreshRejected)
		store.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)
	})

	t.Run("expired refresh token is rejected", func(t *testing.T) {
		store := &MockAccounts{}
		past := time.Now().Add(-800 * time.Hour)
		stale := newTestTokenService().WithClock(func() time.Time { return past })

		refreshToken, err := stale.IssueRefreshToken("alice1")
		require.NoError(t, err)

		service, _ := newTestAccountService(store)

		_, err = service.Refresh(ctx, auth.RefreshTokenRequest{Token: refreshToken})
		assert.ErrorIs(t, err, auth.ErrTokenExpired)
	})

	t.Run("refresh for deleted account is rejected", func(t *testing.T) {
		store := &MockAccounts{}
		store.On("FindByUsername", ctx, "alice1").Return(nil, auth.ErrAccountNotFound)

		service, tokens := newTestAccountService(store)

		refreshToken, err := tokens.IssueRefreshToken("alice1")
		require.NoError(t, err)

		_, err = service.Refresh(ctx, auth.RefreshTokenRequest{Token: refreshToken})
		assert.ErrorIs(t, err, auth.ErrRefreshRejected)
	})

	t.Run("malformed token is rejected", func(t *testing.T) {
		store := &MockAccounts{}
		service, _ := newTestAccountService(store)

		_, err := service.Refresh(ctx, auth.RefreshTokenRequest{Token: "garbage"})
		assert.Error(t, err)
		assert.True(t, auth.IsMalformedError(err))
	})

	t.Run("empty token fails validation", func(t *testing.T) {
		store := &MockAccounts{}
		service, _ := newTestAccountService(store)

		_, err := service.Refresh(ctx, auth.RefreshTokenRequest{})
		var verrs validation.Errors
		assert.ErrorAs(t, err, &verrs)
	})
}
