package auth

import (
	"context"
	stderrors "errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
)

// RegistrationRequest is the register payload
type RegistrationRequest struct {
	Username   string `json:"username" form:"username"`
	Password   string `json:"password" form:"password"`
	PasswordRe string `json:"passwordRe" form:"passwordRe"`
}

// Validate will run validation rules
func (r RegistrationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Username,
			validation.Required.Error("Username cannot be empty"),
			validation.Length(5, 15).Error("Username length must be between 5 and 15"),
		),
		validation.Field(
			&r.Password,
			validation.Required.Error("Password cannot be empty"),
		),
		validation.Field(
			&r.PasswordRe,
			validation.By(ValidateStringEquals(r.Password, "Passwords don't match!")),
		),
	)
}

// AuthenticationRequest is the login payload
type AuthenticationRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Validate will run validation rules
func (r AuthenticationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required.Error("Username cannot be empty")),
		validation.Field(&r.Password, validation.Required.Error("Password cannot be empty")),
	)
}

// RefreshTokenRequest carries the refresh token to exchange
type RefreshTokenRequest struct {
	Token string `json:"token" form:"token"`
}

// Validate will run validation rules
func (r RefreshTokenRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required.Error("Refresh token cannot be empty!")),
	)
}

// ValidateStringEquals builds a rule that fails with message unless the
// value equals str.
func ValidateStringEquals(str, message string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return stderrors.New(message)
		}
		return nil
	}
}

// AuthenticationResult is what register/authenticate/refresh hand back: the
// resolved identity plus a fresh access/refresh token pair.
type AuthenticationResult struct {
	Identity     Identity
	Token        string
	RefreshToken string
}

// AccountService orchestrates registration, credential verification, and
// token issuance. Collaborators are explicit; there is no shared mutable
// state, so a single instance serves concurrent requests.
type AccountService struct {
	store  Accounts
	hasher PasswordAuthenticator
	tokens TokenService
	logger Logger
}

// NewAccountService will create a new AccountService
func NewAccountService(store Accounts, hasher PasswordAuthenticator, tokens TokenService) *AccountService {
	return &AccountService{
		store:  store,
		hasher: hasher,
		tokens: tokens,
		logger: defLogger{},
	}
}

func (s *AccountService) WithLogger(l Logger) *AccountService {
	if l != nil {
		s.logger = l
	}
	return s
}

// Register validates the payload, enforces case-insensitive username
// uniqueness, persists the new account with the default role, and issues a
// token pair. Nothing is written when validation fails.
func (s *AccountService) Register(ctx context.Context, req RegistrationRequest) (*AuthenticationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.store.ExistsByUsernameIgnoreCase(ctx, req.Username)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check username availability")
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	hash, err := s.hasher.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	account := &Account{
		Username:     req.Username,
		PasswordHash: hash,
		Roles:        []string{RoleUser},
	}

	if account, err = s.store.Save(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("registered new account", "username", account.Username)

	return s.issuePair(NewIdentityFromAccount(account))
}

// Authenticate verifies the credentials and issues a fresh token pair bound
// to the account's current role set. Unknown usernames and wrong passwords
// fail identically.
func (s *AccountService) Authenticate(ctx context.Context, req AuthenticationRequest) (*AuthenticationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	account, err := s.store.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, err
	}

	if err := s.hasher.ComparePasswordAndHash(req.Password, account.PasswordHash); err != nil {
		s.logger.Warn("failed login attempt", "username", req.Username)
		return nil, ErrMismatchedHashAndPassword
	}

	return s.issuePair(NewIdentityFromAccount(account))
}

// Refresh exchanges a valid refresh token for a new pair, rotating the
// refresh token. Roles are re-read from the store; the refresh token itself
// carries none, which invalidates stale role claims on rotation.
func (s *AccountService) Refresh(ctx context.Context, req RefreshTokenRequest) (*AuthenticationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	claims, err := s.tokens.Decode(req.Token)
	if err != nil {
		return nil, err
	}

	if !claims.IsRefresh() {
		s.logger.Warn("access token presented to refresh flow", "subject", claims.Subject())
		return nil, ErrRefreshRejected
	}

	if s.tokens.IsExpired(claims) {
		return nil, ErrTokenExpired
	}

	account, err := s.store.FindByUsername(ctx, claims.Subject())
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrRefreshRejected
		}
		return nil, err
	}

	return s.issuePair(NewIdentityFromAccount(account))
}

func (s *AccountService) issuePair(identity Identity) (*AuthenticationResult, error) {
	token, err := s.tokens.IssueAccessToken(identity)
	if err != nil {
		return nil, err
	}

	refresh, err := s.tokens.IssueRefreshToken(identity.Username())
	if err != nil {
		return nil, err
	}

	return &AuthenticationResult{
		Identity:     identity,
		Token:        token,
		RefreshToken: refresh,
	}, nil
}
