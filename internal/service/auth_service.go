package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"freelancehub/internal/auth"
	apperrors "freelancehub/internal/errors"
	"freelancehub/internal/model"
	"freelancehub/internal/repository"
)

const bcryptCost = 10

// dummyPasswordHash is compared against when no account matches, so unknown
// usernames cost the same bcrypt work as wrong passwords.
var dummyPasswordHash, _ = bcrypt.GenerateFromPassword([]byte("freelancehub-no-such-account"), bcryptCost)

// RegisterInput carries the fields accepted at sign-up.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
	FirstName       string
	LastName        string
}

// AuthResult is the account together with a freshly issued token pair.
type AuthResult struct {
	Account      *model.Account
	AccessToken  auth.IssuedToken
	RefreshToken auth.IssuedToken
}

// AuthService handles registration and the token lifecycle.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, identifier, password string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (auth.IssuedToken, error)
	Logout(ctx context.Context, caller auth.Caller, refreshToken string) error
}

type authService struct {
	tx         repository.Transactor
	accounts   repository.AccountRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	now        func() time.Time
	compare    func(hash, password []byte) error
}

// NewAuthService creates a new authentication service.
func NewAuthService(tx repository.Transactor, accounts repository.AccountRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		tx:         tx,
		accounts:   accounts,
		jwtService: jwtService,
		tokenStore: tokenStore,
		now:        time.Now,
		compare:    bcrypt.CompareHashAndPassword,
	}
}

// Register validates the sign-up payload, then creates the account and its
// empty profile in one transaction and logs the new account in.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	v := apperrors.NewValidationError()
	validateUsername(v, in.Username)
	validateEmail(v, in.Email)
	validatePassword(v, in.Password, in.Username)
	if in.PasswordConfirm != in.Password {
		v.Add("password_confirm", msgPasswordsDiffer)
	}
	validateName(v, "first_name", &in.FirstName)
	validateName(v, "last_name", &in.LastName)

	if !v.Has("username") {
		taken, err := s.accounts.ExistsByUsername(ctx, in.Username)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if taken {
			v.Add("username", msgUsernameTaken)
		}
	}
	if !v.Has("email") {
		taken, err := s.accounts.ExistsByEmail(ctx, in.Email)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if taken {
			v.Add("email", msgEmailTaken)
		}
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &model.Account{
		ID:           uuid.New(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hashedPassword),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		IsActive:     true,
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := repos.Accounts.Create(ctx, account); err != nil {
			return err
		}
		return repos.Profiles.Create(ctx, model.NewProfile(account.ID))
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.duplicateError(ctx, account)
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	return s.issueTokens(ctx, account)
}

// duplicateError attributes a unique-constraint race to the field that lost it.
func (s *authService) duplicateError(ctx context.Context, account *model.Account) error {
	if taken, err := s.accounts.ExistsByEmail(ctx, account.Email); err == nil && taken {
		return apperrors.FieldError("email", msgEmailTaken)
	}
	return apperrors.FieldError("username", msgUsernameTaken)
}

// Login authenticates by username, or by email when the identifier contains "@".
// Every failure yields ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	var (
		account *model.Account
		err     error
	)
	if strings.Contains(identifier, "@") {
		account, err = s.accounts.FindByEmail(ctx, strings.ToLower(identifier))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			account, err = s.accounts.FindByUsername(ctx, identifier)
		}
	} else {
		account, err = s.accounts.FindByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = s.compare(dummyPasswordHash, []byte(password))
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	if err := s.compare([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !account.IsActive {
		return nil, apperrors.ErrInvalidCredentials
	}

	now := s.now()
	if err := s.accounts.TouchLastLogin(ctx, account.ID, now); err != nil {
		slog.WarnContext(ctx, "record last login", "account_id", account.ID, "error", err)
	} else {
		account.LastLoginAt = &now
	}

	return s.issueTokens(ctx, account)
}

func (s *authService) issueTokens(ctx context.Context, account *model.Account) (*AuthResult, error) {
	access, err := s.jwtService.GenerateAccessToken(account.ID, account.Username)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, err := s.jwtService.GenerateRefreshToken(account.ID, account.Username)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	if err := s.tokenStore.StoreRefreshToken(ctx, refresh.ID, account.ID, s.jwtService.RefreshTTL()); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &AuthResult{Account: account, AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a live refresh token for a new access token.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (auth.IssuedToken, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return auth.IssuedToken{}, apperrors.ErrInvalidToken
	}
	accountID, err := claims.AccountUUID()
	if err != nil {
		return auth.IssuedToken{}, apperrors.ErrInvalidToken
	}

	storedID, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil || storedID != accountID {
		return auth.IssuedToken{}, apperrors.ErrInvalidToken
	}

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return auth.IssuedToken{}, apperrors.ErrInvalidToken
		}
		return auth.IssuedToken{}, fmt.Errorf("find account: %w", err)
	}
	if !account.IsActive {
		return auth.IssuedToken{}, apperrors.ErrInvalidToken
	}

	access, err := s.jwtService.GenerateAccessToken(account.ID, account.Username)
	if err != nil {
		return auth.IssuedToken{}, fmt.Errorf("generate access token: %w", err)
	}
	return access, nil
}

// Logout revokes the caller's access token until it expires and, when given,
// the refresh token belonging to the same account. Foreign or malformed refresh
// tokens are ignored.
func (s *authService) Logout(ctx context.Context, caller auth.Caller, refreshToken string) error {
	if caller.TokenID != "" {
		ttl := caller.ExpiresAt.Sub(s.now())
		if err := s.tokenStore.BlacklistAccessToken(ctx, caller.TokenID, ttl); err != nil {
			return fmt.Errorf("blacklist access token: %w", err)
		}
	}

	if refreshToken == "" {
		return nil
	}
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil
	}
	if id, err := claims.AccountUUID(); err != nil || id != caller.AccountID {
		return nil
	}
	if err := s.tokenStore.DeleteRefreshToken(ctx, claims.ID); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}
