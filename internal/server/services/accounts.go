// Package services implements the application core: account lifecycle with
// session management, and owner-scoped task operations. Transport glue calls
// in with parsed input and receives typed failures from internal/common.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/annagruz/taskvault/internal/common"
	"github.com/annagruz/taskvault/internal/dbx"
	"github.com/annagruz/taskvault/internal/logging"
	"github.com/annagruz/taskvault/internal/server/auth"
	"github.com/annagruz/taskvault/internal/server/avatars"
	"github.com/annagruz/taskvault/internal/server/credentials"
	"github.com/annagruz/taskvault/internal/server/images"
	"github.com/annagruz/taskvault/internal/server/models"
	"github.com/annagruz/taskvault/internal/server/notifications"
	"github.com/annagruz/taskvault/internal/server/repositories/repomanager"
	"github.com/annagruz/taskvault/internal/server/repositories/sessions"
)

// notifyTimeout bounds a single outbound notification attempt.
const notifyTimeout = 10 * time.Second

// accountUpdatable is the allow-list of account fields a caller may change.
var accountUpdatable = map[string]struct{}{
	"name": {}, "email": {}, "age": {}, "password": {},
}

// CreateAccountInput carries the validated signup fields.
type CreateAccountInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Age      int64  `validate:"gte=0"`
	Password string `validate:"required"`
}

// AccountService owns the account lifecycle: signup, login, profile updates,
// avatar handling, session revocation and cascading deletion.
type AccountService struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	registry sessions.Registry
	hasher   *credentials.Hasher
	tokens   *auth.TokenService
	avatars  avatars.Store
	images   images.Normalizer
	notifier notifications.Notifier
	logger   logging.Logger
	validate *validator.Validate
}

func NewAccountService(
	db *sql.DB,
	repos repomanager.RepositoryManager,
	registry sessions.Registry,
	hasher *credentials.Hasher,
	tokens *auth.TokenService,
	avatarStore avatars.Store,
	normalizer images.Normalizer,
	notifier notifications.Notifier,
	logger logging.Logger,
) *AccountService {
	return &AccountService{
		db:       db,
		repos:    repos,
		registry: registry,
		hasher:   hasher,
		tokens:   tokens,
		avatars:  avatarStore,
		images:   normalizer,
		notifier: notifier,
		logger:   logger.With("component", "accounts"),
		validate: validator.New(),
	}
}

// NormalizeEmail lowercases and trims an address so uniqueness checks are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create validates and persists a new account, hashes its password, issues
// the first session token and registers it. The welcome mail goes out in the
// background and never fails the signup.
func (s *AccountService) Create(ctx context.Context, in CreateAccountInput) (*models.Account, string, error) {
	in.Email = NormalizeEmail(in.Email)
	if err := s.validate.Struct(in); err != nil {
		return nil, "", asValidationError(err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, "", err
	}

	account := &models.Account{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		Age:          in.Age,
		PasswordHash: hash,
	}

	account, err = s.repos.Accounts(s.db).Create(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, "", common.ErrConflict
		}
		s.logger.Error(ctx, "creating account", "err", err)
		return nil, "", common.ErrInternal
	}

	token, err := s.issueSession(ctx, account.ID)
	if err != nil {
		return nil, "", err
	}

	s.notifyAsync("welcome", account.Email, func(ctx context.Context) error {
		return s.notifier.Welcome(ctx, account.Email, account.Name)
	})

	return account, token, nil
}

// Authenticate checks the credentials and, on success, issues and registers
// a fresh session token. Prior sessions stay live: concurrent sessions per
// account are unbounded by design. Unknown email and wrong password produce
// the identical failure.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.Account, string, error) {
	account, err := s.repos.Accounts(s.db).GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", common.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "loading account by email", "err", err)
		return nil, "", common.ErrInternal
	}

	ok, err := s.hasher.Verify(password, account.PasswordHash)
	if err != nil {
		s.logger.Error(ctx, "verifying credential", "err", err)
		return nil, "", common.ErrInternal
	}
	if !ok {
		return nil, "", common.ErrInvalidCredentials
	}

	token, err := s.issueSession(ctx, account.ID)
	if err != nil {
		return nil, "", err
	}
	return account, token, nil
}

// Update applies an allow-listed field delta to the account. Presenting any
// other field name fails the whole update; no partial application. The
// password is re-hashed only when it is actually part of the delta.
func (s *AccountService) Update(ctx context.Context, account *models.Account, fields map[string]any) (*models.Account, error) {
	for name := range fields {
		if _, ok := accountUpdatable[name]; !ok {
			return nil, common.ErrInvalidUpdate
		}
	}

	updated := *account

	if v, ok := fields["name"]; ok {
		name, ok := v.(string)
		if !ok || name == "" {
			return nil, common.NewValidationError("name", "must be a non-empty string")
		}
		updated.Name = name
	}

	if v, ok := fields["email"]; ok {
		email, ok := v.(string)
		if !ok {
			return nil, common.NewValidationError("email", "must be a string")
		}
		email = NormalizeEmail(email)
		if err := s.validate.Var(email, "required,email"); err != nil {
			return nil, common.NewValidationError("email", "must be a valid address")
		}
		updated.Email = email
	}

	if v, ok := fields["age"]; ok {
		age, ok := asInt64(v)
		if !ok || age < 0 {
			return nil, common.NewValidationError("age", "must be a non-negative number")
		}
		updated.Age = age
	}

	if v, ok := fields["password"]; ok {
		password, ok := v.(string)
		if !ok {
			return nil, common.NewValidationError("password", "must be a string")
		}
		hash, err := s.hasher.Hash(password)
		if err != nil {
			return nil, err
		}
		updated.PasswordHash = hash
	}

	if err := s.repos.Accounts(s.db).Update(ctx, &updated); err != nil {
		switch {
		case errors.Is(err, common.ErrConflict), errors.Is(err, common.ErrNotFound):
			return nil, err
		default:
			s.logger.Error(ctx, "updating account", "err", err)
			return nil, common.ErrInternal
		}
	}
	return &updated, nil
}

// Delete removes the account and everything it owns. Tasks go in the same
// transaction as the account row; registry and avatar cleanup afterwards are
// best-effort, since a deleted account can no longer resolve anyway.
func (s *AccountService) Delete(ctx context.Context, account *models.Account) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.Tasks(tx).DeleteByOwner(ctx, account.ID); err != nil {
			return err
		}
		return s.repos.Accounts(tx).Delete(ctx, account.ID)
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		s.logger.Error(ctx, "deleting account", "err", err)
		return common.ErrInternal
	}

	if err := s.registry.RevokeAll(ctx, account.ID); err != nil {
		s.logger.Warn(ctx, "revoking sessions of deleted account", "err", err)
	}
	// The avatar may live outside the database (S3 backend); drop it so the
	// public avatar URL stops serving a deleted account's image.
	if err := s.avatars.Delete(ctx, account.ID); err != nil {
		s.logger.Warn(ctx, "removing avatar of deleted account", "err", err)
	}

	s.notifyAsync("goodbye", account.Email, func(ctx context.Context) error {
		return s.notifier.Goodbye(ctx, account.Email, account.Name)
	})

	return nil
}

// Logout revokes the single session the request authenticated with.
func (s *AccountService) Logout(ctx context.Context, accountID, token string) error {
	if err := s.registry.Revoke(ctx, accountID, token); err != nil {
		s.logger.Error(ctx, "revoking session", "err", err)
		return common.ErrInternal
	}
	return nil
}

// LogoutAll revokes every session of the account.
func (s *AccountService) LogoutAll(ctx context.Context, accountID string) error {
	if err := s.registry.RevokeAll(ctx, accountID); err != nil {
		s.logger.Error(ctx, "revoking all sessions", "err", err)
		return common.ErrInternal
	}
	return nil
}

// SetAvatar normalizes the raw upload and stores it for the account.
func (s *AccountService) SetAvatar(ctx context.Context, accountID string, raw []byte) error {
	normalized, err := s.images.Normalize(raw)
	if err != nil {
		return err
	}
	if err := s.avatars.Put(ctx, accountID, normalized); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		s.logger.Error(ctx, "storing avatar", "err", err)
		return common.ErrInternal
	}
	return nil
}

// GetAvatar returns the stored avatar PNG. Readable without authentication.
func (s *AccountService) GetAvatar(ctx context.Context, accountID string) ([]byte, error) {
	data, err := s.avatars.Get(ctx, accountID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		s.logger.Error(ctx, "loading avatar", "err", err)
		return nil, common.ErrInternal
	}
	return data, nil
}

// RemoveAvatar drops the account's avatar if present.
func (s *AccountService) RemoveAvatar(ctx context.Context, accountID string) error {
	if err := s.avatars.Delete(ctx, accountID); err != nil {
		s.logger.Error(ctx, "removing avatar", "err", err)
		return common.ErrInternal
	}
	return nil
}

func (s *AccountService) issueSession(ctx context.Context, accountID string) (string, error) {
	token, err := s.tokens.Issue(accountID)
	if err != nil {
		s.logger.Error(ctx, "issuing token", "err", err)
		return "", common.ErrInternal
	}
	if err := s.registry.Add(ctx, accountID, token); err != nil {
		s.logger.Error(ctx, "registering session", "err", err)
		return "", common.ErrInternal
	}
	return token, nil
}

func (s *AccountService) notifyAsync(kind, email string, fn func(context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			s.logger.Warn(ctx, "notification failed", "kind", kind, "email", email, "err", err)
		}
	}()
}

// asValidationError converts the first validator.v10 field error into the
// shared ValidationError shape.
func asValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return common.NewValidationError(strings.ToLower(fe.Field()), fmt.Sprintf("failed %q validation", fe.Tag()))
	}
	return common.NewValidationError("input", "is invalid")
}

// asInt64 accepts the numeric shapes a JSON body or typed caller can supply.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		if n != float64(int64(n)) {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}
