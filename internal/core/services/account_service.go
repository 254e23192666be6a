package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/fintech_ledger/internal/apperrors"
	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/fintech_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fintech_ledger/internal/core/ports/services"
	"github.com/SscSPs/fintech_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepository
	txRepo      portsrepo.TransactionReader
	maxRetries  int
	now         func() time.Time
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithAccountRetries sets how often a version conflict on metadata writes is retried.
func WithAccountRetries(maxRetries int) AccountServiceOption {
	return func(s *accountService) {
		if maxRetries >= 0 {
			s.maxRetries = maxRetries
		}
	}
}

// WithAccountClock overrides the time source.
func WithAccountClock(now func() time.Time) AccountServiceOption {
	return func(s *accountService) {
		s.now = now
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(accountRepo portsrepo.AccountRepository, txRepo portsrepo.TransactionReader, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: accountRepo,
		txRepo:      txRepo,
		maxRetries:  DefaultMaxBalanceRetries,
		now:         func() time.Time { return time.Now().UTC() },
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, ownerID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner id is required", apperrors.ErrValidation)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: account name is required", apperrors.ErrValidation)
	}
	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}
	currency, ok := domain.ParseCurrency(string(req.Currency))
	if !ok {
		return nil, fmt.Errorf("%w: unknown currency %q", apperrors.ErrValidation, req.Currency)
	}

	now := s.now()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		OwnerID:     ownerID,
		Name:        name,
		AccountType: req.AccountType,
		Balance:     decimal.Zero,
		Currency:    currency,
		Version:     1,
		Timestamps:  domain.Timestamps{CreatedAt: now, UpdatedAt: now},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account in repository", slog.String("account_id", account.AccountID))
		return nil, apperrors.StoreFailure("save account", err)
	}

	s.LogInfo(ctx, "Account created successfully in service", slog.String("account_id", account.AccountID))
	return &account, nil
}

func (s *accountService) GetAccount(ctx context.Context, ownerID, accountID string) (*domain.Account, error) {
	if ownerID == "" || accountID == "" {
		return nil, nil
	}
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		// Note: Don't log if error is ErrNotFound, as it's an expected outcome
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		s.LogError(ctx, err, "Failed to find account by ID in repository", slog.String("account_id", accountID))
		return nil, apperrors.StoreFailure("find account", err)
	}
	if !account.OwnedBy(ownerID) {
		return nil, nil
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, ownerID string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccountsByOwner(ctx, ownerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts from repository", slog.String("owner_id", ownerID))
		return nil, apperrors.StoreFailure("list accounts", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	s.LogDebug(ctx, "Accounts listed successfully from service", slog.Int("count", len(accounts)))
	return accounts, nil
}

func (s *accountService) AccountExists(ctx context.Context, ownerID, accountID string) (bool, error) {
	account, err := s.GetAccount(ctx, ownerID, accountID)
	return account != nil, err
}

func (s *accountService) UpdateAccount(ctx context.Context, ownerID, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, fmt.Errorf("%w: account name cannot be empty", apperrors.ErrValidation)
	}
	if req.AccountType != nil && !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, *req.AccountType)
	}

	// Balance writes bump the version too, so a lost race here is retried
	// against the fresh record.
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		account, err := s.GetAccount(ctx, ownerID, accountID)
		if err != nil || account == nil {
			return nil, err
		}

		if req.Name != nil {
			account.Name = strings.TrimSpace(*req.Name)
		}
		if req.AccountType != nil {
			account.AccountType = *req.AccountType
		}
		account.UpdatedAt = s.now()

		err = s.accountRepo.UpdateAccountDetails(ctx, *account, account.Version)
		switch {
		case err == nil:
			account.Version++
			s.LogInfo(ctx, "Account updated successfully in service", slog.String("account_id", accountID))
			return account, nil
		case errors.Is(err, apperrors.ErrNotFound):
			return nil, nil
		case !errors.Is(err, apperrors.ErrVersionConflict):
			s.LogError(ctx, err, "Failed to update account in repository", slog.String("account_id", accountID))
			return nil, apperrors.StoreFailure("update account", err)
		}
	}
	return nil, fmt.Errorf("%w: account %s kept changing", apperrors.ErrConflict, accountID)
}

// DeleteAccount refuses while transactions reference the account.
func (s *accountService) DeleteAccount(ctx context.Context, ownerID, accountID string) (bool, error) {
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		account, err := s.GetAccount(ctx, ownerID, accountID)
		if err != nil || account == nil {
			return false, err
		}

		n, err := s.txRepo.CountByAccount(ctx, accountID)
		if err != nil {
			return false, apperrors.StoreFailure("count account transactions", err)
		}
		if n > 0 {
			return false, fmt.Errorf("%w (%d transactions)", apperrors.ErrAccountInUse, n)
		}

		err = s.accountRepo.DeleteAccount(ctx, accountID, account.Version)
		switch {
		case err == nil:
			s.LogInfo(ctx, "Account deleted successfully in service", slog.String("account_id", accountID))
			return true, nil
		case errors.Is(err, apperrors.ErrNotFound):
			return false, nil
		case errors.Is(err, apperrors.ErrAccountInUse):
			return false, err
		case !errors.Is(err, apperrors.ErrVersionConflict):
			s.LogError(ctx, err, "Failed to delete account in repository", slog.String("account_id", accountID))
			return false, apperrors.StoreFailure("delete account", err)
		}
	}
	return false, fmt.Errorf("%w: account %s kept changing", apperrors.ErrConflict, accountID)
}
