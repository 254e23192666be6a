package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/SscSPs/fintech_ledger/internal/apperrors"
	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/fintech_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fintech_ledger/internal/core/ports/services"
	"github.com/SscSPs/fintech_ledger/internal/utils"
	"github.com/SscSPs/fintech_ledger/internal/utils/accounting"
	"github.com/SscSPs/fintech_ledger/internal/utils/pagination"
	"github.com/SscSPs/fintech_ledger/internal/utils/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultMaxBalanceRetries = 5
	DefaultRetryBackoff      = 10 * time.Millisecond
)

// Operation names reported in partial failures.
const (
	OpCreate    = "create"
	OpUpdate    = "update"
	OpDelete    = "delete"
	OpReconcile = "reconcile"
)

// ledgerService implements the LedgerSvcFacade interface
type ledgerService struct {
	BaseService
	accountRepo portsrepo.AccountRepository
	txRepo      portsrepo.TransactionRepository
	maxRetries  int
	backoff     time.Duration
	now         func() time.Time
	newID       func() string
}

// LedgerServiceOption is a functional option for configuring the ledger service
type LedgerServiceOption func(*ledgerService)

// WithLedgerEvents sets the publisher that receives balance change events.
func WithLedgerEvents(publisher portssvc.LedgerEventPublisher) LedgerServiceOption {
	return func(s *ledgerService) {
		s.Events = publisher
	}
}

// WithBalanceRetries sets how many times a lost balance race is retried and
// the base of the jittered pause between attempts.
func WithBalanceRetries(maxRetries int, backoff time.Duration) LedgerServiceOption {
	return func(s *ledgerService) {
		if maxRetries >= 0 {
			s.maxRetries = maxRetries
		}
		if backoff >= 0 {
			s.backoff = backoff
		}
	}
}

// WithLedgerClock overrides the time source.
func WithLedgerClock(now func() time.Time) LedgerServiceOption {
	return func(s *ledgerService) {
		s.now = now
	}
}

// NewLedgerService creates a new ledger service with the provided options
func NewLedgerService(accountRepo portsrepo.AccountRepository, txRepo portsrepo.TransactionRepository, options ...LedgerServiceOption) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		accountRepo: accountRepo,
		txRepo:      txRepo,
		maxRetries:  DefaultMaxBalanceRetries,
		backoff:     DefaultRetryBackoff,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure ledgerService implements the LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// balanceOutcome is the account state after a balance step.
type balanceOutcome struct {
	account domain.Account
	delta   decimal.Decimal
	applied bool
}

func (s *ledgerService) CreateTransaction(ctx context.Context, ownerID string, draft domain.TransactionDraft) (*domain.Transaction, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner id is required", apperrors.ErrValidation)
	}
	draft.IsUpdate = false
	if err := validation.Struct(draft); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	account, err := s.ownedAccount(ctx, ownerID, draft.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("account %s: %w", draft.AccountID, apperrors.ErrNotFound)
	}

	currency, err := resolveCurrency(draft.Currency, account.Currency, draft.Amount)
	if err != nil {
		return nil, err
	}

	now := s.now()
	tx := domain.Transaction{
		TransactionID:   s.newID(),
		OwnerID:         ownerID,
		AccountID:       account.AccountID,
		Amount:          draft.Amount,
		Currency:        currency,
		Type:            draft.Type,
		Description:     draft.Description,
		TransactionDate: draft.TransactionDate.UTC(),
		Revision:        1,
		Timestamps:      domain.Timestamps{CreatedAt: now, UpdatedAt: now},
	}

	if err := s.txRepo.SaveTransaction(ctx, tx); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Account deleted since the ownership check.
			return nil, fmt.Errorf("account %s: %w", tx.AccountID, apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "Failed to save transaction", slog.String("account_id", tx.AccountID))
		return nil, apperrors.StoreFailure("save transaction", err)
	}

	outcome, err := s.applyBalance(ctx, tx.AccountID, tx.TransactionID, tx.Revision, tx.Contribution())
	if err != nil {
		return nil, s.partialFailure(ctx, OpCreate, tx, err)
	}

	s.LogInfo(ctx, "Transaction created",
		slog.String("transaction_id", tx.TransactionID),
		slog.String("account_id", tx.AccountID),
		slog.String("delta", outcome.delta.String()))
	s.publishApplied(ctx, domain.EventTransactionCreated, tx, outcome)
	return &tx, nil
}

func (s *ledgerService) UpdateTransaction(ctx context.Context, ownerID, transactionID string, values domain.TransactionDraft) (*domain.Transaction, error) {
	values.IsUpdate = true
	if err := validation.Struct(values); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	current, err := s.visibleTransaction(ctx, ownerID, transactionID)
	if err != nil || current == nil {
		return nil, err
	}

	if values.AccountID != "" && values.AccountID != current.AccountID {
		return nil, fmt.Errorf("%w: a transaction cannot be moved to another account", apperrors.ErrValidation)
	}
	currency, err := resolveCurrency(values.Currency, current.Currency, values.Amount)
	if err != nil {
		return nil, err
	}

	updated := *current
	updated.Amount = values.Amount
	updated.Currency = currency
	updated.Type = values.Type
	updated.Description = values.Description
	updated.TransactionDate = values.TransactionDate.UTC()
	updated.Revision = current.Revision + 1
	updated.UpdatedAt = s.now()

	if err := s.txRepo.UpdateTransaction(ctx, updated, current.Revision); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			return nil, nil
		case errors.Is(err, apperrors.ErrVersionConflict):
			return nil, fmt.Errorf("%w: transaction %s was modified concurrently", apperrors.ErrConflict, transactionID)
		default:
			s.LogError(ctx, err, "Failed to update transaction", slog.String("transaction_id", transactionID))
			return nil, apperrors.StoreFailure("update transaction", err)
		}
	}

	outcome, err := s.applyBalance(ctx, updated.AccountID, updated.TransactionID, updated.Revision, updated.Contribution())
	if err != nil {
		return nil, s.partialFailure(ctx, OpUpdate, updated, err)
	}

	s.LogInfo(ctx, "Transaction updated",
		slog.String("transaction_id", updated.TransactionID),
		slog.Int64("revision", updated.Revision),
		slog.String("delta", outcome.delta.String()))
	s.publishApplied(ctx, domain.EventTransactionUpdated, updated, outcome)
	return &updated, nil
}

// DeleteTransaction claims the record with a revision-guarded tombstone, moves
// its contribution to zero, and only then removes it. A claimed record is
// hidden from reads, so a failure after the claim is a partial failure that
// ReconcileTransaction finishes.
func (s *ledgerService) DeleteTransaction(ctx context.Context, ownerID, transactionID string) (bool, error) {
	current, err := s.findOwnedTransaction(ctx, ownerID, transactionID)
	if err != nil || current == nil {
		return false, err
	}

	claimed := *current
	if !current.PendingDelete {
		claimed.PendingDelete = true
		claimed.Revision = current.Revision + 1
		claimed.UpdatedAt = s.now()
		if err := s.txRepo.UpdateTransaction(ctx, claimed, current.Revision); err != nil {
			switch {
			case errors.Is(err, apperrors.ErrNotFound):
				return false, nil
			case errors.Is(err, apperrors.ErrVersionConflict):
				return false, fmt.Errorf("%w: transaction %s was modified concurrently", apperrors.ErrConflict, transactionID)
			default:
				s.LogError(ctx, err, "Failed to claim transaction for delete", slog.String("transaction_id", transactionID))
				return false, apperrors.StoreFailure("claim transaction", err)
			}
		}
	}

	outcome, err := s.finishDelete(ctx, claimed)
	if err != nil {
		return false, s.partialFailure(ctx, OpDelete, claimed, err)
	}

	s.LogInfo(ctx, "Transaction deleted",
		slog.String("transaction_id", transactionID),
		slog.String("account_id", claimed.AccountID),
		slog.String("delta", outcome.delta.String()))
	s.publishApplied(ctx, domain.EventTransactionDeleted, claimed, outcome)
	return true, nil
}

// finishDelete applies the zero contribution of a claimed record and removes it.
func (s *ledgerService) finishDelete(ctx context.Context, claimed domain.Transaction) (balanceOutcome, error) {
	outcome, err := s.applyBalance(ctx, claimed.AccountID, claimed.TransactionID, claimed.Revision, decimal.Zero)
	if err != nil {
		return outcome, err
	}
	if err := s.txRepo.DeleteTransaction(ctx, claimed.TransactionID); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return outcome, apperrors.StoreFailure("remove transaction", err)
	}
	return outcome, nil
}

func (s *ledgerService) GetTransaction(ctx context.Context, ownerID, transactionID string) (*domain.Transaction, error) {
	return s.visibleTransaction(ctx, ownerID, transactionID)
}

func (s *ledgerService) ListByOwner(ctx context.Context, ownerID string, page domain.PageRequest) ([]domain.Transaction, *string, error) {
	if ownerID == "" {
		return []domain.Transaction{}, nil, nil
	}
	return s.listPage(ctx, domain.TransactionFilter{OwnerID: ownerID}, page)
}

func (s *ledgerService) ListByAccount(ctx context.Context, ownerID, accountID string, page domain.PageRequest) ([]domain.Transaction, *string, error) {
	account, err := s.ownedAccount(ctx, ownerID, accountID)
	if err != nil {
		return nil, nil, err
	}
	if account == nil {
		return []domain.Transaction{}, nil, nil
	}
	return s.listPage(ctx, domain.TransactionFilter{OwnerID: ownerID, AccountID: accountID}, page)
}

func (s *ledgerService) listPage(ctx context.Context, filter domain.TransactionFilter, page domain.PageRequest) ([]domain.Transaction, *string, error) {
	filter.Limit = pagination.NormalizeLimit(page.Limit)
	if page.NextToken != nil && *page.NextToken != "" {
		cursor, err := pagination.DecodeCursor(*page.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		filter.After = &cursor
	}

	txs, err := s.txRepo.ListTransactions(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions",
			slog.String("owner_id", filter.OwnerID),
			slog.String("account_id", filter.AccountID))
		return nil, nil, apperrors.StoreFailure("list transactions", err)
	}
	if txs == nil {
		txs = []domain.Transaction{}
	}
	return txs, pagination.NextToken(txs, filter.Limit), nil
}

func (s *ledgerService) ReconcileTransaction(ctx context.Context, ownerID, transactionID string) (*domain.ReconcileResult, error) {
	tx, err := s.findOwnedTransaction(ctx, ownerID, transactionID)
	if err != nil || tx == nil {
		return nil, err
	}

	var outcome balanceOutcome
	if tx.PendingDelete {
		outcome, err = s.finishDelete(ctx, *tx)
	} else {
		outcome, err = s.applyBalance(ctx, tx.AccountID, tx.TransactionID, tx.Revision, tx.Contribution())
	}
	if err != nil {
		s.LogError(ctx, err, "Reconciliation did not complete", slog.String("transaction_id", transactionID))
		return nil, err
	}

	result := &domain.ReconcileResult{
		TransactionID: tx.TransactionID,
		AccountID:     tx.AccountID,
		Applied:       outcome.applied,
		Removed:       tx.PendingDelete,
		Balance:       outcome.account.Balance,
		Version:       outcome.account.Version,
	}
	s.LogInfo(ctx, "Transaction reconciled",
		slog.String("transaction_id", transactionID),
		slog.Bool("applied", result.Applied),
		slog.Bool("removed", result.Removed))
	if outcome.applied || tx.PendingDelete {
		s.publishApplied(ctx, domain.EventTransactionReconciled, *tx, outcome)
	}
	return result, nil
}

// ReconcileAccount recomputes the balance from the account's current records
// and replaces its applied entries in one version-guarded write.
func (s *ledgerService) ReconcileAccount(ctx context.Context, ownerID, accountID string) (*domain.Account, error) {
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		account, err := s.ownedAccount(ctx, ownerID, accountID)
		if err != nil || account == nil {
			return nil, err
		}

		txs, err := s.txRepo.ListTransactions(ctx, domain.TransactionFilter{AccountID: accountID, IncludePendingDelete: true})
		if err != nil {
			return nil, apperrors.StoreFailure("list account transactions", err)
		}

		now := s.now()
		balance, entries := accounting.DeriveBalance(accountID, txs, now)
		err = s.accountRepo.ResetBalance(ctx, accountID, account.Version, balance, entries, now)
		if err == nil {
			previous := account.Balance
			account.Balance = balance
			account.Version++
			account.UpdatedAt = now
			s.LogInfo(ctx, "Account balance recomputed",
				slog.String("account_id", accountID),
				slog.String("previous_balance", previous.String()),
				slog.String("balance", balance.String()),
				slog.Int("transactions", len(txs)))
			s.Publish(ctx, domain.LedgerEvent{
				Type:       domain.EventAccountRecomputed,
				OwnerID:    account.OwnerID,
				AccountID:  accountID,
				Delta:      balance.Sub(previous),
				Balance:    balance,
				Version:    account.Version,
				OccurredAt: now,
			})
			return account, nil
		}
		if !errors.Is(err, apperrors.ErrVersionConflict) {
			return nil, apperrors.StoreFailure("reset balance", err)
		}
		if err := s.pause(ctx, attempt); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: account %s kept changing during recompute", apperrors.ErrConflict, accountID)
}

// applyBalance moves the contribution of transactionID on accountID to target
// and records that revision as applied, in one version-guarded write. Re-running
// it for a revision that is already applied changes nothing.
func (s *ledgerService) applyBalance(ctx context.Context, accountID, transactionID string, revision int64, target decimal.Decimal) (balanceOutcome, error) {
	logger := s.GetLogger(ctx)
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return balanceOutcome{}, err
		}

		account, err := s.accountRepo.FindAccountByID(ctx, accountID)
		if err != nil {
			return balanceOutcome{}, s.storeOrCtxErr(ctx, "read account", err)
		}
		entry, err := s.accountRepo.FindAppliedEntry(ctx, accountID, transactionID)
		if err != nil {
			return balanceOutcome{}, s.storeOrCtxErr(ctx, "read applied entry", err)
		}

		previous := decimal.Zero
		if entry != nil {
			if entry.Revision >= revision {
				logger.Debug("Balance step already applied",
					slog.String("transaction_id", transactionID),
					slog.Int64("revision", revision),
					slog.Int64("applied_revision", entry.Revision))
				return balanceOutcome{account: *account, delta: decimal.Zero}, nil
			}
			previous = entry.Contribution
		}

		now := s.now()
		delta := target.Sub(previous)
		change := domain.BalanceChange{
			AccountID:       accountID,
			ExpectedVersion: account.Version,
			NewBalance:      account.Balance.Add(delta),
			Entry: domain.AppliedEntry{
				AccountID:     accountID,
				TransactionID: transactionID,
				Revision:      revision,
				Contribution:  target,
				AppliedAt:     now,
			},
			UpdatedAt: now,
		}

		err = s.accountRepo.ApplyBalanceChange(ctx, change)
		if err == nil {
			account.Balance = change.NewBalance
			account.Version = change.ExpectedVersion + 1
			account.UpdatedAt = now
			return balanceOutcome{account: *account, delta: delta, applied: true}, nil
		}
		if !errors.Is(err, apperrors.ErrVersionConflict) {
			return balanceOutcome{}, s.storeOrCtxErr(ctx, "apply balance", err)
		}

		logger.Debug("Balance version conflict, retrying",
			slog.String("account_id", accountID),
			slog.String("transaction_id", transactionID),
			slog.Int("attempt", attempt+1))
		if err := s.pause(ctx, attempt); err != nil {
			return balanceOutcome{}, err
		}
	}
	return balanceOutcome{}, fmt.Errorf("%w: balance of account %s after %d attempts", apperrors.ErrConflict, accountID, s.maxRetries+1)
}

// pause sleeps for a jittered, growing interval unless ctx ends first.
func (s *ledgerService) pause(ctx context.Context, attempt int) error {
	if s.backoff <= 0 {
		return ctx.Err()
	}
	ceiling := s.backoff * time.Duration(attempt+1)
	timer := time.NewTimer(ceiling/2 + rand.N(ceiling/2+1))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *ledgerService) storeOrCtxErr(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return apperrors.StoreFailure(op, err)
}

func (s *ledgerService) partialFailure(ctx context.Context, op string, tx domain.Transaction, err error) error {
	s.LogError(ctx, err, "Transaction stored but balance step not confirmed",
		slog.String("operation", op),
		slog.String("transaction_id", tx.TransactionID),
		slog.String("account_id", tx.AccountID))
	return apperrors.NewPartialFailure(op, tx.TransactionID, tx.AccountID, err)
}

func (s *ledgerService) publishApplied(ctx context.Context, eventType domain.LedgerEventType, tx domain.Transaction, outcome balanceOutcome) {
	s.Publish(ctx, domain.LedgerEvent{
		Type:          eventType,
		OwnerID:       tx.OwnerID,
		AccountID:     tx.AccountID,
		TransactionID: tx.TransactionID,
		Delta:         outcome.delta,
		Balance:       outcome.account.Balance,
		Version:       outcome.account.Version,
		OccurredAt:    s.now(),
	})
}

// ownedAccount returns (nil, nil) when the account is missing or not owned.
func (s *ledgerService) ownedAccount(ctx context.Context, ownerID, accountID string) (*domain.Account, error) {
	if ownerID == "" || accountID == "" {
		return nil, nil
	}
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		s.LogError(ctx, err, "Failed to load account", slog.String("account_id", accountID))
		return nil, apperrors.StoreFailure("find account", err)
	}
	if !account.OwnedBy(ownerID) {
		return nil, nil
	}
	return account, nil
}

// findOwnedTransaction returns (nil, nil) when the record is missing or not
// owned. Records claimed by a pending delete are returned.
func (s *ledgerService) findOwnedTransaction(ctx context.Context, ownerID, transactionID string) (*domain.Transaction, error) {
	if ownerID == "" || transactionID == "" {
		return nil, nil
	}
	tx, err := s.txRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		s.LogError(ctx, err, "Failed to load transaction", slog.String("transaction_id", transactionID))
		return nil, apperrors.StoreFailure("find transaction", err)
	}
	if !tx.OwnedBy(ownerID) {
		return nil, nil
	}
	return tx, nil
}

// visibleTransaction is findOwnedTransaction minus records pending delete.
func (s *ledgerService) visibleTransaction(ctx context.Context, ownerID, transactionID string) (*domain.Transaction, error) {
	tx, err := s.findOwnedTransaction(ctx, ownerID, transactionID)
	if err != nil || tx == nil || tx.PendingDelete {
		return nil, err
	}
	return tx, nil
}

// resolveCurrency defaults an empty currency to the account's and rejects
// any other currency or an amount finer than its minor unit.
func resolveCurrency(requested, accountCurrency domain.Currency, amount decimal.Decimal) (domain.Currency, error) {
	currency := accountCurrency
	if requested != "" {
		parsed, ok := domain.ParseCurrency(string(requested))
		if !ok {
			return "", fmt.Errorf("%w: unknown currency %q", apperrors.ErrValidation, requested)
		}
		if parsed != accountCurrency {
			return "", fmt.Errorf("%w: currency %s does not match account currency %s", apperrors.ErrValidation, parsed, accountCurrency)
		}
		currency = parsed
	}
	if !utils.FitsCurrencyPrecision(amount, currency) {
		return "", fmt.Errorf("%w: amount %s has more decimal places than %s allows", apperrors.ErrValidation, amount, currency)
	}
	return currency, nil
}
