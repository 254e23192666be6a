package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/fintech_ledger/internal/apperrors"
	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/fintech_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/fintech_ledger/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	accountColumns     = `account_id, owner_id, name, account_type, currency, balance, version, created_at, updated_at`
	accountExistsQuery = `SELECT EXISTS (SELECT 1 FROM accounts WHERE account_id = $1)`
	upsertEntryQuery   = `
		INSERT INTO account_applied_transactions (account_id, transaction_id, revision, contribution, applied_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (account_id, transaction_id)
		DO UPDATE SET revision = EXCLUDED.revision, contribution = EXCLUDED.contribution, applied_at = EXCLUDED.applied_at;
	`
)

type PgxAccountRepository struct {
	BaseRepository
}

// NewAccountRepository creates a new repository for account data.
func NewAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepository
var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := models.FromDomainAccount(account)
	query := `INSERT INTO accounts (` + accountColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`

	_, err := r.Pool.Exec(ctx, query,
		m.AccountID, m.OwnerID, m.Name, m.AccountType, m.Currency,
		m.Balance, m.Version, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, m.AccountID)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan account %s: %w", accountID, err)
	}
	acc := m.ToDomain()
	return &acc, nil
}

// ListAccountsByOwner returns the owner's accounts ordered by name.
func (r *PgxAccountRepository) ListAccountsByOwner(ctx context.Context, ownerID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner_id = $1 ORDER BY name, account_id;`

	rows, err := r.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for owner %s: %w", ownerID, err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, fmt.Errorf("failed to scan accounts for owner %s: %w", ownerID, err)
	}

	accounts := make([]domain.Account, len(ms))
	for i, m := range ms {
		accounts[i] = m.ToDomain()
	}
	return accounts, nil
}

// FindAppliedEntry returns (nil, nil) when the account has never applied the transaction.
func (r *PgxAccountRepository) FindAppliedEntry(ctx context.Context, accountID, transactionID string) (*domain.AppliedEntry, error) {
	query := `
		SELECT account_id, transaction_id, revision, contribution, applied_at
		FROM account_applied_transactions
		WHERE account_id = $1 AND transaction_id = $2;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find applied entry %s/%s: %w", accountID, transactionID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.AppliedEntry])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan applied entry %s/%s: %w", accountID, transactionID, err)
	}
	entry := m.ToDomain()
	return &entry, nil
}

// UpdateAccountDetails rewrites name and type while the version still matches.
func (r *PgxAccountRepository) UpdateAccountDetails(ctx context.Context, account domain.Account, expectedVersion int64) error {
	query := `
		UPDATE accounts
		SET name = $2, account_type = $3, updated_at = $4, version = version + 1
		WHERE account_id = $1 AND version = $5;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, account.AccountID, account.Name, string(account.AccountType), account.UpdatedAt, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to execute update account %s: %w", account.AccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return missingOrConflict(ctx, r.Pool, accountExistsQuery, account.AccountID)
	}
	return nil
}

// DeleteAccount removes the account and, by cascade, its applied entries.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, accountID string, expectedVersion int64) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1 AND version = $2;`, accountID, expectedVersion)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return apperrors.ErrAccountInUse
		}
		return fmt.Errorf("failed to delete account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return missingOrConflict(ctx, r.Pool, accountExistsQuery, accountID)
	}
	return nil
}

// ApplyBalanceChange sets the balance and upserts the applied entry in one
// transaction, guarded by the expected version.
func (r *PgxAccountRepository) ApplyBalanceChange(ctx context.Context, change domain.BalanceChange) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		if err := guardedBalanceWrite(ctx, tx, change.AccountID, change.ExpectedVersion, change.NewBalance, change.UpdatedAt); err != nil {
			return err
		}
		e := models.FromDomainEntry(change.Entry)
		if _, err := tx.Exec(ctx, upsertEntryQuery, e.AccountID, e.TransactionID, e.Revision, e.Contribution, e.AppliedAt); err != nil {
			return fmt.Errorf("failed to upsert applied entry for transaction %s: %w", e.TransactionID, err)
		}
		return nil
	})
}

// ResetBalance overwrites the balance and replaces every applied entry of the account.
func (r *PgxAccountRepository) ResetBalance(ctx context.Context, accountID string, expectedVersion int64, balance decimal.Decimal, entries []domain.AppliedEntry, now time.Time) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		if err := guardedBalanceWrite(ctx, tx, accountID, expectedVersion, balance, now); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM account_applied_transactions WHERE account_id = $1;`, accountID); err != nil {
			return fmt.Errorf("failed to clear applied entries of account %s: %w", accountID, err)
		}
		if len(entries) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for _, entry := range entries {
			e := models.FromDomainEntry(entry)
			batch.Queue(upsertEntryQuery, e.AccountID, e.TransactionID, e.Revision, e.Contribution, e.AppliedAt)
		}
		// Close reports the first failed statement of the batch.
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to rebuild applied entries of account %s: %w", accountID, err)
		}
		return nil
	})
}

func guardedBalanceWrite(ctx context.Context, tx pgx.Tx, accountID string, expectedVersion int64, balance decimal.Decimal, now time.Time) error {
	query := `
		UPDATE accounts
		SET balance = $2, version = version + 1, updated_at = $3
		WHERE account_id = $1 AND version = $4;
	`
	cmdTag, err := tx.Exec(ctx, query, accountID, balance, now, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return missingOrConflict(ctx, tx, accountExistsQuery, accountID)
	}
	return nil
}
