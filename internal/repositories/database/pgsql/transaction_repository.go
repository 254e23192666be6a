package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/fintech_ledger/internal/apperrors"
	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/fintech_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/fintech_ledger/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	transactionColumns = `transaction_id, owner_id, account_id, amount, currency, type, description,
		transaction_date, revision, pending_delete, created_at, updated_at`
	transactionExistsQuery = `SELECT EXISTS (SELECT 1 FROM transactions WHERE transaction_id = $1)`
)

type PgxTransactionRepository struct {
	BaseRepository
}

// NewTransactionRepository creates a new repository for transaction records.
func NewTransactionRepository(pool *pgxpool.Pool) *PgxTransactionRepository {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepository = (*PgxTransactionRepository)(nil)

func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, tx domain.Transaction) error {
	m := models.FromDomainTransaction(tx)
	query := `INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`

	_, err := r.Pool.Exec(ctx, query,
		m.TransactionID, m.OwnerID, m.AccountID, m.Amount, m.Currency, m.Type, m.Description,
		m.TransactionDate, m.Revision, m.PendingDelete, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		switch pgErrorCode(err) {
		case pgUniqueViolation:
			return fmt.Errorf("%w: transaction with ID %s already exists", apperrors.ErrDuplicate, m.TransactionID)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, m.AccountID)
		}
		return fmt.Errorf("failed to save transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

// FindTransactionByID returns the record, including one claimed by a pending delete.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan transaction %s: %w", transactionID, err)
	}
	tx := m.ToDomain()
	return &tx, nil
}

// UpdateTransaction rewrites the mutable fields while the revision still
// matches. Owner, account and creation time never change.
func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, tx domain.Transaction, expectedRevision int64) error {
	m := models.FromDomainTransaction(tx)
	query := `
		UPDATE transactions
		SET amount = $2, currency = $3, type = $4, description = $5, transaction_date = $6,
			revision = $7, pending_delete = $8, updated_at = $9
		WHERE transaction_id = $1 AND revision = $10;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.TransactionID, m.Amount, m.Currency, m.Type, m.Description, m.TransactionDate,
		m.Revision, m.PendingDelete, m.UpdatedAt, expectedRevision,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", m.TransactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return missingOrConflict(ctx, r.Pool, transactionExistsQuery, m.TransactionID)
	}
	return nil
}

func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListTransactions returns matches newest first, keyset-paginated by (date, id).
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	where, args := buildTransactionWhere(filter)
	query := `SELECT ` + transactionColumns + ` FROM transactions` + where +
		` ORDER BY transaction_date DESC, transaction_id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions: %w", err)
	}
	return models.ToDomainTransactions(ms), nil
}

// CountByAccount counts every record referencing the account, pending deletes included.
func (r *PgxTransactionRepository) CountByAccount(ctx context.Context, accountID string) (int64, error) {
	var n int64
	err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE account_id = $1;`, accountID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions of account %s: %w", accountID, err)
	}
	return n, nil
}

// buildTransactionWhere renders the filter as a WHERE clause with positional args.
func buildTransactionWhere(f domain.TransactionFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, values ...any) {
		for _, v := range values {
			args = append(args, v)
			cond = strings.Replace(cond, "?", "$"+strconv.Itoa(len(args)), 1)
		}
		conds = append(conds, cond)
	}

	if !f.IncludePendingDelete {
		add("pending_delete = FALSE")
	}
	if f.OwnerID != "" {
		add("owner_id = ?", f.OwnerID)
	}
	if f.AccountID != "" {
		add("account_id = ?", f.AccountID)
	}
	if f.Type != "" {
		add("type = ?", string(f.Type))
	}
	if f.From != nil {
		add("transaction_date >= ?", *f.From)
	}
	if f.To != nil {
		add("transaction_date <= ?", *f.To)
	}
	if f.AmountGreaterThan != nil {
		add("amount > ?", *f.AmountGreaterThan)
	}
	if f.After != nil {
		add("(transaction_date, transaction_id) < (?, ?)", f.After.TransactionDate, f.After.TransactionID)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
