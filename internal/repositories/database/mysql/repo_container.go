package mysql

import (
	"fmt"

	portsrepo "github.com/SscSPs/fintech_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/fintech_ledger/internal/models"
	pkgmysql "github.com/SscSPs/fintech_ledger/pkg/mysql"
)

// Migrate creates or alters the ledger tables to match the row models.
func Migrate(client *pkgmysql.Client) error {
	if err := client.DB().AutoMigrate(&models.Account{}, &models.AppliedEntry{}, &models.Transaction{}); err != nil {
		return fmt.Errorf("failed to migrate mysql schema: %w", err)
	}
	return nil
}

// NewRepositoryProvider wires the gorm repositories over one client. Close
// releases the client.
func NewRepositoryProvider(client *pkgmysql.Client) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     NewAccountRepository(client.DB()),
		TransactionRepo: NewTransactionRepository(client.DB()),
		Close:           client.Close,
	}
}
