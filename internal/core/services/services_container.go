package services

import (
	portsrepo "github.com/SscSPs/fintech_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fintech_ledger/internal/core/ports/services"
	"github.com/SscSPs/fintech_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, events portssvc.LedgerEventPublisher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{Events: events}

	container.Account = NewAccountService(
		repos.AccountRepo,
		repos.TransactionRepo,
		WithAccountRetries(cfg.MaxBalanceRetries),
	)
	container.Ledger = NewLedgerService(
		repos.AccountRepo,
		repos.TransactionRepo,
		WithBalanceRetries(cfg.MaxBalanceRetries, cfg.RetryBackoff),
		WithLedgerEvents(events),
	)
	container.Anomaly = NewAnomalyService(repos.TransactionRepo)
	container.Reporting = NewReportingService(repos.TransactionRepo)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade   = (*accountService)(nil)
	_ portssvc.LedgerSvcFacade    = (*ledgerService)(nil)
	_ portssvc.AnomalyDetectorSvc = (*anomalyService)(nil)
	_ portssvc.ReportingService   = (*reportingService)(nil)
)
