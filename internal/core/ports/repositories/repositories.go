package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	AccountRepo     AccountRepository
	TransactionRepo TransactionRepository
	// Close releases the underlying connections, if any.
	Close func() error
}
