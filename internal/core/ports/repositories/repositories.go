package repositories

// LedgerStore is everything the engine needs from the persistence service.
// Both the PostgreSQL and the in-memory adapters implement it.
type LedgerStore interface {
	LedgerReader
	AccountWriter
	CategoryWriter
	CounterpartyWriter
	TransactionWriter
	BudgetWriter
	DebtWriter
	RecurringWriter
	OccurrenceRecorder
	GoalWriter
	SettingsWriter
}

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	Reader           LedgerReader
	AccountRepo      AccountWriter
	CategoryRepo     CategoryWriter
	CounterpartyRepo CounterpartyWriter
	TransactionRepo  TransactionWriter
	// TransferRepo is nil when the store cannot transfer atomically; services then
	// fall back to compensating writes through TransactionRepo.
	TransferRepo   TransferPerformer
	BudgetRepo     BudgetWriter
	DebtRepo       DebtWriter
	RecurringRepo  RecurringWriter
	OccurrenceRepo OccurrenceRecorder
	GoalRepo       GoalWriter
	SettingsRepo   SettingsWriter
}

// NewRepositoryProviderFromStore wires every port to a single store. The transfer port is
// only set when the store supports atomic transfers.
func NewRepositoryProviderFromStore(store LedgerStore) RepositoryProvider {
	p := RepositoryProvider{
		Reader:           store,
		AccountRepo:      store,
		CategoryRepo:     store,
		CounterpartyRepo: store,
		TransactionRepo:  store,
		BudgetRepo:       store,
		DebtRepo:         store,
		RecurringRepo:    store,
		OccurrenceRepo:   store,
		GoalRepo:         store,
		SettingsRepo:     store,
	}
	if tp, ok := store.(TransferPerformer); ok {
		p.TransferRepo = tp
	}
	return p
}
