package pgsql

import (
	"time"

	portsrepo "github.com/SscSPs/moneyflow/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider builds every repository on dbPool. Dates read back are
// expressed in loc.
func NewRepositoryProvider(dbPool *pgxpool.Pool, loc *time.Location) portsrepo.RepositoryProvider {
	categoryRepo := newPgxCategoryRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool)
	planningRepo := newPgxPlanningRepository(dbPool)

	return portsrepo.RepositoryProvider{
		Reader:           newPgxLedgerReader(dbPool, loc),
		AccountRepo:      newPgxAccountRepository(dbPool),
		CategoryRepo:     categoryRepo,
		CounterpartyRepo: categoryRepo,
		TransactionRepo:  transactionRepo,
		TransferRepo:     transactionRepo,
		BudgetRepo:       planningRepo,
		DebtRepo:         planningRepo,
		RecurringRepo:    planningRepo,
		OccurrenceRepo:   planningRepo,
		GoalRepo:         planningRepo,
		SettingsRepo:     newPgxSettingsRepository(dbPool),
	}
}
