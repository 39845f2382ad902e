package services

import (
	"fmt"

	"github.com/SscSPs/moneyflow/internal/core/metrics"
	portsrepo "github.com/SscSPs/moneyflow/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/moneyflow/internal/core/ports/services"
	"github.com/SscSPs/moneyflow/internal/core/recurring"
	"github.com/SscSPs/moneyflow/internal/core/snapshot"
	"github.com/SscSPs/moneyflow/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// rates may be nil when no reference rate source is configured.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, rates portssvc.ReferenceRateProvider) (*portssvc.ServiceContainer, error) {
	engine, err := metrics.NewEngine(cfg.MetricsCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating metrics engine: %w", err)
	}

	// The session service owns the snapshots every other service reads from
	registry := snapshot.NewRegistry(repos.Reader, snapshot.WithClock(cfg.Now))
	runner := recurring.NewRunner(repos.OccurrenceRepo,
		recurring.WithMaxCatchUp(cfg.RecurringMaxCatchUp),
		recurring.WithRunnerClock(cfg.Now),
	)
	session := NewSessionService(registry, runner)

	opts := []ServiceOption{WithClock(cfg.Now)}

	container := &portssvc.ServiceContainer{
		Session:      session,
		Dashboard:    NewDashboardService(session, engine, opts...),
		Account:      NewAccountService(repos.AccountRepo, session, engine, opts...),
		Category:     NewCategoryService(repos.CategoryRepo, session, opts...),
		Counterparty: NewCounterpartyService(repos.CounterpartyRepo, session, opts...),
		Transaction:  NewTransactionService(repos.TransactionRepo, session, opts...),
		Transfer:     NewTransferService(repos.TransactionRepo, repos.TransferRepo, session, opts...),
		Budget:       NewBudgetService(repos.BudgetRepo, session, opts...),
		Debt:         NewDebtService(repos.DebtRepo, session, opts...),
		Recurring:    NewRecurringService(repos.RecurringRepo, session, opts...),
		Goal:         NewGoalService(repos.GoalRepo, session, opts...),
		Settings:     NewSettingsService(repos.SettingsRepo, rates, cfg.RatesBridgeCurrency, session, opts...),
	}
	return container, nil
}
