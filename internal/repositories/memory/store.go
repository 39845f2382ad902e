// Package memory is an in-process implementation of the ledger persistence ports.
// Data lives only as long as the process.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/moneyflow/internal/apperrors"
	"github.com/SscSPs/moneyflow/internal/core/domain"
	portsrepo "github.com/SscSPs/moneyflow/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type userData struct {
	accounts       []domain.Account
	categories     []domain.Category
	counterparties []domain.Counterparty
	transactions   []domain.Transaction
	budgets        []domain.Budget
	debts          []domain.Debt
	recurring      []domain.RecurringDefinition
	goals          []domain.Goal
	settings       *domain.Settings
}

// Store keeps every user's ledger in memory behind a single lock.
type Store struct {
	mu    sync.RWMutex
	users map[string]*userData
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{users: make(map[string]*userData)}
}

var (
	_ portsrepo.LedgerStore       = (*Store)(nil)
	_ portsrepo.TransferPerformer = (*Store)(nil)
)

// user returns the data of userID, creating it. Callers hold the write lock.
func (s *Store) user(userID string) *userData {
	u, ok := s.users[userID]
	if !ok {
		u = &userData{}
		s.users[userID] = u
	}
	return u
}

func (s *Store) read(userID string) *userData {
	if u, ok := s.users[userID]; ok {
		return u
	}
	return &userData{}
}

func indexOf[T any](items []T, match func(T) bool) int {
	for i, it := range items {
		if match(it) {
			return i
		}
	}
	return -1
}

func removeWhere[T any](items []T, match func(T) bool) []T {
	out := items[:0:0]
	for _, it := range items {
		if !match(it) {
			out = append(out, it)
		}
	}
	return out
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, apperrors.ErrNotFound)
}

func duplicate(kind, id string) error {
	return fmt.Errorf("%w: %s with ID %s already exists", apperrors.ErrDuplicate, kind, id)
}

// --- Reads ---

func (s *Store) ListAccounts(_ context.Context, userID string) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Account{}, s.read(userID).accounts...), nil
}

func (s *Store) ListCategories(_ context.Context, userID string) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Category{}, s.read(userID).categories...), nil
}

func (s *Store) ListCounterparties(_ context.Context, userID string) ([]domain.Counterparty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Counterparty{}, s.read(userID).counterparties...), nil
}

func (s *Store) ListTransactions(_ context.Context, userID string) ([]domain.Transaction, error) {
	s.mu.RLock()
	out := append([]domain.Transaction{}, s.read(userID).transactions...)
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) ListBudgets(_ context.Context, userID string) ([]domain.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Budget{}, s.read(userID).budgets...), nil
}

func (s *Store) ListDebts(_ context.Context, userID string) ([]domain.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Debt{}, s.read(userID).debts...), nil
}

func (s *Store) ListRecurringDefinitions(_ context.Context, userID string) ([]domain.RecurringDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.RecurringDefinition{}, s.read(userID).recurring...), nil
}

func (s *Store) ListGoals(_ context.Context, userID string) ([]domain.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Goal{}, s.read(userID).goals...), nil
}

func (s *Store) GetSettings(_ context.Context, userID string) (*domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.read(userID).settings
	if st == nil {
		return nil, notFound("settings", userID)
	}
	out := *st
	out.CurrencyRates = make(map[string]decimal.Decimal, len(st.CurrencyRates))
	for k, v := range st.CurrencyRates {
		out.CurrencyRates[k] = v
	}
	return &out, nil
}

// --- Accounts, categories, counterparties ---

func (s *Store) SaveAccount(_ context.Context, account domain.Account, opening *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(account.UserID)
	if indexOf(u.accounts, func(a domain.Account) bool { return a.AccountID == account.AccountID }) >= 0 {
		return duplicate("account", account.AccountID)
	}
	if opening != nil {
		if err := u.checkNewTransaction(*opening); err != nil {
			return err
		}
	}
	u.accounts = append(u.accounts, account)
	if opening != nil {
		u.transactions = append(u.transactions, *opening)
	}
	return nil
}

func (s *Store) UpdateAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(account.UserID)
	i := indexOf(u.accounts, func(a domain.Account) bool { return a.AccountID == account.AccountID })
	if i < 0 {
		return notFound("account", account.AccountID)
	}
	u.accounts[i] = account
	return nil
}

// DeleteAccount removes the account with its transactions and recurring definitions.
func (s *Store) DeleteAccount(_ context.Context, userID, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(userID)
	if indexOf(u.accounts, func(a domain.Account) bool { return a.AccountID == accountID }) < 0 {
		return notFound("account", accountID)
	}
	u.accounts = removeWhere(u.accounts, func(a domain.Account) bool { return a.AccountID == accountID })
	u.transactions = removeWhere(u.transactions, func(t domain.Transaction) bool { return t.AccountID == accountID })
	u.recurring = removeWhere(u.recurring, func(r domain.RecurringDefinition) bool { return r.AccountID == accountID })
	return nil
}

func (s *Store) SaveCategory(_ context.Context, category domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(category.UserID)
	if indexOf(u.categories, func(c domain.Category) bool { return c.CategoryID == category.CategoryID }) >= 0 {
		return duplicate("category", category.CategoryID)
	}
	u.categories = append(u.categories, category)
	return nil
}

func (s *Store) UpdateCategory(_ context.Context, category domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(category.UserID)
	i := indexOf(u.categories, func(c domain.Category) bool { return c.CategoryID == category.CategoryID })
	if i < 0 {
		return notFound("category", category.CategoryID)
	}
	u.categories[i] = category
	return nil
}

// DeleteCategory removes the category and its budget. Transactions keep the dangling reference.
func (s *Store) DeleteCategory(_ context.Context, userID, categoryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(userID)
	if indexOf(u.categories, func(c domain.Category) bool { return c.CategoryID == categoryID }) < 0 {
		return notFound("category", categoryID)
	}
	u.categories = removeWhere(u.categories, func(c domain.Category) bool { return c.CategoryID == categoryID })
	u.budgets = removeWhere(u.budgets, func(b domain.Budget) bool { return b.CategoryID == categoryID })
	return nil
}

func (s *Store) SaveCounterparty(_ context.Context, cp domain.Counterparty) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(cp.UserID)
	if indexOf(u.counterparties, func(c domain.Counterparty) bool { return c.CounterpartyID == cp.CounterpartyID }) >= 0 {
		return duplicate("counterparty", cp.CounterpartyID)
	}
	u.counterparties = append(u.counterparties, cp)
	return nil
}

func (s *Store) UpdateCounterparty(_ context.Context, cp domain.Counterparty) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(cp.UserID)
	i := indexOf(u.counterparties, func(c domain.Counterparty) bool { return c.CounterpartyID == cp.CounterpartyID })
	if i < 0 {
		return notFound("counterparty", cp.CounterpartyID)
	}
	u.counterparties[i] = cp
	return nil
}

func (s *Store) DeleteCounterparty(_ context.Context, userID, counterpartyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(userID)
	if indexOf(u.counterparties, func(c domain.Counterparty) bool { return c.CounterpartyID == counterpartyID }) < 0 {
		return notFound("counterparty", counterpartyID)
	}
	u.counterparties = removeWhere(u.counterparties, func(c domain.Counterparty) bool { return c.CounterpartyID == counterpartyID })
	return nil
}

// --- Transactions ---

func (u *userData) checkNewTransaction(txn domain.Transaction) error {
	if err := txn.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if indexOf(u.transactions, func(t domain.Transaction) bool { return t.TransactionID == txn.TransactionID }) >= 0 {
		return duplicate("transaction", txn.TransactionID)
	}
	return nil
}

func (u *userData) hasAccount(accountID string) bool {
	return indexOf(u.accounts, func(a domain.Account) bool { return a.AccountID == accountID }) >= 0
}

func (s *Store) SaveTransaction(_ context.Context, txn domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(txn.UserID)
	if err := u.checkNewTransaction(txn); err != nil {
		return err
	}
	if !u.hasAccount(txn.AccountID) {
		return notFound("account", txn.AccountID)
	}
	u.transactions = append(u.transactions, txn)
	return nil
}

func (s *Store) UpdateTransaction(_ context.Context, txn domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(txn.UserID)
	i := indexOf(u.transactions, func(t domain.Transaction) bool { return t.TransactionID == txn.TransactionID })
	if i < 0 {
		return notFound("transaction", txn.TransactionID)
	}
	if err := txn.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	u.transactions[i] = txn
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, userID, transactionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(userID)
	if indexOf(u.transactions, func(t domain.Transaction) bool { return t.TransactionID == transactionID }) < 0 {
		return notFound("transaction", transactionID)
	}
	u.transactions = removeWhere(u.transactions, func(t domain.Transaction) bool { return t.TransactionID == transactionID })
	return nil
}

// DeleteTransfer removes all legs of a transfer under one lock.
func (s *Store) DeleteTransfer(_ context.Context, userID, transferID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(userID)
	isLeg := func(t domain.Transaction) bool { return t.TransferID != nil && *t.TransferID == transferID }
	if indexOf(u.transactions, isLeg) < 0 {
		return notFound("transfer", transferID)
	}
	u.transactions = removeWhere(u.transactions, isLeg)
	return nil
}

// PerformTransfer stores both legs or neither.
func (s *Store) PerformTransfer(_ context.Context, out, in domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(out.UserID)
	for _, leg := range []domain.Transaction{out, in} {
		if err := u.checkNewTransaction(leg); err != nil {
			return err
		}
		if !u.hasAccount(leg.AccountID) {
			return notFound("account", leg.AccountID)
		}
	}
	u.transactions = append(u.transactions, out, in)
	return nil
}

// --- Budgets ---

func (s *Store) UpsertBudget(_ context.Context, budget domain.Budget) (*domain.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(budget.UserID)
	if i := indexOf(u.budgets, func(b domain.Budget) bool { return b.CategoryID == budget.CategoryID }); i >= 0 {
		u.budgets[i].Amount = budget.Amount
		u.budgets[i].LastUpdatedAt = budget.LastUpdatedAt
		stored := u.budgets[i]
		return &stored, nil
	}
	u.budgets = append(u.budgets, budget)
	return &budget, nil
}

func (s *Store) DeleteBudget(_ context.Context, userID, budgetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(userID)
	if indexOf(u.budgets, func(b domain.Budget) bool { return b.BudgetID == budgetID }) < 0 {
		return notFound("budget", budgetID)
	}
	u.budgets = removeWhere(u.budgets, func(b domain.Budget) bool { return b.BudgetID == budgetID })
	return nil
}

// --- Debts ---

func (s *Store) SaveDebt(_ context.Context, debt domain.Debt, opening *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(debt.UserID)
	if indexOf(u.debts, func(d domain.Debt) bool { return d.DebtID == debt.DebtID }) >= 0 {
		return duplicate("debt", debt.DebtID)
	}
	if opening != nil {
		if err := u.checkNewTransaction(*opening); err != nil {
			return err
		}
		if !u.hasAccount(opening.AccountID) {
			return notFound("account", opening.AccountID)
		}
		u.transactions = append(u.transactions, *opening)
	}
	u.debts = append(u.debts, debt)
	return nil
}

func (s *Store) RecordDebtPayment(_ context.Context, userID, debtID string, amount decimal.Decimal, txn domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(userID)
	i := indexOf(u.debts, func(d domain.Debt) bool { return d.DebtID == debtID })
	if i < 0 {
		return notFound("debt", debtID)
	}
	if amount.GreaterThan(u.debts[i].Remaining()) {
		return fmt.Errorf("%w: payment exceeds the remaining amount", apperrors.ErrValidation)
	}
	if err := u.checkNewTransaction(txn); err != nil {
		return err
	}
	if !u.hasAccount(txn.AccountID) {
		return notFound("account", txn.AccountID)
	}
	u.debts[i].PaidAmount = u.debts[i].PaidAmount.Add(amount)
	u.debts[i].LastUpdatedAt = txn.CreatedAt
	u.transactions = append(u.transactions, txn)
	return nil
}

func (s *Store) DeleteDebt(_ context.Context, userID, debtID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(userID)
	if indexOf(u.debts, func(d domain.Debt) bool { return d.DebtID == debtID }) < 0 {
		return notFound("debt", debtID)
	}
	u.debts = removeWhere(u.debts, func(d domain.Debt) bool { return d.DebtID == debtID })
	return nil
}

// --- Recurring ---

func (s *Store) SaveRecurring(_ context.Context, def domain.RecurringDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(def.UserID)
	if indexOf(u.recurring, func(r domain.RecurringDefinition) bool { return r.RecurringID == def.RecurringID }) >= 0 {
		return duplicate("recurring definition", def.RecurringID)
	}
	u.recurring = append(u.recurring, def)
	return nil
}

// UpdateRecurring replaces the editable fields. LastRun is only moved by RecordOccurrence.
func (s *Store) UpdateRecurring(_ context.Context, def domain.RecurringDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(def.UserID)
	i := indexOf(u.recurring, func(r domain.RecurringDefinition) bool { return r.RecurringID == def.RecurringID })
	if i < 0 {
		return notFound("recurring definition", def.RecurringID)
	}
	def.LastRun = u.recurring[i].LastRun
	u.recurring[i] = def
	return nil
}

func (s *Store) DeleteRecurring(_ context.Context, userID, recurringID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(userID)
	if indexOf(u.recurring, func(r domain.RecurringDefinition) bool { return r.RecurringID == recurringID }) < 0 {
		return notFound("recurring definition", recurringID)
	}
	u.recurring = removeWhere(u.recurring, func(r domain.RecurringDefinition) bool { return r.RecurringID == recurringID })
	return nil
}

// RecordOccurrence appends txn and moves LastRun to occurredAt. An occurrence at or
// before the stored LastRun is rejected with apperrors.ErrDuplicate.
func (s *Store) RecordOccurrence(_ context.Context, userID, recurringID string, occurredAt time.Time, txn domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(userID)
	i := indexOf(u.recurring, func(r domain.RecurringDefinition) bool { return r.RecurringID == recurringID })
	if i < 0 {
		return notFound("recurring definition", recurringID)
	}
	if last := u.recurring[i].LastRun; last != nil && !occurredAt.After(*last) {
		return fmt.Errorf("%w: occurrence %s of %s already recorded", apperrors.ErrDuplicate, occurredAt.Format(time.DateOnly), recurringID)
	}
	if err := u.checkNewTransaction(txn); err != nil {
		return err
	}
	if !u.hasAccount(txn.AccountID) {
		return notFound("account", txn.AccountID)
	}
	u.transactions = append(u.transactions, txn)
	at := occurredAt
	u.recurring[i].LastRun = &at
	return nil
}

// --- Goals ---

func (s *Store) SaveGoal(_ context.Context, goal domain.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(goal.UserID)
	if indexOf(u.goals, func(g domain.Goal) bool { return g.GoalID == goal.GoalID }) >= 0 {
		return duplicate("goal", goal.GoalID)
	}
	u.goals = append(u.goals, goal)
	return nil
}

// UpdateGoal replaces the editable fields. CurrentAmount is only moved by TopUpGoal.
func (s *Store) UpdateGoal(_ context.Context, goal domain.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(goal.UserID)
	i := indexOf(u.goals, func(g domain.Goal) bool { return g.GoalID == goal.GoalID })
	if i < 0 {
		return notFound("goal", goal.GoalID)
	}
	goal.CurrentAmount = u.goals[i].CurrentAmount
	u.goals[i] = goal
	return nil
}

func (s *Store) TopUpGoal(_ context.Context, userID, goalID string, amount decimal.Decimal, txn domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(userID)
	i := indexOf(u.goals, func(g domain.Goal) bool { return g.GoalID == goalID })
	if i < 0 {
		return notFound("goal", goalID)
	}
	if err := u.checkNewTransaction(txn); err != nil {
		return err
	}
	if !u.hasAccount(txn.AccountID) {
		return notFound("account", txn.AccountID)
	}
	u.goals[i].CurrentAmount = u.goals[i].CurrentAmount.Add(amount)
	u.goals[i].LastUpdatedAt = txn.CreatedAt
	u.transactions = append(u.transactions, txn)
	return nil
}

func (s *Store) DeleteGoal(_ context.Context, userID, goalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(userID)
	if indexOf(u.goals, func(g domain.Goal) bool { return g.GoalID == goalID }) < 0 {
		return notFound("goal", goalID)
	}
	u.goals = removeWhere(u.goals, func(g domain.Goal) bool { return g.GoalID == goalID })
	return nil
}

// --- Settings ---

func (s *Store) SaveSettings(_ context.Context, settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := settings
	stored.CurrencyRates = make(map[string]decimal.Decimal, len(settings.CurrencyRates))
	for k, v := range settings.CurrencyRates {
		stored.CurrencyRates[k] = v
	}
	s.user(settings.UserID).settings = &stored
	return nil
}
