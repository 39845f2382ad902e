// Package snapshot holds the per-user, in-memory copy of every ledger collection.
// A Snapshot is never mutated after it is built; refreshing produces a new one.
package snapshot

import (
	"sync/atomic"
	"time"

	"github.com/SscSPs/moneyflow/internal/core/domain"
)

// Collection names one entity collection of the ledger.
type Collection string

const (
	Accounts       Collection = "accounts"
	Categories     Collection = "categories"
	Counterparties Collection = "counterparties"
	Transactions   Collection = "transactions"
	Budgets        Collection = "budgets"
	Debts          Collection = "debts"
	Recurring      Collection = "recurring"
	Goals          Collection = "goals"
	Settings       Collection = "settings"
)

// AllCollections lists every collection in fetch order.
var AllCollections = []Collection{
	Accounts, Categories, Counterparties, Transactions, Budgets, Debts, Recurring, Goals, Settings,
}

// Collections is the raw data of a snapshot. Treat every slice as read-only.
type Collections struct {
	Accounts       []domain.Account
	Categories     []domain.Category
	Counterparties []domain.Counterparty
	Transactions   []domain.Transaction
	Budgets        []domain.Budget
	Debts          []domain.Debt
	Recurring      []domain.RecurringDefinition
	Goals          []domain.Goal
	Settings       domain.Settings
}

var versionSeq atomic.Uint64

// Snapshot is an immutable view of one user's ledger.
type Snapshot struct {
	Collections

	version   uint64
	userID    string
	fetchedAt time.Time

	accountIdx      map[string]int
	categoryIdx     map[string]int
	counterpartyIdx map[string]int
	budgetByCat     map[string]int
}

// New builds a snapshot with a fresh, process-unique version.
func New(userID string, c Collections, fetchedAt time.Time) *Snapshot {
	s := &Snapshot{
		Collections:     c,
		version:         versionSeq.Add(1),
		userID:          userID,
		fetchedAt:       fetchedAt,
		accountIdx:      make(map[string]int, len(c.Accounts)),
		categoryIdx:     make(map[string]int, len(c.Categories)),
		counterpartyIdx: make(map[string]int, len(c.Counterparties)),
		budgetByCat:     make(map[string]int, len(c.Budgets)),
	}
	for i, a := range c.Accounts {
		s.accountIdx[a.AccountID] = i
	}
	for i, cat := range c.Categories {
		s.categoryIdx[cat.CategoryID] = i
	}
	for i, cp := range c.Counterparties {
		s.counterpartyIdx[cp.CounterpartyID] = i
	}
	for i, b := range c.Budgets {
		s.budgetByCat[b.CategoryID] = i
	}
	return s
}

// Empty returns a snapshot with no data and default settings.
func Empty(userID string) *Snapshot {
	return New(userID, Collections{Settings: domain.DefaultSettings(userID)}, time.Time{})
}

// Version is unique per snapshot within the process and grows with every build.
func (s *Snapshot) Version() uint64 { return s.version }

// UserID is the owner of the snapshot.
func (s *Snapshot) UserID() string { return s.userID }

// FetchedAt is when the data was read from the persistence service.
func (s *Snapshot) FetchedAt() time.Time { return s.fetchedAt }

// Account looks up an account by id.
func (s *Snapshot) Account(id string) (domain.Account, bool) {
	i, ok := s.accountIdx[id]
	if !ok {
		return domain.Account{}, false
	}
	return s.Accounts[i], true
}

// Category looks up a category by id.
func (s *Snapshot) Category(id string) (domain.Category, bool) {
	i, ok := s.categoryIdx[id]
	if !ok {
		return domain.Category{}, false
	}
	return s.Categories[i], true
}

// Counterparty looks up a counterparty by id.
func (s *Snapshot) Counterparty(id string) (domain.Counterparty, bool) {
	i, ok := s.counterpartyIdx[id]
	if !ok {
		return domain.Counterparty{}, false
	}
	return s.Counterparties[i], true
}

// BudgetForCategory returns the budget of a category, if any.
func (s *Snapshot) BudgetForCategory(categoryID string) (domain.Budget, bool) {
	i, ok := s.budgetByCat[categoryID]
	if !ok {
		return domain.Budget{}, false
	}
	return s.Budgets[i], true
}

// Debt looks up a debt by id.
func (s *Snapshot) Debt(id string) (domain.Debt, bool) {
	for _, d := range s.Debts {
		if d.DebtID == id {
			return d, true
		}
	}
	return domain.Debt{}, false
}

// Goal looks up a goal by id.
func (s *Snapshot) Goal(id string) (domain.Goal, bool) {
	for _, g := range s.Goals {
		if g.GoalID == id {
			return g, true
		}
	}
	return domain.Goal{}, false
}

// RecurringDefinition looks up a recurring definition by id.
func (s *Snapshot) RecurringDefinition(id string) (domain.RecurringDefinition, bool) {
	for _, r := range s.Recurring {
		if r.RecurringID == id {
			return r, true
		}
	}
	return domain.RecurringDefinition{}, false
}

// Transaction looks up a transaction by id.
func (s *Snapshot) Transaction(id string) (domain.Transaction, bool) {
	for _, t := range s.Transactions {
		if t.TransactionID == id {
			return t, true
		}
	}
	return domain.Transaction{}, false
}
