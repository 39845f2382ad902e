package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/SscSPs/moneyflow/internal/apperrors"
	"github.com/SscSPs/moneyflow/internal/core/domain"
	"github.com/SscSPs/moneyflow/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ErrSuperseded is returned by a refresh whose result was discarded because a newer
// refresh started before it completed. The newer refresh carries its collections.
var ErrSuperseded = errors.New("snapshot refresh superseded")

// Manager owns the current snapshot of one user and rebuilds it on demand.
// Readers always see a complete snapshot; a failed refresh leaves the previous one in place.
type Manager struct {
	userID string
	reader repositories.LedgerReader
	now    func() time.Time

	mu       sync.Mutex
	current  *Snapshot
	gen      uint64
	inflight context.CancelFunc
	pending  map[Collection]struct{}
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithClock overrides the time source used for FetchedAt.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a manager holding an empty snapshot. Call Refresh to load data.
func NewManager(userID string, reader repositories.LedgerReader, opts ...ManagerOption) *Manager {
	m := &Manager{
		userID:  userID,
		reader:  reader,
		now:     time.Now,
		current: Empty(userID),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// UserID is the owner of the managed snapshots.
func (m *Manager) UserID() string { return m.userID }

// Current returns the latest installed snapshot. It is never nil.
func (m *Manager) Current() *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Refresh re-reads every collection and installs a new snapshot.
func (m *Manager) Refresh(ctx context.Context) (*Snapshot, error) {
	return m.RefreshCollections(ctx, AllCollections...)
}

// RefreshCollections re-reads the named collections and installs a new snapshot that
// copies every other collection from the current one.
func (m *Manager) RefreshCollections(ctx context.Context, cols ...Collection) (*Snapshot, error) {
	if len(cols) == 0 {
		return m.Current(), nil
	}

	fetchCtx, gen, want := m.begin(ctx, cols)

	fetched, err := m.fetch(fetchCtx, want)

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return nil, ErrSuperseded
	}
	m.inflight()
	m.inflight = nil
	m.pending = nil
	if err != nil {
		return nil, apperrors.Transient("refresh snapshot", err)
	}

	merged := m.current.Collections
	for c := range want {
		merged.assign(c, fetched)
	}
	m.current = New(m.userID, merged, m.now())
	return m.current, nil
}

// begin registers a new refresh generation. Collections still pending from a refresh
// that is about to be cancelled are folded into this one so no requested read is lost.
func (m *Manager) begin(ctx context.Context, cols []Collection) (context.Context, uint64, map[Collection]struct{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	want := make(map[Collection]struct{}, len(cols)+len(m.pending))
	for c := range m.pending {
		want[c] = struct{}{}
	}
	for _, c := range cols {
		want[c] = struct{}{}
	}
	if m.inflight != nil {
		m.inflight()
	}

	fetchCtx, cancel := context.WithCancel(ctx)
	m.gen++
	m.inflight = cancel
	m.pending = want
	return fetchCtx, m.gen, want
}

func (m *Manager) fetch(ctx context.Context, want map[Collection]struct{}) (Collections, error) {
	var out Collections
	g, gctx := errgroup.WithContext(ctx)
	uid := m.userID

	// each goroutine writes a distinct field of out
	for c := range want {
		c := c
		switch c {
		case Accounts:
			g.Go(func() (err error) {
				out.Accounts, err = m.reader.ListAccounts(gctx, uid)
				return wrapRead(c, err)
			})
		case Categories:
			g.Go(func() (err error) {
				out.Categories, err = m.reader.ListCategories(gctx, uid)
				return wrapRead(c, err)
			})
		case Counterparties:
			g.Go(func() (err error) {
				out.Counterparties, err = m.reader.ListCounterparties(gctx, uid)
				return wrapRead(c, err)
			})
		case Transactions:
			g.Go(func() (err error) {
				out.Transactions, err = m.reader.ListTransactions(gctx, uid)
				return wrapRead(c, err)
			})
		case Budgets:
			g.Go(func() (err error) {
				out.Budgets, err = m.reader.ListBudgets(gctx, uid)
				return wrapRead(c, err)
			})
		case Debts:
			g.Go(func() (err error) {
				out.Debts, err = m.reader.ListDebts(gctx, uid)
				return wrapRead(c, err)
			})
		case Recurring:
			g.Go(func() (err error) {
				out.Recurring, err = m.reader.ListRecurringDefinitions(gctx, uid)
				return wrapRead(c, err)
			})
		case Goals:
			g.Go(func() (err error) {
				out.Goals, err = m.reader.ListGoals(gctx, uid)
				return wrapRead(c, err)
			})
		case Settings:
			g.Go(func() error {
				s, err := m.reader.GetSettings(gctx, uid)
				switch {
				case errors.Is(err, apperrors.ErrNotFound):
					out.Settings = domain.DefaultSettings(uid)
					return nil
				case err != nil:
					return wrapRead(c, err)
				}
				if s.CurrencyRates == nil {
					s.CurrencyRates = map[string]decimal.Decimal{}
				}
				out.Settings = *s
				return nil
			})
		default:
			return Collections{}, fmt.Errorf("unknown collection %q", c)
		}
	}
	if err := g.Wait(); err != nil {
		return Collections{}, err
	}
	return out, nil
}

func wrapRead(c Collection, err error) error {
	if err != nil {
		return fmt.Errorf("read %s: %w", c, err)
	}
	return nil
}

func (c *Collections) assign(col Collection, from Collections) {
	switch col {
	case Accounts:
		c.Accounts = from.Accounts
	case Categories:
		c.Categories = from.Categories
	case Counterparties:
		c.Counterparties = from.Counterparties
	case Transactions:
		c.Transactions = from.Transactions
	case Budgets:
		c.Budgets = from.Budgets
	case Debts:
		c.Debts = from.Debts
	case Recurring:
		c.Recurring = from.Recurring
	case Goals:
		c.Goals = from.Goals
	case Settings:
		c.Settings = from.Settings
	}
}
