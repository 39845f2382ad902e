package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/SscSPs/moneyflow/internal/core/domain"
	"github.com/SscSPs/moneyflow/internal/core/snapshot"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/shopspring/decimal"
)

// DefaultCacheSize is used when NewEngine is given a non-positive size.
const DefaultCacheSize = 256

type cacheKey struct {
	version uint64
	name    string
}

// Engine memoizes the time-independent figures of a snapshot, keyed by snapshot version.
// When a user's snapshot version moves on, the entries of the older version are dropped.
// Everything that depends on "now" is recomputed on each call.
type Engine struct {
	cache *lru.Cache[cacheKey, any]

	mu     sync.Mutex
	latest map[string]uint64
}

// NewEngine builds an engine holding at most size memoized results.
func NewEngine(size int) (*Engine, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[cacheKey, any](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics cache: %w", err)
	}
	return &Engine{cache: cache, latest: map[string]uint64{}}, nil
}

// observe records snap as the user's latest version, purging the previous one.
// It reports false when a newer version has already been seen.
func (e *Engine) observe(snap *snapshot.Snapshot) bool {
	e.mu.Lock()
	prev, seen := e.latest[snap.UserID()]
	if seen && prev >= snap.Version() {
		e.mu.Unlock()
		return prev == snap.Version()
	}
	e.latest[snap.UserID()] = snap.Version()
	e.mu.Unlock()

	if !seen {
		return true
	}
	for _, k := range e.cache.Keys() {
		if k.version == prev {
			e.cache.Remove(k)
		}
	}
	return true
}

func memo[T any](e *Engine, snap *snapshot.Snapshot, name string, compute func() T) T {
	current := e.observe(snap)
	key := cacheKey{version: snap.Version(), name: name}
	if v, ok := e.cache.Get(key); ok {
		return v.(T)
	}
	v := compute()
	if current {
		e.cache.Add(key, v)
	}
	return v
}

// Balances returns every account balance of the snapshot. The map must not be modified.
func (e *Engine) Balances(snap *snapshot.Snapshot) map[string]decimal.Decimal {
	return memo(e, snap, "balances", func() map[string]decimal.Decimal {
		return AccountBalances(snap)
	})
}

// AccountBalance returns the memoized balance of one account.
func (e *Engine) AccountBalance(snap *snapshot.Snapshot, accountID string) decimal.Decimal {
	if b, ok := e.Balances(snap)[accountID]; ok {
		return b
	}
	return decimal.Zero
}

// TotalBalance returns the memoized total in the base currency.
func (e *Engine) TotalBalance(snap *snapshot.Snapshot) domain.TotalBalance {
	return memo(e, snap, "total", func() domain.TotalBalance {
		return totalFromBalances(snap, e.Balances(snap))
	})
}

// Runway computes the burn-rate runway against the memoized total.
func (e *Engine) Runway(snap *snapshot.Snapshot, now time.Time) domain.Runway {
	return runwayFromTotal(snap, e.TotalBalance(snap).Total, now)
}

// Len reports how many results are memoized.
func (e *Engine) Len() int {
	return e.cache.Len()
}
