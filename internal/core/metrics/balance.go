// Package metrics derives every displayed figure from a ledger snapshot.
// The functions are pure: they read the snapshot and an explicit "now" and never touch storage.
package metrics

import (
	"sort"
	"strings"

	"github.com/SscSPs/moneyflow/internal/core/domain"
	"github.com/SscSPs/moneyflow/internal/core/snapshot"
	"github.com/shopspring/decimal"
)

// divisionPrecision is the number of decimal places kept when a ratio is computed.
const divisionPrecision = 8

// AccountBalance sums the signed amounts of every transaction on the account,
// in the account's own currency. An account without transactions has balance zero.
func AccountBalance(snap *snapshot.Snapshot, accountID string) decimal.Decimal {
	total := decimal.Zero
	for _, t := range snap.Transactions {
		if t.AccountID == accountID {
			total = total.Add(t.SignedAmount())
		}
	}
	return total
}

// AccountBalances computes the balance of every account in one pass over the transactions.
func AccountBalances(snap *snapshot.Snapshot) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(snap.Accounts))
	for _, a := range snap.Accounts {
		out[a.AccountID] = decimal.Zero
	}
	for _, t := range snap.Transactions {
		out[t.AccountID] = out[t.AccountID].Add(t.SignedAmount())
	}
	return out
}

// Convert expresses amount, held in currency from, in currency to:
// amount * rate[from] / rate[to]. Equal codes return amount unchanged whatever the rates.
// The base currency and codes without a usable rate count as rate 1.
func Convert(amount decimal.Decimal, from, to string, settings domain.Settings) decimal.Decimal {
	if strings.EqualFold(from, to) {
		return amount
	}
	rf, _ := settings.Rate(from)
	rt, _ := settings.Rate(to)
	return amount.Mul(rf).DivRound(rt, divisionPrecision)
}

// TotalBalanceInBaseCurrency converts every account balance to the base currency and sums them.
// Currencies without a rate are converted at 1 and listed in MissingRates.
func TotalBalanceInBaseCurrency(snap *snapshot.Snapshot) domain.TotalBalance {
	return totalFromBalances(snap, AccountBalances(snap))
}

func totalFromBalances(snap *snapshot.Snapshot, balances map[string]decimal.Decimal) domain.TotalBalance {
	settings := snap.Settings
	base := settings.BaseCurrency
	res := domain.TotalBalance{
		BaseCurrency: base,
		Total:        decimal.Zero,
		Accounts:     make([]domain.AccountBalance, 0, len(snap.Accounts)),
	}
	missing := map[string]struct{}{}
	for _, a := range snap.Accounts {
		bal := balances[a.AccountID]
		if _, ok := settings.Rate(a.CurrencyCode); !ok && !strings.EqualFold(a.CurrencyCode, base) {
			missing[strings.ToUpper(a.CurrencyCode)] = struct{}{}
		}
		inBase := Convert(bal, a.CurrencyCode, base, settings)
		res.Total = res.Total.Add(inBase)
		res.Accounts = append(res.Accounts, domain.AccountBalance{
			Account:     a,
			Balance:     bal,
			BaseBalance: inBase,
		})
	}
	for code := range missing {
		res.MissingRates = append(res.MissingRates, code)
	}
	sort.Strings(res.MissingRates)
	return res
}

// baseAmount is the transaction amount expressed in the base currency, using the
// currency of the account it is booked on. Dangling accounts are taken as base.
func baseAmount(snap *snapshot.Snapshot, t domain.Transaction) decimal.Decimal {
	acc, ok := snap.Account(t.AccountID)
	if !ok {
		return t.Amount
	}
	return Convert(t.Amount, acc.CurrencyCode, snap.Settings.BaseCurrency, snap.Settings)
}
