package pgsql

import (
	"testing"
	"time"

	"github.com/SscSPs/moneyflow/internal/core/domain"
	"github.com/SscSPs/moneyflow/internal/core/recurring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalizeRecurring(t *testing.T) {
	tashkent := time.FixedZone("UZT", 5*60*60)

	t.Run("created late in the UTC day counts in the ledger zone", func(t *testing.T) {
		// 20:00 UTC on Jan 31 is already Feb 1 in Tashkent
		d := domain.RecurringDefinition{DayOfMonth: 1}
		d.CreatedAt = time.Date(2026, 1, 31, 20, 0, 0, 0, time.UTC)

		localizeRecurring(&d, tashkent)

		assert.Equal(t, tashkent, d.CreatedAt.Location())
		due := recurring.NextDue(d.Anchor(), d.DayOfMonth)
		assert.True(t, due.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, tashkent)), "got %s", due)
	})

	t.Run("last run is converted too", func(t *testing.T) {
		lastRun := time.Date(2026, 4, 9, 19, 0, 0, 0, time.UTC) // Apr 10 00:00 UZT
		d := domain.RecurringDefinition{DayOfMonth: 10, LastRun: &lastRun}
		d.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

		localizeRecurring(&d, tashkent)

		require.NotNil(t, d.LastRun)
		assert.Equal(t, 10, d.LastRun.Day())
		assert.True(t, lastRun.Equal(*d.LastRun))
		due := recurring.NextDue(d.Anchor(), d.DayOfMonth)
		assert.True(t, due.Equal(time.Date(2026, 5, 10, 0, 0, 0, 0, tashkent)), "got %s", due)
	})
}
