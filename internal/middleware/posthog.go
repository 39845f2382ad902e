package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ledgerEventKey holds the event a handler recorded for the current request.
const ledgerEventKey = "ledgerEvent"

// Ledger events captured for usage analytics.
const (
	EventTransferCreated   = "transfer_created"
	EventDebtPayment       = "debt_payment_recorded"
	EventGoalTopUp         = "goal_topped_up"
	EventRecurringBackfill = "recurring_backfilled"
	EventRatesSynced       = "rates_synced"
)

// EventSink receives analytics events. *utils.PosthogClientWrapper satisfies it.
type EventSink interface {
	IsInitialized() bool
	Enqueue(distinctID string, event string, properties map[string]any)
}

type ledgerEvent struct {
	name  string
	props map[string]any
}

// RecordLedgerEvent marks the request as having produced a ledger event. It is
// sent by PosthogMiddleware only if the request finishes without error.
func RecordLedgerEvent(c *gin.Context, name string, props map[string]any) {
	if props == nil {
		props = make(map[string]any)
	}
	c.Set(ledgerEventKey, ledgerEvent{name: name, props: props})
}

// PosthogMiddleware sends the ledger event recorded by the handler, if any, for
// the authenticated user. Requests without a recorded event are not tracked.
func PosthogMiddleware(sink EventSink) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if sink == nil || !sink.IsInitialized() {
			return
		}
		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		v, ok := c.Get(ledgerEventKey)
		if !ok {
			return
		}
		event, ok := v.(ledgerEvent)
		if !ok {
			return
		}
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			return
		}

		event.props["route"] = c.FullPath()
		event.props["status_code"] = c.Writer.Status()
		sink.Enqueue(userID, event.name, event.props)
	}
}
