package subscription

import (
	"time"

	"github.com/shopspring/decimal"
)

// State is the reconstructed current status of one subscription. It is a pure
// function of the full event set at call time and is never persisted, which keeps
// recomputation idempotent.
type State struct {
	SubscriptionID string          `json:"subscription_id"`
	CustomerID     string          `json:"customer_id"`
	Plan           string          `json:"plan"`
	Amount         decimal.Decimal `json:"amount"`
	IsActive       bool            `json:"is_active"`

	// CreatedAt is the event date of the first lifecycle-start event, falling back
	// to the earliest event for the subscription when no start event exists
	CreatedAt time.Time `json:"created_at"`

	// LastEventAt / LastEventType track the chronologically last event regardless
	// of whether it classified into a semantic category
	LastEventAt   time.Time `json:"last_event_at"`
	LastEventType string    `json:"last_event_type"`
}
