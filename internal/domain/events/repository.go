package events

import (
	"context"
	"time"

	"github.com/revlytics/revlytics/internal/types"
)

// Repository defines the read-only contract against the external record store.
// Writes, delivery guarantees and retry policy all live upstream of this interface.
type Repository interface {
	// FindLifecycleEvents returns lifecycle events matching the params. Callers that
	// reconstruct state must fetch the full per-entity history (no time filter),
	// since replay correctness depends on events outside any reporting window.
	FindLifecycleEvents(ctx context.Context, params *FindEventsParams) ([]*RawEvent, error)

	// FindBillingRecords returns the qualifying records for series bucketing
	FindBillingRecords(ctx context.Context, params *FindRecordsParams) ([]*BillingRecord, error)
}

// FindEventsParams filters lifecycle event reads
type FindEventsParams struct {
	// CustomerID filters by customer when non-empty
	CustomerID string

	// SubscriptionIDs filters by specific subscription IDs when non-empty
	SubscriptionIDs []string

	// StartTime / EndTime bound event_date when non-zero
	StartTime time.Time
	EndTime   time.Time

	// BatchSize caps the number of returned events; zero means the store default
	BatchSize int
}

// FindRecordsParams filters billing record reads
type FindRecordsParams struct {
	Category  types.SeriesCategory
	StartTime time.Time
	EndTime   time.Time
}
