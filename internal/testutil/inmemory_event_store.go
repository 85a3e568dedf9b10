package testutil

import (
	"context"
	"sync"

	"github.com/samber/lo"

	"github.com/revlytics/revlytics/internal/domain/events"
)

// InMemoryEventStore implements events.Repository for tests
type InMemoryEventStore struct {
	mu      sync.RWMutex
	events  []*events.RawEvent
	records []*events.BillingRecord
	err     error
}

// NewInMemoryEventStore creates a new in-memory event store
func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		events:  make([]*events.RawEvent, 0),
		records: make([]*events.BillingRecord, 0),
	}
}

// InsertEvents appends lifecycle events to the store
func (s *InMemoryEventStore) InsertEvents(evts ...*events.RawEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evts...)
}

// InsertBillingRecords appends billing records to the store
func (s *InMemoryEventStore) InsertBillingRecords(records ...*events.BillingRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
}

// SetError makes every subsequent read fail with err, simulating an upstream
// fetch failure
func (s *InMemoryEventStore) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Clear removes all stored data and any configured error
func (s *InMemoryEventStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make([]*events.RawEvent, 0)
	s.records = make([]*events.BillingRecord, 0)
	s.err = nil
}

// FindLifecycleEvents implements events.Repository
func (s *InMemoryEventStore) FindLifecycleEvents(_ context.Context, params *events.FindEventsParams) ([]*events.RawEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return nil, s.err
	}

	filtered := lo.Filter(s.events, func(e *events.RawEvent, _ int) bool {
		if params.CustomerID != "" && e.CustomerID != params.CustomerID {
			return false
		}
		if len(params.SubscriptionIDs) > 0 && !lo.Contains(params.SubscriptionIDs, e.SubscriptionID) {
			return false
		}
		if !params.StartTime.IsZero() && e.EventDate.Before(params.StartTime) {
			return false
		}
		if !params.EndTime.IsZero() && e.EventDate.After(params.EndTime) {
			return false
		}
		return true
	})

	if params.BatchSize > 0 && len(filtered) > params.BatchSize {
		filtered = filtered[:params.BatchSize]
	}

	return lo.Map(filtered, func(e *events.RawEvent, _ int) *events.RawEvent {
		return copyRawEvent(e)
	}), nil
}

// FindBillingRecords implements events.Repository
func (s *InMemoryEventStore) FindBillingRecords(_ context.Context, params *events.FindRecordsParams) ([]*events.BillingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return nil, s.err
	}

	filtered := lo.Filter(s.records, func(r *events.BillingRecord, _ int) bool {
		if params.Category != "" && r.Category != params.Category {
			return false
		}
		if !params.StartTime.IsZero() && r.Timestamp.Before(params.StartTime) {
			return false
		}
		if !params.EndTime.IsZero() && r.Timestamp.After(params.EndTime) {
			return false
		}
		return true
	})

	return lo.Map(filtered, func(r *events.BillingRecord, _ int) *events.BillingRecord {
		copied := *r
		return &copied
	}), nil
}

func copyRawEvent(e *events.RawEvent) *events.RawEvent {
	if e == nil {
		return nil
	}
	copied := *e
	return &copied
}
