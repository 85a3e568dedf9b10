package subscription

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/revlytics/revlytics/internal/domain/events"
	"github.com/revlytics/revlytics/internal/logger"
	"github.com/revlytics/revlytics/internal/types"
)

// Reconstructor replays lifecycle events per subscription to derive current state.
// It holds no mutable state of its own and is safe for concurrent use.
type Reconstructor struct {
	classifier *events.Classifier
	logger     *logger.Logger
}

// NewReconstructor creates a reconstructor using the given classifier
func NewReconstructor(classifier *events.Classifier, log *logger.Logger) *Reconstructor {
	return &Reconstructor{
		classifier: classifier,
		logger:     log,
	}
}

// Reconstruct groups events by subscription, sorts each group chronologically and
// replays it into one State per subscription. Malformed events (missing id or date)
// are skipped with a warning. The per-subscription result does not depend on the
// order events arrive in: groups are stably sorted by event date before replay, with
// input order only breaking exact-timestamp ties.
func (r *Reconstructor) Reconstruct(evts []*events.RawEvent) map[string]*State {
	groups := make(map[string][]*events.RawEvent)
	skipped := 0

	for _, e := range evts {
		if err := e.Validate(); err != nil {
			skipped++
			continue
		}
		groups[e.SubscriptionID] = append(groups[e.SubscriptionID], e)
	}

	if skipped > 0 && r.logger != nil {
		r.logger.Warnw("skipped malformed lifecycle events during reconstruction",
			"skipped", skipped,
			"total", len(evts),
		)
	}

	states := make(map[string]*State, len(groups))
	for id, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].EventDate.Before(group[j].EventDate)
		})
		states[id] = r.replay(id, group)
	}

	return states
}

// replay folds a chronologically sorted event group into a State
func (r *Reconstructor) replay(subscriptionID string, group []*events.RawEvent) *State {
	state := &State{
		SubscriptionID: subscriptionID,
		Amount:         decimal.Zero,
	}

	createdAtSet := false

	for _, e := range group {
		if state.CustomerID == "" {
			state.CustomerID = e.CustomerID
		}

		if category, ok := r.classifier.Classify(e.EventType); ok {
			switch category {
			case types.EventCategoryLifecycleStart:
				state.IsActive = true
				state.Plan = e.Plan
				state.Amount = e.Amount
				if !createdAtSet {
					state.CreatedAt = e.EventDate
					createdAtSet = true
				}

			case types.EventCategoryRecurringPayment:
				state.IsActive = true
				state.Amount = e.Amount
				if e.Plan != "" {
					state.Plan = e.Plan
				}

			case types.EventCategoryLifecycleEnd:
				// Plan and amount stay untouched so a later payment can
				// reactivate with the previous terms
				state.IsActive = false
			}
		}

		// Unclassified events still count as the last thing that happened
		state.LastEventAt = e.EventDate
		state.LastEventType = e.EventType
	}

	// No explicit start seen: anchor creation to the earliest event
	if !createdAtSet {
		state.CreatedAt = group[0].EventDate
	}

	return state
}
