package service

import (
	"context"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc"

	"github.com/revlytics/revlytics/internal/api/dto"
	"github.com/revlytics/revlytics/internal/domain/events"
	"github.com/revlytics/revlytics/internal/domain/subscription"
	"github.com/revlytics/revlytics/internal/types"
)

// DashboardService derives portfolio-level subscription metrics and the combined
// dashboard payload
type DashboardService interface {
	GetSubscriptionMetrics(ctx context.Context, req *dto.SubscriptionMetricsRequest) (*dto.SubscriptionMetricsResponse, error)
	ListSubscriptionStates(ctx context.Context, req *dto.SubscriptionStatesRequest) (*dto.SubscriptionStatesResponse, error)
	GetDashboard(ctx context.Context, req *dto.DashboardRequest) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	ServiceParams
	reconstructor *subscription.Reconstructor
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(params ServiceParams) DashboardService {
	return &dashboardService{
		ServiceParams: params,
		reconstructor: subscription.NewReconstructor(params.Classifier, params.Logger),
	}
}

// GetSubscriptionMetrics computes active count, MRR, new-in-period, cancellations
// and churn for the requested window. State is always reconstructed from the full
// event history: an event outside the window can still decide whether a
// subscription is active inside it.
func (s *dashboardService) GetSubscriptionMetrics(ctx context.Context, req *dto.SubscriptionMetricsRequest) (*dto.SubscriptionMetricsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	evts, err := s.EventRepo.FindLifecycleEvents(ctx, &events.FindEventsParams{
		CustomerID: req.CustomerID,
	})
	if err != nil {
		return nil, err
	}

	states := s.reconstructor.Reconstruct(evts)

	response := &dto.SubscriptionMetricsResponse{
		MRR:         decimal.Zero,
		ChurnRate:   decimal.Zero,
		PeriodStart: req.StartTime,
		PeriodEnd:   req.EndTime,
	}

	for _, state := range states {
		if !state.IsActive {
			continue
		}
		response.ActiveSubscriptions++
		response.MRR = response.MRR.Add(state.Amount)
		if inRange(state.CreatedAt, req.StartTime, req.EndTime) {
			response.NewSubscriptions++
		}
	}

	// Cancellations are counted at the event level: duplicate cancel events for one
	// subscription inflate this count and the churn denominator, but they can never
	// affect the active-state counts above.
	for _, e := range evts {
		if e.Validate() != nil || !inRange(e.EventDate, req.StartTime, req.EndTime) {
			continue
		}
		if category, ok := s.Classifier.Classify(e.EventType); ok && category == types.EventCategoryLifecycleEnd {
			response.Cancellations++
		}
	}

	denominator := response.ActiveSubscriptions + response.Cancellations
	if denominator > 0 {
		response.ChurnRate = decimal.NewFromInt(int64(response.Cancellations)).
			Div(decimal.NewFromInt(int64(denominator)))
	}

	return response, nil
}

// ListSubscriptionStates exposes reconstructed states for per-entity status
// listings, newest first
func (s *dashboardService) ListSubscriptionStates(ctx context.Context, req *dto.SubscriptionStatesRequest) (*dto.SubscriptionStatesResponse, error) {
	evts, err := s.EventRepo.FindLifecycleEvents(ctx, &events.FindEventsParams{
		CustomerID: req.CustomerID,
	})
	if err != nil {
		return nil, err
	}

	states := s.reconstructor.Reconstruct(evts)

	items := lo.Filter(lo.Values(states), func(state *subscription.State, _ int) bool {
		return !req.ActiveOnly || state.IsActive
	})

	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].SubscriptionID < items[j].SubscriptionID
	})

	return &dto.SubscriptionStatesResponse{
		Items:      items,
		TotalCount: len(items),
	}, nil
}

// GetDashboard assembles the combined dashboard payload. Sections are fetched
// concurrently and degrade independently: a failed section is logged and omitted
// rather than failing the whole response.
func (s *dashboardService) GetDashboard(ctx context.Context, req *dto.DashboardRequest) (*dto.DashboardResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	seriesService := NewSeriesService(s.ServiceParams)
	response := &dto.DashboardResponse{}

	var wg conc.WaitGroup

	wg.Go(func() {
		metrics, err := s.GetSubscriptionMetrics(ctx, &dto.SubscriptionMetricsRequest{
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
		})
		if err != nil {
			s.Logger.Errorw("failed to get subscription metrics", "error", err)
			return
		}
		response.Metrics = metrics
	})

	wg.Go(func() {
		sales, err := seriesService.GetSeries(ctx, &dto.SeriesRequest{
			Category:  types.SeriesCategorySales,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			Timezone:  req.Timezone,
		})
		if err != nil {
			s.Logger.Errorw("failed to get sales series", "error", err)
			return
		}
		response.Sales = sales
	})

	wg.Go(func() {
		newSubs, err := seriesService.GetSeries(ctx, &dto.SeriesRequest{
			Category:  types.SeriesCategoryNewSubscriptions,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			Timezone:  req.Timezone,
		})
		if err != nil {
			s.Logger.Errorw("failed to get new subscriptions series", "error", err)
			return
		}
		response.NewSubscriptions = newSubs
	})

	wg.Wait()

	return response, nil
}

// inRange reports whether t falls within [start, end] inclusive
func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
