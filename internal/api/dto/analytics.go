package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/revlytics/revlytics/internal/domain/subscription"
	ierr "github.com/revlytics/revlytics/internal/errors"
	"github.com/revlytics/revlytics/internal/types"
)

// SubscriptionMetricsRequest asks for portfolio metrics over a reporting window.
// The window scopes new-subscription and cancellation counts only; lifecycle state
// is always reconstructed from the full event history.
type SubscriptionMetricsRequest struct {
	CustomerID string    `json:"customer_id,omitempty"`
	StartTime  time.Time `json:"start_time" validate:"required"`
	EndTime    time.Time `json:"end_time" validate:"required"`
}

// Validate validates the subscription metrics request
func (r *SubscriptionMetricsRequest) Validate() error {
	if err := ValidateRequest(r); err != nil {
		return err
	}
	return validateTimeRange(r.StartTime, r.EndTime)
}

// SubscriptionMetricsResponse holds the derived portfolio metrics
type SubscriptionMetricsResponse struct {
	ActiveSubscriptions int             `json:"active_subscriptions"`
	MRR                 decimal.Decimal `json:"mrr"`
	NewSubscriptions    int             `json:"new_subscriptions"`
	Cancellations       int             `json:"cancellations"`
	ChurnRate           decimal.Decimal `json:"churn_rate"`
	PeriodStart         time.Time       `json:"period_start"`
	PeriodEnd           time.Time       `json:"period_end"`
}

// SeriesRequest asks for one dense bucketized series
type SeriesRequest struct {
	Category  types.SeriesCategory `json:"category" validate:"required"`
	StartTime time.Time            `json:"start_time" validate:"required"`
	EndTime   time.Time            `json:"end_time" validate:"required"`

	// WindowSize overrides the span-based automatic selection when set
	WindowSize types.WindowSize `json:"window_size,omitempty"`

	// Timezone overrides the configured reporting timezone when set
	Timezone string `json:"timezone,omitempty"`
}

// Validate validates the series request
func (r *SeriesRequest) Validate() error {
	if err := ValidateRequest(r); err != nil {
		return err
	}
	if err := r.Category.Validate(); err != nil {
		return err
	}
	if r.WindowSize != "" {
		if err := r.WindowSize.Validate(); err != nil {
			return err
		}
	}
	if r.Timezone != "" {
		if err := types.ValidateTimezone(r.Timezone); err != nil {
			return ierr.WithError(err).
				WithHint("Timezone must be a valid IANA timezone or known abbreviation").
				WithReportableDetails(map[string]interface{}{
					"timezone": r.Timezone,
				}).
				Mark(ierr.ErrValidation)
		}
	}
	return validateTimeRange(r.StartTime, r.EndTime)
}

// SeriesPoint is one bucket of an aggregate series
type SeriesPoint struct {
	Bucket  string          `json:"bucket"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// SeriesResponse holds a dense series: exactly one point per bucket key in the
// requested range, zero-filled where no record matched
type SeriesResponse struct {
	Category    types.SeriesCategory `json:"category"`
	WindowSize  types.WindowSize     `json:"window_size"`
	Timezone    string               `json:"timezone"`
	Points      []SeriesPoint        `json:"points"`
	PeriodStart time.Time            `json:"period_start"`
	PeriodEnd   time.Time            `json:"period_end"`
}

// DashboardRequest asks for the combined dashboard payload
type DashboardRequest struct {
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
	Timezone  string    `json:"timezone,omitempty"`
}

// Validate validates the dashboard request
func (r *DashboardRequest) Validate() error {
	if err := ValidateRequest(r); err != nil {
		return err
	}
	return validateTimeRange(r.StartTime, r.EndTime)
}

// DashboardResponse aggregates the dashboard sections. Sections that failed to
// compute are omitted rather than failing the whole response.
type DashboardResponse struct {
	Metrics          *SubscriptionMetricsResponse `json:"metrics,omitempty"`
	Sales            *SeriesResponse              `json:"sales,omitempty"`
	NewSubscriptions *SeriesResponse              `json:"new_subscriptions,omitempty"`
}

// SubscriptionStatesRequest asks for reconstructed per-subscription states
type SubscriptionStatesRequest struct {
	CustomerID string `json:"customer_id,omitempty"`

	// ActiveOnly restricts the listing to currently active subscriptions
	ActiveOnly bool `json:"active_only,omitempty"`
}

// SubscriptionStatesResponse lists reconstructed states, newest first
type SubscriptionStatesResponse struct {
	Items      []*subscription.State `json:"items"`
	TotalCount int                   `json:"total_count"`
}

func validateTimeRange(start, end time.Time) error {
	if end.Before(start) {
		return ierr.NewError("end_time must not be before start_time").
			WithHint("The requested range is inverted").
			WithReportableDetails(map[string]interface{}{
				"start_time": start,
				"end_time":   end,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
