package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/revlytics/revlytics/internal/api/dto"
	"github.com/revlytics/revlytics/internal/domain/events"
	ierr "github.com/revlytics/revlytics/internal/errors"
	"github.com/revlytics/revlytics/internal/types"
)

// SeriesService produces dense time-bucketed aggregate series
type SeriesService interface {
	GetSeries(ctx context.Context, req *dto.SeriesRequest) (*dto.SeriesResponse, error)
}

type seriesService struct {
	ServiceParams
}

// NewSeriesService creates a new series service
func NewSeriesService(params ServiceParams) SeriesService {
	return &seriesService{ServiceParams: params}
}

// GetSeries fetches the qualifying records for the requested category and window,
// picks the bucket granularity from the span unless the request pins one, and
// returns a dense zero-filled series in the reporting timezone.
func (s *seriesService) GetSeries(ctx context.Context, req *dto.SeriesRequest) (*dto.SeriesResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = s.Config.Analytics.ReportingTimezone
	}

	loc, err := types.LoadTimezone(timezone)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load reporting timezone").
			WithReportableDetails(map[string]interface{}{
				"timezone": timezone,
			}).
			Mark(ierr.ErrInternal)
	}

	windowSize := req.WindowSize
	if windowSize == "" {
		windowSize = types.WindowSizeForRange(req.StartTime, req.EndTime, loc)
	}

	records, err := s.EventRepo.FindBillingRecords(ctx, &events.FindRecordsParams{
		Category:  req.Category,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		return nil, err
	}

	return &dto.SeriesResponse{
		Category:    req.Category,
		WindowSize:  windowSize,
		Timezone:    types.ResolveTimezone(timezone),
		Points:      bucketize(records, req.StartTime, req.EndTime, windowSize, loc),
		PeriodStart: req.StartTime,
		PeriodEnd:   req.EndTime,
	}, nil
}

// bucketize assigns each in-range record to its bucket and accumulates count and
// revenue. The result always carries exactly one point per bucket key in the range;
// buckets with no matching records stay at zero. Records outside [from, to] are
// dropped silently.
func bucketize(records []*events.BillingRecord, from, to time.Time, windowSize types.WindowSize, loc *time.Location) []dto.SeriesPoint {
	keys := types.EnumerateBuckets(from, to, windowSize, loc)

	points := make([]dto.SeriesPoint, len(keys))
	index := make(map[string]int, len(keys))
	for i, key := range keys {
		points[i] = dto.SeriesPoint{Bucket: key, Revenue: decimal.Zero}
		index[key] = i
	}

	for _, record := range records {
		if record.Timestamp.Before(from) || record.Timestamp.After(to) {
			continue
		}

		i, ok := index[windowSize.BucketKey(record.Timestamp, loc)]
		if !ok {
			continue
		}

		points[i].Count++
		points[i].Revenue = points[i].Revenue.Add(record.Value)
	}

	return points
}
