package clickhouse

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/revlytics/revlytics/internal/clickhouse"
	"github.com/revlytics/revlytics/internal/domain/events"
	ierr "github.com/revlytics/revlytics/internal/errors"
	"github.com/revlytics/revlytics/internal/logger"
	"github.com/revlytics/revlytics/internal/types"
)

const defaultBatchSize = 10000

type LifecycleEventRepository struct {
	store  *clickhouse.ClickHouseStore
	logger *logger.Logger
}

func NewLifecycleEventRepository(store *clickhouse.ClickHouseStore, logger *logger.Logger) events.Repository {
	return &LifecycleEventRepository{store: store, logger: logger}
}

// FindLifecycleEvents finds lifecycle events with filtering.
// Query follows the table structure:
// - ORDER BY: (subscription_id, event_date, id)
// - PARTITION BY: toYYYYMM(event_date)
// - ENGINE: ReplacingMergeTree(version)
func (r *LifecycleEventRepository) FindLifecycleEvents(ctx context.Context, params *events.FindEventsParams) ([]*events.RawEvent, error) {
	query := `
		SELECT
			id, subscription_id, customer_id, event_type, payload, event_date
		FROM subscription_events
		WHERE 1 = 1
	`

	args := []interface{}{}

	if params.CustomerID != "" {
		query += " AND customer_id = ?"
		args = append(args, params.CustomerID)
	}

	if len(params.SubscriptionIDs) > 0 {
		query += " AND subscription_id IN ?"
		args = append(args, params.SubscriptionIDs)
	}

	if !params.StartTime.IsZero() {
		query += " AND event_date >= ?"
		args = append(args, params.StartTime)
	}

	if !params.EndTime.IsZero() {
		query += " AND event_date <= ?"
		args = append(args, params.EndTime)
	}

	// Ascending order so callers that replay do not depend on store defaults
	query += " ORDER BY subscription_id, event_date, id"

	if params.BatchSize > 0 {
		query += " LIMIT ?"
		args = append(args, params.BatchSize)
	} else {
		query += " LIMIT ?"
		args = append(args, defaultBatchSize)
	}

	rows, err := r.store.GetConn().Query(ctx, query, args...)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to query subscription events").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	eventsList := make([]*events.RawEvent, 0)
	skipped := 0

	for rows.Next() {
		var (
			event   events.RawEvent
			payload string
		)

		if err := rows.Scan(
			&event.ID,
			&event.SubscriptionID,
			&event.CustomerID,
			&event.EventType,
			&payload,
			&event.EventDate,
		); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan subscription event row").
				Mark(ierr.ErrDatabase)
		}

		plan, amount, err := events.ParsePayload(payload)
		if err != nil {
			// One bad record must not invalidate the whole read
			skipped++
			r.logger.Warnw("skipping event with malformed payload",
				"event_id", event.ID,
				"subscription_id", event.SubscriptionID,
				"error", err,
			)
			continue
		}
		event.Plan = plan
		event.Amount = amount

		if err := event.Validate(); err != nil {
			skipped++
			r.logger.Warnw("skipping malformed event",
				"event_id", event.ID,
				"error", err,
			)
			continue
		}

		eventsList = append(eventsList, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to iterate subscription event rows").
			Mark(ierr.ErrDatabase)
	}

	if skipped > 0 {
		r.logger.Warnw("skipped malformed subscription events",
			"skipped", skipped,
			"returned", len(eventsList),
		)
	}

	return eventsList, nil
}

// FindBillingRecords finds the qualifying records for series bucketing. The store
// keeps one row per qualifying record with its category dimension precomputed at
// ingestion.
func (r *LifecycleEventRepository) FindBillingRecords(ctx context.Context, params *events.FindRecordsParams) ([]*events.BillingRecord, error) {
	query := `
		SELECT
			category, timestamp, value
		FROM billing_records
		WHERE 1 = 1
	`

	args := []interface{}{}

	if params.Category != "" {
		query += " AND category = ?"
		args = append(args, string(params.Category))
	}

	if !params.StartTime.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, params.StartTime)
	}

	if !params.EndTime.IsZero() {
		query += " AND timestamp <= ?"
		args = append(args, params.EndTime)
	}

	query += " ORDER BY timestamp"

	rows, err := r.store.GetConn().Query(ctx, query, args...)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to query billing records").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	records := make([]*events.BillingRecord, 0)
	skipped := 0

	for rows.Next() {
		var (
			category  string
			timestamp time.Time
			value     string
		)

		if err := rows.Scan(&category, &timestamp, &value); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan billing record row").
				Mark(ierr.ErrDatabase)
		}

		amount, err := decimal.NewFromString(value)
		if err != nil {
			skipped++
			r.logger.Warnw("skipping billing record with malformed value",
				"value", value,
				"error", err,
			)
			continue
		}

		records = append(records, &events.BillingRecord{
			Category:  types.SeriesCategory(category),
			Timestamp: timestamp,
			Value:     amount,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to iterate billing record rows").
			Mark(ierr.ErrDatabase)
	}

	if skipped > 0 {
		r.logger.Warnw("skipped malformed billing records",
			"skipped", skipped,
			"returned", len(records),
		)
	}

	return records, nil
}
