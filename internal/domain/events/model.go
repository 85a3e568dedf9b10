package events

import (
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"

	ierr "github.com/revlytics/revlytics/internal/errors"
	"github.com/revlytics/revlytics/internal/types"
)

var jsonit = jsoniter.ConfigCompatibleWithStandardLibrary

// RawEvent is the strict internal shape of a lifecycle event. The source feed is
// loosely typed and may contain duplicates or arrive unsorted; records that fail to
// parse into this shape are skipped at the ingestion boundary, never propagated.
type RawEvent struct {
	ID             string          `json:"id"`
	SubscriptionID string          `json:"subscription_id"`
	CustomerID     string          `json:"customer_id"`
	EventType      string          `json:"event_type"`
	Plan           string          `json:"plan"`
	Amount         decimal.Decimal `json:"amount"`
	EventDate      time.Time       `json:"event_date"`
}

// Validate reports whether the event carries the fields replay depends on
func (e *RawEvent) Validate() error {
	if e.SubscriptionID == "" {
		return ierr.NewError("subscription_id is required").
			Mark(ierr.ErrValidation)
	}
	if e.EventDate.IsZero() {
		return ierr.NewError("event_date is required").
			WithReportableDetails(map[string]interface{}{
				"subscription_id": e.SubscriptionID,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// rawEventPayload is the loosely typed payload column attached to stored events.
// Amount is left untyped because the source feed encodes it as either a JSON
// number or a string.
type rawEventPayload struct {
	Plan   string      `json:"plan"`
	Amount interface{} `json:"amount"`
}

// ParsePayload decodes the stored payload column into plan and amount. An empty
// payload yields zero values without error.
func ParsePayload(payload string) (string, decimal.Decimal, error) {
	if payload == "" {
		return "", decimal.Zero, nil
	}

	var p rawEventPayload
	if err := jsonit.UnmarshalFromString(payload, &p); err != nil {
		return "", decimal.Zero, ierr.WithError(err).
			WithHint("Failed to parse event payload").
			Mark(ierr.ErrValidation)
	}

	amount, err := parseAmount(p.Amount)
	if err != nil {
		return "", decimal.Zero, err
	}

	return p.Plan, amount, nil
}

func parseAmount(raw interface{}) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case nil:
		return decimal.Zero, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return decimal.Zero, nil
		}
		parsed, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero, ierr.WithError(err).
				WithHint("Event payload amount is not a valid number").
				WithReportableDetails(map[string]interface{}{
					"amount": v,
				}).
				Mark(ierr.ErrValidation)
		}
		return parsed, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	default:
		return decimal.Zero, ierr.NewError("event payload amount has unsupported type").
			WithReportableDetails(map[string]interface{}{
				"amount": raw,
			}).
			Mark(ierr.ErrValidation)
	}
}

// BillingRecord is a single qualifying record (sale, renewal or new subscription)
// consumed by series bucketing
type BillingRecord struct {
	Timestamp time.Time            `json:"timestamp"`
	Value     decimal.Decimal      `json:"value"`
	Category  types.SeriesCategory `json:"category"`
}
