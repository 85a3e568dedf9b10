package types

import ierr "github.com/revlytics/revlytics/internal/errors"

// SeriesCategory selects which qualifying records a bucketized series is built from
type SeriesCategory string

const (
	SeriesCategorySales            SeriesCategory = "sales"
	SeriesCategoryRenewals         SeriesCategory = "renewals"
	SeriesCategoryNewSubscriptions SeriesCategory = "new_subscriptions"
)

// Validate validates the series category
func (c SeriesCategory) Validate() error {
	switch c {
	case SeriesCategorySales, SeriesCategoryRenewals, SeriesCategoryNewSubscriptions:
		return nil
	default:
		return ierr.NewError("invalid series category").
			WithHint("Category must be one of sales, renewals, new_subscriptions").
			WithReportableDetails(map[string]interface{}{
				"category": c,
			}).
			Mark(ierr.ErrValidation)
	}
}
