package types

import (
	"math"
	"time"

	ierr "github.com/revlytics/revlytics/internal/errors"
)

// WindowSize represents the bucket granularity used when aggregating records into a
// time series
type WindowSize string

const (
	WindowSizeHour  WindowSize = "HOUR"
	WindowSizeDay   WindowSize = "DAY"
	WindowSizeWeek  WindowSize = "WEEK"
	WindowSizeMonth WindowSize = "MONTH"
)

// Bucket key label layouts per window size. Week buckets are labeled by their
// Monday anchor day.
const (
	hourLabelLayout  = "15:04"
	dayLabelLayout   = "02 Jan"
	monthLabelLayout = "Jan 2006"
)

// Validate validates the window size
func (w WindowSize) Validate() error {
	switch w {
	case WindowSizeHour, WindowSizeDay, WindowSizeWeek, WindowSizeMonth:
		return nil
	default:
		return ierr.NewError("invalid window size").
			WithHint("Window size must be one of HOUR, DAY, WEEK, MONTH").
			WithReportableDetails(map[string]interface{}{
				"window_size": w,
			}).
			Mark(ierr.ErrValidation)
	}
}

// WindowSizeForRange picks the bucket granularity for a requested range based on its
// civil-day span (inclusive) in the given location.
//
// The thresholds are a heuristic carried over from observed dashboard behavior, not a
// calendar-exact rule: spans of up to one day bucket hourly, spans of 6-7 days bucket
// weekly (so "last 7 days" and "this calendar week" bucket identically), spans above
// 300 days bucket monthly, and everything else buckets daily.
func WindowSizeForRange(from, to time.Time, loc *time.Location) WindowSize {
	days := civilDaySpan(from, to, loc)

	switch {
	case days <= 1:
		return WindowSizeHour
	case days >= 6 && days <= 7:
		return WindowSizeWeek
	case days > 300:
		return WindowSizeMonth
	default:
		return WindowSizeDay
	}
}

// civilDaySpan returns the inclusive number of civil days between from and to in loc
func civilDaySpan(from, to time.Time, loc *time.Location) int {
	fromDay := WindowSizeDay.Truncate(from, loc)
	toDay := WindowSizeDay.Truncate(to, loc)

	// Rounding absorbs the odd-length days a DST transition produces
	return int(math.Round(toDay.Sub(fromDay).Hours()/24)) + 1
}

// Truncate returns the bucket anchor containing t at this window size, in loc.
// Week buckets anchor to Monday, month buckets to the first of the civil month.
func (w WindowSize) Truncate(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)

	switch w {
	case WindowSizeHour:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, loc)
	case WindowSizeWeek:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		// Weekday is Sunday-based; shift so Monday is the anchor
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case WindowSizeMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	}
}

// Next returns the anchor of the bucket following the one anchored at t
func (w WindowSize) Next(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)

	switch w {
	case WindowSizeHour:
		return t.Add(time.Hour)
	case WindowSizeWeek:
		return t.AddDate(0, 0, 7)
	case WindowSizeMonth:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

// Label formats the bucket key for the bucket anchored at t
func (w WindowSize) Label(t time.Time, loc *time.Location) string {
	t = t.In(loc)

	switch w {
	case WindowSizeHour:
		return t.Format(hourLabelLayout)
	case WindowSizeMonth:
		return t.Format(monthLabelLayout)
	default:
		return t.Format(dayLabelLayout)
	}
}

// BucketKey returns the key of the bucket containing t at this window size
func (w WindowSize) BucketKey(t time.Time, loc *time.Location) string {
	return w.Label(w.Truncate(t, loc), loc)
}

// EnumerateBuckets returns the complete, gap-free, ascending sequence of bucket keys
// covering the inclusive range [from, to] at the given window size. Every key in the
// span is present even when no record falls into it.
func EnumerateBuckets(from, to time.Time, w WindowSize, loc *time.Location) []string {
	end := to.In(loc)

	keys := make([]string, 0)
	for t := w.Truncate(from, loc); !t.After(end); t = w.Next(t, loc) {
		keys = append(keys, w.Label(t, loc))
	}
	return keys
}
