package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/revlytics/revlytics/internal/api/dto"
	"github.com/revlytics/revlytics/internal/domain/events"
	ierr "github.com/revlytics/revlytics/internal/errors"
	"github.com/revlytics/revlytics/internal/testutil"
	"github.com/revlytics/revlytics/internal/types"
)

type SeriesServiceSuite struct {
	testutil.BaseServiceTestSuite
	service SeriesService
}

func TestSeriesService(t *testing.T) {
	suite.Run(t, new(SeriesServiceSuite))
}

func (s *SeriesServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewSeriesService(ServiceParams{
		Logger:     s.GetLogger(),
		Config:     s.GetConfig(),
		EventRepo:  s.GetEventStore(),
		Classifier: s.GetClassifier(),
	})
}

func (s *SeriesServiceSuite) billingRecord(category types.SeriesCategory, value float64, at time.Time) *events.BillingRecord {
	return &events.BillingRecord{
		Category:  category,
		Value:     decimal.NewFromFloat(value),
		Timestamp: at,
	}
}

func (s *SeriesServiceSuite) TestDenseSeriesWithZeroFill() {
	mar := func(d, h int) time.Time {
		return time.Date(2024, 3, d, h, 0, 0, 0, time.UTC)
	}
	s.GetEventStore().InsertBillingRecords(
		s.billingRecord(types.SeriesCategorySales, 10, mar(1, 9)),
		s.billingRecord(types.SeriesCategorySales, 15, mar(1, 17)),
		s.billingRecord(types.SeriesCategorySales, 20, mar(3, 12)),
	)

	response, err := s.service.GetSeries(s.GetContext(), &dto.SeriesRequest{
		Category:  types.SeriesCategorySales,
		StartTime: mar(1, 0),
		EndTime:   mar(4, 23),
		Timezone:  "UTC",
	})

	s.NoError(err)
	s.Equal(types.WindowSizeDay, response.WindowSize)
	s.Require().Len(response.Points, 4)

	s.Equal("01 Mar", response.Points[0].Bucket)
	s.Equal(2, response.Points[0].Count)
	s.True(response.Points[0].Revenue.Equal(decimal.NewFromInt(25)))

	// Empty buckets are present and zero-filled
	s.Equal("02 Mar", response.Points[1].Bucket)
	s.Equal(0, response.Points[1].Count)
	s.True(response.Points[1].Revenue.IsZero())

	s.Equal("03 Mar", response.Points[2].Bucket)
	s.Equal(1, response.Points[2].Count)
	s.True(response.Points[2].Revenue.Equal(decimal.NewFromInt(20)))

	s.Equal("04 Mar", response.Points[3].Bucket)
	s.Equal(0, response.Points[3].Count)
}

func (s *SeriesServiceSuite) TestCountConservation() {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC)

	for d := 0; d < 8; d++ {
		s.GetEventStore().InsertBillingRecords(
			s.billingRecord(types.SeriesCategorySales, 5, from.AddDate(0, 0, d).Add(12*time.Hour)),
		)
	}
	// Out-of-range records never surface in any bucket
	s.GetEventStore().InsertBillingRecords(
		s.billingRecord(types.SeriesCategorySales, 99, from.AddDate(0, 0, -1)),
		s.billingRecord(types.SeriesCategorySales, 99, to.AddDate(0, 0, 1)),
	)

	response, err := s.service.GetSeries(s.GetContext(), &dto.SeriesRequest{
		Category:  types.SeriesCategorySales,
		StartTime: from,
		EndTime:   to,
		Timezone:  "UTC",
	})

	s.NoError(err)
	total := 0
	revenue := decimal.Zero
	for _, point := range response.Points {
		total += point.Count
		revenue = revenue.Add(point.Revenue)
	}
	s.Equal(8, total)
	s.True(revenue.Equal(decimal.NewFromInt(40)))
}

func (s *SeriesServiceSuite) TestAutoWindowSelection() {
	// A six civil-day span selects weekly buckets
	from := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 11, 23, 0, 0, 0, time.UTC)

	response, err := s.service.GetSeries(s.GetContext(), &dto.SeriesRequest{
		Category:  types.SeriesCategoryRenewals,
		StartTime: from,
		EndTime:   to,
		Timezone:  "UTC",
	})

	s.NoError(err)
	s.Equal(types.WindowSizeWeek, response.WindowSize)
	s.Require().Len(response.Points, 2)
	s.Equal("04 Mar", response.Points[0].Bucket)
	s.Equal("11 Mar", response.Points[1].Bucket)
}

func (s *SeriesServiceSuite) TestExplicitWindowSizeOverride() {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	response, err := s.service.GetSeries(s.GetContext(), &dto.SeriesRequest{
		Category:   types.SeriesCategorySales,
		StartTime:  from,
		EndTime:    to,
		WindowSize: types.WindowSizeMonth,
		Timezone:   "UTC",
	})

	s.NoError(err)
	s.Equal(types.WindowSizeMonth, response.WindowSize)
	s.Require().Len(response.Points, 1)
	s.Equal("Mar 2024", response.Points[0].Bucket)
}

func (s *SeriesServiceSuite) TestCategoryFilter() {
	at := time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC)
	s.GetEventStore().InsertBillingRecords(
		s.billingRecord(types.SeriesCategorySales, 10, at),
		s.billingRecord(types.SeriesCategoryRenewals, 30, at),
		s.billingRecord(types.SeriesCategoryRenewals, 40, at),
	)

	response, err := s.service.GetSeries(s.GetContext(), &dto.SeriesRequest{
		Category:  types.SeriesCategoryRenewals,
		StartTime: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
		Timezone:  "UTC",
	})

	s.NoError(err)
	s.Equal(types.SeriesCategoryRenewals, response.Category)
	total := 0
	revenue := decimal.Zero
	for _, point := range response.Points {
		total += point.Count
		revenue = revenue.Add(point.Revenue)
	}
	s.Equal(2, total)
	s.True(revenue.Equal(decimal.NewFromInt(70)))
}

func (s *SeriesServiceSuite) TestTimezoneBucketing() {
	// 01:00 UTC on Mar 2 is 22:00 Mar 1 in Sao Paulo; with the Sao Paulo reporting
	// timezone the record belongs to the Mar 1 bucket
	record := s.billingRecord(types.SeriesCategorySales, 10, time.Date(2024, 3, 2, 1, 0, 0, 0, time.UTC))
	s.GetEventStore().InsertBillingRecords(record)

	from := time.Date(2024, 3, 1, 3, 0, 0, 0, time.UTC)  // midnight Mar 1 local
	to := time.Date(2024, 3, 3, 2, 59, 0, 0, time.UTC)   // 23:59 Mar 2 local

	response, err := s.service.GetSeries(s.GetContext(), &dto.SeriesRequest{
		Category:  types.SeriesCategorySales,
		StartTime: from,
		EndTime:   to,
		Timezone:  "America/Sao_Paulo",
	})

	s.NoError(err)
	s.Equal(types.WindowSizeDay, response.WindowSize)
	s.Equal("America/Sao_Paulo", response.Timezone)
	s.Require().Len(response.Points, 2)
	s.Equal("01 Mar", response.Points[0].Bucket)
	s.Equal(1, response.Points[0].Count)
	s.Equal("02 Mar", response.Points[1].Bucket)
	s.Equal(0, response.Points[1].Count)
}

func (s *SeriesServiceSuite) TestTimezoneAbbreviationResolved() {
	response, err := s.service.GetSeries(s.GetContext(), &dto.SeriesRequest{
		Category:  types.SeriesCategorySales,
		StartTime: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC),
		Timezone:  "BRT",
	})

	s.NoError(err)
	s.Equal("America/Sao_Paulo", response.Timezone)
}

func (s *SeriesServiceSuite) TestInvalidCategory() {
	response, err := s.service.GetSeries(s.GetContext(), &dto.SeriesRequest{
		Category:  types.SeriesCategory("refunds"),
		StartTime: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
	})

	s.Error(err)
	s.Nil(response)
	s.True(ierr.IsValidation(err))
}

func (s *SeriesServiceSuite) TestInvalidTimezone() {
	response, err := s.service.GetSeries(s.GetContext(), &dto.SeriesRequest{
		Category:  types.SeriesCategorySales,
		StartTime: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		Timezone:  "Not/AZone",
	})

	s.Error(err)
	s.Nil(response)
	s.True(ierr.IsValidation(err))
}

func (s *SeriesServiceSuite) TestUpstreamErrorPropagates() {
	s.GetEventStore().SetError(ierr.NewError("query timeout").Mark(ierr.ErrDatabase))

	response, err := s.service.GetSeries(s.GetContext(), &dto.SeriesRequest{
		Category:  types.SeriesCategorySales,
		StartTime: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
	})

	s.Error(err)
	s.Nil(response)
	s.True(ierr.IsDatabase(err))
}
