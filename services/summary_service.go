package services

import (
	"fmt"
	"time"

	"github.com/Seg4105-group6/FoodLogger/models"
)

// Summary is an aggregate over a span of UTC calendar days.
type Summary struct {
	Days int `json:"days"`
	models.NutrientTotals
}

// SummaryService is the read side over the record store. It holds no state
// of its own: every query recomputes from the store's current contents.
//
// Bucketing convention: a record belongs to the UTC calendar date of its
// created_at timestamp (the first 10 characters of the wire timestamp), not
// the caller's local date. A meal logged at 23:50 UTC and one at 00:10 UTC
// the next day land in different buckets.
type SummaryService struct {
	store *RecordStore
	now   func() time.Time
}

func NewSummaryService(store *RecordStore) *SummaryService {
	return &SummaryService{store: store, now: time.Now}
}

// DaySummary sums nutrients over all records on one UTC date. A day with no
// records yields all zeros, not an error.
func (s *SummaryService) DaySummary(day time.Time) (*Summary, error) {
	start := dayStartUTC(day)
	records, err := s.store.ListBetween(start, start.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	return sumRecords(records, 1), nil
}

// RollingSummary sums nutrients over the n UTC calendar days ending today,
// inclusive.
func (s *SummaryService) RollingSummary(days int) (*Summary, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: rolling window must be positive, got %d", ErrInvalidArgument, days)
	}
	end := dayStartUTC(s.now()).AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -days)
	records, err := s.store.ListBetween(start, end)
	if err != nil {
		return nil, err
	}
	return sumRecords(records, days), nil
}

// History returns one DaySummary per calendar date for [start, start+days),
// ascending. Dates with no records still appear, zero-filled, so the output
// always has exactly days entries.
func (s *SummaryService) History(start time.Time, days int) ([]models.DaySummary, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: history span must be positive, got %d", ErrInvalidArgument, days)
	}
	from := dayStartUTC(start)
	records, err := s.store.ListBetween(from, from.AddDate(0, 0, days))
	if err != nil {
		return nil, err
	}

	// index by yyyy-mm-dd, then walk the span to zero-fill missing days
	idx := map[string]*models.DaySummary{}
	for _, r := range records {
		key := models.BucketDate(r.CreatedAt)
		bucket, ok := idx[key]
		if !ok {
			bucket = &models.DaySummary{Date: key}
			idx[key] = bucket
		}
		bucket.MealCount++
		bucket.Add(r.NutrientTotals)
	}

	out := make([]models.DaySummary, 0, days)
	for i := 0; i < days; i++ {
		key := from.AddDate(0, 0, i).Format(models.DateLayout)
		if bucket, ok := idx[key]; ok {
			out = append(out, *bucket)
		} else {
			out = append(out, models.DaySummary{Date: key})
		}
	}
	return out, nil
}

func sumRecords(records []models.MealRecord, days int) *Summary {
	sum := &Summary{Days: days}
	for _, r := range records {
		sum.Add(r.NutrientTotals)
	}
	return sum
}

func dayStartUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
