package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/macrolens/diary/internal/domain"
)

// SummaryService rolls frozen diary values up by day and ISO week. Every call
// folds the persisted entries; nothing is recomputed, re-rounded or cached.
type SummaryService struct {
	entries domain.DiaryRepository
}

// NewSummaryService creates a summary service
func NewSummaryService(entries domain.DiaryRepository) *SummaryService {
	return &SummaryService{entries: entries}
}

// DaySummary returns the totals for one date. A date without entries yields
// zero totals.
func (s *SummaryService) DaySummary(ctx context.Context, userID uuid.UUID, date time.Time) (domain.DayTotals, error) {
	date = domain.DateOf(date)

	entries, err := s.entries.ListEntries(ctx, userID, date, date)
	if err != nil {
		return domain.DayTotals{}, err
	}

	totals := domain.DayTotals{Date: date}
	for _, e := range entries {
		totals.Nutrients = totals.Nutrients.Add(e.Nutrients)
		totals.Entries++
	}
	return totals, nil
}

// WeekSummary groups the entries of the ISO week containing anchor by date.
// Only dates with at least one entry produce a row.
func (s *SummaryService) WeekSummary(ctx context.Context, userID uuid.UUID, anchor time.Time) (*domain.WeekSummary, error) {
	anchor = domain.DateOf(anchor)
	year, week := anchor.ISOWeek()
	monday, sunday := domain.ISOWeekBounds(anchor)

	entries, err := s.entries.ListEntries(ctx, userID, monday, sunday)
	if err != nil {
		return nil, err
	}

	byDate := make(map[time.Time]*domain.DayTotals)
	for _, e := range entries {
		date := domain.DateOf(e.Date)
		if y, w := date.ISOWeek(); y != year || w != week {
			continue
		}
		row, ok := byDate[date]
		if !ok {
			row = &domain.DayTotals{Date: date}
			byDate[date] = row
		}
		row.Nutrients = row.Nutrients.Add(e.Nutrients)
		row.Entries++
	}

	summary := &domain.WeekSummary{
		Year: year,
		Week: week,
		From: monday,
		To:   sunday,
		Days: make([]domain.DayTotals, 0, len(byDate)),
	}
	for _, row := range byDate {
		summary.Days = append(summary.Days, *row)
	}
	sort.Slice(summary.Days, func(i, j int) bool {
		return summary.Days[i].Date.Before(summary.Days[j].Date)
	})
	for _, row := range summary.Days {
		summary.Total = summary.Total.Add(row.Nutrients)
	}

	return summary, nil
}
