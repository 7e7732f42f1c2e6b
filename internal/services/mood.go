package services

import (
	"context"
	"errors"
	"time"

	"github.com/calmana/apiserver/internal/dates"
	"github.com/calmana/apiserver/types"
)

// ErrInvalidMood is returned for labels outside the fixed mood set.
var ErrInvalidMood = errors.New("invalid mood")

// MoodRepository defines persistence operations for mood entries.
type MoodRepository interface {
	Create(ctx context.Context, entry types.MoodEntry) (types.MoodEntry, error)
	ListByDay(ctx context.Context, userID int, dateKey string) ([]types.MoodEntry, error)
	ListByKeyRange(ctx context.Context, userID int, startKey, endKey string) ([]types.MoodEntry, error)
}

// MoodDay is the aggregate for one mood day: its entries in instant
// order plus the arithmetic mean of their values. AverageMood is nil
// for a day with no entries; zero is not a valid mood value and would
// corrupt the average's meaning.
type MoodDay struct {
	Date        string            `json:"date"`
	Moods       []types.MoodEntry `json:"moods"`
	AverageMood *float64          `json:"averageMood"`
}

// MoodDaySummary is one point of a week/month series.
type MoodDaySummary struct {
	Date        string   `json:"date"`
	AverageMood *float64 `json:"averageMood"`
}

// MoodService encapsulates mood logging and aggregation.
type MoodService struct {
	repo MoodRepository
}

func NewMoodService(repo MoodRepository) *MoodService {
	return &MoodService{repo: repo}
}

// Add logs a mood for userID. The numeric value and the IST day key
// are derived server-side from the label and the current instant.
func (s *MoodService) Add(ctx context.Context, userID int, mood string) (types.MoodEntry, error) {
	value, ok := types.MoodValues[mood]
	if !ok {
		return types.MoodEntry{}, ErrInvalidMood
	}

	now := time.Now()
	return s.repo.Create(ctx, types.MoodEntry{
		UserID:    userID,
		Mood:      mood,
		MoodValue: value,
		DateKey:   dates.DayKey(now),
		Timestamp: now,
	})
}

// Day returns the mood aggregate for one day key.
func (s *MoodService) Day(ctx context.Context, userID int, dateKey string) (MoodDay, error) {
	if !dates.Valid(dateKey) {
		return MoodDay{}, dates.ErrInvalidKey
	}

	entries, err := s.repo.ListByDay(ctx, userID, dateKey)
	if err != nil {
		return MoodDay{}, err
	}

	return MoodDay{
		Date:        dateKey,
		Moods:       entries,
		AverageMood: averageMood(entries),
	}, nil
}

// Week returns one summary per day of the Monday-start IST week at the
// given signed offset. The output always has exactly 7 entries.
func (s *MoodService) Week(ctx context.Context, userID, offset int) ([]MoodDaySummary, error) {
	return s.summarize(ctx, userID, dates.WeekKeys(offset))
}

// Month returns one summary per day of the IST calendar month at the
// given signed offset. The output always covers the whole month.
func (s *MoodService) Month(ctx context.Context, userID, offset int) ([]MoodDaySummary, error) {
	return s.summarize(ctx, userID, dates.MonthKeys(offset))
}

func (s *MoodService) summarize(ctx context.Context, userID int, keys []string) ([]MoodDaySummary, error) {
	entries, err := s.repo.ListByKeyRange(ctx, userID, keys[0], keys[len(keys)-1])
	if err != nil {
		return nil, err
	}

	byDay := make(map[string][]types.MoodEntry)
	for _, entry := range entries {
		byDay[entry.DateKey] = append(byDay[entry.DateKey], entry)
	}

	summaries := make([]MoodDaySummary, len(keys))
	for i, key := range keys {
		summaries[i] = MoodDaySummary{
			Date:        key,
			AverageMood: averageMood(byDay[key]),
		}
	}
	return summaries, nil
}

func averageMood(entries []types.MoodEntry) *float64 {
	if len(entries) == 0 {
		return nil
	}
	sum := 0
	for _, entry := range entries {
		sum += entry.MoodValue
	}
	avg := float64(sum) / float64(len(entries))
	return &avg
}
