package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/calmana/apiserver/internal/cache"
	"github.com/calmana/apiserver/internal/dates"
	"github.com/calmana/apiserver/internal/store"
)

const topAffirmationsLimit = 20

// AdminRepository defines the cross-user queries behind the admin
// analytics endpoints.
type AdminRepository interface {
	CountUsers(ctx context.Context) (int, error)
	CountMoodsInRange(ctx context.Context, startKey, endKey string) (int, error)
	CountBreathingInRange(ctx context.Context, startKey, endKey string) (int, error)
	CountBreathingTotal(ctx context.Context) (int, error)
	MoodTrend(ctx context.Context, startKey, endKey string) ([]store.DayCount, error)
	DailyActiveUsers(ctx context.Context, startKey, endKey string) ([]store.DayCount, error)
	ActiveUsersInRange(ctx context.Context, startKey, endKey string) (int, error)
	QuizLevelDistribution(ctx context.Context, startKey, endKey string) ([]store.LabelCount, error)
	AffirmationPopularity(ctx context.Context, startKey, endKey string, limit int) ([]store.LabelCount, error)
	TopAffirmations(ctx context.Context, limit int) ([]store.LabelCount, error)
}

// Summary is the admin overview for a date range.
type Summary struct {
	TotalUsers          int     `json:"totalUsers"`
	ActiveToday         int     `json:"activeToday"`
	MoodLoggingRate     float64 `json:"moodLoggingRate"`
	AvgBreathingPerUser float64 `json:"avgBreathingPerUser"`
}

// TrendPoint is one day of a per-day analytics series. Ranges are
// always emitted gap-free: absent days carry a zero count.
type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// ActivePoint is one day of the daily-active-users series.
type ActivePoint struct {
	Date        string `json:"date"`
	ActiveUsers int    `json:"activeUsers"`
}

// AnalyticsService computes admin reports through an advisory TTL
// cache. A cache miss only costs recomputation; results are re-read
// from storage when the TTL lapses.
type AnalyticsService struct {
	repo  AdminRepository
	cache cache.Cache
}

func NewAnalyticsService(repo AdminRepository, c cache.Cache) *AnalyticsService {
	if c == nil {
		c = cache.Noop{}
	}
	return &AnalyticsService{repo: repo, cache: c}
}

// Range is a validated inclusive day-key range.
type Range struct {
	Start string
	End   string
}

// ParseRange validates a start/end day-key pair, defaulting to the
// trailing defaultDays-day window ending today (IST) when either
// bound is missing.
func ParseRange(start, end string, defaultDays int) (Range, error) {
	if start == "" || end == "" {
		today := time.Now().In(dates.IST)
		return Range{
			Start: dates.DayKey(today.AddDate(0, 0, -(defaultDays - 1))),
			End:   dates.DayKey(today),
		}, nil
	}
	if !dates.Valid(start) || !dates.Valid(end) {
		return Range{}, dates.ErrInvalidKey
	}
	return Range{Start: start, End: end}, nil
}

// Summary computes the admin overview for the range.
func (s *AnalyticsService) Summary(ctx context.Context, r Range) (Summary, error) {
	key := fmt.Sprintf("summary:%s:%s", r.Start, r.End)
	if cached, ok := s.cache.Get(key); ok {
		if summary, ok := cached.(Summary); ok {
			return summary, nil
		}
	}

	totalUsers, err := s.repo.CountUsers(ctx)
	if err != nil {
		return Summary{}, err
	}
	totalMoods, err := s.repo.CountMoodsInRange(ctx, r.Start, r.End)
	if err != nil {
		return Summary{}, err
	}
	totalBreathing, err := s.repo.CountBreathingInRange(ctx, r.Start, r.End)
	if err != nil {
		return Summary{}, err
	}
	activeInRange, err := s.repo.ActiveUsersInRange(ctx, r.Start, r.End)
	if err != nil {
		return Summary{}, err
	}
	today := dates.Today()
	activeToday, err := s.repo.ActiveUsersInRange(ctx, today, today)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		TotalUsers:  totalUsers,
		ActiveToday: activeToday,
	}
	if activeInRange > 0 {
		summary.MoodLoggingRate = round1(float64(totalMoods) / float64(activeInRange))
		summary.AvgBreathingPerUser = round1(float64(totalBreathing) / float64(activeInRange))
	}

	s.cache.Set(key, summary)
	return summary, nil
}

// MoodTrend returns mood-entry counts per day over the range, one
// point per calendar day.
func (s *AnalyticsService) MoodTrend(ctx context.Context, r Range) ([]TrendPoint, error) {
	key := fmt.Sprintf("mood-trend:%s:%s", r.Start, r.End)
	if cached, ok := s.cache.Get(key); ok {
		if points, ok := cached.([]TrendPoint); ok {
			return points, nil
		}
	}

	counts, err := s.repo.MoodTrend(ctx, r.Start, r.End)
	if err != nil {
		return nil, err
	}

	keys, err := dates.RangeKeys(r.Start, r.End)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]int, len(counts))
	for _, dc := range counts {
		byDay[dc.DateKey] = dc.Count
	}

	points := make([]TrendPoint, len(keys))
	for i, day := range keys {
		points[i] = TrendPoint{Date: day, Count: byDay[day]}
	}

	s.cache.Set(key, points)
	return points, nil
}

// DailyActiveUsers returns distinct-active-user counts per day over
// the range, one point per calendar day.
func (s *AnalyticsService) DailyActiveUsers(ctx context.Context, r Range) ([]ActivePoint, error) {
	key := fmt.Sprintf("dau:%s:%s", r.Start, r.End)
	if cached, ok := s.cache.Get(key); ok {
		if points, ok := cached.([]ActivePoint); ok {
			return points, nil
		}
	}

	counts, err := s.repo.DailyActiveUsers(ctx, r.Start, r.End)
	if err != nil {
		return nil, err
	}

	keys, err := dates.RangeKeys(r.Start, r.End)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]int, len(counts))
	for _, dc := range counts {
		byDay[dc.DateKey] = dc.Count
	}

	points := make([]ActivePoint, len(keys))
	for i, day := range keys {
		points[i] = ActivePoint{Date: day, ActiveUsers: byDay[day]}
	}

	s.cache.Set(key, points)
	return points, nil
}

// QuizDistribution buckets quiz attempts in the range by level.
func (s *AnalyticsService) QuizDistribution(ctx context.Context, r Range) ([]store.LabelCount, error) {
	key := fmt.Sprintf("quiz-dist:%s:%s", r.Start, r.End)
	if cached, ok := s.cache.Get(key); ok {
		if dist, ok := cached.([]store.LabelCount); ok {
			return dist, nil
		}
	}

	dist, err := s.repo.QuizLevelDistribution(ctx, r.Start, r.End)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, dist)
	return dist, nil
}

// AffirmationPopularity returns the most-favorited affirmation texts
// in the range.
func (s *AnalyticsService) AffirmationPopularity(ctx context.Context, r Range) ([]store.LabelCount, error) {
	key := fmt.Sprintf("aff:%s:%s", r.Start, r.End)
	if cached, ok := s.cache.Get(key); ok {
		if popularity, ok := cached.([]store.LabelCount); ok {
			return popularity, nil
		}
	}

	popularity, err := s.repo.AffirmationPopularity(ctx, r.Start, r.End, topAffirmationsLimit)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, popularity)
	return popularity, nil
}

// TopAffirmations returns the all-time most-favorited texts.
func (s *AnalyticsService) TopAffirmations(ctx context.Context, limit int) ([]store.LabelCount, error) {
	return s.repo.TopAffirmations(ctx, limit)
}

// BreathingTotal returns the all-time session count.
func (s *AnalyticsService) BreathingTotal(ctx context.Context) (int, error) {
	return s.repo.CountBreathingTotal(ctx)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
