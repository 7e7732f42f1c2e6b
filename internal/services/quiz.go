package services

import (
	"context"
	"errors"
	"time"

	"github.com/calmana/apiserver/internal/dates"
	"github.com/calmana/apiserver/internal/store"
	"github.com/calmana/apiserver/types"
)

// CooldownWindow is the minimum gap between two saved attempts of the
// same quiz by the same user.
const CooldownWindow = 24 * time.Hour

// ErrCooldown is returned when a save falls inside the cooldown
// window of a prior attempt on the same quiz.
var ErrCooldown = errors.New("cooldown active")

// QuizRepository defines persistence operations for quiz results.
type QuizRepository interface {
	Create(ctx context.Context, result types.QuizResult) (types.QuizResult, error)
	LatestAttemptSince(ctx context.Context, userID int, quizSlug string, since time.Time) (types.QuizResult, error)
	ListByDay(ctx context.Context, userID int, dateKey string) ([]types.QuizResult, error)
	ListByKeyRange(ctx context.Context, userID int, startKey, endKey string) ([]types.QuizResult, error)
}

// QuizService encapsulates quiz-result use-cases.
type QuizService struct {
	repo QuizRepository
	now  func() time.Time
}

func NewQuizService(repo QuizRepository) *QuizService {
	return &QuizService{repo: repo, now: time.Now}
}

// Save stores a quiz attempt unless a prior attempt on the same slug
// exists inside the rolling 24-hour window.
func (s *QuizService) Save(ctx context.Context, result types.QuizResult) (types.QuizResult, error) {
	now := s.now()

	_, err := s.repo.LatestAttemptSince(ctx, result.UserID, result.QuizSlug, now.Add(-CooldownWindow))
	if err == nil {
		return types.QuizResult{}, ErrCooldown
	}
	if !errors.Is(err, store.ErrNotFound) {
		return types.QuizResult{}, err
	}

	result.DateKey = dates.DayKey(now)
	result.TakenAt = now
	return s.repo.Create(ctx, result)
}

// Day returns all attempts for one day key, earliest first. Callers
// that need the single-attempt policy use FirstOfDay.
func (s *QuizService) Day(ctx context.Context, userID int, dateKey string) ([]types.QuizResult, error) {
	if !dates.Valid(dateKey) {
		return nil, dates.ErrInvalidKey
	}
	return s.repo.ListByDay(ctx, userID, dateKey)
}

// FirstOfDay returns the first attempt of the day, or nil when there
// is none. Calendar and day-detail views surface one result per day.
func (s *QuizService) FirstOfDay(ctx context.Context, userID int, dateKey string) (*types.QuizResult, error) {
	results, err := s.Day(ctx, userID, dateKey)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

// Month returns one summary per day of the given calendar month,
// keyed by day key. The first attempt of each day wins.
func (s *QuizService) Month(ctx context.Context, userID, year, month int) (map[string]types.QuizSummary, error) {
	startKey, endKey := dates.MonthBounds(year, month)
	return s.FirstPerDay(ctx, userID, startKey, endKey)
}

// FirstPerDay maps each day key in the range to the first attempt of
// that day, for calendar assembly.
func (s *QuizService) FirstPerDay(ctx context.Context, userID int, startKey, endKey string) (map[string]types.QuizSummary, error) {
	results, err := s.repo.ListByKeyRange(ctx, userID, startKey, endKey)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]types.QuizSummary)
	for _, result := range results {
		if _, seen := byDay[result.DateKey]; seen {
			continue
		}
		byDay[result.DateKey] = result.Summary()
	}
	return byDay, nil
}
