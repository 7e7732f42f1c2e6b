package services

import (
	"context"
	"errors"
	"time"

	"github.com/calmana/apiserver/internal/dates"
	"github.com/calmana/apiserver/types"
)

// ErrInvalidCycles is returned when a session reports fewer than one
// completed cycle.
var ErrInvalidCycles = errors.New("cyclesCompleted must be at least 1")

// BreathingRepository defines persistence operations for breathing
// sessions.
type BreathingRepository interface {
	Create(ctx context.Context, session types.BreathingSession) (types.BreathingSession, error)
	ListByDay(ctx context.Context, userID int, dateKey string) ([]types.BreathingSession, error)
	ListByKeyRange(ctx context.Context, userID int, startKey, endKey string) ([]types.BreathingSession, error)
}

// BreathingDay is the per-day aggregate: total cycles plus the
// session list for drill-down.
type BreathingDay struct {
	TotalCycles int                      `json:"totalCycles"`
	Sessions    []types.BreathingSession `json:"sessions"`
}

// BreathingService encapsulates breathing-session use-cases.
type BreathingService struct {
	repo BreathingRepository
}

func NewBreathingService(repo BreathingRepository) *BreathingService {
	return &BreathingService{repo: repo}
}

// Save records a completed session under today's IST day key.
func (s *BreathingService) Save(ctx context.Context, userID, cycles int) (types.BreathingSession, error) {
	if cycles < 1 {
		return types.BreathingSession{}, ErrInvalidCycles
	}

	now := time.Now()
	return s.repo.Create(ctx, types.BreathingSession{
		UserID:          userID,
		CyclesCompleted: cycles,
		DateKey:         dates.DayKey(now),
		CreatedAt:       now,
	})
}

// Today returns the user's total cycles for the current IST day.
func (s *BreathingService) Today(ctx context.Context, userID int) (int, error) {
	day, err := s.Day(ctx, userID, dates.Today())
	if err != nil {
		return 0, err
	}
	return day.TotalCycles, nil
}

// Day returns the per-day aggregate for one day key.
func (s *BreathingService) Day(ctx context.Context, userID int, dateKey string) (BreathingDay, error) {
	if !dates.Valid(dateKey) {
		return BreathingDay{}, dates.ErrInvalidKey
	}

	sessions, err := s.repo.ListByDay(ctx, userID, dateKey)
	if err != nil {
		return BreathingDay{}, err
	}

	total := 0
	for _, session := range sessions {
		total += session.CyclesCompleted
	}
	return BreathingDay{TotalCycles: total, Sessions: sessions}, nil
}

// CountByDay returns the user's cycle totals per day key over the range.
func (s *BreathingService) CountByDay(ctx context.Context, userID int, startKey, endKey string) (map[string]int, error) {
	sessions, err := s.repo.ListByKeyRange(ctx, userID, startKey, endKey)
	if err != nil {
		return nil, err
	}
	totals := make(map[string]int)
	for _, session := range sessions {
		totals[session.DateKey] += session.CyclesCompleted
	}
	return totals, nil
}
