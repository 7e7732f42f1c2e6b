package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/calmana/apiserver/internal/dates"
	"github.com/calmana/apiserver/types"
)

// CalendarDay is one cell of the month calendar. Fields are omitted
// when no activity of that kind happened.
type CalendarDay struct {
	Mood           string             `json:"mood,omitempty"`
	MoodValue      int                `json:"moodValue,omitempty"`
	JournalCount   int                `json:"journalCount,omitempty"`
	BreathingCount int                `json:"breathingCount,omitempty"`
	Quiz           *types.QuizSummary `json:"quiz,omitempty"`
}

// Calendar is the month view: today's IST key plus a map of day keys
// with any activity.
type Calendar struct {
	TodayKey string                 `json:"todayKey"`
	Days     map[string]CalendarDay `json:"days"`
}

// DashboardDay is the full single-day view across all entity kinds.
type DashboardDay struct {
	Date        string              `json:"date"`
	Moods       []types.MoodEntry   `json:"moods"`
	Journals    []types.JournalView `json:"journals"`
	Breathing   BreathingDay        `json:"breathing"`
	AverageMood *float64            `json:"averageMood"`
	Quizzes     []types.QuizResult  `json:"quizzes"`
}

// DashboardService composes the per-entity services into calendar and
// day views. Sub-fetches for the independent entity kinds are issued
// concurrently and joined before the response is assembled.
type DashboardService struct {
	moods     *MoodService
	journals  *JournalService
	breathing *BreathingService
	quizzes   *QuizService
}

func NewDashboardService(
	moods *MoodService,
	journals *JournalService,
	breathing *BreathingService,
	quizzes *QuizService,
) *DashboardService {
	return &DashboardService{
		moods:     moods,
		journals:  journals,
		breathing: breathing,
		quizzes:   quizzes,
	}
}

// Calendar builds the month view for the given calendar month.
func (s *DashboardService) Calendar(ctx context.Context, userID, year, month int) (Calendar, error) {
	startKey, endKey := dates.MonthBounds(year, month)

	var (
		moods     []types.MoodEntry
		journals  map[string]int
		breathing map[string]int
		quizByDay map[string]types.QuizSummary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		moods, err = s.moods.repo.ListByKeyRange(gctx, userID, startKey, endKey)
		return err
	})
	g.Go(func() error {
		var err error
		journals, err = s.journals.CountByDay(gctx, userID, startKey, endKey)
		return err
	})
	g.Go(func() error {
		var err error
		breathing, err = s.breathing.CountByDay(gctx, userID, startKey, endKey)
		return err
	})
	g.Go(func() error {
		var err error
		quizByDay, err = s.quizzes.FirstPerDay(gctx, userID, startKey, endKey)
		return err
	})
	if err := g.Wait(); err != nil {
		return Calendar{}, err
	}

	days := make(map[string]CalendarDay)
	update := func(key string, fn func(*CalendarDay)) {
		day := days[key]
		fn(&day)
		days[key] = day
	}

	// Latest mood of the day wins the cell; entries arrive in instant
	// order.
	for _, mood := range moods {
		update(mood.DateKey, func(day *CalendarDay) {
			day.Mood = mood.Mood
			day.MoodValue = mood.MoodValue
		})
	}
	for key, count := range journals {
		update(key, func(day *CalendarDay) { day.JournalCount = count })
	}
	for key, cycles := range breathing {
		update(key, func(day *CalendarDay) { day.BreathingCount = cycles })
	}
	for key, quiz := range quizByDay {
		update(key, func(day *CalendarDay) { day.Quiz = &quiz })
	}

	return Calendar{TodayKey: dates.Today(), Days: days}, nil
}

// Day builds the full single-day view for one day key, fanning out
// the four entity fetches and joining on all of them.
func (s *DashboardService) Day(ctx context.Context, userID int, dateKey string) (DashboardDay, error) {
	if !dates.Valid(dateKey) {
		return DashboardDay{}, dates.ErrInvalidKey
	}

	var (
		moodDay   MoodDay
		journals  []types.JournalView
		breathing BreathingDay
		quizzes   []types.QuizResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		moodDay, err = s.moods.Day(gctx, userID, dateKey)
		return err
	})
	g.Go(func() error {
		var err error
		journals, err = s.journals.Day(gctx, userID, dateKey)
		return err
	})
	g.Go(func() error {
		var err error
		breathing, err = s.breathing.Day(gctx, userID, dateKey)
		return err
	})
	g.Go(func() error {
		var err error
		quizzes, err = s.quizzes.Day(gctx, userID, dateKey)
		return err
	})
	if err := g.Wait(); err != nil {
		return DashboardDay{}, err
	}

	return DashboardDay{
		Date:        dateKey,
		Moods:       moodDay.Moods,
		Journals:    journals,
		Breathing:   breathing,
		AverageMood: moodDay.AverageMood,
		Quizzes:     quizzes,
	}, nil
}
