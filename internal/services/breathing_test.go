package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calmana/apiserver/internal/dates"
	"github.com/calmana/apiserver/types"
)

type fakeBreathingRepo struct {
	sessions []types.BreathingSession
}

func (f *fakeBreathingRepo) Create(_ context.Context, session types.BreathingSession) (types.BreathingSession, error) {
	session.ID = len(f.sessions) + 1
	f.sessions = append(f.sessions, session)
	return session, nil
}

func (f *fakeBreathingRepo) ListByDay(_ context.Context, userID int, dateKey string) ([]types.BreathingSession, error) {
	var out []types.BreathingSession
	for _, session := range f.sessions {
		if session.UserID == userID && session.DateKey == dateKey {
			out = append(out, session)
		}
	}
	return out, nil
}

func (f *fakeBreathingRepo) ListByKeyRange(_ context.Context, userID int, startKey, endKey string) ([]types.BreathingSession, error) {
	var out []types.BreathingSession
	for _, session := range f.sessions {
		if session.UserID == userID && session.DateKey >= startKey && session.DateKey <= endKey {
			out = append(out, session)
		}
	}
	return out, nil
}

func TestBreathingSaveRejectsZeroCycles(t *testing.T) {
	svc := NewBreathingService(&fakeBreathingRepo{})

	_, err := svc.Save(context.Background(), 1, 0)
	assert.ErrorIs(t, err, ErrInvalidCycles)

	_, err = svc.Save(context.Background(), 1, -3)
	assert.ErrorIs(t, err, ErrInvalidCycles)
}

func TestBreathingTodaySumsCycles(t *testing.T) {
	repo := &fakeBreathingRepo{}
	svc := NewBreathingService(repo)

	_, err := svc.Save(context.Background(), 1, 4)
	require.NoError(t, err)
	_, err = svc.Save(context.Background(), 1, 6)
	require.NoError(t, err)
	// Another user's session must not count.
	_, err = svc.Save(context.Background(), 2, 9)
	require.NoError(t, err)

	total, err := svc.Today(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 10, total)
}

func TestBreathingDayAggregatesSessions(t *testing.T) {
	repo := &fakeBreathingRepo{sessions: []types.BreathingSession{
		{ID: 1, UserID: 1, CyclesCompleted: 3, DateKey: "2025-03-10"},
		{ID: 2, UserID: 1, CyclesCompleted: 5, DateKey: "2025-03-10"},
		{ID: 3, UserID: 1, CyclesCompleted: 2, DateKey: "2025-03-11"},
	}}
	svc := NewBreathingService(repo)

	day, err := svc.Day(context.Background(), 1, "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, 8, day.TotalCycles)
	assert.Len(t, day.Sessions, 2)
}

func TestBreathingDayRejectsMalformedKey(t *testing.T) {
	svc := NewBreathingService(&fakeBreathingRepo{})

	_, err := svc.Day(context.Background(), 1, "yesterday")
	assert.ErrorIs(t, err, dates.ErrInvalidKey)
}
