package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calmana/apiserver/internal/dates"
	"github.com/calmana/apiserver/types"
)

type fakeMoodRepo struct {
	entries []types.MoodEntry
	created []types.MoodEntry
}

func (f *fakeMoodRepo) Create(_ context.Context, entry types.MoodEntry) (types.MoodEntry, error) {
	entry.ID = len(f.created) + 1
	f.created = append(f.created, entry)
	return entry, nil
}

func (f *fakeMoodRepo) ListByDay(_ context.Context, userID int, dateKey string) ([]types.MoodEntry, error) {
	var out []types.MoodEntry
	for _, entry := range f.entries {
		if entry.UserID == userID && entry.DateKey == dateKey {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (f *fakeMoodRepo) ListByKeyRange(_ context.Context, userID int, startKey, endKey string) ([]types.MoodEntry, error) {
	var out []types.MoodEntry
	for _, entry := range f.entries {
		if entry.UserID == userID && entry.DateKey >= startKey && entry.DateKey <= endKey {
			out = append(out, entry)
		}
	}
	return out, nil
}

func TestMoodAddDerivesValueAndDayKey(t *testing.T) {
	repo := &fakeMoodRepo{}
	svc := NewMoodService(repo)

	entry, err := svc.Add(context.Background(), 7, "Happy")
	require.NoError(t, err)

	assert.Equal(t, 6, entry.MoodValue)
	assert.Equal(t, 7, entry.UserID)
	assert.True(t, dates.Valid(entry.DateKey))
	assert.False(t, entry.Timestamp.IsZero())
}

func TestMoodAddRejectsUnknownLabel(t *testing.T) {
	svc := NewMoodService(&fakeMoodRepo{})

	_, err := svc.Add(context.Background(), 7, "Ecstatic")
	assert.ErrorIs(t, err, ErrInvalidMood)
}

func TestMoodDayAverage(t *testing.T) {
	repo := &fakeMoodRepo{entries: []types.MoodEntry{
		{UserID: 1, Mood: "Happy", MoodValue: 6, DateKey: "2025-03-10"},
		{UserID: 1, Mood: "Neutral", MoodValue: 4, DateKey: "2025-03-10"},
		{UserID: 1, Mood: "Sad", MoodValue: 2, DateKey: "2025-03-10"},
	}}
	svc := NewMoodService(repo)

	day, err := svc.Day(context.Background(), 1, "2025-03-10")
	require.NoError(t, err)

	require.NotNil(t, day.AverageMood)
	assert.Equal(t, 4.0, *day.AverageMood)
	assert.Len(t, day.Moods, 3)
}

func TestMoodDayWithoutEntriesHasNilAverage(t *testing.T) {
	svc := NewMoodService(&fakeMoodRepo{})

	day, err := svc.Day(context.Background(), 1, "2025-03-10")
	require.NoError(t, err)

	assert.Nil(t, day.AverageMood)
	assert.Empty(t, day.Moods)
}

func TestMoodDayRejectsMalformedKey(t *testing.T) {
	svc := NewMoodService(&fakeMoodRepo{})

	_, err := svc.Day(context.Background(), 1, "10-03-2025")
	assert.ErrorIs(t, err, dates.ErrInvalidKey)
}

func TestMoodWeekIsGapFree(t *testing.T) {
	keys := dates.WeekKeys(0)
	repo := &fakeMoodRepo{entries: []types.MoodEntry{
		{UserID: 1, Mood: "Calm", MoodValue: 5, DateKey: keys[2]},
	}}
	svc := NewMoodService(repo)

	summaries, err := svc.Week(context.Background(), 1, 0)
	require.NoError(t, err)
	require.Len(t, summaries, 7)

	for i, summary := range summaries {
		assert.Equal(t, keys[i], summary.Date)
		if i == 2 {
			require.NotNil(t, summary.AverageMood)
			assert.Equal(t, 5.0, *summary.AverageMood)
		} else {
			assert.Nil(t, summary.AverageMood)
		}
	}
}

func TestMoodMonthCoversWholeMonth(t *testing.T) {
	keys := dates.MonthKeys(-1)
	svc := NewMoodService(&fakeMoodRepo{})

	summaries, err := svc.Month(context.Background(), 1, -1)
	require.NoError(t, err)
	require.Len(t, summaries, len(keys))

	assert.Equal(t, keys[0], summaries[0].Date)
	assert.Equal(t, keys[len(keys)-1], summaries[len(summaries)-1].Date)
}
