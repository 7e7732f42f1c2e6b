package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calmana/apiserver/types"
)

func TestMoodCreateReturnsID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO mood_entries`).
		WithArgs(1, "Happy", 6, "2025-03-10", at).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	repo := NewMoodRepository(db)
	entry, err := repo.Create(context.Background(), types.MoodEntry{
		UserID:    1,
		Mood:      "Happy",
		MoodValue: 6,
		DateKey:   "2025-03-10",
		Timestamp: at,
	})
	require.NoError(t, err)
	assert.Equal(t, 11, entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMoodListByDayScansRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2025, 3, 10, 6, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "user_id", "mood", "mood_value", "date_key", "timestamp"}).
		AddRow(1, 1, "Calm", 5, "2025-03-10", at).
		AddRow(2, 1, "Sad", 2, "2025-03-10", at.Add(time.Hour))
	mock.ExpectQuery(`SELECT id, user_id, mood, mood_value, date_key, timestamp`).
		WithArgs(1, "2025-03-10").
		WillReturnRows(rows)

	repo := NewMoodRepository(db)
	entries, err := repo.ListByDay(context.Background(), 1, "2025-03-10")
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "Calm", entries[0].Mood)
	assert.Equal(t, 2, entries[1].MoodValue)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMoodListByKeyRangeBindsBothBounds(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`date_key >= \$2 AND date_key <= \$3`).
		WithArgs(1, "2025-03-03", "2025-03-09").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "mood", "mood_value", "date_key", "timestamp"}))

	repo := NewMoodRepository(db)
	entries, err := repo.ListByKeyRange(context.Background(), 1, "2025-03-03", "2025-03-09")
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}
