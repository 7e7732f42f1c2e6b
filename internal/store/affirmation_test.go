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

func TestAffirmationUpsertInserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`ON CONFLICT \(user_id, text\) DO NOTHING`).
		WithArgs(1, "I am enough", "2025-03-10", at).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	repo := NewAffirmationRepository(db)
	favorite, created, err := repo.Upsert(context.Background(), types.Affirmation{
		UserID:    1,
		Text:      "I am enough",
		DateKey:   "2025-03-10",
		CreatedAt: at,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 5, favorite.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAffirmationUpsertAbsorbsDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	// ON CONFLICT DO NOTHING yields no row from RETURNING.
	mock.ExpectQuery(`ON CONFLICT \(user_id, text\) DO NOTHING`).
		WithArgs(1, "I am enough", "2025-03-10", at).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewAffirmationRepository(db)
	favorite, created, err := repo.Upsert(context.Background(), types.Affirmation{
		UserID:    1,
		Text:      "I am enough",
		DateKey:   "2025-03-10",
		CreatedAt: at,
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "I am enough", favorite.Text)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAffirmationDeleteMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM affirmations`).
		WithArgs(1, "gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewAffirmationRepository(db)
	err = repo.Delete(context.Background(), 1, "gone")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
