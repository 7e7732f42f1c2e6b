package services

import (
	"context"
	"time"

	"github.com/calmana/apiserver/internal/dates"
	"github.com/calmana/apiserver/types"
)

// AffirmationRepository defines persistence operations for favorites.
type AffirmationRepository interface {
	Upsert(ctx context.Context, favorite types.Affirmation) (types.Affirmation, bool, error)
	List(ctx context.Context, userID int) ([]types.Affirmation, error)
	Delete(ctx context.Context, userID int, text string) error
}

// AffirmationService encapsulates favorite-affirmation use-cases.
type AffirmationService struct {
	repo AffirmationRepository
}

func NewAffirmationService(repo AffirmationRepository) *AffirmationService {
	return &AffirmationService{repo: repo}
}

// Add favorites text for userID. created is false when the pair
// already existed; the upsert makes duplicate submissions idempotent
// even under concurrency.
func (s *AffirmationService) Add(ctx context.Context, userID int, text string) (types.Affirmation, bool, error) {
	return s.repo.Upsert(ctx, types.Affirmation{
		UserID:    userID,
		Text:      text,
		DateKey:   dates.DayKey(time.Now()),
		CreatedAt: time.Now(),
	})
}

// List returns the user's favorites, newest first.
func (s *AffirmationService) List(ctx context.Context, userID int) ([]types.Affirmation, error) {
	return s.repo.List(ctx, userID)
}

// Delete removes one favorite by text.
func (s *AffirmationService) Delete(ctx context.Context, userID int, text string) error {
	return s.repo.Delete(ctx, userID, text)
}
