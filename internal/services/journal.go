package services

import (
	"context"
	"time"

	"github.com/calmana/apiserver/internal/crypto"
	"github.com/calmana/apiserver/internal/dates"
	"github.com/calmana/apiserver/types"
)

// JournalRepository defines persistence operations for journal entries.
type JournalRepository interface {
	Create(ctx context.Context, entry types.JournalEntry) (types.JournalEntry, error)
	Get(ctx context.Context, userID, id int) (types.JournalEntry, error)
	List(ctx context.Context, userID int) ([]types.JournalEntry, error)
	ListByDay(ctx context.Context, userID int, dateKey string) ([]types.JournalEntry, error)
	ListByKeyRange(ctx context.Context, userID int, startKey, endKey string) ([]types.JournalEntry, error)
	Update(ctx context.Context, entry types.JournalEntry) (types.JournalEntry, error)
	Delete(ctx context.Context, userID, id int) error
}

// JournalService encrypts on write and decrypts on read. Plaintext
// never reaches the repository.
type JournalService struct {
	repo   JournalRepository
	cipher *crypto.Cipher
}

func NewJournalService(repo JournalRepository, cipher *crypto.Cipher) *JournalService {
	return &JournalService{repo: repo, cipher: cipher}
}

// Create encrypts text and stores the sealed entry, returning the
// decrypted echo.
func (s *JournalService) Create(ctx context.Context, userID int, text, title string, tags []string) (types.JournalView, error) {
	sealed, err := s.cipher.Encrypt(text)
	if err != nil {
		return types.JournalView{}, err
	}

	entry, err := s.repo.Create(ctx, types.JournalEntry{
		UserID:  userID,
		Content: sealed.Content,
		IV:      sealed.IV,
		Tag:     sealed.Tag,
		Title:   title,
		Tags:    tags,
		DateKey: dates.DayKey(time.Now()),
	})
	if err != nil {
		return types.JournalView{}, err
	}
	return s.view(entry), nil
}

// Get returns one decrypted entry owned by userID.
func (s *JournalService) Get(ctx context.Context, userID, id int) (types.JournalView, error) {
	entry, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return types.JournalView{}, err
	}
	return s.view(entry), nil
}

// List returns the user's decrypted entries, latest first.
func (s *JournalService) List(ctx context.Context, userID int) ([]types.JournalView, error) {
	entries, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.views(entries), nil
}

// Day returns the user's decrypted entries for one day key.
func (s *JournalService) Day(ctx context.Context, userID int, dateKey string) ([]types.JournalView, error) {
	if !dates.Valid(dateKey) {
		return nil, dates.ErrInvalidKey
	}
	entries, err := s.repo.ListByDay(ctx, userID, dateKey)
	if err != nil {
		return nil, err
	}
	return s.views(entries), nil
}

// CountByDay returns the user's entry count per day key over the range.
func (s *JournalService) CountByDay(ctx context.Context, userID int, startKey, endKey string) (map[string]int, error) {
	entries, err := s.repo.ListByKeyRange(ctx, userID, startKey, endKey)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, entry := range entries {
		counts[entry.DateKey]++
	}
	return counts, nil
}

// Update re-encrypts the text (when provided) and replaces title and
// tags. The sealed triple is always replaced as a unit.
func (s *JournalService) Update(ctx context.Context, userID, id int, text *string, title string, tags []string) (types.JournalView, error) {
	entry, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return types.JournalView{}, err
	}

	if text != nil {
		sealed, err := s.cipher.Encrypt(*text)
		if err != nil {
			return types.JournalView{}, err
		}
		entry.Content = sealed.Content
		entry.IV = sealed.IV
		entry.Tag = sealed.Tag
	}
	entry.Title = title
	entry.Tags = tags

	updated, err := s.repo.Update(ctx, entry)
	if err != nil {
		return types.JournalView{}, err
	}
	return s.view(updated), nil
}

// Delete removes one entry owned by userID.
func (s *JournalService) Delete(ctx context.Context, userID, id int) error {
	return s.repo.Delete(ctx, userID, id)
}

// view decrypts one entry. A failed authentication marks the view
// Unreadable instead of silently passing off an empty entry as real
// content; the client renders the two states differently.
func (s *JournalService) view(entry types.JournalEntry) types.JournalView {
	v := types.JournalView{
		ID:        entry.ID,
		Title:     entry.Title,
		Tags:      entry.Tags,
		Date:      entry.DateKey,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}

	text, err := s.cipher.Decrypt(crypto.Sealed{
		Content: entry.Content,
		IV:      entry.IV,
		Tag:     entry.Tag,
	})
	if err != nil {
		v.Unreadable = true
		return v
	}
	v.Text = text
	return v
}

func (s *JournalService) views(entries []types.JournalEntry) []types.JournalView {
	views := make([]types.JournalView, len(entries))
	for i, entry := range entries {
		views[i] = s.view(entry)
	}
	return views
}
