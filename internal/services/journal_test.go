package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calmana/apiserver/internal/crypto"
	"github.com/calmana/apiserver/internal/store"
	"github.com/calmana/apiserver/types"
)

type fakeJournalRepo struct {
	entries map[int]types.JournalEntry
	nextID  int
}

func newFakeJournalRepo() *fakeJournalRepo {
	return &fakeJournalRepo{entries: make(map[int]types.JournalEntry), nextID: 1}
}

func (f *fakeJournalRepo) Create(_ context.Context, entry types.JournalEntry) (types.JournalEntry, error) {
	entry.ID = f.nextID
	f.nextID++
	f.entries[entry.ID] = entry
	return entry, nil
}

func (f *fakeJournalRepo) Get(_ context.Context, userID, id int) (types.JournalEntry, error) {
	entry, ok := f.entries[id]
	if !ok || entry.UserID != userID {
		return types.JournalEntry{}, store.ErrNotFound
	}
	return entry, nil
}

func (f *fakeJournalRepo) List(_ context.Context, userID int) ([]types.JournalEntry, error) {
	var out []types.JournalEntry
	for _, entry := range f.entries {
		if entry.UserID == userID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (f *fakeJournalRepo) ListByDay(_ context.Context, userID int, dateKey string) ([]types.JournalEntry, error) {
	var out []types.JournalEntry
	for _, entry := range f.entries {
		if entry.UserID == userID && entry.DateKey == dateKey {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (f *fakeJournalRepo) ListByKeyRange(_ context.Context, userID int, startKey, endKey string) ([]types.JournalEntry, error) {
	var out []types.JournalEntry
	for _, entry := range f.entries {
		if entry.UserID == userID && entry.DateKey >= startKey && entry.DateKey <= endKey {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (f *fakeJournalRepo) Update(_ context.Context, entry types.JournalEntry) (types.JournalEntry, error) {
	stored, ok := f.entries[entry.ID]
	if !ok || stored.UserID != entry.UserID {
		return types.JournalEntry{}, store.ErrNotFound
	}
	f.entries[entry.ID] = entry
	return entry, nil
}

func (f *fakeJournalRepo) Delete(_ context.Context, userID, id int) error {
	entry, ok := f.entries[id]
	if !ok || entry.UserID != userID {
		return store.ErrNotFound
	}
	delete(f.entries, id)
	return nil
}

func testCipher(t *testing.T) *crypto.Cipher {
	t.Helper()
	cipher, err := crypto.New(bytes.Repeat([]byte{0x42}, crypto.KeySize))
	require.NoError(t, err)
	return cipher
}

func TestJournalCreateStoresCiphertextOnly(t *testing.T) {
	repo := newFakeJournalRepo()
	svc := NewJournalService(repo, testCipher(t))

	view, err := svc.Create(context.Background(), 1, "a quiet evening", "Evening", []string{"calm"})
	require.NoError(t, err)
	assert.Equal(t, "a quiet evening", view.Text)
	assert.False(t, view.Unreadable)

	stored := repo.entries[view.ID]
	assert.NotEmpty(t, stored.Content)
	assert.NotEmpty(t, stored.IV)
	assert.NotEmpty(t, stored.Tag)
	assert.NotContains(t, stored.Content, "quiet")
}

func TestJournalGetRoundTrips(t *testing.T) {
	repo := newFakeJournalRepo()
	svc := NewJournalService(repo, testCipher(t))

	created, err := svc.Create(context.Background(), 1, "round trip", "", nil)
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "round trip", got.Text)
	assert.Equal(t, []string{}, got.Tags)
}

func TestJournalGetScopedToOwner(t *testing.T) {
	repo := newFakeJournalRepo()
	svc := NewJournalService(repo, testCipher(t))

	created, err := svc.Create(context.Background(), 1, "mine", "", nil)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), 2, created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestJournalCorruptedEntryIsUnreadable(t *testing.T) {
	repo := newFakeJournalRepo()
	svc := NewJournalService(repo, testCipher(t))

	created, err := svc.Create(context.Background(), 1, "will be corrupted", "Kept Title", nil)
	require.NoError(t, err)

	stored := repo.entries[created.ID]
	stored.Tag = "AAAAAAAAAAAAAAAAAAAAAA=="
	repo.entries[created.ID] = stored

	got, err := svc.Get(context.Background(), 1, created.ID)
	require.NoError(t, err)
	assert.True(t, got.Unreadable)
	assert.Empty(t, got.Text)
	assert.Equal(t, "Kept Title", got.Title)
}

func TestJournalUpdateReencryptsText(t *testing.T) {
	repo := newFakeJournalRepo()
	svc := NewJournalService(repo, testCipher(t))

	created, err := svc.Create(context.Background(), 1, "before", "Old", nil)
	require.NoError(t, err)
	before := repo.entries[created.ID]

	text := "after"
	updated, err := svc.Update(context.Background(), 1, created.ID, &text, "New", []string{"tag"})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Text)
	assert.Equal(t, "New", updated.Title)

	after := repo.entries[created.ID]
	assert.NotEqual(t, before.Content, after.Content)
	assert.NotEqual(t, before.IV, after.IV)
}

func TestJournalUpdateWithoutTextKeepsCiphertext(t *testing.T) {
	repo := newFakeJournalRepo()
	svc := NewJournalService(repo, testCipher(t))

	created, err := svc.Create(context.Background(), 1, "unchanged", "Old", nil)
	require.NoError(t, err)
	before := repo.entries[created.ID]

	updated, err := svc.Update(context.Background(), 1, created.ID, nil, "New", nil)
	require.NoError(t, err)
	assert.Equal(t, "unchanged", updated.Text)

	after := repo.entries[created.ID]
	assert.Equal(t, before.Content, after.Content)
	assert.Equal(t, before.IV, after.IV)
}
