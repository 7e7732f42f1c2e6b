package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/calmana/apiserver/types"
)

const maxJournalList = 1000

// JournalRepository handles persistence for encrypted journal entries.
// Content, iv and tag are always written and read together.
type JournalRepository struct {
	db *sql.DB
}

func NewJournalRepository(db *sql.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

func (r *JournalRepository) Create(ctx context.Context, entry types.JournalEntry) (types.JournalEntry, error) {
	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	tagsJSON, err := json.Marshal(entry.Tags)
	if err != nil {
		return types.JournalEntry{}, err
	}

	const query = `
		INSERT INTO journal_entries (user_id, content, iv, tag, title, tags, date_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		entry.UserID,
		entry.Content,
		entry.IV,
		entry.Tag,
		entry.Title,
		tagsJSON,
		entry.DateKey,
		entry.CreatedAt,
		entry.UpdatedAt,
	).Scan(&entry.ID); err != nil {
		return types.JournalEntry{}, err
	}
	return entry, nil
}

// Get returns one entry owned by userID.
func (r *JournalRepository) Get(ctx context.Context, userID, id int) (types.JournalEntry, error) {
	const query = `
		SELECT id, user_id, content, iv, tag, title, tags, date_key, created_at, updated_at
		FROM journal_entries
		WHERE id = $1 AND user_id = $2`
	row := r.db.QueryRowContext(ctx, query, id, userID)

	entry, err := scanJournal(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.JournalEntry{}, ErrNotFound
		}
		return types.JournalEntry{}, err
	}
	return entry, nil
}

// List returns a user's entries, latest first.
func (r *JournalRepository) List(ctx context.Context, userID int) ([]types.JournalEntry, error) {
	const query = `
		SELECT id, user_id, content, iv, tag, title, tags, date_key, created_at, updated_at
		FROM journal_entries
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
	return r.listQuery(ctx, query, userID, maxJournalList)
}

// ListByDay returns a user's entries for one day key, oldest first.
func (r *JournalRepository) ListByDay(ctx context.Context, userID int, dateKey string) ([]types.JournalEntry, error) {
	const query = `
		SELECT id, user_id, content, iv, tag, title, tags, date_key, created_at, updated_at
		FROM journal_entries
		WHERE user_id = $1 AND date_key = $2
		ORDER BY created_at`
	return r.listQuery(ctx, query, userID, dateKey)
}

// ListByKeyRange returns a user's entries with day keys in
// [startKey, endKey].
func (r *JournalRepository) ListByKeyRange(ctx context.Context, userID int, startKey, endKey string) ([]types.JournalEntry, error) {
	const query = `
		SELECT id, user_id, content, iv, tag, title, tags, date_key, created_at, updated_at
		FROM journal_entries
		WHERE user_id = $1 AND date_key >= $2 AND date_key <= $3
		ORDER BY created_at`
	return r.listQuery(ctx, query, userID, startKey, endKey)
}

// Update replaces the encrypted payload, title and tags of an entry
// owned by userID. The sealed triple is replaced as a unit.
func (r *JournalRepository) Update(ctx context.Context, entry types.JournalEntry) (types.JournalEntry, error) {
	entry.UpdatedAt = time.Now()

	tagsJSON, err := json.Marshal(entry.Tags)
	if err != nil {
		return types.JournalEntry{}, err
	}

	const query = `
		UPDATE journal_entries
		SET content = $1,
			iv = $2,
			tag = $3,
			title = $4,
			tags = $5,
			updated_at = $6
		WHERE id = $7 AND user_id = $8`
	result, err := r.db.ExecContext(
		ctx,
		query,
		entry.Content,
		entry.IV,
		entry.Tag,
		entry.Title,
		tagsJSON,
		entry.UpdatedAt,
		entry.ID,
		entry.UserID,
	)
	if err != nil {
		return types.JournalEntry{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.JournalEntry{}, err
	}
	if affected == 0 {
		return types.JournalEntry{}, ErrNotFound
	}
	return entry, nil
}

// Delete removes one entry owned by userID.
func (r *JournalRepository) Delete(ctx context.Context, userID, id int) error {
	const query = `DELETE FROM journal_entries WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByID removes one entry regardless of owner (admin path).
func (r *JournalRepository) DeleteByID(ctx context.Context, id int) error {
	const query = `DELETE FROM journal_entries WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *JournalRepository) listQuery(ctx context.Context, query string, args ...any) ([]types.JournalEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]types.JournalEntry, 0)
	for rows.Next() {
		entry, err := scanJournal(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanJournal(scan func(...any) error) (types.JournalEntry, error) {
	var entry types.JournalEntry
	var tagsJSON []byte
	if err := scan(
		&entry.ID,
		&entry.UserID,
		&entry.Content,
		&entry.IV,
		&entry.Tag,
		&entry.Title,
		&tagsJSON,
		&entry.DateKey,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	); err != nil {
		return types.JournalEntry{}, err
	}
	_ = json.Unmarshal(tagsJSON, &entry.Tags)
	return entry, nil
}
