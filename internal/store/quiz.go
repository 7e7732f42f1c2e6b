package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/calmana/apiserver/types"
)

// QuizRepository handles persistence for quiz results.
type QuizRepository struct {
	db *sql.DB
}

func NewQuizRepository(db *sql.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

func (r *QuizRepository) Create(ctx context.Context, result types.QuizResult) (types.QuizResult, error) {
	answersJSON, err := json.Marshal(result.Answers)
	if err != nil {
		return types.QuizResult{}, err
	}

	const query = `
		INSERT INTO quiz_results (user_id, quiz_slug, quiz_title, answers, score, max_score, percentage, level, date_key, taken_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		result.UserID,
		result.QuizSlug,
		result.QuizTitle,
		answersJSON,
		result.Score,
		result.MaxScore,
		result.Percentage,
		result.Level,
		result.DateKey,
		result.TakenAt,
	).Scan(&result.ID); err != nil {
		return types.QuizResult{}, err
	}
	return result, nil
}

// LatestAttemptSince returns the most recent attempt for (user, slug)
// taken at or after the given instant. The cooldown check is built on
// this rather than a uniqueness constraint.
func (r *QuizRepository) LatestAttemptSince(ctx context.Context, userID int, quizSlug string, since time.Time) (types.QuizResult, error) {
	const query = `
		SELECT id, user_id, quiz_slug, quiz_title, answers, score, max_score, percentage, level, date_key, taken_at
		FROM quiz_results
		WHERE user_id = $1 AND quiz_slug = $2 AND taken_at >= $3
		ORDER BY taken_at DESC
		LIMIT 1`
	row := r.db.QueryRowContext(ctx, query, userID, quizSlug, since)

	result, err := scanQuiz(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.QuizResult{}, ErrNotFound
		}
		return types.QuizResult{}, err
	}
	return result, nil
}

// ListByDay returns a user's attempts for one day key, earliest first.
func (r *QuizRepository) ListByDay(ctx context.Context, userID int, dateKey string) ([]types.QuizResult, error) {
	const query = `
		SELECT id, user_id, quiz_slug, quiz_title, answers, score, max_score, percentage, level, date_key, taken_at
		FROM quiz_results
		WHERE user_id = $1 AND date_key = $2
		ORDER BY taken_at`
	return r.list(ctx, query, userID, dateKey)
}

// ListByKeyRange returns a user's attempts with day keys in
// [startKey, endKey], earliest first.
func (r *QuizRepository) ListByKeyRange(ctx context.Context, userID int, startKey, endKey string) ([]types.QuizResult, error) {
	const query = `
		SELECT id, user_id, quiz_slug, quiz_title, answers, score, max_score, percentage, level, date_key, taken_at
		FROM quiz_results
		WHERE user_id = $1 AND date_key >= $2 AND date_key <= $3
		ORDER BY taken_at`
	return r.list(ctx, query, userID, startKey, endKey)
}

func (r *QuizRepository) list(ctx context.Context, query string, args ...any) ([]types.QuizResult, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]types.QuizResult, 0)
	for rows.Next() {
		result, err := scanQuiz(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

func scanQuiz(scan func(...any) error) (types.QuizResult, error) {
	var result types.QuizResult
	var answersJSON []byte
	if err := scan(
		&result.ID,
		&result.UserID,
		&result.QuizSlug,
		&result.QuizTitle,
		&answersJSON,
		&result.Score,
		&result.MaxScore,
		&result.Percentage,
		&result.Level,
		&result.DateKey,
		&result.TakenAt,
	); err != nil {
		return types.QuizResult{}, err
	}
	_ = json.Unmarshal(answersJSON, &result.Answers)
	return result, nil
}
