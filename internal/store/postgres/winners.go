package postgres

import (
	"context"
	"fmt"

	"artSparkAPI/internal/winner"
)

func (s *Store) CreateDailyWinner(ctx context.Context, w *winner.DailyWinner) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		INSERT INTO daily_winners (date, challenge_id, submission_id, user_id, likes_count, determined_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (date) DO NOTHING
	`, w.Date, w.ChallengeID, w.SubmissionID, w.UserID, w.LikesCount, w.DeterminedAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert daily winner: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) GetDailyWinner(ctx context.Context, date string) (*winner.DailyWinner, error) {
	var w winner.DailyWinner
	err := s.db.QueryRow(ctx, `
		SELECT date, challenge_id, submission_id, user_id, likes_count, determined_at
		FROM daily_winners
		WHERE date = $1
	`, date).Scan(&w.Date, &w.ChallengeID, &w.SubmissionID, &w.UserID, &w.LikesCount, &w.DeterminedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &w, nil
}

func (s *Store) ListRecentWinners(ctx context.Context, limit int) ([]*winner.DailyWinner, error) {
	rows, err := s.db.Query(ctx, `
		SELECT date, challenge_id, submission_id, user_id, likes_count, determined_at
		FROM daily_winners
		ORDER BY date DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query winners: %w", err)
	}
	defer rows.Close()

	out := make([]*winner.DailyWinner, 0, limit)
	for rows.Next() {
		var w winner.DailyWinner
		if err := rows.Scan(&w.Date, &w.ChallengeID, &w.SubmissionID, &w.UserID, &w.LikesCount, &w.DeterminedAt); err != nil {
			return nil, fmt.Errorf("failed to scan winner: %w", err)
		}
		out = append(out, &w)
	}
	return out, rows.Err()
}
