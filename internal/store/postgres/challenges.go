package postgres

import (
	"context"
	"fmt"

	"artSparkAPI/internal/challenge"
)

func (s *Store) CreateChallengeIfAbsent(ctx context.Context, ch *challenge.DailyChallenge) (*challenge.DailyChallenge, bool, error) {
	tag, err := s.db.Exec(ctx, `
		INSERT INTO daily_challenges (id, title, task, type, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`, ch.ID, ch.Title, ch.Task, ch.Type, ch.CreatedAt)
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert challenge: %w", err)
	}

	if tag.RowsAffected() == 1 {
		out := *ch
		return &out, true, nil
	}

	existing, err := s.GetChallenge(ctx, ch.ID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (s *Store) GetChallenge(ctx context.Context, id string) (*challenge.DailyChallenge, error) {
	var ch challenge.DailyChallenge
	err := s.db.QueryRow(ctx, `
		SELECT id, title, task, type, created_at
		FROM daily_challenges
		WHERE id = $1
	`, id).Scan(&ch.ID, &ch.Title, &ch.Task, &ch.Type, &ch.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &ch, nil
}

func (s *Store) ListRecentChallenges(ctx context.Context, limit int) ([]*challenge.DailyChallenge, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, title, task, type, created_at
		FROM daily_challenges
		ORDER BY id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query challenges: %w", err)
	}
	defer rows.Close()

	out := make([]*challenge.DailyChallenge, 0, limit)
	for rows.Next() {
		var ch challenge.DailyChallenge
		if err := rows.Scan(&ch.ID, &ch.Title, &ch.Task, &ch.Type, &ch.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		out = append(out, &ch)
	}
	return out, rows.Err()
}
