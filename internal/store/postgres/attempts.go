package postgres

import (
	"context"
	"fmt"
	"time"

	"artSparkAPI/internal/attempt"
	"artSparkAPI/internal/store"
)

func (s *Store) RecordAttempt(ctx context.Context, uid, challengeID string, allowance attempt.Allowance, now time.Time) (*attempt.Record, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	key := attempt.Key(uid, challengeID)

	_, err = tx.Exec(ctx, `
		INSERT INTO attempt_records (id, user_id, challenge_id, attempts_used, created_at, last_attempt_at)
		VALUES ($1, $2, $3, 0, $4, $4)
		ON CONFLICT (id) DO NOTHING
	`, key, uid, challengeID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to seed attempt record: %w", err)
	}

	var used int
	err = tx.QueryRow(ctx, `
		SELECT attempts_used FROM attempt_records WHERE id = $1 FOR UPDATE
	`, key).Scan(&used)
	if err != nil {
		return nil, fmt.Errorf("failed to lock attempt record: %w", err)
	}

	if used >= allowance.Base {
		tag, err := tx.Exec(ctx, `
			UPDATE user_profiles
			SET extra_attempts = extra_attempts - 1, updated_at = $2
			WHERE uid = $1 AND extra_attempts > 0
		`, uid, now)
		if err != nil {
			return nil, fmt.Errorf("failed to consume extra attempt: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil, store.ErrAttemptCapReached
		}
	}

	var rec attempt.Record
	err = tx.QueryRow(ctx, `
		UPDATE attempt_records
		SET attempts_used = attempts_used + 1, last_attempt_at = $2
		WHERE id = $1
		RETURNING id, user_id, challenge_id, attempts_used, has_submitted, created_at, last_attempt_at
	`, key, now).Scan(
		&rec.ID,
		&rec.UserID,
		&rec.ChallengeID,
		&rec.AttemptsUsed,
		&rec.HasSubmitted,
		&rec.CreatedAt,
		&rec.LastAttemptAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to increment attempts: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit attempt: %w", err)
	}
	return &rec, nil
}

func (s *Store) GetAttempt(ctx context.Context, uid, challengeID string) (*attempt.Record, error) {
	var rec attempt.Record
	err := s.db.QueryRow(ctx, `
		SELECT id, user_id, challenge_id, attempts_used, has_submitted, created_at, last_attempt_at
		FROM attempt_records
		WHERE id = $1
	`, attempt.Key(uid, challengeID)).Scan(
		&rec.ID,
		&rec.UserID,
		&rec.ChallengeID,
		&rec.AttemptsUsed,
		&rec.HasSubmitted,
		&rec.CreatedAt,
		&rec.LastAttemptAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &rec, nil
}
