package postgres

import (
	"context"
	"fmt"

	"artSparkAPI/internal/achievement"
)

func (s *Store) AwardAchievement(ctx context.Context, ua *achievement.UserAchievement) (bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	metadata := ua.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO user_achievements (user_id, achievement_id, metadata, unlocked_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, achievement_id) DO NOTHING
	`, ua.UserID, ua.ID, metadata, ua.UnlockedAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert achievement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	_, err = tx.Exec(ctx, `
		UPDATE user_profiles SET achievements_count = achievements_count + 1 WHERE uid = $1
	`, ua.UserID)
	if err != nil {
		return false, fmt.Errorf("failed to bump achievement count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit achievement: %w", err)
	}
	return true, nil
}

func (s *Store) ListUserAchievements(ctx context.Context, uid string) ([]*achievement.UserAchievement, error) {
	rows, err := s.db.Query(ctx, `
		SELECT achievement_id, metadata, unlocked_at
		FROM user_achievements
		WHERE user_id = $1
		ORDER BY unlocked_at ASC
	`, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to query achievements: %w", err)
	}
	defer rows.Close()

	out := make([]*achievement.UserAchievement, 0)
	for rows.Next() {
		var (
			id string
			ua achievement.UserAchievement
		)
		if err := rows.Scan(&id, &ua.Metadata, &ua.UnlockedAt); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		def, ok := achievement.Lookup(id)
		if !ok {
			def = achievement.Achievement{ID: id}
		}
		ua.Achievement = def
		ua.UserID = uid
		out = append(out, &ua)
	}
	return out, rows.Err()
}
