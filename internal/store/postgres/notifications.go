package postgres

import (
	"context"
	"fmt"

	"artSparkAPI/internal/notification"
	"artSparkAPI/internal/store"
)

func (s *Store) CreateNotification(ctx context.Context, n *notification.Notification) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO notifications (id, user_id, type, title, message, is_read,
			submission_id, challenge_id, achievement_id, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, n.ID, n.UserID, n.Type, n.Title, n.Message, n.IsRead,
		n.SubmissionID, n.ChallengeID, n.AchievementID, n.ActorID, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (s *Store) ListNotifications(ctx context.Context, uid string, limit, offset int) ([]*notification.Notification, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, type, title, message, is_read,
			submission_id, challenge_id, achievement_id, actor_id, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, uid, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	out := make([]*notification.Notification, 0, limit)
	for rows.Next() {
		var n notification.Notification
		err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.IsRead,
			&n.SubmissionID, &n.ChallengeID, &n.AchievementID, &n.ActorID, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

func (s *Store) CountNotifications(ctx context.Context, uid string) (int, int, error) {
	var unread, total int
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE NOT is_read), COUNT(*)
		FROM notifications
		WHERE user_id = $1
	`, uid).Scan(&unread, &total)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return unread, total, nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, uid, id string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2
	`, id, uid)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context, uid string) (int, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND NOT is_read
	`, uid)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *Store) UpsertDeviceToken(ctx context.Context, uid string, token notification.DeviceToken) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO device_tokens (user_id, token, platform, added_at, last_used)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, token) DO UPDATE
		SET platform = EXCLUDED.platform, last_used = EXCLUDED.last_used
	`, uid, token.Token, token.Platform, token.AddedAt, token.LastUsed)
	if err != nil {
		return fmt.Errorf("failed to upsert device token: %w", err)
	}
	return nil
}

func (s *Store) DeviceTokens(ctx context.Context, uid string) ([]notification.DeviceToken, error) {
	rows, err := s.db.Query(ctx, `
		SELECT token, platform, added_at, last_used
		FROM device_tokens
		WHERE user_id = $1
		ORDER BY token
	`, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to query device tokens: %w", err)
	}
	defer rows.Close()

	out := make([]notification.DeviceToken, 0)
	for rows.Next() {
		var t notification.DeviceToken
		if err := rows.Scan(&t.Token, &t.Platform, &t.AddedAt, &t.LastUsed); err != nil {
			return nil, fmt.Errorf("failed to scan device token: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
