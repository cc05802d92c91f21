package postgres

import (
	"context"
	"fmt"
	"time"

	"artSparkAPI/internal/leaderboard"
	"artSparkAPI/internal/store"
	"artSparkAPI/internal/user"

	"github.com/jackc/pgx/v5"
)

const profileColumns = `uid, display_name, photo_url, plan, trial_ends_at, plan_renews_at,
	max_attempts_override, extra_attempts, total_likes, total_submissions,
	total_comments, achievements_count, created_at, updated_at`

func scanProfile(row pgx.Row) (*user.Profile, error) {
	var p user.Profile
	err := row.Scan(
		&p.UID,
		&p.DisplayName,
		&p.PhotoURL,
		&p.Plan,
		&p.TrialEndsAt,
		&p.PlanRenewsAt,
		&p.MaxAttemptsOverride,
		&p.ExtraAttempts,
		&p.TotalLikes,
		&p.TotalSubmissions,
		&p.TotalComments,
		&p.AchievementsCount,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) EnsureProfile(ctx context.Context, p *user.Profile) (*user.Profile, error) {
	_, err := s.db.Exec(ctx, `
		INSERT INTO user_profiles (uid, display_name, photo_url, plan, trial_ends_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (uid) DO NOTHING
	`, p.UID, p.DisplayName, p.PhotoURL, p.Plan, p.TrialEndsAt, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert profile: %w", err)
	}
	return s.GetProfile(ctx, p.UID)
}

func (s *Store) GetProfile(ctx context.Context, uid string) (*user.Profile, error) {
	p, err := scanProfile(s.db.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM user_profiles WHERE uid = $1`, uid))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (s *Store) UpdateIdentity(ctx context.Context, uid, displayName, photoURL string, now time.Time) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE user_profiles
		SET display_name = $2, photo_url = $3, updated_at = $4
		WHERE uid = $1
	`, uid, displayName, photoURL, now)
	if err != nil {
		return fmt.Errorf("failed to update identity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) UpdateSubscription(ctx context.Context, upd user.SubscriptionUpdate, now time.Time) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE user_profiles
		SET plan = $2,
		    plan_renews_at = COALESCE($3, CASE WHEN $2 = 'pro' THEN plan_renews_at END),
		    updated_at = $4
		WHERE uid = $1
	`, upd.UID, string(upd.Plan), upd.RenewsAt, now)
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) AddExtraAttempts(ctx context.Context, uid string, n int, now time.Time) (int, error) {
	var extra int
	err := s.db.QueryRow(ctx, `
		UPDATE user_profiles
		SET extra_attempts = extra_attempts + $2, updated_at = $3
		WHERE uid = $1
		RETURNING extra_attempts
	`, uid, n, now).Scan(&extra)
	if err != nil {
		return 0, notFound(err)
	}
	return extra, nil
}

var leaderboardColumn = map[leaderboard.SortKey]string{
	leaderboard.SortLikes:        "total_likes",
	leaderboard.SortSubmissions:  "total_submissions",
	leaderboard.SortComments:     "total_comments",
	leaderboard.SortAchievements: "achievements_count",
}

func (s *Store) ListLeaderboard(ctx context.Context, key leaderboard.SortKey, limit, offset int) ([]*leaderboard.LeaderboardEntry, int, error) {
	column, ok := leaderboardColumn[key]
	if !ok {
		column = leaderboardColumn[leaderboard.SortLikes]
	}

	var total int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM user_profiles`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count profiles: %w", err)
	}

	// column comes from a fixed whitelist.
	query := fmt.Sprintf(`
		SELECT uid, display_name, photo_url, %[1]s
		FROM user_profiles
		ORDER BY %[1]s DESC, uid ASC
		LIMIT $1 OFFSET $2
	`, column)

	rows, err := s.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]*leaderboard.LeaderboardEntry, 0, limit)
	rank := offset
	for rows.Next() {
		var e leaderboard.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.DisplayName, &e.PhotoURL, &e.Score); err != nil {
			return nil, 0, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		rank++
		e.Rank = rank
		entries = append(entries, &e)
	}
	return entries, total, rows.Err()
}
