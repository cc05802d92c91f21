package postgres

// schema is applied on startup. Every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS daily_challenges (
		id         TEXT PRIMARY KEY,
		title      TEXT NOT NULL,
		task       TEXT NOT NULL,
		type       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS user_profiles (
		uid                   TEXT PRIMARY KEY,
		display_name          TEXT NOT NULL DEFAULT '',
		photo_url             TEXT NOT NULL DEFAULT '',
		plan                  TEXT NOT NULL DEFAULT 'free',
		trial_ends_at         TIMESTAMPTZ,
		plan_renews_at        TIMESTAMPTZ,
		max_attempts_override INTEGER,
		extra_attempts        INTEGER NOT NULL DEFAULT 0 CHECK (extra_attempts >= 0),
		total_likes           INTEGER NOT NULL DEFAULT 0,
		total_submissions     INTEGER NOT NULL DEFAULT 0,
		total_comments        INTEGER NOT NULL DEFAULT 0,
		achievements_count    INTEGER NOT NULL DEFAULT 0,
		created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at            TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS attempt_records (
		id              TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL,
		challenge_id    TEXT NOT NULL,
		attempts_used   INTEGER NOT NULL DEFAULT 0,
		has_submitted   BOOLEAN NOT NULL DEFAULT FALSE,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_attempt_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS submissions (
		id             TEXT PRIMARY KEY,
		user_id        TEXT NOT NULL,
		challenge_id   TEXT NOT NULL,
		prompt         TEXT NOT NULL,
		image_url      TEXT NOT NULL,
		likes_count    INTEGER NOT NULL DEFAULT 0,
		comments_count INTEGER NOT NULL DEFAULT 0,
		winner_date    TEXT,
		won_at         TIMESTAMPTZ,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, challenge_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_ranking ON submissions (challenge_id, likes_count DESC, created_at ASC)`,

	`CREATE TABLE IF NOT EXISTS submission_likes (
		submission_id TEXT NOT NULL REFERENCES submissions(id) ON DELETE CASCADE,
		user_id       TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (submission_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS submission_comments (
		id               TEXT PRIMARY KEY,
		submission_id    TEXT NOT NULL REFERENCES submissions(id) ON DELETE CASCADE,
		user_id          TEXT NOT NULL,
		author_name      TEXT NOT NULL DEFAULT '',
		author_photo_url TEXT NOT NULL DEFAULT '',
		text             TEXT NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_submission_comments_submission ON submission_comments (submission_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS daily_winners (
		date          TEXT PRIMARY KEY,
		challenge_id  TEXT NOT NULL,
		submission_id TEXT NOT NULL,
		user_id       TEXT NOT NULL,
		likes_count   INTEGER NOT NULL,
		determined_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS user_achievements (
		user_id        TEXT NOT NULL,
		achievement_id TEXT NOT NULL,
		metadata       JSONB NOT NULL DEFAULT '{}'::jsonb,
		unlocked_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, achievement_id)
	)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id             TEXT PRIMARY KEY,
		user_id        TEXT NOT NULL,
		type           TEXT NOT NULL,
		title          TEXT NOT NULL,
		message        TEXT NOT NULL,
		is_read        BOOLEAN NOT NULL DEFAULT FALSE,
		submission_id  TEXT NOT NULL DEFAULT '',
		challenge_id   TEXT NOT NULL DEFAULT '',
		achievement_id TEXT NOT NULL DEFAULT '',
		actor_id       TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications (user_id, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS device_tokens (
		user_id   TEXT NOT NULL,
		token     TEXT NOT NULL,
		platform  TEXT NOT NULL DEFAULT 'android',
		added_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_used TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, token)
	)`,
}
