package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"artSparkAPI/internal/store"
	"artSparkAPI/internal/submission"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const submissionColumns = `id, user_id, challenge_id, prompt, image_url, likes_count,
	comments_count, winner_date, won_at, created_at`

func scanSubmission(row pgx.Row) (*submission.Submission, error) {
	var sub submission.Submission
	err := row.Scan(
		&sub.ID,
		&sub.UserID,
		&sub.ChallengeID,
		&sub.Prompt,
		&sub.ImageURL,
		&sub.LikesCount,
		&sub.CommentsCount,
		&sub.WinnerDate,
		&sub.WonAt,
		&sub.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *Store) CreateSubmission(ctx context.Context, sub *submission.Submission) (int, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO submissions (id, user_id, challenge_id, prompt, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, sub.ID, sub.UserID, sub.ChallengeID, sub.Prompt, sub.ImageURL, sub.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, store.ErrAlreadySubmitted
		}
		return 0, fmt.Errorf("failed to insert submission: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE attempt_records SET has_submitted = TRUE WHERE user_id = $1 AND challenge_id = $2
	`, sub.UserID, sub.ChallengeID)
	if err != nil {
		return 0, fmt.Errorf("failed to flag attempt record: %w", err)
	}

	var total int
	err = tx.QueryRow(ctx, `
		UPDATE user_profiles
		SET total_submissions = total_submissions + 1, updated_at = $2
		WHERE uid = $1
		RETURNING total_submissions
	`, sub.UserID, sub.CreatedAt).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to bump submission total: %w", notFound(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit submission: %w", err)
	}
	return total, nil
}

func (s *Store) GetSubmission(ctx context.Context, id string) (*submission.Submission, error) {
	sub, err := scanSubmission(s.db.QueryRow(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}

	likeRows, err := s.db.Query(ctx, `
		SELECT user_id FROM submission_likes WHERE submission_id = $1 ORDER BY user_id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query likes: %w", err)
	}
	sub.Likes, err = pgx.CollectRows(likeRows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan likes: %w", err)
	}

	commentRows, err := s.db.Query(ctx, `
		SELECT id, submission_id, user_id, author_name, author_photo_url, text, created_at
		FROM submission_comments
		WHERE submission_id = $1
		ORDER BY created_at ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer commentRows.Close()

	sub.Comments = make([]*submission.Comment, 0)
	for commentRows.Next() {
		var c submission.Comment
		if err := commentRows.Scan(&c.ID, &c.SubmissionID, &c.UserID, &c.AuthorName, &c.AuthorPhotoURL, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		sub.Comments = append(sub.Comments, &c)
	}
	return sub, commentRows.Err()
}

func (s *Store) ListSubmissions(ctx context.Context, challengeID string, limit int) ([]*submission.Submission, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+submissionColumns+`
		FROM submissions
		WHERE challenge_id = $1
		ORDER BY likes_count DESC, created_at ASC, id ASC
		LIMIT $2
	`, challengeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	out := make([]*submission.Submission, 0)
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *Store) TopSubmission(ctx context.Context, challengeID string) (*submission.Submission, error) {
	sub, err := scanSubmission(s.db.QueryRow(ctx, `
		SELECT `+submissionColumns+`
		FROM submissions
		WHERE challenge_id = $1
		ORDER BY likes_count DESC, created_at ASC, id ASC
		LIMIT 1
	`, challengeID))
	if err != nil {
		return nil, notFound(err)
	}
	return sub, nil
}

func (s *Store) SubmissionDates(ctx context.Context, uid string) ([]time.Time, error) {
	rows, err := s.db.Query(ctx, `
		SELECT created_at FROM submissions WHERE user_id = $1 ORDER BY created_at DESC
	`, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to query submission dates: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[time.Time])
}

func (s *Store) ToggleLike(ctx context.Context, submissionID, uid string, now time.Time) (*submission.LikeResult, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var ownerID string
	err = tx.QueryRow(ctx, `
		SELECT user_id FROM submissions WHERE id = $1 FOR UPDATE
	`, submissionID).Scan(&ownerID)
	if err != nil {
		return nil, notFound(err)
	}

	res := &submission.LikeResult{OwnerID: ownerID}

	tag, err := tx.Exec(ctx, `
		DELETE FROM submission_likes WHERE submission_id = $1 AND user_id = $2
	`, submissionID, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to remove like: %w", err)
	}

	delta := -1
	if tag.RowsAffected() == 0 {
		delta = 1
		res.Liked = true
		_, err = tx.Exec(ctx, `
			INSERT INTO submission_likes (submission_id, user_id, created_at) VALUES ($1, $2, $3)
		`, submissionID, uid, now)
		if err != nil {
			return nil, fmt.Errorf("failed to add like: %w", err)
		}
	}

	err = tx.QueryRow(ctx, `
		UPDATE submissions SET likes_count = likes_count + $2 WHERE id = $1 RETURNING likes_count
	`, submissionID, delta).Scan(&res.NewCount)
	if err != nil {
		return nil, fmt.Errorf("failed to update like count: %w", err)
	}

	// Self-likes count toward the submission but not the owner's total.
	if uid != ownerID {
		_, err = tx.Exec(ctx, `
			UPDATE user_profiles
			SET total_likes = GREATEST(total_likes + $2, 0), updated_at = $3
			WHERE uid = $1
		`, ownerID, delta, now)
		if err != nil {
			return nil, fmt.Errorf("failed to update owner likes: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit like: %w", err)
	}
	return res, nil
}

func (s *Store) AddComment(ctx context.Context, c *submission.Comment) (*submission.CommentResult, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	res := &submission.CommentResult{}
	err = tx.QueryRow(ctx, `
		UPDATE submissions SET comments_count = comments_count + 1
		WHERE id = $1
		RETURNING user_id, challenge_id
	`, c.SubmissionID).Scan(&res.OwnerID, &res.ChallengeID)
	if err != nil {
		return nil, notFound(err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO submission_comments (id, submission_id, user_id, author_name, author_photo_url, text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, c.ID, c.SubmissionID, c.UserID, c.AuthorName, c.AuthorPhotoURL, c.Text, c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}

	err = tx.QueryRow(ctx, `
		UPDATE user_profiles
		SET total_comments = total_comments + 1, updated_at = $2
		WHERE uid = $1
		RETURNING total_comments
	`, c.UserID, c.CreatedAt).Scan(&res.CommenterTotalComments)
	if err != nil {
		return nil, notFound(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit comment: %w", err)
	}

	out := *c
	res.Comment = &out
	return res, nil
}

func (s *Store) TagWinner(ctx context.Context, submissionID, date string, at time.Time) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE submissions SET winner_date = $2, won_at = $3 WHERE id = $1
	`, submissionID, date, at)
	if err != nil {
		return fmt.Errorf("failed to tag winner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
