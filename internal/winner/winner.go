package winner

import "time"

type DailyWinner struct {
	Date         string    `json:"date" db:"date"`
	ChallengeID  string    `json:"challengeId" db:"challenge_id"`
	SubmissionID string    `json:"submissionId" db:"submission_id"`
	UserID       string    `json:"userId" db:"user_id"`
	LikesCount   int       `json:"likesCount" db:"likes_count"`
	DeterminedAt time.Time `json:"determinedAt" db:"determined_at"`
}

type JobStatus string

const (
	StatusNoChallenge       JobStatus = "no_challenge"
	StatusNoSubmissions     JobStatus = "no_submissions"
	StatusAlreadyDetermined JobStatus = "already_determined"
	StatusCompleted         JobStatus = "completed"
	StatusPartial           JobStatus = "partial"
)

// JobReport describes one run of the daily winner job. TagError and
// NotifyError are set when the matching best-effort step failed after the
// winner was committed.
type JobReport struct {
	Date        string       `json:"date"`
	Status      JobStatus    `json:"status"`
	Winner      *DailyWinner `json:"winner,omitempty"`
	TagError    string       `json:"tagError,omitempty"`
	NotifyError string       `json:"notifyError,omitempty"`
}
