package attempt

import "time"

type Record struct {
	ID            string    `json:"id" db:"id"`
	UserID        string    `json:"userId" db:"user_id"`
	ChallengeID   string    `json:"challengeId" db:"challenge_id"`
	AttemptsUsed  int       `json:"attemptsUsed" db:"attempts_used"`
	HasSubmitted  bool      `json:"hasSubmitted" db:"has_submitted"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	LastAttemptAt time.Time `json:"lastAttemptAt" db:"last_attempt_at"`
}

// Allowance is the cap applied to a single recordAttempt call. Base comes
// from the plan; purchased extras are read and consumed by the store inside
// the same transaction as the increment.
type Allowance struct {
	Base int
}

type Status struct {
	ChallengeID   string `json:"challengeId"`
	AttemptsUsed  int    `json:"attemptsUsed"`
	MaxAttempts   int    `json:"maxAttempts"`
	Remaining     int    `json:"remaining"`
	ExtraAttempts int    `json:"extraAttempts"`
	HasSubmitted  bool   `json:"hasSubmitted"`
}

type RecordResponse struct {
	OK     bool    `json:"ok"`
	Record *Record `json:"record"`
}

// Key is the composite ledger id for a user and challenge.
func Key(userID, challengeID string) string {
	return userID + "_" + challengeID
}
