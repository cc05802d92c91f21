package challenge

import (
	"fmt"
	"time"
)

type Type string

const (
	TypeCurated Type = "curated"
	TypeDynamic Type = "dynamic"
	TypeSpecial Type = "special"
	TypeManual  Type = "manual"
)

// DateLayout is the format of a challenge id.
const DateLayout = "2006-01-02"

type DailyChallenge struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Task      string    `json:"task" db:"task"`
	Type      Type      `json:"type" db:"type"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type GetChallengeResponse struct {
	Exists    bool            `json:"exists"`
	Challenge *DailyChallenge `json:"challenge,omitempty"`
}

type CreateManualRequest struct {
	Title string `json:"title"`
	Task  string `json:"task"`
}

// DateKey formats t as a challenge id in loc.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD challenge id as midnight UTC.
func ParseDate(key string) (time.Time, error) {
	t, err := time.Parse(DateLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid challenge date %q: %w", key, err)
	}
	return t, nil
}
