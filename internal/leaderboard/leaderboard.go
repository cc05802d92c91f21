package leaderboard

import "fmt"

type SortKey string

const (
	SortLikes        SortKey = "likes"
	SortSubmissions  SortKey = "submissions"
	SortComments     SortKey = "comments"
	SortAchievements SortKey = "achievements"
)

const PageSize = 20

// ParseSortKey defaults to likes for an empty key.
func ParseSortKey(raw string) (SortKey, error) {
	switch SortKey(raw) {
	case "":
		return SortLikes, nil
	case SortLikes, SortSubmissions, SortComments, SortAchievements:
		return SortKey(raw), nil
	}
	return "", fmt.Errorf("unknown leaderboard sort key %q", raw)
}

type LeaderboardEntry struct {
	UserID      string `json:"userId" db:"uid"`
	DisplayName string `json:"displayName" db:"display_name"`
	PhotoURL    string `json:"photoUrl,omitempty" db:"photo_url"`
	Score       int    `json:"score"`
	Rank        int    `json:"rank"`
}

type Leaderboard struct {
	SortKey    SortKey             `json:"sortKey"`
	Entries    []*LeaderboardEntry `json:"entries"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"pageSize"`
	TotalUsers int                 `json:"totalUsers"`
}
