package achievement

import "time"

type Category string

const (
	CategorySubmission Category = "submission"
	CategoryStreak     Category = "streak"
	CategoryEngagement Category = "engagement"
	CategoryCommunity  Category = "community"
)

const (
	FirstSpark    = "first_spark"
	WeeklyStreak  = "weekly_streak"
	CrowdFavorite = "crowd_favorite"
	Critic        = "critic"
)

// Thresholds that trigger an evaluation.
const (
	CrowdFavoriteLikes = 100
	CriticComments     = 50
	WeeklyStreakDays   = 7
)

type Achievement struct {
	ID          string   `json:"id" db:"id"`
	Name        string   `json:"name" db:"name"`
	Description string   `json:"description" db:"description"`
	Icon        string   `json:"icon" db:"icon"`
	Category    Category `json:"category" db:"category"`
}

type UserAchievement struct {
	Achievement
	UserID     string         `json:"userId" db:"user_id"`
	Metadata   map[string]any `json:"metadata,omitempty" db:"metadata"`
	UnlockedAt time.Time      `json:"unlockedAt" db:"unlocked_at"`
}

type AchievementWithStatus struct {
	Achievement
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlockedAt,omitempty"`
}

var catalog = []Achievement{
	{
		ID:          FirstSpark,
		Name:        "First Spark",
		Description: "Submitted your first creation to a daily challenge.",
		Icon:        "✨",
		Category:    CategorySubmission,
	},
	{
		ID:          WeeklyStreak,
		Name:        "Weekly Streak",
		Description: "Submitted to the daily challenge seven days in a row.",
		Icon:        "🔥",
		Category:    CategoryStreak,
	},
	{
		ID:          CrowdFavorite,
		Name:        "Crowd Favorite",
		Description: "One of your submissions reached 100 likes.",
		Icon:        "❤️",
		Category:    CategoryEngagement,
	},
	{
		ID:          Critic,
		Name:        "Critic",
		Description: "Left 50 comments on other artists' work.",
		Icon:        "💬",
		Category:    CategoryCommunity,
	},
}

var byID = func() map[string]Achievement {
	m := make(map[string]Achievement, len(catalog))
	for _, a := range catalog {
		m[a.ID] = a
	}
	return m
}()

func Lookup(id string) (Achievement, bool) {
	a, ok := byID[id]
	return a, ok
}

// Catalog returns every known achievement in display order.
func Catalog() []Achievement {
	out := make([]Achievement, len(catalog))
	copy(out, catalog)
	return out
}
