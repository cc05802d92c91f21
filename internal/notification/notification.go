package notification

import "time"

type NotificationType string

const (
	TypeLike        NotificationType = "like"
	TypeComment     NotificationType = "comment"
	TypeWinner      NotificationType = "winner"
	TypeAchievement NotificationType = "achievement"
)

type Notification struct {
	ID            string           `json:"id" db:"id"`
	UserID        string           `json:"userId" db:"user_id"`
	Type          NotificationType `json:"type" db:"type"`
	Title         string           `json:"title" db:"title"`
	Message       string           `json:"message" db:"message"`
	IsRead        bool             `json:"isRead" db:"is_read"`
	SubmissionID  string           `json:"submissionId,omitempty" db:"submission_id"`
	ChallengeID   string           `json:"challengeId,omitempty" db:"challenge_id"`
	AchievementID string           `json:"achievementId,omitempty" db:"achievement_id"`
	ActorID       string           `json:"actorId,omitempty" db:"actor_id"`
	CreatedAt     time.Time        `json:"createdAt" db:"created_at"`
}

type DeviceToken struct {
	Token    string    `json:"token" db:"token"`
	Platform string    `json:"platform" db:"platform"`
	AddedAt  time.Time `json:"addedAt" db:"added_at"`
	LastUsed time.Time `json:"lastUsed" db:"last_used"`
}

// Data is the push payload attached to a notification.
func (n *Notification) Data() map[string]any {
	data := map[string]any{
		"notification_id": n.ID,
		"type":            string(n.Type),
	}
	if n.SubmissionID != "" {
		data["submission_id"] = n.SubmissionID
	}
	if n.ChallengeID != "" {
		data["challenge_id"] = n.ChallengeID
	}
	if n.AchievementID != "" {
		data["achievement_id"] = n.AchievementID
	}
	return data
}
