package notification

type CreateNotificationRequest struct {
	UserID        string           `json:"userId"`
	Type          NotificationType `json:"type"`
	Title         string           `json:"title"`
	Message       string           `json:"message"`
	SubmissionID  string           `json:"submissionId,omitempty"`
	ChallengeID   string           `json:"challengeId,omitempty"`
	AchievementID string           `json:"achievementId,omitempty"`
	ActorID       string           `json:"actorId,omitempty"`
}

type RegisterDeviceRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

type NotificationListResponse struct {
	Notifications []*Notification `json:"notifications"`
	UnreadCount   int             `json:"unreadCount"`
	TotalCount    int             `json:"totalCount"`
	Page          int             `json:"page"`
	PageSize      int             `json:"pageSize"`
}
