package submission

import "time"

const (
	MaxCommentLength = 500
	MaxPromptLength  = 1000
)

type Submission struct {
	ID            string     `json:"id" db:"id"`
	UserID        string     `json:"userId" db:"user_id"`
	ChallengeID   string     `json:"challengeId" db:"challenge_id"`
	Prompt        string     `json:"prompt" db:"prompt"`
	ImageURL      string     `json:"imageUrl" db:"image_url"`
	LikesCount    int        `json:"likesCount" db:"likes_count"`
	CommentsCount int        `json:"commentsCount" db:"comments_count"`
	WinnerDate    *string    `json:"winnerDate,omitempty" db:"winner_date"`
	WonAt         *time.Time `json:"wonAt,omitempty" db:"won_at"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`

	// Populated only when a single submission is loaded.
	Likes    []string   `json:"likes,omitempty"`
	Comments []*Comment `json:"comments,omitempty"`
}

type Comment struct {
	ID             string    `json:"id" db:"id"`
	SubmissionID   string    `json:"submissionId" db:"submission_id"`
	UserID         string    `json:"userId" db:"user_id"`
	AuthorName     string    `json:"authorName" db:"author_name"`
	AuthorPhotoURL string    `json:"authorPhotoUrl,omitempty" db:"author_photo_url"`
	Text           string    `json:"text" db:"text"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// LikeResult is what a like toggle committed.
type LikeResult struct {
	Liked    bool   `json:"liked"`
	NewCount int    `json:"newCount"`
	OwnerID  string `json:"-"`
}

// CommentResult is what a comment append committed.
type CommentResult struct {
	Comment                *Comment `json:"comment"`
	OwnerID                string   `json:"-"`
	ChallengeID            string   `json:"-"`
	CommenterTotalComments int      `json:"-"`
}

type CreateRequest struct {
	Prompt   string `json:"prompt"`
	ImageURL string `json:"imageUrl"`
}

type CommentRequest struct {
	Text string `json:"text"`
}

type UploadURLRequest struct {
	ChallengeID string `json:"challengeId"`
	ContentType string `json:"contentType"`
}

type UploadURLResponse struct {
	UploadURL string    `json:"uploadUrl"`
	ObjectKey string    `json:"objectKey"`
	ImageURL  string    `json:"imageUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}
