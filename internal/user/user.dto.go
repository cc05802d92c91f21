package user

import "time"

type UpsertIdentityRequest struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoUrl,omitempty"`
}

type SubscriptionUpdate struct {
	UID      string
	Plan     Plan
	RenewsAt *time.Time
}

type ProfileResponse struct {
	Profile       *Profile `json:"profile"`
	EffectivePlan Plan     `json:"effectivePlan"`
	MaxAttempts   int      `json:"maxAttempts"`
}
