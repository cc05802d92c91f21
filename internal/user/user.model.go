package user

import "time"

type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

const (
	FreeMaxAttempts = 5
	ProMaxAttempts  = 15
)

type Profile struct {
	UID                 string     `json:"uid" db:"uid"`
	DisplayName         string     `json:"displayName" db:"display_name"`
	PhotoURL            string     `json:"photoUrl,omitempty" db:"photo_url"`
	Plan                Plan       `json:"plan" db:"plan"`
	TrialEndsAt         *time.Time `json:"trialEndsAt,omitempty" db:"trial_ends_at"`
	PlanRenewsAt        *time.Time `json:"planRenewsAt,omitempty" db:"plan_renews_at"`
	MaxAttemptsOverride *int       `json:"maxAttemptsOverride,omitempty" db:"max_attempts_override"`
	ExtraAttempts       int        `json:"extraAttempts" db:"extra_attempts"`
	TotalLikes          int        `json:"totalLikes" db:"total_likes"`
	TotalSubmissions    int        `json:"totalSubmissions" db:"total_submissions"`
	TotalComments       int        `json:"totalComments" db:"total_comments"`
	AchievementsCount   int        `json:"achievementsCount" db:"achievements_count"`
	CreatedAt           time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time  `json:"updatedAt" db:"updated_at"`
}

// NewProfile returns the defaulted profile written on first sign-in.
func NewProfile(uid string, now time.Time, trial time.Duration) *Profile {
	p := &Profile{
		UID:       uid,
		Plan:      PlanFree,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if trial > 0 {
		ends := now.Add(trial)
		p.TrialEndsAt = &ends
	}
	return p
}

func (p *Profile) TrialActive(now time.Time) bool {
	return p.TrialEndsAt != nil && now.Before(*p.TrialEndsAt)
}

// EffectivePlan treats an active trial as pro.
func (p *Profile) EffectivePlan(now time.Time) Plan {
	if p.Plan == PlanPro || p.TrialActive(now) {
		return PlanPro
	}
	return PlanFree
}

// BaseMaxAttempts is the per-challenge allowance before purchased extras.
func (p *Profile) BaseMaxAttempts(now time.Time) int {
	if p.MaxAttemptsOverride != nil {
		return *p.MaxAttemptsOverride
	}
	if p.EffectivePlan(now) == PlanPro {
		return ProMaxAttempts
	}
	return FreeMaxAttempts
}
