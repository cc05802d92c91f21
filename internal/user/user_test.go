package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBaseMaxAttempts(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	free := NewProfile("u1", now, 0)
	assert.Equal(t, FreeMaxAttempts, free.BaseMaxAttempts(now))
	assert.Nil(t, free.TrialEndsAt)

	trial := NewProfile("u2", now, 7*24*time.Hour)
	assert.Equal(t, PlanPro, trial.EffectivePlan(now))
	assert.Equal(t, ProMaxAttempts, trial.BaseMaxAttempts(now))
	assert.Equal(t, FreeMaxAttempts, trial.BaseMaxAttempts(now.Add(8*24*time.Hour)))

	pro := NewProfile("u3", now, 0)
	pro.Plan = PlanPro
	assert.Equal(t, ProMaxAttempts, pro.BaseMaxAttempts(now))

	override := 2
	pro.MaxAttemptsOverride = &override
	assert.Equal(t, 2, pro.BaseMaxAttempts(now))
}
