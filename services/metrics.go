package services

import "github.com/prometheus/client_golang/prometheus"

var (
	engagementEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artspark_engagement_events_total",
			Help: "Likes, unlikes and comments committed",
		},
		[]string{"kind"},
	)
	attemptOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artspark_attempts_total",
			Help: "Generation attempts by outcome",
		},
		[]string{"outcome"},
	)
	winnerJobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artspark_winner_job_runs_total",
			Help: "Daily winner job runs by status",
		},
		[]string{"status"},
	)
	achievementsAwarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artspark_achievements_awarded_total",
			Help: "Achievements newly awarded",
		},
		[]string{"achievement"},
	)
	pushDispatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artspark_push_dispatch_total",
			Help: "Push notification dispatch results",
		},
		[]string{"result"},
	)
)

// InitMetrics registers the domain collectors. Call once from main.
func InitMetrics(reg prometheus.Registerer) {
	reg.MustRegister(engagementEvents, attemptOutcomes, winnerJobRuns, achievementsAwarded, pushDispatches)
}
