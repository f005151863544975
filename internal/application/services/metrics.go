package services

import "github.com/prometheus/client_golang/prometheus"

var (
	taskTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskflow_task_transitions_total",
			Help: "Task state transitions by kind",
		},
		[]string{"transition"},
	)

	projectStarts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "taskflow_project_starts_total",
			Help: "Projects moved to active",
		},
	)

	teamMembershipChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskflow_team_membership_changes_total",
			Help: "Team membership additions and removals",
		},
		[]string{"change"},
	)

	permissionDenials = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskflow_permission_denials_total",
			Help: "Mutations rejected by the access policy",
		},
		[]string{"reason"},
	)

	authEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskflow_auth_events_total",
			Help: "Authentication outcomes",
		},
		[]string{"event"},
	)
)

// Collectors returns the domain metrics for registration with a registry
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		taskTransitions,
		projectStarts,
		teamMembershipChanges,
		permissionDenials,
		authEvents,
	}
}
