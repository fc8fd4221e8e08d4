package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UsersRegistered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "users_registered_total",
			Help: "Total number of created user accounts by origin",
		},
		[]string{"origin"},
	)

	UsersDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "users_deleted_total",
			Help: "Total number of user deletions by outcome",
		},
		[]string{"outcome"},
	)

	PasswordChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "password_changes_total",
			Help: "Total number of password changes by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	RoleUpdatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "role_updates_total",
			Help: "Total number of role set replacements",
		},
	)

	AuthAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of basic auth attempts by outcome",
		},
		[]string{"outcome"},
	)

	TodoOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todo_operations_total",
			Help: "Total number of todo operations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)
)
