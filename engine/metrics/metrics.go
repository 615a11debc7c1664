package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QuestClaims counts reward claims by outcome (success, not_completed,
	// already_claimed, credit_failed).
	QuestClaims = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "monstergarden_quest_claims_total",
		Help: "Quest reward claims by outcome.",
	}, []string{"outcome"})

	// TriggerFailures counts reactive trigger deliveries that exhausted their
	// retries.
	TriggerFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "monstergarden_trigger_failures_total",
		Help: "Reactive quest trigger deliveries dropped after retries.",
	}, []string{"event"})

	// DebitsRejected counts debits rejected for insufficient funds.
	DebitsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "monstergarden_wallet_debits_rejected_total",
		Help: "Wallet debits rejected because the balance would go negative.",
	})

	// CareActions counts performed care actions by type.
	CareActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "monstergarden_care_actions_total",
		Help: "Care actions performed, by action type.",
	}, []string{"action"})

	// DailyResets counts rows cleared by daily reset runs.
	DailyResets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "monstergarden_daily_reset_rows_total",
		Help: "Quest progress rows cleared by the daily reset job.",
	})
)
