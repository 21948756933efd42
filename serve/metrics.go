package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/safwanadnan/termfolio"
	"github.com/safwanadnan/termfolio/shell"
)

var (
	commandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "termfolio_commands_total",
			Help: "Total number of submitted commands",
		},
		[]string{"command", "outcome"},
	)

	completionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "termfolio_completions_total",
			Help: "Total number of tab completions",
		},
		[]string{"result"},
	)

	sessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "termfolio_sessions_active",
			Help: "Number of live terminal sessions",
		},
	)

	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "termfolio_requests_total",
			Help: "Total number of client requests",
		},
		[]string{"transport", "action"},
	)
)

// metricsObserver counts commands and completions.
type metricsObserver struct{}

func (metricsObserver) CommandDone(command string, out *termfolio.Output) {
	if command == "" {
		command = "unknown"
	}
	outcome := "ok"
	if out != nil && out.Kind == termfolio.KindError {
		outcome = "error"
	}
	commandsTotal.WithLabelValues(command, outcome).Inc()
}

func (metricsObserver) CompletionDone(action shell.CompletionAction) {
	completionsTotal.WithLabelValues(action.String()).Inc()
}
