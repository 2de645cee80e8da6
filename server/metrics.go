package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// requestsTotal counts agent calls by route and result
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pownet_agent_requests_total",
		Help: "Total agent calls by route and result",
	}, []string{"route", "result"})

	// stepReward tracks the summed reward vector fed back to the agent
	stepReward = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pownet_agent_step_reward",
		Help:    "Summed reward of every step returned by the simulator",
		Buckets: prometheus.LinearBuckets(-5, 1, 11),
	})

	// gameOversTotal counts the episodes the simulator reported as over
	gameOversTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pownet_agent_game_overs_total",
		Help: "Total episodes ended by the simulator",
	})
)

func observe(route string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	requestsTotal.WithLabelValues(route, result).Inc()
}
