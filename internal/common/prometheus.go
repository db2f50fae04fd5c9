package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	LotteryRoundsSettledTotal  = "lottery_rounds_settled_total"
	LotteryEntriesTotal        = "lottery_entries_total"
)

var (
	PromGauges = map[string]*prometheus.GaugeVec{}

	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"method", "status_code"}),
		LotteryRoundsSettledTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: LotteryRoundsSettledTotal,
			Help: "Count of all settled lottery rounds",
		}, []string{"result"}),
		LotteryEntriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: LotteryEntriesTotal,
			Help: "Count of all accepted lottery entries",
		}, []string{}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"method", "status_code"}),
	}

	PromSummaries = map[string]*prometheus.SummaryVec{}
)
