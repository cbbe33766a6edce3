package charging

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	queueDepth     prometheus.Gauge
	stationsBusy   prometheus.Gauge
	requestsTotal  *prometheus.CounterVec
	waitSeconds    prometheus.Histogram
	chargeDuration prometheus.Histogram
)

// Request outcomes used as the "outcome" label of charging_requests_total.
const (
	outcomeAdmitted = "admitted"
	outcomeRejected = "rejected"
	outcomeCharged  = "charged"
	outcomeDrained  = "drained"
)

func newCollectors() (prometheus.Gauge, prometheus.Gauge, *prometheus.CounterVec, prometheus.Histogram, prometheus.Histogram) {
	depth := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "charging_queue_depth",
		Help: "Requests waiting for a free charging station",
	})
	busy := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "charging_stations_busy",
		Help: "Charging stations currently holding an aircraft",
	})
	reqs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "charging_requests_total",
			Help: "Charge requests by outcome",
		},
		[]string{"outcome"},
	)
	wait := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "charging_wait_seconds",
		Help:    "Time between submission and station assignment",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	})
	dur := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "charging_duration_seconds",
		Help:    "Time an aircraft spent on a charging station",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	})
	return depth, busy, reqs, wait, dur
}

func init() {
	queueDepth, stationsBusy, requestsTotal, waitSeconds, chargeDuration = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers the scheduler collectors on reg.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(queueDepth, stationsBusy, requestsTotal, waitSeconds, chargeDuration)
}

// ResetMetrics recreates the collectors for tests and registers them on
// reg when it is not nil.
func ResetMetrics(reg prometheus.Registerer) {
	queueDepth, stationsBusy, requestsTotal, waitSeconds, chargeDuration = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
