// Package metrics collects and exposes Prometheus metrics for the ledger.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the ledger and transport report into.
type Recorder interface {
	RecordMeeting(members, slicesAwarded int)
	RecordCorrection(deltaSlices int, clamped bool)
	RecordLedgerError(op, kind string)
	RecordRPC(procedure, code string, duration time.Duration)
}

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	meetings      prometheus.Counter
	entries       prometheus.Counter
	slicesAwarded prometheus.Counter
	corrections   *prometheus.CounterVec
	correctedBy   prometheus.Histogram
	ledgerErrors  *prometheus.CounterVec
	rpcDuration   *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		meetings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "latepizza_meetings_recorded_total",
			Help: "Meetings recorded.",
		}),
		entries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "latepizza_meeting_entries_total",
			Help: "Member entries written across all meetings.",
		}),
		slicesAwarded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "latepizza_slices_awarded_total",
			Help: "Slices awarded by the lateness formula.",
		}),
		corrections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "latepizza_corrections_total",
			Help: "Corrections applied, by direction and whether the zero floor clamped them.",
		}, []string{"direction", "clamped"}),
		correctedBy: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "latepizza_correction_slices",
			Help:    "Absolute size of corrections in slices.",
			Buckets: []float64{1, 2, 3, 6, 12, 24, 60},
		}),
		ledgerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "latepizza_ledger_errors_total",
			Help: "Ledger operation failures by operation and error kind.",
		}, []string{"op", "kind"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "latepizza_rpc_duration_seconds",
			Help:    "RPC latency by procedure and result code.",
			Buckets: prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
	}

	reg.MustRegister(
		c.meetings,
		c.entries,
		c.slicesAwarded,
		c.corrections,
		c.correctedBy,
		c.ledgerErrors,
		c.rpcDuration,
	)

	return c
}

// RecordMeeting records one meeting with its entry count and total award.
func (c *Collector) RecordMeeting(members, slicesAwarded int) {
	c.meetings.Inc()
	c.entries.Add(float64(members))
	c.slicesAwarded.Add(float64(slicesAwarded))
}

// RecordCorrection records one correction.
func (c *Collector) RecordCorrection(deltaSlices int, clamped bool) {
	direction := "up"
	if deltaSlices < 0 {
		direction = "down"
		deltaSlices = -deltaSlices
	}
	c.corrections.WithLabelValues(direction, strconv.FormatBool(clamped)).Inc()
	c.correctedBy.Observe(float64(deltaSlices))
}

// RecordLedgerError records a failed ledger operation.
func (c *Collector) RecordLedgerError(op, kind string) {
	c.ledgerErrors.WithLabelValues(op, kind).Inc()
}

// RecordRPC records the latency of one RPC.
func (c *Collector) RecordRPC(procedure, code string, duration time.Duration) {
	c.rpcDuration.WithLabelValues(procedure, code).Observe(duration.Seconds())
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordMeeting(int, int)                  {}
func (Nop) RecordCorrection(int, bool)              {}
func (Nop) RecordLedgerError(string, string)        {}
func (Nop) RecordRPC(string, string, time.Duration) {}

// Handler returns the HTTP handler Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
