// Package metrics exposes Prometheus counters for frame traffic, retries,
// ACKs, and send-gate stalls, satisfying the session.Observer contract.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry bundles every counter/gauge this process exports.
type Registry struct {
	framesSent       prometheus.Counter
	framesReceived   prometheus.Counter
	retriesSeen      prometheus.Counter
	acksSent         prometheus.Counter
	gateClosedFor    prometheus.Histogram
	sessionsActive   prometheus.Gauge
}

// NewRegistry registers every metric against reg (pass prometheus.DefaultRegisterer
// in production, a fresh registry in tests).
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)
	return &Registry{
		framesSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "reacontrol24_frames_sent_total",
			Help: "Ethernet frames transmitted to consoles.",
		}),
		framesReceived: factory.NewCounter(prometheus.CounterOpts{
			Name: "reacontrol24_frames_received_total",
			Help: "Ethernet frames received from consoles.",
		}),
		retriesSeen: factory.NewCounter(prometheus.CounterOpts{
			Name: "reacontrol24_retries_total",
			Help: "Retry signals observed from consoles.",
		}),
		acksSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "reacontrol24_acks_sent_total",
			Help: "ACK frames sent to consoles.",
		}),
		gateClosedFor: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "reacontrol24_gate_closed_seconds",
			Help:    "Duration the send-gate stayed closed per backoff cycle.",
			Buckets: prometheus.DefBuckets,
		}),
		sessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "reacontrol24_sessions_active",
			Help: "Currently active device sessions.",
		}),
	}
}

func (r *Registry) FrameSent()     { r.framesSent.Inc() }
func (r *Registry) FrameReceived() { r.framesReceived.Inc() }
func (r *Registry) RetrySeen()     { r.retriesSeen.Inc() }
func (r *Registry) AckSent()       { r.acksSent.Inc() }

func (r *Registry) GateClosedFor(d time.Duration) { r.gateClosedFor.Observe(d.Seconds()) }

func (r *Registry) SessionOpened() { r.sessionsActive.Inc() }
func (r *Registry) SessionClosed() { r.sessionsActive.Dec() }
