// Package metrics exposes arena activity to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/bomb-arena/internal/core"
	"github.com/vovakirdan/bomb-arena/internal/registry"
)

// Metrics holds the collectors for one server process.
type Metrics struct {
	reg *prometheus.Registry

	ActiveSessions prometheus.Gauge
	Sessions       prometheus.Counter
	Events         *prometheus.CounterVec
	Matches        *prometheus.CounterVec
	MatchDuration  *prometheus.HistogramVec
}

var _ registry.Observer = (*Metrics)(nil)

// New creates the collectors and registers them on a private registry.
func New(namespace string) *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of connected SSH sessions",
		}),
		Sessions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Total number of SSH sessions accepted",
		}),
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "arena_events_total",
			Help:      "Arena lifecycle events by kind",
		}, []string{"game", "kind"}),
		Matches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_total",
			Help:      "Finished matches by end reason",
		}, []string{"game", "reason"}),
		MatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_duration_seconds",
			Help:      "Logical duration of finished matches",
			Buckets:   prometheus.ExponentialBuckets(15, 2, 7),
		}, []string{"game"}),
	}

	m.reg.MustRegister(
		m.ActiveSessions,
		m.Sessions,
		m.Events,
		m.Matches,
		m.MatchDuration,
	)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// SessionStarted records a new SSH session.
func (m *Metrics) SessionStarted() {
	m.Sessions.Inc()
	m.ActiveSessions.Inc()
}

// SessionEnded records a closed SSH session.
func (m *Metrics) SessionEnded() {
	m.ActiveSessions.Dec()
}

// Event implements registry.Observer.
func (m *Metrics) Event(gameID, kind string) {
	m.Events.WithLabelValues(gameID, kind).Inc()
}

// MatchOver implements registry.Observer.
func (m *Metrics) MatchOver(gameID string, r core.MatchResult) {
	m.Matches.WithLabelValues(gameID, r.Reason).Inc()
	m.MatchDuration.WithLabelValues(gameID).Observe(r.Duration.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
