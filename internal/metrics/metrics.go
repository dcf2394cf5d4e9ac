package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bullscows"

// Metrics defines our Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	RoomsCreated    prometheus.Counter
	ActiveRooms     prometheus.Gauge
	Joins           *prometheus.CounterVec
	Guesses         *prometheus.CounterVec
	GamesWon        prometheus.Counter
	GamesCompleted  prometheus.Counter
	EventsPublished *prometheus.CounterVec
	EventsDropped   *prometheus.CounterVec
	Subscribers     *prometheus.GaugeVec
	RequestDuration *prometheus.HistogramVec
	UpdateConflicts prometheus.Counter
}

// New creates the metric set on a dedicated registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RoomsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rooms_created_total",
			Help:      "Rooms created.",
		}),
		ActiveRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rooms_active",
			Help:      "Rooms currently held by this instance's controllers.",
		}),
		Joins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "room_joins_total",
			Help:      "Join attempts by outcome.",
		}, []string{"outcome"}),
		Guesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guesses_total",
			Help:      "Submitted guesses by outcome.",
		}, []string{"outcome"}),
		GamesWon: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_won_total",
			Help:      "Matches ended by a winning guess.",
		}),
		GamesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_completed_total",
			Help:      "Players that reported completion without winning.",
		}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Broadcast events by type and scope.",
		}, []string{"event", "scope"}),
		EventsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Events not delivered to a subscriber because its buffer was full.",
		}, []string{"event"}),
		Subscribers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "subscribers",
			Help:      "Connected event subscribers by transport.",
		}, []string{"transport"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		UpdateConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "room_update_conflicts_total",
			Help:      "Room saves rejected by the optimistic version check.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RoomsCreated,
		m.ActiveRooms,
		m.Joins,
		m.Guesses,
		m.GamesWon,
		m.GamesCompleted,
		m.EventsPublished,
		m.EventsDropped,
		m.Subscribers,
		m.RequestDuration,
		m.UpdateConflicts,
	)

	return m
}

// Registry returns the registry all metrics are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
