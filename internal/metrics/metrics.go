package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/classroom-server/internal/core"
)

const namespace = "classroom"

// Metrics records hub activity as Prometheus collectors. It implements core.Observer.
type Metrics struct {
	registry *prometheus.Registry

	connections     prometheus.Gauge
	rooms           prometheus.Gauge
	roomsOpened     prometheus.Counter
	signalsRelayed  prometheus.Counter
	signalsDropped  prometheus.Counter
	broadcasts      *prometheus.CounterVec
	recipients      *prometheus.CounterVec
	deliveryDropped *prometheus.CounterVec
}

var _ core.Observer = (*Metrics)(nil)

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections",
			Help:      "Live client connections.",
		}),
		rooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rooms",
			Help:      "Live rooms.",
		}),
		roomsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rooms_opened_total",
			Help:      "Rooms created since start.",
		}),
		signalsRelayed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signals_relayed_total",
			Help:      "Negotiation messages forwarded to a room member.",
		}),
		signalsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signals_dropped_total",
			Help:      "Negotiation messages dropped because sender or target left the room.",
		}),
		broadcasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "broadcasts_total",
			Help:      "Room broadcasts by event.",
		}, []string{"event"}),
		recipients: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "broadcast_recipients_total",
			Help:      "Broadcast deliveries queued, by event.",
		}, []string{"event"}),
		deliveryDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_dropped_total",
			Help:      "Events dropped for closed or saturated connections, by event.",
		}, []string{"event"}),
	}
	m.registry.MustRegister(
		m.connections,
		m.rooms,
		m.roomsOpened,
		m.signalsRelayed,
		m.signalsDropped,
		m.broadcasts,
		m.recipients,
		m.deliveryDropped,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) ConnectionOpened() { m.connections.Inc() }
func (m *Metrics) ConnectionClosed() { m.connections.Dec() }

func (m *Metrics) RoomOpened() {
	m.rooms.Inc()
	m.roomsOpened.Inc()
}

func (m *Metrics) RoomClosed() { m.rooms.Dec() }
func (m *Metrics) SignalRelayed() { m.signalsRelayed.Inc() }
func (m *Metrics) SignalDropped() { m.signalsDropped.Inc() }

func (m *Metrics) Broadcast(kind core.EventKind, recipients int) {
	m.broadcasts.WithLabelValues(kind.String()).Inc()
	m.recipients.WithLabelValues(kind.String()).Add(float64(recipients))
}

func (m *Metrics) DeliveryDropped(kind core.EventKind) {
	m.deliveryDropped.WithLabelValues(kind.String()).Inc()
}
