package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker"
)

// SwapMetrics covers the order lifecycle and escrow adapter activity.
type SwapMetrics struct {
	ordersSubmitted     prometheus.Counter
	stateTransitions    *prometheus.CounterVec
	escrowOps           *prometheus.CounterVec
	adapterDuration     *prometheus.HistogramVec
	circuitBreakerState *prometheus.GaugeVec
}

func NewSwapMetrics() *SwapMetrics {
	return &SwapMetrics{
		ordersSubmitted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "interstellar_orders_submitted_total",
				Help: "Total number of orders accepted by the relayer",
			},
		),
		stateTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "interstellar_order_state_transitions_total",
				Help: "Order lifecycle transitions by edge",
			},
			[]string{"from", "to"},
		),
		escrowOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "interstellar_escrow_operations_total",
				Help: "Escrow adapter operations by chain, operation and outcome",
			},
			[]string{"chain", "operation", "status"},
		),
		adapterDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "interstellar_escrow_adapter_duration_seconds",
				Help:    "Duration of escrow adapter calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"chain", "operation"},
		),
		circuitBreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "interstellar_circuit_breaker_state",
				Help: "Circuit breaker state per chain (0=closed, 1=half-open, 2=open)",
			},
			[]string{"chain"},
		),
	}
}

func (m *SwapMetrics) MustRegister(registry *prometheus.Registry) {
	registry.MustRegister(
		m.ordersSubmitted,
		m.stateTransitions,
		m.escrowOps,
		m.adapterDuration,
		m.circuitBreakerState,
	)
}

func (m *SwapMetrics) RecordOrderSubmitted() {
	m.ordersSubmitted.Inc()
}

func (m *SwapMetrics) RecordTransition(from, to string) {
	m.stateTransitions.WithLabelValues(from, to).Inc()
}

func (m *SwapMetrics) RecordEscrowOp(chain, operation string, ok bool) {
	status := "success"
	if !ok {
		status = "failure"
	}
	m.escrowOps.WithLabelValues(chain, operation, status).Inc()
}

func (m *SwapMetrics) ObserveAdapterCall(chain, operation string, seconds float64) {
	m.adapterDuration.WithLabelValues(chain, operation).Observe(seconds)
}

func (m *SwapMetrics) UpdateCircuitBreakerState(chain string, state gobreaker.State) {
	m.circuitBreakerState.WithLabelValues(chain).Set(float64(state))
}
