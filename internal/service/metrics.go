package service

import (
	"errors"

	"stock-keeper/internal/model"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "stock_keeper"

// Result label values.
const (
	resultOK       = "ok"
	resultRejected = "rejected"
	resultNotFound = "not_found"
	resultError    = "error"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	operations *prometheus.CounterVec
	units      *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "product_operations_total",
		Help:      "Product operations by name and result.",
	}, []string{"operation", "result"})
	units := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "stock_units_total",
		Help:      "Stock units moved by direction.",
	}, []string{"direction"})
	reg.MustRegister(operations, units)

	return &Metrics{
		operations: operations,
		units:      units,
	}
}

func (m *Metrics) observe(operation string, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, resultLabel(err)).Inc()
}

func (m *Metrics) moved(op model.StockOperation, quantity int) {
	if m == nil || quantity == 0 {
		return
	}
	direction := "in"
	if op == model.StockSubtract {
		direction = "out"
	}
	m.units.WithLabelValues(direction).Add(float64(quantity))
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return resultOK
	case errors.Is(err, model.ErrNotFound):
		return resultNotFound
	case errors.Is(err, model.ErrValidation), errors.Is(err, model.ErrInvalidArgument), errors.Is(err, model.ErrConflict):
		return resultRejected
	default:
		return resultError
	}
}
