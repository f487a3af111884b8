package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "complaint-desk.com/complaint-desk/internal/errors"
)

var (
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "complaints",
		Name:      "operations_total",
		Help:      "Complaint operations by name and outcome.",
	}, []string{"operation", "outcome"})

	statusTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "complaints",
		Name:      "status_transitions_total",
		Help:      "Successful status changes by source and target status.",
	}, []string{"from", "to"})
)

// ObserveOperation counts one completed operation. Client errors are
// labelled by their HTTP status family so 4xx and 5xx stay separable.
func ObserveOperation(operation string, err error) {
	operationsTotal.WithLabelValues(operation, outcome(err)).Inc()
}

func ObserveTransition(from, to string) {
	statusTransitionsTotal.WithLabelValues(from, to).Inc()
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if apperrors.StatusCode(err) < 500 {
		return "rejected"
	}
	return "failed"
}
