package gpay

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "paysdk"

type metrics struct {
	availability  *prometheus.CounterVec
	tokenizations *prometheus.CounterVec
}

func newMetrics() *metrics {
	return &metrics{
		availability: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "gpay",
			Name:      "availability_checks_total",
			Help:      "Google Pay availability checks by result.",
		}, []string{"result"}),
		tokenizations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "gpay",
			Name:      "tokenizations_total",
			Help:      "Google Pay tokenization outcomes.",
		}, []string{"outcome"}),
	}
}

// register adds collectors to reg, collectors registered before by another integration are reused
func (m *metrics) register(reg prometheus.Registerer) error {
	if reg == nil {
		return nil
	}
	for _, c := range []**prometheus.CounterVec{&m.availability, &m.tokenizations} {
		if err := reg.Register(*c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return err
			}
			existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				return err
			}
			*c = existing
		}
	}
	return nil
}

func (m *metrics) availabilityChecked(result string) {
	m.availability.WithLabelValues(result).Inc()
}

func (m *metrics) tokenization(outcome string) {
	m.tokenizations.WithLabelValues(outcome).Inc()
}
