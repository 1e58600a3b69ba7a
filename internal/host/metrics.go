package host

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is the optional diagnostics collaborator: instruction, module,
// and suspension counters an embedder can register against its own
// prometheus.Registerer. Interpreting and emitting both work identically
// with Metrics nil (every method is a no-op on a nil receiver), so
// collecting metrics is strictly opt-in.
type Metrics struct {
	instructionsExecuted prometheus.Counter
	moduleLoadLatency    prometheus.Histogram
	suspensionResumes    prometheus.Counter
}

// NewMetrics registers the collaborator's collectors against reg and
// returns the handle; pass prometheus.NewRegistry() in tests to avoid
// colliding with the global default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		instructionsExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sharpts",
			Subsystem: "bytecode",
			Name:      "instructions_executed_total",
			Help:      "Bytecode instructions executed by the VM.",
		}),
		moduleLoadLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sharpts",
			Subsystem: "modgraph",
			Name:      "module_load_seconds",
			Help:      "Wall-clock time spent parsing and checking one module.",
		}),
		suspensionResumes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sharpts",
			Subsystem: "suspend",
			Name:      "resumes_total",
			Help:      "Number of times a generator or async state machine resumed past its entry state.",
		}),
	}
	reg.MustRegister(m.instructionsExecuted, m.moduleLoadLatency, m.suspensionResumes)
	return m
}

func (m *Metrics) AddInstructions(n int) {
	if m == nil {
		return
	}
	m.instructionsExecuted.Add(float64(n))
}

func (m *Metrics) ObserveModuleLoad(seconds float64) {
	if m == nil {
		return
	}
	m.moduleLoadLatency.Observe(seconds)
}

func (m *Metrics) IncSuspensionResume() {
	if m == nil {
		return
	}
	m.suspensionResumes.Inc()
}
