package metrics

import "github.com/prometheus/client_golang/prometheus"

// ClinicMetrics exposes counters for domain store activity.
type ClinicMetrics struct {
	mutationsTotal  *prometheus.CounterVec
	rejectionsTotal *prometheus.CounterVec
	backupsTotal    *prometheus.CounterVec
	importedTotal   *prometheus.CounterVec
}

func NewClinicMetrics(reg prometheus.Registerer) *ClinicMetrics {
	m := &ClinicMetrics{
		mutationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinicdesk",
			Subsystem: "store",
			Name:      "mutations_total",
			Help:      "Total successful domain store mutations",
		}, []string{"collection", "action"}),
		rejectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinicdesk",
			Subsystem: "store",
			Name:      "rejections_total",
			Help:      "Total mutations rejected by validation",
		}, []string{"collection", "reason"}),
		backupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinicdesk",
			Subsystem: "backup",
			Name:      "operations_total",
			Help:      "Total backup and restore operations",
		}, []string{"operation", "status"}),
		importedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinicdesk",
			Subsystem: "import",
			Name:      "records_total",
			Help:      "Total records seen by import, by outcome",
		}, []string{"format", "outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.mutationsTotal, m.rejectionsTotal, m.backupsTotal, m.importedTotal)
	return m
}

func (m *ClinicMetrics) ObserveMutation(collection, action string) {
	if m == nil {
		return
	}
	m.mutationsTotal.WithLabelValues(collection, action).Inc()
}

func (m *ClinicMetrics) ObserveRejection(collection, reason string) {
	if m == nil {
		return
	}
	m.rejectionsTotal.WithLabelValues(collection, reason).Inc()
}

func (m *ClinicMetrics) ObserveBackup(operation, status string) {
	if m == nil {
		return
	}
	m.backupsTotal.WithLabelValues(operation, status).Inc()
}

func (m *ClinicMetrics) ObserveImport(format, outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.importedTotal.WithLabelValues(format, outcome).Add(float64(n))
}
