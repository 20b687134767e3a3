package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveMutation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewClinicMetrics(reg)

	m.ObserveMutation("clients", "add")
	m.ObserveMutation("clients", "add")
	m.ObserveMutation("appointments", "delete")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.mutationsTotal.WithLabelValues("clients", "add")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutationsTotal.WithLabelValues("appointments", "delete")))
}

func TestObserveImportIgnoresNonPositive(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewClinicMetrics(reg)

	m.ObserveImport("csv", "accepted", 3)
	m.ObserveImport("csv", "accepted", 0)
	m.ObserveImport("csv", "accepted", -1)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.importedTotal.WithLabelValues("csv", "accepted")))
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *ClinicMetrics
	m.ObserveMutation("clients", "add")
	m.ObserveRejection("clients", "validation")
	m.ObserveBackup("create", "ok")
	m.ObserveImport("vcard", "skipped", 1)
}
