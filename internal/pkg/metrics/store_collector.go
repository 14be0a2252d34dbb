package metrics

import (
	"github.com/assureops/incident-desk/internal/domain"
)

// StateCounter reports record counts keyed by lifecycle state.
type StateCounter interface {
	CountByState() map[domain.IncidentState]int
}

// RecordStoreMetrics updates the incident store gauges.
func RecordStoreMetrics(store StateCounter) {
	for _, state := range domain.IncidentStates {
		IncidentsByState.WithLabelValues(string(state)).Set(0)
	}
	for state, count := range store.CountByState() {
		IncidentsByState.WithLabelValues(string(state)).Set(float64(count))
	}
}
