package metrics

// SetEntitiesTotal sets the live row gauge for table
func (m *Metrics) SetEntitiesTotal(table string, count int64) {
	m.safeExecute("SetEntitiesTotal", func() {
		m.EntitiesTotal.WithLabelValues(table).Set(float64(count))
	})
}

// AddPurged records rows physically removed from table by the purge job
func (m *Metrics) AddPurged(table string, count int64) {
	m.safeExecute("AddPurged", func() {
		if count > 0 {
			m.PurgedEntities.WithLabelValues(table).Add(float64(count))
		}
	})
}

// RecordPurgeRun counts a purge job run as "success" or "failure"
func (m *Metrics) RecordPurgeRun(success bool) {
	m.safeExecute("RecordPurgeRun", func() {
		result := "success"
		if !success {
			result = "failure"
		}
		m.PurgeRunsTotal.WithLabelValues(result).Inc()
	})
}

// IncrementCountOverflow counts a 32-bit count that had to be rejected
func (m *Metrics) IncrementCountOverflow() {
	m.safeExecute("IncrementCountOverflow", func() {
		m.CountOverflowsTotal.Inc()
	})
}
