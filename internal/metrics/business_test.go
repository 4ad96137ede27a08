package metrics

import (
	"testing"
)

func TestSetEntitiesTotal(t *testing.T) {
	m, _ := getTestMetrics()

	tests := []struct {
		name  string
		count int64
	}{
		{"zero rows", 0},
		{"one row", 1},
		{"large number", 1000000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.SetEntitiesTotal("users", tt.count)
			value := getGaugeValue(t, m.EntitiesTotal.WithLabelValues("users"))
			if value != float64(tt.count) {
				t.Errorf("Expected gauge value %d, got %f", tt.count, value)
			}
		})
	}
}

func TestAddPurged(t *testing.T) {
	m, _ := getTestMetrics()

	m.AddPurged("roles", 3)
	m.AddPurged("roles", 0)
	m.AddPurged("roles", 2)

	if got := getCounterValue(t, m.PurgedEntities.WithLabelValues("roles")); got != 5 {
		t.Errorf("Expected 5 purged rows, got %f", got)
	}
}

func TestRecordPurgeRun(t *testing.T) {
	m, _ := getTestMetrics()

	m.RecordPurgeRun(true)
	m.RecordPurgeRun(true)
	m.RecordPurgeRun(false)

	if got := getCounterValue(t, m.PurgeRunsTotal.WithLabelValues("success")); got != 2 {
		t.Errorf("Expected 2 successful runs, got %f", got)
	}
	if got := getCounterValue(t, m.PurgeRunsTotal.WithLabelValues("failure")); got != 1 {
		t.Errorf("Expected 1 failed run, got %f", got)
	}
}

func TestIncrementCountOverflow(t *testing.T) {
	m, _ := getTestMetrics()

	initial := getCounterValue(t, m.CountOverflowsTotal)
	m.IncrementCountOverflow()

	if getCounterValue(t, m.CountOverflowsTotal) <= initial {
		t.Error("Expected counter to increment")
	}
}
