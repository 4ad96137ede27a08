package metrics

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// LiveCounter reports the number of live rows of one table
type LiveCounter interface {
	TableName() string
	LongCount(ctx context.Context) (int64, error)
}

// EntityMetricsCollector refreshes the entities_total gauge periodically
type EntityMetricsCollector struct {
	counters []LiveCounter
	metrics  *Metrics
	logger   *zap.Logger
	interval time.Duration
	done     chan struct{}
}

// NewEntityMetricsCollector creates a new collector
func NewEntityMetricsCollector(metrics *Metrics, logger *zap.Logger, interval time.Duration, counters ...LiveCounter) *EntityMetricsCollector {
	return &EntityMetricsCollector{
		counters: counters,
		metrics:  metrics,
		logger:   logger,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins collecting metrics
func (c *EntityMetricsCollector) Start() {
	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		c.Collect()

		for {
			select {
			case <-ticker.C:
				c.Collect()
			case <-c.done:
				return
			}
		}
	}()
}

// Stop stops the collector
func (c *EntityMetricsCollector) Stop() {
	close(c.done)
}

// Collect counts every registered table once
func (c *EntityMetricsCollector) Collect() {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Panic in entity metrics collection",
				zap.Any("panic", r),
			)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, counter := range c.counters {
		n, err := counter.LongCount(ctx)
		if err != nil {
			c.logger.Error("Failed to count entities",
				zap.String("table", counter.TableName()),
				zap.Error(err),
			)
			continue
		}
		c.metrics.SetEntitiesTotal(counter.TableName(), n)
	}
}
