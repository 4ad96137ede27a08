package job

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"adminlte-api/internal/repository"
)

// PurgeRecorder receives purge job outcomes
type PurgeRecorder interface {
	AddPurged(table string, count int64)
	RecordPurgeRun(success bool)
}

// PurgeJob physically removes soft-deleted rows once they are older than the retention window
type PurgeJob struct {
	purgers   []repository.Purger
	retention time.Duration
	recorder  PurgeRecorder
	logger    *zap.Logger
	now       func() time.Time

	mu   sync.Mutex
	cron *cron.Cron
}

// NewPurgeJob creates a new PurgeJob instance
func NewPurgeJob(retention time.Duration, recorder PurgeRecorder, logger *zap.Logger, purgers ...repository.Purger) *PurgeJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurgeJob{
		purgers:   purgers,
		retention: retention,
		recorder:  recorder,
		logger:    logger,
		now:       time.Now,
	}
}

// RunOnce purges every table and returns the rows removed per table. A failing
// table does not stop the others; their errors are joined.
func (j *PurgeJob) RunOnce(ctx context.Context) (map[string]int64, error) {
	cutoff := j.now().Add(-j.retention)
	j.logger.Info("Starting purge of soft-deleted rows",
		zap.Time("cutoff", cutoff),
		zap.Int("tables", len(j.purgers)),
	)

	purged := make(map[string]int64, len(j.purgers))
	var errs []error
	for _, p := range j.purgers {
		n, err := p.PurgeDeleted(ctx, cutoff)
		if err != nil {
			j.logger.Error("Failed to purge table",
				zap.String("table", p.TableName()),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("purge %s: %w", p.TableName(), err))
			continue
		}
		purged[p.TableName()] = n
		if j.recorder != nil {
			j.recorder.AddPurged(p.TableName(), n)
		}
		j.logger.Debug("Purged table",
			zap.String("table", p.TableName()),
			zap.Int64("rows", n),
		)
	}

	err := errors.Join(errs...)
	if j.recorder != nil {
		j.recorder.RecordPurgeRun(err == nil)
	}

	var total int64
	for _, n := range purged {
		total += n
	}
	j.logger.Info("Purge completed",
		zap.Int64("purged", total),
		zap.Int("failed_tables", len(errs)),
	)
	return purged, err
}

// Run executes one purge with a bounded context; it is the cron entry point
func (j *PurgeJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	_, _ = j.RunOnce(ctx)
}

// Start schedules the job on a standard cron spec or descriptor such as "@daily"
func (j *PurgeJob) Start(schedule string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.cron != nil {
		return errors.New("purge job already started")
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddJob(schedule, j); err != nil {
		return fmt.Errorf("invalid purge schedule %q: %w", schedule, err)
	}
	c.Start()
	j.cron = c

	j.logger.Info("Purge job scheduled",
		zap.String("schedule", schedule),
		zap.Duration("retention", j.retention),
	)
	return nil
}

// Stop unschedules the job and waits for a running purge to finish or ctx to expire
func (j *PurgeJob) Stop(ctx context.Context) {
	j.mu.Lock()
	c := j.cron
	j.cron = nil
	j.mu.Unlock()

	if c == nil {
		return
	}
	select {
	case <-c.Stop().Done():
	case <-ctx.Done():
		j.logger.Warn("Purge job still running at shutdown")
	}
}
