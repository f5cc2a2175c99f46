package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SLAScanJobName is the name of the SLA breach scan job
const SLAScanJobName = "sla_scan"

// OverdueSweepJobName is the name of the payment overdue sweep job
const OverdueSweepJobName = "payment_overdue"

// DefaultJobTimeout bounds a single job run
const DefaultJobTimeout = 5 * time.Minute

// SLAScanner flags work orders whose SLA deadline has passed.
type SLAScanner interface {
	MarkSLABreaches(ctx context.Context, now time.Time) (int64, error)
}

// OverdueSweeper moves pending payments past their due date to overdue.
type OverdueSweeper interface {
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}

// SLAScanJob periodically flags work orders that breached their SLA window.
type SLAScanJob struct {
	scanner SLAScanner
	logger  *zap.Logger
	timeout time.Duration
}

// NewSLAScanJob creates a new SLA scan job.
func NewSLAScanJob(scanner SLAScanner, logger *zap.Logger, timeout time.Duration) *SLAScanJob {
	return &SLAScanJob{scanner: scanner, logger: logger, timeout: timeout}
}

// Run executes the SLA scan. Called by the scheduler.
func (j *SLAScanJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	breached, err := j.scanner.MarkSLABreaches(ctx, start)
	if err != nil {
		j.logger.Error("sla scan failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	if breached > 0 {
		j.logger.Info("sla scan completed",
			zap.Int64("breached", breached),
			zap.Duration("duration", time.Since(start)))
	}
}

// OverdueSweepJob moves pending payments past their due date into overdue.
type OverdueSweepJob struct {
	sweeper OverdueSweeper
	logger  *zap.Logger
	timeout time.Duration
}

// NewOverdueSweepJob creates a new overdue sweep job.
func NewOverdueSweepJob(sweeper OverdueSweeper, logger *zap.Logger, timeout time.Duration) *OverdueSweepJob {
	return &OverdueSweepJob{sweeper: sweeper, logger: logger, timeout: timeout}
}

// Run executes the overdue sweep. Called by the scheduler.
func (j *OverdueSweepJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	moved, err := j.sweeper.MarkOverdue(ctx, start)
	if err != nil {
		j.logger.Error("overdue sweep failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Info("overdue sweep completed",
		zap.Int64("moved", moved),
		zap.Duration("duration", time.Since(start)))
}

// RegisterDeadlineJobs registers the SLA scan and overdue sweep with the
// scheduler under the given cron expressions.
func RegisterDeadlineJobs(scheduler *Scheduler, scanner SLAScanner, sweeper OverdueSweeper, logger *zap.Logger, slaExpr, overdueExpr string) error {
	slaJob := NewSLAScanJob(scanner, logger, DefaultJobTimeout)
	if err := scheduler.AddJob(SLAScanJobName, slaExpr, slaJob.Run); err != nil {
		return err
	}

	overdueJob := NewOverdueSweepJob(sweeper, logger, DefaultJobTimeout)
	return scheduler.AddJob(OverdueSweepJobName, overdueExpr, overdueJob.Run)
}
