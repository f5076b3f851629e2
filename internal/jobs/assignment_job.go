package jobs

import (
	"context"
	"fmt"
	"time"

	"myMarketplace/domain"
	"myMarketplace/pkg/logger"

	"github.com/robfig/cron/v3"
)

// AssignmentRunner runs one delivery assignment pass.
type AssignmentRunner interface {
	AssignPendingOrders(ctx context.Context) (domain.AssignmentReport, error)
}

// AssignmentJob runs the delivery assignment pass on a cron schedule.
// Overlapping runs are skipped so a slow pass never doubles up.
type AssignmentJob struct {
	runner   AssignmentRunner
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
}

func NewAssignmentJob(runner AssignmentRunner, schedule string, timeout time.Duration) *AssignmentJob {
	return &AssignmentJob{
		runner:   runner,
		schedule: schedule,
		timeout:  timeout,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
	}
}

// RunOnce executes a single pass and logs its outcome. An empty pass is
// routine and only logged at debug level.
func (j *AssignmentJob) RunOnce(ctx context.Context) (domain.AssignmentReport, error) {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	report, err := j.runner.AssignPendingOrders(ctx)
	if err != nil {
		logger.Error("assignment pass failed", "error", err)
		return report, err
	}

	if report.Examined == 0 {
		logger.Debug("assignment pass found no unassigned orders")
		return report, nil
	}

	logger.Info("assignment pass completed",
		"examined", report.Examined,
		"assigned", report.Assigned,
		"skipped", report.Skipped,
	)
	return report, nil
}

func (j *AssignmentJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		_, _ = j.RunOnce(context.Background())
	})
	if err != nil {
		return fmt.Errorf("invalid assignment schedule %q: %w", j.schedule, err)
	}

	j.cron.Start()
	logger.Info("assignment job started", "schedule", j.schedule)
	return nil
}

// Stop waits for a running pass to finish.
func (j *AssignmentJob) Stop() {
	<-j.cron.Stop().Done()
	logger.Info("assignment job stopped")
}
