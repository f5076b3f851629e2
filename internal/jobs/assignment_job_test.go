package jobs

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"myMarketplace/domain"
	"myMarketplace/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRunner struct {
	calls  atomic.Int32
	report domain.AssignmentReport
	err    error
}

func (r *countingRunner) AssignPendingOrders(ctx context.Context) (domain.AssignmentReport, error) {
	r.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return domain.AssignmentReport{}, errors.New("expected a deadline")
	}
	return r.report, r.err
}

func TestAssignmentJob_RunOnce(t *testing.T) {
	runner := &countingRunner{report: domain.AssignmentReport{Examined: 3, Assigned: 2, Skipped: 1}}
	job := NewAssignmentJob(runner, "@every 1s", time.Second)

	report, err := job.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Assigned)

	runner.err = errors.New("db down")
	_, err = job.RunOnce(context.Background())
	assert.Error(t, err)
	assert.Equal(t, int32(2), runner.calls.Load())
}

func TestAssignmentJob_Schedule(t *testing.T) {
	runner := &countingRunner{}
	job := NewAssignmentJob(runner, "@every 1s", time.Second)
	require.NoError(t, job.Start())
	defer job.Stop()

	assert.Eventually(t, func() bool { return runner.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestAssignmentJob_InvalidSchedule(t *testing.T) {
	job := NewAssignmentJob(&countingRunner{}, "every now and then", time.Second)
	assert.Error(t, job.Start())
}

func TestAssignmentJob_LogsThroughPackageLogger(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf, logger.EnvProduction)
	t.Cleanup(func() { logger.Init(logger.EnvDevelopment) })

	runner := &countingRunner{report: domain.AssignmentReport{Examined: 4, Assigned: 3, Skipped: 1}}
	job := NewAssignmentJob(runner, "@every 1s", time.Second)

	_, err := job.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"msg":"assignment pass completed"`)
	assert.Contains(t, buf.String(), `"assigned":3`)

	buf.Reset()
	runner.report = domain.AssignmentReport{}
	_, err = job.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Empty(t, buf.String(), "an empty pass stays below info level")
}
