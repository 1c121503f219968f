package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule runs a sweep every ten seconds.
const DefaultSchedule = "*/10 * * * * *"

// SweepRunner runs one dispatch sweep.
type SweepRunner interface {
	Handle(ctx context.Context, cmd commands.RunDispatchSweepCommand) (commands.SweepReport, error)
}

// DispatchSweepJob triggers a sweep on a cron schedule. A tick that fires
// while the previous sweep is still running is skipped.
type DispatchSweepJob struct {
	runner   SweepRunner
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	logger   *slog.Logger

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// NewDispatchSweepJob builds the job; timeout bounds a single sweep and is
// ignored when zero.
func NewDispatchSweepJob(runner SweepRunner, schedule string, timeout time.Duration, logger *slog.Logger) (*DispatchSweepJob, error) {
	var errList []error
	if runner == nil {
		errList = append(errList, errs.NewValueIsRequiredError("sweep runner"))
	}
	if logger == nil {
		errList = append(errList, errs.NewValueIsRequiredError("logger"))
	}
	if timeout < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("sweep timeout", timeout, 0, "unbounded"))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}
	if schedule == "" {
		schedule = DefaultSchedule
	}

	logger = logger.With("component", "dispatch_sweep_job")
	cronLogger := newCronLogger(logger)
	return &DispatchSweepJob{
		runner:   runner,
		schedule: schedule,
		timeout:  timeout,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		logger: logger,
	}, nil
}

func (j *DispatchSweepJob) Start() error {
	j.mu.Lock()
	j.ctx, j.cancel = context.WithCancel(context.Background())
	j.mu.Unlock()

	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunOnce(j.baseContext()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("dispatch sweep job started", "schedule", j.schedule)
	return nil
}

// Stop cancels a running sweep and waits for it to return.
func (j *DispatchSweepJob) Stop() {
	j.mu.Lock()
	if j.cancel != nil {
		j.cancel()
	}
	j.mu.Unlock()

	<-j.cron.Stop().Done()
	j.logger.Info("dispatch sweep job stopped")
}

// RunOnce performs one scheduled sweep and logs its report.
func (j *DispatchSweepJob) RunOnce(ctx context.Context) {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	cmd, err := commands.NewRunDispatchSweepCommand(commands.TriggerSchedule)
	if err != nil {
		j.logger.ErrorContext(ctx, "building sweep command", "error", err)
		return
	}

	report, err := j.runner.Handle(ctx, cmd)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			j.logger.InfoContext(ctx, "dispatch sweep interrupted", "orders_abandoned", report.OrdersAbandoned)
			return
		}
		j.logger.ErrorContext(ctx, "dispatch sweep failed", "error", err)
		return
	}
	if report.Skipped {
		j.logger.DebugContext(ctx, "dispatch sweep skipped, lock held elsewhere")
	}
}

func (j *DispatchSweepJob) baseContext() context.Context {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.ctx == nil {
		return context.Background()
	}
	return j.ctx
}
