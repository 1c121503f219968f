package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultLocatorTimeout = 5 * time.Second
	DefaultNotifyTimeout  = 5 * time.Second
)

// SweepDependencies are the collaborators of RunDispatchSweepCommandHandler.
// Lock and Metrics are optional.
type SweepDependencies struct {
	UoWFactory DispatchUoWFactory
	Settings   ports.SettingsSource
	Candidates ports.CandidateDriverSource
	Notifier   ports.Notifier
	Lock       ports.SweepLock
	Metrics    ports.DispatchMetrics
	Logger     *slog.Logger
}

// SweepOptions tune how a sweep uses its collaborators. Zero values fall
// back to sequential processing and the default timeouts.
type SweepOptions struct {
	// Workers is how many orders are processed at once. Drivers of one order
	// are always evaluated one after another.
	Workers        int
	LocatorTimeout time.Duration
	NotifyTimeout  time.Duration
	// Now is overridden in tests.
	Now func() time.Time
}

// RunDispatchSweepCommandHandler selects the dispatch-eligible orders and
// offers each of them to nearby drivers.
//
// For every order it computes the matcher context once, asks the candidate
// source for drivers nearest first, and runs each through the pipeline until
// the per-order notification cap is reached. Rejections on distance are
// written outside any transaction; a pending offer is written in its own
// transaction together with the ledger snapshot it was decided on.
//
// Example:
//
//	handler, err := NewRunDispatchSweepCommandHandler(deps, SweepOptions{Workers: 4})
//	cmd, _ := NewRunDispatchSweepCommand(TriggerSchedule)
//	report, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    // settings, selection or lock failure: the whole sweep was skipped
//	}
//	log.Printf("offered %d drivers", report.PendingWritten)
type RunDispatchSweepCommandHandler struct {
	uowFactory DispatchUoWFactory
	settings   ports.SettingsSource
	candidates ports.CandidateDriverSource
	notifier   ports.Notifier
	lock       ports.SweepLock
	metrics    ports.DispatchMetrics
	logger     *slog.Logger
	matcher    services.DispatchMatcher
	offers     services.OfferBuilder
	opts       SweepOptions
}

func NewRunDispatchSweepCommandHandler(deps SweepDependencies, opts SweepOptions) (*RunDispatchSweepCommandHandler, error) {
	var errList []error
	if deps.UoWFactory == nil {
		errList = append(errList, errs.NewValueIsRequiredError("uow factory"))
	}
	if deps.Settings == nil {
		errList = append(errList, errs.NewValueIsRequiredError("settings source"))
	}
	if deps.Candidates == nil {
		errList = append(errList, errs.NewValueIsRequiredError("candidate driver source"))
	}
	if deps.Notifier == nil {
		errList = append(errList, errs.NewValueIsRequiredError("notifier"))
	}
	if deps.Logger == nil {
		errList = append(errList, errs.NewValueIsRequiredError("logger"))
	}
	if opts.Workers < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("workers", opts.Workers, 0, "unbounded"))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	if opts.Workers == 0 {
		opts.Workers = 1
	}
	if opts.LocatorTimeout <= 0 {
		opts.LocatorTimeout = DefaultLocatorTimeout
	}
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = DefaultNotifyTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}

	return &RunDispatchSweepCommandHandler{
		uowFactory: deps.UoWFactory,
		settings:   deps.Settings,
		candidates: deps.Candidates,
		notifier:   deps.Notifier,
		lock:       deps.Lock,
		metrics:    metrics,
		logger:     deps.Logger.With("component", "dispatch-sweep"),
		matcher:    services.NewDispatchMatcher(),
		offers:     services.NewOfferBuilder(),
		opts:       opts,
	}, nil
}

// Handle runs one sweep. Order-level failures are logged and counted in the
// report; only failures that prevent the sweep from starting are returned,
// plus the context error when the sweep was cancelled part way.
func (h *RunDispatchSweepCommandHandler) Handle(ctx context.Context, command RunDispatchSweepCommand) (SweepReport, error) {
	if err := command.Validate(); err != nil {
		return SweepReport{}, err
	}
	started := h.opts.Now()

	if h.lock != nil {
		unlock, ok, err := h.lock.TryLock(ctx)
		if err != nil {
			return SweepReport{}, fmt.Errorf("acquire sweep lock: %w", err)
		}
		if !ok {
			h.metrics.SweepSkipped("locked")
			h.logger.InfoContext(ctx, "sweep skipped, another instance holds the lock", "trigger", command.Trigger())
			return SweepReport{Trigger: command.Trigger(), Skipped: true}, nil
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				h.logger.WarnContext(ctx, "failed to release sweep lock", "error", err)
			}
		}()
	}

	settings, err := h.settings.Load(ctx)
	if err != nil {
		return SweepReport{}, fmt.Errorf("load dispatch settings: %w", err)
	}
	if err = settings.Validate(); err != nil {
		return SweepReport{}, fmt.Errorf("dispatch settings: %w", err)
	}

	orders, err := h.uowFactory.Create().OrderRepository().GetEligibleForDispatch(ctx, settings.EligibilityCriteria())
	var loadErrs *ports.OrderLoadErrors
	if err != nil && !errors.As(err, &loadErrs) {
		return SweepReport{}, fmt.Errorf("select eligible orders: %w", err)
	}

	builder := &reportBuilder{report: SweepReport{Trigger: command.Trigger(), OrdersSeen: len(orders)}}
	if loadErrs != nil {
		builder.report.OrdersSeen += len(loadErrs.Failures)
		for _, failure := range loadErrs.Failures {
			h.record(ctx, builder, MatchOutcome{OrderID: failure.OrderID}, newMatchError(failure.OrderID, StageResolve, failure.Err))
		}
	}

	var g errgroup.Group
	g.SetLimit(h.opts.Workers)
	// Orders never started after cancellation still count as abandoned so
	// that every seen order lands in exactly one bucket.
	abandon := func(o *order.Order) { builder.add(MatchOutcome{OrderID: o.ID()}, false, true) }
	for _, o := range orders {
		if ctx.Err() != nil {
			abandon(o)
			continue
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				abandon(o)
				return nil
			}
			outcome, err := h.processOrder(ctx, settings, o)
			h.record(ctx, builder, outcome, err)
			return nil
		})
	}
	_ = g.Wait()

	report := builder.build()
	report.Duration = h.opts.Now().Sub(started)
	h.metrics.SweepCompleted(report.Duration, report.OrdersSeen)
	h.logger.InfoContext(ctx, "sweep finished",
		"trigger", report.Trigger,
		"orders_seen", report.OrdersSeen,
		"orders_matched", report.OrdersMatched,
		"orders_failed", report.OrdersFailed,
		"orders_abandoned", report.OrdersAbandoned,
		"pending_written", report.PendingWritten,
		"rejected_written", report.RejectedWritten,
		"duration", report.Duration,
	)

	if err = ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func (h *RunDispatchSweepCommandHandler) record(ctx context.Context, builder *reportBuilder, outcome MatchOutcome, err error) {
	if err == nil {
		builder.add(outcome, false, false)
		return
	}

	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		builder.add(outcome, false, true)
		return
	}

	var matchErr *MatchError
	stage := "unknown"
	if errors.As(err, &matchErr) {
		stage = string(matchErr.Stage)
	}
	h.metrics.OrderFailed(stage)
	h.logger.ErrorContext(ctx, "order skipped for this sweep",
		"order_id", outcome.OrderID.String(), "stage", stage, "error", err)
	builder.add(outcome, true, false)
}

// processOrder runs the candidate pipeline for one order. Drivers are
// evaluated nearest first and strictly one at a time.
func (h *RunDispatchSweepCommandHandler) processOrder(ctx context.Context, settings ports.DispatchSettings, o *order.Order) (MatchOutcome, error) {
	outcome := MatchOutcome{OrderID: o.ID()}
	reads := h.uowFactory.Create()
	ledger := reads.AssignmentLedger()

	rejected, err := ledger.RejectedDriverIDs(ctx, o.ID())
	if err != nil {
		return outcome, newMatchError(o.ID(), StageLedgerRead, err)
	}

	oc, err := h.matcher.Prepare(o, settings.MatchPolicy(), len(rejected))
	if err != nil {
		return outcome, newMatchError(o.ID(), StageResolve, err)
	}

	candidates, err := h.findCandidates(ctx, oc, rejected)
	if err != nil {
		return outcome, newMatchError(o.ID(), StageLocate, err)
	}
	outcome.Candidates = len(candidates)

	directory := reads.DriverDirectory()
	for _, c := range candidates {
		if outcome.Offered() >= oc.BaseNotifyCap {
			break
		}
		if err = ctx.Err(); err != nil {
			return outcome, err
		}

		decision, err := h.evaluate(ctx, oc, c, directory, ledger, settings, &outcome)
		if err != nil {
			return outcome, err
		}
		h.metrics.CandidateDecided(decision.String())
		if decision.IsSkip() {
			outcome.Skipped++
		}
	}

	return outcome, nil
}

func (h *RunDispatchSweepCommandHandler) findCandidates(ctx context.Context, oc services.OrderContext, rejected []kernel.UUID) ([]ports.Candidate, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, h.opts.LocatorTimeout)
	defer cancel()

	return h.candidates.FindCandidates(lookupCtx, ports.CandidateQuery{
		Pickup:        oc.Pickup.Point(),
		RadiusKm:      oc.RadiusKm,
		VehicleTypeID: oc.Order.VehicleTypeID(),
		Limit:         oc.CandidateLimit,
		Exclude:       rejected,
	})
}

func (h *RunDispatchSweepCommandHandler) evaluate(
	ctx context.Context,
	oc services.OrderContext,
	c ports.Candidate,
	directory ports.DriverDirectory,
	ledger ports.AssignmentLedger,
	settings ports.DispatchSettings,
	outcome *MatchOutcome,
) (services.Decision, error) {
	orderID := oc.Order.ID()

	d, err := directory.Get(ctx, c.DriverID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		d = nil
	} else if err != nil {
		return services.DecisionSkipMissing, newMatchError(orderID, StageDirectory, err)
	}

	decision, _, err := h.matcher.Screen(oc, d, c.Location)
	if err != nil {
		return decision, newMatchError(orderID, StageScreen, err)
	}

	switch decision {
	case services.DecisionSkipMissing, services.DecisionSkipVendor:
		return decision, nil
	case services.DecisionRejectDistance:
		attempt, err := assignment.NewRejected(orderID, d.ID(), h.opts.Now())
		if err != nil {
			return decision, newMatchError(orderID, StageLedgerWrite, err)
		}
		created, err := ledger.AddRejected(ctx, attempt)
		if err != nil {
			return decision, newMatchError(orderID, StageLedgerWrite, err)
		}
		if created {
			outcome.RejectedWritten++
		}
		return decision, nil
	}

	decision, err = h.claim(ctx, oc, d)
	if err != nil || decision != services.DecisionOffer {
		return decision, err
	}
	outcome.PendingWritten++

	payload, err := h.offers.Build(oc, c.Location, settings.AlertDuration)
	if err != nil {
		return decision, newMatchError(orderID, StagePayload, err)
	}
	h.notify(ctx, oc, d, payload, outcome)
	return decision, nil
}

// claim reads the ledger snapshot and writes the pending attempt in one
// transaction. Losing the insert race reports DecisionSkipBusy.
func (h *RunDispatchSweepCommandHandler) claim(ctx context.Context, oc services.OrderContext, d *driver.Driver) (services.Decision, error) {
	orderID := oc.Order.ID()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return services.DecisionSkipBusy, newMatchError(orderID, StageLedgerWrite, err)
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ledger := uow.AssignmentLedger()
	snapshot, err := ledger.Snapshot(ctx, orderID, d.ID())
	if err != nil {
		return services.DecisionSkipBusy, newMatchError(orderID, StageLedgerRead, err)
	}

	decision := h.matcher.Qualify(oc, d, snapshot)
	if decision != services.DecisionOffer {
		return decision, nil
	}

	attempt, err := assignment.NewPending(orderID, d.ID(), h.opts.Now())
	if err != nil {
		return decision, newMatchError(orderID, StageLedgerWrite, err)
	}
	created, err := ledger.AddPending(ctx, attempt)
	if err != nil {
		return decision, newMatchError(orderID, StageLedgerWrite, err)
	}
	if !created {
		return services.DecisionSkipBusy, nil
	}

	if err = uow.Commit(ctx); err != nil {
		return decision, newMatchError(orderID, StageLedgerWrite, err)
	}
	return services.DecisionOffer, nil
}

// notify never fails the order: the pending attempt already guards the driver.
func (h *RunDispatchSweepCommandHandler) notify(
	ctx context.Context,
	oc services.OrderContext,
	d *driver.Driver,
	payload services.OfferPayload,
	outcome *MatchOutcome,
) {
	notifyCtx, cancel := context.WithTimeout(ctx, h.opts.NotifyTimeout)
	defer cancel()

	if err := h.notifier.Notify(notifyCtx, d, payload); err != nil {
		outcome.NotificationsFailed++
		h.metrics.NotificationFailed()
		h.logger.WarnContext(ctx, "offer notification failed",
			"order_id", oc.Order.ID().String(), "driver_id", d.ID().String(), "error", err)
		return
	}
	outcome.NotificationsSent++
	h.metrics.NotificationSent()
}

type noopMetrics struct{}

func (noopMetrics) SweepCompleted(time.Duration, int) {}
func (noopMetrics) SweepSkipped(string)               {}
func (noopMetrics) OrderFailed(string)                {}
func (noopMetrics) CandidateDecided(string)           {}
func (noopMetrics) NotificationSent()                 {}
func (noopMetrics) NotificationFailed()               {}
