// Package http exposes the operator surface of the dispatcher over echo:
// health, metrics, manual sweeps and ledger inspection.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/generated/servers"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime/types"
)

type (
	SweepRunner interface {
		Handle(ctx context.Context, cmd commands.RunDispatchSweepCommand) (commands.SweepReport, error)
	}

	OrderAttemptsReader interface {
		Handle(ctx context.Context, query queries.GetOrderAssignmentAttemptsQuery) ([]queries.AssignmentAttemptView, error)
	}

	PendingOffersReader interface {
		Handle(ctx context.Context, query queries.GetPendingOffersQuery) ([]queries.AssignmentAttemptView, error)
	}

	// RequestObserver records served requests by route pattern.
	RequestObserver interface {
		ObserveHTTP(method, route, status string, elapsed time.Duration)
	}
)

var _ servers.ServerInterface = (*Server)(nil)

// Server implements the generated ServerInterface on top of the
// application handlers.
type Server struct {
	sweeps        SweepRunner
	orderAttempts OrderAttemptsReader
	pendingOffers PendingOffersReader
	observer      RequestObserver
	metrics       http.Handler
}

// NewServer builds the server. observer and metrics are optional; without
// metrics GET /metrics answers 404.
func NewServer(
	sweeps SweepRunner,
	orderAttempts OrderAttemptsReader,
	pendingOffers PendingOffersReader,
	observer RequestObserver,
	metrics http.Handler,
) (*Server, error) {
	var errList []error
	if sweeps == nil {
		errList = append(errList, errs.NewValueIsRequiredError("sweep runner"))
	}
	if orderAttempts == nil {
		errList = append(errList, errs.NewValueIsRequiredError("order attempts reader"))
	}
	if pendingOffers == nil {
		errList = append(errList, errs.NewValueIsRequiredError("pending offers reader"))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}
	return &Server{
		sweeps:        sweeps,
		orderAttempts: orderAttempts,
		pendingOffers: pendingOffers,
		observer:      observer,
		metrics:       metrics,
	}, nil
}

// Register mounts the API described by api/openapi.yml on e. Requests are
// validated against that document before they reach a handler, and the
// document itself is browsable under /swagger/.
func (s *Server) Register(e *echo.Echo) error {
	swagger, err := servers.GetSwagger()
	if err != nil {
		return fmt.Errorf("load openapi document: %w", err)
	}
	validate, err := newRequestValidator(swagger)
	if err != nil {
		return err
	}
	docs, err := newDocsHandler(swagger)
	if err != nil {
		return err
	}

	if s.observer != nil {
		e.Use(s.observe)
	}
	e.Use(validate)
	e.GET("/swagger/*", docs)
	servers.RegisterHandlers(e, s)
	return nil
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, servers.Health{Status: "ok"})
}

// GetMetrics handles GET /metrics.
func (s *Server) GetMetrics(ctx echo.Context) error {
	if s.metrics == nil {
		return ctx.JSON(http.StatusNotFound, servers.Error{
			Code:    http.StatusNotFound,
			Message: "Metrics are not exported",
		})
	}
	s.metrics.ServeHTTP(ctx.Response(), ctx.Request())
	return nil
}

// RunSweep handles POST /api/v1/dispatch/sweeps. A sweep refused because
// another one holds the lock answers 409 with the (empty) report.
func (s *Server) RunSweep(ctx echo.Context) error {
	cmd, err := commands.NewRunDispatchSweepCommand(commands.TriggerManual)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, servers.Error{Code: http.StatusInternalServerError, Message: err.Error()})
	}

	report, err := s.sweeps.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, servers.Error{
			Code:    http.StatusInternalServerError,
			Message: "Dispatch sweep failed: " + err.Error(),
		})
	}
	if report.Skipped {
		return ctx.JSON(http.StatusConflict, toSweepReport(report))
	}
	return ctx.JSON(http.StatusOK, toSweepReport(report))
}

// GetOrderAssignmentAttempts handles GET /api/v1/orders/{orderId}/assignment-attempts.
func (s *Server) GetOrderAssignmentAttempts(ctx echo.Context, orderId types.UUID) error {
	orderID, err := kernel.UUIDFrom(orderId)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{Code: http.StatusBadRequest, Message: "Invalid order id"})
	}

	query, err := queries.NewGetOrderAssignmentAttemptsQuery(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{Code: http.StatusBadRequest, Message: err.Error()})
	}

	attempts, err := s.orderAttempts.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, servers.Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve assignment attempts",
		})
	}
	return ctx.JSON(http.StatusOK, toAssignmentAttempts(attempts))
}

// GetPendingOffers handles GET /api/v1/assignment-attempts/pending.
func (s *Server) GetPendingOffers(ctx echo.Context) error {
	attempts, err := s.pendingOffers.Handle(ctx.Request().Context(), queries.NewGetPendingOffersQuery())
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, servers.Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve pending offers",
		})
	}
	return ctx.JSON(http.StatusOK, toAssignmentAttempts(attempts))
}

func toAssignmentAttempts(views []queries.AssignmentAttemptView) []servers.AssignmentAttempt {
	response := make([]servers.AssignmentAttempt, len(views))
	for i, view := range views {
		response[i] = servers.AssignmentAttempt{
			Id:        view.ID.Raw(),
			OrderId:   view.OrderID.Raw(),
			DriverId:  view.DriverID.Raw(),
			Status:    view.Status,
			CreatedAt: view.CreatedAt,
		}
	}
	return response
}

func toSweepReport(report commands.SweepReport) servers.SweepReport {
	return servers.SweepReport{
		Trigger:             servers.SweepReportTrigger(report.Trigger),
		Skipped:             report.Skipped,
		OrdersSeen:          report.OrdersSeen,
		OrdersMatched:       report.OrdersMatched,
		OrdersFailed:        report.OrdersFailed,
		OrdersAbandoned:     report.OrdersAbandoned,
		PendingWritten:      report.PendingWritten,
		RejectedWritten:     report.RejectedWritten,
		NotificationsSent:   report.NotificationsSent,
		NotificationsFailed: report.NotificationsFailed,
		DurationNs:          report.Duration.Nanoseconds(),
	}
}

func (s *Server) observe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		s.observer.ObserveHTTP(c.Request().Method, route, strconv.Itoa(c.Response().Status), time.Since(start))
		return nil
	}
}
