package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/expense-tracker/backend/internal/application/usecase/report"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/domain/valueobject"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/dto"
)

// ReportDispatcher runs monthly report batches and single-user reports.
type ReportDispatcher interface {
	Dispatch(ctx context.Context, kind entity.ReportKind) (*report.BatchResult, error)
	DispatchUser(ctx context.Context, user *entity.User, period valueobject.Period) (report.Outcome, error)
	ReportingPeriod() valueobject.Period
}

// UserLookup loads the caller of the single-user report.
type UserLookup interface {
	Execute(ctx context.Context, userID uuid.UUID) (*entity.User, error)
}

// ReportController handles the monthly report endpoints.
type ReportController struct {
	dispatcher ReportDispatcher
	users      UserLookup
}

// NewReportController creates a new report controller instance.
func NewReportController(dispatcher ReportDispatcher, users UserLookup) *ReportController {
	return &ReportController{dispatcher: dispatcher, users: users}
}

// TriggerSimple handles POST /reports/cron/simple-reports requests.
func (c *ReportController) TriggerSimple(ctx *gin.Context) {
	c.trigger(ctx, entity.ReportKindSimple, "Simple reports generated")
}

// TriggerTransport handles POST /reports/cron/transport-reports requests.
func (c *ReportController) TriggerTransport(ctx *gin.Context) {
	c.trigger(ctx, entity.ReportKindTransport, "Transport reports generated")
}

func (c *ReportController) trigger(ctx *gin.Context, kind entity.ReportKind, message string) {
	slog.Info("Report batch triggered over HTTP", "report_kind", kind, "client_ip", ctx.ClientIP())

	// The batch outlives the request if the caller disconnects.
	start := time.Now()
	result, err := c.dispatcher.Dispatch(context.WithoutCancel(ctx.Request.Context()), kind)
	if err != nil {
		status := http.StatusInternalServerError
		var reportErr *domainerror.ReportError
		if errors.As(err, &reportErr) && reportErr.Code == domainerror.ErrCodeReportBatchInProgress {
			status = http.StatusConflict
		}
		slog.Error("Report batch failed", "report_kind", kind, "error", err)
		ctx.JSON(status, dto.TriggerResponse{Success: false, Message: err.Error()})
		return
	}

	slog.Info("Report batch finished over HTTP",
		"report_kind", kind,
		"period", result.Period.Key(),
		"duration", time.Since(start),
	)
	ctx.JSON(http.StatusOK, dto.TriggerResponse{
		Success: true,
		Message: message,
		Sent:    &result.SuccessCount,
		Failed:  &result.FailedCount,
		Skipped: &result.SkippedCount,
	})
}

// SendMine handles POST /reports/me requests. It sends the caller's report
// for ?period=YYYY-MM, or the previous month when no period is given.
func (c *ReportController) SendMine(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var query dto.SendReportQuery
	if !bindQuery(ctx, &query, string(domainerror.ErrCodeInvalidPeriod)) {
		return
	}

	period := c.dispatcher.ReportingPeriod()
	if query.Period != "" {
		parsed, err := parsePeriod(query.Period)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: err.Error(),
				Code:  string(domainerror.ErrCodeInvalidPeriod),
			})
			return
		}
		period = parsed
	}

	user, err := c.users.Execute(ctx.Request.Context(), userID)
	if err != nil {
		handleError(ctx, err)
		return
	}

	outcome, err := c.dispatcher.DispatchUser(ctx.Request.Context(), user, period)
	if err != nil {
		handleError(ctx, err)
		return
	}

	resp := dto.SendReportResponse{
		Success: outcome == report.OutcomeSent,
		Outcome: string(outcome),
		Period:  period.Key(),
		Message: fmt.Sprintf("Report for %s sent to %s", period.Label(), user.Email),
	}
	if outcome == report.OutcomeSkipped {
		resp.Message = fmt.Sprintf("No records for %s, nothing to send", period.Label())
	}
	ctx.JSON(http.StatusOK, resp)
}

func parsePeriod(v string) (valueobject.Period, error) {
	t, err := time.Parse("2006-01", v)
	if err != nil {
		return valueobject.Period{}, errors.New("period must be in YYYY-MM format")
	}
	return valueobject.NewPeriod(t.Year(), int(t.Month()))
}
