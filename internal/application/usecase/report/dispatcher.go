package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/domain/valueobject"
)

const (
	DefaultAnalyzeTimeout = 30 * time.Second
	DefaultSendTimeout    = 30 * time.Second
	DefaultLockTTL        = 30 * time.Minute

	// MaxConcurrency caps parallel users so the narrative service is not flooded.
	MaxConcurrency = 5
)

// Outcome is what happened to a single user in a batch.
type Outcome string

const (
	OutcomeSent    Outcome = "sent"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

// BatchResult is the tally of one dispatcher run. Skipped users count in
// neither SuccessCount nor FailedCount.
type BatchResult struct {
	Kind         entity.ReportKind
	Period       valueobject.Period
	SuccessCount int
	FailedCount  int
	SkippedCount int
}

// DispatcherConfig tunes a Dispatcher. Zero values fall back to defaults.
type DispatcherConfig struct {
	Concurrency    int
	AnalyzeTimeout time.Duration
	SendTimeout    time.Duration
	LockTTL        time.Duration
}

// DispatcherOption configures optional collaborators.
type DispatcherOption func(*Dispatcher)

// WithBatchLocker serialises batches for the same kind and period.
func WithBatchLocker(locker adapter.BatchLocker) DispatcherOption {
	return func(d *Dispatcher) {
		d.locker = locker
	}
}

// WithReportLedger skips users that already received the period's report.
func WithReportLedger(ledger adapter.ReportLedger) DispatcherOption {
	return func(d *Dispatcher) {
		d.ledger = ledger
	}
}

// WithClock overrides the time source used to pick the reporting period.
func WithClock(now func() time.Time) DispatcherOption {
	return func(d *Dispatcher) {
		d.now = now
	}
}

// Dispatcher runs the aggregate, analyze, render and send pipeline for every
// eligible user of a report kind.
type Dispatcher struct {
	userRepo   adapter.UserRepository
	aggregator *Aggregator
	analyzer   adapter.NarrativeAnalyzer
	renderer   adapter.ReportRenderer
	sender     adapter.EmailSender
	locker     adapter.BatchLocker
	ledger     adapter.ReportLedger
	config     DispatcherConfig
	now        func() time.Time
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(
	userRepo adapter.UserRepository,
	aggregator *Aggregator,
	analyzer adapter.NarrativeAnalyzer,
	renderer adapter.ReportRenderer,
	sender adapter.EmailSender,
	config DispatcherConfig,
	opts ...DispatcherOption,
) *Dispatcher {
	if config.Concurrency < 1 {
		config.Concurrency = 1
	}
	if config.Concurrency > MaxConcurrency {
		config.Concurrency = MaxConcurrency
	}
	if config.AnalyzeTimeout <= 0 {
		config.AnalyzeTimeout = DefaultAnalyzeTimeout
	}
	if config.SendTimeout <= 0 {
		config.SendTimeout = DefaultSendTimeout
	}
	if config.LockTTL <= 0 {
		config.LockTTL = DefaultLockTTL
	}

	d := &Dispatcher{
		userRepo:   userRepo,
		aggregator: aggregator,
		analyzer:   analyzer,
		renderer:   renderer,
		sender:     sender,
		config:     config,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ReportingPeriod returns the calendar month before now in the aggregator's
// timezone.
func (d *Dispatcher) ReportingPeriod() valueobject.Period {
	return valueobject.PreviousPeriod(d.now(), d.aggregator.Location())
}

// Dispatch sends the report of kind for the previous calendar month.
func (d *Dispatcher) Dispatch(ctx context.Context, kind entity.ReportKind) (*BatchResult, error) {
	return d.DispatchPeriod(ctx, kind, d.ReportingPeriod())
}

// DispatchPeriod sends the report of kind for period to every eligible user.
// It only fails when the batch cannot start: an unknown kind, a held batch
// lock or an error listing users. Per-user problems land in the tally.
func (d *Dispatcher) DispatchPeriod(ctx context.Context, kind entity.ReportKind, period valueobject.Period) (*BatchResult, error) {
	if !kind.IsValid() {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeInvalidReportKind,
			fmt.Sprintf("unknown report kind %q", kind),
			domainerror.ErrInvalidReportKind,
		)
	}

	logger := slog.With("report_kind", kind, "period", period.Key())

	if d.locker != nil {
		release, err := d.locker.Acquire(ctx, lockKey(kind, period), d.config.LockTTL)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("Failed to release report batch lock", "error", err)
			}
		}()
	}

	users, err := d.userRepo.FindByAccountType(ctx, kind.EligibleAccountType())
	if err != nil {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeListRecipientsFailed,
			"failed to list report recipients",
			errors.Join(domainerror.ErrListRecipientsFailed, err),
		)
	}

	logger.Info("Starting monthly report batch", "users", len(users), "concurrency", d.config.Concurrency)

	result := &BatchResult{Kind: kind, Period: period}
	var mu sync.Mutex
	record := func(outcome Outcome) {
		mu.Lock()
		defer mu.Unlock()
		switch outcome {
		case OutcomeSent:
			result.SuccessCount++
		case OutcomeFailed:
			result.FailedCount++
		default:
			result.SkippedCount++
		}
	}

	var g errgroup.Group
	g.SetLimit(d.config.Concurrency)

	launched := 0
	for _, user := range users {
		if ctx.Err() != nil {
			break
		}
		launched++
		user := user
		g.Go(func() error {
			record(d.processUser(ctx, kind, period, user, true))
			return nil
		})
	}
	_ = g.Wait()

	if launched < len(users) {
		logger.Warn("Report batch interrupted", "not_started", len(users)-launched, "error", ctx.Err())
	}

	logger.Info("Monthly report batch complete",
		"sent", result.SuccessCount,
		"failed", result.FailedCount,
		"skipped", result.SkippedCount,
	)

	return result, nil
}

// DispatchUser sends one user's report for period regardless of the ledger.
// A skipped outcome means the period was empty.
func (d *Dispatcher) DispatchUser(ctx context.Context, user *entity.User, period valueobject.Period) (Outcome, error) {
	return d.runUser(ctx, entity.ReportKindFor(user.AccountType), period, user, false)
}

// processUser runs one user and never lets an error or panic escape.
func (d *Dispatcher) processUser(ctx context.Context, kind entity.ReportKind, period valueobject.Period, user *entity.User, useLedger bool) Outcome {
	outcome, err := d.runUser(ctx, kind, period, user, useLedger)
	if err != nil {
		slog.Error("Failed to send monthly report",
			"report_kind", kind,
			"period", period.Key(),
			"user_id", user.ID,
			"error", err,
		)
	}
	return outcome
}

func (d *Dispatcher) runUser(ctx context.Context, kind entity.ReportKind, period valueobject.Period, user *entity.User, useLedger bool) (outcome Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcome = OutcomeFailed
			err = fmt.Errorf("panic while processing user: %v", r)
		}
	}()

	logger := slog.With("report_kind", kind, "period", period.Key(), "user_id", user.ID)

	if useLedger && d.ledger != nil {
		sent, err := d.ledger.WasSent(ctx, kind, period, user.ID)
		if err != nil {
			logger.Warn("Report ledger lookup failed, sending anyway", "error", err)
		} else if sent {
			logger.Debug("Report already sent for period, skipping")
			return OutcomeSkipped, nil
		}
	}

	aggregate, err := d.aggregator.Aggregate(ctx, user.ID, period, kind)
	if err != nil {
		return OutcomeFailed, err
	}
	if aggregate.IsEmpty() {
		logger.Debug("No records for period, skipping")
		return OutcomeSkipped, nil
	}

	narrative, err := d.analyze(ctx, user, aggregate)
	if err != nil {
		return OutcomeFailed, err
	}

	html, text, err := d.renderer.RenderMonthlyReport(adapter.MonthlyReportContent{
		Kind:       kind,
		UserName:   user.Name,
		Period:     period,
		Narrative:  narrative.Text,
		Statistics: aggregate.Statistics,
	})
	if err != nil {
		return OutcomeFailed, domainerror.NewReportError(domainerror.ErrCodeReportRenderFailed, "failed to render monthly report", err)
	}

	sent, err := callWithTimeout(ctx, d.config.SendTimeout, func(ctx context.Context) (*adapter.SendEmailResult, error) {
		return d.sender.Send(ctx, adapter.SendEmailInput{
			To:      user.Email,
			Name:    user.Name,
			Subject: Subject(kind, period),
			HTML:    html,
			Text:    text,
		})
	})
	if err != nil {
		return OutcomeFailed, domainerror.NewReportError(domainerror.ErrCodeReportSendFailed, "failed to send monthly report", err)
	}

	if useLedger && d.ledger != nil {
		if err := d.ledger.MarkSent(ctx, kind, period, user.ID); err != nil {
			logger.Warn("Failed to record report in ledger", "error", err)
		}
	}

	providerID := ""
	if sent != nil {
		providerID = sent.ProviderID
	}
	logger.Info("Monthly report sent", "provider_id", providerID)
	return OutcomeSent, nil
}

func (d *Dispatcher) analyze(ctx context.Context, user *entity.User, aggregate *Aggregate) (*adapter.NarrativeResult, error) {
	request := &adapter.NarrativeRequest{
		Kind:       aggregate.Kind,
		UserName:   user.Name,
		Period:     aggregate.Period,
		Statistics: aggregate.Statistics,
		Expenses:   aggregate.Expenses,
		Trips:      aggregate.Trips,
	}
	result, err := callWithTimeout(ctx, d.config.AnalyzeTimeout, func(ctx context.Context) (*adapter.NarrativeResult, error) {
		return d.analyzer.Analyze(ctx, request)
	})
	if err != nil {
		return nil, err
	}
	if result == nil || result.Text == "" {
		return nil, domainerror.NewReportError(domainerror.ErrCodeNarrativeEmpty, "narrative analysis returned no text", domainerror.ErrNarrativeEmpty)
	}
	return result, nil
}

// callWithTimeout bounds fn by timeout even when fn ignores its context.
// A panic inside fn comes back as an error.
func callWithTimeout[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				var zero T
				done <- result{value: zero, err: fmt.Errorf("panic in external call: %v", r)}
			}
		}()
		value, err := fn(ctx)
		done <- result{value: value, err: err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("external call abandoned: %w", ctx.Err())
	}
}

// Subject returns the email subject line for a report.
func Subject(kind entity.ReportKind, period valueobject.Period) string {
	if kind == entity.ReportKindTransport {
		return "Your Monthly Transport Report - " + period.Label()
	}
	return "Your Monthly Expense Report - " + period.Label()
}

func lockKey(kind entity.ReportKind, period valueobject.Period) string {
	return "report:" + string(kind) + ":" + period.Key()
}
