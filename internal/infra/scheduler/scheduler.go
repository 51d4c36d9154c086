// Package scheduler fires the monthly report batches and queue housekeeping
// on cron cadences in a fixed timezone.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/expense-tracker/backend/internal/application/usecase/report"
	"github.com/expense-tracker/backend/internal/domain/entity"
)

// MinActivationGap is the spacing below which a cadence is logged as
// suspicious.
const MinActivationGap = time.Hour

// ReportDispatcher runs one report batch.
type ReportDispatcher interface {
	Dispatch(ctx context.Context, kind entity.ReportKind) (*report.BatchResult, error)
}

// EmailPurger deletes sent and expired emails older than a cutoff.
type EmailPurger interface {
	DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Scheduler wraps a cron runner. Jobs receive a context that is cancelled
// by Stop.
type Scheduler struct {
	cron     *cron.Cron
	location *time.Location
	parser   cron.Parser
	ctx      context.Context
	cancel   context.CancelFunc
	now      func() time.Time
}

// New creates a scheduler evaluating cadences in loc.
func New(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	logger := cronLogger{logger: slog.With("component", "scheduler")}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger)),
		),
		location: loc,
		parser:   cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		ctx:      ctx,
		cancel:   cancel,
		now:      time.Now,
	}
}

// AddReportJob registers the batch of kind on spec.
func (s *Scheduler) AddReportJob(spec string, kind entity.ReportKind, dispatcher ReportDispatcher) error {
	if err := s.checkCadence(spec, string(kind)); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(spec, s.reportJob(kind, dispatcher)); err != nil {
		return fmt.Errorf("failed to schedule %s reports: %w", kind, err)
	}
	slog.Info("Report job scheduled", "report_kind", kind, "spec", spec, "timezone", s.location.String())
	return nil
}

// AddCleanupJob registers the purge of finished emails older than retention.
func (s *Scheduler) AddCleanupJob(spec string, purger EmailPurger, retention time.Duration) error {
	if err := s.checkCadence(spec, "email_cleanup"); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(spec, s.cleanupJob(purger, retention)); err != nil {
		return fmt.Errorf("failed to schedule email cleanup: %w", err)
	}
	return nil
}

// AddTask registers a housekeeping function under name.
func (s *Scheduler) AddTask(spec, name string, fn func()) error {
	if err := s.checkCadence(spec, name); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(spec, fn); err != nil {
		return fmt.Errorf("failed to schedule %s: %w", name, err)
	}
	return nil
}

// Start runs the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("Scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop cancels running jobs and waits for them to return, up to ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		slog.Info("Scheduler stopped")
	case <-ctx.Done():
		slog.Warn("Scheduler stop timed out with jobs still running")
	}
}

// reportJob never returns an error: the tally and any failure are logged.
func (s *Scheduler) reportJob(kind entity.ReportKind, dispatcher ReportDispatcher) func() {
	return func() {
		logger := slog.With("report_kind", kind)
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Report job panicked", "panic", r)
			}
		}()

		started := s.now()
		logger.Info("Report job fired")

		result, err := dispatcher.Dispatch(s.ctx, kind)
		if err != nil {
			logger.Error("Report job failed", "error", err)
			return
		}

		logger.Info("Report job finished",
			"period", result.Period.Key(),
			"sent", result.SuccessCount,
			"failed", result.FailedCount,
			"skipped", result.SkippedCount,
			"duration", s.now().Sub(started),
		)
	}
}

func (s *Scheduler) cleanupJob(purger EmailPurger, retention time.Duration) func() {
	return func() {
		cutoff := s.now().UTC().Add(-retention)
		deleted, err := purger.DeleteFinishedBefore(s.ctx, cutoff)
		if err != nil {
			slog.Error("Failed to purge finished emails", "error", err)
			return
		}
		slog.Info("Purged finished emails", "deleted", deleted, "cutoff", cutoff)
	}
}

// checkCadence rejects unparsable specs and warns when two consecutive
// activations are closer than MinActivationGap.
func (s *Scheduler) checkCadence(spec, job string) error {
	gap, err := s.activationGap(spec)
	if err != nil {
		return fmt.Errorf("invalid cadence %q for %s: %w", spec, job, err)
	}
	if gap < MinActivationGap {
		slog.Warn("Cadence fires more than once an hour", "job", job, "spec", spec, "gap", gap)
	}
	return nil
}

func (s *Scheduler) activationGap(spec string) (time.Duration, error) {
	schedule, err := s.parser.Parse(spec)
	if err != nil {
		return 0, err
	}
	first := schedule.Next(s.now().In(s.location))
	second := schedule.Next(first)
	return second.Sub(first), nil
}

// cronLogger routes cron's own logging through slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
