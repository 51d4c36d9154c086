// Package email sends transactional and report emails through Resend.
package email

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/integration/email/templates"
)

// viewBuilders turn the stored template data of a job into the view model its
// template renders.
var viewBuilders = map[entity.EmailTemplateType]func(data map[string]interface{}) interface{}{
	entity.TemplatePasswordResetOTP: func(data map[string]interface{}) interface{} {
		return templates.PasswordResetOTPData{
			UserName:  getString(data, "user_name"),
			OTP:       getString(data, "otp"),
			ExpiresIn: getString(data, "expires_in"),
		}
	},
}

// Worker drains the email queue. Jobs past their delivery deadline are closed
// as expired instead of sent.
type Worker struct {
	queue        adapter.EmailQueueRepository
	sender       adapter.EmailSender
	renderer     *templates.Renderer
	pollInterval time.Duration
	batchSize    int
	now          func() time.Time
}

// WorkerConfig holds configuration for the email worker.
type WorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
}

// DefaultWorkerConfig returns the default worker configuration.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval: 5 * time.Second,
		BatchSize:    10,
	}
}

// NewWorker creates a new email worker.
func NewWorker(queue adapter.EmailQueueRepository, sender adapter.EmailSender, renderer *templates.Renderer, config WorkerConfig) *Worker {
	return &Worker{
		queue:        queue,
		sender:       sender,
		renderer:     renderer,
		pollInterval: config.PollInterval,
		batchSize:    config.BatchSize,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Start runs the poll loop until the context is cancelled.
func (w *Worker) Start(ctx context.Context) {
	slog.Info("Email worker started",
		"poll_interval", w.pollInterval,
		"batch_size", w.batchSize,
	)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		w.processBatch(ctx)

		select {
		case <-ctx.Done():
			slog.Info("Email worker shutting down")
			return
		case <-ticker.C:
		}
	}
}

// ProcessNow processes one batch of pending emails immediately.
func (w *Worker) ProcessNow(ctx context.Context) {
	w.processBatch(ctx)
}

func (w *Worker) processBatch(ctx context.Context) {
	now := w.now()

	expired, err := w.queue.ExpirePending(ctx, now)
	if err != nil {
		slog.Error("Failed to expire stale email jobs", "error", err)
	} else if expired > 0 {
		slog.Warn("Expired stale email jobs", "count", expired)
	}

	jobs, err := w.queue.GetPendingJobs(ctx, now, w.batchSize)
	if err != nil {
		slog.Error("Failed to get pending email jobs", "error", err)
		return
	}
	if len(jobs) == 0 {
		return
	}

	slog.Debug("Processing email batch", "count", len(jobs))

	for _, job := range jobs {
		if ctx.Err() != nil {
			return
		}
		w.processJob(ctx, job)
	}
}

func (w *Worker) processJob(ctx context.Context, job *entity.EmailJob) {
	logger := slog.With(
		"job_id", job.ID,
		"template", job.TemplateType,
		"recipient", job.RecipientEmail,
	)

	// Earlier sends in the batch may have pushed this one past its deadline.
	if now := w.now(); job.IsExpired(now) {
		job.MarkExpired(now)
		w.save(ctx, job, logger)
		logger.Warn("Email job expired before delivery", "expires_at", job.ExpiresAt)
		return
	}

	job.MarkProcessing()
	if err := w.queue.Update(ctx, job); err != nil {
		logger.Error("Failed to mark job as processing", "error", err)
		return
	}

	html, text, err := w.render(job)
	if err != nil {
		logger.Error("Failed to render email template", "error", err)
		w.fail(ctx, job, err, true, logger)
		return
	}

	result, err := w.sender.Send(ctx, adapter.SendEmailInput{
		To:      job.RecipientEmail,
		Name:    job.RecipientName,
		Subject: job.Subject,
		HTML:    html,
		Text:    text,
	})
	if err != nil {
		logger.Error("Failed to send email", "error", err)
		var emailErr *domainerror.EmailError
		w.fail(ctx, job, err, errors.As(err, &emailErr) && emailErr.IsPermanent(), logger)
		return
	}

	job.MarkSent(result.ProviderID)
	if err := w.queue.Update(ctx, job); err != nil {
		logger.Error("Failed to mark job as sent", "error", err)
		return
	}

	logger.Info("Email sent successfully", "provider_id", result.ProviderID)
}

func (w *Worker) render(job *entity.EmailJob) (html string, text string, err error) {
	build, ok := viewBuilders[job.TemplateType]
	if !ok {
		return "", "", domainerror.NewEmailError(
			domainerror.ErrCodeInvalidTemplate,
			"unknown template type",
			domainerror.ErrInvalidTemplate,
		)
	}
	return w.renderer.Render(string(job.TemplateType), build(job.TemplateData))
}

func (w *Worker) fail(ctx context.Context, job *entity.EmailJob, err error, permanent bool, logger *slog.Logger) {
	job.MarkFailed(err, permanent)
	w.save(ctx, job, logger)

	switch job.Status {
	case entity.EmailStatusFailed:
		logger.Warn("Email job permanently failed", "attempts", job.Attempts, "last_error", job.LastError)
	case entity.EmailStatusExpired:
		logger.Warn("Email job expired before its next retry", "attempts", job.Attempts, "expires_at", job.ExpiresAt)
	default:
		logger.Info("Email job scheduled for retry", "attempts", job.Attempts, "scheduled_at", job.ScheduledAt)
	}
}

func (w *Worker) save(ctx context.Context, job *entity.EmailJob, logger *slog.Logger) {
	if err := w.queue.Update(ctx, job); err != nil {
		logger.Error("Failed to update email job", "status", job.Status, "error", err)
	}
}

// getString safely extracts a string from a map.
func getString(data map[string]interface{}, key string) string {
	if v, ok := data[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
