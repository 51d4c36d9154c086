package entity

import (
	"time"

	"github.com/google/uuid"
)

// EmailStatus represents the status of an email job in the queue.
type EmailStatus string

const (
	EmailStatusPending    EmailStatus = "pending"
	EmailStatusProcessing EmailStatus = "processing"
	EmailStatusSent       EmailStatus = "sent"
	EmailStatusFailed     EmailStatus = "failed"
	// EmailStatusExpired marks a job whose content went stale before it
	// could be delivered.
	EmailStatusExpired EmailStatus = "expired"
)

// EmailTemplateType names a queued email template.
type EmailTemplateType string

const (
	TemplatePasswordResetOTP EmailTemplateType = "password_reset_otp"
)

// RetrySchedule lists the wait before each attempt, indexed by the number of
// attempts already made. Its length is the attempt budget.
type RetrySchedule []time.Duration

var defaultRetrySchedule = RetrySchedule{0, time.Minute, 5 * time.Minute}

// Reset codes live for minutes, so their retries are packed close together.
var templateRetrySchedules = map[EmailTemplateType]RetrySchedule{
	TemplatePasswordResetOTP: {0, 30 * time.Second, 2 * time.Minute},
}

// RetryScheduleFor returns the retry schedule used for a template.
func RetryScheduleFor(t EmailTemplateType) RetrySchedule {
	if s, ok := templateRetrySchedules[t]; ok {
		return s
	}
	return defaultRetrySchedule
}

// EmailJob is a transactional email waiting in the outbound queue.
// Monthly reports are not queued; they are sent inline by the dispatcher.
type EmailJob struct {
	ID             uuid.UUID
	TemplateType   EmailTemplateType
	RecipientEmail string
	RecipientName  string
	Subject        string
	TemplateData   map[string]interface{}
	Status         EmailStatus
	Attempts       int
	MaxAttempts    int
	LastError      string
	ProviderID     string
	CreatedAt      time.Time
	ScheduledAt    time.Time
	// ExpiresAt is the last moment the email is still worth sending. Nil
	// means it never goes stale.
	ExpiresAt   *time.Time
	ProcessedAt *time.Time
}

// NewEmailJob creates a pending job that is ready to send immediately.
func NewEmailJob(templateType EmailTemplateType, recipientEmail, recipientName, subject string, data map[string]interface{}) *EmailJob {
	now := time.Now().UTC()
	if data == nil {
		data = map[string]interface{}{}
	}
	return &EmailJob{
		ID:             uuid.New(),
		TemplateType:   templateType,
		RecipientEmail: recipientEmail,
		RecipientName:  recipientName,
		Subject:        subject,
		TemplateData:   data,
		Status:         EmailStatusPending,
		MaxAttempts:    len(RetryScheduleFor(templateType)),
		CreatedAt:      now,
		ScheduledAt:    now,
	}
}

// WithExpiry sets the delivery deadline and returns the job.
func (e *EmailJob) WithExpiry(expiresAt time.Time) *EmailJob {
	at := expiresAt.UTC()
	e.ExpiresAt = &at
	return e
}

// IsExpired reports whether the delivery deadline has passed at now.
func (e *EmailJob) IsExpired(now time.Time) bool {
	return e.ExpiresAt != nil && !now.Before(*e.ExpiresAt)
}

// MarkExpired closes the job without sending it.
func (e *EmailJob) MarkExpired(now time.Time) {
	at := now.UTC()
	e.Status = EmailStatusExpired
	e.LastError = "expired before delivery"
	e.ProcessedAt = &at
}

// MarkProcessing marks the job as claimed by a worker.
func (e *EmailJob) MarkProcessing() {
	e.Status = EmailStatusProcessing
}

// MarkSent records the provider message id.
func (e *EmailJob) MarkSent(providerID string) {
	now := time.Now().UTC()
	e.Status = EmailStatusSent
	e.ProviderID = providerID
	e.ProcessedAt = &now
}

// MarkFailed counts the attempt and either reschedules or gives up. A retry
// that would land past the delivery deadline expires the job instead.
func (e *EmailJob) MarkFailed(err error, permanent bool) {
	now := time.Now().UTC()
	e.Attempts++
	e.LastError = err.Error()

	if permanent || !e.CanRetry() {
		e.Status = EmailStatusFailed
		e.ProcessedAt = &now
		return
	}

	next := now.Add(e.nextDelay())
	if e.IsExpired(next) {
		e.Status = EmailStatusExpired
		e.ProcessedAt = &now
		return
	}

	e.Status = EmailStatusPending
	e.ScheduledAt = next
}

func (e *EmailJob) nextDelay() time.Duration {
	schedule := RetryScheduleFor(e.TemplateType)
	if e.Attempts < len(schedule) {
		return schedule[e.Attempts]
	}
	return schedule[len(schedule)-1]
}

// CanRetry returns true while attempts remain.
func (e *EmailJob) CanRetry() bool {
	return e.Attempts < e.MaxAttempts
}

// IsReadyToProcess returns true if the job is pending, due at now and not
// yet expired.
func (e *EmailJob) IsReadyToProcess(now time.Time) bool {
	return e.Status == EmailStatusPending && !now.Before(e.ScheduledAt) && !e.IsExpired(now)
}
