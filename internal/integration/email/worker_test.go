package email

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/integration/email/templates"
)

type memoryQueue struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*entity.EmailJob
}

func newMemoryQueue() *memoryQueue {
	return &memoryQueue{jobs: make(map[uuid.UUID]*entity.EmailJob)}
}

func (q *memoryQueue) Create(_ context.Context, job *entity.EmailJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs[job.ID] = job
	return nil
}

func (q *memoryQueue) GetPendingJobs(_ context.Context, now time.Time, limit int) ([]*entity.EmailJob, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []*entity.EmailJob
	for _, j := range q.jobs {
		if j.IsReadyToProcess(now) && len(out) < limit {
			out = append(out, j)
		}
	}
	return out, nil
}

func (q *memoryQueue) Update(_ context.Context, job *entity.EmailJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs[job.ID] = job
	return nil
}

func (q *memoryQueue) GetByID(_ context.Context, id uuid.UUID) (*entity.EmailJob, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if j, ok := q.jobs[id]; ok {
		return j, nil
	}
	return nil, domainerror.ErrEmailJobNotFound
}

func (q *memoryQueue) GetByRecipient(_ context.Context, email string) ([]*entity.EmailJob, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []*entity.EmailJob
	for _, j := range q.jobs {
		if j.RecipientEmail == email {
			out = append(out, j)
		}
	}
	return out, nil
}

func (q *memoryQueue) ExpirePending(_ context.Context, now time.Time) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var n int64
	for _, j := range q.jobs {
		if j.Status == entity.EmailStatusPending && j.IsExpired(now) {
			j.MarkExpired(now)
			n++
		}
	}
	return n, nil
}

func (q *memoryQueue) DeleteFinishedBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

var _ adapter.EmailQueueRepository = (*memoryQueue)(nil)

func newTestWorker(t *testing.T, queue *memoryQueue, sender adapter.EmailSender) *Worker {
	t.Helper()
	renderer, err := templates.NewRenderer("")
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	return NewWorker(queue, sender, renderer, DefaultWorkerConfig())
}

func queueOTP(t *testing.T, queue *memoryQueue) *entity.EmailJob {
	t.Helper()
	svc := NewService(queue)
	err := svc.QueuePasswordResetOTP(context.Background(), adapter.QueuePasswordResetOTPInput{
		UserEmail: "asha@example.com",
		UserName:  "Asha",
		OTP:       "482913",
		ExpiresIn: "10 minutes",
	})
	if err != nil {
		t.Fatalf("queue: %v", err)
	}
	jobs, _ := queue.GetByRecipient(context.Background(), "asha@example.com")
	if len(jobs) != 1 {
		t.Fatalf("expected one queued job, got %d", len(jobs))
	}
	return jobs[0]
}

func TestWorker_SendsQueuedOTP(t *testing.T) {
	queue := newMemoryQueue()
	sender := NewMockEmailSender()
	job := queueOTP(t, queue)

	newTestWorker(t, queue, sender).ProcessNow(context.Background())

	sent := sender.SentEmails()
	if len(sent) != 1 {
		t.Fatalf("expected one sent email, got %d", len(sent))
	}
	if sent[0].To != "asha@example.com" || !strings.Contains(sent[0].Text, "482913") {
		t.Errorf("unexpected email: %+v", sent[0])
	}
	if job.Status != entity.EmailStatusSent || job.ProviderID != "mock-1" {
		t.Errorf("job status = %s provider = %q", job.Status, job.ProviderID)
	}
}

func TestWorker_FailureHandling(t *testing.T) {
	tests := []struct {
		name       string
		permanent  bool
		wantStatus entity.EmailStatus
	}{
		{name: "temporary failure is retried", permanent: false, wantStatus: entity.EmailStatusPending},
		{name: "permanent failure gives up", permanent: true, wantStatus: entity.EmailStatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := newMemoryQueue()
			sender := NewMockEmailSender()
			sender.SetFailure(errors.New("provider down"), tt.permanent)
			job := queueOTP(t, queue)

			newTestWorker(t, queue, sender).ProcessNow(context.Background())

			if job.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", job.Status, tt.wantStatus)
			}
			if job.Attempts != 1 {
				t.Errorf("attempts = %d, want 1", job.Attempts)
			}
			if len(sender.SentEmails()) != 0 {
				t.Error("nothing should have been sent")
			}
		})
	}
}

func TestWorker_ResetCodeDeadline(t *testing.T) {
	tests := []struct {
		name       string
		expiresIn  time.Duration
		fail       bool
		wantStatus entity.EmailStatus
		wantSent   int
	}{
		{name: "fresh code is sent", expiresIn: 10 * time.Minute, wantStatus: entity.EmailStatusSent, wantSent: 1},
		{name: "stale code is dropped", expiresIn: -time.Second, wantStatus: entity.EmailStatusExpired},
		{name: "retry that outlives the code expires the job", expiresIn: 10 * time.Second, fail: true, wantStatus: entity.EmailStatusExpired},
		{name: "retry inside the deadline is rescheduled", expiresIn: 10 * time.Minute, fail: true, wantStatus: entity.EmailStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := newMemoryQueue()
			sender := NewMockEmailSender()
			if tt.fail {
				sender.SetFailure(errors.New("provider down"), false)
			}
			err := NewService(queue).QueuePasswordResetOTP(context.Background(), adapter.QueuePasswordResetOTPInput{
				UserEmail: "asha@example.com",
				UserName:  "Asha",
				OTP:       "482913",
				ExpiresIn: "10 minutes",
				ExpiresAt: time.Now().UTC().Add(tt.expiresIn),
			})
			if err != nil {
				t.Fatalf("queue: %v", err)
			}
			jobs, _ := queue.GetByRecipient(context.Background(), "asha@example.com")
			job := jobs[0]

			newTestWorker(t, queue, sender).ProcessNow(context.Background())

			if job.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", job.Status, tt.wantStatus)
			}
			if got := len(sender.SentEmails()); got != tt.wantSent {
				t.Errorf("sent = %d, want %d", got, tt.wantSent)
			}
		})
	}
}

func TestWorker_ExpiresJobDuringBatch(t *testing.T) {
	queue := newMemoryQueue()
	sender := NewMockEmailSender()
	job := queueOTP(t, queue)
	deadline := time.Now().UTC().Add(time.Minute)
	job.WithExpiry(deadline)

	worker := newTestWorker(t, queue, sender)
	calls := 0
	worker.now = func() time.Time {
		calls++
		if calls == 1 {
			return deadline.Add(-time.Second)
		}
		return deadline
	}
	worker.ProcessNow(context.Background())

	if job.Status != entity.EmailStatusExpired || job.ProcessedAt == nil {
		t.Errorf("status = %s processed = %v, want expired", job.Status, job.ProcessedAt)
	}
	if len(sender.SentEmails()) != 0 {
		t.Error("expired code must not be sent")
	}
}

func TestRetryScheduleFor(t *testing.T) {
	otp := entity.RetryScheduleFor(entity.TemplatePasswordResetOTP)
	var total time.Duration
	for _, d := range otp {
		total += d
	}
	if total >= 10*time.Minute {
		t.Errorf("reset code retries span %s, longer than the code lives", total)
	}
	if got := entity.NewEmailJob(entity.TemplatePasswordResetOTP, "a@example.com", "", "", nil).MaxAttempts; got != len(otp) {
		t.Errorf("MaxAttempts = %d, want %d", got, len(otp))
	}
	if len(entity.RetryScheduleFor("other")) == 0 {
		t.Error("unknown templates need a default schedule")
	}
}

func TestWorker_UnknownTemplateIsPermanent(t *testing.T) {
	queue := newMemoryQueue()
	job := entity.NewEmailJob("no_such_template", "a@example.com", "A", "Hi", nil)
	_ = queue.Create(context.Background(), job)

	newTestWorker(t, queue, NewMockEmailSender()).ProcessNow(context.Background())

	if job.Status != entity.EmailStatusFailed {
		t.Errorf("status = %s, want failed", job.Status)
	}
}

func TestService_RequiresRecipient(t *testing.T) {
	err := NewService(newMemoryQueue()).QueuePasswordResetOTP(context.Background(), adapter.QueuePasswordResetOTPInput{OTP: "1"})
	if !errors.Is(err, domainerror.ErrMissingRecipient) {
		t.Errorf("expected ErrMissingRecipient, got %v", err)
	}
}

func TestIsPermanentError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{errors.New("422 validation_error: invalid from address"), true},
		{errors.New("401 Unauthorized"), true},
		{errors.New("429 rate limit exceeded"), false},
		{errors.New("502 bad gateway"), false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := isPermanentError(tt.err); got != tt.want {
			t.Errorf("isPermanentError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
