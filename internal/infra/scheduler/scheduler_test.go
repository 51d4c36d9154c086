package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/expense-tracker/backend/internal/application/usecase/report"
	"github.com/expense-tracker/backend/internal/domain/entity"
	"github.com/expense-tracker/backend/internal/domain/valueobject"
)

type fakeDispatcher struct {
	kinds  []entity.ReportKind
	err    error
	panics bool
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, kind entity.ReportKind) (*report.BatchResult, error) {
	d.kinds = append(d.kinds, kind)
	if d.panics {
		panic("boom")
	}
	if d.err != nil {
		return nil, d.err
	}
	return &report.BatchResult{
		Kind:         kind,
		Period:       valueobject.Period{Year: 2024, Month: time.January},
		SuccessCount: 2,
		FailedCount:  1,
	}, nil
}

type fakePurger struct {
	cutoff time.Time
}

func (p *fakePurger) DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	p.cutoff = cutoff
	return 3, nil
}

func kolkata(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	return loc
}

func TestActivationGap(t *testing.T) {
	s := New(kolkata(t))
	s.now = func() time.Time { return time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name    string
		spec    string
		want    time.Duration
		wantErr bool
	}{
		{name: "monthly", spec: "0 9 1 * *", want: 29 * 24 * time.Hour},
		{name: "every minute", spec: "* * * * *", want: time.Minute},
		{name: "hourly descriptor", spec: "@hourly", want: time.Hour},
		{name: "garbage", spec: "not a cron", wantErr: true},
		{name: "six fields", spec: "0 0 9 1 * *", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.activationGap(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("gap = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAddReportJob(t *testing.T) {
	s := New(time.UTC)

	if err := s.AddReportJob("0 9 1 * *", entity.ReportKindSimple, &fakeDispatcher{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.AddReportJob("0 10 1 * *", entity.ReportKindTransport, &fakeDispatcher{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.AddReportJob("61 * * * *", entity.ReportKindSimple, &fakeDispatcher{}); err == nil {
		t.Fatal("expected an invalid spec to be rejected")
	}

	entries := s.cron.Entries()
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
}

func TestReportJobNeverPanics(t *testing.T) {
	tests := []struct {
		name       string
		dispatcher *fakeDispatcher
	}{
		{name: "success", dispatcher: &fakeDispatcher{}},
		{name: "batch error", dispatcher: &fakeDispatcher{err: errors.New("db down")}},
		{name: "panic", dispatcher: &fakeDispatcher{panics: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(time.UTC)
			s.reportJob(entity.ReportKindTransport, tt.dispatcher)()

			if len(tt.dispatcher.kinds) != 1 || tt.dispatcher.kinds[0] != entity.ReportKindTransport {
				t.Errorf("dispatched kinds = %v", tt.dispatcher.kinds)
			}
		})
	}
}

func TestCleanupJob(t *testing.T) {
	s := New(time.UTC)
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	purger := &fakePurger{}
	s.cleanupJob(purger, 30*24*time.Hour)()

	want := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	if !purger.cutoff.Equal(want) {
		t.Errorf("cutoff = %s, want %s", purger.cutoff, want)
	}
}

func TestStopCancelsJobContext(t *testing.T) {
	s := New(time.UTC)
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)

	if s.ctx.Err() == nil {
		t.Error("job context should be cancelled after Stop")
	}
}
