package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/domain/valueobject"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestBatchLocker_Exclusive(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)
	locker := NewBatchLocker(client)

	release, err := locker.Acquire(ctx, "simple:2024-01", time.Minute)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	_, err = locker.Acquire(ctx, "simple:2024-01", time.Minute)
	if !errors.Is(err, domainerror.ErrReportBatchInProgress) {
		t.Fatalf("second acquire should report batch in progress, got %v", err)
	}

	if _, err := locker.Acquire(ctx, "transport:2024-01", time.Minute); err != nil {
		t.Errorf("other key must be independent: %v", err)
	}

	if err := release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, err := locker.Acquire(ctx, "simple:2024-01", time.Minute); err != nil {
		t.Errorf("acquire after release: %v", err)
	}
}

func TestBatchLocker_Expires(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	locker := NewBatchLocker(client)

	if _, err := locker.Acquire(ctx, "simple:2024-01", time.Minute); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, err := locker.Acquire(ctx, "simple:2024-01", time.Minute); err != nil {
		t.Errorf("expired lock should be obtainable: %v", err)
	}
}

func TestReportLedger(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	ledger := NewReportLedger(client, 24*time.Hour)

	jan := valueobject.Period{Year: 2024, Month: time.January}
	feb := valueobject.Period{Year: 2024, Month: time.February}
	user := uuid.New()

	sent, err := ledger.WasSent(ctx, entity.ReportKindSimple, jan, user)
	if err != nil || sent {
		t.Fatalf("fresh ledger WasSent = %v, %v", sent, err)
	}

	if err := ledger.MarkSent(ctx, entity.ReportKindSimple, jan, user); err != nil {
		t.Fatalf("mark: %v", err)
	}

	tests := []struct {
		name   string
		kind   entity.ReportKind
		period valueobject.Period
		user   uuid.UUID
		want   bool
	}{
		{name: "same report", kind: entity.ReportKindSimple, period: jan, user: user, want: true},
		{name: "other period", kind: entity.ReportKindSimple, period: feb, user: user, want: false},
		{name: "other kind", kind: entity.ReportKindTransport, period: jan, user: user, want: false},
		{name: "other user", kind: entity.ReportKindSimple, period: jan, user: uuid.New(), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ledger.WasSent(ctx, tt.kind, tt.period, tt.user)
			if err != nil {
				t.Fatalf("WasSent: %v", err)
			}
			if got != tt.want {
				t.Errorf("WasSent = %v, want %v", got, tt.want)
			}
		})
	}

	mr.FastForward(25 * time.Hour)
	if sent, _ := ledger.WasSent(ctx, entity.ReportKindSimple, jan, user); sent {
		t.Error("ledger entry should expire")
	}
}
