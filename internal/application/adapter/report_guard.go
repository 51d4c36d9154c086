package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/expense-tracker/backend/internal/domain/entity"
	"github.com/expense-tracker/backend/internal/domain/valueobject"
)

// ReleaseFunc releases a lock obtained from a BatchLocker.
type ReleaseFunc func(ctx context.Context) error

// BatchLocker serialises dispatcher runs for the same kind and period across
// processes. Acquire fails with domainerror.ErrReportBatchInProgress when the
// lock is held elsewhere.
type BatchLocker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (ReleaseFunc, error)
}

// ReportLedger remembers which users already received a period's report.
type ReportLedger interface {
	WasSent(ctx context.Context, kind entity.ReportKind, period valueobject.Period, userID uuid.UUID) (bool, error)
	MarkSent(ctx context.Context, kind entity.ReportKind, period valueobject.Period, userID uuid.UUID) error
}
