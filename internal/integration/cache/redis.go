// Package cache implements the Redis backed report guards.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/domain/valueobject"
)

const keyPrefix = "expense-tracker"

// NewRedisClient opens a client and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

// batchLocker implements adapter.BatchLocker with redislock.
type batchLocker struct {
	locker *redislock.Client
}

// NewBatchLocker creates a distributed lock backed by client.
func NewBatchLocker(client redis.UniversalClient) adapter.BatchLocker {
	return &batchLocker{locker: redislock.New(client)}
}

// Acquire obtains the lock without retrying.
func (l *batchLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (adapter.ReleaseFunc, error) {
	lock, err := l.locker.Obtain(ctx, keyPrefix+":lock:"+key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, domainerror.NewReportError(domainerror.ErrCodeReportBatchInProgress, "report batch already running for "+key, domainerror.ErrReportBatchInProgress)
	}
	if err != nil {
		return nil, domainerror.NewReportError(domainerror.ErrCodeReportLockFailed, "failed to obtain report batch lock", err)
	}

	return func(ctx context.Context) error {
		if err := lock.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			return err
		}
		return nil
	}, nil
}

// reportLedger implements adapter.ReportLedger with one key per delivered report.
type reportLedger struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewReportLedger creates a ledger whose entries expire after ttl.
func NewReportLedger(client redis.UniversalClient, ttl time.Duration) adapter.ReportLedger {
	return &reportLedger{client: client, ttl: ttl}
}

func ledgerKey(kind entity.ReportKind, period valueobject.Period, userID uuid.UUID) string {
	return fmt.Sprintf("%s:report:%s:%s:%s", keyPrefix, kind, period.Key(), userID)
}

// WasSent reports whether the user already received this period's report.
func (l *reportLedger) WasSent(ctx context.Context, kind entity.ReportKind, period valueobject.Period, userID uuid.UUID) (bool, error) {
	n, err := l.client.Exists(ctx, ledgerKey(kind, period, userID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to read report ledger: %w", err)
	}
	return n > 0, nil
}

// MarkSent records a delivered report.
func (l *reportLedger) MarkSent(ctx context.Context, kind entity.ReportKind, period valueobject.Period, userID uuid.UUID) error {
	sentAt := time.Now().UTC().Format(time.RFC3339)
	if err := l.client.Set(ctx, ledgerKey(kind, period, userID), sentAt, l.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write report ledger: %w", err)
	}
	return nil
}
