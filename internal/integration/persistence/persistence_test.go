package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/integration/persistence/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestUserRepository_FindByAccountType(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	users := []*entity.User{
		entity.NewUser("a@example.com", "A", "hash", entity.AccountTypeSimple),
		entity.NewUser("b@example.com", "B", "hash", entity.AccountTypeTransport),
		entity.NewUser("c@example.com", "C", "hash", entity.AccountTypeSimple),
	}
	for i, u := range users {
		u.CreatedAt = u.CreatedAt.Add(time.Duration(i) * time.Second)
		if err := repo.Create(ctx, u); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	simple, err := repo.FindByAccountType(ctx, entity.AccountTypeSimple)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(simple) != 2 {
		t.Fatalf("expected 2 simple users, got %d", len(simple))
	}
	if simple[0].Email != "a@example.com" || simple[1].Email != "c@example.com" {
		t.Errorf("unexpected order: %s, %s", simple[0].Email, simple[1].Email)
	}

	exists, err := repo.ExistsByEmail(ctx, "  B@Example.com ")
	if err != nil || !exists {
		t.Errorf("ExistsByEmail = %v, %v; want true", exists, err)
	}

	if _, err := repo.FindByID(ctx, uuid.New()); err != domainerror.ErrUserNotFound {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestExpenseRepository_FindInWindow(t *testing.T) {
	ctx := context.Background()
	repo := NewExpenseRepository(newTestDB(t))

	owner := uuid.New()
	other := uuid.New()
	start := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.February, 29, 23, 59, 59, 999_000_000, time.UTC)

	dates := []time.Time{
		time.Date(2024, time.January, 31, 23, 59, 59, 0, time.UTC),
		start,
		time.Date(2024, time.February, 29, 23, 59, 59, 0, time.UTC),
		time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range dates {
		e := entity.NewExpense(owner, decimal.NewFromInt(10), entity.CategoryTravel, "bus", d)
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	foreign := entity.NewExpense(other, decimal.NewFromInt(99), entity.CategoryTravel, "taxi", start)
	if err := repo.Create(ctx, foreign); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.FindInWindow(ctx, owner, start, end)
	if err != nil {
		t.Fatalf("FindInWindow: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 expenses in February, got %d", len(got))
	}
	for _, e := range got {
		if e.UserID != owner {
			t.Errorf("expense %s belongs to %s", e.ID, e.UserID)
		}
	}

	if _, err := repo.FindByID(ctx, foreign.ID, owner); err != domainerror.ErrExpenseNotFound {
		t.Errorf("expected ErrExpenseNotFound for foreign expense, got %v", err)
	}
}

func TestExpenseRepository_ListFiltersAndTags(t *testing.T) {
	ctx := context.Background()
	repo := NewExpenseRepository(newTestDB(t))
	owner := uuid.New()

	food := entity.NewExpense(owner, decimal.NewFromInt(200), entity.CategoryFoodAndDrinking, "lunch", time.Now())
	food.Tags = []string{"work", "team"}
	shop := entity.NewExpense(owner, decimal.NewFromInt(500), entity.CategoryShopping, "shoes", time.Now())
	for _, e := range []*entity.Expense{food, shop} {
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	category := entity.CategoryFoodAndDrinking
	got, total, err := repo.List(ctx, owner, adapter.ExpenseFilter{Category: &category})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(got) != 1 {
		t.Fatalf("expected one food expense, got total=%d len=%d", total, len(got))
	}
	if len(got[0].Tags) != 2 || got[0].Tags[1] != "team" {
		t.Errorf("tags not preserved: %v", got[0].Tags)
	}
	if !got[0].Amount.Equal(decimal.NewFromInt(200)) {
		t.Errorf("amount = %s", got[0].Amount)
	}

	if err := repo.Delete(ctx, shop.ID, uuid.New()); err != domainerror.ErrExpenseNotFound {
		t.Errorf("delete by non-owner should report not found, got %v", err)
	}
}

func TestTripRepository_UpdateAndReceipts(t *testing.T) {
	ctx := context.Background()
	repo := NewTripRepository(newTestDB(t))
	owner := uuid.New()

	trip := entity.NewTrip(owner, "mh12ab1234", "Pune-Mumbai", "January 2024", time.Date(2024, time.January, 10, 8, 0, 0, 0, time.UTC))
	trip.TotalIncome = decimal.NewFromInt(25000)
	first := trip.AddReceipt("https://storage/a.jpg", "receipts/a.jpg")
	trip.AddReceipt("https://storage/b.jpg", "receipts/b.jpg")
	if err := repo.Create(ctx, trip); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.RemoveReceipt(ctx, trip.ID, first.ID); err != nil {
		t.Fatalf("remove receipt: %v", err)
	}
	if err := repo.RemoveReceipt(ctx, trip.ID, first.ID); err != domainerror.ErrTripReceiptNotFound {
		t.Errorf("second remove should report not found, got %v", err)
	}

	// The in-memory copy still lists the removed receipt; Update must not revive it.
	trip.Costs.FuelCost = decimal.NewFromInt(8000)
	if err := repo.Update(ctx, trip); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.FindByID(ctx, trip.ID, owner)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.VehicleNumber != "MH12AB1234" {
		t.Errorf("vehicle number = %q", got.VehicleNumber)
	}
	if len(got.Receipts) != 1 || got.Receipts[0].StorageID != "receipts/b.jpg" {
		t.Errorf("unexpected receipts: %+v", got.Receipts)
	}
	if !got.Costs.FuelCost.Equal(decimal.NewFromInt(8000)) {
		t.Errorf("fuel cost = %s", got.Costs.FuelCost)
	}
	if !got.DriverAllowance.TotalSalary.Equal(entity.DefaultDriverSalary) {
		t.Errorf("driver salary = %s", got.DriverAllowance.TotalSalary)
	}

	if _, err := repo.FindByID(ctx, trip.ID, uuid.New()); err != domainerror.ErrTripNotFound {
		t.Errorf("expected ErrTripNotFound for other user, got %v", err)
	}

	if err := repo.Delete(ctx, trip.ID, owner); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, trip.ID, owner); err != domainerror.ErrTripNotFound {
		t.Errorf("second delete should report not found, got %v", err)
	}
}

func TestTripRepository_ConcurrentReceiptWrites(t *testing.T) {
	ctx := context.Background()
	repo := NewTripRepository(newTestDB(t))
	owner := uuid.New()

	trip := entity.NewTrip(owner, "MH12AB1234", "Pune-Nashik", "March 2024", time.Date(2024, time.March, 3, 8, 0, 0, 0, time.UTC))
	if err := repo.Create(ctx, trip); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Two requests load the trip before either one writes.
	first, err := repo.FindByID(ctx, trip.ID, owner)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	second, err := repo.FindByID(ctx, trip.ID, owner)
	if err != nil {
		t.Fatalf("find: %v", err)
	}

	a := first.AddReceipt("https://storage/a.png", "receipts/a.png")
	if err := repo.AddReceipt(ctx, first.ID, a); err != nil {
		t.Fatalf("add a: %v", err)
	}
	b := second.AddReceipt("https://storage/b.png", "receipts/b.png")
	if err := repo.AddReceipt(ctx, second.ID, b); err != nil {
		t.Fatalf("add b: %v", err)
	}

	// A trip edit made from the first stale copy keeps both receipts.
	first.TotalIncome = decimal.NewFromInt(9000)
	if err := repo.Update(ctx, first); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.FindByID(ctx, trip.ID, owner)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got.Receipts) != 2 {
		t.Fatalf("receipts = %+v, want both a and b", got.Receipts)
	}
	stored := map[string]bool{}
	for _, r := range got.Receipts {
		stored[r.StorageID] = true
	}
	if !stored["receipts/a.png"] || !stored["receipts/b.png"] {
		t.Errorf("unexpected receipts: %+v", got.Receipts)
	}
	if !got.TotalIncome.Equal(decimal.NewFromInt(9000)) {
		t.Errorf("total income = %s", got.TotalIncome)
	}
}

func TestEmailQueueRepository_PendingAndCleanup(t *testing.T) {
	ctx := context.Background()
	repo := NewEmailQueueRepository(newTestDB(t))
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	due := entity.NewEmailJob(entity.TemplatePasswordResetOTP, "a@example.com", "A", "Reset", nil)
	due.ScheduledAt = now.Add(-time.Minute)
	later := entity.NewEmailJob(entity.TemplatePasswordResetOTP, "b@example.com", "B", "Reset", nil)
	later.ScheduledAt = now.Add(time.Hour)
	sent := entity.NewEmailJob(entity.TemplatePasswordResetOTP, "c@example.com", "C", "Reset", map[string]interface{}{"otp": "123456"})
	sent.MarkSent("msg_1")
	old := now.AddDate(0, 0, -40)
	sent.ProcessedAt = &old
	stale := entity.NewEmailJob(entity.TemplatePasswordResetOTP, "d@example.com", "D", "Reset", nil).WithExpiry(now.Add(-time.Minute))
	stale.ScheduledAt = now.Add(-2 * time.Minute)

	for _, j := range []*entity.EmailJob{due, later, sent, stale} {
		if err := repo.Create(ctx, j); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	pending, err := repo.GetPendingJobs(ctx, now, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != due.ID {
		t.Fatalf("expected only the due job, got %d jobs", len(pending))
	}

	stored, err := repo.GetByID(ctx, sent.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.ProviderID != "msg_1" || stored.TemplateData["otp"] != "123456" {
		t.Errorf("unexpected stored job: %+v", stored)
	}

	expired, err := repo.ExpirePending(ctx, now)
	if err != nil {
		t.Fatalf("expire: %v", err)
	}
	if expired != 1 {
		t.Fatalf("expected 1 expired job, got %d", expired)
	}
	closed, err := repo.GetByID(ctx, stale.ID)
	if err != nil {
		t.Fatalf("get stale: %v", err)
	}
	if closed.Status != entity.EmailStatusExpired || closed.ProcessedAt == nil || closed.ExpiresAt == nil {
		t.Errorf("unexpected stale job: %+v", closed)
	}
	if again, _ := repo.ExpirePending(ctx, now); again != 0 {
		t.Errorf("second expire pass touched %d jobs", again)
	}

	tests := []struct {
		name   string
		cutoff time.Time
		want   int64
	}{
		{name: "old sent job", cutoff: now.AddDate(0, 0, -30), want: 1},
		{name: "expired job closed at now", cutoff: now.Add(time.Second), want: 1},
		{name: "nothing left", cutoff: now.Add(time.Hour), want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deleted, err := repo.DeleteFinishedBefore(ctx, tt.cutoff)
			if err != nil {
				t.Fatalf("cleanup: %v", err)
			}
			if deleted != tt.want {
				t.Errorf("deleted = %d, want %d", deleted, tt.want)
			}
		})
	}

	pending, err = repo.GetPendingJobs(ctx, now.Add(2*time.Hour), 10)
	if err != nil {
		t.Fatalf("pending after cleanup: %v", err)
	}
	if len(pending) != 2 {
		t.Errorf("expected the two unsent jobs to survive cleanup, got %d", len(pending))
	}
}

func TestSupportPaymentRepository_FindRecentPaid(t *testing.T) {
	ctx := context.Background()
	repo := NewSupportPaymentRepository(newTestDB(t))
	user := uuid.New()

	paid := entity.NewSupportPayment(user, "Asha", "Keep going", "order_1")
	paid.MarkPaid("pay_1", "sig")
	pending := entity.NewSupportPayment(user, "", "", "order_2")
	for _, p := range []*entity.SupportPayment{paid, pending} {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	recent, err := repo.FindRecentPaid(ctx, 50)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 1 || recent[0].GatewayOrderID != "order_1" {
		t.Fatalf("unexpected supporters: %+v", recent)
	}

	got, err := repo.FindByOrderID(ctx, "order_2")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.SupporterName != entity.AnonymousSupporter || got.Amount != 4900 {
		t.Errorf("unexpected pending payment: %+v", got)
	}

	if _, err := repo.FindByOrderID(ctx, "missing"); err != domainerror.ErrPaymentNotFound {
		t.Errorf("expected ErrPaymentNotFound, got %v", err)
	}
}
