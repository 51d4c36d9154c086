package report

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/domain/valueobject"
)

// Fakes

type fakeUserRepo struct {
	users []*entity.User
	err   error
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error { return nil }
func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return nil, domainerror.ErrUserNotFound
}
func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return nil, domainerror.ErrUserNotFound
}
func (f *fakeUserRepo) FindByAccountType(ctx context.Context, accountType entity.AccountType) ([]*entity.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*entity.User
	for _, u := range f.users {
		if u.AccountType == accountType {
			out = append(out, u)
		}
	}
	return out, nil
}
func (f *fakeUserRepo) Update(ctx context.Context, user *entity.User) error          { return nil }
func (f *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) { return false, nil }

type window struct {
	start, end time.Time
}

type fakeExpenseRepo struct {
	mu       sync.Mutex
	byUser   map[uuid.UUID][]*entity.Expense
	windows  []window
	failUser uuid.UUID
}

func (f *fakeExpenseRepo) Create(ctx context.Context, expense *entity.Expense) error { return nil }
func (f *fakeExpenseRepo) FindByID(ctx context.Context, id, userID uuid.UUID) (*entity.Expense, error) {
	return nil, domainerror.ErrExpenseNotFound
}
func (f *fakeExpenseRepo) List(ctx context.Context, userID uuid.UUID, filter adapter.ExpenseFilter) ([]*entity.Expense, int64, error) {
	return nil, 0, nil
}
func (f *fakeExpenseRepo) Update(ctx context.Context, expense *entity.Expense) error { return nil }
func (f *fakeExpenseRepo) Delete(ctx context.Context, id, userID uuid.UUID) error    { return nil }
func (f *fakeExpenseRepo) FindInWindow(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*entity.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.windows = append(f.windows, window{start: start, end: end})
	if userID == f.failUser {
		return nil, errors.New("connection reset")
	}
	return f.byUser[userID], nil
}

type fakeTripRepo struct {
	byUser map[uuid.UUID][]*entity.Trip
}

func (f *fakeTripRepo) Create(ctx context.Context, trip *entity.Trip) error { return nil }
func (f *fakeTripRepo) FindByID(ctx context.Context, id, userID uuid.UUID) (*entity.Trip, error) {
	return nil, domainerror.ErrTripNotFound
}
func (f *fakeTripRepo) List(ctx context.Context, userID uuid.UUID, filter adapter.TripFilter) ([]*entity.Trip, int64, error) {
	return nil, 0, nil
}
func (f *fakeTripRepo) Update(ctx context.Context, trip *entity.Trip) error   { return nil }
func (f *fakeTripRepo) Delete(ctx context.Context, id, userID uuid.UUID) error { return nil }
func (f *fakeTripRepo) AddReceipt(ctx context.Context, tripID uuid.UUID, receipt entity.TripReceipt) error {
	return nil
}
func (f *fakeTripRepo) RemoveReceipt(ctx context.Context, tripID, receiptID uuid.UUID) error {
	return nil
}
func (f *fakeTripRepo) FindInWindow(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*entity.Trip, error) {
	return f.byUser[userID], nil
}

type fakeAnalyzer struct {
	mu       sync.Mutex
	analyze  func(ctx context.Context, request *adapter.NarrativeRequest) (*adapter.NarrativeResult, error)
	requests []*adapter.NarrativeRequest
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, request *adapter.NarrativeRequest) (*adapter.NarrativeResult, error) {
	f.mu.Lock()
	f.requests = append(f.requests, request)
	f.mu.Unlock()
	if f.analyze != nil {
		return f.analyze(ctx, request)
	}
	return &adapter.NarrativeResult{Text: "You spent wisely."}, nil
}

func (f *fakeAnalyzer) IsAvailable() bool { return true }

type fakeRenderer struct {
	panicFor string
}

func (f *fakeRenderer) RenderMonthlyReport(content adapter.MonthlyReportContent) (string, string, error) {
	if content.UserName == f.panicFor {
		panic("template exploded")
	}
	return "<p>" + content.Narrative + "</p>", content.Narrative, nil
}

type fakeSender struct {
	mu      sync.Mutex
	sent    []adapter.SendEmailInput
	failFor map[string]error
}

func (f *fakeSender) Send(ctx context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[input.To]; ok {
		return nil, err
	}
	f.sent = append(f.sent, input)
	return &adapter.SendEmailResult{ProviderID: "msg-" + input.To}, nil
}

type fakeLedger struct {
	mu   sync.Mutex
	sent map[string]bool
}

func (f *fakeLedger) key(kind entity.ReportKind, period valueobject.Period, userID uuid.UUID) string {
	return string(kind) + period.Key() + userID.String()
}

func (f *fakeLedger) WasSent(ctx context.Context, kind entity.ReportKind, period valueobject.Period, userID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[f.key(kind, period, userID)], nil
}

func (f *fakeLedger) MarkSent(ctx context.Context, kind entity.ReportKind, period valueobject.Period, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sent == nil {
		f.sent = map[string]bool{}
	}
	f.sent[f.key(kind, period, userID)] = true
	return nil
}

type heldLocker struct{}

func (heldLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (adapter.ReleaseFunc, error) {
	return nil, domainerror.NewReportError(domainerror.ErrCodeReportBatchInProgress, "held", domainerror.ErrReportBatchInProgress)
}

// Helpers

var february2024 = valueobject.Period{Year: 2024, Month: time.February}

func newUser(name string, accountType entity.AccountType) *entity.User {
	return entity.NewUser(name+"@example.com", name, "hash", accountType)
}

func newExpense(userID uuid.UUID, amount int64, category entity.ExpenseCategory, date time.Time) *entity.Expense {
	return entity.NewExpense(userID, decimal.NewFromInt(amount), category, "test", date)
}

func newTrip(userID uuid.UUID, route string, income, fuel, wallet int64) *entity.Trip {
	trip := entity.NewTrip(userID, "mh12ab1234", route, "02/2024", time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))
	trip.TotalIncome = decimal.NewFromInt(income)
	trip.Costs.FuelCost = decimal.NewFromInt(fuel)
	trip.Costs.WalletPayment = decimal.NewFromInt(wallet)
	return trip
}

type fixture struct {
	users    *fakeUserRepo
	expenses *fakeExpenseRepo
	trips    *fakeTripRepo
	analyzer *fakeAnalyzer
	renderer *fakeRenderer
	sender   *fakeSender
}

func newFixture() *fixture {
	return &fixture{
		users:    &fakeUserRepo{},
		expenses: &fakeExpenseRepo{byUser: map[uuid.UUID][]*entity.Expense{}},
		trips:    &fakeTripRepo{byUser: map[uuid.UUID][]*entity.Trip{}},
		analyzer: &fakeAnalyzer{},
		renderer: &fakeRenderer{},
		sender:   &fakeSender{failFor: map[string]error{}},
	}
}

func (f *fixture) dispatcher(config DispatcherConfig, opts ...DispatcherOption) *Dispatcher {
	aggregator := NewAggregator(f.expenses, f.trips, time.UTC)
	return NewDispatcher(f.users, aggregator, f.analyzer, f.renderer, f.sender, config, opts...)
}

// Dispatcher

func TestDispatchPeriod_SkipFailSucceed(t *testing.T) {
	f := newFixture()
	skipped := newUser("alice", entity.AccountTypeSimple)
	failing := newUser("bob", entity.AccountTypeSimple)
	succeeding := newUser("carol", entity.AccountTypeSimple)
	f.users.users = []*entity.User{skipped, failing, succeeding}

	date := time.Date(2024, 2, 12, 10, 0, 0, 0, time.UTC)
	f.expenses.byUser[failing.ID] = []*entity.Expense{newExpense(failing.ID, 100, entity.CategoryGroceries, date)}
	f.expenses.byUser[succeeding.ID] = []*entity.Expense{newExpense(succeeding.ID, 250, entity.CategoryTravel, date)}

	f.analyzer.analyze = func(ctx context.Context, request *adapter.NarrativeRequest) (*adapter.NarrativeResult, error) {
		if request.UserName == "bob" {
			return nil, domainerror.NewReportError(domainerror.ErrCodeNarrativeRateLimited, "rate limited", errors.New("429"))
		}
		return &adapter.NarrativeResult{Text: "Great month."}, nil
	}

	result, err := f.dispatcher(DispatcherConfig{}).DispatchPeriod(context.Background(), entity.ReportKindSimple, february2024)
	if err != nil {
		t.Fatalf("DispatchPeriod() error = %v", err)
	}
	if result.SuccessCount != 1 || result.FailedCount != 1 {
		t.Errorf("result = {sent %d, failed %d}, want {1, 1}", result.SuccessCount, result.FailedCount)
	}
	if result.SkippedCount != 1 {
		t.Errorf("SkippedCount = %d, want 1", result.SkippedCount)
	}
	if len(f.sender.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(f.sender.sent))
	}
	email := f.sender.sent[0]
	if email.To != succeeding.Email {
		t.Errorf("sent to %q, want %q", email.To, succeeding.Email)
	}
	if email.Subject != "Your Monthly Expense Report - February 2024" {
		t.Errorf("Subject = %q", email.Subject)
	}
}

func TestDispatchPeriod_OnlyEligibleAccountType(t *testing.T) {
	f := newFixture()
	simple := newUser("sam", entity.AccountTypeSimple)
	transport := newUser("tara", entity.AccountTypeTransport)
	f.users.users = []*entity.User{simple, transport}
	f.trips.byUser[transport.ID] = []*entity.Trip{newTrip(transport.ID, "Pune-Mumbai", 10000, 2000, 0)}
	f.expenses.byUser[simple.ID] = []*entity.Expense{newExpense(simple.ID, 10, entity.CategoryOther, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))}

	result, err := f.dispatcher(DispatcherConfig{}).DispatchPeriod(context.Background(), entity.ReportKindTransport, february2024)
	if err != nil {
		t.Fatalf("DispatchPeriod() error = %v", err)
	}
	if result.SuccessCount != 1 || result.FailedCount != 0 || result.SkippedCount != 0 {
		t.Errorf("result = %+v, want one transport send", result)
	}
	if len(f.sender.sent) != 1 || f.sender.sent[0].To != transport.Email {
		t.Fatalf("unexpected sends: %+v", f.sender.sent)
	}
	if f.sender.sent[0].Subject != "Your Monthly Transport Report - February 2024" {
		t.Errorf("Subject = %q", f.sender.sent[0].Subject)
	}
	if got := f.analyzer.requests[0].Statistics.Total; !got.Equal(decimal.NewFromInt(8000)) {
		t.Errorf("net profit passed to analyzer = %s, want 8000", got)
	}
}

func TestDispatchPeriod_ListingFailureIsFatal(t *testing.T) {
	f := newFixture()
	f.users.err = errors.New("database is down")

	result, err := f.dispatcher(DispatcherConfig{}).DispatchPeriod(context.Background(), entity.ReportKindSimple, february2024)
	if err == nil {
		t.Fatal("DispatchPeriod() error = nil, want listing failure")
	}
	if result != nil {
		t.Errorf("result = %+v, want nil", result)
	}
	if !errors.Is(err, domainerror.ErrListRecipientsFailed) {
		t.Errorf("error %v does not wrap ErrListRecipientsFailed", err)
	}
	var reportErr *domainerror.ReportError
	if !errors.As(err, &reportErr) || reportErr.Code != domainerror.ErrCodeListRecipientsFailed {
		t.Errorf("error = %v, want code %s", err, domainerror.ErrCodeListRecipientsFailed)
	}
}

func TestDispatchPeriod_PerUserFailures(t *testing.T) {
	date := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		setup func(f *fixture, user *entity.User)
	}{
		{
			name: "send error",
			setup: func(f *fixture, user *entity.User) {
				f.sender.failFor[user.Email] = errors.New("smtp unavailable")
			},
		},
		{
			name: "aggregation error",
			setup: func(f *fixture, user *entity.User) {
				f.expenses.failUser = user.ID
			},
		},
		{
			name: "renderer panic",
			setup: func(f *fixture, user *entity.User) {
				f.renderer.panicFor = user.Name
			},
		},
		{
			name: "analyzer panic",
			setup: func(f *fixture, user *entity.User) {
				f.analyzer.analyze = func(ctx context.Context, request *adapter.NarrativeRequest) (*adapter.NarrativeResult, error) {
					panic("unexpected response shape")
				}
			},
		},
		{
			name: "empty narrative",
			setup: func(f *fixture, user *entity.User) {
				f.analyzer.analyze = func(ctx context.Context, request *adapter.NarrativeRequest) (*adapter.NarrativeResult, error) {
					return &adapter.NarrativeResult{}, nil
				}
			},
		},
		{
			name: "analyzer ignores deadline",
			setup: func(f *fixture, user *entity.User) {
				f.analyzer.analyze = func(ctx context.Context, request *adapter.NarrativeRequest) (*adapter.NarrativeResult, error) {
					time.Sleep(200 * time.Millisecond)
					return &adapter.NarrativeResult{Text: "late"}, nil
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			user := newUser("dave", entity.AccountTypeSimple)
			f.users.users = []*entity.User{user}
			f.expenses.byUser[user.ID] = []*entity.Expense{newExpense(user.ID, 42, entity.CategoryHealthcare, date)}
			tt.setup(f, user)

			config := DispatcherConfig{AnalyzeTimeout: 20 * time.Millisecond, SendTimeout: time.Second}
			result, err := f.dispatcher(config).DispatchPeriod(context.Background(), entity.ReportKindSimple, february2024)
			if err != nil {
				t.Fatalf("DispatchPeriod() error = %v, per-user failures must not be fatal", err)
			}
			if result.FailedCount != 1 || result.SuccessCount != 0 {
				t.Errorf("result = %+v, want one failure", result)
			}
		})
	}
}

func TestDispatchPeriod_AnalyzerTimeout(t *testing.T) {
	f := newFixture()
	slow := newUser("slow", entity.AccountTypeSimple)
	fast := newUser("fast", entity.AccountTypeSimple)
	f.users.users = []*entity.User{slow, fast}
	date := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)
	f.expenses.byUser[slow.ID] = []*entity.Expense{newExpense(slow.ID, 1, entity.CategoryOther, date)}
	f.expenses.byUser[fast.ID] = []*entity.Expense{newExpense(fast.ID, 1, entity.CategoryOther, date)}

	f.analyzer.analyze = func(ctx context.Context, request *adapter.NarrativeRequest) (*adapter.NarrativeResult, error) {
		if request.UserName == "slow" {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return &adapter.NarrativeResult{Text: "ok"}, nil
	}

	result, err := f.dispatcher(DispatcherConfig{AnalyzeTimeout: 20 * time.Millisecond}).DispatchPeriod(context.Background(), entity.ReportKindSimple, february2024)
	if err != nil {
		t.Fatalf("DispatchPeriod() error = %v", err)
	}
	if result.SuccessCount != 1 || result.FailedCount != 1 {
		t.Errorf("result = %+v, want {1, 1}", result)
	}
}

func TestDispatchPeriod_ConcurrentTally(t *testing.T) {
	f := newFixture()
	date := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 20; i++ {
		user := newUser(uuid.NewString(), entity.AccountTypeSimple)
		f.users.users = append(f.users.users, user)
		if i%4 == 0 {
			continue
		}
		f.expenses.byUser[user.ID] = []*entity.Expense{newExpense(user.ID, 10, entity.CategoryShopping, date)}
		if i%4 == 1 {
			f.sender.failFor[user.Email] = errors.New("bounced")
		}
	}

	result, err := f.dispatcher(DispatcherConfig{Concurrency: 4}).DispatchPeriod(context.Background(), entity.ReportKindSimple, february2024)
	if err != nil {
		t.Fatalf("DispatchPeriod() error = %v", err)
	}
	if result.SuccessCount != 10 || result.FailedCount != 5 || result.SkippedCount != 5 {
		t.Errorf("result = %+v, want sent 10 failed 5 skipped 5", result)
	}
}

func TestDispatchPeriod_CancelledBeforeStart(t *testing.T) {
	f := newFixture()
	f.users.users = []*entity.User{newUser("erin", entity.AccountTypeSimple)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := f.dispatcher(DispatcherConfig{}).DispatchPeriod(ctx, entity.ReportKindSimple, february2024)
	if err != nil {
		t.Fatalf("DispatchPeriod() error = %v", err)
	}
	if result.SuccessCount+result.FailedCount+result.SkippedCount != 0 {
		t.Errorf("result = %+v, want no user processed", result)
	}
}

func TestDispatchPeriod_InvalidKind(t *testing.T) {
	f := newFixture()
	_, err := f.dispatcher(DispatcherConfig{}).DispatchPeriod(context.Background(), entity.ReportKind("weekly"), february2024)
	if !errors.Is(err, domainerror.ErrInvalidReportKind) {
		t.Errorf("error = %v, want ErrInvalidReportKind", err)
	}
}

func TestDispatchPeriod_BatchLockHeld(t *testing.T) {
	f := newFixture()
	f.users.users = []*entity.User{newUser("fay", entity.AccountTypeSimple)}

	_, err := f.dispatcher(DispatcherConfig{}, WithBatchLocker(heldLocker{})).DispatchPeriod(context.Background(), entity.ReportKindSimple, february2024)
	if !errors.Is(err, domainerror.ErrReportBatchInProgress) {
		t.Errorf("error = %v, want ErrReportBatchInProgress", err)
	}
}

func TestDispatchPeriod_DuplicateSendsWithoutLedger(t *testing.T) {
	f := newFixture()
	user := newUser("gus", entity.AccountTypeSimple)
	f.users.users = []*entity.User{user}
	f.expenses.byUser[user.ID] = []*entity.Expense{newExpense(user.ID, 5, entity.CategoryOther, time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC))}

	d := f.dispatcher(DispatcherConfig{})
	for i := 0; i < 2; i++ {
		if _, err := d.DispatchPeriod(context.Background(), entity.ReportKindSimple, february2024); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	if len(f.sender.sent) != 2 {
		t.Errorf("sent %d emails, want 2 without a ledger", len(f.sender.sent))
	}
}

func TestDispatchPeriod_LedgerSkipsAlreadyReported(t *testing.T) {
	f := newFixture()
	user := newUser("hana", entity.AccountTypeSimple)
	f.users.users = []*entity.User{user}
	f.expenses.byUser[user.ID] = []*entity.Expense{newExpense(user.ID, 5, entity.CategoryOther, time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC))}

	d := f.dispatcher(DispatcherConfig{}, WithReportLedger(&fakeLedger{}))

	first, err := d.DispatchPeriod(context.Background(), entity.ReportKindSimple, february2024)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := d.DispatchPeriod(context.Background(), entity.ReportKindSimple, february2024)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if first.SuccessCount != 1 || second.SuccessCount != 0 || second.SkippedCount != 1 {
		t.Errorf("first = %+v, second = %+v", first, second)
	}
	if len(f.sender.sent) != 1 {
		t.Errorf("sent %d emails, want 1", len(f.sender.sent))
	}
}

func TestDispatch_PreviousMonthWraparound(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want valueobject.Period
	}{
		{"january rolls back a year", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), valueobject.Period{Year: 2023, Month: time.December}},
		{"march reports february", time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), valueobject.Period{Year: 2024, Month: time.February}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			d := f.dispatcher(DispatcherConfig{}, WithClock(func() time.Time { return tt.now }))

			result, err := d.Dispatch(context.Background(), entity.ReportKindSimple)
			if err != nil {
				t.Fatalf("Dispatch() error = %v", err)
			}
			if result.Period != tt.want {
				t.Errorf("Period = %+v, want %+v", result.Period, tt.want)
			}
		})
	}
}

func TestDispatchUser(t *testing.T) {
	f := newFixture()
	user := newUser("ivy", entity.AccountTypeSimple)
	d := f.dispatcher(DispatcherConfig{})

	outcome, err := d.DispatchUser(context.Background(), user, february2024)
	if err != nil || outcome != OutcomeSkipped {
		t.Fatalf("empty period: outcome = %s, err = %v", outcome, err)
	}

	f.expenses.byUser[user.ID] = []*entity.Expense{newExpense(user.ID, 75, entity.CategoryEducation, time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC))}
	outcome, err = d.DispatchUser(context.Background(), user, february2024)
	if err != nil || outcome != OutcomeSent {
		t.Fatalf("outcome = %s, err = %v, want sent", outcome, err)
	}

	f.sender.failFor[user.Email] = errors.New("bounced")
	outcome, err = d.DispatchUser(context.Background(), user, february2024)
	if err == nil || outcome != OutcomeFailed {
		t.Errorf("outcome = %s, err = %v, want failed with error", outcome, err)
	}
}

// Aggregator

func TestAggregate_WindowBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		period  valueobject.Period
		wantEnd time.Time
	}{
		{"leap february", valueobject.Period{Year: 2024, Month: time.February}, time.Date(2024, 2, 29, 23, 59, 59, 999000000, time.UTC)},
		{"common february", valueobject.Period{Year: 2023, Month: time.February}, time.Date(2023, 2, 28, 23, 59, 59, 999000000, time.UTC)},
		{"december", valueobject.Period{Year: 2023, Month: time.December}, time.Date(2023, 12, 31, 23, 59, 59, 999000000, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			aggregator := NewAggregator(f.expenses, f.trips, time.UTC)

			if _, err := aggregator.Aggregate(context.Background(), uuid.New(), tt.period, entity.ReportKindSimple); err != nil {
				t.Fatalf("Aggregate() error = %v", err)
			}
			got := f.expenses.windows[0]
			wantStart := time.Date(tt.period.Year, tt.period.Month, 1, 0, 0, 0, 0, time.UTC)
			if !got.start.Equal(wantStart) {
				t.Errorf("start = %v, want %v", got.start, wantStart)
			}
			if !got.end.Equal(tt.wantEnd) {
				t.Errorf("end = %v, want %v", got.end, tt.wantEnd)
			}
		})
	}
}

func TestAggregate_EmptyPeriodIsNotAnError(t *testing.T) {
	f := newFixture()
	aggregator := NewAggregator(f.expenses, f.trips, time.UTC)

	for _, kind := range entity.ReportKinds {
		aggregate, err := aggregator.Aggregate(context.Background(), uuid.New(), february2024, kind)
		if err != nil {
			t.Fatalf("%s: Aggregate() error = %v", kind, err)
		}
		if !aggregate.IsEmpty() {
			t.Errorf("%s: IsEmpty() = false", kind)
		}
		if aggregate.Statistics.Count != 0 || !aggregate.Statistics.Total.IsZero() {
			t.Errorf("%s: count = %d total = %s, want 0 and 0", kind, aggregate.Statistics.Count, aggregate.Statistics.Total)
		}
	}
}

func TestAggregate_RepositoryErrorPropagates(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	f.expenses.failUser = userID
	aggregator := NewAggregator(f.expenses, f.trips, time.UTC)

	if _, err := aggregator.Aggregate(context.Background(), userID, february2024, entity.ReportKindSimple); err == nil {
		t.Error("Aggregate() error = nil, want repository error")
	}
}

func TestSimpleStatistics_BreakdownTiesKeepInsertionOrder(t *testing.T) {
	userID := uuid.New()
	date := time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)
	expenses := []*entity.Expense{
		newExpense(userID, 100, entity.CategoryGroceries, date),
		newExpense(userID, 300, entity.CategoryTravel, date),
		newExpense(userID, 300, entity.CategoryShopping, date),
		newExpense(userID, 50, entity.CategoryOther, date),
	}

	stats := SimpleStatistics(february2024, expenses, time.UTC)

	want := []entity.ExpenseCategory{
		entity.CategoryTravel,
		entity.CategoryShopping,
		entity.CategoryGroceries,
		entity.CategoryOther,
	}
	if len(stats.Breakdown) != len(want) {
		t.Fatalf("breakdown has %d groups, want %d", len(stats.Breakdown), len(want))
	}
	for i, category := range want {
		if stats.Breakdown[i].Key != string(category) {
			t.Errorf("breakdown[%d] = %s, want %s", i, stats.Breakdown[i].Key, category)
		}
	}
	if !stats.Total.Equal(decimal.NewFromInt(750)) {
		t.Errorf("Total = %s, want 750", stats.Total)
	}
	if !stats.AverageAmount.Equal(decimal.NewFromFloat(187.5)) {
		t.Errorf("AverageAmount = %s, want 187.5", stats.AverageAmount)
	}
	if !stats.Breakdown[0].Percentage.Equal(decimal.NewFromInt(40)) {
		t.Errorf("Travel percentage = %s, want 40", stats.Breakdown[0].Percentage)
	}
}

func TestSimpleStatistics_DailyTotals(t *testing.T) {
	userID := uuid.New()
	expenses := []*entity.Expense{
		newExpense(userID, 20, entity.CategoryOther, time.Date(2024, 2, 29, 23, 59, 0, 0, time.UTC)),
		newExpense(userID, 5, entity.CategoryOther, time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)),
		newExpense(userID, 7, entity.CategoryGroceries, time.Date(2024, 2, 1, 18, 0, 0, 0, time.UTC)),
	}

	stats := SimpleStatistics(february2024, expenses, time.UTC)

	if len(stats.Daily) != 2 {
		t.Fatalf("Daily has %d days, want 2", len(stats.Daily))
	}
	if stats.Daily[0].Day != 1 || !stats.Daily[0].Total.Equal(decimal.NewFromInt(12)) {
		t.Errorf("Daily[0] = %+v, want day 1 total 12", stats.Daily[0])
	}
	if stats.Daily[1].Day != 29 || !stats.Daily[1].Total.Equal(decimal.NewFromInt(20)) {
		t.Errorf("Daily[1] = %+v, want day 29 total 20", stats.Daily[1])
	}
}

func TestTransportStatistics(t *testing.T) {
	userID := uuid.New()
	trips := []*entity.Trip{
		newTrip(userID, "Pune-Mumbai", 10000, 3000, 500),
		newTrip(userID, "Delhi-Agra", 5000, 6000, 0),
		newTrip(userID, "Pune-Mumbai", 8000, 1000, 0),
	}

	stats := TransportStatistics(february2024, trips)

	if stats.Count != 3 {
		t.Errorf("Count = %d, want 3", stats.Count)
	}
	if !stats.TotalIncome.Equal(decimal.NewFromInt(23000)) {
		t.Errorf("TotalIncome = %s, want 23000", stats.TotalIncome)
	}
	if !stats.TotalExpenses.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("TotalExpenses = %s, want 10000 (wallet excluded)", stats.TotalExpenses)
	}
	if !stats.WalletPayments.Equal(decimal.NewFromInt(500)) {
		t.Errorf("WalletPayments = %s, want 500", stats.WalletPayments)
	}
	if !stats.Total.Equal(decimal.NewFromInt(13000)) {
		t.Errorf("Total = %s, want 13000", stats.Total)
	}
	if !stats.ProfitMargin.Equal(decimal.NewFromFloat(56.52)) {
		t.Errorf("ProfitMargin = %s, want 56.52", stats.ProfitMargin)
	}

	if len(stats.Routes) != 2 {
		t.Fatalf("Routes = %d, want 2", len(stats.Routes))
	}
	top := stats.Routes[0]
	if top.Route != "Pune-Mumbai" || top.Count != 2 || !top.Profit.Equal(decimal.NewFromInt(14000)) {
		t.Errorf("Routes[0] = %+v, want Pune-Mumbai x2 profit 14000", top)
	}
	loss := stats.Routes[1]
	if !loss.Profit.Equal(decimal.NewFromInt(-1000)) {
		t.Errorf("loss route profit = %s, want -1000 (not clamped)", loss.Profit)
	}
	if stats.Breakdown[0].Key != "Pune-Mumbai" || stats.Breakdown[1].Key != "Delhi-Agra" {
		t.Errorf("Breakdown order = %s, %s", stats.Breakdown[0].Key, stats.Breakdown[1].Key)
	}
}

func TestSortBreakdown_Stable(t *testing.T) {
	entries := []valueobject.BreakdownEntry{
		{Key: "a", Total: decimal.NewFromInt(100)},
		{Key: "b", Total: decimal.NewFromInt(300)},
		{Key: "c", Total: decimal.NewFromInt(300)},
		{Key: "d", Total: decimal.NewFromInt(50)},
	}

	SortBreakdown(entries)

	got := ""
	for _, e := range entries {
		got += e.Key
	}
	if got != "bcad" {
		t.Errorf("order = %s, want bcad", got)
	}
}
