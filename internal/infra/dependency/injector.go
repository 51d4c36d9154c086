// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/expense-tracker/backend/config"
	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/application/usecase/auth"
	"github.com/expense-tracker/backend/internal/application/usecase/budget"
	"github.com/expense-tracker/backend/internal/application/usecase/expense"
	"github.com/expense-tracker/backend/internal/application/usecase/payment"
	"github.com/expense-tracker/backend/internal/application/usecase/report"
	"github.com/expense-tracker/backend/internal/application/usecase/trip"
	"github.com/expense-tracker/backend/internal/domain/entity"
	"github.com/expense-tracker/backend/internal/infra/db"
	"github.com/expense-tracker/backend/internal/infra/scheduler"
	"github.com/expense-tracker/backend/internal/infra/server/router"
	"github.com/expense-tracker/backend/internal/integration/adapters"
	"github.com/expense-tracker/backend/internal/integration/cache"
	"github.com/expense-tracker/backend/internal/integration/email"
	"github.com/expense-tracker/backend/internal/integration/email/templates"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/controller"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/middleware"
	"github.com/expense-tracker/backend/internal/integration/persistence"
	"github.com/expense-tracker/backend/internal/integration/storage"
)

// Housekeeping cadences. Both run independently of the report scheduler flag.
const (
	emailCleanupSpec     = "@daily"
	rateLimitCleanupSpec = "@hourly"
)

// Injector holds all application dependencies.
type Injector struct {
	Config      *config.Config
	DB          *db.Database
	Redis       redis.UniversalClient
	Router      *router.Router
	Scheduler   *scheduler.Scheduler
	EmailWorker *email.Worker
	Dispatcher  *report.Dispatcher
}

// Option overrides an external collaborator, mostly for tests.
type Option func(*overrides)

type overrides struct {
	redis    redis.UniversalClient
	sender   adapter.EmailSender
	analyzer adapter.NarrativeAnalyzer
	storage  adapter.ReceiptStorage
	gateway  adapter.OrderGateway
	clock    func() time.Time
}

// WithRedisClient uses client instead of dialing cfg.Redis.
func WithRedisClient(client redis.UniversalClient) Option {
	return func(o *overrides) { o.redis = client }
}

// WithEmailSender replaces the Resend client.
func WithEmailSender(sender adapter.EmailSender) Option {
	return func(o *overrides) { o.sender = sender }
}

// WithNarrativeAnalyzer replaces the Gemini analyzer.
func WithNarrativeAnalyzer(analyzer adapter.NarrativeAnalyzer) Option {
	return func(o *overrides) { o.analyzer = analyzer }
}

// WithReceiptStorage replaces the GCS receipt store.
func WithReceiptStorage(s adapter.ReceiptStorage) Option {
	return func(o *overrides) { o.storage = s }
}

// WithOrderGateway replaces the Razorpay gateway.
func WithOrderGateway(gateway adapter.OrderGateway) Option {
	return func(o *overrides) { o.gateway = gateway }
}

// WithClock sets the time source the report dispatcher uses to pick the
// reporting period.
func WithClock(now func() time.Time) Option {
	return func(o *overrides) { o.clock = now }
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(ctx context.Context, cfg *config.Config, database *db.Database, opts ...Option) (*Injector, error) {
	var o overrides
	for _, opt := range opts {
		opt(&o)
	}
	gormDB := database.DB()

	// Create repositories
	userRepo := persistence.NewUserRepository(gormDB)
	expenseRepo := persistence.NewExpenseRepository(gormDB)
	tripRepo := persistence.NewTripRepository(gormDB)
	budgetRepo := persistence.NewBudgetRepository(gormDB)
	paymentRepo := persistence.NewSupportPaymentRepository(gormDB)
	emailQueueRepo := persistence.NewEmailQueueRepository(gormDB)

	// Create adapters/services
	passwordService := adapters.NewPasswordService()
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	redisClient := o.redis
	if redisClient == nil && cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			// Locks and the sent ledger are optional, the API keeps serving.
			slog.Warn("Redis unavailable, report locks and dedupe disabled", "error", err)
		} else {
			redisClient = client
		}
	}

	receiptStorage := o.storage
	if receiptStorage == nil {
		s, err := newReceiptStorage(ctx, cfg.Storage)
		if err != nil {
			return nil, err
		}
		receiptStorage = s
	}

	sender := o.sender
	if sender == nil {
		if cfg.Email.ResendAPIKey != "" {
			sender = email.NewResendClient(cfg.Email.ResendAPIKey, cfg.Email.FromName, cfg.Email.FromEmail)
		} else {
			slog.Warn("RESEND_API_KEY is not set, emails will only be logged")
			sender = email.NewMockEmailSender()
		}
	}

	analyzer := o.analyzer
	if analyzer == nil {
		analyzer = adapters.NewGeminiNarrativeAnalyzer(cfg.Gemini.APIKey, cfg.Gemini.Model)
	}

	gateway := o.gateway
	if gateway == nil {
		gateway = adapters.NewRazorpayGateway(cfg.Payment.KeyID, cfg.Payment.KeySecret, cfg.Payment.BaseURL)
	}

	renderer, err := templates.NewRenderer(cfg.Email.AppBaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}

	// Report pipeline
	aggregator := report.NewAggregator(expenseRepo, tripRepo, cfg.Report.Location())
	dispatcherOpts := []report.DispatcherOption{}
	if redisClient != nil && cfg.Report.LockEnabled {
		dispatcherOpts = append(dispatcherOpts, report.WithBatchLocker(cache.NewBatchLocker(redisClient)))
	}
	if redisClient != nil && cfg.Report.DedupeEnabled {
		dispatcherOpts = append(dispatcherOpts, report.WithReportLedger(cache.NewReportLedger(redisClient, cfg.Report.LedgerTTL)))
	}
	if o.clock != nil {
		dispatcherOpts = append(dispatcherOpts, report.WithClock(o.clock))
	}
	dispatcher := report.NewDispatcher(
		userRepo,
		aggregator,
		analyzer,
		renderer,
		sender,
		report.DispatcherConfig{
			Concurrency:    cfg.Report.Concurrency,
			AnalyzeTimeout: cfg.Report.AnalyzeTimeout,
			SendTimeout:    cfg.Report.SendTimeout,
			LockTTL:        cfg.Report.LockTTL,
		},
		dispatcherOpts...,
	)

	// Create auth use cases
	emailService := email.NewService(emailQueueRepo)
	registerUseCase := auth.NewRegisterUserUseCase(userRepo, passwordService, tokenService)
	loginUseCase := auth.NewLoginUserUseCase(userRepo, passwordService, tokenService)
	currentUserUseCase := auth.NewGetCurrentUserUseCase(userRepo)
	forgotPasswordUseCase := auth.NewForgotPasswordUseCase(userRepo, passwordService, emailService)
	resetPasswordUseCase := auth.NewResetPasswordUseCase(userRepo, passwordService)

	// Create controllers
	var redisChecker func() bool
	if redisClient != nil {
		redisChecker = func() bool {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Ping(pingCtx).Err() == nil
		}
	}
	healthController := controller.NewHealthController(database.HealthCheck, redisChecker)

	authController := controller.NewAuthController(
		registerUseCase,
		loginUseCase,
		currentUserUseCase,
		forgotPasswordUseCase,
		resetPasswordUseCase,
		cfg.JWT.CookieSecure,
	)

	expenseController := controller.NewExpenseController(
		expense.NewCreateExpenseUseCase(expenseRepo),
		expense.NewListExpensesUseCase(expenseRepo),
		expense.NewGetExpenseUseCase(expenseRepo),
		expense.NewUpdateExpenseUseCase(expenseRepo),
		expense.NewDeleteExpenseUseCase(expenseRepo, receiptStorage),
		expense.NewGetStatisticsUseCase(aggregator),
		expense.NewUploadReceiptUseCase(expenseRepo, receiptStorage),
		expense.NewRemoveReceiptUseCase(expenseRepo, receiptStorage),
	)

	tripController := controller.NewTripController(
		trip.NewCreateTripUseCase(tripRepo),
		trip.NewListTripsUseCase(tripRepo),
		trip.NewGetTripUseCase(tripRepo),
		trip.NewUpdateTripUseCase(tripRepo),
		trip.NewDeleteTripUseCase(tripRepo, receiptStorage),
		trip.NewUploadReceiptUseCase(tripRepo, receiptStorage),
		trip.NewDeleteReceiptUseCase(tripRepo, receiptStorage),
		trip.NewListReceiptsUseCase(tripRepo),
	)

	budgetController := controller.NewBudgetController(
		budget.NewCreateBudgetUseCase(budgetRepo, expenseRepo),
		budget.NewListBudgetsUseCase(budgetRepo, expenseRepo),
		budget.NewGetBudgetUseCase(budgetRepo, expenseRepo),
		budget.NewUpdateBudgetUseCase(budgetRepo, expenseRepo),
		budget.NewDeleteBudgetUseCase(budgetRepo),
	)

	paymentController := controller.NewPaymentController(
		payment.NewCreateOrderUseCase(paymentRepo, gateway),
		payment.NewVerifyPaymentUseCase(paymentRepo, gateway),
		payment.NewListPaymentsUseCase(paymentRepo),
		payment.NewListSupportersUseCase(paymentRepo),
	)

	reportController := controller.NewReportController(dispatcher, currentUserUseCase)

	// Create middleware
	// Rate limits are switched off for E2E/test environments to prevent flaky tests
	authRateLimiter := middleware.NewRateLimiter(cfg.Server.RateLimitEnabled && !isTestEnvironment(cfg.Server.Environment))
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Create router
	r := router.NewRouter(
		router.Controllers{
			Health:  healthController,
			Auth:    authController,
			Expense: expenseController,
			Trip:    tripController,
			Budget:  budgetController,
			Payment: paymentController,
			Report:  reportController,
		},
		authRateLimiter,
		authMiddleware,
		cfg.Report.CronSecret,
		cfg.Server.AllowedOrigins,
	)

	// Scheduled jobs
	sched := scheduler.New(cfg.Report.Location())
	if cfg.Report.SchedulerEnabled {
		if err := sched.AddReportJob(cfg.Report.SimpleSchedule, entity.ReportKindSimple, dispatcher); err != nil {
			return nil, err
		}
		if err := sched.AddReportJob(cfg.Report.TransportSchedule, entity.ReportKindTransport, dispatcher); err != nil {
			return nil, err
		}
	} else {
		slog.Info("Report scheduler disabled, batches run only over HTTP")
	}
	retention := time.Duration(cfg.Email.RetentionDays) * 24 * time.Hour
	if err := sched.AddCleanupJob(emailCleanupSpec, emailQueueRepo, retention); err != nil {
		return nil, err
	}
	if err := sched.AddTask(rateLimitCleanupSpec, "rate_limit_cleanup", authRateLimiter.Cleanup); err != nil {
		return nil, err
	}

	var worker *email.Worker
	if cfg.Email.WorkerEnabled {
		workerCfg := email.DefaultWorkerConfig()
		if cfg.Email.PollInterval > 0 {
			workerCfg.PollInterval = cfg.Email.PollInterval
		}
		if cfg.Email.BatchSize > 0 {
			workerCfg.BatchSize = cfg.Email.BatchSize
		}
		worker = email.NewWorker(emailQueueRepo, sender, renderer, workerCfg)
	}

	return &Injector{
		Config:      cfg,
		DB:          database,
		Redis:       redisClient,
		Router:      r,
		Scheduler:   sched,
		EmailWorker: worker,
		Dispatcher:  dispatcher,
	}, nil
}

func newReceiptStorage(ctx context.Context, cfg config.StorageConfig) (adapter.ReceiptStorage, error) {
	if cfg.Bucket == "" {
		slog.Warn("GCS_BUCKET is not set, receipt uploads are disabled")
		return storage.DisabledReceiptStorage{}, nil
	}
	client, err := storage.NewGCSClient(ctx, cfg.CredentialsJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return storage.NewGCSReceiptStorage(client, cfg.Bucket, cfg.Prefix), nil
}

func isTestEnvironment(env string) bool {
	return env == "e2e" || env == "test"
}
