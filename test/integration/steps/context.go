//go:build integration

// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/config"
	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/infra/db"
	"github.com/expense-tracker/backend/internal/infra/dependency"
	"github.com/expense-tracker/backend/internal/infra/server/router"
	"github.com/expense-tracker/backend/internal/integration/adapters"
	"github.com/expense-tracker/backend/internal/integration/email"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/validation"
	"github.com/expense-tracker/backend/internal/integration/persistence"
	"github.com/expense-tracker/backend/internal/integration/persistence/model"
	"github.com/expense-tracker/backend/internal/integration/storage"
	"github.com/expense-tracker/backend/test/integration/mock"
)

const (
	testJWTSecret       = "test-jwt-secret-key-for-testing-purposes"
	testCronSecret      = "test-cron-secret"
	testRazorpayKeyID   = "rzp_test_key"
	testRazorpaySecret  = "rzp_test_secret"
	defaultTestPassword = "Password123!"
)

// suite holds the resources shared by every scenario. The API is started
// once and the mocks are reset between scenarios.
type suite struct {
	server    *httptest.Server
	db        *mock.Db
	redis     *mock.Redis
	gateway   *mock.ApiMock
	clock     *mock.Time
	narrative *mock.Narrative
	sender    *email.MockEmailSender
	tokens    adapter.TokenService
	users     adapter.UserRepository
	expenses  adapter.ExpenseRepository
}

var (
	shared     *suite
	sharedOnce sync.Once
	sharedErr  error
)

// response is the last answer received from the API.
type response struct {
	status int
	body   any
}

// TestContext holds the test state for each scenario.
type TestContext struct {
	*suite

	headers     map[string]string
	accessToken string
	response    *response
	lastHeaders http.Header
	lastID      string
	userIDs     map[string]uuid.UUID
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		// Set Gin to test mode
		gin.SetMode(gin.TestMode)
		decimal.MarshalJSONWithoutQuotes = true
		if err := validation.Register(); err != nil {
			panic(err)
		}
	})

	ctx.AfterSuite(func() {
		if shared != nil {
			shared.server.Close()
			shared.gateway.Close()
		}
	})
}

func startSuite() (*suite, error) {
	sharedOnce.Do(func() {
		s := &suite{
			db:        mock.NewDb(tableModels()),
			redis:     mock.NewRedis(),
			gateway:   mock.NewApiServer(),
			clock:     mock.NewTime(),
			narrative: mock.NewNarrative(),
			sender:    email.NewMockEmailSender(),
			tokens:    adapters.NewTokenService(testJWTSecret, time.Hour),
		}
		s.gateway.Start()
		s.users = persistence.NewUserRepository(s.db.DbConn)
		s.expenses = persistence.NewExpenseRepository(s.db.DbConn)

		injector, err := dependency.NewInjector(context.Background(), testConfig(s.gateway.GetUrl()), db.FromGorm(s.db.DbConn),
			dependency.WithRedisClient(s.redis.Client),
			dependency.WithEmailSender(s.sender),
			dependency.WithNarrativeAnalyzer(s.narrative),
			dependency.WithReceiptStorage(storage.DisabledReceiptStorage{}),
			dependency.WithClock(s.clock.Now),
		)
		if err != nil {
			sharedErr = fmt.Errorf("failed to wire test api: %w", err)
			return
		}
		s.server = httptest.NewServer(router.Handler(injector.Router.Setup("test")))
		shared = s
	})
	return shared, sharedErr
}

func testConfig(gatewayURL string) *config.Config {
	cfg := config.Load()
	cfg.Server.Environment = "test"
	cfg.Server.RateLimitEnabled = false
	cfg.JWT.Secret = testJWTSecret
	cfg.JWT.AccessTokenExpiry = time.Hour
	cfg.Redis.Addr = ""
	cfg.Email.ResendAPIKey = ""
	cfg.Email.WorkerEnabled = false
	cfg.Storage.Bucket = ""
	cfg.Report.SchedulerEnabled = false
	cfg.Report.CronSecret = testCronSecret
	cfg.Report.Timezone = "UTC"
	cfg.Report.LockEnabled = true
	cfg.Report.DedupeEnabled = true
	cfg.Payment.KeyID = testRazorpayKeyID
	cfg.Payment.KeySecret = testRazorpaySecret
	cfg.Payment.BaseURL = gatewayURL
	return cfg
}

func tableModels() map[string]any {
	return map[string]any{
		"users":            &model.UserModel{},
		"expenses":         &model.ExpenseModel{},
		"trips":            &model.TripModel{},
		"trip_receipts":    &model.TripReceiptModel{},
		"budgets":          &model.BudgetModel{},
		"support_payments": &model.SupportPaymentModel{},
		"email_queue":      &model.EmailQueueModel{},
	}
}

// contextKey is used to store TestContext in context.Context.
type contextKey struct{}

// GetTestContext retrieves the TestContext from context.
func GetTestContext(ctx context.Context) *TestContext {
	if tc, ok := ctx.Value(contextKey{}).(*TestContext); ok {
		return tc
	}
	return nil
}

// SetTestContext stores the TestContext in context.
func SetTestContext(ctx context.Context, tc *TestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &TestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		s, err := startSuite()
		if err != nil {
			return ctx, err
		}
		tc.suite = s
		if err := tc.reset(); err != nil {
			return ctx, err
		}
		return SetTestContext(ctx, tc), nil
	})

	// Background steps
	ctx.Given(`^the API server is running$`, tc.theAPIServerIsRunning)
	ctx.Given(`^the current time is "([^"]*)"$`, tc.theCurrentTimeIs)

	// Data setup steps
	ctx.Given(`^a "(simple|transport)" user "([^"]*)" exists with email "([^"]*)"$`, tc.aUserExists)
	ctx.Given(`^I am logged in as "([^"]*)"$`, tc.iAmLoggedInAs)
	ctx.Given(`^"([^"]*)" spent "([^"]*)" on "([^"]*)" on "([^"]*)"$`, tc.userSpentOn)

	// Collaborator steps
	ctx.Given(`^the narrative service fails for "([^"]*)"$`, tc.theNarrativeServiceFailsFor)
	ctx.Given(`^the email provider fails for "([^"]*)"$`, tc.theEmailProviderFailsFor)
	ctx.Given(`^another instance is running the "([^"]*)" report batch for "([^"]*)"$`, tc.anotherInstanceHoldsTheLock)
	ctx.Given(`^the payment gateway creates order "([^"]*)"$`, tc.thePaymentGatewayCreatesOrder)
	ctx.Given(`^the payment gateway is down$`, tc.thePaymentGatewayIsDown)

	// Header steps
	ctx.Given(`^the header is empty$`, tc.theHeaderIsEmpty)
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, tc.theHeaderContainsTheKeyWith)
	ctx.Given(`^the cron secret header is set$`, tc.theCronSecretHeaderIsSet)

	// Request steps
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, tc.iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, tc.iSendARequestToWithBody)
	ctx.When(`^I verify payment "([^"]*)" for order "([^"]*)"$`, tc.iVerifyPaymentForOrder)

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, tc.theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, tc.theResponseShouldBeJSON)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, tc.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, tc.theResponseFieldShouldExist)
	ctx.Then(`^the response header "([^"]*)" should be "([^"]*)"$`, tc.theResponseHeaderShouldBe)

	// Side effect assertion steps
	ctx.Then(`^(\d+) report emails? should have been sent$`, tc.reportEmailsShouldHaveBeenSent)
	ctx.Then(`^a report email with subject "([^"]*)" should have been sent to "([^"]*)"$`, tc.aReportEmailShouldHaveBeenSentTo)
	ctx.Then(`^the narrative service should have been called (\d+) times?$`, tc.theNarrativeServiceShouldHaveBeenCalled)
	ctx.Then(`^the payment gateway should have received (\d+) order requests?$`, tc.thePaymentGatewayShouldHaveReceivedOrders)

	// Database assertion steps
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, tc.theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, tc.theDbShouldContainObjectsInWithTheValues)
}

func (t *TestContext) reset() error {
	t.headers = make(map[string]string)
	t.accessToken = ""
	t.response = nil
	t.lastHeaders = nil
	t.lastID = ""
	t.userIDs = make(map[string]uuid.UUID)

	t.clock.Reset()
	t.sender.Reset()
	t.narrative.Reset()
	t.gateway.Reset()
	if err := t.redis.Clear(); err != nil {
		return err
	}
	return t.db.ClearDB()
}

func (t *TestContext) theAPIServerIsRunning() error {
	resp, err := http.Get(t.server.URL + "/health")
	if err != nil {
		return fmt.Errorf("test server is not running: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	return nil
}
