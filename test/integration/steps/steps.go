//go:build integration

package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/expense-tracker/backend/internal/domain/entity"
	"github.com/expense-tracker/backend/internal/integration/adapters"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/middleware"
)

// Data setup

func (t *TestContext) theCurrentTimeIs(value string) error {
	now, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return fmt.Errorf("invalid time %q: %w", value, err)
	}
	t.clock.Set(now)
	return nil
}

func (t *TestContext) aUserExists(accountType, name, emailAddress string) error {
	hash, err := adapters.NewPasswordService().HashPassword(defaultTestPassword)
	if err != nil {
		return err
	}
	user := entity.NewUser(emailAddress, name, hash, entity.AccountType(accountType))
	if err := t.users.Create(context.Background(), user); err != nil {
		return fmt.Errorf("failed to create user %s: %w", emailAddress, err)
	}
	t.userIDs[user.Email] = user.ID
	return nil
}

func (t *TestContext) iAmLoggedInAs(emailAddress string) error {
	user, err := t.users.FindByEmail(context.Background(), emailAddress)
	if err != nil {
		return fmt.Errorf("user %s not found: %w", emailAddress, err)
	}
	token, _, err := t.tokens.GenerateAccessToken(context.Background(), user)
	if err != nil {
		return fmt.Errorf("failed to generate access token: %w", err)
	}
	t.accessToken = token
	return nil
}

func (t *TestContext) userSpentOn(emailAddress, amount, category, date string) error {
	user, err := t.users.FindByEmail(context.Background(), emailAddress)
	if err != nil {
		return fmt.Errorf("user %s not found: %w", emailAddress, err)
	}
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}

	// Noon keeps the expense inside the day in every report timezone.
	expense := entity.NewExpense(user.ID, value, entity.ExpenseCategory(category), category, day.Add(12*time.Hour))
	return t.expenses.Create(context.Background(), expense)
}

// Collaborators

func (t *TestContext) theNarrativeServiceFailsFor(name string) error {
	t.narrative.FailFor(name)
	return nil
}

func (t *TestContext) theEmailProviderFailsFor(emailAddress string) error {
	t.sender.FailFor(emailAddress, errors.New("provider rejected the message"))
	return nil
}

func (t *TestContext) anotherInstanceHoldsTheLock(kind, period string) error {
	return t.redis.Hold(fmt.Sprintf("expense-tracker:lock:report:%s:%s", kind, period), time.Minute)
}

func (t *TestContext) thePaymentGatewayCreatesOrder(orderID string) error {
	t.gateway.SetResponse(http.MethodPost, "/v1/orders", http.StatusOK, map[string]any{
		"id":       orderID,
		"amount":   entity.SupportAmountRupees * 100,
		"currency": entity.SupportCurrency,
		"status":   "created",
	})
	return nil
}

func (t *TestContext) thePaymentGatewayIsDown() error {
	t.gateway.SetResponse(http.MethodPost, "/v1/orders", http.StatusServiceUnavailable, map[string]any{
		"error": map[string]any{"code": "SERVER_ERROR", "description": "maintenance"},
	})
	return nil
}

// Headers

func (t *TestContext) theHeaderIsEmpty() error {
	t.headers = make(map[string]string)
	t.accessToken = "" // Clear access token to simulate unauthenticated request
	return nil
}

func (t *TestContext) theHeaderContainsTheKeyWith(key, value string) error {
	t.headers[key] = value
	return nil
}

func (t *TestContext) theCronSecretHeaderIsSet() error {
	t.headers[middleware.CronSecretHeader] = testCronSecret
	return nil
}

// Requests

func (t *TestContext) iSendARequestTo(method, path string) error {
	return t.executeRequest(method, t.replacePlaceholders(path), nil)
}

func (t *TestContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	var payload []byte
	if body != nil && body.Content != "" {
		payload = []byte(t.replacePlaceholders(body.Content))
	}
	return t.executeRequest(method, t.replacePlaceholders(path), payload)
}

func (t *TestContext) iVerifyPaymentForOrder(paymentID, orderID string) error {
	payload, err := json.Marshal(map[string]string{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
		"razorpay_signature":  adapters.SignPayment(testRazorpaySecret, orderID, paymentID),
	})
	if err != nil {
		return err
	}
	return t.executeRequest(http.MethodPost, "/api/v1/payments/verify-payment", payload)
}

func (t *TestContext) replacePlaceholders(content string) string {
	content = strings.ReplaceAll(content, "{{last_id}}", t.lastID)
	content = strings.ReplaceAll(content, "{{access_token}}", t.accessToken)
	return content
}

func (t *TestContext) executeRequest(method, path string, payload []byte) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, t.server.URL+path, body)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if t.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.accessToken)
	}
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	t.response = &response{status: resp.StatusCode, body: string(raw)}
	t.lastHeaders = resp.Header

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err == nil {
		t.response.body = decoded
		if object, ok := decoded.(map[string]any); ok {
			if id, ok := object["id"].(string); ok && id != "" {
				t.lastID = id
			}
		}
	}
	return nil
}

// Response assertions

func (t *TestContext) theResponseStatusShouldBe(expectedStatus int) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if t.response.status != expectedStatus {
		return fmt.Errorf("expected status %d, got %d (body: %v)", expectedStatus, t.response.status, t.response.body)
	}
	return nil
}

func (t *TestContext) theResponseShouldBeJSON() error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if _, ok := t.response.body.(string); ok {
		return fmt.Errorf("response is not JSON: %v", t.response.body)
	}
	return nil
}

func (t *TestContext) theResponseFieldShouldBe(field, expectedValue string) error {
	if t.response == nil {
		return errors.New("no response received")
	}

	value := getFieldValue(t.response.body, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, t.response.body)
	}

	actualValue := fmt.Sprintf("%v", value)
	if actualValue != expectedValue {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expectedValue, actualValue)
	}
	return nil
}

func (t *TestContext) theResponseFieldShouldExist(field string) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if getFieldValue(t.response.body, field) == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, t.response.body)
	}
	return nil
}

func (t *TestContext) theResponseHeaderShouldBe(header, expected string) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if actual := t.lastHeaders.Get(header); actual != expected {
		return fmt.Errorf("header '%s' expected '%s', got '%s'", header, expected, actual)
	}
	return nil
}

// getFieldValue walks a dot separated path through decoded JSON. Numeric
// segments index arrays.
func getFieldValue(object any, dotSeparatedField string) any {
	field := object
	for _, segment := range strings.Split(dotSeparatedField, ".") {
		switch current := field.(type) {
		case map[string]any:
			field = current[segment]
		case []any:
			i, err := strconv.Atoi(segment)
			if err != nil || i < 0 || i >= len(current) {
				return nil
			}
			field = current[i]
		default:
			return nil
		}
		if field == nil {
			return nil
		}
	}
	return field
}

// Side effects

func (t *TestContext) reportEmailsShouldHaveBeenSent(count int) error {
	if sent := len(t.sender.SentEmails()); sent != count {
		return fmt.Errorf("expected %d emails, got %d", count, sent)
	}
	return nil
}

func (t *TestContext) aReportEmailShouldHaveBeenSentTo(subject, recipient string) error {
	var subjects []string
	for _, sent := range t.sender.SentEmails() {
		if sent.To == recipient && sent.Subject == subject {
			return nil
		}
		subjects = append(subjects, sent.To+": "+sent.Subject)
	}
	return fmt.Errorf("no email %q to %s, sent: %v", subject, recipient, subjects)
}

func (t *TestContext) theNarrativeServiceShouldHaveBeenCalled(count int) error {
	if calls := t.narrative.Calls(); calls != count {
		return fmt.Errorf("expected %d narrative calls, got %d", count, calls)
	}
	return nil
}

func (t *TestContext) thePaymentGatewayShouldHaveReceivedOrders(count int) error {
	if got := len(t.gateway.Requests(http.MethodPost, "/v1/orders")); got != count {
		return fmt.Errorf("expected %d order requests, got %d", count, got)
	}
	return nil
}

// Database assertions

func (t *TestContext) theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	return t.countRows(quantity, table, nil)
}

func (t *TestContext) theDbShouldContainObjectsInWithTheValues(quantity int, table string, content *godog.DocString) error {
	var criteria map[string]any
	if err := json.Unmarshal([]byte(content.Content), &criteria); err != nil {
		return err
	}
	return t.countRows(quantity, table, criteria)
}

func (t *TestContext) countRows(quantity int, table string, criteria map[string]any) error {
	model, ok := t.db.GetModel(table)
	if !ok {
		return fmt.Errorf("table '%s' not found in models", table)
	}

	entityType := reflect.TypeOf(model).Elem()
	rows := reflect.New(reflect.SliceOf(entityType))

	query := t.db.DbConn.Unscoped()
	for key, value := range criteria {
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}

	result := query.Find(rows.Interface())
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	if count := rows.Elem().Len(); count != quantity {
		return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
	}
	return nil
}
