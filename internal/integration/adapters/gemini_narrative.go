package adapters

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/domain/valueobject"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash-lite"

// maxPromptRecords caps how many raw records are listed in a prompt.
const maxPromptRecords = 100

type generateFunc func(ctx context.Context, prompt string) (string, error)

// GeminiNarrativeAnalyzer implements adapter.NarrativeAnalyzer using Google Gemini.
type GeminiNarrativeAnalyzer struct {
	apiKey      string
	modelName   string
	temperature float32
	generate    generateFunc
}

// NewGeminiNarrativeAnalyzer creates a new Gemini narrative analyzer.
func NewGeminiNarrativeAnalyzer(apiKey, modelName string) *GeminiNarrativeAnalyzer {
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	a := &GeminiNarrativeAnalyzer{
		apiKey:      apiKey,
		modelName:   modelName,
		temperature: 0.7,
	}
	a.generate = a.generateWithGemini
	return a
}

// IsAvailable checks if the Gemini service is properly configured.
func (a *GeminiNarrativeAnalyzer) IsAvailable() bool {
	return a.apiKey != ""
}

// Analyze writes the narrative for one user's period. The statistics in the
// request are quoted verbatim; nothing is recomputed here.
func (a *GeminiNarrativeAnalyzer) Analyze(ctx context.Context, request *adapter.NarrativeRequest) (*adapter.NarrativeResult, error) {
	if !a.IsAvailable() {
		return nil, domainerror.NewReportError(domainerror.ErrCodeNarrativeUnavailable, "gemini is not configured", domainerror.ErrNarrativeUnavailable)
	}
	if request == nil || request.Statistics == nil {
		return nil, fmt.Errorf("narrative request has no statistics")
	}

	var prompt string
	switch request.Kind {
	case entity.ReportKindTransport:
		prompt = buildTransportPrompt(request)
	default:
		prompt = buildSimplePrompt(request)
	}

	text, err := a.generate(ctx, prompt)
	if err != nil {
		return nil, classifyNarrativeError(err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domainerror.NewReportError(domainerror.ErrCodeNarrativeEmpty, "gemini returned no text", domainerror.ErrNarrativeEmpty)
	}

	return &adapter.NarrativeResult{
		Text:  text,
		Model: a.modelName,
	}, nil
}

func (a *GeminiNarrativeAnalyzer) generateWithGemini(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(a.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(a.modelName)
	model.SetTemperature(a.temperature)
	model.SystemInstruction = genai.NewUserContent(genai.Text(
		"You write monthly financial summaries for email. Use the figures you are given exactly as written and never compute new totals.",
	))

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

func buildSimplePrompt(request *adapter.NarrativeRequest) string {
	stats := request.Statistics
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are a personal financial advisor writing the monthly expense report for %s.\n\n", request.UserName)
	fmt.Fprintf(&sb, "PERIOD: %s\n\n", request.Period.Label())
	sb.WriteString("SUMMARY:\n")
	fmt.Fprintf(&sb, "- Total spending: ₹%s\n", stats.Total.StringFixed(2))
	fmt.Fprintf(&sb, "- Number of transactions: %d\n", stats.Count)
	fmt.Fprintf(&sb, "- Average transaction: ₹%s\n\n", stats.AverageAmount.StringFixed(2))

	sb.WriteString("CATEGORY BREAKDOWN:\n")
	writeBreakdown(&sb, stats.Breakdown)

	sb.WriteString("\nEXPENSES:\n")
	for i, e := range request.Expenses {
		if i == maxPromptRecords {
			fmt.Fprintf(&sb, "- ... %d more\n", len(request.Expenses)-maxPromptRecords)
			break
		}
		fmt.Fprintf(&sb, "- %s | %s | ₹%s | %s | %s\n",
			e.Date.Format("2006-01-02"), e.Category, e.Amount.StringFixed(2), e.PaymentMethod, e.Description)
	}

	sb.WriteString(`
Write the report with these sections:
1. Executive summary of the month
2. Spending patterns: the top three categories and anything unusual
3. Areas where spending was well controlled
4. Savings opportunities
5. Three to five practical recommendations for next month

Keep it encouraging and specific. Plain text with short headings, suitable for an email.
`)
	return sb.String()
}

func buildTransportPrompt(request *adapter.NarrativeRequest) string {
	stats := request.Statistics
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are a transport business consultant writing the monthly performance report for %s's transport business.\n\n", request.UserName)
	fmt.Fprintf(&sb, "PERIOD: %s\n\n", request.Period.Label())
	sb.WriteString("BUSINESS SUMMARY:\n")
	fmt.Fprintf(&sb, "- Total income: ₹%s\n", stats.TotalIncome.StringFixed(2))
	fmt.Fprintf(&sb, "- Total expenses: ₹%s\n", stats.TotalExpenses.StringFixed(2))
	fmt.Fprintf(&sb, "- Net profit: ₹%s\n", stats.Total.StringFixed(2))
	fmt.Fprintf(&sb, "- Profit margin: %s%%\n", stats.ProfitMargin.StringFixed(2))
	fmt.Fprintf(&sb, "- Wallet payments: ₹%s\n", stats.WalletPayments.StringFixed(2))
	fmt.Fprintf(&sb, "- Number of trips: %d\n\n", stats.Count)

	sb.WriteString("ROUTE PERFORMANCE:\n")
	for _, r := range stats.Routes {
		fmt.Fprintf(&sb, "- %s: %d trips, income ₹%s, expenses ₹%s, profit ₹%s\n",
			r.Route, r.Count, r.Income.StringFixed(2), r.Expenses.StringFixed(2), r.Profit.StringFixed(2))
	}

	sb.WriteString("\nTRIPS:\n")
	for i, t := range request.Trips {
		if i == maxPromptRecords {
			fmt.Fprintf(&sb, "- ... %d more\n", len(request.Trips)-maxPromptRecords)
			break
		}
		fmt.Fprintf(&sb, "- %s | %s | %s | income ₹%s | fuel ₹%s | maintenance ₹%s\n",
			t.TripDate.Format("2006-01-02"), t.VehicleNumber, t.Route,
			t.TotalIncome.StringFixed(2), t.Costs.FuelCost.StringFixed(2), t.Costs.MaintenanceCost.StringFixed(2))
	}

	sb.WriteString(`
Write the report with these sections:
1. Executive summary of business health
2. Profitability: best and worst routes, income against expenses
3. Cost efficiency: fuel, maintenance and driver payments
4. Route recommendations
5. Three to five concrete steps to improve profitability next month

Be professional and data driven. Plain text with short headings, suitable for an email.
`)
	return sb.String()
}

func writeBreakdown(sb *strings.Builder, entries []valueobject.BreakdownEntry) {
	for _, b := range entries {
		fmt.Fprintf(sb, "- %s: ₹%s (%s%%, %d transactions)\n", b.Key, b.Total.StringFixed(2), b.Percentage.StringFixed(2), b.Count)
	}
}

// classifyNarrativeError maps a provider failure onto a coded report error.
func classifyNarrativeError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domainerror.NewReportError(domainerror.ErrCodeNarrativeTimeout, "narrative analysis timed out", err)
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "rate limit") || strings.Contains(errStr, "quota") ||
		strings.Contains(errStr, "429") || strings.Contains(errStr, "resource exhausted"):
		return domainerror.NewReportError(domainerror.ErrCodeNarrativeRateLimited, "narrative analysis rate limited", err)
	case strings.Contains(errStr, "401") || strings.Contains(errStr, "403") ||
		strings.Contains(errStr, "api key") || strings.Contains(errStr, "unauthorized") ||
		strings.Contains(errStr, "permission denied"):
		return domainerror.NewReportError(domainerror.ErrCodeNarrativeAuth, "narrative analysis rejected the credentials", err)
	case strings.Contains(errStr, "connection") || strings.Contains(errStr, "dial") ||
		strings.Contains(errStr, "timeout") || strings.Contains(errStr, "unavailable") ||
		strings.Contains(errStr, "503"):
		return domainerror.NewReportError(domainerror.ErrCodeNarrativeUnavailable, "narrative analysis unreachable", err)
	}
	return domainerror.NewReportError(domainerror.ErrCodeNarrativeFailed, "narrative analysis failed", err)
}
