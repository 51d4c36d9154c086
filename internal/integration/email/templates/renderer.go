// Package templates provides email template rendering functionality.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strconv"
	"strings"
	texttemplate "text/template"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
)

//go:embed *.html *.txt
var templateFS embed.FS

const (
	// MonthlyReportTemplate renders the monthly report email.
	MonthlyReportTemplate = "monthly_report"
	// PasswordResetOTPTemplate renders the reset code email.
	PasswordResetOTPTemplate = "password_reset_otp"

	breakdownRows = 5
)

// Renderer handles email template rendering.
type Renderer struct {
	htmlTemplates *htmltemplate.Template
	textTemplates *texttemplate.Template
	dashboardURL  string
}

// NewRenderer creates a new template renderer. dashboardURL is linked from
// the monthly report.
func NewRenderer(dashboardURL string) (*Renderer, error) {
	htmlTmpl, err := htmltemplate.ParseFS(templateFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML templates: %w", err)
	}

	textTmpl, err := texttemplate.ParseFS(templateFS, "*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to parse text templates: %w", err)
	}

	return &Renderer{
		htmlTemplates: htmlTmpl,
		textTemplates: textTmpl,
		dashboardURL:  dashboardURL,
	}, nil
}

// Render renders both HTML and text versions of a template.
func (r *Renderer) Render(templateName string, data interface{}) (html string, text string, err error) {
	var htmlBuf bytes.Buffer
	if err := r.htmlTemplates.ExecuteTemplate(&htmlBuf, templateName+".html", data); err != nil {
		return "", "", fmt.Errorf("failed to render HTML template %s: %w", templateName, err)
	}

	var textBuf bytes.Buffer
	if err := r.textTemplates.ExecuteTemplate(&textBuf, templateName+".txt", data); err != nil {
		return "", "", fmt.Errorf("failed to render text template %s: %w", templateName, err)
	}

	return htmlBuf.String(), textBuf.String(), nil
}

// RenderMonthlyReport implements adapter.ReportRenderer.
func (r *Renderer) RenderMonthlyReport(content adapter.MonthlyReportContent) (string, string, error) {
	if content.Statistics == nil {
		return "", "", fmt.Errorf("monthly report has no statistics")
	}
	return r.Render(MonthlyReportTemplate, r.monthlyReportData(content))
}

// StatItem is one headline figure. Value is already formatted.
type StatItem struct {
	Key   string
	Label string
	Value string
}

// NarrativeBlock is one line of the generated narrative.
type NarrativeBlock struct {
	Heading   bool
	ListItem  bool
	Paragraph bool
	Text      string
}

// BreakdownRow is one row of the category or route table.
type BreakdownRow struct {
	Label  string
	Count  int
	Amount string
	Share  string
}

// MonthlyReportData contains data for the monthly report template.
type MonthlyReportData struct {
	UserName     string
	PeriodLabel  string
	Year         int
	IsTransport  bool
	Stats        []StatItem
	Narrative    []NarrativeBlock
	RawNarrative string
	Breakdown    []BreakdownRow
	DashboardURL string
}

// PasswordResetOTPData contains data for the reset code template.
type PasswordResetOTPData struct {
	UserName  string
	OTP       string
	ExpiresIn string
}

func (r *Renderer) monthlyReportData(content adapter.MonthlyReportContent) MonthlyReportData {
	stats := content.Statistics
	data := MonthlyReportData{
		UserName:     content.UserName,
		PeriodLabel:  content.Period.Label(),
		Year:         content.Period.Year,
		IsTransport:  content.Kind == entity.ReportKindTransport,
		Narrative:    parseNarrative(content.Narrative),
		RawNarrative: strings.TrimSpace(content.Narrative),
		DashboardURL: r.dashboardURL,
	}

	if data.IsTransport {
		data.Stats = []StatItem{
			{Key: "total_income", Label: "Total Income", Value: "₹" + stats.TotalIncome.StringFixed(2)},
			{Key: "total_expenses", Label: "Total Expenses", Value: "₹" + stats.TotalExpenses.StringFixed(2)},
			{Key: "net_profit", Label: "Net Profit", Value: "₹" + stats.Total.StringFixed(2)},
			{Key: "profit_margin", Label: "Profit Margin", Value: stats.ProfitMargin.StringFixed(2) + "%"},
			{Key: "wallet_payments", Label: "Wallet Payments", Value: "₹" + stats.WalletPayments.StringFixed(2)},
			{Key: "trip_count", Label: "Total Trips", Value: strconv.Itoa(stats.Count)},
		}
		for _, route := range stats.Routes {
			if len(data.Breakdown) == breakdownRows {
				break
			}
			data.Breakdown = append(data.Breakdown, BreakdownRow{
				Label:  route.Route,
				Count:  route.Count,
				Amount: "₹" + route.Profit.StringFixed(2),
			})
		}
		return data
	}

	data.Stats = []StatItem{
		{Key: "total", Label: "Total Spent", Value: "₹" + stats.Total.StringFixed(2)},
		{Key: "count", Label: "Transactions", Value: strconv.Itoa(stats.Count)},
		{Key: "average", Label: "Avg/Transaction", Value: "₹" + stats.AverageAmount.StringFixed(2)},
	}
	for _, entry := range stats.TopBreakdown(breakdownRows) {
		data.Breakdown = append(data.Breakdown, BreakdownRow{
			Label:  entry.Key,
			Count:  entry.Count,
			Amount: "₹" + entry.Total.StringFixed(2),
			Share:  entry.Percentage.StringFixed(2) + "%",
		})
	}
	return data
}

// parseNarrative splits markdown-ish model output into display blocks.
func parseNarrative(text string) []NarrativeBlock {
	var blocks []NarrativeBlock
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "#"):
			blocks = append(blocks, NarrativeBlock{Heading: true, Text: cleanInline(strings.TrimLeft(line, "# "))})
		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "):
			blocks = append(blocks, NarrativeBlock{ListItem: true, Text: cleanInline(line[2:])})
		default:
			blocks = append(blocks, NarrativeBlock{Paragraph: true, Text: cleanInline(line)})
		}
	}
	return blocks
}

func cleanInline(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "**", ""))
}
