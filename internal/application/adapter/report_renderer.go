package adapter

import (
	"github.com/expense-tracker/backend/internal/domain/entity"
	"github.com/expense-tracker/backend/internal/domain/valueobject"
)

// MonthlyReportContent is everything the monthly report template needs.
type MonthlyReportContent struct {
	Kind       entity.ReportKind
	UserName   string
	Period     valueobject.Period
	Narrative  string
	Statistics *valueobject.PeriodStatistics
}

// ReportRenderer renders the monthly report into HTML and plain text bodies.
type ReportRenderer interface {
	RenderMonthlyReport(content MonthlyReportContent) (html string, text string, err error)
}
