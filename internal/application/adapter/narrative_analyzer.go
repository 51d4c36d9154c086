package adapter

import (
	"context"

	"github.com/expense-tracker/backend/internal/domain/entity"
	"github.com/expense-tracker/backend/internal/domain/valueobject"
)

// NarrativeRequest carries one user's period to the analysis service. The
// statistics are already computed; the service only writes prose around them.
type NarrativeRequest struct {
	Kind       entity.ReportKind
	UserName   string
	Period     valueobject.Period
	Statistics *valueobject.PeriodStatistics
	Expenses   []*entity.Expense
	Trips      []*entity.Trip
}

// NarrativeResult is the generated summary.
type NarrativeResult struct {
	Text  string
	Model string
}

// NarrativeAnalyzer turns period statistics into a human readable summary.
// Any returned error is a failure for that user only.
type NarrativeAnalyzer interface {
	Analyze(ctx context.Context, request *NarrativeRequest) (*NarrativeResult, error)

	// IsAvailable checks if the service is configured.
	IsAvailable() bool
}
