package expense

import (
	"context"

	"github.com/google/uuid"

	"github.com/expense-tracker/backend/internal/application/usecase/report"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/domain/valueobject"
)

// GetStatisticsInput selects the month to summarise.
type GetStatisticsInput struct {
	UserID uuid.UUID
	Month  int
	Year   int
}

// GetStatisticsUseCase summarises one month of expenses through the same
// aggregator the monthly report uses.
type GetStatisticsUseCase struct {
	aggregator *report.Aggregator
}

// NewGetStatisticsUseCase creates a new GetStatisticsUseCase instance.
func NewGetStatisticsUseCase(aggregator *report.Aggregator) *GetStatisticsUseCase {
	return &GetStatisticsUseCase{aggregator: aggregator}
}

// Execute returns the month's statistics. An empty month is not an error.
func (uc *GetStatisticsUseCase) Execute(ctx context.Context, input GetStatisticsInput) (*valueobject.PeriodStatistics, error) {
	period, err := valueobject.NewPeriod(input.Year, input.Month)
	if err != nil {
		return nil, domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidStatsPeriod,
			err.Error(),
			domainerror.ErrInvalidStatsPeriod,
		)
	}

	aggregate, err := uc.aggregator.Aggregate(ctx, input.UserID, period, entity.ReportKindSimple)
	if err != nil {
		return nil, err
	}
	return aggregate.Statistics, nil
}
