// Package finance holds the pure arithmetic that derives trip and budget
// figures from stored fields. Nothing here touches storage; derived values
// are recomputed on every read so they cannot drift from their inputs.
package finance

import (
	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/domain/entity"
)

// TripTotalExpenses is the official cost total of a trip. The wallet payment
// is not part of it; see TripTotalOutflow.
func TripTotalExpenses(trip *entity.Trip) decimal.Decimal {
	c := trip.Costs
	return decimal.Sum(
		c.FuelCost,
		c.Hamaali,
		c.MaintenanceCost,
		c.OtherExpenses,
		c.Commission,
		trip.DriverAllowance.Paid,
		c.PaidTransport,
	)
}

// TripNetProfit is income minus TripTotalExpenses. It may be negative.
func TripNetProfit(trip *entity.Trip) decimal.Decimal {
	return trip.TotalIncome.Sub(TripTotalExpenses(trip))
}

// TripTotalOutflow adds the wallet payment on top of TripTotalExpenses. It is
// informational only; profit is always derived from TripTotalExpenses.
func TripTotalOutflow(trip *entity.Trip) decimal.Decimal {
	return TripTotalExpenses(trip).Add(trip.Costs.WalletPayment)
}

// DriverAllowanceRemaining is salary plus bonus minus what was already paid.
func DriverAllowanceRemaining(a entity.DriverAllowance) decimal.Decimal {
	return a.TotalSalary.Add(a.Bonus).Sub(a.Paid)
}

// BudgetSpent sums the expenses in the budget's category dated within
// [StartDate, EndDate], both ends inclusive.
func BudgetSpent(budget *entity.Budget, expenses []*entity.Expense) decimal.Decimal {
	spent := decimal.Zero
	for _, e := range expenses {
		if e == nil || e.Category != budget.Category {
			continue
		}
		if e.Date.Before(budget.StartDate) || e.Date.After(budget.EndDate) {
			continue
		}
		spent = spent.Add(e.Amount)
	}
	return spent
}

// BudgetRemaining is the limit minus spent. Negative means overspent.
func BudgetRemaining(budget *entity.Budget, spent decimal.Decimal) decimal.Decimal {
	return budget.Limit.Sub(spent)
}

// ProfitMargin returns profit as a percentage of income rounded to two
// places, or zero when there is no income.
func ProfitMargin(profit, income decimal.Decimal) decimal.Decimal {
	if income.IsZero() {
		return decimal.Zero
	}
	return profit.Div(income).Mul(decimal.NewFromInt(100)).Round(2)
}

// Percentage returns part as a percentage of whole rounded to two places.
func Percentage(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100)).Round(2)
}

// OrZero coerces a missing amount to zero. Request decoding uses it so no
// nil ever reaches the arithmetic above.
func OrZero(v *decimal.Decimal) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return *v
}
