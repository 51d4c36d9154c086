package valueobject

import (
	"github.com/shopspring/decimal"
)

// BreakdownEntry is one group of a category or route breakdown.
type BreakdownEntry struct {
	Key        string
	Total      decimal.Decimal
	Count      int
	Percentage decimal.Decimal
}

// RouteStat carries the per-route figures of a transport period.
type RouteStat struct {
	Route    string
	Count    int
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Profit   decimal.Decimal
}

// DailyTotal is the amount spent on a single day of the period.
type DailyTotal struct {
	Day   int
	Total decimal.Decimal
}

// PeriodStatistics summarises one user's records for one period.
//
// Total is the sum of expense amounts for simple periods and the total net
// profit for transport periods.
type PeriodStatistics struct {
	Period    Period
	Count     int
	Total     decimal.Decimal
	Breakdown []BreakdownEntry

	// Simple periods.
	AverageAmount decimal.Decimal
	Daily         []DailyTotal

	// Transport periods.
	TotalIncome    decimal.Decimal
	TotalExpenses  decimal.Decimal
	WalletPayments decimal.Decimal
	ProfitMargin   decimal.Decimal
	Routes         []RouteStat
}

// IsEmpty reports whether no record fell inside the period.
func (s *PeriodStatistics) IsEmpty() bool {
	return s == nil || s.Count == 0
}

// TopBreakdown returns at most n leading breakdown entries.
func (s *PeriodStatistics) TopBreakdown(n int) []BreakdownEntry {
	if n >= len(s.Breakdown) {
		return s.Breakdown
	}
	return s.Breakdown[:n]
}
