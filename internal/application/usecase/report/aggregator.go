// Package report contains the monthly report pipeline: period aggregation and
// the dispatcher that fans a report kind out over every eligible user.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/domain/finance"
	"github.com/expense-tracker/backend/internal/domain/valueobject"
)

// Aggregate is one user's records for one period plus the statistics derived
// from them. Only the slice matching Kind is populated.
type Aggregate struct {
	Kind       entity.ReportKind
	Period     valueobject.Period
	Expenses   []*entity.Expense
	Trips      []*entity.Trip
	Statistics *valueobject.PeriodStatistics
}

// IsEmpty reports whether the period had no records. An empty period is a
// skip for the dispatcher, never a failure.
func (a *Aggregate) IsEmpty() bool {
	return a == nil || a.Statistics.IsEmpty()
}

// Aggregator builds period statistics from the ledger.
type Aggregator struct {
	expenseRepo adapter.ExpenseRepository
	tripRepo    adapter.TripRepository
	location    *time.Location
}

// NewAggregator creates a new Aggregator. Period windows are computed in
// location; nil means UTC.
func NewAggregator(
	expenseRepo adapter.ExpenseRepository,
	tripRepo adapter.TripRepository,
	location *time.Location,
) *Aggregator {
	if location == nil {
		location = time.UTC
	}
	return &Aggregator{
		expenseRepo: expenseRepo,
		tripRepo:    tripRepo,
		location:    location,
	}
}

// Location returns the timezone period windows are computed in.
func (a *Aggregator) Location() *time.Location {
	return a.location
}

// Aggregate fetches the user's records inside the period window and
// summarises them.
func (a *Aggregator) Aggregate(ctx context.Context, userID uuid.UUID, period valueobject.Period, kind entity.ReportKind) (*Aggregate, error) {
	start, end := period.Window(a.location)

	switch kind {
	case entity.ReportKindSimple:
		expenses, err := a.expenseRepo.FindInWindow(ctx, userID, start, end)
		if err != nil {
			return nil, fmt.Errorf("failed to load expenses for %s: %w", period.Key(), err)
		}
		return &Aggregate{
			Kind:       kind,
			Period:     period,
			Expenses:   expenses,
			Statistics: SimpleStatistics(period, expenses, a.location),
		}, nil

	case entity.ReportKindTransport:
		trips, err := a.tripRepo.FindInWindow(ctx, userID, start, end)
		if err != nil {
			return nil, fmt.Errorf("failed to load trips for %s: %w", period.Key(), err)
		}
		return &Aggregate{
			Kind:       kind,
			Period:     period,
			Trips:      trips,
			Statistics: TransportStatistics(period, trips),
		}, nil
	}

	return nil, domainerror.NewReportError(
		domainerror.ErrCodeInvalidReportKind,
		fmt.Sprintf("unknown report kind %q", kind),
		domainerror.ErrInvalidReportKind,
	)
}

// SimpleStatistics summarises personal expenses: total, count, average,
// per-category breakdown and per-day totals.
func SimpleStatistics(period valueobject.Period, expenses []*entity.Expense, location *time.Location) *valueobject.PeriodStatistics {
	stats := &valueobject.PeriodStatistics{
		Period:        period,
		Total:         decimal.Zero,
		AverageAmount: decimal.Zero,
		Breakdown:     []valueobject.BreakdownEntry{},
		Daily:         []valueobject.DailyTotal{},
	}
	if location == nil {
		location = time.UTC
	}

	groups := newGrouper()
	daily := make(map[int]decimal.Decimal)
	for _, e := range expenses {
		if e == nil {
			continue
		}
		stats.Count++
		stats.Total = stats.Total.Add(e.Amount)
		groups.add(string(e.Category), e.Amount)

		day := e.Date.In(location).Day()
		daily[day] = daily[day].Add(e.Amount)
	}

	if stats.Count == 0 {
		return stats
	}

	stats.AverageAmount = stats.Total.Div(decimal.NewFromInt(int64(stats.Count))).Round(2)
	stats.Breakdown = groups.entries(stats.Total)

	for day := 1; day <= period.Days(); day++ {
		if total, ok := daily[day]; ok {
			stats.Daily = append(stats.Daily, valueobject.DailyTotal{Day: day, Total: total})
		}
	}

	return stats
}

// TransportStatistics summarises trips. Total is the net profit of the
// period; expenses follow finance.TripTotalExpenses and the wallet payments
// are reported on their own. The route breakdown sums net profit, with the
// percentage taken against total income.
func TransportStatistics(period valueobject.Period, trips []*entity.Trip) *valueobject.PeriodStatistics {
	stats := &valueobject.PeriodStatistics{
		Period:         period,
		Total:          decimal.Zero,
		TotalIncome:    decimal.Zero,
		TotalExpenses:  decimal.Zero,
		WalletPayments: decimal.Zero,
		ProfitMargin:   decimal.Zero,
		Breakdown:      []valueobject.BreakdownEntry{},
		Routes:         []valueobject.RouteStat{},
	}

	groups := newGrouper()
	routes := make(map[string]*valueobject.RouteStat)
	var routeOrder []string

	for _, t := range trips {
		if t == nil {
			continue
		}
		expenses := finance.TripTotalExpenses(t)
		profit := finance.TripNetProfit(t)

		stats.Count++
		stats.TotalIncome = stats.TotalIncome.Add(t.TotalIncome)
		stats.TotalExpenses = stats.TotalExpenses.Add(expenses)
		stats.WalletPayments = stats.WalletPayments.Add(t.Costs.WalletPayment)
		groups.add(t.Route, profit)

		rs, ok := routes[t.Route]
		if !ok {
			rs = &valueobject.RouteStat{
				Route:    t.Route,
				Income:   decimal.Zero,
				Expenses: decimal.Zero,
				Profit:   decimal.Zero,
			}
			routes[t.Route] = rs
			routeOrder = append(routeOrder, t.Route)
		}
		rs.Count++
		rs.Income = rs.Income.Add(t.TotalIncome)
		rs.Expenses = rs.Expenses.Add(expenses)
		rs.Profit = rs.Profit.Add(profit)
	}

	if stats.Count == 0 {
		return stats
	}

	stats.Total = stats.TotalIncome.Sub(stats.TotalExpenses)
	stats.ProfitMargin = finance.ProfitMargin(stats.Total, stats.TotalIncome)

	stats.Breakdown = groups.entries(decimal.Zero)
	for i := range stats.Breakdown {
		entry := &stats.Breakdown[i]
		entry.Percentage = finance.Percentage(routes[entry.Key].Income, stats.TotalIncome)
	}

	for _, route := range routeOrder {
		stats.Routes = append(stats.Routes, *routes[route])
	}
	sort.SliceStable(stats.Routes, func(i, j int) bool {
		return stats.Routes[i].Profit.GreaterThan(stats.Routes[j].Profit)
	})

	return stats
}

// grouper sums amounts per key and remembers the order keys were first seen,
// so equal totals keep that order after sorting.
type grouper struct {
	index  map[string]int
	groups []valueobject.BreakdownEntry
}

func newGrouper() *grouper {
	return &grouper{index: make(map[string]int)}
}

func (g *grouper) add(key string, amount decimal.Decimal) {
	i, ok := g.index[key]
	if !ok {
		i = len(g.groups)
		g.index[key] = i
		g.groups = append(g.groups, valueobject.BreakdownEntry{Key: key, Total: decimal.Zero})
	}
	g.groups[i].Total = g.groups[i].Total.Add(amount)
	g.groups[i].Count++
}

// entries returns the groups ordered by descending total. A non-zero whole
// fills in each group's percentage of it.
func (g *grouper) entries(whole decimal.Decimal) []valueobject.BreakdownEntry {
	out := make([]valueobject.BreakdownEntry, len(g.groups))
	copy(out, g.groups)
	if !whole.IsZero() {
		for i := range out {
			out[i].Percentage = finance.Percentage(out[i].Total, whole)
		}
	}
	SortBreakdown(out)
	return out
}

// SortBreakdown orders entries by descending total. Ties keep their
// original relative order.
func SortBreakdown(entries []valueobject.BreakdownEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Total.GreaterThan(entries[j].Total)
	})
}
