package finance

import (
	"sort"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PeriodAmount is the total of one record type in one period. Month is 0
// for yearly totals.
type PeriodAmount struct {
	Year   int
	Month  int
	Amount decimal.Decimal
}

// Figures is expense, revenue and what follows from them for some scope
type Figures struct {
	Expense decimal.Decimal
	Revenue decimal.Decimal
	Profit  decimal.Decimal
	// ROI is nil when there was no expense to measure a return on
	ROI *decimal.Decimal
}

// NewFigures derives profit and ROI from expense and revenue
func NewFigures(expense, revenue decimal.Decimal) Figures {
	profit := revenue.Sub(expense)
	return Figures{
		Expense: expense,
		Revenue: revenue,
		Profit:  profit,
		ROI:     ROI(profit, expense),
	}
}

// ROI returns profit / cost × 100 rounded to two places, or nil when cost is
// zero
func ROI(profit, cost decimal.Decimal) *decimal.Decimal {
	if cost.IsZero() {
		return nil
	}
	roi := profit.Div(cost).Mul(hundred).Round(2)
	return &roi
}

// PeriodFigures are the figures of one period
type PeriodFigures struct {
	Year  int
	Month int
	Figures
}

// MergeByPeriod pairs cost and revenue totals by period. A period present on
// only one side gets zero for the other, so an expense-only period yields
// profit = -cost.
func MergeByPeriod(costs, revenue []PeriodAmount) []PeriodFigures {
	type key struct{ year, month int }
	expense := make(map[key]decimal.Decimal)
	income := make(map[key]decimal.Decimal)
	keys := make(map[key]struct{})

	for _, c := range costs {
		k := key{c.Year, c.Month}
		expense[k] = expense[k].Add(c.Amount)
		keys[k] = struct{}{}
	}
	for _, r := range revenue {
		k := key{r.Year, r.Month}
		income[k] = income[k].Add(r.Amount)
		keys[k] = struct{}{}
	}

	result := make([]PeriodFigures, 0, len(keys))
	for k := range keys {
		result = append(result, PeriodFigures{
			Year:    k.year,
			Month:   k.month,
			Figures: NewFigures(expense[k], income[k]),
		})
	}
	sort.Slice(result, func(i, j int) bool {
		a := shared.Period{Year: result[i].Year, Month: result[i].Month}
		b := shared.Period{Year: result[j].Year, Month: result[j].Month}
		return a.Before(b)
	})
	return result
}
