package finance

import (
	"github.com/erp/backoffice/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// PeriodAmountResponse is one period's total of costs or revenue
type PeriodAmountResponse struct {
	Year   int             `json:"year"`
	Month  int             `json:"month,omitempty"`
	Amount decimal.Decimal `json:"amount"`
}

// FiguresResponse is expense, revenue, profit and ROI for a scope. ROI is
// null when the scope had no expense.
type FiguresResponse struct {
	Year    *int             `json:"year,omitempty"`
	Month   *int             `json:"month,omitempty"`
	Expense decimal.Decimal  `json:"expense"`
	Revenue decimal.Decimal  `json:"revenue"`
	Profit  decimal.Decimal  `json:"profit"`
	ROI     *decimal.Decimal `json:"roi"`
}

// ProfitBreakdownResponse is a year's figures with one entry per month
type ProfitBreakdownResponse struct {
	Year   int               `json:"year"`
	Total  FiguresResponse   `json:"total"`
	Months []FiguresResponse `json:"months"`
}

func toPeriodAmountResponses(amounts []finance.PeriodAmount) []PeriodAmountResponse {
	out := make([]PeriodAmountResponse, len(amounts))
	for i, a := range amounts {
		out[i] = PeriodAmountResponse{Year: a.Year, Month: a.Month, Amount: a.Amount}
	}
	return out
}

func toFiguresResponse(year, month *int, f finance.Figures) FiguresResponse {
	return FiguresResponse{
		Year:    year,
		Month:   month,
		Expense: f.Expense,
		Revenue: f.Revenue,
		Profit:  f.Profit,
		ROI:     f.ROI,
	}
}
