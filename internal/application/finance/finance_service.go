package finance

import (
	"context"

	"github.com/erp/backoffice/internal/domain/finance"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FinanceService is the read side of finance reconciliation. Records are
// only ever written by the purchase order and sale services.
type FinanceService struct {
	queryRepo finance.FinanceQueryRepository
}

// NewFinanceService creates a new FinanceService
func NewFinanceService(queryRepo finance.FinanceQueryRepository) *FinanceService {
	return &FinanceService{queryRepo: queryRepo}
}

// CostsByYear returns total expense per year
func (s *FinanceService) CostsByYear(ctx context.Context) ([]PeriodAmountResponse, error) {
	totals, err := s.queryRepo.YearlyTotals(ctx, finance.RecordTypeExpense)
	if err != nil {
		return nil, err
	}
	return toPeriodAmountResponses(totals), nil
}

// CostsByMonth returns total expense per month of year
func (s *FinanceService) CostsByMonth(ctx context.Context, year int) ([]PeriodAmountResponse, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	totals, err := s.queryRepo.MonthlyTotals(ctx, finance.RecordTypeExpense, year)
	if err != nil {
		return nil, err
	}
	return toPeriodAmountResponses(totals), nil
}

// RevenueByYear returns total sale revenue per year
func (s *FinanceService) RevenueByYear(ctx context.Context) ([]PeriodAmountResponse, error) {
	totals, err := s.queryRepo.YearlyTotals(ctx, finance.RecordTypeSale)
	if err != nil {
		return nil, err
	}
	return toPeriodAmountResponses(totals), nil
}

// RevenueByMonth returns total sale revenue per month of year
func (s *FinanceService) RevenueByMonth(ctx context.Context, year int) ([]PeriodAmountResponse, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	totals, err := s.queryRepo.MonthlyTotals(ctx, finance.RecordTypeSale, year)
	if err != nil {
		return nil, err
	}
	return toPeriodAmountResponses(totals), nil
}

// ProfitByYear returns all twelve months of year. A month with only expenses
// has profit -cost; a month with neither is all zeros.
func (s *FinanceService) ProfitByYear(ctx context.Context, year int) (*ProfitBreakdownResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "finance", "profit_by_year",
		telemetry.WithAttribute("year", year),
	)
	defer span.End()

	if err := validateYear(year); err != nil {
		return nil, err
	}
	costs, err := s.queryRepo.MonthlyTotals(ctx, finance.RecordTypeExpense, year)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	revenue, err := s.queryRepo.MonthlyTotals(ctx, finance.RecordTypeSale, year)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	byMonth := make(map[int]finance.Figures, 12)
	for _, pf := range finance.MergeByPeriod(costs, revenue) {
		byMonth[pf.Month] = pf.Figures
	}

	totalExpense, totalRevenue := decimal.Zero, decimal.Zero
	months := make([]FiguresResponse, 0, 12)
	for m := 1; m <= 12; m++ {
		f, ok := byMonth[m]
		if !ok {
			f = finance.NewFigures(decimal.Zero, decimal.Zero)
		}
		totalExpense = totalExpense.Add(f.Expense)
		totalRevenue = totalRevenue.Add(f.Revenue)
		y, month := year, m
		months = append(months, toFiguresResponse(&y, &month, f))
	}

	return &ProfitBreakdownResponse{
		Year:   year,
		Total:  toFiguresResponse(&year, nil, finance.NewFigures(totalExpense, totalRevenue)),
		Months: months,
	}, nil
}

// Summary returns expense, revenue, profit and ROI over everything, one year,
// or one month of a year. A month without a year is rejected.
func (s *FinanceService) Summary(ctx context.Context, year, month *int) (*FiguresResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "finance", "summary")
	defer span.End()

	if month != nil && year == nil {
		return nil, shared.NewValidationFailure(uuid.Nil, "month requires a year")
	}
	if year != nil {
		m := 1
		if month != nil {
			m = *month
		}
		if _, err := shared.NewPeriod(*year, m); err != nil {
			return nil, err
		}
	}

	expense, err := s.queryRepo.Sum(ctx, finance.RecordTypeExpense, year, month)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	revenue, err := s.queryRepo.Sum(ctx, finance.RecordTypeSale, year, month)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	response := toFiguresResponse(year, month, finance.NewFigures(expense, revenue))
	return &response, nil
}

func validateYear(year int) error {
	_, err := shared.NewPeriod(year, 1)
	return err
}
