package handler

import (
	financeapp "github.com/erp/backoffice/internal/application/finance"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/erp/backoffice/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

// periodQuery is the optional ?year=&month= scope of finance reads
type periodQuery struct {
	Year  *int `form:"year"`
	Month *int `form:"month"`
}

// FinanceHandler serves the finance aggregates
type FinanceHandler struct {
	BaseHandler
	financeService *financeapp.FinanceService
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(financeService *financeapp.FinanceService) *FinanceHandler {
	return &FinanceHandler{financeService: financeService}
}

// Routes returns the finance route group
func (h *FinanceHandler) Routes() *router.DomainGroup {
	return router.NewDomainGroup("finance", "/finance").
		GET("/summary", h.Summary).
		GET("/costs", h.Costs).
		GET("/revenue", h.Revenue).
		GET("/profit", h.Profit)
}

func (h *FinanceHandler) bindPeriod(c *gin.Context) (periodQuery, bool) {
	var q periodQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.HandleValidationError(c, err)
		return q, false
	}
	return q, true
}

// Summary godoc
// @ID           financeSummary
// @Summary      Cost, revenue and profit figures
// @Description  All time, a year, or a month
// @Tags         finance
// @Produce      json
// @Param        year query int false "Calendar year"
// @Param        month query int false "Month 1-12, needs year"
// @Success      200 {object} dto.Response{data=financeapp.FiguresResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /finance/summary [get]
func (h *FinanceHandler) Summary(c *gin.Context) {
	q, ok := h.bindPeriod(c)
	if !ok {
		return
	}
	figures, err := h.financeService.Summary(c.Request.Context(), q.Year, q.Month)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, figures)
}

// Costs godoc
// @ID           financeCosts
// @Summary      Costs per period
// @Description  Per year, or per month of the given year
// @Tags         finance
// @Produce      json
// @Param        year query int false "Calendar year"
// @Success      200 {object} dto.Response{data=[]financeapp.PeriodAmountResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /finance/costs [get]
func (h *FinanceHandler) Costs(c *gin.Context) {
	q, ok := h.bindPeriod(c)
	if !ok {
		return
	}
	var (
		totals []financeapp.PeriodAmountResponse
		err    error
	)
	if q.Year == nil {
		totals, err = h.financeService.CostsByYear(c.Request.Context())
	} else {
		totals, err = h.financeService.CostsByMonth(c.Request.Context(), *q.Year)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, totals)
}

// Revenue godoc
// @ID           financeRevenue
// @Summary      Revenue per period
// @Description  Per year, or per month of the given year
// @Tags         finance
// @Produce      json
// @Param        year query int false "Calendar year"
// @Success      200 {object} dto.Response{data=[]financeapp.PeriodAmountResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /finance/revenue [get]
func (h *FinanceHandler) Revenue(c *gin.Context) {
	q, ok := h.bindPeriod(c)
	if !ok {
		return
	}
	var (
		totals []financeapp.PeriodAmountResponse
		err    error
	)
	if q.Year == nil {
		totals, err = h.financeService.RevenueByYear(c.Request.Context())
	} else {
		totals, err = h.financeService.RevenueByMonth(c.Request.Context(), *q.Year)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, totals)
}

// Profit godoc
// @ID           financeProfit
// @Summary      Monthly profit for a year
// @Tags         finance
// @Produce      json
// @Param        year query int true "Calendar year"
// @Success      200 {object} dto.Response{data=financeapp.ProfitBreakdownResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /finance/profit [get]
func (h *FinanceHandler) Profit(c *gin.Context) {
	q, ok := h.bindPeriod(c)
	if !ok {
		return
	}
	if q.Year == nil {
		h.BadRequest(c, "year is required")
		return
	}
	breakdown, err := h.financeService.ProfitByYear(c.Request.Context(), *q.Year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, breakdown)
}
