package handler

import (
	reportapp "github.com/erp/backoffice/internal/application/report"
	"github.com/erp/backoffice/internal/domain/report"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/erp/backoffice/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

type reportQuery struct {
	Year  int  `form:"year" binding:"required"`
	Month *int `form:"month"`
	Limit int  `form:"limit"`
}

func (q reportQuery) toQuery() report.Query {
	return report.Query{Year: q.Year, Month: q.Month}
}

// ReportHandler serves the read-only reports
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Routes returns the report route group
func (h *ReportHandler) Routes() *router.DomainGroup {
	return router.NewDomainGroup("reports", "/reports").
		GET("/units-sold", h.UnitsSold).
		GET("/order-counts", h.OrderCounts).
		GET("/top-products", h.TopProducts)
}

func (h *ReportHandler) bind(c *gin.Context) (reportQuery, bool) {
	var q reportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.HandleValidationError(c, err)
		return q, false
	}
	return q, true
}

// UnitsSold godoc
// @ID           reportUnitsSold
// @Summary      Units sold per product
// @Tags         reports
// @Produce      json
// @Param        year query int true "Calendar year"
// @Param        month query int false "Month 1-12"
// @Success      200 {object} dto.Response{data=[]report.UnitsSold}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /reports/units-sold [get]
func (h *ReportHandler) UnitsSold(c *gin.Context) {
	q, ok := h.bind(c)
	if !ok {
		return
	}
	units, err := h.reportService.UnitsSold(c.Request.Context(), q.toQuery())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, units)
}

// OrderCounts godoc
// @ID           reportOrderCounts
// @Summary      Purchase order and sale counts
// @Tags         reports
// @Produce      json
// @Param        year query int true "Calendar year"
// @Param        month query int false "Month 1-12"
// @Success      200 {object} dto.Response{data=reportapp.OrderCountsResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /reports/order-counts [get]
func (h *ReportHandler) OrderCounts(c *gin.Context) {
	q, ok := h.bind(c)
	if !ok {
		return
	}
	counts, err := h.reportService.OrderCounts(c.Request.Context(), q.toQuery())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, counts)
}

// TopProducts godoc
// @ID           reportTopProducts
// @Summary      Best selling products
// @Tags         reports
// @Produce      json
// @Param        year query int true "Calendar year"
// @Param        month query int false "Month 1-12"
// @Param        limit query int false "Maximum rows"
// @Success      200 {object} dto.Response{data=[]report.ProductSales}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /reports/top-products [get]
func (h *ReportHandler) TopProducts(c *gin.Context) {
	q, ok := h.bind(c)
	if !ok {
		return
	}
	top, err := h.reportService.TopProducts(c.Request.Context(), q.toQuery(), q.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, top)
}
