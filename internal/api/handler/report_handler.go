package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/salesdesk/crm-api/internal/core/ports"
)

type ReportHandler struct {
	reports ports.ReportService
}

func NewReportHandler(reports ports.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func reportInput(c echo.Context) (ports.ReportInput, error) {
	from, err := dateParam(c, "startDate")
	if err != nil {
		return ports.ReportInput{}, err
	}
	to, err := dateParam(c, "endDate")
	if err != nil {
		return ports.ReportInput{}, err
	}
	return ports.ReportInput{
		From:   from,
		To:     to,
		UserID: c.QueryParam("userId"),
		Source: c.QueryParam("source"),
	}, nil
}

// SalesPerformance reports closed deals per owner.
//
// @Summary      Sales performance
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        startDate  query     string  false  "Range start (YYYY-MM-DD)"
// @Param        endDate    query     string  false  "Range end (YYYY-MM-DD)"
// @Param        userId     query     string  false  "Restrict to one owner"
// @Success      200        {object}  Envelope
// @Failure      400        {object}  ErrorResponse
// @Failure      403        {object}  ErrorResponse
// @Router       /reports/sales-performance [get]
func (h *ReportHandler) SalesPerformance(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	in, err := reportInput(c)
	if err != nil {
		return err
	}
	rows, err := h.reports.SalesPerformance(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return list(c, rows)
}

// LeadConversion reports conversion rates per lead source.
//
// @Summary      Lead conversion
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        startDate  query     string  false  "Range start (YYYY-MM-DD)"
// @Param        endDate    query     string  false  "Range end (YYYY-MM-DD)"
// @Param        source     query     string  false  "Restrict to one source"
// @Success      200        {object}  Envelope
// @Failure      400        {object}  ErrorResponse
// @Failure      403        {object}  ErrorResponse
// @Router       /reports/lead-conversion [get]
func (h *ReportHandler) LeadConversion(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	in, err := reportInput(c)
	if err != nil {
		return err
	}
	rows, err := h.reports.LeadConversion(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return list(c, rows)
}

// DealPipeline analyses the deal pipeline by stage.
//
// @Summary      Deal pipeline analysis
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope
// @Failure      403  {object}  ErrorResponse
// @Router       /reports/deal-pipeline [get]
func (h *ReportHandler) DealPipeline(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	analysis, err := h.reports.DealPipeline(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, analysis)
}

// UserProductivity reports activity, lead and deal counts per executive.
//
// @Summary      User productivity
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        startDate  query     string  false  "Range start (YYYY-MM-DD)"
// @Param        endDate    query     string  false  "Range end (YYYY-MM-DD)"
// @Success      200        {object}  Envelope
// @Failure      400        {object}  ErrorResponse
// @Failure      403        {object}  ErrorResponse
// @Router       /reports/user-productivity [get]
func (h *ReportHandler) UserProductivity(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	in, err := reportInput(c)
	if err != nil {
		return err
	}
	rows, err := h.reports.UserProductivity(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return list(c, rows)
}
