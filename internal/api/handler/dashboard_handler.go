package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/salesdesk/crm-api/internal/core/ports"
)

type DashboardHandler struct {
	dashboard ports.DashboardService
}

func NewDashboardHandler(dashboard ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats returns lead, deal and activity counters.
//
// @Summary      Dashboard statistics
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope
// @Failure      403  {object}  ErrorResponse
// @Router       /dashboard/stats [get]
func (h *DashboardHandler) Stats(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	stats, err := h.dashboard.Stats(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, stats)
}

// Pipeline returns deal counts and values per stage.
//
// @Summary      Dashboard pipeline
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope
// @Failure      403  {object}  ErrorResponse
// @Router       /dashboard/pipeline [get]
func (h *DashboardHandler) Pipeline(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	stages, err := h.dashboard.Pipeline(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, stages)
}

// LeadSources returns the lead count per source.
//
// @Summary      Lead source distribution
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope
// @Failure      403  {object}  ErrorResponse
// @Router       /dashboard/lead-sources [get]
func (h *DashboardHandler) LeadSources(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	sources, err := h.dashboard.LeadSources(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, sources)
}
