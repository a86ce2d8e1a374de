package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/salesdesk/crm-api/internal/core/ports"
)

type DealHandler struct {
	deals ports.DealService
}

func NewDealHandler(deals ports.DealService) *DealHandler {
	return &DealHandler{deals: deals}
}

// List returns deals visible to the caller.
//
// @Summary      List deals
// @Tags         deals
// @Produce      json
// @Security     BearerAuth
// @Param        stage       query     string  false  "Pipeline stage"
// @Param        assignedTo  query     string  false  "Owner user id"
// @Param        search      query     string  false  "Matches deal name or description"
// @Param        page        query     int     false  "Page number"
// @Param        limit       query     int     false  "Page size"
// @Success      200         {object}  Envelope
// @Failure      401         {object}  ErrorResponse
// @Failure      403         {object}  ErrorResponse
// @Router       /deals [get]
func (h *DealHandler) List(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	p, err := pagination(c)
	if err != nil {
		return err
	}
	filter := ports.DealFilter{
		RecordScope: ports.RecordScope{AssignedTo: c.QueryParam("assignedTo")},
		Stage:       c.QueryParam("stage"),
		Search:      c.QueryParam("search"),
		Pagination:  p,
	}
	res, err := h.deals.List(c.Request().Context(), id, filter)
	if err != nil {
		return err
	}
	return page(c, res)
}

// Get returns a single deal.
//
// @Summary      Get a deal
// @Tags         deals
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Deal ID"
// @Success      200  {object}  Envelope
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /deals/{id} [get]
func (h *DealHandler) Get(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	deal, err := h.deals.Get(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, deal)
}

// Create stores a new deal.
//
// @Summary      Create a deal
// @Tags         deals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Replays an earlier create"
// @Param        body             body      createDealRequest  true   "Deal"
// @Success      201              {object}  Envelope
// @Success      200              {object}  Envelope  "Replayed create"
// @Failure      400              {object}  ErrorResponse
// @Failure      403              {object}  ErrorResponse
// @Router       /deals [post]
func (h *DealHandler) Create(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req createDealRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	res, err := h.deals.Create(c.Request().Context(), id, req.toDomain(), c.Request().Header.Get(HeaderIdempotencyKey))
	if err != nil {
		return err
	}
	return created(c, res)
}

// Update applies a partial update to a deal.
//
// @Summary      Update a deal
// @Tags         deals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Deal ID"
// @Param        body  body      updateDealRequest  true  "Fields to change"
// @Success      200   {object}  Envelope
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /deals/{id} [put]
func (h *DealHandler) Update(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req updateDealRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	deal, err := h.deals.Update(c.Request().Context(), id, c.Param("id"), req.toPatch())
	if err != nil {
		return err
	}
	return ok(c, deal)
}

// Delete removes a deal.
//
// @Summary      Delete a deal
// @Tags         deals
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Deal ID"
// @Success      200  {object}  Envelope
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /deals/{id} [delete]
func (h *DealHandler) Delete(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.deals.Delete(c.Request().Context(), id, c.Param("id")); err != nil {
		return err
	}
	return okMessage(c, "Deal deleted successfully")
}

// PipelineSummary groups the caller's visible deals by stage.
//
// @Summary      Deal pipeline summary
// @Tags         deals
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope
// @Failure      403  {object}  ErrorResponse
// @Router       /deals/pipeline/summary [get]
func (h *DealHandler) PipelineSummary(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	stages, err := h.deals.PipelineSummary(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, stages)
}
