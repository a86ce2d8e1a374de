package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/salesdesk/crm-api/internal/core/ports"
)

type LeadHandler struct {
	leads ports.LeadService
}

func NewLeadHandler(leads ports.LeadService) *LeadHandler {
	return &LeadHandler{leads: leads}
}

// List returns leads visible to the caller.
//
// @Summary      List leads
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        status      query     string  false  "Lead status"
// @Param        source      query     string  false  "Lead source"
// @Param        assignedTo  query     string  false  "Owner user id"
// @Param        search      query     string  false  "Matches name, company or email"
// @Param        page        query     int     false  "Page number"
// @Param        limit       query     int     false  "Page size"
// @Success      200         {object}  Envelope
// @Failure      401         {object}  ErrorResponse
// @Failure      403         {object}  ErrorResponse
// @Router       /leads [get]
func (h *LeadHandler) List(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	p, err := pagination(c)
	if err != nil {
		return err
	}
	filter := ports.LeadFilter{
		RecordScope: ports.RecordScope{AssignedTo: c.QueryParam("assignedTo")},
		Status:      c.QueryParam("status"),
		Source:      c.QueryParam("source"),
		Search:      c.QueryParam("search"),
		Pagination:  p,
	}
	res, err := h.leads.List(c.Request().Context(), id, filter)
	if err != nil {
		return err
	}
	return page(c, res)
}

// Get returns a single lead.
//
// @Summary      Get a lead
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Lead ID"
// @Success      200  {object}  Envelope
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /leads/{id} [get]
func (h *LeadHandler) Get(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	lead, err := h.leads.Get(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, lead)
}

// Create stores a new lead.
//
// @Summary      Create a lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Replays an earlier create"
// @Param        body             body      createLeadRequest  true   "Lead"
// @Success      201              {object}  Envelope
// @Success      200              {object}  Envelope  "Replayed create"
// @Failure      400              {object}  ErrorResponse
// @Failure      403              {object}  ErrorResponse
// @Router       /leads [post]
func (h *LeadHandler) Create(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req createLeadRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	res, err := h.leads.Create(c.Request().Context(), id, req.toDomain(), c.Request().Header.Get(HeaderIdempotencyKey))
	if err != nil {
		return err
	}
	return created(c, res)
}

// Update applies a partial update to a lead.
//
// @Summary      Update a lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Lead ID"
// @Param        body  body      updateLeadRequest  true  "Fields to change"
// @Success      200   {object}  Envelope
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /leads/{id} [put]
func (h *LeadHandler) Update(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req updateLeadRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	lead, err := h.leads.Update(c.Request().Context(), id, c.Param("id"), req.toPatch())
	if err != nil {
		return err
	}
	return ok(c, lead)
}

// Delete removes a lead.
//
// @Summary      Delete a lead
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Lead ID"
// @Success      200  {object}  Envelope
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /leads/{id} [delete]
func (h *LeadHandler) Delete(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.leads.Delete(c.Request().Context(), id, c.Param("id")); err != nil {
		return err
	}
	return okMessage(c, "Lead deleted successfully")
}

// Convert marks a lead as converted to a contact or a deal.
//
// @Summary      Convert a lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Lead ID"
// @Param        body  body      convertLeadRequest  true  "Conversion target"
// @Success      200   {object}  Envelope
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /leads/{id}/convert [post]
func (h *LeadHandler) Convert(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req convertLeadRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	lead, err := h.leads.Convert(c.Request().Context(), id, c.Param("id"), req.ConvertTo)
	if err != nil {
		return err
	}
	return ok(c, lead)
}
