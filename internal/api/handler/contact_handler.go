package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/salesdesk/crm-api/internal/core/ports"
)

type ContactHandler struct {
	contacts ports.ContactService
}

func NewContactHandler(contacts ports.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// List returns contacts in the caller's organization.
//
// @Summary      List contacts
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Param        account  query     string  false  "Account ID"
// @Param        search   query     string  false  "Matches first name, last name or email"
// @Param        page     query     int     false  "Page number"
// @Param        limit    query     int     false  "Page size"
// @Success      200      {object}  Envelope
// @Failure      403      {object}  ErrorResponse
// @Router       /contacts [get]
func (h *ContactHandler) List(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	p, err := pagination(c)
	if err != nil {
		return err
	}
	filter := ports.ContactFilter{
		AccountID:  c.QueryParam("account"),
		Search:     c.QueryParam("search"),
		Pagination: p,
	}
	res, err := h.contacts.List(c.Request().Context(), id, filter)
	if err != nil {
		return err
	}
	return page(c, res)
}

// Get returns a single contact.
//
// @Summary      Get a contact
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Contact ID"
// @Success      200  {object}  Envelope
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /contacts/{id} [get]
func (h *ContactHandler) Get(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	contact, err := h.contacts.Get(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, contact)
}

// Create stores a new contact.
//
// @Summary      Create a contact
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                false  "Replays an earlier create"
// @Param        body             body      createContactRequest  true   "Contact"
// @Success      201              {object}  Envelope
// @Success      200              {object}  Envelope  "Replayed create"
// @Failure      400              {object}  ErrorResponse
// @Failure      403              {object}  ErrorResponse
// @Router       /contacts [post]
func (h *ContactHandler) Create(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req createContactRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	res, err := h.contacts.Create(c.Request().Context(), id, req.toDomain(), c.Request().Header.Get(HeaderIdempotencyKey))
	if err != nil {
		return err
	}
	return created(c, res)
}

// Update applies a partial update to a contact.
//
// @Summary      Update a contact
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Contact ID"
// @Param        body  body      updateContactRequest  true  "Fields to change"
// @Success      200   {object}  Envelope
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /contacts/{id} [put]
func (h *ContactHandler) Update(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req updateContactRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	contact, err := h.contacts.Update(c.Request().Context(), id, c.Param("id"), req.toPatch())
	if err != nil {
		return err
	}
	return ok(c, contact)
}

// Delete removes a contact. Managers and administrators only.
//
// @Summary      Delete a contact
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Contact ID"
// @Success      200  {object}  Envelope
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /contacts/{id} [delete]
func (h *ContactHandler) Delete(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.contacts.Delete(c.Request().Context(), id, c.Param("id")); err != nil {
		return err
	}
	return okMessage(c, "Contact deleted successfully")
}
