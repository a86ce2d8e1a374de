package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/salesdesk/crm-api/internal/core/ports"
)

type AccountHandler struct {
	accounts ports.AccountService
}

func NewAccountHandler(accounts ports.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// List returns accounts visible to the caller.
//
// @Summary      List accounts
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        type        query     string  false  "Account type"
// @Param        status      query     string  false  "Account status"
// @Param        industry    query     string  false  "Industry"
// @Param        assignedTo  query     string  false  "Owner user id"
// @Param        search      query     string  false  "Matches name"
// @Param        page        query     int     false  "Page number"
// @Param        limit       query     int     false  "Page size"
// @Success      200         {object}  Envelope
// @Failure      403         {object}  ErrorResponse
// @Router       /accounts [get]
func (h *AccountHandler) List(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	p, err := pagination(c)
	if err != nil {
		return err
	}
	filter := ports.AccountFilter{
		RecordScope: ports.RecordScope{AssignedTo: c.QueryParam("assignedTo")},
		Type:        c.QueryParam("type"),
		Status:      c.QueryParam("status"),
		Industry:    c.QueryParam("industry"),
		Search:      c.QueryParam("search"),
		Pagination:  p,
	}
	res, err := h.accounts.List(c.Request().Context(), id, filter)
	if err != nil {
		return err
	}
	return page(c, res)
}

// Get returns a single account.
//
// @Summary      Get an account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account ID"
// @Success      200  {object}  Envelope
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /accounts/{id} [get]
func (h *AccountHandler) Get(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	account, err := h.accounts.Get(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, account)
}

// Create stores a new account.
//
// @Summary      Create an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                false  "Replays an earlier create"
// @Param        body             body      createAccountRequest  true   "Account"
// @Success      201              {object}  Envelope
// @Success      200              {object}  Envelope  "Replayed create"
// @Failure      400              {object}  ErrorResponse
// @Failure      403              {object}  ErrorResponse
// @Router       /accounts [post]
func (h *AccountHandler) Create(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req createAccountRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	res, err := h.accounts.Create(c.Request().Context(), id, req.toDomain(), c.Request().Header.Get(HeaderIdempotencyKey))
	if err != nil {
		return err
	}
	return created(c, res)
}

// Update applies a partial update to an account.
//
// @Summary      Update an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Account ID"
// @Param        body  body      updateAccountRequest  true  "Fields to change"
// @Success      200   {object}  Envelope
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /accounts/{id} [put]
func (h *AccountHandler) Update(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req updateAccountRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	account, err := h.accounts.Update(c.Request().Context(), id, c.Param("id"), req.toPatch())
	if err != nil {
		return err
	}
	return ok(c, account)
}

// Delete removes an account.
//
// @Summary      Delete an account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account ID"
// @Success      200  {object}  Envelope
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /accounts/{id} [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.accounts.Delete(c.Request().Context(), id, c.Param("id")); err != nil {
		return err
	}
	return okMessage(c, "Account deleted successfully")
}
