package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/salesdesk/crm-api/internal/core/ports"
)

type ActivityHandler struct {
	activities ports.ActivityService
}

func NewActivityHandler(activities ports.ActivityService) *ActivityHandler {
	return &ActivityHandler{activities: activities}
}

// List returns activities visible to the caller, earliest due first.
//
// @Summary      List activities
// @Tags         activities
// @Produce      json
// @Security     BearerAuth
// @Param        type        query     string  false  "Activity type"
// @Param        status      query     string  false  "Activity status"
// @Param        assignedTo  query     string  false  "Owner user id"
// @Param        relatedTo   query     string  false  "Related record kind"
// @Param        priority    query     string  false  "Priority"
// @Param        dueDate     query     string  false  "Due on this day (YYYY-MM-DD)"
// @Param        page        query     int     false  "Page number"
// @Param        limit       query     int     false  "Page size"
// @Success      200         {object}  Envelope
// @Failure      400         {object}  ErrorResponse
// @Failure      403         {object}  ErrorResponse
// @Router       /activities [get]
func (h *ActivityHandler) List(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	p, err := pagination(c)
	if err != nil {
		return err
	}
	due, err := dateParam(c, "dueDate")
	if err != nil {
		return err
	}
	filter := ports.ActivityFilter{
		RecordScope: ports.RecordScope{AssignedTo: c.QueryParam("assignedTo")},
		Type:        c.QueryParam("type"),
		Status:      c.QueryParam("status"),
		RelatedTo:   c.QueryParam("relatedTo"),
		Priority:    c.QueryParam("priority"),
		DueDate:     due,
		Pagination:  p,
	}
	res, err := h.activities.List(c.Request().Context(), id, filter)
	if err != nil {
		return err
	}
	return page(c, res)
}

// Get returns a single activity.
//
// @Summary      Get an activity
// @Tags         activities
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Activity ID"
// @Success      200  {object}  Envelope
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /activities/{id} [get]
func (h *ActivityHandler) Get(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	activity, err := h.activities.Get(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, activity)
}

// Create stores a new activity.
//
// @Summary      Create an activity
// @Tags         activities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                 false  "Replays an earlier create"
// @Param        body             body      createActivityRequest  true   "Activity"
// @Success      201              {object}  Envelope
// @Success      200              {object}  Envelope  "Replayed create"
// @Failure      400              {object}  ErrorResponse
// @Failure      403              {object}  ErrorResponse
// @Router       /activities [post]
func (h *ActivityHandler) Create(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req createActivityRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	res, err := h.activities.Create(c.Request().Context(), id, req.toDomain(), c.Request().Header.Get(HeaderIdempotencyKey))
	if err != nil {
		return err
	}
	return created(c, res)
}

// Update applies a partial update to an activity.
//
// @Summary      Update an activity
// @Tags         activities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Activity ID"
// @Param        body  body      updateActivityRequest  true  "Fields to change"
// @Success      200   {object}  Envelope
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /activities/{id} [put]
func (h *ActivityHandler) Update(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req updateActivityRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	activity, err := h.activities.Update(c.Request().Context(), id, c.Param("id"), req.toPatch())
	if err != nil {
		return err
	}
	return ok(c, activity)
}

// Delete removes an activity.
//
// @Summary      Delete an activity
// @Tags         activities
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Activity ID"
// @Success      200  {object}  Envelope
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /activities/{id} [delete]
func (h *ActivityHandler) Delete(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.activities.Delete(c.Request().Context(), id, c.Param("id")); err != nil {
		return err
	}
	return okMessage(c, "Activity deleted successfully")
}

// UpcomingReminders lists open activities whose reminder is due.
//
// @Summary      Due reminders
// @Tags         activities
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope
// @Failure      403  {object}  ErrorResponse
// @Router       /activities/upcoming/reminders [get]
func (h *ActivityHandler) UpcomingReminders(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	activities, err := h.activities.UpcomingReminders(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return list(c, activities)
}
