package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/salesdesk/crm-api/internal/core/ports"
)

// HeaderIdempotencyKey carries the client's idempotency key on create requests.
const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderReplayed       = "Idempotent-Replayed"
)

// Envelope is the body of every successful response.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Count      *int        `json:"count,omitempty"`
	Data       any         `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// ErrorResponse is the body of every 4xx/5xx response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func okMessage(c echo.Context, msg string) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Message: msg})
}

func list[T any](c echo.Context, items []T) error {
	n := len(items)
	return c.JSON(http.StatusOK, Envelope{Success: true, Count: &n, Data: items})
}

func page[T any](c echo.Context, p *ports.Page[T]) error {
	n := len(p.Items)
	return c.JSON(http.StatusOK, Envelope{
		Success: true,
		Count:   &n,
		Data:    p.Items,
		Pagination: &Pagination{
			Page:  p.Page,
			Limit: p.Limit,
			Total: p.Total,
			Pages: p.TotalPages,
		},
	})
}

// created answers 201 for a new record and 200 when an idempotency key
// replayed an earlier create.
func created[T any](c echo.Context, res *ports.CreateResult[T]) error {
	if res.Replayed {
		c.Response().Header().Set(HeaderReplayed, "true")
		return c.JSON(http.StatusOK, Envelope{Success: true, Data: res.Record})
	}
	return c.JSON(http.StatusCreated, Envelope{Success: true, Data: res.Record})
}
